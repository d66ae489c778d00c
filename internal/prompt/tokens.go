package prompt

import (
	"sync"

	"github.com/pkoukk/tiktoken-go"

	"github.com/roivaz/diffprompt/internal/classify"
)

const approxCharsPerToken = 4

var (
	tokenEncoderOnce sync.Once
	tokenEncoder     *tiktoken.Tiktoken

	estimateTokensFunc = defaultEstimateTokens
)

// TokenCounter returns the number of model tokens text occupies.
type TokenCounter func(text string) int

// EstimateTokens approximates how many model tokens text occupies.
func EstimateTokens(text string) int {
	if text == "" {
		return 0
	}
	return estimateTokensFunc(text)
}

func defaultEstimateTokens(text string) int {
	enc := getTokenEncoder()
	if enc != nil {
		tokens := enc.Encode(text, nil, nil)
		if len(tokens) > 0 {
			return len(tokens)
		}
	}
	return max(1, len(text)/approxCharsPerToken)
}

func getTokenEncoder() *tiktoken.Tiktoken {
	tokenEncoderOnce.Do(func() {
		enc, err := tiktoken.GetEncoding("cl100k_base")
		if err != nil {
			return
		}
		tokenEncoder = enc
	})
	return tokenEncoder
}

// Stats summarizes how a result splits across prompt sections.
type Stats struct {
	PrimaryFiles  int
	PrimaryTokens int
	RelatedFiles  int
	RelatedLabels int
	NoiseFiles    int
	OmittedFiles  int
}

// Measure counts files per section and the tokens spent on primary content.
// A nil counter uses EstimateTokens.
func Measure(result classify.Result, count TokenCounter) Stats {
	if count == nil {
		count = EstimateTokens
	}
	stats := Stats{
		PrimaryFiles: len(result.Primary),
		NoiseFiles:   len(result.Noise),
	}
	for _, f := range result.Primary {
		stats.PrimaryTokens += count(f.Content)
	}
	for _, label := range result.RelatedLabels() {
		files := result.RelatedFiles(label)
		stats.RelatedLabels++
		stats.RelatedFiles += len(files)
		if RelatedSummarized(files) {
			stats.OmittedFiles += len(files)
		}
	}
	return stats
}
