// Package prompt renders a classification result into the text handed to the
// language model, and carries the drafting instructions wrapped around it.
package prompt

import (
	"fmt"
	"strings"

	"github.com/roivaz/diffprompt/internal/classify"
)

const (
	primaryHeaderFormat = "## Primary Changes (%s)"
	relatedHeaderFormat = "## Related: %s"
	noiseHeader         = "## Auto-generated / Noise (summary only)"
)

// Build renders result as a prompt. Primary files always keep their full
// content. A related label collapses to one-line summaries only when every
// file under it is marked omit. Noise is always summarized.
func Build(result classify.Result) string {
	var sections []string

	if len(result.Primary) > 0 {
		names := make([]string, 0, len(result.Primary))
		blocks := make([]string, 0, len(result.Primary))
		for _, f := range result.Primary {
			names = append(names, f.Path)
			blocks = append(blocks, f.Content)
		}
		sections = append(sections, fmt.Sprintf(primaryHeaderFormat, strings.Join(names, ", ")))
		sections = append(sections, strings.Join(blocks, "\n\n"))
	}

	for _, label := range result.RelatedLabels() {
		files := result.RelatedFiles(label)
		sections = append(sections, fmt.Sprintf(relatedHeaderFormat, label))
		if RelatedSummarized(files) {
			sections = append(sections, summaries(files))
			continue
		}
		blocks := make([]string, 0, len(files))
		for _, f := range files {
			blocks = append(blocks, f.Content)
		}
		sections = append(sections, strings.Join(blocks, "\n\n"))
	}

	if len(result.Noise) > 0 {
		sections = append(sections, noiseHeader, summaries(result.Noise))
	}

	return strings.Join(sections, "\n")
}

// Summary is the one-line form of a file: "<path> (<type>, +<add> -<del>)".
func Summary(f classify.ClassifiedFile) string {
	return fmt.Sprintf("%s (%s, +%d -%d)", f.Path, f.ChangeType, f.Additions, f.Deletions)
}

func summaries(files []classify.ClassifiedFile) string {
	lines := make([]string, 0, len(files))
	for _, f := range files {
		lines = append(lines, Summary(f))
	}
	return strings.Join(lines, "\n")
}

// RelatedSummarized reports whether a related label collapses to summary
// lines: only when every file under it is marked omit.
func RelatedSummarized(files []classify.ClassifiedFile) bool {
	for _, f := range files {
		if !f.Omit {
			return false
		}
	}
	return len(files) > 0
}
