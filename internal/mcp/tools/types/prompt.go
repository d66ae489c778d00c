package types

type FileSummary struct {
	Path       string `json:"path"`
	OldPath    string `json:"old_path,omitempty"`
	ChangeType string `json:"change_type"`
	Additions  int    `json:"additions"`
	Deletions  int    `json:"deletions"`
	RuleID     string `json:"rule_id,omitempty"`
	Label      string `json:"label"`
	Omit       bool   `json:"omit"`
}

type RelatedGroup struct {
	Label string        `json:"label"`
	Files []FileSummary `json:"files"`
}

type PromptResult struct {
	Structured   bool           `json:"structured"`
	Prompt       string         `json:"prompt"`
	PromptTokens int            `json:"prompt_tokens"`
	Primary      []FileSummary  `json:"primary"`
	Related      []RelatedGroup `json:"related"`
	Noise        []FileSummary  `json:"noise"`
}

type DraftResult struct {
	Mode             string `json:"mode"`
	Structured       bool   `json:"structured"`
	Text             string `json:"text"`
	PromptTokens     int    `json:"prompt_tokens"`
	CompletionTokens int    `json:"completion_tokens"`
}
