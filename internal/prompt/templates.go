package prompt

import (
	"errors"
	"fmt"
	"strings"
)

type Mode string

const (
	ModeCommit Mode = "commit"
	ModePR     Mode = "pr"
)

var ErrUnknownMode = errors.New("unknown drafting mode")

// ParseMode accepts "commit" or "pr", case-insensitively.
func ParseMode(s string) (Mode, error) {
	switch Mode(strings.ToLower(strings.TrimSpace(s))) {
	case ModeCommit:
		return ModeCommit, nil
	case ModePR:
		return ModePR, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownMode, s)
}

const commitPromptTemplate = `You are writing a git commit message for the change below.

Rules:
- Describe what the primary changes do. Related and summarized sections are context only.
- First line: imperative mood, at most 72 characters, no trailing period.
- Leave one blank line, then a short body explaining the change when it is not obvious.
- Do not invent changes that are not visible in the diff.

<changes>
{{.Text}}
</changes>`

const prPromptTemplate = `You are drafting a pull request description for the change below.

Context:
- Current title: {{.Title}}

Rules:
- Start with a one-line title, then a "## Summary" section of 2-4 bullets.
- Focus on the primary changes; mention related sections only when they matter to a reviewer.
- Summarized files (lock files, generated code) need at most one bullet together.
- Only report what the diff shows.

<changes>
{{.Text}}
</changes>`

// Render wraps the prepared change text in the drafting instructions for mode.
func Render(mode Mode, text, title string) (string, error) {
	var tmpl string
	switch mode {
	case ModeCommit:
		tmpl = commitPromptTemplate
	case ModePR:
		tmpl = prPromptTemplate
		if strings.TrimSpace(title) == "" {
			title = "(none)"
		}
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownMode, mode)
	}
	// single pass so placeholders inside title or text stay literal
	return strings.NewReplacer("{{.Title}}", title, "{{.Text}}", text).Replace(tmpl), nil
}
