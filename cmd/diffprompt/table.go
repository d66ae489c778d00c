package main

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/fatih/color"

	"github.com/roivaz/diffprompt/internal/classify"
	"github.com/roivaz/diffprompt/internal/prompt"
	"github.com/roivaz/diffprompt/internal/rules"
)

var roleColor = map[rules.Role]*color.Color{
	rules.RolePrimary: color.New(color.FgGreen, color.Bold),
	rules.RoleRelated: color.New(color.FgCyan),
	rules.RoleNoise:   color.New(color.FgYellow),
}

// writeTable prints one row per file in prompt order. The role column is last
// so color escapes do not skew the alignment. "(summary)" marks files the
// prompt shows as a summary line instead of their content.
func writeTable(w io.Writer, result *classify.Result) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "PATH\tCHANGE\tLINES\tLABEL\tROLE")
	row := func(f classify.ClassifiedFile, summarized bool) {
		role := string(f.Role)
		if summarized {
			role += " (summary)"
		}
		if c, ok := roleColor[f.Role]; ok {
			role = c.Sprint(role)
		}
		fmt.Fprintf(tw, "%s\t%s\t+%d -%d\t%s\t%s\n", f.Path, f.ChangeType, f.Additions, f.Deletions, f.Label, role)
	}
	for _, f := range result.Primary {
		row(f, false)
	}
	for _, group := range result.RelatedGroups() {
		summarized := prompt.RelatedSummarized(group.Files)
		for _, f := range group.Files {
			row(f, summarized)
		}
	}
	for _, f := range result.Noise {
		row(f, true)
	}
	return tw.Flush()
}
