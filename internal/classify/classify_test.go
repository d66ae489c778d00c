package classify

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/roivaz/diffprompt/internal/diff"
	"github.com/roivaz/diffprompt/internal/rules"
)

func file(path string, add, del int) diff.FileChange {
	return diff.FileChange{Path: path, ChangeType: diff.ChangeModify, Additions: add, Deletions: del, Content: "diff --git a/" + path + " b/" + path}
}

func paths(files []ClassifiedFile) []string {
	out := make([]string, 0, len(files))
	for _, f := range files {
		out = append(out, f.Path)
	}
	return out
}

func equal(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func scenarioConfig(docsOmit bool) rules.Config {
	return rules.Config{
		Version: 1,
		Rules: []rules.Rule{
			{ID: "src", Label: "Source", Match: rules.Match{PathGlobs: []string{"src/**"}}, Behavior: rules.Behavior{Role: rules.RolePrimary, PriorityBoost: 3}},
			{ID: "docs", Label: "Documentation", Match: rules.Match{PathGlobs: []string{"**/*.md"}}, Behavior: rules.Behavior{Role: rules.RoleRelated, Omit: docsOmit}},
		},
	}
}

func TestClassify_EndToEndScenario(t *testing.T) {
	files := []diff.FileChange{file("src/index.ts", 10, 2), file("README.md", 1, 1)}
	result, err := Classify(files, scenarioConfig(false))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := paths(result.Primary); !equal(got, []string{"src/index.ts"}) {
		t.Fatalf("unexpected primary %v", got)
	}
	if got := result.RelatedLabels(); !equal(got, []string{"Documentation"}) {
		t.Fatalf("unexpected related labels %v", got)
	}
	if got := paths(result.RelatedFiles("Documentation")); !equal(got, []string{"README.md"}) {
		t.Fatalf("unexpected documentation files %v", got)
	}
	if len(result.Noise) != 0 {
		t.Fatalf("expected no noise, got %v", paths(result.Noise))
	}
	primary := result.Primary[0]
	if primary.Score != 15 || primary.RuleID != "src" || !primary.IsPrimary {
		t.Fatalf("unexpected primary record %+v", primary)
	}
}

func TestClassify_TiePromotesAll(t *testing.T) {
	files := []diff.FileChange{file("a.go", 6, 4), file("b.go", 10, 0), file("c.go", 1, 0)}
	result, err := Classify(files, rules.Config{Version: 1})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := paths(result.Primary); !equal(got, []string{"a.go", "b.go"}) {
		t.Fatalf("expected both tied files primary, got %v", got)
	}
	// the loser keeps its primary role but is grouped as related context
	if got := paths(result.RelatedFiles(DefaultLabel)); !equal(got, []string{"c.go"}) {
		t.Fatalf("expected c.go under %s, got %v", DefaultLabel, got)
	}
}

func TestClassify_NoiseNeverPromoted(t *testing.T) {
	cfg := rules.Config{Version: 1, Rules: []rules.Rule{
		{ID: "lock", Label: "Lock files", Match: rules.Match{PathGlobs: []string{"*.lock"}}, Behavior: rules.Behavior{Role: rules.RoleNoise}},
	}}
	files := []diff.FileChange{file("yarn.lock", 900, 800), file("src/app.ts", 3, 1)}
	result, err := Classify(files, cfg)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := paths(result.Primary); !equal(got, []string{"src/app.ts"}) {
		t.Fatalf("unexpected primary %v", got)
	}
	if got := paths(result.Noise); !equal(got, []string{"yarn.lock"}) {
		t.Fatalf("unexpected noise %v", got)
	}
	if result.Noise[0].Score != -1 {
		t.Fatalf("excluded file should score -1, got %d", result.Noise[0].Score)
	}
}

func TestClassify_EmptyPrimary(t *testing.T) {
	cfg := rules.Config{Version: 1, Rules: []rules.Rule{
		{ID: "all", Label: "Everything", Match: rules.Match{PathGlobs: []string{"**"}}, Behavior: rules.Behavior{Role: rules.RoleNoise}},
	}}
	result, err := Classify([]diff.FileChange{file("a", 1, 1), file("b/c", 2, 2)}, cfg)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(result.Primary) != 0 {
		t.Fatalf("expected empty primary, got %v", paths(result.Primary))
	}
	if len(result.Noise) != 2 {
		t.Fatalf("expected 2 noise files, got %d", len(result.Noise))
	}
}

func TestClassify_NoFiles(t *testing.T) {
	result, err := Classify(nil, rules.Default())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(result.Primary) != 0 || result.Related.Len() != 0 || len(result.Noise) != 0 {
		t.Fatalf("expected empty result")
	}
}

func TestClassify_Metrics(t *testing.T) {
	files := []diff.FileChange{file("a.go", 1, 20), file("b.go", 5, 0)}

	cases := []struct {
		metric rules.Metric
		want   []string
	}{
		{rules.MetricChangedLines, []string{"a.go"}},
		{rules.MetricAddedLines, []string{"b.go"}},
		{rules.MetricFileCount, []string{"a.go", "b.go"}},
	}
	for _, tc := range cases {
		t.Run(string(tc.metric), func(t *testing.T) {
			cfg := rules.Config{Version: 1, PrimaryDetection: &rules.PrimaryDetection{Metric: tc.metric}}
			result, err := Classify(files, cfg)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got := paths(result.Primary); !equal(got, tc.want) {
				t.Fatalf("got %v, want %v", got, tc.want)
			}
		})
	}
}

func TestClassify_FileCountBoostDecides(t *testing.T) {
	cfg := rules.Config{
		Version: 1,
		Rules: []rules.Rule{
			{ID: "api", Label: "API", Match: rules.Match{PathGlobs: []string{"api/**"}}, Behavior: rules.Behavior{Role: rules.RoleRelated, PriorityBoost: 2}},
		},
		PrimaryDetection: &rules.PrimaryDetection{Metric: rules.MetricFileCount},
	}
	files := []diff.FileChange{file("main.go", 100, 100), file("api/types.go", 1, 0)}
	result, err := Classify(files, cfg)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := paths(result.Primary); !equal(got, []string{"api/types.go"}) {
		t.Fatalf("expected boosted file primary, got %v", got)
	}
	if result.Primary[0].Role != rules.RolePrimary {
		t.Fatalf("promoted file role should be forced to primary, got %s", result.Primary[0].Role)
	}
}

func TestClassify_ContentPatternOnlyWhenNoGlob(t *testing.T) {
	cfg := rules.Config{Version: 1, Rules: []rules.Rule{
		{ID: "gen", Label: "Generated", Match: rules.Match{ContentPattern: `DO NOT EDIT`}, Behavior: rules.Behavior{Role: rules.RoleNoise}},
	}}
	gen := file("api/zz.go", 50, 0)
	gen.Content += "\n+// Code generated by tool. DO NOT EDIT."
	result, err := Classify([]diff.FileChange{gen, file("main.go", 1, 0)}, cfg)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := paths(result.Noise); !equal(got, []string{"api/zz.go"}) {
		t.Fatalf("expected content match to mark noise, got %v", got)
	}
}

func TestClassify_FirstMatchWins(t *testing.T) {
	cfg := rules.Config{Version: 1, Rules: []rules.Rule{
		{ID: "first", Label: "First", Match: rules.Match{PathGlobs: []string{"*.md"}}, Behavior: rules.Behavior{Role: rules.RoleRelated}},
		{ID: "second", Label: "Second", Match: rules.Match{PathGlobs: []string{"docs/**"}}, Behavior: rules.Behavior{Role: rules.RoleNoise}},
	}}
	result, err := Classify([]diff.FileChange{file("main.go", 5, 5), file("docs/a.md", 1, 0)}, cfg)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	files := result.RelatedFiles("First")
	if len(files) != 1 || files[0].RuleID != "first" {
		t.Fatalf("expected first rule to win, got %+v", result.RelatedLabels())
	}
}

func TestClassify_RelatedInsertionOrder(t *testing.T) {
	cfg := rules.Config{Version: 1, Rules: []rules.Rule{
		{ID: "z", Label: "Zeta", Match: rules.Match{PathGlobs: []string{"z/**"}}, Behavior: rules.Behavior{Role: rules.RoleRelated}},
		{ID: "a", Label: "Alpha", Match: rules.Match{PathGlobs: []string{"a/**"}}, Behavior: rules.Behavior{Role: rules.RoleRelated}},
	}}
	files := []diff.FileChange{file("main.go", 50, 0), file("z/1", 1, 0), file("a/1", 1, 0), file("z/2", 1, 0)}
	result, err := Classify(files, cfg)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := result.RelatedLabels(); !equal(got, []string{"Zeta", "Alpha"}) {
		t.Fatalf("expected first-insertion order, got %v", got)
	}
	if got := paths(result.RelatedFiles("Zeta")); !equal(got, []string{"z/1", "z/2"}) {
		t.Fatalf("unexpected Zeta files %v", got)
	}
	groups := result.RelatedGroups()
	if len(groups) != 2 || groups[0].Label != "Zeta" || len(groups[0].Files) != 2 || groups[1].Label != "Alpha" {
		t.Fatalf("unexpected groups %+v", groups)
	}
}

func TestClassify_Deterministic(t *testing.T) {
	files := []diff.FileChange{
		file("src/a.ts", 4, 4), file("README.md", 1, 1), file("yarn.lock", 10, 10),
		file("src/b.ts", 8, 0), file("docs/x.md", 2, 0), file("main_test.go", 3, 0),
	}
	first, err := Classify(files, rules.Default())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want, err := json.Marshal(first)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	for i := 0; i < 20; i++ {
		again, err := Classify(files, rules.Default())
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		got, err := json.Marshal(again)
		if err != nil {
			t.Fatalf("marshal: %v", err)
		}
		if string(got) != string(want) {
			t.Fatalf("run %d differs:\n%s\n%s", i, got, want)
		}
	}
}

func TestClassify_InvalidPattern(t *testing.T) {
	cfg := rules.Config{Version: 1, Rules: []rules.Rule{
		{ID: "bad", Match: rules.Match{ContentPattern: "(?<=x)"}, Behavior: rules.Behavior{Role: rules.RoleNoise}},
	}}
	_, err := Classify([]diff.FileChange{file("a", 1, 0)}, cfg)
	if !errors.Is(err, rules.ErrInvalidConfig) {
		t.Fatalf("expected ErrInvalidConfig, got %v", err)
	}
}

func TestClassify_UnknownMetric(t *testing.T) {
	cfg := rules.Config{Version: 1, PrimaryDetection: &rules.PrimaryDetection{Metric: "bytes"}}
	if _, err := Classify(nil, cfg); !errors.Is(err, rules.ErrInvalidConfig) {
		t.Fatalf("expected ErrInvalidConfig, got %v", err)
	}
}

func TestClassify_NegativeBoostIneligible(t *testing.T) {
	cfg := rules.Config{Version: 1, Rules: []rules.Rule{
		{ID: "demote", Label: "Demoted", Match: rules.Match{PathGlobs: []string{"*.txt"}}, Behavior: rules.Behavior{Role: rules.RoleRelated, PriorityBoost: -100}},
	}}
	result, err := Classify([]diff.FileChange{file("notes.txt", 5, 5)}, cfg)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(result.Primary) != 0 {
		t.Fatalf("negative score must not be promoted, got %v", paths(result.Primary))
	}
}
