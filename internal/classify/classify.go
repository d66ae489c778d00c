// Package classify assigns a role to every changed file and selects the
// primary change set.
package classify

import (
	"fmt"
	"regexp"

	orderedmap "github.com/wk8/go-ordered-map/v2"

	"github.com/roivaz/diffprompt/internal/diff"
	"github.com/roivaz/diffprompt/internal/rules"
)

// DefaultLabel groups files no rule matched.
const DefaultLabel = "Source"

type ClassifiedFile struct {
	diff.FileChange
	RuleID    string     `json:"ruleId,omitempty"`
	Label     string     `json:"label"`
	Role      rules.Role `json:"role"`
	Omit      bool       `json:"omit"`
	IsPrimary bool       `json:"isPrimary"`
	Score     int        `json:"-"`
}

// Result partitions classified files. Related keeps labels in first-seen order.
type Result struct {
	Primary []ClassifiedFile                                 `json:"primary"`
	Related *orderedmap.OrderedMap[string, []ClassifiedFile] `json:"related"`
	Noise   []ClassifiedFile                                 `json:"noise"`
}

// RelatedLabels returns the related labels in insertion order.
func (r Result) RelatedLabels() []string {
	if r.Related == nil {
		return nil
	}
	labels := make([]string, 0, r.Related.Len())
	for pair := r.Related.Oldest(); pair != nil; pair = pair.Next() {
		labels = append(labels, pair.Key)
	}
	return labels
}

// RelatedFiles returns the files grouped under label.
func (r Result) RelatedFiles(label string) []ClassifiedFile {
	if r.Related == nil {
		return nil
	}
	files, _ := r.Related.Get(label)
	return files
}

type RelatedGroup struct {
	Label string           `json:"label"`
	Files []ClassifiedFile `json:"files"`
}

// RelatedGroups flattens Related into a list for serializers that would
// otherwise sort map keys.
func (r Result) RelatedGroups() []RelatedGroup {
	labels := r.RelatedLabels()
	groups := make([]RelatedGroup, 0, len(labels))
	for _, label := range labels {
		groups = append(groups, RelatedGroup{Label: label, Files: r.RelatedFiles(label)})
	}
	return groups
}

type compiledRule struct {
	rule    rules.Rule
	content *regexp.Regexp
}

// Classify resolves the first matching rule for each file, scores the files
// and promotes every file sharing the top eligible score to primary. It fails
// only on configuration errors: an invalid content pattern or unknown metric.
func Classify(files []diff.FileChange, cfg rules.Config) (Result, error) {
	compiled, err := compileRules(cfg.Rules)
	if err != nil {
		return Result{}, err
	}
	scorer, err := scorerFor(cfg.ScoreMetric())
	if err != nil {
		return Result{}, err
	}
	excluded := make(map[rules.Role]bool)
	for _, role := range cfg.ExcludeRoles() {
		excluded[role] = true
	}

	classified := make([]ClassifiedFile, 0, len(files))
	best := -1
	for _, f := range files {
		cf, boost := resolve(f, compiled)
		if excluded[cf.Role] {
			cf.Score = -1
		} else {
			cf.Score = scorer(f) + boost
		}
		if cf.Score > best {
			best = cf.Score
		}
		classified = append(classified, cf)
	}

	if best >= 0 {
		for i := range classified {
			if classified[i].Score == best {
				classified[i].Role = rules.RolePrimary
				classified[i].IsPrimary = true
			}
		}
	}

	return partition(classified), nil
}

func compileRules(rs []rules.Rule) ([]compiledRule, error) {
	compiled := make([]compiledRule, 0, len(rs))
	for _, r := range rs {
		cr := compiledRule{rule: r}
		if r.Match.ContentPattern != "" {
			rx, err := regexp.Compile(r.Match.ContentPattern)
			if err != nil {
				return nil, fmt.Errorf("%w: rule %s: %v", rules.ErrInvalidConfig, r.ID, err)
			}
			cr.content = rx
		}
		compiled = append(compiled, cr)
	}
	return compiled, nil
}

func resolve(f diff.FileChange, compiled []compiledRule) (ClassifiedFile, int) {
	for _, cr := range compiled {
		if !cr.matches(f) {
			continue
		}
		role := cr.rule.Behavior.Role
		if role == "" {
			role = rules.RolePrimary
		}
		return ClassifiedFile{
			FileChange: f,
			RuleID:     cr.rule.ID,
			Label:      cr.rule.DisplayLabel(),
			Role:       role,
			Omit:       cr.rule.Behavior.Omit,
		}, cr.rule.Behavior.PriorityBoost
	}
	return ClassifiedFile{FileChange: f, Label: DefaultLabel, Role: rules.RolePrimary}, 0
}

func (cr compiledRule) matches(f diff.FileChange) bool {
	if cr.rule.MatchesPath(f.Path) {
		return true
	}
	return cr.content != nil && cr.content.MatchString(f.Content)
}

func scorerFor(metric rules.Metric) (func(diff.FileChange) int, error) {
	switch metric {
	case rules.MetricChangedLines:
		return func(f diff.FileChange) int { return f.Additions + f.Deletions }, nil
	case rules.MetricAddedLines:
		return func(f diff.FileChange) int { return f.Additions }, nil
	case rules.MetricFileCount:
		return func(diff.FileChange) int { return 1 }, nil
	default:
		return nil, fmt.Errorf("%w: unknown metric %q", rules.ErrInvalidConfig, metric)
	}
}

func partition(classified []ClassifiedFile) Result {
	result := Result{
		Primary: []ClassifiedFile{},
		Related: orderedmap.New[string, []ClassifiedFile](),
		Noise:   []ClassifiedFile{},
	}
	for _, cf := range classified {
		switch {
		case cf.IsPrimary:
			result.Primary = append(result.Primary, cf)
		case cf.Role == rules.RoleNoise:
			result.Noise = append(result.Noise, cf)
		default:
			group, _ := result.Related.Get(cf.Label)
			result.Related.Set(cf.Label, append(group, cf))
		}
	}
	return result
}
