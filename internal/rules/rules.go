// Package rules holds the ordered rule configuration that drives file
// classification, along with loading, validation and the built-in defaults.
package rules

import (
	"errors"
	"fmt"
	"os"
	"regexp"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"sigs.k8s.io/yaml"
)

const CurrentVersion = 1

var ErrInvalidConfig = errors.New("invalid rule configuration")

type Role string

const (
	RolePrimary Role = "primary"
	RoleRelated Role = "related"
	RoleNoise   Role = "noise"
)

func (r Role) valid() bool {
	switch r {
	case RolePrimary, RoleRelated, RoleNoise:
		return true
	}
	return false
}

type Metric string

const (
	MetricChangedLines Metric = "changedLines"
	MetricAddedLines   Metric = "addedLines"
	MetricFileCount    Metric = "fileCount"
)

func (m Metric) valid() bool {
	switch m {
	case MetricChangedLines, MetricAddedLines, MetricFileCount:
		return true
	}
	return false
}

type Match struct {
	PathGlobs      []string `json:"pathGlobs,omitempty"`
	ContentPattern string   `json:"contentPattern,omitempty"`
}

type Behavior struct {
	Role          Role `json:"role"`
	Omit          bool `json:"omit,omitempty"`
	PriorityBoost int  `json:"priorityBoost,omitempty"`
}

type Rule struct {
	ID       string   `json:"id"`
	Label    string   `json:"label"`
	Match    Match    `json:"match"`
	Behavior Behavior `json:"behavior"`
}

// DisplayLabel is the label used to group related files, falling back to the
// rule id when no label was configured.
func (r Rule) DisplayLabel() string {
	if r.Label != "" {
		return r.Label
	}
	return r.ID
}

// MatchesPath reports whether any of the rule's path globs match filePath.
func (r Rule) MatchesPath(filePath string) bool {
	for _, pattern := range r.Match.PathGlobs {
		if MatchPath(pattern, filePath) {
			return true
		}
	}
	return false
}

type PrimaryDetection struct {
	ExcludeRoles []Role `json:"excludeRoles"`
	Metric       Metric `json:"metric,omitempty"`
}

// Config is the rule configuration document.
type Config struct {
	Version          int               `json:"version"`
	Rules            []Rule            `json:"rules"`
	PrimaryDetection *PrimaryDetection `json:"primaryDetection,omitempty"`
}

// ExcludeRoles returns the roles that are never promoted to primary. An
// explicitly empty list excludes nothing; an absent one defaults to noise.
func (c Config) ExcludeRoles() []Role {
	if c.PrimaryDetection == nil || c.PrimaryDetection.ExcludeRoles == nil {
		return []Role{RoleNoise}
	}
	return c.PrimaryDetection.ExcludeRoles
}

// ScoreMetric returns the configured promotion metric, changedLines by default.
func (c Config) ScoreMetric() Metric {
	if c.PrimaryDetection == nil || c.PrimaryDetection.Metric == "" {
		return MetricChangedLines
	}
	return c.PrimaryDetection.Metric
}

// Load reads a YAML or JSON rule document from path.
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("read rules %s: %w", path, err)
	}
	cfg, err := Parse(data)
	if err != nil {
		return Config{}, fmt.Errorf("parse rules %s: %w", path, err)
	}
	return cfg, nil
}

// Parse decodes and validates a rule document. Unknown fields are rejected.
func Parse(data []byte) (Config, error) {
	var cfg Config
	if err := yaml.UnmarshalStrict(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	if cfg.Version == 0 {
		cfg.Version = CurrentVersion
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Marshal renders the configuration as YAML.
func (c Config) Marshal() ([]byte, error) {
	return yaml.Marshal(c)
}

// Validate checks the whole document and reports every problem at once.
func (c Config) Validate() error {
	var problems []string
	if c.Version != CurrentVersion {
		problems = append(problems, fmt.Sprintf("unsupported version %d", c.Version))
	}

	seen := make(map[string]struct{}, len(c.Rules))
	for i, r := range c.Rules {
		name := r.ID
		if name == "" {
			name = fmt.Sprintf("#%d", i)
			problems = append(problems, fmt.Sprintf("rule %s: missing id", name))
		} else if _, dup := seen[r.ID]; dup {
			problems = append(problems, fmt.Sprintf("rule %s: duplicate id", name))
		}
		seen[r.ID] = struct{}{}

		if !r.Behavior.Role.valid() {
			problems = append(problems, fmt.Sprintf("rule %s: unknown role %q", name, r.Behavior.Role))
		}
		if len(r.Match.PathGlobs) == 0 && r.Match.ContentPattern == "" {
			problems = append(problems, fmt.Sprintf("rule %s: needs pathGlobs or contentPattern", name))
		}
		for _, g := range r.Match.PathGlobs {
			if !doublestar.ValidatePattern(g) {
				problems = append(problems, fmt.Sprintf("rule %s: bad glob %q", name, g))
			}
		}
		if r.Match.ContentPattern != "" {
			if _, err := regexp.Compile(r.Match.ContentPattern); err != nil {
				problems = append(problems, fmt.Sprintf("rule %s: %v", name, err))
			}
		}
	}

	if pd := c.PrimaryDetection; pd != nil {
		if pd.Metric != "" && !pd.Metric.valid() {
			problems = append(problems, fmt.Sprintf("unknown metric %q", pd.Metric))
		}
		for _, role := range pd.ExcludeRoles {
			if !role.valid() {
				problems = append(problems, fmt.Sprintf("unknown exclude role %q", role))
			}
		}
	}

	if len(problems) > 0 {
		return fmt.Errorf("%w: %s", ErrInvalidConfig, strings.Join(problems, "; "))
	}
	return nil
}
