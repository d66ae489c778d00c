package gitrepo

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"
	"time"
)

// diffFlags keep the output parseable regardless of user git config.
var diffFlags = []string{"--no-color", "--no-ext-diff", "--find-renames"}

type RepoConfig struct {
	Path    string
	Timeout time.Duration // default: 2m
}

type Repo struct {
	cfg    RepoConfig
	runner Runner
}

func New(cfg RepoConfig) *Repo {
	if cfg.Timeout <= 0 {
		cfg.Timeout = 2 * time.Minute
	}
	return &Repo{cfg: cfg, runner: Runner{Timeout: cfg.Timeout}}
}

type Runner struct {
	Timeout time.Duration
	// Binary defaults to "git".
	Binary string
}

func (r Runner) Git(ctx context.Context, dir string, args ...string) (string, error) {
	bin := r.Binary
	if bin == "" {
		bin = "git"
	}
	c := exec.CommandContext(ctx, bin, args...)
	c.Dir = dir
	var stdout, stderr bytes.Buffer
	c.Stdout = &stdout
	c.Stderr = &stderr
	if err := c.Start(); err != nil {
		return "", formatGitError(args, err, stderr.String())
	}
	done := make(chan error, 1)
	go func() { done <- c.Wait() }()
	select {
	case err := <-done:
		if err != nil {
			return "", formatGitError(args, err, stderr.String())
		}
		return stdout.String(), nil
	case <-time.After(r.Timeout):
		_ = c.Process.Kill()
		<-done
		return "", formatGitTimeoutError(args, r.Timeout, stderr.String())
	case <-ctx.Done():
		_ = c.Process.Kill()
		<-done
		return "", formatGitContextError(args, ctx.Err(), stderr.String())
	}
}

func formatGitError(args []string, cause error, stderr string) error {
	cmd := strings.Join(args, " ")
	stderr = strings.TrimSpace(stderr)
	if stderr != "" {
		return fmt.Errorf("git %s: %w: %s", cmd, cause, stderr)
	}
	return fmt.Errorf("git %s: %w", cmd, cause)
}

func formatGitTimeoutError(args []string, timeout time.Duration, stderr string) error {
	return formatGitError(args, fmt.Errorf("command timed out after %s", timeout), stderr)
}

func formatGitContextError(args []string, cause error, stderr string) error {
	if cause == nil {
		cause = errors.New("context canceled")
	}
	return formatGitError(args, cause, stderr)
}

// Run is a helper to execute arbitrary git subcommands in the repo path.
func (r *Repo) Run(ctx context.Context, args ...string) (string, error) {
	return r.runner.Git(ctx, r.cfg.Path, args...)
}

// StagedDiff returns the diff of the index against HEAD, what the next commit
// would contain.
func (r *Repo) StagedDiff(ctx context.Context) (string, error) {
	return r.diff(ctx, "diff", "--cached")
}

// WorkingDiff returns unstaged changes in tracked files.
func (r *Repo) WorkingDiff(ctx context.Context) (string, error) {
	return r.diff(ctx, "diff")
}

// CommitDiff returns the diff a single commit introduced, without its header.
func (r *Repo) CommitDiff(ctx context.Context, sha string) (string, error) {
	if strings.TrimSpace(sha) == "" {
		return "", fmt.Errorf("commit sha is required")
	}
	return r.diff(ctx, "show", "--format=", sha)
}

// RangeDiff returns the diff between the trees of two revisions (from..to).
func (r *Repo) RangeDiff(ctx context.Context, from, to string) (string, error) {
	if from == "" || to == "" {
		return "", fmt.Errorf("both ends of the range are required")
	}
	return r.diff(ctx, "diff", fmt.Sprintf("%s..%s", from, to))
}

// MergeBaseDiff returns the changes on to since its merge base with from
// (from...to), the change set of a branch against its base.
func (r *Repo) MergeBaseDiff(ctx context.Context, from, to string) (string, error) {
	if from == "" || to == "" {
		return "", fmt.Errorf("both ends of the range are required")
	}
	return r.diff(ctx, "diff", fmt.Sprintf("%s...%s", from, to))
}

func (r *Repo) diff(ctx context.Context, sub string, args ...string) (string, error) {
	full := append([]string{sub}, diffFlags...)
	full = append(full, args...)
	return r.runner.Git(ctx, r.cfg.Path, full...)
}

func (r *Repo) HeadSHA(ctx context.Context) (string, error) {
	out, err := r.runner.Git(ctx, r.cfg.Path, "rev-parse", "HEAD")
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(out), nil
}
