package source

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/codeGROOVE-dev/retry"
	vcsurl "github.com/gitsight/go-vcsurl"
	"github.com/go-logr/logr"
	"github.com/google/go-github/v66/github"
	"golang.org/x/oauth2"
)

const (
	maxRetryAttempts  = 4
	initialRetryDelay = 1 * time.Second
	maxRetryDelay     = 20 * time.Second
)

func NewGitHubClient(token string) *github.Client {
	if token == "" {
		return github.NewClient(&http.Client{Timeout: 30 * time.Second})
	}
	ts := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: token})
	tc := oauth2.NewClient(context.Background(), ts)
	tc.Timeout = 30 * time.Second
	return github.NewClient(tc)
}

// PullRequest is the part of a GitHub pull request the drafting flow needs.
type PullRequest struct {
	Owner  string
	Repo   string
	Number int
	Title  string
	Diff   string
}

type GitHub struct {
	client     *github.Client
	log        logr.Logger
	retryDelay time.Duration
}

func NewGitHub(client *github.Client, log logr.Logger) *GitHub {
	return &GitHub{client: client, log: log.WithName("github"), retryDelay: initialRetryDelay}
}

// ParseRepo extracts owner and name from any GitHub remote form
// (https, ssh, git@) or a bare "owner/name".
func ParseRepo(repo string) (owner, name string, err error) {
	trimmed := strings.TrimSpace(repo)
	if parts := strings.Split(trimmed, "/"); len(parts) == 2 && !strings.Contains(trimmed, ":") {
		if parts[0] != "" && parts[1] != "" {
			return parts[0], parts[1], nil
		}
	}
	info, err := vcsurl.Parse(trimmed)
	if err != nil {
		return "", "", fmt.Errorf("parse repository %q: %w", repo, err)
	}
	if info.Host != vcsurl.GitHub {
		return "", "", fmt.Errorf("repository %q is not hosted on GitHub", repo)
	}
	return info.Username, info.Name, nil
}

// PullRequestDiff fetches the title and unified diff of a pull request.
func (g *GitHub) PullRequestDiff(ctx context.Context, repo string, number int) (PullRequest, error) {
	if number <= 0 {
		return PullRequest{}, fmt.Errorf("pull request number must be positive")
	}
	owner, name, err := ParseRepo(repo)
	if err != nil {
		return PullRequest{}, err
	}

	var pr *github.PullRequest
	err = g.withRetry(ctx, "get pull request", func() error {
		var err error
		pr, _, err = g.client.PullRequests.Get(ctx, owner, name, number)
		return err
	})
	if err != nil {
		return PullRequest{}, fmt.Errorf("get pull request %s/%s#%d: %w", owner, name, number, err)
	}
	var raw string
	err = g.withRetry(ctx, "get pull request diff", func() error {
		var err error
		raw, _, err = g.client.PullRequests.GetRaw(ctx, owner, name, number, github.RawOptions{Type: github.Diff})
		return err
	})
	if err != nil {
		return PullRequest{}, fmt.Errorf("get pull request diff %s/%s#%d: %w", owner, name, number, err)
	}

	return PullRequest{
		Owner:  owner,
		Repo:   name,
		Number: pr.GetNumber(),
		Title:  pr.GetTitle(),
		Diff:   raw,
	}, nil
}

// withRetry retries rate limits, server errors and network failures with
// exponential backoff. Client errors fail immediately.
func (g *GitHub) withRetry(ctx context.Context, operation string, fn func() error) error {
	return retry.Do(
		fn,
		retry.Context(ctx),
		retry.Attempts(maxRetryAttempts),
		retry.Delay(g.retryDelay),
		retry.MaxDelay(maxRetryDelay),
		retry.DelayType(retry.CombineDelay(retry.BackOffDelay, retry.RandomDelay)),
		retry.MaxJitter(g.retryDelay/4),
		retry.OnRetry(func(n uint, err error) {
			g.log.Info("retrying GitHub call", "operation", operation, "attempt", n+1, "max_attempts", maxRetryAttempts, "error", err)
		}),
		retry.LastErrorOnly(true),
		retry.RetryIf(retryable),
	)
}

func retryable(err error) bool {
	var rateErr *github.RateLimitError
	var abuseErr *github.AbuseRateLimitError
	if errors.As(err, &rateErr) || errors.As(err, &abuseErr) {
		return true
	}
	var respErr *github.ErrorResponse
	if errors.As(err, &respErr) {
		return respErr.Response != nil && respErr.Response.StatusCode >= http.StatusInternalServerError
	}
	var netErr net.Error
	return errors.As(err, &netErr)
}
