package main

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/roivaz/diffprompt/internal/config"
	"github.com/roivaz/diffprompt/internal/gitrepo"
	"github.com/roivaz/diffprompt/internal/source"
)

type input struct {
	text  string
	title string
}

func addInputFlags(cmd *cobra.Command) {
	f := cmd.Flags()
	f.StringP("file", "f", "-", "Read the diff from a file ('-' for stdin)")
	f.Bool("staged", false, "Use the staged changes of the repository")
	f.Bool("working", false, "Use the unstaged changes of the repository")
	f.String("commit", "", "Use the changes introduced by a commit")
	f.String("range", "", "Use the changes between two revisions (from..to, or from...to for changes since the merge base)")
	f.Int("pr", 0, "Use the diff of a GitHub pull request (requires --repo)")
	f.String("repo", "", "GitHub repository (owner/name or URL) for --pr")
	f.String("repo-path", ".", "Local git repository for --staged, --working, --commit and --range")
}

// readInput resolves the diff source from flags. Without any source flag the
// diff is read from --file.
func readInput(cmd *cobra.Command) (input, error) {
	f := cmd.Flags()
	ctx := cmd.Context()
	staged, _ := f.GetBool("staged")
	working, _ := f.GetBool("working")
	commit, _ := f.GetString("commit")
	rng, _ := f.GetString("range")
	pr, _ := f.GetInt("pr")
	repoPath, _ := f.GetString("repo-path")

	repo := gitrepo.New(gitrepo.RepoConfig{Path: repoPath})
	var (
		text string
		err  error
	)
	switch {
	case pr > 0:
		name, _ := f.GetString("repo")
		if name == "" {
			return input{}, errors.New("--pr requires --repo")
		}
		gh := source.NewGitHub(source.NewGitHubClient(config.GitHubToken()), logger().Logr())
		pull, err := gh.PullRequestDiff(ctx, name, pr)
		if err != nil {
			return input{}, err
		}
		return input{text: pull.Diff, title: pull.Title}, nil
	case staged:
		text, err = repo.StagedDiff(ctx)
	case working:
		text, err = repo.WorkingDiff(ctx)
	case commit != "":
		text, err = repo.CommitDiff(ctx, commit)
	case rng != "":
		if from, to, ok := strings.Cut(rng, "..."); ok {
			text, err = repo.MergeBaseDiff(ctx, from, to)
			break
		}
		from, to, ok := strings.Cut(rng, "..")
		if !ok || from == "" || to == "" {
			return input{}, fmt.Errorf("invalid range %q, expected from..to or from...to", rng)
		}
		text, err = repo.RangeDiff(ctx, from, to)
	default:
		path, _ := f.GetString("file")
		text, err = source.Read(path, cmd.InOrStdin())
	}
	if err != nil {
		return input{}, err
	}
	return input{text: text}, nil
}
