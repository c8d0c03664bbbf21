package relay

import (
	"context"
	"net/http"
	"time"

	apperrors "codegraph/backend/pkg/errors"
	"codegraph/backend/pkg/logger"
	gh "github.com/google/go-github/v80/github"
	"go.uber.org/zap"
	"golang.org/x/oauth2"
)

const (
	githubTimeout  = 30 * time.Second
	commitsPerPage = 50
)

// Commit is the trimmed view of a repository commit returned to callers.
type Commit struct {
	SHA     string    `json:"sha"`
	Message string    `json:"message"`
	Author  string    `json:"author"`
	Date    time.Time `json:"date"`
	URL     string    `json:"url"`
}

// CommitRelay proxies commit-history lookups for one configured
// repository to the GitHub API.
type CommitRelay struct {
	gh     *gh.Client
	owner  string
	repo   string
	logger *zap.Logger
}

// NewCommitRelay builds a relay for owner/repo. A token raises the rate
// limit and grants private-repo access, but is optional.
func NewCommitRelay(token, owner, repo string) *CommitRelay {
	httpClient := &http.Client{Timeout: githubTimeout}
	if token != "" {
		ts := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: token})
		httpClient = oauth2.NewClient(context.Background(), ts)
		httpClient.Timeout = githubTimeout
	}

	return &CommitRelay{
		gh:     gh.NewClient(httpClient),
		owner:  owner,
		repo:   repo,
		logger: logger.Get(),
	}
}

// ListCommits returns the repository's commit history, optionally
// filtered to commits touching the given file path.
func (r *CommitRelay) ListCommits(ctx context.Context, path string) ([]Commit, error) {
	if r.owner == "" || r.repo == "" {
		return nil, apperrors.NewRelayNotConfigured("github")
	}

	opts := &gh.CommitsListOptions{
		Path:        path,
		ListOptions: gh.ListOptions{PerPage: commitsPerPage},
	}

	repoCommits, _, err := r.gh.Repositories.ListCommits(ctx, r.owner, r.repo, opts)
	if err != nil {
		return nil, apperrors.NewRelayFailed("github", err)
	}

	commits := make([]Commit, 0, len(repoCommits))
	for _, rc := range repoCommits {
		commits = append(commits, Commit{
			SHA:     rc.GetSHA(),
			Message: rc.GetCommit().GetMessage(),
			Author:  rc.GetCommit().GetAuthor().GetName(),
			Date:    rc.GetCommit().GetAuthor().GetDate().Time,
			URL:     rc.GetHTMLURL(),
		})
	}

	r.logger.Debug("Fetched commit history",
		zap.String("path", path),
		zap.Int("commits", len(commits)),
	)

	return commits, nil
}
