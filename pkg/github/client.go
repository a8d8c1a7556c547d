// Package github wraps the GitHub API surface the release flow needs.
package github

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	gogithub "github.com/google/go-github/v28/github"
	"golang.org/x/oauth2"
)

// Repository identifies one GitHub repository.
type Repository struct {
	Owner string
	Name  string
}

func (r *Repository) String() string {
	return fmt.Sprintf("%s/%s", r.Owner, r.Name)
}

// ParseRepoSpec reads an "owner/name" spec.
func ParseRepoSpec(spec string) (*Repository, error) {
	parts := strings.Split(spec, "/")
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		return nil, fmt.Errorf("invalid repository spec %q: expected owner/name", spec)
	}
	return &Repository{Owner: parts[0], Name: parts[1]}, nil
}

// Client talks to the GitHub API.
type Client struct {
	gh *gogithub.Client
}

// New returns a client authenticated with the given token.
func New(token string) *Client {
	return &Client{gh: gogithub.NewClient(tokenHTTPClient(token))}
}

// NewEnterprise points the client at a GitHub Enterprise instance (or a
// test server).
func NewEnterprise(token, baseURL string) (*Client, error) {
	gh, err := gogithub.NewEnterpriseClient(baseURL, baseURL, tokenHTTPClient(token))
	if err != nil {
		return nil, fmt.Errorf("failed to configure client for %s: %w", baseURL, err)
	}
	return &Client{gh: gh}, nil
}

func tokenHTTPClient(token string) *http.Client {
	ts := oauth2.StaticTokenSource(
		&oauth2.Token{AccessToken: token},
	)
	return oauth2.NewClient(context.Background(), ts)
}

// GetLatestRelease returns the newest published release, or an error if
// the repository has none.
func (c *Client) GetLatestRelease(ctx context.Context, repo *Repository) (*gogithub.RepositoryRelease, error) {
	release, _, err := c.gh.Repositories.GetLatestRelease(ctx, repo.Owner, repo.Name)
	if err != nil {
		return nil, fmt.Errorf("failed to get latest release for %s: %w", repo, err)
	}
	return release, nil
}

// ListReleaseTags returns the tag names of recent releases, newest first.
func (c *Client) ListReleaseTags(ctx context.Context, repo *Repository) ([]string, error) {
	releases, _, err := c.gh.Repositories.ListReleases(ctx, repo.Owner, repo.Name,
		&gogithub.ListOptions{PerPage: 100})
	if err != nil {
		return nil, fmt.Errorf("failed to list releases for %s: %w", repo, err)
	}
	tags := make([]string, 0, len(releases))
	for _, r := range releases {
		if r.TagName != nil {
			tags = append(tags, *r.TagName)
		}
	}
	return tags, nil
}

// GetRecentMergedPRs returns pull requests merged at or after since.
func (c *Client) GetRecentMergedPRs(ctx context.Context, repo *Repository, since time.Time) ([]*gogithub.PullRequest, error) {
	opts := &gogithub.PullRequestListOptions{
		State:       "closed",
		Sort:        "updated",
		Direction:   "desc",
		ListOptions: gogithub.ListOptions{PerPage: 100},
	}
	prs, _, err := c.gh.PullRequests.List(ctx, repo.Owner, repo.Name, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to list pull requests for %s: %w", repo, err)
	}

	var merged []*gogithub.PullRequest
	for _, pr := range prs {
		if pr.MergedAt == nil || pr.MergedAt.Before(since) {
			continue
		}
		merged = append(merged, pr)
	}
	return merged, nil
}

// CompareCommits returns the commits head has that base lacks.
func (c *Client) CompareCommits(ctx context.Context, repo *Repository, base, head string) (*gogithub.CommitsComparison, error) {
	cmp, _, err := c.gh.Repositories.CompareCommits(ctx, repo.Owner, repo.Name, base, head)
	if err != nil {
		return nil, fmt.Errorf("failed to compare %s...%s for %s: %w", base, head, repo, err)
	}
	return cmp, nil
}

// GetPullRequest fetches one pull request by number.
func (c *Client) GetPullRequest(ctx context.Context, repo *Repository, number int) (*gogithub.PullRequest, error) {
	pr, _, err := c.gh.PullRequests.Get(ctx, repo.Owner, repo.Name, number)
	if err != nil {
		return nil, fmt.Errorf("failed to get pull request #%d for %s: %w", number, repo, err)
	}
	return pr, nil
}

// CreateRelease publishes a release. target may be a branch name or a
// commit SHA; prerelease marks it as a pre-release on GitHub.
func (c *Client) CreateRelease(ctx context.Context, repo *Repository, tag, notes, target string, prerelease bool) (*gogithub.RepositoryRelease, error) {
	release := &gogithub.RepositoryRelease{
		TagName:         gogithub.String(tag),
		Name:            gogithub.String(tag),
		Body:            gogithub.String(notes),
		TargetCommitish: gogithub.String(target),
		Prerelease:      gogithub.Bool(prerelease),
	}
	created, _, err := c.gh.Repositories.CreateRelease(ctx, repo.Owner, repo.Name, release)
	if err != nil {
		return nil, fmt.Errorf("failed to create release %s for %s: %w", tag, repo, err)
	}
	return created, nil
}

// GetBranchSHA returns the commit SHA at the tip of a branch.
func (c *Client) GetBranchSHA(ctx context.Context, repo *Repository, branch string) (string, error) {
	b, _, err := c.gh.Repositories.GetBranch(ctx, repo.Owner, repo.Name, branch)
	if err != nil {
		return "", fmt.Errorf("failed to get branch %s for %s: %w", branch, repo, err)
	}
	return b.GetCommit().GetSHA(), nil
}
