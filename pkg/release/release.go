// Package release drives the interactive release flow for configured
// repositories.
package release

import (
	"context"
	"fmt"
	"time"

	gogithub "github.com/google/go-github/v28/github"

	"github.com/openstax/pyversionista/pkg/changelog"
	ghclient "github.com/openstax/pyversionista/pkg/github"
	"github.com/openstax/pyversionista/pkg/logging"
	"github.com/openstax/pyversionista/pkg/prompts"
	"github.com/openstax/pyversionista/pkg/version"
)

// Manager runs the release flow against GitHub.
type Manager struct {
	client    *ghclient.Client
	logger    *logging.Logger
	generator *changelog.Generator
}

func NewManager(client *ghclient.Client, logger *logging.Logger, boards []string) *Manager {
	return &Manager{
		client:    client,
		logger:    logger,
		generator: changelog.NewGenerator(boards),
	}
}

// Repository is one configured repository plus its resolved release
// state.
type Repository struct {
	*ghclient.Repository
	Alias            string
	Scheme           version.Scheme
	Branch           string
	JiraEnabled      bool
	CrossLinkEnabled bool
	Latest           *version.Version
	LatestStable     *version.Version
}

// DisplayName is the alias when one is configured, otherwise the full
// owner/name form so repositories stay unambiguous in multi-repo output.
func (r *Repository) DisplayName() string {
	if r.Alias != "" {
		return r.Alias
	}
	return r.Repository.String()
}

// Release records what was (or wasn't) cut for one repository.
type Release struct {
	Repository *Repository
	Version    *version.Version
	Skipped    bool
	Changelog  []changelog.Entry
}

// ResolveVersions scans release tags newest first and records the latest
// and latest stable versions. A repository with no parseable release
// tags starts from the scheme's zero version.
func (m *Manager) ResolveVersions(ctx context.Context, repo *Repository) error {
	tags, err := m.client.ListReleaseTags(ctx, repo.Repository)
	if err != nil {
		return fmt.Errorf("failed to resolve versions for %s: %w", repo.Repository, err)
	}

	for _, tag := range tags {
		v, err := version.Parse(repo.Scheme, tag)
		if err != nil {
			m.logger.Debug("Skipping unparseable tag %s for %s: %v", tag, repo.Repository, err)
			continue
		}

		if repo.Latest == nil {
			repo.Latest = v
		}
		if repo.LatestStable == nil && !v.IsPrerelease() {
			repo.LatestStable = v
		}
		if repo.Latest != nil && repo.LatestStable != nil {
			break
		}
	}

	if repo.Latest == nil {
		m.logger.Warn("No parseable release tags for %s, starting from 0.0.0", repo.Repository)
		repo.Latest = version.Zero(repo.Scheme)
	}
	if repo.LatestStable == nil {
		repo.LatestStable = version.Zero(repo.Scheme)
	}
	return nil
}

// HasChanges reports whether the branch has commits past the latest
// release. A fresh repository checks for PRs merged in the last month.
func (m *Manager) HasChanges(ctx context.Context, repo *Repository) (bool, error) {
	if repo.Latest.IsZero() {
		oneMonthAgo := time.Now().AddDate(0, -1, 0)
		prs, err := m.client.GetRecentMergedPRs(ctx, repo.Repository, oneMonthAgo)
		if err != nil {
			// Don't block a first release on a listing failure.
			m.logger.Debug("Failed to get recent PRs for %s, assuming changes exist: %v", repo.Repository, err)
			return true, nil
		}
		return len(prs) > 0, nil
	}

	comparison, err := m.client.CompareCommits(ctx, repo.Repository, repo.Latest.Tag(), repo.Branch)
	if err != nil {
		return false, err
	}
	return len(comparison.Commits) > 0, nil
}

// Changelog builds entries for everything merged since the latest
// release.
func (m *Manager) Changelog(ctx context.Context, repo *Repository) ([]changelog.Entry, error) {
	if repo.Latest.IsZero() {
		m.logger.Debug("No previous releases for %s, using PRs from the last month", repo.Repository)

		oneMonthAgo := time.Now().AddDate(0, -1, 0)
		prs, err := m.client.GetRecentMergedPRs(ctx, repo.Repository, oneMonthAgo)
		if err != nil {
			return nil, fmt.Errorf("failed to get recent PRs: %w", err)
		}

		var entries []changelog.Entry
		for _, pr := range prs {
			entries = append(entries, m.entryFromPR(repo, pr.GetNumber(), pr))
		}
		return entries, nil
	}

	comparison, err := m.client.CompareCommits(ctx, repo.Repository, repo.Latest.Tag(), repo.Branch)
	if err != nil {
		return nil, err
	}

	var entries []changelog.Entry
	for _, commit := range comparison.Commits {
		number, ok := changelog.ParsePRNumber(commit.GetCommit().GetMessage())
		if !ok {
			continue
		}

		pr, err := m.client.GetPullRequest(ctx, repo.Repository, number)
		if err != nil {
			m.logger.Debug("Failed to get PR #%d for %s: %v", number, repo.Repository, err)
			continue
		}
		entries = append(entries, m.entryFromPR(repo, number, pr))
	}
	return entries, nil
}

func (m *Manager) entryFromPR(repo *Repository, number int, pr *gogithub.PullRequest) changelog.Entry {
	entry := changelog.Entry{
		Number:      number,
		Date:        pr.GetMergedAt().Format("2006-01-02"),
		Author:      pr.GetUser().GetLogin(),
		Title:       pr.GetTitle(),
		Description: pr.GetBody(),
	}
	if repo.JiraEnabled {
		entry.Tickets = m.generator.ExtractTickets(pr.GetTitle() + "\n" + pr.GetBody())
	}
	return entry
}

// crossLinks builds the related-release links for repositories already
// released earlier in the same run.
func (m *Manager) crossLinks(repo *Repository, prior []*Release) []changelog.CrossLink {
	var links []changelog.CrossLink
	for _, rel := range prior {
		if rel.Skipped || rel.Repository == repo {
			continue
		}
		links = append(links, changelog.CrossLink{
			Name: rel.Repository.DisplayName(),
			Tag:  rel.Version.Tag(),
			URL: fmt.Sprintf("https://github.com/%s/releases/tag/%s",
				rel.Repository.Repository, rel.Version.Tag()),
		})
	}
	return links
}

// CutRelease publishes the release on GitHub. The pre-release flag
// follows from the version itself.
func (m *Manager) CutRelease(ctx context.Context, repo *Repository, next *version.Version, entries []changelog.Entry, links []changelog.CrossLink) error {
	notes := m.generator.ReleaseNotes(entries, links)
	tag := next.Tag()

	if _, err := m.client.CreateRelease(ctx, repo.Repository, tag, notes, repo.Branch, next.IsPrerelease()); err != nil {
		return fmt.Errorf("failed to create release: %w", err)
	}

	m.logger.Info("Created release %s for %s", tag, repo.Repository)
	return nil
}

// ProcessRelease runs the interactive flow for one repository: resolve
// the current versions, look for changes, build the changelog, ask for
// the next version and cut the release. When the repository has
// cross-links enabled, the notes reference the releases in prior.
func (m *Manager) ProcessRelease(ctx context.Context, repo *Repository, prior []*Release) (*Release, error) {
	if err := m.ResolveVersions(ctx, repo); err != nil {
		return nil, err
	}

	hasChanges, err := m.HasChanges(ctx, repo)
	if err != nil {
		return nil, fmt.Errorf("failed to check for changes: %w", err)
	}
	if !hasChanges {
		m.logger.Info("No changes for %s since %s", repo.Repository, repo.Latest.Tag())
		return &Release{Repository: repo, Version: repo.Latest, Skipped: true}, nil
	}

	entries, err := m.Changelog(ctx, repo)
	if err != nil {
		m.logger.Warn("Failed to build changelog for %s: %v", repo.Repository, err)
		entries = nil
	}

	next, err := prompts.SelectNextVersion(repo.DisplayName(), repo.Latest, entries)
	if err != nil {
		return nil, fmt.Errorf("failed to choose the next version: %w", err)
	}
	if next == nil {
		m.logger.Info("Skipping release for %s", repo.DisplayName())
		return &Release{Repository: repo, Version: repo.Latest, Skipped: true, Changelog: entries}, nil
	}

	confirmed, err := prompts.ConfirmRelease(repo.DisplayName(), next)
	if err != nil {
		return nil, err
	}
	if !confirmed {
		m.logger.Info("Release of %s %s not confirmed", repo.DisplayName(), next.Tag())
		return &Release{Repository: repo, Version: repo.Latest, Skipped: true, Changelog: entries}, nil
	}

	var links []changelog.CrossLink
	if repo.CrossLinkEnabled {
		links = m.crossLinks(repo, prior)
	}

	if err := m.CutRelease(ctx, repo, next, entries, links); err != nil {
		return nil, err
	}
	return &Release{Repository: repo, Version: next, Changelog: entries}, nil
}
