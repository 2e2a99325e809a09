package dashboard

import (
	"context"

	"golang.org/x/sync/errgroup"

	"teampulse/internal/provider"
	"teampulse/internal/window"
)

// Service resolves the pull requests a team cares about. The team's
// repositories and the organization's open pull requests are fetched
// concurrently and intersected locally; enumerating each repository in the
// search expression would blow the upstream query-length limit for teams
// with more than a handful of repositories.
type Service struct {
	provider provider.Provider
}

// New creates a Service backed by the given provider.
func New(p provider.Provider) *Service {
	return &Service{provider: p}
}

// TeamPullRequests returns the open pull requests within the window that
// live in repositories the team can access, preserving the newest-first
// order of the search. If either fetch fails, the first failure wins and
// no partial result is returned.
func (s *Service) TeamPullRequests(ctx context.Context, org, team string, w window.Window) ([]provider.PullRequest, error) {
	var (
		repos []provider.Repository
		prs   []provider.PullRequest
	)

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		repos, err = s.provider.ListTeamRepositories(ctx, org, team)
		return err
	})
	g.Go(func() error {
		var err error
		prs, err = s.provider.SearchOpenPullRequests(ctx, org, w)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	result := []provider.PullRequest{}
	if len(repos) == 0 {
		return result, nil
	}

	members := provider.NewRepoSet(repos)
	for _, pr := range prs {
		if members.Contains(pr.Repository.FullName) {
			result = append(result, pr)
		}
	}
	return result, nil
}

// OrgPullRequests returns all open pull requests across the organization
// within the window, without team filtering.
func (s *Service) OrgPullRequests(ctx context.Context, org string, w window.Window) ([]provider.PullRequest, error) {
	return s.provider.SearchOpenPullRequests(ctx, org, w)
}
