package dashboard

import (
	"context"
	"errors"
	"testing"
	"time"

	"teampulse/internal/provider"
	"teampulse/internal/window"
)

// fakeProvider serves canned results for both fetches.
type fakeProvider struct {
	repos     []provider.Repository
	reposErr  error
	pulls     []provider.PullRequest
	pullsErr  error
	repoDelay time.Duration
}

func (f *fakeProvider) Name() string { return "fake" }

func (f *fakeProvider) ListTeamRepositories(ctx context.Context, org, team string) ([]provider.Repository, error) {
	if f.repoDelay > 0 {
		select {
		case <-time.After(f.repoDelay):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	return f.repos, f.reposErr
}

func (f *fakeProvider) SearchOpenPullRequests(ctx context.Context, org string, w window.Window) ([]provider.PullRequest, error) {
	return f.pulls, f.pullsErr
}

func pr(id int64, fullName string, created time.Time) provider.PullRequest {
	return provider.PullRequest{
		ID:         id,
		State:      "open",
		CreatedAt:  created,
		Repository: provider.Repository{FullName: fullName},
	}
}

func TestTeamPullRequests_FiltersByTeamRepos(t *testing.T) {
	base := time.Date(2024, 3, 14, 12, 0, 0, 0, time.UTC)
	fake := &fakeProvider{
		repos: []provider.Repository{
			{FullName: "acme/a"},
			{FullName: "acme/b"},
		},
		pulls: []provider.PullRequest{
			pr(3, "acme/b", base),
			pr(2, "acme/c", base.Add(-time.Hour)),
			pr(1, "acme/a", base.Add(-2*time.Hour)),
		},
	}

	svc := New(fake)
	got, err := svc.TeamPullRequests(context.Background(), "acme", "core", window.Days(14))
	if err != nil {
		t.Fatalf("TeamPullRequests() error = %v", err)
	}

	if len(got) != 2 {
		t.Fatalf("TeamPullRequests() returned %d PRs, want 2", len(got))
	}
	// acme/c is filtered out; relative creation order preserved
	if got[0].ID != 3 || got[1].ID != 1 {
		t.Errorf("result IDs = [%d %d], want [3 1]", got[0].ID, got[1].ID)
	}
	for _, p := range got {
		if p.Repository.FullName != "acme/a" && p.Repository.FullName != "acme/b" {
			t.Errorf("result contains %q, not a team repo", p.Repository.FullName)
		}
	}
}

func TestTeamPullRequests_EmptyRepoSet(t *testing.T) {
	fake := &fakeProvider{
		pulls: []provider.PullRequest{pr(1, "acme/a", time.Now())},
	}

	svc := New(fake)
	got, err := svc.TeamPullRequests(context.Background(), "acme", "core", window.Unbounded())
	if err != nil {
		t.Fatalf("TeamPullRequests() error = %v", err)
	}
	if got == nil {
		t.Fatal("TeamPullRequests() = nil, want empty slice")
	}
	if len(got) != 0 {
		t.Errorf("TeamPullRequests() returned %d PRs, want 0", len(got))
	}
}

func TestTeamPullRequests_RepoFetchFailureWins(t *testing.T) {
	repoErr := errors.New("team fetch blew up")
	fake := &fakeProvider{
		reposErr: repoErr,
		pulls:    []provider.PullRequest{pr(1, "acme/a", time.Now())},
	}

	svc := New(fake)
	_, err := svc.TeamPullRequests(context.Background(), "acme", "core", window.Unbounded())
	if !errors.Is(err, repoErr) {
		t.Errorf("error = %v, want %v", err, repoErr)
	}
}

func TestTeamPullRequests_PullFetchFailure(t *testing.T) {
	pullErr := errors.New("search blew up")
	fake := &fakeProvider{
		repos:     []provider.Repository{{FullName: "acme/a"}},
		pullsErr:  pullErr,
		repoDelay: 50 * time.Millisecond, // repo branch still in flight when search fails
	}

	svc := New(fake)
	_, err := svc.TeamPullRequests(context.Background(), "acme", "core", window.Unbounded())
	if !errors.Is(err, pullErr) {
		t.Errorf("error = %v, want %v", err, pullErr)
	}
}

func TestOrgPullRequests(t *testing.T) {
	fake := &fakeProvider{
		pulls: []provider.PullRequest{pr(1, "acme/a", time.Now()), pr(2, "acme/c", time.Now())},
	}

	svc := New(fake)
	got, err := svc.OrgPullRequests(context.Background(), "acme", window.Days(7))
	if err != nil {
		t.Fatalf("OrgPullRequests() error = %v", err)
	}
	if len(got) != 2 {
		t.Errorf("OrgPullRequests() returned %d PRs, want 2 (no team filtering)", len(got))
	}
}
