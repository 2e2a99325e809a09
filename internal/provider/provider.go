package provider

import (
	"context"

	"teampulse/internal/window"
)

// PageSize is the number of items requested per page from the hosting API.
const PageSize = 100

// MaxSearchResults is the upstream search result ceiling. Broad searches
// silently stop returning matches past this point; results beyond it are
// unavailable, which is an upstream limitation this system preserves.
const MaxSearchResults = 1000

// Provider defines the read operations this system needs from a git
// hosting API.
type Provider interface {
	// Name returns the provider name (github, gitlab).
	Name() string

	// ListTeamRepositories fetches every repository the team can access,
	// following pagination until the first short page. Order is whatever
	// the upstream returns; any page failure aborts the whole listing.
	ListTeamRepositories(ctx context.Context, org, team string) ([]Repository, error)

	// SearchOpenPullRequests fetches all currently open pull requests
	// across the organization created within the window, sorted by
	// creation time descending. Pagination is followed to exhaustion,
	// capped at MaxSearchResults.
	SearchOpenPullRequests(ctx context.Context, org string, w window.Window) ([]PullRequest, error)
}
