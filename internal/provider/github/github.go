package github

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/google/go-github/v60/github"

	"teampulse/internal/metrics"
	"teampulse/internal/provider"
	"teampulse/internal/window"
)

// GitHubProvider implements provider.Provider for GitHub.
type GitHubProvider struct {
	client *github.Client
	token  string
	now    func() time.Time
}

// Option configures the GitHub provider.
type Option func(*GitHubProvider)

// WithBaseURL sets a custom base URL (for testing).
func WithBaseURL(url string) Option {
	return func(p *GitHubProvider) {
		p.client.BaseURL, _ = p.client.BaseURL.Parse(url + "/")
	}
}

// WithClock sets the clock used for window cutoffs (for testing).
func WithClock(now func() time.Time) Option {
	return func(p *GitHubProvider) {
		p.now = now
	}
}

// New creates a new GitHub provider.
func New(token string, opts ...Option) *GitHubProvider {
	httpClient := &http.Client{
		Transport: &tokenTransport{token: token},
	}
	client := github.NewClient(httpClient)

	p := &GitHubProvider{
		client: client,
		token:  token,
		now:    time.Now,
	}

	for _, opt := range opts {
		opt(p)
	}

	return p
}

// tokenTransport adds authorization header to requests.
type tokenTransport struct {
	token string
}

func (t *tokenTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	req.Header.Set("Authorization", "Bearer "+t.token)
	return http.DefaultTransport.RoundTrip(req)
}

// Name returns the provider name.
func (p *GitHubProvider) Name() string {
	return "github"
}

// ListTeamRepositories fetches every repository the team can access,
// requesting successive pages until one comes back short.
func (p *GitHubProvider) ListTeamRepositories(ctx context.Context, org, team string) ([]provider.Repository, error) {
	opts := &github.ListOptions{PerPage: provider.PageSize, Page: 1}

	var result []provider.Repository
	for {
		repos, _, err := p.client.Teams.ListTeamReposBySlug(ctx, org, team, opts)
		if err != nil {
			return nil, classify("listing team repositories", err)
		}
		metrics.PageFetched()

		for _, r := range repos {
			result = append(result, provider.Repository{
				Name:     r.GetName(),
				FullName: r.GetFullName(),
				HTMLURL:  r.GetHTMLURL(),
			})
		}

		if len(repos) < provider.PageSize {
			return result, nil
		}
		opts.Page++
	}
}

// SearchOpenPullRequests fetches all open pull requests across the
// organization created within the window, newest first. The search API
// caps total matches at provider.MaxSearchResults; anything older than
// the cap is unavailable upstream.
func (p *GitHubProvider) SearchOpenPullRequests(ctx context.Context, org string, w window.Window) ([]provider.PullRequest, error) {
	query := searchQuery(org, w, p.now())
	opts := &github.SearchOptions{
		Sort:        "created",
		Order:       "desc",
		ListOptions: github.ListOptions{PerPage: provider.PageSize, Page: 1},
	}
	metrics.SearchIssued()

	var result []provider.PullRequest
	for {
		res, _, err := p.client.Search.Issues(ctx, query, opts)
		if err != nil {
			return nil, classify("searching pull requests", err)
		}
		metrics.PageFetched()

		for _, issue := range res.Issues {
			result = append(result, normalizeIssue(issue))
		}

		if len(res.Issues) < provider.PageSize || len(result) >= provider.MaxSearchResults {
			return result, nil
		}
		opts.Page++
	}
}

// searchQuery builds the search filter expression. The creation-date clause
// is omitted entirely for an unbounded window.
func searchQuery(org string, w window.Window, now time.Time) string {
	q := fmt.Sprintf("is:pr is:open org:%s", org)
	if date := w.QueryDate(now); date != "" {
		q += " created:>=" + date
	}
	return q
}

// normalizeIssue converts a raw search result into the PullRequest shape.
// The author may be absent when the account was deleted; it is defaulted
// to the unknown sentinel here so nothing downstream handles absence.
func normalizeIssue(issue *github.Issue) provider.PullRequest {
	pr := provider.PullRequest{
		ID:         issue.GetID(),
		Number:     issue.GetNumber(),
		Title:      issue.GetTitle(),
		HTMLURL:    issue.GetHTMLURL(),
		State:      issue.GetState(),
		Draft:      issue.GetDraft(),
		CreatedAt:  issue.GetCreatedAt().Time,
		UpdatedAt:  issue.GetUpdatedAt().Time,
		Author:     provider.UnknownAuthor,
		Repository: repositoryFromURL(issue.GetRepositoryURL()),
	}

	if u := issue.User; u != nil {
		pr.Author = provider.Author{
			Login:     u.GetLogin(),
			AvatarURL: u.GetAvatarURL(),
			HTMLURL:   u.GetHTMLURL(),
		}
	}

	return pr
}

// classify maps a go-github error onto the provider error taxonomy.
func classify(op string, err error) error {
	var rateErr *github.RateLimitError
	if errors.As(err, &rateErr) {
		return fmt.Errorf("%s: %w: %v", op, provider.ErrRateLimit, err)
	}

	var abuseErr *github.AbuseRateLimitError
	if errors.As(err, &abuseErr) {
		return fmt.Errorf("%s: %w: %v", op, provider.ErrRateLimit, err)
	}

	var respErr *github.ErrorResponse
	if errors.As(err, &respErr) && respErr.Response != nil {
		switch respErr.Response.StatusCode {
		case http.StatusUnauthorized, http.StatusForbidden:
			return fmt.Errorf("%s: %w: %v", op, provider.ErrAuthorization, err)
		case http.StatusNotFound:
			return fmt.Errorf("%s: %w: %v", op, provider.ErrNotFound, err)
		case http.StatusUnprocessableEntity:
			return fmt.Errorf("%s: %w: %v", op, provider.ErrValidation, err)
		}
	}

	return fmt.Errorf("%s: %w: %v", op, provider.ErrNetwork, err)
}
