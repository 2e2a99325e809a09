package gitlab

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/xanzy/go-gitlab"

	"teampulse/internal/metrics"
	"teampulse/internal/provider"
	"teampulse/internal/window"
)

// GitLabProvider implements provider.Provider for GitLab. A "team" maps to
// a subgroup of the organization group; its projects are the repositories
// the team can access.
type GitLabProvider struct {
	client *gitlab.Client
	token  string
	now    func() time.Time
}

// Option configures the GitLab provider.
type Option func(*GitLabProvider)

// WithBaseURL sets a custom base URL (for testing).
func WithBaseURL(baseURL string) Option {
	return func(p *GitLabProvider) {
		p.client, _ = gitlab.NewClient(p.token, gitlab.WithBaseURL(baseURL+"/api/v4"))
	}
}

// WithClock sets the clock used for window cutoffs (for testing).
func WithClock(now func() time.Time) Option {
	return func(p *GitLabProvider) {
		p.now = now
	}
}

// New creates a new GitLab provider.
func New(token string, opts ...Option) *GitLabProvider {
	client, _ := gitlab.NewClient(token)
	p := &GitLabProvider{client: client, token: token, now: time.Now}

	for _, opt := range opts {
		opt(p)
	}

	return p
}

// Name returns the provider name.
func (p *GitLabProvider) Name() string {
	return "gitlab"
}

// teamPath encodes the org/team subgroup path for the GitLab API.
func teamPath(org, team string) string {
	return url.PathEscape(org + "/" + team)
}

// ListTeamRepositories fetches every project in the team subgroup,
// requesting successive pages until one comes back short.
func (p *GitLabProvider) ListTeamRepositories(ctx context.Context, org, team string) ([]provider.Repository, error) {
	opts := &gitlab.ListGroupProjectsOptions{
		ListOptions: gitlab.ListOptions{PerPage: provider.PageSize, Page: 1},
	}

	var result []provider.Repository
	for {
		projects, _, err := p.client.Groups.ListGroupProjects(teamPath(org, team), opts, gitlab.WithContext(ctx))
		if err != nil {
			return nil, classify("listing team projects", err)
		}
		metrics.PageFetched()

		for _, project := range projects {
			result = append(result, provider.Repository{
				Name:     project.Path,
				FullName: project.PathWithNamespace,
				HTMLURL:  project.WebURL,
			})
		}

		if len(projects) < provider.PageSize {
			return result, nil
		}
		opts.Page++
	}
}

// SearchOpenPullRequests fetches all open merge requests across the
// organization group created within the window, newest first.
func (p *GitLabProvider) SearchOpenPullRequests(ctx context.Context, org string, w window.Window) ([]provider.PullRequest, error) {
	opts := &gitlab.ListGroupMergeRequestsOptions{
		State:       gitlab.String("opened"),
		OrderBy:     gitlab.String("created_at"),
		Sort:        gitlab.String("desc"),
		ListOptions: gitlab.ListOptions{PerPage: provider.PageSize, Page: 1},
	}
	if cutoff, ok := w.Cutoff(p.now()); ok {
		opts.CreatedAfter = &cutoff
	}
	metrics.SearchIssued()

	var result []provider.PullRequest
	for {
		mrs, _, err := p.client.MergeRequests.ListGroupMergeRequests(org, opts, gitlab.WithContext(ctx))
		if err != nil {
			return nil, classify("listing group merge requests", err)
		}
		metrics.PageFetched()

		for _, mr := range mrs {
			result = append(result, normalizeMergeRequest(mr))
		}

		if len(mrs) < provider.PageSize || len(result) >= provider.MaxSearchResults {
			return result, nil
		}
		opts.Page++
	}
}

// normalizeMergeRequest converts a raw merge request into the PullRequest
// shape. GitLab reports open state as "opened"; it is normalized to "open"
// so both providers surface the same lifecycle value.
func normalizeMergeRequest(mr *gitlab.MergeRequest) provider.PullRequest {
	state := mr.State
	if state == "opened" {
		state = "open"
	}

	pr := provider.PullRequest{
		ID:         int64(mr.ID),
		Number:     mr.IID,
		Title:      mr.Title,
		HTMLURL:    mr.WebURL,
		State:      state,
		Draft:      mr.Draft,
		Author:     provider.UnknownAuthor,
		Repository: repositoryFromWebURL(mr.WebURL),
	}

	if mr.CreatedAt != nil {
		pr.CreatedAt = *mr.CreatedAt
	}
	if mr.UpdatedAt != nil {
		pr.UpdatedAt = *mr.UpdatedAt
	}
	if mr.Author != nil {
		pr.Author = provider.Author{
			Login:     mr.Author.Username,
			AvatarURL: mr.Author.AvatarURL,
			HTMLURL:   mr.Author.WebURL,
		}
	}

	return pr
}

// repositoryFromWebURL derives the project identity from a merge request
// web URL, which has the form https://host/group/project/-/merge_requests/N.
func repositoryFromWebURL(raw string) provider.Repository {
	u, err := url.Parse(raw)
	if err != nil {
		return provider.Repository{}
	}

	path := u.Path
	if i := strings.Index(path, "/-/"); i >= 0 {
		path = path[:i]
	}
	fullName := strings.Trim(path, "/")
	if fullName == "" {
		return provider.Repository{}
	}

	segments := strings.Split(fullName, "/")
	return provider.Repository{
		Name:     segments[len(segments)-1],
		FullName: fullName,
		HTMLURL:  u.Scheme + "://" + u.Host + "/" + fullName,
	}
}

// classify maps a go-gitlab error onto the provider error taxonomy.
// go-gitlab reports 404 as its own sentinel instead of an ErrorResponse,
// so that case is checked first.
func classify(op string, err error) error {
	if errors.Is(err, gitlab.ErrNotFound) {
		return fmt.Errorf("%s: %w: %v", op, provider.ErrNotFound, err)
	}

	var respErr *gitlab.ErrorResponse
	if errors.As(err, &respErr) && respErr.Response != nil {
		switch respErr.Response.StatusCode {
		case http.StatusUnauthorized, http.StatusForbidden:
			return fmt.Errorf("%s: %w: %v", op, provider.ErrAuthorization, err)
		case http.StatusNotFound:
			return fmt.Errorf("%s: %w: %v", op, provider.ErrNotFound, err)
		case http.StatusTooManyRequests:
			return fmt.Errorf("%s: %w: %v", op, provider.ErrRateLimit, err)
		case http.StatusBadRequest, http.StatusUnprocessableEntity:
			return fmt.Errorf("%s: %w: %v", op, provider.ErrValidation, err)
		}
	}

	return fmt.Errorf("%s: %w: %v", op, provider.ErrNetwork, err)
}
