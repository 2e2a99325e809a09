package provider

import "time"

// PullRequest represents one open pull request, normalized from the
// provider's raw search representation.
type PullRequest struct {
	ID         int64      `json:"id"`     // provider-global identifier
	Number     int        `json:"number"` // per-repository sequence, display only
	Title      string     `json:"title"`
	HTMLURL    string     `json:"html_url"`
	State      string     `json:"state"` // always "open" for surfaced results
	Draft      bool       `json:"draft"`
	CreatedAt  time.Time  `json:"created_at"`
	UpdatedAt  time.Time  `json:"updated_at"`
	Author     Author     `json:"user"`
	Repository Repository `json:"repository"`
}

// Author is the account that opened a pull request. Deleted accounts are
// normalized to the unknown sentinel at the fetch boundary, so downstream
// code never handles an absent author.
type Author struct {
	Login     string `json:"login"`
	AvatarURL string `json:"avatar_url"`
	HTMLURL   string `json:"html_url"`
}

// UnknownAuthor is substituted when the upstream item carries no author.
var UnknownAuthor = Author{Login: "unknown"}

// Repository identifies the repository a pull request belongs to. FullName
// ("owner/name") is the join key between pull requests and team membership.
type Repository struct {
	Name     string `json:"name"`
	FullName string `json:"full_name"`
	HTMLURL  string `json:"html_url"`
}

// RepoSet is a membership-test structure over repository full names.
type RepoSet map[string]struct{}

// NewRepoSet builds a RepoSet from a repository listing.
func NewRepoSet(repos []Repository) RepoSet {
	s := make(RepoSet, len(repos))
	for _, r := range repos {
		s[r.FullName] = struct{}{}
	}
	return s
}

// Contains reports whether the set includes the given full name.
func (s RepoSet) Contains(fullName string) bool {
	_, ok := s[fullName]
	return ok
}
