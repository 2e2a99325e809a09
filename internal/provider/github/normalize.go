package github

import (
	"net/url"
	"strings"

	"teampulse/internal/provider"
)

// repositoryFromURL decomposes an API repository URL into the normalized
// Repository shape. The short name and full name come from the URL's final
// two path segments; the browser URL is derived by dropping the "api."
// host prefix and the "/repos" path prefix.
//
// https://api.example.com/repos/acme/widgets ->
//
//	{Name: "widgets", FullName: "acme/widgets", HTMLURL: "https://example.com/acme/widgets"}
func repositoryFromURL(raw string) provider.Repository {
	u, err := url.Parse(raw)
	if err != nil {
		return provider.Repository{}
	}

	segments := strings.Split(strings.Trim(u.Path, "/"), "/")
	if len(segments) < 2 {
		return provider.Repository{}
	}

	owner := segments[len(segments)-2]
	name := segments[len(segments)-1]
	host := strings.TrimPrefix(u.Host, "api.")

	return provider.Repository{
		Name:     name,
		FullName: owner + "/" + name,
		HTMLURL:  u.Scheme + "://" + host + "/" + owner + "/" + name,
	}
}
