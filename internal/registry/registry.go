package registry

import (
	"fmt"

	"teampulse/internal/config"
	"teampulse/internal/provider"
	"teampulse/internal/provider/github"
	"teampulse/internal/provider/gitlab"
)

// Registry manages provider instances.
type Registry struct {
	providers map[string]provider.Provider
}

// New creates a new provider registry from config.
func New(cfg *config.Config) *Registry {
	r := &Registry{
		providers: make(map[string]provider.Provider),
	}

	if cfg.Providers.GitHub.Token != "" {
		var opts []github.Option
		if cfg.Providers.GitHub.BaseURL != "" {
			opts = append(opts, github.WithBaseURL(cfg.Providers.GitHub.BaseURL))
		}
		r.providers["github"] = github.New(cfg.Providers.GitHub.Token, opts...)
	}

	if cfg.Providers.GitLab.Token != "" {
		var opts []gitlab.Option
		if cfg.Providers.GitLab.BaseURL != "" {
			opts = append(opts, gitlab.WithBaseURL(cfg.Providers.GitLab.BaseURL))
		}
		r.providers["gitlab"] = gitlab.New(cfg.Providers.GitLab.Token, opts...)
	}

	return r
}

// Get returns the provider for the given name, or nil if not configured.
func (r *Registry) Get(name string) provider.Provider {
	return r.providers[name]
}

// Default returns the provider the dashboard is configured to use.
func (r *Registry) Default(cfg *config.Config) (provider.Provider, error) {
	p := r.providers[cfg.Dashboard.Provider]
	if p == nil {
		return nil, fmt.Errorf("provider %q is not configured (missing token?)", cfg.Dashboard.Provider)
	}
	return p, nil
}

// List returns all configured provider names.
func (r *Registry) List() []string {
	names := make([]string, 0, len(r.providers))
	for name := range r.providers {
		names = append(names, name)
	}
	return names
}
