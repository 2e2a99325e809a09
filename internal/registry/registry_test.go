package registry

import (
	"testing"

	"teampulse/internal/config"
)

func TestNew_ConfiguredProviders(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Providers.GitHub.Token = "gh-token"

	r := New(cfg)

	if r.Get("github") == nil {
		t.Error("Get(github) = nil, want provider")
	}
	if r.Get("gitlab") != nil {
		t.Error("Get(gitlab) != nil, want nil (no token configured)")
	}
	if names := r.List(); len(names) != 1 {
		t.Errorf("List() = %v, want exactly one provider", names)
	}
}

func TestNew_BothProviders(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Providers.GitHub.Token = "gh-token"
	cfg.Providers.GitLab.Token = "gl-token"

	r := New(cfg)

	if len(r.List()) != 2 {
		t.Errorf("List() = %v, want two providers", r.List())
	}
}

func TestDefault(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Dashboard.Provider = "github"
	cfg.Providers.GitHub.Token = "gh-token"

	p, err := New(cfg).Default(cfg)
	if err != nil {
		t.Fatalf("Default() error = %v", err)
	}
	if p.Name() != "github" {
		t.Errorf("Default().Name() = %q, want %q", p.Name(), "github")
	}
}

func TestDefault_Unconfigured(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Dashboard.Provider = "gitlab" // but no gitlab token

	if _, err := New(cfg).Default(cfg); err == nil {
		t.Error("Default() error = nil for unconfigured provider, want error")
	}
}
