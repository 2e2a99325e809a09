package server

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"teampulse/internal/config"
	"teampulse/internal/dashboard"
	"teampulse/internal/fetchcache"
	"teampulse/internal/logging"
	"teampulse/internal/metrics"
	"teampulse/internal/prefs"
	"teampulse/internal/provider"
	"teampulse/internal/window"
)

// allowedWindows is the enumerated set of selectable recency windows.
var allowedWindows = map[string]bool{"7": true, "14": true, "30": true, "all": true}

// HealthResponse represents the health check response structure.
type HealthResponse struct {
	Status string                 `json:"status"`
	Checks map[string]interface{} `json:"checks"`
}

// PullsResponse is the presentation boundary for one dashboard query: the
// pull request list (null while the first load is in flight), loading and
// staleness flags, and the last fetch error alongside any retained data.
type PullsResponse struct {
	PullRequests []provider.PullRequest `json:"pull_requests"`
	State        string                 `json:"state"`
	Loading      bool                   `json:"loading"`
	Stale        bool                   `json:"stale"`
	Error        string                 `json:"error,omitempty"`
	FetchedAt    *time.Time             `json:"fetched_at,omitempty"`
}

// Server is the HTTP server for the dashboard.
type Server struct {
	cfg      *config.Config
	svc      *dashboard.Service
	cache    *fetchcache.Cache
	prefs    *prefs.Store
	recorder *logging.Recorder
	debounce *Debouncer
	router   chi.Router
	ready    chan struct{}

	httpState   *httpState
	httpStateMu sync.RWMutex // protects httpState pointer
}

// New creates a new Server with the given collaborators.
func New(cfg *config.Config, svc *dashboard.Service, cache *fetchcache.Cache, store *prefs.Store, recorder *logging.Recorder) *Server {
	s := &Server{
		cfg:      cfg,
		svc:      svc,
		cache:    cache,
		prefs:    store,
		recorder: recorder,
		debounce: NewDebouncer(cfg.Cache.RefreshDebounce()),
		router:   chi.NewRouter(),
		ready:    make(chan struct{}),
	}
	s.routes()
	return s
}

// Ready returns a channel that is closed when the server is ready to accept connections.
func (s *Server) Ready() <-chan struct{} {
	return s.ready
}

// Handler returns the HTTP handler for the server.
func (s *Server) Handler() http.Handler {
	return s.router
}

// routes sets up the HTTP routes.
func (s *Server) routes() {
	s.router.Use(chimiddleware.Recoverer)

	s.router.Get("/health", s.handleHealth)
	s.router.Get("/metrics", s.handleMetrics)

	s.router.Route("/api/v1", func(r chi.Router) {
		r.Get("/pulls", s.handlePulls)
		r.Post("/refresh", s.handleRefresh)
		r.Get("/window", s.handleGetWindow)
		r.Put("/window", s.handlePutWindow)
	})
}

// queryParams resolves the team and window for a request, falling back to
// the configured team and the persisted window preference.
func (s *Server) queryParams(r *http.Request) (team string, w window.Window, err error) {
	team = r.URL.Query().Get("team")
	if team == "" {
		team = s.cfg.Dashboard.Team
	}

	raw := r.URL.Query().Get("window")
	if raw == "" {
		raw = s.prefs.Get(prefs.KeyWindow, s.defaultWindow())
	}
	w, err = window.Parse(raw)
	return team, w, err
}

func (s *Server) defaultWindow() string {
	if s.cfg.Dashboard.DefaultWindowDays <= 0 {
		return "all"
	}
	return strconv.Itoa(s.cfg.Dashboard.DefaultWindowDays)
}

// cacheKey identifies one dashboard query. Changing any parameter selects
// a different cache entry rather than mutating the existing one.
func (s *Server) cacheKey(team string, w window.Window) string {
	return s.cfg.Dashboard.Organization + "|" + team + "|" + w.String()
}

// fetcherFor builds the cache fetcher for one query, recording each
// refresh cycle's outcome to the cycle log.
func (s *Server) fetcherFor(team string, w window.Window) fetchcache.Fetcher {
	org := s.cfg.Dashboard.Organization
	return func(ctx context.Context) ([]provider.PullRequest, error) {
		start := time.Now()
		pulls, err := s.svc.TeamPullRequests(ctx, org, team, w)

		if s.recorder != nil {
			cycle := logging.Cycle{
				Window:    w.String(),
				Count:     len(pulls),
				Duration:  time.Since(start),
				Err:       err,
				Timestamp: time.Now(),
			}
			if recErr := s.recorder.Record(org, team, cycle); recErr != nil {
				log.Printf("Failed to record refresh cycle: %v", recErr)
			}
		}

		return pulls, err
	}
}

// handlePulls serves the cached pull request list for a query, starting a
// first fetch or a background refresh as the cache policy dictates. It
// never blocks on the network.
func (s *Server) handlePulls(w http.ResponseWriter, r *http.Request) {
	team, win, err := s.queryParams(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	result := s.cache.Get(s.cacheKey(team, win), s.fetcherFor(team, win))

	resp := PullsResponse{
		PullRequests: result.PullRequests,
		State:        string(result.State),
		Loading:      result.Loading,
		Stale:        result.Stale,
	}
	if result.Err != nil {
		resp.Error = result.Err.Error()
	}
	if !result.FetchedAt.IsZero() {
		t := result.FetchedAt
		resp.FetchedAt = &t
	}

	writeJSON(w, http.StatusOK, resp)
}

// handleRefresh forces a refetch for a query, throttled per key so a
// click-happy user cannot hammer the upstream API.
func (s *Server) handleRefresh(w http.ResponseWriter, r *http.Request) {
	team, win, err := s.queryParams(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	key := s.cacheKey(team, win)
	if !s.debounce.ShouldProcess(key) {
		writeJSON(w, http.StatusTooManyRequests, map[string]string{"status": "throttled"})
		return
	}

	// Make sure the key is tracked before forcing, so a refresh on a
	// never-visited query still starts a fetch. If a fetch is already in
	// flight, Refresh is a no-op and that fetch stands.
	s.cache.Get(key, s.fetcherFor(team, win))
	s.cache.Refresh(key)

	writeJSON(w, http.StatusAccepted, map[string]string{"status": "refreshing"})
}

// handleGetWindow returns the persisted window preference.
func (s *Server) handleGetWindow(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"window": s.prefs.Get(prefs.KeyWindow, s.defaultWindow()),
	})
}

// handlePutWindow persists the window preference.
func (s *Server) handlePutWindow(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Window string `json:"window"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		http.Error(w, "invalid body", http.StatusBadRequest)
		return
	}
	if !allowedWindows[body.Window] {
		http.Error(w, "window must be one of 7, 14, 30, all", http.StatusBadRequest)
		return
	}

	if err := s.prefs.Set(prefs.KeyWindow, body.Window); err != nil {
		log.Printf("Failed to persist window preference: %v", err)
		http.Error(w, "failed to persist preference", http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"window": body.Window})
}

// handleHealth responds with server health status.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	checks := map[string]interface{}{
		"provider":       s.cfg.Dashboard.Provider,
		"cached_queries": len(s.cache.Keys()),
	}

	health := HealthResponse{
		Status: "ok",
		Checks: checks,
	}

	writeJSON(w, http.StatusOK, health)
}

// handleMetrics responds with current operational metrics.
func (s *Server) handleMetrics(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, metrics.Get())
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
