package server

import (
	"context"
	"fmt"
	"log"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"
)

// httpState holds the running HTTP server and its listener.
type httpState struct {
	server   *http.Server
	listener net.Listener
}

func (s *Server) setState(hs *httpState) {
	s.httpStateMu.Lock()
	s.httpState = hs
	s.httpStateMu.Unlock()
}

func (s *Server) getState() *httpState {
	s.httpStateMu.RLock()
	defer s.httpStateMu.RUnlock()
	return s.httpState
}

// Shutdown gracefully shuts down the server.
// If the server hasn't been started, this is a no-op.
func (s *Server) Shutdown(ctx context.Context) error {
	hs := s.getState()
	if hs == nil {
		return nil
	}
	return hs.server.Shutdown(ctx)
}

// Addr returns the address the server is listening on.
// Returns empty string if the server hasn't been started.
func (s *Server) Addr() string {
	hs := s.getState()
	if hs == nil {
		return ""
	}
	return hs.listener.Addr().String()
}

// ListenAndServeWithShutdown starts the server with graceful shutdown
// handling. It listens for SIGINT and SIGTERM and drains in-flight
// requests before returning.
func (s *Server) ListenAndServeWithShutdown() error {
	addr := fmt.Sprintf("%s:%d", s.cfg.Server.Host, s.cfg.Server.Port)

	// Create the listener first so the actual address is known (important
	// for port 0 in tests).
	listener, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("failed to listen: %w", err)
	}

	hs := &httpState{
		server:   &http.Server{Handler: s.Handler()},
		listener: listener,
	}
	s.setState(hs)

	s.debounce.Start(debounceSweepInterval)
	defer s.debounce.Stop()

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, syscall.SIGINT, syscall.SIGTERM)

	serverDone := make(chan error, 1)
	go func() {
		if err := hs.server.Serve(listener); err != http.ErrServerClosed {
			serverDone <- err
			return
		}
		serverDone <- nil
	}()

	log.Printf("Server started on %s", listener.Addr().String())
	close(s.ready)

	select {
	case sig := <-shutdown:
		log.Printf("Received signal %v, initiating shutdown...", sig)
	case err := <-serverDone:
		// Server stopped on its own (error or Shutdown called elsewhere).
		if err != nil {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := hs.server.Shutdown(ctx); err != nil {
		log.Printf("Shutdown error: %v", err)
		return err
	}

	log.Println("Server shutdown complete")

	<-serverDone

	return nil
}
