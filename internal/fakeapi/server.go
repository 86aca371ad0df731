// Package fakeapi serves the users/posts API from in-memory fixtures. It
// stands in for the public demo API in tests and in offline runs.
package fakeapi

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/gorilla/mux"
)

// Server answers GET /users and GET /posts?userId=<int>.
type Server struct {
	fixtures Fixtures
	router   *mux.Router

	mu       sync.Mutex
	failNext map[string][]int
	requests map[string]int

	http *http.Server
}

// New creates a Server backed by fixtures.
func New(fixtures Fixtures) *Server {
	s := &Server{
		fixtures: fixtures,
		failNext: make(map[string][]int),
		requests: make(map[string]int),
	}

	r := mux.NewRouter()
	r.Use(s.countAndFail)
	r.HandleFunc("/users", s.handleUsers).Methods(http.MethodGet)
	r.HandleFunc("/posts", s.handlePosts).Methods(http.MethodGet)
	s.router = r
	return s
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// FailNext makes the next request to path answer with status instead of
// data. Calls queue up: FailNext twice fails the next two requests.
func (s *Server) FailNext(path string, status int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failNext[path] = append(s.failNext[path], status)
}

// Requests reports how many requests reached path.
func (s *Server) Requests(path string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.requests[path]
}

// Start listens on addr (use "127.0.0.1:0" for a free port) and serves in a
// background goroutine. It returns the base URL to point a client at.
func (s *Server) Start(addr string) (string, error) {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return "", fmt.Errorf("fakeapi: listen: %w", err)
	}

	s.http = &http.Server{
		Handler:           s,
		ReadHeaderTimeout: 5 * time.Second,
	}
	go func() {
		if err := s.http.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Printf("fakeapi: serve: %v", err)
		}
	}()

	return "http://" + ln.Addr().String() + "/", nil
}

// Stop gracefully shuts down a server started with Start.
func (s *Server) Stop(ctx context.Context) error {
	if s.http == nil {
		return nil
	}
	return s.http.Shutdown(ctx)
}

// countAndFail records the request and answers with a queued failure if one
// is pending for the path.
func (s *Server) countAndFail(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s.mu.Lock()
		s.requests[r.URL.Path]++
		status := 0
		if q := s.failNext[r.URL.Path]; len(q) > 0 {
			status = q[0]
			s.failNext[r.URL.Path] = q[1:]
		}
		s.mu.Unlock()

		if status != 0 {
			http.Error(w, http.StatusText(status), status)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (s *Server) handleUsers(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, s.fixtures.Users)
}

// handlePosts filters by userId. Without the parameter every post is
// returned; a non-integer value matches nothing.
func (s *Server) handlePosts(w http.ResponseWriter, r *http.Request) {
	raw, ok := r.URL.Query()["userId"]
	if !ok {
		writeJSON(w, s.fixtures.Posts)
		return
	}
	userID, err := strconv.Atoi(raw[0])
	if err != nil {
		writeJSON(w, []struct{}{})
		return
	}
	writeJSON(w, s.fixtures.PostsByUser(userID))
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}
