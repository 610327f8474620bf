// Package health serves the dependency health endpoint.
package health

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"golang.org/x/sync/errgroup"
)

// Checker verifies that an infrastructure dependency is reachable.
type Checker interface {
	Check(ctx context.Context) error
}

// CheckerFunc adapts a function to Checker.
type CheckerFunc func(ctx context.Context) error

func (f CheckerFunc) Check(ctx context.Context) error { return f(ctx) }

// Response is the body of the health endpoint.
type Response struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks"`
}

const (
	statusOK    = "ok"
	statusError = "error"
)

type Handler struct {
	checks  map[string]Checker
	logger  *slog.Logger
	timeout time.Duration
}

func NewHandler(logger *slog.Logger, checks map[string]Checker) *Handler {
	return &Handler{checks: checks, logger: logger, timeout: 3 * time.Second}
}

func (h *Handler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Get("/", h.check)
	return r
}

// check runs every checker concurrently under one deadline.
func (h *Handler) check(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	var (
		mu   sync.Mutex
		resp = Response{Status: statusOK, Checks: make(map[string]string, len(h.checks))}
	)
	var g errgroup.Group
	for name, c := range h.checks {
		g.Go(func() error {
			status := statusOK
			if err := c.Check(ctx); err != nil {
				h.logger.Error("health check failed", "name", name, "error", err)
				status = statusError
			}
			mu.Lock()
			resp.Checks[name] = status
			if status != statusOK {
				resp.Status = statusError
			}
			mu.Unlock()
			return nil
		})
	}
	g.Wait()

	code := http.StatusOK
	if resp.Status != statusOK {
		code = http.StatusServiceUnavailable
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(resp)
}
