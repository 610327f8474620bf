package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/storefront/quizwidget/internal/quiz"
	"github.com/storefront/quizwidget/internal/verify"
	"github.com/storefront/quizwidget/internal/wizard"
)

// Deps are the collaborators the HTTP server is built from.
type Deps struct {
	Store     *DocStore
	Questions []quiz.Question
	Issuer    *verify.Issuer
	// Verifier checks tokens on POST /api/v1/submitquiz. Hosted sessions
	// always redeem Issuer tokens.
	Verifier       verify.Verifier
	SPADir         string
	SessionIdleTTL time.Duration
	WizardOptions  []wizard.Option
}

type Server struct {
	srv      *http.Server
	logger   *slog.Logger
	store    *DocStore
	sessions *Sessions
}

func New(addr string, logger *slog.Logger, deps Deps) *Server {
	if deps.Verifier == nil {
		deps.Verifier = deps.Issuer
	}

	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(newStructuredLogger(logger))
	r.Use(middleware.Recoverer)

	broker := NewBroker()
	sessionIntake := &intake{verifier: deps.Issuer, store: deps.Store, logger: logger}
	sessions := NewSessions(deps.Questions, verify.Local{Issuer: deps.Issuer},
		sessionSubmitter{intake: sessionIntake}, broker, logger, deps.SessionIdleTTL, deps.WizardOptions...)
	httpIntake := &intake{verifier: deps.Verifier, store: deps.Store, logger: logger}

	addRoutes(r, logger, deps, broker, sessions, httpIntake)

	return &Server{
		srv: &http.Server{
			Addr:              addr,
			Handler:           r,
			ReadHeaderTimeout: 5 * time.Second,
			IdleTimeout:       120 * time.Second,
		},
		logger:   logger,
		store:    deps.Store,
		sessions: sessions,
	}
}

func (s *Server) Handler() http.Handler { return s.srv.Handler }

func (s *Server) Run(_ context.Context) error {
	ln, err := net.Listen("tcp", s.srv.Addr)
	if err != nil {
		return fmt.Errorf("listening on %s: %w", s.srv.Addr, err)
	}

	err = s.srv.Serve(ln)
	if errors.Is(err, http.ErrServerClosed) {
		return nil
	}
	return err
}

// Maintain sweeps idle sessions and expired challenge tokens until ctx is
// done.
func (s *Server) Maintain(ctx context.Context, every time.Duration) error {
	t := time.NewTicker(every)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return nil
		case now := <-t.C:
			s.sessions.Sweep(now)
			n, err := s.store.PurgeTokens(ctx, now)
			if err != nil && ctx.Err() == nil {
				s.logger.Error("purging challenge tokens", "error", err)
				continue
			}
			if n > 0 {
				s.logger.Debug("purged challenge tokens", "removed", n)
			}
		}
	}
}

func (s *Server) Shutdown(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	err := s.srv.Shutdown(ctx)
	s.sessions.Shutdown()
	return err
}

func newStructuredLogger(logger *slog.Logger) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

			defer func() {
				logger.Info("http request",
					"method", r.Method,
					"path", r.URL.Path,
					"status", ww.Status(),
					"bytes", ww.BytesWritten(),
					"duration_ms", time.Since(start).Milliseconds(),
					"request_id", middleware.GetReqID(r.Context()),
				)
			}()

			next.ServeHTTP(ww, r)
		})
	}
}
