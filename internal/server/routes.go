package server

import (
	"log/slog"
	"os"

	"github.com/go-chi/chi/v5"
	"github.com/swaggest/swgui/v5emb"

	"github.com/storefront/quizwidget/internal/handler/health"
)

func addRoutes(r chi.Router, logger *slog.Logger, deps Deps, broker *Broker, sessions *Sessions, in *intake) {
	r.Get("/openapi.json", handleOpenAPI())
	r.Mount("/docs", v5emb.New("Quiz Widget API", "/openapi.json", "/docs"))
	r.Mount("/healthz", health.NewHandler(logger, map[string]health.Checker{
		"sqlite": health.CheckerFunc(deps.Store.Ping),
	}).Routes())

	// Submission gateway.
	r.Post("/api/v1/challenge", handleChallenge(logger, deps.Issuer))
	r.Post("/api/v1/submitquiz", handleSubmitQuiz(logger, in))

	// Hosted wizard sessions.
	r.Post("/api/sessions", handleOpenSession(logger, sessions))
	r.Route("/api/sessions/{id}", func(r chi.Router) {
		r.Use(sessionMiddleware(sessions))
		r.Get("/", handleGetSession())
		r.Post("/input", handleSessionInput())
		r.Post("/continue", handleSessionContinue())
		r.Post("/back", handleSessionBack())
		r.Post("/resize", handleSessionResize())
		r.Delete("/", handleCloseSession(sessions))
		r.Get("/events", handleEvents(broker))
	})

	// Admin.
	r.Route("/api/admin", func(r chi.Router) {
		r.Post("/login", handleAdminLogin(logger, deps.Store))
		r.Post("/logout", handleAdminLogout(logger, deps.Store))
		r.Group(func(r chi.Router) {
			r.Use(adminAuthMiddleware(deps.Store))
			r.Get("/me", handleAdminMe())
			r.Get("/submissions", handleAdminListSubmissions(logger, deps.Store))
			r.Get("/submissions/{id}", handleAdminGetSubmission(logger, deps.Store))
		})
	})

	if deps.SPADir != "" {
		if info, err := os.Stat(deps.SPADir); err == nil && info.IsDir() {
			logger.Info("serving SPA", "dir", deps.SPADir)
			r.NotFound(handleSPA(deps.SPADir))
		}
	}
}
