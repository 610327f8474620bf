package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/storefront/quizwidget/internal/config"
	"github.com/storefront/quizwidget/internal/database"
	"github.com/storefront/quizwidget/internal/quiz"
	"github.com/storefront/quizwidget/internal/schema"
	"github.com/storefront/quizwidget/internal/server"
	"github.com/storefront/quizwidget/internal/verify"
	"github.com/storefront/quizwidget/internal/wizard"
)

const maintenanceInterval = time.Minute

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if err := run(ctx, os.Stdout); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, stdout io.Writer) error {
	cfg, err := config.LoadServer()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	logger := slog.New(slog.NewJSONHandler(stdout, &slog.HandlerOptions{
		Level: cfg.LogLevel,
	}))

	questions, err := loadQuestions(cfg.QuizFile)
	if err != nil {
		return err
	}
	logger.Info("loaded quiz", "questions", len(questions), "file", cfg.QuizFile)

	// --- SQLite ---
	if err := os.MkdirAll(cfg.DBDir, 0o755); err != nil {
		return fmt.Errorf("creating db dir: %w", err)
	}
	dbPath := filepath.Join(cfg.DBDir, "quiz.db")
	db, err := database.Open(ctx, dbPath)
	if err != nil {
		return fmt.Errorf("connecting to sqlite: %w", err)
	}
	defer db.Close()

	store, err := server.NewDocStore(ctx, db)
	if err != nil {
		return fmt.Errorf("preparing store: %w", err)
	}
	logger.Info("connected to sqlite", "path", dbPath)

	seeded, err := store.SeedAdmin(ctx, cfg.AdminEmail, cfg.AdminPasswordHash)
	if err != nil {
		return fmt.Errorf("seeding admin: %w", err)
	}
	if seeded {
		logger.Info("seeded admin account", "email", cfg.AdminEmail)
	}

	// --- Verification ---
	issuer := verify.NewIssuer(store, cfg.TokenTTL)
	var verifier verify.Verifier = issuer
	if cfg.RecaptchaSecret != "" {
		verifier = verify.NewRecaptcha(cfg.RecaptchaSecret, cfg.RecaptchaVerifyURL, &http.Client{Timeout: 10 * time.Second})
		logger.Info("verifying submissions with recaptcha")
	}

	// --- HTTP Server ---
	srv := server.New(cfg.HTTPAddr, logger, server.Deps{
		Store:          store,
		Questions:      questions,
		Issuer:         issuer,
		Verifier:       verifier,
		SPADir:         cfg.SPADir,
		SessionIdleTTL: cfg.SessionIdleTTL,
		WizardOptions: []wizard.Option{
			wizard.WithTransitionDelay(cfg.TransitionDelay),
			wizard.WithSubmitTimeout(cfg.SubmitTimeout),
		},
	})

	// --- Run ---
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		logger.Info("starting http server", "addr", cfg.HTTPAddr)
		return srv.Run(gctx)
	})

	g.Go(func() error {
		return srv.Maintain(gctx, maintenanceInterval)
	})

	g.Go(func() error {
		<-gctx.Done()
		logger.Info("shutting down http server")
		return srv.Shutdown(context.Background())
	})

	return g.Wait()
}

func loadQuestions(path string) ([]quiz.Question, error) {
	if path == "" {
		return schema.Default(), nil
	}
	questions, err := schema.Load(path)
	if err != nil {
		return nil, fmt.Errorf("loading quiz %s: %w", path, err)
	}
	return questions, nil
}
