package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	tea "github.com/charmbracelet/bubbletea"
	"golang.org/x/sync/errgroup"

	"github.com/storefront/quizwidget/internal/config"
	"github.com/storefront/quizwidget/internal/gateway"
	"github.com/storefront/quizwidget/internal/quiz"
	"github.com/storefront/quizwidget/internal/schema"
	"github.com/storefront/quizwidget/internal/tui"
	"github.com/storefront/quizwidget/internal/verify"
	"github.com/storefront/quizwidget/internal/wizard"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if err := run(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context) error {
	cfg, err := config.LoadClient()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	// The terminal belongs to the TUI, so logs go to a file.
	logFile, err := os.OpenFile(cfg.LogFile, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("opening log file: %w", err)
	}
	defer logFile.Close()
	logger := slog.New(slog.NewJSONHandler(logFile, &slog.HandlerOptions{
		Level: cfg.LogLevel,
	}))

	questions := schema.Default()
	if cfg.QuizFile != "" {
		if questions, err = schema.Load(cfg.QuizFile); err != nil {
			return fmt.Errorf("loading quiz %s: %w", cfg.QuizFile, err)
		}
	}
	logConfigErrors(logger, questions)

	httpClient := &http.Client{Timeout: cfg.SubmitTimeout}
	bridge := tui.NewBridge()
	ctrl := wizard.New(questions,
		verify.NewClient(cfg.ChallengeURL, httpClient),
		gateway.NewClient(cfg.GatewayURL, httpClient),
		wizard.WithLogger(logger),
		wizard.WithTransitionDelay(cfg.TransitionDelay),
		wizard.WithSubmitTimeout(cfg.SubmitTimeout),
		wizard.WithObserver(bridge.Observe),
		wizard.WithLayout(bridge),
	)

	g, gctx := errgroup.WithContext(ctx)
	runCtx, stop := context.WithCancel(gctx)
	defer stop()

	g.Go(func() error {
		return ctrl.Run(runCtx)
	})

	g.Go(func() error {
		defer stop()
		p := tea.NewProgram(tui.New(runCtx, ctrl, bridge, tui.Options{}), tea.WithContext(runCtx))
		final, err := p.Run()
		if err != nil && !errors.Is(err, tea.ErrProgramKilled) {
			return fmt.Errorf("running tui: %w", err)
		}
		if m, ok := final.(tui.Model); ok && m.Err() != nil && !errors.Is(m.Err(), context.Canceled) {
			return m.Err()
		}
		return nil
	})

	return g.Wait()
}

func logConfigErrors(logger *slog.Logger, questions []quiz.Question) {
	for i, q := range questions {
		if q.ConfigErr != nil {
			logger.Warn("quiz question misconfigured", "step", i, "title", q.Title, "error", q.ConfigErr)
		}
	}
}
