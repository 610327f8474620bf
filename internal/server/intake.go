package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/storefront/quizwidget/internal/gateway"
	"github.com/storefront/quizwidget/internal/quiz"
	"github.com/storefront/quizwidget/internal/verify"
)

// intake is the gateway's accept path: token check, payload check, store.
// HTTP submissions and hosted sessions both go through it.
type intake struct {
	verifier verify.Verifier
	store    SubmissionStore
	logger   *slog.Logger
}

func (in *intake) accept(ctx context.Context, source, token string, payload quiz.Payload) (Submission, error) {
	if err := in.verifier.Verify(ctx, token); err != nil {
		return Submission{}, fmt.Errorf("verifying token: %w", err)
	}
	if err := gateway.Validate(payload); err != nil {
		return Submission{}, err
	}
	sub, err := in.store.SaveSubmission(ctx, source, payload)
	if err != nil {
		return Submission{}, fmt.Errorf("saving submission: %w", err)
	}
	in.logger.Info("quiz submission accepted", "id", sub.ID, "source", source, "items", len(payload))
	return sub, nil
}

// sessionSubmitter lets hosted sessions submit without a network hop.
type sessionSubmitter struct {
	intake *intake
}

func (s sessionSubmitter) Submit(ctx context.Context, token string, payload quiz.Payload) error {
	if _, err := s.intake.accept(ctx, sourceSession, token, payload); err != nil {
		if errors.Is(err, verify.ErrInvalidToken) || isPayloadError(err) {
			return fmt.Errorf("%w: %v", gateway.ErrRejected, err)
		}
		return err
	}
	return nil
}

func isPayloadError(err error) bool {
	return errors.Is(err, gateway.ErrEmptyPayload) || errors.Is(err, gateway.ErrMissingLabel)
}
