package server

import (
	"context"
	"errors"
	"time"

	"github.com/storefront/quizwidget/internal/quiz"
)

var ErrNotFound = errors.New("not found")

// Submission is an accepted quiz as stored by the gateway.
type Submission struct {
	ID        string       `json:"id"`
	Source    string       `json:"source"`
	Items     quiz.Payload `json:"items"`
	CreatedAt string       `json:"createdAt"`
}

// SubmissionSummary is the list view of a submission.
type SubmissionSummary struct {
	ID        string `json:"id"`
	Source    string `json:"source"`
	Items     int    `json:"items"`
	CreatedAt string `json:"createdAt"`
}

const (
	sourceHTTP    = "http"
	sourceSession = "session"
)

type SubmissionStore interface {
	SaveSubmission(ctx context.Context, source string, items quiz.Payload) (Submission, error)
	ListSubmissions(ctx context.Context, limit int) ([]SubmissionSummary, error)
	GetSubmission(ctx context.Context, id string) (Submission, error)
}

// TokenStore is the persistence behind verify.Issuer.
type TokenStore interface {
	PutToken(ctx context.Context, hash string, expiresAt time.Time) error
	TakeToken(ctx context.Context, hash string) (time.Time, bool, error)
	PurgeTokens(ctx context.Context, now time.Time) (int64, error)
}

type AdminStore interface {
	AdminByEmail(ctx context.Context, email string) (adminID, passwordHash string, err error)
	CreateAdminSession(ctx context.Context, adminID string) (sessionID string, err error)
	DeleteAdminSession(ctx context.Context, sessionID string) error
	AdminFromSession(ctx context.Context, sessionID string) (adminSession, error)
}
