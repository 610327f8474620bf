// Package verify issues and checks the single-use bot verification tokens
// that guard quiz submissions.
package verify

import (
	"context"
	"errors"
)

// ErrInvalidToken is returned when a token is unknown, expired, already
// used, or refused by the verification provider.
var ErrInvalidToken = errors.New("invalid verification token")

// Verifier checks a token presented alongside a submission.
type Verifier interface {
	Verify(ctx context.Context, token string) error
}
