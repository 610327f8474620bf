package verify

import (
	"context"
	"encoding/hex"
	"fmt"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/blake2b"
)

// DefaultTTL bounds how long an issued token stays redeemable.
const DefaultTTL = 2 * time.Minute

// TokenStore persists issued tokens by hash. TakeToken removes the entry
// it returns, so each token can be taken once.
type TokenStore interface {
	PutToken(ctx context.Context, hash string, expiresAt time.Time) error
	TakeToken(ctx context.Context, hash string) (expiresAt time.Time, ok bool, err error)
}

// Issuer mints challenge tokens and redeems them exactly once. Only the
// token hash is stored.
type Issuer struct {
	store TokenStore
	ttl   time.Duration
	now   func() time.Time
}

func NewIssuer(store TokenStore, ttl time.Duration) *Issuer {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Issuer{store: store, ttl: ttl, now: time.Now}
}

func (i *Issuer) Issue(ctx context.Context) (string, error) {
	token := uuid.NewString()
	if err := i.store.PutToken(ctx, hashToken(token), i.now().Add(i.ttl)); err != nil {
		return "", fmt.Errorf("storing token: %w", err)
	}
	return token, nil
}

// Verify redeems token. A second call with the same token fails.
func (i *Issuer) Verify(ctx context.Context, token string) error {
	if token == "" {
		return ErrInvalidToken
	}
	expiresAt, ok, err := i.store.TakeToken(ctx, hashToken(token))
	if err != nil {
		return fmt.Errorf("redeeming token: %w", err)
	}
	if !ok || !i.now().Before(expiresAt) {
		return ErrInvalidToken
	}
	return nil
}

func hashToken(token string) string {
	sum := blake2b.Sum256([]byte(token))
	return hex.EncodeToString(sum[:])
}

// Local adapts an Issuer to the wizard's challenge interface for sessions
// hosted in the same process.
type Local struct {
	Issuer *Issuer
}

func (l Local) RequestToken(ctx context.Context) (string, error) { return l.Issuer.Issue(ctx) }

// ResetChallenge is a no-op; issued tokens are single use on redemption.
func (l Local) ResetChallenge() {}
