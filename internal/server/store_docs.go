package server

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/storefront/quizwidget/internal/quiz"
)

// DocStore implements the server stores using per-model tables with JSONB
// data columns.
type DocStore struct {
	db *sql.DB
}

func NewDocStore(ctx context.Context, db *sql.DB) (*DocStore, error) {
	for _, ddl := range []string{
		`CREATE TABLE IF NOT EXISTS submissions (
			id         TEXT PRIMARY KEY,
			created_at TEXT NOT NULL,
			data       JSONB NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS submissions_created_at ON submissions (created_at)`,
		`CREATE TABLE IF NOT EXISTS challenge_tokens (
			hash       TEXT PRIMARY KEY,
			expires_at INTEGER NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS admins (
			id    TEXT PRIMARY KEY,
			email TEXT UNIQUE NOT NULL,
			data  JSONB NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS admin_sessions (
			id   TEXT PRIMARY KEY,
			data JSONB NOT NULL
		)`,
	} {
		if _, err := db.ExecContext(ctx, ddl); err != nil {
			return nil, fmt.Errorf("creating table: %w", err)
		}
	}
	return &DocStore{db: db}, nil
}

func (s *DocStore) Ping(ctx context.Context) error { return s.db.PingContext(ctx) }

func (s *DocStore) SaveSubmission(ctx context.Context, source string, items quiz.Payload) (Submission, error) {
	sub := Submission{
		ID:        newID(),
		Source:    source,
		Items:     items,
		CreatedAt: nowUTC(),
	}
	data, err := json.Marshal(sub)
	if err != nil {
		return Submission{}, err
	}
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO submissions (id, created_at, data) VALUES (?, ?, jsonb(?))`,
		sub.ID, sub.CreatedAt, string(data),
	)
	if err != nil {
		return Submission{}, fmt.Errorf("inserting submission: %w", err)
	}
	return sub, nil
}

// ListSubmissions returns the newest submissions first.
func (s *DocStore) ListSubmissions(ctx context.Context, limit int) ([]SubmissionSummary, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT json(data) FROM submissions ORDER BY created_at DESC, id DESC LIMIT ?`, limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	list := []SubmissionSummary{}
	for rows.Next() {
		var data string
		if err := rows.Scan(&data); err != nil {
			return nil, err
		}
		var sub Submission
		if err := json.Unmarshal([]byte(data), &sub); err != nil {
			return nil, err
		}
		list = append(list, SubmissionSummary{
			ID:        sub.ID,
			Source:    sub.Source,
			Items:     len(sub.Items),
			CreatedAt: sub.CreatedAt,
		})
	}
	return list, rows.Err()
}

func (s *DocStore) GetSubmission(ctx context.Context, id string) (Submission, error) {
	var sub Submission
	if err := s.getDoc(ctx, "submissions", id, &sub); err != nil {
		return Submission{}, err
	}
	return sub, nil
}

func (s *DocStore) PutToken(ctx context.Context, hash string, expiresAt time.Time) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT OR REPLACE INTO challenge_tokens (hash, expires_at) VALUES (?, ?)`,
		hash, expiresAt.UnixMilli(),
	)
	return err
}

// TakeToken deletes the token row and reports its expiry, so a token can
// only be taken once.
func (s *DocStore) TakeToken(ctx context.Context, hash string) (time.Time, bool, error) {
	var ms int64
	err := s.db.QueryRowContext(ctx,
		`DELETE FROM challenge_tokens WHERE hash = ? RETURNING expires_at`, hash,
	).Scan(&ms)
	if errors.Is(err, sql.ErrNoRows) {
		return time.Time{}, false, nil
	}
	if err != nil {
		return time.Time{}, false, err
	}
	return time.UnixMilli(ms), true, nil
}

func (s *DocStore) PurgeTokens(ctx context.Context, now time.Time) (int64, error) {
	result, err := s.db.ExecContext(ctx,
		`DELETE FROM challenge_tokens WHERE expires_at <= ?`, now.UnixMilli(),
	)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}

// getDoc loads one JSONB document by id from table.
func (s *DocStore) getDoc(ctx context.Context, table, id string, v any) error {
	var data string
	err := s.db.QueryRowContext(ctx,
		`SELECT json(data) FROM `+table+` WHERE id = ?`, id,
	).Scan(&data)
	if errors.Is(err, sql.ErrNoRows) {
		return ErrNotFound
	}
	if err != nil {
		return err
	}
	return json.Unmarshal([]byte(data), v)
}

func newID() string {
	return uuid.NewString()
}

func nowUTC() string {
	return time.Now().UTC().Format("2006-01-02T15:04:05.000Z")
}
