package server

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"strings"
)

type adminDoc struct {
	ID           string `json:"id"`
	Email        string `json:"email"`
	PasswordHash string `json:"passwordHash"`
}

type adminSessionDoc struct {
	ID        string `json:"id"`
	AdminID   string `json:"adminId"`
	Email     string `json:"email"`
	CreatedAt string `json:"createdAt"`
}

// SeedAdmin creates the first admin account when none exists. It does
// nothing if an admin is already present or no password hash is given.
func (s *DocStore) SeedAdmin(ctx context.Context, email, passwordHash string) (bool, error) {
	email = strings.TrimSpace(strings.ToLower(email))
	if email == "" || passwordHash == "" {
		return false, nil
	}
	var count int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM admins`).Scan(&count); err != nil {
		return false, err
	}
	if count > 0 {
		return false, nil
	}

	admin := adminDoc{ID: newID(), Email: email, PasswordHash: passwordHash}
	data, err := json.Marshal(admin)
	if err != nil {
		return false, err
	}
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO admins (id, email, data) VALUES (?, ?, jsonb(?))`,
		admin.ID, admin.Email, string(data),
	)
	return err == nil, err
}

func (s *DocStore) AdminByEmail(ctx context.Context, email string) (string, string, error) {
	var data string
	err := s.db.QueryRowContext(ctx,
		`SELECT json(data) FROM admins WHERE email = ?`, email,
	).Scan(&data)
	if errors.Is(err, sql.ErrNoRows) {
		return "", "", ErrNotFound
	}
	if err != nil {
		return "", "", err
	}
	var a adminDoc
	if err := json.Unmarshal([]byte(data), &a); err != nil {
		return "", "", err
	}
	return a.ID, a.PasswordHash, nil
}

func (s *DocStore) CreateAdminSession(ctx context.Context, adminID string) (string, error) {
	var a adminDoc
	if err := s.getDoc(ctx, "admins", adminID, &a); err != nil {
		return "", err
	}

	sess := adminSessionDoc{
		ID:        newID(),
		AdminID:   adminID,
		Email:     a.Email,
		CreatedAt: nowUTC(),
	}
	data, err := json.Marshal(sess)
	if err != nil {
		return "", err
	}
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO admin_sessions (id, data) VALUES (?, jsonb(?))`,
		sess.ID, string(data),
	)
	return sess.ID, err
}

func (s *DocStore) DeleteAdminSession(ctx context.Context, sessionID string) error {
	_, err := s.db.ExecContext(ctx,
		`DELETE FROM admin_sessions WHERE id = ?`, sessionID,
	)
	return err
}

func (s *DocStore) AdminFromSession(ctx context.Context, sessionID string) (adminSession, error) {
	var doc adminSessionDoc
	err := s.getDoc(ctx, "admin_sessions", sessionID, &doc)
	if errors.Is(err, ErrNotFound) {
		return adminSession{}, errNoAdminSession
	}
	if err != nil {
		return adminSession{}, err
	}
	return adminSession{AdminID: doc.AdminID, Email: doc.Email}, nil
}
