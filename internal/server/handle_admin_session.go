package server

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"golang.org/x/crypto/bcrypt"
)

// AdminLoginRequest is the request body for POST /api/admin/login.
type AdminLoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// AdminMeResponse describes the signed-in admin.
type AdminMeResponse struct {
	ID    string `json:"id"`
	Email string `json:"email"`
}

var errBadCredentials = errors.New("invalid credentials")

// authenticate returns the admin id for a matching email and password.
func authenticate(r *http.Request, admin AdminStore, email, password string) (string, error) {
	id, hash, err := admin.AdminByEmail(r.Context(), email)
	if errors.Is(err, ErrNotFound) {
		return "", errBadCredentials
	}
	if err != nil {
		return "", err
	}
	if bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) != nil {
		return "", errBadCredentials
	}
	return id, nil
}

func handleAdminLogin(logger *slog.Logger, admin AdminStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req AdminLoginRequest
		if err := readJSON(r, &req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}
		email := strings.ToLower(strings.TrimSpace(req.Email))
		if email == "" || req.Password == "" {
			writeError(w, http.StatusBadRequest, "email and password are required")
			return
		}

		adminID, err := authenticate(r, admin, email, req.Password)
		switch {
		case errors.Is(err, errBadCredentials):
			logger.Warn("admin login refused", "email", email)
			writeError(w, http.StatusUnauthorized, err.Error())
			return
		case err != nil:
			logger.Error("looking up admin", "error", err)
			writeError(w, http.StatusInternalServerError, "internal error")
			return
		}

		sessionID, err := admin.CreateAdminSession(r.Context(), adminID)
		if err != nil {
			logger.Error("creating admin session", "error", err)
			writeError(w, http.StatusInternalServerError, "internal error")
			return
		}
		setAdminCookie(w, sessionID)
		logger.Info("admin signed in", "admin", adminID)
		writeJSON(w, http.StatusOK, AdminMeResponse{ID: adminID, Email: email})
	}
}

// handleAdminLogout drops the server-side session, if any, and expires the
// cookie. It succeeds without a session.
func handleAdminLogout(logger *slog.Logger, admin AdminStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if cookie, err := r.Cookie(adminCookieName); err == nil && cookie.Value != "" {
			if err := admin.DeleteAdminSession(r.Context(), cookie.Value); err != nil {
				logger.Warn("deleting admin session", "error", err)
			}
		}
		setAdminCookie(w, "")
		w.WriteHeader(http.StatusNoContent)
	}
}

func handleAdminMe() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sess := adminFrom(r)
		writeJSON(w, http.StatusOK, AdminMeResponse{ID: sess.AdminID, Email: sess.Email})
	}
}
