package server

import (
	"errors"
	"net/http"
	"time"
)

type adminSession struct {
	AdminID string
	Email   string
}

var errNoAdminSession = errors.New("no valid admin session")

const (
	adminCookieName = "admin_session"
	adminSessionTTL = 7 * 24 * time.Hour
)

// adminFromRequest resolves the admin behind the session cookie.
func adminFromRequest(r *http.Request, admin AdminStore) (adminSession, error) {
	cookie, err := r.Cookie(adminCookieName)
	if err != nil || cookie.Value == "" {
		return adminSession{}, errNoAdminSession
	}
	return admin.AdminFromSession(r.Context(), cookie.Value)
}

// setAdminCookie stores sessionID in the cookie; an empty id expires it.
func setAdminCookie(w http.ResponseWriter, sessionID string) {
	maxAge := int(adminSessionTTL / time.Second)
	if sessionID == "" {
		maxAge = -1
	}
	http.SetCookie(w, &http.Cookie{
		Name:     adminCookieName,
		Value:    sessionID,
		Path:     "/api/admin",
		MaxAge:   maxAge,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}
