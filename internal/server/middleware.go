package server

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
)

type ctxKey int

const (
	ctxKeySession ctxKey = iota
	ctxKeyAdmin
)

// sessionMiddleware resolves {id} to a live wizard session.
func sessionMiddleware(sessions *Sessions) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			sess, err := sessions.get(chi.URLParam(r, "id"))
			if err != nil {
				writeError(w, http.StatusNotFound, "session not found")
				return
			}
			ctx := context.WithValue(r.Context(), ctxKeySession, sess)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func adminAuthMiddleware(admin AdminStore) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			sess, err := adminFromRequest(r, admin)
			if err != nil {
				writeError(w, http.StatusUnauthorized, "not authenticated")
				return
			}
			ctx := context.WithValue(r.Context(), ctxKeyAdmin, sess)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func sessionFrom(r *http.Request) *session {
	return r.Context().Value(ctxKeySession).(*session)
}

func adminFrom(r *http.Request) adminSession {
	return r.Context().Value(ctxKeyAdmin).(adminSession)
}
