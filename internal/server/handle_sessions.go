package server

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/storefront/quizwidget/internal/answer"
	"github.com/storefront/quizwidget/internal/wizard"
)

// ResizeRequest is the request body for POST /api/sessions/{id}/resize.
type ResizeRequest struct {
	HeaderHeight int `json:"headerHeight"`
}

func handleOpenSession(logger *slog.Logger, sessions *Sessions) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sess, err := sessions.open(r.Context())
		if err != nil {
			logger.Error("opening quiz session", "error", err)
			writeError(w, http.StatusInternalServerError, "internal error")
			return
		}
		writeJSON(w, http.StatusCreated, sess.view())
	}
}

func handleGetSession() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, sessionFrom(r).view())
	}
}

func handleSessionInput() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sess := sessionFrom(r)

		var in answer.Input
		if err := readJSON(r, &in); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}

		// Report bad input up front; the wizard itself ignores it.
		st := sess.ctrl.State()
		if st.Phase == wizard.Idle {
			q := sess.ctrl.Questions()[st.Step]
			if _, err := answer.Apply(q, st.Active, in); err != nil {
				writeError(w, http.StatusUnprocessableEntity, err.Error())
				return
			}
		}

		dispatch(w, r, sess, func(ctx context.Context) (wizard.State, error) {
			return sess.ctrl.Input(ctx, in)
		})
	}
}

func handleSessionContinue() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sess := sessionFrom(r)
		dispatch(w, r, sess, sess.ctrl.Continue)
	}
}

func handleSessionBack() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sess := sessionFrom(r)
		dispatch(w, r, sess, sess.ctrl.Back)
	}
}

func handleSessionResize() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sess := sessionFrom(r)

		var req ResizeRequest
		if err := readJSON(r, &req); err != nil || req.HeaderHeight < 0 {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}
		dispatch(w, r, sess, func(ctx context.Context) (wizard.State, error) {
			return sess.ctrl.Resize(ctx, req.HeaderHeight)
		})
	}
}

// handleCloseSession closes the wizard and drops the session. A session
// that is mid-transition or submitting cannot be closed.
func handleCloseSession(sessions *Sessions) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sess := sessionFrom(r)

		st, err := sess.ctrl.Close(r.Context())
		if err != nil {
			writeError(w, http.StatusGone, "session stopped")
			return
		}
		if st.IsOpen() {
			writeJSON(w, http.StatusConflict, sess.view())
			return
		}
		sessions.remove(sess.id)
		w.WriteHeader(http.StatusNoContent)
	}
}

func dispatch(w http.ResponseWriter, r *http.Request, sess *session, fn func(context.Context) (wizard.State, error)) {
	if _, err := fn(r.Context()); err != nil {
		if errors.Is(err, wizard.ErrStopped) {
			writeError(w, http.StatusGone, "session stopped")
			return
		}
		writeError(w, http.StatusRequestTimeout, "request cancelled")
		return
	}
	writeJSON(w, http.StatusOK, sess.view())
}
