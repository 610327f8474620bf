package server

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/storefront/quizwidget/internal/gateway"
	"github.com/storefront/quizwidget/internal/quiz"
	"github.com/storefront/quizwidget/internal/verify"
)

func handleChallenge(logger *slog.Logger, issuer *verify.Issuer) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		token, err := issuer.Issue(r.Context())
		if err != nil {
			logger.Error("issuing challenge token", "error", err)
			writeError(w, http.StatusInternalServerError, "internal error")
			return
		}
		writeJSON(w, http.StatusOK, verify.ChallengeResponse{Token: token})
	}
}

func handleSubmitQuiz(logger *slog.Logger, in *intake) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var payload quiz.Payload
		if err := readJSON(r, &payload); err != nil {
			writeJSON(w, http.StatusBadRequest, gateway.Reply{Error: "invalid request body"})
			return
		}

		sub, err := in.accept(r.Context(), sourceHTTP, r.Header.Get(gateway.TokenHeader), payload)
		switch {
		case err == nil:
			writeJSON(w, http.StatusOK, gateway.Reply{Success: true, ID: sub.ID})
		case errors.Is(err, verify.ErrInvalidToken):
			writeJSON(w, http.StatusForbidden, gateway.Reply{Error: "invalid verification token"})
		case isPayloadError(err):
			writeJSON(w, http.StatusBadRequest, gateway.Reply{Error: err.Error()})
		default:
			logger.Error("accepting submission", "error", err)
			writeJSON(w, http.StatusInternalServerError, gateway.Reply{Error: "internal error"})
		}
	}
}
