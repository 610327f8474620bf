package server

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
)

func handleAdminListSubmissions(logger *slog.Logger, store SubmissionStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		limit := 50
		if v := r.URL.Query().Get("limit"); v != "" {
			n, err := strconv.Atoi(v)
			if err != nil || n < 1 || n > 500 {
				writeError(w, http.StatusBadRequest, "limit must be between 1 and 500")
				return
			}
			limit = n
		}

		list, err := store.ListSubmissions(r.Context(), limit)
		if err != nil {
			logger.Error("listing submissions", "error", err)
			writeError(w, http.StatusInternalServerError, "internal error")
			return
		}
		writeJSON(w, http.StatusOK, list)
	}
}

func handleAdminGetSubmission(logger *slog.Logger, store SubmissionStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sub, err := store.GetSubmission(r.Context(), chi.URLParam(r, "id"))
		if errors.Is(err, ErrNotFound) {
			writeError(w, http.StatusNotFound, "submission not found")
			return
		}
		if err != nil {
			logger.Error("loading submission", "error", err)
			writeError(w, http.StatusInternalServerError, "internal error")
			return
		}
		writeJSON(w, http.StatusOK, sub)
	}
}
