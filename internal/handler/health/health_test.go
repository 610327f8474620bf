package health_test

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/storefront/quizwidget/internal/handler/health"
)

type mockChecker struct{ err error }

func (m mockChecker) Check(_ context.Context) error { return m.err }

func TestHandler(t *testing.T) {
	tests := []struct {
		name       string
		checks     map[string]health.Checker
		wantStatus int
		wantBody   health.Response
	}{
		{
			name: "all healthy",
			checks: map[string]health.Checker{
				"sqlite":    mockChecker{},
				"challenge": health.CheckerFunc(func(context.Context) error { return nil }),
			},
			wantStatus: http.StatusOK,
			wantBody:   health.Response{Status: "ok", Checks: map[string]string{"sqlite": "ok", "challenge": "ok"}},
		},
		{
			name: "sqlite down",
			checks: map[string]health.Checker{
				"sqlite":    mockChecker{err: errors.New("locked")},
				"challenge": mockChecker{},
			},
			wantStatus: http.StatusServiceUnavailable,
			wantBody:   health.Response{Status: "error", Checks: map[string]string{"sqlite": "error", "challenge": "ok"}},
		},
		{
			name: "func checker down",
			checks: map[string]health.Checker{
				"sqlite":    mockChecker{},
				"challenge": health.CheckerFunc(func(context.Context) error { return errors.New("refused") }),
			},
			wantStatus: http.StatusServiceUnavailable,
			wantBody:   health.Response{Status: "error", Checks: map[string]string{"sqlite": "ok", "challenge": "error"}},
		},
		{
			name:       "no checks",
			checks:     map[string]health.Checker{},
			wantStatus: http.StatusOK,
			wantBody:   health.Response{Status: "ok", Checks: map[string]string{}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := health.NewHandler(slog.Default(), tt.checks)

			req := httptest.NewRequest(http.MethodGet, "/", nil)
			rec := httptest.NewRecorder()
			h.Routes().ServeHTTP(rec, req)

			if rec.Code != tt.wantStatus {
				t.Errorf("status = %d, want %d", rec.Code, tt.wantStatus)
			}

			var body health.Response
			if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
				t.Fatalf("decoding response: %v", err)
			}
			if body.Status != tt.wantBody.Status {
				t.Errorf("status field = %q, want %q", body.Status, tt.wantBody.Status)
			}
			if len(body.Checks) != len(tt.wantBody.Checks) {
				t.Errorf("checks = %v, want %v", body.Checks, tt.wantBody.Checks)
			}
			for name, want := range tt.wantBody.Checks {
				if got := body.Checks[name]; got != want {
					t.Errorf("%s status = %q, want %q", name, got, want)
				}
			}
		})
	}
}
