package gateway

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/storefront/quizwidget/internal/quiz"
)

func TestSubmitSendsTokenAndPayload(t *testing.T) {
	payload := quiz.Payload{{Label: "Goals", Answer: "A, B"}, {Label: "State", Answer: "Ohio"}}

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get(TokenHeader); got != "tok" {
			t.Errorf("token header = %q", got)
		}
		if got := r.Header.Get("Content-Type"); got != "application/json" {
			t.Errorf("content-type = %q", got)
		}
		var got quiz.Payload
		if err := json.NewDecoder(r.Body).Decode(&got); err != nil {
			t.Errorf("decode: %v", err)
		}
		if len(got) != 2 || got[0] != payload[0] || got[1] != payload[1] {
			t.Errorf("payload = %+v", got)
		}
		w.Write([]byte(`{"success":true,"id":"1"}`))
	}))
	defer srv.Close()

	if err := NewClient(srv.URL, srv.Client()).Submit(context.Background(), "tok", payload); err != nil {
		t.Fatalf("Submit: %v", err)
	}
}

func TestSubmitOutcome(t *testing.T) {
	tests := []struct {
		name     string
		status   int
		body     string
		rejected bool
		wantErr  bool
	}{
		{"success", http.StatusOK, `{"success":true}`, false, false},
		{"no success field", http.StatusOK, `{"id":"x"}`, false, false},
		{"empty body", http.StatusNoContent, ``, false, false},
		{"success false", http.StatusOK, `{"success":false,"error":"nope"}`, true, true},
		{"forbidden", http.StatusForbidden, `{"success":false}`, true, true},
		{"server error", http.StatusInternalServerError, `oops`, true, true},
		{"garbage on 200", http.StatusOK, `<html>`, false, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				w.Write([]byte(tt.body))
			}))
			defer srv.Close()

			err := NewClient(srv.URL, srv.Client()).Submit(context.Background(), "t", quiz.Payload{{Label: "L"}})
			if (err != nil) != tt.wantErr {
				t.Fatalf("err = %v, wantErr %v", err, tt.wantErr)
			}
			if errors.Is(err, ErrRejected) != tt.rejected {
				t.Fatalf("errors.Is(err, ErrRejected) = %v, want %v", errors.Is(err, ErrRejected), tt.rejected)
			}
		})
	}
}

func TestSubmitTransportError(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	err := NewClient(url, nil).Submit(context.Background(), "t", quiz.Payload{{Label: "L"}})
	if err == nil || errors.Is(err, ErrRejected) {
		t.Fatalf("err = %v, want transport error", err)
	}
}

func TestValidate(t *testing.T) {
	if err := Validate(nil); !errors.Is(err, ErrEmptyPayload) {
		t.Fatalf("Validate(nil) = %v", err)
	}
	if err := Validate(quiz.Payload{{Label: "A"}, {Answer: "x"}}); !errors.Is(err, ErrMissingLabel) {
		t.Fatalf("Validate(missing label) = %v", err)
	}
	if err := Validate(quiz.Payload{{Label: "A", Answer: ""}}); err != nil {
		t.Fatalf("Validate(ok) = %v", err)
	}
}
