package server

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/storefront/quizwidget/internal/database"
	"github.com/storefront/quizwidget/internal/quiz"
	"github.com/storefront/quizwidget/internal/verify"
	"github.com/storefront/quizwidget/internal/wizard"
)

const (
	testAdminEmail    = "admin@example.com"
	testAdminPassword = "changeme"
)

type testEnv struct {
	srv    *Server
	store  *DocStore
	issuer *verify.Issuer
}

func testQuestions() []quiz.Question {
	return []quiz.Question{
		{Title: "Goals", Type: quiz.MultiChoice, Required: true, Multiselect: true, Options: []string{"Sleep", "Energy"}},
		{Title: "State", Type: quiz.RegionSelect, Required: true},
		{Title: "Contact", Type: quiz.TextFields, Inputs: []quiz.FieldSpec{
			{Type: quiz.FieldText, Placeholder: "Name"},
			{Type: quiz.FieldEmail, Placeholder: "Email", Required: true},
		}},
	}
}

func setupStore(t *testing.T) *DocStore {
	t.Helper()
	ctx := context.Background()

	db, err := database.Open(ctx, database.Memory)
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	store, err := NewDocStore(ctx, db)
	if err != nil {
		t.Fatalf("init doc store: %v", err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(testAdminPassword), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("hash password: %v", err)
	}
	if _, err := store.SeedAdmin(ctx, testAdminEmail, string(hash)); err != nil {
		t.Fatalf("seed admin: %v", err)
	}
	return store
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	store := setupStore(t)
	issuer := verify.NewIssuer(store, time.Minute)
	srv := New(":0", slog.New(slog.NewTextHandler(io.Discard, nil)), Deps{
		Store:          store,
		Questions:      testQuestions(),
		Issuer:         issuer,
		SessionIdleTTL: time.Minute,
		WizardOptions:  []wizard.Option{wizard.WithTransitionDelay(10 * time.Millisecond)},
	})
	t.Cleanup(srv.sessions.Shutdown)
	return &testEnv{srv: srv, store: store, issuer: issuer}
}

// do sends a request through the router and returns the recorder.
func (e *testEnv) do(t *testing.T, method, path string, body any, opts ...func(*http.Request)) *httptest.ResponseRecorder {
	t.Helper()
	var rd io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal body: %v", err)
		}
		rd = bytes.NewReader(data)
	}
	req := httptest.NewRequest(method, path, rd)
	for _, opt := range opts {
		opt(req)
	}
	w := httptest.NewRecorder()
	e.srv.Handler().ServeHTTP(w, req)
	return w
}

func withCookies(cookies []*http.Cookie) func(*http.Request) {
	return func(r *http.Request) {
		for _, c := range cookies {
			r.AddCookie(c)
		}
	}
}

func withHeader(key, value string) func(*http.Request) {
	return func(r *http.Request) { r.Header.Set(key, value) }
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	if err := json.NewDecoder(w.Body).Decode(&v); err != nil {
		t.Fatalf("decode %T: %v (body %q)", v, err, w.Body.String())
	}
	return v
}
