package server

import (
	"context"
	"net/http"
	"testing"

	"github.com/storefront/quizwidget/internal/quiz"
)

func (e *testEnv) login(t *testing.T) []*http.Cookie {
	t.Helper()
	w := e.do(t, http.MethodPost, "/api/admin/login", AdminLoginRequest{Email: testAdminEmail, Password: testAdminPassword})
	if w.Code != http.StatusOK {
		t.Fatalf("login: expected 200, got %d: %s", w.Code, w.Body.String())
	}
	return w.Result().Cookies()
}

func TestAdminLoginGoodCredentials(t *testing.T) {
	env := newTestEnv(t)

	w := env.do(t, http.MethodPost, "/api/admin/login", AdminLoginRequest{Email: " Admin@Example.com ", Password: testAdminPassword})
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
	if resp := decode[AdminMeResponse](t, w); resp.Email != testAdminEmail {
		t.Errorf("expected email %s, got %q", testAdminEmail, resp.Email)
	}

	found := false
	for _, c := range w.Result().Cookies() {
		if c.Name == adminCookieName && c.Value != "" && c.HttpOnly {
			found = true
		}
	}
	if !found {
		t.Error("expected admin_session cookie to be set")
	}
}

func TestAdminLoginRejected(t *testing.T) {
	env := newTestEnv(t)

	tests := []struct {
		name string
		body any
		want int
	}{
		{"wrong password", AdminLoginRequest{Email: testAdminEmail, Password: "wrong"}, http.StatusUnauthorized},
		{"unknown email", AdminLoginRequest{Email: "nobody@example.com", Password: testAdminPassword}, http.StatusUnauthorized},
		{"missing password", AdminLoginRequest{Email: testAdminEmail}, http.StatusBadRequest},
		{"unknown field", map[string]string{"user": "x"}, http.StatusBadRequest},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if w := env.do(t, http.MethodPost, "/api/admin/login", tt.body); w.Code != tt.want {
				t.Fatalf("expected %d, got %d: %s", tt.want, w.Code, w.Body.String())
			}
		})
	}
}

func TestAdminMeAndLogout(t *testing.T) {
	env := newTestEnv(t)

	if w := env.do(t, http.MethodGet, "/api/admin/me", nil); w.Code != http.StatusUnauthorized {
		t.Fatalf("me without cookie: expected 401, got %d", w.Code)
	}

	cookies := env.login(t)
	w := env.do(t, http.MethodGet, "/api/admin/me", nil, withCookies(cookies))
	if w.Code != http.StatusOK {
		t.Fatalf("me: expected 200, got %d: %s", w.Code, w.Body.String())
	}
	if me := decode[AdminMeResponse](t, w); me.Email != testAdminEmail || me.ID == "" {
		t.Fatalf("me = %+v", me)
	}

	if w := env.do(t, http.MethodPost, "/api/admin/logout", nil, withCookies(cookies)); w.Code != http.StatusNoContent {
		t.Fatalf("logout: expected 204, got %d", w.Code)
	}
	if w := env.do(t, http.MethodGet, "/api/admin/me", nil, withCookies(cookies)); w.Code != http.StatusUnauthorized {
		t.Fatalf("me after logout: expected 401, got %d", w.Code)
	}
}

func TestAdminSubmissions(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	if w := env.do(t, http.MethodGet, "/api/admin/submissions", nil); w.Code != http.StatusUnauthorized {
		t.Fatalf("list without cookie: expected 401, got %d", w.Code)
	}

	sub, err := env.store.SaveSubmission(ctx, sourceHTTP, quiz.Payload{{Label: "Goals", Answer: "Sleep"}})
	if err != nil {
		t.Fatalf("SaveSubmission: %v", err)
	}
	cookies := env.login(t)

	w := env.do(t, http.MethodGet, "/api/admin/submissions", nil, withCookies(cookies))
	if w.Code != http.StatusOK {
		t.Fatalf("list: expected 200, got %d: %s", w.Code, w.Body.String())
	}
	list := decode[[]SubmissionSummary](t, w)
	if len(list) != 1 || list[0].ID != sub.ID || list[0].Items != 1 {
		t.Fatalf("list = %+v", list)
	}

	w = env.do(t, http.MethodGet, "/api/admin/submissions/"+sub.ID, nil, withCookies(cookies))
	if w.Code != http.StatusOK {
		t.Fatalf("get: expected 200, got %d", w.Code)
	}
	if got := decode[Submission](t, w); len(got.Items) != 1 || got.Items[0].Answer != "Sleep" {
		t.Fatalf("submission = %+v", got)
	}

	if w := env.do(t, http.MethodGet, "/api/admin/submissions/missing", nil, withCookies(cookies)); w.Code != http.StatusNotFound {
		t.Fatalf("get missing: expected 404, got %d", w.Code)
	}
	if w := env.do(t, http.MethodGet, "/api/admin/submissions?limit=0", nil, withCookies(cookies)); w.Code != http.StatusBadRequest {
		t.Fatalf("bad limit: expected 400, got %d", w.Code)
	}
}
