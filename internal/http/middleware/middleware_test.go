package middleware

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/agiseventos/agenda/internal/domain"
	"github.com/agiseventos/agenda/internal/service"
	"github.com/agiseventos/agenda/internal/session"
)

type stubAuthenticator struct {
	users map[string]domain.User
	err   error
}

func (s stubAuthenticator) Authenticate(ctx context.Context, token string) (domain.User, error) {
	if s.err != nil {
		return domain.User{}, s.err
	}
	user, ok := s.users[token]
	if !ok {
		return domain.User{}, session.ErrNotFound
	}
	return user, nil
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var body struct {
		Data  any            `json:"data"`
		Error map[string]any `json:"error"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	return body.Error
}

func TestAuth(t *testing.T) {
	authenticator := stubAuthenticator{users: map[string]domain.User{
		"tok-admin": {ID: 7, UserType: domain.UserTypeAdmin},
		"tok-fab":   {ID: 1, UserType: domain.UserTypeFabricante},
	}}

	var seen domain.User
	handler := Auth(authenticator)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen, _ = GetUser(r.Context())
		if GetToken(r.Context()) == "" {
			t.Error("token ausente no contexto")
		}
		w.WriteHeader(http.StatusNoContent)
	}))

	cases := []struct {
		name   string
		header string
		status int
		code   string
	}{
		{"sem header", "", http.StatusUnauthorized, "AUTH"},
		{"esquema errado", "Basic abc", http.StatusUnauthorized, "AUTH"},
		{"token desconhecido", "Bearer nope", http.StatusUnauthorized, "AUTH"},
		{"válido", "Bearer tok-fab", http.StatusNoContent, ""},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/api/auth/user", nil)
			if tc.header != "" {
				req.Header.Set("Authorization", tc.header)
			}
			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, req)
			if rec.Code != tc.status {
				t.Fatalf("status = %d, want %d", rec.Code, tc.status)
			}
			if tc.code != "" {
				if got := decodeError(t, rec)["code"]; got != tc.code {
					t.Errorf("code = %v", got)
				}
			}
		})
	}
	if seen.ID != 1 {
		t.Errorf("usuário no contexto = %+v", seen)
	}
}

func TestAuthErrors(t *testing.T) {
	cases := []struct {
		err    error
		status int
	}{
		{service.ErrAccountDisabled, http.StatusForbidden},
		{errors.New("redis fora"), http.StatusInternalServerError},
	}
	for _, tc := range cases {
		handler := Auth(stubAuthenticator{err: tc.err})(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			t.Fatal("handler não deveria executar")
		}))
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("Authorization", "Bearer x")
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		if rec.Code != tc.status {
			t.Errorf("%v: status = %d, want %d", tc.err, rec.Code, tc.status)
		}
	}
}

func TestRequireAdmin(t *testing.T) {
	handler := RequireAdmin(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	cases := []struct {
		name   string
		user   *domain.User
		status int
	}{
		{"anônimo", nil, http.StatusUnauthorized},
		{"revendedor", &domain.User{ID: 2, UserType: domain.UserTypeRevendedor}, http.StatusForbidden},
		{"admin", &domain.User{ID: 7, UserType: domain.UserTypeAdmin}, http.StatusOK},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/api/meetings/all", nil)
			if tc.user != nil {
				req = req.WithContext(WithUser(req.Context(), *tc.user, "tok"))
			}
			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, req)
			if rec.Code != tc.status {
				t.Errorf("status = %d, want %d", rec.Code, tc.status)
			}
		})
	}
}

func TestCORS(t *testing.T) {
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	})

	t.Run("wildcard total", func(t *testing.T) {
		h := CORS([]string{"*"})(next)
		req := httptest.NewRequest(http.MethodOptions, "/api/users", nil)
		req.Header.Set("Origin", "https://qualquer.dev")
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		if rec.Code != http.StatusOK {
			t.Fatalf("preflight status = %d", rec.Code)
		}
		if got := rec.Header().Get("Access-Control-Allow-Origin"); got != "https://qualquer.dev" {
			t.Errorf("allow-origin = %q", got)
		}
		if !strings.Contains(rec.Header().Get("Access-Control-Allow-Methods"), "PUT") {
			t.Error("PUT ausente em allow-methods")
		}
	})

	t.Run("lista restrita", func(t *testing.T) {
		h := CORS([]string{"https://app.agis.com", "*.agis.com"})(next)
		cases := map[string]bool{
			"https://app.agis.com":     true,
			"https://painel.agis.com":  true,
			"https://agis.com":         false,
			"https://malicioso.com.br": false,
		}
		for origin, allowed := range cases {
			req := httptest.NewRequest(http.MethodGet, "/api/users", nil)
			req.Header.Set("Origin", origin)
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, req)
			if rec.Code != http.StatusTeapot {
				t.Errorf("%s: handler não executou", origin)
			}
			got := rec.Header().Get("Access-Control-Allow-Origin") == origin
			if got != allowed {
				t.Errorf("%s: allowed = %v, want %v", origin, got, allowed)
			}
		}
	})
}

func TestRecover(t *testing.T) {
	panicky := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		panic("boom")
	})

	for _, expose := range []bool{false, true} {
		rec := httptest.NewRecorder()
		Recover(expose)(panicky).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
		if rec.Code != http.StatusInternalServerError {
			t.Fatalf("status = %d", rec.Code)
		}
		body := decodeError(t, rec)
		if body["message"] != "erro interno" {
			t.Errorf("message = %v", body["message"])
		}
		details, ok := body["details"].(map[string]any)
		if ok != expose {
			t.Fatalf("expose=%v mas details=%v", expose, body["details"])
		}
		if expose && details["panic"] != "boom" {
			t.Errorf("panic = %v", details["panic"])
		}
	}
}

func TestUserRateLimit(t *testing.T) {
	limiter := NewRateLimiter(0.0001, 2)
	handler := UserRateLimit(limiter)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	send := func(userID int64) int {
		req := httptest.NewRequest(http.MethodGet, "/api/meetings", nil)
		req = req.WithContext(WithUser(req.Context(), domain.User{ID: userID}, "tok"))
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		return rec.Code
	}

	for i := 0; i < 2; i++ {
		if code := send(1); code != http.StatusOK {
			t.Fatalf("req %d status = %d", i, code)
		}
	}
	if code := send(1); code != http.StatusTooManyRequests {
		t.Errorf("terceira requisição status = %d", code)
	}
	if code := send(2); code != http.StatusOK {
		t.Errorf("outro usuário status = %d", code)
	}
}

func TestIPRateLimitRetryAfter(t *testing.T) {
	limiter := NewRateLimiter(0.5, 1)
	handler := IPRateLimit(limiter)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	send := func(addr string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodPost, "/api/auth/login", nil)
		req.RemoteAddr = addr
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		return rec
	}

	if rec := send("10.0.0.1:5000"); rec.Code != http.StatusOK {
		t.Fatalf("primeira requisição status = %d", rec.Code)
	}
	rec := send("10.0.0.1:5001")
	if rec.Code != http.StatusTooManyRequests {
		t.Fatalf("segunda requisição status = %d", rec.Code)
	}
	if got := rec.Header().Get("Retry-After"); got != "2" {
		t.Errorf("Retry-After = %q", got)
	}
	if body := decodeError(t, rec); body["code"] != "RATE_LIMIT" {
		t.Errorf("code = %v", body["code"])
	}
	if rec := send("10.0.0.2:5000"); rec.Code != http.StatusOK {
		t.Errorf("outro IP status = %d", rec.Code)
	}
}
