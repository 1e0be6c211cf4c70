package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/akolanti/NotesAPI/internal/config"
	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/time/rate"
)

const secret = "test-secret"

func echoUser(t *testing.T, gotUser *string, gotTrace *string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		*gotUser, _ = r.Context().Value(config.USER_ID_KEY).(string)
		*gotTrace, _ = r.Context().Value(config.TRACE_ID_KEY).(string)
		w.WriteHeader(http.StatusTeapot)
	}
}

func newMiddleware(authDisabled bool) *Middleware {
	return New(Config{JWTSecret: secret, AuthDisabled: authDisabled, RateLimit: rate.Inf, Burst: 1})
}

func TestWrap_ValidToken(t *testing.T) {
	mw := newMiddleware(false)
	token, err := mw.auth.IssueToken("alice", time.Hour)
	if err != nil {
		t.Fatal(err)
	}

	var user, trace string
	req := httptest.NewRequest(http.MethodGet, "/files/1", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("X-Trace-Id", "trace-42")
	rr := httptest.NewRecorder()
	mw.Wrap(echoUser(t, &user, &trace))(rr, req)

	if rr.Code != http.StatusTeapot {
		t.Fatalf("expected handler to run, got %d: %s", rr.Code, rr.Body.String())
	}
	if user != "alice" || trace != "trace-42" {
		t.Errorf("context user=%q trace=%q", user, trace)
	}
	if rr.Header().Get("X-Trace-Id") != "trace-42" {
		t.Error("trace id not echoed")
	}
}

func TestWrap_RejectsBadTokens(t *testing.T) {
	mw := newMiddleware(false)
	expired, _ := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"user_id": "alice", "exp": time.Now().Add(-time.Minute).Unix(),
	}).SignedString([]byte(secret))
	wrongKey, _ := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"user_id": "alice", "exp": time.Now().Add(time.Hour).Unix(),
	}).SignedString([]byte("other"))
	noExpiry, _ := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"user_id": "alice",
	}).SignedString([]byte(secret))
	noUser, _ := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"exp": time.Now().Add(time.Hour).Unix(),
	}).SignedString([]byte(secret))

	tests := []struct {
		name   string
		header string
	}{
		{"missing header", ""},
		{"not bearer", "Basic abc"},
		{"garbage", "Bearer not-a-jwt"},
		{"expired", "Bearer " + expired},
		{"wrong key", "Bearer " + wrongKey},
		{"no expiry", "Bearer " + noExpiry},
		{"no user claim", "Bearer " + noUser},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var user, trace string
			req := httptest.NewRequest(http.MethodGet, "/files/1", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			rr := httptest.NewRecorder()
			mw.Wrap(echoUser(t, &user, &trace))(rr, req)
			if rr.Code != http.StatusUnauthorized {
				t.Errorf("expected 401, got %d", rr.Code)
			}
			if user != "" {
				t.Error("handler should not run")
			}
		})
	}
}

func TestParseToken_SubjectFallback(t *testing.T) {
	a := NewAuthenticator(secret, false)
	token, _ := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": "bob", "exp": time.Now().Add(time.Hour).Unix(),
	}).SignedString([]byte(secret))
	user, err := a.ParseToken(token)
	if err != nil || user != "bob" {
		t.Errorf("got %q, %v", user, err)
	}
}

func TestWrap_AuthDisabled(t *testing.T) {
	mw := newMiddleware(true)
	var user, trace string

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("X-User-Id", "carol")
	mw.Wrap(echoUser(t, &user, &trace))(httptest.NewRecorder(), req)
	if user != "carol" {
		t.Errorf("expected header user, got %q", user)
	}
	if trace == "" {
		t.Error("trace id should be generated")
	}

	mw.Wrap(echoUser(t, &user, &trace))(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))
	if user != devDefaultUser {
		t.Errorf("expected default user, got %q", user)
	}
}

func TestWrap_RateLimit(t *testing.T) {
	mw := New(Config{AuthDisabled: true, RateLimit: rate.Every(time.Hour), Burst: 2})
	handler := mw.Wrap(func(w http.ResponseWriter, r *http.Request) {})

	codes := make([]int, 0, 3)
	for i := 0; i < 3; i++ {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.RemoteAddr = "10.0.0.1:1234"
		rr := httptest.NewRecorder()
		handler(rr, req)
		codes = append(codes, rr.Code)
	}
	if codes[0] != http.StatusOK || codes[1] != http.StatusOK || codes[2] != http.StatusTooManyRequests {
		t.Errorf("unexpected codes %v", codes)
	}

	other := httptest.NewRequest(http.MethodGet, "/", nil)
	other.RemoteAddr = "10.0.0.2:1234"
	rr := httptest.NewRecorder()
	handler(rr, other)
	if rr.Code != http.StatusOK {
		t.Errorf("limits must be per IP, got %d", rr.Code)
	}
}

func TestPublic_SkipsAuth(t *testing.T) {
	mw := newMiddleware(false)
	var trace string
	handler := mw.Public(func(w http.ResponseWriter, r *http.Request) {
		trace, _ = r.Context().Value(config.TRACE_ID_KEY).(string)
	})
	rr := httptest.NewRecorder()
	handler(rr, httptest.NewRequest(http.MethodGet, "/health", nil).WithContext(context.Background()))
	if rr.Code != http.StatusOK || trace == "" {
		t.Errorf("code=%d trace=%q", rr.Code, trace)
	}
}
