package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"court-booking/pkg/auth"
	"court-booking/pkg/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func okHandler(t *testing.T, wantUser *uuid.UUID) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		userID, ok := utils.GetUserIDFromContext(r.Context())
		if wantUser != nil && (!ok || userID != *wantUser) {
			t.Errorf("expected user %s in context, got %s (ok=%v)", wantUser, userID, ok)
		}
		if wantUser == nil && ok {
			t.Errorf("expected anonymous request, got user %s", userID)
		}
		w.WriteHeader(http.StatusNoContent)
	})
}

func TestAuthenticate(t *testing.T) {
	verifier := auth.NewVerifier("secret", "")
	userID := uuid.New()
	token, err := verifier.Issue(auth.Principal{UserID: userID, Role: "user"}, time.Hour)
	if err != nil {
		t.Fatalf("issue: %v", err)
	}

	h := Authenticate(verifier, zap.NewNop())(okHandler(t, &userID))

	cases := []struct {
		name   string
		header string
		want   int
	}{
		{"valid", "Bearer " + token, http.StatusNoContent},
		{"lowercase scheme", "bearer " + token, http.StatusNoContent},
		{"missing", "", http.StatusUnauthorized},
		{"wrong scheme", "Basic " + token, http.StatusUnauthorized},
		{"bad token", "Bearer nope", http.StatusUnauthorized},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/api/bookings", nil)
			if tc.header != "" {
				req.Header.Set("Authorization", tc.header)
			}
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, req)
			if rec.Code != tc.want {
				t.Fatalf("expected %d, got %d", tc.want, rec.Code)
			}
		})
	}
}

func TestOptionalAuthenticate(t *testing.T) {
	verifier := auth.NewVerifier("secret", "")
	userID := uuid.New()
	token, _ := verifier.Issue(auth.Principal{UserID: userID}, time.Hour)

	withUser := OptionalAuthenticate(verifier)(okHandler(t, &userID))
	req := httptest.NewRequest(http.MethodGet, "/api/events/x", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	withUser.ServeHTTP(rec, req)
	if rec.Code != http.StatusNoContent {
		t.Fatalf("expected 204, got %d", rec.Code)
	}

	anonymous := OptionalAuthenticate(verifier)(okHandler(t, nil))
	req = httptest.NewRequest(http.MethodGet, "/api/events/x", nil)
	req.Header.Set("Authorization", "Bearer expired-or-garbage")
	rec = httptest.NewRecorder()
	anonymous.ServeHTTP(rec, req)
	if rec.Code != http.StatusNoContent {
		t.Fatalf("expected invalid token to fall back to anonymous, got %d", rec.Code)
	}
}

func TestRequireRole(t *testing.T) {
	h := RequireRole(zap.NewNop(), utils.RoleAdmin)(okHandler(t, nil))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/admin/courts", nil))
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 without principal, got %d", rec.Code)
	}

	userID := uuid.New()
	admin := RequireRole(zap.NewNop(), utils.RoleAdmin)(okHandler(t, &userID))
	for role, want := range map[string]int{"admin": http.StatusNoContent, "user": http.StatusForbidden} {
		req := httptest.NewRequest(http.MethodPost, "/api/admin/courts", nil)
		req = req.WithContext(utils.SetUserContext(req.Context(), userID, role))
		rec := httptest.NewRecorder()
		admin.ServeHTTP(rec, req)
		if rec.Code != want {
			t.Fatalf("role %s: expected %d, got %d", role, want, rec.Code)
		}
	}
}

func TestRequireRole_LogsDeniedPrincipal(t *testing.T) {
	verifier := auth.NewVerifier("secret", "")
	token, _ := verifier.Issue(auth.Principal{UserID: uuid.New(), Role: "user", Email: "player@example.com"}, time.Hour)

	core, logs := observer.New(zap.WarnLevel)
	h := Authenticate(verifier, zap.NewNop())(RequireRole(zap.New(core), utils.RoleAdmin)(okHandler(t, nil)))

	req := httptest.NewRequest(http.MethodPost, "/api/admin/offers", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	if rec.Code != http.StatusForbidden {
		t.Fatalf("expected 403, got %d", rec.Code)
	}

	denied := logs.FilterMessage("Role check: access denied").All()
	if len(denied) != 1 {
		t.Fatalf("expected one denial entry, got %d", len(denied))
	}
	if got := denied[0].ContextMap()["email"]; got != "player@example.com" {
		t.Fatalf("expected email on the denial entry, got %v", got)
	}
}

type memCounter struct {
	hits map[string]int64
	err  error
}

func (c *memCounter) Incr(_ context.Context, key string, _ time.Duration) (int64, error) {
	if c.err != nil {
		return 0, c.err
	}
	c.hits[key]++
	return c.hits[key], nil
}

func TestRateLimit(t *testing.T) {
	counter := &memCounter{hits: map[string]int64{}}
	h := RateLimit(counter, 2, time.Minute, "bookings", false, zap.NewNop())(okHandler(t, nil))

	send := func(ip string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodPost, "/api/bookings", nil)
		req.RemoteAddr = ip + ":5555"
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		return rec
	}

	for i := 0; i < 2; i++ {
		if rec := send("10.0.0.1"); rec.Code != http.StatusNoContent {
			t.Fatalf("request %d: expected 204, got %d", i, rec.Code)
		}
	}
	rec := send("10.0.0.1")
	if rec.Code != http.StatusTooManyRequests {
		t.Fatalf("expected 429, got %d", rec.Code)
	}
	if rec.Header().Get("Retry-After") != "60" {
		t.Fatalf("expected Retry-After 60, got %q", rec.Header().Get("Retry-After"))
	}
	if rec := send("10.0.0.2"); rec.Code != http.StatusNoContent {
		t.Fatalf("expected other client to pass, got %d", rec.Code)
	}
	if counter.hits["bookings:ip:10.0.0.1"] != 3 {
		t.Fatalf("unexpected counter state %v", counter.hits)
	}
}

func TestRateLimit_CounterFailure(t *testing.T) {
	counter := &memCounter{err: errors.New("redis down")}

	open := RateLimit(counter, 1, time.Minute, "", true, zap.NewNop())(okHandler(t, nil))
	rec := httptest.NewRecorder()
	open.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/", nil))
	if rec.Code != http.StatusNoContent {
		t.Fatalf("fail-open: expected 204, got %d", rec.Code)
	}

	closed := RateLimit(counter, 1, time.Minute, "", false, zap.NewNop())(okHandler(t, nil))
	rec = httptest.NewRecorder()
	closed.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/", nil))
	if rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("fail-closed: expected 503, got %d", rec.Code)
	}
}

func TestRecover(t *testing.T) {
	h := Recover(zap.NewNop())(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		panic("boom")
	}))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); ct != "application/json" {
		t.Fatalf("expected JSON body, got %q", ct)
	}
}

func TestCORS_Preflight(t *testing.T) {
	h := CORS()(okHandler(t, nil))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodOptions, "/api/bookings", nil))
	if rec.Code != http.StatusNoContent || rec.Header().Get("Access-Control-Allow-Origin") != "*" {
		t.Fatalf("unexpected preflight response %d %v", rec.Code, rec.Header())
	}
}
