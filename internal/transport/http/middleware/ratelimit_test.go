package middleware

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func noContent() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})
}

func TestRateLimitPerIP(t *testing.T) {
	rl := newRateLimiter(1, time.Minute, clientIPKey)

	first := httptest.NewRequest(http.MethodPost, "/login", nil)
	first.RemoteAddr = "198.51.100.11:2222"
	if !rl.enforce(httptest.NewRecorder(), first) {
		t.Fatal("expected first request to pass")
	}

	second := httptest.NewRequest(http.MethodPost, "/login", nil)
	second.RemoteAddr = "198.51.100.11:3333"
	secondRec := httptest.NewRecorder()
	if rl.enforce(secondRec, second) {
		t.Fatal("expected second request to be throttled")
	}
	if secondRec.Code != http.StatusTooManyRequests {
		t.Fatalf("expected 429, got %d", secondRec.Code)
	}
	if secondRec.Header().Get("Retry-After") == "" {
		t.Fatal("expected Retry-After header")
	}

	other := httptest.NewRequest(http.MethodPost, "/login", nil)
	other.RemoteAddr = "198.51.100.99:3333"
	if !rl.enforce(httptest.NewRecorder(), other) {
		t.Fatal("expected a different client to pass")
	}
}

func TestAuthRateLimitByEmailAcrossIPs(t *testing.T) {
	limited := AuthRateLimit(1)(noContent())

	send := func(addr, body string) int {
		req := httptest.NewRequest(http.MethodPost, "/login", bytes.NewBufferString(body))
		req.Header.Set("Content-Type", "application/json")
		req.RemoteAddr = addr
		rec := httptest.NewRecorder()
		limited.ServeHTTP(rec, req)
		return rec.Code
	}

	if code := send("203.0.113.10:1", `{"email":"a@example.com"}`); code != http.StatusNoContent {
		t.Fatalf("expected first login to pass, got %d", code)
	}
	if code := send("203.0.113.11:1", `{"email":"A@example.com"}`); code != http.StatusTooManyRequests {
		t.Fatalf("expected same email from another ip to be throttled, got %d", code)
	}
}

func TestAuthRateLimitIgnoresGet(t *testing.T) {
	limited := AuthRateLimit(1)(noContent())
	for i := 0; i < 3; i++ {
		rec := httptest.NewRecorder()
		limited.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/login", nil))
		if rec.Code != http.StatusNoContent {
			t.Fatalf("expected GET to pass, got %d", rec.Code)
		}
	}
}

func TestRateLimitRefills(t *testing.T) {
	now := time.Unix(1_700_000_000, 0)
	rl := newRateLimiter(1, time.Minute, clientIPKey)
	rl.now = func() time.Time { return now }

	req := httptest.NewRequest(http.MethodPost, "/login", nil)
	req.RemoteAddr = "192.0.2.20:1111"
	if !rl.enforce(httptest.NewRecorder(), req) {
		t.Fatal("expected first request to pass")
	}
	if rl.enforce(httptest.NewRecorder(), req) {
		t.Fatal("expected second request to be throttled")
	}
	now = now.Add(61 * time.Second)
	if !rl.enforce(httptest.NewRecorder(), req) {
		t.Fatal("expected request to pass after refill")
	}
}
