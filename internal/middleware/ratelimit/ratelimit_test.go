package ratelimit

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestLimiter_Allow(t *testing.T) {
	rl := NewLimiter(Config{RequestsPerMinute: 3})
	defer rl.Stop()

	now := time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)
	rl.now = func() time.Time { return now }

	for i := 0; i < 3; i++ {
		if !rl.Allow("1.2.3.4") {
			t.Fatalf("request %d should be allowed", i+1)
		}
	}
	if rl.Allow("1.2.3.4") {
		t.Error("fourth request within the burst should be rejected")
	}
	if !rl.Allow("5.6.7.8") {
		t.Error("other clients have their own bucket")
	}
	if rl.Rejected() != 1 {
		t.Errorf("Rejected() = %d, want 1", rl.Rejected())
	}

	now = now.Add(20 * time.Second)
	if !rl.Allow("1.2.3.4") {
		t.Error("one token should refill after 20s at 3 per minute")
	}
	if rl.Allow("1.2.3.4") {
		t.Error("only one token should have refilled")
	}
}

func TestLimiter_Burst(t *testing.T) {
	rl := NewLimiter(Config{RequestsPerMinute: 60, Burst: 2})
	defer rl.Stop()
	now := time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)
	rl.now = func() time.Time { return now }

	got := []bool{rl.Allow("ip"), rl.Allow("ip"), rl.Allow("ip")}
	if got[0] != true || got[1] != true || got[2] != false {
		t.Errorf("Allow sequence = %v, want [true true false]", got)
	}
}

func TestLimiter_ForgetsIdleClients(t *testing.T) {
	rl := NewLimiter(Config{RequestsPerMinute: 10, IdleTimeout: 10 * time.Minute, SweepInterval: time.Hour})
	defer rl.Stop()

	now := time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)
	rl.setClock(func() time.Time { return now })

	rl.Allow("a")
	now = now.Add(6 * time.Minute)
	rl.Allow("b")
	now = now.Add(5 * time.Minute)

	rl.CleanExpired()
	if rl.ActiveClients() != 1 {
		t.Errorf("ActiveClients() = %d, want 1 after a idles out", rl.ActiveClients())
	}
	if !rl.Allow("a") {
		t.Error("a forgotten client starts with a fresh bucket")
	}
}

func TestLimiter_MaxClients(t *testing.T) {
	rl := NewLimiter(Config{RequestsPerMinute: 1, MaxClients: 2})
	defer rl.Stop()

	rl.Allow("a")
	rl.Allow("b")
	rl.Allow("c")
	if rl.ActiveClients() != 2 {
		t.Errorf("ActiveClients() = %d, want 2", rl.ActiveClients())
	}
	if !rl.Allow("a") {
		t.Error("an evicted client starts with a fresh bucket")
	}
}

func TestLimiter_MiddlewareOnlyLimitsConfiguredMethods(t *testing.T) {
	cfg := DefaultConfig()
	cfg.RequestsPerMinute = 1
	rl := NewLimiter(cfg)
	defer rl.Stop()

	h := rl.Middleware(func(*http.Request) string { return "ip" }, nil)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))

	do := func(method string) int {
		rr := httptest.NewRecorder()
		h.ServeHTTP(rr, httptest.NewRequest(method, "/", nil))
		return rr.Code
	}

	if code := do(http.MethodPost); code != http.StatusNoContent {
		t.Fatalf("first POST = %d", code)
	}
	if code := do(http.MethodPost); code != http.StatusTooManyRequests {
		t.Fatalf("second POST = %d, want 429", code)
	}
	for i := 0; i < 5; i++ {
		if code := do(http.MethodGet); code != http.StatusNoContent {
			t.Fatalf("GET should never be limited, got %d", code)
		}
	}
}
