package http

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
)

func TestRateLimiterRejectsBurstOverflow(t *testing.T) {
	limiter := NewRateLimiter(0.001, 2, time.Minute)
	e := echo.New()
	e.POST("/limited", func(c echo.Context) error { return c.NoContent(http.StatusNoContent) }, limiter.Middleware())

	codes := make([]int, 0, 3)
	for i := 0; i < 3; i++ {
		req := httptest.NewRequest(http.MethodPost, "/limited", nil)
		req.RemoteAddr = "10.0.0.1:1234"
		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, req)
		codes = append(codes, rec.Code)
	}
	if codes[0] != http.StatusNoContent || codes[1] != http.StatusNoContent || codes[2] != http.StatusTooManyRequests {
		t.Fatalf("unexpected status sequence %v", codes)
	}

	req := httptest.NewRequest(http.MethodPost, "/limited", nil)
	req.RemoteAddr = "10.0.0.2:1234"
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	if rec.Code != http.StatusNoContent {
		t.Fatalf("other client should have its own bucket, got %d", rec.Code)
	}
}

func TestRateLimiterDropsIdleClients(t *testing.T) {
	limiter := NewRateLimiter(1, 1, time.Minute)
	now := time.Unix(1_700_000_000, 0)
	limiter.now = func() time.Time { return now }

	limiter.limiter("10.0.0.1")
	now = now.Add(2 * time.Minute)
	limiter.limiter("10.0.0.2")

	if _, ok := limiter.limiters["10.0.0.1"]; ok {
		t.Fatal("idle client should have been dropped")
	}
	if len(limiter.limiters) != 1 {
		t.Fatalf("expected one tracked client, got %d", len(limiter.limiters))
	}
}

func TestNilRateLimiterPassesThrough(t *testing.T) {
	var limiter *RateLimiter
	e := echo.New()
	e.GET("/open", func(c echo.Context) error { return c.NoContent(http.StatusNoContent) }, limiter.Middleware())
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/open", nil))
	if rec.Code != http.StatusNoContent {
		t.Fatalf("expected 204, got %d", rec.Code)
	}
}
