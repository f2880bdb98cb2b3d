package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"
)

type stubLimiter struct {
	allowed    bool
	retryAfter time.Duration
	err        error
	lastClass  string
	lastIP     string
	lastLimit  int
}

func (s *stubLimiter) Allow(_ context.Context, class, ip string, limit int) (bool, time.Duration, error) {
	s.lastClass, s.lastIP, s.lastLimit = class, ip, limit
	return s.allowed, s.retryAfter, s.err
}

func TestRateLimit_Allows(t *testing.T) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	limiter := &stubLimiter{allowed: true}
	mw := RateLimit(limiter, "general", 100, zerolog.Nop())

	called := false
	handler := mw(func(c echo.Context) error {
		called = true
		return c.NoContent(http.StatusOK)
	})

	if err := handler(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if !called {
		t.Fatalf("next not called")
	}
	if limiter.lastClass != "general" || limiter.lastLimit != 100 {
		t.Fatalf("limiter called with %s/%d", limiter.lastClass, limiter.lastLimit)
	}
}

func TestRateLimit_Rejects(t *testing.T) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	limiter := &stubLimiter{allowed: false, retryAfter: 90 * time.Second}
	mw := RateLimit(limiter, "auth", 5, zerolog.Nop())

	handler := mw(func(c echo.Context) error {
		t.Fatalf("should not reach next")
		return nil
	})

	if err := handler(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusTooManyRequests {
		t.Fatalf("expected 429, got %d", rec.Code)
	}
	if rec.Header().Get("Retry-After") == "" {
		t.Fatalf("expected Retry-After header")
	}
}

func TestRateLimit_FailsOpen(t *testing.T) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	limiter := &stubLimiter{err: errors.New("redis down")}
	mw := RateLimit(limiter, "general", 100, zerolog.Nop())

	called := false
	handler := mw(func(c echo.Context) error {
		called = true
		return c.NoContent(http.StatusOK)
	})

	if err := handler(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if !called {
		t.Fatalf("limiter failure must not block the request")
	}
}
