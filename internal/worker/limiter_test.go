package worker

import (
	"context"
	"testing"
	"time"
)

func TestLimiterAllowPerHost(t *testing.T) {
	limiter := NewLimiter(1, 1)

	if !limiter.Allow("https://a.example.com/page") {
		t.Error("first request to host a should be allowed")
	}
	if limiter.Allow("https://a.example.com/other") {
		t.Error("second immediate request to host a should be limited")
	}

	// A different host has its own budget
	if !limiter.Allow("https://b.example.com/page") {
		t.Error("first request to host b should be allowed")
	}
}

func TestLimiterWaitRespectsContext(t *testing.T) {
	limiter := NewLimiter(0.1, 1)

	// Spend the burst
	if err := limiter.Wait(context.Background(), "https://slow.example.com/"); err != nil {
		t.Fatalf("first wait: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	if err := limiter.Wait(ctx, "https://slow.example.com/"); err == nil {
		t.Error("expected context deadline error while rate limited")
	}
}

func TestLimiterInvalidURL(t *testing.T) {
	limiter := NewLimiter(1, 1)
	if limiter.Allow("://not-a-url") {
		t.Error("invalid URL should not be allowed")
	}
}

func TestLimiterDefaultBurst(t *testing.T) {
	limiter := NewLimiter(1, 0)
	if limiter.defaultBurst <= 0 {
		t.Errorf("expected positive default burst, got %d", limiter.defaultBurst)
	}
}
