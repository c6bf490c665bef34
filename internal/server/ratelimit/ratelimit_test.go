package ratelimit

import (
	"fmt"
	"sync"
	"testing"
	"time"
)

// frozen pins the limiter clock so refills only happen when a test advances it.
func frozen(l *Limiter) *time.Time {
	now := time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC)
	l.now = func() time.Time { return now }
	return &now
}

func TestLimiter_Allow(t *testing.T) {
	limiter := NewLimiter(&Config{Enabled: true, DefaultLimit: 10, DefaultWindow: time.Minute})
	defer limiter.Stop()
	frozen(limiter)

	for i := 0; i < 10; i++ {
		allowed, info := limiter.Allow("127.0.0.1", "/profile", "GET")
		if !allowed {
			t.Fatalf("Expected request %d to be allowed", i+1)
		}
		if info.Remaining != 9-i {
			t.Errorf("Expected %d remaining after request %d, got %d", 9-i, i+1, info.Remaining)
		}
	}

	allowed, info := limiter.Allow("127.0.0.1", "/profile", "GET")
	if allowed {
		t.Error("Expected 11th request to be denied")
	}
	if info.Limit != 10 {
		t.Errorf("Expected limit 10, got %d", info.Limit)
	}
	// 10 per minute refills one token every 6s
	if info.RetryAfter != 6*time.Second {
		t.Errorf("Expected retry after 6s, got %v", info.RetryAfter)
	}
}

func TestLimiter_Refill(t *testing.T) {
	limiter := NewLimiter(&Config{Enabled: true, DefaultLimit: 60, DefaultWindow: time.Minute})
	defer limiter.Stop()
	now := frozen(limiter)

	for i := 0; i < 60; i++ {
		limiter.Allow("c", "/x", "GET")
	}
	if allowed, _ := limiter.Allow("c", "/x", "GET"); allowed {
		t.Fatal("Expected request to be denied once the bucket is empty")
	}

	*now = now.Add(time.Second)
	if allowed, _ := limiter.Allow("c", "/x", "GET"); !allowed {
		t.Error("Expected request to be allowed after refill")
	}
	if allowed, _ := limiter.Allow("c", "/x", "GET"); allowed {
		t.Error("Expected request to be denied after consuming refilled token")
	}
}

func TestLimiter_WhitelistAndBlacklist(t *testing.T) {
	limiter := NewLimiter(&Config{
		Enabled:       true,
		DefaultLimit:  1,
		DefaultWindow: time.Hour,
		Whitelist:     map[string]bool{"10.0.0.1": true},
		Blacklist:     map[string]bool{"10.0.0.2": true},
	})
	defer limiter.Stop()

	for i := 0; i < 5; i++ {
		if allowed, _ := limiter.Allow("10.0.0.1", "/x", "GET"); !allowed {
			t.Errorf("Expected whitelisted request %d to be allowed", i+1)
		}
	}
	if allowed, _ := limiter.Allow("10.0.0.2", "/x", "GET"); allowed {
		t.Error("Expected blacklisted request to be denied")
	}
}

func TestLimiter_Disabled(t *testing.T) {
	limiter := NewLimiter(&Config{Enabled: false})
	defer limiter.Stop()

	for i := 0; i < 100; i++ {
		allowed, info := limiter.Allow("127.0.0.1", "/fit-score", "POST")
		if !allowed {
			t.Fatalf("Expected request %d to be allowed when disabled", i+1)
		}
		if info.Limit != 0 {
			t.Errorf("Expected limit 0 when disabled, got %d", info.Limit)
		}
	}
}

func TestLimiter_EndpointSpecific(t *testing.T) {
	limiter := NewLimiter(&Config{
		Enabled:         true,
		DefaultLimit:    1000,
		DefaultWindow:   time.Minute,
		EndpointConfigs: DefaultEndpointConfigs(),
	})
	defer limiter.Stop()
	frozen(limiter)

	for i := 0; i < 5; i++ {
		allowed, info := limiter.Allow("127.0.0.1", "/fit-score", "POST")
		if !allowed {
			t.Errorf("Expected request %d to be allowed", i+1)
		}
		if info.Limit != 30 {
			t.Errorf("Expected limit 30, got %d", info.Limit)
		}
	}
	if allowed, _ := limiter.Allow("127.0.0.1", "/fit-score", "POST"); allowed {
		t.Error("Expected 6th request to be denied once the burst is spent")
	}

	// Prefix rule
	if _, info := limiter.Allow("127.0.0.1", "/resume/render-docx", "POST"); info.Limit != 60 {
		t.Errorf("Expected prefix limit 60, got %d", info.Limit)
	}

	// Reads use the default
	if _, info := limiter.Allow("127.0.0.1", "/profile", "GET"); info.Limit != 1000 {
		t.Errorf("Expected default limit 1000, got %d", info.Limit)
	}

	// Health is unlimited
	for i := 0; i < 2000; i++ {
		if allowed, _ := limiter.Allow("127.0.0.1", "/health", "GET"); !allowed {
			t.Fatal("Expected health checks to be unlimited")
		}
	}
}

func TestLimiter_Concurrent(t *testing.T) {
	limiter := NewLimiter(&Config{Enabled: true, DefaultLimit: 100, DefaultWindow: time.Minute})
	defer limiter.Stop()
	frozen(limiter)

	var wg sync.WaitGroup
	var mu sync.Mutex
	allowedCount := 0

	for i := 0; i < 200; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if allowed, _ := limiter.Allow("127.0.0.1", "/x", "GET"); allowed {
				mu.Lock()
				allowedCount++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	if allowedCount != 100 {
		t.Errorf("Expected 100 allowed requests, got %d", allowedCount)
	}
}

func TestLimiter_CleanupBuckets(t *testing.T) {
	limiter := NewLimiter(&Config{Enabled: true, DefaultLimit: 10, DefaultWindow: time.Minute})
	defer limiter.Stop()
	now := frozen(limiter)

	for i := 0; i < 10; i++ {
		limiter.Allow(fmt.Sprintf("127.0.0.%d", i+1), "/x", "GET")
	}

	*now = now.Add(2 * time.Hour)
	for i := 0; i < 5; i++ {
		limiter.Allow(fmt.Sprintf("127.0.0.%d", i+1), "/x", "GET")
	}

	limiter.cleanupBuckets(now.Add(-time.Hour))
	if got := len(limiter.buckets); got != 5 {
		t.Errorf("Expected 5 buckets after cleanup, got %d", got)
	}
}

func TestLimiter_StopTwice(t *testing.T) {
	limiter := NewLimiter(&Config{Enabled: true, DefaultLimit: 1, DefaultWindow: time.Minute, CleanupInterval: time.Millisecond})
	limiter.Stop()
	limiter.Stop()
}

func TestNewLimiter_NilConfig(t *testing.T) {
	limiter := NewLimiter(nil)
	defer limiter.Stop()

	allowed, info := limiter.Allow("127.0.0.1", "/test", "GET")
	if !allowed {
		t.Error("Expected request to be allowed with default config")
	}
	if info.Limit != 1000 {
		t.Errorf("Expected default limit 1000, got %d", info.Limit)
	}
}

func TestMatchEndpoint(t *testing.T) {
	configs := DefaultEndpointConfigs()

	tests := []struct {
		path, method string
		wantLimit    int
		wantNil      bool
	}{
		{"/resume/generate", "POST", 30, false},
		{"/resume/fingerprint-template", "POST", 60, false},
		{"/extract/docx", "POST", 60, false},
		{"/profile/entries", "POST", 100, false},
		{"/profile", "GET", 0, true},
		{"/health", "GET", 0, false},
	}

	for _, tt := range tests {
		got := MatchEndpoint(tt.path, tt.method, configs)
		if tt.wantNil {
			if got != nil {
				t.Errorf("%s %s: expected no match, got %+v", tt.method, tt.path, got)
			}
			continue
		}
		if got == nil || got.Limit != tt.wantLimit {
			t.Errorf("%s %s: expected limit %d, got %+v", tt.method, tt.path, tt.wantLimit, got)
		}
	}
}
