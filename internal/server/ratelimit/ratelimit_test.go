package ratelimit

import (
	"fmt"
	"sync"
	"testing"
	"time"
)

func TestLimiter_Allow(t *testing.T) {
	config := &Config{
		Enabled:       true,
		DefaultLimit:  10,
		DefaultWindow: time.Minute,
	}
	limiter := NewLimiter(config)
	defer limiter.Stop()

	clientID := "127.0.0.1"
	endpoint := "/templates"
	method := "GET"

	// Should allow requests up to limit
	for i := 0; i < 10; i++ {
		allowed, rateInfo := limiter.Allow(clientID, endpoint, method)
		if !allowed {
			t.Errorf("Expected request %d to be allowed", i+1)
		}
		if rateInfo.Limit != 10 {
			t.Errorf("Expected limit 10, got %d", rateInfo.Limit)
		}
		if rateInfo.Remaining != 9-i {
			t.Errorf("Expected remaining %d, got %d", 9-i, rateInfo.Remaining)
		}
	}

	// 11th request should be denied
	allowed, rateInfo := limiter.Allow(clientID, endpoint, method)
	if allowed {
		t.Error("Expected 11th request to be denied")
	}
	if rateInfo.Remaining != 0 {
		t.Errorf("Expected remaining 0, got %d", rateInfo.Remaining)
	}
	if rateInfo.RetryAfter <= 0 {
		t.Error("Expected retry after to be positive")
	}
	if !rateInfo.ResetTime.After(time.Now()) {
		t.Error("Reset time should be in the future")
	}
}

func TestLimiter_Refill(t *testing.T) {
	config := &Config{
		Enabled:       true,
		DefaultLimit:  60, // one token per second
		DefaultWindow: time.Minute,
		EndpointConfigs: []EndpointConfig{
			{Path: "/refill", Method: "POST", Limit: 60, Window: time.Minute, Burst: 1},
		},
	}
	limiter := NewLimiter(config)
	defer limiter.Stop()

	if allowed, _ := limiter.Allow("c", "/refill", "POST"); !allowed {
		t.Fatal("Expected first request to be allowed")
	}
	if allowed, _ := limiter.Allow("c", "/refill", "POST"); allowed {
		t.Fatal("Expected second request to be denied")
	}

	time.Sleep(1100 * time.Millisecond)

	if allowed, _ := limiter.Allow("c", "/refill", "POST"); !allowed {
		t.Error("Expected request to be allowed after refill")
	}
}

func TestLimiter_Whitelist(t *testing.T) {
	config := &Config{
		Enabled:       true,
		DefaultLimit:  1,
		DefaultWindow: time.Minute,
		Whitelist:     map[string]bool{"127.0.0.1": true},
	}
	limiter := NewLimiter(config)
	defer limiter.Stop()

	// Whitelisted IP should always be allowed
	for i := 0; i < 100; i++ {
		allowed, rateInfo := limiter.Allow("127.0.0.1", "/templates", "GET")
		if !allowed {
			t.Errorf("Expected whitelisted request %d to be allowed", i+1)
		}
		if rateInfo.Limit != 0 {
			t.Errorf("Expected limit 0 for whitelisted, got %d", rateInfo.Limit)
		}
	}
}

func TestLimiter_Blacklist(t *testing.T) {
	config := &Config{
		Enabled:       true,
		DefaultLimit:  1000,
		DefaultWindow: time.Minute,
		Blacklist:     map[string]bool{"192.168.1.1": true},
	}
	limiter := NewLimiter(config)
	defer limiter.Stop()

	allowed, _ := limiter.Allow("192.168.1.1", "/templates", "GET")
	if allowed {
		t.Error("Expected blacklisted request to be denied")
	}
}

func TestLimiter_Disabled(t *testing.T) {
	limiter := NewLimiter(&Config{Enabled: false})
	defer limiter.Stop()

	for i := 0; i < 100; i++ {
		allowed, rateInfo := limiter.Allow("127.0.0.1", "/templates", "GET")
		if !allowed {
			t.Errorf("Expected request %d to be allowed when disabled", i+1)
		}
		if rateInfo.Limit != 0 {
			t.Errorf("Expected limit 0 when disabled, got %d", rateInfo.Limit)
		}
	}
}

func TestLimiter_TailorSharedAcrossSessions(t *testing.T) {
	config := &Config{
		Enabled:         true,
		DefaultLimit:    1000,
		DefaultWindow:   time.Minute,
		EndpointConfigs: DefaultEndpointConfigs(),
	}
	limiter := NewLimiter(config)
	defer limiter.Stop()

	clientID := "127.0.0.1"

	// Burst of 2 shared by every session of the same client.
	for i, path := range []string{"/sessions/a/tailor", "/sessions/b/tailor"} {
		allowed, rateInfo := limiter.Allow(clientID, path, "POST")
		if !allowed {
			t.Errorf("Expected request %d to be allowed", i+1)
		}
		if rateInfo.Limit != 10 {
			t.Errorf("Expected limit 10, got %d", rateInfo.Limit)
		}
	}

	allowed, _ := limiter.Allow(clientID, "/sessions/c/tailor", "POST")
	if allowed {
		t.Error("Expected third tailoring request to be denied")
	}

	// Another client has its own bucket.
	if allowed, _ := limiter.Allow("10.0.0.1", "/sessions/a/tailor", "POST"); !allowed {
		t.Error("Expected other client to be allowed")
	}

	// Other endpoints use the default limit.
	allowed, rateInfo := limiter.Allow(clientID, "/sessions/a", "GET")
	if !allowed {
		t.Error("Expected different endpoint to be allowed")
	}
	if rateInfo.Limit != 1000 {
		t.Errorf("Expected default limit 1000, got %d", rateInfo.Limit)
	}
}

func TestLimiter_Concurrent(t *testing.T) {
	config := &Config{
		Enabled:       true,
		DefaultLimit:  100,
		DefaultWindow: time.Minute,
	}
	limiter := NewLimiter(config)
	defer limiter.Stop()

	var wg sync.WaitGroup
	allowedCount := 0
	var mu sync.Mutex

	// Make 200 concurrent requests (should allow about 100)
	for i := 0; i < 200; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			allowed, _ := limiter.Allow("127.0.0.1", "/templates", "GET")
			if allowed {
				mu.Lock()
				allowedCount++
				mu.Unlock()
			}
		}()
	}

	wg.Wait()

	// Refill during the run may add a token.
	if allowedCount < 100 || allowedCount > 101 {
		t.Errorf("Expected about 100 allowed requests, got %d", allowedCount)
	}
}

func TestLimiter_EvictIdle(t *testing.T) {
	config := &Config{
		Enabled:       true,
		DefaultLimit:  10,
		DefaultWindow: time.Minute,
	}
	limiter := NewLimiter(config)
	defer limiter.Stop()

	for i := 0; i < 10; i++ {
		limiter.Allow(fmt.Sprintf("127.0.0.%d", i+1), "/templates", "GET")
	}
	if limiter.Len() != 10 {
		t.Fatalf("Expected 10 buckets, got %d", limiter.Len())
	}

	limiter.evictIdle(time.Now().Add(-time.Minute))
	if limiter.Len() != 10 {
		t.Errorf("Expected recent buckets to survive, got %d", limiter.Len())
	}

	limiter.evictIdle(time.Now().Add(time.Second))
	if limiter.Len() != 0 {
		t.Errorf("Expected idle buckets to be evicted, got %d", limiter.Len())
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

	allowed, rateInfo := limiter.Allow("127.0.0.1", "/templates", "GET")
	if !allowed {
		t.Error("Expected request to be allowed with default config")
	}
	if rateInfo.Limit != 1000 {
		t.Errorf("Expected default limit 1000, got %d", rateInfo.Limit)
	}
}

func TestMatchEndpoint(t *testing.T) {
	configs := DefaultEndpointConfigs()

	tests := []struct {
		path, method string
		wantPath     string
		wantLimit    int
	}{
		{"/health", "GET", "/health", 0},
		{"/metrics", "GET", "/metrics", 0},
		{"/sessions/abc/tailor", "POST", "/sessions/{id}/tailor", 10},
		{"/sessions/abc/export.pdf", "GET", "/sessions/{id}/export.pdf", 30},
		{"/sessions", "POST", "/sessions", 100},
		{"/resumes/123", "DELETE", "/resumes/", 100},
	}
	for _, tt := range tests {
		t.Run(tt.method+" "+tt.path, func(t *testing.T) {
			got := MatchEndpoint(tt.path, tt.method, configs)
			if got == nil {
				t.Fatal("Expected a match")
			}
			if got.Path != tt.wantPath || got.Limit != tt.wantLimit {
				t.Errorf("Expected %s/%d, got %s/%d", tt.wantPath, tt.wantLimit, got.Path, got.Limit)
			}
		})
	}

	for _, miss := range [][2]string{
		{"/sessions/abc/tailor", "GET"},
		{"/sessions//tailor", "POST"},
		{"/sessions/abc/tailor/extra", "POST"},
		{"/templates", "GET"},
	} {
		if got := MatchEndpoint(miss[0], miss[1], configs); got != nil {
			t.Errorf("Expected no match for %s %s, got %s", miss[1], miss[0], got.Path)
		}
	}
}
