package ratelimit

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

func newTestLimiter(t *testing.T, cfg *Config) (*Limiter, *fakeClock) {
	t.Helper()
	cfg.CleanupInterval = 0
	l := NewLimiter(cfg)
	t.Cleanup(l.Stop)

	clock := &fakeClock{now: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)}
	l.now = clock.Now
	return l, clock
}

func testConfig() *Config {
	cfg := DefaultConfig()
	cfg.Default = Tier{Name: TierDefault, Limit: 5, Window: time.Minute}
	cfg.Tiers = DefaultTiers(4, time.Hour)
	return cfg
}

func TestBucket_TakeAndRefill(t *testing.T) {
	start := time.Unix(0, 0)
	b := newBucket(2, 1, start)

	ok, remaining, _, _ := b.take(start)
	assert.True(t, ok)
	assert.Equal(t, 1, remaining)

	ok, _, _, _ = b.take(start)
	assert.True(t, ok)

	ok, _, retryAfter, _ := b.take(start)
	assert.False(t, ok)
	assert.Equal(t, time.Second, retryAfter)

	ok, _, _, _ = b.take(start.Add(time.Second))
	assert.True(t, ok)
}

func TestLimiter_DefaultTier(t *testing.T) {
	l, _ := newTestLimiter(t, testConfig())

	for i := 0; i < 5; i++ {
		ok, info := l.Allow("10.0.0.1", "GET", "/api/job-postings")
		require.True(t, ok, "request %d", i+1)
		assert.Equal(t, TierDefault, info.Tier)
		assert.Equal(t, 5, info.Limit)
	}

	ok, info := l.Allow("10.0.0.1", "GET", "/api/job-postings")
	assert.False(t, ok)
	assert.Equal(t, 0, info.Remaining)
	assert.Greater(t, info.RetryAfter, time.Duration(0))
}

func TestLimiter_AnalysisTierIsShared(t *testing.T) {
	l, _ := newTestLimiter(t, testConfig())

	// Burst for a limit of 4 is 1.
	ok, info := l.Allow("10.0.0.1", "POST", "/api/analysis/extract-requirements")
	require.True(t, ok)
	assert.Equal(t, TierAnalysis, info.Tier)

	ok, info = l.Allow("10.0.0.1", "POST", "/api/applications/1234/analysis")
	assert.False(t, ok)
	assert.Equal(t, TierAnalysis, info.Tier)

	ok, _ = l.Allow("10.0.0.2", "POST", "/api/analysis/evidence-stub")
	assert.True(t, ok, "other clients have their own budget")
}

func TestLimiter_Refills(t *testing.T) {
	l, clock := newTestLimiter(t, testConfig())

	ok, _ := l.Allow("c", "POST", "/api/analysis/mock")
	require.True(t, ok)
	ok, _ = l.Allow("c", "POST", "/api/analysis/mock")
	require.False(t, ok)

	clock.Advance(16 * time.Minute)
	ok, _ = l.Allow("c", "POST", "/api/analysis/mock")
	assert.True(t, ok)
}

func TestLimiter_HealthUnlimited(t *testing.T) {
	l, _ := newTestLimiter(t, testConfig())

	for i := 0; i < 100; i++ {
		ok, info := l.Allow("c", "GET", "/health")
		require.True(t, ok)
		assert.Equal(t, TierUnlimited, info.Tier)
	}
}

func TestLimiter_Disabled(t *testing.T) {
	cfg := testConfig()
	cfg.Enabled = false
	l, _ := newTestLimiter(t, cfg)

	for i := 0; i < 10; i++ {
		ok, _ := l.Allow("c", "POST", "/api/analysis/mock")
		assert.True(t, ok)
	}
}

func TestLimiter_WhitelistAndBlacklist(t *testing.T) {
	cfg := testConfig()
	cfg.Whitelist = map[string]bool{"10.0.0.1": true}
	cfg.Blacklist = map[string]bool{"10.0.0.2": true}
	l, _ := newTestLimiter(t, cfg)

	for i := 0; i < 10; i++ {
		ok, _ := l.Allow("10.0.0.1", "POST", "/api/analysis/mock")
		assert.True(t, ok)
	}
	ok, _ := l.Allow("10.0.0.2", "GET", "/health")
	assert.False(t, ok)
}

func TestLimiter_EvictIdle(t *testing.T) {
	l, clock := newTestLimiter(t, testConfig())

	l.Allow("a", "GET", "/api/job-postings")
	clock.Advance(2 * time.Hour)
	l.Allow("b", "GET", "/api/job-postings")

	removed := l.evictIdle(clock.Now().Add(-time.Hour))
	assert.Equal(t, 1, removed)
	assert.Len(t, l.buckets, 1)
}

func TestLimiter_ConcurrentAccess(t *testing.T) {
	cfg := testConfig()
	cfg.Default.Limit = 50
	l, _ := newTestLimiter(t, cfg)

	var wg sync.WaitGroup
	var mu sync.Mutex
	allowed := 0
	for i := 0; i < 100; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if ok, _ := l.Allow("c", "GET", "/api/job-postings"); ok {
				mu.Lock()
				allowed++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()
	assert.Equal(t, 50, allowed)
}

func TestLimiter_StopIsIdempotent(t *testing.T) {
	l := NewLimiter(DefaultConfig())
	l.Stop()
	l.Stop()
}
