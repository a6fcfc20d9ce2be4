package httpmiddleware

import (
	"context"
	"net"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"
)

// RateLimitConfig controls the per-client token bucket limiter.
type RateLimitConfig struct {
	// Max is the number of requests allowed per Window. It is also the
	// bucket capacity, so short bursts up to Max are accepted.
	Max int
	// Window is the period over which Max tokens are refilled.
	Window time.Duration
	// KeyFunc derives the client key for a request. Defaults to the
	// client IP, honouring the first X-Forwarded-For entry.
	KeyFunc func(r *http.Request) string
}

type bucket struct {
	tokens   float64
	lastSeen time.Time
}

type rateLimiter struct {
	mu      sync.Mutex
	buckets map[string]*bucket
	max     float64
	refill  float64 // tokens per second
	keyFunc func(r *http.Request) string
}

func newRateLimiter(cfg RateLimitConfig) *rateLimiter {
	keyFunc := cfg.KeyFunc
	if keyFunc == nil {
		keyFunc = clientIP
	}
	return &rateLimiter{
		buckets: make(map[string]*bucket),
		max:     float64(cfg.Max),
		refill:  float64(cfg.Max) / cfg.Window.Seconds(),
		keyFunc: keyFunc,
	}
}

// take consumes one token from the client's bucket, reporting whether
// the request is allowed and how many whole tokens remain.
func (rl *rateLimiter) take(key string, now time.Time) (allowed bool, remaining int) {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	b, ok := rl.buckets[key]
	if !ok {
		b = &bucket{tokens: rl.max, lastSeen: now}
		rl.buckets[key] = b
	}

	b.tokens += now.Sub(b.lastSeen).Seconds() * rl.refill
	if b.tokens > rl.max {
		b.tokens = rl.max
	}
	b.lastSeen = now

	if b.tokens < 1 {
		return false, 0
	}
	b.tokens--
	return true, int(b.tokens)
}

// evictIdle drops buckets that have not been touched for idle.
func (rl *rateLimiter) evictIdle(now time.Time, idle time.Duration) {
	rl.mu.Lock()
	defer rl.mu.Unlock()
	for key, b := range rl.buckets {
		if now.Sub(b.lastSeen) > idle {
			delete(rl.buckets, key)
		}
	}
}

// RateLimit returns a token-bucket rate limiting middleware keyed per
// client. Rejected requests get 429 with a Retry-After hint.
func RateLimit(cfg RateLimitConfig) Middleware {
	return rateLimitMiddleware(newRateLimiter(cfg), cfg.Window)
}

// RateLimitWithCleanup is RateLimit plus a background goroutine that
// evicts idle client buckets until ctx is cancelled.
func RateLimitWithCleanup(ctx context.Context, cfg RateLimitConfig) Middleware {
	rl := newRateLimiter(cfg)
	go func() {
		ticker := time.NewTicker(cfg.Window)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case now := <-ticker.C:
				rl.evictIdle(now, 2*cfg.Window)
			}
		}
	}()
	return rateLimitMiddleware(rl, cfg.Window)
}

func rateLimitMiddleware(rl *rateLimiter, window time.Duration) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			allowed, remaining := rl.take(rl.keyFunc(r), time.Now())
			w.Header().Set("X-RateLimit-Limit", strconv.Itoa(int(rl.max)))
			w.Header().Set("X-RateLimit-Remaining", strconv.Itoa(remaining))
			if !allowed {
				w.Header().Set("Retry-After", strconv.Itoa(int(window.Seconds())))
				http.Error(w, "rate limit exceeded", http.StatusTooManyRequests)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func clientIP(r *http.Request) string {
	if fwd := r.Header.Get("X-Forwarded-For"); fwd != "" {
		first, _, _ := strings.Cut(fwd, ",")
		return strings.TrimSpace(first)
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
