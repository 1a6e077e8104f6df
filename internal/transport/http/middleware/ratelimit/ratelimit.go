// Package ratelimit throttles clients with a per-key token bucket.
package ratelimit

import (
	"net"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/mandalnilabja/logview/internal/transport/http/handler/shared"
)

type bucket struct {
	tokens   float64
	lastFill time.Time
	mu       sync.Mutex
}

// idleAfter is how long an untouched bucket takes to refill completely.
// Such a bucket is indistinguishable from a new one and can be dropped.
const idleAfter = time.Minute

// Limiter holds one bucket per key. Each bucket holds perMinute tokens and
// refills continuously. Idle buckets are swept at most once per idleAfter.
type Limiter struct {
	perMinute int
	buckets   sync.Map // map[string]*bucket
	now       func() time.Time

	sweepMu   sync.Mutex
	lastSweep time.Time
}

// New creates a limiter allowing perMinute requests per key. Zero or less
// disables limiting.
func New(perMinute int) *Limiter {
	return &Limiter{perMinute: perMinute, now: time.Now}
}

// Allow reports whether key may make another request, consuming a token.
func (l *Limiter) Allow(key string) bool {
	if l.perMinute <= 0 {
		return true
	}

	now := l.now()
	l.maybeSweep(now)
	val, _ := l.buckets.LoadOrStore(key, &bucket{tokens: float64(l.perMinute), lastFill: now})
	b := val.(*bucket)

	b.mu.Lock()
	defer b.mu.Unlock()

	capacity := float64(l.perMinute)
	b.tokens += now.Sub(b.lastFill).Seconds() * capacity / 60.0
	if b.tokens > capacity {
		b.tokens = capacity
	}
	b.lastFill = now

	if b.tokens >= 1.0 {
		b.tokens--
		return true
	}
	return false
}

// maybeSweep removes buckets idle for idleAfter. Concurrent callers skip
// the sweep rather than wait for it.
func (l *Limiter) maybeSweep(now time.Time) {
	if !l.sweepMu.TryLock() {
		return
	}
	defer l.sweepMu.Unlock()
	if now.Sub(l.lastSweep) < idleAfter {
		return
	}
	l.lastSweep = now

	l.buckets.Range(func(key, val any) bool {
		b := val.(*bucket)
		b.mu.Lock()
		idle := now.Sub(b.lastFill) >= idleAfter
		b.mu.Unlock()
		if idle {
			l.buckets.Delete(key)
		}
		return true
	})
}

// Middleware rejects clients over the limit with 429, keyed by remote IP.
func Middleware(limiter *Limiter) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !limiter.Allow(clientIP(r)) {
				w.Header().Set("Retry-After", strconv.Itoa(60/max(limiter.perMinute, 1)+1))
				shared.WriteFailure(w, "rate limit exceeded", http.StatusTooManyRequests)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func clientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
