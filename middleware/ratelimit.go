package middleware

import (
	"net"
	"net/http"
	"strconv"
	"sync"
	"time"

	"golang.org/x/time/rate"

	"github.com/iaconlabs/warpcore/action"
	"github.com/iaconlabs/warpcore/negotiate"
	"github.com/iaconlabs/warpcore/router"
)

const evictEvery = 512

// RateLimitConfig configures the rate limiting filter.
type RateLimitConfig struct {
	// Key selects the bucket for a request (default: client IP).
	Key func(c action.Context) string

	// IdleTTL is how long an unused bucket is kept (default: 10m).
	IdleTTL time.Duration

	// Now is the clock (default: time.Now).
	Now func() time.Time
}

// RateLimitOption configures the rate limiting filter.
type RateLimitOption func(*RateLimitConfig)

// WithKey sets the bucket key function.
func WithKey(key func(c action.Context) string) RateLimitOption {
	return func(c *RateLimitConfig) {
		c.Key = key
	}
}

// WithIdleTTL sets how long idle buckets are retained.
func WithIdleTTL(ttl time.Duration) RateLimitOption {
	return func(c *RateLimitConfig) {
		c.IdleTTL = ttl
	}
}

// WithClock sets the clock used to consume tokens.
func WithClock(now func() time.Time) RateLimitOption {
	return func(c *RateLimitConfig) {
		c.Now = now
	}
}

// ClientIP returns the host part of the request's remote address.
func ClientIP(c action.Context) string {
	addr := c.Request().RemoteAddr
	if host, _, err := net.SplitHostPort(addr); err == nil {
		return host
	}
	return addr
}

type bucket struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// limiters holds one token bucket per key and evicts idle ones.
type limiters struct {
	limit   rate.Limit
	burst   int
	idleTTL time.Duration

	mu    sync.Mutex
	byKey map[string]*bucket
	hits  uint64
}

func (l *limiters) reserve(key string, now time.Time) (ok bool, retryAfter time.Duration) {
	l.mu.Lock()
	defer l.mu.Unlock()

	b, found := l.byKey[key]
	if !found {
		b = &bucket{limiter: rate.NewLimiter(l.limit, l.burst)}
		l.byKey[key] = b
	}
	b.lastSeen = now

	l.hits++
	if l.hits%evictEvery == 0 {
		cutoff := now.Add(-l.idleTTL)
		for k, v := range l.byKey {
			if v.lastSeen.Before(cutoff) {
				delete(l.byKey, k)
			}
		}
	}

	r := b.limiter.ReserveN(now, 1)
	if !r.OK() {
		return false, 0
	}
	if d := r.DelayFrom(now); d > 0 {
		r.CancelAt(now)
		return false, d
	}
	return true, 0
}

// RateLimit returns a filter allowing rps requests per second with bursts of
// burst per key. Rejected requests get a 429 result with Retry-After and
// never reach the action.
func RateLimit(rps float64, burst int, opts ...RateLimitOption) Func {
	config := RateLimitConfig{Key: ClientIP, IdleTTL: 10 * time.Minute, Now: time.Now}
	for _, opt := range opts {
		opt(&config)
	}
	l := &limiters{
		limit:   rate.Limit(rps),
		burst:   burst,
		idleTTL: config.IdleTTL,
		byKey:   make(map[string]*bucket),
	}

	return func(c action.Context, next action.Function, _ *router.Route) (action.Result, error) {
		ok, retryAfter := l.reserve(config.Key(c), config.Now())
		if ok {
			return next(c)
		}
		res := action.NewResult(http.StatusTooManyRequests).
			WithContentType(negotiate.TextPlain).
			WithContent(action.Of("rate limit exceeded"))
		if retryAfter > 0 {
			secs := int((retryAfter + time.Second - 1) / time.Second)
			res = res.WithHeader("Retry-After", strconv.Itoa(secs))
		}
		return res, nil
	}
}
