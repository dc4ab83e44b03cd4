package middleware

import (
	"net"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"
)

// maxBuckets caps the tracking map; expired entries are swept once it fills.
const maxBuckets = 4096

type bucket struct {
	count int
	until time.Time
}

// RateLimiter applies a fixed window per client IP. A limit of zero disables
// it.
type RateLimiter struct {
	mu      sync.Mutex
	buckets map[string]*bucket
	limit   int
	per     time.Duration
	now     func() time.Time
}

func NewRateLimiter(limit int, per time.Duration) *RateLimiter {
	return &RateLimiter{
		buckets: make(map[string]*bucket),
		limit:   limit,
		per:     per,
		now:     time.Now,
	}
}

// Middleware rejects requests over the window limit with 429 and a
// Retry-After hint.
func (l *RateLimiter) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if l.limit <= 0 {
			next.ServeHTTP(w, r)
			return
		}

		ip := clientIPForRateLimit(r)
		now := l.now()

		l.mu.Lock()
		b, ok := l.buckets[ip]
		if !ok || now.After(b.until) {
			if len(l.buckets) >= maxBuckets {
				l.evictExpired(now)
			}
			b = &bucket{until: now.Add(l.per)}
			l.buckets[ip] = b
		}
		if b.count >= l.limit {
			retry := b.until.Sub(now)
			l.mu.Unlock()
			w.Header().Set("Retry-After", strconv.Itoa(int(retry.Seconds())+1))
			w.WriteHeader(http.StatusTooManyRequests)
			return
		}
		b.count++
		l.mu.Unlock()

		next.ServeHTTP(w, r)
	})
}

// evictExpired must be called with mu held.
func (l *RateLimiter) evictExpired(now time.Time) {
	for ip, b := range l.buckets {
		if now.After(b.until) {
			delete(l.buckets, ip)
		}
	}
}

func clientIPForRateLimit(r *http.Request) string {
	if xf := r.Header.Get("X-Forwarded-For"); xf != "" {
		for _, part := range strings.Split(xf, ",") {
			ip := strings.TrimSpace(part)
			if ip == "" {
				continue
			}
			if net.ParseIP(ip) != nil {
				return ip
			}
		}
	}

	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err == nil {
		if net.ParseIP(host) != nil {
			return host
		}
	} else if net.ParseIP(r.RemoteAddr) != nil {
		return r.RemoteAddr
	}

	return r.RemoteAddr
}
