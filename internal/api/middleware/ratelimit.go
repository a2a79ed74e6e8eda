package middleware

import (
	"log/slog"
	"math"
	"net"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/phrazzld/inception-api/internal/api/shared"
	"github.com/phrazzld/inception-api/internal/platform/logger"
	"golang.org/x/time/rate"
)

// visitor tracks the limiter of one client. refunds counts tokens handed
// back by requests that were turned away before doing any work.
type visitor struct {
	limiter  *rate.Limiter
	refunds  int
	lastSeen time.Time
}

// visitorStore holds a token bucket per client key and drops buckets that
// have been idle longer than ttl. Sweeps happen inline at most once per
// ttl, so no background goroutine outlives the middleware.
type visitorStore struct {
	mu        sync.Mutex
	visitors  map[string]*visitor
	limit     rate.Limit
	burst     int
	ttl       time.Duration
	lastSweep time.Time
	nowFunc   func() time.Time
}

func newVisitorStore(limit rate.Limit, burst int, ttl time.Duration) *visitorStore {
	return &visitorStore{
		visitors:  make(map[string]*visitor),
		limit:     limit,
		burst:     burst,
		ttl:       ttl,
		lastSweep: time.Now(),
		nowFunc:   time.Now,
	}
}

// visitorLocked returns (or creates) the visitor for key. s.mu must be held.
func (s *visitorStore) visitorLocked(key string, now time.Time) *visitor {
	if now.Sub(s.lastSweep) > s.ttl {
		for k, v := range s.visitors {
			if now.Sub(v.lastSeen) > s.ttl {
				delete(s.visitors, k)
			}
		}
		s.lastSweep = now
	}

	v, ok := s.visitors[key]
	if !ok {
		v = &visitor{limiter: rate.NewLimiter(s.limit, s.burst)}
		s.visitors[key] = v
	}
	v.lastSeen = now
	return v
}

// take spends one token for key, using a refunded token first.
func (s *visitorStore) take(key string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.nowFunc()
	v := s.visitorLocked(key, now)
	if v.limiter.TokensAt(now) >= float64(s.burst) {
		v.refunds = 0
	}
	if v.refunds > 0 {
		v.refunds--
		return true
	}
	return v.limiter.AllowN(now, 1)
}

// refund hands a token back to key. Refunds plus whole tokens in the
// bucket never exceed the burst.
func (s *visitorStore) refund(key string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	v, ok := s.visitors[key]
	if !ok {
		return
	}
	if float64(v.refunds)+math.Floor(v.limiter.TokensAt(s.nowFunc())) < float64(s.burst) {
		v.refunds++
	}
}

func (s *visitorStore) len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.visitors)
}

// RateLimitPerMinute limits each authenticated user, or each client IP for
// anonymous requests, to perMinute requests with the given burst. Excess
// requests get 429 with a Retry-After header. A request the next handler
// rejects with a 4xx status gives its token back.
func RateLimitPerMinute(perMinute, burst int) func(http.Handler) http.Handler {
	if perMinute <= 0 {
		perMinute = 1
	}
	if burst <= 0 {
		burst = 1
	}
	interval := time.Minute / time.Duration(perMinute)
	store := newVisitorStore(rate.Every(interval), burst, 10*time.Minute)
	retryAfter := strconv.Itoa(int(max(interval.Round(time.Second), time.Second) / time.Second))

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			key := clientKey(r)
			if !store.take(key) {
				logger.FromContext(r.Context()).Warn("rate limit exceeded",
					slog.String("client", key),
					slog.String("path", r.URL.Path))
				w.Header().Set("Retry-After", retryAfter)
				shared.RespondWithError(w, r, http.StatusTooManyRequests, "Too many requests")
				return
			}

			ww := chimiddleware.NewWrapResponseWriter(w, r.ProtoMajor)
			next.ServeHTTP(ww, r)
			if refundable(ww.Status()) {
				store.refund(key)
			}
		})
	}
}

// refundable reports whether a response status means the request was
// turned away before it did any rate-limited work.
func refundable(status int) bool {
	return status >= http.StatusBadRequest &&
		status < http.StatusInternalServerError &&
		status != http.StatusTooManyRequests
}

// clientKey prefers the authenticated user so users behind one NAT do not
// share a bucket.
func clientKey(r *http.Request) string {
	if userID, ok := shared.UserIDFromContext(r.Context()); ok {
		return "user:" + userID.String()
	}
	return "ip:" + clientIP(r)
}

// clientIP returns the first valid address of X-Forwarded-For, then
// X-Real-IP, then the connection's remote address.
func clientIP(r *http.Request) string {
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		for _, part := range strings.Split(xff, ",") {
			if ip := net.ParseIP(strings.TrimSpace(part)); ip != nil {
				return ip.String()
			}
		}
	}

	if xri := r.Header.Get("X-Real-IP"); xri != "" {
		if ip := net.ParseIP(strings.TrimSpace(xri)); ip != nil {
			return ip.String()
		}
	}

	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
