// Per-client rate limiting for the full-map dump endpoint, which serializes
// every tile and is by far the most expensive request the server answers.
package api

import (
	"net"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"
)

// RateLimiter grants each client a fixed allowance of requests per window.
type RateLimiter struct {
	mu        sync.Mutex
	clients   map[string]*allowance
	perWindow int
	window    time.Duration
}

type allowance struct {
	remaining int
	opened    time.Time
}

// NewRateLimiter creates a limiter granting perWindow requests per window to
// each client address.
func NewRateLimiter(perWindow int, window time.Duration) *RateLimiter {
	rl := &RateLimiter{
		clients:   make(map[string]*allowance),
		perWindow: perWindow,
		window:    window,
	}
	go rl.evictLoop()
	return rl
}

// Allow consumes one request from the client's allowance, opening a fresh
// window if the previous one has lapsed. Returns false when the allowance
// is spent.
func (rl *RateLimiter) Allow(client string) bool {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := time.Now()
	a, ok := rl.clients[client]
	if !ok || now.Sub(a.opened) >= rl.window {
		rl.clients[client] = &allowance{remaining: rl.perWindow - 1, opened: now}
		return true
	}

	if a.remaining > 0 {
		a.remaining--
		return true
	}
	return false
}

// RetryAfter returns whole seconds until the client's window lapses.
func (rl *RateLimiter) RetryAfter(client string) int {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	a, ok := rl.clients[client]
	if !ok {
		return 0
	}
	left := rl.window - time.Since(a.opened)
	if left < 0 {
		return 0
	}
	return int(left.Seconds()) + 1
}

// evictLoop drops clients whose window lapsed long ago, so the map does not
// grow with every address that ever connected.
func (rl *RateLimiter) evictLoop() {
	for {
		time.Sleep(time.Hour)

		rl.mu.Lock()
		now := time.Now()
		for client, a := range rl.clients {
			if now.Sub(a.opened) > 2*rl.window {
				delete(rl.clients, client)
			}
		}
		rl.mu.Unlock()
	}
}

// clientIP identifies the requesting client: the first X-Forwarded-For hop
// when a proxy supplied one, otherwise the connection's remote address.
func clientIP(r *http.Request) string {
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		first, _, _ := strings.Cut(xff, ",")
		return strings.TrimSpace(first)
	}
	if host, _, err := net.SplitHostPort(r.RemoteAddr); err == nil {
		return host
	}
	return r.RemoteAddr
}

// RateLimitMiddleware answers 429 with a Retry-After header once a client
// exhausts its allowance.
func RateLimitMiddleware(rl *RateLimiter, next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ip := clientIP(r)
		if !rl.Allow(ip) {
			w.Header().Set("Retry-After", strconv.Itoa(rl.RetryAfter(ip)))
			http.Error(w, "rate limit exceeded", http.StatusTooManyRequests)
			return
		}
		next(w, r)
	}
}
