package auth

import (
	"net"
	"net/http"
	"sync"

	"golang.org/x/time/rate"
)

// loginLimiter throttles login attempts per remote IP: 5 attempts burst,
// refilling one every 2 seconds.
type loginLimiter struct {
	mu       sync.Mutex
	limiters map[string]*rate.Limiter
}

func newLoginLimiter() *loginLimiter {
	return &loginLimiter{limiters: make(map[string]*rate.Limiter)}
}

func (l *loginLimiter) allow(remoteAddr string) bool {
	host, _, err := net.SplitHostPort(remoteAddr)
	if err != nil {
		host = remoteAddr
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	lim, ok := l.limiters[host]
	if !ok {
		lim = rate.NewLimiter(rate.Limit(0.5), 5)
		l.limiters[host] = lim
	}
	return lim.Allow()
}

var attempts = newLoginLimiter()

func tooManyAttempts(w http.ResponseWriter) {
	w.Header().Set("Retry-After", "2")
	http.Error(w, "Too many login attempts, slow down", http.StatusTooManyRequests)
}
