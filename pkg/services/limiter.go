package services

import (
	"sync"
	"time"

	cache "github.com/go-pkgz/expirable-cache/v2"
	"golang.org/x/time/rate"
)

// Limiter throttles requests per client key. Limiters of clients that went
// quiet expire from the table.
type Limiter struct {
	mu      sync.Mutex
	clients cache.Cache[string, *rate.Limiter]
	limit   rate.Limit
	burst   int
}

// NewLimiter allows perMinute events per client with the given burst.
func NewLimiter(perMinute float64, burst int) *Limiter {
	if burst < 1 {
		burst = 1
	}
	return &Limiter{
		clients: cache.NewCache[string, *rate.Limiter]().WithTTL(10 * time.Minute).WithMaxKeys(10000).WithLRU(),
		limit:   rate.Limit(perMinute / 60),
		burst:   burst,
	}
}

// Allow reports whether the client may proceed now.
func (l *Limiter) Allow(key string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	lim, ok := l.clients.Get(key)
	if !ok {
		lim = rate.NewLimiter(l.limit, l.burst)
	}
	// re-set on every hit so the ttl counts from the last request
	l.clients.Set(key, lim, 0)
	return lim.Allow()
}
