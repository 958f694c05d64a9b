package ratelimit

import (
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// Limiter defines the interface for rate limiting
type Limiter interface {
	Allow(key string) bool
}

type client struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// InMemoryLimiter keeps one token bucket per client key. Buckets idle for
// longer than idleTTL are swept, since by then they have refilled and are
// indistinguishable from a fresh one.
type InMemoryLimiter struct {
	clients   map[string]*client
	mu        sync.Mutex
	r         rate.Limit
	b         int
	idleTTL   time.Duration
	lastSweep time.Time
	now       func() time.Time
}

// NewInMemoryLimiter creates a new rate limiter
// Example: NewInMemoryLimiter(60, time.Minute, 10) -> one request per second on average, bursts of 10
func NewInMemoryLimiter(requests int, per time.Duration, burst int) Limiter {
	if requests <= 0 || per <= 0 {
		return Unlimited{}
	}
	if burst <= 0 {
		burst = 1
	}

	interval := per / time.Duration(requests)
	idleTTL := time.Duration(burst) * interval
	if idleTTL < per {
		idleTTL = per
	}

	return &InMemoryLimiter{
		clients:   make(map[string]*client),
		r:         rate.Every(interval),
		b:         burst,
		idleTTL:   idleTTL,
		lastSweep: time.Now(),
		now:       time.Now,
	}
}

// Allow checks if a client is allowed to make another request
func (l *InMemoryLimiter) Allow(key string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	if now.Sub(l.lastSweep) >= l.idleTTL {
		l.sweep(now)
	}

	c, exists := l.clients[key]
	if !exists {
		c = &client{limiter: rate.NewLimiter(l.r, l.b)}
		l.clients[key] = c
	}
	c.lastSeen = now

	return c.limiter.AllowN(now, 1)
}

func (l *InMemoryLimiter) sweep(now time.Time) {
	for key, c := range l.clients {
		if now.Sub(c.lastSeen) >= l.idleTTL {
			delete(l.clients, key)
		}
	}
	l.lastSweep = now
}

// Unlimited allows everything. Used when rate limiting is switched off.
type Unlimited struct{}

func (Unlimited) Allow(string) bool { return true }
