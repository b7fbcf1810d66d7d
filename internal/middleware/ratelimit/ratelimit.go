// Package ratelimit throttles write requests per client IP with token
// buckets.
package ratelimit

import (
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"golang.org/x/time/rate"

	"cashflow/internal/cache"
)

// Config holds rate limiter configuration.
type Config struct {
	// RequestsPerMinute is the sustained refill rate of each bucket.
	RequestsPerMinute int
	// Burst defaults to RequestsPerMinute.
	Burst int
	// MaxClients bounds the tracked buckets; the least recently seen
	// client is forgotten first.
	MaxClients int
	// IdleTimeout forgets clients that have not been seen for this long.
	IdleTimeout time.Duration
	// SweepInterval defaults to IdleTimeout.
	SweepInterval time.Duration
	// Methods limited by the middleware; empty limits every method.
	Methods []string
}

// DefaultConfig limits writes to 60 per minute.
func DefaultConfig() Config {
	return Config{
		RequestsPerMinute: 60,
		MaxClients:        10000,
		IdleTimeout:       10 * time.Minute,
		Methods:           []string{http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete},
	}
}

// Limiter keeps one token bucket per client.
type Limiter struct {
	mu       sync.Mutex
	clients  *cache.LRUCache[*rate.Limiter]
	limit    rate.Limit
	burst    int
	methods  map[string]bool
	rejected atomic.Int64
	now      func() time.Time

	stop     chan struct{}
	stopOnce sync.Once
}

// NewLimiter creates a limiter and starts sweeping idle clients; call Stop.
func NewLimiter(config Config) *Limiter {
	def := DefaultConfig()
	if config.RequestsPerMinute <= 0 {
		config.RequestsPerMinute = def.RequestsPerMinute
	}
	if config.Burst <= 0 {
		config.Burst = config.RequestsPerMinute
	}
	if config.MaxClients <= 0 {
		config.MaxClients = def.MaxClients
	}
	if config.IdleTimeout <= 0 {
		config.IdleTimeout = def.IdleTimeout
	}
	if config.SweepInterval <= 0 {
		config.SweepInterval = config.IdleTimeout
	}

	rl := &Limiter{
		clients: cache.NewLRUCache[*rate.Limiter](config.MaxClients, config.IdleTimeout),
		limit:   rate.Limit(float64(config.RequestsPerMinute) / 60),
		burst:   config.Burst,
		methods: make(map[string]bool, len(config.Methods)),
		now:     time.Now,
		stop:    make(chan struct{}),
	}
	for _, m := range config.Methods {
		rl.methods[m] = true
	}
	go rl.sweep(config.SweepInterval)
	return rl
}

// Allow takes one token from the client's bucket.
func (rl *Limiter) Allow(clientIP string) bool {
	rl.mu.Lock()
	bucket, ok := rl.clients.Get(clientIP)
	if !ok {
		bucket = rate.NewLimiter(rl.limit, rl.burst)
	}
	rl.clients.Set(clientIP, bucket)
	rl.mu.Unlock()

	if !bucket.AllowN(rl.now(), 1) {
		rl.rejected.Add(1)
		return false
	}
	return true
}

// setClock drives both token refill and idle expiry from now.
func (rl *Limiter) setClock(now func() time.Time) {
	rl.now = now
	rl.clients.SetClock(now)
}

func (rl *Limiter) applies(method string) bool {
	return len(rl.methods) == 0 || rl.methods[method]
}

func (rl *Limiter) sweep(every time.Duration) {
	ticker := time.NewTicker(every)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			rl.CleanExpired()
		case <-rl.stop:
			return
		}
	}
}

// CleanExpired forgets idle clients; it satisfies cache.Cleaner.
func (rl *Limiter) CleanExpired() int {
	return rl.clients.CleanExpired()
}

// ActiveClients returns the number of currently tracked clients.
func (rl *Limiter) ActiveClients() int {
	return rl.clients.Size()
}

// Rejected returns how many requests were refused since start.
func (rl *Limiter) Rejected() int64 {
	return rl.rejected.Load()
}

// Stop ends the idle sweep.
func (rl *Limiter) Stop() {
	rl.stopOnce.Do(func() { close(rl.stop) })
}

// Middleware rejects over-limit requests with 429 or hands them to onLimit.
func (rl *Limiter) Middleware(extractIP func(*http.Request) string, onLimit func(http.ResponseWriter, *http.Request)) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !rl.applies(r.Method) || rl.Allow(extractIP(r)) {
				next.ServeHTTP(w, r)
				return
			}
			if onLimit != nil {
				onLimit(w, r)
				return
			}
			w.Header().Set("Retry-After", "60")
			http.Error(w, http.StatusText(http.StatusTooManyRequests), http.StatusTooManyRequests)
		})
	}
}
