package middleware

import (
	"math"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/trambui/portfolio-contact/internal/api/dto/common"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"
)

// MsgRateLimited is returned with 429.
const MsgRateLimited = "Too many requests. Please try again later."

// RateLimitConfig defines configuration for the rate limiter
type RateLimitConfig struct {
	// Requests per second, per client IP
	RPS float64
	// Burst size (number of requests that can be made in a single burst)
	Burst int
	// IdleTTL drops a client's bucket after this long without requests.
	IdleTTL time.Duration
	// MaxClients caps the number of tracked buckets. When full, idle buckets
	// are swept and then the least recently seen one is evicted.
	MaxClients int
}

type clientLimiter struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// ClientRateLimiter keeps one token bucket per client IP.
type ClientRateLimiter struct {
	config    RateLimitConfig
	mu        sync.Mutex
	clients   map[string]*clientLimiter
	lastSweep time.Time
	now       func() time.Time
}

// NewClientRateLimiter creates an empty limiter set.
func NewClientRateLimiter(config RateLimitConfig) *ClientRateLimiter {
	if config.IdleTTL <= 0 {
		config.IdleTTL = 10 * time.Minute
	}
	if config.MaxClients <= 0 {
		config.MaxClients = 10000
	}
	return &ClientRateLimiter{
		config:  config,
		clients: make(map[string]*clientLimiter),
		now:     time.Now,
	}
}

// Allow reports whether key may make a request now.
func (l *ClientRateLimiter) Allow(key string) (bool, time.Duration) {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	l.sweep(now)

	client, ok := l.clients[key]
	if !ok {
		if len(l.clients) >= l.config.MaxClients {
			l.makeRoom(now)
		}
		client = &clientLimiter{limiter: rate.NewLimiter(rate.Limit(l.config.RPS), l.config.Burst)}
		l.clients[key] = client
	}
	client.lastSeen = now

	if client.limiter.AllowN(now, 1) {
		return true, 0
	}

	// Time until the next token is available
	r := client.limiter.ReserveN(now, 1)
	delay := r.DelayFrom(now)
	r.CancelAt(now)
	return false, delay
}

// Len returns the number of tracked clients.
func (l *ClientRateLimiter) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.clients)
}

func (l *ClientRateLimiter) sweep(now time.Time) {
	if now.Sub(l.lastSweep) < l.config.IdleTTL {
		return
	}
	l.lastSweep = now
	for key, client := range l.clients {
		if now.Sub(client.lastSeen) >= l.config.IdleTTL {
			delete(l.clients, key)
		}
	}
}

func (l *ClientRateLimiter) makeRoom(now time.Time) {
	l.lastSweep = time.Time{}
	l.sweep(now)
	if len(l.clients) < l.config.MaxClients {
		return
	}

	var (
		oldestKey string
		oldest    time.Time
		found     bool
	)
	for key, client := range l.clients {
		if !found || client.lastSeen.Before(oldest) {
			oldestKey, oldest, found = key, client.lastSeen, true
		}
	}
	delete(l.clients, oldestKey)
}

// RateLimitMiddleware rejects clients that exceed their bucket with 429.
// Clients are keyed by gin's ClientIP, so forwarding headers only count when
// the engine trusts the peer that sent them.
func RateLimitMiddleware(limiter *ClientRateLimiter) gin.HandlerFunc {
	return func(c *gin.Context) {
		allowed, retryAfter := limiter.Allow(c.ClientIP())

		c.Header("X-RateLimit-Limit", strconv.Itoa(limiter.config.Burst))

		if !allowed {
			c.Header("Retry-After", strconv.Itoa(int(math.Ceil(retryAfter.Seconds()))))
			c.AbortWithStatusJSON(http.StatusTooManyRequests, common.NewErrorResponse(MsgRateLimited))
			return
		}

		c.Next()
	}
}
