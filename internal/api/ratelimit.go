package api

import (
	"net/http"
	"sync"
	"time"

	"github.com/labstack/echo/v4"
	"golang.org/x/time/rate"
)

type rateLimitResponse struct {
	Error      string `json:"error"`
	RetryAfter int    `json:"retryAfter"`
}

type clientLimiter struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// failureLimiter limits clients by the number of failed requests they make.
// A response with status below 400 never uses up the client's allowance, so
// well-behaved clients are not throttled by normal traffic.
type failureLimiter struct {
	mu      sync.Mutex
	clients map[string]*clientLimiter
	limit   rate.Limit
	burst   int
	expiry  time.Duration
	sweptAt time.Time
	now     func() time.Time
}

func newFailureLimiter(perMinute int, expiry time.Duration) *failureLimiter {
	return &failureLimiter{
		clients: make(map[string]*clientLimiter),
		limit:   rate.Limit(float64(perMinute) / 60.0),
		burst:   perMinute,
		expiry:  expiry,
		now:     time.Now,
	}
}

// get returns the limiter for key, dropping clients idle longer than expiry.
func (l *failureLimiter) get(key string) *rate.Limiter {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	if now.Sub(l.sweptAt) > l.expiry {
		for k, c := range l.clients {
			if now.Sub(c.lastSeen) > l.expiry {
				delete(l.clients, k)
			}
		}
		l.sweptAt = now
	}

	c, ok := l.clients[key]
	if !ok {
		c = &clientLimiter{limiter: rate.NewLimiter(l.limit, l.burst)}
		l.clients[key] = c
	}
	c.lastSeen = now
	return c.limiter
}

func (l *failureLimiter) middleware(skip func(echo.Context) bool) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if skip(c) {
				return next(c)
			}

			lim := l.get(c.RealIP())
			if lim.TokensAt(l.now()) < 1 {
				c.Response().Header().Set("Retry-After", "60")
				return c.JSON(http.StatusTooManyRequests, rateLimitResponse{
					Error:      "Too many requests, please try again later.",
					RetryAfter: 60,
				})
			}

			err := next(c)
			// The final status is only known once the error handler has run.
			if err != nil {
				c.Error(err)
			}
			if c.Response().Status >= http.StatusBadRequest {
				lim.AllowN(l.now(), 1)
			}
			return err
		}
	}
}
