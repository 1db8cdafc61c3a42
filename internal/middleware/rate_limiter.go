package middleware

import (
	"net/http"
	"sync"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/locvowork/taskboard/internal/service/serviceutils"
	"golang.org/x/time/rate"
)

const visitorIdleTTL = 10 * time.Minute

type visitor struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// RateLimiter applies a token bucket per signed-in user, or per client IP
// for anonymous requests. It must run after Auth.
func RateLimiter(r rate.Limit, b int) echo.MiddlewareFunc {
	var (
		mu       sync.Mutex
		visitors = make(map[string]*visitor)
		lastGC   = time.Now()
	)

	getVisitor := func(key string, now time.Time) *rate.Limiter {
		mu.Lock()
		defer mu.Unlock()

		if now.Sub(lastGC) > visitorIdleTTL {
			for k, v := range visitors {
				if now.Sub(v.lastSeen) > visitorIdleTTL {
					delete(visitors, k)
				}
			}
			lastGC = now
		}

		v, exists := visitors[key]
		if !exists {
			v = &visitor{limiter: rate.NewLimiter(r, b)}
			visitors[key] = v
		}
		v.lastSeen = now
		return v.limiter
	}

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if !getVisitor(rateKey(c), time.Now()).Allow() {
				return serviceutils.ResponseError(c, http.StatusTooManyRequests, "rate limit exceeded", nil)
			}
			return next(c)
		}
	}
}

func rateKey(c echo.Context) string {
	if id, ok := c.Get(userIDKey).(string); ok && id != "" {
		return "user:" + id
	}
	return "ip:" + c.RealIP()
}
