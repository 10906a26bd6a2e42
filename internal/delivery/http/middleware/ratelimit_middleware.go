package middleware

import (
	"sync"
	"time"

	"pensionfund/config"
	domainerrors "pensionfund/internal/domain/errors"

	"github.com/labstack/echo/v4"
	"golang.org/x/time/rate"
)

// RateLimitMiddleware throttles credential endpoints per client IP so a
// single host cannot brute-force passwords or farm reset mails.
type RateLimitMiddleware struct {
	mu        sync.Mutex
	visitors  map[string]*visitor
	rps       rate.Limit
	burst     int
	nextSweep time.Time
}

type visitor struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// visitorTTL bounds how long an idle client's limiter is kept, and
// sweepInterval how often the stale entries are collected.
const (
	visitorTTL    = 10 * time.Minute
	sweepInterval = time.Minute
)

// NewRateLimitMiddleware is the constructor for RateLimitMiddleware.
func NewRateLimitMiddleware(cfg *config.Config) *RateLimitMiddleware {
	rps := rate.Limit(1)
	burst := 5
	if cfg.RateLimit != nil {
		if cfg.RateLimit.LoginPerSecond > 0 {
			rps = rate.Limit(cfg.RateLimit.LoginPerSecond)
		}
		if cfg.RateLimit.LoginBurst > 0 {
			burst = cfg.RateLimit.LoginBurst
		}
	}

	return &RateLimitMiddleware{
		visitors: make(map[string]*visitor),
		rps:      rps,
		burst:    burst,
	}
}

// Limit rejects requests exceeding the per-IP budget with 429.
func (m *RateLimitMiddleware) Limit(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		if !m.allow(c.RealIP()) {
			return domainerrors.ErrRateLimited
		}

		return next(c)
	}
}

func (m *RateLimitMiddleware) allow(ip string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := time.Now()
	v, ok := m.visitors[ip]
	if !ok {
		v = &visitor{limiter: rate.NewLimiter(m.rps, m.burst)}
		m.visitors[ip] = v
	}
	v.lastSeen = now

	// Stale-entry cleanup piggybacks on the request path but runs at most
	// once per sweepInterval, so the map scan stays off the hot path.
	if now.After(m.nextSweep) {
		for addr, seen := range m.visitors {
			if now.Sub(seen.lastSeen) > visitorTTL {
				delete(m.visitors, addr)
			}
		}
		m.nextSweep = now.Add(sweepInterval)
	}

	return v.limiter.Allow()
}
