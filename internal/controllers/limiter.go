package controllers

import (
	"net"
	"net/http"
	"sync"

	"golang.org/x/time/rate"
)

// limiterPool enforces the per-client submission ceiling. One token
// bucket per client key, refilled at hourly-limit per hour with a
// burst of the same size.
type limiterPool struct {
	mu    sync.Mutex
	m     map[string]*rate.Limiter
	limit int
}

func newLimiterPool(hourlyLimit int) *limiterPool {
	if hourlyLimit <= 0 {
		hourlyLimit = 10
	}
	return &limiterPool{
		m:     make(map[string]*rate.Limiter),
		limit: hourlyLimit,
	}
}

func (p *limiterPool) get(key string) *rate.Limiter {
	p.mu.Lock()
	defer p.mu.Unlock()
	if l, ok := p.m[key]; ok {
		return l
	}
	l := rate.NewLimiter(rate.Limit(float64(p.limit)/3600.0), p.limit)
	p.m[key] = l
	return l
}

func (p *limiterPool) Allow(key string) bool {
	return p.get(key).Allow()
}

// clientKey identifies the caller for rate limiting. Host part of the
// remote address; the raw address when it has no port.
func clientKey(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
