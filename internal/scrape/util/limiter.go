package util

import (
	"context"
	"net/url"
	"sync"

	"golang.org/x/time/rate"
)

// HostLimiter rate-limits requests per hostname so a run covering several
// buildings on the same landlord site stays polite.
type HostLimiter struct {
	mu       sync.Mutex
	limiters map[string]*rate.Limiter
	limit    rate.Limit
	burst    int
}

func NewHostLimiter(reqPerSec float64, burst int) *HostLimiter {
	return &HostLimiter{
		limiters: make(map[string]*rate.Limiter),
		limit:    rate.Limit(reqPerSec),
		burst:    burst,
	}
}

func (hl *HostLimiter) limiterFor(host string) *rate.Limiter {
	hl.mu.Lock()
	defer hl.mu.Unlock()

	lim, ok := hl.limiters[host]
	if !ok {
		lim = rate.NewLimiter(hl.limit, hl.burst)
		hl.limiters[host] = lim
	}
	return lim
}

// WaitURL blocks until the host of raw may be contacted again. URLs that do
// not parse share a single fallback bucket.
func (hl *HostLimiter) WaitURL(ctx context.Context, raw string) error {
	u, err := url.Parse(raw)
	if err != nil || u.Host == "" {
		return hl.limiterFor("_").Wait(ctx)
	}
	return hl.limiterFor(u.Host).Wait(ctx)
}
