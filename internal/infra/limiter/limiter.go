package limiter

import (
	"context"
	"net/url"
	"strings"
	"sync"

	"golang.org/x/time/rate"
)

// PerHost throttles requests globally and per host. A rate of zero or less
// disables that level of limiting.
type PerHost struct {
	global *rate.Limiter

	mu    sync.Mutex
	rate  rate.Limit
	burst int
	hosts map[string]*rate.Limiter
}

// New returns a limiter allowing globalRate requests per second overall and
// perHostRate requests per second to any single host.
func New(globalRate, perHostRate int) *PerHost {
	return &PerHost{
		global: newLimiter(globalRate),
		rate:   limitFor(perHostRate),
		burst:  burstFor(perHostRate),
		hosts:  make(map[string]*rate.Limiter),
	}
}

func limitFor(perSecond int) rate.Limit {
	if perSecond <= 0 {
		return rate.Inf
	}
	return rate.Limit(perSecond)
}

func burstFor(perSecond int) int {
	if perSecond <= 0 {
		return 1
	}
	return perSecond
}

func newLimiter(perSecond int) *rate.Limiter {
	return rate.NewLimiter(limitFor(perSecond), burstFor(perSecond))
}

func (h *PerHost) Take(ctx context.Context, rawURL string) error {
	if err := h.global.Wait(ctx); err != nil {
		return err
	}

	u, err := url.Parse(rawURL)
	if err != nil {
		return nil // invalid URL is reported by the request itself
	}
	host := strings.ToLower(u.Hostname())
	if host == "" || h.rate == rate.Inf {
		return nil
	}

	h.mu.Lock()
	l, ok := h.hosts[host]
	if !ok {
		l = rate.NewLimiter(h.rate, h.burst)
		h.hosts[host] = l
	}
	h.mu.Unlock()

	return l.Wait(ctx)
}
