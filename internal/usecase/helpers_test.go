package usecase

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/rojanmagar2001/streamcheck/internal/domain"
)

type noLimit struct{}

func (noLimit) Take(context.Context, string) error { return nil }

// fakeProber answers from a table and tracks the peak number of concurrent
// probes.
type fakeProber struct {
	working map[string]bool
	panics  map[string]bool
	delay   time.Duration

	mu       sync.Mutex
	inFlight int
	peak     int
	calls    atomic.Int32
}

func (p *fakeProber) Probe(_ context.Context, url string) domain.ProbeResult {
	p.calls.Add(1)
	p.mu.Lock()
	p.inFlight++
	if p.inFlight > p.peak {
		p.peak = p.inFlight
	}
	p.mu.Unlock()

	defer func() {
		p.mu.Lock()
		p.inFlight--
		p.mu.Unlock()
	}()

	if p.delay > 0 {
		time.Sleep(p.delay)
	}
	if p.panics[url] {
		panic("boom: " + url)
	}
	if p.working[url] {
		return domain.ProbeResult{URL: url, Working: true, Stage: domain.StageHead, StatusCode: 200}
	}
	return domain.ProbeResult{URL: url, Stage: domain.StageRange, StatusCode: 404, Err: domain.NewStatusError(url, domain.StageRange, 404)}
}

func (p *fakeProber) Peak() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.peak
}

type fixedAdvisor int

func (a fixedAdvisor) RecommendedConcurrency(int) int { return int(a) }
