package usecase

import (
	"context"
	"fmt"
	"sync"

	"go.uber.org/zap"

	"github.com/rojanmagar2001/streamcheck/internal/domain"
	"github.com/rojanmagar2001/streamcheck/internal/ports"
)

const DefaultConcurrency = 10

// Checked pairs an entry with its probe outcome.
type Checked struct {
	Entry  domain.Entry
	Result domain.ProbeResult
}

type CheckReport struct {
	Working  []domain.Entry // completion order
	Results  []Checked
	Failures map[domain.FailureKind]int
}

// Checker probes entries on a fixed-size worker pool.
type Checker struct {
	prober      ports.Prober
	concurrency int
	advisor     ports.ConcurrencyAdvisor
	log         *zap.Logger
}

func NewChecker(prober ports.Prober, concurrency int, log *zap.Logger) *Checker {
	if concurrency <= 0 {
		concurrency = DefaultConcurrency
	}
	return &Checker{
		prober:      prober,
		concurrency: concurrency,
		log:         log,
	}
}

// WithAdvisor lets a (possibly nil) advisor shrink the pool before each run.
func (c *Checker) WithAdvisor(a ports.ConcurrencyAdvisor) *Checker {
	c.advisor = a
	return c
}

// CheckAll returns the working entries in completion order.
func (c *Checker) CheckAll(ctx context.Context, entries []domain.Entry) []domain.Entry {
	return c.Check(ctx, entries).Working
}

// Check probes every entry and returns once all probes have finished. A
// panicking probe counts as not working and does not affect the others.
func (c *Checker) Check(ctx context.Context, entries []domain.Entry) CheckReport {
	report := CheckReport{Failures: map[domain.FailureKind]int{}}
	if len(entries) == 0 {
		return report
	}

	workers := c.width(len(entries))

	jobs := make(chan domain.Entry)
	results := make(chan Checked, workers)

	var wg sync.WaitGroup
	worker := func() {
		defer wg.Done()
		for e := range jobs {
			results <- Checked{Entry: e, Result: c.probe(ctx, e.URL)}
		}
	}

	wg.Add(workers)
	for i := 0; i < workers; i++ {
		go worker()
	}

	go func() {
		for _, e := range entries {
			jobs <- e
		}
		close(jobs)
	}()

	go func() {
		wg.Wait()
		close(results)
	}()

	report.Results = make([]Checked, 0, len(entries))
	for r := range results {
		report.Results = append(report.Results, r)
		if r.Result.Working {
			report.Working = append(report.Working, r.Entry)
			continue
		}
		report.Failures[r.Result.Failure()]++
	}
	return report
}

func (c *Checker) width(n int) int {
	w := c.concurrency
	if c.advisor != nil {
		if rec := c.advisor.RecommendedConcurrency(w); rec < w {
			c.log.Info("reducing probe concurrency under host load", zap.Int("from", w), zap.Int("to", rec))
			w = rec
		}
	}
	if w > n {
		w = n
	}
	if w < 1 {
		w = 1
	}
	return w
}

func (c *Checker) probe(ctx context.Context, url string) (res domain.ProbeResult) {
	defer func() {
		if r := recover(); r != nil {
			res = domain.ProbeResult{
				URL: url,
				Err: &domain.ProbeError{URL: url, Kind: domain.FailurePanic, Cause: fmt.Errorf("%v", r)},
			}
			c.log.Warn("probe panicked", zap.String("url", url), zap.Any("panic", r))
		}
	}()
	return c.prober.Probe(ctx, url)
}
