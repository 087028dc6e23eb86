package ports

import "context"

// Limiter blocks until a request to rawURL may go out.
type Limiter interface {
	Take(ctx context.Context, rawURL string) error
}

// ConcurrencyAdvisor may shrink the probe pool width, e.g. under host load.
type ConcurrencyAdvisor interface {
	RecommendedConcurrency(max int) int
}
