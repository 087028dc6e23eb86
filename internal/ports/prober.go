package ports

import (
	"context"

	"github.com/rojanmagar2001/streamcheck/internal/domain"
)

type Prober interface {
	Probe(ctx context.Context, url string) domain.ProbeResult
}
