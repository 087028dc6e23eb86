package usecase

import (
	"context"

	"go.uber.org/zap"

	"github.com/rojanmagar2001/streamcheck/internal/domain"
	"github.com/rojanmagar2001/streamcheck/internal/ports"
)

// ProbeService rate-limits probes before handing them to the prober.
type ProbeService struct {
	prober  ports.Prober
	limiter ports.Limiter
	log     *zap.Logger
}

func NewProbeService(prober ports.Prober, limiter ports.Limiter, log *zap.Logger) *ProbeService {
	return &ProbeService{
		prober:  prober,
		limiter: limiter,
		log:     log,
	}
}

func (s *ProbeService) Probe(ctx context.Context, url string) domain.ProbeResult {
	// Limiting happens before network call
	if err := s.limiter.Take(ctx, url); err != nil {
		return domain.ProbeResult{URL: url, Stage: domain.StageHead, Err: domain.NewTransportError(url, domain.StageHead, err)}
	}

	res := s.prober.Probe(ctx, url)
	if !res.Working {
		s.log.Debug("stream not working",
			zap.String("url", url),
			zap.String("stage", string(res.Stage)),
			zap.String("failure", string(res.Failure())),
			zap.Error(res.Err),
		)
	}
	return res
}
