package app

import (
	"context"
	"io"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/rojanmagar2001/streamcheck/internal/check"
	"github.com/rojanmagar2001/streamcheck/internal/infra/httpclient"
	"github.com/rojanmagar2001/streamcheck/internal/infra/limiter"
	"github.com/rojanmagar2001/streamcheck/internal/infra/manifest"
	"github.com/rojanmagar2001/streamcheck/internal/infra/report"
	"github.com/rojanmagar2001/streamcheck/internal/infra/store"
	"github.com/rojanmagar2001/streamcheck/internal/infra/sysmon"
	"github.com/rojanmagar2001/streamcheck/internal/ports"
	"github.com/rojanmagar2001/streamcheck/internal/usecase"
)

const sysmonSample = 500 * time.Millisecond

// Run checks every playlist in the feed and writes the combined playlist.
// Results go to stdout, logs to stderr.
func Run(ctx context.Context, cfg Config, stdout, stderr io.Writer) error {
	orch, log, err := build(cfg, stderr)
	if err != nil {
		return err
	}
	defer func() { _ = log.Sync() }()

	start := time.Now()
	sum, err := orch.Combine(ctx, stdout)
	if err != nil {
		log.Error("combine failed", zap.Error(err))
		return err
	}

	failures := make([]zap.Field, 0, len(sum.Failures))
	for k, n := range sum.Failures {
		failures = append(failures, zap.Int(string(k), n))
	}
	log.Info("run complete",
		zap.Int("sources", sum.Sources),
		zap.Int("sources_failed", sum.Failed),
		zap.Int("found", sum.Found),
		zap.Int("working", sum.Working),
		zap.Int("unique", sum.Unique),
		zap.Int("duplicates_removed", sum.Removed),
		zap.Int("custom", sum.Custom),
		zap.Dict("failures", failures...),
		zap.Duration("elapsed", time.Since(start)),
	)
	return nil
}

// RunCheck prints the working streams of each playlist in the feed without
// combining them.
func RunCheck(ctx context.Context, cfg Config, stdout, stderr io.Writer) error {
	orch, log, err := build(cfg, stderr)
	if err != nil {
		return err
	}
	defer func() { _ = log.Sync() }()

	return orch.CheckSources(ctx, stdout)
}

func build(cfg Config, stderr io.Writer) (*usecase.Orchestrator, *zap.Logger, error) {
	if err := cfg.Validate(); err != nil {
		return nil, nil, err
	}

	log, err := NewLogger(cfg.LogLevel, cfg.LogFormat, stderr)
	if err != nil {
		return nil, nil, err
	}
	log = log.With(zap.String("run_id", uuid.NewString()))

	httpc, err := httpclient.New(httpclient.Options{
		Timeout:     max(cfg.ProbeTimeout, cfg.FetchTimeout),
		UserAgent:   cfg.UserAgent,
		InsecureTLS: cfg.InsecureTLS,
		Proxy:       cfg.Proxy,
	})
	if err != nil {
		return nil, nil, err
	}
	lim := limiter.New(cfg.Rate, cfg.PerHostRate)

	prober := check.NewProber(httpc, cfg.ProbeTimeout, cfg.UserAgent)
	prober.RangeBytes = cfg.RangeBytes

	checker := usecase.NewChecker(usecase.NewProbeService(prober, lim, log), cfg.Concurrency, log)
	if cfg.AdaptiveConcurrency {
		checker.WithAdvisor(sysmon.New(sysmonSample))
	}

	fetcher := usecase.NewFetcher(httpc, manifest.New(), lim, cfg.FetchTimeout, log)

	orch := usecase.NewOrchestrator(
		fetcher,
		checker,
		func() ports.Store { return store.NewMemory() },
		report.NewXLSX(),
		usecase.Options{
			FeedPath:     cfg.FeedPath,
			CustomPath:   cfg.CustomPath,
			OutputPath:   cfg.OutputPath,
			ReportPath:   cfg.ReportPath,
			DefaultGroup: cfg.DefaultGroup,
		},
		log,
	)
	return orch, log, nil
}
