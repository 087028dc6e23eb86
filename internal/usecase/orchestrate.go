package usecase

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"strings"

	"go.uber.org/zap"

	"github.com/rojanmagar2001/streamcheck/internal/domain"
	"github.com/rojanmagar2001/streamcheck/internal/m3u"
	"github.com/rojanmagar2001/streamcheck/internal/ports"
)

type Options struct {
	FeedPath     string
	CustomPath   string
	OutputPath   string
	ReportPath   string
	DefaultGroup string
}

// Summary holds the counts of one combine run.
type Summary struct {
	Sources  int
	Failed   int // sources that could not be fetched
	Custom   int
	Found    int
	Working  int
	Unique   int
	Removed  int
	Failures map[domain.FailureKind]int
}

type Orchestrator struct {
	fetcher  *Fetcher
	checker  *Checker
	newStore func() ports.Store
	reporter ports.Reporter
	opts     Options
	log      *zap.Logger
}

func NewOrchestrator(f *Fetcher, c *Checker, newStore func() ports.Store, reporter ports.Reporter, opts Options, log *zap.Logger) *Orchestrator {
	return &Orchestrator{
		fetcher:  f,
		checker:  c,
		newStore: newStore,
		reporter: reporter,
		opts:     opts,
		log:      log,
	}
}

// Combine checks every source in the feed, merges the working streams with
// the custom entries and writes the result to the output playlist. Only a
// missing or empty feed, cancellation and a failed write are errors.
func (o *Orchestrator) Combine(ctx context.Context, stdout io.Writer) (Summary, error) {
	custom := o.loadCustom()

	sources, err := m3u.LoadFeed(o.opts.FeedPath)
	if err != nil {
		return Summary{}, err
	}

	sum := Summary{
		Sources:  len(sources),
		Custom:   len(custom),
		Failures: map[domain.FailureKind]int{},
	}

	var (
		perSource [][]domain.Entry
		records   []ports.ProbeRecord
	)
	for _, src := range sources {
		if ctx.Err() != nil {
			break
		}

		rep, ok := o.checkSource(ctx, src)
		if !ok {
			sum.Failed++
			continue
		}

		sum.Found += len(rep.Results)
		sum.Working += len(rep.Working)
		for k, n := range rep.Failures {
			sum.Failures[k] += n
		}
		perSource = append(perSource, rep.Working)
		for _, r := range rep.Results {
			records = append(records, ports.ProbeRecord{Source: src, Entry: r.Entry, Result: r.Result})
		}
	}
	if err := ctx.Err(); err != nil {
		return sum, fmt.Errorf("combine interrupted: %w", err)
	}

	agg := Aggregate(o.newStore(), custom, perSource)
	sum.Unique = len(agg.Unique)
	sum.Removed = agg.Removed

	o.log.Info("aggregated working streams",
		zap.Int("unique", sum.Unique),
		zap.Int("duplicates_removed", sum.Removed),
	)

	if err := m3u.Write(o.opts.OutputPath, agg.Combined, o.opts.DefaultGroup); err != nil {
		return sum, fmt.Errorf("write %s: %w", o.opts.OutputPath, err)
	}

	if o.opts.ReportPath != "" && o.reporter != nil {
		if err := o.reporter.Report(o.opts.ReportPath, records); err != nil {
			o.log.Warn("could not write probe report", zap.String("path", o.opts.ReportPath), zap.Error(err))
		} else {
			o.log.Info("probe report written", zap.String("path", o.opts.ReportPath), zap.Int("rows", len(records)))
		}
	}

	fmt.Fprintf(stdout, "Total unique working streams: %d (removed %d duplicates)\n", sum.Unique, sum.Removed)
	fmt.Fprintf(stdout, "Combined working streams saved to %s (%d custom + %d checked)\n", o.opts.OutputPath, sum.Custom, sum.Unique)
	return sum, nil
}

// CheckSources checks each source on its own and prints its working URLs.
// Nothing is written to disk.
func (o *Orchestrator) CheckSources(ctx context.Context, stdout io.Writer) error {
	sources, err := m3u.LoadFeed(o.opts.FeedPath)
	if err != nil {
		return err
	}

	separator := strings.Repeat("-", 50)
	for _, src := range sources {
		if err := ctx.Err(); err != nil {
			return fmt.Errorf("check interrupted: %w", err)
		}

		rep, ok := o.checkSource(ctx, src)
		switch {
		case !ok:
			fmt.Fprintf(stdout, "No streams found in %s\n", src)
		case len(rep.Working) == 0:
			fmt.Fprintf(stdout, "No working streams found in %s.\n", src)
		default:
			fmt.Fprintf(stdout, "\nWorking streams in %s:\n", src)
			for _, e := range rep.Working {
				fmt.Fprintln(stdout, e.URL)
			}
		}
		fmt.Fprintf(stdout, "\n%s\n\n", separator)
	}
	return nil
}

// checkSource fetches and probes one source. ok is false when the source
// could not be fetched or listed no streams.
func (o *Orchestrator) checkSource(ctx context.Context, src string) (CheckReport, bool) {
	log := o.log.With(zap.String("source", src))

	entries, err := o.fetcher.Fetch(ctx, src)
	if err != nil {
		log.Warn("could not fetch playlist", zap.Error(err))
		return CheckReport{}, false
	}
	if len(entries) == 0 {
		log.Info("no streams found")
		return CheckReport{}, false
	}

	log.Info("found possible streams, checking working links", zap.Int("found", len(entries)))
	rep := o.checker.Check(ctx, entries)
	log.Info("working links found", zap.Int("working", len(rep.Working)), zap.Int("checked", len(rep.Results)))
	return rep, true
}

func (o *Orchestrator) loadCustom() []domain.Entry {
	if o.opts.CustomPath == "" {
		return nil
	}

	custom, err := m3u.LoadCustom(o.opts.CustomPath, o.opts.DefaultGroup)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		o.log.Info("no custom entries file found, skipping", zap.String("path", o.opts.CustomPath))
		return nil
	case err != nil:
		o.log.Warn("could not read custom entries", zap.String("path", o.opts.CustomPath), zap.Error(err))
		return nil
	}

	o.log.Info("custom entries loaded", zap.Int("count", len(custom)))
	return custom
}
