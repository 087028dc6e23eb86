package check

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/rojanmagar2001/streamcheck/internal/domain"
)

const DefaultRangeBytes = 1024

// Doer is satisfied by *http.Client.
type Doer interface {
	Do(req *http.Request) (*http.Response, error)
}

// Prober decides whether a stream URL is serving content. It tries a HEAD
// first and falls back to a small ranged GET, since many streaming origins
// reject HEAD but answer partial-content requests.
type Prober struct {
	Client     Doer
	Timeout    time.Duration
	RangeBytes int64
	UserAgent  string
}

func NewProber(client Doer, timeout time.Duration, userAgent string) *Prober {
	if client == nil {
		client = &http.Client{Timeout: timeout}
	}
	return &Prober{
		Client:     client,
		Timeout:    timeout,
		RangeBytes: DefaultRangeBytes,
		UserAgent:  userAgent,
	}
}

// Probe never returns an error; failures are reported in the result with a
// *domain.ProbeError describing their kind. A transport error on HEAD ends
// the probe without trying the ranged GET.
func (p *Prober) Probe(ctx context.Context, link string) domain.ProbeResult {
	start := time.Now()

	res := p.do(ctx, domain.StageHead, link)
	if res.Err != nil || res.StatusCode == http.StatusOK {
		res.Working = res.Err == nil
		res.Elapsed = time.Since(start)
		return res
	}

	res = p.do(ctx, domain.StageRange, link)
	if res.Err == nil {
		switch res.StatusCode {
		case http.StatusOK, http.StatusPartialContent:
			res.Working = true
		default:
			res.Err = domain.NewStatusError(link, domain.StageRange, res.StatusCode)
		}
	}
	res.Elapsed = time.Since(start)
	return res
}

func (p *Prober) do(ctx context.Context, stage domain.ProbeStage, link string) domain.ProbeResult {
	res := domain.ProbeResult{URL: link, Stage: stage}

	if p.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, p.Timeout)
		defer cancel()
	}

	method := http.MethodHead
	if stage == domain.StageRange {
		method = http.MethodGet
	}

	req, err := http.NewRequestWithContext(ctx, method, link, nil)
	if err != nil {
		res.Err = &domain.ProbeError{URL: link, Stage: stage, Kind: domain.FailureRequest, Cause: fmt.Errorf("new request: %w", err)}
		return res
	}
	if p.UserAgent != "" {
		req.Header.Set("User-Agent", p.UserAgent)
	}
	if stage == domain.StageRange {
		req.Header.Set("Range", fmt.Sprintf("bytes=0-%d", p.rangeBytes()-1))
	}

	resp, err := p.Client.Do(req)
	if err != nil {
		res.Err = domain.NewTransportError(link, stage, fmt.Errorf("%s request: %w", method, err))
		return res
	}
	defer resp.Body.Close()

	// Servers that ignore Range would stream the whole body; read no more
	// than was asked for.
	if stage == domain.StageRange {
		_, _ = io.CopyN(io.Discard, resp.Body, p.rangeBytes())
	}

	res.StatusCode = resp.StatusCode
	return res
}

func (p *Prober) rangeBytes() int64 {
	if p.RangeBytes <= 0 {
		return DefaultRangeBytes
	}
	return p.RangeBytes
}
