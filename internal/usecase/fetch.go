package usecase

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/rojanmagar2001/streamcheck/internal/domain"
	"github.com/rojanmagar2001/streamcheck/internal/ports"
)

const (
	DefaultFetchTimeout = 15 * time.Second
	maxManifestBytes    = 64 << 20
)

// FetchError reports a playlist source that answered with a non-2xx status.
type FetchError struct {
	URL        string
	StatusCode int
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("fetch %s: unexpected status %d", e.URL, e.StatusCode)
}

// Fetcher downloads a playlist source and parses it into entries.
type Fetcher struct {
	client   ports.HTTPClient
	decoder  ports.ManifestDecoder
	limiter  ports.Limiter
	timeout  time.Duration
	maxBytes int64
	log      *zap.Logger
}

func NewFetcher(client ports.HTTPClient, decoder ports.ManifestDecoder, limiter ports.Limiter, timeout time.Duration, log *zap.Logger) *Fetcher {
	if timeout <= 0 {
		timeout = DefaultFetchTimeout
	}
	return &Fetcher{
		client:   client,
		decoder:  decoder,
		limiter:  limiter,
		timeout:  timeout,
		maxBytes: maxManifestBytes,
		log:      log,
	}
}

func (f *Fetcher) Fetch(ctx context.Context, source string) ([]domain.Entry, error) {
	if err := f.limiter.Take(ctx, source); err != nil {
		return nil, fmt.Errorf("fetch %s: %w", source, err)
	}

	// Each source gets its own timeout budget.
	ctx, cancel := context.WithTimeout(ctx, f.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, source, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch %s: %w", source, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &FetchError{URL: source, StatusCode: resp.StatusCode}
	}

	body, err := f.readBody(resp.Body, source)
	if err != nil {
		return nil, err
	}

	entries, err := f.decoder.Decode(resp.Header.Get("Content-Type"), bytes.NewReader(body))
	if err != nil {
		if len(entries) == 0 {
			return nil, fmt.Errorf("parse %s: %w", source, err)
		}
		f.log.Warn("playlist only partly parsed",
			zap.String("source", source),
			zap.Int("entries", len(entries)),
			zap.Error(err),
		)
	}
	return entries, nil
}

// readBody reads at most maxBytes of the playlist. When the body is cut short,
// by the size cap or a broken connection, the unfinished last line is dropped
// so a partial URL is never taken as an entry.
func (f *Fetcher) readBody(r io.Reader, source string) ([]byte, error) {
	body, err := io.ReadAll(io.LimitReader(r, f.maxBytes+1))
	truncated := int64(len(body)) > f.maxBytes

	switch {
	case err != nil && len(body) == 0:
		return nil, fmt.Errorf("read %s: %w", source, err)
	case err != nil:
		f.log.Warn("playlist body cut short, keeping complete lines",
			zap.String("source", source),
			zap.Int("bytes", len(body)),
			zap.Error(err),
		)
	case truncated:
		body = body[:f.maxBytes]
		f.log.Warn("playlist exceeds size limit, keeping complete lines",
			zap.String("source", source),
			zap.Int64("limit_bytes", f.maxBytes),
		)
	default:
		return body, nil
	}

	i := bytes.LastIndexByte(body, '\n')
	return body[:i+1], nil
}
