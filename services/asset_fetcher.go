package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"go.uber.org/zap"
)

const maxAssetBytes = 20 << 20

type AssetFetcher interface {
	Fetch(ctx context.Context, url string) ([]byte, error)
}

// StatusError is a non-2xx response from an asset host.
type StatusError struct {
	URL    string
	Status int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("GET %s: unexpected status %d", e.URL, e.Status)
}

// HTTPFetcher downloads assets with a per-attempt timeout. Network errors and
// 5xx responses are retried up to retries extra times; 4xx are not.
type HTTPFetcher struct {
	client  *http.Client
	retries int
	backoff time.Duration
	logger  *zap.Logger
}

func NewHTTPFetcher(timeout time.Duration, retries int, logger *zap.Logger) *HTTPFetcher {
	if retries < 0 {
		retries = 0
	}
	return &HTTPFetcher{
		client:  &http.Client{Timeout: timeout},
		retries: retries,
		backoff: 500 * time.Millisecond,
		logger:  logger.With(zap.String("service", "asset_fetcher")),
	}
}

func (f *HTTPFetcher) Fetch(ctx context.Context, url string) ([]byte, error) {
	var lastErr error
	for attempt := 0; attempt <= f.retries; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return nil, fmt.Errorf("%w: %w", ErrAssetFetch, ctx.Err())
			case <-time.After(f.backoff * time.Duration(attempt)):
			}
			f.logger.Warn("retrying asset fetch", zap.String("url", url), zap.Int("attempt", attempt), zap.Error(lastErr))
		}

		data, err := f.fetchOnce(ctx, url)
		if err == nil {
			return data, nil
		}
		lastErr = err

		var se *StatusError
		if errors.As(err, &se) && se.Status < 500 {
			break
		}
		if ctx.Err() != nil {
			break
		}
	}
	return nil, fmt.Errorf("%w: %w", ErrAssetFetch, lastErr)
}

func (f *HTTPFetcher) fetchOnce(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	resp, err := f.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 4096))
		return nil, &StatusError{URL: url, Status: resp.StatusCode}
	}
	return io.ReadAll(io.LimitReader(resp.Body, maxAssetBytes))
}
