package upstream

import (
	"context"
	"errors"
	"fmt"
	"io"
	"iter"
	"net/http"
	"time"

	"github.com/cenkalti/backoff/v5"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

// MaxResponseSize is the maximum accepted provider response size (32MB).
const MaxResponseSize = 32 * 1024 * 1024

// Provider describes one contest source.
type Provider interface {
	// Name returns the provider name stored on every contest.
	Name() string
	// Endpoint returns the URL that lists the contests.
	Endpoint() string
	// Decode parses a response body into raw records.
	Decode(body []byte) ([]RawRecord, error)
}

// Fetcher reads contest listings from the configured providers.
//
// Concurrent fetches of the same provider share one HTTP round trip.
type Fetcher struct {
	providers map[string]Provider
	order     []string
	client    *http.Client
	userAgent string
	retries   uint
	interval  time.Duration
	logger    *zap.Logger
	group     singleflight.Group
}

// NewFetcher creates a fetcher for every provider enabled in cfg.
func NewFetcher(cfg Config, logger *zap.Logger) *Fetcher {
	f := &Fetcher{
		providers: make(map[string]Provider),
		client:    &http.Client{Timeout: cfg.Timeout()},
		userAgent: cfg.UserAgent,
		retries:   cfg.MaxRetries,
		interval:  cfg.RetryInterval,
		logger:    logger,
	}
	if f.retries == 0 {
		f.retries = 1
	}
	if f.interval <= 0 {
		f.interval = 500 * time.Millisecond
	}

	if cfg.CodeforcesURL != "" {
		f.register(codeforcesProvider{url: cfg.CodeforcesURL})
	}
	if cfg.CodeChefURL != "" {
		f.register(codechefProvider{url: cfg.CodeChefURL, includePast: cfg.CodeChefIncludePast})
	}
	if cfg.GenericURL != "" {
		f.register(genericProvider{name: cfg.GenericName, url: cfg.GenericURL, itemsPath: cfg.GenericItemsPath})
	}
	return f
}

func (f *Fetcher) register(p Provider) {
	if _, exists := f.providers[p.Name()]; !exists {
		f.order = append(f.order, p.Name())
	}
	f.providers[p.Name()] = p
}

// Providers returns the configured provider names in registration order.
func (f *Fetcher) Providers() []string {
	return append([]string(nil), f.order...)
}

// HasProvider reports whether a provider with this name is configured.
func (f *Fetcher) HasProvider(name string) bool {
	_, ok := f.providers[name]
	return ok
}

// FetchAll returns a lazy sequence of the provider's current listing.
// Nothing is requested until the sequence is iterated. On failure the sequence
// yields a single *FetchError and ends.
func (f *Fetcher) FetchAll(ctx context.Context, provider string) iter.Seq2[RawRecord, error] {
	return func(yield func(RawRecord, error) bool) {
		records, err := f.fetch(ctx, provider)
		if err != nil {
			yield(nil, err)
			return
		}
		for _, r := range records {
			if !yield(r, nil) {
				return
			}
		}
	}
}

// Ping issues a single request to the provider endpoint and discards the body.
func (f *Fetcher) Ping(ctx context.Context, provider string) error {
	p, ok := f.providers[provider]
	if !ok {
		return &FetchError{Provider: provider, Err: ErrUnknownProvider}
	}
	if _, err := f.get(ctx, p.Endpoint()); err != nil {
		return &FetchError{Provider: provider, Err: err}
	}
	return nil
}

func (f *Fetcher) fetch(ctx context.Context, provider string) ([]RawRecord, error) {
	p, ok := f.providers[provider]
	if !ok {
		return nil, &FetchError{Provider: provider, Err: ErrUnknownProvider}
	}

	v, err, shared := f.group.Do(provider, func() (any, error) {
		body, err := f.getWithRetry(ctx, provider, p.Endpoint())
		if err != nil {
			return nil, err
		}
		return p.Decode(body)
	})
	if err != nil {
		return nil, &FetchError{Provider: provider, Err: err}
	}
	if shared {
		f.logger.Debug("Shared in-flight fetch", zap.String("provider", provider))
	}

	return v.([]RawRecord), nil
}

func (f *Fetcher) getWithRetry(ctx context.Context, provider, url string) ([]byte, error) {
	b := backoff.NewExponentialBackOff()
	b.InitialInterval = f.interval

	return backoff.Retry(ctx, func() ([]byte, error) {
		body, err := f.get(ctx, url)
		if err != nil {
			var httpErr *HTTPError
			if errors.As(err, &httpErr) && !httpErr.Retryable() {
				return nil, backoff.Permanent(err)
			}
			return nil, err
		}
		return body, nil
	},
		backoff.WithBackOff(b),
		backoff.WithMaxTries(f.retries),
		backoff.WithNotify(func(err error, next time.Duration) {
			f.logger.Warn("Provider request failed, retrying",
				zap.String("provider", provider),
				zap.Duration("retry_in", next),
				zap.Error(err),
			)
		}),
	)
}

// get performs an HTTP GET request and returns the response body.
func (f *Fetcher) get(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("User-Agent", f.userAgent)
	req.Header.Set("Accept", "application/json")

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to execute request: %w", err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &HTTPError{StatusCode: resp.StatusCode, URL: url}
	}

	// +1 to detect if limit exceeded
	body, err := io.ReadAll(io.LimitReader(resp.Body, MaxResponseSize+1))
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}
	if int64(len(body)) > MaxResponseSize {
		return nil, fmt.Errorf("response exceeds maximum allowed size of %d bytes", MaxResponseSize)
	}

	return body, nil
}
