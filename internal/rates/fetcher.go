package rates

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/sony/gobreaker"
	"golang.org/x/time/rate"

	"github.com/Mendelovic/mashkanta-broker-sub000/internal/domain"
)

// FetcherConfig tunes the published-menu fetcher.
type FetcherConfig struct {
	URL            string
	RequestTimeout time.Duration
	RequestsPerMin float64
	Burst          int
	BreakerTimeout time.Duration
	MaxFailures    uint32
}

// DefaultFetcherConfig returns conservative settings: the menu changes at
// most daily, so one request a minute with a slow-recovering breaker is ample.
func DefaultFetcherConfig(url string) FetcherConfig {
	return FetcherConfig{
		URL:            url,
		RequestTimeout: 10 * time.Second,
		RequestsPerMin: 1,
		Burst:          2,
		BreakerTimeout: 5 * time.Minute,
		MaxFailures:    3,
	}
}

// Fetcher retrieves the published average-rate menu over HTTP. The fetch is
// guarded by a circuit breaker and a client-side rate limit; callers fall back
// to the bundled menu file and then to built-in defaults on any failure.
type Fetcher struct {
	config  FetcherConfig
	client  *http.Client
	breaker *gobreaker.CircuitBreaker
	limiter *rate.Limiter
	cache   *Cache
}

// NewFetcher creates a fetcher. The cache is optional; pass nil to fetch
// directly every time.
func NewFetcher(config FetcherConfig, cache *Cache) *Fetcher {
	settings := gobreaker.Settings{
		Name:    "average-menu",
		Timeout: config.BreakerTimeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= config.MaxFailures
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			log.Warn().Str("breaker", name).Str("from", from.String()).Str("to", to.String()).
				Msg("rate menu breaker state change")
		},
	}
	return &Fetcher{
		config:  config,
		client:  &http.Client{Timeout: config.RequestTimeout},
		breaker: gobreaker.NewCircuitBreaker(settings),
		limiter: rate.NewLimiter(rate.Limit(config.RequestsPerMin/60.0), config.Burst),
		cache:   cache,
	}
}

// Fetch returns the published menu rates, consulting the shared cache first.
func (f *Fetcher) Fetch(ctx context.Context) (map[domain.Track]float64, error) {
	if f.cache != nil {
		if menu, ok := f.cache.Get(ctx); ok {
			return menu, nil
		}
	}

	if err := f.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate menu fetch throttled: %w", err)
	}

	result, err := f.breaker.Execute(func() (interface{}, error) {
		return f.fetchOnce(ctx)
	})
	if err != nil {
		return nil, err
	}

	menu := result.(map[domain.Track]float64)
	if f.cache != nil {
		f.cache.Set(ctx, menu)
	}
	return menu, nil
}

func (f *Fetcher) fetchOnce(ctx context.Context) (map[domain.Track]float64, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, f.config.URL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build rate menu request: %w", err)
	}

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("rate menu request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("rate menu request returned status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return nil, fmt.Errorf("failed to read rate menu response: %w", err)
	}
	return ParseMenu(body)
}
