package geo

import (
	"context"
	"time"

	"golang.org/x/sync/singleflight"

	"fieldlens/internal"
	"fieldlens/ports"
)

// Point is one coordinate to resolve, keyed by the caller's identifier.
type Point struct {
	ID  string
	Lat float64
	Lng float64
}

// SleepFunc pauses between provider calls. It must return early with the
// context's error when the context is canceled. Tests substitute a
// zero-delay implementation instead of sleeping in real time.
type SleepFunc func(ctx context.Context, d time.Duration) error

// WaitContext is the default SleepFunc.
func WaitContext(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// BatchGeocoder resolves coordinate batches against a rate-limited
// provider. Processing is strictly sequential: one in-flight lookup at a
// time, with a fixed pause before every provider call after the first.
// Concurrent or burst calls must never occur; the provider enforces
// roughly one request per second server-side.
type BatchGeocoder struct {
	provider ports.ReverseGeocoder
	cache    ports.GeocodeCache
	log      *internal.Logger

	delay    time.Duration
	timeout  time.Duration
	batchCap int
	language string
	sleep    SleepFunc

	// group collapses duplicate in-flight lookups for the same cell when
	// two report runs overlap in one process.
	group singleflight.Group
}

// GeocoderOption configures a BatchGeocoder.
type GeocoderOption func(*BatchGeocoder)

// WithDelay sets the minimum pause between consecutive provider calls.
func WithDelay(d time.Duration) GeocoderOption {
	return func(g *BatchGeocoder) { g.delay = d }
}

// WithTimeout bounds each individual provider call.
func WithTimeout(d time.Duration) GeocoderOption {
	return func(g *BatchGeocoder) { g.timeout = d }
}

// WithBatchCap bounds how many points of a batch are resolved; callers must
// tolerate a result map smaller than the input.
func WithBatchCap(n int) GeocoderOption {
	return func(g *BatchGeocoder) { g.batchCap = n }
}

// WithLanguage sets the Accept-Language hint passed to the provider.
func WithLanguage(lang string) GeocoderOption {
	return func(g *BatchGeocoder) { g.language = lang }
}

// WithSleep replaces the inter-call pause implementation.
func WithSleep(sleep SleepFunc) GeocoderOption {
	return func(g *BatchGeocoder) { g.sleep = sleep }
}

// NewBatchGeocoder creates a sequential batch resolver over the provider
// and cache.
func NewBatchGeocoder(provider ports.ReverseGeocoder, cache ports.GeocodeCache, logger *internal.Logger, opts ...GeocoderOption) *BatchGeocoder {
	g := &BatchGeocoder{
		provider: provider,
		cache:    cache,
		log:      logger.Component("geocoder"),
		delay:    1100 * time.Millisecond,
		timeout:  5 * time.Second,
		batchCap: 25,
		language: "fr",
		sleep:    WaitContext,
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// ResolveBatch resolves points to place names, returning a map keyed by
// point ID. Guarantees:
//   - cache hits (4-decimal key) skip both the provider call and the delay
//   - one failed lookup is logged and skipped; the batch continues
//   - failures are never cached, so transient errors retry on a later call
//   - cancellation is honored between lookups; partial results are returned
func (g *BatchGeocoder) ResolveBatch(ctx context.Context, points []Point) map[string]ports.GeocodeResult {
	results := make(map[string]ports.GeocodeResult, len(points))

	if len(points) > g.batchCap {
		g.log.Debug("capping batch from %d to %d points", len(points), g.batchCap)
		points = points[:g.batchCap]
	}

	calls := 0
	for _, p := range points {
		if ctx.Err() != nil {
			g.log.Warn("batch canceled after %d lookups", calls)
			return results
		}

		key := CacheKey(p.Lat, p.Lng)
		if cached, ok := g.cache.Get(key); ok {
			results[p.ID] = cached
			continue
		}

		if calls > 0 {
			if err := g.sleep(ctx, g.delay); err != nil {
				g.log.Warn("batch canceled during rate-limit pause after %d lookups", calls)
				return results
			}
		}
		calls++

		result, err := g.lookup(ctx, key, p)
		if err != nil {
			g.log.Warn("lookup failed for %s: %v", key, err)
			continue
		}

		g.cache.Set(key, result)
		results[p.ID] = result
	}

	return results
}

func (g *BatchGeocoder) lookup(ctx context.Context, key string, p Point) (ports.GeocodeResult, error) {
	value, err, _ := g.group.Do(key, func() (any, error) {
		callCtx, cancel := context.WithTimeout(ctx, g.timeout)
		defer cancel()
		return g.provider.ReverseGeocode(callCtx, p.Lat, p.Lng, g.language)
	})
	if err != nil {
		return ports.GeocodeResult{}, err
	}
	return value.(ports.GeocodeResult), nil
}
