package geo

import (
	"context"
	"errors"
	"testing"
	"time"

	"fieldlens/internal"
	"fieldlens/ports"
)

// fakeProvider records every call and fails the keys listed in fail.
type fakeProvider struct {
	calls []string
	fail  map[string]bool
}

func (f *fakeProvider) ReverseGeocode(_ context.Context, lat, lng float64, _ string) (ports.GeocodeResult, error) {
	key := CacheKey(lat, lng)
	f.calls = append(f.calls, key)
	if f.fail[key] {
		return ports.GeocodeResult{}, errors.New("provider unavailable")
	}
	return ports.GeocodeResult{City: "City " + key, Country: "Togo"}, nil
}

func quietLogger() *internal.Logger {
	return internal.NewLogger(internal.LogLevelError)
}

func newTestGeocoder(provider ports.ReverseGeocoder, cache ports.GeocodeCache, sleeps *int, opts ...GeocoderOption) *BatchGeocoder {
	countingSleep := func(ctx context.Context, _ time.Duration) error {
		if sleeps != nil {
			*sleeps++
		}
		return ctx.Err()
	}
	opts = append([]GeocoderOption{WithSleep(countingSleep)}, opts...)
	return NewBatchGeocoder(provider, cache, quietLogger(), opts...)
}

func TestResolveBatch_SequentialWithPauseBetweenCalls(t *testing.T) {
	provider := &fakeProvider{}
	sleeps := 0
	g := newTestGeocoder(provider, NewBoundedCache(10), &sleeps)

	points := []Point{
		{ID: "a", Lat: 6.13, Lng: 1.22},
		{ID: "b", Lat: 9.55, Lng: 1.18},
		{ID: "c", Lat: 8.98, Lng: 0.56},
	}
	results := g.ResolveBatch(context.Background(), points)

	if len(results) != 3 {
		t.Fatalf("Expected 3 results, got %d", len(results))
	}
	if len(provider.calls) != 3 {
		t.Errorf("Expected 3 provider calls, got %d", len(provider.calls))
	}
	// One pause before every call after the first.
	if sleeps != 2 {
		t.Errorf("Expected 2 rate-limit pauses for 3 calls, got %d", sleeps)
	}
}

func TestResolveBatch_CacheHitsSkipCallAndDelay(t *testing.T) {
	provider := &fakeProvider{}
	cache := NewBoundedCache(10)
	sleeps := 0
	g := newTestGeocoder(provider, cache, &sleeps)

	first := []Point{
		{ID: "a", Lat: 6.13, Lng: 1.22},
		{ID: "b", Lat: 9.55, Lng: 1.18},
	}
	g.ResolveBatch(context.Background(), first)

	overlap := []Point{
		{ID: "b", Lat: 9.55, Lng: 1.18},
		{ID: "c", Lat: 8.98, Lng: 0.56},
	}
	results := g.ResolveBatch(context.Background(), overlap)

	if len(results) != 2 {
		t.Fatalf("Expected 2 results, got %d", len(results))
	}
	// b was cached: 2 calls in the first batch, only c in the second.
	if len(provider.calls) != 3 {
		t.Errorf("Expected 3 total provider calls, got %d (duplicate call for cached point)", len(provider.calls))
	}
	// Second batch made a single call, so no pause was needed.
	if sleeps != 1 {
		t.Errorf("Expected 1 pause across both batches, got %d", sleeps)
	}
}

func TestResolveBatch_FailureSkipsPointAndContinues(t *testing.T) {
	failKey := CacheKey(9.55, 1.18)
	provider := &fakeProvider{fail: map[string]bool{failKey: true}}
	cache := NewBoundedCache(10)
	g := newTestGeocoder(provider, cache, nil)

	points := []Point{
		{ID: "p1", Lat: 6.13, Lng: 1.22},
		{ID: "p2", Lat: 9.55, Lng: 1.18},
		{ID: "p3", Lat: 8.98, Lng: 0.56},
	}
	results := g.ResolveBatch(context.Background(), points)

	if _, ok := results["p1"]; !ok {
		t.Error("Expected p1 in results")
	}
	if _, ok := results["p2"]; ok {
		t.Error("Expected failed p2 to be absent from results")
	}
	if _, ok := results["p3"]; !ok {
		t.Error("Expected p3 in results despite p2 failing")
	}

	// Failures are never cached, so the next batch retries p2.
	if _, cached := cache.Get(failKey); cached {
		t.Error("Expected failed lookup to stay uncached")
	}
	provider.fail = nil
	retry := g.ResolveBatch(context.Background(), points[1:2])
	if _, ok := retry["p2"]; !ok {
		t.Error("Expected transient failure to be retryable on a later batch")
	}
}

func TestResolveBatch_CancellationReturnsPartialResults(t *testing.T) {
	provider := &fakeProvider{}
	ctx, cancel := context.WithCancel(context.Background())

	cancelingSleep := func(_ context.Context, _ time.Duration) error {
		cancel()
		return context.Canceled
	}
	g := NewBatchGeocoder(provider, NewBoundedCache(10), quietLogger(), WithSleep(cancelingSleep))

	points := []Point{
		{ID: "a", Lat: 6.13, Lng: 1.22},
		{ID: "b", Lat: 9.55, Lng: 1.18},
		{ID: "c", Lat: 8.98, Lng: 0.56},
	}
	results := g.ResolveBatch(ctx, points)

	// First lookup completes before the first pause cancels the batch.
	if len(results) != 1 {
		t.Errorf("Expected 1 partial result, got %d", len(results))
	}
	if len(provider.calls) != 1 {
		t.Errorf("Expected 1 provider call before cancellation, got %d", len(provider.calls))
	}
}

func TestResolveBatch_AlreadyCanceledContext(t *testing.T) {
	provider := &fakeProvider{}
	g := newTestGeocoder(provider, NewBoundedCache(10), nil)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	results := g.ResolveBatch(ctx, []Point{{ID: "a", Lat: 6.13, Lng: 1.22}})
	if len(results) != 0 {
		t.Errorf("Expected no results on canceled context, got %d", len(results))
	}
	if len(provider.calls) != 0 {
		t.Errorf("Expected no provider calls on canceled context, got %d", len(provider.calls))
	}
}

func TestResolveBatch_BatchCap(t *testing.T) {
	provider := &fakeProvider{}
	g := newTestGeocoder(provider, NewBoundedCache(10), nil, WithBatchCap(2))

	points := []Point{
		{ID: "a", Lat: 6.13, Lng: 1.22},
		{ID: "b", Lat: 9.55, Lng: 1.18},
		{ID: "c", Lat: 8.98, Lng: 0.56},
	}
	results := g.ResolveBatch(context.Background(), points)

	if len(results) != 2 {
		t.Errorf("Expected capped batch of 2 results, got %d", len(results))
	}
	if len(provider.calls) != 2 {
		t.Errorf("Expected 2 provider calls under cap, got %d", len(provider.calls))
	}
}

func TestBoundedCache_EvictsOldestAtCapacity(t *testing.T) {
	cache := NewBoundedCache(2)
	cache.Set("a", ports.GeocodeResult{City: "A"})
	cache.Set("b", ports.GeocodeResult{City: "B"})
	cache.Set("c", ports.GeocodeResult{City: "C"})

	if cache.Len() != 2 {
		t.Errorf("Expected capacity bound of 2, got %d entries", cache.Len())
	}
	if _, ok := cache.Get("a"); ok {
		t.Error("Expected oldest entry evicted")
	}
	if _, ok := cache.Get("c"); !ok {
		t.Error("Expected newest entry present")
	}
}

func TestCacheKey_FourDecimalRounding(t *testing.T) {
	if CacheKey(6.13121, 1.22179) != CacheKey(6.13123, 1.22181) {
		t.Error("Expected nearby coordinates to share a 4-decimal cache key")
	}
	if CacheKey(6.1312, 1.2218) == CacheKey(6.1313, 1.2218) {
		t.Error("Expected distinct 4-decimal coordinates to differ")
	}
}
