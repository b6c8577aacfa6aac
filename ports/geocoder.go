package ports

import "context"

// GeocodeResult is a human-readable place resolved from a coordinate pair.
type GeocodeResult struct {
	City    string `json:"city"`
	Region  string `json:"region"`
	Country string `json:"country"`
}

// ReverseGeocoder is the external provider boundary. Implementations are
// assumed to be rate limited server-side at roughly one request per second;
// callers must throttle accordingly and never issue concurrent calls.
type ReverseGeocoder interface {
	ReverseGeocode(ctx context.Context, lat, lng float64, language string) (GeocodeResult, error)
}

// GeocodeCache memoizes successful lookups for the process lifetime. Keys
// are coordinates rounded to 4 decimals. Entries never expire; the cache is
// a best-effort memo, not correctness-critical storage.
type GeocodeCache interface {
	Get(key string) (GeocodeResult, bool)
	Set(key string, value GeocodeResult)
}
