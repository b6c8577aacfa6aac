package geo

import (
	"context"
	"math"
	"sort"
	"strconv"
	"strings"

	"fieldlens/domain/report"
	"fieldlens/domain/survey"
)

// Zone precisions used by the report pipeline: 2 decimals is roughly a 1 km
// grid cell, 4 decimals (~11 m) dedupes individual points.
const (
	ZonePrecision  = 2
	PointPrecision = 4
)

// Cluster buckets geo-tagged responses into fixed-precision grid cells.
// Responses without a valid in-range location are excluded. Output is
// sorted by member count descending, ties keeping first-seen cell order;
// Percentage is count over all geo-tagged responses, rounded to the
// nearest integer.
func Cluster(responses []survey.ResponseRecord, precisionDecimals int) []report.GeoZone {
	factor := math.Pow(10, float64(precisionDecimals))

	counts := make(map[string]int)
	centers := make(map[string][2]float64)
	var firstSeen []string
	total := 0

	for _, r := range responses {
		if !survey.ValidLocation(r.Location) {
			continue
		}
		total++
		lat := math.Round(r.Location.Lat*factor) / factor
		lng := math.Round(r.Location.Lng*factor) / factor
		key := cellKey(lat, lng, precisionDecimals)
		if _, seen := counts[key]; !seen {
			firstSeen = append(firstSeen, key)
			centers[key] = [2]float64{lat, lng}
		}
		counts[key]++
	}

	zones := make([]report.GeoZone, 0, len(firstSeen))
	for _, key := range firstSeen {
		center := centers[key]
		zones = append(zones, report.GeoZone{
			CellKey:    key,
			CenterLat:  center[0],
			CenterLng:  center[1],
			Count:      counts[key],
			Percentage: int(math.Round(float64(counts[key]) / float64(total) * 100)),
		})
	}

	sort.SliceStable(zones, func(i, j int) bool {
		return zones[i].Count > zones[j].Count
	})

	return zones
}

func cellKey(lat, lng float64, precision int) string {
	return strconv.FormatFloat(lat, 'f', precision, 64) + "," +
		strconv.FormatFloat(lng, 'f', precision, 64)
}

// AttachZoneNames resolves human-readable names for the top topN zones
// through the rate-limited geocoder. Zones the geocoder could not resolve
// (failure, cancellation, batch cap) keep their coordinate fallback label.
func AttachZoneNames(ctx context.Context, geocoder *BatchGeocoder, zones []report.GeoZone, topN int) {
	if geocoder == nil || len(zones) == 0 {
		return
	}
	if topN > len(zones) {
		topN = len(zones)
	}

	points := make([]Point, 0, topN)
	for _, z := range zones[:topN] {
		points = append(points, Point{ID: z.CellKey, Lat: z.CenterLat, Lng: z.CenterLng})
	}

	resolved := geocoder.ResolveBatch(ctx, points)
	for i := range zones[:topN] {
		result, ok := resolved[zones[i].CellKey]
		if !ok {
			continue
		}
		parts := make([]string, 0, 3)
		for _, part := range []string{result.City, result.Region, result.Country} {
			if part != "" {
				parts = append(parts, part)
			}
		}
		zones[i].Name = strings.Join(parts, ", ")
	}
}
