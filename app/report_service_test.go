package app

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fieldlens/internal"
	"fieldlens/internal/analytics"
	"fieldlens/internal/errors"
	"fieldlens/internal/geo"
	"fieldlens/internal/testkit"
	"fieldlens/ports"
)

// namedProvider resolves every point to a fixed place without any network.
type namedProvider struct{ calls int }

func (p *namedProvider) ReverseGeocode(_ context.Context, _, _ float64, _ string) (ports.GeocodeResult, error) {
	p.calls++
	return ports.GeocodeResult{City: "Lomé", Region: "Maritime", Country: "Togo"}, nil
}

func noSleep(ctx context.Context, _ time.Duration) error { return ctx.Err() }

func newTestService(t *testing.T, provider ports.ReverseGeocoder) *ReportService {
	t.Helper()
	logger := internal.NewLogger(internal.LogLevelError)
	var geocoder *geo.BatchGeocoder
	if provider != nil {
		geocoder = geo.NewBatchGeocoder(provider, geo.NewBoundedCache(100), logger, geo.WithSleep(noSleep))
	}
	return NewReportService(testkit.NewDemoSource(1, 120), analytics.DefaultThresholds(), geocoder, logger, 20)
}

func TestGenerateReport_EndToEnd(t *testing.T) {
	provider := &namedProvider{}
	service := newTestService(t, provider)

	rep, err := service.GenerateReport(context.Background(), "demo")
	require.NoError(t, err)

	assert.Equal(t, "Field Survey Demo", rep.Title)
	assert.Equal(t, 120, rep.KPIs.TotalResponses)
	assert.Len(t, rep.FieldAnalyses, len(testkit.DemoFields()))
	assert.NotEmpty(t, rep.Recommendations)
	require.NotEmpty(t, rep.GeoZones)
	assert.Equal(t, "Lomé, Maritime, Togo", rep.GeoZones[0].Name)
	assert.Greater(t, provider.calls, 0)
}

func TestGenerateReport_WithoutGeocoderKeepsFallbackLabels(t *testing.T) {
	service := newTestService(t, nil)

	rep, err := service.GenerateReport(context.Background(), "demo")
	require.NoError(t, err)

	require.NotEmpty(t, rep.GeoZones)
	for _, zone := range rep.GeoZones {
		assert.Empty(t, zone.Name)
		assert.Contains(t, zone.DisplayName(), "°")
	}
}

func TestGenerateReport_UnknownSurvey(t *testing.T) {
	service := newTestService(t, nil)

	_, err := service.GenerateReport(context.Background(), "missing")
	require.Error(t, err)
	assert.True(t, errors.HasCode(err, errors.CodeNotFound))
}

func TestExport_AllFormats(t *testing.T) {
	service := newTestService(t, nil)
	ctx := context.Background()

	cases := []struct {
		format      string
		contentType string
	}{
		{"xlsx", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"},
		{"pdf", "application/pdf"},
		{"md", "text/markdown; charset=utf-8"},
		{"html", "text/html; charset=utf-8"},
	}

	for _, tc := range cases {
		artifact, err := service.Export(ctx, "demo", tc.format)
		require.NoError(t, err, tc.format)
		assert.Equal(t, tc.contentType, artifact.ContentType, tc.format)
		assert.Equal(t, "survey-report-field-survey-demo."+tc.format, artifact.Filename)
		assert.NotEmpty(t, artifact.Data, tc.format)
	}
}

func TestExport_UnsupportedFormat(t *testing.T) {
	service := newTestService(t, nil)

	_, err := service.Export(context.Background(), "demo", "docx")
	require.Error(t, err)
	assert.True(t, errors.HasCode(err, errors.CodeInvalidInput))
}
