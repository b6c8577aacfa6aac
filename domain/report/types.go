package report

import (
	"fmt"
	"time"

	"fieldlens/domain/survey"
)

// Sentiment classifies an insight for rendering and roll-up rules.
type Sentiment string

const (
	SentimentPositive Sentiment = "positive"
	SentimentNeutral  Sentiment = "neutral"
	SentimentWarning  Sentiment = "warning"
)

// Insight is a generated natural-language observation about an analysis,
// with an optional remediation recommendation.
type Insight struct {
	Comment        string    `json:"comment"`
	Sentiment      Sentiment `json:"sentiment"`
	Recommendation string    `json:"recommendation,omitempty"`
}

// OptionCount is one row of a categorical distribution. Percentage is
// computed against the sum of all option counts, not the response count,
// because multi-select answers contribute one count per selected element.
type OptionCount struct {
	Label      string  `json:"label"`
	Count      int     `json:"count"`
	Percentage float64 `json:"percentage"`
}

// CategoricalSummary holds the ordered distribution of a categorical field.
// Rows are sorted by count descending; ties keep first-seen option order.
type CategoricalSummary struct {
	Options       []OptionCount `json:"options"`
	TotalAnswered int           `json:"totalAnswered"`
}

// HistogramBin counts one distinct numeric value. Bins are ordered by value
// ascending.
type HistogramBin struct {
	Value float64 `json:"value"`
	Count int     `json:"count"`
}

// NumericSummary holds the moment statistics of a numeric or rating field.
// Median is the upper median (sorted[n/2]) and StdDev is the population
// standard deviation; both are preserved as-is for behavioral compatibility
// with existing reports.
type NumericSummary struct {
	Mean      float64        `json:"mean"`
	Median    float64        `json:"median"`
	Min       float64        `json:"min"`
	Max       float64        `json:"max"`
	StdDev    float64        `json:"stdDev"`
	Skewness  float64        `json:"skewness"`
	Count     int            `json:"count"`
	Histogram []HistogramBin `json:"histogram,omitempty"`
}

// TextSummary counts open-text answers. Uniqueness is computed after
// lowercasing and trimming, so case and whitespace variants count once.
type TextSummary struct {
	AnsweredCount         int `json:"answeredCount"`
	UniqueNormalizedCount int `json:"uniqueNormalizedCount"`
}

// FieldAnalysis is the derived analysis of one field. Exactly one of the
// summary variants is set, matching the field type.
type FieldAnalysis struct {
	FieldID     string              `json:"fieldId"`
	Label       string              `json:"label"`
	Type        survey.FieldType    `json:"type"`
	Answered    int                 `json:"answered"`
	Categorical *CategoricalSummary `json:"categorical,omitempty"`
	Numeric     *NumericSummary     `json:"numeric,omitempty"`
	Text        *TextSummary        `json:"text,omitempty"`
	Insight     Insight             `json:"insight"`
}

// GeoZone is one grid cell of clustered responses. Name carries the
// reverse-geocoded place name when available; FallbackLabel otherwise.
type GeoZone struct {
	CellKey    string  `json:"cellKey"`
	CenterLat  float64 `json:"centerLat"`
	CenterLng  float64 `json:"centerLng"`
	Count      int     `json:"count"`
	Percentage int     `json:"percentage"`
	Name       string  `json:"name,omitempty"`
}

// FallbackLabel renders the zone's coordinates when no place name resolved.
func (z GeoZone) FallbackLabel() string {
	return fmt.Sprintf("%.4f°, %.4f°", z.CenterLat, z.CenterLng)
}

// DisplayName returns the resolved place name or the coordinate fallback.
func (z GeoZone) DisplayName() string {
	if z.Name != "" {
		return z.Name
	}
	return z.FallbackLabel()
}

// KPIs are the headline indicators of a report. Rates are percentages in
// [0,100]; all values are zero when there are no responses.
type KPIs struct {
	TotalResponses int     `json:"totalResponses"`
	CompletionRate float64 `json:"completionRate"`
	GeoTaggedRate  float64 `json:"geoTaggedRate"`
	AvgPerDay      float64 `json:"avgPerDay"`
}

// TimelinePoint is one calendar-day bucket of the collection timeline.
// Date is formatted dd/MM; points run oldest to newest.
type TimelinePoint struct {
	Date  string `json:"date"`
	Count int    `json:"count"`
}

// Report is the aggregate root of one analytics run. It is built fresh for
// every request and never mutated afterwards.
type Report struct {
	SurveyID        string          `json:"surveyId"`
	Title           string          `json:"title"`
	GeneratedAt     time.Time       `json:"generatedAt"`
	KPIs            KPIs            `json:"kpis"`
	Timeline        []TimelinePoint `json:"timeline"`
	FieldAnalyses   []FieldAnalysis `json:"fieldAnalyses"`
	GeoZones        []GeoZone       `json:"geoZones"`
	Recommendations []Insight       `json:"recommendations"`
}
