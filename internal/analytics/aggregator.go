package analytics

import (
	"math"
	"sort"
	"strings"

	"github.com/montanaflynn/stats"
	"gonum.org/v1/gonum/stat"

	"fieldlens/domain/report"
	"fieldlens/domain/survey"
)

// Aggregator computes per-field statistical summaries. All methods are pure
// and never error: absent or malformed data degrades to zeroed structures.
type Aggregator struct{}

// NewAggregator creates a new field aggregator.
func NewAggregator() *Aggregator {
	return &Aggregator{}
}

// Aggregate derives the analysis for one field across all responses. Values
// that are nil, empty strings or empty lists are excluded; the filtered set
// is the field's denominator, not the full response count.
func (a *Aggregator) Aggregate(field survey.FieldDefinition, responses []survey.ResponseRecord) report.FieldAnalysis {
	values := collectAnswers(field.ID, responses)

	analysis := report.FieldAnalysis{
		FieldID:  field.ID,
		Label:    field.Label,
		Type:     field.Type,
		Answered: len(values),
	}

	switch field.Type {
	case survey.FieldCategorical:
		analysis.Categorical = aggregateCategorical(field, values)
	case survey.FieldNumeric, survey.FieldRating:
		analysis.Numeric = aggregateNumeric(values)
	case survey.FieldText:
		analysis.Text = aggregateText(values)
	}

	return analysis
}

func collectAnswers(fieldID string, responses []survey.ResponseRecord) []any {
	var values []any
	for _, r := range responses {
		v, ok := r.Answers[fieldID]
		if !ok || !survey.Answered(v) {
			continue
		}
		values = append(values, v)
	}
	return values
}

// aggregateCategorical counts option selections. Multi-select answers
// contribute one count per selected element, so the count sum can exceed
// the response count; percentages are therefore computed against the sum
// of all option counts.
func aggregateCategorical(field survey.FieldDefinition, values []any) *report.CategoricalSummary {
	counts := make(map[string]int)
	var firstSeen []string

	for _, v := range values {
		for _, item := range survey.AsList(v) {
			raw := strings.TrimSpace(survey.AsString(item))
			if raw == "" {
				continue
			}
			label := field.OptionLabel(raw)
			if _, seen := counts[label]; !seen {
				firstSeen = append(firstSeen, label)
			}
			counts[label]++
		}
	}

	total := 0
	for _, c := range counts {
		total += c
	}

	options := make([]report.OptionCount, 0, len(firstSeen))
	for _, label := range firstSeen {
		pct := 0.0
		if total > 0 {
			pct = math.Round(float64(counts[label])/float64(total)*1000) / 10
		}
		options = append(options, report.OptionCount{
			Label:      label,
			Count:      counts[label],
			Percentage: pct,
		})
	}

	// Descending by count; SliceStable keeps first-seen order for ties.
	sort.SliceStable(options, func(i, j int) bool {
		return options[i].Count > options[j].Count
	})

	return &report.CategoricalSummary{Options: options, TotalAnswered: len(values)}
}

// aggregateNumeric computes moment statistics over the coercible values.
// Non-numeric answers are dropped silently. The median is the upper median
// (sorted[n/2]) and the standard deviation is the population form; both are
// kept as-is for compatibility with previously generated reports.
func aggregateNumeric(values []any) *report.NumericSummary {
	var nums []float64
	for _, v := range values {
		if n, ok := survey.AsNumber(v); ok {
			nums = append(nums, n)
		}
	}
	if len(nums) == 0 {
		return &report.NumericSummary{}
	}

	mean, _ := stats.Mean(nums)
	min, _ := stats.Min(nums)
	max, _ := stats.Max(nums)

	sorted := append([]float64(nil), nums...)
	sort.Float64s(sorted)
	median := sorted[len(sorted)/2]

	variance := 0.0
	for _, n := range nums {
		d := n - mean
		variance += d * d
	}
	variance /= float64(len(nums))

	skew := 0.0
	if len(nums) >= 3 {
		if s := stat.Skew(sorted, nil); !math.IsNaN(s) {
			skew = s
		}
	}

	return &report.NumericSummary{
		Mean:      mean,
		Median:    median,
		Min:       min,
		Max:       max,
		StdDev:    math.Sqrt(variance),
		Skewness:  skew,
		Count:     len(nums),
		Histogram: histogram(sorted),
	}
}

// histogram counts distinct values in ascending order. Input must be sorted.
func histogram(sorted []float64) []report.HistogramBin {
	var bins []report.HistogramBin
	for _, n := range sorted {
		if len(bins) > 0 && bins[len(bins)-1].Value == n {
			bins[len(bins)-1].Count++
			continue
		}
		bins = append(bins, report.HistogramBin{Value: n, Count: 1})
	}
	return bins
}

// aggregateText counts answered and unique answers. Uniqueness is computed
// after lowercasing and trimming, which merges case and whitespace variants.
func aggregateText(values []any) *report.TextSummary {
	unique := make(map[string]struct{})
	answered := 0
	for _, v := range values {
		s := survey.AsString(v)
		if strings.TrimSpace(s) == "" {
			continue
		}
		answered++
		unique[strings.ToLower(strings.TrimSpace(s))] = struct{}{}
	}
	return &report.TextSummary{
		AnsweredCount:         answered,
		UniqueNormalizedCount: len(unique),
	}
}
