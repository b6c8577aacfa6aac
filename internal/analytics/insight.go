package analytics

import (
	"fmt"

	"fieldlens/domain/report"
	"fieldlens/domain/survey"
)

// Thresholds holds the tuning constants of the insight rules. The defaults
// are load-bearing: existing reports depend on these exact values, so they
// are data here rather than literals scattered through the branches.
type Thresholds struct {
	// ConcentrationPct flags a categorical field when the top option
	// exceeds this share of all counted selections.
	ConcentrationPct float64
	// BalancedSpreadPts calls a distribution balanced when the spread
	// between the highest and lowest option percentage stays under this
	// many points (with at least two options).
	BalancedSpreadPts float64
	// RatingPositivePct and RatingNeutralPct band the mean-over-max
	// percentage of rating fields.
	RatingPositivePct float64
	RatingNeutralPct  float64
	// TextVolumeMin is the answered count above which open-text fields
	// earn a review recommendation.
	TextVolumeMin int
}

// DefaultThresholds returns the documented default constants.
func DefaultThresholds() Thresholds {
	return Thresholds{
		ConcentrationPct:  60,
		BalancedSpreadPts: 20,
		RatingPositivePct: 80,
		RatingNeutralPct:  60,
		TextVolumeMin:     10,
	}
}

// InsightGenerator turns aggregated numbers into natural-language
// observations and recommendations. Pure: no side effects, no clock.
type InsightGenerator struct {
	thresholds Thresholds
}

// NewInsightGenerator creates a generator. Zero-valued threshold fields
// fall back to the documented defaults.
func NewInsightGenerator(t Thresholds) *InsightGenerator {
	defaults := DefaultThresholds()
	if t.ConcentrationPct == 0 {
		t.ConcentrationPct = defaults.ConcentrationPct
	}
	if t.BalancedSpreadPts == 0 {
		t.BalancedSpreadPts = defaults.BalancedSpreadPts
	}
	if t.RatingPositivePct == 0 {
		t.RatingPositivePct = defaults.RatingPositivePct
	}
	if t.RatingNeutralPct == 0 {
		t.RatingNeutralPct = defaults.RatingNeutralPct
	}
	if t.TextVolumeMin == 0 {
		t.TextVolumeMin = defaults.TextVolumeMin
	}
	return &InsightGenerator{thresholds: t}
}

// Insight classifies one field analysis.
func (g *InsightGenerator) Insight(analysis report.FieldAnalysis, field survey.FieldDefinition) report.Insight {
	switch {
	case analysis.Categorical != nil:
		return g.categoricalInsight(analysis.Categorical, field)
	case analysis.Numeric != nil:
		if field.IsRating() {
			return g.ratingInsight(analysis.Numeric, field)
		}
		return g.numericInsight(analysis.Numeric, field)
	case analysis.Text != nil:
		return g.textInsight(analysis.Text, field)
	default:
		return report.Insight{
			Comment:   fmt.Sprintf("%d answers recorded for %q.", analysis.Answered, field.Label),
			Sentiment: report.SentimentNeutral,
		}
	}
}

func (g *InsightGenerator) categoricalInsight(summary *report.CategoricalSummary, field survey.FieldDefinition) report.Insight {
	if len(summary.Options) == 0 {
		return report.Insight{
			Comment:   fmt.Sprintf("No answers recorded for %q yet.", field.Label),
			Sentiment: report.SentimentNeutral,
		}
	}

	top := summary.Options[0]
	if top.Percentage > g.thresholds.ConcentrationPct {
		return report.Insight{
			Comment: fmt.Sprintf("Strong concentration on %q: %.1f%% of all answers to %q.",
				top.Label, top.Percentage, field.Label),
			Sentiment:      report.SentimentWarning,
			Recommendation: "Check that the sample is representative before generalizing this result.",
		}
	}

	if len(summary.Options) >= 2 {
		lowest := summary.Options[len(summary.Options)-1]
		if top.Percentage-lowest.Percentage < g.thresholds.BalancedSpreadPts {
			return report.Insight{
				Comment: fmt.Sprintf("Balanced distribution across %d options for %q (spread under %.0f points).",
					len(summary.Options), field.Label, g.thresholds.BalancedSpreadPts),
				Sentiment: report.SentimentNeutral,
			}
		}
	}

	comment := fmt.Sprintf("%q leads for %q with %.1f%%.", top.Label, field.Label, top.Percentage)
	if len(summary.Options) >= 2 {
		second := summary.Options[1]
		comment = fmt.Sprintf("%q (%.1f%%) and %q (%.1f%%) lead for %q.",
			top.Label, top.Percentage, second.Label, second.Percentage, field.Label)
	}
	return report.Insight{Comment: comment, Sentiment: report.SentimentPositive}
}

func (g *InsightGenerator) ratingInsight(summary *report.NumericSummary, field survey.FieldDefinition) report.Insight {
	if summary.Count == 0 {
		return report.Insight{
			Comment:   fmt.Sprintf("No ratings recorded for %q yet.", field.Label),
			Sentiment: report.SentimentNeutral,
		}
	}

	max := field.RatingMax()
	pct := summary.Mean / max * 100
	score := fmt.Sprintf("%.1f/%.0f", summary.Mean, max)

	switch {
	case pct >= g.thresholds.RatingPositivePct:
		return report.Insight{
			Comment:   fmt.Sprintf("High average rating for %q: %s.", field.Label, score),
			Sentiment: report.SentimentPositive,
		}
	case pct >= g.thresholds.RatingNeutralPct:
		return report.Insight{
			Comment:   fmt.Sprintf("Moderate average rating for %q: %s.", field.Label, score),
			Sentiment: report.SentimentNeutral,
		}
	default:
		return report.Insight{
			Comment:        fmt.Sprintf("Low average rating for %q: %s.", field.Label, score),
			Sentiment:      report.SentimentWarning,
			Recommendation: "Investigate the causes of dissatisfaction and plan corrective action.",
		}
	}
}

// numericInsight always reports neutral sentiment. This mirrors the
// historical behavior: plain numeric fields describe the distribution
// without judging it.
func (g *InsightGenerator) numericInsight(summary *report.NumericSummary, field survey.FieldDefinition) report.Insight {
	if summary.Count == 0 {
		return report.Insight{
			Comment:   fmt.Sprintf("No numeric answers recorded for %q yet.", field.Label),
			Sentiment: report.SentimentNeutral,
		}
	}
	return report.Insight{
		Comment: fmt.Sprintf("%q averages %.2f (median %.2f, range %.2f to %.2f).",
			field.Label, summary.Mean, summary.Median, summary.Min, summary.Max),
		Sentiment: report.SentimentNeutral,
	}
}

func (g *InsightGenerator) textInsight(summary *report.TextSummary, field survey.FieldDefinition) report.Insight {
	insight := report.Insight{
		Comment: fmt.Sprintf("%d open-text answers for %q, %d distinct.",
			summary.AnsweredCount, field.Label, summary.UniqueNormalizedCount),
		Sentiment: report.SentimentNeutral,
	}
	if summary.AnsweredCount > g.thresholds.TextVolumeMin {
		insight.Recommendation = "Run a thematic review of the open-text answers; the volume is high enough to be meaningful."
	}
	return insight
}
