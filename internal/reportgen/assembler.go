package reportgen

import (
	"fmt"
	"sort"
	"time"

	"fieldlens/domain/report"
	"fieldlens/domain/survey"
	"fieldlens/internal/analytics"
	"fieldlens/internal/errors"
	"fieldlens/internal/geo"
)

// Recommendation rule constants. The rules fire in a fixed order; export
// formatting depends on that order, so recommendations are never resorted.
const (
	sampleSmall      = 30
	sampleRobust     = 100
	completionLowPct = 60
	completionHiPct  = 90
	geoLowPct        = 30
	geoHiPct         = 80
	paceSlowPerDay   = 1
	paceStrongPerDay = 10
	timelineDays     = 14
)

// Assembler orchestrates aggregation, insight generation and clustering
// into a Report. All computation is synchronous and pure; geocoding names
// are attached by the caller afterwards.
type Assembler struct {
	aggregator *analytics.Aggregator
	insights   *analytics.InsightGenerator
}

// NewAssembler creates a report assembler with the given insight thresholds.
func NewAssembler(thresholds analytics.Thresholds) *Assembler {
	return &Assembler{
		aggregator: analytics.NewAggregator(),
		insights:   analytics.NewInsightGenerator(thresholds),
	}
}

// BuildReport computes a full report from typed inputs. generatedAt is an
// explicit parameter so repeated builds over identical inputs produce
// structurally identical reports.
//
// Absent data never errors: zero responses yield zeroed KPIs and empty
// sections. The only errors raised are programming-contract violations in
// the field schema.
func (a *Assembler) BuildReport(s survey.Survey, fields []survey.FieldDefinition, responses []survey.ResponseRecord, generatedAt time.Time) (report.Report, error) {
	if err := validateFields(fields); err != nil {
		return report.Report{}, err
	}

	rep := report.Report{
		SurveyID:    s.ID,
		Title:       s.Title,
		GeneratedAt: generatedAt,
		Timeline:    buildTimeline(responses),
	}

	rep.KPIs = buildKPIs(fields, responses, rep.Timeline)

	rep.FieldAnalyses = make([]report.FieldAnalysis, 0, len(fields))
	for _, field := range fields {
		analysis := a.aggregator.Aggregate(field, responses)
		analysis.Insight = a.insights.Insight(analysis, field)
		rep.FieldAnalyses = append(rep.FieldAnalyses, analysis)
	}

	rep.GeoZones = geo.Cluster(responses, geo.ZonePrecision)
	rep.Recommendations = buildRecommendations(rep.KPIs, rep.FieldAnalyses)

	return rep, nil
}

// validateFields rejects structurally invalid schemas. Data-quality issues
// are not errors; only contract violations are.
func validateFields(fields []survey.FieldDefinition) error {
	seen := make(map[string]struct{}, len(fields))
	for i, field := range fields {
		if field.ID == "" {
			return errors.InvalidInput(fmt.Sprintf("field at index %d has an empty id", i))
		}
		if _, dup := seen[field.ID]; dup {
			return errors.InvalidInput(fmt.Sprintf("duplicate field id %q", field.ID))
		}
		seen[field.ID] = struct{}{}
	}
	return nil
}

func buildKPIs(fields []survey.FieldDefinition, responses []survey.ResponseRecord, timeline []report.TimelinePoint) report.KPIs {
	kpis := report.KPIs{TotalResponses: len(responses)}
	if len(responses) == 0 {
		return kpis
	}

	complete := 0
	geoTagged := 0
	for _, r := range responses {
		if allRequiredAnswered(fields, r) {
			complete++
		}
		if survey.ValidLocation(r.Location) {
			geoTagged++
		}
	}

	total := float64(len(responses))
	kpis.CompletionRate = float64(complete) / total * 100
	kpis.GeoTaggedRate = float64(geoTagged) / total * 100
	if len(timeline) > 0 {
		kpis.AvgPerDay = total / float64(len(timeline))
	}
	return kpis
}

func allRequiredAnswered(fields []survey.FieldDefinition, r survey.ResponseRecord) bool {
	for _, field := range fields {
		if !field.Required {
			continue
		}
		v, ok := r.Answers[field.ID]
		if !ok || !survey.Answered(v) {
			return false
		}
	}
	return true
}

// buildTimeline groups responses by calendar day (UTC), keeps the most
// recent 14 buckets and returns them oldest to newest with dd/MM labels.
func buildTimeline(responses []survey.ResponseRecord) []report.TimelinePoint {
	counts := make(map[string]int)
	for _, r := range responses {
		day := r.CreatedAt.UTC().Format("2006-01-02")
		counts[day]++
	}
	if len(counts) == 0 {
		return nil
	}

	days := make([]string, 0, len(counts))
	for day := range counts {
		days = append(days, day)
	}
	sort.Strings(days)

	if len(days) > timelineDays {
		days = days[len(days)-timelineDays:]
	}

	points := make([]report.TimelinePoint, 0, len(days))
	for _, day := range days {
		t, _ := time.Parse("2006-01-02", day)
		points = append(points, report.TimelinePoint{
			Date:  t.Format("02/01"),
			Count: counts[day],
		})
	}
	return points
}

// buildRecommendations applies the fixed rule order: sample size,
// completion rate, geo rate, collection pace, per-field concentration
// roll-up, then a generic success fallback when nothing fired.
func buildRecommendations(kpis report.KPIs, analyses []report.FieldAnalysis) []report.Insight {
	var recs []report.Insight

	if kpis.TotalResponses < sampleSmall {
		recs = append(recs, report.Insight{
			Comment:        fmt.Sprintf("Small sample: %d responses collected so far.", kpis.TotalResponses),
			Sentiment:      report.SentimentWarning,
			Recommendation: fmt.Sprintf("Collect at least %d responses before drawing conclusions.", sampleSmall),
		})
	} else if kpis.TotalResponses >= sampleRobust {
		recs = append(recs, report.Insight{
			Comment:   fmt.Sprintf("Robust sample size: %d responses.", kpis.TotalResponses),
			Sentiment: report.SentimentPositive,
		})
	}

	if kpis.TotalResponses > 0 {
		if kpis.CompletionRate < completionLowPct {
			recs = append(recs, report.Insight{
				Comment:        fmt.Sprintf("Low completion rate: %.0f%% of responses answer every required field.", kpis.CompletionRate),
				Sentiment:      report.SentimentWarning,
				Recommendation: "Review the required fields; respondents may be abandoning long or unclear questions.",
			})
		} else if kpis.CompletionRate >= completionHiPct {
			recs = append(recs, report.Insight{
				Comment:   fmt.Sprintf("Excellent completion rate: %.0f%%.", kpis.CompletionRate),
				Sentiment: report.SentimentPositive,
			})
		}

		if kpis.GeoTaggedRate < geoLowPct {
			recs = append(recs, report.Insight{
				Comment:        fmt.Sprintf("Few responses carry a location: %.0f%%.", kpis.GeoTaggedRate),
				Sentiment:      report.SentimentWarning,
				Recommendation: "Remind field agents to enable GPS capture so geographic analysis stays meaningful.",
			})
		} else if kpis.GeoTaggedRate >= geoHiPct {
			recs = append(recs, report.Insight{
				Comment:   fmt.Sprintf("Good geographic coverage: %.0f%% of responses are geo-tagged.", kpis.GeoTaggedRate),
				Sentiment: report.SentimentPositive,
			})
		}

		if kpis.AvgPerDay > 0 && kpis.AvgPerDay < paceSlowPerDay {
			recs = append(recs, report.Insight{
				Comment:        fmt.Sprintf("Slow collection pace: %.1f responses per day over the recent window.", kpis.AvgPerDay),
				Sentiment:      report.SentimentWarning,
				Recommendation: "Plan additional field visits or enumerators to keep the survey on schedule.",
			})
		} else if kpis.AvgPerDay >= paceStrongPerDay {
			recs = append(recs, report.Insight{
				Comment:   fmt.Sprintf("Strong collection pace: %.1f responses per day.", kpis.AvgPerDay),
				Sentiment: report.SentimentPositive,
			})
		}
	}

	for _, analysis := range analyses {
		if analysis.Categorical == nil || analysis.Insight.Sentiment != report.SentimentWarning {
			continue
		}
		recs = append(recs, report.Insight{
			Comment:        fmt.Sprintf("%s: %s", analysis.Label, analysis.Insight.Comment),
			Sentiment:      report.SentimentWarning,
			Recommendation: analysis.Insight.Recommendation,
		})
	}

	if len(recs) == 0 {
		recs = append(recs, report.Insight{
			Comment:   "Data collection looks healthy; no issues detected.",
			Sentiment: report.SentimentPositive,
		})
	}

	return recs
}
