package analytics

import (
	"strings"
	"testing"

	"fieldlens/domain/report"
	"fieldlens/domain/survey"
)

func TestInsight_RatingHighScore(t *testing.T) {
	max := 5.0
	field := survey.FieldDefinition{ID: "sat", Label: "Satisfaction", Type: survey.FieldRating, MaxValue: &max}
	responses := responsesWith("sat", 5.0, 5.0, 5.0, 4.0, 5.0)

	analysis := NewAggregator().Aggregate(field, responses)
	insight := NewInsightGenerator(DefaultThresholds()).Insight(analysis, field)

	if insight.Sentiment != report.SentimentPositive {
		t.Errorf("Expected positive sentiment for mean 4.8/5, got %s", insight.Sentiment)
	}
	if !strings.Contains(insight.Comment, "4.8/5") {
		t.Errorf("Expected comment to mention 4.8/5, got %q", insight.Comment)
	}
}

func TestInsight_RatingBands(t *testing.T) {
	field := survey.FieldDefinition{ID: "sat", Label: "Satisfaction", Type: survey.FieldRating}
	gen := NewInsightGenerator(DefaultThresholds())

	cases := []struct {
		name      string
		values    []any
		sentiment report.Sentiment
		wantRec   bool
	}{
		{"positive at 80pct", []any{4.0, 4.0, 4.0}, report.SentimentPositive, false},
		{"neutral at 60pct", []any{3.0, 3.0, 3.0}, report.SentimentNeutral, false},
		{"warning below 60pct", []any{2.0, 2.0, 2.0}, report.SentimentWarning, true},
	}

	for _, tc := range cases {
		analysis := NewAggregator().Aggregate(field, responsesWith("sat", tc.values...))
		insight := gen.Insight(analysis, field)
		if insight.Sentiment != tc.sentiment {
			t.Errorf("%s: expected %s, got %s", tc.name, tc.sentiment, insight.Sentiment)
		}
		if tc.wantRec && insight.Recommendation == "" {
			t.Errorf("%s: expected a recommendation", tc.name)
		}
	}
}

func TestInsight_CategoricalConcentration(t *testing.T) {
	field := survey.FieldDefinition{ID: "city", Label: "City", Type: survey.FieldCategorical}
	responses := responsesWith("city", "Lomé", "Lomé", "Lomé", "Lomé", "Kara")

	analysis := NewAggregator().Aggregate(field, responses)
	insight := NewInsightGenerator(DefaultThresholds()).Insight(analysis, field)

	if insight.Sentiment != report.SentimentWarning {
		t.Errorf("Expected warning for 80%% concentration, got %s", insight.Sentiment)
	}
	if !strings.Contains(strings.ToLower(insight.Comment), "concentration") {
		t.Errorf("Expected concentration comment, got %q", insight.Comment)
	}
	if insight.Recommendation == "" {
		t.Error("Expected a representativeness recommendation")
	}
}

func TestInsight_CategoricalExactlyAtThresholdIsNotConcentration(t *testing.T) {
	// 3 of 5 = 60.0%, the rule requires strictly greater than 60.
	field := survey.FieldDefinition{ID: "c", Label: "C", Type: survey.FieldCategorical}
	responses := responsesWith("c", "a", "a", "a", "b", "c")

	analysis := NewAggregator().Aggregate(field, responses)
	insight := NewInsightGenerator(DefaultThresholds()).Insight(analysis, field)

	if insight.Sentiment == report.SentimentWarning {
		t.Errorf("60%% exactly must not trigger the concentration warning, got %q", insight.Comment)
	}
}

func TestInsight_CategoricalBalanced(t *testing.T) {
	field := survey.FieldDefinition{ID: "c", Label: "Choice", Type: survey.FieldCategorical}
	responses := responsesWith("c", "a", "a", "b", "b", "c", "c")

	analysis := NewAggregator().Aggregate(field, responses)
	insight := NewInsightGenerator(DefaultThresholds()).Insight(analysis, field)

	if insight.Sentiment != report.SentimentNeutral {
		t.Errorf("Expected neutral for balanced distribution, got %s", insight.Sentiment)
	}
	if !strings.Contains(strings.ToLower(insight.Comment), "balanced") {
		t.Errorf("Expected balanced comment, got %q", insight.Comment)
	}
}

func TestInsight_CategoricalClearLeader(t *testing.T) {
	// 50/33/17: no concentration (>60 fails), spread 33pt (not balanced).
	field := survey.FieldDefinition{ID: "c", Label: "Choice", Type: survey.FieldCategorical}
	responses := responsesWith("c", "a", "a", "a", "b", "b", "c")

	analysis := NewAggregator().Aggregate(field, responses)
	insight := NewInsightGenerator(DefaultThresholds()).Insight(analysis, field)

	if insight.Sentiment != report.SentimentPositive {
		t.Errorf("Expected positive for a clear leader, got %s", insight.Sentiment)
	}
	if !strings.Contains(insight.Comment, "a") || !strings.Contains(insight.Comment, "b") {
		t.Errorf("Expected top two options named, got %q", insight.Comment)
	}
}

func TestInsight_PlainNumericAlwaysNeutral(t *testing.T) {
	field := survey.FieldDefinition{ID: "n", Label: "Household size", Type: survey.FieldNumeric}
	gen := NewInsightGenerator(DefaultThresholds())

	// Even extreme values stay neutral: plain numeric fields describe the
	// distribution without judging it.
	for _, values := range [][]any{
		{1.0, 1.0, 1.0},
		{100.0, 200.0, 300.0},
	} {
		analysis := NewAggregator().Aggregate(field, responsesWith("n", values...))
		insight := gen.Insight(analysis, field)
		if insight.Sentiment != report.SentimentNeutral {
			t.Errorf("Expected neutral for plain numeric, got %s", insight.Sentiment)
		}
	}
}

func TestInsight_TextVolumeThreshold(t *testing.T) {
	field := survey.FieldDefinition{ID: "c", Label: "Comments", Type: survey.FieldText}
	gen := NewInsightGenerator(DefaultThresholds())

	few := make([]any, 10)
	for i := range few {
		few[i] = "short answer"
	}
	analysis := NewAggregator().Aggregate(field, responsesWith("c", few...))
	if insight := gen.Insight(analysis, field); insight.Recommendation != "" {
		t.Errorf("Expected no recommendation at exactly 10 answers, got %q", insight.Recommendation)
	}

	many := make([]any, 11)
	for i := range many {
		many[i] = "short answer"
	}
	analysis = NewAggregator().Aggregate(field, responsesWith("c", many...))
	if insight := gen.Insight(analysis, field); insight.Recommendation == "" {
		t.Error("Expected a review recommendation above 10 answers")
	}
}

func TestInsight_ThresholdOverrides(t *testing.T) {
	field := survey.FieldDefinition{ID: "c", Label: "C", Type: survey.FieldCategorical}
	responses := responsesWith("c", "a", "a", "b")

	// 66.7% top share: warning with defaults, positive with a higher bar.
	strict := NewInsightGenerator(DefaultThresholds())
	relaxed := NewInsightGenerator(Thresholds{ConcentrationPct: 70})

	analysis := NewAggregator().Aggregate(field, responses)
	if got := strict.Insight(analysis, field).Sentiment; got != report.SentimentWarning {
		t.Errorf("Expected warning with default threshold, got %s", got)
	}
	if got := relaxed.Insight(analysis, field).Sentiment; got == report.SentimentWarning {
		t.Error("Expected no warning with raised concentration threshold")
	}
}
