package testkit

import (
	"context"
	"testing"
	"time"

	"fieldlens/domain/survey"
	"fieldlens/internal/errors"
)

func TestGenerateResponses_Deterministic(t *testing.T) {
	now := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)

	first := GenerateResponses(7, 50, now)
	second := GenerateResponses(7, 50, now)

	if len(first) != 50 || len(second) != 50 {
		t.Fatalf("Expected 50 responses, got %d and %d", len(first), len(second))
	}
	for i := range first {
		if first[i].ID != second[i].ID {
			t.Fatalf("Expected identical IDs for the same seed, got %s vs %s at %d", first[i].ID, second[i].ID, i)
		}
		if !first[i].CreatedAt.Equal(second[i].CreatedAt) {
			t.Errorf("Expected identical timestamps at %d", i)
		}
	}
}

func TestGenerateResponses_ValidAnswers(t *testing.T) {
	now := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	fieldIDs := make(map[string]struct{})
	for _, f := range DemoFields() {
		fieldIDs[f.ID] = struct{}{}
	}

	for _, r := range GenerateResponses(3, 100, now) {
		for fieldID := range r.Answers {
			if _, known := fieldIDs[fieldID]; !known {
				t.Errorf("Response answers unknown field %q", fieldID)
			}
		}
		if r.Location != nil && !survey.ValidLocation(r.Location) {
			t.Errorf("Generated invalid location %+v", r.Location)
		}
		if sat, ok := r.Answers["satisfaction"].(float64); !ok || sat < 1 || sat > 5 {
			t.Errorf("Satisfaction out of range: %v", r.Answers["satisfaction"])
		}
	}
}

func TestMemorySource_UnknownSurvey(t *testing.T) {
	source := NewDemoSource(1, 10)
	ctx := context.Background()

	if _, err := source.Survey(ctx, "missing"); !errors.HasCode(err, errors.CodeNotFound) {
		t.Errorf("Expected NOT_FOUND for unknown survey, got %v", err)
	}
	if _, err := source.Survey(ctx, "demo"); err != nil {
		t.Errorf("Expected demo survey to resolve, got %v", err)
	}
}
