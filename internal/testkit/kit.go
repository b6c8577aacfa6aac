// Package testkit provides deterministic synthetic surveys and responses
// for tests and for the demo mode of the server (no DATABASE_URL).
package testkit

import (
	"context"
	"fmt"
	"math/rand"
	"time"

	"github.com/google/uuid"

	"fieldlens/domain/survey"
	"fieldlens/internal/errors"
	"fieldlens/ports"
)

// MemorySource is an in-memory ports.ResponseSource.
type MemorySource struct {
	survey    survey.Survey
	fields    []survey.FieldDefinition
	responses []survey.ResponseRecord
}

// NewMemorySource wraps fixed data in a response source.
func NewMemorySource(sv survey.Survey, fields []survey.FieldDefinition, responses []survey.ResponseRecord) *MemorySource {
	return &MemorySource{survey: sv, fields: fields, responses: responses}
}

func (m *MemorySource) Survey(_ context.Context, surveyID string) (survey.Survey, error) {
	if surveyID != m.survey.ID {
		return survey.Survey{}, errors.NotFound("survey")
	}
	return m.survey, nil
}

func (m *MemorySource) Fields(_ context.Context, surveyID string) ([]survey.FieldDefinition, error) {
	if surveyID != m.survey.ID {
		return nil, errors.NotFound("survey")
	}
	return m.fields, nil
}

func (m *MemorySource) Responses(_ context.Context, surveyID string) ([]survey.ResponseRecord, error) {
	if surveyID != m.survey.ID {
		return nil, errors.NotFound("survey")
	}
	return m.responses, nil
}

func floatPtr(v float64) *float64 { return &v }

// DemoFields returns the field schema of the synthetic field survey.
func DemoFields() []survey.FieldDefinition {
	return []survey.FieldDefinition{
		{
			ID: "city", Label: "City", Type: survey.FieldCategorical, Required: true,
			Options: []survey.Option{
				{Value: "lome", Label: "Lomé"},
				{Value: "kara", Label: "Kara"},
				{Value: "sokode", Label: "Sokodé"},
				{Value: "kpalime", Label: "Kpalimé"},
			},
		},
		{
			ID: "services", Label: "Services used", Type: survey.FieldCategorical,
			Options: []survey.Option{
				{Value: "water", Label: "Water"},
				{Value: "power", Label: "Electricity"},
				{Value: "roads", Label: "Roads"},
				{Value: "health", Label: "Health center"},
			},
		},
		{
			ID: "satisfaction", Label: "Satisfaction", Type: survey.FieldRating,
			Required: true, MaxValue: floatPtr(5),
		},
		{ID: "household_size", Label: "Household size", Type: survey.FieldNumeric},
		{ID: "comments", Label: "Comments", Type: survey.FieldText},
	}
}

// demo zone anchors, roughly Lomé and Kara.
var demoAnchors = []survey.Location{
	{Lat: 6.1319, Lng: 1.2228},
	{Lat: 9.5511, Lng: 1.1861},
}

// GenerateResponses produces count seeded synthetic responses spread over
// the previous 20 days. The same seed always yields the same records.
func GenerateResponses(seed int64, count int, now time.Time) []survey.ResponseRecord {
	rng := rand.New(rand.NewSource(seed))
	cities := []string{"lome", "lome", "lome", "kara", "sokode", "kpalime"}
	services := []string{"water", "power", "roads", "health"}
	comments := []string{
		"Water access has improved this year",
		"The road to the market needs repair",
		"More frequent power cuts lately",
		"Very satisfied with the new health center",
		"",
	}

	responses := make([]survey.ResponseRecord, 0, count)
	for i := 0; i < count; i++ {
		answers := map[string]any{
			"city":         cities[rng.Intn(len(cities))],
			"satisfaction": float64(rng.Intn(5) + 1),
		}

		picked := rng.Intn(len(services)) + 1
		selection := make([]any, 0, picked)
		for _, s := range rng.Perm(len(services))[:picked] {
			selection = append(selection, services[s])
		}
		answers["services"] = selection

		if rng.Float64() < 0.8 {
			answers["household_size"] = float64(rng.Intn(9) + 1)
		}
		if c := comments[rng.Intn(len(comments))]; c != "" {
			answers["comments"] = c
		}

		record := survey.ResponseRecord{
			ID:        uuid.NewSHA1(uuid.NameSpaceOID, []byte(fmt.Sprintf("demo-%d-%d", seed, i))).String(),
			CreatedAt: now.AddDate(0, 0, -rng.Intn(20)),
			Answers:   answers,
		}

		if rng.Float64() < 0.7 {
			anchor := demoAnchors[rng.Intn(len(demoAnchors))]
			record.Location = &survey.Location{
				Lat: anchor.Lat + (rng.Float64()-0.5)*0.05,
				Lng: anchor.Lng + (rng.Float64()-0.5)*0.05,
			}
		}

		responses = append(responses, record)
	}
	return responses
}

// NewDemoSource builds a ready-to-serve in-memory source with a full
// synthetic survey.
func NewDemoSource(seed int64, count int) *MemorySource {
	sv := survey.Survey{ID: "demo", Title: "Field Survey Demo"}
	return NewMemorySource(sv, DemoFields(), GenerateResponses(seed, count, time.Now().UTC()))
}

var _ ports.ResponseSource = (*MemorySource)(nil)
