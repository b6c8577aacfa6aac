package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"time"

	"github.com/jmoiron/sqlx"

	"fieldlens/domain/survey"
	"fieldlens/internal/errors"
	"fieldlens/ports"
)

// responseRepository implements ports.ResponseSource over Postgres. It is
// strictly read-only: the external application owns the tables and their
// lifecycle; the engine only consumes typed rows.
type responseRepository struct {
	db *sqlx.DB
}

// NewResponseRepository creates a Postgres-backed response source.
func NewResponseRepository(db *sqlx.DB) ports.ResponseSource {
	return &responseRepository{db: db}
}

// Survey returns the survey header row.
func (r *responseRepository) Survey(ctx context.Context, surveyID string) (survey.Survey, error) {
	var s survey.Survey
	err := r.db.QueryRowxContext(ctx,
		`SELECT id, title FROM surveys WHERE id = $1`, surveyID,
	).Scan(&s.ID, &s.Title)
	if err == sql.ErrNoRows {
		return survey.Survey{}, errors.NotFound("survey")
	}
	if err != nil {
		return survey.Survey{}, errors.DatabaseError("failed to load survey", err)
	}
	return s, nil
}

// Fields returns the survey's field schema in authoring order.
func (r *responseRepository) Fields(ctx context.Context, surveyID string) ([]survey.FieldDefinition, error) {
	rows, err := r.db.QueryxContext(ctx, `
		SELECT id, label, type, required, COALESCE(options, '[]'), min_value, max_value
		FROM survey_fields
		WHERE survey_id = $1
		ORDER BY position ASC`, surveyID)
	if err != nil {
		return nil, errors.DatabaseError("failed to load survey fields", err)
	}
	defer rows.Close()

	var fields []survey.FieldDefinition
	for rows.Next() {
		var (
			field       survey.FieldDefinition
			fieldType   string
			optionsJSON []byte
			minValue    sql.NullFloat64
			maxValue    sql.NullFloat64
		)
		if err := rows.Scan(&field.ID, &field.Label, &fieldType, &field.Required, &optionsJSON, &minValue, &maxValue); err != nil {
			return nil, errors.DatabaseError("failed to scan survey field", err)
		}
		field.Type = survey.FieldType(fieldType)
		if err := json.Unmarshal(optionsJSON, &field.Options); err != nil {
			return nil, errors.DatabaseError("failed to decode field options", err)
		}
		if minValue.Valid {
			v := minValue.Float64
			field.MinValue = &v
		}
		if maxValue.Valid {
			v := maxValue.Float64
			field.MaxValue = &v
		}
		fields = append(fields, field)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.DatabaseError("failed to iterate survey fields", err)
	}
	return fields, nil
}

// Responses returns all responses of the survey, oldest first.
func (r *responseRepository) Responses(ctx context.Context, surveyID string) ([]survey.ResponseRecord, error) {
	rows, err := r.db.QueryxContext(ctx, `
		SELECT id, created_at, lat, lng, COALESCE(answers, '{}')
		FROM responses
		WHERE survey_id = $1
		ORDER BY created_at ASC`, surveyID)
	if err != nil {
		return nil, errors.DatabaseError("failed to load responses", err)
	}
	defer rows.Close()

	var records []survey.ResponseRecord
	for rows.Next() {
		var (
			record      survey.ResponseRecord
			createdAt   time.Time
			lat         sql.NullFloat64
			lng         sql.NullFloat64
			answersJSON []byte
		)
		if err := rows.Scan(&record.ID, &createdAt, &lat, &lng, &answersJSON); err != nil {
			return nil, errors.DatabaseError("failed to scan response", err)
		}
		record.CreatedAt = createdAt
		if lat.Valid && lng.Valid {
			record.Location = &survey.Location{Lat: lat.Float64, Lng: lng.Float64}
		}
		if err := json.Unmarshal(answersJSON, &record.Answers); err != nil {
			return nil, errors.DatabaseError("failed to decode response answers", err)
		}
		records = append(records, record)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.DatabaseError("failed to iterate responses", err)
	}
	return records, nil
}
