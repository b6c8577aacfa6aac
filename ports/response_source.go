package ports

import (
	"context"

	"fieldlens/domain/survey"
)

// ResponseSource is the read-only contract with the external data store:
// it supplies the survey metadata, the ordered field schema and the typed
// responses an analytics run consumes. The engine performs no persistence
// of its own.
type ResponseSource interface {
	Survey(ctx context.Context, surveyID string) (survey.Survey, error)
	Fields(ctx context.Context, surveyID string) ([]survey.FieldDefinition, error)
	Responses(ctx context.Context, surveyID string) ([]survey.ResponseRecord, error)
}
