package survey

import "time"

// FieldType governs how a field's answers are aggregated.
type FieldType string

const (
	FieldCategorical FieldType = "categorical"
	FieldNumeric     FieldType = "numeric"
	FieldRating      FieldType = "rating"
	FieldText        FieldType = "text"
	FieldGeo         FieldType = "geo"
)

// Option is one selectable choice of a categorical field. Order is
// significant: it is the tie-break order for distribution sorting.
type Option struct {
	Value string `json:"value"`
	Label string `json:"label"`
}

// FieldDefinition describes one question of a survey. Definitions are
// immutable for the duration of an analytics run.
type FieldDefinition struct {
	ID       string    `json:"id"`
	Label    string    `json:"label"`
	Type     FieldType `json:"type"`
	Required bool      `json:"required"`
	Options  []Option  `json:"options,omitempty"`
	MinValue *float64  `json:"minValue,omitempty"`
	MaxValue *float64  `json:"maxValue,omitempty"`
}

// Location is a WGS84 coordinate pair attached to a response.
type Location struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// ResponseRecord is one respondent's full set of answers. The engine only
// reads records; ownership stays with the external data store.
type ResponseRecord struct {
	ID        string         `json:"id"`
	CreatedAt time.Time      `json:"createdAt"`
	Location  *Location      `json:"location,omitempty"`
	Answers   map[string]any `json:"answers"`
}

// Survey carries the metadata the report header needs.
type Survey struct {
	ID    string `json:"id"`
	Title string `json:"title"`
}

// RatingMax returns the field's rating scale ceiling, defaulting to 5 when
// no explicit maximum is set.
func (f FieldDefinition) RatingMax() float64 {
	if f.MaxValue != nil && *f.MaxValue > 0 {
		return *f.MaxValue
	}
	return 5
}

// IsRating reports whether the field should be classified on a rating scale:
// either declared as a rating or numeric with an explicit maximum.
func (f FieldDefinition) IsRating() bool {
	if f.Type == FieldRating {
		return true
	}
	return f.Type == FieldNumeric && f.MaxValue != nil
}

// OptionLabel maps a raw answer value to its configured option label,
// falling back to the raw value for free-form categorical answers.
func (f FieldDefinition) OptionLabel(value string) string {
	for _, opt := range f.Options {
		if opt.Value == value {
			return opt.Label
		}
	}
	return value
}
