package report

import "time"

// Table is a rectangular block of rendered cells shared by all exporters.
type Table struct {
	Headers []string
	Rows    [][]string
}

// Section is one heading-scoped block of the document model. Any of the
// content slots may be empty; renderers skip what is not set.
type Section struct {
	Heading    string
	Paragraphs []string
	Bullets    []string
	Table      *Table
}

// Document is the format-independent intermediate model every exporter
// consumes. One traversal of a Report produces it; the spreadsheet, PDF and
// long-form renderers never walk the Report directly, so the three formats
// cannot drift apart.
type Document struct {
	Title       string
	GeneratedAt time.Time
	Sections    []Section
}
