// Package export renders the document model into downloadable artifacts:
// an xlsx workbook, a paginated PDF and a long-form Markdown/HTML document.
// Every renderer is deterministic: rendering the same document twice yields
// byte-identical output, because the only timestamp involved is the
// document's own GeneratedAt.
package export

import "strings"

// Content types of the supported artifact formats.
const (
	ContentTypeXLSX     = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	ContentTypePDF      = "application/pdf"
	ContentTypeMarkdown = "text/markdown; charset=utf-8"
	ContentTypeHTML     = "text/html; charset=utf-8"
)

// Filename derives a deterministic download name from the survey title.
func Filename(title, ext string) string {
	slug := slugify(title)
	if slug == "" {
		return "survey-report." + ext
	}
	return "survey-report-" + slug + "." + ext
}

func slugify(title string) string {
	var b strings.Builder
	lastDash := true
	for _, r := range strings.ToLower(title) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
			lastDash = false
		default:
			if !lastDash {
				b.WriteByte('-')
				lastDash = true
			}
		}
	}
	return strings.Trim(b.String(), "-")
}
