package export

import (
	"fmt"
	"strings"

	"github.com/gomarkdown/markdown"
	"github.com/gomarkdown/markdown/html"
	"github.com/gomarkdown/markdown/parser"

	"fieldlens/domain/report"
)

// Markdown renders the document model as a long-form Markdown document:
// headings, pipe tables and bullet lists. This is the canonical text
// artifact; HTML is a second rendering of the same bytes.
func Markdown(doc report.Document) []byte {
	var b strings.Builder

	fmt.Fprintf(&b, "# %s\n\n", doc.Title)
	fmt.Fprintf(&b, "_Generated %s_\n\n", doc.GeneratedAt.UTC().Format("2006-01-02 15:04 UTC"))

	for _, section := range doc.Sections {
		fmt.Fprintf(&b, "## %s\n\n", section.Heading)

		for _, paragraph := range section.Paragraphs {
			b.WriteString(paragraph)
			b.WriteString("\n\n")
		}

		if section.Table != nil && len(section.Table.Headers) > 0 {
			writeMarkdownTable(&b, section.Table)
		}

		for _, bullet := range section.Bullets {
			fmt.Fprintf(&b, "- %s\n", bullet)
		}
		if len(section.Bullets) > 0 {
			b.WriteString("\n")
		}
	}

	return []byte(b.String())
}

func writeMarkdownTable(b *strings.Builder, table *report.Table) {
	b.WriteString("| " + strings.Join(escapeCells(table.Headers), " | ") + " |\n")
	b.WriteString("|" + strings.Repeat(" --- |", len(table.Headers)) + "\n")
	for _, row := range table.Rows {
		cells := make([]string, len(table.Headers))
		for i := range cells {
			if i < len(row) {
				cells[i] = row[i]
			}
		}
		b.WriteString("| " + strings.Join(escapeCells(cells), " | ") + " |\n")
	}
	b.WriteString("\n")
}

func escapeCells(cells []string) []string {
	out := make([]string, len(cells))
	for i, cell := range cells {
		out[i] = strings.ReplaceAll(cell, "|", "\\|")
	}
	return out
}

// HTML renders the Markdown artifact to a self-contained HTML page.
func HTML(doc report.Document) []byte {
	md := Markdown(doc)

	p := parser.NewWithExtensions(parser.CommonExtensions | parser.Tables)
	renderer := html.NewRenderer(html.RendererOptions{Flags: html.CommonFlags})
	body := markdown.ToHTML(md, p, renderer)

	var b strings.Builder
	b.WriteString("<!DOCTYPE html>\n<html>\n<head>\n<meta charset=\"utf-8\">\n")
	fmt.Fprintf(&b, "<title>%s</title>\n", htmlEscape(doc.Title))
	b.WriteString("<style>body{font-family:sans-serif;max-width:52rem;margin:2rem auto;padding:0 1rem}table{border-collapse:collapse}td,th{border:1px solid #ccc;padding:4px 8px}</style>\n")
	b.WriteString("</head>\n<body>\n")
	b.Write(body)
	b.WriteString("</body>\n</html>\n")
	return []byte(b.String())
}

func htmlEscape(s string) string {
	replacer := strings.NewReplacer("&", "&amp;", "<", "&lt;", ">", "&gt;")
	return replacer.Replace(s)
}
