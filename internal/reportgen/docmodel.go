package reportgen

import (
	"fmt"
	"strconv"

	"fieldlens/domain/report"
)

// BuildDocument flattens a Report into the format-independent document
// model. This is the single traversal all exporters share: the
// spreadsheet, PDF and long-form renderers consume the Document and never
// walk the Report themselves.
func BuildDocument(rep report.Report) report.Document {
	doc := report.Document{
		Title:       rep.Title,
		GeneratedAt: rep.GeneratedAt,
	}

	doc.Sections = append(doc.Sections, kpiSection(rep.KPIs))

	if len(rep.Timeline) > 0 {
		doc.Sections = append(doc.Sections, timelineSection(rep.Timeline))
	}

	doc.Sections = append(doc.Sections, recommendationSection(rep.Recommendations))

	for _, analysis := range rep.FieldAnalyses {
		doc.Sections = append(doc.Sections, fieldSection(analysis))
	}

	if len(rep.GeoZones) > 0 {
		doc.Sections = append(doc.Sections, geoSection(rep.GeoZones))
	}

	return doc
}

func kpiSection(kpis report.KPIs) report.Section {
	return report.Section{
		Heading: "Key indicators",
		Table: &report.Table{
			Headers: []string{"Indicator", "Value"},
			Rows: [][]string{
				{"Total responses", strconv.Itoa(kpis.TotalResponses)},
				{"Completion rate", fmt.Sprintf("%.1f%%", kpis.CompletionRate)},
				{"Geo-tagged responses", fmt.Sprintf("%.1f%%", kpis.GeoTaggedRate)},
				{"Average per day", fmt.Sprintf("%.1f", kpis.AvgPerDay)},
			},
		},
	}
}

func timelineSection(timeline []report.TimelinePoint) report.Section {
	rows := make([][]string, 0, len(timeline))
	for _, point := range timeline {
		rows = append(rows, []string{point.Date, strconv.Itoa(point.Count)})
	}
	return report.Section{
		Heading: "Collection timeline (last 14 days)",
		Table:   &report.Table{Headers: []string{"Day", "Responses"}, Rows: rows},
	}
}

func recommendationSection(recs []report.Insight) report.Section {
	bullets := make([]string, 0, len(recs))
	for _, rec := range recs {
		line := fmt.Sprintf("[%s] %s", rec.Sentiment, rec.Comment)
		if rec.Recommendation != "" {
			line += " " + rec.Recommendation
		}
		bullets = append(bullets, line)
	}
	return report.Section{Heading: "Recommendations", Bullets: bullets}
}

func fieldSection(analysis report.FieldAnalysis) report.Section {
	section := report.Section{Heading: analysis.Label}

	switch {
	case analysis.Categorical != nil:
		rows := make([][]string, 0, len(analysis.Categorical.Options))
		for _, opt := range analysis.Categorical.Options {
			rows = append(rows, []string{
				opt.Label,
				strconv.Itoa(opt.Count),
				fmt.Sprintf("%.1f%%", opt.Percentage),
			})
		}
		section.Table = &report.Table{
			Headers: []string{"Option", "Count", "Share"},
			Rows:    rows,
		}
		section.Paragraphs = append(section.Paragraphs,
			fmt.Sprintf("%d responses answered this question.", analysis.Categorical.TotalAnswered))

	case analysis.Numeric != nil:
		n := analysis.Numeric
		section.Table = &report.Table{
			Headers: []string{"Statistic", "Value"},
			Rows: [][]string{
				{"Count", strconv.Itoa(n.Count)},
				{"Mean", fmt.Sprintf("%.2f", n.Mean)},
				{"Median", fmt.Sprintf("%.2f", n.Median)},
				{"Min", fmt.Sprintf("%.2f", n.Min)},
				{"Max", fmt.Sprintf("%.2f", n.Max)},
				{"Std deviation", fmt.Sprintf("%.2f", n.StdDev)},
				{"Skewness", fmt.Sprintf("%.2f", n.Skewness)},
			},
		}

	case analysis.Text != nil:
		section.Paragraphs = append(section.Paragraphs,
			fmt.Sprintf("%d answers, %d distinct after normalization.",
				analysis.Text.AnsweredCount, analysis.Text.UniqueNormalizedCount))
	}

	if analysis.Insight.Comment != "" {
		section.Paragraphs = append(section.Paragraphs, analysis.Insight.Comment)
	}
	if analysis.Insight.Recommendation != "" {
		section.Paragraphs = append(section.Paragraphs, analysis.Insight.Recommendation)
	}

	return section
}

func geoSection(zones []report.GeoZone) report.Section {
	rows := make([][]string, 0, len(zones))
	for _, zone := range zones {
		rows = append(rows, []string{
			zone.DisplayName(),
			strconv.Itoa(zone.Count),
			strconv.Itoa(zone.Percentage) + "%",
		})
	}
	return report.Section{
		Heading: "Geographic distribution",
		Table:   &report.Table{Headers: []string{"Zone", "Responses", "Share"}, Rows: rows},
	}
}
