package export

import (
	"github.com/xuri/excelize/v2"

	"fieldlens/domain/report"
	"fieldlens/domain/survey"
	"fieldlens/internal/errors"
)

const (
	summarySheet = "Summary"
	rawDataSheet = "Raw Data"
)

// Workbook renders the document model and the raw responses into a
// two-sheet xlsx file: a Summary sheet walking every document section and
// a Raw Data sheet with one row per response.
func Workbook(doc report.Document, fields []survey.FieldDefinition, responses []survey.ResponseRecord) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", summarySheet); err != nil {
		return nil, errors.ExportFailed("xlsx", err)
	}
	if _, err := f.NewSheet(rawDataSheet); err != nil {
		return nil, errors.ExportFailed("xlsx", err)
	}

	boldStyle, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return nil, errors.ExportFailed("xlsx", err)
	}

	if err := writeSummarySheet(f, doc, boldStyle); err != nil {
		return nil, errors.ExportFailed("xlsx", err)
	}
	if err := writeRawDataSheet(f, fields, responses, boldStyle); err != nil {
		return nil, errors.ExportFailed("xlsx", err)
	}

	index, err := f.GetSheetIndex(summarySheet)
	if err != nil {
		return nil, errors.ExportFailed("xlsx", err)
	}
	f.SetActiveSheet(index)

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, errors.ExportFailed("xlsx", err)
	}
	return buf.Bytes(), nil
}

func writeSummarySheet(f *excelize.File, doc report.Document, boldStyle int) error {
	row := 1
	if err := setBoldCell(f, summarySheet, 1, row, doc.Title, boldStyle); err != nil {
		return err
	}
	row++
	if err := setCell(f, summarySheet, 1, row, "Generated "+doc.GeneratedAt.UTC().Format("2006-01-02 15:04 UTC")); err != nil {
		return err
	}
	row += 2

	for _, section := range doc.Sections {
		if err := setBoldCell(f, summarySheet, 1, row, section.Heading, boldStyle); err != nil {
			return err
		}
		row++

		for _, paragraph := range section.Paragraphs {
			if err := setCell(f, summarySheet, 1, row, paragraph); err != nil {
				return err
			}
			row++
		}

		if section.Table != nil {
			for col, header := range section.Table.Headers {
				if err := setBoldCell(f, summarySheet, col+1, row, header, boldStyle); err != nil {
					return err
				}
			}
			row++
			for _, tableRow := range section.Table.Rows {
				for col, cell := range tableRow {
					if err := setCell(f, summarySheet, col+1, row, cell); err != nil {
						return err
					}
				}
				row++
			}
		}

		for _, bullet := range section.Bullets {
			if err := setCell(f, summarySheet, 1, row, "- "+bullet); err != nil {
				return err
			}
			row++
		}

		row++ // blank row between sections
	}

	return f.SetColWidth(summarySheet, "A", "A", 48)
}

func writeRawDataSheet(f *excelize.File, fields []survey.FieldDefinition, responses []survey.ResponseRecord, boldStyle int) error {
	headers := []string{"Response ID", "Submitted", "Latitude", "Longitude"}
	for _, field := range fields {
		headers = append(headers, field.Label)
	}
	for col, header := range headers {
		if err := setBoldCell(f, rawDataSheet, col+1, 1, header, boldStyle); err != nil {
			return err
		}
	}

	for i, r := range responses {
		row := i + 2
		if err := setCell(f, rawDataSheet, 1, row, r.ID); err != nil {
			return err
		}
		if err := setCell(f, rawDataSheet, 2, row, r.CreatedAt.UTC().Format("2006-01-02 15:04")); err != nil {
			return err
		}
		if survey.ValidLocation(r.Location) {
			if err := setCell(f, rawDataSheet, 3, row, r.Location.Lat); err != nil {
				return err
			}
			if err := setCell(f, rawDataSheet, 4, row, r.Location.Lng); err != nil {
				return err
			}
		}
		for j, field := range fields {
			value := ""
			if v, ok := r.Answers[field.ID]; ok {
				value = survey.FormatAnswer(v)
			}
			if err := setCell(f, rawDataSheet, j+5, row, value); err != nil {
				return err
			}
		}
	}

	return nil
}

func setCell(f *excelize.File, sheet string, col, row int, value any) error {
	cell, err := excelize.CoordinatesToCellName(col, row)
	if err != nil {
		return err
	}
	return f.SetCellValue(sheet, cell, value)
}

func setBoldCell(f *excelize.File, sheet string, col, row int, value any, style int) error {
	cell, err := excelize.CoordinatesToCellName(col, row)
	if err != nil {
		return err
	}
	if err := f.SetCellValue(sheet, cell, value); err != nil {
		return err
	}
	return f.SetCellStyle(sheet, cell, cell, style)
}
