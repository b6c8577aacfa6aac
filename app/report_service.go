package app

import (
	"context"
	"time"

	"fieldlens/adapters/export"
	"fieldlens/domain/report"
	"fieldlens/domain/survey"
	"fieldlens/internal"
	"fieldlens/internal/analytics"
	"fieldlens/internal/errors"
	"fieldlens/internal/geo"
	"fieldlens/internal/reportgen"
	"fieldlens/ports"
)

// Artifact is a self-contained downloadable export.
type Artifact struct {
	Filename    string
	ContentType string
	Data        []byte
}

// ReportService orchestrates the analytics pipeline: fetch typed data from
// the response source, assemble the report, attach geocoded zone names and
// render exports.
type ReportService struct {
	source    ports.ResponseSource
	assembler *reportgen.Assembler
	geocoder  *geo.BatchGeocoder
	log       *internal.Logger
	topZones  int
}

// NewReportService creates a report service. geocoder may be nil; zones
// then keep their coordinate fallback labels.
func NewReportService(source ports.ResponseSource, thresholds analytics.Thresholds, geocoder *geo.BatchGeocoder, logger *internal.Logger, topZones int) *ReportService {
	if topZones <= 0 {
		topZones = 20
	}
	return &ReportService{
		source:    source,
		assembler: reportgen.NewAssembler(thresholds),
		geocoder:  geocoder,
		log:       logger.Component("reports"),
		topZones:  topZones,
	}
}

// GenerateReport builds a fresh report for the stored survey.
func (s *ReportService) GenerateReport(ctx context.Context, surveyID string) (report.Report, error) {
	sv, fields, responses, err := s.load(ctx, surveyID)
	if err != nil {
		return report.Report{}, err
	}
	return s.BuildFromData(ctx, sv, fields, responses, time.Now().UTC())
}

// BuildFromData runs the pipeline over caller-supplied data. generatedAt is
// explicit so callers (and tests) control the only timestamp in the output.
func (s *ReportService) BuildFromData(ctx context.Context, sv survey.Survey, fields []survey.FieldDefinition, responses []survey.ResponseRecord, generatedAt time.Time) (report.Report, error) {
	rep, err := s.assembler.BuildReport(sv, fields, responses, generatedAt)
	if err != nil {
		return report.Report{}, err
	}

	if s.geocoder != nil && len(rep.GeoZones) > 0 {
		s.log.Debug("resolving names for up to %d of %d zones", s.topZones, len(rep.GeoZones))
		geo.AttachZoneNames(ctx, s.geocoder, rep.GeoZones, s.topZones)
	}

	s.log.Info("report built for survey %q: %d responses, %d fields, %d zones",
		sv.ID, rep.KPIs.TotalResponses, len(rep.FieldAnalyses), len(rep.GeoZones))
	return rep, nil
}

// Export builds the report and renders it in the requested format:
// xlsx, pdf, md or html.
func (s *ReportService) Export(ctx context.Context, surveyID, format string) (Artifact, error) {
	sv, fields, responses, err := s.load(ctx, surveyID)
	if err != nil {
		return Artifact{}, err
	}

	rep, err := s.BuildFromData(ctx, sv, fields, responses, time.Now().UTC())
	if err != nil {
		return Artifact{}, err
	}

	doc := reportgen.BuildDocument(rep)

	switch format {
	case "xlsx":
		data, err := export.Workbook(doc, fields, responses)
		if err != nil {
			return Artifact{}, err
		}
		return Artifact{Filename: export.Filename(sv.Title, "xlsx"), ContentType: export.ContentTypeXLSX, Data: data}, nil
	case "pdf":
		data, err := export.PDF(doc)
		if err != nil {
			return Artifact{}, err
		}
		return Artifact{Filename: export.Filename(sv.Title, "pdf"), ContentType: export.ContentTypePDF, Data: data}, nil
	case "md":
		return Artifact{Filename: export.Filename(sv.Title, "md"), ContentType: export.ContentTypeMarkdown, Data: export.Markdown(doc)}, nil
	case "html":
		return Artifact{Filename: export.Filename(sv.Title, "html"), ContentType: export.ContentTypeHTML, Data: export.HTML(doc)}, nil
	default:
		return Artifact{}, errors.InvalidInput("unsupported export format: " + format)
	}
}

func (s *ReportService) load(ctx context.Context, surveyID string) (survey.Survey, []survey.FieldDefinition, []survey.ResponseRecord, error) {
	sv, err := s.source.Survey(ctx, surveyID)
	if err != nil {
		return survey.Survey{}, nil, nil, err
	}
	fields, err := s.source.Fields(ctx, surveyID)
	if err != nil {
		return survey.Survey{}, nil, nil, err
	}
	responses, err := s.source.Responses(ctx, surveyID)
	if err != nil {
		return survey.Survey{}, nil, nil, err
	}
	return sv, fields, responses, nil
}
