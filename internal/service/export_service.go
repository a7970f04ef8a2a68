package service

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/bookbot-ai/bookbot-api/internal/models"
	appErrors "github.com/bookbot-ai/bookbot-api/pkg/errors"
	"github.com/bookbot-ai/bookbot-api/pkg/export"
)

type appointmentLister interface {
	List(ctx context.Context, filter models.AppointmentFilter) ([]models.Appointment, int, error)
}

// Export formats supported by the appointment export endpoint.
const (
	ExportFormatCSV = "csv"
	ExportFormatPDF = "pdf"
)

// ExportResult carries rendered export bytes with their content type.
type ExportResult struct {
	ContentType string
	Filename    string
	Payload     []byte
}

// ExportService renders the appointment book as CSV or PDF.
type ExportService struct {
	appointments appointmentLister
	csv          *export.CSVExporter
	pdf          *export.PDFExporter
	logger       *zap.Logger
}

// NewExportService constructs an ExportService.
func NewExportService(appointments appointmentLister, logger *zap.Logger) *ExportService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ExportService{
		appointments: appointments,
		csv:          export.NewCSVExporter(),
		pdf:          export.NewPDFExporter(),
		logger:       logger,
	}
}

// Export renders all appointments matching the filter in the given format.
func (s *ExportService) Export(ctx context.Context, format string, filter models.AppointmentFilter) (*ExportResult, error) {
	filter.Page = 1
	filter.PageSize = 100

	var rows []map[string]string
	for {
		appointments, total, err := s.appointments.List(ctx, filter)
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list appointments")
		}
		for _, apt := range appointments {
			rows = append(rows, map[string]string{
				"ID":   apt.ID,
				"Date": apt.Date,
				"Time": apt.Time,
			})
		}
		if len(rows) >= total || len(appointments) == 0 {
			break
		}
		filter.Page++
	}

	dataset := export.Dataset{
		Headers: []string{"ID", "Date", "Time"},
		Rows:    rows,
	}

	switch format {
	case ExportFormatCSV:
		payload, err := s.csv.Render(dataset)
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render csv")
		}
		return &ExportResult{ContentType: "text/csv", Filename: "appointments.csv", Payload: payload}, nil
	case ExportFormatPDF:
		payload, err := s.pdf.Render(dataset, "Appointment Database")
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render pdf")
		}
		return &ExportResult{ContentType: "application/pdf", Filename: "appointments.pdf", Payload: payload}, nil
	default:
		return nil, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("unsupported export format %q", format))
	}
}
