package service

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bookbot-ai/bookbot-api/internal/models"
	appErrors "github.com/bookbot-ai/bookbot-api/pkg/errors"
)

type listerStub struct {
	appointments []models.Appointment
	err          error
}

func (s listerStub) List(_ context.Context, filter models.AppointmentFilter) ([]models.Appointment, int, error) {
	if s.err != nil {
		return nil, 0, s.err
	}
	start := (filter.Page - 1) * filter.PageSize
	if start >= len(s.appointments) {
		return nil, len(s.appointments), nil
	}
	end := start + filter.PageSize
	if end > len(s.appointments) {
		end = len(s.appointments)
	}
	return s.appointments[start:end], len(s.appointments), nil
}

func TestExportCSV(t *testing.T) {
	svc := NewExportService(listerStub{appointments: []models.Appointment{
		{ID: "a1", Date: "2025-08-08", Time: "14:00"},
		{ID: "a2", Date: "2025-08-09", Time: "09:30"},
	}}, nil)

	result, err := svc.Export(context.Background(), ExportFormatCSV, models.AppointmentFilter{})
	require.NoError(t, err)
	assert.Equal(t, "text/csv", result.ContentType)
	assert.Equal(t, "appointments.csv", result.Filename)

	body := string(result.Payload)
	lines := strings.Split(strings.TrimSpace(body), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, "ID,Date,Time", strings.TrimSpace(lines[0]))
	assert.Contains(t, body, "a1,2025-08-08,14:00")
}

func TestExportPDF(t *testing.T) {
	svc := NewExportService(listerStub{appointments: []models.Appointment{
		{ID: "a1", Date: "2025-08-08", Time: "14:00"},
	}}, nil)

	result, err := svc.Export(context.Background(), ExportFormatPDF, models.AppointmentFilter{})
	require.NoError(t, err)
	assert.Equal(t, "application/pdf", result.ContentType)
	assert.True(t, strings.HasPrefix(string(result.Payload), "%PDF"))
}

func TestExportUnsupportedFormat(t *testing.T) {
	svc := NewExportService(listerStub{}, nil)

	_, err := svc.Export(context.Background(), "xml", models.AppointmentFilter{})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
}

func TestExportListerFailure(t *testing.T) {
	svc := NewExportService(listerStub{err: assert.AnError}, nil)

	_, err := svc.Export(context.Background(), ExportFormatCSV, models.AppointmentFilter{})
	require.Error(t, err)
}
