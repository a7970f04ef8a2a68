package handler

import (
	"context"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/bookbot-ai/bookbot-api/internal/dto"
	"github.com/bookbot-ai/bookbot-api/internal/models"
	"github.com/bookbot-ai/bookbot-api/internal/service"
	appErrors "github.com/bookbot-ai/bookbot-api/pkg/errors"
	"github.com/bookbot-ai/bookbot-api/pkg/response"
)

type appointmentStore interface {
	List(ctx context.Context, filter models.AppointmentFilter) ([]models.Appointment, int, error)
	DeleteByID(ctx context.Context, id string) (bool, error)
}

type appointmentExporter interface {
	Export(ctx context.Context, format string, filter models.AppointmentFilter) (*service.ExportResult, error)
}

// AppointmentHandler exposes the admin appointment book.
type AppointmentHandler struct {
	store    appointmentStore
	exporter appointmentExporter
}

// NewAppointmentHandler builds a new handler.
func NewAppointmentHandler(store appointmentStore, exporter appointmentExporter) *AppointmentHandler {
	return &AppointmentHandler{store: store, exporter: exporter}
}

// List godoc
// @Summary List appointments
// @Tags Appointments
// @Produce json
// @Param date query string false "Filter by exact date (YYYY-MM-DD)"
// @Param from_date query string false "Filter from date (YYYY-MM-DD)"
// @Param page query int false "Page number"
// @Param page_size query int false "Page size"
// @Success 200 {object} response.Envelope
// @Security BearerAuth
// @Router /appointments [get]
func (h *AppointmentHandler) List(c *gin.Context) {
	var query dto.ListAppointmentsQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid list query"))
		return
	}

	filter := models.AppointmentFilter{
		Date:     query.Date,
		FromDate: query.FromDate,
		Page:     query.Page,
		PageSize: query.PageSize,
	}
	appointments, total, err := h.store.List(c.Request.Context(), filter)
	if err != nil {
		response.Error(c, err)
		return
	}

	pagination := &models.Pagination{
		Page:       filter.Page,
		PageSize:   filter.PageSize,
		TotalCount: total,
	}
	response.JSON(c, http.StatusOK, appointments, pagination)
}

// Export godoc
// @Summary Export appointments
// @Tags Appointments
// @Produce text/csv
// @Produce application/pdf
// @Param format query string false "Export format (csv or pdf)"
// @Success 200 {file} file
// @Security BearerAuth
// @Router /appointments/export [get]
func (h *AppointmentHandler) Export(c *gin.Context) {
	var query dto.ExportAppointmentsQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid export query"))
		return
	}

	filter := models.AppointmentFilter{Date: query.Date, FromDate: query.FromDate}
	result, err := h.exporter.Export(c.Request.Context(), query.Format, filter)
	if err != nil {
		response.Error(c, err)
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", result.Filename))
	c.Data(http.StatusOK, result.ContentType, result.Payload)
}

// Delete godoc
// @Summary Delete an appointment
// @Tags Appointments
// @Param id path string true "Appointment ID"
// @Success 204
// @Security BearerAuth
// @Router /appointments/{id} [delete]
func (h *AppointmentHandler) Delete(c *gin.Context) {
	deleted, err := h.store.DeleteByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	if !deleted {
		response.Error(c, appErrors.Clone(appErrors.ErrNotFound, "appointment not found"))
		return
	}
	response.NoContent(c)
}
