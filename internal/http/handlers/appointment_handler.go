// Appointment HTTP handlers.
//
//   - POST /api/appointments                          (public form)
//   - GET  /{token}/admin/api/appointments            (admin list, paginated)
//   - PATCH /{token}/admin/api/appointments/{id}/status (admin status change)
//   - GET  /{token}/admin/export/appointments.xlsx    (admin export)
package handlers

import (
	"bytes"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/tbourn/victoria-clinic/internal/domain"
	"github.com/tbourn/victoria-clinic/internal/export"
	"github.com/tbourn/victoria-clinic/internal/http/middleware"
	"github.com/tbourn/victoria-clinic/internal/schema"
	"github.com/tbourn/victoria-clinic/internal/services"
)

// ListAppointmentsResponse wraps a page of appointments.
type ListAppointmentsResponse struct {
	Items      []domain.Appointment `json:"items"`
	Pagination Pagination           `json:"pagination"`
}

// UpdateStatusRequest is the body of the status change endpoint.
type UpdateStatusRequest struct {
	Status string `json:"status" binding:"required" example:"confirmed" enums:"new,confirmed,completed,cancelled"`
}

// CreateAppointment godoc
// @ID          createAppointment
// @Summary     Submit an appointment request
// @Description Validates and stores a lead from the landing page and notifies staff in Telegram.
// @Description A repeated Idempotency-Key returns the original appointment with 200 and Idempotency-Replayed: true.
// @Tags        Appointments
// @Accept      json
// @Produce     json
//
// @Param       Idempotency-Key  header  string  false  "Key for safe retries"  example(7a8d9f4c-1b2a-4c3d-8e9f-0123456789ab)
// @Param       body             body    schema.AppointmentCreate  true  "Appointment form"
//
// @Success     201  {object}  handlers.FormResponse  "Created"
// @Success     200  {object}  handlers.FormResponse  "Replayed"
// @Failure     400  {object}  handlers.FormResponse  "Validation failed"
// @Failure     429  {object}  handlers.ErrorResponse "Rate limited"
// @Failure     500  {object}  handlers.FormResponse  "Internal error"
// @Router      /api/appointments [post]
func (h *Handlers) CreateAppointment(c *gin.Context) {
	ctx := c.Request.Context()

	var in schema.AppointmentCreate
	if err := c.ShouldBindJSON(&in); err != nil {
		formFail(c, http.StatusBadRequest, schema.MsgValidationFailed, []schema.FieldError{
			{Field: "body", Tag: "json", Message: MsgInvalidJSON},
		}, nil)
		return
	}

	lg := middleware.LoggerFrom(c)
	lg.Info().Msg("appointment submitted")

	key, _ := middleware.GetIdempotencyKey(c)
	a, replayed, err := h.appts.CreateWithKey(ctx, in, key)
	if err != nil {
		if fe, isFE := schema.AsFieldErrors(err); isFE {
			lg.Warn().Str("errors", fe.Error()).Msg("appointment validation failed")
			formFail(c, http.StatusBadRequest, schema.MsgValidationFailed, fe, nil)
			return
		}
		formFail(c, http.StatusInternalServerError, MsgAppointmentFailed, nil, err)
		return
	}

	if replayed {
		c.Header(middleware.HeaderIdempotencyReplayed, "true")
		formOK(c, http.StatusOK, MsgAppointmentCreated, a)
		return
	}

	lg.Info().Str("appointment_id", a.ID).Msg("appointment created")
	h.appts.Notify(ctx, a)
	formOK(c, http.StatusCreated, MsgAppointmentCreated, a)
}

// ListAppointments godoc
// @ID          listAppointments
// @Summary     List appointments (admin)
// @Description Returns a page of appointments, newest first.
// @Tags        Admin
// @Produce     json
//
// @Param       token      path   string  true  "Admin token"
// @Param       page       query  int     false "Page number"     minimum(1) default(1)
// @Param       page_size  query  int     false "Items per page"  minimum(1) maximum(100) default(20)
//
// @Success     200  {object} handlers.ListAppointmentsResponse
// @Failure     403  {object} handlers.ErrorResponse "Invalid token"
// @Failure     500  {object} handlers.ErrorResponse "Internal error"
// @Router      /{token}/admin/api/appointments [get]
func (h *Handlers) ListAppointments(c *gin.Context) {
	page, pageSize := clampPagination(c)

	items, total, err := h.appts.ListPage(c.Request.Context(), page, pageSize)
	if err != nil {
		fail(c, http.StatusInternalServerError, ErrCodeListFailed, err.Error())
		return
	}
	ok(c, http.StatusOK, ListAppointmentsResponse{
		Items:      items,
		Pagination: newPagination(page, pageSize, total),
	})
}

// UpdateAppointmentStatus godoc
// @ID          updateAppointmentStatus
// @Summary     Change an appointment's status (admin)
// @Description Allowed moves: new→confirmed|cancelled, confirmed→completed|cancelled. Repeating the current status is a no-op.
// @Tags        Admin
// @Accept      json
// @Produce     json
//
// @Param       token  path  string  true  "Admin token"
// @Param       id     path  string  true  "Appointment ID"  format(uuid)
// @Param       body   body  handlers.UpdateStatusRequest  true  "New status"
//
// @Success     200  {object} domain.Appointment
// @Failure     400  {object} handlers.ErrorResponse "Unknown status"
// @Failure     403  {object} handlers.ErrorResponse "Invalid token"
// @Failure     404  {object} handlers.ErrorResponse "Appointment not found"
// @Failure     409  {object} handlers.ErrorResponse "Transition not allowed"
// @Failure     500  {object} handlers.ErrorResponse "Internal error"
// @Router      /{token}/admin/api/appointments/{id}/status [patch]
func (h *Handlers) UpdateAppointmentStatus(c *gin.Context) {
	var req UpdateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "status required")
		return
	}

	a, err := h.appts.UpdateStatus(c.Request.Context(), c.Param("id"), req.Status)
	switch {
	case err == nil:
		middleware.LoggerFrom(c).Info().
			Str("appointment_id", a.ID).
			Str("status", string(a.Status)).
			Msg("appointment status updated")
		ok(c, http.StatusOK, a)
	case errors.Is(err, services.ErrInvalidStatus):
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "unknown status")
	case errors.Is(err, services.ErrAppointmentNotFound):
		fail(c, http.StatusNotFound, ErrCodeNotFound, "appointment not found")
	case errors.Is(err, services.ErrIllegalTransition):
		fail(c, http.StatusConflict, ErrCodeConflict, err.Error())
	default:
		fail(c, http.StatusInternalServerError, ErrCodeUpdateFailed, err.Error())
	}
}

// ExportAppointments godoc
// @ID          exportAppointments
// @Summary     Download appointments as XLSX (admin)
// @Tags        Admin
// @Produce     application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
//
// @Param       token  path  string  true  "Admin token"
//
// @Success     200  {file}   binary
// @Failure     403  {object} handlers.ErrorResponse "Invalid token"
// @Failure     500  {object} handlers.ErrorResponse "Internal error"
// @Router      /{token}/admin/export/appointments.xlsx [get]
func (h *Handlers) ExportAppointments(c *gin.Context) {
	items, err := h.appts.ListAll(c.Request.Context())
	if err != nil {
		fail(c, http.StatusInternalServerError, ErrCodeListFailed, err.Error())
		return
	}

	var buf bytes.Buffer
	if err := export.WriteAppointments(&buf, items); err != nil {
		fail(c, http.StatusInternalServerError, ErrCodeExportFailed, err.Error())
		return
	}

	name := fmt.Sprintf("appointments-%s.xlsx", time.Now().UTC().Format("20060102"))
	c.Header("Content-Disposition", `attachment; filename="`+name+`"`)
	c.Data(http.StatusOK, export.ContentTypeXLSX, buf.Bytes())
}
