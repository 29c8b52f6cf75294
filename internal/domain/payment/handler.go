package payment

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"estatedesk/internal/pkg/response"
)

type Handler struct {
	repo *Repository
}

func NewHandler(repo *Repository) *Handler {
	return &Handler{repo: repo}
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	r.GET("/bookings/:id/payments", h.ListPayments)
	r.GET("/bookings/:id/payment-schedules", h.ListSchedules)
	r.GET("/bookings/:id/payment-schedules/export", h.ExportSchedules)
}

// ListPayments handles GET /api/v1/bookings/:id/payments
func (h *Handler) ListPayments(c *gin.Context) {
	bookingID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.Error(c, http.StatusBadRequest, "INVALID_ID", "Invalid booking ID")
		return
	}

	rows, err := h.repo.ListPaymentsByBooking(c.Request.Context(), bookingID)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, rows)
}

// ListSchedules handles GET /api/v1/bookings/:id/payment-schedules
func (h *Handler) ListSchedules(c *gin.Context) {
	bookingID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.Error(c, http.StatusBadRequest, "INVALID_ID", "Invalid booking ID")
		return
	}

	rows, err := h.repo.ListSchedulesByBooking(c.Request.Context(), bookingID)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, rows)
}

// ExportSchedules handles GET /api/v1/bookings/:id/payment-schedules/export
func (h *Handler) ExportSchedules(c *gin.Context) {
	bookingID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.Error(c, http.StatusBadRequest, "INVALID_ID", "Invalid booking ID")
		return
	}

	rows, err := h.repo.ListSchedulesByBooking(c.Request.Context(), bookingID)
	if err != nil {
		response.FromError(c, err)
		return
	}

	c.Header("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=booking-%d-schedule.xlsx", bookingID))
	c.Status(http.StatusOK)
	if err := WriteScheduleWorkbook(c.Writer, rows); err != nil {
		_ = c.Error(err)
	}
}
