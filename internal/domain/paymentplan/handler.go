package paymentplan

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"estatedesk/internal/pkg/response"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// GetPlan handles GET /api/v1/payment-plans/:id
func (h *Handler) GetPlan(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.Error(c, http.StatusBadRequest, "INVALID_ID", "Invalid payment plan ID")
		return
	}

	plan, err := h.service.GetPlan(c.Request.Context(), id)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, plan)
}

// GetPlanByBooking handles GET /api/v1/bookings/:id/payment-plan
func (h *Handler) GetPlanByBooking(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.Error(c, http.StatusBadRequest, "INVALID_ID", "Invalid booking ID")
		return
	}

	plan, err := h.service.GetPlanByBooking(c.Request.Context(), id)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, plan)
}

// UpdateMilestone handles PATCH /api/v1/payment-plans/:id/milestones/:sequence
func (h *Handler) UpdateMilestone(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.Error(c, http.StatusBadRequest, "INVALID_ID", "Invalid payment plan ID")
		return
	}
	seq, err := strconv.Atoi(c.Param("sequence"))
	if err != nil {
		response.Error(c, http.StatusBadRequest, "INVALID_SEQUENCE", "Invalid milestone sequence")
		return
	}

	var patch MilestonePatch
	if err := c.ShouldBindJSON(&patch); err != nil {
		response.Error(c, http.StatusBadRequest, "INVALID_JSON", "Invalid JSON body")
		return
	}

	plan, err := h.service.UpdateMilestone(c.Request.Context(), id, seq, patch, c.GetInt64("user_id"))
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, plan)
}

// CreateTemplate handles POST /api/v1/payment-plan-templates
func (h *Handler) CreateTemplate(c *gin.Context) {
	var req CreateTemplateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "INVALID_JSON", "Invalid JSON body")
		return
	}

	tmpl, err := h.service.CreateTemplate(c.Request.Context(), &req, c.GetInt64("user_id"))
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusCreated, tmpl)
}

// ListTemplates handles GET /api/v1/payment-plan-templates
func (h *Handler) ListTemplates(c *gin.Context) {
	templates, err := h.service.ListTemplates(c.Request.Context())
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, templates)
}
