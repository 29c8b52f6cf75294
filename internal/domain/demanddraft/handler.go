package demanddraft

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

// RegisterRoutes mounts read and generate routes on r and review routes on reviewers,
// which callers guard with a role check.
func (h *Handler) RegisterRoutes(r *gin.RouterGroup, reviewers *gin.RouterGroup) {
	r.POST("/demand-drafts/auto-generate", h.AutoGenerate)
	r.POST("/payment-plans/:id/milestones/:sequence/demand-draft", h.ManualGenerate)
	r.GET("/demand-drafts", h.List)
	r.GET("/demand-drafts/:id", h.Get)
	r.GET("/demand-draft-templates", h.ListTemplates)

	reviewers.POST("/demand-drafts/:id/approve", h.Approve)
	reviewers.POST("/demand-drafts/:id/send", h.Send)
	reviewers.POST("/demand-draft-templates", h.CreateTemplate)
}

// AutoGenerate handles POST /api/v1/demand-drafts/auto-generate
func (h *Handler) AutoGenerate(c *gin.Context) {
	res, err := h.service.ProcessDetectedMilestones(c.Request.Context(), c.GetInt64("user_id"))
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, res)
}

// ManualGenerate handles POST /api/v1/payment-plans/:id/milestones/:sequence/demand-draft
func (h *Handler) ManualGenerate(c *gin.Context) {
	planID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.Error(c, http.StatusBadRequest, "INVALID_ID", "Invalid payment plan ID")
		return
	}
	seq, err := strconv.Atoi(c.Param("sequence"))
	if err != nil {
		response.Error(c, http.StatusBadRequest, "INVALID_SEQUENCE", "Invalid milestone sequence")
		return
	}

	draft, err := h.service.ManualGenerateDemandDraft(c.Request.Context(), planID, seq, c.GetInt64("user_id"))
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusCreated, draft)
}

// List handles GET /api/v1/demand-drafts
func (h *Handler) List(c *gin.Context) {
	f := ListFilter{Status: Status(c.Query("status"))}
	f.FlatID, _ = strconv.ParseInt(c.Query("flat_id"), 10, 64)
	f.BookingID, _ = strconv.ParseInt(c.Query("booking_id"), 10, 64)
	f.Limit, _ = strconv.Atoi(c.Query("limit"))
	f.Offset, _ = strconv.Atoi(c.Query("offset"))

	drafts, total, err := h.service.ListDemandDrafts(c.Request.Context(), f)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{
		"demand_drafts": drafts,
		"total":         total,
	})
}

// Get handles GET /api/v1/demand-drafts/:id
func (h *Handler) Get(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.Error(c, http.StatusBadRequest, "INVALID_ID", "Invalid demand draft ID")
		return
	}

	draft, err := h.service.GetDemandDraft(c.Request.Context(), id)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, draft)
}

// Approve handles POST /api/v1/demand-drafts/:id/approve
func (h *Handler) Approve(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.Error(c, http.StatusBadRequest, "INVALID_ID", "Invalid demand draft ID")
		return
	}

	draft, err := h.service.ApproveDemandDraft(c.Request.Context(), id, c.GetInt64("user_id"))
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, draft)
}

// Send handles POST /api/v1/demand-drafts/:id/send
func (h *Handler) Send(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.Error(c, http.StatusBadRequest, "INVALID_ID", "Invalid demand draft ID")
		return
	}

	draft, err := h.service.SendDemandDraft(c.Request.Context(), id, c.GetInt64("user_id"))
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, draft)
}

// CreateTemplate handles POST /api/v1/demand-draft-templates
func (h *Handler) CreateTemplate(c *gin.Context) {
	var req CreateTemplateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "INVALID_JSON", "Invalid JSON body")
		return
	}

	t, err := h.service.CreateTemplate(c.Request.Context(), &req, c.GetInt64("user_id"))
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusCreated, t)
}

// ListTemplates handles GET /api/v1/demand-draft-templates
func (h *Handler) ListTemplates(c *gin.Context) {
	ts, err := h.service.ListTemplates(c.Request.Context())
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, ts)
}
