package milestone

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"estatedesk/internal/pkg/response"
)

type Handler struct {
	engine *Engine
}

func NewHandler(engine *Engine) *Handler {
	return &Handler{engine: engine}
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	r.GET("/milestones/detect", h.Detect)
	r.GET("/flats/:id/milestones/detect", h.DetectForFlat)
	r.GET("/flats/:id/construction-summary", h.ConstructionSummary)
	r.GET("/payment-plans/:id/milestones/:sequence/can-trigger", h.CanTrigger)
}

// Detect handles GET /api/v1/milestones/detect
func (h *Handler) Detect(c *gin.Context) {
	matches, err := h.engine.DetectMilestones(c.Request.Context())
	if err != nil {
		response.FromError(c, err)
		return
	}
	if matches == nil {
		matches = []Match{}
	}
	response.Success(c, http.StatusOK, matches)
}

// DetectForFlat handles GET /api/v1/flats/:id/milestones/detect
func (h *Handler) DetectForFlat(c *gin.Context) {
	flatID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.Error(c, http.StatusBadRequest, "INVALID_ID", "Invalid flat ID")
		return
	}

	matches, err := h.engine.DetectMilestonesForFlat(c.Request.Context(), flatID)
	if err != nil {
		response.FromError(c, err)
		return
	}
	if matches == nil {
		matches = []Match{}
	}
	response.Success(c, http.StatusOK, matches)
}

// ConstructionSummary handles GET /api/v1/flats/:id/construction-summary
func (h *Handler) ConstructionSummary(c *gin.Context) {
	flatID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.Error(c, http.StatusBadRequest, "INVALID_ID", "Invalid flat ID")
		return
	}

	summary, err := h.engine.GetConstructionSummary(c.Request.Context(), flatID)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, summary)
}

// CanTrigger handles GET /api/v1/payment-plans/:id/milestones/:sequence/can-trigger
func (h *Handler) CanTrigger(c *gin.Context) {
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

	ok, err := h.engine.CanTriggerMilestone(c.Request.Context(), planID, seq)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"can_trigger": ok})
}
