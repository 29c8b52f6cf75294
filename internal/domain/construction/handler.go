package construction

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

func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	r.PUT("/flats/:id/construction-progress", h.RecordProgress)
	r.GET("/flats/:id/construction-progress", h.ListProgress)
}

// RecordProgress handles PUT /api/v1/flats/:id/construction-progress
func (h *Handler) RecordProgress(c *gin.Context) {
	flatID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.Error(c, http.StatusBadRequest, "INVALID_ID", "Invalid flat ID")
		return
	}

	var in RecordProgressInput
	if err := c.ShouldBindJSON(&in); err != nil {
		response.Error(c, http.StatusBadRequest, "INVALID_JSON", "Invalid JSON body")
		return
	}
	in.FlatID = flatID
	in.ActorID = c.GetInt64("user_id")

	progress, err := h.service.RecordProgress(c.Request.Context(), in)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, progress)
}

// ListProgress handles GET /api/v1/flats/:id/construction-progress
func (h *Handler) ListProgress(c *gin.Context) {
	flatID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.Error(c, http.StatusBadRequest, "INVALID_ID", "Invalid flat ID")
		return
	}

	rows, err := h.service.ListByFlat(c.Request.Context(), flatID)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, rows)
}
