package notification

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
	r.GET("/notifications", h.List)
}

// List handles GET /api/v1/notifications
func (h *Handler) List(c *gin.Context) {
	f := ListFilter{
		ReferenceType: c.Query("reference_type"),
		Status:        Status(c.Query("status")),
	}
	if s := c.Query("reference_id"); s != "" {
		id, err := strconv.ParseInt(s, 10, 64)
		if err != nil {
			response.Error(c, http.StatusBadRequest, "INVALID_REFERENCE_ID", "Invalid reference_id")
			return
		}
		f.ReferenceID = id
	}
	if s := c.Query("limit"); s != "" {
		if v, err := strconv.Atoi(s); err == nil {
			f.Limit = v
		}
	}
	if s := c.Query("offset"); s != "" {
		if v, err := strconv.Atoi(s); err == nil {
			f.Offset = v
		}
	}

	rows, total, err := h.service.List(c.Request.Context(), f)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{
		"notifications": rows,
		"total":         total,
	})
}
