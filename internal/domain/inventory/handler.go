package inventory

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

// CreateProperty handles POST /api/v1/properties
func (h *Handler) CreateProperty(c *gin.Context) {
	var req CreatePropertyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "INVALID_JSON", "Invalid JSON body")
		return
	}

	property, err := h.service.CreateProperty(c.Request.Context(), &req, c.GetInt64("user_id"))
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusCreated, property)
}

// CreateTower handles POST /api/v1/towers
func (h *Handler) CreateTower(c *gin.Context) {
	var req CreateTowerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "INVALID_JSON", "Invalid JSON body")
		return
	}

	tower, err := h.service.CreateTower(c.Request.Context(), &req)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusCreated, tower)
}

// CreateFlat handles POST /api/v1/flats
func (h *Handler) CreateFlat(c *gin.Context) {
	var req CreateFlatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "INVALID_JSON", "Invalid JSON body")
		return
	}

	flat, err := h.service.CreateFlat(c.Request.Context(), &req)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusCreated, flat)
}

// GetFlat handles GET /api/v1/flats/:id
func (h *Handler) GetFlat(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.Error(c, http.StatusBadRequest, "INVALID_ID", "Invalid flat ID")
		return
	}

	flat, err := h.service.GetFlat(c.Request.Context(), id)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, flat)
}

// UpdateFlat handles PATCH /api/v1/flats/:id
func (h *Handler) UpdateFlat(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.Error(c, http.StatusBadRequest, "INVALID_ID", "Invalid flat ID")
		return
	}

	var req UpdateFlatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "INVALID_JSON", "Invalid JSON body")
		return
	}

	flat, err := h.service.UpdateFlat(c.Request.Context(), id, &req)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, flat)
}
