package customer

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"estatedesk/internal/pkg/response"
	"estatedesk/internal/pkg/validator"
)

type CreateCustomerRequest struct {
	FullName string `json:"full_name" validate:"required,max=255"`
	Email    string `json:"email" validate:"omitempty,email"`
	Phone    string `json:"phone" validate:"omitempty,max=32"`
	Address  string `json:"address"`
	PAN      string `json:"pan" validate:"omitempty,len=10"`
}

type Handler struct {
	repo *Repository
}

func NewHandler(repo *Repository) *Handler {
	return &Handler{repo: repo}
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	r.POST("/customers", h.Create)
	r.GET("/customers/:id", h.Get)
}

// Create handles POST /api/v1/customers
func (h *Handler) Create(c *gin.Context) {
	var req CreateCustomerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "INVALID_JSON", "Invalid JSON body")
		return
	}
	if errs := validator.Validate(&req); errs != nil {
		response.ErrorWithDetails(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid customer", errs)
		return
	}

	cust := &Customer{
		FullName: req.FullName,
		Email:    req.Email,
		Phone:    req.Phone,
		Address:  req.Address,
		PAN:      req.PAN,
		IsActive: true,
	}
	if err := h.repo.Create(c.Request.Context(), cust); err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusCreated, cust)
}

// Get handles GET /api/v1/customers/:id
func (h *Handler) Get(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.Error(c, http.StatusBadRequest, "INVALID_ID", "Invalid customer ID")
		return
	}

	cust, err := h.repo.GetByID(c.Request.Context(), id)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, cust)
}
