package inventory

import "github.com/gin-gonic/gin"

func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	r.POST("/properties", h.CreateProperty)
	r.POST("/towers", h.CreateTower)

	flats := r.Group("/flats")
	{
		flats.POST("", h.CreateFlat)
		flats.GET("/:id", h.GetFlat)
		flats.PATCH("/:id", h.UpdateFlat)
	}
}
