package paymentplan

import "github.com/gin-gonic/gin"

func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	r.GET("/bookings/:id/payment-plan", h.GetPlanByBooking)

	plans := r.Group("/payment-plans")
	{
		plans.GET("/:id", h.GetPlan)
		plans.PATCH("/:id/milestones/:sequence", h.UpdateMilestone)
	}

	templates := r.Group("/payment-plan-templates")
	{
		templates.GET("", h.ListTemplates)
		templates.POST("", h.CreateTemplate)
	}
}
