package booking

import (
	"context"

	"gorm.io/gorm"

	"estatedesk/internal/domain/paymentplan"
)

// PlanGenerator instantiates a payment plan inside the booking transaction.
type PlanGenerator interface {
	GenerateScheduleForBooking(ctx context.Context, tx *gorm.DB, in paymentplan.GenerateInput) (*paymentplan.FlatPaymentPlan, error)
}
