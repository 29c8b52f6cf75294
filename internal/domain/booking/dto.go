package booking

import (
	"time"

	"github.com/shopspring/decimal"

	"estatedesk/internal/domain/paymentplan"
)

type CreateBookingInput struct {
	BookingNumber   string          `json:"booking_number" validate:"required,max=64"`
	FlatID          int64           `json:"flat_id" validate:"required,gt=0"`
	PropertyID      int64           `json:"property_id" validate:"required,gt=0"`
	CustomerID      int64           `json:"customer_id" validate:"required,gt=0"`
	TotalAmount     decimal.Decimal `json:"total_amount"`
	TokenAmount     decimal.Decimal `json:"token_amount"`
	PaymentPlanType string          `json:"payment_plan_type"`
	PaymentMode     string          `json:"payment_mode"`
	BookingDate     *time.Time      `json:"booking_date"`
	Remarks         string          `json:"remarks"`
	ActorID         int64           `json:"-"`
}

// Result is what CreateBooking returns. Plan is nil when plan generation failed;
// the booking still stands and PlanError says why.
type Result struct {
	Booking   *Booking                     `json:"booking"`
	Plan      *paymentplan.FlatPaymentPlan `json:"payment_plan,omitempty"`
	PlanError string                       `json:"payment_plan_error,omitempty"`
}

type UpdateBookingRequest struct {
	Status      *Status          `json:"status"`
	TotalAmount *decimal.Decimal `json:"total_amount"`
	Remarks     *string          `json:"remarks"`
}

type RecordPaymentRequest struct {
	Amount      decimal.Decimal `json:"amount"`
	PaymentMode string          `json:"payment_mode" validate:"max=32"`
	Reference   string          `json:"reference" validate:"max=128"`
	PaymentDate *time.Time      `json:"payment_date"`
	Remarks     string          `json:"remarks"`
}

type CancelBookingRequest struct {
	Reason       string          `json:"reason" validate:"required"`
	RefundAmount decimal.Decimal `json:"refund_amount"`
}

type ListFilter struct {
	Status     Status
	CustomerID int64
	PropertyID int64
	FlatID     int64
	ActiveOnly bool
	Limit      int
	Offset     int
}
