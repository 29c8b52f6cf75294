package booking

import (
	"time"

	"github.com/shopspring/decimal"
)

type Status string

const (
	StatusTokenPaid        Status = "TOKEN_PAID"
	StatusAgreementPending Status = "AGREEMENT_PENDING"
	StatusAgreementSigned  Status = "AGREEMENT_SIGNED"
	StatusConfirmed        Status = "CONFIRMED"
	StatusCompleted        Status = "COMPLETED"
	StatusCancelled        Status = "CANCELLED"
	StatusTransferred      Status = "TRANSFERRED"
)

// mainChain is the forward order a live booking moves through.
var mainChain = []Status{
	StatusTokenPaid,
	StatusAgreementPending,
	StatusAgreementSigned,
	StatusConfirmed,
	StatusCompleted,
}

func (s Status) rank() int {
	for i, st := range mainChain {
		if st == s {
			return i
		}
	}
	return -1
}

// Terminal statuses accept no further changes.
func (s Status) Terminal() bool {
	return s == StatusCancelled || s == StatusTransferred
}

// canMove allows forward moves along the main chain and a transfer out of any
// live status. Cancellation goes through CancelBooking.
func canMove(from, to Status) bool {
	if from.Terminal() || from == StatusCompleted {
		return false
	}
	if to == StatusTransferred {
		return true
	}
	fr, tr := from.rank(), to.rank()
	return fr >= 0 && tr > fr
}

// Booking is never hard-deleted; cancellation flips IsActive off.
type Booking struct {
	ID              int64  `json:"id" gorm:"primaryKey"`
	BookingNumber   string `json:"booking_number" gorm:"size:64;not null;uniqueIndex"`
	CustomerID      int64  `json:"customer_id" gorm:"not null;index"`
	FlatID          int64  `json:"flat_id" gorm:"not null;index"`
	PropertyID      int64  `json:"property_id" gorm:"not null;index"`
	TowerID         int64  `json:"tower_id" gorm:"index"`
	Status          Status `json:"status" gorm:"size:32;not null;index"`
	PaymentPlanType string `json:"payment_plan_type,omitempty" gorm:"size:64"`

	TotalAmount   decimal.Decimal `json:"total_amount" gorm:"type:decimal(15,2);not null"`
	TokenAmount   decimal.Decimal `json:"token_amount" gorm:"type:decimal(15,2);not null"`
	PaidAmount    decimal.Decimal `json:"paid_amount" gorm:"type:decimal(15,2);not null"`
	BalanceAmount decimal.Decimal `json:"balance_amount" gorm:"type:decimal(15,2);not null"`

	BookingDate        time.Time        `json:"booking_date" gorm:"not null"`
	CancellationReason string           `json:"cancellation_reason,omitempty" gorm:"type:text"`
	CancellationDate   *time.Time       `json:"cancellation_date,omitempty"`
	RefundAmount       *decimal.Decimal `json:"refund_amount,omitempty" gorm:"type:decimal(15,2)"`
	Remarks            string           `json:"remarks,omitempty" gorm:"type:text"`

	IsActive  bool      `json:"is_active" gorm:"not null;index"`
	CreatedBy int64     `json:"created_by"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (Booking) TableName() string { return "bookings" }
