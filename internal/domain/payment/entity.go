package payment

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type Type string

const (
	TypeToken       Type = "TOKEN"
	TypeInstallment Type = "INSTALLMENT"
	TypeRefund      Type = "REFUND"
)

const StatusCompleted = "COMPLETED"

// Payment is a ledger row. Rows are append-only; refunds are separate rows.
type Payment struct {
	ID            int64           `json:"id" gorm:"primaryKey"`
	PaymentNumber string          `json:"payment_number" gorm:"size:64;not null;uniqueIndex"`
	BookingID     int64           `json:"booking_id" gorm:"not null;index"`
	CustomerID    int64           `json:"customer_id" gorm:"not null;index"`
	Amount        decimal.Decimal `json:"amount" gorm:"type:decimal(15,2);not null"`
	PaymentType   Type            `json:"payment_type" gorm:"size:16;not null;index"`
	PaymentMode   string          `json:"payment_mode" gorm:"size:32"`
	Reference     string          `json:"reference,omitempty" gorm:"size:128"`
	Status        string          `json:"status" gorm:"size:16;not null"`
	PaymentDate   time.Time       `json:"payment_date" gorm:"not null"`
	Remarks       string          `json:"remarks,omitempty" gorm:"type:text"`
	CreatedBy     int64           `json:"created_by"`
	CreatedAt     time.Time       `json:"created_at"`
}

func (Payment) TableName() string { return "payments" }

func (p *Payment) BeforeCreate(_ *gorm.DB) error {
	if p.PaymentNumber == "" {
		p.PaymentNumber = NewNumber("PAY")
	}
	if p.Status == "" {
		p.Status = StatusCompleted
	}
	return nil
}

type ScheduleStatus string

const (
	SchedulePending       ScheduleStatus = "PENDING"
	SchedulePaid          ScheduleStatus = "PAID"
	SchedulePartiallyPaid ScheduleStatus = "PARTIALLY_PAID"
	ScheduleOverdue       ScheduleStatus = "OVERDUE"
	ScheduleWaived        ScheduleStatus = "WAIVED"
)

// Schedule is an installment that has been demanded from the customer.
type Schedule struct {
	ID                   int64           `json:"id" gorm:"primaryKey"`
	ScheduleNumber       string          `json:"schedule_number" gorm:"size:64;not null;uniqueIndex"`
	BookingID            int64           `json:"booking_id" gorm:"not null;index"`
	FlatPaymentPlanID    int64           `json:"flat_payment_plan_id" gorm:"not null;index"`
	MilestoneSequence    int             `json:"milestone_sequence" gorm:"not null"`
	InstallmentNumber    int             `json:"installment_number" gorm:"not null"`
	TotalInstallments    int             `json:"total_installments" gorm:"not null"`
	MilestoneName        string          `json:"milestone_name" gorm:"size:255"`
	MilestoneDescription string          `json:"milestone_description,omitempty" gorm:"type:text"`
	DueDate              time.Time       `json:"due_date" gorm:"not null;index"`
	Amount               decimal.Decimal `json:"amount" gorm:"type:decimal(15,2);not null"`
	PaidAmount           decimal.Decimal `json:"paid_amount" gorm:"type:decimal(15,2);not null"`
	Status               ScheduleStatus  `json:"status" gorm:"size:16;not null;index"`
	CreatedBy            int64           `json:"created_by"`
	CreatedAt            time.Time       `json:"created_at"`
	UpdatedAt            time.Time       `json:"updated_at"`
}

func (Schedule) TableName() string { return "payment_schedules" }

func (s *Schedule) BeforeCreate(_ *gorm.DB) error {
	if s.ScheduleNumber == "" {
		s.ScheduleNumber = NewNumber("PS")
	}
	return nil
}

// NewNumber builds a human readable document number such as PAY-20240131-1A2B3C4D.
func NewNumber(prefix string) string {
	id := uuid.New().String()
	return prefix + "-" + time.Now().Format("20060102") + "-" + strings.ToUpper(id[:8])
}
