package paymentplan

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
)

type MilestoneStatus string

const (
	MilestonePending   MilestoneStatus = "PENDING"
	MilestoneTriggered MilestoneStatus = "TRIGGERED"
	MilestonePaid      MilestoneStatus = "PAID"
	MilestoneCancelled MilestoneStatus = "CANCELLED"
)

// Milestone is one installment of a flat's plan, embedded in the plan's JSON column.
// An empty ConstructionPhase marks a time-based milestone that is never auto-detected.
type Milestone struct {
	Sequence          int             `json:"sequence"`
	Name              string          `json:"name"`
	Description       string          `json:"description,omitempty"`
	Percentage        decimal.Decimal `json:"percentage"`
	Amount            decimal.Decimal `json:"amount"`
	ConstructionPhase string          `json:"construction_phase,omitempty"`
	PhasePercentage   decimal.Decimal `json:"phase_percentage"`
	Status            MilestoneStatus `json:"status"`

	PaymentScheduleID      *int64     `json:"payment_schedule_id,omitempty"`
	DemandDraftID          *int64     `json:"demand_draft_id,omitempty"`
	ConstructionProgressID *int64     `json:"construction_progress_id,omitempty"`
	TriggeredAt            *time.Time `json:"triggered_at,omitempty"`
	TriggeredBy            *int64     `json:"triggered_by,omitempty"`
	DueDate                *time.Time `json:"due_date,omitempty"`
	PaidAt                 *time.Time `json:"paid_at,omitempty"`
}

// FlatPaymentPlan is the per-booking instantiation of a template.
// Version increments on every milestone write.
type FlatPaymentPlan struct {
	ID            int64  `json:"id" gorm:"primaryKey"`
	BookingID     int64  `json:"booking_id" gorm:"not null;uniqueIndex"`
	BookingNumber string `json:"booking_number" gorm:"size:64"`
	FlatID        int64  `json:"flat_id" gorm:"not null;index"`
	CustomerID    int64  `json:"customer_id" gorm:"not null;index"`
	TemplateID    int64  `json:"template_id"`
	PlanType      string `json:"plan_type" gorm:"size:64"`

	TotalAmount   decimal.Decimal `json:"total_amount" gorm:"type:decimal(15,2);not null"`
	PaidAmount    decimal.Decimal `json:"paid_amount" gorm:"type:decimal(15,2);not null"`
	BalanceAmount decimal.Decimal `json:"balance_amount" gorm:"type:decimal(15,2);not null"`

	Milestones datatypes.JSONSlice[Milestone] `json:"milestones"`
	Version    int                            `json:"version" gorm:"not null;default:1"`
	IsActive   bool                           `json:"is_active" gorm:"not null;index"`

	CreatedBy int64     `json:"created_by"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (FlatPaymentPlan) TableName() string { return "flat_payment_plans" }

// MilestoneIndex returns the slice position of the milestone with sequence seq.
func (p *FlatPaymentPlan) MilestoneIndex(seq int) (int, bool) {
	for i := range p.Milestones {
		if p.Milestones[i].Sequence == seq {
			return i, true
		}
	}
	return -1, false
}

// TemplateMilestone is the blueprint a plan milestone is copied from.
type TemplateMilestone struct {
	Sequence          int             `json:"sequence"`
	Name              string          `json:"name"`
	Description       string          `json:"description,omitempty"`
	Percentage        decimal.Decimal `json:"percentage"`
	ConstructionPhase string          `json:"construction_phase,omitempty"`
	PhasePercentage   decimal.Decimal `json:"phase_percentage"`
}

type Template struct {
	ID          int64                                  `json:"id" gorm:"primaryKey"`
	Name        string                                 `json:"name" gorm:"size:255;not null"`
	PlanType    string                                 `json:"plan_type" gorm:"size:64;not null;uniqueIndex"`
	Description string                                 `json:"description" gorm:"type:text"`
	IsDefault   bool                                   `json:"is_default" gorm:"not null"`
	IsActive    bool                                   `json:"is_active" gorm:"not null"`
	Milestones  datatypes.JSONSlice[TemplateMilestone] `json:"milestones"`
	CreatedBy   int64                                  `json:"created_by"`
	CreatedAt   time.Time                              `json:"created_at"`
	UpdatedAt   time.Time                              `json:"updated_at"`
}

func (Template) TableName() string { return "payment_plan_templates" }
