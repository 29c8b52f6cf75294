package construction

import (
	"time"

	"github.com/shopspring/decimal"
)

// Common phase names. Phases are free-form strings so projects can add their own.
const (
	PhaseFoundation = "FOUNDATION"
	PhasePlinth     = "PLINTH"
	PhaseStructure  = "STRUCTURE"
	PhaseBrickwork  = "BRICKWORK"
	PhasePlastering = "PLASTERING"
	PhaseFinishing  = "FINISHING"
	PhasePossession = "POSSESSION"
)

// FlatProgress is the completion of one construction phase for one flat.
// (flat_id, phase) is unique.
type FlatProgress struct {
	ID         int64  `json:"id" gorm:"primaryKey"`
	FlatID     int64  `json:"flat_id" gorm:"not null;uniqueIndex:idx_flat_phase"`
	Phase      string `json:"phase" gorm:"size:64;not null;uniqueIndex:idx_flat_phase"`
	TowerID    int64  `json:"tower_id" gorm:"index"`
	PropertyID int64  `json:"property_id" gorm:"index"`

	ProgressPercentage decimal.Decimal `json:"progress_percentage" gorm:"type:decimal(5,2);not null"`

	IsPaymentMilestone   bool       `json:"is_payment_milestone" gorm:"not null"`
	MilestoneTriggered   bool       `json:"milestone_triggered" gorm:"not null"`
	MilestoneTriggeredAt *time.Time `json:"milestone_triggered_at,omitempty"`
	DemandDraftID        *int64     `json:"demand_draft_id,omitempty"`
	PaymentScheduleID    *int64     `json:"payment_schedule_id,omitempty"`

	Notes     string    `json:"notes,omitempty" gorm:"type:text"`
	UpdatedBy int64     `json:"updated_by"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (FlatProgress) TableName() string { return "construction_flat_progress" }
