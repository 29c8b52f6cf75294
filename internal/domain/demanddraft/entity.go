package demanddraft

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
)

type Status string

const (
	StatusDraft Status = "DRAFT"
	StatusReady Status = "READY"
	StatusSent  Status = "SENT"
)

// BankDetails is the collection account printed on every draft.
type BankDetails struct {
	BankName      string `json:"bank_name"`
	AccountName   string `json:"account_name"`
	AccountNumber string `json:"account_number"`
	IFSC          string `json:"ifsc"`
	Branch        string `json:"branch"`
}

// TemplateData is the set of values a draft template can reference as {{key}}.
type TemplateData struct {
	DraftNumber          string      `json:"draft_number"`
	BookingNumber        string      `json:"booking_number"`
	CustomerName         string      `json:"customer_name"`
	PropertyName         string      `json:"property_name"`
	TowerName            string      `json:"tower_name"`
	FlatNumber           string      `json:"flat_number"`
	MilestoneName        string      `json:"milestone_name"`
	MilestoneDescription string      `json:"milestone_description"`
	Amount               string      `json:"amount"`
	AmountInWords        string      `json:"amount_in_words"`
	DueDate              string      `json:"due_date"`
	IssueDate            string      `json:"issue_date"`
	Bank                 BankDetails `json:"bank"`
}

type DemandDraft struct {
	ID                     int64           `json:"id" gorm:"primaryKey"`
	DraftNumber            string          `json:"draft_number" gorm:"size:64;not null;uniqueIndex"`
	FlatID                 int64           `json:"flat_id" gorm:"not null;index"`
	CustomerID             int64           `json:"customer_id" gorm:"not null;index"`
	BookingID              int64           `json:"booking_id" gorm:"not null;index"`
	FlatPaymentPlanID      int64           `json:"flat_payment_plan_id" gorm:"not null;index"`
	MilestoneSequence      int             `json:"milestone_sequence" gorm:"not null"`
	MilestoneName          string          `json:"milestone_name" gorm:"size:255"`
	PaymentScheduleID      int64           `json:"payment_schedule_id" gorm:"index"`
	ConstructionProgressID *int64          `json:"construction_progress_id,omitempty"`
	TemplateID             int64           `json:"template_id"`
	Amount                 decimal.Decimal `json:"amount" gorm:"type:decimal(15,2);not null"`
	DueDate                time.Time       `json:"due_date" gorm:"not null"`
	Status                 Status          `json:"status" gorm:"size:16;not null;index"`

	Subject      string                           `json:"subject" gorm:"size:255"`
	HTMLContent  string                           `json:"html_content" gorm:"type:text"`
	TemplateData datatypes.JSONType[TemplateData] `json:"template_data"`

	AutoGenerated  bool       `json:"auto_generated" gorm:"not null"`
	RequiresReview bool       `json:"requires_review" gorm:"not null"`
	GeneratedAt    time.Time  `json:"generated_at"`
	GeneratedBy    int64      `json:"generated_by"`
	ReviewedAt     *time.Time `json:"reviewed_at,omitempty"`
	ReviewedBy     *int64     `json:"reviewed_by,omitempty"`
	SentAt         *time.Time `json:"sent_at,omitempty"`
	SentBy         *int64     `json:"sent_by,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (DemandDraft) TableName() string { return "demand_drafts" }

type Template struct {
	ID          int64     `json:"id" gorm:"primaryKey"`
	Name        string    `json:"name" gorm:"size:255;not null"`
	Subject     string    `json:"subject" gorm:"size:255;not null"`
	HTMLContent string    `json:"html_content" gorm:"type:text;not null"`
	IsActive    bool      `json:"is_active" gorm:"not null;index"`
	CreatedBy   int64     `json:"created_by"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func (Template) TableName() string { return "demand_draft_templates" }
