package notification

import "time"

// Kind identifies what a notification was sent for.
type Kind string

const (
	KindBookingConfirmation Kind = "booking_confirmation"
	KindBookingAdminNotice  Kind = "booking_admin_notice"
	KindDemandDraft         Kind = "demand_draft"
)

const ChannelEmail = "email"

type Status string

const (
	StatusSent   Status = "SENT"
	StatusFailed Status = "FAILED"
)

// Notification is the outbound message log. One row per delivery attempt.
type Notification struct {
	ID            int64     `json:"id" gorm:"primaryKey"`
	Kind          Kind      `json:"kind" gorm:"size:64;not null;index"`
	Channel       string    `json:"channel" gorm:"size:16;not null"`
	Recipient     string    `json:"recipient" gorm:"size:255;not null"`
	Subject       string    `json:"subject" gorm:"size:255"`
	Body          string    `json:"body" gorm:"type:text"`
	Status        Status    `json:"status" gorm:"size:16;not null;index"`
	Error         string    `json:"error,omitempty" gorm:"type:text"`
	ReferenceType string    `json:"reference_type" gorm:"size:64;index:idx_notifications_reference"`
	ReferenceID   int64     `json:"reference_id" gorm:"index:idx_notifications_reference"`
	CreatedAt     time.Time `json:"created_at" gorm:"index"`
}

func (Notification) TableName() string {
	return "notifications"
}

// Message is what a Sender delivers.
type Message struct {
	To       string
	Subject  string
	Body     string
	HTMLBody bool
}
