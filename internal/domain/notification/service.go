package notification

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"estatedesk/internal/pkg/logger"
	"estatedesk/internal/pkg/money"
)

var ErrNoRecipient = errors.New("notification has no recipient address")

// EmailService is what the booking and demand draft flows call after commit.
type EmailService interface {
	SendBookingConfirmationToCustomer(ctx context.Context, e BookingEmail) error
	SendBookingNotificationToAdmin(ctx context.Context, e BookingEmail) error
	SendDemandDraftToCustomer(ctx context.Context, e DemandDraftEmail) error
}

// Sender delivers one message over some transport.
type Sender interface {
	Send(ctx context.Context, m Message) error
}

type BookingEmail struct {
	BookingID     int64
	BookingNumber string
	CustomerName  string
	CustomerEmail string
	PropertyName  string
	FlatNumber    string
	TotalAmount   decimal.Decimal
	TokenAmount   decimal.Decimal
	BookingDate   time.Time
}

type DemandDraftEmail struct {
	DemandDraftID int64
	DraftNumber   string
	CustomerName  string
	CustomerEmail string
	Subject       string
	HTMLContent   string
}

type Service struct {
	repo       *Repository
	sender     Sender
	adminEmail string
	log        logrus.FieldLogger
}

var _ EmailService = (*Service)(nil)

func NewService(repo *Repository, sender Sender, adminEmail string, log logrus.FieldLogger) *Service {
	if log == nil {
		log = logger.Discard()
	}
	if sender == nil {
		sender = NewLogSender(log)
	}
	return &Service{repo: repo, sender: sender, adminEmail: adminEmail, log: log}
}

func (s *Service) SendBookingConfirmationToCustomer(ctx context.Context, e BookingEmail) error {
	msg := Message{
		To:      e.CustomerEmail,
		Subject: fmt.Sprintf("Booking %s confirmed", e.BookingNumber),
		Body: fmt.Sprintf(
			"Dear %s,\n\nYour booking %s for flat %s at %s is confirmed.\nTotal amount: Rs. %s\nToken received: Rs. %s\nBooking date: %s\n",
			e.CustomerName, e.BookingNumber, e.FlatNumber, e.PropertyName,
			money.Format(e.TotalAmount), money.Format(e.TokenAmount), e.BookingDate.Format("02 Jan 2006"),
		),
	}
	return s.deliver(ctx, KindBookingConfirmation, "booking", e.BookingID, msg)
}

func (s *Service) SendBookingNotificationToAdmin(ctx context.Context, e BookingEmail) error {
	msg := Message{
		To:      s.adminEmail,
		Subject: fmt.Sprintf("New booking %s", e.BookingNumber),
		Body: fmt.Sprintf(
			"Booking %s created for %s.\nFlat: %s, %s\nTotal: Rs. %s, token: Rs. %s\n",
			e.BookingNumber, e.CustomerName, e.FlatNumber, e.PropertyName,
			money.Format(e.TotalAmount), money.Format(e.TokenAmount),
		),
	}
	return s.deliver(ctx, KindBookingAdminNotice, "booking", e.BookingID, msg)
}

func (s *Service) SendDemandDraftToCustomer(ctx context.Context, e DemandDraftEmail) error {
	msg := Message{
		To:       e.CustomerEmail,
		Subject:  e.Subject,
		Body:     e.HTMLContent,
		HTMLBody: true,
	}
	return s.deliver(ctx, KindDemandDraft, "demand_draft", e.DemandDraftID, msg)
}

// deliver sends m and records the attempt. The send error is returned; a failure
// to write the log row is only logged.
func (s *Service) deliver(ctx context.Context, kind Kind, refType string, refID int64, m Message) error {
	m.To = strings.TrimSpace(m.To)

	var sendErr error
	if m.To == "" {
		sendErr = ErrNoRecipient
	} else {
		sendErr = s.sender.Send(ctx, m)
	}

	row := &Notification{
		Kind:          kind,
		Channel:       ChannelEmail,
		Recipient:     m.To,
		Subject:       m.Subject,
		Body:          m.Body,
		Status:        StatusSent,
		ReferenceType: refType,
		ReferenceID:   refID,
	}
	if sendErr != nil {
		row.Status = StatusFailed
		row.Error = sendErr.Error()
	}

	if s.repo != nil {
		if err := s.repo.Create(ctx, row); err != nil {
			logger.LogError(s.log, "notification", "deliver", "record notification", row.Kind, err)
		}
	}
	return sendErr
}

// List returns logged notifications, newest first.
func (s *Service) List(ctx context.Context, f ListFilter) ([]Notification, int64, error) {
	if f.Limit <= 0 || f.Limit > 100 {
		f.Limit = 20
	}
	if f.Offset < 0 {
		f.Offset = 0
	}
	return s.repo.List(ctx, f)
}

// LogSender writes messages to the process log instead of a mail server.
type LogSender struct {
	log logrus.FieldLogger
}

func NewLogSender(log logrus.FieldLogger) *LogSender {
	return &LogSender{log: log}
}

func (l *LogSender) Send(_ context.Context, m Message) error {
	l.log.WithFields(logrus.Fields{
		"to":      m.To,
		"subject": m.Subject,
		"html":    m.HTMLBody,
	}).Info("email queued")
	return nil
}
