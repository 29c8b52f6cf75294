package booking

import (
	"context"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"estatedesk/internal/database"
	"estatedesk/internal/domain/customer"
	"estatedesk/internal/domain/inventory"
	"estatedesk/internal/domain/notification"
	"estatedesk/internal/domain/payment"
	"estatedesk/internal/domain/paymentplan"
	"estatedesk/internal/metrics"
	"estatedesk/internal/pkg/logger"
	"estatedesk/internal/pkg/validator"
)

type Deps struct {
	Bookings   *Repository
	Inventory  *inventory.Repository
	Customers  *customer.Repository
	Payments   *payment.Repository
	Plans      *paymentplan.Repository
	Generator  PlanGenerator
	Mailer     notification.EmailService
	Dispatcher *notification.Dispatcher
}

type Service struct {
	db   *gorm.DB
	deps Deps
	log  logrus.FieldLogger
	now  func() time.Time
}

func NewService(db *gorm.DB, deps Deps, log logrus.FieldLogger) *Service {
	if log == nil {
		log = logger.Discard()
	}
	if deps.Dispatcher == nil {
		deps.Dispatcher = notification.NewDispatcher(log, 0)
	}
	return &Service{db: db, deps: deps, log: log, now: time.Now}
}

// CreateBooking books a flat for a customer in one transaction: booking row, flat
// status, token payment, payment plan, unit counters and the customer's last
// booking date. Plan generation runs under a savepoint and may fail without
// undoing the booking. Emails go out only after commit.
func (s *Service) CreateBooking(ctx context.Context, in CreateBookingInput) (*Result, error) {
	in.BookingNumber = strings.TrimSpace(in.BookingNumber)
	if err := validator.Struct(&in); err != nil {
		return nil, err
	}
	if !in.TotalAmount.IsPositive() || in.TokenAmount.IsNegative() || in.TokenAmount.GreaterThan(in.TotalAmount) {
		return nil, ErrInvalidAmounts
	}

	bookingDate := s.now()
	if in.BookingDate != nil {
		bookingDate = *in.BookingDate
	}

	res := &Result{}
	var email notification.BookingEmail

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		bookings := s.deps.Bookings.WithTx(tx)
		inv := s.deps.Inventory.WithTx(tx)

		exists, err := bookings.ExistsByNumber(ctx, in.BookingNumber)
		if err != nil {
			return err
		}
		if exists {
			return ErrBookingNumberExists
		}

		flat, err := inv.GetFlatForUpdate(ctx, in.FlatID)
		if err != nil {
			return err
		}
		if flat.Status != inventory.FlatAvailable {
			return ErrFlatNotAvailable
		}
		if flat.PropertyID != in.PropertyID {
			return ErrFlatPropertyMismatch
		}

		property, err := inv.GetProperty(ctx, in.PropertyID)
		if err != nil {
			return err
		}
		cust, err := s.deps.Customers.WithTx(tx).GetByID(ctx, in.CustomerID)
		if err != nil {
			return err
		}

		b := &Booking{
			BookingNumber:   in.BookingNumber,
			CustomerID:      cust.ID,
			FlatID:          flat.ID,
			PropertyID:      property.ID,
			TowerID:         flat.TowerID,
			Status:          StatusTokenPaid,
			PaymentPlanType: strings.ToUpper(strings.TrimSpace(in.PaymentPlanType)),
			TotalAmount:     in.TotalAmount,
			TokenAmount:     in.TokenAmount,
			PaidAmount:      in.TokenAmount,
			BalanceAmount:   in.TotalAmount.Sub(in.TokenAmount),
			BookingDate:     bookingDate,
			Remarks:         in.Remarks,
			IsActive:        true,
			CreatedBy:       in.ActorID,
		}
		if err := bookings.Create(ctx, b); err != nil {
			if database.IsUniqueViolation(err) {
				return ErrBookingNumberExists
			}
			return err
		}

		if err := inv.MarkFlatBooked(ctx, flat.ID, cust.ID, b.ID, bookingDate, in.TokenAmount); err != nil {
			return err
		}

		if in.TokenAmount.IsPositive() {
			if err := s.deps.Payments.WithTx(tx).CreatePayment(ctx, &payment.Payment{
				BookingID:   b.ID,
				CustomerID:  cust.ID,
				Amount:      in.TokenAmount,
				PaymentType: payment.TypeToken,
				PaymentMode: in.PaymentMode,
				PaymentDate: bookingDate,
				CreatedBy:   in.ActorID,
			}); err != nil {
				return err
			}
		}

		res.Plan, res.PlanError = s.generatePlan(ctx, tx, b, flat)

		if err := inv.MoveUnits(ctx, property.ID, flat.TowerID, 1); err != nil {
			return err
		}
		if err := s.deps.Customers.WithTx(tx).TouchLastBookingDate(ctx, cust.ID, bookingDate); err != nil {
			return err
		}

		res.Booking = b
		email = notification.BookingEmail{
			BookingID:     b.ID,
			BookingNumber: b.BookingNumber,
			CustomerName:  cust.FullName,
			CustomerEmail: cust.Email,
			PropertyName:  property.Name,
			FlatNumber:    flat.FlatNumber,
			TotalAmount:   b.TotalAmount,
			TokenAmount:   b.TokenAmount,
			BookingDate:   bookingDate,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	metrics.BookingsCreated.Inc()
	s.log.WithFields(logrus.Fields{
		"booking_id":     res.Booking.ID,
		"booking_number": res.Booking.BookingNumber,
		"flat_id":        res.Booking.FlatID,
		"plan_generated": res.Plan != nil,
	}).Info("booking created")

	s.notifyBookingCreated(ctx, email)
	return res, nil
}

// generatePlan runs the generator under a savepoint. A failure rolls back only the
// plan writes and is reported, not returned.
func (s *Service) generatePlan(ctx context.Context, tx *gorm.DB, b *Booking, flat *inventory.Flat) (*paymentplan.FlatPaymentPlan, string) {
	if s.deps.Generator == nil {
		return nil, ""
	}

	var plan *paymentplan.FlatPaymentPlan
	err := tx.Transaction(func(sp *gorm.DB) error {
		var err error
		plan, err = s.deps.Generator.GenerateScheduleForBooking(ctx, sp, paymentplan.GenerateInput{
			BookingID:     b.ID,
			BookingNumber: b.BookingNumber,
			FlatID:        flat.ID,
			CustomerID:    b.CustomerID,
			TotalAmount:   b.TotalAmount,
			TokenAmount:   b.TokenAmount,
			PlanType:      b.PaymentPlanType,
			BookingDate:   b.BookingDate,
			ActorID:       b.CreatedBy,
		})
		return err
	})
	if err != nil {
		metrics.PlanGenerationFailures.Inc()
		logger.LogWarn(s.log, "booking", "CreateBooking", "payment plan generation failed, booking kept",
			map[string]any{"booking_number": b.BookingNumber, "plan_type": b.PaymentPlanType}, err)
		return nil, err.Error()
	}
	return plan, ""
}

func (s *Service) notifyBookingCreated(ctx context.Context, e notification.BookingEmail) {
	if s.deps.Mailer == nil {
		return
	}
	s.deps.Dispatcher.Go(ctx, notification.KindBookingConfirmation, func(ctx context.Context) error {
		return s.deps.Mailer.SendBookingConfirmationToCustomer(ctx, e)
	})
	s.deps.Dispatcher.Go(ctx, notification.KindBookingAdminNotice, func(ctx context.Context) error {
		return s.deps.Mailer.SendBookingNotificationToAdmin(ctx, e)
	})
}

func (s *Service) GetBooking(ctx context.Context, id int64) (*Booking, error) {
	return s.deps.Bookings.GetByID(ctx, id)
}

func (s *Service) ListBookings(ctx context.Context, f ListFilter) ([]Booking, int64, error) {
	if f.Limit <= 0 || f.Limit > 100 {
		f.Limit = 20
	}
	if f.Offset < 0 {
		f.Offset = 0
	}
	return s.deps.Bookings.List(ctx, f)
}

// UpdateBooking applies a status move and/or a revised total. Balance is
// recomputed from what has been paid and may not go negative.
func (s *Service) UpdateBooking(ctx context.Context, id int64, req *UpdateBookingRequest) (*Booking, error) {
	var out *Booking
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		repo := s.deps.Bookings.WithTx(tx)
		b, err := repo.GetForUpdate(ctx, id)
		if err != nil {
			return err
		}
		if b.Status.Terminal() {
			return ErrBookingClosed
		}

		if req.Status != nil && *req.Status != b.Status {
			if !canMove(b.Status, *req.Status) {
				return ErrInvalidStatusTransition
			}
			b.Status = *req.Status
			if b.Status == StatusTransferred {
				b.IsActive = false
			}
		}
		if req.TotalAmount != nil {
			balance := req.TotalAmount.Sub(b.PaidAmount)
			if balance.IsNegative() {
				return ErrNegativeBalance
			}
			b.TotalAmount = *req.TotalAmount
			b.BalanceAmount = balance
		}
		if req.Remarks != nil {
			b.Remarks = *req.Remarks
		}

		if err := repo.Save(ctx, b); err != nil {
			return err
		}
		out = b
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// RecordPayment books an installment against the booking and its plan.
func (s *Service) RecordPayment(ctx context.Context, id int64, req *RecordPaymentRequest, actorID int64) (*payment.Payment, error) {
	if err := validator.Struct(req); err != nil {
		return nil, err
	}
	if !req.Amount.IsPositive() {
		return nil, ErrInvalidPaymentAmount
	}

	var p *payment.Payment
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		repo := s.deps.Bookings.WithTx(tx)
		b, err := repo.GetForUpdate(ctx, id)
		if err != nil {
			return err
		}
		if b.Status.Terminal() {
			return ErrBookingClosed
		}
		if req.Amount.GreaterThan(b.BalanceAmount) {
			return ErrOverpayment
		}

		paidAt := s.now()
		if req.PaymentDate != nil {
			paidAt = *req.PaymentDate
		}
		p = &payment.Payment{
			BookingID:   b.ID,
			CustomerID:  b.CustomerID,
			Amount:      req.Amount,
			PaymentType: payment.TypeInstallment,
			PaymentMode: req.PaymentMode,
			Reference:   req.Reference,
			PaymentDate: paidAt,
			Remarks:     req.Remarks,
			CreatedBy:   actorID,
		}
		if err := s.deps.Payments.WithTx(tx).CreatePayment(ctx, p); err != nil {
			return err
		}

		b.PaidAmount = b.PaidAmount.Add(req.Amount)
		b.BalanceAmount = b.TotalAmount.Sub(b.PaidAmount)
		if err := repo.Save(ctx, b); err != nil {
			return err
		}
		return s.deps.Plans.WithTx(tx).AddPayment(ctx, b.ID, req.Amount)
	})
	if err != nil {
		return nil, err
	}
	return p, nil
}

// CancelBooking releases the flat and reverses the counters. A refund, when
// given, is recorded as its own ledger row.
func (s *Service) CancelBooking(ctx context.Context, id int64, req *CancelBookingRequest, actorID int64) (*Booking, error) {
	if err := validator.Struct(req); err != nil {
		return nil, err
	}

	var out *Booking
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		repo := s.deps.Bookings.WithTx(tx)
		b, err := repo.GetForUpdate(ctx, id)
		if err != nil {
			return err
		}
		switch b.Status {
		case StatusCancelled:
			return ErrAlreadyCancelled
		case StatusCompleted, StatusTransferred:
			return ErrNotCancellable
		}
		if req.RefundAmount.IsNegative() || req.RefundAmount.GreaterThan(b.PaidAmount) {
			return ErrInvalidRefund
		}

		now := s.now()
		refund := req.RefundAmount
		b.Status = StatusCancelled
		b.CancellationReason = req.Reason
		b.CancellationDate = &now
		b.RefundAmount = &refund
		b.IsActive = false
		if err := repo.Save(ctx, b); err != nil {
			return err
		}

		inv := s.deps.Inventory.WithTx(tx)
		if err := inv.ReleaseFlat(ctx, b.FlatID); err != nil {
			return err
		}
		if err := inv.MoveUnits(ctx, b.PropertyID, b.TowerID, -1); err != nil {
			return err
		}
		if err := s.deps.Plans.WithTx(tx).Deactivate(ctx, b.ID); err != nil {
			return err
		}

		if refund.IsPositive() {
			if err := s.deps.Payments.WithTx(tx).CreatePayment(ctx, &payment.Payment{
				BookingID:   b.ID,
				CustomerID:  b.CustomerID,
				Amount:      refund,
				PaymentType: payment.TypeRefund,
				PaymentDate: now,
				Remarks:     req.Reason,
				CreatedBy:   actorID,
			}); err != nil {
				return err
			}
		}

		out = b
		return nil
	})
	if err != nil {
		return nil, err
	}

	metrics.BookingsCancelled.Inc()
	s.log.WithFields(logrus.Fields{
		"booking_id": out.ID,
		"refund":     decimalString(out.RefundAmount),
	}).Info("booking cancelled")
	return out, nil
}

func decimalString(d *decimal.Decimal) string {
	if d == nil {
		return "0"
	}
	return d.String()
}
