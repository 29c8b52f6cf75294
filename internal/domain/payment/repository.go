package payment

import (
	"context"

	"gorm.io/gorm"
)

type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

func (r *Repository) WithTx(tx *gorm.DB) *Repository {
	return &Repository{db: tx}
}

func (r *Repository) CreatePayment(ctx context.Context, p *Payment) error {
	return r.db.WithContext(ctx).Create(p).Error
}

func (r *Repository) ListPaymentsByBooking(ctx context.Context, bookingID int64) ([]Payment, error) {
	var rows []Payment
	err := r.db.WithContext(ctx).Where("booking_id = ?", bookingID).Order("payment_date, id").Find(&rows).Error
	return rows, err
}

func (r *Repository) CreateSchedule(ctx context.Context, s *Schedule) error {
	return r.db.WithContext(ctx).Create(s).Error
}

func (r *Repository) ListSchedulesByBooking(ctx context.Context, bookingID int64) ([]Schedule, error) {
	var rows []Schedule
	err := r.db.WithContext(ctx).Where("booking_id = ?", bookingID).Order("installment_number, id").Find(&rows).Error
	return rows, err
}
