package booking

import (
	"context"
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
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

func (r *Repository) Create(ctx context.Context, b *Booking) error {
	return r.db.WithContext(ctx).Create(b).Error
}

func (r *Repository) Save(ctx context.Context, b *Booking) error {
	return r.db.WithContext(ctx).Save(b).Error
}

func (r *Repository) ExistsByNumber(ctx context.Context, number string) (bool, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&Booking{}).Where("booking_number = ?", number).Count(&n).Error
	return n > 0, err
}

func (r *Repository) GetByID(ctx context.Context, id int64) (*Booking, error) {
	return r.first(r.db.WithContext(ctx), id)
}

func (r *Repository) GetForUpdate(ctx context.Context, id int64) (*Booking, error) {
	return r.first(r.db.WithContext(ctx).Clauses(clause.Locking{Strength: "UPDATE"}), id)
}

func (r *Repository) first(q *gorm.DB, id int64) (*Booking, error) {
	var b Booking
	if err := q.First(&b, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrBookingNotFound
		}
		return nil, err
	}
	return &b, nil
}

func (r *Repository) List(ctx context.Context, f ListFilter) ([]Booking, int64, error) {
	q := r.db.WithContext(ctx).Model(&Booking{})
	if f.Status != "" {
		q = q.Where("status = ?", f.Status)
	}
	if f.CustomerID > 0 {
		q = q.Where("customer_id = ?", f.CustomerID)
	}
	if f.PropertyID > 0 {
		q = q.Where("property_id = ?", f.PropertyID)
	}
	if f.FlatID > 0 {
		q = q.Where("flat_id = ?", f.FlatID)
	}
	if f.ActiveOnly {
		q = q.Where("is_active = ?", true)
	}

	var total int64
	if err := q.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var rows []Booking
	err := q.Order("booking_date DESC, id DESC").Limit(f.Limit).Offset(f.Offset).Find(&rows).Error
	return rows, total, err
}
