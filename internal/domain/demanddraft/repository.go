package demanddraft

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

func (r *Repository) Create(ctx context.Context, d *DemandDraft) error {
	return r.db.WithContext(ctx).Create(d).Error
}

func (r *Repository) Save(ctx context.Context, d *DemandDraft) error {
	return r.db.WithContext(ctx).Save(d).Error
}

func (r *Repository) GetByID(ctx context.Context, id int64) (*DemandDraft, error) {
	return r.first(r.db.WithContext(ctx), id)
}

func (r *Repository) GetForUpdate(ctx context.Context, id int64) (*DemandDraft, error) {
	return r.first(r.db.WithContext(ctx).Clauses(clause.Locking{Strength: "UPDATE"}), id)
}

func (r *Repository) first(q *gorm.DB, id int64) (*DemandDraft, error) {
	var d DemandDraft
	if err := q.First(&d, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrDraftNotFound
		}
		return nil, err
	}
	return &d, nil
}

type ListFilter struct {
	Status    Status
	FlatID    int64
	BookingID int64
	Limit     int
	Offset    int
}

func (r *Repository) List(ctx context.Context, f ListFilter) ([]DemandDraft, int64, error) {
	q := r.db.WithContext(ctx).Model(&DemandDraft{})
	if f.Status != "" {
		q = q.Where("status = ?", f.Status)
	}
	if f.FlatID > 0 {
		q = q.Where("flat_id = ?", f.FlatID)
	}
	if f.BookingID > 0 {
		q = q.Where("booking_id = ?", f.BookingID)
	}

	var total int64
	if err := q.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var rows []DemandDraft
	err := q.Order("id DESC").Limit(f.Limit).Offset(f.Offset).Find(&rows).Error
	return rows, total, err
}
