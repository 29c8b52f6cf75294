package notification

import (
	"context"
	"time"

	"gorm.io/gorm"
)

type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

func (r *Repository) Create(ctx context.Context, n *Notification) error {
	return r.db.WithContext(ctx).Create(n).Error
}

type ListFilter struct {
	ReferenceType string
	ReferenceID   int64
	Status        Status
	Limit         int
	Offset        int
}

func (r *Repository) List(ctx context.Context, f ListFilter) ([]Notification, int64, error) {
	q := r.db.WithContext(ctx).Model(&Notification{})
	if f.ReferenceType != "" {
		q = q.Where("reference_type = ?", f.ReferenceType)
	}
	if f.ReferenceID > 0 {
		q = q.Where("reference_id = ?", f.ReferenceID)
	}
	if f.Status != "" {
		q = q.Where("status = ?", f.Status)
	}

	var total int64
	if err := q.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var rows []Notification
	err := q.Order("created_at DESC, id DESC").Limit(f.Limit).Offset(f.Offset).Find(&rows).Error
	return rows, total, err
}

// DeleteOlderThan removes log rows created before now-age.
func (r *Repository) DeleteOlderThan(ctx context.Context, age time.Duration) (int64, error) {
	res := r.db.WithContext(ctx).Where("created_at < ?", time.Now().Add(-age)).Delete(&Notification{})
	return res.RowsAffected, res.Error
}
