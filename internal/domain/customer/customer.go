package customer

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"estatedesk/internal/pkg/apperr"
)

var ErrCustomerNotFound = apperr.NotFound("CUSTOMER_NOT_FOUND", "customer not found")

type Customer struct {
	ID              int64      `json:"id" gorm:"primaryKey"`
	FullName        string     `json:"full_name" gorm:"size:255;not null"`
	Email           string     `json:"email" gorm:"size:255;index"`
	Phone           string     `json:"phone" gorm:"size:32"`
	Address         string     `json:"address" gorm:"type:text"`
	PAN             string     `json:"pan,omitempty" gorm:"size:16"`
	LastBookingDate *time.Time `json:"last_booking_date,omitempty"`
	IsActive        bool       `json:"is_active" gorm:"not null"`
	CreatedAt       time.Time  `json:"created_at"`
	UpdatedAt       time.Time  `json:"updated_at"`
}

func (Customer) TableName() string { return "customers" }

type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

func (r *Repository) WithTx(tx *gorm.DB) *Repository {
	return &Repository{db: tx}
}

func (r *Repository) Create(ctx context.Context, c *Customer) error {
	return r.db.WithContext(ctx).Create(c).Error
}

func (r *Repository) GetByID(ctx context.Context, id int64) (*Customer, error) {
	var c Customer
	if err := r.db.WithContext(ctx).First(&c, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCustomerNotFound
		}
		return nil, err
	}
	return &c, nil
}

func (r *Repository) TouchLastBookingDate(ctx context.Context, id int64, at time.Time) error {
	return r.db.WithContext(ctx).Model(&Customer{}).Where("id = ?", id).Update("last_booking_date", at).Error
}
