package paymentplan

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
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

func (r *Repository) Create(ctx context.Context, p *FlatPaymentPlan) error {
	return r.db.WithContext(ctx).Create(p).Error
}

func (r *Repository) GetByID(ctx context.Context, id int64) (*FlatPaymentPlan, error) {
	return r.first(r.db.WithContext(ctx).Where("id = ?", id))
}

// GetForUpdate row-locks the plan so its milestone list can be rewritten safely.
func (r *Repository) GetForUpdate(ctx context.Context, id int64) (*FlatPaymentPlan, error) {
	return r.first(r.db.WithContext(ctx).Clauses(clause.Locking{Strength: "UPDATE"}).Where("id = ?", id))
}

func (r *Repository) GetByBookingID(ctx context.Context, bookingID int64) (*FlatPaymentPlan, error) {
	return r.first(r.db.WithContext(ctx).Where("booking_id = ?", bookingID))
}

func (r *Repository) first(q *gorm.DB) (*FlatPaymentPlan, error) {
	var p FlatPaymentPlan
	if err := q.First(&p).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPlanNotFound
		}
		return nil, err
	}
	return &p, nil
}

func (r *Repository) ListActive(ctx context.Context) ([]FlatPaymentPlan, error) {
	var plans []FlatPaymentPlan
	err := r.db.WithContext(ctx).Where("is_active = ?", true).Order("id").Find(&plans).Error
	return plans, err
}

func (r *Repository) ListActiveByFlat(ctx context.Context, flatID int64) ([]FlatPaymentPlan, error) {
	var plans []FlatPaymentPlan
	err := r.db.WithContext(ctx).Where("is_active = ? AND flat_id = ?", true, flatID).Order("id").Find(&plans).Error
	return plans, err
}

// SaveMilestones writes the whole milestone list if the plan is still at
// expectedVersion. ok is false when another writer got there first.
func (r *Repository) SaveMilestones(ctx context.Context, planID int64, expectedVersion int, milestones []Milestone) (bool, error) {
	res := r.db.WithContext(ctx).Model(&FlatPaymentPlan{}).
		Where("id = ? AND version = ?", planID, expectedVersion).
		Updates(map[string]interface{}{
			"milestones": datatypes.JSONSlice[Milestone](milestones),
			"version":    expectedVersion + 1,
			"updated_at": time.Now(),
		})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected == 1, nil
}

func (r *Repository) AddPayment(ctx context.Context, bookingID int64, amount decimal.Decimal) error {
	return r.db.WithContext(ctx).Model(&FlatPaymentPlan{}).
		Where("booking_id = ?", bookingID).
		Updates(map[string]interface{}{
			"paid_amount":    gorm.Expr("paid_amount + ?", amount),
			"balance_amount": gorm.Expr("balance_amount - ?", amount),
		}).Error
}

func (r *Repository) Deactivate(ctx context.Context, bookingID int64) error {
	return r.db.WithContext(ctx).Model(&FlatPaymentPlan{}).
		Where("booking_id = ?", bookingID).
		Update("is_active", false).Error
}

type TemplateRepository struct {
	db *gorm.DB
}

func NewTemplateRepository(db *gorm.DB) *TemplateRepository {
	return &TemplateRepository{db: db}
}

func (r *TemplateRepository) WithTx(tx *gorm.DB) *TemplateRepository {
	return &TemplateRepository{db: tx}
}

func (r *TemplateRepository) Create(ctx context.Context, t *Template) error {
	return r.db.WithContext(ctx).Create(t).Error
}

func (r *TemplateRepository) ListActive(ctx context.Context) ([]Template, error) {
	var ts []Template
	err := r.db.WithContext(ctx).Where("is_active = ?", true).Order("id").Find(&ts).Error
	return ts, err
}

// Select picks the active template for planType, falling back to the default
// template and then to the oldest active one.
func (r *TemplateRepository) Select(ctx context.Context, planType string) (*Template, error) {
	var t Template
	planType = strings.ToUpper(strings.TrimSpace(planType))
	q := r.db.WithContext(ctx).Where("is_active = ?", true)

	if planType != "" {
		err := q.Session(&gorm.Session{}).Where("plan_type = ?", planType).First(&t).Error
		if err == nil {
			return &t, nil
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, err
		}
	}

	err := q.Session(&gorm.Session{}).Order("is_default DESC").Order("id").First(&t).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTemplateNotFound
		}
		return nil, err
	}
	return &t, nil
}
