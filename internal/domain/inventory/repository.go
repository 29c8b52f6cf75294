package inventory

import (
	"context"
	"errors"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// WithTx binds the repository to an open transaction.
func (r *Repository) WithTx(tx *gorm.DB) *Repository {
	return &Repository{db: tx}
}

func (r *Repository) CreateProperty(ctx context.Context, p *Property) error {
	return r.db.WithContext(ctx).Create(p).Error
}

func (r *Repository) GetProperty(ctx context.Context, id int64) (*Property, error) {
	var p Property
	if err := r.db.WithContext(ctx).First(&p, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPropertyNotFound
		}
		return nil, err
	}
	return &p, nil
}

func (r *Repository) CreateTower(ctx context.Context, t *Tower) error {
	return r.db.WithContext(ctx).Create(t).Error
}

func (r *Repository) GetTower(ctx context.Context, id int64) (*Tower, error) {
	var t Tower
	if err := r.db.WithContext(ctx).First(&t, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTowerNotFound
		}
		return nil, err
	}
	return &t, nil
}

func (r *Repository) CreateFlat(ctx context.Context, f *Flat) error {
	return r.db.WithContext(ctx).Create(f).Error
}

func (r *Repository) SaveFlat(ctx context.Context, f *Flat) error {
	return r.db.WithContext(ctx).Save(f).Error
}

func (r *Repository) GetFlat(ctx context.Context, id int64) (*Flat, error) {
	return r.getFlat(r.db.WithContext(ctx), id)
}

// GetFlatForUpdate reads the flat with a row lock held until the transaction ends.
func (r *Repository) GetFlatForUpdate(ctx context.Context, id int64) (*Flat, error) {
	return r.getFlat(r.db.WithContext(ctx).Clauses(clause.Locking{Strength: "UPDATE"}), id)
}

func (r *Repository) getFlat(q *gorm.DB, id int64) (*Flat, error) {
	var f Flat
	if err := q.First(&f, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrFlatNotFound
		}
		return nil, err
	}
	return &f, nil
}

func (r *Repository) ListFlatsByTower(ctx context.Context, towerID int64) ([]Flat, error) {
	var flats []Flat
	err := r.db.WithContext(ctx).Where("tower_id = ?", towerID).Order("floor, flat_number").Find(&flats).Error
	return flats, err
}

// MarkFlatBooked flips a flat to BOOKED and attaches the booking.
func (r *Repository) MarkFlatBooked(ctx context.Context, flatID, customerID, bookingID int64, bookingDate time.Time, token decimal.Decimal) error {
	return r.db.WithContext(ctx).Model(&Flat{}).Where("id = ?", flatID).Updates(map[string]interface{}{
		"status":       FlatBooked,
		"is_available": false,
		"customer_id":  customerID,
		"booking_id":   bookingID,
		"booking_date": bookingDate,
		"token_amount": token,
	}).Error
}

// ReleaseFlat returns a flat to AVAILABLE and clears its booking linkage.
func (r *Repository) ReleaseFlat(ctx context.Context, flatID int64) error {
	return r.db.WithContext(ctx).Model(&Flat{}).Where("id = ?", flatID).Updates(map[string]interface{}{
		"status":       FlatAvailable,
		"is_available": true,
		"customer_id":  nil,
		"booking_id":   nil,
		"booking_date": nil,
		"token_amount": decimal.Zero,
	}).Error
}

// MoveUnits shifts delta units from available to booked on the property and the
// tower. A negative delta moves them back.
func (r *Repository) MoveUnits(ctx context.Context, propertyID, towerID int64, delta int) error {
	updates := map[string]interface{}{
		"available_units": gorm.Expr("available_units - ?", delta),
		"booked_units":    gorm.Expr("booked_units + ?", delta),
	}
	if err := r.db.WithContext(ctx).Model(&Property{}).Where("id = ?", propertyID).Updates(updates).Error; err != nil {
		return err
	}
	if towerID == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Model(&Tower{}).Where("id = ?", towerID).Updates(updates).Error
}

// AddUnits grows the total and available counters when new stock is listed.
func (r *Repository) AddUnits(ctx context.Context, propertyID, towerID int64, available bool) error {
	updates := map[string]interface{}{
		"total_units": gorm.Expr("total_units + 1"),
	}
	if available {
		updates["available_units"] = gorm.Expr("available_units + 1")
	}
	if err := r.db.WithContext(ctx).Model(&Property{}).Where("id = ?", propertyID).Updates(updates).Error; err != nil {
		return err
	}
	return r.db.WithContext(ctx).Model(&Tower{}).Where("id = ?", towerID).Updates(updates).Error
}
