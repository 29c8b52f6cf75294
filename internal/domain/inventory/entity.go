package inventory

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
)

type FlatStatus string

const (
	FlatAvailable         FlatStatus = "AVAILABLE"
	FlatOnHold            FlatStatus = "ON_HOLD"
	FlatBlocked           FlatStatus = "BLOCKED"
	FlatBooked            FlatStatus = "BOOKED"
	FlatSold              FlatStatus = "SOLD"
	FlatUnderConstruction FlatStatus = "UNDER_CONSTRUCTION"
)

func (s FlatStatus) Valid() bool {
	switch s {
	case FlatAvailable, FlatOnHold, FlatBlocked, FlatBooked, FlatSold, FlatUnderConstruction:
		return true
	}
	return false
}

type CompletenessStatus string

const (
	CompletenessNotStarted  CompletenessStatus = "NOT_STARTED"
	CompletenessInProgress  CompletenessStatus = "IN_PROGRESS"
	CompletenessNeedsReview CompletenessStatus = "NEEDS_REVIEW"
	CompletenessComplete    CompletenessStatus = "COMPLETE"
)

// Property is a development project. Unit counters are denormalized from its flats.
type Property struct {
	ID             int64     `json:"id" gorm:"primaryKey"`
	Name           string    `json:"name" gorm:"size:255;not null"`
	City           string    `json:"city" gorm:"size:128"`
	Address        string    `json:"address" gorm:"type:text"`
	TotalUnits     int       `json:"total_units" gorm:"not null;default:0"`
	AvailableUnits int       `json:"available_units" gorm:"not null;default:0"`
	BookedUnits    int       `json:"booked_units" gorm:"not null;default:0"`
	IsActive       bool      `json:"is_active" gorm:"not null"`
	CreatedBy      int64     `json:"created_by"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

func (Property) TableName() string { return "properties" }

type Tower struct {
	ID             int64     `json:"id" gorm:"primaryKey"`
	PropertyID     int64     `json:"property_id" gorm:"not null;index"`
	Name           string    `json:"name" gorm:"size:128;not null"`
	TotalFloors    int       `json:"total_floors"`
	TotalUnits     int       `json:"total_units" gorm:"not null;default:0"`
	AvailableUnits int       `json:"available_units" gorm:"not null;default:0"`
	BookedUnits    int       `json:"booked_units" gorm:"not null;default:0"`
	IsActive       bool      `json:"is_active" gorm:"not null"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

func (Tower) TableName() string { return "towers" }

type Flat struct {
	ID          int64      `json:"id" gorm:"primaryKey"`
	PropertyID  int64      `json:"property_id" gorm:"not null;index"`
	TowerID     int64      `json:"tower_id" gorm:"not null;index"`
	FlatNumber  string     `json:"flat_number" gorm:"size:32;not null"`
	Floor       int        `json:"floor"`
	Bedrooms    int        `json:"bedrooms"`
	Status      FlatStatus `json:"status" gorm:"size:32;not null;index;default:AVAILABLE"`
	IsAvailable bool       `json:"is_available" gorm:"not null"`

	BasePrice  decimal.Decimal `json:"base_price" gorm:"type:decimal(15,2);not null"`
	TotalPrice decimal.Decimal `json:"total_price" gorm:"type:decimal(15,2);not null"`
	FinalPrice decimal.Decimal `json:"final_price" gorm:"type:decimal(15,2);not null"`

	CarpetArea       decimal.Decimal `json:"carpet_area" gorm:"type:decimal(10,2);not null"`
	BuiltUpArea      decimal.Decimal `json:"built_up_area" gorm:"type:decimal(10,2);not null"`
	SuperBuiltUpArea decimal.Decimal `json:"super_built_up_area" gorm:"type:decimal(10,2);not null"`

	Facing       string                      `json:"facing" gorm:"size:32"`
	Amenities    datatypes.JSONSlice[string] `json:"amenities"`
	ParkingSlots int                         `json:"parking_slots" gorm:"not null;default:0"`

	CustomerID  *int64          `json:"customer_id,omitempty" gorm:"index"`
	BookingID   *int64          `json:"booking_id,omitempty" gorm:"index"`
	BookingDate *time.Time      `json:"booking_date,omitempty"`
	TokenAmount decimal.Decimal `json:"token_amount" gorm:"type:decimal(15,2);not null"`

	DataCompletionPct  int                `json:"data_completion_pct" gorm:"not null;default:0"`
	CompletenessStatus CompletenessStatus `json:"completeness_status" gorm:"size:32;not null;default:NOT_STARTED"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (Flat) TableName() string { return "flats" }

// Completeness scores the five listing facts at 20 points each.
func (f *Flat) Completeness() (int, CompletenessStatus) {
	facts := 0
	if f.CarpetArea.IsPositive() && f.BuiltUpArea.IsPositive() && f.SuperBuiltUpArea.IsPositive() {
		facts++
	}
	if f.TotalPrice.IsPositive() && f.FinalPrice.IsPositive() {
		facts++
	}
	if f.Facing != "" {
		facts++
	}
	if len(f.Amenities) > 0 {
		facts++
	}
	if f.ParkingSlots > 0 {
		facts++
	}

	pct := facts * 20
	switch {
	case pct == 0:
		return pct, CompletenessNotStarted
	case pct == 100:
		return pct, CompletenessComplete
	case pct >= 80:
		return pct, CompletenessNeedsReview
	default:
		return pct, CompletenessInProgress
	}
}

// RefreshCompleteness recomputes the stored completeness columns.
func (f *Flat) RefreshCompleteness() {
	f.DataCompletionPct, f.CompletenessStatus = f.Completeness()
}

// Validate checks the pricing and area ordering rules.
func (f *Flat) Validate() error {
	if f.FlatNumber == "" {
		return ErrFlatNumberRequired
	}
	if f.Status != "" && !f.Status.Valid() {
		return ErrInvalidFlatStatus
	}
	if f.BasePrice.IsNegative() || f.TotalPrice.IsNegative() || f.FinalPrice.IsNegative() {
		return ErrNegativePrice
	}
	if f.FinalPrice.GreaterThan(f.TotalPrice) {
		return ErrFinalAboveTotal
	}
	if f.BuiltUpArea.IsPositive() && f.CarpetArea.GreaterThan(f.BuiltUpArea) {
		return ErrAreaOrdering
	}
	if f.SuperBuiltUpArea.IsPositive() && f.BuiltUpArea.GreaterThan(f.SuperBuiltUpArea) {
		return ErrAreaOrdering
	}
	if f.ParkingSlots < 0 {
		return ErrNegativeParking
	}
	return nil
}
