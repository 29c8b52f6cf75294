package inventory

import "github.com/shopspring/decimal"

type CreatePropertyRequest struct {
	Name    string `json:"name" validate:"required,max=255"`
	City    string `json:"city" validate:"max=128"`
	Address string `json:"address"`
}

type CreateTowerRequest struct {
	PropertyID  int64  `json:"property_id" validate:"required"`
	Name        string `json:"name" validate:"required,max=128"`
	TotalFloors int    `json:"total_floors" validate:"gte=0"`
}

type CreateFlatRequest struct {
	PropertyID       int64           `json:"property_id" validate:"required"`
	TowerID          int64           `json:"tower_id" validate:"required"`
	FlatNumber       string          `json:"flat_number" validate:"required,max=32"`
	Floor            int             `json:"floor"`
	Bedrooms         int             `json:"bedrooms" validate:"gte=0"`
	Status           FlatStatus      `json:"status"`
	BasePrice        decimal.Decimal `json:"base_price"`
	TotalPrice       decimal.Decimal `json:"total_price"`
	FinalPrice       decimal.Decimal `json:"final_price"`
	CarpetArea       decimal.Decimal `json:"carpet_area"`
	BuiltUpArea      decimal.Decimal `json:"built_up_area"`
	SuperBuiltUpArea decimal.Decimal `json:"super_built_up_area"`
	Facing           string          `json:"facing" validate:"max=32"`
	Amenities        []string        `json:"amenities"`
	ParkingSlots     int             `json:"parking_slots" validate:"gte=0"`
}

// UpdateFlatRequest is a partial update; nil fields are left alone.
type UpdateFlatRequest struct {
	Floor            *int             `json:"floor"`
	Bedrooms         *int             `json:"bedrooms"`
	Status           *FlatStatus      `json:"status"`
	BasePrice        *decimal.Decimal `json:"base_price"`
	TotalPrice       *decimal.Decimal `json:"total_price"`
	FinalPrice       *decimal.Decimal `json:"final_price"`
	CarpetArea       *decimal.Decimal `json:"carpet_area"`
	BuiltUpArea      *decimal.Decimal `json:"built_up_area"`
	SuperBuiltUpArea *decimal.Decimal `json:"super_built_up_area"`
	Facing           *string          `json:"facing"`
	Amenities        []string         `json:"amenities"`
	ParkingSlots     *int             `json:"parking_slots"`
}
