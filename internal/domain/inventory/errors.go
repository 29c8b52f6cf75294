package inventory

import "estatedesk/internal/pkg/apperr"

var (
	ErrPropertyNotFound = apperr.NotFound("PROPERTY_NOT_FOUND", "property not found")
	ErrTowerNotFound    = apperr.NotFound("TOWER_NOT_FOUND", "tower not found")
	ErrFlatNotFound     = apperr.NotFound("FLAT_NOT_FOUND", "flat not found")

	ErrFlatNumberRequired = apperr.BadRequest("FLAT_NUMBER_REQUIRED", "flat number is required")
	ErrInvalidFlatStatus  = apperr.BadRequest("INVALID_FLAT_STATUS", "invalid flat status")
	ErrNegativePrice      = apperr.BadRequest("NEGATIVE_PRICE", "prices must not be negative")
	ErrFinalAboveTotal    = apperr.BadRequest("FINAL_PRICE_ABOVE_TOTAL", "final price must not exceed total price")
	ErrAreaOrdering       = apperr.BadRequest("AREA_ORDERING", "carpet area <= built-up area <= super built-up area is required")
	ErrNegativeParking    = apperr.BadRequest("NEGATIVE_PARKING", "parking slots must not be negative")
	ErrTowerMismatch      = apperr.BadRequest("TOWER_PROPERTY_MISMATCH", "tower does not belong to property")
	ErrFlatStatusLocked   = apperr.BadRequest("FLAT_STATUS_LOCKED", "booked or sold flats change status through bookings")
)
