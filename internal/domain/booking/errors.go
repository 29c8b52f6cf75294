package booking

import "estatedesk/internal/pkg/apperr"

var (
	ErrBookingNotFound         = apperr.NotFound("BOOKING_NOT_FOUND", "booking not found")
	ErrBookingNumberExists     = apperr.Conflict("BOOKING_NUMBER_EXISTS", "booking number already exists")
	ErrAlreadyCancelled        = apperr.Conflict("BOOKING_ALREADY_CANCELLED", "booking is already cancelled")
	ErrFlatNotAvailable        = apperr.BadRequest("FLAT_NOT_AVAILABLE", "flat is not available")
	ErrFlatPropertyMismatch    = apperr.BadRequest("FLAT_PROPERTY_MISMATCH", "flat does not belong to property")
	ErrInvalidAmounts          = apperr.BadRequest("INVALID_BOOKING_AMOUNTS", "total must be positive and token between zero and total")
	ErrInvalidStatusTransition = apperr.BadRequest("INVALID_STATUS_TRANSITION", "invalid booking status transition")
	ErrNegativeBalance         = apperr.BadRequest("NEGATIVE_BALANCE", "total amount is below the amount already paid")
	ErrInvalidPaymentAmount    = apperr.BadRequest("INVALID_PAYMENT_AMOUNT", "payment amount must be positive")
	ErrOverpayment             = apperr.BadRequest("OVERPAYMENT", "payment exceeds the outstanding balance")
	ErrInvalidRefund           = apperr.BadRequest("INVALID_REFUND", "refund must be between zero and the amount paid")
	ErrNotCancellable          = apperr.BadRequest("BOOKING_NOT_CANCELLABLE", "completed or transferred bookings cannot be cancelled")
	ErrBookingClosed           = apperr.BadRequest("BOOKING_CLOSED", "booking is cancelled or transferred")
)
