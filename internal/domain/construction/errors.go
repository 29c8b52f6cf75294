package construction

import "estatedesk/internal/pkg/apperr"

var (
	ErrProgressNotFound  = apperr.NotFound("PROGRESS_NOT_FOUND", "construction progress not found")
	ErrInvalidPercentage = apperr.BadRequest("INVALID_PROGRESS", "progress percentage must be between 0 and 100")
	ErrPhaseRequired     = apperr.BadRequest("PHASE_REQUIRED", "construction phase is required")
)
