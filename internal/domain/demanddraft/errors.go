package demanddraft

import "estatedesk/internal/pkg/apperr"

var (
	ErrDraftNotFound    = apperr.NotFound("DEMAND_DRAFT_NOT_FOUND", "demand draft not found")
	ErrTemplateNotFound = apperr.NotFound("DEMAND_DRAFT_TEMPLATE_NOT_FOUND", "no active demand draft template")
	ErrDraftNotReady    = apperr.BadRequest("DEMAND_DRAFT_NOT_READY", "demand draft must be in READY status to send")
	ErrDraftAlreadySent = apperr.BadRequest("DEMAND_DRAFT_ALREADY_SENT", "demand draft has already been sent")
)
