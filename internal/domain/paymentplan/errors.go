package paymentplan

import (
	"fmt"

	"github.com/shopspring/decimal"

	"estatedesk/internal/pkg/apperr"
)

var (
	ErrPlanNotFound             = apperr.NotFound("PAYMENT_PLAN_NOT_FOUND", "payment plan not found")
	ErrTemplateNotFound         = apperr.NotFound("PAYMENT_PLAN_TEMPLATE_NOT_FOUND", "no active payment plan template")
	ErrMilestoneNotFound        = apperr.NotFound("MILESTONE_NOT_FOUND", "milestone not found in payment plan")
	ErrMilestoneNotPending      = apperr.BadRequest("MILESTONE_NOT_PENDING", "milestone is not PENDING")
	ErrMilestoneNotEligible     = apperr.BadRequest("MILESTONE_NOT_ELIGIBLE", "construction progress has not reached the milestone threshold")
	ErrInvalidMilestoneStatus   = apperr.BadRequest("INVALID_MILESTONE_TRANSITION", "invalid milestone status transition")
	ErrInvalidTemplate          = apperr.BadRequest("INVALID_PAYMENT_PLAN_TEMPLATE", "invalid payment plan template")
	ErrInvalidAmounts           = apperr.BadRequest("INVALID_PLAN_AMOUNTS", "token amount must be between zero and the total amount")
	ErrPlanInactive             = apperr.BadRequest("PAYMENT_PLAN_INACTIVE", "payment plan is no longer active")
	ErrTriggerNeedsDraft        = apperr.BadRequest("MILESTONE_TRIGGER_NEEDS_DEMAND_DRAFT", "milestones are triggered by generating a demand draft")
	ErrPlanVersionConflict      = apperr.Conflict("PAYMENT_PLAN_VERSION_CONFLICT", "payment plan was modified concurrently")
	ErrTemplatePlanTypeConflict = apperr.Conflict("PAYMENT_PLAN_TYPE_EXISTS", "a template with this plan type already exists")
)

// ThresholdError reports a construction phase that is short of a milestone's trigger.
type ThresholdError struct {
	Phase    string
	Required decimal.Decimal
	Actual   decimal.Decimal
}

func (e *ThresholdError) Error() string {
	return fmt.Sprintf("construction progress for %s is %s%%, milestone requires %s%%",
		e.Phase, e.Actual.StringFixed(2), e.Required.StringFixed(2))
}

func (e *ThresholdError) Unwrap() error {
	return ErrMilestoneNotEligible
}

func invalidTemplate(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalidTemplate, fmt.Sprintf(format, args...))
}
