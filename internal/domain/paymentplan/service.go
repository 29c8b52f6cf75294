package paymentplan

import (
	"context"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"estatedesk/internal/database"
	"estatedesk/internal/pkg/logger"
	"estatedesk/internal/pkg/validator"
)

type GenerateInput struct {
	BookingID     int64
	BookingNumber string
	FlatID        int64
	CustomerID    int64
	TotalAmount   decimal.Decimal
	TokenAmount   decimal.Decimal
	PlanType      string
	BookingDate   time.Time
	ActorID       int64
}

// MilestonePatch carries the fields a caller may change on one milestone.
type MilestonePatch struct {
	Status                 *MilestoneStatus `json:"status"`
	PaymentScheduleID      *int64           `json:"payment_schedule_id"`
	DemandDraftID          *int64           `json:"demand_draft_id"`
	ConstructionProgressID *int64           `json:"construction_progress_id"`
	TriggeredAt            *time.Time       `json:"triggered_at"`
	DueDate                *time.Time       `json:"due_date"`

	// PhaseProgress is the recorded percentage for the milestone's phase, read
	// by the caller under the plan lock. Required to move a phase-linked
	// milestone to TRIGGERED.
	PhaseProgress *decimal.Decimal `json:"-"`
}

type CreateTemplateRequest struct {
	Name        string              `json:"name" validate:"required,max=255"`
	PlanType    string              `json:"plan_type" validate:"required,max=64"`
	Description string              `json:"description"`
	IsDefault   bool                `json:"is_default"`
	Milestones  []TemplateMilestone `json:"milestones" validate:"required,min=1"`
}

type Service struct {
	db        *gorm.DB
	plans     *Repository
	templates *TemplateRepository
	log       logrus.FieldLogger
	now       func() time.Time
}

func NewService(db *gorm.DB, plans *Repository, templates *TemplateRepository, log logrus.FieldLogger) *Service {
	if log == nil {
		log = logger.Discard()
	}
	return &Service{db: db, plans: plans, templates: templates, log: log, now: time.Now}
}

// GenerateScheduleForBooking instantiates a plan for a new booking inside tx.
func (s *Service) GenerateScheduleForBooking(ctx context.Context, tx *gorm.DB, in GenerateInput) (*FlatPaymentPlan, error) {
	if in.TotalAmount.IsNegative() || in.TokenAmount.IsNegative() || in.TokenAmount.GreaterThan(in.TotalAmount) {
		return nil, ErrInvalidAmounts
	}

	tmpl, err := s.templates.WithTx(tx).Select(ctx, in.PlanType)
	if err != nil {
		return nil, err
	}

	plan := &FlatPaymentPlan{
		BookingID:     in.BookingID,
		BookingNumber: in.BookingNumber,
		FlatID:        in.FlatID,
		CustomerID:    in.CustomerID,
		TemplateID:    tmpl.ID,
		PlanType:      tmpl.PlanType,
		TotalAmount:   in.TotalAmount,
		PaidAmount:    in.TokenAmount,
		BalanceAmount: in.TotalAmount.Sub(in.TokenAmount),
		Milestones:    SeedDueDates(BuildMilestones(tmpl.Milestones, in.TotalAmount), in.BookingDate),
		Version:       1,
		IsActive:      true,
		CreatedBy:     in.ActorID,
	}
	if err := s.plans.WithTx(tx).Create(ctx, plan); err != nil {
		return nil, err
	}

	s.log.WithFields(logrus.Fields{
		"plan_id":    plan.ID,
		"booking_id": in.BookingID,
		"template":   tmpl.PlanType,
		"milestones": len(plan.Milestones),
	}).Info("payment plan generated")

	return plan, nil
}

func (s *Service) GetPlan(ctx context.Context, id int64) (*FlatPaymentPlan, error) {
	return s.plans.GetByID(ctx, id)
}

func (s *Service) GetPlanByBooking(ctx context.Context, bookingID int64) (*FlatPaymentPlan, error) {
	return s.plans.GetByBookingID(ctx, bookingID)
}

// UpdateMilestone applies patch to one milestone in its own transaction.
// TRIGGERED is refused here; only demand draft generation sets it.
func (s *Service) UpdateMilestone(ctx context.Context, planID int64, sequence int, patch MilestonePatch, actorID int64) (*FlatPaymentPlan, error) {
	if patch.Status != nil && *patch.Status == MilestoneTriggered {
		return nil, ErrTriggerNeedsDraft
	}
	patch.PhaseProgress = nil

	var plan *FlatPaymentPlan
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var err error
		plan, err = s.UpdateMilestoneTx(ctx, tx, planID, sequence, patch, actorID)
		return err
	})
	if err != nil {
		return nil, err
	}
	return plan, nil
}

// UpdateMilestoneTx rewrites the plan's milestone list inside tx. A concurrent
// writer that bumped the version first makes this return ErrPlanVersionConflict.
// Moving to TRIGGERED re-runs CheckTrigger against patch.PhaseProgress.
func (s *Service) UpdateMilestoneTx(ctx context.Context, tx *gorm.DB, planID int64, sequence int, patch MilestonePatch, actorID int64) (*FlatPaymentPlan, error) {
	repo := s.plans.WithTx(tx)
	plan, err := repo.GetByID(ctx, planID)
	if err != nil {
		return nil, err
	}

	idx, ok := plan.MilestoneIndex(sequence)
	if !ok {
		return nil, ErrMilestoneNotFound
	}

	if patch.Status != nil && *patch.Status == MilestoneTriggered && !plan.IsActive {
		return nil, ErrPlanInactive
	}

	milestones := make([]Milestone, len(plan.Milestones))
	copy(milestones, plan.Milestones)
	if err := s.applyPatch(&milestones[idx], patch, actorID); err != nil {
		return nil, err
	}

	saved, err := repo.SaveMilestones(ctx, plan.ID, plan.Version, milestones)
	if err != nil {
		return nil, err
	}
	if !saved {
		return nil, ErrPlanVersionConflict
	}

	plan.Milestones = milestones
	plan.Version++
	return plan, nil
}

func (s *Service) applyPatch(m *Milestone, patch MilestonePatch, actorID int64) error {
	if patch.Status != nil && *patch.Status != m.Status {
		if !canTransition(m.Status, *patch.Status) {
			return ErrInvalidMilestoneStatus
		}
		if *patch.Status == MilestoneTriggered {
			if err := CheckTrigger(*m, patch.PhaseProgress); err != nil {
				return err
			}
		}
		now := s.now()
		switch *patch.Status {
		case MilestoneTriggered:
			at := now
			if patch.TriggeredAt != nil {
				at = *patch.TriggeredAt
			}
			actor := actorID
			m.TriggeredAt = &at
			m.TriggeredBy = &actor
		case MilestonePaid:
			m.PaidAt = &now
		}
		m.Status = *patch.Status
	}

	if patch.PaymentScheduleID != nil {
		m.PaymentScheduleID = patch.PaymentScheduleID
	}
	if patch.DemandDraftID != nil {
		m.DemandDraftID = patch.DemandDraftID
	}
	if patch.ConstructionProgressID != nil {
		m.ConstructionProgressID = patch.ConstructionProgressID
	}
	if patch.DueDate != nil {
		m.DueDate = patch.DueDate
	}
	return nil
}

// CreateTemplate validates and stores a reusable plan template.
func (s *Service) CreateTemplate(ctx context.Context, req *CreateTemplateRequest, actorID int64) (*Template, error) {
	if err := validator.Struct(req); err != nil {
		return nil, err
	}
	for i := range req.Milestones {
		req.Milestones[i].ConstructionPhase = strings.ToUpper(strings.TrimSpace(req.Milestones[i].ConstructionPhase))
	}
	if err := ValidateTemplateMilestones(req.Milestones); err != nil {
		return nil, err
	}

	tmpl := &Template{
		Name:        req.Name,
		PlanType:    strings.ToUpper(strings.TrimSpace(req.PlanType)),
		Description: req.Description,
		IsDefault:   req.IsDefault,
		IsActive:    true,
		Milestones:  req.Milestones,
		CreatedBy:   actorID,
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if tmpl.IsDefault {
			if err := tx.Model(&Template{}).Where("is_default = ?", true).Update("is_default", false).Error; err != nil {
				return err
			}
		}
		if err := s.templates.WithTx(tx).Create(ctx, tmpl); err != nil {
			if database.IsUniqueViolation(err) {
				return ErrTemplatePlanTypeConflict
			}
			return err
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return tmpl, nil
}

func (s *Service) ListTemplates(ctx context.Context) ([]Template, error) {
	return s.templates.ListActive(ctx)
}
