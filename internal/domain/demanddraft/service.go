package demanddraft

import (
	"context"
	"errors"
	"time"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"estatedesk/internal/domain/construction"
	"estatedesk/internal/domain/customer"
	"estatedesk/internal/domain/inventory"
	"estatedesk/internal/domain/milestone"
	"estatedesk/internal/domain/notification"
	"estatedesk/internal/domain/payment"
	"estatedesk/internal/domain/paymentplan"
	"estatedesk/internal/metrics"
	"estatedesk/internal/pkg/distlock"
	"estatedesk/internal/pkg/logger"
	"estatedesk/internal/pkg/money"
	"estatedesk/internal/pkg/validator"
)

const defaultDueDays = 30

// Deps are the stores and collaborators the generator writes through.
type Deps struct {
	Drafts     *Repository
	Templates  *TemplateRepository
	Plans      *paymentplan.Repository
	PlanSvc    *paymentplan.Service
	Progress   *construction.Repository
	Schedules  *payment.Repository
	Customers  *customer.Repository
	Inventory  *inventory.Repository
	Engine     *milestone.Engine
	Mailer     notification.EmailService
	Dispatcher *notification.Dispatcher
	Locker     *distlock.Locker
}

type Options struct {
	Bank    BankDetails
	DueDays int
	Log     logrus.FieldLogger
}

type Service struct {
	db   *gorm.DB
	deps Deps
	bank BankDetails
	due  time.Duration
	log  logrus.FieldLogger
	now  func() time.Time
}

func NewService(db *gorm.DB, deps Deps, opts Options) *Service {
	if opts.Log == nil {
		opts.Log = logger.Discard()
	}
	if opts.DueDays <= 0 {
		opts.DueDays = defaultDueDays
	}
	if deps.Dispatcher == nil {
		deps.Dispatcher = notification.NewDispatcher(opts.Log, 0)
	}
	return &Service{
		db:   db,
		deps: deps,
		bank: opts.Bank,
		due:  time.Duration(opts.DueDays) * 24 * time.Hour,
		log:  opts.Log,
		now:  time.Now,
	}
}

// GenerateDemandDraft issues the draft and payment schedule for a detected milestone
// and moves the milestone to TRIGGERED, all in one transaction.
func (s *Service) GenerateDemandDraft(ctx context.Context, match milestone.Match, actorID int64) (*DemandDraft, error) {
	return s.generate(ctx, match, actorID, true)
}

func (s *Service) generate(ctx context.Context, match milestone.Match, actorID int64, auto bool) (*DemandDraft, error) {
	var draft *DemandDraft

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		plan, err := s.deps.Plans.WithTx(tx).GetForUpdate(ctx, match.Plan.ID)
		if err != nil {
			return err
		}
		if !plan.IsActive {
			return paymentplan.ErrPlanInactive
		}

		tmpl, err := s.deps.Templates.WithTx(tx).FindFirstActive(ctx)
		if err != nil {
			return err
		}

		idx, ok := plan.MilestoneIndex(match.MilestoneSequence)
		if !ok {
			return paymentplan.ErrMilestoneNotFound
		}
		m := plan.Milestones[idx]
		if m.Status != paymentplan.MilestonePending {
			return paymentplan.ErrMilestoneNotPending
		}

		// progress is re-read under the plan lock; the match may be stale
		row, err := phaseProgress(ctx, s.deps.Progress.WithTx(tx), plan.FlatID, m.ConstructionPhase)
		if err != nil {
			return err
		}
		var pct *decimal.Decimal
		if row != nil {
			v := row.ProgressPercentage
			pct = &v
		}
		if err := paymentplan.CheckTrigger(m, pct); err != nil {
			return err
		}

		now := s.now()
		dueDate := now.Add(s.due)

		schedule := &payment.Schedule{
			BookingID:            plan.BookingID,
			FlatPaymentPlanID:    plan.ID,
			MilestoneSequence:    m.Sequence,
			InstallmentNumber:    m.Sequence,
			TotalInstallments:    len(plan.Milestones),
			MilestoneName:        m.Name,
			MilestoneDescription: m.Description,
			DueDate:              dueDate,
			Amount:               m.Amount,
			Status:               payment.SchedulePending,
			CreatedBy:            actorID,
		}
		if err := s.deps.Schedules.WithTx(tx).CreateSchedule(ctx, schedule); err != nil {
			return err
		}

		data, err := s.templateData(ctx, tx, plan, m, now, dueDate)
		if err != nil {
			return err
		}
		rendered := Render(tmpl, data)

		draft = &DemandDraft{
			DraftNumber:       data.DraftNumber,
			FlatID:            plan.FlatID,
			CustomerID:        plan.CustomerID,
			BookingID:         plan.BookingID,
			FlatPaymentPlanID: plan.ID,
			MilestoneSequence: m.Sequence,
			MilestoneName:     m.Name,
			PaymentScheduleID: schedule.ID,
			TemplateID:        tmpl.ID,
			Amount:            m.Amount,
			DueDate:           dueDate,
			Status:            StatusDraft,
			Subject:           rendered.Subject,
			HTMLContent:       rendered.HTMLContent,
			TemplateData:      datatypes.NewJSONType(data),
			AutoGenerated:     auto,
			RequiresReview:    true,
			GeneratedAt:       now,
			GeneratedBy:       actorID,
		}
		if row != nil {
			progressID := row.ID
			draft.ConstructionProgressID = &progressID
		}
		if err := s.deps.Drafts.WithTx(tx).Create(ctx, draft); err != nil {
			return err
		}

		triggered := paymentplan.MilestoneTriggered
		patch := paymentplan.MilestonePatch{
			Status:                 &triggered,
			PaymentScheduleID:      &schedule.ID,
			DemandDraftID:          &draft.ID,
			ConstructionProgressID: draft.ConstructionProgressID,
			TriggeredAt:            &now,
			DueDate:                &dueDate,
			PhaseProgress:          pct,
		}
		if _, err := s.deps.PlanSvc.UpdateMilestoneTx(ctx, tx, plan.ID, m.Sequence, patch, actorID); err != nil {
			return err
		}

		if draft.ConstructionProgressID != nil {
			if err := s.deps.Progress.WithTx(tx).MarkMilestoneTriggered(ctx, *draft.ConstructionProgressID, draft.ID, schedule.ID, now); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	trigger := "manual"
	if auto {
		trigger = "auto"
	}
	metrics.DemandDraftsGenerated.WithLabelValues(trigger).Inc()
	s.log.WithFields(logrus.Fields{
		"draft_id":   draft.ID,
		"plan_id":    draft.FlatPaymentPlanID,
		"sequence":   draft.MilestoneSequence,
		"schedule":   draft.PaymentScheduleID,
		"trigger":    trigger,
		"amount":     draft.Amount.String(),
		"booking_id": draft.BookingID,
	}).Info("demand draft generated")

	return draft, nil
}

func (s *Service) templateData(ctx context.Context, tx *gorm.DB, plan *paymentplan.FlatPaymentPlan, m paymentplan.Milestone, issued, due time.Time) (TemplateData, error) {
	cust, err := s.deps.Customers.WithTx(tx).GetByID(ctx, plan.CustomerID)
	if err != nil {
		return TemplateData{}, err
	}
	inv := s.deps.Inventory.WithTx(tx)
	flat, err := inv.GetFlat(ctx, plan.FlatID)
	if err != nil {
		return TemplateData{}, err
	}
	property, err := inv.GetProperty(ctx, flat.PropertyID)
	if err != nil {
		return TemplateData{}, err
	}

	towerName := ""
	if flat.TowerID > 0 {
		tower, err := inv.GetTower(ctx, flat.TowerID)
		if err != nil && !errors.Is(err, inventory.ErrTowerNotFound) {
			return TemplateData{}, err
		}
		if tower != nil {
			towerName = tower.Name
		}
	}

	return TemplateData{
		DraftNumber:          payment.NewNumber("DD"),
		BookingNumber:        plan.BookingNumber,
		CustomerName:         cust.FullName,
		PropertyName:         property.Name,
		TowerName:            towerName,
		FlatNumber:           flat.FlatNumber,
		MilestoneName:        m.Name,
		MilestoneDescription: m.Description,
		Amount:               money.Format(m.Amount),
		AmountInWords:        money.InWords(m.Amount),
		DueDate:              due.Format("02 Jan 2006"),
		IssueDate:            issued.Format("02 Jan 2006"),
		Bank:                 s.bank,
	}, nil
}

// ManualGenerateDemandDraft re-checks eligibility before generating. Milestones
// without a construction phase may only be issued this way.
func (s *Service) ManualGenerateDemandDraft(ctx context.Context, planID int64, sequence int, actorID int64) (*DemandDraft, error) {
	plan, err := s.deps.Plans.GetByID(ctx, planID)
	if err != nil {
		return nil, err
	}
	if !plan.IsActive {
		return nil, paymentplan.ErrPlanInactive
	}
	idx, ok := plan.MilestoneIndex(sequence)
	if !ok {
		return nil, paymentplan.ErrMilestoneNotFound
	}
	m := plan.Milestones[idx]

	match := milestone.Match{
		Plan:              *plan,
		MilestoneSequence: m.Sequence,
		MilestoneName:     m.Name,
		Amount:            m.Amount,
	}

	row, err := phaseProgress(ctx, s.deps.Progress, plan.FlatID, m.ConstructionPhase)
	if err != nil {
		return nil, err
	}
	var pct *decimal.Decimal
	if row != nil {
		match.Progress = *row
		v := row.ProgressPercentage
		pct = &v
	}

	if err := paymentplan.CheckTrigger(m, pct); err != nil {
		return nil, err
	}
	return s.generate(ctx, match, actorID, false)
}

// phaseProgress returns the progress row for a phase-linked milestone, nil when
// the milestone is time-based or nothing was recorded yet.
func phaseProgress(ctx context.Context, repo *construction.Repository, flatID int64, phase string) (*construction.FlatProgress, error) {
	if phase == "" {
		return nil, nil
	}
	row, err := repo.GetByFlatAndPhase(ctx, flatID, phase)
	if errors.Is(err, construction.ErrProgressNotFound) {
		return nil, nil
	}
	return row, err
}

// ApproveDemandDraft marks a reviewed draft READY.
func (s *Service) ApproveDemandDraft(ctx context.Context, id, actorID int64) (*DemandDraft, error) {
	var draft *DemandDraft
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		repo := s.deps.Drafts.WithTx(tx)
		d, err := repo.GetForUpdate(ctx, id)
		if err != nil {
			return err
		}
		if d.Status == StatusSent {
			return ErrDraftAlreadySent
		}

		now := s.now()
		reviewer := actorID
		d.Status = StatusReady
		d.RequiresReview = false
		d.ReviewedAt = &now
		d.ReviewedBy = &reviewer
		if err := repo.Save(ctx, d); err != nil {
			return err
		}
		draft = d
		return nil
	})
	if err != nil {
		return nil, err
	}
	return draft, nil
}

// SendDemandDraft marks a READY draft SENT and emails it to the customer after commit.
func (s *Service) SendDemandDraft(ctx context.Context, id, actorID int64) (*DemandDraft, error) {
	var draft *DemandDraft
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		repo := s.deps.Drafts.WithTx(tx)
		d, err := repo.GetForUpdate(ctx, id)
		if err != nil {
			return err
		}
		if d.Status != StatusReady {
			return ErrDraftNotReady
		}

		now := s.now()
		sender := actorID
		d.Status = StatusSent
		d.SentAt = &now
		d.SentBy = &sender
		if err := repo.Save(ctx, d); err != nil {
			return err
		}
		draft = d
		return nil
	})
	if err != nil {
		return nil, err
	}

	if s.deps.Mailer != nil {
		sent := *draft
		s.deps.Dispatcher.Go(ctx, notification.KindDemandDraft, func(ctx context.Context) error {
			cust, err := s.deps.Customers.GetByID(ctx, sent.CustomerID)
			if err != nil {
				return err
			}
			return s.deps.Mailer.SendDemandDraftToCustomer(ctx, notification.DemandDraftEmail{
				DemandDraftID: sent.ID,
				DraftNumber:   sent.DraftNumber,
				CustomerName:  cust.FullName,
				CustomerEmail: cust.Email,
				Subject:       sent.Subject,
				HTMLContent:   sent.HTMLContent,
			})
		})
	}
	return draft, nil
}

func (s *Service) GetDemandDraft(ctx context.Context, id int64) (*DemandDraft, error) {
	return s.deps.Drafts.GetByID(ctx, id)
}

func (s *Service) ListDemandDrafts(ctx context.Context, f ListFilter) ([]DemandDraft, int64, error) {
	if f.Limit <= 0 || f.Limit > 100 {
		f.Limit = 20
	}
	if f.Offset < 0 {
		f.Offset = 0
	}
	return s.deps.Drafts.List(ctx, f)
}

func (s *Service) CreateTemplate(ctx context.Context, req *CreateTemplateRequest, actorID int64) (*Template, error) {
	if err := validator.Struct(req); err != nil {
		return nil, err
	}
	t := &Template{
		Name:        req.Name,
		Subject:     req.Subject,
		HTMLContent: req.HTMLContent,
		IsActive:    true,
		CreatedBy:   actorID,
	}
	if err := s.deps.Templates.Create(ctx, t); err != nil {
		return nil, err
	}
	return t, nil
}

func (s *Service) ListTemplates(ctx context.Context) ([]Template, error) {
	return s.deps.Templates.List(ctx)
}
