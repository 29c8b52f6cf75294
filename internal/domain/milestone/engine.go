package milestone

import (
	"context"
	"errors"
	"sort"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"estatedesk/internal/domain/construction"
	"estatedesk/internal/domain/paymentplan"
	"estatedesk/internal/pkg/logger"
)

// PlanReader is the part of the plan store detection needs.
type PlanReader interface {
	GetByID(ctx context.Context, id int64) (*paymentplan.FlatPaymentPlan, error)
	ListActive(ctx context.Context) ([]paymentplan.FlatPaymentPlan, error)
	ListActiveByFlat(ctx context.Context, flatID int64) ([]paymentplan.FlatPaymentPlan, error)
}

// ProgressReader is the part of the construction store detection needs.
type ProgressReader interface {
	GetByFlatAndPhase(ctx context.Context, flatID int64, phase string) (*construction.FlatProgress, error)
	ListByFlat(ctx context.Context, flatID int64) ([]construction.FlatProgress, error)
	ListByFlats(ctx context.Context, flatIDs []int64) ([]construction.FlatProgress, error)
}

// Match is a PENDING milestone whose construction phase has reached its threshold.
type Match struct {
	Plan              paymentplan.FlatPaymentPlan `json:"plan"`
	MilestoneSequence int                         `json:"milestone_sequence"`
	MilestoneName     string                      `json:"milestone_name"`
	Amount            decimal.Decimal             `json:"amount"`
	Progress          construction.FlatProgress   `json:"progress"`
}

type Engine struct {
	plans    PlanReader
	progress ProgressReader
	log      logrus.FieldLogger
}

func NewEngine(plans PlanReader, progress ProgressReader, log logrus.FieldLogger) *Engine {
	if log == nil {
		log = logger.Discard()
	}
	return &Engine{plans: plans, progress: progress, log: log}
}

// DetectMilestones scans every active plan. Detection only reads; nothing is written.
func (e *Engine) DetectMilestones(ctx context.Context) ([]Match, error) {
	plans, err := e.plans.ListActive(ctx)
	if err != nil {
		return nil, err
	}
	return e.detect(ctx, plans)
}

func (e *Engine) DetectMilestonesForFlat(ctx context.Context, flatID int64) ([]Match, error) {
	plans, err := e.plans.ListActiveByFlat(ctx, flatID)
	if err != nil {
		return nil, err
	}
	return e.detect(ctx, plans)
}

func (e *Engine) detect(ctx context.Context, plans []paymentplan.FlatPaymentPlan) ([]Match, error) {
	if len(plans) == 0 {
		return nil, nil
	}

	flatIDs := make([]int64, 0, len(plans))
	seen := make(map[int64]bool, len(plans))
	for _, p := range plans {
		if !seen[p.FlatID] {
			seen[p.FlatID] = true
			flatIDs = append(flatIDs, p.FlatID)
		}
	}

	rows, err := e.progress.ListByFlats(ctx, flatIDs)
	if err != nil {
		return nil, err
	}
	index := make(map[progressKey]construction.FlatProgress, len(rows))
	for _, r := range rows {
		index[progressKey{flatID: r.FlatID, phase: r.Phase}] = r
	}

	var matches []Match
	for _, plan := range plans {
		for _, m := range plan.Milestones {
			row, ok := index[progressKey{flatID: plan.FlatID, phase: m.ConstructionPhase}]
			if !eligible(m, row, ok) {
				continue
			}
			matches = append(matches, Match{
				Plan:              plan,
				MilestoneSequence: m.Sequence,
				MilestoneName:     m.Name,
				Amount:            m.Amount,
				Progress:          row,
			})
		}
	}

	sort.SliceStable(matches, func(i, j int) bool {
		if matches[i].Plan.ID != matches[j].Plan.ID {
			return matches[i].Plan.ID < matches[j].Plan.ID
		}
		return matches[i].MilestoneSequence < matches[j].MilestoneSequence
	})

	e.log.WithFields(logrus.Fields{
		"plans":   len(plans),
		"matches": len(matches),
	}).Debug("milestone detection finished")

	return matches, nil
}

// CanTriggerMilestone answers with the same rule the scan applies, so inactive
// plans are never triggerable.
func (e *Engine) CanTriggerMilestone(ctx context.Context, planID int64, sequence int) (bool, error) {
	plan, err := e.plans.GetByID(ctx, planID)
	if err != nil {
		return false, err
	}
	idx, ok := plan.MilestoneIndex(sequence)
	if !ok {
		return false, paymentplan.ErrMilestoneNotFound
	}
	m := plan.Milestones[idx]
	if !plan.IsActive || m.ConstructionPhase == "" {
		return false, nil
	}

	row, err := e.progress.GetByFlatAndPhase(ctx, plan.FlatID, m.ConstructionPhase)
	if err != nil {
		if errors.Is(err, construction.ErrProgressNotFound) {
			return false, nil
		}
		return false, err
	}
	return eligible(m, *row, true), nil
}

type progressKey struct {
	flatID int64
	phase  string
}

// eligible: PENDING, phase-bound, progress recorded and at or above the threshold.
func eligible(m paymentplan.Milestone, row construction.FlatProgress, found bool) bool {
	if m.ConstructionPhase == "" || !found {
		return false
	}
	pct := row.ProgressPercentage
	return paymentplan.CheckTrigger(m, &pct) == nil
}
