package milestone

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"estatedesk/internal/database/dbtest"
	"estatedesk/internal/domain/construction"
	"estatedesk/internal/domain/paymentplan"
)

type fixture struct {
	engine   *Engine
	plans    *paymentplan.Repository
	progress *construction.Repository
	plan     *paymentplan.FlatPaymentPlan
}

func setup(t *testing.T) fixture {
	t.Helper()
	db := dbtest.Open(t, &paymentplan.FlatPaymentPlan{}, &construction.FlatProgress{})

	total := decimal.NewFromInt(1000000)
	plan := &paymentplan.FlatPaymentPlan{
		BookingID:   1,
		FlatID:      42,
		CustomerID:  7,
		TotalAmount: total,
		PaidAmount:  decimal.Zero,
		Milestones: paymentplan.BuildMilestones([]paymentplan.TemplateMilestone{
			{Sequence: 1, Name: "On booking", Percentage: decimal.NewFromInt(10)},
			{Sequence: 2, Name: "Foundation", Percentage: decimal.NewFromInt(30), ConstructionPhase: "FOUNDATION", PhasePercentage: decimal.NewFromInt(50)},
			{Sequence: 3, Name: "Plinth", Percentage: decimal.NewFromInt(60), ConstructionPhase: "PLINTH", PhasePercentage: decimal.NewFromInt(100)},
		}, total),
		BalanceAmount: total,
		Version:       1,
		IsActive:      true,
	}
	plans := paymentplan.NewRepository(db)
	require.NoError(t, plans.Create(context.Background(), plan))

	progress := construction.NewRepository(db)
	return fixture{engine: NewEngine(plans, progress, nil), plans: plans, progress: progress, plan: plan}
}

func (f fixture) record(t *testing.T, phase string, pct int64) {
	t.Helper()
	require.NoError(t, f.progress.Upsert(context.Background(), &construction.FlatProgress{
		FlatID:             f.plan.FlatID,
		Phase:              phase,
		ProgressPercentage: decimal.NewFromInt(pct),
	}))
}

func TestDetectRespectsThreshold(t *testing.T) {
	f := setup(t)
	ctx := context.Background()

	f.record(t, "FOUNDATION", 40)
	matches, err := f.engine.DetectMilestones(ctx)
	require.NoError(t, err)
	assert.Empty(t, matches)

	ok, err := f.engine.CanTriggerMilestone(ctx, f.plan.ID, 2)
	require.NoError(t, err)
	assert.False(t, ok)

	f.record(t, "FOUNDATION", 60)
	matches, err = f.engine.DetectMilestones(ctx)
	require.NoError(t, err)
	require.Len(t, matches, 1)
	assert.Equal(t, 2, matches[0].MilestoneSequence)
	assert.Equal(t, "Foundation", matches[0].MilestoneName)
	assert.True(t, matches[0].Amount.Equal(decimal.NewFromInt(300000)))
	assert.Equal(t, f.plan.ID, matches[0].Plan.ID)

	ok, err = f.engine.CanTriggerMilestone(ctx, f.plan.ID, 2)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestDetectSkipsTimeBasedAndTriggered(t *testing.T) {
	f := setup(t)
	ctx := context.Background()

	f.record(t, "FOUNDATION", 100)
	f.record(t, "PLINTH", 100)

	triggered := paymentplan.MilestoneTriggered
	milestones := append([]paymentplan.Milestone(nil), f.plan.Milestones...)
	milestones[1].Status = triggered
	saved, err := f.plans.SaveMilestones(ctx, f.plan.ID, f.plan.Version, milestones)
	require.NoError(t, err)
	require.True(t, saved)

	matches, err := f.engine.DetectMilestonesForFlat(ctx, f.plan.FlatID)
	require.NoError(t, err)
	require.Len(t, matches, 1)
	assert.Equal(t, 3, matches[0].MilestoneSequence)

	ok, err := f.engine.CanTriggerMilestone(ctx, f.plan.ID, 1)
	require.NoError(t, err)
	assert.False(t, ok, "time-based milestones are never auto-triggered")

	ok, err = f.engine.CanTriggerMilestone(ctx, f.plan.ID, 2)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestCanTriggerAgreesWithDetect(t *testing.T) {
	f := setup(t)
	ctx := context.Background()
	f.record(t, "FOUNDATION", 55)
	f.record(t, "PLINTH", 99)

	matches, err := f.engine.DetectMilestones(ctx)
	require.NoError(t, err)
	detected := map[int]bool{}
	for _, m := range matches {
		detected[m.MilestoneSequence] = true
	}

	for _, m := range f.plan.Milestones {
		ok, err := f.engine.CanTriggerMilestone(ctx, f.plan.ID, m.Sequence)
		require.NoError(t, err)
		assert.Equal(t, detected[m.Sequence], ok, "sequence %d", m.Sequence)
	}
}

func TestCanTriggerUnknownMilestone(t *testing.T) {
	f := setup(t)
	_, err := f.engine.CanTriggerMilestone(context.Background(), f.plan.ID, 99)
	assert.ErrorIs(t, err, paymentplan.ErrMilestoneNotFound)

	_, err = f.engine.CanTriggerMilestone(context.Background(), f.plan.ID+10, 1)
	assert.ErrorIs(t, err, paymentplan.ErrPlanNotFound)
}

func TestConstructionSummary(t *testing.T) {
	f := setup(t)
	ctx := context.Background()

	empty, err := f.engine.GetConstructionSummary(ctx, f.plan.FlatID)
	require.NoError(t, err)
	assert.True(t, empty.OverallProgress.IsZero())
	assert.Empty(t, empty.Phases)

	f.record(t, "FOUNDATION", 100)
	f.record(t, "PLINTH", 50)
	f.record(t, "STRUCTURE", 0)

	s, err := f.engine.GetConstructionSummary(ctx, f.plan.FlatID)
	require.NoError(t, err)
	assert.Equal(t, PhaseCompleted, s.Phases["FOUNDATION"].Status)
	assert.Equal(t, PhaseInProgress, s.Phases["PLINTH"].Status)
	assert.Equal(t, PhaseNotStarted, s.Phases["STRUCTURE"].Status)
	assert.Equal(t, "50", s.OverallProgress.String())
}

func TestInactivePlanIsNeitherDetectedNorTriggerable(t *testing.T) {
	f := setup(t)
	ctx := context.Background()
	f.record(t, "FOUNDATION", 60)

	ok, err := f.engine.CanTriggerMilestone(ctx, f.plan.ID, 2)
	require.NoError(t, err)
	require.True(t, ok)

	require.NoError(t, f.plans.Deactivate(ctx, f.plan.BookingID))

	matches, err := f.engine.DetectMilestones(ctx)
	require.NoError(t, err)
	assert.Empty(t, matches)

	ok, err = f.engine.CanTriggerMilestone(ctx, f.plan.ID, 2)
	require.NoError(t, err)
	assert.False(t, ok)
}
