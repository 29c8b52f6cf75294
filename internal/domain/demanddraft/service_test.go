package demanddraft

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"estatedesk/internal/database/dbtest"
	"estatedesk/internal/domain/construction"
	"estatedesk/internal/domain/customer"
	"estatedesk/internal/domain/inventory"
	"estatedesk/internal/domain/milestone"
	"estatedesk/internal/domain/notification"
	"estatedesk/internal/domain/payment"
	"estatedesk/internal/domain/paymentplan"
)

type mockMailer struct {
	mock.Mock
}

func (m *mockMailer) SendBookingConfirmationToCustomer(ctx context.Context, e notification.BookingEmail) error {
	return m.Called(ctx, e).Error(0)
}

func (m *mockMailer) SendBookingNotificationToAdmin(ctx context.Context, e notification.BookingEmail) error {
	return m.Called(ctx, e).Error(0)
}

func (m *mockMailer) SendDemandDraftToCustomer(ctx context.Context, e notification.DemandDraftEmail) error {
	return m.Called(ctx, e).Error(0)
}

type fixture struct {
	db         *gorm.DB
	svc        *Service
	plans      *paymentplan.Repository
	progress   *construction.Repository
	schedules  *payment.Repository
	templates  *TemplateRepository
	engine     *milestone.Engine
	mailer     *mockMailer
	dispatcher *notification.Dispatcher
	plan       *paymentplan.FlatPaymentPlan
	customer   *customer.Customer
}

func setup(t *testing.T, withTemplate bool) *fixture {
	t.Helper()
	db := dbtest.Open(t,
		&inventory.Property{}, &inventory.Tower{}, &inventory.Flat{}, &customer.Customer{},
		&paymentplan.FlatPaymentPlan{}, &construction.FlatProgress{},
		&payment.Schedule{}, &DemandDraft{}, &Template{},
	)

	property := &inventory.Property{Name: "Green Acres", TotalUnits: 1}
	require.NoError(t, db.Create(property).Error)
	tower := &inventory.Tower{PropertyID: property.ID, Name: "Tower A", TotalUnits: 1}
	require.NoError(t, db.Create(tower).Error)
	flat := &inventory.Flat{PropertyID: property.ID, TowerID: tower.ID, FlatNumber: "A-101", Status: inventory.FlatBooked}
	require.NoError(t, db.Create(flat).Error)
	cust := &customer.Customer{FullName: "Asha Rao", Email: "asha@example.com", IsActive: true}
	require.NoError(t, db.Create(cust).Error)

	total := decimal.NewFromInt(1000000)
	plan := &paymentplan.FlatPaymentPlan{
		BookingID:     11,
		BookingNumber: "BK-0011",
		FlatID:        flat.ID,
		CustomerID:    cust.ID,
		TotalAmount:   total,
		PaidAmount:    decimal.Zero,
		BalanceAmount: total,
		Milestones: paymentplan.BuildMilestones([]paymentplan.TemplateMilestone{
			{Sequence: 1, Name: "On agreement", Percentage: decimal.NewFromInt(10)},
			{Sequence: 2, Name: "Foundation", Description: "On completion of foundation", Percentage: decimal.NewFromInt(30), ConstructionPhase: "FOUNDATION", PhasePercentage: decimal.NewFromInt(50)},
			{Sequence: 3, Name: "Possession", Percentage: decimal.NewFromInt(60), ConstructionPhase: "POSSESSION", PhasePercentage: decimal.NewFromInt(100)},
		}, total),
		Version:  1,
		IsActive: true,
	}
	plans := paymentplan.NewRepository(db)
	require.NoError(t, plans.Create(context.Background(), plan))

	templates := NewTemplateRepository(db)
	if withTemplate {
		require.NoError(t, templates.Create(context.Background(), &Template{
			Name:        "Standard demand",
			Subject:     "Demand {{draft_number}} for flat {{flat_number}}",
			HTMLContent: "<p>Dear {{customer_name}}, {{milestone_name}} of {{tower_name}} {{flat_number}} is due: Rs. {{amount}} ({{amount_in_words}}) by {{due_date}}. Pay to {{account_number}} / {{ifsc_code}}.</p>",
			IsActive:    true,
		}))
	}

	progress := construction.NewRepository(db)
	schedules := payment.NewRepository(db)
	engine := milestone.NewEngine(plans, progress, nil)
	mailer := &mockMailer{}
	dispatcher := notification.NewDispatcher(nil, time.Second)

	svc := NewService(db, Deps{
		Drafts:     NewRepository(db),
		Templates:  templates,
		Plans:      plans,
		PlanSvc:    paymentplan.NewService(db, plans, paymentplan.NewTemplateRepository(db), nil),
		Progress:   progress,
		Schedules:  schedules,
		Customers:  customer.NewRepository(db),
		Inventory:  inventory.NewRepository(db),
		Engine:     engine,
		Mailer:     mailer,
		Dispatcher: dispatcher,
	}, Options{
		Bank:    BankDetails{BankName: "State Bank", AccountNumber: "001122334455", IFSC: "SBIN0000001"},
		DueDays: 30,
	})

	return &fixture{
		db: db, svc: svc, plans: plans, progress: progress, schedules: schedules, templates: templates,
		engine: engine, mailer: mailer, dispatcher: dispatcher, plan: plan, customer: cust,
	}
}

func (f *fixture) record(t *testing.T, phase string, pct int64) {
	t.Helper()
	require.NoError(t, f.progress.Upsert(context.Background(), &construction.FlatProgress{
		FlatID:             f.plan.FlatID,
		Phase:              phase,
		ProgressPercentage: decimal.NewFromInt(pct),
	}))
}

func (f *fixture) detectOne(t *testing.T) milestone.Match {
	t.Helper()
	matches, err := f.engine.DetectMilestones(context.Background())
	require.NoError(t, err)
	require.Len(t, matches, 1)
	return matches[0]
}

func TestGenerateDemandDraft(t *testing.T) {
	f := setup(t, true)
	ctx := context.Background()
	f.record(t, "FOUNDATION", 60)
	match := f.detectOne(t)

	draft, err := f.svc.GenerateDemandDraft(ctx, match, 99)
	require.NoError(t, err)

	assert.Equal(t, StatusDraft, draft.Status)
	assert.True(t, draft.AutoGenerated)
	assert.True(t, draft.RequiresReview)
	assert.True(t, draft.Amount.Equal(decimal.NewFromInt(300000)))
	assert.Contains(t, draft.Subject, "A-101")
	assert.Contains(t, draft.HTMLContent, "Asha Rao")
	assert.Contains(t, draft.HTMLContent, "3,00,000.00")
	assert.Contains(t, draft.HTMLContent, "Rupees Only")
	assert.Contains(t, draft.HTMLContent, "SBIN0000001")
	assert.Contains(t, draft.HTMLContent, "Tower A")
	assert.NotContains(t, draft.HTMLContent, "{{")
	assert.Equal(t, "Asha Rao", draft.TemplateData.Data().CustomerName)
	assert.WithinDuration(t, time.Now().Add(30*24*time.Hour), draft.DueDate, time.Minute)

	schedules, err := f.schedules.ListSchedulesByBooking(ctx, f.plan.BookingID)
	require.NoError(t, err)
	require.Len(t, schedules, 1)
	assert.Equal(t, draft.PaymentScheduleID, schedules[0].ID)
	assert.Equal(t, 2, schedules[0].InstallmentNumber)
	assert.Equal(t, 3, schedules[0].TotalInstallments)
	assert.Equal(t, payment.SchedulePending, schedules[0].Status)
	assert.True(t, schedules[0].PaidAmount.IsZero())

	plan, err := f.plans.GetByID(ctx, f.plan.ID)
	require.NoError(t, err)
	m := plan.Milestones[1]
	assert.Equal(t, paymentplan.MilestoneTriggered, m.Status)
	require.NotNil(t, m.DemandDraftID)
	assert.Equal(t, draft.ID, *m.DemandDraftID)
	require.NotNil(t, m.PaymentScheduleID)
	assert.Equal(t, draft.PaymentScheduleID, *m.PaymentScheduleID)
	require.NotNil(t, m.ConstructionProgressID)
	assert.Equal(t, match.Progress.ID, *m.ConstructionProgressID)
	require.NotNil(t, m.TriggeredBy)
	assert.Equal(t, int64(99), *m.TriggeredBy)
	assert.Equal(t, 2, plan.Version)

	row, err := f.progress.GetByFlatAndPhase(ctx, f.plan.FlatID, "FOUNDATION")
	require.NoError(t, err)
	assert.True(t, row.MilestoneTriggered)
	assert.True(t, row.IsPaymentMilestone)
	require.NotNil(t, row.DemandDraftID)
	assert.Equal(t, draft.ID, *row.DemandDraftID)

	again, err := f.engine.DetectMilestones(ctx)
	require.NoError(t, err)
	assert.Empty(t, again)
}

func TestGenerateTwiceFails(t *testing.T) {
	f := setup(t, true)
	ctx := context.Background()
	f.record(t, "FOUNDATION", 100)
	match := f.detectOne(t)

	_, err := f.svc.GenerateDemandDraft(ctx, match, 1)
	require.NoError(t, err)

	_, err = f.svc.GenerateDemandDraft(ctx, match, 1)
	assert.ErrorIs(t, err, paymentplan.ErrMilestoneNotPending)

	schedules, err := f.schedules.ListSchedulesByBooking(ctx, f.plan.BookingID)
	require.NoError(t, err)
	assert.Len(t, schedules, 1)

	_, total, err := f.svc.ListDemandDrafts(ctx, ListFilter{})
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
}

func TestGenerateWithoutTemplateWritesNothing(t *testing.T) {
	f := setup(t, false)
	ctx := context.Background()
	f.record(t, "FOUNDATION", 100)

	_, err := f.svc.GenerateDemandDraft(ctx, f.detectOne(t), 1)
	assert.ErrorIs(t, err, ErrTemplateNotFound)

	schedules, err := f.schedules.ListSchedulesByBooking(ctx, f.plan.BookingID)
	require.NoError(t, err)
	assert.Empty(t, schedules)

	plan, err := f.plans.GetByID(ctx, f.plan.ID)
	require.NoError(t, err)
	assert.Equal(t, paymentplan.MilestonePending, plan.Milestones[1].Status)
}

func TestManualGenerate(t *testing.T) {
	f := setup(t, true)
	ctx := context.Background()

	f.record(t, "FOUNDATION", 40)
	_, err := f.svc.ManualGenerateDemandDraft(ctx, f.plan.ID, 2, 5)
	var threshold *paymentplan.ThresholdError
	require.True(t, errors.As(err, &threshold))
	assert.True(t, threshold.Required.Equal(decimal.NewFromInt(50)))
	assert.True(t, threshold.Actual.Equal(decimal.NewFromInt(40)))

	_, err = f.svc.ManualGenerateDemandDraft(ctx, f.plan.ID, 3, 5)
	assert.ErrorIs(t, err, paymentplan.ErrMilestoneNotEligible)

	draft, err := f.svc.ManualGenerateDemandDraft(ctx, f.plan.ID, 1, 5)
	require.NoError(t, err)
	assert.False(t, draft.AutoGenerated)
	assert.Nil(t, draft.ConstructionProgressID)

	_, err = f.svc.ManualGenerateDemandDraft(ctx, f.plan.ID, 1, 5)
	assert.ErrorIs(t, err, paymentplan.ErrMilestoneNotPending)

	_, err = f.svc.ManualGenerateDemandDraft(ctx, f.plan.ID, 42, 5)
	assert.ErrorIs(t, err, paymentplan.ErrMilestoneNotFound)
}

func TestApproveAndSend(t *testing.T) {
	f := setup(t, true)
	ctx := context.Background()

	draft, err := f.svc.ManualGenerateDemandDraft(ctx, f.plan.ID, 1, 5)
	require.NoError(t, err)

	_, err = f.svc.SendDemandDraft(ctx, draft.ID, 7)
	assert.ErrorIs(t, err, ErrDraftNotReady)
	assert.EqualError(t, err, "demand draft must be in READY status to send")

	approved, err := f.svc.ApproveDemandDraft(ctx, draft.ID, 7)
	require.NoError(t, err)
	assert.Equal(t, StatusReady, approved.Status)
	assert.False(t, approved.RequiresReview)
	require.NotNil(t, approved.ReviewedBy)
	assert.Equal(t, int64(7), *approved.ReviewedBy)

	f.mailer.On("SendDemandDraftToCustomer", mock.Anything, mock.MatchedBy(func(e notification.DemandDraftEmail) bool {
		return e.DemandDraftID == draft.ID && e.CustomerEmail == "asha@example.com"
	})).Return(nil).Once()

	sent, err := f.svc.SendDemandDraft(ctx, draft.ID, 8)
	require.NoError(t, err)
	assert.Equal(t, StatusSent, sent.Status)
	require.NotNil(t, sent.SentBy)
	assert.Equal(t, int64(8), *sent.SentBy)

	require.NoError(t, f.dispatcher.Wait(ctx))
	f.mailer.AssertExpectations(t)

	_, err = f.svc.ApproveDemandDraft(ctx, draft.ID, 7)
	assert.ErrorIs(t, err, ErrDraftAlreadySent)

	_, err = f.svc.SendDemandDraft(ctx, draft.ID, 8)
	assert.ErrorIs(t, err, ErrDraftNotReady)
}

func TestSendSurvivesMailerFailure(t *testing.T) {
	f := setup(t, true)
	ctx := context.Background()

	draft, err := f.svc.ManualGenerateDemandDraft(ctx, f.plan.ID, 1, 5)
	require.NoError(t, err)
	_, err = f.svc.ApproveDemandDraft(ctx, draft.ID, 7)
	require.NoError(t, err)

	f.mailer.On("SendDemandDraftToCustomer", mock.Anything, mock.Anything).Return(errors.New("smtp down")).Once()
	sent, err := f.svc.SendDemandDraft(ctx, draft.ID, 8)
	require.NoError(t, err)
	assert.Equal(t, StatusSent, sent.Status)
	require.NoError(t, f.dispatcher.Wait(ctx))
}

func TestProcessDetectedMilestones(t *testing.T) {
	f := setup(t, true)
	ctx := context.Background()
	f.record(t, "FOUNDATION", 75)
	f.record(t, "POSSESSION", 20)

	res, err := f.svc.ProcessDetectedMilestones(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, 1, res.Detected)
	assert.Equal(t, 1, res.Generated)
	assert.Zero(t, res.Failed)
	assert.Len(t, res.DraftIDs, 1)
	assert.False(t, res.Skipped)

	res, err = f.svc.ProcessDetectedMilestones(ctx, 1)
	require.NoError(t, err)
	assert.Zero(t, res.Detected)
	assert.Zero(t, res.Generated)
}

func TestProcessCountsFailures(t *testing.T) {
	f := setup(t, false)
	ctx := context.Background()
	f.record(t, "FOUNDATION", 75)

	res, err := f.svc.ProcessDetectedMilestones(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, 1, res.Detected)
	assert.Equal(t, 1, res.Failed)
	assert.Len(t, res.Errors, 1)
}

func TestRenderLeavesUnknownPlaceholders(t *testing.T) {
	out := Render(&Template{Subject: "{{flat_number}}", HTMLContent: "{{customer_name}} {{unknown}}"}, TemplateData{FlatNumber: "B-2", CustomerName: "Ravi"})
	assert.Equal(t, "B-2", out.Subject)
	assert.Equal(t, "Ravi {{unknown}}", out.HTMLContent)
}

func TestInactivePlanGetsNoDraft(t *testing.T) {
	f := setup(t, true)
	ctx := context.Background()
	f.record(t, "FOUNDATION", 60)
	match := f.detectOne(t)

	require.NoError(t, f.plans.Deactivate(ctx, f.plan.BookingID))

	ok, err := f.engine.CanTriggerMilestone(ctx, f.plan.ID, 2)
	require.NoError(t, err)
	assert.False(t, ok)

	_, err = f.svc.ManualGenerateDemandDraft(ctx, f.plan.ID, 2, 5)
	assert.ErrorIs(t, err, paymentplan.ErrPlanInactive)

	_, err = f.svc.ManualGenerateDemandDraft(ctx, f.plan.ID, 1, 5)
	assert.ErrorIs(t, err, paymentplan.ErrPlanInactive)

	_, err = f.svc.GenerateDemandDraft(ctx, match, 5)
	assert.ErrorIs(t, err, paymentplan.ErrPlanInactive)

	schedules, err := f.schedules.ListSchedulesByBooking(ctx, f.plan.BookingID)
	require.NoError(t, err)
	assert.Empty(t, schedules)
	_, total, err := f.svc.ListDemandDrafts(ctx, ListFilter{})
	require.NoError(t, err)
	assert.Zero(t, total)
}

func TestStaleMatchIsRechecked(t *testing.T) {
	f := setup(t, true)
	ctx := context.Background()
	f.record(t, "FOUNDATION", 60)
	match := f.detectOne(t)

	// progress corrected downwards after detection ran
	f.record(t, "FOUNDATION", 30)

	_, err := f.svc.GenerateDemandDraft(ctx, match, 5)
	var threshold *paymentplan.ThresholdError
	require.ErrorAs(t, err, &threshold)
	assert.True(t, threshold.Actual.Equal(decimal.NewFromInt(30)))

	plan, err := f.plans.GetByID(ctx, f.plan.ID)
	require.NoError(t, err)
	assert.Equal(t, paymentplan.MilestonePending, plan.Milestones[1].Status)
	assert.Equal(t, 1, plan.Version)
}

func TestRenderEscapesHTMLBody(t *testing.T) {
	out := Render(&Template{
		Subject:     "Demand for {{customer_name}}",
		HTMLContent: "<p>Dear {{customer_name}}, {{milestone_description}}</p>",
	}, TemplateData{
		CustomerName:         `Ravi <script>alert("x")</script>`,
		MilestoneDescription: "Slab & brickwork",
	})

	assert.Equal(t, `Demand for Ravi <script>alert("x")</script>`, out.Subject)
	assert.Equal(t, "<p>Dear Ravi &lt;script&gt;alert(&#34;x&#34;)&lt;/script&gt;, Slab &amp; brickwork</p>", out.HTMLContent)
}
