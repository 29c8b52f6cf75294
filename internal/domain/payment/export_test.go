package payment

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"estatedesk/internal/database/dbtest"
)

func TestWriteScheduleWorkbook(t *testing.T) {
	due := time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)
	rows := []Schedule{{
		ScheduleNumber:    "PS-1",
		InstallmentNumber: 2,
		TotalInstallments: 4,
		MilestoneName:     "Foundation",
		DueDate:           due,
		Amount:            decimal.NewFromInt(200000),
		PaidAmount:        decimal.Zero,
		Status:            SchedulePending,
	}}

	var buf bytes.Buffer
	require.NoError(t, WriteScheduleWorkbook(&buf, rows))

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer f.Close()

	header, err := f.GetCellValue(scheduleSheet, "A1")
	require.NoError(t, err)
	assert.Equal(t, "Schedule No", header)

	installment, err := f.GetCellValue(scheduleSheet, "B2")
	require.NoError(t, err)
	assert.Equal(t, "2/4", installment)

	dueCell, err := f.GetCellValue(scheduleSheet, "D2")
	require.NoError(t, err)
	assert.Equal(t, "2025-03-01", dueCell)
}

func TestNumbersAreAssignedOnCreate(t *testing.T) {
	db := dbtest.Open(t, &Payment{}, &Schedule{})
	repo := NewRepository(db)
	ctx := context.Background()

	p := &Payment{BookingID: 1, CustomerID: 2, Amount: decimal.NewFromInt(5000), PaymentType: TypeToken, PaymentDate: time.Now()}
	require.NoError(t, repo.CreatePayment(ctx, p))
	assert.Contains(t, p.PaymentNumber, "PAY-")
	assert.Equal(t, StatusCompleted, p.Status)

	s := &Schedule{BookingID: 1, FlatPaymentPlanID: 3, MilestoneSequence: 1, InstallmentNumber: 1, TotalInstallments: 1, DueDate: time.Now(), Amount: decimal.NewFromInt(10), Status: SchedulePending}
	require.NoError(t, repo.CreateSchedule(ctx, s))
	assert.Contains(t, s.ScheduleNumber, "PS-")

	schedules, err := repo.ListSchedulesByBooking(ctx, 1)
	require.NoError(t, err)
	assert.Len(t, schedules, 1)
}
