package schema

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"estatedesk/internal/database/dbtest"
)

func TestAutoMigrateAll(t *testing.T) {
	db := dbtest.Open(t)
	require.NoError(t, AutoMigrateAll(db))

	for _, table := range []string{
		"properties", "towers", "flats", "customers", "bookings", "payments", "payment_schedules",
		"payment_plan_templates", "flat_payment_plans", "construction_flat_progress",
		"demand_draft_templates", "demand_drafts", "notifications",
	} {
		assert.True(t, db.Migrator().HasTable(table), table)
	}

	// idempotent
	require.NoError(t, AutoMigrateAll(db))
}
