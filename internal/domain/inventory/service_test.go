package inventory

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"estatedesk/internal/database/dbtest"
)

func setupService(t *testing.T) (*Service, *Repository) {
	t.Helper()
	db := dbtest.Open(t, &Property{}, &Tower{}, &Flat{})
	repo := NewRepository(db)
	return NewService(db, repo), repo
}

func seedTower(t *testing.T, svc *Service) (*Property, *Tower) {
	t.Helper()
	ctx := context.Background()
	p, err := svc.CreateProperty(ctx, &CreatePropertyRequest{Name: "Lakeview"}, 1)
	require.NoError(t, err)
	tw, err := svc.CreateTower(ctx, &CreateTowerRequest{PropertyID: p.ID, Name: "A", TotalFloors: 12})
	require.NoError(t, err)
	return p, tw
}

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func TestCompletenessScoring(t *testing.T) {
	f := &Flat{}
	pct, status := f.Completeness()
	assert.Equal(t, 0, pct)
	assert.Equal(t, CompletenessNotStarted, status)

	f.Facing = "EAST"
	f.ParkingSlots = 1
	pct, status = f.Completeness()
	assert.Equal(t, 40, pct)
	assert.Equal(t, CompletenessInProgress, status)

	f.Amenities = []string{"gym"}
	f.TotalPrice, f.FinalPrice = dec("100"), dec("90")
	pct, status = f.Completeness()
	assert.Equal(t, 80, pct)
	assert.Equal(t, CompletenessNeedsReview, status)

	f.CarpetArea, f.BuiltUpArea, f.SuperBuiltUpArea = dec("800"), dec("950"), dec("1100")
	pct, status = f.Completeness()
	assert.Equal(t, 100, pct)
	assert.Equal(t, CompletenessComplete, status)
}

func TestValidateRules(t *testing.T) {
	f := &Flat{FlatNumber: "A-101", TotalPrice: dec("100"), FinalPrice: dec("120")}
	assert.ErrorIs(t, f.Validate(), ErrFinalAboveTotal)

	f.FinalPrice = dec("100")
	f.CarpetArea, f.BuiltUpArea = dec("900"), dec("800")
	assert.ErrorIs(t, f.Validate(), ErrAreaOrdering)

	f.CarpetArea, f.SuperBuiltUpArea = dec("700"), dec("750")
	assert.ErrorIs(t, f.Validate(), ErrAreaOrdering)

	f.SuperBuiltUpArea = dec("1000")
	assert.NoError(t, f.Validate())
}

func TestCreateFlatGrowsCounters(t *testing.T) {
	svc, repo := setupService(t)
	ctx := context.Background()
	p, tw := seedTower(t, svc)

	flat, err := svc.CreateFlat(ctx, &CreateFlatRequest{
		PropertyID: p.ID, TowerID: tw.ID, FlatNumber: "A-101",
		TotalPrice: dec("5000000"), FinalPrice: dec("4800000"), Facing: "NORTH",
	})
	require.NoError(t, err)
	assert.Equal(t, FlatAvailable, flat.Status)
	assert.True(t, flat.IsAvailable)
	assert.Equal(t, 40, flat.DataCompletionPct)

	_, err = svc.CreateFlat(ctx, &CreateFlatRequest{PropertyID: p.ID, TowerID: tw.ID, FlatNumber: "A-102", Status: FlatBlocked})
	require.NoError(t, err)

	gotP, err := repo.GetProperty(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, gotP.TotalUnits)
	assert.Equal(t, 1, gotP.AvailableUnits)

	gotT, err := repo.GetTower(ctx, tw.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, gotT.TotalUnits)
	assert.Equal(t, 1, gotT.AvailableUnits)
}

func TestCreateFlatRejectsForeignTower(t *testing.T) {
	svc, _ := setupService(t)
	ctx := context.Background()
	_, tw := seedTower(t, svc)
	other, err := svc.CreateProperty(ctx, &CreatePropertyRequest{Name: "Other"}, 1)
	require.NoError(t, err)

	_, err = svc.CreateFlat(ctx, &CreateFlatRequest{PropertyID: other.ID, TowerID: tw.ID, FlatNumber: "X-1"})
	assert.ErrorIs(t, err, ErrTowerMismatch)
}

func TestUpdateFlatRecomputesCompleteness(t *testing.T) {
	svc, repo := setupService(t)
	ctx := context.Background()
	p, tw := seedTower(t, svc)

	flat, err := svc.CreateFlat(ctx, &CreateFlatRequest{PropertyID: p.ID, TowerID: tw.ID, FlatNumber: "A-201"})
	require.NoError(t, err)
	assert.Equal(t, CompletenessNotStarted, flat.CompletenessStatus)

	facing := "WEST"
	parking := 2
	total, final := dec("7000000"), dec("6900000")
	carpet, built, super := dec("900"), dec("1000"), dec("1200")
	updated, err := svc.UpdateFlat(ctx, flat.ID, &UpdateFlatRequest{
		Facing: &facing, ParkingSlots: &parking, Amenities: []string{"pool", "club"},
		TotalPrice: &total, FinalPrice: &final,
		CarpetArea: &carpet, BuiltUpArea: &built, SuperBuiltUpArea: &super,
	})
	require.NoError(t, err)
	assert.Equal(t, 100, updated.DataCompletionPct)
	assert.Equal(t, CompletenessComplete, updated.CompletenessStatus)

	reloaded, err := repo.GetFlat(ctx, flat.ID)
	require.NoError(t, err)
	assert.Equal(t, 100, reloaded.DataCompletionPct)
	assert.Equal(t, []string{"pool", "club"}, []string(reloaded.Amenities))
	assert.True(t, reloaded.FinalPrice.Equal(final))
}

func TestUpdateFlatStatusMovesAvailability(t *testing.T) {
	svc, repo := setupService(t)
	ctx := context.Background()
	p, tw := seedTower(t, svc)

	flat, err := svc.CreateFlat(ctx, &CreateFlatRequest{PropertyID: p.ID, TowerID: tw.ID, FlatNumber: "A-301"})
	require.NoError(t, err)

	hold := FlatOnHold
	updated, err := svc.UpdateFlat(ctx, flat.ID, &UpdateFlatRequest{Status: &hold})
	require.NoError(t, err)
	assert.False(t, updated.IsAvailable)

	gotP, err := repo.GetProperty(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, gotP.AvailableUnits)

	booked := FlatBooked
	_, err = svc.UpdateFlat(ctx, flat.ID, &UpdateFlatRequest{Status: &booked})
	assert.ErrorIs(t, err, ErrFlatStatusLocked)
}
