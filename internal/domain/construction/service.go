package construction

import (
	"context"
	"strings"

	"github.com/shopspring/decimal"

	"estatedesk/internal/domain/inventory"
)

// FlatReader resolves the tower and property a flat belongs to.
type FlatReader interface {
	GetFlat(ctx context.Context, id int64) (*inventory.Flat, error)
}

type RecordProgressInput struct {
	FlatID     int64           `json:"-"`
	Phase      string          `json:"phase"`
	Percentage decimal.Decimal `json:"progress_percentage"`
	Notes      string          `json:"notes"`
	ActorID    int64           `json:"-"`
}

type Service struct {
	repo  *Repository
	flats FlatReader
}

func NewService(repo *Repository, flats FlatReader) *Service {
	return &Service{repo: repo, flats: flats}
}

// RecordProgress stores the latest percentage reported for a flat's phase.
func (s *Service) RecordProgress(ctx context.Context, in RecordProgressInput) (*FlatProgress, error) {
	phase := strings.ToUpper(strings.TrimSpace(in.Phase))
	if phase == "" {
		return nil, ErrPhaseRequired
	}
	if in.Percentage.IsNegative() || in.Percentage.GreaterThan(decimal.NewFromInt(100)) {
		return nil, ErrInvalidPercentage
	}

	flat, err := s.flats.GetFlat(ctx, in.FlatID)
	if err != nil {
		return nil, err
	}

	p := &FlatProgress{
		FlatID:             flat.ID,
		Phase:              phase,
		TowerID:            flat.TowerID,
		PropertyID:         flat.PropertyID,
		ProgressPercentage: in.Percentage.Round(2),
		Notes:              in.Notes,
		UpdatedBy:          in.ActorID,
	}
	if err := s.repo.Upsert(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

func (s *Service) ListByFlat(ctx context.Context, flatID int64) ([]FlatProgress, error) {
	return s.repo.ListByFlat(ctx, flatID)
}
