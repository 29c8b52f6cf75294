package construction

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

func (r *Repository) WithTx(tx *gorm.DB) *Repository {
	return &Repository{db: tx}
}

func (r *Repository) GetByID(ctx context.Context, id int64) (*FlatProgress, error) {
	var p FlatProgress
	if err := r.db.WithContext(ctx).First(&p, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProgressNotFound
		}
		return nil, err
	}
	return &p, nil
}

// GetByFlatAndPhase returns ErrProgressNotFound when nothing was recorded yet.
func (r *Repository) GetByFlatAndPhase(ctx context.Context, flatID int64, phase string) (*FlatProgress, error) {
	var p FlatProgress
	err := r.db.WithContext(ctx).Where("flat_id = ? AND phase = ?", flatID, phase).First(&p).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProgressNotFound
		}
		return nil, err
	}
	return &p, nil
}

func (r *Repository) ListByFlat(ctx context.Context, flatID int64) ([]FlatProgress, error) {
	var rows []FlatProgress
	err := r.db.WithContext(ctx).Where("flat_id = ?", flatID).Order("phase").Find(&rows).Error
	return rows, err
}

func (r *Repository) ListByFlats(ctx context.Context, flatIDs []int64) ([]FlatProgress, error) {
	if len(flatIDs) == 0 {
		return nil, nil
	}
	var rows []FlatProgress
	err := r.db.WithContext(ctx).Where("flat_id IN ?", flatIDs).Find(&rows).Error
	return rows, err
}

// Upsert writes the percentage for (flat, phase), creating the row on first report.
func (r *Repository) Upsert(ctx context.Context, p *FlatProgress) error {
	err := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "flat_id"}, {Name: "phase"}},
		DoUpdates: clause.AssignmentColumns([]string{"progress_percentage", "notes", "updated_by", "updated_at"}),
	}).Create(p).Error
	if err != nil {
		return err
	}

	stored, err := r.GetByFlatAndPhase(ctx, p.FlatID, p.Phase)
	if err != nil {
		return err
	}
	*p = *stored
	return nil
}

// MarkMilestoneTriggered links a progress row to the draft and schedule it produced.
func (r *Repository) MarkMilestoneTriggered(ctx context.Context, id, demandDraftID, paymentScheduleID int64, at time.Time) error {
	return r.db.WithContext(ctx).Model(&FlatProgress{}).Where("id = ?", id).Updates(map[string]interface{}{
		"is_payment_milestone":   true,
		"milestone_triggered":    true,
		"milestone_triggered_at": at,
		"demand_draft_id":        demandDraftID,
		"payment_schedule_id":    paymentScheduleID,
	}).Error
}
