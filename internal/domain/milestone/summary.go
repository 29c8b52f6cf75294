package milestone

import (
	"context"

	"github.com/shopspring/decimal"
)

type PhaseStatus string

const (
	PhaseNotStarted PhaseStatus = "NOT_STARTED"
	PhaseInProgress PhaseStatus = "IN_PROGRESS"
	PhaseCompleted  PhaseStatus = "COMPLETED"
)

type PhaseSummary struct {
	Progress decimal.Decimal `json:"progress"`
	Status   PhaseStatus     `json:"status"`
}

type Summary struct {
	FlatID          int64                   `json:"flat_id"`
	Phases          map[string]PhaseSummary `json:"phases"`
	OverallProgress decimal.Decimal         `json:"overall_progress"`
}

var hundred = decimal.NewFromInt(100)

// GetConstructionSummary averages the recorded phases of a flat. A flat with no
// progress rows reports zero overall.
func (e *Engine) GetConstructionSummary(ctx context.Context, flatID int64) (*Summary, error) {
	rows, err := e.progress.ListByFlat(ctx, flatID)
	if err != nil {
		return nil, err
	}

	s := &Summary{
		FlatID:          flatID,
		Phases:          make(map[string]PhaseSummary, len(rows)),
		OverallProgress: decimal.Zero,
	}
	if len(rows) == 0 {
		return s, nil
	}

	total := decimal.Zero
	for _, r := range rows {
		s.Phases[r.Phase] = PhaseSummary{Progress: r.ProgressPercentage, Status: phaseStatus(r.ProgressPercentage)}
		total = total.Add(r.ProgressPercentage)
	}
	s.OverallProgress = total.Div(decimal.NewFromInt(int64(len(rows)))).Round(2)
	return s, nil
}

func phaseStatus(pct decimal.Decimal) PhaseStatus {
	switch {
	case pct.GreaterThanOrEqual(hundred):
		return PhaseCompleted
	case pct.IsPositive():
		return PhaseInProgress
	default:
		return PhaseNotStarted
	}
}
