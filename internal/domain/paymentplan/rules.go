package paymentplan

import (
	"sort"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"estatedesk/internal/pkg/money"
)

var hundred = decimal.NewFromInt(100)

// CheckTrigger decides whether m may move to TRIGGERED. progress is the recorded
// percentage for m's phase, nil when none was reported. Time-based milestones
// carry no threshold. Detection and manual generation both go through here.
func CheckTrigger(m Milestone, progress *decimal.Decimal) error {
	if m.Status != MilestonePending {
		return ErrMilestoneNotPending
	}
	if m.ConstructionPhase == "" {
		return nil
	}

	actual := decimal.Zero
	if progress != nil {
		actual = *progress
	}
	if actual.LessThan(m.PhasePercentage) {
		return &ThresholdError{Phase: m.ConstructionPhase, Required: m.PhasePercentage, Actual: actual}
	}
	return nil
}

// canTransition lists the forward moves of the milestone state machine.
func canTransition(from, to MilestoneStatus) bool {
	switch from {
	case MilestonePending:
		return to == MilestoneTriggered || to == MilestoneCancelled
	case MilestoneTriggered:
		return to == MilestonePaid || to == MilestoneCancelled
	}
	return false
}

// BuildMilestones instantiates template milestones against a total. Amounts are
// rounded to two places and the last milestone absorbs the rounding remainder so
// the amounts always sum to total.
func BuildMilestones(tmpl []TemplateMilestone, total decimal.Decimal) []Milestone {
	ordered := make([]TemplateMilestone, len(tmpl))
	copy(ordered, tmpl)
	sort.Slice(ordered, func(i, j int) bool { return ordered[i].Sequence < ordered[j].Sequence })

	out := make([]Milestone, 0, len(ordered))
	allocated := decimal.Zero
	for i, tm := range ordered {
		amount := money.Percent(total, tm.Percentage)
		if i == len(ordered)-1 {
			amount = total.Sub(allocated)
		}
		allocated = allocated.Add(amount)

		out = append(out, Milestone{
			Sequence:          tm.Sequence,
			Name:              tm.Name,
			Description:       tm.Description,
			Percentage:        tm.Percentage,
			Amount:            amount,
			ConstructionPhase: strings.ToUpper(strings.TrimSpace(tm.ConstructionPhase)),
			PhasePercentage:   tm.PhasePercentage,
			Status:            MilestonePending,
		})
	}
	return out
}

// SeedDueDates dates the time-based milestones that come before the first
// phase-linked one at the booking date. The rest get a due date when their
// demand draft is raised.
func SeedDueDates(ms []Milestone, bookingDate time.Time) []Milestone {
	if bookingDate.IsZero() {
		return ms
	}
	for i := range ms {
		if ms[i].ConstructionPhase != "" {
			break
		}
		due := bookingDate
		ms[i].DueDate = &due
	}
	return ms
}

// ValidateTemplateMilestones requires unique positive sequences and percentages
// that add up to exactly 100.
func ValidateTemplateMilestones(ms []TemplateMilestone) error {
	if len(ms) == 0 {
		return invalidTemplate("at least one milestone is required")
	}

	seen := make(map[int]bool, len(ms))
	sum := decimal.Zero
	for _, m := range ms {
		if m.Sequence <= 0 {
			return invalidTemplate("sequence must be positive")
		}
		if seen[m.Sequence] {
			return invalidTemplate("duplicate sequence %d", m.Sequence)
		}
		seen[m.Sequence] = true

		if strings.TrimSpace(m.Name) == "" {
			return invalidTemplate("milestone %d has no name", m.Sequence)
		}
		if !m.Percentage.IsPositive() {
			return invalidTemplate("milestone %d percentage must be positive", m.Sequence)
		}
		if m.PhasePercentage.IsNegative() || m.PhasePercentage.GreaterThan(hundred) {
			return invalidTemplate("milestone %d phase percentage must be between 0 and 100", m.Sequence)
		}
		if m.ConstructionPhase == "" && m.PhasePercentage.IsPositive() {
			return invalidTemplate("milestone %d has a phase percentage but no phase", m.Sequence)
		}
		sum = sum.Add(m.Percentage)
	}

	if !sum.Equal(hundred) {
		return invalidTemplate("percentages sum to %s, expected 100", sum.String())
	}
	return nil
}
