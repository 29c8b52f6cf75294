package demanddraft

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"estatedesk/internal/metrics"
	"estatedesk/internal/pkg/distlock"
	"estatedesk/internal/pkg/logger"
)

const sweepLockKey = "lock:milestone-sweep"

type SweepResult struct {
	Detected  int      `json:"detected"`
	Generated int      `json:"generated"`
	Failed    int      `json:"failed"`
	DraftIDs  []int64  `json:"draft_ids"`
	Errors    []string `json:"errors,omitempty"`
	// Skipped is set when another replica held the sweep lock.
	Skipped bool `json:"skipped"`
}

// ProcessDetectedMilestones detects eligible milestones and generates a draft for
// each. A failing match is logged and counted; the rest still run.
func (s *Service) ProcessDetectedMilestones(ctx context.Context, actorID int64) (*SweepResult, error) {
	if s.deps.Engine == nil {
		return nil, errors.New("milestone engine is not configured")
	}

	res := &SweepResult{DraftIDs: []int64{}}
	err := s.deps.Locker.WithLock(ctx, sweepLockKey, func(ctx context.Context) error {
		matches, err := s.deps.Engine.DetectMilestones(ctx)
		if err != nil {
			return err
		}
		res.Detected = len(matches)

		for _, m := range matches {
			draft, err := s.GenerateDemandDraft(ctx, m, actorID)
			if err != nil {
				res.Failed++
				res.Errors = append(res.Errors, fmt.Sprintf("plan %d milestone %d: %v", m.Plan.ID, m.MilestoneSequence, err))
				metrics.DemandDraftFailures.Inc()
				logger.LogError(s.log, "demanddraft", "ProcessDetectedMilestones", "generate demand draft",
					map[string]any{"plan_id": m.Plan.ID, "sequence": m.MilestoneSequence}, err)
				continue
			}
			res.Generated++
			res.DraftIDs = append(res.DraftIDs, draft.ID)
		}
		return nil
	})

	switch {
	case errors.Is(err, distlock.ErrNotObtained):
		metrics.MilestoneSweeps.WithLabelValues("skipped").Inc()
		res.Skipped = true
		return res, nil
	case err != nil:
		metrics.MilestoneSweeps.WithLabelValues("error").Inc()
		return nil, err
	}

	metrics.MilestoneSweeps.WithLabelValues("ok").Inc()
	s.log.WithFields(logrus.Fields{
		"detected":  res.Detected,
		"generated": res.Generated,
		"failed":    res.Failed,
	}).Info("milestone sweep finished")
	return res, nil
}

// ScheduleSweep runs ProcessDetectedMilestones every interval until ctx is done or
// the returned channel is closed. A zero interval disables the loop.
func (s *Service) ScheduleSweep(ctx context.Context, interval time.Duration, actorID int64) chan struct{} {
	if interval <= 0 {
		s.log.Info("milestone sweep ticker disabled")
		return nil
	}

	stopCh := make(chan struct{})
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		for {
			select {
			case <-ticker.C:
				if _, err := s.ProcessDetectedMilestones(ctx, actorID); err != nil {
					logger.LogError(s.log, "demanddraft", "ScheduleSweep", "scheduled sweep", nil, err)
				}
			case <-stopCh:
				s.log.Info("milestone sweep stopped")
				return
			case <-ctx.Done():
				s.log.Info("milestone sweep stopped (context done)")
				return
			}
		}
	}()

	s.log.WithField("interval", interval.String()).Info("milestone sweep scheduled")
	return stopCh
}
