package notification

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"
)

// Purge deletes log rows older than retention. Zero retention keeps everything.
func (s *Service) Purge(ctx context.Context, retention time.Duration) (int64, error) {
	if retention <= 0 {
		return 0, nil
	}

	start := time.Now()
	deleted, err := s.repo.DeleteOlderThan(ctx, retention)
	if err != nil {
		return 0, err
	}

	s.log.WithFields(logrus.Fields{
		"deleted":  deleted,
		"duration": time.Since(start).String(),
	}).Info("notification log purged")
	return deleted, nil
}
