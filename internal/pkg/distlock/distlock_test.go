package distlock

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNilLockerRunsJob(t *testing.T) {
	var l *Locker
	ran := false
	err := l.WithLock(context.Background(), "job", func(ctx context.Context) error {
		ran = true
		return nil
	})
	require.NoError(t, err)
	assert.True(t, ran)
}

func TestNilLockerPropagatesJobError(t *testing.T) {
	boom := errors.New("boom")
	err := New(nil, 0).WithLock(context.Background(), "job", func(ctx context.Context) error {
		return boom
	})
	assert.ErrorIs(t, err, boom)
}
