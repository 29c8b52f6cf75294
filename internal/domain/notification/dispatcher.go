package notification

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"estatedesk/internal/metrics"
	"estatedesk/internal/pkg/logger"
)

const defaultDispatchTimeout = 15 * time.Second

// Dispatcher runs post-commit side effects in the background. A task's error
// or panic is logged and counted, never returned to the caller.
type Dispatcher struct {
	log     logrus.FieldLogger
	timeout time.Duration
	wg      sync.WaitGroup
}

func NewDispatcher(log logrus.FieldLogger, timeout time.Duration) *Dispatcher {
	if log == nil {
		log = logger.Discard()
	}
	if timeout <= 0 {
		timeout = defaultDispatchTimeout
	}
	return &Dispatcher{log: log, timeout: timeout}
}

// Go detaches fn from ctx's cancellation but keeps its values.
func (d *Dispatcher) Go(ctx context.Context, kind Kind, fn func(ctx context.Context) error) {
	d.wg.Add(1)
	go func() {
		defer d.wg.Done()

		taskCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), d.timeout)
		defer cancel()

		defer func() {
			if r := recover(); r != nil {
				d.fail(kind, fmt.Errorf("panic: %v", r))
			}
		}()

		if err := fn(taskCtx); err != nil {
			d.fail(kind, err)
		}
	}()
}

func (d *Dispatcher) fail(kind Kind, err error) {
	metrics.NotificationFailures.WithLabelValues(string(kind)).Inc()
	logger.LogWarn(d.log, "notification", "Dispatcher.Go", "post-commit task failed", kind, err)
}

// Wait blocks until running tasks finish or ctx is done.
func (d *Dispatcher) Wait(ctx context.Context) error {
	done := make(chan struct{})
	go func() {
		d.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
