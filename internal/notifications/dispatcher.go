package notifications

import (
	"context"
	"errors"
	"sync"
	"time"

	"busly/internal/metrics"
	"busly/pkg/logger"

	"golang.org/x/sync/errgroup"
)

var (
	ErrQueueFull         = errors.New("notification queue is full")
	ErrDispatcherStopped = errors.New("notification dispatcher is stopped")
)

const publishTimeout = 30 * time.Second

// Dispatcher decouples request handlers from delivery. Submit never blocks;
// a fixed pool of workers drains the queue into the publisher.
type Dispatcher struct {
	publisher Publisher
	queue     chan *EmailNotification
	workers   int
	logger    *logger.Logger

	mu      sync.RWMutex
	stopped bool
	group   *errgroup.Group
}

func NewDispatcher(publisher Publisher, queueSize, workers int) *Dispatcher {
	if queueSize <= 0 {
		queueSize = 1
	}
	if workers <= 0 {
		workers = 1
	}
	return &Dispatcher{
		publisher: publisher,
		queue:     make(chan *EmailNotification, queueSize),
		workers:   workers,
		logger:    logger.GetDefault(),
	}
}

// Start launches the workers. Cancelling ctx does not drop queued mail; call Stop.
func (d *Dispatcher) Start(ctx context.Context) {
	base := context.WithoutCancel(ctx)
	d.group = &errgroup.Group{}
	for i := 0; i < d.workers; i++ {
		d.group.Go(func() error {
			for n := range d.queue {
				d.publish(base, n)
			}
			return nil
		})
	}
}

func (d *Dispatcher) publish(ctx context.Context, n *EmailNotification) {
	ctx, cancel := context.WithTimeout(ctx, publishTimeout)
	defer cancel()

	if err := d.publisher.Publish(ctx, n); err != nil {
		metrics.NotificationFailures.WithLabelValues(n.Type.Label(), "publish").Inc()
		d.logger.ErrorContext(ctx, "Failed to publish notification",
			"notification_id", n.ID.String(),
			"type", string(n.Type),
			"error", err)
	}
}

func (d *Dispatcher) Submit(n *EmailNotification) error {
	d.mu.RLock()
	defer d.mu.RUnlock()
	if d.stopped {
		return ErrDispatcherStopped
	}

	select {
	case d.queue <- n:
		return nil
	default:
		return ErrQueueFull
	}
}

// Stop refuses new work and waits for queued notifications until ctx expires
func (d *Dispatcher) Stop(ctx context.Context) error {
	d.mu.Lock()
	if d.stopped {
		d.mu.Unlock()
		return nil
	}
	d.stopped = true
	close(d.queue)
	d.mu.Unlock()

	done := make(chan error, 1)
	go func() {
		if d.group != nil {
			done <- d.group.Wait()
			return
		}
		done <- nil
	}()

	select {
	case err := <-done:
		if closeErr := d.publisher.Close(); closeErr != nil {
			return closeErr
		}
		return err
	case <-ctx.Done():
		return ctx.Err()
	}
}
