package jobs

import (
	"context"
	"errors"
	"sync"
	"time"

	"billing_reconciler/internal/domain/entities"
)

var ErrBrokerClosed = errors.New("broker closed")

// MemoryBroker is a single-process Broker used when no RabbitMQ URL is
// configured and in tests. Jobs do not survive a restart.
type MemoryBroker struct {
	ready chan entities.Job
	done  chan struct{}
	once  sync.Once

	mu     sync.Mutex
	parked []entities.FailedJob
	timers []*time.Timer
}

var _ Broker = (*MemoryBroker)(nil)

func NewMemoryBroker(buffer int) *MemoryBroker {
	if buffer <= 0 {
		buffer = 1024
	}
	return &MemoryBroker{
		ready: make(chan entities.Job, buffer),
		done:  make(chan struct{}),
	}
}

func (b *MemoryBroker) Publish(ctx context.Context, job entities.Job) error {
	select {
	case <-b.done:
		return ErrBrokerClosed
	default:
	}
	select {
	case b.ready <- job:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	case <-b.done:
		return ErrBrokerClosed
	}
}

func (b *MemoryBroker) PublishDelayed(ctx context.Context, job entities.Job, delay time.Duration) error {
	if delay <= 0 {
		return b.Publish(ctx, job)
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	select {
	case <-b.done:
		return ErrBrokerClosed
	default:
	}
	t := time.AfterFunc(delay, func() {
		_ = b.Publish(context.Background(), job)
	})
	b.timers = append(b.timers, t)
	return nil
}

func (b *MemoryBroker) Park(_ context.Context, job entities.FailedJob) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.parked = append(b.parked, job)
	return nil
}

// Parked returns a copy of the jobs moved to the failed queue.
func (b *MemoryBroker) Parked() []entities.FailedJob {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := make([]entities.FailedJob, len(b.parked))
	copy(out, b.parked)
	return out
}

// Consume supports a single consumer. The channel is closed when ctx ends or
// the broker is closed.
func (b *MemoryBroker) Consume(ctx context.Context) (<-chan Delivery, error) {
	out := make(chan Delivery)
	go func() {
		defer close(out)
		for {
			select {
			case <-ctx.Done():
				return
			case <-b.done:
				return
			case job := <-b.ready:
				d := Delivery{
					Job: job,
					Ack: func() error { return nil },
					Nack: func(requeue bool) error {
						if !requeue {
							return nil
						}
						return b.Publish(context.Background(), job)
					},
				}
				select {
				case out <- d:
				case <-ctx.Done():
					b.requeue(job)
					return
				case <-b.done:
					return
				}
			}
		}
	}()
	return out, nil
}

// requeue puts back a job taken off the queue but never handed out.
func (b *MemoryBroker) requeue(job entities.Job) {
	select {
	case b.ready <- job:
	default:
	}
}

func (b *MemoryBroker) Close() error {
	b.once.Do(func() {
		b.mu.Lock()
		for _, t := range b.timers {
			t.Stop()
		}
		b.timers = nil
		b.mu.Unlock()
		close(b.done)
	})
	return nil
}
