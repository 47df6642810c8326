// Package jobs carries reconciliation jobs from the webhook to the workers:
// durable enqueue, a fixed-size worker pool and the retry policy deciding
// what happens to a job whose handler failed.
package jobs

import (
	"context"
	"time"

	"billing_reconciler/internal/domain/entities"
)

// Delivery is one job handed to a worker. Exactly one of Ack or Nack must be
// called.
type Delivery struct {
	Job  entities.Job
	Ack  func() error
	Nack func(requeue bool) error
}

// Broker is the transport under the queue. Implementations must keep a
// published job until it is acked.
type Broker interface {
	Publish(ctx context.Context, job entities.Job) error
	// PublishDelayed makes job visible to consumers after delay.
	PublishDelayed(ctx context.Context, job entities.Job, delay time.Duration) error
	// Park moves a job that ran out of retries out of circulation.
	Park(ctx context.Context, job entities.FailedJob) error
	Consume(ctx context.Context) (<-chan Delivery, error)
	Close() error
}
