package jobs

import (
	"context"
	"log"
	"sync"
	"time"

	"billing_reconciler/internal/domain/entities"
	"billing_reconciler/internal/usecase/interfaces"
)

const (
	DefaultWorkerCount = 4
	DefaultJobTimeout  = 30 * time.Second
)

// WorkerPool consumes jobs with a fixed number of goroutines and applies the
// retry policy to every outcome.
type WorkerPool struct {
	broker    Broker
	processor interfaces.IJobProcessor
	failed    interfaces.IFailedJobStore
	policy    RetryPolicy
	workers   int
	timeout   time.Duration
	now       func() time.Time
}

type WorkerPoolOption func(*WorkerPool)

func WithWorkers(n int) WorkerPoolOption {
	return func(p *WorkerPool) {
		if n > 0 {
			p.workers = n
		}
	}
}

func WithJobTimeout(d time.Duration) WorkerPoolOption {
	return func(p *WorkerPool) {
		if d > 0 {
			p.timeout = d
		}
	}
}

func WithRetryPolicy(policy RetryPolicy) WorkerPoolOption {
	return func(p *WorkerPool) { p.policy = policy }
}

// NewWorkerPool builds a pool. failed may be nil, in which case parked jobs
// only live on the broker's failed queue.
func NewWorkerPool(broker Broker, processor interfaces.IJobProcessor, failed interfaces.IFailedJobStore, opts ...WorkerPoolOption) *WorkerPool {
	p := &WorkerPool{
		broker:    broker,
		processor: processor,
		failed:    failed,
		policy:    DefaultRetryPolicy(),
		workers:   DefaultWorkerCount,
		timeout:   DefaultJobTimeout,
		now:       func() time.Time { return time.Now().UTC() },
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Run blocks until ctx is cancelled or the broker closes its delivery
// channel, then waits for in-flight jobs to finish.
func (p *WorkerPool) Run(ctx context.Context) error {
	deliveries, err := p.broker.Consume(ctx)
	if err != nil {
		return err
	}
	log.Printf("[jobs][worker] starting workers=%d timeout=%s max_retries=%d", p.workers, p.timeout, p.policy.MaxRetries)

	var wg sync.WaitGroup
	for w := 1; w <= p.workers; w++ {
		wg.Add(1)
		go func(id int) {
			defer wg.Done()
			for {
				select {
				case <-ctx.Done():
					return
				case d, ok := <-deliveries:
					if !ok {
						return
					}
					p.handle(ctx, id, d)
				}
			}
		}(w)
	}
	wg.Wait()
	log.Printf("[jobs][worker] stopped")
	return nil
}

func (p *WorkerPool) handle(ctx context.Context, worker int, d Delivery) {
	job := d.Job
	jobCtx, cancel := context.WithTimeout(ctx, p.timeout)
	err := p.processor.Process(jobCtx, job.Kind, job.ResourceID)
	cancel()

	// A job interrupted by shutdown goes back as it was and keeps its attempt.
	if err != nil && ctx.Err() != nil {
		log.Printf("[jobs][worker] worker=%d shutdown requeue job_id=%s kind=%s resource_id=%s attempt=%d", worker, job.ID, job.Kind, job.ResourceID, job.Attempt)
		nack(d)
		return
	}

	decision := p.policy.Decide(job, err)
	switch decision {
	case DecisionAck:
		log.Printf("[jobs][worker] worker=%d done job_id=%s kind=%s resource_id=%s attempt=%d", worker, job.ID, job.Kind, job.ResourceID, job.Attempt)
		ack(d)
	case DecisionDrop:
		log.Printf("[jobs][worker] worker=%d dropping job_id=%s kind=%s resource_id=%s err=%v", worker, job.ID, job.Kind, job.ResourceID, err)
		ack(d)
	case DecisionRetry:
		next := job
		next.Attempt++
		next.LastError = err.Error()
		if perr := p.broker.PublishDelayed(context.WithoutCancel(ctx), next, p.policy.Delay); perr != nil {
			log.Printf("[jobs][worker] worker=%d retry publish failed job_id=%s err=%v", worker, job.ID, perr)
			nack(d)
			return
		}
		log.Printf("[jobs][worker] worker=%d retrying job_id=%s kind=%s resource_id=%s next_attempt=%d in=%s err=%v", worker, job.ID, job.Kind, job.ResourceID, next.Attempt, p.policy.Delay, err)
		ack(d)
	case DecisionPark:
		p.park(ctx, worker, d, err)
	}
}

func (p *WorkerPool) park(ctx context.Context, worker int, d Delivery, cause error) {
	job := d.Job
	failed := entities.FailedJob{
		JobID:      job.ID,
		Kind:       job.Kind,
		ResourceID: job.ResourceID,
		Attempts:   job.Attempt,
		LastError:  cause.Error(),
		FailedAt:   p.now(),
	}
	pctx := context.WithoutCancel(ctx)
	if err := p.broker.Park(pctx, failed); err != nil {
		log.Printf("[jobs][worker] worker=%d park failed job_id=%s err=%v", worker, job.ID, err)
		nack(d)
		return
	}
	if p.failed != nil {
		if err := p.failed.Save(pctx, failed); err != nil {
			log.Printf("[jobs][worker] worker=%d failed job not recorded job_id=%s err=%v", worker, job.ID, err)
		}
	}
	log.Printf("[jobs][worker] worker=%d parked job_id=%s kind=%s resource_id=%s attempts=%d err=%v", worker, job.ID, job.Kind, job.ResourceID, job.Attempt, cause)
	ack(d)
}

func ack(d Delivery) {
	if d.Ack == nil {
		return
	}
	if err := d.Ack(); err != nil {
		log.Printf("[jobs][worker] ack failed job_id=%s err=%v", d.Job.ID, err)
	}
}

// nack hands the job back to the broker untouched.
func nack(d Delivery) {
	if d.Nack == nil {
		return
	}
	if err := d.Nack(true); err != nil {
		log.Printf("[jobs][worker] nack failed job_id=%s err=%v", d.Job.ID, err)
	}
}
