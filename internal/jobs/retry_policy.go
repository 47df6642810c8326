package jobs

import (
	"time"

	"billing_reconciler/internal/domain/apperrors"
	"billing_reconciler/internal/domain/entities"
)

const (
	DefaultMaxRetries = 3
	DefaultRetryDelay = 60 * time.Second
)

type Decision int

const (
	DecisionAck Decision = iota
	// DecisionDrop acknowledges a job that can never succeed.
	DecisionDrop
	DecisionRetry
	// DecisionPark moves the job to the failed queue for operators.
	DecisionPark
)

func (d Decision) String() string {
	switch d {
	case DecisionAck:
		return "ack"
	case DecisionDrop:
		return "drop"
	case DecisionRetry:
		return "retry"
	case DecisionPark:
		return "park"
	}
	return "unknown"
}

// RetryPolicy retries a failed job MaxRetries times after its first attempt,
// each time after a fixed Delay.
type RetryPolicy struct {
	MaxRetries int
	Delay      time.Duration
}

func DefaultRetryPolicy() RetryPolicy {
	return RetryPolicy{MaxRetries: DefaultMaxRetries, Delay: DefaultRetryDelay}
}

func (p RetryPolicy) Decide(job entities.Job, err error) Decision {
	if err == nil {
		return DecisionAck
	}
	if !apperrors.Retryable(err) {
		return DecisionDrop
	}
	if job.Attempt <= p.MaxRetries {
		return DecisionRetry
	}
	return DecisionPark
}
