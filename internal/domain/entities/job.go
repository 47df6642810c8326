package entities

import "time"

// JobKind selects the reconciliation handler a job runs.
type JobKind string

const (
	JobKindPayment             JobKind = "payment"
	JobKindSubscriptionCreate  JobKind = "subscription_create"
	JobKindSubscriptionRenewal JobKind = "subscription_renewal"
	JobKindChargeback          JobKind = "chargeback"
	JobKindClaim               JobKind = "claim"
	JobKindCardUpdate          JobKind = "card_update"
	JobKindPlanUpdate          JobKind = "plan_update"
)

var jobKinds = map[JobKind]struct{}{
	JobKindPayment:             {},
	JobKindSubscriptionCreate:  {},
	JobKindSubscriptionRenewal: {},
	JobKindChargeback:          {},
	JobKindClaim:               {},
	JobKindCardUpdate:          {},
	JobKindPlanUpdate:          {},
}

func (k JobKind) Valid() bool {
	_, ok := jobKinds[k]
	return ok
}

// Job is the envelope carried by the queue. Attempt starts at 1.
type Job struct {
	ID         string    `json:"id"`
	Kind       JobKind   `json:"kind"`
	ResourceID string    `json:"resource_id"`
	Attempt    int       `json:"attempt"`
	EnqueuedAt time.Time `json:"enqueued_at"`
	LastError  string    `json:"last_error,omitempty"`
}

// FailedJob is a job parked after its retry budget ran out.
type FailedJob struct {
	JobID      string    `json:"job_id"`
	Kind       JobKind   `json:"kind"`
	ResourceID string    `json:"resource_id"`
	Attempts   int       `json:"attempts"`
	LastError  string    `json:"last_error"`
	FailedAt   time.Time `json:"failed_at"`
}
