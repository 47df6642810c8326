package interfaces

import (
	"context"

	"billing_reconciler/internal/domain/entities"
)

//go:generate mockgen -source=job_interface.go -destination=mocks/job_interface_mock.go -package=mocks

// IJobQueue durably schedules a reconciliation job.
type IJobQueue interface {
	Enqueue(ctx context.Context, kind entities.JobKind, resourceID string) (entities.Job, error)
}

// IJobProcessor runs the handler registered for kind.
type IJobProcessor interface {
	Process(ctx context.Context, kind entities.JobKind, resourceID string) error
}

type IFailedJobStore interface {
	Save(ctx context.Context, job entities.FailedJob) error
	List(ctx context.Context, limit int) ([]entities.FailedJob, error)
}
