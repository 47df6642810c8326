package usecase

import (
	"context"

	"billing_reconciler/internal/domain/entities"
	"billing_reconciler/internal/usecase/interfaces"
)

const (
	defaultFailedJobsLimit = 50
	maxFailedJobsLimit     = 500
)

type IFailedJobUseCase interface {
	List(ctx context.Context, limit int) ([]entities.FailedJob, error)
}

// FailedJobUseCase lists jobs parked after exhausting their retries.
type FailedJobUseCase struct {
	store interfaces.IFailedJobStore
}

var _ IFailedJobUseCase = (*FailedJobUseCase)(nil)

func NewFailedJobUseCase(store interfaces.IFailedJobStore) *FailedJobUseCase {
	return &FailedJobUseCase{store: store}
}

func (u *FailedJobUseCase) List(ctx context.Context, limit int) ([]entities.FailedJob, error) {
	switch {
	case limit <= 0:
		limit = defaultFailedJobsLimit
	case limit > maxFailedJobsLimit:
		limit = maxFailedJobsLimit
	}
	jobs, err := u.store.List(ctx, limit)
	if err != nil {
		return nil, err
	}
	if jobs == nil {
		jobs = []entities.FailedJob{}
	}
	return jobs, nil
}
