package memory

import (
	"context"
	"sync"

	"billing_reconciler/internal/domain/entities"
	"billing_reconciler/internal/usecase/interfaces"
)

// FailedJobStore keeps parked jobs in memory, newest first.
type FailedJobStore struct {
	mu   sync.Mutex
	jobs []entities.FailedJob
}

var _ interfaces.IFailedJobStore = (*FailedJobStore)(nil)

func NewFailedJobStore() *FailedJobStore {
	return &FailedJobStore{}
}

func (s *FailedJobStore) Save(ctx context.Context, job entities.FailedJob) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.jobs = append([]entities.FailedJob{job}, s.jobs...)
	return nil
}

func (s *FailedJobStore) List(ctx context.Context, limit int) ([]entities.FailedJob, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	n := len(s.jobs)
	if limit > 0 && limit < n {
		n = limit
	}
	out := make([]entities.FailedJob, n)
	copy(out, s.jobs[:n])
	return out, nil
}
