package jobs

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"billing_reconciler/internal/domain/apperrors"
	"billing_reconciler/internal/domain/entities"
	"billing_reconciler/internal/usecase/interfaces"

	"github.com/google/uuid"
)

// Queue is the enqueue side of the job pipeline.
type Queue struct {
	broker Broker
	now    func() time.Time
}

var _ interfaces.IJobQueue = (*Queue)(nil)

func NewQueue(broker Broker) *Queue {
	return &Queue{broker: broker, now: func() time.Time { return time.Now().UTC() }}
}

// Enqueue durably schedules kind for resourceID. Nothing is published when
// the arguments are rejected.
func (q *Queue) Enqueue(ctx context.Context, kind entities.JobKind, resourceID string) (entities.Job, error) {
	resourceID = strings.TrimSpace(resourceID)
	if resourceID == "" {
		return entities.Job{}, fmt.Errorf("%w: empty resource id", apperrors.ErrInvalidArgument)
	}
	if !kind.Valid() {
		return entities.Job{}, fmt.Errorf("%w: unknown job kind %q", apperrors.ErrInvalidArgument, kind)
	}

	job := entities.Job{
		ID:         uuid.NewString(),
		Kind:       kind,
		ResourceID: resourceID,
		Attempt:    1,
		EnqueuedAt: q.now(),
	}
	if err := q.broker.Publish(ctx, job); err != nil {
		log.Printf("[jobs][queue] publish failed kind=%s resource_id=%s err=%v", kind, resourceID, err)
		return entities.Job{}, apperrors.AppService("enqueue", "publish job", err)
	}
	log.Printf("[jobs][queue] enqueued job_id=%s kind=%s resource_id=%s", job.ID, kind, resourceID)
	return job, nil
}
