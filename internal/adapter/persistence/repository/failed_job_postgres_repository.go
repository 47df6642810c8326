package repository

import (
	"context"

	"billing_reconciler/internal/domain/entities"
	"billing_reconciler/internal/usecase/interfaces"

	"github.com/jackc/pgx/v5/pgxpool"
)

// FailedJobPostgresRepository records parked jobs in the failed_jobs table.
// A job parked twice keeps its latest failure.
type FailedJobPostgresRepository struct {
	pool *pgxpool.Pool
}

var _ interfaces.IFailedJobStore = (*FailedJobPostgresRepository)(nil)

func NewFailedJobPostgresRepository(pool *pgxpool.Pool) *FailedJobPostgresRepository {
	return &FailedJobPostgresRepository{pool: pool}
}

func (r *FailedJobPostgresRepository) Save(ctx context.Context, job entities.FailedJob) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO failed_jobs (job_id, kind, resource_id, attempts, last_error, failed_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (job_id) DO UPDATE
			SET attempts = EXCLUDED.attempts, last_error = EXCLUDED.last_error, failed_at = EXCLUDED.failed_at`,
		job.JobID, string(job.Kind), job.ResourceID, job.Attempts, job.LastError, job.FailedAt)
	return err
}

func (r *FailedJobPostgresRepository) List(ctx context.Context, limit int) ([]entities.FailedJob, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT job_id, kind, resource_id, attempts, last_error, failed_at
		FROM failed_jobs
		ORDER BY failed_at DESC
		LIMIT $1`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := make([]entities.FailedJob, 0, limit)
	for rows.Next() {
		var j entities.FailedJob
		var kind string
		if err := rows.Scan(&j.JobID, &kind, &j.ResourceID, &j.Attempts, &j.LastError, &j.FailedAt); err != nil {
			return nil, err
		}
		j.Kind = entities.JobKind(kind)
		items = append(items, j)
	}
	return items, rows.Err()
}
