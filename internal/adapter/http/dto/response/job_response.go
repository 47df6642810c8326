package response

import (
	"time"

	"billing_reconciler/internal/domain/entities"
)

// WebhookAcceptedResponse is returned to the provider. Status is "queued" or
// "ignored".
type WebhookAcceptedResponse struct {
	Status string `json:"status"`
	JobID  string `json:"job_id,omitempty"`
}

type FailedJobResponse struct {
	JobID      string    `json:"job_id"`
	Kind       string    `json:"kind"`
	ResourceID string    `json:"resource_id"`
	Attempts   int       `json:"attempts"`
	LastError  string    `json:"last_error"`
	FailedAt   time.Time `json:"failed_at"`
}

func FromFailedJobs(jobs []entities.FailedJob) []FailedJobResponse {
	out := make([]FailedJobResponse, 0, len(jobs))
	for _, j := range jobs {
		out = append(out, FailedJobResponse{
			JobID:      j.JobID,
			Kind:       string(j.Kind),
			ResourceID: j.ResourceID,
			Attempts:   j.Attempts,
			LastError:  j.LastError,
			FailedAt:   j.FailedAt,
		})
	}
	return out
}
