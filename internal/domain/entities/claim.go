package entities

import "time"

type ClaimResourceType string

const (
	ClaimResourceTypePayment      ClaimResourceType = "payment"
	ClaimResourceTypeSubscription ClaimResourceType = "subscription"
)

type ClaimStage string

const (
	ClaimStageClaim     ClaimStage = "claim"
	ClaimStageDispute   ClaimStage = "dispute"
	ClaimStageRecontact ClaimStage = "recontact"
	ClaimStageNone      ClaimStage = "none"
)

type ClaimStatus string

const (
	ClaimStatusNew         ClaimStatus = "new"
	ClaimStatusUnderReview ClaimStatus = "under_review"
	ClaimStatusResolved    ClaimStatus = "resolved"
)

// Claim is a buyer complaint opened on the provider. One row per MPClaimID.
type Claim struct {
	ID           string            `json:"id"`
	MPClaimID    int64             `json:"mp_claim_id"`
	ResourceID   string            `json:"resource_id"`
	ResourceType ClaimResourceType `json:"resource_type"`
	Type         string            `json:"type"`
	UserID       string            `json:"user_id,omitempty"`
	Status       ClaimStatus       `json:"status"`
	CurrentStage ClaimStage        `json:"current_stage"`
	CreatedAt    time.Time         `json:"created_at"`
	UpdatedAt    time.Time         `json:"updated_at"`
}
