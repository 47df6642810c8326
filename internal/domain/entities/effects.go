package entities

type EmailTemplate string

const (
	EmailPaymentConfirmation EmailTemplate = "payment_confirmation"
	EmailPaymentRejection    EmailTemplate = "payment_rejection"
	EmailPaymentRefund       EmailTemplate = "payment_refund"
	EmailSubscriptionCreated EmailTemplate = "subscription_created"
	EmailSubscriptionRenewal EmailTemplate = "subscription_renewal"
	EmailChargebackReceived  EmailTemplate = "chargeback_received"
	EmailClaimReceived       EmailTemplate = "claim_received"
	EmailCardUpdated         EmailTemplate = "card_updated"
)

// EmailIntent asks the mail pipeline to render Template for UserID.
type EmailIntent struct {
	Template  EmailTemplate  `json:"template"`
	UserID    string         `json:"user_id"`
	ViewModel map[string]any `json:"view_model,omitempty"`
}

const RealtimeEventRefundCompleted = "refund_completed"

type RealtimeIntent struct {
	UserID  string         `json:"user_id"`
	Event   string         `json:"event"`
	Payload map[string]any `json:"payload,omitempty"`
}

// AdminIntent carries a human readable change list for operators.
type AdminIntent struct {
	Subject string   `json:"subject"`
	Changes []string `json:"changes"`
}

// Effects are produced by a reconciliation handler and only executed once
// its transaction has committed.
type Effects struct {
	Emails         []EmailIntent
	Realtime       []RealtimeIntent
	Admin          []AdminIntent
	InvalidateKeys []string
	BumpVersions   []string
}

func (e *Effects) Email(template EmailTemplate, userID string, viewModel map[string]any) {
	e.Emails = append(e.Emails, EmailIntent{Template: template, UserID: userID, ViewModel: viewModel})
}

func (e *Effects) Notify(userID, event string, payload map[string]any) {
	e.Realtime = append(e.Realtime, RealtimeIntent{UserID: userID, Event: event, Payload: payload})
}

func (e *Effects) Invalidate(keys ...string) {
	e.InvalidateKeys = append(e.InvalidateKeys, keys...)
}

func (e Effects) Empty() bool {
	return len(e.Emails) == 0 && len(e.Realtime) == 0 && len(e.Admin) == 0 &&
		len(e.InvalidateKeys) == 0 && len(e.BumpVersions) == 0
}

// Cache keys shared by handlers and read paths.
const (
	CacheVersionPlans = "plans:active"
)

func UserSubscriptionCacheKey(userID string) string {
	return "subscription:user:" + userID
}

func UserPaymentsCacheKey(userID string) string {
	return "payments:user:" + userID
}
