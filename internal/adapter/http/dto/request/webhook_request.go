package request

import (
	"bytes"
	"encoding/json"
	"strings"

	"billing_reconciler/internal/usecase"
)

// NotificationID accepts ids sent either as JSON numbers or strings.
type NotificationID string

func (id *NotificationID) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if bytes.Equal(b, []byte("null")) {
		*id = ""
		return nil
	}
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*id = NotificationID(strings.TrimSpace(s))
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return err
	}
	*id = NotificationID(n.String())
	return nil
}

// WebhookData is the "data" object of a notification. Card notifications
// carry customer_id and new_card_id instead of id.
type WebhookData struct {
	ID         NotificationID `json:"id"`
	CustomerID NotificationID `json:"customer_id"`
	NewCardID  NotificationID `json:"new_card_id"`
}

// WebhookNotificationRequest is the body Mercado Pago posts. Older topics
// send "topic" instead of "type".
type WebhookNotificationRequest struct {
	ID     NotificationID `json:"id"`
	Type   string         `json:"type"`
	Topic  string         `json:"topic"`
	Action string         `json:"action"`
	Data   WebhookData    `json:"data"`
}

// ResolveType prefers type over topic, falling back to queryType when the
// body has neither.
func (r WebhookNotificationRequest) ResolveType(queryType string) string {
	for _, v := range []string{r.Type, r.Topic, queryType} {
		if v = strings.TrimSpace(v); v != "" {
			return v
		}
	}
	return ""
}

// ResolveDataID returns data.id, then data.new_card_id, then the data.id
// query parameter.
func (r WebhookNotificationRequest) ResolveDataID(queryID string) string {
	for _, v := range []string{string(r.Data.ID), string(r.Data.NewCardID), queryID} {
		if v = strings.TrimSpace(v); v != "" {
			return v
		}
	}
	return ""
}

func (r WebhookNotificationRequest) ToNotification(queryType, queryID string) usecase.WebhookNotification {
	return usecase.WebhookNotification{
		Type:       r.ResolveType(queryType),
		Action:     strings.TrimSpace(r.Action),
		DataID:     r.ResolveDataID(queryID),
		CustomerID: strings.TrimSpace(string(r.Data.CustomerID)),
	}
}
