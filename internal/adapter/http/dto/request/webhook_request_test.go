package request

import (
	"encoding/json"
	"testing"
)

func TestWebhookNotificationRequest_Decode(t *testing.T) {
	t.Run("numeric and string ids", func(t *testing.T) {
		var r WebhookNotificationRequest
		body := `{"id":12345,"type":"payment","action":"payment.updated","data":{"id":"987"}}`
		if err := json.Unmarshal([]byte(body), &r); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if r.ID != "12345" || r.Data.ID != "987" {
			t.Fatalf("unexpected ids: %+v", r)
		}
		n := r.ToNotification("", "")
		if n.Type != "payment" || n.DataID != "987" || n.Action != "payment.updated" {
			t.Fatalf("unexpected notification: %+v", n)
		}
	})

	t.Run("card notification", func(t *testing.T) {
		var r WebhookNotificationRequest
		body := `{"type":"automatic-payments","data":{"customer_id":"cus-1","new_card_id":555,"old_card_id":444}}`
		if err := json.Unmarshal([]byte(body), &r); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		n := r.ToNotification("", "")
		if n.DataID != "555" || n.CustomerID != "cus-1" {
			t.Fatalf("unexpected notification: %+v", n)
		}
	})

	t.Run("query fallback", func(t *testing.T) {
		r := WebhookNotificationRequest{}
		n := r.ToNotification("payment", " 42 ")
		if n.Type != "payment" || n.DataID != "42" {
			t.Fatalf("unexpected notification: %+v", n)
		}
	})

	t.Run("topic used when type is absent", func(t *testing.T) {
		r := WebhookNotificationRequest{Topic: "topic_chargebacks_wh"}
		if got := r.ResolveType("payment"); got != "topic_chargebacks_wh" {
			t.Fatalf("expected topic, got %q", got)
		}
	})

	t.Run("invalid id", func(t *testing.T) {
		var r WebhookNotificationRequest
		if err := json.Unmarshal([]byte(`{"data":{"id":{"x":1}}}`), &r); err == nil {
			t.Fatalf("expected decode error")
		}
	})
}

func TestCheckoutRequest_ToInput(t *testing.T) {
	r := CheckoutRequest{UserID: "user-1", PlanID: "plan-1", MPPayload: json.RawMessage(`{"token":"tok"}`)}
	in := r.ToInput("key-1")
	if in.IdempotencyKey != "key-1" || in.UserID != "user-1" || in.PlanID != "plan-1" || string(in.Payload) != `{"token":"tok"}` {
		t.Fatalf("unexpected input: %+v", in)
	}
}
