package entities

import "testing"

func TestPaymentStatus_AwaitingProcessing(t *testing.T) {
	awaiting := map[PaymentStatus]bool{
		PaymentStatusStarting:   true,
		PaymentStatusPending:    true,
		PaymentStatusApproved:   false,
		PaymentStatusRejected:   false,
		PaymentStatusCancelled:  false,
		PaymentStatusRefunded:   false,
		PaymentStatusChargeback: false,
	}
	for s, want := range awaiting {
		if s.AwaitingProcessing() != want {
			t.Fatalf("%s: expected awaiting=%v", s, want)
		}
	}
}

func TestPaymentStatus_CanTransitionTo(t *testing.T) {
	allowed := [][2]PaymentStatus{
		{PaymentStatusStarting, PaymentStatusPending},
		{PaymentStatusPending, PaymentStatusApproved},
		{PaymentStatusPending, PaymentStatusRefunded},
		{PaymentStatusApproved, PaymentStatusChargeback},
		{PaymentStatusRefunded, PaymentStatusChargeback},
	}
	for _, tr := range allowed {
		if !tr[0].CanTransitionTo(tr[1]) {
			t.Fatalf("expected %s -> %s to be allowed", tr[0], tr[1])
		}
	}

	denied := [][2]PaymentStatus{
		{PaymentStatusApproved, PaymentStatusPending},
		{PaymentStatusRejected, PaymentStatusApproved},
		{PaymentStatusPending, PaymentStatusChargeback},
		{PaymentStatusChargeback, PaymentStatusRefunded},
		{PaymentStatusCancelled, PaymentStatusChargeback},
	}
	for _, tr := range denied {
		if tr[0].CanTransitionTo(tr[1]) {
			t.Fatalf("expected %s -> %s to be denied", tr[0], tr[1])
		}
	}
}

func TestSubscriptionStatusForPayment(t *testing.T) {
	if s, ok := SubscriptionStatusForPayment(PaymentStatusRefunded); !ok || s != SubscriptionStatusRefunded {
		t.Fatalf("expected refunded, got %s ok=%v", s, ok)
	}
	if _, ok := SubscriptionStatusForPayment(PaymentStatusPending); ok {
		t.Fatalf("pending must not propagate")
	}
}

func TestJobKind_Valid(t *testing.T) {
	if !JobKindChargeback.Valid() {
		t.Fatalf("chargeback kind must be valid")
	}
	if JobKind("video").Valid() {
		t.Fatalf("unknown kind must be invalid")
	}
}

func TestEffects(t *testing.T) {
	var e Effects
	if !e.Empty() {
		t.Fatalf("zero effects must be empty")
	}
	e.Email(EmailCardUpdated, "u1", nil)
	e.Invalidate(UserSubscriptionCacheKey("u1"))
	if e.Empty() || len(e.Emails) != 1 || e.InvalidateKeys[0] != "subscription:user:u1" {
		t.Fatalf("unexpected effects %+v", e)
	}
}
