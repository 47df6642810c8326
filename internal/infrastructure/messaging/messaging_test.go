package messaging

import (
	"encoding/json"
	"testing"
	"time"

	"billing_reconciler/internal/domain/entities"

	amqp "github.com/rabbitmq/amqp091-go"
)

type fakeAcknowledger struct {
	acked, nacked, rejected bool
	requeue                 bool
}

func (f *fakeAcknowledger) Ack(uint64, bool) error { f.acked = true; return nil }

func (f *fakeAcknowledger) Nack(_ uint64, _ bool, requeue bool) error {
	f.nacked, f.requeue = true, requeue
	return nil
}

func (f *fakeAcknowledger) Reject(_ uint64, requeue bool) error {
	f.rejected, f.requeue = true, requeue
	return nil
}

func TestNewJobQueues(t *testing.T) {
	q := NewJobQueues("")
	if q.Main != "notifications.jobs" || q.Retry != "notifications.jobs.retry" || q.Failed != "notifications.jobs.failed" {
		t.Fatalf("unexpected queue names %+v", q)
	}
	args := q.retryArgs()
	if args["x-dead-letter-exchange"] != "" || args["x-dead-letter-routing-key"] != q.Main {
		t.Fatalf("retry queue must dead-letter into main, got %v", args)
	}
	if got := expirationMillis(60 * time.Second); got != "60000" {
		t.Fatalf("expected 60000, got %s", got)
	}
}

func TestToDelivery(t *testing.T) {
	t.Run("decodes job and wires acks", func(t *testing.T) {
		body, _ := json.Marshal(entities.Job{ID: "job-1", Kind: entities.JobKindClaim, ResourceID: "55", Attempt: 2})
		ack := &fakeAcknowledger{}
		d, ok := toDelivery(amqp.Delivery{Acknowledger: ack, Body: body})
		if !ok || d.Job.ID != "job-1" || d.Job.Attempt != 2 || d.Job.Kind != entities.JobKindClaim {
			t.Fatalf("unexpected delivery %+v ok=%v", d.Job, ok)
		}
		if err := d.Nack(true); err != nil || !ack.nacked || !ack.requeue {
			t.Fatalf("nack must requeue, got %+v err=%v", ack, err)
		}
		if err := d.Ack(); err != nil || !ack.acked {
			t.Fatalf("ack not forwarded")
		}
	})

	t.Run("malformed body is rejected", func(t *testing.T) {
		ack := &fakeAcknowledger{}
		if _, ok := toDelivery(amqp.Delivery{Acknowledger: ack, Body: []byte("{")}); ok {
			t.Fatalf("expected malformed body to be skipped")
		}
		if !ack.rejected || ack.requeue {
			t.Fatalf("expected reject without requeue, got %+v", ack)
		}
	})
}

func TestEmailEnvelope(t *testing.T) {
	now := time.Date(2024, 1, 15, 10, 0, 0, 0, time.UTC)
	body, err := encodeAdmin("ops@example.com", entities.AdminIntent{Subject: "plan changed", Changes: []string{"amount: 29.9 -> 39.9"}}, now)
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	var env emailEnvelope
	if err := json.Unmarshal(body, &env); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if env.Type != envelopeAdmin || env.To != "ops@example.com" || env.Admin == nil || env.Email != nil || len(env.Admin.Changes) != 1 {
		t.Fatalf("unexpected envelope %+v", env)
	}

	body, _ = encodeEmail(entities.EmailIntent{Template: entities.EmailPaymentRefund, UserID: "user-1"}, now)
	env = emailEnvelope{}
	_ = json.Unmarshal(body, &env)
	if env.Type != envelopeEmail || env.Email == nil || env.Email.Template != entities.EmailPaymentRefund {
		t.Fatalf("unexpected envelope %+v", env)
	}
}
