package messaging

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"billing_reconciler/internal/domain/entities"
	"billing_reconciler/internal/usecase/interfaces"
)

const DefaultEmailQueue = "notifications.emails"

type envelopeType string

const (
	envelopeEmail envelopeType = "email"
	envelopeAdmin envelopeType = "admin"
)

// emailEnvelope is the message the mail renderer consumes.
type emailEnvelope struct {
	Type      envelopeType          `json:"type"`
	To        string                `json:"to,omitempty"`
	Email     *entities.EmailIntent `json:"email,omitempty"`
	Admin     *entities.AdminIntent `json:"admin,omitempty"`
	CreatedAt time.Time             `json:"created_at"`
}

func encodeEmail(intent entities.EmailIntent, now time.Time) ([]byte, error) {
	return json.Marshal(emailEnvelope{Type: envelopeEmail, Email: &intent, CreatedAt: now})
}

func encodeAdmin(to string, intent entities.AdminIntent, now time.Time) ([]byte, error) {
	return json.Marshal(emailEnvelope{Type: envelopeAdmin, To: to, Admin: &intent, CreatedAt: now})
}

// RabbitMQOutbox publishes email and admin intents to a durable queue.
type RabbitMQOutbox struct {
	client     *RabbitMQClient
	queue      string
	adminEmail string
}

var _ interfaces.IEmailOutbox = (*RabbitMQOutbox)(nil)

func NewRabbitMQOutbox(client *RabbitMQClient, queue, adminEmail string) (*RabbitMQOutbox, error) {
	if queue == "" {
		queue = DefaultEmailQueue
	}
	if err := client.CreateQueue(queue, nil); err != nil {
		return nil, fmt.Errorf("declare %s: %w", queue, err)
	}
	return &RabbitMQOutbox{client: client, queue: queue, adminEmail: adminEmail}, nil
}

func (o *RabbitMQOutbox) SendEmail(ctx context.Context, intent entities.EmailIntent) error {
	body, err := encodeEmail(intent, time.Now().UTC())
	if err != nil {
		return err
	}
	if err := o.client.Publish(ctx, "", o.queue, body, ""); err != nil {
		return err
	}
	log.Printf("[dispatch][outbox] email queued template=%s user_id=%s", intent.Template, intent.UserID)
	return nil
}

func (o *RabbitMQOutbox) SendAdmin(ctx context.Context, intent entities.AdminIntent) error {
	body, err := encodeAdmin(o.adminEmail, intent, time.Now().UTC())
	if err != nil {
		return err
	}
	if err := o.client.Publish(ctx, "", o.queue, body, ""); err != nil {
		return err
	}
	log.Printf("[dispatch][outbox] admin notice queued subject=%q changes=%d", intent.Subject, len(intent.Changes))
	return nil
}

// LogOutbox only logs intents. Used when no broker is configured.
type LogOutbox struct {
	adminEmail string
}

var _ interfaces.IEmailOutbox = (*LogOutbox)(nil)

func NewLogOutbox(adminEmail string) *LogOutbox {
	return &LogOutbox{adminEmail: adminEmail}
}

func (o *LogOutbox) SendEmail(_ context.Context, intent entities.EmailIntent) error {
	body, err := encodeEmail(intent, time.Now().UTC())
	if err != nil {
		return err
	}
	log.Printf("[dispatch][outbox] email %s", body)
	return nil
}

func (o *LogOutbox) SendAdmin(_ context.Context, intent entities.AdminIntent) error {
	body, err := encodeAdmin(o.adminEmail, intent, time.Now().UTC())
	if err != nil {
		return err
	}
	log.Printf("[dispatch][outbox] admin %s", body)
	return nil
}
