package messaging

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"strconv"
	"time"

	"billing_reconciler/internal/domain/entities"
	"billing_reconciler/internal/jobs"

	amqp "github.com/rabbitmq/amqp091-go"
)

const DefaultJobsQueue = "notifications.jobs"

// JobQueues names the three queues behind one job stream. Retry messages sit
// in Retry until their expiration and are dead-lettered back to Main.
type JobQueues struct {
	Main   string
	Retry  string
	Failed string
}

func NewJobQueues(base string) JobQueues {
	if base == "" {
		base = DefaultJobsQueue
	}
	return JobQueues{Main: base, Retry: base + ".retry", Failed: base + ".failed"}
}

func (q JobQueues) retryArgs() amqp.Table {
	return amqp.Table{
		"x-dead-letter-exchange":    "",
		"x-dead-letter-routing-key": q.Main,
	}
}

// RabbitMQBroker is the durable jobs.Broker.
type RabbitMQBroker struct {
	client   *RabbitMQClient
	queues   JobQueues
	prefetch int
}

var _ jobs.Broker = (*RabbitMQBroker)(nil)

func NewRabbitMQBroker(client *RabbitMQClient, queues JobQueues, prefetch int) (*RabbitMQBroker, error) {
	if prefetch <= 0 {
		prefetch = 1
	}
	if err := client.CreateQueue(queues.Main, nil); err != nil {
		return nil, fmt.Errorf("declare %s: %w", queues.Main, err)
	}
	if err := client.CreateQueue(queues.Retry, queues.retryArgs()); err != nil {
		return nil, fmt.Errorf("declare %s: %w", queues.Retry, err)
	}
	if err := client.CreateQueue(queues.Failed, nil); err != nil {
		return nil, fmt.Errorf("declare %s: %w", queues.Failed, err)
	}
	log.Printf("[jobs][rabbitmq] queues ready main=%s retry=%s failed=%s", queues.Main, queues.Retry, queues.Failed)
	return &RabbitMQBroker{client: client, queues: queues, prefetch: prefetch}, nil
}

func (b *RabbitMQBroker) Publish(ctx context.Context, job entities.Job) error {
	body, err := json.Marshal(job)
	if err != nil {
		return err
	}
	return b.client.Publish(ctx, "", b.queues.Main, body, "")
}

// PublishDelayed relies on per-message expiration. All retries share one
// delay, so expirations stay in queue order.
func (b *RabbitMQBroker) PublishDelayed(ctx context.Context, job entities.Job, delay time.Duration) error {
	body, err := json.Marshal(job)
	if err != nil {
		return err
	}
	return b.client.Publish(ctx, "", b.queues.Retry, body, expirationMillis(delay))
}

func (b *RabbitMQBroker) Park(ctx context.Context, job entities.FailedJob) error {
	body, err := json.Marshal(job)
	if err != nil {
		return err
	}
	return b.client.Publish(ctx, "", b.queues.Failed, body, "")
}

func (b *RabbitMQBroker) Consume(ctx context.Context) (<-chan jobs.Delivery, error) {
	ch, err := b.client.Channel()
	if err != nil {
		return nil, fmt.Errorf("open consumer channel: %w", err)
	}
	if err := ch.Qos(b.prefetch, 0, false); err != nil {
		ch.Close()
		return nil, fmt.Errorf("set prefetch: %w", err)
	}
	msgs, err := ch.Consume(
		b.queues.Main,
		"",    // consumer
		false, // auto-ack
		false, // exclusive
		false, // no-local
		false, // no-wait
		nil,
	)
	if err != nil {
		ch.Close()
		return nil, fmt.Errorf("consume %s: %w", b.queues.Main, err)
	}

	out := make(chan jobs.Delivery)
	go func() {
		defer close(out)
		defer ch.Close()
		for {
			select {
			case <-ctx.Done():
				return
			case m, ok := <-msgs:
				if !ok {
					log.Printf("[jobs][rabbitmq] delivery channel closed queue=%s", b.queues.Main)
					return
				}
				d, ok := toDelivery(m)
				if !ok {
					continue
				}
				select {
				case out <- d:
				case <-ctx.Done():
					_ = m.Nack(false, true)
					return
				}
			}
		}
	}()
	return out, nil
}

func (b *RabbitMQBroker) Close() error {
	return b.client.Close()
}

// toDelivery decodes a message. Undecodable bodies are rejected without
// requeue since no retry can fix them.
func toDelivery(m amqp.Delivery) (jobs.Delivery, bool) {
	var job entities.Job
	if err := json.Unmarshal(m.Body, &job); err != nil || job.ID == "" {
		log.Printf("[jobs][rabbitmq] rejecting malformed job message_id=%s err=%v", m.MessageId, err)
		_ = m.Reject(false)
		return jobs.Delivery{}, false
	}
	return jobs.Delivery{
		Job:  job,
		Ack:  func() error { return m.Ack(false) },
		Nack: func(requeue bool) error { return m.Nack(false, requeue) },
	}, true
}

func expirationMillis(d time.Duration) string {
	ms := d.Milliseconds()
	if ms < 0 {
		ms = 0
	}
	return strconv.FormatInt(ms, 10)
}
