// Package messaging wires the job broker, the email outbox and the realtime
// relay to RabbitMQ.
package messaging

import (
	"context"
	"errors"
	"fmt"
	"sync"

	amqp "github.com/rabbitmq/amqp091-go"
)

var ErrPublishNotConfirmed = errors.New("publish not confirmed by broker")

// RabbitMQClient owns one connection and a confirm-mode publishing channel.
// Consumers open their own channels.
type RabbitMQClient struct {
	conn *amqp.Connection

	mu  sync.Mutex
	chn *amqp.Channel
}

func NewRabbitMQClient(url string) (*RabbitMQClient, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("dial rabbitmq: %w", err)
	}
	chn, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("open channel: %w", err)
	}
	if err := chn.Confirm(false); err != nil {
		conn.Close()
		return nil, fmt.Errorf("enable publisher confirms: %w", err)
	}
	return &RabbitMQClient{conn: conn, chn: chn}, nil
}

func (r *RabbitMQClient) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err := r.chn.Close(); err != nil && !errors.Is(err, amqp.ErrClosed) {
		return err
	}
	if err := r.conn.Close(); err != nil && !errors.Is(err, amqp.ErrClosed) {
		return err
	}
	return nil
}

// CreateQueue declares a durable queue.
func (r *RabbitMQClient) CreateQueue(queueName string, args amqp.Table) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	_, err := r.chn.QueueDeclare(
		queueName,
		true,  // durable
		false, // delete when unused
		false, // exclusive
		false, // no-wait
		args,
	)
	return err
}

func (r *RabbitMQClient) CreateFanout(exchange string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.chn.ExchangeDeclare(exchange, amqp.ExchangeFanout, true, false, false, false, nil)
}

// Publish sends a persistent JSON message and waits for the broker confirm.
func (r *RabbitMQClient) Publish(ctx context.Context, exchange, key string, body []byte, expiration string) error {
	msg := amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		Body:         body,
		Expiration:   expiration,
	}

	r.mu.Lock()
	confirm, err := r.chn.PublishWithDeferredConfirmWithContext(ctx, exchange, key, false, false, msg)
	r.mu.Unlock()
	if err != nil {
		return err
	}
	ok, err := confirm.WaitContext(ctx)
	if err != nil {
		return err
	}
	if !ok {
		return ErrPublishNotConfirmed
	}
	return nil
}

// Channel opens a dedicated channel, used by consumers.
func (r *RabbitMQClient) Channel() (*amqp.Channel, error) {
	return r.conn.Channel()
}
