package messaging

import (
	"context"
	"encoding/json"
	"fmt"
	"log"

	"billing_reconciler/internal/domain/entities"
	"billing_reconciler/internal/usecase/interfaces"
)

const DefaultRealtimeExchange = "notifications.realtime"

// RealtimeRelay carries realtime notices from worker processes to every API
// process, where the websocket sessions live.
type RealtimeRelay struct {
	client   *RabbitMQClient
	exchange string
}

var _ interfaces.IRealtimePublisher = (*RealtimeRelay)(nil)

func NewRealtimeRelay(client *RabbitMQClient, exchange string) (*RealtimeRelay, error) {
	if exchange == "" {
		exchange = DefaultRealtimeExchange
	}
	if err := client.CreateFanout(exchange); err != nil {
		return nil, fmt.Errorf("declare exchange %s: %w", exchange, err)
	}
	return &RealtimeRelay{client: client, exchange: exchange}, nil
}

func (r *RealtimeRelay) Publish(ctx context.Context, intent entities.RealtimeIntent) error {
	body, err := json.Marshal(intent)
	if err != nil {
		return err
	}
	return r.client.Publish(ctx, r.exchange, "", body, "")
}

// Forward binds a private queue to the exchange and hands every notice to
// local until ctx ends.
func (r *RealtimeRelay) Forward(ctx context.Context, local interfaces.IRealtimePublisher) error {
	ch, err := r.client.Channel()
	if err != nil {
		return fmt.Errorf("open relay channel: %w", err)
	}
	defer ch.Close()

	q, err := ch.QueueDeclare("", false, true, true, false, nil)
	if err != nil {
		return fmt.Errorf("declare relay queue: %w", err)
	}
	if err := ch.QueueBind(q.Name, "", r.exchange, false, nil); err != nil {
		return fmt.Errorf("bind relay queue: %w", err)
	}
	msgs, err := ch.Consume(q.Name, "", true, true, false, false, nil)
	if err != nil {
		return fmt.Errorf("consume relay queue: %w", err)
	}
	log.Printf("[realtime][relay] forwarding exchange=%s queue=%s", r.exchange, q.Name)

	for {
		select {
		case <-ctx.Done():
			return nil
		case m, ok := <-msgs:
			if !ok {
				return nil
			}
			var intent entities.RealtimeIntent
			if err := json.Unmarshal(m.Body, &intent); err != nil {
				log.Printf("[realtime][relay] dropping malformed notice err=%v", err)
				continue
			}
			if err := local.Publish(ctx, intent); err != nil {
				log.Printf("[realtime][relay] local publish failed user_id=%s err=%v", intent.UserID, err)
			}
		}
	}
}
