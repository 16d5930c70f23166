package notify

import (
	"context"
	"encoding/json"
	"fmt"

	kafkax "github.com/ariefcatur/go-order-management.git/internal/kafka"
	"github.com/ariefcatur/go-order-management.git/internal/orders"
	"github.com/ariefcatur/go-order-management.git/internal/redisx"
	"github.com/redis/go-redis/v9"
	kafkago "github.com/segmentio/kafka-go"
)

// Service consumes status-changed events and sends the customer email.
type Service struct {
	Redis       *redis.Client // optional; without it redeliveries are re-sent
	Sender      Sender
	ServiceName string
}

// HandleStatusChanged is wired as the consumer handler.
func (s *Service) HandleStatusChanged(ctx context.Context, m kafkago.Message) error {
	var env orders.Envelope
	if err := json.Unmarshal(m.Value, &env); err != nil {
		return err
	}
	if env.EventType != orders.EventOrderStatusChanged {
		return nil
	}

	if s.Redis != nil {
		dkey := fmt.Sprintf(redisx.KeyDedup, s.ServiceName, env.EventID)
		if seen, _ := redisx.Exists(ctx, s.Redis, dkey); seen {
			return nil
		}
		_ = s.Redis.Set(ctx, dkey, "1", redisx.TTLDedup).Err()
	}

	p, err := kafkax.UnwrapPayload[orders.OrderStatusChangedPayload](env.Payload)
	if err != nil {
		return err
	}

	subject := fmt.Sprintf("Order %s Status Update", p.OrderID)
	body := fmt.Sprintf("Your order status has been updated to %s", p.Status)
	return s.Sender.Send(ctx, p.CustomerEmail, subject, body)
}
