package notify

import (
	"context"
	"time"

	kafkax "github.com/ariefcatur/go-order-management.git/internal/kafka"
	"github.com/ariefcatur/go-order-management.git/internal/orders"
	"github.com/google/uuid"
	kafkago "github.com/segmentio/kafka-go"
)

// Publisher emits OrderStatusChanged envelopes; cmd/notifier consumes them
// and does the actual delivery.
type Publisher struct {
	Producer *kafkax.Producer
	Service  string
}

func (p *Publisher) OrderStatusChanged(_ context.Context, o *orders.Order, customerEmail string) {
	ev := orders.Envelope{
		EventID:       uuid.NewString(),
		EventType:     orders.EventOrderStatusChanged,
		EventVersion:  1,
		OccurredAt:    time.Now().UTC(),
		Producer:      p.Service,
		CorrelationID: o.ID,
		Payload: kafkax.MustMarshal(orders.OrderStatusChangedPayload{
			OrderID:       o.ID,
			CustomerID:    o.CustomerID,
			CustomerEmail: customerEmail,
			Status:        o.Status,
		}),
	}
	p.Producer.Publish(orders.PartitionKey(o.ID), kafkax.MustMarshal(ev),
		kafkago.Header{Key: "x-event-type", Value: []byte(orders.EventOrderStatusChanged)},
		kafkago.Header{Key: "x-event-version", Value: []byte("1")},
	)
}
