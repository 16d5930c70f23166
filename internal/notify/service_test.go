package notify

import (
	"context"
	"testing"
	"time"

	kafkax "github.com/ariefcatur/go-order-management.git/internal/kafka"
	"github.com/ariefcatur/go-order-management.git/internal/orders"
	kafkago "github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sentMail struct {
	to, subject, body string
}

type recSender struct {
	mails []sentMail
}

func (r *recSender) Send(_ context.Context, to, subject, body string) error {
	r.mails = append(r.mails, sentMail{to: to, subject: subject, body: body})
	return nil
}

func statusMessage(t *testing.T, eventType string, p orders.OrderStatusChangedPayload) kafkago.Message {
	t.Helper()
	env := orders.Envelope{
		EventID:       "ev-1",
		EventType:     eventType,
		EventVersion:  1,
		OccurredAt:    time.Now().UTC(),
		Producer:      "test",
		CorrelationID: p.OrderID,
		Payload:       kafkax.MustMarshal(p),
	}
	return kafkago.Message{Value: kafkax.MustMarshal(env)}
}

func TestHandleStatusChangedSendsEmail(t *testing.T) {
	rec := &recSender{}
	svc := &Service{Sender: rec, ServiceName: "test-notifier"}

	m := statusMessage(t, orders.EventOrderStatusChanged, orders.OrderStatusChangedPayload{
		OrderID:       "o-1",
		CustomerID:    "c-1",
		CustomerEmail: "ada@example.com",
		Status:        orders.StatusShipped,
	})
	require.NoError(t, svc.HandleStatusChanged(context.Background(), m))

	require.Len(t, rec.mails, 1)
	assert.Equal(t, "ada@example.com", rec.mails[0].to)
	assert.Contains(t, rec.mails[0].subject, "o-1")
	assert.Contains(t, rec.mails[0].body, "Shipped")
}

func TestHandleStatusChangedIgnoresOtherEvents(t *testing.T) {
	rec := &recSender{}
	svc := &Service{Sender: rec, ServiceName: "test-notifier"}

	m := statusMessage(t, "SomethingElse", orders.OrderStatusChangedPayload{OrderID: "o-1"})
	require.NoError(t, svc.HandleStatusChanged(context.Background(), m))
	assert.Empty(t, rec.mails)
}

func TestHandleStatusChangedRejectsMalformed(t *testing.T) {
	svc := &Service{Sender: &recSender{}, ServiceName: "test-notifier"}
	err := svc.HandleStatusChanged(context.Background(), kafkago.Message{Value: []byte("{broken")})
	require.Error(t, err)
}
