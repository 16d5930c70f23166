package notify

import (
	"context"
	"log"
)

// Sender delivers a message to a customer address.
type Sender interface {
	Send(ctx context.Context, to, subject, body string) error
}

// LogSender writes the message to the process log instead of a mail
// gateway. Swap in a real SMTP/provider sender behind the same interface.
type LogSender struct{}

func (LogSender) Send(_ context.Context, to, subject, body string) error {
	log.Printf("email to=%s subject=%q body=%q", to, subject, body)
	return nil
}
