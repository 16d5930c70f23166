package kafka

import (
	"context"
	"log"
	"time"

	"github.com/segmentio/kafka-go"
)

// Handler must return nil only when the message was fully processed and the
// offset may be committed.
type Handler func(ctx context.Context, m kafka.Message) error

const (
	defaultQueueSize  = 1024
	defaultErrBackoff = 200 * time.Millisecond
)

type Consumer struct {
	r       *kafka.Reader
	workers int

	// QueueSize bounds the in-flight dispatch channel; ErrBackoff is how
	// long the read loop pauses after a worker error. Both may be adjusted
	// before Start; zero values keep the defaults.
	QueueSize  int
	ErrBackoff time.Duration
}

func NewConsumer(brokers []string, group, topic string, workers int) *Consumer {
	r := kafka.NewReader(kafka.ReaderConfig{
		Brokers:        brokers,
		GroupID:        group,
		Topic:          topic,
		MinBytes:       1,
		MaxBytes:       10e6,
		CommitInterval: 0, // manual commit
	})
	if workers <= 0 {
		workers = 1
	}
	return &Consumer{
		r:          r,
		workers:    workers,
		QueueSize:  defaultQueueSize,
		ErrBackoff: defaultErrBackoff,
	}
}

func (c *Consumer) Start(ctx context.Context, h Handler) error {
	defer c.r.Close()

	queue := c.QueueSize
	if queue <= 0 {
		queue = defaultQueueSize
	}
	backoff := c.ErrBackoff
	if backoff <= 0 {
		backoff = defaultErrBackoff
	}

	jobs := make(chan kafka.Message, queue)
	errs := make(chan error, c.workers)

	for i := 0; i < c.workers; i++ {
		go func() {
			for m := range jobs {
				if err := h(ctx, m); err != nil {
					errs <- err
					continue
				}
				if err := c.r.CommitMessages(ctx, m); err != nil {
					errs <- err
				}
			}
		}()
	}

	for {
		m, err := c.r.ReadMessage(ctx)
		if err != nil {
			close(jobs)
			select {
			case <-ctx.Done():
				return nil
			default:
				return err
			}
		}
		select {
		case jobs <- m:
		case <-ctx.Done():
			close(jobs)
			return nil
		}

		// drain worker errors without blocking the read loop
		select {
		case e := <-errs:
			log.Printf("worker error: %v", e)
			time.Sleep(backoff)
		default:
		}
	}
}
