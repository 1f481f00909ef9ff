package publisher

import (
	"context"
	"log"
	"time"

	"github.com/google/uuid"
	r "github.com/iamcal77/e-shop-backened/internal/repository"
	"github.com/segmentio/kafka-go"
)

// OutboxStore is the slice of the repository the poller reads from.
type OutboxStore interface {
	GetUnpublishedEvents(ctx context.Context, limit int) ([]*r.OutboxEvent, error)
	MarkEventPublished(ctx context.Context, id uuid.UUID) error
}

// OutboxPoller drains outbox_events to Kafka. Events are written in the
// same transaction as the order they describe, so a crash between commit
// and publish only delays delivery, never loses it.
type OutboxPoller struct {
	tick   time.Duration
	repo   OutboxStore
	writer *kafka.Writer
}

func NewOutboxPoller(repo OutboxStore, brokers ...string) *OutboxPoller {
	w := &kafka.Writer{
		Addr:                   kafka.TCP(brokers...),
		Topic:                  "order-events",
		Balancer:               &kafka.LeastBytes{},
		AllowAutoTopicCreation: true,
	}
	return &OutboxPoller{tick: time.Second, repo: repo, writer: w}
}

func (p *OutboxPoller) Run(ctx context.Context) {
	ticker := time.NewTicker(p.tick)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			p.processUnpublishedEvents(ctx)
		case <-ctx.Done():
			p.writer.Close()
			return
		}
	}
}

func (p *OutboxPoller) processUnpublishedEvents(ctx context.Context) {
	events, err := p.repo.GetUnpublishedEvents(ctx, 100)
	if err != nil {
		log.Printf("failed to fetch outbox events: %v", err)
		return
	}

	for _, event := range events {
		if errPublish := p.publish(ctx, event); errPublish != nil {
			log.Printf("failed to publish event id = %v with error %v", event.ID, errPublish)
			continue
		}

		if errMark := p.repo.MarkEventPublished(ctx, event.ID); errMark != nil {
			log.Printf("failed to mark event as published id = %v with error %v", event.ID, errMark)
			continue
		}
	}
}

func (p *OutboxPoller) publish(ctx context.Context, event *r.OutboxEvent) error {
	msg := kafka.Message{
		Key:   []byte(event.AggregateID), // order id for per-order ordering
		Value: event.Payload,             // Already JSON from database
		Headers: []kafka.Header{
			{Key: "event_type", Value: []byte(event.EventType)},
		},
	}
	return p.writer.WriteMessages(ctx, msg)
}
