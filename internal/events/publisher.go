package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/metinatakli/cinema-booking/internal/domain"
)

// Publisher turns ledger changes into watermill messages.
type Publisher struct {
	pub message.Publisher
	now func() time.Time
}

var _ domain.TicketEvents = (*Publisher)(nil)

func NewPublisher(pub message.Publisher) *Publisher {
	return &Publisher{
		pub: pub,
		now: time.Now,
	}
}

func (p *Publisher) TicketBooked(ctx context.Context, ticket domain.Ticket) error {
	return p.publish(ctx, TopicTicketBooked, NewTicketBooked(ticket, p.now()))
}

func (p *Publisher) TicketCancelled(ctx context.Context, ticket domain.Ticket) error {
	return p.publish(ctx, TopicTicketCancelled, NewTicketCancelled(ticket, p.now()))
}

func (p *Publisher) publish(ctx context.Context, topic string, event any) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal %s event: %w", topic, err)
	}

	msg := message.NewMessage(watermill.NewUUID(), payload)
	if id := CorrelationIDFromContext(ctx); id != "" {
		msg.Metadata.Set(correlationIDKey, id)
	}

	err = p.pub.Publish(topic, msg)
	if err != nil {
		return fmt.Errorf("failed to publish %s event: %w", topic, err)
	}

	return nil
}
