// Package events publishes ticket lifecycle events over watermill and keeps
// a journal of them.
package events

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/metinatakli/cinema-booking/internal/domain"
)

const (
	TopicTicketBooked    = "tickets.booked"
	TopicTicketCancelled = "tickets.cancelled"

	correlationIDKey = "correlation_id"
)

type TicketBooked struct {
	EventID         string    `json:"event_id"`
	TicketID        string    `json:"ticket_id"`
	CustomerName    string    `json:"customer_name"`
	BookingCategory string    `json:"booking_category"`
	MovieName       string    `json:"movie_name"`
	SlotLabel       string    `json:"slot_label"`
	SeatCount       int       `json:"seat_count"`
	OccurredAt      time.Time `json:"occurred_at"`
}

type TicketCancelled struct {
	EventID    string    `json:"event_id"`
	TicketID   string    `json:"ticket_id"`
	MovieName  string    `json:"movie_name"`
	SlotLabel  string    `json:"slot_label"`
	SeatCount  int       `json:"seat_count"`
	OccurredAt time.Time `json:"occurred_at"`
}

func NewTicketBooked(t domain.Ticket, now time.Time) TicketBooked {
	return TicketBooked{
		EventID:         uuid.NewString(),
		TicketID:        t.ID,
		CustomerName:    t.CustomerName,
		BookingCategory: string(t.Category),
		MovieName:       t.MovieName,
		SlotLabel:       t.SlotLabel,
		SeatCount:       t.SeatCount,
		OccurredAt:      now.UTC(),
	}
}

func NewTicketCancelled(t domain.Ticket, now time.Time) TicketCancelled {
	return TicketCancelled{
		EventID:    uuid.NewString(),
		TicketID:   t.ID,
		MovieName:  t.MovieName,
		SlotLabel:  t.SlotLabel,
		SeatCount:  t.SeatCount,
		OccurredAt: now.UTC(),
	}
}

type correlationIDCtxKey struct{}

func ContextWithCorrelationID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, correlationIDCtxKey{}, id)
}

func CorrelationIDFromContext(ctx context.Context) string {
	id, _ := ctx.Value(correlationIDCtxKey{}).(string)
	return id
}
