package app

import (
	"context"

	"github.com/metinatakli/cinema-booking/internal/domain"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

const (
	rejectValidation = "validation"
	rejectNotFound   = "not_found"
	rejectCapacity   = "insufficient_capacity"
	rejectMalformed  = "malformed_request"
	rejectInternal   = "internal"
)

type bookingMetrics struct {
	ticketsBooked    metric.Int64Counter
	seatsBooked      metric.Int64Counter
	ticketsCancelled metric.Int64Counter
	bookingsRejected metric.Int64Counter
}

func newBookingMetrics(meter metric.Meter) (*bookingMetrics, error) {
	var (
		m   bookingMetrics
		err error
	)

	m.ticketsBooked, err = meter.Int64Counter("cinema.tickets.booked",
		metric.WithDescription("Tickets issued"))
	if err != nil {
		return nil, err
	}

	m.seatsBooked, err = meter.Int64Counter("cinema.seats.booked",
		metric.WithDescription("Seats taken by issued tickets"))
	if err != nil {
		return nil, err
	}

	m.ticketsCancelled, err = meter.Int64Counter("cinema.tickets.cancelled",
		metric.WithDescription("Tickets cancelled"))
	if err != nil {
		return nil, err
	}

	m.bookingsRejected, err = meter.Int64Counter("cinema.bookings.rejected",
		metric.WithDescription("Booking requests that did not produce a ticket"))
	if err != nil {
		return nil, err
	}

	return &m, nil
}

func (m *bookingMetrics) booked(ctx context.Context, t domain.Ticket) {
	attrs := metric.WithAttributes(
		attribute.String("movie", t.MovieName),
		attribute.String("booking_category", string(t.Category)),
	)

	m.ticketsBooked.Add(ctx, 1, attrs)
	m.seatsBooked.Add(ctx, int64(t.SeatCount), attrs)
}

func (m *bookingMetrics) cancelled(ctx context.Context, t domain.Ticket) {
	m.ticketsCancelled.Add(ctx, 1, metric.WithAttributes(attribute.String("movie", t.MovieName)))
}

func (m *bookingMetrics) rejected(ctx context.Context, reason string) {
	m.bookingsRejected.Add(ctx, 1, metric.WithAttributes(attribute.String("reason", reason)))
}
