package events

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/google/go-cmp/cmp"
	"github.com/google/uuid"
	"github.com/metinatakli/cinema-booking/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	testNow    = time.Date(2025, 5, 2, 9, 15, 0, 0, time.UTC)
	testTicket = domain.Ticket{
		ID:           "K7Q2M9XA",
		CustomerName: "Asha",
		Category:     domain.CategoryVIP,
		MovieName:    "Interstellar",
		SlotLabel:    "07:00 PM",
		SeatCount:    3,
		CreatedAt:    testNow,
	}
)

type failingPublisher struct{}

func (failingPublisher) Publish(string, ...*message.Message) error {
	return errors.New("broker unavailable")
}

func (failingPublisher) Close() error {
	return nil
}

func receive(t *testing.T, messages <-chan *message.Message) *message.Message {
	t.Helper()

	select {
	case msg := <-messages:
		msg.Ack()
		return msg
	case <-time.After(2 * time.Second):
		t.Fatal("no message received")
		return nil
	}
}

func newTestPublisher(t *testing.T, topic string) (*Publisher, <-chan *message.Message) {
	t.Helper()

	pubSub := gochannel.NewGoChannel(gochannel.Config{}, watermill.NopLogger{})
	t.Cleanup(func() { pubSub.Close() })

	messages, err := pubSub.Subscribe(context.Background(), topic)
	require.NoError(t, err)

	p := NewPublisher(pubSub)
	p.now = func() time.Time { return testNow }

	return p, messages
}

func TestPublisherTicketBooked(t *testing.T) {
	p, messages := newTestPublisher(t, TopicTicketBooked)

	ctx := ContextWithCorrelationID(context.Background(), "req-42")
	require.NoError(t, p.TicketBooked(ctx, testTicket))

	msg := receive(t, messages)
	assert.Equal(t, "req-42", msg.Metadata.Get("correlation_id"))

	var got TicketBooked
	require.NoError(t, json.Unmarshal(msg.Payload, &got))

	_, err := uuid.Parse(got.EventID)
	require.NoError(t, err)
	got.EventID = ""

	want := TicketBooked{
		TicketID:        "K7Q2M9XA",
		CustomerName:    "Asha",
		BookingCategory: "VIP",
		MovieName:       "Interstellar",
		SlotLabel:       "07:00 PM",
		SeatCount:       3,
		OccurredAt:      testNow,
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("event mismatch (-want +got):\n%s", diff)
	}
}

func TestPublisherTicketCancelled(t *testing.T) {
	p, messages := newTestPublisher(t, TopicTicketCancelled)

	require.NoError(t, p.TicketCancelled(context.Background(), testTicket))

	msg := receive(t, messages)
	assert.Empty(t, msg.Metadata.Get("correlation_id"))

	var got TicketCancelled
	require.NoError(t, json.Unmarshal(msg.Payload, &got))
	assert.Equal(t, "K7Q2M9XA", got.TicketID)
	assert.Equal(t, 3, got.SeatCount)
	assert.Equal(t, testNow, got.OccurredAt)
}

func TestPublisherReportsBrokerErrors(t *testing.T) {
	p := NewPublisher(failingPublisher{})

	err := p.TicketBooked(context.Background(), testTicket)
	assert.ErrorContains(t, err, "failed to publish tickets.booked event")
	assert.ErrorContains(t, err, "broker unavailable")
}
