package events

import (
	"encoding/json"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/ThreeDotsLabs/watermill/message"
)

// Journal appends one line per ticket event to w.
type Journal struct {
	mu sync.Mutex
	w  io.Writer
}

func NewJournal(w io.Writer) *Journal {
	return &Journal{w: w}
}

// Register subscribes the journal to both ticket topics.
func (j *Journal) Register(router *message.Router, sub message.Subscriber) {
	router.AddNoPublisherHandler("journal_tickets_booked", TopicTicketBooked, sub, j.handleBooked)
	router.AddNoPublisherHandler("journal_tickets_cancelled", TopicTicketCancelled, sub, j.handleCancelled)
}

func (j *Journal) handleBooked(msg *message.Message) error {
	var e TicketBooked
	if err := json.Unmarshal(msg.Payload, &e); err != nil {
		// a payload that cannot be decoded will never succeed, drop it
		return nil
	}

	return j.write(fmt.Sprintf("%s booked ticket=%s movie=%q slot=%q seats=%d category=%s correlation_id=%s",
		e.OccurredAt.Format(time.RFC3339), e.TicketID, e.MovieName, e.SlotLabel, e.SeatCount,
		e.BookingCategory, msg.Metadata.Get(correlationIDKey)))
}

func (j *Journal) handleCancelled(msg *message.Message) error {
	var e TicketCancelled
	if err := json.Unmarshal(msg.Payload, &e); err != nil {
		return nil
	}

	return j.write(fmt.Sprintf("%s cancelled ticket=%s movie=%q slot=%q seats=%d correlation_id=%s",
		e.OccurredAt.Format(time.RFC3339), e.TicketID, e.MovieName, e.SlotLabel, e.SeatCount,
		msg.Metadata.Get(correlationIDKey)))
}

func (j *Journal) write(line string) error {
	j.mu.Lock()
	defer j.mu.Unlock()

	_, err := io.WriteString(j.w, line+"\n")
	return err
}
