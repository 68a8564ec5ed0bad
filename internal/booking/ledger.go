package booking

import (
	"errors"
	"log/slog"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/metinatakli/cinema-booking/internal/domain"
)

const maxIDAttempts = 16

type ledgerEntry struct {
	ticket domain.Ticket
	seq    uint64
}

// Ledger stores active tickets by id and keeps the catalog's seat counts in
// step with them. mu is held across the whole of a booking or a cancellation,
// and is always taken before the catalog's own lock.
type Ledger struct {
	mu      sync.Mutex
	catalog *Catalog
	logger  *slog.Logger
	tickets map[string]ledgerEntry
	issued  map[string]struct{}
	seq     uint64
	newID   IDGenerator
	now     func() time.Time
}

type LedgerOption func(*Ledger)

func WithIDGenerator(gen IDGenerator) LedgerOption {
	return func(l *Ledger) {
		l.newID = gen
	}
}

func WithClock(now func() time.Time) LedgerOption {
	return func(l *Ledger) {
		l.now = now
	}
}

func NewLedger(catalog *Catalog, logger *slog.Logger, opts ...LedgerOption) *Ledger {
	l := &Ledger{
		catalog: catalog,
		logger:  logger,
		tickets: make(map[string]ledgerEntry),
		issued:  make(map[string]struct{}),
		newID:   NewTicketID,
		now:     time.Now,
	}

	for _, opt := range opts {
		opt(l)
	}

	return l
}

// CreateTicket validates req, takes the seats from the catalog and stores a
// new ticket. Nothing is mutated unless the whole operation succeeds.
func (l *Ledger) CreateTicket(req domain.BookingRequest) (domain.Ticket, error) {
	category, err := validateBookingRequest(req)
	if err != nil {
		return domain.Ticket{}, err
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	movie, err := l.catalog.Book(req.MovieID, req.SlotLabel, req.SeatCount)
	if err != nil {
		return domain.Ticket{}, err
	}

	id, err := l.issueID()
	if err != nil {
		rollbackErr := l.catalog.Restore(movie.Name, req.SlotLabel, req.SeatCount)
		if rollbackErr != nil {
			l.logger.Error("failed to roll back seats after ticket id failure",
				"movie", movie.Name, "slot", req.SlotLabel, "seats", req.SeatCount, "error", rollbackErr)
		}

		return domain.Ticket{}, errors.Join(err, rollbackErr)
	}

	ticket := domain.Ticket{
		ID:           id,
		CustomerName: strings.TrimSpace(req.CustomerName),
		Category:     category,
		MovieName:    movie.Name,
		SlotLabel:    req.SlotLabel,
		SeatCount:    req.SeatCount,
		CreatedAt:    l.now(),
	}

	l.seq++
	l.tickets[id] = ledgerEntry{ticket: ticket, seq: l.seq}

	return ticket, nil
}

// issueID returns an identifier never handed out before by this ledger,
// including ids of tickets that were cancelled since.
func (l *Ledger) issueID() (string, error) {
	for range maxIDAttempts {
		id, err := l.newID()
		if err != nil {
			return "", err
		}

		id = domain.NormalizeTicketID(id)
		if _, taken := l.issued[id]; taken {
			l.logger.Debug("ticket id collision, regenerating", "ticket_id", id)
			continue
		}

		l.issued[id] = struct{}{}

		return id, nil
	}

	return "", domain.ErrTicketIDExhausted
}

func (l *Ledger) GetTicket(id string) (domain.Ticket, error) {
	id = domain.NormalizeTicketID(id)
	if !ValidTicketID(id) {
		return domain.Ticket{}, domain.ErrTicketNotFound
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	entry, ok := l.tickets[id]
	if !ok {
		return domain.Ticket{}, domain.ErrTicketNotFound
	}

	return entry.ticket, nil
}

// CancelTicket restores the ticket's seats and then removes it. If the
// referenced show cannot be found or refuses the restore, the condition is
// logged and the ticket is removed anyway.
func (l *Ledger) CancelTicket(id string) (domain.Ticket, error) {
	id = domain.NormalizeTicketID(id)
	if !ValidTicketID(id) {
		return domain.Ticket{}, domain.ErrTicketNotFound
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	entry, ok := l.tickets[id]
	if !ok {
		return domain.Ticket{}, domain.ErrTicketNotFound
	}
	ticket := entry.ticket

	movie, err := l.catalog.FindByName(ticket.MovieName)
	if err != nil {
		l.logger.Warn("data integrity: cancelled ticket references an unknown movie, seats not restored",
			"ticket_id", ticket.ID, "movie", ticket.MovieName, "slot", ticket.SlotLabel, "seats", ticket.SeatCount)
	} else {
		err = l.catalog.Restore(movie.Name, ticket.SlotLabel, ticket.SeatCount)
		if err != nil {
			l.logger.Warn("data integrity: seats of cancelled ticket could not be restored",
				"ticket_id", ticket.ID, "movie", ticket.MovieName, "slot", ticket.SlotLabel, "seats", ticket.SeatCount, "error", err)
		}
	}

	delete(l.tickets, id)

	return ticket, nil
}

// ListTickets returns the active tickets in booking order.
func (l *Ledger) ListTickets() []domain.Ticket {
	l.mu.Lock()
	entries := make([]ledgerEntry, 0, len(l.tickets))
	for _, e := range l.tickets {
		entries = append(entries, e)
	}
	l.mu.Unlock()

	slices.SortFunc(entries, func(a, b ledgerEntry) int {
		switch {
		case a.seq < b.seq:
			return -1
		case a.seq > b.seq:
			return 1
		default:
			return 0
		}
	})

	tickets := make([]domain.Ticket, len(entries))
	for i, e := range entries {
		tickets[i] = e.ticket
	}

	return tickets
}

func (l *Ledger) ListByPopularity() []domain.Movie {
	return l.catalog.ListByPopularity()
}

func (l *Ledger) Count() int {
	l.mu.Lock()
	defer l.mu.Unlock()

	return len(l.tickets)
}

func validateBookingRequest(req domain.BookingRequest) (domain.BookingCategory, error) {
	if req.MovieID <= 0 {
		return "", domain.NewValidationError("movie_id", "must be a positive integer")
	}
	if strings.TrimSpace(req.SlotLabel) == "" {
		return "", domain.NewValidationError("slot_label", "is required")
	}
	if req.SeatCount <= 0 {
		return "", domain.NewValidationError("seat_count", "must be greater than 0")
	}
	if strings.TrimSpace(req.CustomerName) == "" {
		return "", domain.NewValidationError("customer_name", "is required")
	}

	category, ok := domain.ParseBookingCategory(req.Category)
	if !ok {
		return "", domain.NewValidationError("booking_category", "must be one of Normal VIP")
	}

	return category, nil
}
