package domain

import (
	"strings"
	"time"
)

type BookingCategory string

const (
	CategoryNormal BookingCategory = "Normal"
	CategoryVIP    BookingCategory = "VIP"
)

// ParseBookingCategory accepts the category name in any letter case.
func ParseBookingCategory(s string) (BookingCategory, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "normal":
		return CategoryNormal, true
	case "vip":
		return CategoryVIP, true
	default:
		return "", false
	}
}

type Ticket struct {
	ID           string
	CustomerName string
	Category     BookingCategory
	MovieName    string
	SlotLabel    string
	SeatCount    int
	CreatedAt    time.Time
}

type BookingRequest struct {
	MovieID      int
	SlotLabel    string
	SeatCount    int
	CustomerName string
	Category     string
}

// NormalizeTicketID trims and upper-cases a ticket identifier.
func NormalizeTicketID(id string) string {
	return strings.ToUpper(strings.TrimSpace(id))
}

type Ledger interface {
	CreateTicket(req BookingRequest) (Ticket, error)
	GetTicket(id string) (Ticket, error)
	CancelTicket(id string) (Ticket, error)
	ListTickets() []Ticket
	ListByPopularity() []Movie
	Count() int
}
