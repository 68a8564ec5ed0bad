package domain

import (
	"github.com/shopspring/decimal"
)

type Movie struct {
	ID          int
	Name        string
	Genre       string
	Rating      decimal.Decimal
	PosterURL   string
	Slots       map[string]*Slot
	SlotOrder   []string
	TicketsSold int
}

type Slot struct {
	Label     string
	Capacity  int
	Available int
}

func (s Slot) Booked() int {
	return s.Capacity - s.Available
}

// NewMovie builds a movie whose slots all share the same seat capacity.
func NewMovie(id int, name, genre string, rating float64, posterURL string, slots []string, seatsPerSlot int) Movie {
	m := Movie{
		ID:        id,
		Name:      name,
		Genre:     genre,
		Rating:    decimal.NewFromFloat(rating).Round(1),
		PosterURL: posterURL,
		Slots:     make(map[string]*Slot, len(slots)),
		SlotOrder: make([]string, 0, len(slots)),
	}

	for _, label := range slots {
		m.Slots[label] = &Slot{
			Label:     label,
			Capacity:  seatsPerSlot,
			Available: seatsPerSlot,
		}
		m.SlotOrder = append(m.SlotOrder, label)
	}

	return m
}

// Clone returns a deep copy so callers never share slot pointers.
func (m Movie) Clone() Movie {
	c := m
	c.Slots = make(map[string]*Slot, len(m.Slots))
	for label, slot := range m.Slots {
		s := *slot
		c.Slots[label] = &s
	}
	c.SlotOrder = append([]string(nil), m.SlotOrder...)

	return c
}

// OrderedSlots returns the slots in display order.
func (m Movie) OrderedSlots() []Slot {
	slots := make([]Slot, 0, len(m.SlotOrder))
	for _, label := range m.SlotOrder {
		if s, ok := m.Slots[label]; ok {
			slots = append(slots, *s)
		}
	}

	return slots
}

func (m Movie) Capacity() int {
	total := 0
	for _, s := range m.Slots {
		total += s.Capacity
	}

	return total
}

func (m Movie) Available() int {
	total := 0
	for _, s := range m.Slots {
		total += s.Available
	}

	return total
}

type CatalogReader interface {
	Movies() []Movie
	FindByID(id int) (Movie, error)
	Count() int
}
