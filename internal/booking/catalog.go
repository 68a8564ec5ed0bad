// Package booking holds the in-memory seat inventory and the ticket ledger.
package booking

import (
	"fmt"
	"slices"
	"sync"

	"github.com/metinatakli/cinema-booking/internal/domain"
)

// Catalog owns the fixed set of movies and their slots. Every read-then-write
// of a slot happens under mu, so two bookings can never both pass the
// availability check for the same seats.
type Catalog struct {
	mu     sync.RWMutex
	movies []*domain.Movie
}

func NewCatalog(movies []domain.Movie) (*Catalog, error) {
	c := &Catalog{
		movies: make([]*domain.Movie, 0, len(movies)),
	}

	ids := make(map[int]bool, len(movies))
	names := make(map[string]bool, len(movies))

	for _, m := range movies {
		if ids[m.ID] {
			return nil, fmt.Errorf("duplicate movie id %d", m.ID)
		}
		if names[m.Name] {
			return nil, fmt.Errorf("duplicate movie name %q", m.Name)
		}
		if len(m.SlotOrder) == 0 {
			return nil, fmt.Errorf("movie %d has no slots", m.ID)
		}

		seen := make(map[string]bool, len(m.SlotOrder))
		for _, label := range m.SlotOrder {
			if seen[label] {
				return nil, fmt.Errorf("movie %d: duplicate slot %q", m.ID, label)
			}
			seen[label] = true

			slot, ok := m.Slots[label]
			if !ok {
				return nil, fmt.Errorf("movie %d: slot %q missing from slot map", m.ID, label)
			}
			if slot.Capacity <= 0 {
				return nil, fmt.Errorf("movie %d: slot %q must have a positive capacity", m.ID, label)
			}
			if slot.Available < 0 || slot.Available > slot.Capacity {
				return nil, fmt.Errorf("movie %d: slot %q has %d available out of %d", m.ID, label, slot.Available, slot.Capacity)
			}
		}
		if len(m.Slots) != len(m.SlotOrder) {
			return nil, fmt.Errorf("movie %d: slot map and slot order disagree", m.ID)
		}

		ids[m.ID] = true
		names[m.Name] = true

		movie := m.Clone()
		movie.TicketsSold = movie.Capacity() - movie.Available()
		c.movies = append(c.movies, &movie)
	}

	return c, nil
}

// Movies returns copies of every movie in catalog order.
func (c *Catalog) Movies() []domain.Movie {
	c.mu.RLock()
	defer c.mu.RUnlock()

	movies := make([]domain.Movie, len(c.movies))
	for i, m := range c.movies {
		movies[i] = m.Clone()
	}

	return movies
}

func (c *Catalog) Count() int {
	c.mu.RLock()
	defer c.mu.RUnlock()

	return len(c.movies)
}

// The catalog is small and static, a linear scan is all it needs.
func (c *Catalog) findByID(id int) *domain.Movie {
	for _, m := range c.movies {
		if m.ID == id {
			return m
		}
	}

	return nil
}

func (c *Catalog) findByName(name string) *domain.Movie {
	for _, m := range c.movies {
		if m.Name == name {
			return m
		}
	}

	return nil
}

func (c *Catalog) FindByID(id int) (domain.Movie, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	m := c.findByID(id)
	if m == nil {
		return domain.Movie{}, domain.ErrMovieNotFound
	}

	return m.Clone(), nil
}

func (c *Catalog) FindByName(name string) (domain.Movie, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	m := c.findByName(name)
	if m == nil {
		return domain.Movie{}, domain.ErrMovieNotFound
	}

	return m.Clone(), nil
}

// Book takes seatCount seats from the given slot and returns a snapshot of
// the movie after the update.
func (c *Catalog) Book(movieID int, slotLabel string, seatCount int) (domain.Movie, error) {
	if seatCount <= 0 {
		return domain.Movie{}, domain.NewValidationError("seat_count", "must be greater than 0")
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	m := c.findByID(movieID)
	if m == nil {
		return domain.Movie{}, domain.ErrMovieNotFound
	}

	slot, ok := m.Slots[slotLabel]
	if !ok {
		return domain.Movie{}, domain.ErrSlotNotFound
	}

	if slot.Available < seatCount {
		return domain.Movie{}, &domain.InsufficientCapacityError{
			SlotLabel: slotLabel,
			Requested: seatCount,
			Available: slot.Available,
		}
	}

	slot.Available -= seatCount
	m.TicketsSold += seatCount

	return m.Clone(), nil
}

// Restore gives seatCount seats back to a slot. The caller must pass exactly
// what an earlier Book took; a restore that would push the slot above its
// capacity is refused without touching any counter.
func (c *Catalog) Restore(movieName, slotLabel string, seatCount int) error {
	if seatCount <= 0 {
		return domain.NewValidationError("seat_count", "must be greater than 0")
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	m := c.findByName(movieName)
	if m == nil {
		return domain.ErrMovieNotFound
	}

	slot, ok := m.Slots[slotLabel]
	if !ok {
		return domain.ErrSlotNotFound
	}

	if slot.Available+seatCount > slot.Capacity || m.TicketsSold < seatCount {
		return fmt.Errorf("%w: %s @ %s has %d/%d available, restoring %d",
			domain.ErrRestoreOverflow, movieName, slotLabel, slot.Available, slot.Capacity, seatCount)
	}

	slot.Available += seatCount
	m.TicketsSold -= seatCount

	return nil
}

// ListByPopularity orders movies by tickets sold, highest first. Ties keep
// catalog order.
func (c *Catalog) ListByPopularity() []domain.Movie {
	movies := c.Movies()

	slices.SortStableFunc(movies, func(a, b domain.Movie) int {
		return b.TicketsSold - a.TicketsSold
	})

	return movies
}
