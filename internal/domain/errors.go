package domain

import (
	"errors"
	"fmt"
)

var (
	ErrRecordNotFound    = errors.New("record not found")
	ErrMovieNotFound     = fmt.Errorf("movie %w", ErrRecordNotFound)
	ErrSlotNotFound      = fmt.Errorf("slot %w", ErrRecordNotFound)
	ErrTicketNotFound    = fmt.Errorf("ticket %w", ErrRecordNotFound)
	ErrRestoreOverflow   = errors.New("restore would exceed slot capacity")
	ErrTicketIDExhausted = errors.New("could not issue a unique ticket id")
)

type ValidationError struct {
	Field string
	Issue string
}

func NewValidationError(field, issue string) *ValidationError {
	return &ValidationError{Field: field, Issue: issue}
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s %s", e.Field, e.Issue)
}

type InsufficientCapacityError struct {
	SlotLabel string
	Requested int
	Available int
}

func (e *InsufficientCapacityError) Error() string {
	return fmt.Sprintf("Not enough seats. Available: %d", e.Available)
}
