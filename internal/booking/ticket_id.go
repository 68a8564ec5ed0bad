package booking

import (
	"crypto/rand"
)

const (
	ticketIDLength   = 8
	ticketIDAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

	// largest multiple of len(ticketIDAlphabet) that fits in a byte; bytes at
	// or above it are rejected to keep the distribution uniform.
	ticketIDByteLimit = 252
)

// IDGenerator produces candidate ticket identifiers.
type IDGenerator func() (string, error)

// NewTicketID returns 8 random characters from A-Z0-9, roughly 41 bits.
func NewTicketID() (string, error) {
	id := make([]byte, 0, ticketIDLength)
	buf := make([]byte, ticketIDLength*2)

	for len(id) < ticketIDLength {
		if _, err := rand.Read(buf); err != nil {
			return "", err
		}

		for _, b := range buf {
			if b >= ticketIDByteLimit {
				continue
			}
			id = append(id, ticketIDAlphabet[int(b)%len(ticketIDAlphabet)])
			if len(id) == ticketIDLength {
				break
			}
		}
	}

	return string(id), nil
}

// ValidTicketID reports whether id has the shape of an issued identifier.
func ValidTicketID(id string) bool {
	if len(id) != ticketIDLength {
		return false
	}

	for i := 0; i < len(id); i++ {
		c := id[i]
		if (c < 'A' || c > 'Z') && (c < '0' || c > '9') {
			return false
		}
	}

	return true
}
