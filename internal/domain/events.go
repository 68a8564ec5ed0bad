package domain

import "context"

// TicketEvents announces ledger changes to the rest of the system.
type TicketEvents interface {
	TicketBooked(ctx context.Context, ticket Ticket) error
	TicketCancelled(ctx context.Context, ticket Ticket) error
}
