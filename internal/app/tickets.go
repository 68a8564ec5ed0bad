package app

import (
	"context"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/metinatakli/cinema-booking/api"
	"github.com/metinatakli/cinema-booking/internal/domain"
	"github.com/metinatakli/cinema-booking/internal/events"
)

const (
	msgTicketBooked    = "Booked successfully"
	msgTicketCancelled = "Ticket cancelled successfully"
)

func (app *Application) BookTicket(w http.ResponseWriter, r *http.Request) {
	var input api.BookTicketRequest

	err := app.readJSON(w, r, &input)
	if err != nil {
		app.metrics.rejected(r.Context(), rejectMalformed)
		app.badRequestResponse(w, r, err)
		return
	}

	err = app.validator.Struct(input)
	if err != nil {
		app.metrics.rejected(r.Context(), rejectValidation)
		app.failedValidationResponse(w, r, err)
		return
	}

	ticket, err := app.ledger.CreateTicket(domain.BookingRequest{
		MovieID:      input.MovieId.Int(),
		SlotLabel:    input.SlotLabel,
		SeatCount:    input.SeatCount.Int(),
		CustomerName: input.CustomerName,
		Category:     input.BookingCategory,
	})
	if err != nil {
		reason := app.bookingErrorResponse(w, r, err)
		app.metrics.rejected(r.Context(), reason)
		return
	}

	app.metrics.booked(r.Context(), ticket)
	app.contextGetLogger(r).Info("ticket booked",
		"ticket_id", ticket.ID, "movie", ticket.MovieName, "slot", ticket.SlotLabel, "seats", ticket.SeatCount)

	app.publishEvent(r, func(ctx context.Context) error {
		return app.events.TicketBooked(ctx, ticket)
	})

	resp := api.BookTicketResponse{
		Message:  msgTicketBooked,
		TicketId: ticket.ID,
	}

	headers := make(http.Header)
	headers.Set("Location", "/tickets/"+ticket.ID)

	err = app.writeJSON(w, http.StatusCreated, resp, headers)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

func (app *Application) ListTickets(w http.ResponseWriter, r *http.Request) {
	tickets := app.ledger.ListTickets()

	resp := api.TicketListResponse{
		Tickets: make([]api.Ticket, len(tickets)),
		Count:   len(tickets),
	}
	for i, t := range tickets {
		resp.Tickets[i] = toApiTicket(t)
	}

	err := app.writeJSON(w, http.StatusOK, resp, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

func (app *Application) GetTicket(w http.ResponseWriter, r *http.Request, ticketId string) {
	ticket, err := app.ledger.GetTicket(ticketId)
	if err != nil {
		app.ticketLookupErrorResponse(w, r, err)
		return
	}

	err = app.writeJSON(w, http.StatusOK, toApiTicket(ticket), nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

func (app *Application) CancelTicket(w http.ResponseWriter, r *http.Request, ticketId string) {
	ticket, err := app.ledger.CancelTicket(ticketId)
	if err != nil {
		app.ticketLookupErrorResponse(w, r, err)
		return
	}

	app.metrics.cancelled(r.Context(), ticket)
	app.contextGetLogger(r).Info("ticket cancelled",
		"ticket_id", ticket.ID, "movie", ticket.MovieName, "slot", ticket.SlotLabel, "seats", ticket.SeatCount)

	app.publishEvent(r, func(ctx context.Context) error {
		return app.events.TicketCancelled(ctx, ticket)
	})

	resp := api.CancelTicketResponse{
		Message:  msgTicketCancelled,
		TicketId: ticket.ID,
	}

	err = app.writeJSON(w, http.StatusOK, resp, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

func (app *Application) ticketLookupErrorResponse(w http.ResponseWriter, r *http.Request, err error) {
	if errors.Is(err, domain.ErrRecordNotFound) {
		app.errorResponse(w, r, http.StatusNotFound, ErrTicketNotFound)
		return
	}

	app.serverErrorResponse(w, r, err)
}

// publishEvent never fails the request, the ledger change already happened.
func (app *Application) publishEvent(r *http.Request, publish func(ctx context.Context) error) {
	ctx := context.WithoutCancel(r.Context())
	ctx = events.ContextWithCorrelationID(ctx, middleware.GetReqID(r.Context()))

	err := publish(ctx)
	if err != nil {
		app.contextGetLogger(r).Warn("failed to publish ticket event", "error", err)
	}
}

func toApiTicket(t domain.Ticket) api.Ticket {
	return api.Ticket{
		TicketId:        t.ID,
		CustomerName:    t.CustomerName,
		BookingCategory: string(t.Category),
		MovieName:       t.MovieName,
		SlotLabel:       t.SlotLabel,
		SeatCount:       t.SeatCount,
		CreatedAt:       t.CreatedAt,
	}
}
