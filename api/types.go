// Package api holds the wire types and the chi server binding of the
// cinema booking HTTP API.
package api

import (
	"bytes"
	"encoding/json"
	"reflect"
	"strconv"
	"strings"
	"time"
)

type ErrorResponse struct {
	Message   string    `json:"message"`
	RequestId string    `json:"request_id"`
	Timestamp time.Time `json:"timestamp"`
}

type ValidationError struct {
	Field string `json:"field"`
	Issue string `json:"issue"`
}

type ValidationErrorResponse struct {
	Message          string            `json:"message"`
	RequestId        string            `json:"request_id"`
	Timestamp        time.Time         `json:"timestamp"`
	ValidationErrors []ValidationError `json:"validation_errors"`
}

// CapacityErrorResponse is returned when a slot cannot seat the request.
type CapacityErrorResponse struct {
	Message   string    `json:"message"`
	RequestId string    `json:"request_id"`
	Timestamp time.Time `json:"timestamp"`
	Available int       `json:"available"`
}

type SlotAvailability struct {
	Total     int `json:"total"`
	Available int `json:"available"`
}

type SlotDetail struct {
	Total     int `json:"total"`
	Available int `json:"available"`
	Booked    int `json:"booked"`
}

type Movie struct {
	Id              int                         `json:"id"`
	Name            string                      `json:"name"`
	Genre           string                      `json:"genre"`
	Rating          float64                     `json:"rating"`
	PosterReference string                      `json:"poster_reference"`
	Slots           map[string]SlotAvailability `json:"slots,omitempty"`
	TicketsSold     int                         `json:"tickets_sold"`
}

type MovieSlotsResponse struct {
	MovieId   int                   `json:"movie_id"`
	MovieName string                `json:"movie_name"`
	Slots     map[string]SlotDetail `json:"slots"`
}

// FlexibleInt decodes either a JSON number or a string holding an integer.
type FlexibleInt int

func (n *FlexibleInt) UnmarshalJSON(data []byte) error {
	raw := bytes.TrimSpace(data)
	kind := "number"

	if len(raw) > 0 && raw[0] == '"' {
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return err
		}
		raw = []byte(strings.TrimSpace(s))
		kind = "string"
	}

	v, err := strconv.Atoi(string(raw))
	if err != nil {
		return &json.UnmarshalTypeError{Value: kind, Type: reflect.TypeOf(0)}
	}

	*n = FlexibleInt(v)

	return nil
}

func (n *FlexibleInt) Int() int {
	if n == nil {
		return 0
	}

	return int(*n)
}

type BookTicketRequest struct {
	MovieId         *FlexibleInt `json:"movie_id" validate:"required,gt=0"`
	SlotLabel       string       `json:"slot_label" validate:"notblank"`
	SeatCount       *FlexibleInt `json:"seat_count" validate:"required,gt=0"`
	CustomerName    string       `json:"customer_name" validate:"notblank,max=100"`
	BookingCategory string       `json:"booking_category" validate:"required,booking_category"`
}

type BookTicketResponse struct {
	Message  string `json:"message"`
	TicketId string `json:"ticket_id"`
}

type CancelTicketResponse struct {
	Message  string `json:"message"`
	TicketId string `json:"ticket_id"`
}

type Ticket struct {
	TicketId        string    `json:"ticket_id"`
	CustomerName    string    `json:"customer_name"`
	BookingCategory string    `json:"booking_category"`
	MovieName       string    `json:"movie_name"`
	SlotLabel       string    `json:"slot_label"`
	SeatCount       int       `json:"seat_count"`
	CreatedAt       time.Time `json:"created_at"`
}

type TicketListResponse struct {
	Tickets []Ticket `json:"tickets"`
	Count   int      `json:"count"`
}

type SystemInfo struct {
	Version     string `json:"version"`
	Environment string `json:"environment"`
}

type HealthcheckResponse struct {
	Status      string     `json:"status"`
	MovieCount  int        `json:"movie_count"`
	TicketCount int        `json:"ticket_count"`
	SystemInfo  SystemInfo `json:"system_info"`
}

type IndexResponse struct {
	App       string            `json:"app"`
	Version   string            `json:"version"`
	Endpoints map[string]string `json:"endpoints"`
}
