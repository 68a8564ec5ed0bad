package app

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/metinatakli/cinema-booking/api"
	"github.com/metinatakli/cinema-booking/internal/booking"
	"github.com/metinatakli/cinema-booking/internal/domain"
	"github.com/metinatakli/cinema-booking/internal/mocks"
	"github.com/metinatakli/cinema-booking/internal/validator"
	"github.com/stretchr/testify/mock"
	"go.opentelemetry.io/otel/metric/noop"
)

var testNow = time.Date(2025, 6, 1, 20, 0, 0, 0, time.UTC)

func testMovies() []domain.Movie {
	return []domain.Movie{
		domain.NewMovie(1, "Interstellar", "Sci-Fi", 8.6, "https://example.com/interstellar.jpg",
			[]string{"10:00 AM", "07:00 PM"}, 10),
		domain.NewMovie(2, "Badla", "Crime Thriller", 7.7, "https://example.com/badla.jpg",
			[]string{"02:30 PM"}, 5),
	}
}

// sequentialIDs issues TKT00001, TKT00002, ...
func sequentialIDs() booking.IDGenerator {
	var (
		mu sync.Mutex
		n  int
	)

	return func() (string, error) {
		mu.Lock()
		defer mu.Unlock()

		n++
		return fmt.Sprintf("TKT%05d", n), nil
	}
}

func newTestApplication(opts ...func(*Application)) *Application {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	catalog, err := booking.NewCatalog(testMovies())
	if err != nil {
		panic(err)
	}

	ledger := booking.NewLedger(catalog, logger,
		booking.WithIDGenerator(sequentialIDs()),
		booking.WithClock(func() time.Time { return testNow }),
	)

	metrics, err := newBookingMetrics(noop.NewMeterProvider().Meter("test"))
	if err != nil {
		panic(err)
	}

	ticketEvents := &mocks.MockTicketEvents{}
	ticketEvents.On("TicketBooked", mock.Anything, mock.Anything).Return(nil).Maybe()
	ticketEvents.On("TicketCancelled", mock.Anything, mock.Anything).Return(nil).Maybe()

	app := &Application{
		config:    Config{Env: "test"},
		validator: validator.NewValidator(),
		logger:    logger,
		catalog:   catalog,
		ledger:    ledger,
		events:    ticketEvents,
		metrics:   metrics,
	}

	for _, opt := range opts {
		opt(app)
	}

	return app
}

// executeRequest builds a request whose body is body marshalled to JSON, or
// sent verbatim when it is a string.
func executeRequest(t *testing.T, method, url string, body any) (*httptest.ResponseRecorder, *http.Request) {
	var reader io.Reader

	switch b := body.(type) {
	case nil:
		reader = http.NoBody
	case string:
		reader = strings.NewReader(b)
	default:
		jsonData, err := json.Marshal(b)
		if err != nil {
			t.Fatal(err)
		}
		reader = bytes.NewReader(jsonData)
	}

	r := httptest.NewRequest(method, url, reader)
	r.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()

	return w, r
}

func checkErrorResponse(t *testing.T, w *httptest.ResponseRecorder, tt struct {
	wantStatus     int
	wantErrMessage string
}) {
	if tt.wantStatus >= 200 && tt.wantStatus < 300 {
		return
	}

	switch tt.wantStatus {
	case http.StatusUnprocessableEntity:
		var validationResp api.ValidationErrorResponse
		if err := json.NewDecoder(w.Body).Decode(&validationResp); err != nil {
			t.Fatalf("Failed to decode validation error response: %v", err)
		}

		errorSet := make(map[string]bool)
		for _, vErr := range validationResp.ValidationErrors {
			errorSet[vErr.Issue] = true
		}

		if !errorSet[tt.wantErrMessage] {
			t.Errorf("Expected validation error message '%s' not found in response", tt.wantErrMessage)
		}

	default:
		var errorResp api.ErrorResponse
		if err := json.NewDecoder(w.Body).Decode(&errorResp); err != nil {
			t.Fatalf("Failed to decode error response: %v", err)
		}

		if tt.wantErrMessage != "" && errorResp.Message != tt.wantErrMessage {
			t.Errorf("Error message = %v, want %v", errorResp.Message, tt.wantErrMessage)
		}
	}
}

func bookSeats(t *testing.T, app *Application, movieID int, slot string, seats int) domain.Ticket {
	t.Helper()

	ticket, err := app.ledger.CreateTicket(domain.BookingRequest{
		MovieID:      movieID,
		SlotLabel:    slot,
		SeatCount:    seats,
		CustomerName: "Test Customer",
		Category:     "Normal",
	})
	if err != nil {
		t.Fatalf("failed to book seats: %v", err)
	}

	return ticket
}

func ptr[T any](v T) *T {
	return &v
}
