package app

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/attribute"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
)

func withMetricReader(t *testing.T) (func(*Application), *sdkmetric.ManualReader) {
	t.Helper()

	reader := sdkmetric.NewManualReader()
	provider := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
	t.Cleanup(func() { _ = provider.Shutdown(context.Background()) })

	metrics, err := newBookingMetrics(provider.Meter("test"))
	require.NoError(t, err)

	return func(a *Application) { a.metrics = metrics }, reader
}

// counterValue sums the data points of name whose attributes contain attrs.
func counterValue(t *testing.T, reader *sdkmetric.ManualReader, name string, attrs ...attribute.KeyValue) int64 {
	t.Helper()

	var rm metricdata.ResourceMetrics
	require.NoError(t, reader.Collect(context.Background(), &rm))

	var total int64
	for _, sm := range rm.ScopeMetrics {
		for _, m := range sm.Metrics {
			if m.Name != name {
				continue
			}

			sum, ok := m.Data.(metricdata.Sum[int64])
			require.True(t, ok, "metric %s is not an int64 sum", name)

			for _, dp := range sum.DataPoints {
				if matchesAttrs(dp.Attributes, attrs) {
					total += dp.Value
				}
			}
		}
	}

	return total
}

func matchesAttrs(set attribute.Set, attrs []attribute.KeyValue) bool {
	for _, kv := range attrs {
		v, ok := set.Value(kv.Key)
		if !ok || v.Emit() != kv.Value.Emit() {
			return false
		}
	}

	return true
}

func TestBookingMetrics(t *testing.T) {
	withMetrics, reader := withMetricReader(t)
	app := newTestApplication(withMetrics)

	w, r := executeRequest(t, http.MethodPost, "/tickets", validBooking())
	app.BookTicket(w, r)
	require.Equal(t, http.StatusCreated, w.Code)

	w, r = executeRequest(t, http.MethodPost, "/tickets", withField("seat_count", 50))
	app.BookTicket(w, r)
	require.Equal(t, http.StatusConflict, w.Code)

	w, r = executeRequest(t, http.MethodPost, "/tickets", withField("movie_id", 77))
	app.BookTicket(w, r)
	require.Equal(t, http.StatusNotFound, w.Code)

	w, r = executeRequest(t, http.MethodPost, "/tickets", `{"movie_id":`)
	app.BookTicket(w, r)
	require.Equal(t, http.StatusBadRequest, w.Code)

	w, r = executeRequest(t, http.MethodDelete, "/tickets/TKT00001", nil)
	app.CancelTicket(w, r, "TKT00001")
	require.Equal(t, http.StatusOK, w.Code)

	movie := attribute.String("movie", "Interstellar")

	assert.Equal(t, int64(1), counterValue(t, reader, "cinema.tickets.booked", movie, attribute.String("booking_category", "VIP")))
	assert.Equal(t, int64(2), counterValue(t, reader, "cinema.seats.booked", movie))
	assert.Equal(t, int64(1), counterValue(t, reader, "cinema.tickets.cancelled", movie))
	assert.Equal(t, int64(1), counterValue(t, reader, "cinema.bookings.rejected", attribute.String("reason", rejectCapacity)))
	assert.Equal(t, int64(1), counterValue(t, reader, "cinema.bookings.rejected", attribute.String("reason", rejectNotFound)))
	assert.Equal(t, int64(1), counterValue(t, reader, "cinema.bookings.rejected", attribute.String("reason", rejectMalformed)))
	assert.Equal(t, int64(3), counterValue(t, reader, "cinema.bookings.rejected"))
}
