package metrics_test

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pkordes/travel-booking/internal/metrics"
)

func TestRegistry_Handler_ExposesCounters(t *testing.T) {
	m := metrics.New()
	m.RecordRegistration("registered")
	m.RecordRegistration("registered")
	m.RecordRegistration("capacity_exceeded")
	m.ObserveRequest(http.MethodPut, "/clients/{id}/trips/{tripId}", http.StatusOK, 15*time.Millisecond)

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, `travel_booking_registrations_total{outcome="registered"} 2`)
	assert.Contains(t, body, `travel_booking_registrations_total{outcome="capacity_exceeded"} 1`)
	assert.Contains(t, body, `travel_booking_http_requests_total{method="PUT",route="/clients/{id}/trips/{tripId}",status="200"} 1`)
	assert.Contains(t, body, "travel_booking_http_request_duration_seconds_bucket")
}

// Two registries must not collide; each owns its own prometheus.Registry.
func TestNew_Independent(t *testing.T) {
	a := metrics.New()
	b := metrics.New()
	a.RecordRegistration("registered")

	rec := httptest.NewRecorder()
	b.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	assert.NotContains(t, rec.Body.String(), `outcome="registered"`)
}
