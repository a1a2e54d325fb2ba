package handler_test

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pkordes/travel-booking/internal/domain"
	"github.com/pkordes/travel-booking/internal/handler"
)

type mockRegistrationServicer struct {
	register      func(ctx context.Context, clientID, tripID int64) (domain.Confirmation, error)
	deregister    func(ctx context.Context, clientID, tripID int64) error
	recordPayment func(ctx context.Context, clientID, tripID int64) (domain.DateStamp, error)
}

func (m *mockRegistrationServicer) Register(ctx context.Context, clientID, tripID int64) (domain.Confirmation, error) {
	return m.register(ctx, clientID, tripID)
}
func (m *mockRegistrationServicer) Deregister(ctx context.Context, clientID, tripID int64) error {
	return m.deregister(ctx, clientID, tripID)
}
func (m *mockRegistrationServicer) RecordPayment(ctx context.Context, clientID, tripID int64) (domain.DateStamp, error) {
	return m.recordPayment(ctx, clientID, tripID)
}

var _ handler.RegistrationServicer = (*mockRegistrationServicer)(nil)

// registerFailing returns a servicer whose Register always fails with err.
func registerFailing(err error) *mockRegistrationServicer {
	return &mockRegistrationServicer{
		register: func(context.Context, int64, int64) (domain.Confirmation, error) {
			return domain.Confirmation{}, err
		},
	}
}

// ---- PUT /clients/{id}/trips/{tripId} --------------------------------------

func TestRegisterClient_200(t *testing.T) {
	svc := &mockRegistrationServicer{
		register: func(_ context.Context, clientID, tripID int64) (domain.Confirmation, error) {
			assert.Equal(t, int64(3), clientID)
			assert.Equal(t, int64(9), tripID)
			return domain.Confirmation{ClientID: clientID, TripID: tripID, RegisteredAt: 20250601}, nil
		},
	}

	rec := do(newHTTPHandler(services{registrations: svc}), http.MethodPut, "/clients/3/trips/9", nil)

	require.Equal(t, http.StatusOK, rec.Code)

	var resp handler.Registration
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.Equal(t, handler.Registration{ClientID: 3, TripID: 9, RegisteredAt: 20250601}, resp)
}

func TestRegisterClient_ErrorMapping(t *testing.T) {
	cases := []struct {
		name    string
		err     error
		status  int
		code    string
		message string
	}{
		{"client not found", domain.ErrClientNotFound, http.StatusNotFound, "not_found", "client not found"},
		{"trip not found", domain.ErrTripNotFound, http.StatusNotFound, "not_found", "trip not found"},
		{
			"capacity exceeded",
			fmt.Errorf("service.RegistrationService.Register: %w (2/2)", domain.ErrCapacityExceeded),
			http.StatusBadRequest, "capacity_exceeded", "trip has reached max capacity",
		},
		{"already registered", domain.ErrAlreadyRegistered, http.StatusConflict, "conflict", "client is already registered for this trip"},
		{
			"store unavailable",
			fmt.Errorf("service.RegistrationService.Register: repo.RegistrationTx.LockTrip: %w: %w",
				domain.ErrStoreUnavailable, errors.New("canceling statement due to lock timeout")),
			http.StatusInternalServerError, "internal_error", "canceling statement due to lock timeout",
		},
		{"unexpected", errors.New("boom"), http.StatusInternalServerError, "internal_error", "internal server error"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rec := do(newHTTPHandler(services{registrations: registerFailing(tc.err)}), http.MethodPut, "/clients/1/trips/1", nil)

			require.Equal(t, tc.status, rec.Code)
			detail := decodeError(t, rec)
			assert.Equal(t, tc.code, detail.Code)
			assert.Equal(t, tc.message, detail.Message)
		})
	}
}

func TestRegisterClient_400_BadIDs(t *testing.T) {
	// The service must not be reached for malformed ids.
	h := newHTTPHandler(services{registrations: &mockRegistrationServicer{}})

	for _, target := range []string{
		"/clients/x/trips/1",
		"/clients/1/trips/y",
		"/clients/1/trips/0",
		"/clients/2147483648/trips/1", // beyond INTEGER
		"/clients/1/trips/3000000000",
	} {
		t.Run(target, func(t *testing.T) {
			rec := do(h, http.MethodPut, target, nil)

			require.Equal(t, http.StatusBadRequest, rec.Code)
			assert.Equal(t, "validation_error", decodeError(t, rec).Code)
		})
	}
}

// TestRegisterClient_LargestID verifies the top of the INTEGER range still
// reaches the service.
func TestRegisterClient_LargestID(t *testing.T) {
	svc := &mockRegistrationServicer{
		register: func(_ context.Context, clientID, tripID int64) (domain.Confirmation, error) {
			assert.Equal(t, int64(2147483647), clientID)
			return domain.Confirmation{}, domain.ErrClientNotFound
		},
	}

	rec := do(newHTTPHandler(services{registrations: svc}), http.MethodPut, "/clients/2147483647/trips/1", nil)

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

// ---- DELETE /clients/{id}/trips/{tripId} -----------------------------------

func TestDeregisterClient_200(t *testing.T) {
	called := false
	svc := &mockRegistrationServicer{
		deregister: func(_ context.Context, clientID, tripID int64) error {
			called = true
			assert.Equal(t, int64(4), clientID)
			assert.Equal(t, int64(8), tripID)
			return nil
		},
	}

	rec := do(newHTTPHandler(services{registrations: svc}), http.MethodDelete, "/clients/4/trips/8", nil)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, called)

	var resp handler.Deregistration
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.Equal(t, "deregistered", resp.Status)
}

func TestDeregisterClient_404(t *testing.T) {
	svc := &mockRegistrationServicer{
		deregister: func(context.Context, int64, int64) error {
			return fmt.Errorf("repo.RegistrationRepo.Delete: %w", domain.ErrRegistrationNotFound)
		},
	}

	rec := do(newHTTPHandler(services{registrations: svc}), http.MethodDelete, "/clients/4/trips/8", nil)

	require.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "registration not found", decodeError(t, rec).Message)
}

// ---- PUT /clients/{id}/trips/{tripId}/payment ------------------------------

func TestRecordPayment_200(t *testing.T) {
	svc := &mockRegistrationServicer{
		recordPayment: func(context.Context, int64, int64) (domain.DateStamp, error) {
			return 20250610, nil
		},
	}

	rec := do(newHTTPHandler(services{registrations: svc}), http.MethodPut, "/clients/4/trips/8/payment", nil)

	require.Equal(t, http.StatusOK, rec.Code)

	var resp handler.Payment
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.Equal(t, handler.Payment{ClientID: 4, TripID: 8, PaymentDate: 20250610}, resp)
}

func TestRecordPayment_ErrorMapping(t *testing.T) {
	cases := map[string]struct {
		err    error
		status int
	}{
		"no registration": {domain.ErrRegistrationNotFound, http.StatusNotFound},
		"already paid":    {domain.ErrAlreadyPaid, http.StatusConflict},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			svc := &mockRegistrationServicer{
				recordPayment: func(context.Context, int64, int64) (domain.DateStamp, error) { return 0, tc.err },
			}

			rec := do(newHTTPHandler(services{registrations: svc}), http.MethodPut, "/clients/4/trips/8/payment", nil)

			assert.Equal(t, tc.status, rec.Code)
		})
	}
}

func TestUnknownRoute_404(t *testing.T) {
	rec := do(newHTTPHandler(services{}), http.MethodGet, "/clients/1/trips/2/nothing", nil)

	assert.Equal(t, http.StatusNotFound, rec.Code)
}
