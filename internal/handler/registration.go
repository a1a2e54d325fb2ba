package handler

import "net/http"

// Registration confirms a successful registration.
type Registration struct {
	ClientID     int64 `json:"clientId"`
	TripID       int64 `json:"tripId"`
	RegisteredAt int   `json:"registeredAt"`
}

// Payment confirms a recorded payment date.
type Payment struct {
	ClientID    int64 `json:"clientId"`
	TripID      int64 `json:"tripId"`
	PaymentDate int   `json:"paymentDate"`
}

// Deregistration confirms a removed registration.
type Deregistration struct {
	ClientID int64  `json:"clientId"`
	TripID   int64  `json:"tripId"`
	Status   string `json:"status"`
}

// RegisterClient handles PUT /clients/{id}/trips/{tripId}.
func (s *Server) RegisterClient(w http.ResponseWriter, r *http.Request) {
	clientID, tripID, err := pathIDs(r)
	if err != nil {
		requestError(w, r, err.Error())
		return
	}

	conf, err := s.registrations.Register(r.Context(), clientID, tripID)
	if err != nil {
		s.serviceError(w, r, err)
		return
	}

	writeJSON(w, r, http.StatusOK, Registration{
		ClientID:     conf.ClientID,
		TripID:       conf.TripID,
		RegisteredAt: int(conf.RegisteredAt),
	})
}

// DeregisterClient handles DELETE /clients/{id}/trips/{tripId}.
func (s *Server) DeregisterClient(w http.ResponseWriter, r *http.Request) {
	clientID, tripID, err := pathIDs(r)
	if err != nil {
		requestError(w, r, err.Error())
		return
	}

	if err := s.registrations.Deregister(r.Context(), clientID, tripID); err != nil {
		s.serviceError(w, r, err)
		return
	}

	writeJSON(w, r, http.StatusOK, Deregistration{ClientID: clientID, TripID: tripID, Status: "deregistered"})
}

// RecordPayment handles PUT /clients/{id}/trips/{tripId}/payment.
func (s *Server) RecordPayment(w http.ResponseWriter, r *http.Request) {
	clientID, tripID, err := pathIDs(r)
	if err != nil {
		requestError(w, r, err.Error())
		return
	}

	paid, err := s.registrations.RecordPayment(r.Context(), clientID, tripID)
	if err != nil {
		s.serviceError(w, r, err)
		return
	}

	writeJSON(w, r, http.StatusOK, Payment{ClientID: clientID, TripID: tripID, PaymentDate: int(paid)})
}
