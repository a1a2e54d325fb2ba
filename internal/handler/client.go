package handler

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/go-chi/render"

	"github.com/pkordes/travel-booking/internal/domain"
)

// CreateClientRequest is the body of POST /clients.
type CreateClientRequest struct {
	FirstName string  `json:"firstName"`
	LastName  string  `json:"lastName"`
	Email     string  `json:"email"`
	Telephone *string `json:"telephone,omitempty"`
	Pesel     *string `json:"pesel,omitempty"`
}

// CreateClientResponse carries the id assigned to a new client.
type CreateClientResponse struct {
	ID int64 `json:"id"`
}

// ClientTrip is a trip as seen by one registered client.
type ClientTrip struct {
	Trip
	RegisteredAt int  `json:"registeredAt"`
	PaymentDate  *int `json:"paymentDate"`
}

// CreateClient handles POST /clients.
func (s *Server) CreateClient(w http.ResponseWriter, r *http.Request) {
	var body CreateClientRequest
	if err := render.DecodeJSON(r.Body, &body); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeError(w, r, http.StatusRequestEntityTooLarge, codeValidation, "request body too large")
			return
		}
		requestError(w, r, "request body must be a JSON client object")
		return
	}

	id, err := s.clients.Create(r.Context(), domain.Client{
		FirstName: body.FirstName,
		LastName:  body.LastName,
		Email:     body.Email,
		Telephone: body.Telephone,
		Pesel:     body.Pesel,
	})
	if err != nil {
		s.serviceError(w, r, err)
		return
	}

	w.Header().Set("Location", fmt.Sprintf("/clients/%d", id))
	writeJSON(w, r, http.StatusCreated, CreateClientResponse{ID: id})
}

// ListClientTrips handles GET /clients/{id}/trips.
func (s *Server) ListClientTrips(w http.ResponseWriter, r *http.Request) {
	clientID, err := pathID(r, "id")
	if err != nil {
		requestError(w, r, err.Error())
		return
	}

	trips, err := s.clients.ListTrips(r.Context(), clientID)
	if err != nil {
		s.serviceError(w, r, err)
		return
	}

	out := make([]ClientTrip, len(trips))
	for i, ct := range trips {
		out[i] = clientTripToResponse(ct)
	}
	writeJSON(w, r, http.StatusOK, out)
}

func clientTripToResponse(ct domain.ClientTrip) ClientTrip {
	resp := ClientTrip{
		Trip:         tripToResponse(ct.Trip),
		RegisteredAt: int(ct.RegisteredAt),
	}
	if ct.PaymentDate != nil {
		paid := int(*ct.PaymentDate)
		resp.PaymentDate = &paid
	}
	return resp
}
