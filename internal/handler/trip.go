package handler

import (
	"net/http"

	openapi_types "github.com/oapi-codegen/runtime/types"

	"github.com/pkordes/travel-booking/internal/domain"
)

// Trip is the JSON representation of a trip and its countries.
type Trip struct {
	ID          int64              `json:"id"`
	Name        string             `json:"name"`
	Description *string            `json:"description,omitempty"`
	DateFrom    openapi_types.Date `json:"dateFrom"`
	DateTo      openapi_types.Date `json:"dateTo"`
	MaxPeople   int                `json:"maxPeople"`
	Countries   []string           `json:"countries"`
}

// ListTrips handles GET /trips.
func (s *Server) ListTrips(w http.ResponseWriter, r *http.Request) {
	trips, err := s.trips.List(r.Context())
	if err != nil {
		s.serviceError(w, r, err)
		return
	}

	out := make([]Trip, len(trips))
	for i, t := range trips {
		out[i] = tripToResponse(t)
	}
	writeJSON(w, r, http.StatusOK, out)
}

// tripToResponse converts a domain.Trip into its wire form.
func tripToResponse(t domain.Trip) Trip {
	countries := t.Countries
	if countries == nil {
		countries = []string{}
	}
	return Trip{
		ID:          t.ID,
		Name:        t.Name,
		Description: t.Description,
		DateFrom:    openapi_types.Date{Time: t.DateFrom},
		DateTo:      openapi_types.Date{Time: t.DateTo},
		MaxPeople:   t.MaxPeople,
		Countries:   countries,
	}
}
