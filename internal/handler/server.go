// Package handler implements the HTTP handlers for the travel booking API.
// All handlers are methods on Server. Methods are split into domain-specific
// files (health.go, trip.go, client.go, registration.go) but share the same
// Server struct so they can access its dependencies.
package handler

import (
	"context"
	"log/slog"

	"github.com/go-chi/chi/v5"

	"github.com/pkordes/travel-booking/internal/domain"
)

// TripServicer defines the business operations the trip handler depends on.
// Defining the interface here (in the consumer package) lets handler tests
// inject a mock without touching the database or service layer.
type TripServicer interface {
	List(ctx context.Context) ([]domain.Trip, error)
}

// ClientServicer defines the client operations the handlers depend on.
type ClientServicer interface {
	Create(ctx context.Context, client domain.Client) (int64, error)
	ListTrips(ctx context.Context, clientID int64) ([]domain.ClientTrip, error)
}

// RegistrationServicer defines the registration workflow the handlers depend on.
type RegistrationServicer interface {
	Register(ctx context.Context, clientID, tripID int64) (domain.Confirmation, error)
	Deregister(ctx context.Context, clientID, tripID int64) error
	RecordPayment(ctx context.Context, clientID, tripID int64) (domain.DateStamp, error)
}

// Server holds the dependencies of every endpoint.
type Server struct {
	trips         TripServicer
	clients       ClientServicer
	registrations RegistrationServicer
	log           *slog.Logger
}

// NewServer constructs the Server with all its dependencies.
// A nil logger falls back to slog.Default().
func NewServer(trips TripServicer, clients ClientServicer, registrations RegistrationServicer, log *slog.Logger) *Server {
	if log == nil {
		log = slog.Default()
	}
	return &Server{
		trips:         trips,
		clients:       clients,
		registrations: registrations,
		log:           log,
	}
}

// NewHealthHandler returns a Server for health-check-only use.
func NewHealthHandler() *Server {
	return NewServer(nil, nil, nil, nil)
}

// Routes returns the API router. main.go mounts it behind the global
// middleware stack; tests call it directly.
func (s *Server) Routes() chi.Router {
	r := chi.NewRouter()

	r.Get("/healthz", s.GetHealth)
	r.Get("/openapi.yaml", s.GetOpenAPI)
	r.Get("/trips", s.ListTrips)

	r.Route("/clients", func(r chi.Router) {
		r.Post("/", s.CreateClient)
		r.Route("/{id}/trips", func(r chi.Router) {
			r.Get("/", s.ListClientTrips)
			r.Put("/{tripId}", s.RegisterClient)
			r.Delete("/{tripId}", s.DeregisterClient)
			r.Put("/{tripId}/payment", s.RecordPayment)
		})
	})
	return r
}
