// Package domain contains the core data types for the travel booking service.
// This package has zero external dependencies and is imported by every other
// internal package (repo, service, handler).
package domain

import "time"

// Trip is a bookable offering with a date range and a capacity limit.
// Trips are created outside this service; the API only reads them.
type Trip struct {
	ID          int64
	Name        string
	Description *string // nil when the catalog has no description
	DateFrom    time.Time
	DateTo      time.Time
	MaxPeople   int

	// Countries holds the names of every country the trip visits, sorted.
	// Empty (never nil) when the trip has no country associations.
	Countries []string
}

// ClientTrip is one row of a client's itinerary: the trip itself plus the
// registration and payment stamps from client_trip.
type ClientTrip struct {
	Trip
	RegisteredAt DateStamp
	PaymentDate  *DateStamp // nil until a payment is recorded
}
