package repo

import (
	"context"

	"github.com/jackc/pgx/v5/pgtype"

	"github.com/pkordes/travel-booking/internal/domain"
)

// TripRepo defines the read operations on the trip catalog.
// Trips are created and edited outside this service.
type TripRepo interface {
	// List returns every trip with its country names, ordered by date_from
	// then id. Trips without countries carry an empty Countries slice.
	List(ctx context.Context) ([]domain.Trip, error)
}

// pgTripRepo is the Postgres implementation of TripRepo.
type pgTripRepo struct {
	db db
}

// NewTripRepo constructs a TripRepo backed by the provided db connection.
// In production pass *pgxpool.Pool; in tests pass a pgx.Tx for rollback isolation.
func NewTripRepo(db db) TripRepo {
	return &pgTripRepo{db: db}
}

// tripColumns selects the trip row plus its aggregated, sorted country names.
// Queries using it must join country_trip as cot and country as c, and group by t.id_trip.
const tripColumns = `
	t.id_trip, t.name, t.description, t.date_from, t.date_to, t.max_people,
	COALESCE(array_agg(c.name ORDER BY c.name) FILTER (WHERE c.name IS NOT NULL), '{}') AS countries`

// List returns all trips with their countries.
func (r *pgTripRepo) List(ctx context.Context) ([]domain.Trip, error) {
	const q = `
		SELECT` + tripColumns + `
		FROM trip t
		LEFT JOIN country_trip cot ON cot.id_trip = t.id_trip
		LEFT JOIN country c ON c.id_country = cot.id_country
		GROUP BY t.id_trip
		ORDER BY t.date_from, t.id_trip`

	rows, err := r.db.Query(ctx, q)
	if err != nil {
		return nil, storeErr("repo.TripRepo.List", err)
	}
	defer rows.Close()

	trips := []domain.Trip{}
	for rows.Next() {
		t, err := scanTrip(rows)
		if err != nil {
			return nil, storeErr("repo.TripRepo.List: scan", err)
		}
		trips = append(trips, t)
	}
	if err := rows.Err(); err != nil {
		return nil, storeErr("repo.TripRepo.List: rows", err)
	}

	return trips, nil
}

// scanTrip maps the tripColumns of a single row into a domain.Trip.
// extra receives any columns selected after tripColumns.
func scanTrip(s scanner, extra ...any) (domain.Trip, error) {
	var (
		t        domain.Trip
		dateFrom pgtype.Date
		dateTo   pgtype.Date
	)

	dest := append([]any{&t.ID, &t.Name, &t.Description, &dateFrom, &dateTo, &t.MaxPeople, &t.Countries}, extra...)
	if err := s.Scan(dest...); err != nil {
		return domain.Trip{}, err
	}

	t.DateFrom = dateFrom.Time
	t.DateTo = dateTo.Time
	if t.Countries == nil {
		t.Countries = []string{}
	}
	return t, nil
}
