package testutil

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// Querier is satisfied by *pgxpool.Pool and pgx.Tx.
type Querier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// TripSeed describes a trip row to insert.
type TripSeed struct {
	Name        string
	Description *string
	DateFrom    time.Time
	DateTo      time.Time
	MaxPeople   int
	Countries   []string
}

// SeedTrip inserts a trip and its countries and returns the trip id.
// Countries are created on demand and reused by name.
func SeedTrip(t *testing.T, q Querier, s TripSeed) int64 {
	t.Helper()
	ctx := context.Background()

	var id int64
	err := q.QueryRow(ctx, `
		INSERT INTO trip (name, description, date_from, date_to, max_people)
		VALUES (@name, @description, @date_from, @date_to, @max_people)
		RETURNING id_trip`,
		pgx.NamedArgs{
			"name":        s.Name,
			"description": s.Description,
			"date_from":   s.DateFrom,
			"date_to":     s.DateTo,
			"max_people":  s.MaxPeople,
		},
	).Scan(&id)
	if err != nil {
		t.Fatalf("testutil.SeedTrip: insert trip: %v", err)
	}

	for _, name := range s.Countries {
		countryID := seedCountry(t, q, name)
		if _, err := q.Exec(ctx,
			`INSERT INTO country_trip (id_country, id_trip) VALUES ($1, $2)`, countryID, id,
		); err != nil {
			t.Fatalf("testutil.SeedTrip: link country %q: %v", name, err)
		}
	}
	return id
}

func seedCountry(t *testing.T, q Querier, name string) int64 {
	t.Helper()
	ctx := context.Background()

	var id int64
	err := q.QueryRow(ctx, `SELECT id_country FROM country WHERE name = $1 LIMIT 1`, name).Scan(&id)
	if err == nil {
		return id
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		t.Fatalf("testutil.seedCountry: lookup %q: %v", name, err)
	}
	if err := q.QueryRow(ctx,
		`INSERT INTO country (name) VALUES ($1) RETURNING id_country`, name,
	).Scan(&id); err != nil {
		t.Fatalf("testutil.seedCountry: insert %q: %v", name, err)
	}
	return id
}

// SeedClient inserts a client with a unique e-mail and returns its id.
func SeedClient(t *testing.T, q Querier, firstName, lastName string) int64 {
	t.Helper()

	var id int64
	err := q.QueryRow(context.Background(), `
		INSERT INTO client (first_name, last_name, email)
		VALUES ($1, $2, $3)
		RETURNING id_client`,
		firstName, lastName, firstName+"."+lastName+"."+time.Now().Format("150405.000000000")+"@example.com",
	).Scan(&id)
	if err != nil {
		t.Fatalf("testutil.SeedClient: %v", err)
	}
	return id
}
