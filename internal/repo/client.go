package repo

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"

	"github.com/pkordes/travel-booking/internal/domain"
)

// ClientRepo defines the persistence operations for Clients and their itineraries.
type ClientRepo interface {
	// Create inserts a new client and returns its DB-generated id.
	// Nil Telephone and Pesel become NULL.
	Create(ctx context.Context, client domain.Client) (int64, error)

	// ListTrips returns every trip the client is registered for, with the
	// registration and payment stamps. An unknown client yields an empty slice.
	ListTrips(ctx context.Context, clientID int64) ([]domain.ClientTrip, error)
}

// pgClientRepo is the Postgres implementation of ClientRepo.
type pgClientRepo struct {
	db db
}

// NewClientRepo constructs a ClientRepo backed by the provided db connection.
func NewClientRepo(db db) ClientRepo {
	return &pgClientRepo{db: db}
}

// Create inserts a client row and returns the new id.
func (r *pgClientRepo) Create(ctx context.Context, client domain.Client) (int64, error) {
	const q = `
		INSERT INTO client (first_name, last_name, email, telephone, pesel)
		VALUES (@first_name, @last_name, @email, @telephone, @pesel)
		RETURNING id_client`

	args := pgx.NamedArgs{
		"first_name": client.FirstName,
		"last_name":  client.LastName,
		"email":      client.Email,
		"telephone":  client.Telephone, // nil becomes NULL
		"pesel":      client.Pesel,
	}

	var id int64
	if err := r.db.QueryRow(ctx, q, args).Scan(&id); err != nil {
		return 0, storeErr("repo.ClientRepo.Create", err)
	}
	return id, nil
}

// ListTrips returns the client's registered trips ordered by date_from.
func (r *pgClientRepo) ListTrips(ctx context.Context, clientID int64) ([]domain.ClientTrip, error) {
	const q = `
		SELECT` + tripColumns + `,
		       ct.registered_at, ct.payment_date
		FROM client_trip ct
		JOIN trip t ON t.id_trip = ct.id_trip
		LEFT JOIN country_trip cot ON cot.id_trip = t.id_trip
		LEFT JOIN country c ON c.id_country = cot.id_country
		WHERE ct.id_client = @id_client
		GROUP BY t.id_trip, ct.registered_at, ct.payment_date
		ORDER BY t.date_from, t.id_trip`

	rows, err := r.db.Query(ctx, q, pgx.NamedArgs{"id_client": clientID})
	if err != nil {
		return nil, storeErr("repo.ClientRepo.ListTrips", err)
	}
	defer rows.Close()

	trips := []domain.ClientTrip{}
	for rows.Next() {
		var (
			registeredAt int32
			paymentDate  pgtype.Int4
		)
		t, err := scanTrip(rows, &registeredAt, &paymentDate)
		if err != nil {
			return nil, storeErr("repo.ClientRepo.ListTrips: scan", err)
		}

		ct := domain.ClientTrip{Trip: t, RegisteredAt: domain.DateStamp(registeredAt)}
		if paymentDate.Valid {
			paid := domain.DateStamp(paymentDate.Int32)
			ct.PaymentDate = &paid
		}
		trips = append(trips, ct)
	}
	if err := rows.Err(); err != nil {
		return nil, storeErr("repo.ClientRepo.ListTrips: rows", err)
	}

	return trips, nil
}
