package repo

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/pkordes/travel-booking/internal/domain"
)

// RegistrationTx is the set of statements the registration engine runs inside
// one transaction. Implementations are only valid inside RegistrationRepo.InTx.
type RegistrationTx interface {
	// ClientExists reports whether a client row with the id exists.
	ClientExists(ctx context.Context, clientID int64) (bool, error)

	// LockTrip takes a row lock on the trip (SELECT ... FOR UPDATE) and returns
	// its max_people. The lock is held until the transaction ends, so every
	// registration for the same trip serializes behind it.
	// Returns domain.ErrTripNotFound if the trip does not exist.
	LockTrip(ctx context.Context, tripID int64) (int, error)

	// IsRegistered reports whether the (client, trip) registration exists.
	IsRegistered(ctx context.Context, clientID, tripID int64) (bool, error)

	// CountByTrip returns the number of registrations held for the trip.
	CountByTrip(ctx context.Context, tripID int64) (int, error)

	// Insert adds the registration row. A duplicate (client, trip) pair returns
	// domain.ErrAlreadyRegistered.
	Insert(ctx context.Context, clientID, tripID int64, registeredAt domain.DateStamp) error
}

// RegistrationRepo defines the persistence operations for client_trip rows.
type RegistrationRepo interface {
	// InTx runs fn inside a single transaction. The transaction commits when fn
	// returns nil and rolls back on any error or panic. The connection is
	// released on every exit path.
	InTx(ctx context.Context, fn func(tx RegistrationTx) error) error

	// Delete removes the registration of clientID on tripID.
	// Returns domain.ErrRegistrationNotFound if no such row exists.
	Delete(ctx context.Context, clientID, tripID int64) error

	// MarkPaid sets payment_date on an unpaid registration.
	// Returns domain.ErrRegistrationNotFound if the row does not exist and
	// domain.ErrAlreadyPaid if it already carries a payment date.
	MarkPaid(ctx context.Context, clientID, tripID int64, paidAt domain.DateStamp) error
}

// pgRegistrationRepo is the Postgres implementation of RegistrationRepo.
type pgRegistrationRepo struct {
	db txDB
}

// NewRegistrationRepo constructs a RegistrationRepo.
// In production pass *pgxpool.Pool; in tests a pgx.Tx works too (InTx then
// runs on a savepoint).
func NewRegistrationRepo(db txDB) RegistrationRepo {
	return &pgRegistrationRepo{db: db}
}

// InTx begins a read-committed transaction, runs fn, and commits.
// Read committed is enough because LockTrip serializes writers per trip.
func (r *pgRegistrationRepo) InTx(ctx context.Context, fn func(tx RegistrationTx) error) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return storeErr("repo.RegistrationRepo.InTx: begin", err)
	}
	// Rollback after Commit is a no-op returning pgx.ErrTxClosed.
	defer func() { _ = tx.Rollback(context.WithoutCancel(ctx)) }()

	if err := fn(&pgRegistrationTx{tx: tx}); err != nil {
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		if classified := classifyInsertErr(err); classified != nil {
			return fmt.Errorf("repo.RegistrationRepo.InTx: commit: %w", classified)
		}
		return storeErr("repo.RegistrationRepo.InTx: commit", err)
	}
	return nil
}

// Delete removes a single registration row.
func (r *pgRegistrationRepo) Delete(ctx context.Context, clientID, tripID int64) error {
	const q = `DELETE FROM client_trip WHERE id_client = @id_client AND id_trip = @id_trip`

	tag, err := r.db.Exec(ctx, q, pgx.NamedArgs{"id_client": clientID, "id_trip": tripID})
	if err != nil {
		return storeErr("repo.RegistrationRepo.Delete", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("repo.RegistrationRepo.Delete: %w", domain.ErrRegistrationNotFound)
	}
	return nil
}

// MarkPaid records the payment date once; a second call reports ErrAlreadyPaid.
func (r *pgRegistrationRepo) MarkPaid(ctx context.Context, clientID, tripID int64, paidAt domain.DateStamp) error {
	if err := paidAt.Validate(); err != nil {
		return fmt.Errorf("repo.RegistrationRepo.MarkPaid: %w", err)
	}
	const q = `
		UPDATE client_trip
		SET payment_date = @payment_date
		WHERE id_client = @id_client AND id_trip = @id_trip AND payment_date IS NULL`

	args := pgx.NamedArgs{"id_client": clientID, "id_trip": tripID, "payment_date": int32(paidAt)}
	tag, err := r.db.Exec(ctx, q, args)
	if err != nil {
		return storeErr("repo.RegistrationRepo.MarkPaid", err)
	}
	if tag.RowsAffected() == 1 {
		return nil
	}

	// Nothing updated: either the row is missing or it is already paid.
	exists, err := registrationExists(ctx, r.db, clientID, tripID)
	if err != nil {
		return storeErr("repo.RegistrationRepo.MarkPaid: lookup", err)
	}
	if exists {
		return fmt.Errorf("repo.RegistrationRepo.MarkPaid: %w", domain.ErrAlreadyPaid)
	}
	return fmt.Errorf("repo.RegistrationRepo.MarkPaid: %w", domain.ErrRegistrationNotFound)
}

// pgRegistrationTx runs the engine's statements on an open pgx.Tx.
type pgRegistrationTx struct {
	tx pgx.Tx
}

func (t *pgRegistrationTx) ClientExists(ctx context.Context, clientID int64) (bool, error) {
	const q = `SELECT EXISTS (SELECT 1 FROM client WHERE id_client = @id_client)`

	var exists bool
	if err := t.tx.QueryRow(ctx, q, pgx.NamedArgs{"id_client": clientID}).Scan(&exists); err != nil {
		return false, storeErr("repo.RegistrationTx.ClientExists", err)
	}
	return exists, nil
}

func (t *pgRegistrationTx) LockTrip(ctx context.Context, tripID int64) (int, error) {
	const q = `SELECT max_people FROM trip WHERE id_trip = @id_trip FOR UPDATE`

	var maxPeople int
	err := t.tx.QueryRow(ctx, q, pgx.NamedArgs{"id_trip": tripID}).Scan(&maxPeople)
	if err != nil {
		if isNoRows(err) {
			return 0, fmt.Errorf("repo.RegistrationTx.LockTrip: %w", domain.ErrTripNotFound)
		}
		return 0, storeErr("repo.RegistrationTx.LockTrip", err)
	}
	return maxPeople, nil
}

func (t *pgRegistrationTx) IsRegistered(ctx context.Context, clientID, tripID int64) (bool, error) {
	exists, err := registrationExists(ctx, t.tx, clientID, tripID)
	if err != nil {
		return false, storeErr("repo.RegistrationTx.IsRegistered", err)
	}
	return exists, nil
}

func (t *pgRegistrationTx) CountByTrip(ctx context.Context, tripID int64) (int, error) {
	const q = `SELECT COUNT(*) FROM client_trip WHERE id_trip = @id_trip`

	var count int
	if err := t.tx.QueryRow(ctx, q, pgx.NamedArgs{"id_trip": tripID}).Scan(&count); err != nil {
		return 0, storeErr("repo.RegistrationTx.CountByTrip", err)
	}
	return count, nil
}

func (t *pgRegistrationTx) Insert(ctx context.Context, clientID, tripID int64, registeredAt domain.DateStamp) error {
	if err := registeredAt.Validate(); err != nil {
		return fmt.Errorf("repo.RegistrationTx.Insert: %w", err)
	}
	const q = `
		INSERT INTO client_trip (id_client, id_trip, registered_at)
		VALUES (@id_client, @id_trip, @registered_at)`

	args := pgx.NamedArgs{
		"id_client":     clientID,
		"id_trip":       tripID,
		"registered_at": int32(registeredAt),
	}
	if _, err := t.tx.Exec(ctx, q, args); err != nil {
		if classified := classifyInsertErr(err); classified != nil {
			return fmt.Errorf("repo.RegistrationTx.Insert: %w", classified)
		}
		return storeErr("repo.RegistrationTx.Insert", err)
	}
	return nil
}

func registrationExists(ctx context.Context, db db, clientID, tripID int64) (bool, error) {
	const q = `
		SELECT EXISTS (
			SELECT 1 FROM client_trip WHERE id_client = @id_client AND id_trip = @id_trip
		)`

	var exists bool
	err := db.QueryRow(ctx, q, pgx.NamedArgs{"id_client": clientID, "id_trip": tripID}).Scan(&exists)
	return exists, err
}

// classifyInsertErr maps constraint violations on client_trip to domain
// errors. It returns nil for anything that is not a known violation.
func classifyInsertErr(err error) error {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return nil
	}
	switch pgErr.Code {
	case pgerrcode.UniqueViolation:
		return domain.ErrAlreadyRegistered
	case pgerrcode.ForeignKeyViolation:
		// The referenced row vanished between the existence check and the insert.
		if pgErr.ConstraintName == "client_trip_id_client_fkey" {
			return domain.ErrClientNotFound
		}
		return domain.ErrTripNotFound
	}
	return nil
}
