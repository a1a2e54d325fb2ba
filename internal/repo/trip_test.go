package repo_test

import (
	"context"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pkordes/travel-booking/internal/domain"
	"github.com/pkordes/travel-booking/internal/repo"
	"github.com/pkordes/travel-booking/testutil"
)

// newTestTx opens a transaction against the test database. The transaction
// is automatically rolled back when the test finishes, giving free per-test
// isolation.
func newTestTx(t *testing.T) pgx.Tx {
	t.Helper()
	pool := testutil.NewPool(t)

	tx, err := pool.Begin(context.Background())
	require.NoError(t, err, "begin transaction")

	t.Cleanup(func() {
		// Rollback discards all changes made during the test; no cleanup SQL needed.
		_ = tx.Rollback(context.Background())
	})
	return tx
}

// tripSeed returns a TripSeed with sensible defaults for use in tests.
// Callers can override individual fields after calling this function.
func tripSeed() testutil.TripSeed {
	desc := "Two weeks across the Alps"
	return testutil.TripSeed{
		Name:        "Alpine Tour",
		Description: &desc,
		DateFrom:    time.Date(2031, 6, 1, 0, 0, 0, 0, time.UTC),
		DateTo:      time.Date(2031, 6, 15, 0, 0, 0, 0, time.UTC),
		MaxPeople:   2,
		Countries:   []string{"Switzerland", "Austria"},
	}
}

// findTrip returns the trip with id from trips.
func findTrip(t *testing.T, trips []domain.Trip, id int64) domain.Trip {
	t.Helper()
	for _, tr := range trips {
		if tr.ID == id {
			return tr
		}
	}
	t.Fatalf("trip %d not in list", id)
	return domain.Trip{}
}

func TestTripRepo_List(t *testing.T) {
	tx := newTestTx(t)
	ctx := context.Background()

	id := testutil.SeedTrip(t, tx, tripSeed())

	trips, err := repo.NewTripRepo(tx).List(ctx)
	require.NoError(t, err)

	got := findTrip(t, trips, id)
	assert.Equal(t, "Alpine Tour", got.Name)
	require.NotNil(t, got.Description)
	assert.Equal(t, "Two weeks across the Alps", *got.Description)
	assert.True(t, got.DateFrom.Equal(time.Date(2031, 6, 1, 0, 0, 0, 0, time.UTC)), "DateFrom mismatch: %v", got.DateFrom)
	assert.True(t, got.DateTo.Equal(time.Date(2031, 6, 15, 0, 0, 0, 0, time.UTC)), "DateTo mismatch: %v", got.DateTo)
	assert.Equal(t, 2, got.MaxPeople)
	// Countries come back sorted by name.
	assert.Equal(t, []string{"Austria", "Switzerland"}, got.Countries)
}

func TestTripRepo_List_TripWithoutCountries(t *testing.T) {
	tx := newTestTx(t)

	seed := tripSeed()
	seed.Countries = nil
	seed.Description = nil
	id := testutil.SeedTrip(t, tx, seed)

	trips, err := repo.NewTripRepo(tx).List(context.Background())
	require.NoError(t, err)

	got := findTrip(t, trips, id)
	assert.Nil(t, got.Description)
	assert.NotNil(t, got.Countries)
	assert.Empty(t, got.Countries)
}

func TestTripRepo_List_OrderedByDateFrom(t *testing.T) {
	tx := newTestTx(t)

	later := tripSeed()
	later.DateFrom = time.Date(2032, 1, 10, 0, 0, 0, 0, time.UTC)
	later.DateTo = time.Date(2032, 1, 20, 0, 0, 0, 0, time.UTC)
	laterID := testutil.SeedTrip(t, tx, later)
	earlierID := testutil.SeedTrip(t, tx, tripSeed())

	trips, err := repo.NewTripRepo(tx).List(context.Background())
	require.NoError(t, err)

	pos := map[int64]int{}
	for i, tr := range trips {
		pos[tr.ID] = i
	}
	assert.Less(t, pos[earlierID], pos[laterID])
}
