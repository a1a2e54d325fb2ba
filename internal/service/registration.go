package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/pkordes/travel-booking/internal/domain"
	"github.com/pkordes/travel-booking/internal/repo"
)

// Registration outcomes reported to the OutcomeRecorder.
const (
	OutcomeRegistered        = "registered"
	OutcomeClientNotFound    = "client_not_found"
	OutcomeTripNotFound      = "trip_not_found"
	OutcomeAlreadyRegistered = "already_registered"
	OutcomeCapacityExceeded  = "capacity_exceeded"
	OutcomeStoreError        = "store_error"
)

// OutcomeRecorder receives one outcome per Register call.
// metrics.Registry implements it; nil disables recording.
type OutcomeRecorder interface {
	RecordRegistration(outcome string)
}

// RegistrationService is the registration engine. It owns the ordered checks
// that guard the capacity invariant; the repo owns the transaction.
type RegistrationService struct {
	repo     repo.RegistrationRepo
	now      func() time.Time
	loc      *time.Location
	log      *slog.Logger
	recorder OutcomeRecorder
}

// RegistrationOption customises a RegistrationService.
type RegistrationOption func(*RegistrationService)

// WithClock replaces time.Now as the source of registration and payment dates.
func WithClock(now func() time.Time) RegistrationOption {
	return func(s *RegistrationService) { s.now = now }
}

// WithLocation sets the time zone used to derive date stamps. Defaults to UTC.
func WithLocation(loc *time.Location) RegistrationOption {
	return func(s *RegistrationService) { s.loc = loc }
}

// WithLogger sets the logger. Defaults to slog.Default().
func WithLogger(log *slog.Logger) RegistrationOption {
	return func(s *RegistrationService) { s.log = log }
}

// WithRecorder sets the outcome recorder.
func WithRecorder(rec OutcomeRecorder) RegistrationOption {
	return func(s *RegistrationService) { s.recorder = rec }
}

// NewRegistrationService constructs a RegistrationService backed by the provided repo.
func NewRegistrationService(r repo.RegistrationRepo, opts ...RegistrationOption) *RegistrationService {
	s := &RegistrationService{
		repo: r,
		now:  time.Now,
		loc:  time.UTC,
		log:  slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Register books clientID onto tripID.
//
// Checks run in this order inside one transaction: client exists, trip exists
// (and is row-locked), client not yet registered, a place is free. The insert
// is the last statement before commit, so a failure at any point leaves the
// store untouched and the call can be retried.
func (s *RegistrationService) Register(ctx context.Context, clientID, tripID int64) (domain.Confirmation, error) {
	stamp := domain.NewDateStamp(s.now(), s.loc)

	err := s.repo.InTx(ctx, func(tx repo.RegistrationTx) error {
		exists, err := tx.ClientExists(ctx, clientID)
		if err != nil {
			return err
		}
		if !exists {
			return domain.ErrClientNotFound
		}

		maxPeople, err := tx.LockTrip(ctx, tripID)
		if err != nil {
			return err
		}

		registered, err := tx.IsRegistered(ctx, clientID, tripID)
		if err != nil {
			return err
		}
		if registered {
			return domain.ErrAlreadyRegistered
		}

		count, err := tx.CountByTrip(ctx, tripID)
		if err != nil {
			return err
		}
		if count >= maxPeople {
			return fmt.Errorf("%w (%d/%d)", domain.ErrCapacityExceeded, count, maxPeople)
		}

		return tx.Insert(ctx, clientID, tripID, stamp)
	})

	s.record(err)
	if err != nil {
		err = wrapStoreErr("service.RegistrationService.Register", err)
		s.logFailure(ctx, "registration rejected", clientID, tripID, err)
		return domain.Confirmation{}, err
	}

	s.log.InfoContext(ctx, "client registered",
		"client_id", clientID,
		"trip_id", tripID,
		"registered_at", int(stamp),
	)
	return domain.Confirmation{ClientID: clientID, TripID: tripID, RegisteredAt: stamp}, nil
}

// Deregister removes the registration of clientID on tripID, freeing one place.
func (s *RegistrationService) Deregister(ctx context.Context, clientID, tripID int64) error {
	if err := s.repo.Delete(ctx, clientID, tripID); err != nil {
		err = wrapStoreErr("service.RegistrationService.Deregister", err)
		s.logFailure(ctx, "deregistration failed", clientID, tripID, err)
		return err
	}
	s.log.InfoContext(ctx, "client deregistered", "client_id", clientID, "trip_id", tripID)
	return nil
}

// RecordPayment stamps today's date as the payment date of a registration.
// It only records the date; no money is handled here.
func (s *RegistrationService) RecordPayment(ctx context.Context, clientID, tripID int64) (domain.DateStamp, error) {
	stamp := domain.NewDateStamp(s.now(), s.loc)
	if err := s.repo.MarkPaid(ctx, clientID, tripID, stamp); err != nil {
		err = wrapStoreErr("service.RegistrationService.RecordPayment", err)
		s.logFailure(ctx, "payment not recorded", clientID, tripID, err)
		return 0, err
	}
	s.log.InfoContext(ctx, "payment recorded", "client_id", clientID, "trip_id", tripID, "payment_date", int(stamp))
	return stamp, nil
}

func (s *RegistrationService) record(err error) {
	if s.recorder == nil {
		return
	}
	s.recorder.RecordRegistration(outcomeOf(err))
}

// logFailure logs business rejections at info and store failures at warn.
func (s *RegistrationService) logFailure(ctx context.Context, msg string, clientID, tripID int64, err error) {
	level := slog.LevelInfo
	if errors.Is(err, domain.ErrStoreUnavailable) {
		level = slog.LevelWarn
	}
	s.log.Log(ctx, level, msg, "client_id", clientID, "trip_id", tripID, "error", err)
}

func outcomeOf(err error) string {
	switch {
	case err == nil:
		return OutcomeRegistered
	case errors.Is(err, domain.ErrClientNotFound):
		return OutcomeClientNotFound
	case errors.Is(err, domain.ErrTripNotFound):
		return OutcomeTripNotFound
	case errors.Is(err, domain.ErrAlreadyRegistered):
		return OutcomeAlreadyRegistered
	case errors.Is(err, domain.ErrCapacityExceeded):
		return OutcomeCapacityExceeded
	default:
		return OutcomeStoreError
	}
}

// wrapStoreErr prefixes err with op and guarantees that anything that is not
// a domain sentinel reaches the caller as domain.ErrStoreUnavailable.
func wrapStoreErr(op string, err error) error {
	if domain.IsKnown(err) {
		return fmt.Errorf("%s: %w", op, err)
	}
	return fmt.Errorf("%s: %w: %w", op, domain.ErrStoreUnavailable, err)
}
