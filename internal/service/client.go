package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"unicode"

	"github.com/go-playground/validator/v10"
	"github.com/go-playground/validator/v10/non-standard/validators"

	"github.com/pkordes/travel-booking/internal/domain"
	"github.com/pkordes/travel-booking/internal/repo"
)

// ClientService implements business logic for Client operations.
type ClientService struct {
	repo     repo.ClientRepo
	validate *validator.Validate
}

// NewClientService constructs a ClientService backed by the provided ClientRepo.
func NewClientService(r repo.ClientRepo) *ClientService {
	v := validator.New(validator.WithRequiredStructEnabled())
	if err := v.RegisterValidation("notblank", validators.NotBlank); err != nil {
		panic("service.NewClientService: register notblank: " + err.Error())
	}
	return &ClientService{repo: r, validate: v}
}

// Create validates and persists a new client, returning its id.
// Leading and trailing whitespace is trimmed; blank optional fields are stored as NULL.
func (s *ClientService) Create(ctx context.Context, client domain.Client) (int64, error) {
	client = normalizeClient(client)

	if err := s.validate.Struct(client); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			return 0, fmt.Errorf("service.ClientService.Create: %w: %s", domain.ErrValidation, describe(verrs))
		}
		return 0, fmt.Errorf("service.ClientService.Create: %w: %s", domain.ErrValidation, err.Error())
	}

	id, err := s.repo.Create(ctx, client)
	if err != nil {
		return 0, wrapStoreErr("service.ClientService.Create", err)
	}
	return id, nil
}

// ListTrips returns the trips clientID is registered for.
// An empty result is reported as domain.ErrNotFound: the API cannot tell an
// unknown client from one without registrations, and answers 404 for both.
func (s *ClientService) ListTrips(ctx context.Context, clientID int64) ([]domain.ClientTrip, error) {
	trips, err := s.repo.ListTrips(ctx, clientID)
	if err != nil {
		return nil, wrapStoreErr("service.ClientService.ListTrips", err)
	}
	if len(trips) == 0 {
		return nil, fmt.Errorf("service.ClientService.ListTrips: %w: no trips found for this client or client does not exist", domain.ErrNotFound)
	}
	return trips, nil
}

func normalizeClient(c domain.Client) domain.Client {
	c.FirstName = strings.TrimSpace(c.FirstName)
	c.LastName = strings.TrimSpace(c.LastName)
	c.Email = strings.TrimSpace(c.Email)
	c.Telephone = trimOptional(c.Telephone)
	c.Pesel = trimOptional(c.Pesel)
	return c
}

func trimOptional(s *string) *string {
	if s == nil {
		return nil
	}
	t := strings.TrimSpace(*s)
	if t == "" {
		return nil
	}
	return &t
}

// describe turns validator errors into "firstName is required, email is required".
func describe(verrs validator.ValidationErrors) string {
	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		msgs = append(msgs, lowerFirst(fe.Field())+" is required")
	}
	return strings.Join(msgs, ", ")
}

func lowerFirst(s string) string {
	if s == "" {
		return s
	}
	r := []rune(s)
	r[0] = unicode.ToLower(r[0])
	return string(r)
}
