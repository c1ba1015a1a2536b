package registration

import (
	"context"
	"time"

	"github.com/pkg/errors"

	"github.com/devanshuyeole/college-event-hub/core/event"
	"github.com/devanshuyeole/college-event-hub/core/gamify"
)

var (
	ErrNotFound = errors.New("registration not found")
	// ErrAlreadyRegistered maps the store's (event_id, user_id) unique
	// constraint; the constraint, not a prior read, closes the duplicate race.
	ErrAlreadyRegistered = errors.New("you have already registered for this event")
	// ErrStatusFinal rejects status changes on non-pending registrations.
	ErrStatusFinal = errors.New("registration has already been decided")
)

type (
	Repository interface {
		// CreateRegistration inserts the row and bumps the event's
		// denormalized registration_count in the same transaction.
		// Returns ErrAlreadyRegistered on a duplicate (event, user) pair.
		CreateRegistration(ctx context.Context, reg Registration) (Registration, error)
		QueryEventRegistrations(ctx context.Context, eventID string) ([]EventRegistrationRow, error)
		QueryUserRegistrations(ctx context.Context, userID string) ([]UserRegistrationRow, error)
		// SetRegistrationStatus updates a pending registration only;
		// ErrStatusFinal when it was already decided, ErrNotFound otherwise.
		SetRegistrationStatus(ctx context.Context, id, status string) error
	}

	Service struct {
		repo   Repository
		events *event.Service
		engine *gamify.Engine
	}
)

func NewService(repo Repository, events *event.Service, engine *gamify.Engine) *Service {
	return &Service{repo: repo, events: events, engine: engine}
}

// Register creates a pending registration for the student, awards points and
// records the activity. The award and the activity log are best-effort.
func (svc *Service) Register(ctx context.Context, userID, eventID string) (Registration, error) {
	if _, err := svc.events.GetByID(ctx, eventID); err != nil {
		return Registration{}, err
	}

	reg := Registration{
		EventID:   eventID,
		UserID:    userID,
		Status:    StatusPending,
		CreatedAt: time.Now().UTC(),
	}
	reg, err := svc.repo.CreateRegistration(ctx, reg)
	if err != nil {
		return Registration{}, err
	}

	svc.engine.AwardPoints(ctx, userID, gamify.PointsEventRegistration, "Event registration")
	svc.events.LogActivity(ctx, userID, eventID, event.ActivityRegister)
	return reg, nil
}

func (svc *Service) QueryByEvent(ctx context.Context, eventID string) ([]EventRegistrationRow, error) {
	return svc.repo.QueryEventRegistrations(ctx, eventID)
}

func (svc *Service) QueryByUser(ctx context.Context, userID string) ([]UserRegistrationRow, error) {
	return svc.repo.QueryUserRegistrations(ctx, userID)
}

func (svc *Service) SetStatus(ctx context.Context, id string, us UpdateStatus) error {
	if err := svc.repo.SetRegistrationStatus(ctx, id, us.Status); err != nil {
		return err
	}
	return nil
}
