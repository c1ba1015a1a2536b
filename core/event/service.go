package event

import (
	"context"
	"time"

	"github.com/pkg/errors"

	"github.com/devanshuyeole/college-event-hub/core"
)

var ErrNotFound = errors.New("event not found")

// recommendationLimit caps the recommended feed at 6 events.
const recommendationLimit = 6

type (
	Repository interface {
		CreateEvent(ctx context.Context, evt Event) (Event, error)
		// QueryAllEvents returns all events annotated with registration_count,
		// avg_rating and feedback_count, most recent start_date first.
		QueryAllEvents(ctx context.Context) ([]Event, error)
		GetEventByID(ctx context.Context, id string) (Event, error)
		UpdateEvent(ctx context.Context, id string, ue UpdateEvent) (Event, error)
		DeleteEvent(ctx context.Context, id string) error
		CreateComment(ctx context.Context, eventID, userID, comment string) (CommentRow, error)
		QueryComments(ctx context.Context, eventID string) ([]CommentRow, error)
		// TopActivityCategories aggregates the user's activity log by event
		// category, most frequent first.
		TopActivityCategories(ctx context.Context, userID string, limit int) ([]string, error)
		// QueryUpcomingByCategories returns future events in the given
		// categories that the user has not registered for, newest-created first.
		QueryUpcomingByCategories(ctx context.Context, userID string, categories []string, limit int) ([]Event, error)
		// QueryUpcomingPopular returns future events the user has not
		// registered for, most-registered first.
		QueryUpcomingPopular(ctx context.Context, userID string, limit int, excludeIDs []string) ([]Event, error)
		LogActivity(ctx context.Context, userID, eventID, activityType string) error
	}

	Service struct {
		repo Repository
		log  core.Logger
	}
)

func NewService(repo Repository, log core.Logger) *Service {
	return &Service{repo: repo, log: log}
}

func (svc *Service) Create(ctx context.Context, collegeID string, ne NewEvent) (Event, error) {
	now := time.Now().UTC()
	evt := Event{
		CollegeID:   collegeID,
		Title:       ne.Title,
		Description: ne.Description,
		Category:    ne.Category,
		Location:    ne.Location,
		StartDate:   ne.StartDate.UTC(),
		EndDate:     ne.EndDate.UTC(),
		ImageURL:    ne.ImageURL,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	return svc.repo.CreateEvent(ctx, evt)
}

func (svc *Service) QueryAll(ctx context.Context) ([]Event, error) {
	return svc.repo.QueryAllEvents(ctx)
}

func (svc *Service) GetByID(ctx context.Context, id string) (Event, error) {
	return svc.repo.GetEventByID(ctx, id)
}

func (svc *Service) Update(ctx context.Context, id string, ue UpdateEvent) (Event, error) {
	return svc.repo.UpdateEvent(ctx, id, ue)
}

func (svc *Service) Delete(ctx context.Context, id string) error {
	return svc.repo.DeleteEvent(ctx, id)
}

func (svc *Service) AddComment(ctx context.Context, userID string, nc NewComment) (CommentRow, error) {
	if _, err := svc.repo.GetEventByID(ctx, nc.EventID); err != nil {
		return CommentRow{}, err
	}
	return svc.repo.CreateComment(ctx, nc.EventID, userID, nc.Comment)
}

func (svc *Service) Comments(ctx context.Context, eventID string) ([]CommentRow, error) {
	return svc.repo.QueryComments(ctx, eventID)
}

// LogActivity appends to the user's activity log; failures are logged and
// swallowed so the parent request never fails on it.
func (svc *Service) LogActivity(ctx context.Context, userID, eventID, activityType string) {
	if err := svc.repo.LogActivity(ctx, userID, eventID, activityType); err != nil {
		svc.log.Error("logging user activity", err)
	}
}

// Recommended ranks unregistered future events by the user's historical
// activity categories, padding with popular events up to 6 results.
// A user with no activity history receives only the popularity fallback.
func (svc *Service) Recommended(ctx context.Context, userID string) ([]Event, error) {
	categories, err := svc.repo.TopActivityCategories(ctx, userID, 3)
	if err != nil {
		return nil, errors.Wrap(err, "aggregating activity categories")
	}

	recommended := make([]Event, 0, recommendationLimit)
	if len(categories) > 0 {
		recommended, err = svc.repo.QueryUpcomingByCategories(ctx, userID, categories, recommendationLimit)
		if err != nil {
			return nil, errors.Wrap(err, "querying events by category")
		}
	}

	if len(recommended) < recommendationLimit {
		seen := make([]string, 0, len(recommended))
		for _, evt := range recommended {
			seen = append(seen, evt.ID)
		}
		popular, err := svc.repo.QueryUpcomingPopular(ctx, userID, recommendationLimit-len(recommended), seen)
		if err != nil {
			return nil, errors.Wrap(err, "querying popular events")
		}
		recommended = append(recommended, popular...)
	}
	return recommended, nil
}
