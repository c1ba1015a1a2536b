package feedback

import (
	"context"
	"time"

	"github.com/pkg/errors"

	"github.com/devanshuyeole/college-event-hub/core/event"
	"github.com/devanshuyeole/college-event-hub/core/gamify"
)

var (
	ErrNotFound = errors.New("feedback not found")
	// ErrAlreadyGiven maps the store's (event_id, user_id) unique constraint.
	ErrAlreadyGiven = errors.New("you have already submitted feedback")
)

type (
	Repository interface {
		// CreateFeedback returns ErrAlreadyGiven on a duplicate (event, user) pair.
		CreateFeedback(ctx context.Context, fb Feedback) (Feedback, error)
		CountUserFeedback(ctx context.Context, userID string) (int, error)
		QueryEventFeedback(ctx context.Context, eventID string) ([]EventFeedbackRow, error)
		GetEventFeedbackStats(ctx context.Context, eventID string) (EventStats, error)
		GetAnalytics(ctx context.Context) (Analytics, error)
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

// Submit records a student's feedback, awards points and evaluates the badge
// thresholds. Awards are best-effort and never fail the submission.
func (svc *Service) Submit(ctx context.Context, userID string, nf NewFeedback) (Feedback, error) {
	if _, err := svc.events.GetByID(ctx, nf.EventID); err != nil {
		return Feedback{}, err
	}

	fb := Feedback{
		EventID:   nf.EventID,
		UserID:    userID,
		Rating:    nf.Rating,
		Comments:  nf.Comments,
		CreatedAt: time.Now().UTC(),
	}
	fb, err := svc.repo.CreateFeedback(ctx, fb)
	if err != nil {
		return Feedback{}, err
	}

	svc.engine.AwardPoints(ctx, userID, gamify.PointsFeedback, "Feedback submission")

	switch count, err := svc.repo.CountUserFeedback(ctx, userID); {
	case err != nil:
		// the badge check is part of the best-effort award path
	case count == gamify.FeedbackChampionCount:
		svc.engine.AwardBadge(ctx, userID, gamify.BadgeFeedbackChampion, gamify.BadgeFeedbackChampionDesc)
	case count == gamify.FeedbackLegendCount:
		svc.engine.AwardBadge(ctx, userID, gamify.BadgeFeedbackLegend, gamify.BadgeFeedbackLegendDesc)
	}
	return fb, nil
}

func (svc *Service) QueryByEvent(ctx context.Context, eventID string) (EventFeedback, error) {
	rows, err := svc.repo.QueryEventFeedback(ctx, eventID)
	if err != nil {
		return EventFeedback{}, errors.Wrap(err, "querying event feedback")
	}
	stats, err := svc.repo.GetEventFeedbackStats(ctx, eventID)
	if err != nil {
		return EventFeedback{}, errors.Wrap(err, "aggregating event feedback")
	}
	if rows == nil {
		rows = []EventFeedbackRow{}
	}
	return EventFeedback{Feedback: rows, Stats: stats}, nil
}

func (svc *Service) AdminAnalytics(ctx context.Context) (Analytics, error) {
	return svc.repo.GetAnalytics(ctx)
}
