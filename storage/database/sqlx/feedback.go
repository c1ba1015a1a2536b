package sqlxrepos

import (
	"context"

	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"

	"github.com/devanshuyeole/college-event-hub/core/feedback"
)

type feedbackRepository struct {
	db *sqlx.DB
}

var _ feedback.Repository = (*feedbackRepository)(nil) // interface compliance check

func NewFeedbackRepository(db *sqlx.DB) feedback.Repository {
	return &feedbackRepository{db: db}
}

func (repo *feedbackRepository) CreateFeedback(ctx context.Context, fb feedback.Feedback) (feedback.Feedback, error) {
	fb.ID = newID()
	const query = `
	INSERT INTO feedback (id, event_id, user_id, rating, comments, created_at)
	VALUES (:id, :event_id, :user_id, :rating, :comments, :created_at)`
	if _, err := repo.db.NamedExecContext(ctx, query, fb); err != nil {
		if isUniqueViolation(err) {
			return feedback.Feedback{}, feedback.ErrAlreadyGiven
		}
		return feedback.Feedback{}, errors.Wrap(err, "inserting feedback")
	}
	return fb, nil
}

func (repo *feedbackRepository) CountUserFeedback(ctx context.Context, userID string) (int, error) {
	var count int
	const query = `SELECT COUNT(*) FROM feedback WHERE user_id = $1`
	if err := repo.db.GetContext(ctx, &count, query, userID); err != nil {
		return 0, errors.Wrap(err, "counting user feedback")
	}
	return count, nil
}

func (repo *feedbackRepository) QueryEventFeedback(ctx context.Context, eventID string) ([]feedback.EventFeedbackRow, error) {
	rows := []feedback.EventFeedbackRow{}
	const query = `
	SELECT f.id, u.name AS student_name, f.rating, f.comments, f.created_at
	FROM feedback f
	JOIN users u ON u.id = f.user_id
	WHERE f.event_id = $1
	ORDER BY f.created_at DESC`
	if err := repo.db.SelectContext(ctx, &rows, query, eventID); err != nil {
		return nil, errors.Wrap(err, "selecting event feedback")
	}
	return rows, nil
}

func (repo *feedbackRepository) GetEventFeedbackStats(ctx context.Context, eventID string) (feedback.EventStats, error) {
	var stats feedback.EventStats
	const query = `
	SELECT COUNT(*) AS total_feedback,
	       COALESCE(ROUND(AVG(rating)::numeric, 1), 0) AS average_rating,
	       COUNT(*) FILTER (WHERE rating >= 4) AS positive_ratings
	FROM feedback
	WHERE event_id = $1`
	if err := repo.db.GetContext(ctx, &stats, query, eventID); err != nil {
		return feedback.EventStats{}, errors.Wrap(err, "aggregating event feedback")
	}
	return stats, nil
}

func (repo *feedbackRepository) GetAnalytics(ctx context.Context) (feedback.Analytics, error) {
	var analytics feedback.Analytics

	const overallQuery = `
	SELECT COUNT(DISTINCT event_id) AS events_with_feedback,
	       COALESCE(ROUND(AVG(rating)::numeric, 1), 0) AS average_rating,
	       COUNT(*) AS total_feedback
	FROM feedback`
	if err := repo.db.GetContext(ctx, &analytics.Overall, overallQuery); err != nil {
		return feedback.Analytics{}, errors.Wrap(err, "aggregating overall feedback")
	}

	analytics.RatingDistribution = []feedback.RatingBucket{}
	const distQuery = `
	SELECT rating, COUNT(*) AS count
	FROM feedback
	GROUP BY rating
	ORDER BY rating`
	if err := repo.db.SelectContext(ctx, &analytics.RatingDistribution, distQuery); err != nil {
		return feedback.Analytics{}, errors.Wrap(err, "aggregating rating distribution")
	}

	analytics.TopEvents = []feedback.TopEventRow{}
	const topQuery = `
	SELECT e.title, e.category,
	       COUNT(f.id) AS feedback_count,
	       ROUND(AVG(f.rating)::numeric, 1) AS average_rating
	FROM feedback f
	JOIN events e ON e.id = f.event_id
	GROUP BY e.id, e.title, e.category
	ORDER BY average_rating DESC, feedback_count DESC
	LIMIT 5`
	if err := repo.db.SelectContext(ctx, &analytics.TopEvents, topQuery); err != nil {
		return feedback.Analytics{}, errors.Wrap(err, "aggregating top events")
	}

	analytics.RecentFeedback = []feedback.RecentRow{}
	const recentQuery = `
	SELECT e.title AS event_title, u.name AS student_name, f.rating, f.comments, f.created_at
	FROM feedback f
	JOIN events e ON e.id = f.event_id
	JOIN users u ON u.id = f.user_id
	ORDER BY f.created_at DESC
	LIMIT 10`
	if err := repo.db.SelectContext(ctx, &analytics.RecentFeedback, recentQuery); err != nil {
		return feedback.Analytics{}, errors.Wrap(err, "selecting recent feedback")
	}
	return analytics, nil
}
