package sqlxrepos

import (
	"context"
	"database/sql"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"

	"github.com/devanshuyeole/college-event-hub/core/event"
)

type eventRepository struct {
	db *sqlx.DB
}

var _ event.Repository = (*eventRepository)(nil) // interface compliance check

func NewEventRepository(db *sqlx.DB) event.Repository {
	return &eventRepository{db: db}
}

func (repo *eventRepository) CreateEvent(ctx context.Context, evt event.Event) (event.Event, error) {
	evt.ID = newID()
	const query = `
	INSERT INTO events (id, college_id, title, description, category, location, start_date, end_date, image_url, registration_count, created_at, updated_at)
	VALUES (:id, :college_id, :title, :description, :category, :location, :start_date, :end_date, :image_url, :registration_count, :created_at, :updated_at)`
	if _, err := repo.db.NamedExecContext(ctx, query, evt); err != nil {
		return event.Event{}, errors.Wrap(err, "inserting event")
	}
	return evt, nil
}

func (repo *eventRepository) QueryAllEvents(ctx context.Context) ([]event.Event, error) {
	events := []event.Event{}
	const query = `
	SELECT e.*,
	       (SELECT ROUND(AVG(f.rating)::numeric, 1) FROM feedback f WHERE f.event_id = e.id) AS avg_rating,
	       (SELECT COUNT(*) FROM feedback f WHERE f.event_id = e.id) AS feedback_count
	FROM events e
	ORDER BY e.start_date DESC`
	if err := repo.db.SelectContext(ctx, &events, query); err != nil {
		return nil, errors.Wrap(err, "selecting events")
	}
	return events, nil
}

func (repo *eventRepository) GetEventByID(ctx context.Context, id string) (event.Event, error) {
	var evt event.Event
	const query = `
	SELECT e.*,
	       (SELECT ROUND(AVG(f.rating)::numeric, 1) FROM feedback f WHERE f.event_id = e.id) AS avg_rating,
	       (SELECT COUNT(*) FROM feedback f WHERE f.event_id = e.id) AS feedback_count
	FROM events e
	WHERE e.id = $1`
	if err := repo.db.GetContext(ctx, &evt, query, id); err != nil {
		if err == sql.ErrNoRows {
			return event.Event{}, event.ErrNotFound
		}
		return event.Event{}, errors.Wrap(err, "selecting event")
	}
	return evt, nil
}

func (repo *eventRepository) UpdateEvent(ctx context.Context, id string, ue event.UpdateEvent) (event.Event, error) {
	const query = `
	UPDATE events
	SET title = $2, description = $3, category = $4, location = $5,
	    start_date = $6, end_date = $7, updated_at = $8
	WHERE id = $1`
	res, err := repo.db.ExecContext(ctx, query,
		id, ue.Title, ue.Description, ue.Category, ue.Location,
		ue.StartDate.UTC(), ue.EndDate.UTC(), time.Now().UTC())
	if err != nil {
		return event.Event{}, errors.Wrap(err, "updating event")
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return event.Event{}, event.ErrNotFound
	}
	return repo.GetEventByID(ctx, id)
}

func (repo *eventRepository) DeleteEvent(ctx context.Context, id string) error {
	res, err := repo.db.ExecContext(ctx, `DELETE FROM events WHERE id = $1`, id)
	if err != nil {
		return errors.Wrap(err, "deleting event")
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return event.ErrNotFound
	}
	return nil
}

func (repo *eventRepository) CreateComment(ctx context.Context, eventID, userID, comment string) (event.CommentRow, error) {
	id := newID()
	now := time.Now().UTC()
	const query = `INSERT INTO event_comments (id, event_id, user_id, comment, created_at) VALUES ($1, $2, $3, $4, $5)`
	if _, err := repo.db.ExecContext(ctx, query, id, eventID, userID, comment, now); err != nil {
		return event.CommentRow{}, errors.Wrap(err, "inserting comment")
	}

	var row event.CommentRow
	const sel = `
	SELECT c.id, u.name, c.comment, c.created_at
	FROM event_comments c
	JOIN users u ON u.id = c.user_id
	WHERE c.id = $1`
	if err := repo.db.GetContext(ctx, &row, sel, id); err != nil {
		return event.CommentRow{}, errors.Wrap(err, "selecting inserted comment")
	}
	return row, nil
}

func (repo *eventRepository) QueryComments(ctx context.Context, eventID string) ([]event.CommentRow, error) {
	rows := []event.CommentRow{}
	const query = `
	SELECT c.id, u.name, c.comment, c.created_at
	FROM event_comments c
	JOIN users u ON u.id = c.user_id
	WHERE c.event_id = $1
	ORDER BY c.created_at DESC`
	if err := repo.db.SelectContext(ctx, &rows, query, eventID); err != nil {
		return nil, errors.Wrap(err, "selecting comments")
	}
	return rows, nil
}

func (repo *eventRepository) TopActivityCategories(ctx context.Context, userID string, limit int) ([]string, error) {
	categories := []string{}
	const query = `
	SELECT e.category
	FROM user_activity a
	JOIN events e ON e.id = a.event_id
	WHERE a.user_id = $1
	GROUP BY e.category
	ORDER BY COUNT(*) DESC
	LIMIT $2`
	if err := repo.db.SelectContext(ctx, &categories, query, userID, limit); err != nil {
		return nil, errors.Wrap(err, "aggregating activity categories")
	}
	return categories, nil
}

func (repo *eventRepository) QueryUpcomingByCategories(ctx context.Context, userID string, categories []string, limit int) ([]event.Event, error) {
	events := []event.Event{}
	query, args, err := sqlx.In(`
	SELECT e.*
	FROM events e
	WHERE e.category IN (?)
	  AND e.start_date > NOW()
	  AND e.id NOT IN (SELECT r.event_id FROM registrations r WHERE r.user_id = ?)
	ORDER BY e.created_at DESC
	LIMIT ?`, categories, userID, limit)
	if err != nil {
		return nil, errors.Wrap(err, "building category query")
	}
	if err := repo.db.SelectContext(ctx, &events, repo.db.Rebind(query), args...); err != nil {
		return nil, errors.Wrap(err, "selecting events by category")
	}
	return events, nil
}

func (repo *eventRepository) QueryUpcomingPopular(ctx context.Context, userID string, limit int, excludeIDs []string) ([]event.Event, error) {
	events := []event.Event{}
	if len(excludeIDs) == 0 {
		excludeIDs = []string{""} // keep the IN clause valid
	}
	query, args, err := sqlx.In(`
	SELECT e.*
	FROM events e
	WHERE e.start_date > NOW()
	  AND e.id NOT IN (?)
	  AND e.id NOT IN (SELECT r.event_id FROM registrations r WHERE r.user_id = ?)
	ORDER BY e.registration_count DESC, e.created_at DESC
	LIMIT ?`, excludeIDs, userID, limit)
	if err != nil {
		return nil, errors.Wrap(err, "building popularity query")
	}
	if err := repo.db.SelectContext(ctx, &events, repo.db.Rebind(query), args...); err != nil {
		return nil, errors.Wrap(err, "selecting popular events")
	}
	return events, nil
}

func (repo *eventRepository) LogActivity(ctx context.Context, userID, eventID, activityType string) error {
	const query = `INSERT INTO user_activity (user_id, event_id, activity_type, created_at) VALUES ($1, $2, $3, $4)`
	if _, err := repo.db.ExecContext(ctx, query, userID, eventID, activityType, time.Now().UTC()); err != nil {
		return errors.Wrap(err, "inserting activity")
	}
	return nil
}
