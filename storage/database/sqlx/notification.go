package sqlxrepos

import (
	"context"
	"database/sql"

	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"

	"github.com/devanshuyeole/college-event-hub/core/notification"
)

type notificationRepository struct {
	db *sqlx.DB
}

var _ notification.Repository = (*notificationRepository)(nil) // interface compliance check

func NewNotificationRepository(db *sqlx.DB) notification.Repository {
	return &notificationRepository{db: db}
}

func (repo *notificationRepository) CreateNotification(ctx context.Context, n notification.Notification) (notification.Notification, error) {
	n.ID = newID()
	const query = `
	INSERT INTO notifications (id, user_id, event_id, title, message, type, read_status, created_at)
	VALUES (:id, :user_id, :event_id, :title, :message, :type, :read_status, :created_at)`
	if _, err := repo.db.NamedExecContext(ctx, query, n); err != nil {
		return notification.Notification{}, errors.Wrap(err, "inserting notification")
	}
	return n, nil
}

func (repo *notificationRepository) QueryUserNotifications(ctx context.Context, userID string, limit int) ([]notification.Notification, error) {
	rows := []notification.Notification{}
	const query = `
	SELECT n.id, n.user_id, n.event_id, n.title, n.message, n.type, n.read_status, n.created_at,
	       e.title AS event_title
	FROM notifications n
	LEFT JOIN events e ON e.id = n.event_id
	WHERE n.user_id = $1
	ORDER BY n.created_at DESC
	LIMIT $2`
	if err := repo.db.SelectContext(ctx, &rows, query, userID, limit); err != nil {
		return nil, errors.Wrap(err, "selecting notifications")
	}
	return rows, nil
}

func (repo *notificationRepository) GetNotificationByID(ctx context.Context, id string) (notification.Notification, error) {
	var n notification.Notification
	const query = `
	SELECT n.id, n.user_id, n.event_id, n.title, n.message, n.type, n.read_status, n.created_at,
	       e.title AS event_title
	FROM notifications n
	LEFT JOIN events e ON e.id = n.event_id
	WHERE n.id = $1`
	if err := repo.db.GetContext(ctx, &n, query, id); err != nil {
		if err == sql.ErrNoRows {
			return notification.Notification{}, notification.ErrNotFound
		}
		return notification.Notification{}, errors.Wrap(err, "selecting notification")
	}
	return n, nil
}

func (repo *notificationRepository) CountUnread(ctx context.Context, userID string) (int, error) {
	var count int
	const query = `SELECT COUNT(*) FROM notifications WHERE user_id = $1 AND read_status = FALSE`
	if err := repo.db.GetContext(ctx, &count, query, userID); err != nil {
		return 0, errors.Wrap(err, "counting unread notifications")
	}
	return count, nil
}

func (repo *notificationRepository) MarkNotificationRead(ctx context.Context, id string) error {
	res, err := repo.db.ExecContext(ctx, `UPDATE notifications SET read_status = TRUE WHERE id = $1`, id)
	if err != nil {
		return errors.Wrap(err, "marking notification read")
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return notification.ErrNotFound
	}
	return nil
}

func (repo *notificationRepository) MarkAllRead(ctx context.Context, userID string) error {
	const query = `UPDATE notifications SET read_status = TRUE WHERE user_id = $1 AND read_status = FALSE`
	if _, err := repo.db.ExecContext(ctx, query, userID); err != nil {
		return errors.Wrap(err, "marking notifications read")
	}
	return nil
}

func (repo *notificationRepository) DeleteNotification(ctx context.Context, id string) error {
	res, err := repo.db.ExecContext(ctx, `DELETE FROM notifications WHERE id = $1`, id)
	if err != nil {
		return errors.Wrap(err, "deleting notification")
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return notification.ErrNotFound
	}
	return nil
}

func (repo *notificationRepository) QueryStudentIDs(ctx context.Context) ([]string, error) {
	ids := []string{}
	const query = `SELECT id FROM users WHERE role = 'student'`
	if err := repo.db.SelectContext(ctx, &ids, query); err != nil {
		return nil, errors.Wrap(err, "selecting student ids")
	}
	return ids, nil
}
