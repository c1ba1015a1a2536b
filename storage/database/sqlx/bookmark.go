package sqlxrepos

import (
	"context"

	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"

	"github.com/devanshuyeole/college-event-hub/core/bookmark"
)

type bookmarkRepository struct {
	db *sqlx.DB
}

var _ bookmark.Repository = (*bookmarkRepository)(nil) // interface compliance check

func NewBookmarkRepository(db *sqlx.DB) bookmark.Repository {
	return &bookmarkRepository{db: db}
}

func (repo *bookmarkRepository) CreateBookmark(ctx context.Context, bm bookmark.Bookmark) error {
	const query = `INSERT INTO bookmarks (user_id, event_id, created_at) VALUES (:user_id, :event_id, :created_at)`
	if _, err := repo.db.NamedExecContext(ctx, query, bm); err != nil {
		if isUniqueViolation(err) {
			return bookmark.ErrExists
		}
		return errors.Wrap(err, "inserting bookmark")
	}
	return nil
}

func (repo *bookmarkRepository) DeleteBookmark(ctx context.Context, userID, eventID string) (bool, error) {
	res, err := repo.db.ExecContext(ctx, `DELETE FROM bookmarks WHERE user_id = $1 AND event_id = $2`, userID, eventID)
	if err != nil {
		return false, errors.Wrap(err, "deleting bookmark")
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, errors.Wrap(err, "reading affected rows")
	}
	return n > 0, nil
}

func (repo *bookmarkRepository) QueryUserBookmarks(ctx context.Context, userID string) ([]bookmark.BookmarkedEvent, error) {
	rows := []bookmark.BookmarkedEvent{}
	const query = `
	SELECT e.*,
	       (SELECT ROUND(AVG(f.rating)::numeric, 1) FROM feedback f WHERE f.event_id = e.id) AS avg_rating,
	       (SELECT COUNT(*) FROM feedback f WHERE f.event_id = e.id) AS feedback_count,
	       b.created_at AS bookmarked_at
	FROM bookmarks b
	JOIN events e ON e.id = b.event_id
	WHERE b.user_id = $1
	ORDER BY b.created_at DESC`
	if err := repo.db.SelectContext(ctx, &rows, query, userID); err != nil {
		return nil, errors.Wrap(err, "selecting bookmarks")
	}
	return rows, nil
}

func (repo *bookmarkRepository) BookmarkExists(ctx context.Context, userID, eventID string) (bool, error) {
	var exists bool
	const query = `SELECT EXISTS (SELECT 1 FROM bookmarks WHERE user_id = $1 AND event_id = $2)`
	if err := repo.db.GetContext(ctx, &exists, query, userID, eventID); err != nil {
		return false, errors.Wrap(err, "checking bookmark")
	}
	return exists, nil
}
