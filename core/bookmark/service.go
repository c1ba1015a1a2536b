package bookmark

import (
	"context"
	"time"

	"github.com/pkg/errors"

	"github.com/devanshuyeole/college-event-hub/core/event"
)

// ErrExists maps the store's (user_id, event_id) unique constraint; a
// concurrent duplicate toggle resolves to "bookmarked" instead of racing.
var ErrExists = errors.New("event already bookmarked")

type (
	Repository interface {
		// CreateBookmark returns ErrExists on a duplicate (user, event) pair.
		CreateBookmark(ctx context.Context, bm Bookmark) error
		// DeleteBookmark reports whether a row was actually removed.
		DeleteBookmark(ctx context.Context, userID, eventID string) (bool, error)
		QueryUserBookmarks(ctx context.Context, userID string) ([]BookmarkedEvent, error)
		BookmarkExists(ctx context.Context, userID, eventID string) (bool, error)
	}

	Service struct {
		repo   Repository
		events *event.Service
	}
)

func NewService(repo Repository, events *event.Service) *Service {
	return &Service{repo: repo, events: events}
}

// Toggle removes the bookmark when present, creates it otherwise. Adding a
// bookmark records a "bookmark" activity for the recommendation signal.
func (svc *Service) Toggle(ctx context.Context, userID, eventID string) (ToggleResult, error) {
	if _, err := svc.events.GetByID(ctx, eventID); err != nil {
		return ToggleResult{}, err
	}

	removed, err := svc.repo.DeleteBookmark(ctx, userID, eventID)
	if err != nil {
		return ToggleResult{}, errors.Wrap(err, "removing bookmark")
	}
	if removed {
		return ToggleResult{Bookmarked: false}, nil
	}

	bm := Bookmark{UserID: userID, EventID: eventID, CreatedAt: time.Now().UTC()}
	if err := svc.repo.CreateBookmark(ctx, bm); err != nil && errors.Cause(err) != ErrExists {
		return ToggleResult{}, errors.Wrap(err, "adding bookmark")
	}
	svc.events.LogActivity(ctx, userID, eventID, event.ActivityBookmark)
	return ToggleResult{Bookmarked: true}, nil
}

func (svc *Service) QueryForUser(ctx context.Context, userID string) ([]BookmarkedEvent, error) {
	return svc.repo.QueryUserBookmarks(ctx, userID)
}

func (svc *Service) IsBookmarked(ctx context.Context, userID, eventID string) (bool, error) {
	return svc.repo.BookmarkExists(ctx, userID, eventID)
}
