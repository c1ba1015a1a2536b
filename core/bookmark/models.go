package bookmark

import (
	"time"

	"github.com/devanshuyeole/college-event-hub/core"
	"github.com/devanshuyeole/college-event-hub/core/event"
)

type Bookmark struct {
	UserID    string    `json:"user_id" db:"user_id"`
	EventID   string    `json:"event_id" db:"event_id"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

// ToggleRequest flips a bookmark on or off for the requesting user.
type ToggleRequest struct {
	EventID string `json:"event_id" validate:"required"`
}

func (tr *ToggleRequest) Validate() error {
	return core.Validate.Struct(tr)
}

// ToggleResult reports the bookmark state after a toggle.
type ToggleResult struct {
	Bookmarked bool `json:"bookmarked"`
}

// BookmarkedEvent is an event joined with when the user bookmarked it.
type BookmarkedEvent struct {
	event.Event
	BookmarkedAt time.Time `json:"bookmarked_at" db:"bookmarked_at"`
}
