package notification

import (
	"time"

	"github.com/devanshuyeole/college-event-hub/core"
)

// Types attached to notifications; free-form beyond these well-known values.
const (
	TypeGeneral     = "general"
	TypeNewEvent    = "new_event"
	TypeBadgeEarned = "badge_earned"
)

type Notification struct {
	ID        string    `json:"id" db:"id"`
	UserID    string    `json:"user_id" db:"user_id"`
	EventID   *string   `json:"event_id" db:"event_id"`
	Title     string    `json:"title" db:"title"`
	Message   string    `json:"message" db:"message"`
	Type      string    `json:"type" db:"type"`
	Read      bool      `json:"read_status" db:"read_status"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`

	// EventTitle is joined in on retrieval when EventID is set.
	EventTitle *string `json:"event_title" db:"event_title"`
}

// NewBroadcast is an admin fan-out to every student.
type NewBroadcast struct {
	Title   string `json:"title" validate:"required,max=255"`
	Message string `json:"message" validate:"required,max=2000"`
	Type    string `json:"type" validate:"omitempty,max=50"`
}

func (nb *NewBroadcast) Validate() error {
	nb.Title = core.CleanString(nb.Title)
	nb.Message = core.CleanString(nb.Message)
	if nb.Type == "" {
		nb.Type = TypeGeneral
	}
	return core.Validate.Struct(nb)
}

// BroadcastResult reports per-recipient outcomes of a broadcast.
type BroadcastResult struct {
	Sent   int `json:"success"`
	Failed int `json:"failed"`
	Total  int `json:"total"`
}
