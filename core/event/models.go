package event

import (
	"time"

	"github.com/devanshuyeole/college-event-hub/core"
)

type Event struct {
	ID          string    `json:"id" db:"id"`
	CollegeID   string    `json:"college_id" db:"college_id"`
	Title       string    `json:"title" db:"title"`
	Description string    `json:"description" db:"description"`
	Category    string    `json:"category" db:"category"`
	Location    string    `json:"location" db:"location"`
	StartDate   time.Time `json:"start_date" db:"start_date"` // UTC
	EndDate     time.Time `json:"end_date" db:"end_date"`     // UTC
	ImageURL    string    `json:"image_url" db:"image_url"`
	CreatedAt   time.Time `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time `json:"updated_at" db:"updated_at"`

	// list annotations
	RegistrationCount int      `json:"registration_count" db:"registration_count"`
	AvgRating         *float64 `json:"avg_rating" db:"avg_rating"`
	FeedbackCount     int      `json:"feedback_count" db:"feedback_count"`
}

// NewEvent contains information needed to create a new Event.
type NewEvent struct {
	Title       string    `json:"title" validate:"required,max=255"`
	Description string    `json:"description"`
	Category    string    `json:"category" validate:"required,max=100"`
	Location    string    `json:"location" validate:"required,max=255"`
	StartDate   time.Time `json:"start_date" validate:"required"`
	EndDate     time.Time `json:"end_date" validate:"required,gtefield=StartDate"`
	ImageURL    string    `json:"-"`
}

func (ne *NewEvent) Validate() error {
	ne.Title = core.CleanString(ne.Title)
	ne.Category = core.CleanString(ne.Category)
	ne.Location = core.CleanString(ne.Location)
	return core.Validate.Struct(ne)
}

// UpdateEvent carries the mutable fields of an Event.
type UpdateEvent struct {
	Title       string    `json:"title" validate:"required,max=255"`
	Description string    `json:"description"`
	Category    string    `json:"category" validate:"required,max=100"`
	Location    string    `json:"location" validate:"required,max=255"`
	StartDate   time.Time `json:"start_date" validate:"required"`
	EndDate     time.Time `json:"end_date" validate:"required,gtefield=StartDate"`
}

func (ue *UpdateEvent) Validate() error {
	ue.Title = core.CleanString(ue.Title)
	ue.Category = core.CleanString(ue.Category)
	ue.Location = core.CleanString(ue.Location)
	return core.Validate.Struct(ue)
}

// NewComment is a student comment on an event.
type NewComment struct {
	EventID string `json:"event_id" validate:"required"`
	Comment string `json:"comment" validate:"required,max=1000"`
}

func (nc *NewComment) Validate() error {
	nc.Comment = core.CleanString(nc.Comment)
	return core.Validate.Struct(nc)
}

// CommentRow is a comment joined with its author's name.
type CommentRow struct {
	ID        string    `json:"id" db:"id"`
	Name      string    `json:"name" db:"name"`
	Comment   string    `json:"comment" db:"comment"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

// Activity types recorded for the recommendation signal.
const (
	ActivityRegister = "register"
	ActivityBookmark = "bookmark"
)
