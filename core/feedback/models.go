package feedback

import (
	"time"

	"github.com/devanshuyeole/college-event-hub/core"
)

type Feedback struct {
	ID        string    `json:"id" db:"id"`
	EventID   string    `json:"event_id" db:"event_id"`
	UserID    string    `json:"user_id" db:"user_id"`
	Rating    int       `json:"rating" db:"rating"`
	Comments  string    `json:"comments" db:"comments"`
	CreatedAt time.Time `json:"timestamp" db:"created_at"`
}

// NewFeedback is a student's one-shot rating of an event.
type NewFeedback struct {
	EventID  string `json:"event_id" validate:"required"`
	Rating   int    `json:"rating" validate:"required,min=1,max=5"`
	Comments string `json:"comments" validate:"omitempty,max=2000"`
}

func (nf *NewFeedback) Validate() error {
	nf.Comments = core.CleanString(nf.Comments)
	return core.Validate.Struct(nf)
}

// EventFeedbackRow is one feedback entry joined with its author's name.
type EventFeedbackRow struct {
	ID          string    `json:"id" db:"id"`
	StudentName string    `json:"student_name" db:"student_name"`
	Rating      int       `json:"rating" db:"rating"`
	Comments    string    `json:"comments" db:"comments"`
	Timestamp   time.Time `json:"timestamp" db:"created_at"`
}

// EventStats aggregates one event's feedback.
type EventStats struct {
	TotalFeedback   int     `json:"total_feedback" db:"total_feedback"`
	AverageRating   float64 `json:"average_rating" db:"average_rating"`
	PositiveRatings int     `json:"positive_ratings" db:"positive_ratings"`
}

// EventFeedback is the per-event retrieval payload.
type EventFeedback struct {
	Feedback []EventFeedbackRow `json:"feedback"`
	Stats    EventStats         `json:"stats"`
}

// Analytics is the admin dashboard aggregate.
type Analytics struct {
	Overall struct {
		EventsWithFeedback int     `json:"events_with_feedback" db:"events_with_feedback"`
		AverageRating      float64 `json:"average_rating" db:"average_rating"`
		TotalFeedback      int     `json:"total_feedback" db:"total_feedback"`
	} `json:"overall"`
	RatingDistribution []RatingBucket `json:"rating_distribution"`
	TopEvents          []TopEventRow  `json:"top_events"`
	RecentFeedback     []RecentRow    `json:"recent_feedback"`
}

type RatingBucket struct {
	Rating int `json:"rating" db:"rating"`
	Count  int `json:"count" db:"count"`
}

type TopEventRow struct {
	Title         string  `json:"title" db:"title"`
	Category      string  `json:"category" db:"category"`
	FeedbackCount int     `json:"feedback_count" db:"feedback_count"`
	AverageRating float64 `json:"average_rating" db:"average_rating"`
}

type RecentRow struct {
	EventTitle  string    `json:"event_title" db:"event_title"`
	StudentName string    `json:"student_name" db:"student_name"`
	Rating      int       `json:"rating" db:"rating"`
	Comments    string    `json:"comments" db:"comments"`
	Timestamp   time.Time `json:"timestamp" db:"created_at"`
}
