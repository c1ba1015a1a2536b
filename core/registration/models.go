package registration

import (
	"time"

	"github.com/devanshuyeole/college-event-hub/core"
)

// Statuses. A registration starts pending and moves to approved or rejected
// exactly once; it never reverses automatically.
const (
	StatusPending  = "pending"
	StatusApproved = "approved"
	StatusRejected = "rejected"
)

type Registration struct {
	ID        string    `json:"id" db:"id"`
	EventID   string    `json:"event_id" db:"event_id"`
	UserID    string    `json:"user_id" db:"user_id"`
	Status    string    `json:"status" db:"status"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

// NewRegistration is a student's request to register for an event.
type NewRegistration struct {
	EventID string `json:"event_id" validate:"required"`
}

func (nr *NewRegistration) Validate() error {
	return core.Validate.Struct(nr)
}

// UpdateStatus is an admin decision on a pending registration.
type UpdateStatus struct {
	Status string `json:"status" validate:"required,oneof=approved rejected"`
}

func (us *UpdateStatus) Validate() error {
	us.Status = core.CleanString(us.Status, true /* lower */)
	return core.Validate.Struct(us)
}

// EventRegistrationRow lists an event's registrants for admins.
type EventRegistrationRow struct {
	ID          string    `json:"id" db:"id"`
	StudentName string    `json:"student_name" db:"student_name"`
	Email       string    `json:"email" db:"email"`
	Status      string    `json:"status" db:"status"`
	Timestamp   time.Time `json:"timestamp" db:"timestamp"`
}

// UserRegistrationRow lists a student's own registrations.
type UserRegistrationRow struct {
	ID        string    `json:"id" db:"id"`
	Title     string    `json:"title" db:"title"`
	Location  string    `json:"location" db:"location"`
	Status    string    `json:"status" db:"status"`
	Timestamp time.Time `json:"timestamp" db:"timestamp"`
}
