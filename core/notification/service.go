package notification

import (
	"context"
	"time"

	"github.com/pkg/errors"

	"github.com/devanshuyeole/college-event-hub/core"
	"github.com/devanshuyeole/college-event-hub/core/user"
)

var (
	ErrNotFound   = errors.New("notification not found")
	ErrNoStudents = errors.New("no students found to notify")
	ErrForbidden  = errors.New("not allowed to manage this notification")
)

// retrievalLimit caps per-user retrieval at the 50 most recent rows.
const retrievalLimit = 50

type (
	Repository interface {
		CreateNotification(ctx context.Context, n Notification) (Notification, error)
		// QueryUserNotifications returns the newest rows first, left-joined
		// with the referenced event's title.
		QueryUserNotifications(ctx context.Context, userID string, limit int) ([]Notification, error)
		GetNotificationByID(ctx context.Context, id string) (Notification, error)
		CountUnread(ctx context.Context, userID string) (int, error)
		MarkNotificationRead(ctx context.Context, id string) error
		MarkAllRead(ctx context.Context, userID string) error
		DeleteNotification(ctx context.Context, id string) error
		// QueryStudentIDs enumerates every user with the student role.
		QueryStudentIDs(ctx context.Context) ([]string, error)
	}

	Service struct {
		repo Repository
		log  core.Logger
	}
)

func NewService(repo Repository, log core.Logger) *Service {
	return &Service{repo: repo, log: log}
}

// Notify inserts one unread notification row.
func (svc *Service) Notify(ctx context.Context, userID string, eventID *string, title, message, typ string) error {
	n := Notification{
		UserID:    userID,
		EventID:   eventID,
		Title:     title,
		Message:   message,
		Type:      typ,
		CreatedAt: time.Now().UTC(),
	}
	if _, err := svc.repo.CreateNotification(ctx, n); err != nil {
		return errors.Wrap(err, "inserting notification")
	}
	return nil
}

// Broadcast notifies every student sequentially. Per-recipient failures are
// isolated: they are counted and logged but do not abort the batch.
func (svc *Service) Broadcast(ctx context.Context, nb NewBroadcast) (BroadcastResult, error) {
	studentIDs, err := svc.repo.QueryStudentIDs(ctx)
	if err != nil {
		return BroadcastResult{}, errors.Wrap(err, "querying students")
	}
	if len(studentIDs) == 0 {
		return BroadcastResult{}, ErrNoStudents
	}

	res := BroadcastResult{Total: len(studentIDs)}
	for _, id := range studentIDs {
		if err := svc.Notify(ctx, id, nil, nb.Title, nb.Message, nb.Type); err != nil {
			svc.log.Error("broadcasting to user "+id, err)
			res.Failed++
			continue
		}
		res.Sent++
	}
	return res, nil
}

func (svc *Service) QueryForUser(ctx context.Context, userID string) ([]Notification, error) {
	return svc.repo.QueryUserNotifications(ctx, userID, retrievalLimit)
}

func (svc *Service) UnreadCount(ctx context.Context, userID string) (int, error) {
	return svc.repo.CountUnread(ctx, userID)
}

func (svc *Service) MarkAllRead(ctx context.Context, userID string) error {
	return svc.repo.MarkAllRead(ctx, userID)
}

// MarkRead flips a single notification to read. Requires resource ownership
// or the super admin role.
func (svc *Service) MarkRead(ctx context.Context, id, actorID, actorRole string) error {
	n, err := svc.repo.GetNotificationByID(ctx, id)
	if err != nil {
		return err
	}
	if n.UserID != actorID && actorRole != user.RoleSuperAdmin {
		return ErrForbidden
	}
	return svc.repo.MarkNotificationRead(ctx, id)
}

// Delete removes a notification. Same ownership rule as MarkRead.
func (svc *Service) Delete(ctx context.Context, id, actorID, actorRole string) error {
	n, err := svc.repo.GetNotificationByID(ctx, id)
	if err != nil {
		return err
	}
	if n.UserID != actorID && actorRole != user.RoleSuperAdmin {
		return ErrForbidden
	}
	return svc.repo.DeleteNotification(ctx, id)
}
