package gamify

import (
	"context"
	"fmt"
	"net/mail"
	"time"

	"github.com/devanshuyeole/college-event-hub/core"
	"github.com/devanshuyeole/college-event-hub/core/user"
)

// Point awards and badge thresholds are caller policy; the engine itself is
// threshold-agnostic.
const (
	PointsEventRegistration = 10
	PointsFeedback          = 5

	BadgeFeedbackChampion     = "Feedback Champion"
	BadgeFeedbackChampionDesc = "Provided feedback for 5 events"
	FeedbackChampionCount     = 5

	BadgeFeedbackLegend     = "Feedback Legend"
	BadgeFeedbackLegendDesc = "Provided feedback for 10 events"
	FeedbackLegendCount     = 10
)

type (
	// UserRepository is the slice of the user store the engine mutates.
	UserRepository interface {
		GetUserByID(ctx context.Context, id string) (user.User, error)
		AddUserPoints(ctx context.Context, id string, points int) error
		SetUserBadges(ctx context.Context, id string, badges user.BadgeList) error
	}

	// Notifier enqueues an in-app notification.
	Notifier interface {
		Notify(ctx context.Context, userID string, eventID *string, title, message, typ string) error
	}

	Engine struct {
		users    UserRepository
		notifier Notifier
		mail     core.EmailService
		log      core.Logger
	}
)

func NewEngine(users UserRepository, notifier Notifier, mailSvc core.EmailService, log core.Logger) *Engine {
	return &Engine{users: users, notifier: notifier, mail: mailSvc, log: log}
}

// AwardPoints increments the user's point total. It never fails the parent
// request: errors are logged and swallowed.
func (e *Engine) AwardPoints(ctx context.Context, userID string, points int, reason string) {
	if err := e.users.AddUserPoints(ctx, userID, points); err != nil {
		e.log.Error(fmt.Sprintf("awarding %d points to user %s for %s", points, userID, reason), err)
		return
	}
	e.log.Debug(fmt.Sprintf("awarded %d points to user %s for: %s", points, userID, reason))
}

// AwardBadge appends the named badge to the user's badge list once. When the
// badge is newly earned the user is notified in-app and, best-effort, by email.
// Like AwardPoints it never fails the parent request.
func (e *Engine) AwardBadge(ctx context.Context, userID, name, description string) {
	usr, err := e.users.GetUserByID(ctx, userID)
	if err != nil {
		e.log.Error(fmt.Sprintf("awarding badge %q to user %s", name, userID), err)
		return
	}
	if usr.Badges.Has(name) {
		return
	}

	badges := append(usr.Badges, user.Badge{
		Name:        name,
		Description: description,
		EarnedAt:    time.Now().UTC(),
	})
	if err := e.users.SetUserBadges(ctx, userID, badges); err != nil {
		e.log.Error(fmt.Sprintf("persisting badge %q for user %s", name, userID), err)
		return
	}

	message := fmt.Sprintf("You've earned the %q badge!", name)
	if err := e.notifier.Notify(ctx, userID, nil, "New Badge Earned!", message, "badge_earned"); err != nil {
		e.log.Error(fmt.Sprintf("notifying user %s of badge %q", userID, name), err)
	}
	if e.mail != nil {
		e.mail.SendMessages(&core.EmailMessage{
			To:      []mail.Address{{Name: usr.Name, Address: usr.Email}},
			Subject: "New Badge Earned!",
			Body:    fmt.Sprintf("Hi %s,\n\n%s %s\n", usr.Name, message, description),
		})
	}
}
