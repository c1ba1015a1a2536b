package gamify_test

import (
	"context"
	"io"
	"log"
	"net/mail"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/devanshuyeole/college-event-hub/core"
	"github.com/devanshuyeole/college-event-hub/core/gamify"
	"github.com/devanshuyeole/college-event-hub/core/notification"
	"github.com/devanshuyeole/college-event-hub/core/user"
	emailsvc "github.com/devanshuyeole/college-event-hub/services/email"
	logsvc "github.com/devanshuyeole/college-event-hub/services/logger"
	dummydb "github.com/devanshuyeole/college-event-hub/storage/database/dummy"
)

type engineEnv struct {
	engine   *gamify.Engine
	usrRepo  user.Repository
	notifSvc *notification.Service
}

func newEngineEnv(t *testing.T) *engineEnv {
	t.Helper()
	db, err := dummydb.Open()
	require.NoError(t, err)

	logger := logsvc.NewConsoleLogger(log.New(io.Discard, "", 0))
	usrRepo := dummydb.NewUserRepository(db)
	notifSvc := notification.NewService(dummydb.NewNotificationRepository(db), logger)
	mailSvc := emailsvc.NewConsoleServiceMock(&core.Config{
		AppName:          "Test",
		DefaultFromEmail: mail.Address{Name: "Test", Address: "noreply@test.local"},
	})
	return &engineEnv{
		engine:   gamify.NewEngine(usrRepo, notifSvc, mailSvc, logger),
		usrRepo:  usrRepo,
		notifSvc: notifSvc,
	}
}

func (env *engineEnv) createStudent(t *testing.T) user.User {
	t.Helper()
	now := time.Now().UTC()
	usr := user.User{
		Name:      "Jane Doe",
		Email:     "jane@uni.edu",
		College:   "State University",
		Role:      user.RoleStudent,
		CreatedAt: now,
		UpdatedAt: now,
	}
	usr, err := env.usrRepo.CreateUser(context.TODO(), usr)
	require.NoError(t, err)
	return usr
}

func TestEngine_AwardPoints(t *testing.T) {
	env := newEngineEnv(t)
	usr := env.createStudent(t)
	ctx := context.TODO()

	env.engine.AwardPoints(ctx, usr.ID, gamify.PointsEventRegistration, "Event registration")
	env.engine.AwardPoints(ctx, usr.ID, gamify.PointsFeedback, "Feedback submission")

	got, err := env.usrRepo.GetUserByID(ctx, usr.ID)
	require.NoError(t, err)
	assert.Equal(t, gamify.PointsEventRegistration+gamify.PointsFeedback, got.Points)

	// a bad user ID must not panic or leak an error to the caller
	env.engine.AwardPoints(ctx, "999999", 10, "noop")
}

func TestEngine_AwardBadge(t *testing.T) {
	emailsvc.ClearSentMessages()
	env := newEngineEnv(t)
	usr := env.createStudent(t)
	ctx := context.TODO()

	env.engine.AwardBadge(ctx, usr.ID, gamify.BadgeFeedbackChampion, gamify.BadgeFeedbackChampionDesc)

	t.Run("badge persisted once", func(t *testing.T) {
		got, err := env.usrRepo.GetUserByID(ctx, usr.ID)
		require.NoError(t, err)
		require.Len(t, got.Badges, 1)
		assert.Equal(t, gamify.BadgeFeedbackChampion, got.Badges[0].Name)
		assert.Equal(t, gamify.BadgeFeedbackChampionDesc, got.Badges[0].Description)
		assert.False(t, got.Badges[0].EarnedAt.IsZero())
	})

	t.Run("in-app notification delivered", func(t *testing.T) {
		notifs, err := env.notifSvc.QueryForUser(ctx, usr.ID)
		require.NoError(t, err)
		require.Len(t, notifs, 1)
		assert.Equal(t, notification.TypeBadgeEarned, notifs[0].Type)
		assert.Contains(t, notifs[0].Message, gamify.BadgeFeedbackChampion)
	})

	t.Run("email sent to the user", func(t *testing.T) {
		require.Len(t, emailsvc.SentMessages, 1)
		msg := emailsvc.SentMessages[0]
		require.Len(t, msg.To, 1)
		assert.Equal(t, usr.Email, msg.To[0].Address)
		assert.Equal(t, "New Badge Earned!", msg.Subject)
	})

	t.Run("re-award is a no-op", func(t *testing.T) {
		env.engine.AwardBadge(ctx, usr.ID, gamify.BadgeFeedbackChampion, gamify.BadgeFeedbackChampionDesc)

		got, err := env.usrRepo.GetUserByID(ctx, usr.ID)
		require.NoError(t, err)
		assert.Len(t, got.Badges, 1)

		notifs, err := env.notifSvc.QueryForUser(ctx, usr.ID)
		require.NoError(t, err)
		assert.Len(t, notifs, 1)
		assert.Len(t, emailsvc.SentMessages, 1)
	})

	t.Run("distinct badges stack", func(t *testing.T) {
		env.engine.AwardBadge(ctx, usr.ID, gamify.BadgeFeedbackLegend, gamify.BadgeFeedbackLegendDesc)

		got, err := env.usrRepo.GetUserByID(ctx, usr.ID)
		require.NoError(t, err)
		assert.Len(t, got.Badges, 2)
	})
}
