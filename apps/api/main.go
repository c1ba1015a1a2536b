package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jmoiron/sqlx"

	echoapi "github.com/devanshuyeole/college-event-hub/apps/api/echo"
	"github.com/devanshuyeole/college-event-hub/core"
	"github.com/devanshuyeole/college-event-hub/core/bookmark"
	"github.com/devanshuyeole/college-event-hub/core/event"
	"github.com/devanshuyeole/college-event-hub/core/feedback"
	"github.com/devanshuyeole/college-event-hub/core/gamify"
	"github.com/devanshuyeole/college-event-hub/core/notification"
	"github.com/devanshuyeole/college-event-hub/core/registration"
	"github.com/devanshuyeole/college-event-hub/core/user"
	emailsvc "github.com/devanshuyeole/college-event-hub/services/email"
	logsvc "github.com/devanshuyeole/college-event-hub/services/logger"
	"github.com/devanshuyeole/college-event-hub/storage/database"
	sqlxrepos "github.com/devanshuyeole/college-event-hub/storage/database/sqlx"
)

func main() {
	// =========================================================================
	// Set up Dependencies

	conf, err := core.LoadConfig()
	if err != nil {
		log.Fatalf("loading config: %v", err)
	}

	logger := logsvc.NewRollbarLogger(
		log.New(os.Stdout, "API : ", log.LstdFlags|log.Lmicroseconds|log.Lshortfile),
		conf,
	)
	logger.Enable(!conf.Debug)

	db, err := setUpDB(conf)
	if err != nil {
		logger.Fatal(fmt.Sprintf("setting up database: %v", err), err)
	}
	defer func() {
		if err = db.Close(); err != nil {
			logger.Error("closing database", err)
		}
	}()

	// set up services
	var mailSvc core.EmailService
	if conf.Debug {
		mailSvc = emailsvc.NewConsoleService(conf)
	} else {
		mailSvc = emailsvc.NewSendgridService(conf, logger)
	}

	usrRepo := sqlxrepos.NewUserRepository(db)
	usrSvc := user.NewService(usrRepo, conf, mailSvc, logger)
	evtSvc := event.NewService(sqlxrepos.NewEventRepository(db), logger)
	notifSvc := notification.NewService(sqlxrepos.NewNotificationRepository(db), logger)
	engine := gamify.NewEngine(usrRepo, notifSvc, mailSvc, logger)
	regSvc := registration.NewService(sqlxrepos.NewRegistrationRepository(db), evtSvc, engine)
	fbSvc := feedback.NewService(sqlxrepos.NewFeedbackRepository(db), evtSvc, engine)
	bmSvc := bookmark.NewService(sqlxrepos.NewBookmarkRepository(db), evtSvc)

	// =========================================================================
	// Start API Service

	logger.Info(fmt.Sprintf("Application initializing : version %q", conf.Build))
	defer logger.Info("Application stopped")

	server := echoapi.NewServer(&echoapi.Options{
		Conf:   conf,
		Logger: logger,

		UserSvc:         usrSvc,
		EventSvc:        evtSvc,
		RegistrationSvc: regSvc,
		FeedbackSvc:     fbSvc,
		NotificationSvc: notifSvc,
		BookmarkSvc:     bmSvc,
	})

	go server.Start()

	// =========================================================================
	// Shutdown

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)

	select {
	case sig := <-quit:
		logger.Info(fmt.Sprintf("%v: Start shutdown...", sig))
	case <-server.ShutdownSignal():
		logger.Info("shutdown error: Start shutdown...")
	}

	// give outstanding requests a deadline for completion
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := server.Stop(ctx); err != nil {
		logger.Fatal(fmt.Sprintf("could not stop server gracefully: %v", err), err)
	}
}

func setUpDB(conf *core.Config) (*sqlx.DB, error) {
	db, err := database.Open(conf)
	if err != nil {
		return nil, err
	}
	if err = database.Ping(db); err != nil {
		return nil, err
	}
	if err = database.Migrate(db); err != nil {
		return nil, err
	}
	return db, nil
}
