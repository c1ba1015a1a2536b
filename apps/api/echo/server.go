package echoapi

import (
	"context"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/labstack/gommon/log"
	"golang.org/x/time/rate"

	"github.com/devanshuyeole/college-event-hub/core"
	"github.com/devanshuyeole/college-event-hub/core/bookmark"
	"github.com/devanshuyeole/college-event-hub/core/event"
	"github.com/devanshuyeole/college-event-hub/core/feedback"
	"github.com/devanshuyeole/college-event-hub/core/notification"
	"github.com/devanshuyeole/college-event-hub/core/registration"
	"github.com/devanshuyeole/college-event-hub/core/user"
)

type (
	Options struct {
		Conf           *core.Config
		Logger         core.Logger
		DisableReqLogs bool

		UserSvc         *user.Service
		EventSvc        *event.Service
		RegistrationSvc *registration.Service
		FeedbackSvc     *feedback.Service
		NotificationSvc *notification.Service
		BookmarkSvc     *bookmark.Service
	}

	Server interface {
		http.Handler
		Start()
		Stop(context.Context) error
		// ShutdownSignal receives a value when a shutdown error is caught.
		ShutdownSignal() <-chan struct{}
	}

	server struct {
		opts     *Options
		app      *echo.Echo
		shutdown chan struct{}
	}
)

var _ Server = (*server)(nil)

func NewServer(opts *Options) Server {
	s := &server{
		opts:     opts,
		app:      echo.New(),
		shutdown: make(chan struct{}, 1),
	}
	configureAuth(opts.Conf)
	s.setup()
	return s
}

func (s *server) setup() {
	conf := s.opts.Conf

	s.app.Pre(middleware.RemoveTrailingSlash())
	if !s.opts.DisableReqLogs {
		s.app.Use(middleware.Logger())
	}
	// do not recover in DEV|TEST mode
	if !(conf.Debug || conf.TestMode) {
		s.app.Use(middleware.RecoverWithConfig(middleware.RecoverConfig{LogLevel: log.ERROR}))
	}
	s.app.Use(middleware.RateLimiterWithConfig(middleware.RateLimiterConfig{
		Skipper: middleware.DefaultSkipper,
		Store: middleware.NewRateLimiterMemoryStoreWithConfig(middleware.RateLimiterMemoryStoreConfig{
			Rate:      rate.Limit(float64(conf.Server.RateLimitRequests) / conf.Server.RateLimitWindow.Seconds()),
			Burst:     conf.Server.RateLimitRequests,
			ExpiresIn: conf.Server.RateLimitWindow,
		}),
	}))

	s.app.HTTPErrorHandler = newAppHTTPErrorHandler(s.opts.Logger, s.signalShutdown)
	s.app.Debug = conf.Debug

	s.app.GET("/", home)
	s.app.Static("/uploads", conf.UploadsDir)

	g := s.app.Group("")
	jwt := middleware.JWTWithConfig(appJWTConfig)

	registerUserAPI(g, jwt, s.opts.UserSvc, conf)
	registerEventAPI(g, jwt, s.opts.EventSvc, conf)
	registerRegistrationAPI(g, jwt, s.opts.RegistrationSvc)
	registerFeedbackAPI(g, jwt, s.opts.FeedbackSvc)
	registerNotificationAPI(g, jwt, s.opts.NotificationSvc)
	registerBookmarkAPI(g, jwt, s.opts.BookmarkSvc)
}

// signalShutdown lets the error handler request a graceful stop.
func (s *server) signalShutdown() {
	select {
	case s.shutdown <- struct{}{}:
	default:
	}
}

func (s *server) ShutdownSignal() <-chan struct{} {
	return s.shutdown
}

func (s *server) Start() {
	s.app.Logger.Fatal(s.app.Start(s.opts.Conf.Server.Address()))
}

func (s *server) Stop(ctx context.Context) error {
	return s.app.Shutdown(ctx)
}

func (s *server) ServeHTTP(w http.ResponseWriter, r *http.Request) { // for tests
	s.app.ServeHTTP(w, r)
}

func home(ctx echo.Context) error {
	return ctx.String(http.StatusOK, "Welcome to the College Event Hub API!")
}
