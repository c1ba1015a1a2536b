package echoapi

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log"
	"net/http"
	"net/http/httptest"
	"net/mail"
	"reflect"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

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
	dummydb "github.com/devanshuyeole/college-event-hub/storage/database/dummy"
)

var errMissingToken = httpErr{Error: "missing or malformed jwt"}

type httpErr struct {
	Error string `json:"error"`
}

type httpTest struct {
	name     string
	method   string
	path     string
	body     []byte
	token    string
	wantCode int
	wantData []byte
	extra    interface{}
}

func testConfig(t *testing.T) *core.Config {
	return &core.Config{
		Debug:                false,
		TestMode:             true,
		Env:                  "TEST",
		AppName:              "College Event Hub",
		SecretKey:            []byte("test-secret"),
		SuperAdminAuthCode:   "super-code",
		CollegeAdminAuthCode: "college-code",
		FrontendBaseURL:      "http://localhost:3001",
		DefaultFromEmail:     mail.Address{Address: "noreply@localhost"},
		UploadsDir:           t.TempDir(),
		Server: core.ServerConfig{
			Host:               "localhost",
			Port:               8080,
			JWTExpirationDelta: 10 * time.Minute,
			RateLimitRequests:  10000,
			RateLimitWindow:    time.Minute,
		},
	}
}

type testApp struct {
	server Server
	db     *dummydb.DB

	usrRepo user.Repository

	usrSvc   *user.Service
	evtSvc   *event.Service
	regSvc   *registration.Service
	fbSvc    *feedback.Service
	notifSvc *notification.Service
	bmSvc    *bookmark.Service
}

func initApp(t *testing.T) *testApp {
	conf := testConfig(t)
	logger := logsvc.NewConsoleLogger(log.New(io.Discard, "", 0))
	mailSvc := emailsvc.NewConsoleServiceMock(conf)

	db, err := dummydb.Open()
	if err != nil {
		t.Fatalf("initApp() failed: %v", err)
	}

	usrRepo := dummydb.NewUserRepository(db)
	usrSvc := user.NewService(usrRepo, conf, mailSvc, logger)
	evtSvc := event.NewService(dummydb.NewEventRepository(db), logger)
	notifSvc := notification.NewService(dummydb.NewNotificationRepository(db), logger)
	engine := gamify.NewEngine(usrRepo, notifSvc, mailSvc, logger)
	regSvc := registration.NewService(dummydb.NewRegistrationRepository(db), evtSvc, engine)
	fbSvc := feedback.NewService(dummydb.NewFeedbackRepository(db), evtSvc, engine)
	bmSvc := bookmark.NewService(dummydb.NewBookmarkRepository(db), evtSvc)

	server := NewServer(&Options{
		Conf:           conf,
		Logger:         logger,
		DisableReqLogs: true,

		UserSvc:         usrSvc,
		EventSvc:        evtSvc,
		RegistrationSvc: regSvc,
		FeedbackSvc:     fbSvc,
		NotificationSvc: notifSvc,
		BookmarkSvc:     bmSvc,
	})

	return &testApp{
		server:   server,
		db:       db,
		usrRepo:  usrRepo,
		usrSvc:   usrSvc,
		evtSvc:   evtSvc,
		regSvc:   regSvc,
		fbSvc:    fbSvc,
		notifSvc: notifSvc,
		bmSvc:    bmSvc,
	}
}

func newAuthRequest(method, path, token string, data ...[]byte) (*http.Request, *httptest.ResponseRecorder) {
	var body bytes.Buffer
	if len(data) > 0 {
		body.Write(data[0])
	}
	req := httptest.NewRequest(method, path, &body)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	return req, rec
}

func newRequest(method, path string, data ...[]byte) (*http.Request, *httptest.ResponseRecorder) {
	return newAuthRequest(method, path, "", data...)
}

func getToken(t *testing.T, usr user.User) string {
	claims := GetUserClaims(usr)
	token, err := GenerateToken(claims)
	if err != nil {
		t.Fatalf("getToken() failed: %v", err)
	}
	return token
}

func createUser(t *testing.T, app *testApp, name, email, college, role string) user.User {
	now := time.Now().UTC()
	usr := user.User{
		Name:      name,
		Email:     email,
		College:   college,
		Role:      role,
		Badges:    user.BadgeList{},
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := usr.SetPassword("Sekr3t!pwd"); err != nil {
		t.Fatalf("createUser() failed: %v", err)
	}
	usr, err := app.usrRepo.CreateUser(context.TODO(), usr)
	if err != nil {
		t.Fatalf("createUser() failed: %v", err)
	}
	return usr
}

func createEvent(t *testing.T, app *testApp, collegeID, title, category string, start time.Time) event.Event {
	evt, err := app.evtSvc.Create(context.TODO(), collegeID, event.NewEvent{
		Title:     title,
		Category:  category,
		Location:  "Main Hall",
		StartDate: start,
		EndDate:   start.Add(4 * time.Hour),
	})
	if err != nil {
		t.Fatalf("createEvent() failed: %v", err)
	}
	return evt
}

func marshallObj(t *testing.T, obj interface{}) []byte {
	data, err := json.Marshal(obj)
	if err != nil {
		t.Fatalf("marshallObj() failed: %v", err)
	}
	return data
}

func jsonBytesEqual(t *testing.T, b1, b2 []byte) (bool, error) {
	var j1, j2 interface{}
	if err := json.Unmarshal(b1, &j1); err != nil {
		return false, err
	}
	if err := json.Unmarshal(b2, &j2); err != nil {
		return false, err
	}
	if reflect.DeepEqual(j1, j2) {
		return true, nil
	}
	return assert.ElementsMatch(t, j1, j2), nil
}

func checkCodeAndData(t *testing.T, tt httpTest, rec *httptest.ResponseRecorder) {
	if rec.Code != tt.wantCode {
		t.Errorf("failed! code = %v; wantCode %v", rec.Code, tt.wantCode)
	}
	if tt.wantData == nil {
		return
	}
	ok, err := jsonBytesEqual(t, rec.Body.Bytes(), tt.wantData)
	if err != nil {
		t.Errorf("jsonBytesEqual() failed to compare; err %v", err)
	}
	if !ok {
		t.Errorf("failed! data = %v; wantData %v", rec.Body.String(), string(tt.wantData))
	}
}
