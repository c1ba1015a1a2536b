package echoapi

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/devanshuyeole/college-event-hub/core/gamify"
	"github.com/devanshuyeole/college-event-hub/core/registration"
	"github.com/devanshuyeole/college-event-hub/core/user"
)

func Test_registrationApi_create(t *testing.T) {
	app := initApp(t)
	student := createUser(t, app, "Jane Doe", "jane@uni.edu", "State University", user.RoleStudent)
	admin := createUser(t, app, "College Admin", "cadmin@uni.edu", "State University", user.RoleCollegeAdmin)
	evt := createEvent(t, app, admin.ID, "Tech Fest", "Hackathon", time.Now().UTC().Add(48*time.Hour))

	studentToken := getToken(t, student)
	body := []byte(fmt.Sprintf(`{"event_id":%q}`, evt.ID))

	t.Run("admin forbidden", func(t *testing.T) {
		req, rec := newAuthRequest(http.MethodPost, "/registrations", getToken(t, admin), body)
		app.server.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusForbidden, rec.Code)
	})

	t.Run("unknown event", func(t *testing.T) {
		req, rec := newAuthRequest(http.MethodPost, "/registrations", studentToken, []byte(`{"event_id":"999999"}`))
		app.server.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})

	t.Run("ok: pending, count bumped, points awarded", func(t *testing.T) {
		req, rec := newAuthRequest(http.MethodPost, "/registrations", studentToken, body)
		app.server.ServeHTTP(rec, req)
		require.Equal(t, http.StatusCreated, rec.Code)

		var reg registration.Registration
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &reg))
		assert.Equal(t, registration.StatusPending, reg.Status)
		assert.Equal(t, student.ID, reg.UserID)

		ctx := context.TODO()
		got, err := app.evtSvc.GetByID(ctx, evt.ID)
		require.NoError(t, err)
		assert.Equal(t, 1, got.RegistrationCount)

		usr, err := app.usrRepo.GetUserByID(ctx, student.ID)
		require.NoError(t, err)
		assert.Equal(t, gamify.PointsEventRegistration, usr.Points)
	})

	t.Run("duplicate conflicts, count unchanged", func(t *testing.T) {
		req, rec := newAuthRequest(http.MethodPost, "/registrations", studentToken, body)
		app.server.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusConflict, rec.Code)

		got, err := app.evtSvc.GetByID(context.TODO(), evt.ID)
		require.NoError(t, err)
		assert.Equal(t, 1, got.RegistrationCount)
	})
}

func Test_registrationApi_status(t *testing.T) {
	app := initApp(t)
	student := createUser(t, app, "Jane Doe", "jane@uni.edu", "State University", user.RoleStudent)
	admin := createUser(t, app, "College Admin", "cadmin@uni.edu", "State University", user.RoleCollegeAdmin)
	evt := createEvent(t, app, admin.ID, "Tech Fest", "Hackathon", time.Now().UTC().Add(48*time.Hour))

	reg, err := app.regSvc.Register(context.TODO(), student.ID, evt.ID)
	require.NoError(t, err)

	adminToken := getToken(t, admin)
	approve := []byte(`{"status":"approved"}`)

	tests := []httpTest{
		{name: "student forbidden", path: "/registrations/" + reg.ID, token: getToken(t, student), body: approve, wantCode: http.StatusForbidden},
		{name: "invalid status", path: "/registrations/" + reg.ID, token: adminToken, body: []byte(`{"status":"maybe"}`), wantCode: http.StatusBadRequest},
		{name: "unknown registration", path: "/registrations/999999", token: adminToken, body: approve, wantCode: http.StatusNotFound},
		{name: "approve pending", path: "/registrations/" + reg.ID, token: adminToken, body: approve, wantCode: http.StatusOK},
		{name: "already decided", path: "/registrations/" + reg.ID, token: adminToken, body: []byte(`{"status":"rejected"}`), wantCode: http.StatusConflict},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, rec := newAuthRequest(http.MethodPut, tt.path, tt.token, tt.body)
			app.server.ServeHTTP(rec, req)
			checkCodeAndData(t, tt, rec)
		})
	}

	t.Run("decision stuck at approved", func(t *testing.T) {
		rows, err := app.regSvc.QueryByUser(context.TODO(), student.ID)
		require.NoError(t, err)
		require.Len(t, rows, 1)
		assert.Equal(t, registration.StatusApproved, rows[0].Status)
	})
}

func Test_registrationApi_listings(t *testing.T) {
	app := initApp(t)
	alice := createUser(t, app, "Alice One", "alice@uni.edu", "State University", user.RoleStudent)
	bob := createUser(t, app, "Bob Two", "bob@uni.edu", "State University", user.RoleStudent)
	super := createUser(t, app, "Super Admin", "root@uni.edu", "State University", user.RoleSuperAdmin)
	evt := createEvent(t, app, super.ID, "Tech Fest", "Hackathon", time.Now().UTC().Add(48*time.Hour))

	ctx := context.TODO()
	_, err := app.regSvc.Register(ctx, alice.ID, evt.ID)
	require.NoError(t, err)
	_, err = app.regSvc.Register(ctx, bob.ID, evt.ID)
	require.NoError(t, err)

	t.Run("event listing is admin only", func(t *testing.T) {
		req, rec := newAuthRequest(http.MethodGet, "/registrations/event/"+evt.ID, getToken(t, alice))
		app.server.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusForbidden, rec.Code)
	})

	t.Run("event listing joins student details", func(t *testing.T) {
		req, rec := newAuthRequest(http.MethodGet, "/registrations/event/"+evt.ID, getToken(t, super))
		app.server.ServeHTTP(rec, req)
		require.Equal(t, http.StatusOK, rec.Code)

		var rows []registration.EventRegistrationRow
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &rows))
		require.Len(t, rows, 2)
		names := []string{rows[0].StudentName, rows[1].StudentName}
		assert.ElementsMatch(t, []string{alice.Name, bob.Name}, names)
	})

	t.Run("user listing: own registrations", func(t *testing.T) {
		req, rec := newAuthRequest(http.MethodGet, "/registrations/user/"+alice.ID, getToken(t, alice))
		app.server.ServeHTTP(rec, req)
		require.Equal(t, http.StatusOK, rec.Code)

		var rows []registration.UserRegistrationRow
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &rows))
		require.Len(t, rows, 1)
		assert.Equal(t, evt.Title, rows[0].Title)
	})

	t.Run("user listing: someone else's forbidden", func(t *testing.T) {
		req, rec := newAuthRequest(http.MethodGet, "/registrations/user/"+alice.ID, getToken(t, bob))
		app.server.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusForbidden, rec.Code)
	})

	t.Run("user listing: super admin can view anyone", func(t *testing.T) {
		req, rec := newAuthRequest(http.MethodGet, "/registrations/user/"+alice.ID, getToken(t, super))
		app.server.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusOK, rec.Code)
	})
}
