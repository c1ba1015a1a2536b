package echoapi

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/devanshuyeole/college-event-hub/core/notification"
	"github.com/devanshuyeole/college-event-hub/core/user"
)

func Test_notificationApi_broadcast(t *testing.T) {
	t.Run("no students", func(t *testing.T) {
		app := initApp(t)
		admin := createUser(t, app, "College Admin", "cadmin@uni.edu", "State University", user.RoleCollegeAdmin)

		req, rec := newAuthRequest(http.MethodPost, "/notifications/broadcast", getToken(t, admin),
			[]byte(`{"title":"Hello","message":"Campus update"}`))
		app.server.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})

	t.Run("fan-out to every student", func(t *testing.T) {
		app := initApp(t)
		admin := createUser(t, app, "College Admin", "cadmin@uni.edu", "State University", user.RoleCollegeAdmin)
		alice := createUser(t, app, "Alice One", "alice@uni.edu", "State University", user.RoleStudent)
		bob := createUser(t, app, "Bob Two", "bob@uni.edu", "State University", user.RoleStudent)

		t.Run("student forbidden", func(t *testing.T) {
			req, rec := newAuthRequest(http.MethodPost, "/notifications/broadcast", getToken(t, alice),
				[]byte(`{"title":"Hello","message":"spam"}`))
			app.server.ServeHTTP(rec, req)
			assert.Equal(t, http.StatusForbidden, rec.Code)
		})

		t.Run("missing title", func(t *testing.T) {
			req, rec := newAuthRequest(http.MethodPost, "/notifications/broadcast", getToken(t, admin),
				[]byte(`{"message":"Campus update"}`))
			app.server.ServeHTTP(rec, req)
			assert.Equal(t, http.StatusBadRequest, rec.Code)
		})

		req, rec := newAuthRequest(http.MethodPost, "/notifications/broadcast", getToken(t, admin),
			[]byte(`{"title":"Hello","message":"Campus update"}`))
		app.server.ServeHTTP(rec, req)
		require.Equal(t, http.StatusOK, rec.Code)

		var res notification.BroadcastResult
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &res))
		assert.Equal(t, 2, res.Sent)
		assert.Equal(t, 0, res.Failed)
		assert.Equal(t, 2, res.Total)

		// admins are not recipients
		for _, usr := range []user.User{alice, bob} {
			req, rec := newAuthRequest(http.MethodGet, "/notifications/"+usr.ID, getToken(t, usr))
			app.server.ServeHTTP(rec, req)
			require.Equal(t, http.StatusOK, rec.Code)

			var rows []notification.Notification
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &rows))
			require.Len(t, rows, 1)
			assert.Equal(t, "Hello", rows[0].Title)
			assert.Equal(t, notification.TypeGeneral, rows[0].Type)
			assert.False(t, rows[0].Read)
		}

		req, rec = newAuthRequest(http.MethodGet, "/notifications/"+admin.ID, getToken(t, admin))
		app.server.ServeHTTP(rec, req)
		require.Equal(t, http.StatusOK, rec.Code)
		assert.JSONEq(t, "[]", rec.Body.String())
	})
}

func Test_notificationApi_readFlow(t *testing.T) {
	app := initApp(t)
	alice := createUser(t, app, "Alice One", "alice@uni.edu", "State University", user.RoleStudent)
	bob := createUser(t, app, "Bob Two", "bob@uni.edu", "State University", user.RoleStudent)
	super := createUser(t, app, "Super Admin", "root@uni.edu", "State University", user.RoleSuperAdmin)

	ctx := context.TODO()
	require.NoError(t, app.notifSvc.Notify(ctx, alice.ID, nil, "First", "one", notification.TypeGeneral))
	require.NoError(t, app.notifSvc.Notify(ctx, alice.ID, nil, "Second", "two", notification.TypeGeneral))

	aliceToken := getToken(t, alice)

	var rows []notification.Notification
	t.Run("list newest first", func(t *testing.T) {
		req, rec := newAuthRequest(http.MethodGet, "/notifications/"+alice.ID, aliceToken)
		app.server.ServeHTTP(rec, req)
		require.Equal(t, http.StatusOK, rec.Code)

		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &rows))
		require.Len(t, rows, 2)
		assert.Equal(t, "Second", rows[0].Title)
	})

	t.Run("other students cannot list", func(t *testing.T) {
		req, rec := newAuthRequest(http.MethodGet, "/notifications/"+alice.ID, getToken(t, bob))
		app.server.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusForbidden, rec.Code)
	})

	t.Run("unread count", func(t *testing.T) {
		req, rec := newAuthRequest(http.MethodGet, "/notifications/"+alice.ID+"/unread-count", aliceToken)
		app.server.ServeHTTP(rec, req)
		require.Equal(t, http.StatusOK, rec.Code)
		assert.JSONEq(t, `{"count":2}`, rec.Body.String())
	})

	t.Run("mark one read: not the owner", func(t *testing.T) {
		req, rec := newAuthRequest(http.MethodPut, "/notifications/"+rows[0].ID+"/read", getToken(t, bob))
		app.server.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusForbidden, rec.Code)
	})

	t.Run("mark one read: owner", func(t *testing.T) {
		req, rec := newAuthRequest(http.MethodPut, "/notifications/"+rows[0].ID+"/read", aliceToken)
		app.server.ServeHTTP(rec, req)
		require.Equal(t, http.StatusOK, rec.Code)

		count, err := app.notifSvc.UnreadCount(ctx, alice.ID)
		require.NoError(t, err)
		assert.Equal(t, 1, count)
	})

	t.Run("mark all read", func(t *testing.T) {
		req, rec := newAuthRequest(http.MethodPut, "/notifications/"+alice.ID+"/read-all", aliceToken)
		app.server.ServeHTTP(rec, req)
		require.Equal(t, http.StatusOK, rec.Code)

		req, rec = newAuthRequest(http.MethodGet, "/notifications/"+alice.ID+"/unread-count", aliceToken)
		app.server.ServeHTTP(rec, req)
		assert.JSONEq(t, `{"count":0}`, rec.Body.String())
	})

	t.Run("delete: not the owner", func(t *testing.T) {
		req, rec := newAuthRequest(http.MethodDelete, "/notifications/"+rows[1].ID, getToken(t, bob))
		app.server.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusForbidden, rec.Code)
	})

	t.Run("delete: super admin override", func(t *testing.T) {
		req, rec := newAuthRequest(http.MethodDelete, "/notifications/"+rows[1].ID, getToken(t, super))
		app.server.ServeHTTP(rec, req)
		require.Equal(t, http.StatusNoContent, rec.Code)

		got, err := app.notifSvc.QueryForUser(ctx, alice.ID)
		require.NoError(t, err)
		assert.Len(t, got, 1)
	})

	t.Run("mark unknown read", func(t *testing.T) {
		req, rec := newAuthRequest(http.MethodPut, "/notifications/999999/read", aliceToken)
		app.server.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})
}
