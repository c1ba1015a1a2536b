package echoapi

import (
	"encoding/json"
	"fmt"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/devanshuyeole/college-event-hub/core/bookmark"
	"github.com/devanshuyeole/college-event-hub/core/user"
)

func Test_bookmarkApi(t *testing.T) {
	app := initApp(t)
	student := createUser(t, app, "Jane Doe", "jane@uni.edu", "State University", user.RoleStudent)
	admin := createUser(t, app, "College Admin", "cadmin@uni.edu", "State University", user.RoleCollegeAdmin)
	evt := createEvent(t, app, admin.ID, "Tech Fest", "Hackathon", time.Now().UTC().Add(48*time.Hour))

	token := getToken(t, student)
	toggleBody := []byte(fmt.Sprintf(`{"event_id":%q}`, evt.ID))

	toggle := func(t *testing.T) bookmark.ToggleResult {
		t.Helper()
		req, rec := newAuthRequest(http.MethodPost, "/bookmarks/toggle", token, toggleBody)
		app.server.ServeHTTP(rec, req)
		require.Equal(t, http.StatusOK, rec.Code)

		var res bookmark.ToggleResult
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &res))
		return res
	}

	t.Run("admin forbidden", func(t *testing.T) {
		req, rec := newAuthRequest(http.MethodPost, "/bookmarks/toggle", getToken(t, admin), toggleBody)
		app.server.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusForbidden, rec.Code)
	})

	t.Run("unknown event", func(t *testing.T) {
		req, rec := newAuthRequest(http.MethodPost, "/bookmarks/toggle", token, []byte(`{"event_id":"999999"}`))
		app.server.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})

	t.Run("toggle on", func(t *testing.T) {
		assert.True(t, toggle(t).Bookmarked)

		req, rec := newAuthRequest(http.MethodGet, "/bookmarks/check/"+evt.ID, token)
		app.server.ServeHTTP(rec, req)
		require.Equal(t, http.StatusOK, rec.Code)
		assert.JSONEq(t, `{"bookmarked":true}`, rec.Body.String())
	})

	t.Run("my bookmarks carry the event", func(t *testing.T) {
		req, rec := newAuthRequest(http.MethodGet, "/bookmarks/my", token)
		app.server.ServeHTTP(rec, req)
		require.Equal(t, http.StatusOK, rec.Code)

		var rows []bookmark.BookmarkedEvent
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &rows))
		require.Len(t, rows, 1)
		assert.Equal(t, evt.ID, rows[0].ID)
		assert.Equal(t, evt.Title, rows[0].Title)
	})

	t.Run("toggle off", func(t *testing.T) {
		assert.False(t, toggle(t).Bookmarked)

		req, rec := newAuthRequest(http.MethodGet, "/bookmarks/check/"+evt.ID, token)
		app.server.ServeHTTP(rec, req)
		assert.JSONEq(t, `{"bookmarked":false}`, rec.Body.String())

		req, rec = newAuthRequest(http.MethodGet, "/bookmarks/my", token)
		app.server.ServeHTTP(rec, req)
		assert.JSONEq(t, "[]", rec.Body.String())
	})

	t.Run("toggle back on", func(t *testing.T) {
		assert.True(t, toggle(t).Bookmarked)
	})
}
