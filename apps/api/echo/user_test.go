package echoapi

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/devanshuyeole/college-event-hub/core/user"
)

func Test_userApi_signup(t *testing.T) {
	app := initApp(t)
	existing := createUser(t, app, "Jane Doe", "jane@uni.edu", "State University", user.RoleStudent)

	signupBody := func(name, email, pwd, college, role, code string) []byte {
		return []byte(fmt.Sprintf(
			`{"name":%q,"email":%q,"password":%q,"college":%q,"role":%q,"authorizationCode":%q}`,
			name, email, pwd, college, role, code,
		))
	}

	tests := []httpTest{
		{
			name:     "empty payload",
			body:     []byte(`{}`),
			wantCode: http.StatusBadRequest,
		},
		{
			name:     "weak password",
			body:     signupBody("John Smith", "john@uni.edu", "alllowercase", "State University", "student", ""),
			wantCode: http.StatusBadRequest,
		},
		{
			name:     "numeric name",
			body:     signupBody("John 123", "john@uni.edu", "Sekr3t!pwd", "State University", "student", ""),
			wantCode: http.StatusBadRequest,
		},
		{
			name:     "invalid role",
			body:     signupBody("John Smith", "john@uni.edu", "Sekr3t!pwd", "State University", "principal", ""),
			wantCode: http.StatusBadRequest,
		},
		{
			name:     "email taken",
			body:     signupBody("John Smith", existing.Email, "Sekr3t!pwd", "State University", "student", ""),
			wantCode: http.StatusConflict,
		},
		{
			name:     "college admin without code",
			body:     signupBody("John Smith", "john@uni.edu", "Sekr3t!pwd", "State University", "college_admin", ""),
			wantCode: http.StatusBadRequest,
		},
		{
			name:     "college admin with wrong code",
			body:     signupBody("John Smith", "john@uni.edu", "Sekr3t!pwd", "State University", "college_admin", "nope"),
			wantCode: http.StatusBadRequest,
		},
		{
			name:     "college admin with code",
			body:     signupBody("John Smith", "john@uni.edu", "Sekr3t!pwd", "State University", "college_admin", "college-code"),
			wantCode: http.StatusCreated,
		},
		{
			name:     "student ok",
			body:     signupBody("Mary Major", "mary@uni.edu", "Sekr3t!pwd", "State University", "student", ""),
			wantCode: http.StatusCreated,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, rec := newRequest(http.MethodPost, "/signup", tt.body)
			app.server.ServeHTTP(rec, req)
			checkCodeAndData(t, tt, rec)
		})
	}

	t.Run("created user has student defaults", func(t *testing.T) {
		usr, err := app.usrRepo.GetUserByEmail(context.TODO(), "mary@uni.edu")
		require.NoError(t, err)
		assert.Equal(t, user.RoleStudent, usr.Role)
		assert.Equal(t, 0, usr.Points)
		assert.Empty(t, usr.Badges)
	})
}

func Test_userApi_login(t *testing.T) {
	app := initApp(t)
	usr := createUser(t, app, "Jane Doe", "jane@uni.edu", "State University", user.RoleStudent)

	t.Run("unknown email", func(t *testing.T) {
		req, rec := newRequest(http.MethodPost, "/login", []byte(`{"email":"ghost@uni.edu","password":"Sekr3t!pwd"}`))
		app.server.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("wrong password", func(t *testing.T) {
		req, rec := newRequest(http.MethodPost, "/login", []byte(`{"email":"jane@uni.edu","password":"WrongPwd1!"}`))
		app.server.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("ok", func(t *testing.T) {
		req, rec := newRequest(http.MethodPost, "/login", []byte(`{"email":"jane@uni.edu","password":"Sekr3t!pwd"}`))
		app.server.ServeHTTP(rec, req)
		require.Equal(t, http.StatusOK, rec.Code)

		var res LoginResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &res))
		assert.NotEmpty(t, res.Token)
		assert.Equal(t, usr.ID, res.User.ID)
		assert.Empty(t, res.User.PasswordHash)
	})
}

func Test_userApi_profile(t *testing.T) {
	app := initApp(t)
	usr := createUser(t, app, "Jane Doe", "jane@uni.edu", "State University", user.RoleStudent)
	token := getToken(t, usr)

	tests := []httpTest{
		{
			name:     "no token",
			path:     "/profile/" + usr.ID,
			wantCode: http.StatusUnauthorized,
			wantData: marshallObj(t, errMissingToken),
		},
		{
			name:     "unknown user",
			path:     "/profile/999999",
			token:    token,
			wantCode: http.StatusNotFound,
		},
		{
			name:     "ok",
			path:     "/profile/" + usr.ID,
			token:    token,
			wantCode: http.StatusOK,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, rec := newAuthRequest(http.MethodGet, tt.path, tt.token)
			app.server.ServeHTTP(rec, req)
			checkCodeAndData(t, tt, rec)
		})
	}
}

func Test_userApi_updateProfile(t *testing.T) {
	app := initApp(t)
	usr := createUser(t, app, "Jane Doe", "jane@uni.edu", "State University", user.RoleStudent)
	token := getToken(t, usr)

	newFormRequest := func(form url.Values) (*http.Request, *httptest.ResponseRecorder) {
		req := httptest.NewRequest(http.MethodPut, "/profile", strings.NewReader(form.Encode()))
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
		req.Header.Set("Authorization", "Bearer "+token)
		return req, httptest.NewRecorder()
	}

	t.Run("nothing to update", func(t *testing.T) {
		req, rec := newFormRequest(url.Values{})
		app.server.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("bio updated", func(t *testing.T) {
		req, rec := newFormRequest(url.Values{"bio": {"CS sophomore, robotics club"}})
		app.server.ServeHTTP(rec, req)
		require.Equal(t, http.StatusOK, rec.Code)

		var got user.User
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
		assert.Equal(t, "CS sophomore, robotics club", got.Bio)
	})
}

func Test_userApi_leaderboard(t *testing.T) {
	app := initApp(t)
	alice := createUser(t, app, "Alice One", "alice@uni.edu", "State University", user.RoleStudent)
	bob := createUser(t, app, "Bob Two", "bob@uni.edu", "State University", user.RoleStudent)
	carol := createUser(t, app, "Carol Three", "carol@uni.edu", "State University", user.RoleStudent)
	admin := createUser(t, app, "Admin Person", "admin@uni.edu", "State University", user.RoleCollegeAdmin)

	ctx := context.TODO()
	require.NoError(t, app.usrRepo.AddUserPoints(ctx, alice.ID, 30))
	require.NoError(t, app.usrRepo.AddUserPoints(ctx, bob.ID, 50))
	require.NoError(t, app.usrRepo.AddUserPoints(ctx, admin.ID, 500)) // must not appear

	token := getToken(t, carol)

	t.Run("ranked by points, students only", func(t *testing.T) {
		req, rec := newAuthRequest(http.MethodGet, "/leaderboard", token)
		app.server.ServeHTTP(rec, req)
		require.Equal(t, http.StatusOK, rec.Code)

		var entries []user.LeaderboardEntry
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &entries))
		require.Len(t, entries, 3)
		assert.Equal(t, bob.ID, entries[0].ID)
		assert.Equal(t, alice.ID, entries[1].ID)
		assert.Equal(t, carol.ID, entries[2].ID)
	})

	t.Run("rank counts strictly higher scores", func(t *testing.T) {
		req, rec := newAuthRequest(http.MethodGet, "/leaderboard/rank", getToken(t, alice))
		app.server.ServeHTTP(rec, req)
		require.Equal(t, http.StatusOK, rec.Code)

		var res RankResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &res))
		assert.Equal(t, 2, res.Rank)
	})
}

func Test_userApi_adminSurface(t *testing.T) {
	app := initApp(t)
	student := createUser(t, app, "Jane Doe", "jane@uni.edu", "State University", user.RoleStudent)
	collegeAdmin := createUser(t, app, "College Admin", "cadmin@uni.edu", "State University", user.RoleCollegeAdmin)
	super := createUser(t, app, "Super Admin", "root@uni.edu", "State University", user.RoleSuperAdmin)

	studentToken := getToken(t, student)
	collegeToken := getToken(t, collegeAdmin)
	superToken := getToken(t, super)

	tests := []httpTest{
		{name: "users: student forbidden", method: http.MethodGet, path: "/admin/users", token: studentToken, wantCode: http.StatusForbidden},
		{name: "users: college admin forbidden", method: http.MethodGet, path: "/admin/users", token: collegeToken, wantCode: http.StatusForbidden},
		{name: "users: super admin ok", method: http.MethodGet, path: "/admin/users", token: superToken, wantCode: http.StatusOK},
		{name: "stats: student forbidden", method: http.MethodGet, path: "/admin/stats", token: studentToken, wantCode: http.StatusForbidden},
		{name: "stats: super admin ok", method: http.MethodGet, path: "/admin/stats", token: superToken, wantCode: http.StatusOK},
		{
			name:     "role change: student forbidden",
			method:   http.MethodPut,
			path:     "/admin/users/" + student.ID + "/role",
			body:     []byte(`{"role":"college_admin"}`),
			token:    studentToken,
			wantCode: http.StatusForbidden,
		},
		{
			name:     "role change: invalid role",
			method:   http.MethodPut,
			path:     "/admin/users/" + student.ID + "/role",
			body:     []byte(`{"role":"dean"}`),
			token:    superToken,
			wantCode: http.StatusBadRequest,
		},
		{
			name:     "role change: ok",
			method:   http.MethodPut,
			path:     "/admin/users/" + student.ID + "/role",
			body:     []byte(`{"role":"college_admin"}`),
			token:    superToken,
			wantCode: http.StatusOK,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, rec := newAuthRequest(tt.method, tt.path, tt.token, tt.body)
			app.server.ServeHTTP(rec, req)
			checkCodeAndData(t, tt, rec)
		})
	}

	t.Run("role was persisted", func(t *testing.T) {
		usr, err := app.usrRepo.GetUserByID(context.TODO(), student.ID)
		require.NoError(t, err)
		assert.Equal(t, user.RoleCollegeAdmin, usr.Role)
	})
}
