package echoapi

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/devanshuyeole/college-event-hub/core"
	"github.com/devanshuyeole/college-event-hub/core/user"
)

type userApi struct {
	svc  *user.Service
	conf *core.Config
}

func registerUserAPI(g *echo.Group, jwt echo.MiddlewareFunc, svc *user.Service, conf *core.Config) {
	api := userApi{svc: svc, conf: conf}

	// un-authed endpoints
	g.POST("/signup", api.signup)
	g.POST("/login", api.login)

	// authed endpoints
	ag := g.Group("", jwt)
	ag.GET("/profile/:userId", api.profile)
	ag.PUT("/profile", api.updateProfile)
	ag.GET("/leaderboard", api.leaderboard)
	ag.GET("/leaderboard/rank", api.rank)

	// super-admin surface
	sg := ag.Group("/admin", rolesMiddleware(user.RoleSuperAdmin))
	sg.GET("/users", api.adminUsers)
	sg.GET("/stats", api.adminStats)
	sg.PUT("/users/:id/role", api.changeRole)
}

// Handlers

func (api *userApi) signup(ctx echo.Context) error {
	var data user.NewUser
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewUser")
	}
	if err := data.Validate(api.svc); err != nil {
		return err
	}

	usr, err := api.svc.Signup(ctx.Request().Context(), data)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusCreated, usr)
}

func (api *userApi) login(ctx echo.Context) error {
	var data LoginRequest
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to LoginRequest")
	}
	if err := data.Validate(); err != nil {
		return err
	}

	usr, claims, err := authenticate(ctx.Request().Context(), data.Email, data.Password, api.svc)
	if err != nil {
		return err
	}
	token, err := GenerateToken(claims)
	if err != nil {
		return errors.Wrap(err, "generating token")
	}
	return ctx.JSON(http.StatusOK, LoginResponse{Token: token, User: usr})
}

func (api *userApi) profile(ctx echo.Context) error {
	usr, err := api.svc.GetByID(ctx.Request().Context(), ctx.Param("userId"))
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, usr)
}

func (api *userApi) updateProfile(ctx echo.Context) error {
	claims, err := getContextClaims(ctx)
	if err != nil {
		return errors.Wrap(err, "getting context claims")
	}

	var data user.UpdateProfile
	if bio := ctx.FormValue("bio"); bio != "" {
		cleaned := core.CleanString(bio)
		data.Bio = &cleaned
	}
	if fh, err := ctx.FormFile("photo"); err == nil {
		path, err := saveUpload(fh, api.conf.UploadsDir, "profiles")
		if err != nil {
			return errors.Wrap(err, "saving profile photo")
		}
		data.ProfilePhoto = path
	}

	if data.IsEmpty() {
		return core.NewValidationError(errors.New("nothing to update"))
	}
	if err := data.Validate(); err != nil {
		return err
	}

	usr, err := api.svc.UpdateProfile(ctx.Request().Context(), claims.Subject, data)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, usr)
}

func (api *userApi) leaderboard(ctx echo.Context) error {
	entries, err := api.svc.Leaderboard(ctx.Request().Context())
	if err != nil {
		return errors.Wrap(err, "querying leaderboard")
	}
	if entries == nil {
		entries = []user.LeaderboardEntry{}
	}
	return ctx.JSON(http.StatusOK, entries)
}

func (api *userApi) rank(ctx echo.Context) error {
	claims, err := getContextClaims(ctx)
	if err != nil {
		return errors.Wrap(err, "getting context claims")
	}
	rank, err := api.svc.Rank(ctx.Request().Context(), claims.Subject)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, RankResponse{Rank: rank})
}

func (api *userApi) adminUsers(ctx echo.Context) error {
	rows, err := api.svc.AdminUsers(ctx.Request().Context())
	if err != nil {
		return errors.Wrap(err, "querying users")
	}
	if rows == nil {
		rows = []user.AdminUserRow{}
	}
	return ctx.JSON(http.StatusOK, rows)
}

func (api *userApi) adminStats(ctx echo.Context) error {
	stats, err := api.svc.AdminStats(ctx.Request().Context())
	if err != nil {
		return errors.Wrap(err, "aggregating stats")
	}
	return ctx.JSON(http.StatusOK, stats)
}

func (api *userApi) changeRole(ctx echo.Context) error {
	claims, err := getContextClaims(ctx)
	if err != nil {
		return errors.Wrap(err, "getting context claims")
	}

	var data ChangeRoleRequest
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to ChangeRoleRequest")
	}
	if err := api.svc.ChangeRole(ctx.Request().Context(), claims.Subject, ctx.Param("id"), data.Role); err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, SuccessResponse{Success: "User role updated successfully"})
}

type (
	LoginRequest struct {
		Email    string `json:"email" validate:"required,email"`
		Password string `json:"password" validate:"required"`
	}

	LoginResponse struct {
		Token string    `json:"token"`
		User  user.User `json:"user"`
	}

	RankResponse struct {
		Rank int `json:"rank"`
	}

	ChangeRoleRequest struct {
		Role string `json:"role"`
	}

	SuccessResponse struct {
		Success string `json:"success"`
	}
)

func (lr *LoginRequest) Validate() error {
	lr.Email = core.CleanString(lr.Email, true /* lower */)
	return core.Validate.Struct(lr)
}
