package echoapi

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/devanshuyeole/college-event-hub/core/registration"
	"github.com/devanshuyeole/college-event-hub/core/user"
)

type registrationApi struct {
	svc *registration.Service
}

func registerRegistrationAPI(g *echo.Group, jwt echo.MiddlewareFunc, svc *registration.Service) {
	api := registrationApi{svc: svc}

	ag := g.Group("/registrations", jwt)
	ag.POST("", api.create, rolesMiddleware(user.RoleStudent))
	ag.PUT("/:id", api.updateStatus, rolesMiddleware(user.AdminRoles...))
	ag.GET("/event/:id", api.queryByEvent, rolesMiddleware(user.AdminRoles...))
	ag.GET("/user/:userId", api.queryByUser, ownerOrSuperAdminMiddleware("userId"))
}

// Handlers

func (api *registrationApi) create(ctx echo.Context) error {
	claims, err := getContextClaims(ctx)
	if err != nil {
		return errors.Wrap(err, "getting context claims")
	}

	var data registration.NewRegistration
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewRegistration")
	}
	if err := data.Validate(); err != nil {
		return err
	}

	reg, err := api.svc.Register(ctx.Request().Context(), claims.Subject, data.EventID)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusCreated, reg)
}

func (api *registrationApi) updateStatus(ctx echo.Context) error {
	var data registration.UpdateStatus
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to UpdateStatus")
	}
	if err := data.Validate(); err != nil {
		return err
	}

	if err := api.svc.SetStatus(ctx.Request().Context(), ctx.Param("id"), data); err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, SuccessResponse{Success: "Registration status updated"})
}

func (api *registrationApi) queryByEvent(ctx echo.Context) error {
	rows, err := api.svc.QueryByEvent(ctx.Request().Context(), ctx.Param("id"))
	if err != nil {
		return errors.Wrap(err, "querying event registrations")
	}
	if rows == nil {
		rows = []registration.EventRegistrationRow{}
	}
	return ctx.JSON(http.StatusOK, rows)
}

func (api *registrationApi) queryByUser(ctx echo.Context) error {
	rows, err := api.svc.QueryByUser(ctx.Request().Context(), ctx.Param("userId"))
	if err != nil {
		return errors.Wrap(err, "querying user registrations")
	}
	if rows == nil {
		rows = []registration.UserRegistrationRow{}
	}
	return ctx.JSON(http.StatusOK, rows)
}
