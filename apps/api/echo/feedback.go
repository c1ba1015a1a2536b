package echoapi

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/devanshuyeole/college-event-hub/core/feedback"
	"github.com/devanshuyeole/college-event-hub/core/user"
)

type feedbackApi struct {
	svc *feedback.Service
}

func registerFeedbackAPI(g *echo.Group, jwt echo.MiddlewareFunc, svc *feedback.Service) {
	api := feedbackApi{svc: svc}

	ag := g.Group("/feedback", jwt)
	ag.POST("", api.create, rolesMiddleware(user.RoleStudent))
	ag.GET("/event/:id", api.queryByEvent)
	ag.GET("/analytics", api.analytics, rolesMiddleware(user.AdminRoles...))
}

// Handlers

func (api *feedbackApi) create(ctx echo.Context) error {
	claims, err := getContextClaims(ctx)
	if err != nil {
		return errors.Wrap(err, "getting context claims")
	}

	var data feedback.NewFeedback
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewFeedback")
	}
	if err := data.Validate(); err != nil {
		return err
	}

	fb, err := api.svc.Submit(ctx.Request().Context(), claims.Subject, data)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusCreated, fb)
}

func (api *feedbackApi) queryByEvent(ctx echo.Context) error {
	payload, err := api.svc.QueryByEvent(ctx.Request().Context(), ctx.Param("id"))
	if err != nil {
		return errors.Wrap(err, "querying event feedback")
	}
	return ctx.JSON(http.StatusOK, payload)
}

func (api *feedbackApi) analytics(ctx echo.Context) error {
	analytics, err := api.svc.AdminAnalytics(ctx.Request().Context())
	if err != nil {
		return errors.Wrap(err, "aggregating feedback analytics")
	}
	return ctx.JSON(http.StatusOK, analytics)
}
