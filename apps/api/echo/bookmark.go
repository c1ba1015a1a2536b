package echoapi

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/devanshuyeole/college-event-hub/core/bookmark"
	"github.com/devanshuyeole/college-event-hub/core/user"
)

type bookmarkApi struct {
	svc *bookmark.Service
}

func registerBookmarkAPI(g *echo.Group, jwt echo.MiddlewareFunc, svc *bookmark.Service) {
	api := bookmarkApi{svc: svc}

	ag := g.Group("/bookmarks", jwt)
	ag.POST("/toggle", api.toggle, rolesMiddleware(user.RoleStudent))
	ag.GET("/my", api.query)
	ag.GET("/check/:eventId", api.check)
}

// Handlers

func (api *bookmarkApi) toggle(ctx echo.Context) error {
	claims, err := getContextClaims(ctx)
	if err != nil {
		return errors.Wrap(err, "getting context claims")
	}

	var data bookmark.ToggleRequest
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to ToggleRequest")
	}
	if err := data.Validate(); err != nil {
		return err
	}

	res, err := api.svc.Toggle(ctx.Request().Context(), claims.Subject, data.EventID)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, res)
}

func (api *bookmarkApi) query(ctx echo.Context) error {
	claims, err := getContextClaims(ctx)
	if err != nil {
		return errors.Wrap(err, "getting context claims")
	}
	rows, err := api.svc.QueryForUser(ctx.Request().Context(), claims.Subject)
	if err != nil {
		return errors.Wrap(err, "querying bookmarks")
	}
	if rows == nil {
		rows = []bookmark.BookmarkedEvent{}
	}
	return ctx.JSON(http.StatusOK, rows)
}

func (api *bookmarkApi) check(ctx echo.Context) error {
	claims, err := getContextClaims(ctx)
	if err != nil {
		return errors.Wrap(err, "getting context claims")
	}
	bookmarked, err := api.svc.IsBookmarked(ctx.Request().Context(), claims.Subject, ctx.Param("eventId"))
	if err != nil {
		return errors.Wrap(err, "checking bookmark")
	}
	return ctx.JSON(http.StatusOK, bookmark.ToggleResult{Bookmarked: bookmarked})
}
