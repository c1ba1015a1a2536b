package echoapi

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/devanshuyeole/college-event-hub/core/notification"
	"github.com/devanshuyeole/college-event-hub/core/user"
)

type notificationApi struct {
	svc *notification.Service
}

func registerNotificationAPI(g *echo.Group, jwt echo.MiddlewareFunc, svc *notification.Service) {
	api := notificationApi{svc: svc}

	ag := g.Group("/notifications", jwt)
	ag.POST("/broadcast", api.broadcast, rolesMiddleware(user.AdminRoles...))
	ag.PUT("/:id/read", api.markRead)
	ag.DELETE("/:id", api.destroy)
	ag.GET("/:userId", api.query, ownerOrSuperAdminMiddleware("userId"))
	ag.GET("/:userId/unread-count", api.unreadCount, ownerOrSuperAdminMiddleware("userId"))
	ag.PUT("/:userId/read-all", api.markAllRead, ownerOrSuperAdminMiddleware("userId"))
}

// Handlers

func (api *notificationApi) query(ctx echo.Context) error {
	rows, err := api.svc.QueryForUser(ctx.Request().Context(), ctx.Param("userId"))
	if err != nil {
		return errors.Wrap(err, "querying notifications")
	}
	if rows == nil {
		rows = []notification.Notification{}
	}
	return ctx.JSON(http.StatusOK, rows)
}

func (api *notificationApi) unreadCount(ctx echo.Context) error {
	count, err := api.svc.UnreadCount(ctx.Request().Context(), ctx.Param("userId"))
	if err != nil {
		return errors.Wrap(err, "counting unread notifications")
	}
	return ctx.JSON(http.StatusOK, UnreadCountResponse{Count: count})
}

func (api *notificationApi) markAllRead(ctx echo.Context) error {
	if err := api.svc.MarkAllRead(ctx.Request().Context(), ctx.Param("userId")); err != nil {
		return errors.Wrap(err, "marking notifications read")
	}
	return ctx.JSON(http.StatusOK, SuccessResponse{Success: "All notifications marked as read"})
}

func (api *notificationApi) markRead(ctx echo.Context) error {
	claims, err := getContextClaims(ctx)
	if err != nil {
		return errors.Wrap(err, "getting context claims")
	}
	if err := api.svc.MarkRead(ctx.Request().Context(), ctx.Param("id"), claims.Subject, claims.Role); err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, SuccessResponse{Success: "Notification marked as read"})
}

func (api *notificationApi) destroy(ctx echo.Context) error {
	claims, err := getContextClaims(ctx)
	if err != nil {
		return errors.Wrap(err, "getting context claims")
	}
	if err := api.svc.Delete(ctx.Request().Context(), ctx.Param("id"), claims.Subject, claims.Role); err != nil {
		return err
	}
	return ctx.NoContent(http.StatusNoContent)
}

func (api *notificationApi) broadcast(ctx echo.Context) error {
	var data notification.NewBroadcast
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewBroadcast")
	}
	if err := data.Validate(); err != nil {
		return err
	}

	res, err := api.svc.Broadcast(ctx.Request().Context(), data)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, res)
}

type UnreadCountResponse struct {
	Count int `json:"count"`
}
