package echoapi

import (
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/devanshuyeole/college-event-hub/core/user"
)

// rolesMiddleware allows only the named roles through. With no roles given it
// only requires a valid token.
func rolesMiddleware(roles ...string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(ctx echo.Context) error {
			claims, err := getContextClaims(ctx)
			if err != nil {
				return errors.Wrap(err, "getting context claims")
			}
			if len(roles) == 0 {
				return next(ctx)
			}
			for _, role := range roles {
				if claims.Role == role {
					return next(ctx)
				}
			}
			return errHttpForbidden
		}
	}
}

// ownerOrSuperAdminMiddleware compares the :userId route param with the token
// subject; super admins pass regardless.
func ownerOrSuperAdminMiddleware(param string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(ctx echo.Context) error {
			claims, err := getContextClaims(ctx)
			if err != nil {
				return errors.Wrap(err, "getting context claims")
			}
			if ctx.Param(param) == claims.Subject || claims.Role == user.RoleSuperAdmin {
				return next(ctx)
			}
			return errHttpForbidden
		}
	}
}
