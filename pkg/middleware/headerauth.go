package middleware

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/Oikion/mvp-sub017/pkg/context"
)

// HeaderAuth takes the organization and user from the X-Organization-Id and X-User-Id headers.
// It stands in for Authentication when auth.enabled is false and must not be used in production.
func HeaderAuth() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			ctx := c.Request().Context()

			if tenantID := c.Request().Header.Get(HeaderTenantID); tenantID != "" {
				ctx = context.SetTenantID(ctx, tenantID)
			}
			if userID := c.Request().Header.Get(HeaderUserID); userID != "" {
				ctx = context.SetUserID(ctx, userID)
			}

			c.SetRequest(c.Request().WithContext(ctx))

			return next(c)
		}
	}
}

// RequireTenant rejects requests that reach tenant-scoped routes without an organization
func RequireTenant() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if context.GetTenantID(c.Request().Context()) == "" {
				return echo.NewHTTPError(http.StatusUnauthorized, "organization is required")
			}
			return next(c)
		}
	}
}
