// Package middleware holds the echo middleware shared by every API route
package middleware

import (
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/Oikion/mvp-sub017/pkg/context"
)

const (
	// HeaderTenantID is the header key for the organization ID
	HeaderTenantID = "X-Organization-Id"
	// HeaderUserID is the header key for user ID
	HeaderUserID = "X-User-Id"
)

// Context stores the request ID, route and remote IP on the request context and echoes the
// request ID back in the response headers. Tenant and user are set by the auth middleware.
func Context() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			req := c.Request()

			requestID := req.Header.Get(echo.HeaderXRequestID)
			if requestID == "" {
				requestID = uuid.New().String()
			}
			c.Response().Header().Set(echo.HeaderXRequestID, requestID)

			ctx := req.Context()
			ctx = context.SetRequestID(ctx, requestID)
			ctx = context.SetRoute(ctx, c.Path())
			ctx = context.SetRemoteIP(ctx, c.RealIP())

			c.SetRequest(req.WithContext(ctx))

			return next(c)
		}
	}
}
