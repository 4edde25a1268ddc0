// Package routes assembles the HTTP API
package routes

import (
	"github.com/Gobusters/ectologger"
	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/Oikion/mvp-sub017/pkg/matching"
	"github.com/Oikion/mvp-sub017/pkg/middleware"
	"github.com/Oikion/mvp-sub017/pkg/routes/client"
	"github.com/Oikion/mvp-sub017/pkg/routes/health"
	"github.com/Oikion/mvp-sub017/pkg/routes/match"
	"github.com/Oikion/mvp-sub017/pkg/routes/preferences"
	"github.com/Oikion/mvp-sub017/pkg/routes/property"
)

// Dependencies are the collaborators the API handlers are built from
type Dependencies struct {
	Logger     ectologger.Logger
	Service    *matching.Service
	Clients    client.Repository
	Properties property.Repository
	Health     *health.Checker
	Defaults   matching.RankRequest

	// Auth resolves the caller's organization. It must set the tenant on the request context.
	Auth echo.MiddlewareFunc
}

// Register mounts health, metrics and the tenant scoped API on e
func Register(e *echo.Echo, deps Dependencies) {
	deps.Health.RegisterRoutes(e)
	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))

	api := e.Group("/api/v1", deps.Auth, middleware.RequireTenant())

	match.NewHandler(deps.Service, deps.Defaults).Register(api)
	preferences.NewHandler(deps.Service).Register(api.Group("/preferences"))
	client.NewHandler(deps.Clients, deps.Logger).Register(api.Group("/clients"))
	property.NewHandler(deps.Properties, deps.Logger).Register(api.Group("/properties"))
}
