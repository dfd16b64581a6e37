package router

import (
	"github.com/labstack/echo/v4"

	"github.com/v1ih/quick-table-sub000/internal/handler"
	"github.com/v1ih/quick-table-sub000/internal/middleware"
	"github.com/v1ih/quick-table-sub000/internal/model"
)

// RegisterRoutes registers routes that do not require authentication and are
// not part of the API: currently only the health check.
func RegisterRoutes(e *echo.Echo, db handler.Pinger) {
	e.GET("/healthz", handler.Health(db))
}

// RegisterAuth registers the token endpoints under /v1/auth and the
// authenticated /v1/me.  Logout works with either a refresh token in the body
// or a bearer token, so it is not behind JWTAuth.
func RegisterAuth(e *echo.Echo, a *handler.AuthHandler, jwtSecret string) {
	g := e.Group("/v1/auth")
	g.POST("/register", a.Register)
	g.POST("/login", a.Login)
	g.POST("/refresh", a.Refresh) // rotates the refresh token
	g.POST("/logout", a.Logout)

	e.GET("/v1/me", a.Me,
		middleware.JWTAuth(jwtSecret),
		middleware.RequireRole(model.RoleOwner, model.RoleCustomer),
	)
}

// RegisterPublic registers the guest catalog.  cache fronts the restaurant
// list, detail and ratings; table availability always reads the store.
func RegisterPublic(e *echo.Echo, p *handler.PublicHandler, cache echo.MiddlewareFunc) {
	e.GET("/v1/restaurants", p.ListRestaurants, cache)
	e.GET("/v1/restaurants/:id", p.GetRestaurant, cache)
	e.GET("/v1/restaurants/:id/ratings", p.ListRatings, cache)
	e.GET("/v1/restaurants/:id/tables/available", p.ListAvailableTables)
	e.GET("/v1/search/restaurants", p.SearchRestaurants)
}
