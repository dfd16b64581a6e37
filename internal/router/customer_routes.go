package router

import (
	"github.com/labstack/echo/v4"

	"github.com/v1ih/quick-table-sub000/internal/handler"
	"github.com/v1ih/quick-table-sub000/internal/middleware"
	"github.com/v1ih/quick-table-sub000/internal/model"
)

// RegisterCustomer registers customer-scoped endpoints under /v1.  All routes
// require a valid JWT and the CUSTOMER role.  limiter guards admission only.
func RegisterCustomer(e *echo.Echo, h *handler.CustomerHandler, jwtSecret string, limiter echo.MiddlewareFunc) {
	g := e.Group(
		"/v1",
		middleware.JWTAuth(jwtSecret),
		middleware.RequireRole(model.RoleCustomer),
	)
	g.POST("/reservations", h.CreateReservation, limiter)
	g.GET("/my-reservations", h.ListReservations)
	g.GET("/reservations/:id", h.GetReservation)
	g.POST("/reservations/:id/cancel", h.CancelReservation)
	g.POST("/reservations/:id/rating", h.RateReservation)

	g.GET("/favorites", h.ListFavorites)
	g.POST("/favorites/:restaurant_id", h.AddFavorite)
	g.DELETE("/favorites/:restaurant_id", h.RemoveFavorite)
}
