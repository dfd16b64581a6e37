package router

import (
	"github.com/labstack/echo/v4"

	"github.com/v1ih/quick-table-sub000/internal/handler"
)

// RegisterOwnerReservations registers the owner's view of bookings and the
// status endpoint driving confirm, complete and cancel.
func RegisterOwnerReservations(e *echo.Echo, o *handler.OwnerHandler, jwtSecret string) {
	g := ownerGroup(e, jwtSecret)
	g.GET("/restaurant/:id/reservations", o.ListRestaurantReservations)
	g.GET("/reservations/:id", o.GetReservation)
	g.POST("/reservations/:id/status", o.UpdateReservationStatus)
}
