package router

import (
	"github.com/labstack/echo/v4"

	"github.com/v1ih/quick-table-sub000/internal/handler"
	"github.com/v1ih/quick-table-sub000/internal/middleware"
	"github.com/v1ih/quick-table-sub000/internal/model"
)

// ownerGroup is /v1/owner behind JWTAuth and the OWNER role.
func ownerGroup(e *echo.Echo, jwtSecret string) *echo.Group {
	return e.Group(
		"/v1/owner",
		middleware.JWTAuth(jwtSecret),
		middleware.RequireRole(model.RoleOwner),
	)
}

// RegisterOwner registers the owner's restaurant and table management.
func RegisterOwner(e *echo.Echo, o *handler.OwnerHandler, jwtSecret string) {
	g := ownerGroup(e, jwtSecret)

	// ---- Restaurant ----
	g.POST("/restaurant", o.CreateRestaurant)
	g.GET("/restaurant", o.GetMyRestaurant)
	g.PUT("/restaurant/:id", o.UpdateRestaurant)
	g.PATCH("/restaurant/:id", o.UpdateRestaurant)
	g.DELETE("/restaurant/:id", o.DeleteRestaurant)

	// ---- Tables ----
	g.POST("/restaurant/:id/tables", o.CreateTable)
	g.GET("/restaurant/:id/tables", o.ListTables)
	g.PUT("/tables/:id", o.UpdateTable)
	g.PATCH("/tables/:id", o.UpdateTable)
	g.DELETE("/tables/:id", o.DeleteTable)
}
