package handler

import (
    "net/http"
    "time"

    "github.com/labstack/echo/v4"

    "github.com/v1ih/quick-table-sub000/internal/service"
)

// OwnerHandler serves the OWNER surface: the owner's restaurant, its tables
// and the reservations made on them.
type OwnerHandler struct {
    Restaurants  RestaurantService
    Tables       TableService
    Reservations ReservationService
    Timeout      time.Duration
}

func NewOwnerHandler(restaurants RestaurantService, tables TableService, reservations ReservationService, timeout time.Duration) *OwnerHandler {
    if restaurants == nil || tables == nil || reservations == nil {
        panic("nil service passed to NewOwnerHandler")
    }
    return &OwnerHandler{Restaurants: restaurants, Tables: tables, Reservations: reservations, Timeout: timeout}
}

// CreateRestaurant handles POST /v1/owner/restaurant.  An owner has at most
// one restaurant.
func (h *OwnerHandler) CreateRestaurant(c echo.Context) error {
    ownerID, err := getUserID(c)
    if err != nil {
        return unauthorized(c)
    }
    var body service.RestaurantInput
    if err := c.Bind(&body); err != nil {
        return badRequest(c, "invalid request body")
    }
    ctx, cancel := requestContext(c, h.Timeout)
    defer cancel()
    r, err := h.Restaurants.Create(ctx, ownerID, body)
    if err != nil {
        return writeError(c, err)
    }
    return c.JSON(http.StatusCreated, echo.Map{"item": r})
}

// GetMyRestaurant handles GET /v1/owner/restaurant.
func (h *OwnerHandler) GetMyRestaurant(c echo.Context) error {
    ownerID, err := getUserID(c)
    if err != nil {
        return unauthorized(c)
    }
    ctx, cancel := requestContext(c, h.Timeout)
    defer cancel()
    r, err := h.Restaurants.GetByOwner(ctx, ownerID)
    if err != nil {
        return writeError(c, err)
    }
    return c.JSON(http.StatusOK, echo.Map{"item": r})
}

// UpdateRestaurant handles PUT/PATCH /v1/owner/restaurant/:id.  Omitted
// fields keep their current value.
func (h *OwnerHandler) UpdateRestaurant(c echo.Context) error {
    ownerID, err := getUserID(c)
    if err != nil {
        return unauthorized(c)
    }
    id, ok := paramID(c, "id")
    if !ok {
        return badRequest(c, "invalid restaurant id")
    }
    var body service.RestaurantInput
    if err := c.Bind(&body); err != nil {
        return badRequest(c, "invalid request body")
    }
    ctx, cancel := requestContext(c, h.Timeout)
    defer cancel()
    r, err := h.Restaurants.Update(ctx, ownerID, id, body)
    if err != nil {
        return writeError(c, err)
    }
    return c.JSON(http.StatusOK, echo.Map{"item": r})
}

// DeleteRestaurant handles DELETE /v1/owner/restaurant/:id.  Tables,
// reservations, ratings and favorites go with it.
func (h *OwnerHandler) DeleteRestaurant(c echo.Context) error {
    ownerID, err := getUserID(c)
    if err != nil {
        return unauthorized(c)
    }
    id, ok := paramID(c, "id")
    if !ok {
        return badRequest(c, "invalid restaurant id")
    }
    ctx, cancel := requestContext(c, h.Timeout)
    defer cancel()
    if err := h.Restaurants.Delete(ctx, ownerID, id); err != nil {
        return writeError(c, err)
    }
    return c.NoContent(http.StatusNoContent)
}
