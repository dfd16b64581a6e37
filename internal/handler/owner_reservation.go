package handler

// Owner-side reservation endpoints.  Ownership of the restaurant is checked
// by the service; the routes only require the OWNER role.

import (
    "net/http"
    "strings"

    "github.com/labstack/echo/v4"
)

// ListRestaurantReservations handles GET /v1/owner/restaurant/:id/reservations.
// It answers 403 when the restaurant belongs to someone else and an empty
// list when nothing is booked.
func (h *OwnerHandler) ListRestaurantReservations(c echo.Context) error {
    ownerID, err := getUserID(c)
    if err != nil {
        return unauthorized(c)
    }
    restaurantID, ok := paramID(c, "id")
    if !ok {
        return badRequest(c, "invalid restaurant id")
    }
    ctx, cancel := requestContext(c, h.Timeout)
    defer cancel()
    details, err := h.Reservations.ListForRestaurant(ctx, ownerID, restaurantID)
    if err != nil {
        return writeError(c, err)
    }
    return c.JSON(http.StatusOK, echo.Map{
        "items": details,
        "count": len(details),
    })
}

// GetReservation handles GET /v1/owner/reservations/:id.
func (h *OwnerHandler) GetReservation(c echo.Context) error {
    actor, ok := actorOf(c)
    if !ok {
        return unauthorized(c)
    }
    id, ok := paramID(c, "id")
    if !ok {
        return badRequest(c, "invalid reservation id")
    }
    ctx, cancel := requestContext(c, h.Timeout)
    defer cancel()
    det, err := h.Reservations.Get(ctx, actor, id)
    if err != nil {
        return writeError(c, err)
    }
    return c.JSON(http.StatusOK, echo.Map{"item": det})
}

type statusReq struct {
    Status string `json:"status"`
}

// UpdateReservationStatus handles POST /v1/owner/reservations/:id/status with
// body {"status": "confirmed" | "completed" | "cancelled"}.  Moves outside
// the lifecycle answer 409 INVALID_TRANSITION.
func (h *OwnerHandler) UpdateReservationStatus(c echo.Context) error {
    actor, ok := actorOf(c)
    if !ok {
        return unauthorized(c)
    }
    id, ok := paramID(c, "id")
    if !ok {
        return badRequest(c, "invalid reservation id")
    }
    var req statusReq
    if err := c.Bind(&req); err != nil {
        return badRequest(c, "invalid request body")
    }
    if strings.TrimSpace(req.Status) == "" {
        return badRequest(c, "status is required")
    }
    ctx, cancel := requestContext(c, h.Timeout)
    defer cancel()
    det, err := h.Reservations.Transition(ctx, actor, id, req.Status)
    if err != nil {
        return writeError(c, err)
    }
    return c.JSON(http.StatusOK, echo.Map{"item": det})
}
