package handler

import (
    "net/http"

    "github.com/labstack/echo/v4"

    "github.com/v1ih/quick-table-sub000/internal/service"
)

// CreateTable handles POST /v1/owner/restaurant/:id/tables.  New tables
// start out available.
func (h *OwnerHandler) CreateTable(c echo.Context) error {
    ownerID, err := getUserID(c)
    if err != nil {
        return unauthorized(c)
    }
    restaurantID, ok := paramID(c, "id")
    if !ok {
        return badRequest(c, "invalid restaurant id")
    }
    var body service.TableInput
    if err := c.Bind(&body); err != nil {
        return badRequest(c, "invalid request body")
    }
    ctx, cancel := requestContext(c, h.Timeout)
    defer cancel()
    t, err := h.Tables.Create(ctx, ownerID, restaurantID, body)
    if err != nil {
        return writeError(c, err)
    }
    return c.JSON(http.StatusCreated, echo.Map{"item": t})
}

// ListTables handles GET /v1/owner/restaurant/:id/tables.  Unlike the public
// view it includes held tables.
func (h *OwnerHandler) ListTables(c echo.Context) error {
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
    items, err := h.Tables.ListForRestaurant(ctx, ownerID, restaurantID)
    if err != nil {
        return writeError(c, err)
    }
    return c.JSON(http.StatusOK, echo.Map{"items": items})
}

// UpdateTable handles PUT/PATCH /v1/owner/tables/:id.
func (h *OwnerHandler) UpdateTable(c echo.Context) error {
    ownerID, err := getUserID(c)
    if err != nil {
        return unauthorized(c)
    }
    id, ok := paramID(c, "id")
    if !ok {
        return badRequest(c, "invalid table id")
    }
    var body service.TableInput
    if err := c.Bind(&body); err != nil {
        return badRequest(c, "invalid request body")
    }
    ctx, cancel := requestContext(c, h.Timeout)
    defer cancel()
    t, err := h.Tables.Update(ctx, ownerID, id, body)
    if err != nil {
        return writeError(c, err)
    }
    return c.JSON(http.StatusOK, echo.Map{"item": t})
}

// DeleteTable handles DELETE /v1/owner/tables/:id.  A table held by a
// pending or confirmed reservation answers 409 TABLE_HELD.
func (h *OwnerHandler) DeleteTable(c echo.Context) error {
    ownerID, err := getUserID(c)
    if err != nil {
        return unauthorized(c)
    }
    id, ok := paramID(c, "id")
    if !ok {
        return badRequest(c, "invalid table id")
    }
    ctx, cancel := requestContext(c, h.Timeout)
    defer cancel()
    if err := h.Tables.Delete(ctx, ownerID, id); err != nil {
        return writeError(c, err)
    }
    return c.NoContent(http.StatusNoContent)
}
