package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/v1ih/quick-table-sub000/internal/service"
)

// RateReservation handles POST /v1/reservations/:id/rating with body
// {"score": 1..5, "comment": "..."}.
func (h *CustomerHandler) RateReservation(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return unauthorized(c)
	}
	id, ok := paramID(c, "id")
	if !ok {
		return badRequest(c, "invalid reservation id")
	}
	var req service.RatingInput
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid request body")
	}
	ctx, cancel := requestContext(c, h.Timeout)
	defer cancel()
	rt, err := h.Ratings.Create(ctx, userID, id, req)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusCreated, echo.Map{"item": rt})
}

// ListFavorites handles GET /v1/favorites.
func (h *CustomerHandler) ListFavorites(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return unauthorized(c)
	}
	ctx, cancel := requestContext(c, h.Timeout)
	defer cancel()
	items, err := h.Favorites.List(ctx, userID)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"items": items})
}

// AddFavorite handles POST /v1/favorites/:restaurant_id.
func (h *CustomerHandler) AddFavorite(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return unauthorized(c)
	}
	restaurantID, ok := paramID(c, "restaurant_id")
	if !ok {
		return badRequest(c, "invalid restaurant id")
	}
	ctx, cancel := requestContext(c, h.Timeout)
	defer cancel()
	if err := h.Favorites.Add(ctx, userID, restaurantID); err != nil {
		return writeError(c, err)
	}
	return c.NoContent(http.StatusCreated)
}

// RemoveFavorite handles DELETE /v1/favorites/:restaurant_id.
func (h *CustomerHandler) RemoveFavorite(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return unauthorized(c)
	}
	restaurantID, ok := paramID(c, "restaurant_id")
	if !ok {
		return badRequest(c, "invalid restaurant id")
	}
	ctx, cancel := requestContext(c, h.Timeout)
	defer cancel()
	if err := h.Favorites.Remove(ctx, userID, restaurantID); err != nil {
		return writeError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}
