package handler

import (
    "net/http"
    "time"

    "github.com/labstack/echo/v4"

    "github.com/v1ih/quick-table-sub000/internal/model"
)

// PublicHandler serves the unauthenticated catalog: restaurants, their
// bookable tables and their ratings.
type PublicHandler struct {
    Restaurants RestaurantService
    Tables      TableService
    Ratings     RatingService
    Timeout     time.Duration
}

func NewPublicHandler(restaurants RestaurantService, tables TableService, ratings RatingService, timeout time.Duration) *PublicHandler {
    if restaurants == nil || tables == nil || ratings == nil {
        panic("nil service passed to NewPublicHandler")
    }
    return &PublicHandler{Restaurants: restaurants, Tables: tables, Ratings: ratings, Timeout: timeout}
}

// PublicRestaurant is the restaurant as shown to guests.
type PublicRestaurant struct {
    ID          uint64 `json:"id"`
    Name        string `json:"name"`
    Description string `json:"description"`
    Address     string `json:"address"`
    Phone       string `json:"phone"`
    OpensAt     string `json:"opens_at"`
    ClosesAt    string `json:"closes_at"`
}

func toPublicRestaurant(r *model.Restaurant) PublicRestaurant {
    h := r.Hours()
    return PublicRestaurant{
        ID:          r.ID,
        Name:        r.Name,
        Description: r.Description,
        Address:     r.Address,
        Phone:       r.Phone,
        OpensAt:     h.Opens,
        ClosesAt:    h.Closes,
    }
}

// ListRestaurants handles GET /v1/restaurants.
func (h *PublicHandler) ListRestaurants(c echo.Context) error {
    ctx, cancel := requestContext(c, h.Timeout)
    defer cancel()
    list, err := h.Restaurants.List(ctx)
    if err != nil {
        return writeError(c, err)
    }
    out := make([]PublicRestaurant, 0, len(list))
    for i := range list {
        out = append(out, toPublicRestaurant(&list[i]))
    }
    return c.JSON(http.StatusOK, echo.Map{"items": out})
}

// GetRestaurant handles GET /v1/restaurants/:id.
func (h *PublicHandler) GetRestaurant(c echo.Context) error {
    id, ok := paramID(c, "id")
    if !ok {
        return badRequest(c, "invalid restaurant id")
    }
    ctx, cancel := requestContext(c, h.Timeout)
    defer cancel()
    r, err := h.Restaurants.Get(ctx, id)
    if err != nil {
        return writeError(c, err)
    }
    return c.JSON(http.StatusOK, echo.Map{"item": toPublicRestaurant(r)})
}

// ListAvailableTables handles GET /v1/restaurants/:id/tables/available.  The
// route is never cached.
func (h *PublicHandler) ListAvailableTables(c echo.Context) error {
    id, ok := paramID(c, "id")
    if !ok {
        return badRequest(c, "invalid restaurant id")
    }
    ctx, cancel := requestContext(c, h.Timeout)
    defer cancel()
    tables, err := h.Tables.ListAvailable(ctx, id)
    if err != nil {
        return writeError(c, err)
    }
    return c.JSON(http.StatusOK, echo.Map{"items": tables})
}

// ListRatings handles GET /v1/restaurants/:id/ratings.
func (h *PublicHandler) ListRatings(c echo.Context) error {
    id, ok := paramID(c, "id")
    if !ok {
        return badRequest(c, "invalid restaurant id")
    }
    ctx, cancel := requestContext(c, h.Timeout)
    defer cancel()
    sum, err := h.Ratings.ListForRestaurant(ctx, id)
    if err != nil {
        return writeError(c, err)
    }
    return c.JSON(http.StatusOK, sum)
}
