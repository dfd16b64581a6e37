package handler

import (
    "net/http"
    "strconv"
    "strings"

    "github.com/labstack/echo/v4"

    "github.com/v1ih/quick-table-sub000/internal/service"
)

// SearchRestaurants handles GET /v1/search/restaurants.
//
// Query: name, address (substring, case insensitive), open_at (HH:MM),
// party_size (an available table at least this large), page, page_size.
func (h *PublicHandler) SearchRestaurants(c echo.Context) error {
    in := service.RestaurantSearch{
        Name:    strings.TrimSpace(c.QueryParam("name")),
        Address: strings.TrimSpace(c.QueryParam("address")),
        OpenAt:  strings.TrimSpace(c.QueryParam("open_at")),
    }
    if v := c.QueryParam("party_size"); v != "" {
        n, err := strconv.ParseUint(v, 10, 32)
        if err != nil {
            return badRequest(c, "party_size must be a positive integer")
        }
        in.PartySize = uint32(n)
    }
    in.Page, _ = strconv.Atoi(c.QueryParam("page"))
    in.PageSize, _ = strconv.Atoi(c.QueryParam("page_size"))

    ctx, cancel := requestContext(c, h.Timeout)
    defer cancel()
    page, err := h.Restaurants.Search(ctx, in)
    if err != nil {
        return writeError(c, err)
    }
    out := make([]PublicRestaurant, 0, len(page.Items))
    for i := range page.Items {
        out = append(out, toPublicRestaurant(&page.Items[i]))
    }
    return c.JSON(http.StatusOK, echo.Map{
        "items":     out,
        "total":     page.Total,
        "page":      page.Page,
        "page_size": page.PageSize,
    })
}
