package handler

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/v1ih/quick-table-sub000/internal/service"
)

// CustomerHandler serves the customer's reservations, ratings and favorites.
// JWT authentication and the CUSTOMER role are enforced by middleware.
type CustomerHandler struct {
	Reservations ReservationService
	Ratings      RatingService
	Favorites    FavoriteService
	Timeout      time.Duration
}

func NewCustomerHandler(reservations ReservationService, ratings RatingService, favorites FavoriteService, timeout time.Duration) *CustomerHandler {
	if reservations == nil || ratings == nil || favorites == nil {
		panic("nil service passed to NewCustomerHandler")
	}
	return &CustomerHandler{Reservations: reservations, Ratings: ratings, Favorites: favorites, Timeout: timeout}
}

type createReservationReq struct {
	TableID    uint64  `json:"table_id"`
	ReservedAt string  `json:"reserved_at"`
	PartySize  uint32  `json:"party_size"`
	Note       *string `json:"note"`
}

// reservedAtLayouts are tried in order.  Layouts without a zone are read
// as wall-clock time.
var reservedAtLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
}

func parseReservedAt(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	for _, layout := range reservedAtLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, errors.New("reserved_at must look like 2024-06-01T19:00")
}

// CreateReservation handles POST /v1/reservations.  It returns 201 with the
// pending reservation, or 409 TABLE_UNAVAILABLE when the table is held.
func (h *CustomerHandler) CreateReservation(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return unauthorized(c)
	}
	var req createReservationReq
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid request body")
	}
	at, err := parseReservedAt(req.ReservedAt)
	if err != nil {
		return badRequest(c, err.Error())
	}
	if req.Note != nil {
		if n := strings.TrimSpace(*req.Note); n == "" {
			req.Note = nil
		} else {
			req.Note = &n
		}
	}

	ctx, cancel := requestContext(c, h.Timeout)
	defer cancel()
	det, err := h.Reservations.Create(ctx, userID, service.CreateReservationInput{
		TableID:    req.TableID,
		ReservedAt: at,
		PartySize:  req.PartySize,
		Note:       req.Note,
	})
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusCreated, echo.Map{"item": det})
}

// ListReservations handles GET /v1/my-reservations.
func (h *CustomerHandler) ListReservations(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return unauthorized(c)
	}
	ctx, cancel := requestContext(c, h.Timeout)
	defer cancel()
	items, err := h.Reservations.ListForCustomer(ctx, userID)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"items": items})
}

// GetReservation handles GET /v1/reservations/:id.
func (h *CustomerHandler) GetReservation(c echo.Context) error {
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

// CancelReservation handles POST /v1/reservations/:id/cancel.  The table is
// released in the same transaction.
func (h *CustomerHandler) CancelReservation(c echo.Context) error {
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
	det, err := h.Reservations.Cancel(ctx, actor, id)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"item": det})
}
