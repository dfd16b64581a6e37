package handler

import (
	"context"
	"io"
	"net/http/httptest"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/mock"

	"github.com/v1ih/quick-table-sub000/internal/middleware"
	"github.com/v1ih/quick-table-sub000/internal/model"
	"github.com/v1ih/quick-table-sub000/internal/service"
)

type mockReservations struct{ mock.Mock }

func (m *mockReservations) Create(ctx context.Context, customerID uint64, in service.CreateReservationInput) (*model.ReservationDetail, error) {
	args := m.Called(ctx, customerID, in)
	det, _ := args.Get(0).(*model.ReservationDetail)
	return det, args.Error(1)
}

func (m *mockReservations) Transition(ctx context.Context, actor model.Actor, id uint64, target string) (*model.ReservationDetail, error) {
	args := m.Called(ctx, actor, id, target)
	det, _ := args.Get(0).(*model.ReservationDetail)
	return det, args.Error(1)
}

func (m *mockReservations) Cancel(ctx context.Context, actor model.Actor, id uint64) (*model.ReservationDetail, error) {
	args := m.Called(ctx, actor, id)
	det, _ := args.Get(0).(*model.ReservationDetail)
	return det, args.Error(1)
}

func (m *mockReservations) Get(ctx context.Context, actor model.Actor, id uint64) (*model.ReservationDetail, error) {
	args := m.Called(ctx, actor, id)
	det, _ := args.Get(0).(*model.ReservationDetail)
	return det, args.Error(1)
}

func (m *mockReservations) ListForCustomer(ctx context.Context, customerID uint64) ([]model.ReservationDetail, error) {
	args := m.Called(ctx, customerID)
	items, _ := args.Get(0).([]model.ReservationDetail)
	return items, args.Error(1)
}

func (m *mockReservations) ListForRestaurant(ctx context.Context, ownerID, restaurantID uint64) ([]model.ReservationDetail, error) {
	args := m.Called(ctx, ownerID, restaurantID)
	items, _ := args.Get(0).([]model.ReservationDetail)
	return items, args.Error(1)
}

type mockTables struct{ mock.Mock }

func (m *mockTables) ListAvailable(ctx context.Context, restaurantID uint64) ([]model.Table, error) {
	args := m.Called(ctx, restaurantID)
	items, _ := args.Get(0).([]model.Table)
	return items, args.Error(1)
}

func (m *mockTables) ListForRestaurant(ctx context.Context, ownerID, restaurantID uint64) ([]model.Table, error) {
	args := m.Called(ctx, ownerID, restaurantID)
	items, _ := args.Get(0).([]model.Table)
	return items, args.Error(1)
}

func (m *mockTables) Create(ctx context.Context, ownerID, restaurantID uint64, in service.TableInput) (*model.Table, error) {
	args := m.Called(ctx, ownerID, restaurantID, in)
	t, _ := args.Get(0).(*model.Table)
	return t, args.Error(1)
}

func (m *mockTables) Update(ctx context.Context, ownerID, tableID uint64, in service.TableInput) (*model.Table, error) {
	args := m.Called(ctx, ownerID, tableID, in)
	t, _ := args.Get(0).(*model.Table)
	return t, args.Error(1)
}

func (m *mockTables) Delete(ctx context.Context, ownerID, tableID uint64) error {
	return m.Called(ctx, ownerID, tableID).Error(0)
}

type mockRestaurants struct{ mock.Mock }

func (m *mockRestaurants) Create(ctx context.Context, ownerID uint64, in service.RestaurantInput) (*model.Restaurant, error) {
	args := m.Called(ctx, ownerID, in)
	r, _ := args.Get(0).(*model.Restaurant)
	return r, args.Error(1)
}

func (m *mockRestaurants) Update(ctx context.Context, ownerID, id uint64, in service.RestaurantInput) (*model.Restaurant, error) {
	args := m.Called(ctx, ownerID, id, in)
	r, _ := args.Get(0).(*model.Restaurant)
	return r, args.Error(1)
}

func (m *mockRestaurants) Delete(ctx context.Context, ownerID, id uint64) error {
	return m.Called(ctx, ownerID, id).Error(0)
}

func (m *mockRestaurants) Get(ctx context.Context, id uint64) (*model.Restaurant, error) {
	args := m.Called(ctx, id)
	r, _ := args.Get(0).(*model.Restaurant)
	return r, args.Error(1)
}

func (m *mockRestaurants) GetByOwner(ctx context.Context, ownerID uint64) (*model.Restaurant, error) {
	args := m.Called(ctx, ownerID)
	r, _ := args.Get(0).(*model.Restaurant)
	return r, args.Error(1)
}

func (m *mockRestaurants) List(ctx context.Context) ([]model.Restaurant, error) {
	args := m.Called(ctx)
	items, _ := args.Get(0).([]model.Restaurant)
	return items, args.Error(1)
}

func (m *mockRestaurants) Search(ctx context.Context, in service.RestaurantSearch) (*service.SearchPage, error) {
	args := m.Called(ctx, in)
	p, _ := args.Get(0).(*service.SearchPage)
	return p, args.Error(1)
}

type mockRatings struct{ mock.Mock }

func (m *mockRatings) Create(ctx context.Context, customerID, reservationID uint64, in service.RatingInput) (*model.Rating, error) {
	args := m.Called(ctx, customerID, reservationID, in)
	r, _ := args.Get(0).(*model.Rating)
	return r, args.Error(1)
}

func (m *mockRatings) ListForRestaurant(ctx context.Context, restaurantID uint64) (*model.RatingSummary, error) {
	args := m.Called(ctx, restaurantID)
	s, _ := args.Get(0).(*model.RatingSummary)
	return s, args.Error(1)
}

type mockFavorites struct{ mock.Mock }

func (m *mockFavorites) Add(ctx context.Context, customerID, restaurantID uint64) error {
	return m.Called(ctx, customerID, restaurantID).Error(0)
}

func (m *mockFavorites) Remove(ctx context.Context, customerID, restaurantID uint64) error {
	return m.Called(ctx, customerID, restaurantID).Error(0)
}

func (m *mockFavorites) List(ctx context.Context, customerID uint64) ([]model.FavoriteDetail, error) {
	args := m.Called(ctx, customerID)
	items, _ := args.Get(0).([]model.FavoriteDetail)
	return items, args.Error(1)
}

type mockUsers struct{ mock.Mock }

func (m *mockUsers) Create(ctx context.Context, email, name, password, role string, cost int) (uint64, error) {
	args := m.Called(ctx, email, name, password, role, cost)
	return args.Get(0).(uint64), args.Error(1)
}

func (m *mockUsers) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	args := m.Called(ctx, email)
	u, _ := args.Get(0).(*model.User)
	return u, args.Error(1)
}

func (m *mockUsers) GetByID(ctx context.Context, id uint64) (*model.User, error) {
	args := m.Called(ctx, id)
	u, _ := args.Get(0).(*model.User)
	return u, args.Error(1)
}

type mockTokens struct{ mock.Mock }

func (m *mockTokens) StoreRefresh(ctx context.Context, userID uint64, tokenHash string, exp time.Time) error {
	return m.Called(ctx, userID, tokenHash, exp).Error(0)
}

func (m *mockTokens) ValidateRefresh(ctx context.Context, tokenHash string) (uint64, error) {
	args := m.Called(ctx, tokenHash)
	return args.Get(0).(uint64), args.Error(1)
}

func (m *mockTokens) RevokeByHash(ctx context.Context, tokenHash string) error {
	return m.Called(ctx, tokenHash).Error(0)
}

func (m *mockTokens) RevokeAllForUser(ctx context.Context, userID uint64) error {
	return m.Called(ctx, userID).Error(0)
}

// call builds a request context for a handler invocation.  body may be empty.
// userID 0 leaves the request unauthenticated.
func call(method, target, body string, userID uint64, role string, params ...string) (echo.Context, *httptest.ResponseRecorder) {
	var r io.Reader
	if body != "" {
		r = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, r)
	if body != "" {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	rec := httptest.NewRecorder()
	c := echo.New().NewContext(req, rec)
	if userID != 0 {
		c.Set(middleware.ContextUserID, userID)
		c.Set(middleware.ContextRole, role)
	}
	if len(params) > 0 {
		var names, values []string
		for i := 0; i+1 < len(params); i += 2 {
			names = append(names, params[i])
			values = append(values, params[i+1])
		}
		c.SetParamNames(names...)
		c.SetParamValues(values...)
	}
	return c, rec
}

func svcErr(kind service.Kind, code string) error {
	return &service.Error{Kind: kind, Code: code, Message: strings.ToLower(code)}
}

var anyCtx = mock.Anything
