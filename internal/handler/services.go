package handler

import (
	"context"

	"github.com/v1ih/quick-table-sub000/internal/model"
	"github.com/v1ih/quick-table-sub000/internal/service"
)

// The handlers depend on these interfaces; *service.XService values satisfy
// them.

type ReservationService interface {
	Create(ctx context.Context, customerID uint64, in service.CreateReservationInput) (*model.ReservationDetail, error)
	Transition(ctx context.Context, actor model.Actor, id uint64, target string) (*model.ReservationDetail, error)
	Cancel(ctx context.Context, actor model.Actor, id uint64) (*model.ReservationDetail, error)
	Get(ctx context.Context, actor model.Actor, id uint64) (*model.ReservationDetail, error)
	ListForCustomer(ctx context.Context, customerID uint64) ([]model.ReservationDetail, error)
	ListForRestaurant(ctx context.Context, ownerID, restaurantID uint64) ([]model.ReservationDetail, error)
}

type TableService interface {
	ListAvailable(ctx context.Context, restaurantID uint64) ([]model.Table, error)
	ListForRestaurant(ctx context.Context, ownerID, restaurantID uint64) ([]model.Table, error)
	Create(ctx context.Context, ownerID, restaurantID uint64, in service.TableInput) (*model.Table, error)
	Update(ctx context.Context, ownerID, tableID uint64, in service.TableInput) (*model.Table, error)
	Delete(ctx context.Context, ownerID, tableID uint64) error
}

type RestaurantService interface {
	Create(ctx context.Context, ownerID uint64, in service.RestaurantInput) (*model.Restaurant, error)
	Update(ctx context.Context, ownerID, id uint64, in service.RestaurantInput) (*model.Restaurant, error)
	Delete(ctx context.Context, ownerID, id uint64) error
	Get(ctx context.Context, id uint64) (*model.Restaurant, error)
	GetByOwner(ctx context.Context, ownerID uint64) (*model.Restaurant, error)
	List(ctx context.Context) ([]model.Restaurant, error)
	Search(ctx context.Context, in service.RestaurantSearch) (*service.SearchPage, error)
}

type RatingService interface {
	Create(ctx context.Context, customerID, reservationID uint64, in service.RatingInput) (*model.Rating, error)
	ListForRestaurant(ctx context.Context, restaurantID uint64) (*model.RatingSummary, error)
}

type FavoriteService interface {
	Add(ctx context.Context, customerID, restaurantID uint64) error
	Remove(ctx context.Context, customerID, restaurantID uint64) error
	List(ctx context.Context, customerID uint64) ([]model.FavoriteDetail, error)
}

var (
	_ ReservationService = (*service.ReservationService)(nil)
	_ TableService       = (*service.TableService)(nil)
	_ RestaurantService  = (*service.RestaurantService)(nil)
	_ RatingService      = (*service.RatingService)(nil)
	_ FavoriteService    = (*service.FavoriteService)(nil)
)
