package service

import (
	"context"
	"errors"

	"github.com/v1ih/quick-table-sub000/internal/model"
	"github.com/v1ih/quick-table-sub000/internal/repository"
)

// FavoriteService keeps the customer's bookmarked restaurants.
type FavoriteService struct {
	favorites   *repository.FavoriteRepo
	restaurants *repository.RestaurantRepo
}

func NewFavoriteService(favorites *repository.FavoriteRepo, restaurants *repository.RestaurantRepo) *FavoriteService {
	return &FavoriteService{favorites: favorites, restaurants: restaurants}
}

func (s *FavoriteService) Add(ctx context.Context, customerID, restaurantID uint64) error {
	if _, err := s.restaurants.GetByID(ctx, restaurantID); err != nil {
		if errors.Is(err, repository.ErrRestaurantNotFound) {
			return errRestaurantNotFound(restaurantID)
		}
		return internal("load restaurant", err)
	}
	if err := s.favorites.Add(ctx, customerID, restaurantID); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return newError(KindConflict, CodeFavoriteExists, "restaurant already in favorites")
		}
		return internal("add favorite", err)
	}
	return nil
}

func (s *FavoriteService) Remove(ctx context.Context, customerID, restaurantID uint64) error {
	if err := s.favorites.Remove(ctx, customerID, restaurantID); err != nil {
		if errors.Is(err, repository.ErrFavoriteNotFound) {
			return newError(KindNotFound, CodeFavoriteNotFound, "restaurant not in favorites")
		}
		return internal("remove favorite", err)
	}
	return nil
}

func (s *FavoriteService) List(ctx context.Context, customerID uint64) ([]model.FavoriteDetail, error) {
	out, err := s.favorites.ListByCustomer(ctx, customerID)
	if err != nil {
		return nil, internal("list favorites", err)
	}
	return out, nil
}
