package service

import (
	"context"
	"errors"
	"strings"

	"github.com/v1ih/quick-table-sub000/internal/model"
	"github.com/v1ih/quick-table-sub000/internal/repository"
)

// RestaurantService registers and maintains restaurants.  An owner has at
// most one restaurant.
type RestaurantService struct {
	restaurants *repository.RestaurantRepo
}

func NewRestaurantService(restaurants *repository.RestaurantRepo) *RestaurantService {
	return &RestaurantService{restaurants: restaurants}
}

// RestaurantInput carries the owner-editable fields.  On update, empty
// fields keep their current value.
type RestaurantInput struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Address     string `json:"address"`
	Phone       string `json:"phone"`
	OpensAt     string `json:"opens_at"`
	ClosesAt    string `json:"closes_at"`
}

func (in *RestaurantInput) normalize() {
	in.Name = strings.TrimSpace(in.Name)
	in.Description = strings.TrimSpace(in.Description)
	in.Address = strings.TrimSpace(in.Address)
	in.Phone = strings.TrimSpace(in.Phone)
	in.OpensAt = strings.TrimSpace(in.OpensAt)
	in.ClosesAt = strings.TrimSpace(in.ClosesAt)
}

// validHours parses both clocks.  Equal clocks are rejected; opens after
// closes is an overnight window.
func validHours(opens, closes string) (string, string, error) {
	o, err := model.ParseClock(opens)
	if err != nil {
		return "", "", invalid("opens_at: %v", err)
	}
	c, err := model.ParseClock(closes)
	if err != nil {
		return "", "", invalid("closes_at: %v", err)
	}
	if o == c {
		return "", "", invalid("opens_at and closes_at must differ")
	}
	return o, c, nil
}

// Create registers the owner's restaurant.
func (s *RestaurantService) Create(ctx context.Context, ownerID uint64, in RestaurantInput) (*model.Restaurant, error) {
	in.normalize()
	if in.Name == "" {
		return nil, invalid("name is required")
	}
	opens, closes, err := validHours(in.OpensAt, in.ClosesAt)
	if err != nil {
		return nil, err
	}
	if _, err := s.restaurants.GetByOwner(ctx, ownerID); err == nil {
		return nil, errRestaurantExists()
	} else if !errors.Is(err, repository.ErrRestaurantNotFound) {
		return nil, internal("load restaurant", err)
	}

	rest := &model.Restaurant{
		OwnerID:     ownerID,
		Name:        in.Name,
		Description: in.Description,
		Address:     in.Address,
		Phone:       in.Phone,
		OpensAt:     opens,
		ClosesAt:    closes,
	}
	if err := s.restaurants.Create(ctx, rest); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, errRestaurantExists()
		}
		return nil, internal("create restaurant", err)
	}
	return rest, nil
}

// Update edits the owner's restaurant.
func (s *RestaurantService) Update(ctx context.Context, ownerID, id uint64, in RestaurantInput) (*model.Restaurant, error) {
	in.normalize()
	rest, err := ownedRestaurant(ctx, s.restaurants, ownerID, id)
	if err != nil {
		return nil, err
	}
	if in.Name != "" {
		rest.Name = in.Name
	}
	if in.Description != "" {
		rest.Description = in.Description
	}
	if in.Address != "" {
		rest.Address = in.Address
	}
	if in.Phone != "" {
		rest.Phone = in.Phone
	}
	hours := rest.Hours()
	if in.OpensAt != "" {
		hours.Opens = in.OpensAt
	}
	if in.ClosesAt != "" {
		hours.Closes = in.ClosesAt
	}
	if rest.OpensAt, rest.ClosesAt, err = validHours(hours.Opens, hours.Closes); err != nil {
		return nil, err
	}

	if err := s.restaurants.Update(ctx, rest); err != nil {
		if errors.Is(err, repository.ErrRestaurantNotFound) {
			return nil, errRestaurantNotFound(id)
		}
		return nil, internal("update restaurant", err)
	}
	updated, err := s.restaurants.GetByID(ctx, id)
	if err != nil {
		return nil, internal("reload restaurant", err)
	}
	return updated, nil
}

// Delete removes the owner's restaurant with its tables, reservations,
// ratings and favorites.
func (s *RestaurantService) Delete(ctx context.Context, ownerID, id uint64) error {
	err := s.restaurants.DeleteByIDAndOwner(ctx, id, ownerID)
	switch {
	case err == nil:
		return nil
	case errors.Is(err, repository.ErrRestaurantNotFound):
		return errRestaurantNotFound(id)
	case errors.Is(err, repository.ErrForbidden):
		return forbidden("restaurant belongs to another owner")
	}
	return internal("delete restaurant", err)
}

// Get returns a restaurant by id.
func (s *RestaurantService) Get(ctx context.Context, id uint64) (*model.Restaurant, error) {
	rest, err := s.restaurants.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrRestaurantNotFound) {
			return nil, errRestaurantNotFound(id)
		}
		return nil, internal("load restaurant", err)
	}
	return rest, nil
}

// GetByOwner returns the restaurant registered by ownerID.
func (s *RestaurantService) GetByOwner(ctx context.Context, ownerID uint64) (*model.Restaurant, error) {
	rest, err := s.restaurants.GetByOwner(ctx, ownerID)
	if err != nil {
		if errors.Is(err, repository.ErrRestaurantNotFound) {
			return nil, newError(KindNotFound, CodeRestaurantNotFound, "no restaurant registered yet")
		}
		return nil, internal("load restaurant", err)
	}
	return rest, nil
}

// List returns all restaurants.
func (s *RestaurantService) List(ctx context.Context) ([]model.Restaurant, error) {
	out, err := s.restaurants.ListAll(ctx)
	if err != nil {
		return nil, internal("list restaurants", err)
	}
	return out, nil
}

func errRestaurantExists() *Error {
	return newError(KindConflict, CodeRestaurantExists, "owner already has a restaurant")
}

// RestaurantSearch holds the public search filters.  OpenAt is an "HH:MM"
// clock; PartySize asks for a currently available table at least that large.
type RestaurantSearch struct {
	Name      string
	Address   string
	OpenAt    string
	PartySize uint32
	Page      int
	PageSize  int
}

const (
	defaultPageSize = 20
	maxPageSize     = 100
)

// SearchPage is one page of search results.
type SearchPage struct {
	Items    []model.Restaurant `json:"items"`
	Total    int64              `json:"total"`
	Page     int                `json:"page"`
	PageSize int                `json:"page_size"`
}

// Search filters restaurants by name, address, opening time and free
// capacity.  Page defaults to 1 and PageSize to 20, capped at 100.
func (s *RestaurantService) Search(ctx context.Context, in RestaurantSearch) (*SearchPage, error) {
	q := repository.RestaurantSearchQuery{
		Name:      strings.TrimSpace(in.Name),
		Address:   strings.TrimSpace(in.Address),
		PartySize: in.PartySize,
		Page:      in.Page,
		PageSize:  in.PageSize,
	}
	if at := strings.TrimSpace(in.OpenAt); at != "" {
		clock, err := model.ParseClock(at)
		if err != nil {
			return nil, invalid("open_at: %v", err)
		}
		q.OpenAt = clock
	}
	if q.Page < 1 {
		q.Page = 1
	}
	if q.PageSize < 1 {
		q.PageSize = defaultPageSize
	}
	if q.PageSize > maxPageSize {
		q.PageSize = maxPageSize
	}
	items, total, err := s.restaurants.Search(ctx, q)
	if err != nil {
		return nil, internal("search restaurants", err)
	}
	return &SearchPage{Items: items, Total: total, Page: q.Page, PageSize: q.PageSize}, nil
}
