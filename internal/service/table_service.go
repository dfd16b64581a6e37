package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/v1ih/quick-table-sub000/internal/model"
	"github.com/v1ih/quick-table-sub000/internal/repository"
)

// TableService manages a restaurant's tables and serves the availability
// view.
type TableService struct {
	tables      *repository.TableRepo
	restaurants *repository.RestaurantRepo
}

func NewTableService(tables *repository.TableRepo, restaurants *repository.RestaurantRepo) *TableService {
	return &TableService{tables: tables, restaurants: restaurants}
}

// TableInput holds the owner-editable fields of a table.
type TableInput struct {
	Number      uint32 `json:"number"`
	Capacity    uint32 `json:"capacity"`
	Description string `json:"description"`
}

func (in TableInput) validate() error {
	if in.Number == 0 {
		return invalid("number must be positive")
	}
	if in.Capacity == 0 {
		return invalid("capacity must be positive")
	}
	return nil
}

// ListAvailable returns the restaurant's tables that can be booked right
// now, ordered by number.  It reads committed state on every call.
func (s *TableService) ListAvailable(ctx context.Context, restaurantID uint64) ([]model.Table, error) {
	if _, err := s.restaurants.GetByID(ctx, restaurantID); err != nil {
		if errors.Is(err, repository.ErrRestaurantNotFound) {
			return nil, errRestaurantNotFound(restaurantID)
		}
		return nil, internal("load restaurant", err)
	}
	out, err := s.tables.ListAvailableByRestaurant(ctx, restaurantID)
	if err != nil {
		return nil, internal("list available tables", err)
	}
	return out, nil
}

// ListForRestaurant returns all tables of the owner's restaurant.
func (s *TableService) ListForRestaurant(ctx context.Context, ownerID, restaurantID uint64) ([]model.Table, error) {
	if _, err := ownedRestaurant(ctx, s.restaurants, ownerID, restaurantID); err != nil {
		return nil, err
	}
	out, err := s.tables.ListByRestaurant(ctx, restaurantID)
	if err != nil {
		return nil, internal("list tables", err)
	}
	return out, nil
}

// Create adds a table to the owner's restaurant.
func (s *TableService) Create(ctx context.Context, ownerID, restaurantID uint64, in TableInput) (*model.Table, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}
	if _, err := ownedRestaurant(ctx, s.restaurants, ownerID, restaurantID); err != nil {
		return nil, err
	}
	t := &model.Table{
		RestaurantID: restaurantID,
		Number:       in.Number,
		Capacity:     in.Capacity,
		Description:  strings.TrimSpace(in.Description),
	}
	if err := s.tables.Create(ctx, t); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, errTableNumberExists(in.Number)
		}
		return nil, internal("create table", err)
	}
	return t, nil
}

// Update edits number, capacity and description.  Availability is never
// touched here.
func (s *TableService) Update(ctx context.Context, ownerID, tableID uint64, in TableInput) (*model.Table, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}
	t, err := s.ownedTable(ctx, ownerID, tableID)
	if err != nil {
		return nil, err
	}
	t.Number = in.Number
	t.Capacity = in.Capacity
	t.Description = strings.TrimSpace(in.Description)
	if err := s.tables.Update(ctx, t); err != nil {
		switch {
		case errors.Is(err, repository.ErrDuplicate):
			return nil, errTableNumberExists(in.Number)
		case errors.Is(err, repository.ErrTableNotFound):
			return nil, errTableNotFound(tableID)
		}
		return nil, internal("update table", err)
	}
	updated, err := s.tables.GetByID(ctx, tableID)
	if err != nil {
		return nil, internal("reload table", err)
	}
	return updated, nil
}

// Delete removes a table that no active reservation holds.
func (s *TableService) Delete(ctx context.Context, ownerID, tableID uint64) error {
	if _, err := s.ownedTable(ctx, ownerID, tableID); err != nil {
		return err
	}
	if err := s.tables.Delete(ctx, tableID); err != nil {
		switch {
		case errors.Is(err, repository.ErrTableNotFound):
			return errTableNotFound(tableID)
		case errors.Is(err, repository.ErrConflict):
			return newError(KindConflict, CodeTableHeld,
				fmt.Sprintf("table %d is held by an active reservation", tableID))
		}
		return internal("delete table", err)
	}
	return nil
}

func (s *TableService) ownedTable(ctx context.Context, ownerID, tableID uint64) (*model.Table, error) {
	t, err := s.tables.GetByID(ctx, tableID)
	if err != nil {
		if errors.Is(err, repository.ErrTableNotFound) {
			return nil, errTableNotFound(tableID)
		}
		return nil, internal("load table", err)
	}
	if _, err := ownedRestaurant(ctx, s.restaurants, ownerID, t.RestaurantID); err != nil {
		return nil, err
	}
	return t, nil
}

func errTableNumberExists(n uint32) *Error {
	return newError(KindConflict, CodeTableNumberExists, fmt.Sprintf("table number %d already exists", n))
}
