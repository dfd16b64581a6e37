// Package repository contains data access logic separated from HTTP handlers
// and services.  This file covers restaurants: one per owner, carrying the
// operating hours checked at reservation admission.
package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/v1ih/quick-table-sub000/internal/model"
)

const restaurantColumns = "id, owner_id, name, description, address, phone, opens_at, closes_at, created_at, updated_at"

// RestaurantRepo encapsulates all queries related to restaurants.
type RestaurantRepo struct {
	db *sqlx.DB
}

func NewRestaurantRepo(db *sqlx.DB) *RestaurantRepo {
	return &RestaurantRepo{db: db}
}

// Create inserts a restaurant and reloads it so defaults and timestamps are
// populated.  A second restaurant for the same owner yields ErrDuplicate.
func (r *RestaurantRepo) Create(ctx context.Context, rest *model.Restaurant) error {
	const q = `INSERT INTO restaurants (owner_id, name, description, address, phone, opens_at, closes_at)
	           VALUES (?, ?, ?, ?, ?, ?, ?)`
	res, err := r.db.ExecContext(ctx, q,
		rest.OwnerID, rest.Name, rest.Description, rest.Address, rest.Phone, rest.OpensAt, rest.ClosesAt)
	if err != nil {
		if isDuplicate(err) {
			return ErrDuplicate
		}
		return fmt.Errorf("insert restaurant: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	created, err := r.GetByID(ctx, uint64(id))
	if err != nil {
		return err
	}
	*rest = *created
	return nil
}

// GetByID fetches a restaurant regardless of owner.
func (r *RestaurantRepo) GetByID(ctx context.Context, id uint64) (*model.Restaurant, error) {
	return getRestaurant(ctx, r.db, "SELECT "+restaurantColumns+" FROM restaurants WHERE id = ?", id)
}

// GetByIDTx is GetByID inside the caller's transaction.
func (r *RestaurantRepo) GetByIDTx(ctx context.Context, tx *sqlx.Tx, id uint64) (*model.Restaurant, error) {
	return getRestaurant(ctx, tx, "SELECT "+restaurantColumns+" FROM restaurants WHERE id = ?", id)
}

// GetByOwner returns the restaurant registered by ownerID.
func (r *RestaurantRepo) GetByOwner(ctx context.Context, ownerID uint64) (*model.Restaurant, error) {
	return getRestaurant(ctx, r.db, "SELECT "+restaurantColumns+" FROM restaurants WHERE owner_id = ?", ownerID)
}

func getRestaurant(ctx context.Context, q sqlx.QueryerContext, query string, arg any) (*model.Restaurant, error) {
	var rest model.Restaurant
	if err := sqlx.GetContext(ctx, q, &rest, query, arg); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrRestaurantNotFound
		}
		return nil, fmt.Errorf("get restaurant: %w", err)
	}
	return &rest, nil
}

// ListAll returns every restaurant ordered by name for public browsing.
func (r *RestaurantRepo) ListAll(ctx context.Context) ([]model.Restaurant, error) {
	out := []model.Restaurant{}
	if err := r.db.SelectContext(ctx, &out, "SELECT "+restaurantColumns+" FROM restaurants ORDER BY name, id"); err != nil {
		return nil, fmt.Errorf("list restaurants: %w", err)
	}
	return out, nil
}

// Update overwrites the editable fields when the restaurant belongs to the
// owner.  The DSN sets clientFoundRows, so an unchanged row still counts
// as matched and zero rows means not found or not owned.
func (r *RestaurantRepo) Update(ctx context.Context, rest *model.Restaurant) error {
	const q = `UPDATE restaurants
	           SET name = ?, description = ?, address = ?, phone = ?, opens_at = ?, closes_at = ?,
	               updated_at = CURRENT_TIMESTAMP
	           WHERE id = ? AND owner_id = ?`
	res, err := r.db.ExecContext(ctx, q,
		rest.Name, rest.Description, rest.Address, rest.Phone, rest.OpensAt, rest.ClosesAt,
		rest.ID, rest.OwnerID)
	if err != nil {
		return fmt.Errorf("update restaurant: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrRestaurantNotFound
	}
	return nil
}

// DeleteByIDAndOwner removes a restaurant together with its tables, their
// reservations, ratings and favorites in one transaction.  ErrForbidden is
// returned when the restaurant belongs to someone else.
func (r *RestaurantRepo) DeleteByIDAndOwner(ctx context.Context, id, ownerID uint64) (err error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
			return
		}
		err = tx.Commit()
	}()

	var dbOwnerID uint64
	if err = tx.GetContext(ctx, &dbOwnerID, `SELECT owner_id FROM restaurants WHERE id = ? FOR UPDATE`, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ErrRestaurantNotFound
		}
		return err
	}
	if dbOwnerID != ownerID {
		return ErrForbidden
	}
	cascade := []string{
		`DELETE FROM ratings WHERE restaurant_id = ?`,
		`DELETE FROM favorites WHERE restaurant_id = ?`,
		`DELETE rv FROM reservations rv
		 JOIN restaurant_tables t ON t.id = rv.table_id
		 WHERE t.restaurant_id = ?`,
		`DELETE FROM restaurant_tables WHERE restaurant_id = ?`,
		`DELETE FROM restaurants WHERE id = ?`,
	}
	for _, q := range cascade {
		if _, err = tx.ExecContext(ctx, q, id); err != nil {
			return fmt.Errorf("delete restaurant %d: %w", id, err)
		}
	}
	return nil
}
