package repository

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/v1ih/quick-table-sub000/internal/model"
)

// FavoriteRepo manages the (customer_id, restaurant_id) join table.
type FavoriteRepo struct {
	db *sqlx.DB
}

func NewFavoriteRepo(db *sqlx.DB) *FavoriteRepo { return &FavoriteRepo{db: db} }

// Add bookmarks a restaurant.  The pair is the primary key, so adding it
// twice yields ErrDuplicate.
func (r *FavoriteRepo) Add(ctx context.Context, customerID, restaurantID uint64) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO favorites (customer_id, restaurant_id) VALUES (?, ?)`, customerID, restaurantID)
	if err != nil {
		if isDuplicate(err) {
			return ErrDuplicate
		}
		return fmt.Errorf("insert favorite: %w", err)
	}
	return nil
}

// Remove deletes the bookmark or returns ErrFavoriteNotFound.
func (r *FavoriteRepo) Remove(ctx context.Context, customerID, restaurantID uint64) error {
	res, err := r.db.ExecContext(ctx,
		`DELETE FROM favorites WHERE customer_id = ? AND restaurant_id = ?`, customerID, restaurantID)
	if err != nil {
		return fmt.Errorf("delete favorite: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrFavoriteNotFound
	}
	return nil
}

// ListByCustomer returns the customer's favorites with restaurant summaries.
func (r *FavoriteRepo) ListByCustomer(ctx context.Context, customerID uint64) ([]model.FavoriteDetail, error) {
	out := []model.FavoriteDetail{}
	const q = `SELECT f.restaurant_id, rs.name, rs.address, rs.opens_at, rs.closes_at, f.created_at
	           FROM favorites f
	           JOIN restaurants rs ON rs.id = f.restaurant_id
	           WHERE f.customer_id = ?
	           ORDER BY f.created_at DESC`
	if err := r.db.SelectContext(ctx, &out, q, customerID); err != nil {
		return nil, fmt.Errorf("list favorites: %w", err)
	}
	return out, nil
}
