package repository

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/v1ih/quick-table-sub000/internal/model"
)

const ratingColumns = "id, reservation_id, restaurant_id, customer_id, score, comment, created_at"

// RatingRepo stores ratings.  reservation_id carries a unique index, so a
// second rating for the same visit fails with ErrDuplicate even if two
// requests race past ExistsForReservationTx.
type RatingRepo struct {
	db *sqlx.DB
}

func NewRatingRepo(db *sqlx.DB) *RatingRepo { return &RatingRepo{db: db} }

// ExistsForReservationTx reports whether the reservation was already rated.
func (r *RatingRepo) ExistsForReservationTx(ctx context.Context, tx *sqlx.Tx, reservationID uint64) (bool, error) {
	var n int
	if err := tx.GetContext(ctx, &n, `SELECT COUNT(*) FROM ratings WHERE reservation_id = ?`, reservationID); err != nil {
		return false, fmt.Errorf("count ratings: %w", err)
	}
	return n > 0, nil
}

// CreateTx inserts the rating and reloads it.
func (r *RatingRepo) CreateTx(ctx context.Context, tx *sqlx.Tx, rt *model.Rating) error {
	const q = `INSERT INTO ratings (reservation_id, restaurant_id, customer_id, score, comment) VALUES (?, ?, ?, ?, ?)`
	res, err := tx.ExecContext(ctx, q, rt.ReservationID, rt.RestaurantID, rt.CustomerID, rt.Score, rt.Comment)
	if err != nil {
		if isDuplicate(err) {
			return ErrDuplicate
		}
		return fmt.Errorf("insert rating: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	return tx.GetContext(ctx, rt, "SELECT "+ratingColumns+" FROM ratings WHERE id = ?", id)
}

// ListByRestaurant returns a restaurant's ratings, newest first.
func (r *RatingRepo) ListByRestaurant(ctx context.Context, restaurantID uint64) ([]model.Rating, error) {
	out := []model.Rating{}
	q := "SELECT " + ratingColumns + " FROM ratings WHERE restaurant_id = ? ORDER BY created_at DESC, id DESC"
	if err := r.db.SelectContext(ctx, &out, q, restaurantID); err != nil {
		return nil, fmt.Errorf("list ratings: %w", err)
	}
	return out, nil
}
