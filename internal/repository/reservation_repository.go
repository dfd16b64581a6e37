package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/v1ih/quick-table-sub000/internal/model"
)

// ReservationRepo provides data access for reservations.  Writes always run
// inside a transaction owned by the service layer; reads used for listings
// go straight to the pool.  All timestamps are stored in UTC.
type ReservationRepo struct {
	db *sqlx.DB
}

func NewReservationRepo(db *sqlx.DB) *ReservationRepo { return &ReservationRepo{db: db} }

const reservationColumns = "id, table_id, customer_id, reserved_at, party_size, note, status, created_at, updated_at"

// detailSelect joins a reservation with its table and restaurant.
const detailSelect = `SELECT rv.id, rv.table_id, rv.customer_id, rv.reserved_at, rv.party_size, rv.note,
       rv.status, rv.created_at, rv.updated_at,
       t.number AS table_number, t.description AS table_description,
       rs.id AS restaurant_id, rs.name AS restaurant_name, rs.owner_id AS restaurant_owner_id
FROM reservations rv
JOIN restaurant_tables t ON t.id = rv.table_id
JOIN restaurants rs ON rs.id = t.restaurant_id`

// CreateTx inserts a reservation and reads the row back so the generated ID
// and timestamps are populated.  The caller commits or rolls back.
func (r *ReservationRepo) CreateTx(ctx context.Context, tx *sqlx.Tx, res *model.Reservation) error {
	const q = `INSERT INTO reservations (table_id, customer_id, reserved_at, party_size, note, status)
	           VALUES (?, ?, ?, ?, ?, ?)`
	result, err := tx.ExecContext(ctx, q, res.TableID, res.CustomerID, res.ReservedAt, res.PartySize, res.Note, res.Status)
	if err != nil {
		return fmt.Errorf("insert reservation: %w", err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return err
	}
	if err := tx.GetContext(ctx, res, "SELECT "+reservationColumns+" FROM reservations WHERE id = ?", id); err != nil {
		return fmt.Errorf("reload reservation: %w", err)
	}
	return nil
}

// GetForUpdateTx loads a reservation and takes a row lock on it so that
// concurrent transitions of the same reservation serialize.
func (r *ReservationRepo) GetForUpdateTx(ctx context.Context, tx *sqlx.Tx, id uint64) (*model.Reservation, error) {
	var res model.Reservation
	err := tx.GetContext(ctx, &res, "SELECT "+reservationColumns+" FROM reservations WHERE id = ? FOR UPDATE", id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrReservationNotFound
		}
		return nil, fmt.Errorf("lock reservation: %w", err)
	}
	return &res, nil
}

// GetDetail returns a reservation joined with table and restaurant fields.
func (r *ReservationRepo) GetDetail(ctx context.Context, id uint64) (*model.ReservationDetail, error) {
	return getDetail(ctx, r.db, id)
}

// GetDetailTx is GetDetail inside the caller's transaction.
func (r *ReservationRepo) GetDetailTx(ctx context.Context, tx *sqlx.Tx, id uint64) (*model.ReservationDetail, error) {
	return getDetail(ctx, tx, id)
}

func getDetail(ctx context.Context, q sqlx.QueryerContext, id uint64) (*model.ReservationDetail, error) {
	var det model.ReservationDetail
	if err := sqlx.GetContext(ctx, q, &det, detailSelect+" WHERE rv.id = ?", id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrReservationNotFound
		}
		return nil, fmt.Errorf("get reservation: %w", err)
	}
	return &det, nil
}

// ListByCustomer returns the customer's reservations, newest slot first.
func (r *ReservationRepo) ListByCustomer(ctx context.Context, customerID uint64) ([]model.ReservationDetail, error) {
	out := []model.ReservationDetail{}
	q := detailSelect + " WHERE rv.customer_id = ? ORDER BY rv.reserved_at DESC, rv.id DESC"
	if err := r.db.SelectContext(ctx, &out, q, customerID); err != nil {
		return nil, fmt.Errorf("list customer reservations: %w", err)
	}
	return out, nil
}

// ListByRestaurant returns all reservations on the restaurant's tables.
func (r *ReservationRepo) ListByRestaurant(ctx context.Context, restaurantID uint64) ([]model.ReservationDetail, error) {
	out := []model.ReservationDetail{}
	q := detailSelect + " WHERE rs.id = ? ORDER BY rv.reserved_at DESC, rv.id DESC"
	if err := r.db.SelectContext(ctx, &out, q, restaurantID); err != nil {
		return nil, fmt.Errorf("list restaurant reservations: %w", err)
	}
	return out, nil
}

// UpdateStatusGuardTx moves a reservation from -> to only if it is still in
// from.  It returns the number of rows changed; zero means the status moved
// underneath the caller.
func (r *ReservationRepo) UpdateStatusGuardTx(ctx context.Context, tx *sqlx.Tx, id uint64, from, to model.ReservationStatus) (int64, error) {
	const q = `UPDATE reservations SET status = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ? AND status = ?`
	res, err := tx.ExecContext(ctx, q, to, id, from)
	if err != nil {
		return 0, fmt.Errorf("update reservation status: %w", err)
	}
	return res.RowsAffected()
}
