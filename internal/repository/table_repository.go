package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/v1ih/quick-table-sub000/internal/model"
)

const tableColumns = "id, restaurant_id, number, capacity, description, available, created_at, updated_at"

// TableRepo manages the restaurant_tables table.  The available flag is only
// flipped through MarkUnavailableTx and MarkAvailableTx so that every change
// happens inside a reservation transaction.
type TableRepo struct {
	db *sqlx.DB
}

func NewTableRepo(db *sqlx.DB) *TableRepo { return &TableRepo{db: db} }

// Create inserts a table (available by default) and reloads it.  A number
// already used in the same restaurant yields ErrDuplicate.
func (r *TableRepo) Create(ctx context.Context, t *model.Table) error {
	const q = `INSERT INTO restaurant_tables (restaurant_id, number, capacity, description, available)
	           VALUES (?, ?, ?, ?, 1)`
	res, err := r.db.ExecContext(ctx, q, t.RestaurantID, t.Number, t.Capacity, t.Description)
	if err != nil {
		if isDuplicate(err) {
			return ErrDuplicate
		}
		return fmt.Errorf("insert table: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	created, err := r.GetByID(ctx, uint64(id))
	if err != nil {
		return err
	}
	*t = *created
	return nil
}

// GetByID fetches a table by id.
func (r *TableRepo) GetByID(ctx context.Context, id uint64) (*model.Table, error) {
	return getTable(ctx, r.db, id)
}

// GetByIDTx is GetByID inside the caller's transaction.
func (r *TableRepo) GetByIDTx(ctx context.Context, tx *sqlx.Tx, id uint64) (*model.Table, error) {
	return getTable(ctx, tx, id)
}

func getTable(ctx context.Context, q sqlx.QueryerContext, id uint64) (*model.Table, error) {
	var t model.Table
	if err := sqlx.GetContext(ctx, q, &t, "SELECT "+tableColumns+" FROM restaurant_tables WHERE id = ?", id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrTableNotFound
		}
		return nil, fmt.Errorf("get table: %w", err)
	}
	return &t, nil
}

// ListByRestaurant returns all tables of a restaurant ordered by number.
func (r *TableRepo) ListByRestaurant(ctx context.Context, restaurantID uint64) ([]model.Table, error) {
	out := []model.Table{}
	const q = "SELECT " + tableColumns + " FROM restaurant_tables WHERE restaurant_id = ? ORDER BY number"
	if err := r.db.SelectContext(ctx, &out, q, restaurantID); err != nil {
		return nil, fmt.Errorf("list tables: %w", err)
	}
	return out, nil
}

// ListAvailableByRestaurant returns the bookable tables of a restaurant.
// It always reads the primary store; nothing caches this view.
func (r *TableRepo) ListAvailableByRestaurant(ctx context.Context, restaurantID uint64) ([]model.Table, error) {
	out := []model.Table{}
	const q = "SELECT " + tableColumns + " FROM restaurant_tables WHERE restaurant_id = ? AND available = 1 ORDER BY number"
	if err := r.db.SelectContext(ctx, &out, q, restaurantID); err != nil {
		return nil, fmt.Errorf("list available tables: %w", err)
	}
	return out, nil
}

// Update overwrites number, capacity and description.
func (r *TableRepo) Update(ctx context.Context, t *model.Table) error {
	const q = `UPDATE restaurant_tables
	           SET number = ?, capacity = ?, description = ?, updated_at = CURRENT_TIMESTAMP
	           WHERE id = ?`
	res, err := r.db.ExecContext(ctx, q, t.Number, t.Capacity, t.Description, t.ID)
	if err != nil {
		if isDuplicate(err) {
			return ErrDuplicate
		}
		return fmt.Errorf("update table: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrTableNotFound
	}
	return nil
}

// MarkUnavailableTx claims the table for a new reservation.  The WHERE
// clause makes the check and the write one atomic statement: of several
// concurrent callers exactly one sees a row affected.  claimed is false
// when the table was already held.
func (r *TableRepo) MarkUnavailableTx(ctx context.Context, tx *sqlx.Tx, id uint64) (claimed bool, err error) {
	const q = `UPDATE restaurant_tables SET available = 0, updated_at = CURRENT_TIMESTAMP
	           WHERE id = ? AND available = 1`
	res, err := tx.ExecContext(ctx, q, id)
	if err != nil {
		return false, fmt.Errorf("claim table %d: %w", id, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n == 1, nil
}

// MarkAvailableTx releases the table.  It is unconditional.
func (r *TableRepo) MarkAvailableTx(ctx context.Context, tx *sqlx.Tx, id uint64) error {
	const q = `UPDATE restaurant_tables SET available = 1, updated_at = CURRENT_TIMESTAMP WHERE id = ?`
	if _, err := tx.ExecContext(ctx, q, id); err != nil {
		return fmt.Errorf("release table %d: %w", id, err)
	}
	return nil
}

// Delete removes a table and its finished reservations and ratings.  The
// table row is locked first so no admission can claim it meanwhile; a held
// table yields ErrConflict.
func (r *TableRepo) Delete(ctx context.Context, id uint64) (err error) {
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

	var available bool
	if err = tx.GetContext(ctx, &available, `SELECT available FROM restaurant_tables WHERE id = ? FOR UPDATE`, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ErrTableNotFound
		}
		return err
	}
	if !available {
		return ErrConflict
	}
	cascade := []string{
		`DELETE ra FROM ratings ra JOIN reservations rv ON rv.id = ra.reservation_id WHERE rv.table_id = ?`,
		`DELETE FROM reservations WHERE table_id = ?`,
		`DELETE FROM restaurant_tables WHERE id = ?`,
	}
	for _, q := range cascade {
		if _, err = tx.ExecContext(ctx, q, id); err != nil {
			return fmt.Errorf("delete table %d: %w", id, err)
		}
	}
	return nil
}
