// Package repository defines error types that are reused across multiple
// repositories.  These sentinel values let the service layer tell failure
// scenarios apart without looking at driver errors.
package repository

import (
	"errors"

	"github.com/go-sql-driver/mysql"
)

var (
	// ErrForbidden is returned when the caller attempts an operation on a
	// resource owned by someone else.
	ErrForbidden = errors.New("forbidden")

	// ErrConflict signals that an operation cannot proceed because of
	// dependent state, such as deleting a table that is currently held.
	ErrConflict = errors.New("conflict")

	// ErrDuplicate wraps MySQL error 1062 (unique key violation).
	ErrDuplicate = errors.New("duplicate entry")

	ErrUserNotFound        = errors.New("user not found")
	ErrRestaurantNotFound  = errors.New("restaurant not found")
	ErrTableNotFound       = errors.New("table not found")
	ErrReservationNotFound = errors.New("reservation not found")
	ErrFavoriteNotFound    = errors.New("favorite not found")
)

// mysqlDuplicateEntry is ER_DUP_ENTRY.
const mysqlDuplicateEntry = 1062

// isDuplicate reports whether err is a unique key violation.
func isDuplicate(err error) bool {
	var me *mysql.MySQLError
	return errors.As(err, &me) && me.Number == mysqlDuplicateEntry
}
