package service

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/v1ih/quick-table-sub000/internal/queue"
	"github.com/v1ih/quick-table-sub000/internal/repository"
)

var (
	fixedNow = time.Date(2024, 5, 30, 12, 0, 0, 0, time.UTC)

	tableCols      = []string{"id", "restaurant_id", "number", "capacity", "description", "available", "created_at", "updated_at"}
	restaurantCols = []string{"id", "owner_id", "name", "description", "address", "phone", "opens_at", "closes_at", "created_at", "updated_at"}
	reservationCols = []string{"id", "table_id", "customer_id", "reserved_at", "party_size", "note", "status", "created_at", "updated_at"}
	detailCols      = append(append([]string{}, reservationCols...),
		"table_number", "table_description", "restaurant_id", "restaurant_name", "restaurant_owner_id")
	ratingCols = []string{"id", "reservation_id", "restaurant_id", "customer_id", "score", "comment", "created_at"}
)

func newMockDB(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock) {
	t.Helper()
	mockDB, m, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = mockDB.Close() })
	return sqlx.NewDb(mockDB, "mysql"), m
}

func tableRows(id, restaurantID uint64, number, capacity uint32, available bool) *sqlmock.Rows {
	return sqlmock.NewRows(tableCols).
		AddRow(id, restaurantID, number, capacity, "window", available, fixedNow, fixedNow)
}

func restaurantRows(id, ownerID uint64, opens, closes string) *sqlmock.Rows {
	return sqlmock.NewRows(restaurantCols).
		AddRow(id, ownerID, "Cantina", "", "Main St 1", "555-0100", opens, closes, fixedNow, fixedNow)
}

func reservationRows(id, tableID, customerID uint64, status string, at time.Time) *sqlmock.Rows {
	return sqlmock.NewRows(reservationCols).
		AddRow(id, tableID, customerID, at, 4, nil, status, fixedNow, fixedNow)
}

func detailRows(id, tableID, customerID uint64, status string, restaurantID, ownerID uint64) *sqlmock.Rows {
	at := time.Date(2024, 6, 1, 19, 0, 0, 0, time.UTC)
	return sqlmock.NewRows(detailCols).
		AddRow(id, tableID, customerID, at, 4, nil, status, fixedNow, fixedNow,
			3, "window", restaurantID, "Cantina", ownerID)
}

// mockPublisher records published events.
type mockPublisher struct{ mock.Mock }

func (m *mockPublisher) Publish(ctx context.Context, ev queue.ReservationEvent) error {
	args := m.Called(ctx, ev)
	return args.Error(0)
}

func newReservationService(db *sqlx.DB, pub EventPublisher) *ReservationService {
	s := NewReservationService(db,
		repository.NewTableRepo(db),
		repository.NewRestaurantRepo(db),
		repository.NewReservationRepo(db),
		pub)
	s.now = func() time.Time { return fixedNow }
	return s
}

func requireCode(t *testing.T, err error, code string) *Error {
	t.Helper()
	require.Error(t, err)
	se, ok := AsError(err)
	require.Truef(t, ok, "expected *service.Error, got %T: %v", err, err)
	require.Equal(t, code, se.Code, se.Message)
	return se
}
