package service

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/v1ih/quick-table-sub000/internal/model"
	"github.com/v1ih/quick-table-sub000/internal/queue"
)

var (
	qSelectTable       = regexp.QuoteMeta("FROM restaurant_tables WHERE id = ?")
	qSelectRestaurant  = regexp.QuoteMeta("FROM restaurants WHERE id = ?")
	qClaimTable        = regexp.QuoteMeta("UPDATE restaurant_tables SET available = 0")
	qReleaseTable      = regexp.QuoteMeta("UPDATE restaurant_tables SET available = 1")
	qInsertReservation = regexp.QuoteMeta("INSERT INTO reservations")
	qReloadReservation = regexp.QuoteMeta("FROM reservations WHERE id = ?")
	qLockReservation   = regexp.QuoteMeta("FROM reservations WHERE id = ? FOR UPDATE")
	qDetail            = regexp.QuoteMeta("FROM reservations rv")
	qGuardStatus       = regexp.QuoteMeta("UPDATE reservations SET status = ?")
)

var dinner = time.Date(2024, 6, 1, 19, 0, 0, 0, time.UTC)

func TestCreate_Admits(t *testing.T) {
	db, m := newMockDB(t)
	pub := &mockPublisher{}
	pub.On("Publish", mock.Anything, mock.MatchedBy(func(ev queue.ReservationEvent) bool {
		return ev.Type == queue.EventReservationCreated && ev.ReservationID == 42 && ev.Status == "pending"
	})).Return(nil).Once()
	svc := newReservationService(db, pub)

	m.ExpectBegin()
	m.ExpectQuery(qSelectTable).WithArgs(7).WillReturnRows(tableRows(7, 9, 3, 4, true))
	m.ExpectQuery(qSelectRestaurant).WithArgs(9).WillReturnRows(restaurantRows(9, 100, "08:00", "22:00"))
	m.ExpectExec(qClaimTable).WithArgs(7).WillReturnResult(sqlmock.NewResult(0, 1))
	m.ExpectExec(qInsertReservation).
		WithArgs(7, 1, dinner, 4, nil, "pending").
		WillReturnResult(sqlmock.NewResult(42, 1))
	m.ExpectQuery(qReloadReservation).WithArgs(42).WillReturnRows(reservationRows(42, 7, 1, "pending", dinner))
	m.ExpectCommit()

	det, err := svc.Create(context.Background(), 1, CreateReservationInput{TableID: 7, ReservedAt: dinner, PartySize: 4})
	require.NoError(t, err)

	assert.Equal(t, uint64(42), det.ID)
	assert.Equal(t, model.StatusPending, det.Status)
	assert.Equal(t, uint32(3), det.TableNumber)
	assert.Equal(t, "window", det.TableDescription)
	assert.Equal(t, uint64(9), det.RestaurantID)
	assert.Equal(t, "Cantina", det.RestaurantName)
	assert.NoError(t, m.ExpectationsWereMet())
	pub.AssertExpectations(t)
}

func TestCreate_KeepsWallClockOfRequest(t *testing.T) {
	db, m := newMockDB(t)
	svc := newReservationService(db, NopPublisher{})

	local := time.Date(2024, 6, 1, 21, 30, 0, 0, time.FixedZone("UTC+3", 3*3600))
	stored := time.Date(2024, 6, 1, 21, 30, 0, 0, time.UTC)

	m.ExpectBegin()
	m.ExpectQuery(qSelectTable).WithArgs(7).WillReturnRows(tableRows(7, 9, 3, 4, true))
	m.ExpectQuery(qSelectRestaurant).WithArgs(9).WillReturnRows(restaurantRows(9, 100, "08:00", "22:00"))
	m.ExpectExec(qClaimTable).WithArgs(7).WillReturnResult(sqlmock.NewResult(0, 1))
	m.ExpectExec(qInsertReservation).
		WithArgs(7, 1, stored, 2, nil, "pending").
		WillReturnResult(sqlmock.NewResult(43, 1))
	m.ExpectQuery(qReloadReservation).WithArgs(43).WillReturnRows(reservationRows(43, 7, 1, "pending", stored))
	m.ExpectCommit()

	_, err := svc.Create(context.Background(), 1, CreateReservationInput{TableID: 7, ReservedAt: local, PartySize: 2})
	require.NoError(t, err)
	assert.NoError(t, m.ExpectationsWereMet())
}

func TestCreate_OvernightHours(t *testing.T) {
	db, m := newMockDB(t)
	svc := newReservationService(db, NopPublisher{})
	late := time.Date(2024, 6, 2, 1, 0, 0, 0, time.UTC)

	m.ExpectBegin()
	m.ExpectQuery(qSelectTable).WithArgs(7).WillReturnRows(tableRows(7, 9, 3, 4, true))
	m.ExpectQuery(qSelectRestaurant).WithArgs(9).WillReturnRows(restaurantRows(9, 100, "22:00:00", "02:00:00"))
	m.ExpectExec(qClaimTable).WithArgs(7).WillReturnResult(sqlmock.NewResult(0, 1))
	m.ExpectExec(qInsertReservation).WillReturnResult(sqlmock.NewResult(44, 1))
	m.ExpectQuery(qReloadReservation).WithArgs(44).WillReturnRows(reservationRows(44, 7, 1, "pending", late))
	m.ExpectCommit()

	_, err := svc.Create(context.Background(), 1, CreateReservationInput{TableID: 7, ReservedAt: late, PartySize: 2})
	require.NoError(t, err)
	assert.NoError(t, m.ExpectationsWereMet())
}

func TestCreate_PublishFailureDoesNotFailRequest(t *testing.T) {
	db, m := newMockDB(t)
	pub := &mockPublisher{}
	pub.On("Publish", mock.Anything, mock.Anything).Return(errors.New("broker down")).Once()
	svc := newReservationService(db, pub)

	m.ExpectBegin()
	m.ExpectQuery(qSelectTable).WithArgs(7).WillReturnRows(tableRows(7, 9, 3, 4, true))
	m.ExpectQuery(qSelectRestaurant).WithArgs(9).WillReturnRows(restaurantRows(9, 100, "08:00", "22:00"))
	m.ExpectExec(qClaimTable).WithArgs(7).WillReturnResult(sqlmock.NewResult(0, 1))
	m.ExpectExec(qInsertReservation).WillReturnResult(sqlmock.NewResult(42, 1))
	m.ExpectQuery(qReloadReservation).WithArgs(42).WillReturnRows(reservationRows(42, 7, 1, "pending", dinner))
	m.ExpectCommit()

	det, err := svc.Create(context.Background(), 1, CreateReservationInput{TableID: 7, ReservedAt: dinner, PartySize: 4})
	require.NoError(t, err)
	assert.Equal(t, uint64(42), det.ID)
	pub.AssertExpectations(t)
}

func TestCreate_Rejections(t *testing.T) {
	tests := []struct {
		name   string
		in     CreateReservationInput
		expect func(m sqlmock.Sqlmock)
		code   string
	}{
		{
			name: "missing table id",
			in:   CreateReservationInput{ReservedAt: dinner, PartySize: 2},
			code: CodeValidation,
		},
		{
			name: "zero party",
			in:   CreateReservationInput{TableID: 7, ReservedAt: dinner},
			code: CodeValidation,
		},
		{
			name: "missing time",
			in:   CreateReservationInput{TableID: 7, PartySize: 2},
			code: CodeValidation,
		},
		{
			name: "table not found",
			in:   CreateReservationInput{TableID: 7, ReservedAt: dinner, PartySize: 2},
			expect: func(m sqlmock.Sqlmock) {
				m.ExpectBegin()
				m.ExpectQuery(qSelectTable).WithArgs(7).WillReturnRows(sqlmock.NewRows(tableCols))
				m.ExpectRollback()
			},
			code: CodeTableNotFound,
		},
		{
			// second customer books an already held table
			name: "table unavailable",
			in:   CreateReservationInput{TableID: 7, ReservedAt: dinner, PartySize: 2},
			expect: func(m sqlmock.Sqlmock) {
				m.ExpectBegin()
				m.ExpectQuery(qSelectTable).WithArgs(7).WillReturnRows(tableRows(7, 9, 3, 4, false))
				m.ExpectRollback()
			},
			code: CodeTableUnavailable,
		},
		{
			name: "party larger than capacity",
			in:   CreateReservationInput{TableID: 7, ReservedAt: dinner, PartySize: 5},
			expect: func(m sqlmock.Sqlmock) {
				m.ExpectBegin()
				m.ExpectQuery(qSelectTable).WithArgs(7).WillReturnRows(tableRows(7, 9, 3, 4, true))
				m.ExpectRollback()
			},
			code: CodePartyTooLarge,
		},
		{
			name: "orphaned table",
			in:   CreateReservationInput{TableID: 7, ReservedAt: dinner, PartySize: 2},
			expect: func(m sqlmock.Sqlmock) {
				m.ExpectBegin()
				m.ExpectQuery(qSelectTable).WithArgs(7).WillReturnRows(tableRows(7, 9, 3, 4, true))
				m.ExpectQuery(qSelectRestaurant).WithArgs(9).WillReturnRows(sqlmock.NewRows(restaurantCols))
				m.ExpectRollback()
			},
			code: CodeRestaurantNotFound,
		},
		{
			name: "after closing",
			in:   CreateReservationInput{TableID: 7, ReservedAt: time.Date(2024, 6, 1, 23, 0, 0, 0, time.UTC), PartySize: 2},
			expect: func(m sqlmock.Sqlmock) {
				m.ExpectBegin()
				m.ExpectQuery(qSelectTable).WithArgs(7).WillReturnRows(tableRows(7, 9, 3, 4, true))
				m.ExpectQuery(qSelectRestaurant).WithArgs(9).WillReturnRows(restaurantRows(9, 100, "08:00", "22:00"))
				m.ExpectRollback()
			},
			code: CodeOutOfHours,
		},
		{
			// another transaction claimed the table between the read and the update
			name: "lost the claim",
			in:   CreateReservationInput{TableID: 7, ReservedAt: dinner, PartySize: 2},
			expect: func(m sqlmock.Sqlmock) {
				m.ExpectBegin()
				m.ExpectQuery(qSelectTable).WithArgs(7).WillReturnRows(tableRows(7, 9, 3, 4, true))
				m.ExpectQuery(qSelectRestaurant).WithArgs(9).WillReturnRows(restaurantRows(9, 100, "08:00", "22:00"))
				m.ExpectExec(qClaimTable).WithArgs(7).WillReturnResult(sqlmock.NewResult(0, 0))
				m.ExpectRollback()
			},
			code: CodeTableUnavailable,
		},
		{
			name: "insert fails after claim",
			in:   CreateReservationInput{TableID: 7, ReservedAt: dinner, PartySize: 2},
			expect: func(m sqlmock.Sqlmock) {
				m.ExpectBegin()
				m.ExpectQuery(qSelectTable).WithArgs(7).WillReturnRows(tableRows(7, 9, 3, 4, true))
				m.ExpectQuery(qSelectRestaurant).WithArgs(9).WillReturnRows(restaurantRows(9, 100, "08:00", "22:00"))
				m.ExpectExec(qClaimTable).WithArgs(7).WillReturnResult(sqlmock.NewResult(0, 1))
				m.ExpectExec(qInsertReservation).WillReturnError(errors.New("connection reset"))
				m.ExpectRollback()
			},
			code: CodeInternal,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db, m := newMockDB(t)
			pub := &mockPublisher{}
			svc := newReservationService(db, pub)
			if tt.expect != nil {
				tt.expect(m)
			}

			det, err := svc.Create(context.Background(), 2, tt.in)
			assert.Nil(t, det)
			requireCode(t, err, tt.code)
			assert.NoError(t, m.ExpectationsWereMet())
			pub.AssertNotCalled(t, "Publish", mock.Anything, mock.Anything)
		})
	}
}

func TestCreate_OutOfHoursNamesWindow(t *testing.T) {
	db, m := newMockDB(t)
	svc := newReservationService(db, NopPublisher{})

	m.ExpectBegin()
	m.ExpectQuery(qSelectTable).WithArgs(7).WillReturnRows(tableRows(7, 9, 3, 4, true))
	m.ExpectQuery(qSelectRestaurant).WithArgs(9).WillReturnRows(restaurantRows(9, 100, "08:00:00", "22:00:00"))
	m.ExpectRollback()

	_, err := svc.Create(context.Background(), 1, CreateReservationInput{
		TableID: 7, ReservedAt: time.Date(2024, 6, 1, 7, 59, 0, 0, time.UTC), PartySize: 2,
	})
	se := requireCode(t, err, CodeOutOfHours)
	assert.Equal(t, KindValidation, se.Kind)
	assert.Contains(t, se.Message, "08:00-22:00")
	assert.NoError(t, m.ExpectationsWereMet())
}

func TestTransition_CustomerCancelsAndFreesTable(t *testing.T) {
	db, m := newMockDB(t)
	pub := &mockPublisher{}
	pub.On("Publish", mock.Anything, mock.MatchedBy(func(ev queue.ReservationEvent) bool {
		return ev.Type == queue.EventReservationStatusChanged &&
			ev.Status == "cancelled" && ev.PreviousStatus == "pending" &&
			ev.ActorID == 1 && ev.ActorRole == model.RoleCustomer
	})).Return(nil).Once()
	svc := newReservationService(db, pub)

	m.ExpectBegin()
	m.ExpectQuery(qLockReservation).WithArgs(42).WillReturnRows(reservationRows(42, 7, 1, "pending", dinner))
	m.ExpectQuery(qDetail).WithArgs(42).WillReturnRows(detailRows(42, 7, 1, "pending", 9, 100))
	m.ExpectExec(qGuardStatus).WithArgs("cancelled", 42, "pending").WillReturnResult(sqlmock.NewResult(0, 1))
	m.ExpectExec(qReleaseTable).WithArgs(7).WillReturnResult(sqlmock.NewResult(0, 1))
	m.ExpectCommit()

	actor := model.Actor{UserID: 1, Role: model.RoleCustomer}
	det, err := svc.Cancel(context.Background(), actor, 42)
	require.NoError(t, err)
	assert.Equal(t, model.StatusCancelled, det.Status)
	assert.NoError(t, m.ExpectationsWereMet())
	pub.AssertExpectations(t)
}

func TestTransition_OwnerConfirmKeepsTableHeld(t *testing.T) {
	db, m := newMockDB(t)
	svc := newReservationService(db, NopPublisher{})

	m.ExpectBegin()
	m.ExpectQuery(qLockReservation).WithArgs(42).WillReturnRows(reservationRows(42, 7, 1, "pending", dinner))
	m.ExpectQuery(qDetail).WithArgs(42).WillReturnRows(detailRows(42, 7, 1, "pending", 9, 100))
	m.ExpectExec(qGuardStatus).WithArgs("confirmed", 42, "pending").WillReturnResult(sqlmock.NewResult(0, 1))
	m.ExpectCommit()

	owner := model.Actor{UserID: 100, Role: model.RoleOwner}
	det, err := svc.Transition(context.Background(), owner, 42, "CONFIRMED")
	require.NoError(t, err)
	assert.Equal(t, model.StatusConfirmed, det.Status)
	assert.NoError(t, m.ExpectationsWereMet())
}

func TestTransition_OwnerCompletesAndFreesTable(t *testing.T) {
	db, m := newMockDB(t)
	svc := newReservationService(db, NopPublisher{})

	m.ExpectBegin()
	m.ExpectQuery(qLockReservation).WithArgs(42).WillReturnRows(reservationRows(42, 7, 1, "confirmed", dinner))
	m.ExpectQuery(qDetail).WithArgs(42).WillReturnRows(detailRows(42, 7, 1, "confirmed", 9, 100))
	m.ExpectExec(qGuardStatus).WithArgs("completed", 42, "confirmed").WillReturnResult(sqlmock.NewResult(0, 1))
	m.ExpectExec(qReleaseTable).WithArgs(7).WillReturnResult(sqlmock.NewResult(0, 1))
	m.ExpectCommit()

	owner := model.Actor{UserID: 100, Role: model.RoleOwner}
	det, err := svc.Transition(context.Background(), owner, 42, "completed")
	require.NoError(t, err)
	assert.Equal(t, model.StatusCompleted, det.Status)
	assert.NoError(t, m.ExpectationsWereMet())
}

func TestTransition_Rejections(t *testing.T) {
	owner := model.Actor{UserID: 100, Role: model.RoleOwner}
	customer := model.Actor{UserID: 1, Role: model.RoleCustomer}

	lockAndDetail := func(status string) func(m sqlmock.Sqlmock) {
		return func(m sqlmock.Sqlmock) {
			m.ExpectBegin()
			m.ExpectQuery(qLockReservation).WithArgs(42).WillReturnRows(reservationRows(42, 7, 1, status, dinner))
			m.ExpectQuery(qDetail).WithArgs(42).WillReturnRows(detailRows(42, 7, 1, status, 9, 100))
			m.ExpectRollback()
		}
	}

	tests := []struct {
		name   string
		actor  model.Actor
		target string
		expect func(m sqlmock.Sqlmock)
		code   string
	}{
		{"unknown target", owner, "seated", nil, CodeValidation},
		{
			name: "missing reservation", actor: owner, target: "confirmed",
			expect: func(m sqlmock.Sqlmock) {
				m.ExpectBegin()
				m.ExpectQuery(qLockReservation).WithArgs(42).WillReturnRows(sqlmock.NewRows(reservationCols))
				m.ExpectRollback()
			},
			code: CodeReservationNotFound,
		},
		{"completed cannot be confirmed", owner, "confirmed", lockAndDetail("completed"), CodeInvalidTransition},
		{"cancelled cannot be cancelled again", customer, "cancelled", lockAndDetail("cancelled"), CodeInvalidTransition},
		{"pending cannot be completed", owner, "completed", lockAndDetail("pending"), CodeInvalidTransition},
		{"back to pending", owner, "pending", lockAndDetail("confirmed"), CodeInvalidTransition},
		{"customer cannot confirm", customer, "confirmed", lockAndDetail("pending"), CodeInvalidTransition},
		{"other customer", model.Actor{UserID: 2, Role: model.RoleCustomer}, "cancelled", lockAndDetail("pending"), CodeForbidden},
		{"other owner", model.Actor{UserID: 101, Role: model.RoleOwner}, "confirmed", lockAndDetail("pending"), CodeForbidden},
		{
			// status moved between lock and guarded update
			name: "guard matched nothing", actor: owner, target: "confirmed",
			expect: func(m sqlmock.Sqlmock) {
				m.ExpectBegin()
				m.ExpectQuery(qLockReservation).WithArgs(42).WillReturnRows(reservationRows(42, 7, 1, "pending", dinner))
				m.ExpectQuery(qDetail).WithArgs(42).WillReturnRows(detailRows(42, 7, 1, "pending", 9, 100))
				m.ExpectExec(qGuardStatus).WithArgs("confirmed", 42, "pending").WillReturnResult(sqlmock.NewResult(0, 0))
				m.ExpectRollback()
			},
			code: CodeInvalidTransition,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db, m := newMockDB(t)
			pub := &mockPublisher{}
			svc := newReservationService(db, pub)
			if tt.expect != nil {
				tt.expect(m)
			}

			_, err := svc.Transition(context.Background(), tt.actor, 42, tt.target)
			requireCode(t, err, tt.code)
			assert.NoError(t, m.ExpectationsWereMet())
			pub.AssertNotCalled(t, "Publish", mock.Anything, mock.Anything)
		})
	}
}

func TestGet_ChecksVisibility(t *testing.T) {
	db, m := newMockDB(t)
	svc := newReservationService(db, NopPublisher{})

	m.ExpectQuery(qDetail).WithArgs(42).WillReturnRows(detailRows(42, 7, 1, "pending", 9, 100))
	det, err := svc.Get(context.Background(), model.Actor{UserID: 100, Role: model.RoleOwner}, 42)
	require.NoError(t, err)
	assert.Equal(t, "Cantina", det.RestaurantName)

	m.ExpectQuery(qDetail).WithArgs(42).WillReturnRows(detailRows(42, 7, 1, "pending", 9, 100))
	_, err = svc.Get(context.Background(), model.Actor{UserID: 5, Role: model.RoleCustomer}, 42)
	requireCode(t, err, CodeForbidden)

	m.ExpectQuery(qDetail).WithArgs(43).WillReturnRows(sqlmock.NewRows(detailCols))
	_, err = svc.Get(context.Background(), model.Actor{UserID: 1, Role: model.RoleCustomer}, 43)
	requireCode(t, err, CodeReservationNotFound)

	assert.NoError(t, m.ExpectationsWereMet())
}

func TestListForRestaurant_RequiresOwnership(t *testing.T) {
	db, m := newMockDB(t)
	svc := newReservationService(db, NopPublisher{})

	m.ExpectQuery(qSelectRestaurant).WithArgs(9).WillReturnRows(restaurantRows(9, 100, "08:00", "22:00"))
	_, err := svc.ListForRestaurant(context.Background(), 101, 9)
	requireCode(t, err, CodeForbidden)

	m.ExpectQuery(qSelectRestaurant).WithArgs(9).WillReturnRows(restaurantRows(9, 100, "08:00", "22:00"))
	m.ExpectQuery(regexp.QuoteMeta("WHERE rs.id = ?")).WithArgs(9).
		WillReturnRows(detailRows(42, 7, 1, "pending", 9, 100))
	out, err := svc.ListForRestaurant(context.Background(), 100, 9)
	require.NoError(t, err)
	require.Len(t, out, 1)
	assert.Equal(t, uint64(42), out[0].ID)

	assert.NoError(t, m.ExpectationsWereMet())
}
