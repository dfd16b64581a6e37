package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/v1ih/quick-table-sub000/internal/model"
	"github.com/v1ih/quick-table-sub000/internal/queue"
	"github.com/v1ih/quick-table-sub000/internal/repository"
)

// ReservationService admits new reservations and drives their lifecycle.
// Both paths run in a single database transaction: admission claims the
// table with a conditional update, transitions lock the reservation row.
type ReservationService struct {
	db           *sqlx.DB
	tables       *repository.TableRepo
	restaurants  *repository.RestaurantRepo
	reservations *repository.ReservationRepo
	events       EventPublisher
	now          func() time.Time
}

func NewReservationService(db *sqlx.DB, tables *repository.TableRepo, restaurants *repository.RestaurantRepo,
	reservations *repository.ReservationRepo, events EventPublisher) *ReservationService {
	if events == nil {
		events = NopPublisher{}
	}
	return &ReservationService{
		db:           db,
		tables:       tables,
		restaurants:  restaurants,
		reservations: reservations,
		events:       events,
		now:          time.Now,
	}
}

// CreateReservationInput is a customer's booking request.
type CreateReservationInput struct {
	TableID    uint64    `json:"table_id"`
	ReservedAt time.Time `json:"reserved_at"`
	PartySize  uint32    `json:"party_size"`
	Note       *string   `json:"note,omitempty"`
}

// Create admits a reservation for customerID.
//
// Checks run in order: table exists, table available, party fits, restaurant
// exists, time of day within opening hours.  The table is then claimed with
// UPDATE ... WHERE available = 1 and the reservation inserted in the same
// transaction, so of two concurrent requests for one table exactly one wins
// and the loser gets TABLE_UNAVAILABLE with nothing written.
func (s *ReservationService) Create(ctx context.Context, customerID uint64, in CreateReservationInput) (*model.ReservationDetail, error) {
	if in.TableID == 0 {
		return nil, invalid("table_id is required")
	}
	if in.PartySize == 0 {
		return nil, invalid("party_size must be positive")
	}
	if in.ReservedAt.IsZero() {
		return nil, invalid("reserved_at is required")
	}
	// Opening hours are wall-clock values, so the requested wall clock is
	// kept as given and stored in UTC without shifting it.
	at := in.ReservedAt
	reservedAt := time.Date(at.Year(), at.Month(), at.Day(), at.Hour(), at.Minute(), at.Second(), 0, time.UTC)

	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, internal("begin transaction", err)
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	table, err := s.tables.GetByIDTx(ctx, tx, in.TableID)
	if err != nil {
		if errors.Is(err, repository.ErrTableNotFound) {
			return nil, errTableNotFound(in.TableID)
		}
		return nil, internal("load table", err)
	}
	if !table.Available {
		return nil, errTableUnavailable(table.ID)
	}
	if !table.Seats(in.PartySize) {
		return nil, newError(KindValidation, CodePartyTooLarge,
			fmt.Sprintf("table %d seats at most %d guests", table.Number, table.Capacity))
	}

	rest, err := s.restaurants.GetByIDTx(ctx, tx, table.RestaurantID)
	if err != nil {
		if errors.Is(err, repository.ErrRestaurantNotFound) {
			return nil, errRestaurantNotFound(table.RestaurantID)
		}
		return nil, internal("load restaurant", err)
	}
	hours := rest.Hours()
	if !hours.Contains(model.ClockOf(reservedAt)) {
		return nil, newError(KindValidation, CodeOutOfHours,
			fmt.Sprintf("%s is outside opening hours %s", model.ClockOf(reservedAt), hours))
	}

	claimed, err := s.tables.MarkUnavailableTx(ctx, tx, table.ID)
	if err != nil {
		return nil, internal("claim table", err)
	}
	if !claimed {
		return nil, errTableUnavailable(table.ID)
	}

	res := &model.Reservation{
		TableID:    table.ID,
		CustomerID: customerID,
		ReservedAt: reservedAt,
		PartySize:  in.PartySize,
		Note:       in.Note,
		Status:     model.StatusPending,
	}
	if err := s.reservations.CreateTx(ctx, tx, res); err != nil {
		return nil, internal("create reservation", err)
	}
	if err := tx.Commit(); err != nil {
		return nil, internal("commit reservation", err)
	}
	committed = true

	det := &model.ReservationDetail{
		Reservation:      *res,
		TableNumber:      table.Number,
		TableDescription: table.Description,
		RestaurantID:     rest.ID,
		RestaurantName:   rest.Name,
		RestaurantOwner:  rest.OwnerID,
	}
	publish(ctx, s.events, queue.NewReservationEvent(queue.EventReservationCreated, det, s.now()))
	return det, nil
}

// Transition moves a reservation to target on behalf of actor.
//
// Customers may cancel their own reservations; owners may confirm,
// complete or cancel reservations on their restaurant's tables.  Moving into
// cancelled or completed releases the table in the same transaction.
func (s *ReservationService) Transition(ctx context.Context, actor model.Actor, id uint64, target string) (*model.ReservationDetail, error) {
	to, ok := model.ParseReservationStatus(target)
	if !ok {
		return nil, invalid("unknown status %q", target)
	}

	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, internal("begin transaction", err)
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	res, err := s.reservations.GetForUpdateTx(ctx, tx, id)
	if err != nil {
		if errors.Is(err, repository.ErrReservationNotFound) {
			return nil, errReservationNotFound(id)
		}
		return nil, internal("lock reservation", err)
	}
	det, err := s.reservations.GetDetailTx(ctx, tx, id)
	if err != nil {
		return nil, internal("load reservation", err)
	}
	if err := authorize(actor, det); err != nil {
		return nil, err
	}

	from := res.Status
	if !model.CanTransition(from, to) || !model.TransitionAllowedFor(actor.Role, from, to) {
		return nil, newError(KindState, CodeInvalidTransition,
			fmt.Sprintf("cannot move reservation from %s to %s", from, to))
	}
	n, err := s.reservations.UpdateStatusGuardTx(ctx, tx, id, from, to)
	if err != nil {
		return nil, internal("update reservation", err)
	}
	if n == 0 {
		return nil, newError(KindState, CodeInvalidTransition,
			fmt.Sprintf("reservation %d is no longer %s", id, from))
	}
	if !to.HoldsTable() {
		if err := s.tables.MarkAvailableTx(ctx, tx, res.TableID); err != nil {
			return nil, internal("release table", err)
		}
	}
	if err := tx.Commit(); err != nil {
		return nil, internal("commit transition", err)
	}
	committed = true

	now := s.now()
	det.Status = to
	det.UpdatedAt = now.UTC()
	ev := queue.NewReservationEvent(queue.EventReservationStatusChanged, det, now)
	ev.PreviousStatus = string(from)
	ev.ActorID = actor.UserID
	ev.ActorRole = actor.Role
	publish(ctx, s.events, ev)
	return det, nil
}

// Cancel is Transition to cancelled.
func (s *ReservationService) Cancel(ctx context.Context, actor model.Actor, id uint64) (*model.ReservationDetail, error) {
	return s.Transition(ctx, actor, id, string(model.StatusCancelled))
}

// authorize checks that actor may see or act on the reservation.
func authorize(actor model.Actor, det *model.ReservationDetail) error {
	switch {
	case actor.IsCustomer():
		if det.CustomerID != actor.UserID {
			return forbidden("reservation belongs to another customer")
		}
	case actor.IsOwner():
		if det.RestaurantOwner != actor.UserID {
			return forbidden("reservation belongs to another restaurant")
		}
	default:
		return forbidden("unknown role")
	}
	return nil
}

// Get returns a reservation visible to actor.
func (s *ReservationService) Get(ctx context.Context, actor model.Actor, id uint64) (*model.ReservationDetail, error) {
	det, err := s.reservations.GetDetail(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrReservationNotFound) {
			return nil, errReservationNotFound(id)
		}
		return nil, internal("load reservation", err)
	}
	if err := authorize(actor, det); err != nil {
		return nil, err
	}
	return det, nil
}

// ListForCustomer returns the customer's reservations, newest first.
func (s *ReservationService) ListForCustomer(ctx context.Context, customerID uint64) ([]model.ReservationDetail, error) {
	out, err := s.reservations.ListByCustomer(ctx, customerID)
	if err != nil {
		return nil, internal("list reservations", err)
	}
	return out, nil
}

// ListForRestaurant returns every reservation on the restaurant's tables.
// Only the restaurant's owner may list them.
func (s *ReservationService) ListForRestaurant(ctx context.Context, ownerID, restaurantID uint64) ([]model.ReservationDetail, error) {
	if _, err := ownedRestaurant(ctx, s.restaurants, ownerID, restaurantID); err != nil {
		return nil, err
	}
	out, err := s.reservations.ListByRestaurant(ctx, restaurantID)
	if err != nil {
		return nil, internal("list reservations", err)
	}
	return out, nil
}

// ownedRestaurant loads a restaurant and checks that ownerID owns it.
func ownedRestaurant(ctx context.Context, repo *repository.RestaurantRepo, ownerID, restaurantID uint64) (*model.Restaurant, error) {
	rest, err := repo.GetByID(ctx, restaurantID)
	if err != nil {
		if errors.Is(err, repository.ErrRestaurantNotFound) {
			return nil, errRestaurantNotFound(restaurantID)
		}
		return nil, internal("load restaurant", err)
	}
	if rest.OwnerID != ownerID {
		return nil, forbidden("restaurant belongs to another owner")
	}
	return rest, nil
}
