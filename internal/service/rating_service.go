package service

import (
	"context"
	"errors"
	"math"
	"strings"

	"github.com/jmoiron/sqlx"

	"github.com/v1ih/quick-table-sub000/internal/model"
	"github.com/v1ih/quick-table-sub000/internal/repository"
)

// RatingService records one rating per completed reservation.
type RatingService struct {
	db           *sqlx.DB
	ratings      *repository.RatingRepo
	reservations *repository.ReservationRepo
	restaurants  *repository.RestaurantRepo
}

func NewRatingService(db *sqlx.DB, ratings *repository.RatingRepo, reservations *repository.ReservationRepo,
	restaurants *repository.RestaurantRepo) *RatingService {
	return &RatingService{db: db, ratings: ratings, reservations: reservations, restaurants: restaurants}
}

// RatingInput is a customer's score for a visit.
type RatingInput struct {
	Score   int     `json:"score"`
	Comment *string `json:"comment,omitempty"`
}

// Create rates a completed reservation of customerID.
func (s *RatingService) Create(ctx context.Context, customerID, reservationID uint64, in RatingInput) (*model.Rating, error) {
	if in.Score < model.MinScore || in.Score > model.MaxScore {
		return nil, invalid("score must be between %d and %d", model.MinScore, model.MaxScore)
	}
	if in.Comment != nil {
		c := strings.TrimSpace(*in.Comment)
		in.Comment = &c
		if c == "" {
			in.Comment = nil
		}
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

	det, err := s.reservations.GetDetailTx(ctx, tx, reservationID)
	if err != nil {
		if errors.Is(err, repository.ErrReservationNotFound) {
			return nil, errReservationNotFound(reservationID)
		}
		return nil, internal("load reservation", err)
	}
	if det.CustomerID != customerID {
		return nil, forbidden("reservation belongs to another customer")
	}
	if det.Status != model.StatusCompleted {
		return nil, newError(KindState, CodeNotCompleted, "only completed reservations can be rated")
	}
	exists, err := s.ratings.ExistsForReservationTx(ctx, tx, reservationID)
	if err != nil {
		return nil, internal("check rating", err)
	}
	if exists {
		return nil, errRatingExists()
	}

	rt := &model.Rating{
		ReservationID: reservationID,
		RestaurantID:  det.RestaurantID,
		CustomerID:    customerID,
		Score:         uint8(in.Score),
		Comment:       in.Comment,
	}
	if err := s.ratings.CreateTx(ctx, tx, rt); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, errRatingExists()
		}
		return nil, internal("create rating", err)
	}
	if err := tx.Commit(); err != nil {
		return nil, internal("commit rating", err)
	}
	committed = true
	return rt, nil
}

// ListForRestaurant returns a restaurant's ratings with count and average.
func (s *RatingService) ListForRestaurant(ctx context.Context, restaurantID uint64) (*model.RatingSummary, error) {
	if _, err := s.restaurants.GetByID(ctx, restaurantID); err != nil {
		if errors.Is(err, repository.ErrRestaurantNotFound) {
			return nil, errRestaurantNotFound(restaurantID)
		}
		return nil, internal("load restaurant", err)
	}
	items, err := s.ratings.ListByRestaurant(ctx, restaurantID)
	if err != nil {
		return nil, internal("list ratings", err)
	}
	return summarize(items), nil
}

// summarize computes the average rounded to two decimals.
func summarize(items []model.Rating) *model.RatingSummary {
	sum := &model.RatingSummary{Count: len(items), Items: items}
	if len(items) == 0 {
		return sum
	}
	total := 0
	for _, r := range items {
		total += int(r.Score)
	}
	sum.Average = math.Round(float64(total)/float64(len(items))*100) / 100
	return sum
}

func errRatingExists() *Error {
	return newError(KindConflict, CodeRatingExists, "reservation already rated")
}
