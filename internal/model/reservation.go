package model

import (
    "strings"
    "time"
)

// ReservationStatus is the lifecycle state of a reservation.
type ReservationStatus string

const (
    StatusPending   ReservationStatus = "pending"
    StatusConfirmed ReservationStatus = "confirmed"
    StatusCompleted ReservationStatus = "completed"
    StatusCancelled ReservationStatus = "cancelled"
)

// ParseReservationStatus accepts any casing of a known status.
func ParseReservationStatus(s string) (ReservationStatus, bool) {
    st := ReservationStatus(strings.ToLower(strings.TrimSpace(s)))
    switch st {
    case StatusPending, StatusConfirmed, StatusCompleted, StatusCancelled:
        return st, true
    }
    return "", false
}

// Terminal statuses accept no further transitions.
func (s ReservationStatus) Terminal() bool {
    return s == StatusCompleted || s == StatusCancelled
}

// HoldsTable reports whether a reservation in this status keeps its table
// unavailable.
func (s ReservationStatus) HoldsTable() bool {
    return s == StatusPending || s == StatusConfirmed
}

// transitions maps current -> target -> roles allowed to request the move.
// Anything absent is rejected.
var transitions = map[ReservationStatus]map[ReservationStatus][]string{
    StatusPending: {
        StatusConfirmed: {RoleOwner},
        StatusCancelled: {RoleOwner, RoleCustomer},
    },
    StatusConfirmed: {
        StatusCompleted: {RoleOwner},
        StatusCancelled: {RoleOwner, RoleCustomer},
    },
}

// CanTransition reports whether from -> to is a move of the lifecycle,
// regardless of who asks for it.
func CanTransition(from, to ReservationStatus) bool {
    _, ok := transitions[from][to]
    return ok
}

// TransitionAllowedFor reports whether role may move a reservation from -> to.
func TransitionAllowedFor(role string, from, to ReservationStatus) bool {
    for _, r := range transitions[from][to] {
        if r == role {
            return true
        }
    }
    return false
}

// Reservation mirrors a row of the `reservations` table.
type Reservation struct {
    ID         uint64            `db:"id" json:"id"`
    TableID    uint64            `db:"table_id" json:"table_id"`
    CustomerID uint64            `db:"customer_id" json:"customer_id"`
    ReservedAt time.Time         `db:"reserved_at" json:"reserved_at"`
    PartySize  uint32            `db:"party_size" json:"party_size"`
    Note       *string           `db:"note" json:"note,omitempty"`
    Status     ReservationStatus `db:"status" json:"status"`
    CreatedAt  time.Time         `db:"created_at" json:"created_at"`
    UpdatedAt  time.Time         `db:"updated_at" json:"updated_at"`
}

// ReservationDetail is a reservation joined with the table and restaurant
// fields shown to customers and owners.
type ReservationDetail struct {
    Reservation
    TableNumber      uint32 `db:"table_number" json:"table_number"`
    TableDescription string `db:"table_description" json:"table_description"`
    RestaurantID     uint64 `db:"restaurant_id" json:"restaurant_id"`
    RestaurantName   string `db:"restaurant_name" json:"restaurant_name"`
    RestaurantOwner  uint64 `db:"restaurant_owner_id" json:"-"`
}

// Rating is a customer's score for a completed visit.  One per reservation.
type Rating struct {
    ID            uint64    `db:"id" json:"id"`
    ReservationID uint64    `db:"reservation_id" json:"reservation_id"`
    RestaurantID  uint64    `db:"restaurant_id" json:"restaurant_id"`
    CustomerID    uint64    `db:"customer_id" json:"customer_id"`
    Score         uint8     `db:"score" json:"score"`
    Comment       *string   `db:"comment" json:"comment,omitempty"`
    CreatedAt     time.Time `db:"created_at" json:"created_at"`
}

const (
    MinScore = 1
    MaxScore = 5
)

// RatingSummary aggregates the ratings of a restaurant.
type RatingSummary struct {
    Count   int      `json:"count"`
    Average float64  `json:"average"`
    Items   []Rating `json:"items"`
}
