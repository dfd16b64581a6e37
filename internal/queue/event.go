// Package queue defines the reservation events exchanged over RabbitMQ and
// the consumer that records them.
package queue

import (
    "time"

    "github.com/google/uuid"

    "github.com/v1ih/quick-table-sub000/internal/model"
)

// ReservationQueue is the durable queue every reservation event is routed to
// through the default exchange.
const ReservationQueue = "reservation.events"

// Event types.
const (
    EventReservationCreated       = "reservation.created"
    EventReservationStatusChanged = "reservation.status_changed"
)

// ReservationEvent is published after a reservation is admitted or changes
// status.  It carries enough to log or notify without querying the
// database.
type ReservationEvent struct {
    ID             string `json:"id"`
    Type           string `json:"type"`
    ReservationID  uint64 `json:"reservation_id"`
    CustomerID     uint64 `json:"customer_id"`
    TableID        uint64 `json:"table_id"`
    TableNumber    uint32 `json:"table_number"`
    RestaurantID   uint64 `json:"restaurant_id"`
    RestaurantName string `json:"restaurant_name"`
    PartySize      uint32 `json:"party_size"`
    ReservedAt     string `json:"reserved_at"`
    Status         string `json:"status"`
    PreviousStatus string `json:"previous_status,omitempty"`
    ActorID        uint64 `json:"actor_id,omitempty"`
    ActorRole      string `json:"actor_role,omitempty"`
    OccurredAt     string `json:"occurred_at"`
}

// NewReservationEvent builds an event of type typ from a reservation detail.
func NewReservationEvent(typ string, d *model.ReservationDetail, at time.Time) ReservationEvent {
    return ReservationEvent{
        ID:             uuid.NewString(),
        Type:           typ,
        ReservationID:  d.ID,
        CustomerID:     d.CustomerID,
        TableID:        d.TableID,
        TableNumber:    d.TableNumber,
        RestaurantID:   d.RestaurantID,
        RestaurantName: d.RestaurantName,
        PartySize:      d.PartySize,
        ReservedAt:     d.ReservedAt.UTC().Format(time.RFC3339),
        Status:         string(d.Status),
        OccurredAt:     at.UTC().Format(time.RFC3339),
    }
}
