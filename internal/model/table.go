package model

import "time"

// Table is a bookable table of a restaurant.  Available is false exactly
// while a pending or confirmed reservation holds the table.
type Table struct {
    ID           uint64    `db:"id" json:"id"`
    RestaurantID uint64    `db:"restaurant_id" json:"restaurant_id"`
    Number       uint32    `db:"number" json:"number"`
    Capacity     uint32    `db:"capacity" json:"capacity"`
    Description  string    `db:"description" json:"description"`
    Available    bool      `db:"available" json:"available"`
    CreatedAt    time.Time `db:"created_at" json:"created_at"`
    UpdatedAt    time.Time `db:"updated_at" json:"updated_at"`
}

// Seats reports whether a party of the given size fits at the table.
func (t *Table) Seats(partySize uint32) bool {
    return partySize > 0 && partySize <= t.Capacity
}
