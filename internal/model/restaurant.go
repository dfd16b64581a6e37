package model

import (
    "fmt"
    "time"
)

// Restaurant is the venue registered by an owner.  Each owner has at most
// one restaurant.  Operating hours are wall-clock "HH:MM" strings with no
// timezone attached.
type Restaurant struct {
    ID          uint64    `db:"id" json:"id"`
    OwnerID     uint64    `db:"owner_id" json:"owner_id"`
    Name        string    `db:"name" json:"name"`
    Description string    `db:"description" json:"description"`
    Address     string    `db:"address" json:"address"`
    Phone       string    `db:"phone" json:"phone"`
    OpensAt     string    `db:"opens_at" json:"opens_at"`
    ClosesAt    string    `db:"closes_at" json:"closes_at"`
    CreatedAt   time.Time `db:"created_at" json:"created_at"`
    UpdatedAt   time.Time `db:"updated_at" json:"updated_at"`
}

// Hours returns the restaurant's operating window.  A TIME column comes
// back as "HH:MM:SS", so only the leading "HH:MM" is kept.
func (r *Restaurant) Hours() OpeningHours {
    return OpeningHours{Opens: hhmm(r.OpensAt), Closes: hhmm(r.ClosesAt)}
}

func hhmm(s string) string {
    if len(s) > 5 {
        return s[:5]
    }
    return s
}

// OpeningHours is an inclusive [Opens, Closes] window of "HH:MM" clocks.
// Both values are zero padded, so plain string comparison orders them.
type OpeningHours struct {
    Opens  string
    Closes string
}

// Overnight reports whether the window wraps past midnight (22:00-02:00).
func (h OpeningHours) Overnight() bool { return h.Opens > h.Closes }

// Contains reports whether clock ("HH:MM") falls inside the window.  An
// overnight window is the union of [Opens, 23:59] and [00:00, Closes].
func (h OpeningHours) Contains(clock string) bool {
    if h.Overnight() {
        return clock >= h.Opens || clock <= h.Closes
    }
    return clock >= h.Opens && clock <= h.Closes
}

func (h OpeningHours) String() string { return h.Opens + "-" + h.Closes }

// ClockOf returns the wall-clock "HH:MM" of t in its own location.
func ClockOf(t time.Time) string { return t.Format("15:04") }

// ParseClock validates s as a 24h time of day and returns it zero padded,
// so "8:30" becomes "08:30".
func ParseClock(s string) (string, error) {
    t, err := time.Parse("15:04", s)
    if err != nil {
        return "", fmt.Errorf("invalid time of day %q, want HH:MM", s)
    }
    return t.Format("15:04"), nil
}

// Favorite links a customer to a restaurant they bookmarked.
type Favorite struct {
    CustomerID   uint64    `db:"customer_id" json:"customer_id"`
    RestaurantID uint64    `db:"restaurant_id" json:"restaurant_id"`
    CreatedAt    time.Time `db:"created_at" json:"created_at"`
}

// FavoriteDetail is a favorite joined with the restaurant summary shown in
// the customer's list.
type FavoriteDetail struct {
    RestaurantID uint64    `db:"restaurant_id" json:"restaurant_id"`
    Name         string    `db:"name" json:"name"`
    Address      string    `db:"address" json:"address"`
    OpensAt      string    `db:"opens_at" json:"opens_at"`
    ClosesAt     string    `db:"closes_at" json:"closes_at"`
    CreatedAt    time.Time `db:"created_at" json:"created_at"`
}
