package repository

import (
	"context"
	"fmt"
	"strings"

	"github.com/v1ih/quick-table-sub000/internal/model"
)

// RestaurantSearchQuery defines filters & pagination for searching restaurants.
// Empty filters are ignored.
type RestaurantSearchQuery struct {
	Name      string
	Address   string
	OpenAt    string // "HH:MM"; only restaurants open at that clock
	PartySize uint32 // only restaurants with an available table this large
	Page      int
	PageSize  int
}

// Search returns one page of matching restaurants ordered by name, plus the
// total number of matches.
func (r *RestaurantRepo) Search(ctx context.Context, q RestaurantSearchQuery) ([]model.Restaurant, int64, error) {
	where := []string{}
	args := []any{}

	if q.Name != "" {
		where = append(where, "LOWER(r.name) LIKE ?")
		args = append(args, "%"+strings.ToLower(q.Name)+"%")
	}
	if q.Address != "" {
		where = append(where, "LOWER(r.address) LIKE ?")
		args = append(args, "%"+strings.ToLower(q.Address)+"%")
	}
	if q.OpenAt != "" {
		// Overnight windows wrap past midnight.
		where = append(where, `((r.opens_at <= r.closes_at AND ? BETWEEN r.opens_at AND r.closes_at)
			OR (r.opens_at > r.closes_at AND (? >= r.opens_at OR ? <= r.closes_at)))`)
		args = append(args, q.OpenAt, q.OpenAt, q.OpenAt)
	}
	if q.PartySize > 0 {
		where = append(where, `EXISTS (SELECT 1 FROM restaurant_tables t
			WHERE t.restaurant_id = r.id AND t.available = TRUE AND t.capacity >= ?)`)
		args = append(args, q.PartySize)
	}

	cond := "1=1"
	if len(where) > 0 {
		cond = strings.Join(where, " AND ")
	}

	var total int64
	if err := r.db.GetContext(ctx, &total, "SELECT COUNT(*) FROM restaurants r WHERE "+cond, args...); err != nil {
		return nil, 0, fmt.Errorf("count restaurants: %w", err)
	}

	limit := q.PageSize
	offset := (q.Page - 1) * q.PageSize
	dataSQL := "SELECT " + prefixed("r", restaurantColumns) + ` FROM restaurants r
		WHERE ` + cond + `
		ORDER BY r.name, r.id
		LIMIT ? OFFSET ?`
	argsData := append(append([]any{}, args...), limit, offset)

	out := make([]model.Restaurant, 0, limit)
	if err := r.db.SelectContext(ctx, &out, dataSQL, argsData...); err != nil {
		return nil, 0, fmt.Errorf("search restaurants: %w", err)
	}
	return out, total, nil
}

// prefixed qualifies every column of a comma separated list with alias.
func prefixed(alias, cols string) string {
	parts := strings.Split(cols, ",")
	for i, p := range parts {
		parts[i] = alias + "." + strings.TrimSpace(p)
	}
	return strings.Join(parts, ", ")
}
