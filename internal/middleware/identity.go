// Package middleware holds the Echo middleware shared by the route groups:
// JWT identity, role checks, Redis rate limiting and the Redis response
// cache.
package middleware

import (
    "strconv"

    "github.com/labstack/echo/v4"
)

// Context keys set by JWTAuth.
const (
    ContextUserID = "user_id"
    ContextRole   = "role"
)

// Identity returns the authenticated user ID and role stored by JWTAuth.
func Identity(c echo.Context) (userID uint64, role string, ok bool) {
    id, okID := c.Get(ContextUserID).(uint64)
    role, okRole := c.Get(ContextRole).(string)
    if !okID || !okRole || id == 0 {
        return 0, "", false
    }
    return id, role, true
}

// identityKey renders the caller for rate-limit keys, "anon" for guests.
func identityKey(c echo.Context) string {
    if id, _, ok := Identity(c); ok {
        return strconv.FormatUint(id, 10)
    }
    return "anon"
}

// errorJSON writes the API error envelope.
func errorJSON(c echo.Context, status int, code, msg string) error {
    return c.JSON(status, echo.Map{"error": echo.Map{"code": code, "message": msg}})
}
