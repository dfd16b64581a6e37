package middleware

import (
    "net/http"

    "github.com/labstack/echo/v4"
)

// RequireRole rejects callers whose role claim is not one of roles.  It must
// run after JWTAuth.
func RequireRole(roles ...string) echo.MiddlewareFunc {
    allowed := make(map[string]bool, len(roles))
    for _, r := range roles {
        allowed[r] = true
    }
    return func(next echo.HandlerFunc) echo.HandlerFunc {
        return func(c echo.Context) error {
            if _, role, ok := Identity(c); !ok || !allowed[role] {
                return errorJSON(c, http.StatusForbidden, "FORBIDDEN", "role not allowed")
            }
            return next(c)
        }
    }
}
