package middleware

import (
    "net/http"
    "strings"

    "github.com/labstack/echo/v4"

    "github.com/v1ih/quick-table-sub000/internal/utils"
)

// JWTAuth validates the Bearer access token and stores the caller's user ID
// (uint64) and role under ContextUserID and ContextRole.
func JWTAuth(secret string) echo.MiddlewareFunc {
    return func(next echo.HandlerFunc) echo.HandlerFunc {
        return func(c echo.Context) error {
            auth := c.Request().Header.Get(echo.HeaderAuthorization)
            if !strings.HasPrefix(auth, "Bearer ") {
                return errorJSON(c, http.StatusUnauthorized, "UNAUTHORIZED", "missing bearer token")
            }
            claims, err := utils.ParseAccessToken(secret, strings.TrimSpace(strings.TrimPrefix(auth, "Bearer ")))
            if err != nil {
                return errorJSON(c, http.StatusUnauthorized, "UNAUTHORIZED", "invalid token")
            }
            uid, err := claims.UserID()
            if err != nil {
                return errorJSON(c, http.StatusUnauthorized, "UNAUTHORIZED", "invalid claims")
            }
            c.Set(ContextUserID, uid)
            c.Set(ContextRole, claims.Role)
            return next(c)
        }
    }
}
