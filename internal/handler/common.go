package handler

import (
    "context"
    "errors"
    "net/http"
    "strconv"
    "strings"
    "time"

    "github.com/labstack/echo/v4"

    "github.com/v1ih/quick-table-sub000/internal/middleware"
    "github.com/v1ih/quick-table-sub000/internal/model"
    "github.com/v1ih/quick-table-sub000/internal/service"
)

const defaultTimeout = 5 * time.Second

// errorResponse is the body of every non-2xx reply.
type errorResponse struct {
    Error errorBody `json:"error"`
}

type errorBody struct {
    Code    string `json:"code"`
    Message string `json:"message"`
}

func fail(c echo.Context, status int, code, msg string) error {
    return c.JSON(status, errorResponse{Error: errorBody{Code: code, Message: msg}})
}

func badRequest(c echo.Context, msg string) error {
    return fail(c, http.StatusBadRequest, service.CodeValidation, msg)
}

// statusFor maps a service error kind to its HTTP status.
func statusFor(k service.Kind) int {
    switch k {
    case service.KindValidation:
        return http.StatusBadRequest
    case service.KindNotFound:
        return http.StatusNotFound
    case service.KindConflict, service.KindState:
        return http.StatusConflict
    case service.KindForbidden:
        return http.StatusForbidden
    }
    return http.StatusInternalServerError
}

// writeError renders err.  Infrastructure failures are logged with their
// cause and returned with a generic message.
func writeError(c echo.Context, err error) error {
    se, ok := service.AsError(err)
    if !ok {
        se = &service.Error{Kind: service.KindInfrastructure, Code: service.CodeInternal, Err: err}
    }
    if se.Kind == service.KindInfrastructure {
        c.Logger().Errorf("%s %s: %v", c.Request().Method, c.Path(), err)
        if errors.Is(err, context.DeadlineExceeded) {
            return fail(c, http.StatusGatewayTimeout, "TIMEOUT", "request timed out")
        }
        return fail(c, http.StatusInternalServerError, service.CodeInternal, "internal error")
    }
    return fail(c, statusFor(se.Kind), se.Code, se.Message)
}

// getUserID returns the authenticated user's ID set by the JWT middleware.
func getUserID(c echo.Context) (uint64, error) {
    id, _, ok := middleware.Identity(c)
    if !ok {
        return 0, errors.New("invalid user_id in context")
    }
    return id, nil
}

// actorOf returns the authenticated caller or writes a 401.
func actorOf(c echo.Context) (model.Actor, bool) {
    id, role, ok := middleware.Identity(c)
    if !ok {
        return model.Actor{}, false
    }
    return model.Actor{UserID: id, Role: role}, true
}

func unauthorized(c echo.Context) error {
    return fail(c, http.StatusUnauthorized, "UNAUTHORIZED", "unauthorized")
}

// paramID parses a positive integer path parameter.
func paramID(c echo.Context, name string) (uint64, bool) {
    id, err := strconv.ParseUint(strings.TrimSpace(c.Param(name)), 10, 64)
    if err != nil || id == 0 {
        return 0, false
    }
    return id, true
}

func requestContext(c echo.Context, d time.Duration) (context.Context, context.CancelFunc) {
    if d <= 0 {
        d = defaultTimeout
    }
    return context.WithTimeout(c.Request().Context(), d)
}
