package middleware

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/v1ih/quick-table-sub000/internal/config"
	"github.com/v1ih/quick-table-sub000/internal/utils"
)

const secret = "test-secret"

func newContext(method, target string) (echo.Context, *httptest.ResponseRecorder) {
	e := echo.New()
	req := httptest.NewRequest(method, target, nil)
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

func okHandler(c echo.Context) error { return c.String(http.StatusOK, "ok") }

func TestJWTAuth(t *testing.T) {
	token, err := utils.NewAccessToken(secret, 42, "CUSTOMER", 5)
	require.NoError(t, err)

	t.Run("valid token sets identity", func(t *testing.T) {
		c, rec := newContext(http.MethodGet, "/v1/me")
		c.Request().Header.Set(echo.HeaderAuthorization, "Bearer "+token.Token)

		var gotID uint64
		var gotRole string
		h := JWTAuth(secret)(func(c echo.Context) error {
			var ok bool
			gotID, gotRole, ok = Identity(c)
			require.True(t, ok)
			return c.NoContent(http.StatusNoContent)
		})
		require.NoError(t, h(c))
		assert.Equal(t, http.StatusNoContent, rec.Code)
		assert.Equal(t, uint64(42), gotID)
		assert.Equal(t, "CUSTOMER", gotRole)
	})

	t.Run("missing header", func(t *testing.T) {
		c, rec := newContext(http.MethodGet, "/v1/me")
		require.NoError(t, JWTAuth(secret)(okHandler)(c))
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		assert.Contains(t, rec.Body.String(), `"code":"UNAUTHORIZED"`)
	})

	t.Run("wrong secret", func(t *testing.T) {
		c, rec := newContext(http.MethodGet, "/v1/me")
		c.Request().Header.Set(echo.HeaderAuthorization, "Bearer "+token.Token)
		require.NoError(t, JWTAuth("other")(okHandler)(c))
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})
}

func TestRequireRole(t *testing.T) {
	c, rec := newContext(http.MethodGet, "/v1/owner/restaurant")
	c.Set(ContextUserID, uint64(7))
	c.Set(ContextRole, "CUSTOMER")
	require.NoError(t, RequireRole("OWNER")(okHandler)(c))
	assert.Equal(t, http.StatusForbidden, rec.Code)

	c, rec = newContext(http.MethodGet, "/v1/owner/restaurant")
	c.Set(ContextUserID, uint64(7))
	c.Set(ContextRole, "OWNER")
	require.NoError(t, RequireRole("OWNER")(okHandler)(c))
	assert.Equal(t, http.StatusOK, rec.Code)

	c, rec = newContext(http.MethodGet, "/v1/owner/restaurant")
	require.NoError(t, RequireRole("OWNER")(okHandler)(c))
	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestBuildRateKey(t *testing.T) {
	c, _ := newContext(http.MethodPost, "/v1/reservations")
	c.SetPath("/v1/reservations")
	c.Request().Header.Set(echo.HeaderXRealIP, "10.0.0.1")

	cfg := config.RateLimitConfig{Prefix: "qt:rl", KeyStrategy: "user_route"}
	assert.Equal(t, "qt:rl:user:anon:route:POST /v1/reservations", buildRateKey(cfg, c))

	c.Set(ContextUserID, uint64(42))
	c.Set(ContextRole, "CUSTOMER")
	assert.Equal(t, "qt:rl:user:42:route:POST /v1/reservations", buildRateKey(cfg, c))

	cfg.KeyStrategy = "ip"
	assert.Equal(t, "qt:rl:ip:10.0.0.1", buildRateKey(cfg, c))

	cfg.KeyStrategy = "something-else"
	assert.Equal(t, "qt:rl:ip:10.0.0.1:user:42:route:POST /v1/reservations", buildRateKey(cfg, c))
}

func TestParseDecision(t *testing.T) {
	d, ok := parseDecision([]interface{}{int64(0), int64(0), int64(2500)})
	require.True(t, ok)
	assert.False(t, d.allowed)
	assert.Equal(t, 2500*time.Millisecond, d.retryAfter)

	d, ok = parseDecision([]interface{}{int64(1), int64(9), int64(0)})
	require.True(t, ok)
	assert.True(t, d.allowed)
	assert.Equal(t, int64(9), d.remaining)

	_, ok = parseDecision("OK")
	assert.False(t, ok)
}

func TestDisabledMiddlewaresPassThrough(t *testing.T) {
	c, rec := newContext(http.MethodPost, "/v1/reservations")
	require.NoError(t, NewTokenBucket(config.RateLimitConfig{Enabled: true}, nil)(okHandler)(c))
	assert.Equal(t, http.StatusOK, rec.Code)

	c, rec = newContext(http.MethodGet, "/v1/restaurants")
	require.NoError(t, NewRedisCache(config.CacheConfig{Enabled: false}, nil)(okHandler)(c))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, rec.Header().Get("X-Cache"))
}

func TestCacheKey(t *testing.T) {
	cfg := config.CacheConfig{Prefix: "qt:cache", KeyStrategy: "route_query"}
	a, _ := newContext(http.MethodGet, "/v1/restaurants/1")
	b, _ := newContext(http.MethodGet, "/v1/restaurants/2")
	a2, _ := newContext(http.MethodGet, "/v1/restaurants/1")

	assert.True(t, strings.HasPrefix(cacheKey(cfg, a), "qt:cache:"))
	assert.NotEqual(t, cacheKey(cfg, a), cacheKey(cfg, b))
	assert.Equal(t, cacheKey(cfg, a), cacheKey(cfg, a2))
}

func TestPayloadCodec(t *testing.T) {
	hdr := http.Header{"Content-Type": {"application/json"}}
	bs, err := encodePayload(http.StatusOK, hdr, []byte(`{"id":1}`))
	require.NoError(t, err)

	status, gotHdr, body, ok := decodePayload(bs)
	require.True(t, ok)
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, "application/json", gotHdr.Get("Content-Type"))
	assert.Equal(t, `{"id":1}`, string(body))

	_, _, _, ok = decodePayload(bs[:6])
	assert.False(t, ok)
}

func TestCaptureWriter_StopsAtLimit(t *testing.T) {
	rec := httptest.NewRecorder()
	cw := &captureWriter{ResponseWriter: rec, status: http.StatusOK, limit: 4}
	_, _ = cw.Write([]byte("abc"))
	assert.False(t, cw.over)
	_, _ = cw.Write([]byte("def"))
	assert.True(t, cw.over)
	assert.Equal(t, "abcdef", rec.Body.String())
}
