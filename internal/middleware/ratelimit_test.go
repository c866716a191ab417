package middleware

import (
    "net/http"
    "net/http/httptest"
    "testing"

    "github.com/labstack/echo/v4"
    "github.com/stretchr/testify/assert"
    "go.uber.org/zap"

    "github.com/iliyamo/travel-api/internal/config"
    "github.com/iliyamo/travel-api/internal/model"
)

func TestBuildRateKey(t *testing.T) {
    e := echo.New()
    req := httptest.NewRequest(http.MethodPost, "/api/v1/login", nil)
    req.RemoteAddr = "10.0.0.1:5555"
    c := e.NewContext(req, httptest.NewRecorder())
    c.SetPath("/api/v1/login")

    cfg := config.RateLimitConfig{Prefix: "rl", KeyStrategy: "ip_route"}
    assert.Equal(t, "rl:ip:10.0.0.1:route:POST /api/v1/login", buildRateKey(cfg, c))

    cfg.KeyStrategy = "user"
    assert.Equal(t, "rl:user:anon", buildRateKey(cfg, c))

    c.Set(principalKey, &Principal{User: model.User{ID: 4}})
    assert.Equal(t, "rl:user:4", buildRateKey(cfg, c))
}

func TestRateLimit_DisabledWithoutRedis(t *testing.T) {
    e := echo.New()
    e.POST("/login", func(c echo.Context) error { return c.NoContent(http.StatusOK) },
        RateLimit(config.RateLimitConfig{Enabled: true}, nil, zap.NewNop()))

    for i := 0; i < 3; i++ {
        rec := httptest.NewRecorder()
        e.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/login", nil))
        assert.Equal(t, http.StatusOK, rec.Code)
    }
}
