package middleware // middleware provides shared request processing for handlers

import (
    "context"
    "errors"
    "net/http"
    "strings"

    "github.com/labstack/echo/v4"
    "go.uber.org/zap"

    "github.com/iliyamo/travel-api/internal/model"
    "github.com/iliyamo/travel-api/internal/utils"
)

const principalKey = "principal"

// Principal is the authenticated user making a request.  Roles is filled
// in by RequireRoles once they have been loaded.
type Principal struct {
    User    model.User
    TokenID uint64
    Roles   model.RoleSet
}

// BearerVerifier resolves a raw bearer token to its user.  It must return
// utils.ErrInvalidToken for tokens that are malformed, unknown or expired.
type BearerVerifier interface {
    Verify(ctx context.Context, raw string) (model.User, uint64, error)
}

// Authenticate attaches a Principal to the context when the request carries
// a valid bearer token.  Requests without a token, or with one that does not
// verify, continue anonymously; RequireRoles decides whether that is
// acceptable.
func Authenticate(v BearerVerifier, log *zap.Logger) echo.MiddlewareFunc {
    return func(next echo.HandlerFunc) echo.HandlerFunc {
        return func(c echo.Context) error {
            raw, ok := bearerToken(c.Request().Header.Get(echo.HeaderAuthorization))
            if !ok {
                return next(c)
            }
            u, tokenID, err := v.Verify(c.Request().Context(), raw)
            if err != nil {
                if errors.Is(err, utils.ErrInvalidToken) {
                    return next(c)
                }
                log.Error("bearer verification failed", zap.Error(err))
                return c.JSON(http.StatusInternalServerError, echo.Map{"message": "Server Error"})
            }
            c.Set(principalKey, &Principal{User: u, TokenID: tokenID})
            return next(c)
        }
    }
}

// PrincipalFrom returns the authenticated principal, if any.
func PrincipalFrom(c echo.Context) (*Principal, bool) {
    p, ok := c.Get(principalKey).(*Principal)
    return p, ok && p != nil
}

func bearerToken(header string) (string, bool) {
    const prefix = "Bearer "
    if len(header) <= len(prefix) || !strings.EqualFold(header[:len(prefix)], prefix) {
        return "", false
    }
    raw := strings.TrimSpace(header[len(prefix):])
    return raw, raw != ""
}
