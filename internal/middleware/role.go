package middleware

import (
    "context"
    "net/http"

    "github.com/labstack/echo/v4"
    "go.uber.org/zap"

    "github.com/iliyamo/travel-api/internal/model"
)

// RoleLoader reads the roles assigned to a user.
type RoleLoader interface {
    RoleNames(ctx context.Context, userID uint64) (model.RoleSet, error)
}

// RequireRoles lets a request through only when its principal holds at
// least one role in required.  It must run after Authenticate.
//
//   - no principal: 401 {"message":"Unauthenticated."}, roles are not loaded
//   - no shared role: 403 with an empty body
func RequireRoles(loader RoleLoader, required model.RoleSet, log *zap.Logger) echo.MiddlewareFunc {
    return func(next echo.HandlerFunc) echo.HandlerFunc {
        return func(c echo.Context) error {
            p, ok := PrincipalFrom(c)
            if !ok {
                return c.JSON(http.StatusUnauthorized, echo.Map{"message": "Unauthenticated."})
            }
            if p.Roles == nil {
                roles, err := loader.RoleNames(c.Request().Context(), p.User.ID)
                if err != nil {
                    log.Error("load roles failed", zap.Uint64("user_id", p.User.ID), zap.Error(err))
                    return c.JSON(http.StatusInternalServerError, echo.Map{"message": "Server Error"})
                }
                p.Roles = roles
            }
            if !p.Roles.Intersects(required) {
                return c.NoContent(http.StatusForbidden)
            }
            return next(c)
        }
    }
}
