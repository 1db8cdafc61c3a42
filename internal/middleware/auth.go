package middleware

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/locvowork/taskboard/internal/identity"
	"github.com/locvowork/taskboard/internal/logger"
	"github.com/locvowork/taskboard/internal/service/serviceutils"
)

// TokenVerifier turns a bearer token into a user.
type TokenVerifier interface {
	Verify(token string) (identity.User, error)
}

const userIDKey = "user_id"

// Auth places the bearer token's user on the request context. Requests without
// an Authorization header pass through anonymously and are rejected by the
// services; malformed or invalid tokens are rejected here.
func Auth(v TokenVerifier) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			header := c.Request().Header.Get(echo.HeaderAuthorization)
			if header == "" {
				return next(c)
			}

			scheme, token, ok := strings.Cut(header, " ")
			if !ok || !strings.EqualFold(scheme, "Bearer") || strings.TrimSpace(token) == "" {
				return serviceutils.ResponseError(c, http.StatusUnauthorized, "unauthenticated", nil)
			}

			user, err := v.Verify(strings.TrimSpace(token))
			if err != nil {
				logger.DebugLog(c.Request().Context(), "rejected bearer token: %v", err)
				return serviceutils.ResponseError(c, http.StatusUnauthorized, "unauthenticated", nil)
			}

			ctx := identity.NewContext(c.Request().Context(), user)
			ctx = logger.WithRequest(ctx, "", user.ID)
			c.SetRequest(c.Request().WithContext(ctx))
			c.Set(userIDKey, user.ID)
			return next(c)
		}
	}
}
