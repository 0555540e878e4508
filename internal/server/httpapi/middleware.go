package httpapi

import (
	"errors"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/uscre/auth-service/internal/common"
	"github.com/uscre/auth-service/internal/server/models"
)

const userContextKey = "authenticated-user"

// requireAuth resolves the bearer token to a user record and stores it on
// the request context. All token failures collapse to 401.
func requireAuth(auth AuthService) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			token, ok := bearerToken(c.Request().Header.Get(echo.HeaderAuthorization))
			if !ok {
				return respond(c, http.StatusUnauthorized, codeError, "missing bearer token", nil)
			}

			user, err := auth.GetUserFromToken(c.Request().Context(), token)
			if err != nil {
				switch {
				case errors.Is(err, common.ErrTokenExpired):
					return respond(c, http.StatusUnauthorized, codeError, "token expired", nil)
				case errors.Is(err, common.ErrInvalidToken), errors.Is(err, common.ErrorNotFound):
					return respond(c, http.StatusUnauthorized, codeError, "could not validate credentials", nil)
				default:
					return respond(c, http.StatusInternalServerError, codeError, "internal error", nil)
				}
			}

			c.Set(userContextKey, user)
			return next(c)
		}
	}
}

func bearerToken(header string) (string, bool) {
	const prefix = "Bearer "
	if len(header) <= len(prefix) || !strings.EqualFold(header[:len(prefix)], prefix) {
		return "", false
	}
	return strings.TrimSpace(header[len(prefix):]), true
}

// currentUser returns the record stored by requireAuth. Handlers behind the
// middleware can rely on it being present.
func currentUser(c echo.Context) *models.User {
	u, _ := c.Get(userContextKey).(*models.User)
	return u
}
