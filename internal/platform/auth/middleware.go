package auth

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
)

// Verifier validates a raw bearer token.
type Verifier interface {
	Verify(token string) (RequestContext, error)
}

// Middleware authenticates protected routes. It expects
// "Authorization: Bearer <token>", verifies the token and attaches the
// resulting RequestContext to the request context. Failures stop the chain
// with 401 before any handler runs.
func Middleware(verifier Verifier) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			authHeader := c.Request().Header.Get(echo.HeaderAuthorization)
			if authHeader == "" {
				return echo.NewHTTPError(http.StatusUnauthorized, "Missing header authorization")
			}

			parts := strings.Fields(authHeader)
			if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
				return echo.NewHTTPError(http.StatusUnauthorized, "Invalid token")
			}

			rc, err := verifier.Verify(parts[1])
			if err != nil {
				return echo.NewHTTPError(http.StatusUnauthorized, "Invalid token").SetInternal(err)
			}

			c.SetRequest(c.Request().WithContext(WithRequestContext(c.Request().Context(), rc)))
			return next(c)
		}
	}
}

// MustFromEcho returns the caller for a handler mounted behind Middleware.
// A missing caller means the route was registered without the middleware,
// which is reported as 401 rather than trusting an empty identity.
func MustFromEcho(c echo.Context) (RequestContext, error) {
	rc, ok := FromContext(c.Request().Context())
	if !ok {
		return RequestContext{}, echo.NewHTTPError(http.StatusUnauthorized, "Missing header authorization")
	}
	return rc, nil
}
