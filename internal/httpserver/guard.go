package httpserver

import (
	"context"
	"net/http"
	"net/url"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/mindmates/internal/logging"
)

const LoginPath = "/login"

type TokenChecker interface {
	HasToken(ctx context.Context) bool
}

// RequireSession lets a request through iff a token is stored right now.
// The token is not validated here; an expired one surfaces as an auth error
// from the first API call the page makes. Anyone else is sent to the login
// page with the original path in "from".
func RequireSession(s TokenChecker) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			ctx := c.Request().Context()
			if s.HasToken(ctx) {
				return next(c)
			}

			from := c.Request().URL.Path
			logging.FromContext(ctx).Info("redirecting to login", "from", from)
			return c.Redirect(http.StatusSeeOther, LoginPath+"?from="+url.QueryEscape(from))
		}
	}
}
