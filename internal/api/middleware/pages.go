package middleware

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/bankportal/portal-gateway/internal/core/domain"
	"github.com/bankportal/portal-gateway/internal/core/service"
	"github.com/bankportal/portal-gateway/internal/navigation"
)

// Pages gates SPA page loads with the route table. A request the guards let
// through reaches next; anything else gets a single 302 to where the
// navigation settles.
func Pages(table *navigation.Table, gate *service.Gatekeeper, log zerolog.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			url := c.Request().URL.RequestURI()

			tr, err := navigation.TraceNavigation(c.Request().Context(), table, gate, CurrentSession(c), url)
			if err != nil {
				if errors.Is(err, domain.ErrRedirectLoop) {
					log.Warn().Str("url", url).Str("request_id", requestID(c)).Msg("page has no reachable destination")
				}
				return err
			}

			if tr.Redirected() {
				return c.Redirect(http.StatusFound, tr.Final)
			}
			return next(c)
		}
	}
}
