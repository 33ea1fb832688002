package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/bankportal/portal-gateway/internal/api/middleware"
	"github.com/bankportal/portal-gateway/internal/core/domain"
)

// ctxSession waits for the request's session and fails fast when the caller
// is not signed in. The Session middleware always resolves it, so the wait
// only ends early when the client goes away.
func ctxSession(c echo.Context) (domain.Session, error) {
	s, err := middleware.CurrentSession(c).Await(c.Request().Context())
	if err != nil {
		return domain.Session{}, err
	}
	if !s.Authenticated() {
		return domain.Session{}, echo.NewHTTPError(http.StatusUnauthorized, "authentication required")
	}
	return s, nil
}
