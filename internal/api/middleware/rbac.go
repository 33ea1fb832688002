package middleware

import (
	"github.com/labstack/echo/v4"

	"github.com/bankportal/portal-gateway/internal/core/domain"
)

// RequireRole enforces role-based access control on API endpoints. With no
// roles it only requires a signed-in user. Denials are returned as
// domain.ErrUnauthenticated or domain.ErrForbidden for the error handler to
// render.
func RequireRole(roles ...domain.Role) echo.MiddlewareFunc {
	allowed := domain.NewRoleSet(roles...)

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			s, err := CurrentSession(c).Await(c.Request().Context())
			if err != nil {
				return err
			}
			if !s.Authenticated() {
				return domain.ErrUnauthenticated
			}
			if allowed.Empty() {
				return next(c)
			}
			for _, r := range allowed.Roles() {
				if domain.HasRole(s, r) {
					return next(c)
				}
			}
			return domain.ErrForbidden
		}
	}
}
