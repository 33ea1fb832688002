package middleware

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/bankportal/portal-gateway/internal/core/ports"
	"github.com/bankportal/portal-gateway/internal/session"
)

const (
	// CookieName carries the access token for page requests.
	CookieName = "access_token"

	keySession = "session"
	keyToken   = "token"
)

// Session restores the caller's session before the handler runs. The token
// comes from the Authorization header or, for page loads, the access_token
// cookie. Any restore failure leaves the request anonymous.
func Session(restorer ports.SessionRestorer, log zerolog.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			store := session.NewStore()
			c.Set(keySession, store)

			raw := bearerToken(c.Request())
			if raw == "" {
				if ck, err := c.Cookie(CookieName); err == nil {
					raw = ck.Value
				}
			}

			user, err := restorer.Restore(c.Request().Context(), raw)
			if err != nil {
				if raw != "" {
					log.Debug().Err(err).Str("request_id", requestID(c)).Msg("session not restored")
				}
				store.Clear()
				return next(c)
			}

			c.Set(keyToken, raw)
			store.Publish(user)
			return next(c)
		}
	}
}

// CurrentSession returns the store installed by Session. Requests that did
// not pass through Session get an anonymous one.
func CurrentSession(c echo.Context) *session.Store {
	if s, ok := c.Get(keySession).(*session.Store); ok {
		return s
	}
	return session.NewResolvedStore(nil)
}

// CurrentToken returns the token the session was restored from, if any.
func CurrentToken(c echo.Context) string {
	t, _ := c.Get(keyToken).(string)
	return t
}

func bearerToken(r *http.Request) string {
	h := r.Header.Get(echo.HeaderAuthorization)
	parts := strings.SplitN(h, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
		return ""
	}
	return strings.TrimSpace(parts[1])
}

func requestID(c echo.Context) string {
	return c.Response().Header().Get(echo.HeaderXRequestID)
}
