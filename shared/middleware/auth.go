package middleware

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/mine969/authsessionapi/api/session"
	"github.com/mine969/authsessionapi/api/user"
	"github.com/mine969/authsessionapi/shared/zaplogger"
)

// SessionCookieName is the cookie carrying the opaque session token.
const SessionCookieName = "session_id"

// UserContextKey is where SessionAuth stores the resolved user for handlers.
const UserContextKey = "authUser"

// SessionAuth gates protected routes on a valid session cookie. Any failure
// to resolve the cookie to a live user (missing cookie, expired or revoked
// session, deleted user, unreachable store) redirects to the login page:
// access fails closed, never open.
func SessionAuth(sessionService *session.Service, userService *user.Service) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			cookie, err := c.Cookie(SessionCookieName)
			if err != nil || cookie.Value == "" {
				return c.Redirect(http.StatusSeeOther, "/login")
			}

			userID, err := sessionService.Resolve(c.Request().Context(), cookie.Value)
			if err != nil {
				if !errors.Is(err, session.ErrSessionNotFound) {
					zaplogger.Error("session store read failed", zaplogger.Fields{"error": err.Error()})
				}
				return c.Redirect(http.StatusSeeOther, "/login")
			}

			u, err := userService.GetByID(c.Request().Context(), userID)
			if err != nil {
				// an orphaned session counts as unauthenticated, not an error
				if !errors.Is(err, user.ErrUserNotFound) {
					zaplogger.Error("user lookup failed", zaplogger.Fields{"error": err.Error()})
				}
				return c.Redirect(http.StatusSeeOther, "/login")
			}

			c.Set(UserContextKey, u)
			return next(c)
		}
	}
}
