// Package web is the request-facing auth gateway: registration and login
// forms, the session cookie contract, and the protected page.
package web

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/mine969/authsessionapi/api/session"
	"github.com/mine969/authsessionapi/api/user"
	"github.com/mine969/authsessionapi/shared/logger"
	"github.com/mine969/authsessionapi/shared/middleware"
	"github.com/mine969/authsessionapi/shared/zaplogger"
)

// pageData is passed to every template
type pageData struct {
	User  *user.UserModel
	Error string
}

type Handler struct {
	userService    *user.Service
	sessionService *session.Service
	audit          *logger.Logger
}

func NewHandler(userService *user.Service, sessionService *session.Service, audit *logger.Logger) *Handler {
	return &Handler{
		userService:    userService,
		sessionService: sessionService,
		audit:          audit,
	}
}

// Home renders the landing page, showing the user when a valid session exists
func (h *Handler) Home(c echo.Context) error {
	return c.Render(http.StatusOK, "home.html", pageData{User: h.currentUser(c)})
}

// RegisterForm renders the empty registration form
func (h *Handler) RegisterForm(c echo.Context) error {
	return c.Render(http.StatusOK, "register.html", pageData{})
}

// Register creates a new user and redirects to the login page. Registration
// never auto-authenticates.
func (h *Handler) Register(c echo.Context) error {
	username := c.FormValue("username")
	plain := c.FormValue("password")

	_, err := h.userService.Register(c.Request().Context(), username, plain)
	if err != nil {
		switch {
		case errors.Is(err, user.ErrMissingFields), errors.Is(err, user.ErrUsernameTooLong):
			return c.Render(http.StatusBadRequest, "register.html", pageData{Error: err.Error()})
		case errors.Is(err, user.ErrDuplicateUsername):
			return c.Render(http.StatusBadRequest, "register.html", pageData{Error: "Username already exists"})
		default:
			zaplogger.Error("registration failed", zaplogger.Fields{"error": err.Error()})
			return c.Render(http.StatusInternalServerError, "register.html", pageData{Error: "Registration failed, please try again"})
		}
	}

	h.auditLog("register", "user registered", map[string]interface{}{"username": username})
	return c.Redirect(http.StatusSeeOther, "/login")
}

// LoginForm renders the empty login form
func (h *Handler) LoginForm(c echo.Context) error {
	return c.Render(http.StatusOK, "login.html", pageData{})
}

// Login verifies credentials, creates a session and sets the cookie. The
// failure message is identical for unknown usernames and wrong passwords.
// A session store write failure is hard: no cookie is issued.
func (h *Handler) Login(c echo.Context) error {
	username := c.FormValue("username")
	plain := c.FormValue("password")

	u, err := h.userService.Authenticate(c.Request().Context(), username, plain)
	if err != nil {
		if errors.Is(err, user.ErrInvalidCredentials) {
			h.auditLog("login_failed", "invalid credentials", map[string]interface{}{"username": username})
			return c.Render(http.StatusUnauthorized, "login.html", pageData{Error: "Invalid credentials"})
		}
		zaplogger.Error("login lookup failed", zaplogger.Fields{"error": err.Error()})
		return c.Render(http.StatusInternalServerError, "login.html", pageData{Error: "Login could not be completed, please try again"})
	}

	token, err := h.sessionService.Create(c.Request().Context(), u.ID)
	if err != nil {
		zaplogger.Error("session creation failed", zaplogger.Fields{"error": err.Error()})
		return c.Render(http.StatusInternalServerError, "login.html", pageData{Error: "Login could not be completed, please try again"})
	}

	h.setSessionCookie(c, token)
	h.auditLog("login", "user logged in", map[string]interface{}{"user_id": u.ID, "username": u.Username})
	return c.Redirect(http.StatusSeeOther, "/")
}

// Logout revokes the session if a cookie is present and clears the cookie.
// Always succeeds; revoking an absent or already-revoked session is a no-op.
func (h *Handler) Logout(c echo.Context) error {
	if cookie, err := c.Cookie(middleware.SessionCookieName); err == nil && cookie.Value != "" {
		if err := h.sessionService.Revoke(c.Request().Context(), cookie.Value); err != nil {
			zaplogger.Error("session revocation failed", zaplogger.Fields{"error": err.Error()})
		}
		h.auditLog("logout", "user logged out", nil)
	}

	h.clearSessionCookie(c)
	return c.Redirect(http.StatusSeeOther, "/")
}

// Protected renders the protected page. The SessionAuth middleware has
// already resolved the user or redirected.
func (h *Handler) Protected(c echo.Context) error {
	u, _ := c.Get(middleware.UserContextKey).(*user.UserModel)
	if u == nil {
		return c.Redirect(http.StatusSeeOther, "/login")
	}
	return c.Render(http.StatusOK, "protected.html", pageData{User: u})
}

// currentUser resolves the session cookie to a user, or nil. Absent cookie,
// expired or revoked session, unreachable store and deleted user all resolve
// to nil rather than an error.
func (h *Handler) currentUser(c echo.Context) *user.UserModel {
	cookie, err := c.Cookie(middleware.SessionCookieName)
	if err != nil || cookie.Value == "" {
		return nil
	}

	userID, err := h.sessionService.Resolve(c.Request().Context(), cookie.Value)
	if err != nil {
		if !errors.Is(err, session.ErrSessionNotFound) {
			zaplogger.Error("session store read failed", zaplogger.Fields{"error": err.Error()})
		}
		return nil
	}

	u, err := h.userService.GetByID(c.Request().Context(), userID)
	if err != nil {
		return nil
	}
	return u
}

func (h *Handler) setSessionCookie(c echo.Context, token string) {
	c.SetCookie(&http.Cookie{
		Name:     middleware.SessionCookieName,
		Value:    token,
		Path:     "/",
		MaxAge:   int(h.sessionService.TTL().Seconds()),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
		Secure:   false, // TODO: flip to true once the service terminates TLS
	})
}

func (h *Handler) clearSessionCookie(c echo.Context) {
	c.SetCookie(&http.Cookie{
		Name:     middleware.SessionCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}

func (h *Handler) auditLog(event, message string, fields map[string]interface{}) {
	if err := h.audit.Info(event, message, fields); err != nil {
		zaplogger.Error("audit log write failed", zaplogger.Fields{"error": err.Error()})
	}
}
