package middleware

import (
	"context"
	"errors"
	"log"
	"net/url"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/session"
	"github.com/sahilchouksey/edupool/model"
	"github.com/sahilchouksey/edupool/services"
	"github.com/sahilchouksey/edupool/utils/auth"
)

const (
	SessionCookie  = "edupool_session"
	RememberCookie = "edupool_remember"

	// CSRFField is the form field carrying the CSRF token
	CSRFField = "csrf_token"

	keyUserID        = "user_id"
	keyUsername      = "username"
	keyAdminID       = "admin_id"
	keyAdminUsername = "admin_username"
	keyCSRF          = "csrf_token"

	localPrincipal = "principal"
	localCSRF      = "csrfToken"
)

// Principal is who is signed in. Students and admins are tracked independently.
type Principal struct {
	UserID        uint
	Username      string
	AdminID       uint
	AdminUsername string
}

// LoggedIn reports whether a student is signed in
func (p Principal) LoggedIn() bool {
	return p.UserID != 0
}

// IsAdmin reports whether an admin is signed in
func (p Principal) IsAdmin() bool {
	return p.AdminID != 0
}

// UserLookup loads accounts for remember-me restores and session checks
type UserLookup interface {
	Get(ctx context.Context, id uint) (*model.User, error)
}

// NewSessionStore builds the cookie session store. A nil storage keeps sessions in memory.
func NewSessionStore(storage fiber.Storage, expiration time.Duration, secure bool) *session.Store {
	return session.New(session.Config{
		Storage:        storage,
		Expiration:     expiration,
		KeyLookup:      "cookie:" + SessionCookie,
		CookieHTTPOnly: true,
		CookieSecure:   secure,
		CookieSameSite: "Lax",
		CookiePath:     "/",
	})
}

// AuthMiddleware handles session authentication
type AuthMiddleware struct {
	store        *session.Store
	jwtManager   *auth.JWTManager
	users        UserLookup
	cookieSecure bool
}

// NewAuthMiddleware creates a new auth middleware
func NewAuthMiddleware(store *session.Store, jwtManager *auth.JWTManager, users UserLookup, cookieSecure bool) *AuthMiddleware {
	return &AuthMiddleware{
		store:        store,
		jwtManager:   jwtManager,
		users:        users,
		cookieSecure: cookieSecure,
	}
}

// LoadPrincipal reads the session into request locals, issuing a CSRF token on first visit
// and restoring a remembered student login
func (m *AuthMiddleware) LoadPrincipal() fiber.Handler {
	return func(c *fiber.Ctx) error {
		sess, err := m.store.Get(c)
		if err != nil {
			log.Printf("Failed to load session: %v", err)
			c.Locals(localPrincipal, Principal{})
			return c.Next()
		}

		changed := false
		token, _ := sess.Get(keyCSRF).(string)
		if token == "" {
			if token, err = auth.GenerateCSRFToken(); err != nil {
				return err
			}
			sess.Set(keyCSRF, token)
			changed = true
		}

		var p Principal
		p.UserID, _ = sess.Get(keyUserID).(uint)
		p.Username, _ = sess.Get(keyUsername).(string)
		p.AdminID, _ = sess.Get(keyAdminID).(uint)
		p.AdminUsername, _ = sess.Get(keyAdminUsername).(string)

		// accounts deleted by an admin lose their session on the next request
		if p.LoggedIn() {
			_, err := m.users.Get(c.UserContext(), p.UserID)
			switch {
			case errors.Is(err, services.ErrNotFound):
				sess.Delete(keyUserID)
				sess.Delete(keyUsername)
				p.UserID, p.Username = 0, ""
				m.clearRememberCookie(c)
				changed = true
			case err != nil:
				log.Printf("Failed to load session user %d: %v", p.UserID, err)
			}
		}

		if !p.LoggedIn() && c.Cookies(RememberCookie) != "" {
			if user := m.remembered(c); user != nil {
				p.UserID, p.Username = user.ID, user.Username
				sess.Set(keyUserID, user.ID)
				sess.Set(keyUsername, user.Username)
				changed = true
			}
		}

		if changed {
			if err := sess.Save(); err != nil {
				log.Printf("Failed to save session: %v", err)
			}
		}

		c.Locals(localPrincipal, p)
		c.Locals(localCSRF, token)
		return c.Next()
	}
}

// remembered resolves the remember-me cookie, clearing it when it no longer identifies a user
func (m *AuthMiddleware) remembered(c *fiber.Ctx) *model.User {
	claims, err := m.jwtManager.ValidateToken(c.Cookies(RememberCookie))
	if err == nil {
		if user, err := m.users.Get(c.UserContext(), claims.UserID); err == nil {
			return user
		}
	}
	m.clearRememberCookie(c)
	return nil
}

// RequireLogin redirects anonymous visitors to the login page
func (m *AuthMiddleware) RequireLogin() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if !GetPrincipal(c).LoggedIn() {
			return c.Redirect("/login?redirect="+url.QueryEscape(c.OriginalURL()), fiber.StatusSeeOther)
		}
		return c.Next()
	}
}

// RequireAdmin redirects to the admin login page unless an admin is signed in
func (m *AuthMiddleware) RequireAdmin() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if !GetPrincipal(c).IsAdmin() {
			return c.Redirect("/admin/login", fiber.StatusSeeOther)
		}
		return c.Next()
	}
}

// RedirectIfLoggedIn sends signed-in students away from the login and register pages
func (m *AuthMiddleware) RedirectIfLoggedIn(location string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if GetPrincipal(c).LoggedIn() {
			return c.Redirect(location, fiber.StatusSeeOther)
		}
		return c.Next()
	}
}

// RedirectIfAdmin sends signed-in admins away from the admin login page
func (m *AuthMiddleware) RedirectIfAdmin(location string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if GetPrincipal(c).IsAdmin() {
			return c.Redirect(location, fiber.StatusSeeOther)
		}
		return c.Next()
	}
}

// Login starts a student session under a fresh session id and CSRF token
func (m *AuthMiddleware) Login(c *fiber.Ctx, user *model.User, remember bool) error {
	err := m.rotate(c, func(sess *session.Session) {
		sess.Set(keyUserID, user.ID)
		sess.Set(keyUsername, user.Username)
	})
	if err != nil {
		return err
	}

	if remember {
		token, err := m.jwtManager.GenerateRememberToken(user.ID)
		if err != nil {
			return err
		}
		c.Cookie(&fiber.Cookie{
			Name:     RememberCookie,
			Value:    token,
			Path:     "/",
			Expires:  time.Now().Add(m.jwtManager.Expiry()),
			HTTPOnly: true,
			Secure:   m.cookieSecure,
			SameSite: fiber.CookieSameSiteLaxMode,
		})
	}
	return nil
}

// Logout ends the student session and forgets the remember-me cookie
func (m *AuthMiddleware) Logout(c *fiber.Ctx) error {
	m.clearRememberCookie(c)
	return m.destroy(c, keyUserID, keyUsername)
}

// LoginAdmin starts an admin session under a fresh session id and CSRF token
func (m *AuthMiddleware) LoginAdmin(c *fiber.Ctx, admin *model.Admin) error {
	return m.rotate(c, func(sess *session.Session) {
		sess.Set(keyAdminID, admin.ID)
		sess.Set(keyAdminUsername, admin.Username)
	})
}

// LogoutAdmin ends the admin session
func (m *AuthMiddleware) LogoutAdmin(c *fiber.Ctx) error {
	return m.destroy(c, keyAdminID, keyAdminUsername)
}

// destroy removes the principal keys, then deletes the session and its cookie
func (m *AuthMiddleware) destroy(c *fiber.Ctx, keys ...string) error {
	sess, err := m.store.Get(c)
	if err != nil {
		return err
	}
	for _, key := range keys {
		sess.Delete(key)
	}
	if err := sess.Destroy(); err != nil {
		return err
	}
	c.Locals(localPrincipal, Principal{})
	c.Locals(localCSRF, "")
	return nil
}

// rotate applies a privilege change under a new session id and CSRF token
func (m *AuthMiddleware) rotate(c *fiber.Ctx, apply func(sess *session.Session)) error {
	sess, err := m.store.Get(c)
	if err != nil {
		return err
	}
	if err := sess.Regenerate(); err != nil {
		return err
	}

	token, err := auth.GenerateCSRFToken()
	if err != nil {
		return err
	}
	sess.Set(keyCSRF, token)
	apply(sess)

	if err := sess.Save(); err != nil {
		return err
	}
	c.Locals(localCSRF, token)
	return nil
}

func (m *AuthMiddleware) clearRememberCookie(c *fiber.Ctx) {
	c.Cookie(&fiber.Cookie{
		Name:     RememberCookie,
		Value:    "",
		Path:     "/",
		Expires:  time.Unix(0, 0),
		MaxAge:   -1,
		HTTPOnly: true,
		Secure:   m.cookieSecure,
		SameSite: fiber.CookieSameSiteLaxMode,
	})
}

// GetPrincipal returns the signed-in principals of the request
func GetPrincipal(c *fiber.Ctx) Principal {
	p, _ := c.Locals(localPrincipal).(Principal)
	return p
}

// CSRFToken returns the session's CSRF token for embedding in forms
func CSRFToken(c *fiber.Ctx) string {
	token, _ := c.Locals(localCSRF).(string)
	return token
}

// ValidCSRF checks the submitted form token against the session token
func ValidCSRF(c *fiber.Ctx) bool {
	return auth.VerifyCSRFToken(CSRFToken(c), c.FormValue(CSRFField))
}
