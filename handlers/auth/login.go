package auth

import (
	"errors"
	"log"

	"github.com/gofiber/fiber/v2"
	"github.com/sahilchouksey/edupool/services"
	"github.com/sahilchouksey/edupool/utils/middleware"
	"github.com/sahilchouksey/edupool/utils/response"
	"github.com/sahilchouksey/edupool/utils/validation"
)

// LoginRequest represents a user login form
type LoginRequest struct {
	Login    string `form:"login"`
	Password string `form:"password"`
	Remember string `form:"remember"`
}

// LoginPage handles GET /login
func (h *AuthHandler) LoginPage(c *fiber.Ctx) error {
	return h.renderLogin(c, response.Flash{}, "")
}

// Login handles POST /login. The login field accepts a username or an email.
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var flash response.Flash
	var req LoginRequest
	_ = c.BodyParser(&req)
	req.Login = validation.SanitizeString(req.Login)

	switch {
	case !middleware.ValidCSRF(c):
		flash.Fail(msgInvalidRequest)
		return h.renderLogin(c, flash, req.Login)
	case req.Login == "" || req.Password == "":
		flash.Fail("Please fill in all fields.")
		return h.renderLogin(c, flash, req.Login)
	}

	ctx := c.UserContext()
	ip := c.IP()
	if wait := h.bruteForce.LockedFor(ctx, ip); wait > 0 {
		flash.Fail(middleware.LockoutMessage(wait))
		return h.renderLogin(c, flash, req.Login)
	}

	user, err := h.accounts.Authenticate(ctx, req.Login, req.Password)
	if err != nil {
		if errors.Is(err, services.ErrInvalidCredentials) {
			h.bruteForce.RecordFailedAttempt(ctx, ip)
			h.activity.Info("Failed user login attempt: %s", req.Login)
			flash.Fail("Invalid username/email or password.")
		} else {
			log.Printf("User login error: %v", err)
			flash.Fail("Login failed. Please try again.")
		}
		return h.renderLogin(c, flash, req.Login)
	}

	if err := h.sessions.Login(c, user, req.Remember != ""); err != nil {
		log.Printf("User session error: %v", err)
		flash.Fail("Login failed. Please try again.")
		return h.renderLogin(c, flash, req.Login)
	}
	h.bruteForce.RecordSuccessfulAttempt(ctx, ip)
	h.activity.Info("User login successful: %s", user.Username)

	return response.Redirect(c, SafeRedirect(c.Query("redirect")))
}

// Logout handles GET /logout
func (h *AuthHandler) Logout(c *fiber.Ctx) error {
	username := middleware.GetPrincipal(c).Username
	if username == "" {
		username = "Unknown"
	}
	if err := h.sessions.Logout(c); err != nil {
		log.Printf("User logout error: %v", err)
	}
	h.activity.Info("User logout: %s", username)
	return response.Redirect(c, "/?logout=1")
}

func (h *AuthHandler) renderLogin(c *fiber.Ctx, flash response.Flash, login string) error {
	if !flash.Failed() && c.Query("registered") == "1" {
		flash.Ok("Account created successfully! Please sign in.")
	}
	return response.Page(c, "auth/login", fiber.Map{
		"Title":    "Login - EduPool",
		"Flash":    flash,
		"Login":    login,
		"Redirect": SafeRedirect(c.Query("redirect")),
	})
}
