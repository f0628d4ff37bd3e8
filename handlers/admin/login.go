package admin

import (
	"context"
	"errors"
	"log"

	"github.com/gofiber/fiber/v2"
	"github.com/sahilchouksey/edupool/model"
	"github.com/sahilchouksey/edupool/services"
	"github.com/sahilchouksey/edupool/utils"
	"github.com/sahilchouksey/edupool/utils/middleware"
	"github.com/sahilchouksey/edupool/utils/response"
	"github.com/sahilchouksey/edupool/utils/validation"
)

// AdminAuthenticator checks back-office credentials
type AdminAuthenticator interface {
	Authenticate(ctx context.Context, username, password string) (*model.Admin, error)
}

// AdminSessions starts and ends admin sessions
type AdminSessions interface {
	LoginAdmin(c *fiber.Ctx, admin *model.Admin) error
	LogoutAdmin(c *fiber.Ctx) error
}

type adminLoginInput struct {
	Username string `form:"username"`
	Password string `form:"password"`
}

// AdminAuthHandler serves /admin/login and /admin/logout
type AdminAuthHandler struct {
	admins     AdminAuthenticator
	sessions   AdminSessions
	bruteForce *middleware.BruteForceProtection
	activity   *utils.ActivityLogger
}

// NewAdminAuthHandler creates a new admin auth handler. bruteForce may be nil.
func NewAdminAuthHandler(admins AdminAuthenticator, sessions AdminSessions, bruteForce *middleware.BruteForceProtection, activity *utils.ActivityLogger) *AdminAuthHandler {
	return &AdminAuthHandler{
		admins:     admins,
		sessions:   sessions,
		bruteForce: bruteForce,
		activity:   activity,
	}
}

// LoginPage handles GET /admin/login
func (h *AdminAuthHandler) LoginPage(c *fiber.Ctx) error {
	return h.render(c, response.Flash{}, "")
}

// Login handles POST /admin/login
func (h *AdminAuthHandler) Login(c *fiber.Ctx) error {
	var flash response.Flash
	var in adminLoginInput
	_ = c.BodyParser(&in)
	in.Username = validation.SanitizeString(in.Username)

	switch {
	case !middleware.ValidCSRF(c):
		flash.Fail(msgInvalidRequest)
		return h.render(c, flash, in.Username)
	case in.Username == "" || in.Password == "":
		flash.Fail("Please fill in all fields.")
		return h.render(c, flash, in.Username)
	}

	ctx := c.UserContext()
	ip := c.IP()
	if wait := h.bruteForce.LockedFor(ctx, ip); wait > 0 {
		flash.Fail(middleware.LockoutMessage(wait))
		return h.render(c, flash, in.Username)
	}

	admin, err := h.admins.Authenticate(ctx, in.Username, in.Password)
	if err != nil {
		if errors.Is(err, services.ErrInvalidCredentials) {
			h.bruteForce.RecordFailedAttempt(ctx, ip)
			h.activity.Info("Failed admin login attempt: %s", in.Username)
			flash.Fail("Invalid username or password.")
		} else {
			log.Printf("Admin login error: %v", err)
			flash.Fail("Login failed. Please try again.")
		}
		return h.render(c, flash, in.Username)
	}

	if err := h.sessions.LoginAdmin(c, admin); err != nil {
		log.Printf("Admin session error: %v", err)
		flash.Fail("Login failed. Please try again.")
		return h.render(c, flash, in.Username)
	}
	h.bruteForce.RecordSuccessfulAttempt(ctx, ip)
	h.activity.Info("Admin login successful: %s", admin.Username)
	return response.Redirect(c, "/admin")
}

// Logout handles GET /admin/logout
func (h *AdminAuthHandler) Logout(c *fiber.Ctx) error {
	username := middleware.GetPrincipal(c).AdminUsername
	if username == "" {
		username = "Unknown"
	}
	if err := h.sessions.LogoutAdmin(c); err != nil {
		log.Printf("Admin logout error: %v", err)
	}
	h.activity.Info("Admin logout: %s", username)
	return response.Redirect(c, "/admin/login")
}

func (h *AdminAuthHandler) render(c *fiber.Ctx, flash response.Flash, username string) error {
	return response.Page(c, "admin/login", fiber.Map{
		"Title":    "Admin Login - EduPool",
		"Flash":    flash,
		"Username": username,
	})
}
