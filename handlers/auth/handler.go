package auth

import (
	"context"
	"mime/multipart"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/sahilchouksey/edupool/model"
	"github.com/sahilchouksey/edupool/services"
	"github.com/sahilchouksey/edupool/utils"
	"github.com/sahilchouksey/edupool/utils/middleware"
	"github.com/sahilchouksey/edupool/utils/validation"
)

const msgInvalidRequest = "Invalid request. Please try again."

// Accounts is the user service as the sign-in pages use it
type Accounts interface {
	Register(ctx context.Context, in services.RegisterInput) (*model.User, error)
	Authenticate(ctx context.Context, login, password string) (*model.User, error)
}

// Sessions starts and ends student sessions
type Sessions interface {
	Login(c *fiber.Ctx, user *model.User, remember bool) error
	Logout(c *fiber.Ctx) error
}

// ImageStore saves and removes profile pictures
type ImageStore interface {
	Save(ctx context.Context, fh *multipart.FileHeader) (string, error)
	Delete(ctx context.Context, name string) error
}

// AuthHandler handles student registration, login and logout
type AuthHandler struct {
	accounts   Accounts
	sessions   Sessions
	images     ImageStore
	bruteForce *middleware.BruteForceProtection
	activity   *utils.ActivityLogger
	validator  *validation.Validator
}

// NewAuthHandler creates a new auth handler. bruteForce may be nil.
func NewAuthHandler(accounts Accounts, sessions Sessions, images ImageStore, bruteForce *middleware.BruteForceProtection, activity *utils.ActivityLogger) *AuthHandler {
	return &AuthHandler{
		accounts:   accounts,
		sessions:   sessions,
		images:     images,
		bruteForce: bruteForce,
		activity:   activity,
		validator:  validation.NewValidator(),
	}
}

// SafeRedirect returns target when it is a local path, otherwise "/"
func SafeRedirect(target string) string {
	if !strings.HasPrefix(target, "/") || strings.HasPrefix(target, "//") || strings.HasPrefix(target, "/\\") {
		return "/"
	}
	return target
}
