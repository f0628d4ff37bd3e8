package auth

import (
	"errors"
	"log"

	"github.com/gofiber/fiber/v2"
	"github.com/sahilchouksey/edupool/services"
	"github.com/sahilchouksey/edupool/utils/middleware"
	"github.com/sahilchouksey/edupool/utils/response"
	"github.com/sahilchouksey/edupool/utils/upload"
	"github.com/sahilchouksey/edupool/utils/validation"
)

// RegisterRequest represents a user registration form
type RegisterRequest struct {
	Email           string `form:"email" validate:"email" msg:"Please enter a valid email address."`
	Password        string `form:"password" validate:"min=6" msg:"Password must be at least 6 characters long."`
	ConfirmPassword string `form:"confirm_password" validate:"eqfield=Password" msg:"Passwords do not match."`
	Username        string `form:"username" validate:"min=3,max=20,username" msg:"Username must be 3-20 characters: letters, numbers and underscores only."`
}

func (r *RegisterRequest) sanitize() {
	r.Username = validation.SanitizeString(r.Username)
	r.Email = validation.SanitizeString(r.Email)
}

// RegisterPage handles GET /register
func (h *AuthHandler) RegisterPage(c *fiber.Ctx) error {
	return h.renderRegister(c, response.Flash{}, RegisterRequest{})
}

// Register handles POST /register and signs the new user in
func (h *AuthHandler) Register(c *fiber.Ctx) error {
	var flash response.Flash
	var req RegisterRequest
	_ = c.BodyParser(&req)
	req.sanitize()

	switch {
	case !middleware.ValidCSRF(c):
		flash.Fail(msgInvalidRequest)
		return h.renderRegister(c, flash, req)
	case req.Username == "" || req.Email == "" || req.Password == "" || req.ConfirmPassword == "":
		flash.Fail("Please fill in all required fields.")
		return h.renderRegister(c, flash, req)
	}
	if msg := h.validator.Message(&req); msg != "" {
		flash.Fail(msg)
		return h.renderRegister(c, flash, req)
	}

	ctx := c.UserContext()
	picture := ""
	if fh, err := c.FormFile("profile_picture"); err == nil {
		picture, err = h.images.Save(ctx, fh)
		if err != nil && !upload.IsNoFile(err) {
			var uploadErr *upload.UploadError
			if errors.As(err, &uploadErr) {
				flash.Fail(uploadErr.Message)
			} else {
				flash.Fail("Failed to upload file")
			}
			return h.renderRegister(c, flash, req)
		}
	}

	user, err := h.accounts.Register(ctx, services.RegisterInput{
		Username:       req.Username,
		Email:          req.Email,
		Password:       req.Password,
		ProfilePicture: picture,
	})
	if err != nil {
		if picture != "" {
			if delErr := h.images.Delete(ctx, picture); delErr != nil {
				log.Printf("Warning: failed to delete image %s: %v", picture, delErr)
			}
		}
		if errors.Is(err, services.ErrDuplicate) {
			flash.Fail("Username or email already exists. Please choose different ones.")
		} else {
			log.Printf("Registration error: %v", err)
			flash.Fail("Registration failed. Please try again.")
		}
		return h.renderRegister(c, flash, req)
	}

	h.activity.Info("User registration successful: %s", user.Username)
	if err := h.sessions.Login(c, user, false); err != nil {
		log.Printf("User session error: %v", err)
		return response.Redirect(c, "/login?registered=1")
	}

	flash.Ok("Account created successfully! Welcome to EduPool.")
	c.Set("Refresh", "2;url=/")
	return h.renderRegister(c, flash, RegisterRequest{})
}

func (h *AuthHandler) renderRegister(c *fiber.Ctx, flash response.Flash, req RegisterRequest) error {
	return response.Page(c, "auth/register", fiber.Map{
		"Title":    "Register - EduPool",
		"Flash":    flash,
		"Username": req.Username,
		"Email":    req.Email,
	})
}
