package admin

import (
	"context"
	"errors"
	"fmt"
	"log"

	"github.com/gofiber/fiber/v2"
	"github.com/sahilchouksey/edupool/model"
	"github.com/sahilchouksey/edupool/services"
	"github.com/sahilchouksey/edupool/utils/middleware"
	"github.com/sahilchouksey/edupool/utils/validation"
)

// UserManager is the user service as the back office uses it
type UserManager interface {
	ListAll(ctx context.Context) ([]model.User, error)
	Delete(ctx context.Context, id uint) error
}

type userDeleteInput struct {
	ID uint `form:"id" validate:"gt=0" msg:"Invalid user ID."`
}

// UserAdminHandler serves /admin/users
type UserAdminHandler struct {
	users     UserManager
	validator *validation.Validator
}

// NewUserAdminHandler creates a new user admin handler
func NewUserAdminHandler(users UserManager) *UserAdminHandler {
	return &UserAdminHandler{users: users, validator: validation.NewValidator()}
}

// ListUsers handles GET /admin/users
func (h *UserAdminHandler) ListUsers(c *fiber.Ctx) error {
	return h.render(newForm(c, h.validator))
}

// PostUsers handles POST /admin/users. Deleting is the only action.
func (h *UserAdminHandler) PostUsers(c *fiber.Ctx) error {
	f := newForm(c, h.validator)
	if _, ok := f.start(ActionDelete); !ok {
		return h.render(f)
	}

	var in userDeleteInput
	if !f.bind(&in) {
		return h.render(f)
	}

	if err := h.users.Delete(c.UserContext(), in.ID); err != nil {
		if errors.Is(err, services.ErrNotFound) {
			f.flash.Fail("Invalid user ID.")
		} else {
			log.Printf("Delete user error: %v", err)
			f.flash.Fail("Failed to delete user. Please try again.")
		}
		return h.render(f)
	}

	f.flash.Ok("User deleted successfully!")
	middleware.Audit(c, services.AuditEntry{
		Action:      string(ActionDelete),
		Resource:    "users",
		ResourceID:  in.ID,
		Description: fmt.Sprintf("User deleted: ID %d", in.ID),
	})
	return h.render(f)
}

func (h *UserAdminHandler) render(f *form) error {
	users, err := h.users.ListAll(f.c.UserContext())
	if err != nil {
		return err
	}
	return f.render("admin/users", fiber.Map{
		"Title": "Manage Users - EduPool Admin",
		"Users": users,
	})
}
