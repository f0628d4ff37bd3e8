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

// UniversityManager is the university service as the back office uses it
type UniversityManager interface {
	ListAll(ctx context.Context) ([]model.University, error)
	Get(ctx context.Context, id uint) (*model.University, error)
	Create(ctx context.Context, in services.UniversityInput) (*model.University, error)
	Update(ctx context.Context, id uint, in services.UniversityInput) (*model.University, error)
	Delete(ctx context.Context, id uint) error
}

type universityAddInput struct {
	Name            string `form:"name" validate:"required,max=255" msg:"University name is required."`
	Description     string `form:"description"`
	EstablishedYear int    `form:"established_year" validate:"year" msg:"Established year must be between 1000 and 2100."`
}

func (in *universityAddInput) sanitize() {
	in.Name = validation.SanitizeText(in.Name)
	in.Description = validation.SanitizeText(in.Description)
}

func (in universityAddInput) form() *universityForm {
	return &universityForm{Name: in.Name, Description: in.Description, EstablishedYear: in.EstablishedYear}
}

type universityEditInput struct {
	ID              uint   `form:"id" validate:"gt=0" msg:"Invalid data provided."`
	Name            string `form:"name" validate:"required,max=255" msg:"Invalid data provided."`
	Description     string `form:"description"`
	EstablishedYear int    `form:"established_year" validate:"year" msg:"Established year must be between 1000 and 2100."`
}

func (in *universityEditInput) sanitize() {
	in.Name = validation.SanitizeText(in.Name)
	in.Description = validation.SanitizeText(in.Description)
}

func (in universityEditInput) form() *universityForm {
	return &universityForm{ID: in.ID, Name: in.Name, Description: in.Description, EstablishedYear: in.EstablishedYear}
}

type universityDeleteInput struct {
	ID uint `form:"id" validate:"gt=0" msg:"Invalid university ID."`
}

// universityForm is the add/edit form as rendered
type universityForm struct {
	ID              uint
	Name            string
	Description     string
	EstablishedYear int
	Image           string
}

// UniversityAdminHandler serves /admin/universities
type UniversityAdminHandler struct {
	universities UniversityManager
	images       ImageStore
	validator    *validation.Validator
}

// NewUniversityAdminHandler creates a new university admin handler
func NewUniversityAdminHandler(universities UniversityManager, images ImageStore) *UniversityAdminHandler {
	return &UniversityAdminHandler{
		universities: universities,
		images:       images,
		validator:    validation.NewValidator(),
	}
}

// ManageUniversities handles GET /admin/universities
func (h *UniversityAdminHandler) ManageUniversities(c *fiber.Ctx) error {
	f := newForm(c, h.validator)
	var edit *universityForm
	if id := parseID(c.Query("edit")); id > 0 {
		if u, err := h.universities.Get(c.UserContext(), id); err == nil {
			edit = &universityForm{ID: u.ID, Name: u.Name, Description: u.Description, EstablishedYear: u.EstablishedYear, Image: u.Image}
		}
	}
	return h.render(f, edit, edit != nil || c.Query("action") == string(ActionAdd))
}

// PostUniversities handles POST /admin/universities
func (h *UniversityAdminHandler) PostUniversities(c *fiber.Ctx) error {
	f := newForm(c, h.validator)
	action, ok := f.start(ActionAdd, ActionEdit, ActionDelete)
	if !ok {
		return h.render(f, nil, false)
	}

	switch action {
	case ActionAdd:
		var in universityAddInput
		if !f.bind(&in) || !h.add(f, in) {
			return h.render(f, in.form(), true)
		}
	case ActionEdit:
		var in universityEditInput
		if !f.bind(&in) || !h.edit(f, in) {
			return h.render(f, in.form(), true)
		}
	case ActionDelete:
		var in universityDeleteInput
		if f.bind(&in) {
			h.delete(f, in)
		}
	}
	return h.render(f, nil, false)
}

func (h *UniversityAdminHandler) add(f *form, in universityAddInput) bool {
	ctx := f.c.UserContext()
	image, err := saveImage(f.c, h.images, "image")
	if err != nil {
		f.flash.Fail(uploadMessage(err))
		return false
	}

	u, err := h.universities.Create(ctx, services.UniversityInput{
		Name:            in.Name,
		Description:     in.Description,
		EstablishedYear: in.EstablishedYear,
		Image:           image,
	})
	if err != nil {
		log.Printf("Add university error: %v", err)
		discardImage(ctx, h.images, image)
		f.flash.Fail("Failed to add university. Please try again.")
		return false
	}

	f.flash.Ok("University added successfully!")
	middleware.Audit(f.c, services.AuditEntry{
		Action:      string(ActionAdd),
		Resource:    "universities",
		ResourceID:  u.ID,
		NewValue:    in,
		Description: "University added: " + u.Name,
	})
	return true
}

func (h *UniversityAdminHandler) edit(f *form, in universityEditInput) bool {
	ctx := f.c.UserContext()
	image, err := saveImage(f.c, h.images, "image")
	if err != nil {
		f.flash.Fail(uploadMessage(err))
		return false
	}

	u, err := h.universities.Update(ctx, in.ID, services.UniversityInput{
		Name:            in.Name,
		Description:     in.Description,
		EstablishedYear: in.EstablishedYear,
		Image:           image,
	})
	if err != nil {
		discardImage(ctx, h.images, image)
		if errors.Is(err, services.ErrNotFound) {
			f.flash.Fail(msgInvalidData)
			return false
		}
		log.Printf("Update university error: %v", err)
		f.flash.Fail("Failed to update university. Please try again.")
		return false
	}

	f.flash.Ok("University updated successfully!")
	middleware.Audit(f.c, services.AuditEntry{
		Action:      string(ActionEdit),
		Resource:    "universities",
		ResourceID:  u.ID,
		NewValue:    in,
		Description: "University updated: " + u.Name,
	})
	return true
}

func (h *UniversityAdminHandler) delete(f *form, in universityDeleteInput) {
	if err := h.universities.Delete(f.c.UserContext(), in.ID); err != nil {
		if errors.Is(err, services.ErrNotFound) {
			f.flash.Fail("Invalid university ID.")
			return
		}
		log.Printf("Delete university error: %v", err)
		f.flash.Fail("Failed to delete university. Please try again.")
		return
	}

	f.flash.Ok("University deleted successfully!")
	middleware.Audit(f.c, services.AuditEntry{
		Action:      string(ActionDelete),
		Resource:    "universities",
		ResourceID:  in.ID,
		Description: fmt.Sprintf("University deleted: ID %d", in.ID),
	})
}

func (h *UniversityAdminHandler) render(f *form, current *universityForm, show bool) error {
	universities, err := h.universities.ListAll(f.c.UserContext())
	if err != nil {
		return err
	}
	if current == nil {
		current = &universityForm{}
	}
	return f.render("admin/universities", fiber.Map{
		"Title":        "Manage Universities - EduPool Admin",
		"Universities": universities,
		"Form":         current,
		"ShowForm":     show,
	})
}
