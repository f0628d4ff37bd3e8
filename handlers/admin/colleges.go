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

const msgSelectUniversity = "Please select an affiliated university."

// CollegeManager is the college service as the back office uses it
type CollegeManager interface {
	ListAll(ctx context.Context) ([]services.CollegeRow, error)
	Get(ctx context.Context, id uint) (*model.College, error)
	Create(ctx context.Context, in services.CollegeInput) (*model.College, error)
	Update(ctx context.Context, id uint, in services.CollegeInput) (*model.College, error)
	Delete(ctx context.Context, id uint) error
}

// UniversityOptions feeds university dropdowns
type UniversityOptions interface {
	ListAll(ctx context.Context) ([]model.University, error)
}

type collegeFields struct {
	Description  string `form:"description"`
	Location     string `form:"location" validate:"max=255" msg:"Location must be at most 255 characters."`
	MapLink      string `form:"map_link" validate:"omitempty,url" msg:"Please enter a valid map link."`
	WebsiteURL   string `form:"website_url" validate:"omitempty,url" msg:"Please enter a valid website URL."`
	UniversityID uint   `form:"university_id" validate:"gt=0" msg:"Please select an affiliated university."`
}

func (in *collegeFields) sanitizeFields() {
	in.Description = validation.SanitizeText(in.Description)
	in.Location = validation.SanitizeText(in.Location)
	in.MapLink = validation.SanitizeString(in.MapLink)
	in.WebsiteURL = validation.SanitizeString(in.WebsiteURL)
}

type collegeAddInput struct {
	Name string `form:"name" validate:"required,max=255" msg:"College name is required."`
	collegeFields
}

func (in *collegeAddInput) sanitize() {
	in.Name = validation.SanitizeText(in.Name)
	in.sanitizeFields()
}

type collegeEditInput struct {
	ID   uint   `form:"id" validate:"gt=0" msg:"Invalid data provided."`
	Name string `form:"name" validate:"required,max=255" msg:"Invalid data provided."`
	collegeFields
}

func (in *collegeEditInput) sanitize() {
	in.Name = validation.SanitizeText(in.Name)
	in.sanitizeFields()
}

type collegeDeleteInput struct {
	ID uint `form:"id" validate:"gt=0" msg:"Invalid college ID."`
}

// collegeForm is the add/edit form as rendered
type collegeForm struct {
	ID           uint
	Name         string
	Description  string
	Location     string
	MapLink      string
	WebsiteURL   string
	UniversityID uint
	Image        string
}

func (in collegeFields) input(name, image string) services.CollegeInput {
	return services.CollegeInput{
		Name:         name,
		Description:  in.Description,
		Location:     in.Location,
		MapLink:      in.MapLink,
		WebsiteURL:   in.WebsiteURL,
		UniversityID: in.UniversityID,
		Image:        image,
	}
}

func (in collegeFields) form(id uint, name string) *collegeForm {
	return &collegeForm{
		ID:           id,
		Name:         name,
		Description:  in.Description,
		Location:     in.Location,
		MapLink:      in.MapLink,
		WebsiteURL:   in.WebsiteURL,
		UniversityID: in.UniversityID,
	}
}

// CollegeAdminHandler serves /admin/colleges
type CollegeAdminHandler struct {
	colleges     CollegeManager
	universities UniversityOptions
	images       ImageStore
	validator    *validation.Validator
}

// NewCollegeAdminHandler creates a new college admin handler
func NewCollegeAdminHandler(colleges CollegeManager, universities UniversityOptions, images ImageStore) *CollegeAdminHandler {
	return &CollegeAdminHandler{
		colleges:     colleges,
		universities: universities,
		images:       images,
		validator:    validation.NewValidator(),
	}
}

// ManageColleges handles GET /admin/colleges
func (h *CollegeAdminHandler) ManageColleges(c *fiber.Ctx) error {
	f := newForm(c, h.validator)
	var edit *collegeForm
	if id := parseID(c.Query("edit")); id > 0 {
		if college, err := h.colleges.Get(c.UserContext(), id); err == nil {
			edit = &collegeForm{
				ID:          college.ID,
				Name:        college.Name,
				Description: college.Description,
				Location:    college.Location,
				MapLink:     college.MapLink,
				WebsiteURL:  college.WebsiteURL,
				Image:       college.Image,
			}
			if college.UniversityID != nil {
				edit.UniversityID = *college.UniversityID
			}
		}
	}
	return h.render(f, edit, edit != nil || c.Query("action") == string(ActionAdd))
}

// PostColleges handles POST /admin/colleges
func (h *CollegeAdminHandler) PostColleges(c *fiber.Ctx) error {
	f := newForm(c, h.validator)
	action, ok := f.start(ActionAdd, ActionEdit, ActionDelete)
	if !ok {
		return h.render(f, nil, false)
	}

	switch action {
	case ActionAdd:
		var in collegeAddInput
		if !f.bind(&in) {
			return h.render(f, in.form(0, in.Name), true)
		}
		if !h.add(f, in) {
			return h.render(f, in.form(0, in.Name), true)
		}
	case ActionEdit:
		var in collegeEditInput
		if !f.bind(&in) {
			return h.render(f, in.form(in.ID, in.Name), true)
		}
		if !h.edit(f, in) {
			return h.render(f, in.form(in.ID, in.Name), true)
		}
	case ActionDelete:
		var in collegeDeleteInput
		if f.bind(&in) {
			h.delete(f, in)
		}
	}
	return h.render(f, nil, false)
}

func (h *CollegeAdminHandler) add(f *form, in collegeAddInput) bool {
	ctx := f.c.UserContext()
	image, err := saveImage(f.c, h.images, "image")
	if err != nil {
		f.flash.Fail(uploadMessage(err))
		return false
	}

	college, err := h.colleges.Create(ctx, in.input(in.Name, image))
	if err != nil {
		discardImage(ctx, h.images, image)
		if errors.Is(err, services.ErrInvalidReference) {
			f.flash.Fail(msgSelectUniversity)
			return false
		}
		log.Printf("Add college error: %v", err)
		f.flash.Fail("Failed to add college. Please try again.")
		return false
	}

	f.flash.Ok("College added successfully!")
	middleware.Audit(f.c, services.AuditEntry{
		Action:      string(ActionAdd),
		Resource:    "colleges",
		ResourceID:  college.ID,
		NewValue:    in,
		Description: "College added: " + college.Name,
	})
	return true
}

func (h *CollegeAdminHandler) edit(f *form, in collegeEditInput) bool {
	ctx := f.c.UserContext()
	image, err := saveImage(f.c, h.images, "image")
	if err != nil {
		f.flash.Fail(uploadMessage(err))
		return false
	}

	college, err := h.colleges.Update(ctx, in.ID, in.input(in.Name, image))
	if err != nil {
		discardImage(ctx, h.images, image)
		switch {
		case errors.Is(err, services.ErrInvalidReference):
			f.flash.Fail(msgSelectUniversity)
		case errors.Is(err, services.ErrNotFound):
			f.flash.Fail(msgInvalidData)
		default:
			log.Printf("Update college error: %v", err)
			f.flash.Fail("Failed to update college. Please try again.")
		}
		return false
	}

	f.flash.Ok("College updated successfully!")
	middleware.Audit(f.c, services.AuditEntry{
		Action:      string(ActionEdit),
		Resource:    "colleges",
		ResourceID:  college.ID,
		NewValue:    in,
		Description: "College updated: " + college.Name,
	})
	return true
}

func (h *CollegeAdminHandler) delete(f *form, in collegeDeleteInput) {
	if err := h.colleges.Delete(f.c.UserContext(), in.ID); err != nil {
		if errors.Is(err, services.ErrNotFound) {
			f.flash.Fail("Invalid college ID.")
			return
		}
		log.Printf("Delete college error: %v", err)
		f.flash.Fail("Failed to delete college. Please try again.")
		return
	}

	f.flash.Ok("College deleted successfully!")
	middleware.Audit(f.c, services.AuditEntry{
		Action:      string(ActionDelete),
		Resource:    "colleges",
		ResourceID:  in.ID,
		Description: fmt.Sprintf("College deleted: ID %d", in.ID),
	})
}

func (h *CollegeAdminHandler) render(f *form, current *collegeForm, show bool) error {
	ctx := f.c.UserContext()
	colleges, err := h.colleges.ListAll(ctx)
	if err != nil {
		return err
	}
	universities, err := h.universities.ListAll(ctx)
	if err != nil {
		return err
	}
	if current == nil {
		current = &collegeForm{}
	}
	return f.render("admin/colleges", fiber.Map{
		"Title":        "Manage Colleges - EduPool Admin",
		"Colleges":     colleges,
		"Universities": universities,
		"Form":         current,
		"ShowForm":     show,
	})
}
