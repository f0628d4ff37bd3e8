package admin

import (
	"context"
	"fmt"
	"log"

	"github.com/gofiber/fiber/v2"
	"github.com/sahilchouksey/edupool/model"
	"github.com/sahilchouksey/edupool/services"
	"github.com/sahilchouksey/edupool/utils/middleware"
	"github.com/sahilchouksey/edupool/utils/validation"
)

// CollegeCourseManager is the link service as the back office uses it
type CollegeCourseManager interface {
	ListAll(ctx context.Context) ([]services.CollegeCourseRow, error)
	Link(ctx context.Context, collegeID, courseID uint, level model.ProgramLevel) (*model.CollegeCourse, error)
	Unlink(ctx context.Context, id uint) error
}

// CollegeOptions feeds the college dropdown
type CollegeOptions interface {
	ListAll(ctx context.Context) ([]services.CollegeRow, error)
}

// CourseOptions feeds the course dropdown
type CourseOptions interface {
	ListAll(ctx context.Context) ([]model.Course, error)
}

type linkInput struct {
	CollegeID    uint   `form:"college_id" validate:"gt=0" msg:"All fields are required."`
	CourseID     uint   `form:"course_id" validate:"gt=0" msg:"All fields are required."`
	ProgramLevel string `form:"program_level" validate:"required,program_level" msg:"All fields are required."`
}

type unlinkInput struct {
	ID uint `form:"id" validate:"gt=0" msg:"Invalid ID."`
}

// CollegeCourseAdminHandler serves /admin/college-courses
type CollegeCourseAdminHandler struct {
	links     CollegeCourseManager
	colleges  CollegeOptions
	courses   CourseOptions
	validator *validation.Validator
}

// NewCollegeCourseAdminHandler creates a new college-course admin handler
func NewCollegeCourseAdminHandler(links CollegeCourseManager, colleges CollegeOptions, courses CourseOptions) *CollegeCourseAdminHandler {
	return &CollegeCourseAdminHandler{
		links:     links,
		colleges:  colleges,
		courses:   courses,
		validator: validation.NewValidator(),
	}
}

// ManageCollegeCourses handles GET /admin/college-courses
func (h *CollegeCourseAdminHandler) ManageCollegeCourses(c *fiber.Ctx) error {
	return h.render(newForm(c, h.validator))
}

// PostCollegeCourses handles POST /admin/college-courses
func (h *CollegeCourseAdminHandler) PostCollegeCourses(c *fiber.Ctx) error {
	f := newForm(c, h.validator)
	action, ok := f.start(ActionAdd, ActionDelete)
	if !ok {
		return h.render(f)
	}

	switch action {
	case ActionAdd:
		var in linkInput
		if f.bind(&in) {
			h.link(f, in)
		}
	case ActionDelete:
		var in unlinkInput
		if f.bind(&in) {
			h.unlink(f, in)
		}
	}
	return h.render(f)
}

func (h *CollegeCourseAdminHandler) link(f *form, in linkInput) {
	level := model.ProgramLevel(in.ProgramLevel)
	link, err := h.links.Link(f.c.UserContext(), in.CollegeID, in.CourseID, level)
	if err != nil {
		log.Printf("Add college_course error: %v", err)
		f.flash.Fail("Failed to link course to college. It may already exist.")
		return
	}

	f.flash.Ok("Course linked to college successfully.")
	middleware.Audit(f.c, services.AuditEntry{
		Action:     string(ActionAdd),
		Resource:   "college_courses",
		ResourceID: link.ID,
		NewValue:   in,
		Description: fmt.Sprintf("Linked course ID %d to college ID %d with program level %s",
			in.CourseID, in.CollegeID, level),
	})
}

func (h *CollegeCourseAdminHandler) unlink(f *form, in unlinkInput) {
	if err := h.links.Unlink(f.c.UserContext(), in.ID); err != nil {
		log.Printf("Delete college_course error: %v", err)
		f.flash.Fail("Failed to unlink course from college.")
		return
	}

	f.flash.Ok("Course unlinked from college successfully.")
	middleware.Audit(f.c, services.AuditEntry{
		Action:      string(ActionDelete),
		Resource:    "college_courses",
		ResourceID:  in.ID,
		Description: fmt.Sprintf("Unlinked college_course ID %d", in.ID),
	})
}

func (h *CollegeCourseAdminHandler) render(f *form) error {
	ctx := f.c.UserContext()
	links, err := h.links.ListAll(ctx)
	if err != nil {
		return err
	}
	colleges, err := h.colleges.ListAll(ctx)
	if err != nil {
		return err
	}
	courses, err := h.courses.ListAll(ctx)
	if err != nil {
		return err
	}
	return f.render("admin/college_courses", fiber.Map{
		"Title":         "Manage College Courses - EduPool Admin",
		"Links":         links,
		"Colleges":      colleges,
		"Courses":       courses,
		"ProgramLevels": model.ProgramLevels(),
	})
}
