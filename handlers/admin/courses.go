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
	"github.com/sahilchouksey/edupool/utils/pdfvalidation"
	"github.com/sahilchouksey/edupool/utils/validation"
)

const msgUnreadableSyllabus = "Could not read any text from the syllabus PDF."

// CourseManager is the course service as the back office uses it
type CourseManager interface {
	Offerings(ctx context.Context) ([]services.CourseOfferingRow, error)
	Get(ctx context.Context, id uint) (*model.Course, error)
	CreateWithUniversity(ctx context.Context, in services.CourseInput, universityID uint) (*model.Course, error)
	Update(ctx context.Context, id uint, in services.CourseInput) (*model.Course, error)
	Delete(ctx context.Context, id uint) error
	ExtractSyllabus(content []byte) (string, error)
}

type courseFields struct {
	Duration          string `form:"duration" validate:"max=50" msg:"Duration must be at most 50 characters."`
	Syllabus          string `form:"syllabus"`
	Eligibility       string `form:"eligibility"`
	CareerPaths       string `form:"career_paths"`
	RequiredDocuments string `form:"required_documents"`
}

func (in *courseFields) sanitizeFields() {
	in.Duration = validation.SanitizeText(in.Duration)
	in.Syllabus = validation.SanitizeText(in.Syllabus)
	in.Eligibility = validation.SanitizeText(in.Eligibility)
	in.CareerPaths = validation.SanitizeText(in.CareerPaths)
	in.RequiredDocuments = validation.SanitizeText(in.RequiredDocuments)
}

func (in courseFields) input(name string) services.CourseInput {
	return services.CourseInput{
		Name:              name,
		Duration:          in.Duration,
		Syllabus:          in.Syllabus,
		Eligibility:       in.Eligibility,
		CareerPaths:       in.CareerPaths,
		RequiredDocuments: in.RequiredDocuments,
	}
}

type courseAddInput struct {
	Name         string `form:"name" validate:"required,max=255" msg:"Course name is required."`
	UniversityID uint   `form:"university_id" validate:"gt=0" msg:"Please select a university for this course."`
	courseFields
}

func (in *courseAddInput) sanitize() {
	in.Name = validation.SanitizeText(in.Name)
	in.sanitizeFields()
}

type courseEditInput struct {
	ID   uint   `form:"id" validate:"gt=0" msg:"Invalid data provided."`
	Name string `form:"name" validate:"required,max=255" msg:"Invalid data provided."`
	courseFields
}

func (in *courseEditInput) sanitize() {
	in.Name = validation.SanitizeText(in.Name)
	in.sanitizeFields()
}

type courseDeleteInput struct {
	ID uint `form:"id" validate:"gt=0" msg:"Invalid course ID."`
}

// courseForm is the add/edit form as rendered
type courseForm struct {
	ID           uint
	UniversityID uint
	Name         string
	courseFields
}

// CourseAdminHandler serves /admin/courses
type CourseAdminHandler struct {
	courses      CourseManager
	universities UniversityOptions
	validator    *validation.Validator
}

// NewCourseAdminHandler creates a new course admin handler
func NewCourseAdminHandler(courses CourseManager, universities UniversityOptions) *CourseAdminHandler {
	return &CourseAdminHandler{
		courses:      courses,
		universities: universities,
		validator:    validation.NewValidator(),
	}
}

// ManageCourses handles GET /admin/courses
func (h *CourseAdminHandler) ManageCourses(c *fiber.Ctx) error {
	f := newForm(c, h.validator)
	var edit *courseForm
	if id := parseID(c.Query("edit")); id > 0 {
		if course, err := h.courses.Get(c.UserContext(), id); err == nil {
			edit = &courseForm{
				ID:   course.ID,
				Name: course.Name,
				courseFields: courseFields{
					Duration:          course.Duration,
					Syllabus:          course.Syllabus,
					Eligibility:       course.Eligibility,
					CareerPaths:       course.CareerPaths,
					RequiredDocuments: course.RequiredDocuments,
				},
			}
		}
	}
	return h.render(f, edit, edit != nil || c.Query("action") == string(ActionAdd))
}

// PostCourses handles POST /admin/courses
func (h *CourseAdminHandler) PostCourses(c *fiber.Ctx) error {
	f := newForm(c, h.validator)
	action, ok := f.start(ActionAdd, ActionEdit, ActionDelete)
	if !ok {
		return h.render(f, nil, false)
	}

	switch action {
	case ActionAdd:
		var in courseAddInput
		if !f.bind(&in) || !h.add(f, &in) {
			return h.render(f, &courseForm{UniversityID: in.UniversityID, Name: in.Name, courseFields: in.courseFields}, true)
		}
	case ActionEdit:
		var in courseEditInput
		if !f.bind(&in) || !h.edit(f, &in) {
			return h.render(f, &courseForm{ID: in.ID, Name: in.Name, courseFields: in.courseFields}, true)
		}
	case ActionDelete:
		var in courseDeleteInput
		if f.bind(&in) {
			h.delete(f, in)
		}
	}
	return h.render(f, nil, false)
}

// importSyllabus replaces fields.Syllabus with the text of an attached syllabus PDF, if any
func (h *CourseAdminHandler) importSyllabus(f *form, fields *courseFields) bool {
	fh, err := f.c.FormFile("syllabus_pdf")
	if err != nil || fh.Size == 0 {
		return true
	}

	content, err := pdfvalidation.Read(fh, pdfvalidation.SyllabusLimits)
	if err != nil {
		if pdfvalidation.IsValidationError(err) {
			f.flash.Fail(err.Error())
		} else {
			log.Printf("Read syllabus PDF error: %v", err)
			f.flash.Fail("Failed to upload file")
		}
		return false
	}

	text, err := h.courses.ExtractSyllabus(content)
	if err != nil {
		if !errors.Is(err, services.ErrUnreadablePDF) {
			log.Printf("Extract syllabus error: %v", err)
		}
		f.flash.Fail(msgUnreadableSyllabus)
		return false
	}
	fields.Syllabus = text
	return true
}

func (h *CourseAdminHandler) add(f *form, in *courseAddInput) bool {
	if !h.importSyllabus(f, &in.courseFields) {
		return false
	}

	course, err := h.courses.CreateWithUniversity(f.c.UserContext(), in.input(in.Name), in.UniversityID)
	if err != nil {
		if errors.Is(err, services.ErrInvalidReference) {
			f.flash.Fail("Please select a university for this course.")
			return false
		}
		log.Printf("Add course error: %v", err)
		f.flash.Fail("Failed to add course. Please try again.")
		return false
	}

	f.flash.Ok("Course added successfully!")
	middleware.Audit(f.c, services.AuditEntry{
		Action:      string(ActionAdd),
		Resource:    "courses",
		ResourceID:  course.ID,
		NewValue:    in,
		Description: "Course added: " + course.Name,
	})
	return true
}

func (h *CourseAdminHandler) edit(f *form, in *courseEditInput) bool {
	if !h.importSyllabus(f, &in.courseFields) {
		return false
	}

	course, err := h.courses.Update(f.c.UserContext(), in.ID, in.input(in.Name))
	if err != nil {
		if errors.Is(err, services.ErrNotFound) {
			f.flash.Fail(msgInvalidData)
			return false
		}
		log.Printf("Update course error: %v", err)
		f.flash.Fail("Failed to update course. Please try again.")
		return false
	}

	f.flash.Ok("Course updated successfully!")
	middleware.Audit(f.c, services.AuditEntry{
		Action:      string(ActionEdit),
		Resource:    "courses",
		ResourceID:  course.ID,
		NewValue:    in,
		Description: "Course updated: " + course.Name,
	})
	return true
}

func (h *CourseAdminHandler) delete(f *form, in courseDeleteInput) {
	if err := h.courses.Delete(f.c.UserContext(), in.ID); err != nil {
		if errors.Is(err, services.ErrNotFound) {
			f.flash.Fail("Invalid course ID.")
			return
		}
		log.Printf("Delete course error: %v", err)
		f.flash.Fail("Failed to delete course. Please try again.")
		return
	}

	f.flash.Ok("Course deleted successfully!")
	middleware.Audit(f.c, services.AuditEntry{
		Action:      string(ActionDelete),
		Resource:    "courses",
		ResourceID:  in.ID,
		Description: fmt.Sprintf("Course deleted: ID %d", in.ID),
	})
}

func (h *CourseAdminHandler) render(f *form, current *courseForm, show bool) error {
	ctx := f.c.UserContext()
	rows, err := h.courses.Offerings(ctx)
	if err != nil {
		return err
	}
	universities, err := h.universities.ListAll(ctx)
	if err != nil {
		return err
	}
	if current == nil {
		current = &courseForm{}
	}
	return f.render("admin/courses", fiber.Map{
		"Title":        "Manage Courses - EduPool Admin",
		"Courses":      rows,
		"Universities": universities,
		"Form":         current,
		"ShowForm":     show,
	})
}
