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
	"github.com/sahilchouksey/edupool/utils/response"
	"github.com/sahilchouksey/edupool/utils/validation"
)

const msgOperationFailed = "Operation failed. Please try again."

// SyllabusManager is the syllabus service as the back office uses it
type SyllabusManager interface {
	UniversityCourse(ctx context.Context, ucID uint) (*services.UniversityCourseInfo, error)
	Groups(ctx context.Context, ucID uint) ([]model.SyllabusGroup, error)
	AddGroup(ctx context.Context, ucID uint, label string) (*model.SyllabusGroup, error)
	DeleteGroup(ctx context.Context, ucID, groupID uint) error
	AddItem(ctx context.Context, ucID, groupID uint, subject string, credits int) (*model.SyllabusItem, error)
	DeleteItem(ctx context.Context, ucID, itemID uint) error
}

type groupAddInput struct {
	Label string `form:"label" validate:"required,max=255" msg:"Group label is required."`
}

func (in *groupAddInput) sanitize() {
	in.Label = validation.SanitizeText(in.Label)
}

type groupDeleteInput struct {
	GroupID uint `form:"group_id" validate:"gt=0" msg:"Invalid request. Please try again."`
}

type itemAddInput struct {
	GroupID     uint   `form:"group_id" validate:"gt=0" msg:"All fields are required for adding a syllabus item."`
	SubjectName string `form:"subject_name" validate:"required,max=255" msg:"All fields are required for adding a syllabus item."`
	CreditHours int    `form:"credit_hours" validate:"gt=0" msg:"All fields are required for adding a syllabus item."`
}

func (in *itemAddInput) sanitize() {
	in.SubjectName = validation.SanitizeText(in.SubjectName)
}

type itemDeleteInput struct {
	ItemID uint `form:"item_id" validate:"gt=0" msg:"Invalid request. Please try again."`
}

// SyllabusAdminHandler serves /admin/syllabus?uc_id=
type SyllabusAdminHandler struct {
	syllabus  SyllabusManager
	validator *validation.Validator
}

// NewSyllabusAdminHandler creates a new syllabus admin handler
func NewSyllabusAdminHandler(syllabus SyllabusManager) *SyllabusAdminHandler {
	return &SyllabusAdminHandler{syllabus: syllabus, validator: validation.NewValidator()}
}

// pairing resolves the uc_id pairing, or nil when the page must redirect
func (h *SyllabusAdminHandler) pairing(c *fiber.Ctx) *services.UniversityCourseInfo {
	ucID := parseID(c.Query("uc_id"))
	if ucID == 0 {
		return nil
	}
	info, err := h.syllabus.UniversityCourse(c.UserContext(), ucID)
	if err != nil {
		if !errors.Is(err, services.ErrNotFound) {
			log.Printf("Fetch university_course info error: %v", err)
		}
		return nil
	}
	return info
}

// ManageSyllabus handles GET /admin/syllabus?uc_id=
func (h *SyllabusAdminHandler) ManageSyllabus(c *fiber.Ctx) error {
	info := h.pairing(c)
	if info == nil {
		return response.Redirect(c, "/admin/courses")
	}
	return h.render(newForm(c, h.validator), info)
}

// PostSyllabus handles POST /admin/syllabus?uc_id=
func (h *SyllabusAdminHandler) PostSyllabus(c *fiber.Ctx) error {
	info := h.pairing(c)
	if info == nil {
		return response.Redirect(c, "/admin/courses")
	}

	f := newForm(c, h.validator)
	action, ok := f.start(ActionAddGroup, ActionDeleteGroup, ActionAddItem, ActionDeleteItem)
	if !ok {
		return h.render(f, info)
	}

	ctx := c.UserContext()
	entry := services.AuditEntry{Action: string(action), Resource: "syllabus"}
	var err error

	switch action {
	case ActionAddGroup:
		var in groupAddInput
		if !f.bind(&in) {
			return h.render(f, info)
		}
		var group *model.SyllabusGroup
		if group, err = h.syllabus.AddGroup(ctx, info.ID, in.Label); err == nil {
			f.flash.Ok("Syllabus group added successfully.")
			entry.ResourceID = group.ID
			entry.NewValue = in
			entry.Description = fmt.Sprintf("Syllabus group added to university_course ID %d: %s", info.ID, in.Label)
		}
	case ActionDeleteGroup:
		var in groupDeleteInput
		if !f.bind(&in) {
			return h.render(f, info)
		}
		if err = h.syllabus.DeleteGroup(ctx, info.ID, in.GroupID); err == nil {
			f.flash.Ok("Syllabus group deleted successfully.")
			entry.ResourceID = in.GroupID
			entry.Description = fmt.Sprintf("Syllabus group deleted: ID %d", in.GroupID)
		}
	case ActionAddItem:
		var in itemAddInput
		if !f.bind(&in) {
			return h.render(f, info)
		}
		var item *model.SyllabusItem
		if item, err = h.syllabus.AddItem(ctx, info.ID, in.GroupID, in.SubjectName, in.CreditHours); err == nil {
			f.flash.Ok("Syllabus item added successfully.")
			entry.ResourceID = item.ID
			entry.NewValue = in
			entry.Description = fmt.Sprintf("Syllabus item added to group ID %d: %s", in.GroupID, in.SubjectName)
		}
	case ActionDeleteItem:
		var in itemDeleteInput
		if !f.bind(&in) {
			return h.render(f, info)
		}
		if err = h.syllabus.DeleteItem(ctx, info.ID, in.ItemID); err == nil {
			f.flash.Ok("Syllabus item deleted successfully.")
			entry.ResourceID = in.ItemID
			entry.Description = fmt.Sprintf("Syllabus item deleted: ID %d", in.ItemID)
		}
	}

	if err != nil {
		if !errors.Is(err, services.ErrNotFound) && !errors.Is(err, services.ErrInvalidReference) {
			log.Printf("Syllabus management error: %v", err)
		}
		f.flash.Fail(msgOperationFailed)
	} else {
		middleware.Audit(c, entry)
	}
	return h.render(f, info)
}

func (h *SyllabusAdminHandler) render(f *form, info *services.UniversityCourseInfo) error {
	groups, err := h.syllabus.Groups(f.c.UserContext(), info.ID)
	if err != nil {
		return err
	}
	return f.render("admin/syllabus", fiber.Map{
		"Title":  "Manage Course Syllabus - EduPool Admin",
		"Course": info,
		"Groups": groups,
	})
}
