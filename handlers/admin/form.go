package admin

import (
	"context"
	"errors"
	"log"
	"mime/multipart"
	"strconv"

	"github.com/gofiber/fiber/v2"
	"github.com/sahilchouksey/edupool/utils/middleware"
	"github.com/sahilchouksey/edupool/utils/response"
	"github.com/sahilchouksey/edupool/utils/upload"
	"github.com/sahilchouksey/edupool/utils/validation"
)

// Action is the closed set of form actions the back office accepts
type Action string

const (
	ActionAdd         Action = "add"
	ActionEdit        Action = "edit"
	ActionDelete      Action = "delete"
	ActionAddGroup    Action = "add_group"
	ActionDeleteGroup Action = "delete_group"
	ActionAddItem     Action = "add_item"
	ActionDeleteItem  Action = "delete_item"
)

const (
	msgInvalidRequest = "Invalid request. Please try again."
	msgInvalidData    = "Invalid data provided."
)

// parseAction accepts raw only when it is one of allowed
func parseAction(raw string, allowed ...Action) (Action, bool) {
	for _, a := range allowed {
		if string(a) == raw {
			return a, true
		}
	}
	return "", false
}

// parseID reads a positive id, returning 0 for anything else
func parseID(raw string) uint {
	id, err := strconv.ParseUint(raw, 10, 32)
	if err != nil {
		return 0
	}
	return uint(id)
}

// ImageStore saves and removes uploaded images
type ImageStore interface {
	Save(ctx context.Context, fh *multipart.FileHeader) (string, error)
	Delete(ctx context.Context, name string) error
}

// saveImage stores the image submitted in field. No file yields an empty name and no error.
func saveImage(c *fiber.Ctx, images ImageStore, field string) (string, error) {
	fh, err := c.FormFile(field)
	if err != nil {
		return "", nil
	}
	name, err := images.Save(c.UserContext(), fh)
	if upload.IsNoFile(err) {
		return "", nil
	}
	return name, err
}

// discardImage removes an image stored for a write that then failed
func discardImage(ctx context.Context, images ImageStore, name string) {
	if name == "" {
		return
	}
	if err := images.Delete(ctx, name); err != nil {
		log.Printf("Warning: failed to delete image %s: %v", name, err)
	}
}

// uploadMessage is the inline message for a failed upload
func uploadMessage(err error) string {
	var uploadErr *upload.UploadError
	if errors.As(err, &uploadErr) {
		return uploadErr.Message
	}
	return "Failed to upload file"
}

// form is the shared state of one back-office page request
type form struct {
	c         *fiber.Ctx
	validator *validation.Validator
	flash     response.Flash
}

func newForm(c *fiber.Ctx, v *validation.Validator) *form {
	return &form{c: c, validator: v}
}

// start checks the CSRF token and the action. ok is false when the request must not mutate anything.
func (f *form) start(allowed ...Action) (Action, bool) {
	if !middleware.ValidCSRF(f.c) {
		f.flash.Fail(msgInvalidRequest)
		return "", false
	}
	action, ok := parseAction(f.c.FormValue("action"), allowed...)
	if !ok {
		f.flash.Fail(msgInvalidRequest)
		return "", false
	}
	return action, true
}

// bind parses the form into in and validates it, setting the error message on failure
func (f *form) bind(in interface{}) bool {
	if err := f.c.BodyParser(in); err != nil {
		f.flash.Fail(msgInvalidData)
		return false
	}
	if sanitizer, ok := in.(interface{ sanitize() }); ok {
		sanitizer.sanitize()
	}
	if msg := f.validator.Message(in); msg != "" {
		f.flash.Fail(msg)
		return false
	}
	return true
}

// render shows an admin page with the current flash
func (f *form) render(view string, data fiber.Map) error {
	data["Flash"] = f.flash
	return response.AdminPage(f.c, view, data)
}
