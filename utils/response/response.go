package response

import (
	"log"

	"github.com/gofiber/fiber/v2"
)

// Layouts wrapping rendered pages
const (
	LayoutMain  = "layouts/main"
	LayoutAdmin = "layouts/admin"
)

// Response represents a standardized API response
type Response struct {
	Success bool         `json:"success"`
	Message string       `json:"message,omitempty"`
	Data    interface{}  `json:"data,omitempty"`
	Error   *ErrorDetail `json:"error,omitempty"`
}

// ErrorDetail contains error information
type ErrorDetail struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// Flash is the outcome of a form submission shown above the form
type Flash struct {
	Success string
	Error   string
}

// Ok sets a success message
func (f *Flash) Ok(message string) {
	f.Success, f.Error = message, ""
}

// Fail sets an error message
func (f *Flash) Fail(message string) {
	f.Success, f.Error = "", message
}

// Failed reports whether an error message is set
func (f Flash) Failed() bool {
	return f.Error != ""
}

// Page renders a public page inside the main layout
func Page(c *fiber.Ctx, view string, data fiber.Map) error {
	return c.Render(view, data, LayoutMain)
}

// AdminPage renders a back-office page inside the admin layout
func AdminPage(c *fiber.Ctx, view string, data fiber.Map) error {
	return c.Render(view, data, LayoutAdmin)
}

// Redirect sends a 303 so the browser follows with a GET
func Redirect(c *fiber.Ctx, location string) error {
	return c.Redirect(location, fiber.StatusSeeOther)
}

// ErrorPage renders the generic error page, falling back to plain text
func ErrorPage(c *fiber.Ctx, status int, message string) error {
	c.Status(status)
	if err := c.Render("error", fiber.Map{"Title": "Error", "Status": status, "Message": message}, LayoutMain); err != nil {
		log.Printf("Failed to render error page: %v", err)
		return c.SendString(message)
	}
	return nil
}

// Success returns a successful response
func Success(c *fiber.Ctx, data interface{}) error {
	return c.Status(fiber.StatusOK).JSON(Response{
		Success: true,
		Data:    data,
	})
}

// Error returns an error response
func Error(c *fiber.Ctx, statusCode int, message string, code string) error {
	return c.Status(statusCode).JSON(Response{
		Success: false,
		Error: &ErrorDetail{
			Code:    code,
			Message: message,
		},
	})
}

// TooManyRequests returns a 429 Too Many Requests response
func TooManyRequests(c *fiber.Ctx, message string) error {
	if message == "" {
		message = "Too many requests. Please try again later."
	}
	return Error(c, fiber.StatusTooManyRequests, message, "RATE_LIMIT_EXCEEDED")
}

// ServiceUnavailable returns a 503 Service Unavailable response
func ServiceUnavailable(c *fiber.Ctx, message string) error {
	if message == "" {
		message = "Service temporarily unavailable"
	}
	return Error(c, fiber.StatusServiceUnavailable, message, "SERVICE_UNAVAILABLE")
}
