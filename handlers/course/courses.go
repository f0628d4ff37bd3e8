package course

import (
	"context"
	"errors"
	"log"
	"net/url"
	"strconv"

	"github.com/gofiber/fiber/v2"
	"github.com/sahilchouksey/edupool/services"
	queryHelper "github.com/sahilchouksey/edupool/utils/query"
	"github.com/sahilchouksey/edupool/utils/response"
	"github.com/sahilchouksey/edupool/utils/validation"
)

// CourseReader is the read side of the course service
type CourseReader interface {
	List(ctx context.Context, f services.CourseFilter) (*services.CoursePage, error)
	Durations(ctx context.Context) ([]string, error)
	Detail(ctx context.Context, id uint) (*services.CourseDetail, error)
}

// CourseHandler serves the public course pages
type CourseHandler struct {
	courses CourseReader
}

// NewCourseHandler creates a new course handler
func NewCourseHandler(courses CourseReader) *CourseHandler {
	return &CourseHandler{courses: courses}
}

// ListCourses handles GET /courses
func (h *CourseHandler) ListCourses(c *fiber.Ctx) error {
	filter := services.CourseFilter{
		Search:   validation.SanitizeString(c.Query("search")),
		Duration: validation.SanitizeString(c.Query("duration")),
		Sort:     c.Query("sort"),
		Page:     queryHelper.ParsePage(c.Query("page")),
	}

	page, err := h.courses.List(c.UserContext(), filter)
	if err != nil {
		return err
	}

	durations, err := h.courses.Durations(c.UserContext())
	if err != nil {
		log.Printf("Failed to load course durations: %v", err)
	}

	params := url.Values{"search": {filter.Search}, "duration": {filter.Duration}, "sort": {page.Sort.Key}}

	return response.Page(c, "courses/index", fiber.Map{
		"Title":      "Courses - EduPool",
		"Courses":    page.Courses,
		"Pagination": page.Pagination,
		"Pager":      queryHelper.NewPager("/courses", params, page.Pagination),
		"Sort":       page.Sort.Key,
		"Sorts":      services.CourseSorts.Options(),
		"Search":     filter.Search,
		"Duration":   filter.Duration,
		"Durations":  durations,
	})
}

// GetCourse handles GET /courses/:id
func (h *CourseHandler) GetCourse(c *fiber.Ctx) error {
	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil || id == 0 {
		return response.Redirect(c, "/courses")
	}

	detail, err := h.courses.Detail(c.UserContext(), uint(id))
	if err != nil {
		if errors.Is(err, services.ErrNotFound) {
			return response.Redirect(c, "/courses")
		}
		return err
	}

	return response.Page(c, "courses/detail", fiber.Map{
		"Title":        detail.Course.Name + " - EduPool",
		"Course":       detail.Course,
		"Universities": detail.Universities,
		"Colleges":     detail.Colleges,
		"Syllabi":      detail.Syllabi,
	})
}
