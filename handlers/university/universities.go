package university

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

// UniversityReader is the read side of the university service
type UniversityReader interface {
	List(ctx context.Context, f services.UniversityFilter) (*services.UniversityPage, error)
	Years(ctx context.Context) ([]int, error)
	Detail(ctx context.Context, id uint) (*services.UniversityDetail, error)
}

// UniversityHandler serves the public university pages
type UniversityHandler struct {
	universities UniversityReader
}

// NewUniversityHandler creates a new university handler
func NewUniversityHandler(universities UniversityReader) *UniversityHandler {
	return &UniversityHandler{universities: universities}
}

// ListUniversities handles GET /universities
func (h *UniversityHandler) ListUniversities(c *fiber.Ctx) error {
	year, _ := strconv.Atoi(c.Query("year"))
	filter := services.UniversityFilter{
		Search: validation.SanitizeString(c.Query("search")),
		Year:   year,
		Sort:   c.Query("sort"),
		Page:   queryHelper.ParsePage(c.Query("page")),
	}

	page, err := h.universities.List(c.UserContext(), filter)
	if err != nil {
		return err
	}

	years, err := h.universities.Years(c.UserContext())
	if err != nil {
		log.Printf("Failed to load establishment years: %v", err)
	}

	params := url.Values{"search": {filter.Search}, "sort": {page.Sort.Key}}
	if filter.Year > 0 {
		params.Set("year", strconv.Itoa(filter.Year))
	}

	return response.Page(c, "universities/index", fiber.Map{
		"Title":        "Universities - EduPool",
		"Universities": page.Universities,
		"Pagination":   page.Pagination,
		"Pager":        queryHelper.NewPager("/universities", params, page.Pagination),
		"Sort":         page.Sort.Key,
		"Sorts":        services.UniversitySorts.Options(),
		"Search":       filter.Search,
		"Year":         filter.Year,
		"Years":        years,
	})
}

// GetUniversity handles GET /universities/:id
func (h *UniversityHandler) GetUniversity(c *fiber.Ctx) error {
	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil || id == 0 {
		return response.Redirect(c, "/universities")
	}

	detail, err := h.universities.Detail(c.UserContext(), uint(id))
	if err != nil {
		if errors.Is(err, services.ErrNotFound) {
			return response.Redirect(c, "/universities")
		}
		return err
	}

	return response.Page(c, "universities/detail", fiber.Map{
		"Title":      detail.University.Name + " - EduPool",
		"University": detail.University,
		"Colleges":   detail.Colleges,
		"Courses":    detail.Courses,
	})
}
