package college

import (
	"context"
	"errors"
	"log"
	"net/url"
	"strconv"

	"github.com/gofiber/fiber/v2"
	"github.com/sahilchouksey/edupool/model"
	"github.com/sahilchouksey/edupool/services"
	queryHelper "github.com/sahilchouksey/edupool/utils/query"
	"github.com/sahilchouksey/edupool/utils/response"
	"github.com/sahilchouksey/edupool/utils/validation"
)

// CollegeReader is the read side of the college service
type CollegeReader interface {
	List(ctx context.Context, f services.CollegeFilter) (*services.CollegePage, error)
	Detail(ctx context.Context, id uint) (*services.CollegeDetail, error)
}

// UniversityLister feeds the university filter
type UniversityLister interface {
	ListAll(ctx context.Context) ([]model.University, error)
}

// CollegeHandler serves the public college pages
type CollegeHandler struct {
	colleges     CollegeReader
	universities UniversityLister
}

// NewCollegeHandler creates a new college handler
func NewCollegeHandler(colleges CollegeReader, universities UniversityLister) *CollegeHandler {
	return &CollegeHandler{colleges: colleges, universities: universities}
}

// ListColleges handles GET /colleges
func (h *CollegeHandler) ListColleges(c *fiber.Ctx) error {
	universityID, _ := strconv.ParseUint(c.Query("university"), 10, 32)
	filter := services.CollegeFilter{
		Search:       validation.SanitizeString(c.Query("search")),
		UniversityID: uint(universityID),
		Sort:         c.Query("sort"),
		Page:         queryHelper.ParsePage(c.Query("page")),
	}

	page, err := h.colleges.List(c.UserContext(), filter)
	if err != nil {
		return err
	}

	universities, err := h.universities.ListAll(c.UserContext())
	if err != nil {
		log.Printf("Failed to load universities for filter: %v", err)
	}

	params := url.Values{"search": {filter.Search}, "sort": {page.Sort.Key}}
	if filter.UniversityID > 0 {
		params.Set("university", strconv.FormatUint(uint64(filter.UniversityID), 10))
	}

	return response.Page(c, "colleges/index", fiber.Map{
		"Title":        "Colleges - EduPool",
		"Colleges":     page.Colleges,
		"Pagination":   page.Pagination,
		"Pager":        queryHelper.NewPager("/colleges", params, page.Pagination),
		"Sort":         page.Sort.Key,
		"Sorts":        services.CollegeSorts.Options(),
		"Search":       filter.Search,
		"UniversityID": filter.UniversityID,
		"Universities": universities,
	})
}

// GetCollege handles GET /colleges/:id
func (h *CollegeHandler) GetCollege(c *fiber.Ctx) error {
	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil || id == 0 {
		return response.Redirect(c, "/colleges")
	}

	detail, err := h.colleges.Detail(c.UserContext(), uint(id))
	if err != nil {
		if errors.Is(err, services.ErrNotFound) {
			return response.Redirect(c, "/colleges")
		}
		return err
	}

	return response.Page(c, "colleges/detail", fiber.Map{
		"Title":   detail.College.Name + " - EduPool",
		"College": detail.College,
		"Levels":  detail.Levels,
	})
}
