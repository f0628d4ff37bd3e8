package home

import (
	"context"
	"log"

	"github.com/gofiber/fiber/v2"
	"github.com/sahilchouksey/edupool/services"
	"github.com/sahilchouksey/edupool/utils/response"
	"github.com/sahilchouksey/edupool/utils/validation"
)

// HomeReader aggregates the homepage
type HomeReader interface {
	Home(ctx context.Context) *services.HomeData
	Search(ctx context.Context, term string, typ services.SearchType) ([]services.SearchResult, error)
}

// HomeHandler serves the homepage and cross-entity search
type HomeHandler struct {
	home HomeReader
}

// NewHomeHandler creates a new home handler
func NewHomeHandler(home HomeReader) *HomeHandler {
	return &HomeHandler{home: home}
}

// Home handles GET /
func (h *HomeHandler) Home(c *fiber.Ctx) error {
	search := validation.SanitizeString(c.Query("search"))
	typ := services.ParseSearchType(c.Query("type"))

	data := fiber.Map{
		"Title":       "EduPool - Find Your Perfect University, College & Course in Nepal",
		"Home":        h.home.Home(c.UserContext()),
		"Search":      search,
		"Type":        string(typ),
		"SearchTypes": []services.SearchType{services.SearchAll, services.SearchUniversities, services.SearchColleges, services.SearchCourses},
	}

	if search != "" {
		results, err := h.home.Search(c.UserContext(), search, typ)
		if err != nil {
			log.Printf("Search for %q failed: %v", search, err)
		}
		data["Results"] = results
		data["Searched"] = true
	}

	return response.Page(c, "home", data)
}
