package admin

import (
	"context"
	"log"

	"github.com/gofiber/fiber/v2"
	"github.com/sahilchouksey/edupool/services"
	"github.com/sahilchouksey/edupool/utils/response"
)

// DashboardReader supplies the dashboard figures
type DashboardReader interface {
	Dashboard(ctx context.Context) (*services.DashboardData, error)
}

// DashboardHandler serves /admin
type DashboardHandler struct {
	home DashboardReader
}

// NewDashboardHandler creates a new dashboard handler
func NewDashboardHandler(home DashboardReader) *DashboardHandler {
	return &DashboardHandler{home: home}
}

// Dashboard handles GET /admin. Query failures show zero counts.
func (h *DashboardHandler) Dashboard(c *fiber.Ctx) error {
	data, err := h.home.Dashboard(c.UserContext())
	if err != nil {
		log.Printf("Dashboard stats error: %v", err)
		data = &services.DashboardData{}
	}
	return response.AdminPage(c, "admin/dashboard", fiber.Map{
		"Title":     "Admin Dashboard - EduPool",
		"Dashboard": data,
	})
}
