package admin

import (
	"context"

	"github.com/gofiber/fiber/v2"
	"github.com/sahilchouksey/edupool/model"
	"github.com/sahilchouksey/edupool/services"
	"github.com/sahilchouksey/edupool/utils/response"
)

// AuditReader lists recorded admin writes
type AuditReader interface {
	Recent(ctx context.Context, limit int) ([]model.AdminAuditLog, error)
}

// AuditHandler serves /admin/audit
type AuditHandler struct {
	audit AuditReader
}

// NewAuditHandler creates a new audit log handler
func NewAuditHandler(audit AuditReader) *AuditHandler {
	return &AuditHandler{audit: audit}
}

// ListAuditLogs retrieves the latest admin audit entries
// GET /admin/audit
func (h *AuditHandler) ListAuditLogs(c *fiber.Ctx) error {
	logs, err := h.audit.Recent(c.UserContext(), services.AuditLogLimit)
	if err != nil {
		return err
	}
	return response.AdminPage(c, "admin/audit", fiber.Map{
		"Title": "Audit Log - EduPool Admin",
		"Logs":  logs,
	})
}
