package middleware

import (
	"context"
	"log"

	"github.com/gofiber/fiber/v2"
	"github.com/sahilchouksey/edupool/services"
	"github.com/sahilchouksey/edupool/utils"
)

const localAudit = "auditEntry"

// AuditRecorder persists audit entries
type AuditRecorder interface {
	Record(ctx context.Context, entry services.AuditEntry) error
}

// Audit marks the request as a successful admin write. The entry's Description
// doubles as the activity log line.
func Audit(c *fiber.Ctx, entry services.AuditEntry) {
	c.Locals(localAudit, &entry)
}

// AdminAuditLog records audit entries set by handlers once they return.
// Each entry also becomes an activity log line, and onWrite runs after it.
func AdminAuditLog(recorder AuditRecorder, activity *utils.ActivityLogger, onWrite func(ctx context.Context)) fiber.Handler {
	return func(c *fiber.Ctx) error {
		err := c.Next()

		entry, ok := c.Locals(localAudit).(*services.AuditEntry)
		if !ok {
			return err
		}

		entry.AdminID = GetPrincipal(c).AdminID
		entry.IPAddress = c.IP()
		entry.UserAgent = c.Get(fiber.HeaderUserAgent)

		activity.Info("%s", entry.Description)
		if recErr := recorder.Record(c.UserContext(), *entry); recErr != nil {
			log.Printf("Failed to record audit entry %q: %v", entry.Description, recErr)
		}
		if onWrite != nil {
			onWrite(c.UserContext())
		}
		return err
	}
}
