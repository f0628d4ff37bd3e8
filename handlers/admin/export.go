package admin

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/sahilchouksey/edupool/utils/response"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// WorkbookWriter renders the catalog as a spreadsheet
type WorkbookWriter interface {
	WriteWorkbook(ctx context.Context, w io.Writer) error
}

// ExportHandler serves /admin/export
type ExportHandler struct {
	export WorkbookWriter
}

// NewExportHandler creates a new export handler
func NewExportHandler(export WorkbookWriter) *ExportHandler {
	return &ExportHandler{export: export}
}

// ExportCatalog streams the catalog workbook as a download
// GET /admin/export
func (h *ExportHandler) ExportCatalog(c *fiber.Ctx) error {
	var buf bytes.Buffer
	if err := h.export.WriteWorkbook(c.UserContext(), &buf); err != nil {
		log.Printf("Export catalog error: %v", err)
		return response.ErrorPage(c, fiber.StatusInternalServerError, "Export failed. Please try again.")
	}

	filename := fmt.Sprintf("edupool-catalog-%s.xlsx", time.Now().Format("2006-01-02"))
	c.Set(fiber.HeaderContentType, xlsxContentType)
	c.Set(fiber.HeaderContentDisposition, fmt.Sprintf(`attachment; filename="%s"`, filename))
	return c.Send(buf.Bytes())
}
