package pdfvalidation

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	"github.com/ledongthuc/pdf"
)

// Limits bounds what a PDF upload may contain
type Limits struct {
	MaxFileSizeMB    int
	MaxPages         int
	DocumentTypeName string // used in messages, e.g. "syllabus"
}

var SyllabusLimits = Limits{
	MaxFileSizeMB:    10,
	MaxPages:         50,
	DocumentTypeName: "syllabus",
}

// ValidationError is a rejection with a message fit for the form
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

// IsValidationError reports whether err rejects the file itself rather than failing to read it
func IsValidationError(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

func reject(format string, args ...interface{}) error {
	return &ValidationError{Message: fmt.Sprintf(format, args...)}
}

// Read validates an uploaded PDF against limits and returns its content
func Read(file *multipart.FileHeader, limits Limits) ([]byte, error) {
	maxSize := int64(limits.MaxFileSizeMB) * 1024 * 1024
	if file.Size > maxSize {
		return nil, reject("File size exceeds maximum allowed size of %dMB", limits.MaxFileSizeMB)
	}
	if !strings.HasSuffix(strings.ToLower(file.Filename), ".pdf") {
		return nil, reject("Only PDF files are supported")
	}

	f, err := file.Open()
	if err != nil {
		return nil, fmt.Errorf("failed to open file: %w", err)
	}
	defer f.Close()

	content, err := io.ReadAll(io.LimitReader(f, maxSize+1))
	if err != nil {
		return nil, fmt.Errorf("failed to read file: %w", err)
	}
	if err := Validate(content, limits); err != nil {
		return nil, err
	}
	return content, nil
}

// Validate checks raw PDF content against limits
func Validate(content []byte, limits Limits) error {
	if int64(len(content)) > int64(limits.MaxFileSizeMB)*1024*1024 {
		return reject("File size exceeds maximum allowed size of %dMB", limits.MaxFileSizeMB)
	}
	if !mimetype.Detect(content).Is("application/pdf") {
		return reject("Invalid PDF file: missing PDF header")
	}

	pages, err := PageCount(content)
	if err != nil {
		return reject("Failed to read PDF: %v", err)
	}
	if pages == 0 {
		return reject("PDF has no pages")
	}
	if pages > limits.MaxPages {
		return reject("PDF has %d pages, which exceeds the maximum of %d pages for %s",
			pages, limits.MaxPages, limits.DocumentTypeName)
	}
	return nil
}

// trimTrailer drops anything after the last %%EOF marker
func trimTrailer(content []byte) []byte {
	eof := bytes.LastIndex(content, []byte("%%EOF"))
	if eof == -1 {
		return content
	}
	end := eof + len("%%EOF")
	for end < len(content) && (content[end] == '\n' || content[end] == '\r') {
		end++
	}
	return content[:end]
}

// PageCount returns the number of pages in a PDF
func PageCount(content []byte) (int, error) {
	content = trimTrailer(content)
	r, err := pdf.NewReader(bytes.NewReader(content), int64(len(content)))
	if err != nil {
		return 0, fmt.Errorf("failed to parse PDF: %w", err)
	}
	return r.NumPage(), nil
}
