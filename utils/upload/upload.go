package upload

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"path/filepath"
	"strings"
	"time"

	"github.com/disintegration/imaging"
	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"
)

const (
	// MaxUploadSize is the largest accepted image, in bytes
	MaxUploadSize = 5 * 1024 * 1024
	// MaxDimension bounds the longest side of stored images
	MaxDimension = 1920
)

// AllowedExtensions lists accepted image extensions, without the dot
var AllowedExtensions = []string{"jpg", "jpeg", "png", "gif"}

var allowedMIME = map[string]bool{
	"image/jpeg": true,
	"image/png":  true,
	"image/gif":  true,
}

// Reason classifies an upload failure
type Reason string

const (
	ReasonNoFile      Reason = "no_file"
	ReasonInvalidType Reason = "invalid_type"
	ReasonTooLarge    Reason = "too_large"
	ReasonStoreFailed Reason = "store_failed"
)

// UploadError is returned for every rejected or failed upload
type UploadError struct {
	Reason  Reason
	Message string
	Err     error
}

func (e *UploadError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Reason, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Reason, e.Message)
}

func (e *UploadError) Unwrap() error {
	return e.Err
}

// IsNoFile reports whether err means nothing was submitted
func IsNoFile(err error) bool {
	var uploadErr *UploadError
	return errors.As(err, &uploadErr) && uploadErr.Reason == ReasonNoFile
}

// StoredFile describes an object held by a Store
type StoredFile struct {
	Name    string
	ModTime time.Time
}

// Store persists uploaded images by generated name
type Store interface {
	Save(ctx context.Context, name string, data []byte, contentType string) error
	Delete(ctx context.Context, name string) error
	List(ctx context.Context) ([]StoredFile, error)
	URL(name string) string
}

// Uploader validates images and writes them to a Store
type Uploader struct {
	store Store
	now   func() time.Time
}

// NewUploader creates an uploader backed by store
func NewUploader(store Store) *Uploader {
	return &Uploader{store: store, now: time.Now}
}

// Store returns the backing store
func (u *Uploader) Store() Store {
	return u.store
}

// GenerateFilename builds "<unix-timestamp>_<uuid><ext>"
func GenerateFilename(ext string, now time.Time) string {
	return fmt.Sprintf("%d_%s%s", now.Unix(), uuid.New().String(), ext)
}

// Save validates the submitted file and stores it, returning the generated name
func (u *Uploader) Save(ctx context.Context, fh *multipart.FileHeader) (string, error) {
	if fh == nil || fh.Filename == "" {
		return "", &UploadError{Reason: ReasonNoFile, Message: "No file uploaded or upload error"}
	}

	ext := strings.ToLower(filepath.Ext(fh.Filename))
	if !extensionAllowed(ext) {
		return "", invalidType()
	}
	if fh.Size > MaxUploadSize {
		return "", tooLarge()
	}

	f, err := fh.Open()
	if err != nil {
		return "", &UploadError{Reason: ReasonNoFile, Message: "No file uploaded or upload error", Err: err}
	}
	defer f.Close()

	data, err := io.ReadAll(io.LimitReader(f, MaxUploadSize+1))
	if err != nil {
		return "", &UploadError{Reason: ReasonNoFile, Message: "No file uploaded or upload error", Err: err}
	}

	return u.SaveBytes(ctx, ext, data)
}

// SaveBytes validates raw image content with the given extension (".png") and stores it
func (u *Uploader) SaveBytes(ctx context.Context, ext string, data []byte) (string, error) {
	ext = strings.ToLower(ext)
	if !extensionAllowed(ext) {
		return "", invalidType()
	}
	if len(data) > MaxUploadSize {
		return "", tooLarge()
	}
	if len(data) == 0 {
		return "", &UploadError{Reason: ReasonNoFile, Message: "No file uploaded or upload error"}
	}

	mtype := mimetype.Detect(data)
	if !allowedMIME[mtype.String()] {
		return "", invalidType()
	}

	data, err := fitImage(data)
	if err != nil {
		return "", &UploadError{Reason: ReasonInvalidType, Message: "Uploaded file is not a valid image", Err: err}
	}

	name := GenerateFilename(ext, u.now())
	if err := u.store.Save(ctx, name, data, mtype.String()); err != nil {
		return "", &UploadError{Reason: ReasonStoreFailed, Message: "Failed to upload file", Err: err}
	}
	return name, nil
}

// Delete removes a stored image; an empty name is a no-op
func (u *Uploader) Delete(ctx context.Context, name string) error {
	if name == "" {
		return nil
	}
	return u.store.Delete(ctx, name)
}

// URL returns the public URL of a stored image
func (u *Uploader) URL(name string) string {
	if name == "" {
		return ""
	}
	return u.store.URL(name)
}

// fitImage decodes the image and shrinks it when larger than MaxDimension
func fitImage(data []byte) ([]byte, error) {
	format, err := imaging.FormatFromExtension(formatExt(data))
	if err != nil {
		return nil, err
	}

	img, err := imaging.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}

	b := img.Bounds()
	if b.Dx() <= MaxDimension && b.Dy() <= MaxDimension {
		return data, nil
	}

	resized := imaging.Fit(img, MaxDimension, MaxDimension, imaging.Lanczos)
	var buf bytes.Buffer
	if err := imaging.Encode(&buf, resized, format); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func formatExt(data []byte) string {
	return mimetype.Detect(data).Extension()
}

func extensionAllowed(ext string) bool {
	ext = strings.TrimPrefix(ext, ".")
	for _, allowed := range AllowedExtensions {
		if ext == allowed {
			return true
		}
	}
	return false
}

func invalidType() error {
	return &UploadError{
		Reason:  ReasonInvalidType,
		Message: "Invalid file type. Allowed: " + strings.Join(AllowedExtensions, ", "),
	}
}

func tooLarge() error {
	return &UploadError{Reason: ReasonTooLarge, Message: "File size too large. Maximum 5MB allowed"}
}
