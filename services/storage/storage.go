// Package storage provides the upload stores: a local directory or a Spaces bucket.
package storage

import (
	"log"

	"github.com/sahilchouksey/edupool/config"
	"github.com/sahilchouksey/edupool/utils/upload"
)

// New picks the store configured by STORAGE_BACKEND, falling back to local disk
func New(cfg *config.EnvironmentVariable) upload.Store {
	if cfg.STORAGE_BACKEND == "spaces" {
		store, err := NewSpacesStore(SpacesConfig{
			AccessKey: cfg.DO_SPACES_KEY,
			SecretKey: cfg.DO_SPACES_SECRET,
			Bucket:    cfg.DO_SPACES_BUCKET,
			Region:    cfg.DO_SPACES_REGION,
			Endpoint:  cfg.DO_SPACES_ENDPOINT,
			CDNURL:    cfg.DO_SPACES_CDN_URL,
		})
		if err == nil {
			log.Printf("Using Spaces bucket %s for uploads", cfg.DO_SPACES_BUCKET)
			return store
		}
		log.Printf("Warning: Spaces storage unavailable (%v), using local uploads directory", err)
	}
	return NewLocalStore(cfg.UPLOAD_DIR, "/uploads")
}
