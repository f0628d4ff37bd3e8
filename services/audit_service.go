package services

import (
	"context"
	"encoding/json"
	"time"

	"github.com/sahilchouksey/edupool/model"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// AuditLogLimit is how many entries the audit page shows
const AuditLogLimit = 100

// AuditEntry describes one successful admin write
type AuditEntry struct {
	AdminID     uint
	Action      string
	Resource    string
	ResourceID  uint
	NewValue    interface{}
	IPAddress   string
	UserAgent   string
	Description string
}

// AuditService persists the admin audit trail
type AuditService struct {
	db *gorm.DB
}

// NewAuditService creates a new audit service
func NewAuditService(db *gorm.DB) *AuditService {
	return &AuditService{db: db}
}

// Record stores an audit entry
func (s *AuditService) Record(ctx context.Context, entry AuditEntry) error {
	var newValue datatypes.JSON
	if entry.NewValue != nil {
		raw, err := json.Marshal(entry.NewValue)
		if err != nil {
			return err
		}
		newValue = datatypes.JSON(raw)
	}

	row := model.AdminAuditLog{
		AdminID:     entry.AdminID,
		Action:      entry.Action,
		Resource:    entry.Resource,
		ResourceID:  entry.ResourceID,
		NewValue:    newValue,
		IPAddress:   entry.IPAddress,
		UserAgent:   entry.UserAgent,
		Description: entry.Description,
	}
	return translateError(s.db.WithContext(ctx).Create(&row).Error)
}

// Recent returns the latest entries with their admin, newest first
func (s *AuditService) Recent(ctx context.Context, limit int) ([]model.AdminAuditLog, error) {
	if limit <= 0 {
		limit = AuditLogLimit
	}
	var logs []model.AdminAuditLog
	err := s.db.WithContext(ctx).
		Preload("Admin").
		Order("created_at DESC, id DESC").
		Limit(limit).
		Find(&logs).Error
	return logs, err
}

// Purge deletes entries created before cutoff and reports how many went
func (s *AuditService) Purge(ctx context.Context, cutoff time.Time) (int64, error) {
	result := s.db.WithContext(ctx).Where("created_at < ?", cutoff).Delete(&model.AdminAuditLog{})
	return result.RowsAffected, result.Error
}
