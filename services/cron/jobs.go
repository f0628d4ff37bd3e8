package cron

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/sahilchouksey/edupool/model"
	"github.com/sahilchouksey/edupool/utils/upload"
)

// OrphanGracePeriod keeps fresh uploads whose row write may still be in flight
const OrphanGracePeriod = time.Hour

// SweepOrphanUploads deletes stored images no university, college or user references
func (m *CronManager) SweepOrphanUploads(ctx context.Context) (string, map[string]interface{}, error) {
	files, err := m.store.List(ctx)
	if err != nil {
		return "", nil, fmt.Errorf("list uploads: %w", err)
	}

	referenced, err := m.referencedImages(ctx)
	if err != nil {
		return "", nil, err
	}

	orphans := FindOrphans(files, referenced, time.Now().Add(-OrphanGracePeriod))
	deleted := 0
	for _, name := range orphans {
		if err := m.store.Delete(ctx, name); err != nil {
			log.Printf("[CRON] Failed to delete orphan upload %s: %v", name, err)
			continue
		}
		deleted++
	}

	metadata := map[string]interface{}{
		"scanned": len(files),
		"orphans": len(orphans),
		"deleted": deleted,
	}
	return fmt.Sprintf("Deleted %d of %d orphaned uploads", deleted, len(orphans)), metadata, nil
}

func (m *CronManager) referencedImages(ctx context.Context) (map[string]bool, error) {
	referenced := make(map[string]bool)
	sources := []struct {
		model  interface{}
		column string
	}{
		{&model.University{}, "image"},
		{&model.College{}, "image"},
		{&model.User{}, "profile_picture"},
	}

	for _, src := range sources {
		var names []string
		err := m.db.WithContext(ctx).Model(src.model).
			Where(src.column+" <> ''").
			Pluck(src.column, &names).Error
		if err != nil {
			return nil, fmt.Errorf("load referenced images: %w", err)
		}
		for _, name := range names {
			referenced[name] = true
		}
	}
	return referenced, nil
}

// FindOrphans returns the files not referenced and last modified before cutoff
func FindOrphans(files []upload.StoredFile, referenced map[string]bool, cutoff time.Time) []string {
	var orphans []string
	for _, f := range files {
		if referenced[f.Name] || f.ModTime.After(cutoff) {
			continue
		}
		orphans = append(orphans, f.Name)
	}
	return orphans
}

// PurgeAuditLogs deletes audit entries older than the retention window
func (m *CronManager) PurgeAuditLogs(ctx context.Context) (string, map[string]interface{}, error) {
	cutoff := time.Now().AddDate(0, 0, -m.retentionDays)
	n, err := m.audit.Purge(ctx, cutoff)
	if err != nil {
		return "", nil, fmt.Errorf("purge audit logs: %w", err)
	}
	return fmt.Sprintf("Purged %d audit log entries older than %d days", n, m.retentionDays),
		map[string]interface{}{"deleted": n, "cutoff": cutoff.Format(time.RFC3339)}, nil
}
