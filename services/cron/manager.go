package cron

import (
	"context"
	"encoding/json"
	"log"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/sahilchouksey/edupool/model"
	"github.com/sahilchouksey/edupool/utils/upload"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

const (
	jobSweepUploads   = "sweep_orphan_uploads"
	jobPurgeAuditLogs = "purge_audit_logs"

	jobTimeout = 10 * time.Minute
)

// AuditPurger deletes audit entries older than a cutoff
type AuditPurger interface {
	Purge(ctx context.Context, cutoff time.Time) (int64, error)
}

// CronManager manages all scheduled cron jobs
type CronManager struct {
	cron          *cron.Cron
	db            *gorm.DB
	store         upload.Store
	audit         AuditPurger
	retentionDays int
}

// NewCronManager creates a new cron manager
func NewCronManager(db *gorm.DB, store upload.Store, audit AuditPurger, retentionDays int) *CronManager {
	// Create cron with seconds precision
	c := cron.New(cron.WithSeconds())

	return &CronManager{
		cron:          c,
		db:            db,
		store:         store,
		audit:         audit,
		retentionDays: retentionDays,
	}
}

// Start starts all cron jobs
func (m *CronManager) Start() error {
	log.Println("Starting cron jobs...")

	if err := m.registerJobs(); err != nil {
		return err
	}

	m.cron.Start()

	log.Println("Cron jobs started successfully")
	return nil
}

// Stop stops all cron jobs and waits for running ones
func (m *CronManager) Stop() {
	log.Println("Stopping cron jobs...")
	ctx := m.cron.Stop()
	<-ctx.Done()
	log.Println("Cron jobs stopped")
}

// registerJobs registers all cron jobs with their schedules
func (m *CronManager) registerJobs() error {
	// 1. Every hour: remove uploads no row references
	_, err := m.cron.AddFunc("0 0 * * * *", func() {
		m.run(jobSweepUploads, m.SweepOrphanUploads)
	})
	if err != nil {
		return err
	}

	// 2. Daily at 2 AM: drop audit entries past retention
	_, err = m.cron.AddFunc("0 0 2 * * *", func() {
		m.run(jobPurgeAuditLogs, m.PurgeAuditLogs)
	})
	if err != nil {
		return err
	}

	log.Println("All cron jobs registered successfully")
	return nil
}

// run executes a job and records it in cron_job_logs
func (m *CronManager) run(jobName string, job func(ctx context.Context) (string, map[string]interface{}, error)) {
	ctx, cancel := context.WithTimeout(context.Background(), jobTimeout)
	defer cancel()

	cronLog := m.logJobStart(jobName)
	message, metadata, err := job(ctx)
	if err != nil {
		m.logJobError(cronLog, err)
		return
	}
	m.logJobComplete(cronLog, message, metadata)
}

// logJobStart logs the start of a cron job
func (m *CronManager) logJobStart(jobName string) *model.CronJobLog {
	log.Printf("[CRON] Starting job: %s at %s", jobName, time.Now().Format(time.RFC3339))

	cronLog := &model.CronJobLog{
		JobName:   jobName,
		Status:    "running",
		StartedAt: time.Now(),
		Metadata:  datatypes.JSON("{}"),
	}
	if err := m.db.Create(cronLog).Error; err != nil {
		log.Printf("[CRON] Failed to record start of %s: %v", jobName, err)
	}
	return cronLog
}

// logJobComplete logs successful completion of a cron job
func (m *CronManager) logJobComplete(cronLog *model.CronJobLog, message string, metadata map[string]interface{}) {
	log.Printf("[CRON] Completed job: %s - %s", cronLog.JobName, message)

	updates := map[string]interface{}{
		"status":       "completed",
		"completed_at": time.Now(),
		"duration":     time.Since(cronLog.StartedAt).Milliseconds(),
		"message":      message,
	}
	if raw, err := json.Marshal(metadata); err == nil && metadata != nil {
		updates["metadata"] = datatypes.JSON(raw)
	}
	m.finish(cronLog, updates)
}

// logJobError logs a cron job error
func (m *CronManager) logJobError(cronLog *model.CronJobLog, err error) {
	log.Printf("[CRON] Error in job: %s - %v", cronLog.JobName, err)

	m.finish(cronLog, map[string]interface{}{
		"status":       "failed",
		"completed_at": time.Now(),
		"duration":     time.Since(cronLog.StartedAt).Milliseconds(),
		"error_msg":    err.Error(),
	})
}

func (m *CronManager) finish(cronLog *model.CronJobLog, updates map[string]interface{}) {
	if cronLog.ID == 0 {
		return
	}
	if err := m.db.Model(cronLog).Updates(updates).Error; err != nil {
		log.Printf("[CRON] Failed to record end of %s: %v", cronLog.JobName, err)
	}
}
