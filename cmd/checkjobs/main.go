package main

import (
	"flag"
	"fmt"
	"log"
	"time"

	"github.com/sahilchouksey/edupool/config"
	"github.com/sahilchouksey/edupool/model"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// staleAfter is how long a "running" row may live before it counts as abandoned
const staleAfter = time.Hour

func main() {
	limit := flag.Int("limit", 20, "number of recent runs to show")
	jobID := flag.Uint("job", 0, "show a single run in detail")
	fixStale := flag.Bool("fix-stale", false, "mark abandoned running jobs as failed")
	flag.Parse()

	// Load .env
	if err := config.LoadENV(); err != nil {
		log.Println("No .env file found, using environment variables")
	}
	getEnv, err := config.Get()
	if err != nil {
		log.Fatalf("Failed to read configuration: %v", err)
	}

	// Connect to database
	db, err := gorm.Open(postgres.Open(getEnv.DSN()), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	switch {
	case *jobID != 0:
		showJob(db, *jobID)
	case *fixStale:
		markStale(db)
	default:
		listJobs(db, *limit)
	}
}

func listJobs(db *gorm.DB, limit int) {
	fmt.Println("========================================")
	fmt.Println("CRON JOBS STATUS CHECK")
	fmt.Println("========================================")

	var runs []model.CronJobLog
	if err := db.Order("started_at DESC").Limit(limit).Find(&runs).Error; err != nil {
		log.Fatalf("Failed to fetch job runs: %v", err)
	}

	if len(runs) == 0 {
		fmt.Println("\n❌ No cron job runs found in database")
	} else {
		fmt.Printf("\n📋 Found %d job runs:\n\n", len(runs))
		for _, run := range runs {
			fmt.Printf("%s #%d %-22s %-10s %s  %6dms  %s\n",
				statusIcon(run.Status), run.ID, run.JobName, run.Status,
				run.StartedAt.Format("2006-01-02 15:04:05"), run.Duration, truncate(summary(run), 60))
		}
	}

	var running []model.CronJobLog
	db.Where("status = ?", "running").Order("started_at").Find(&running)

	fmt.Println("\n========================================")
	fmt.Printf("RUNNING JOBS: %d\n", len(running))
	fmt.Println("========================================")
	for _, run := range running {
		age := time.Since(run.StartedAt).Round(time.Second)
		note := ""
		if age > staleAfter {
			note = " (stale, run with -fix-stale)"
		}
		fmt.Printf("🔄 #%d %s running for %s%s\n", run.ID, run.JobName, age, note)
	}
	fmt.Println()
}

func showJob(db *gorm.DB, id uint) {
	var run model.CronJobLog
	if err := db.First(&run, id).Error; err != nil {
		log.Fatalf("Failed to find job run %d: %v", id, err)
	}

	fmt.Println("══════════════════════════════════════════════════════════════")
	fmt.Printf("  CRON JOB RUN #%d - %s\n", run.ID, run.JobName)
	fmt.Println("══════════════════════════════════════════════════════════════")
	fmt.Printf("   Status:      %s %s\n", statusIcon(run.Status), run.Status)
	fmt.Printf("   Started At:  %s\n", run.StartedAt.Format("2006-01-02 15:04:05.000"))
	if run.CompletedAt != nil {
		fmt.Printf("   Completed:   %s\n", run.CompletedAt.Format("2006-01-02 15:04:05.000"))
	}
	fmt.Printf("   Duration:    %dms\n", run.Duration)
	if run.Message != "" {
		fmt.Printf("   Message:     %s\n", run.Message)
	}
	if run.ErrorMsg != "" {
		fmt.Printf("   Error:       %s\n", run.ErrorMsg)
	}
	if len(run.Metadata) > 0 {
		fmt.Printf("   Metadata:    %s\n", string(run.Metadata))
	}
}

func markStale(db *gorm.DB) {
	result := db.Model(&model.CronJobLog{}).
		Where("status = ? AND started_at < ?", "running", time.Now().Add(-staleAfter)).
		Updates(map[string]interface{}{
			"status":       "failed",
			"completed_at": time.Now(),
			"error_msg":    "abandoned: process stopped before the job finished",
		})
	if result.Error != nil {
		log.Fatalf("Failed to update stale jobs: %v", result.Error)
	}
	fmt.Printf("✅ Marked %d stale job runs as failed\n", result.RowsAffected)
}

func summary(run model.CronJobLog) string {
	if run.ErrorMsg != "" {
		return run.ErrorMsg
	}
	return run.Message
}

func statusIcon(status string) string {
	switch status {
	case "completed":
		return "✅"
	case "failed":
		return "❌"
	case "running":
		return "🔄"
	}
	return "⏳"
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max-3] + "..."
}
