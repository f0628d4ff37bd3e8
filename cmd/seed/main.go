package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/sahilchouksey/edupool/config"
	"github.com/sahilchouksey/edupool/database"
)

func main() {
	migrateOnly := flag.Bool("migrate-only", false, "create the database and run migrations without seeding")
	flag.Parse()

	// Load environment variables
	if err := config.LoadENV(); err != nil {
		log.Fatalf("Failed to load environment variables: %v", err)
	}

	getEnv, err := config.Get()
	if err != nil {
		log.Fatalf("Failed to read configuration: %v", err)
	}

	if err := database.EnsureDatabase(getEnv); err != nil {
		log.Fatalf("Failed to create database: %v", err)
	}

	// Initialize database connection using GORM
	store, err := database.StartGORM()
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer store.Close()

	if err := store.Init(); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	// Check the foreign key delete rules after every migration
	pq, err := database.Start(getEnv.DSN())
	if err != nil {
		log.Fatalf("Failed to open maintenance connection: %v", err)
	}
	defer pq.Close()

	pq.PrintAllRelationships()
	if err := pq.VerifyForeignKeys(); err != nil {
		log.Fatalf("❌ Foreign key check failed: %v", err)
	}

	if *migrateOnly {
		log.Println("✅ Migrations completed successfully!")
		return
	}

	// Run seeds
	separator := strings.Repeat("=", 60)
	fmt.Println(separator)
	fmt.Println("EduPool - Database Seeding")
	fmt.Println(separator)
	fmt.Println()

	opts := database.SeedOptions{
		AdminUsername: os.Getenv("ADMIN_USERNAME"),
		AdminPassword: os.Getenv("ADMIN_PASSWORD"),
		Demo:          os.Getenv("SEED_DEMO_DATA") == "true",
	}
	if err := database.RunSeeds(store.GetDB(), opts); err != nil {
		log.Fatalf("❌ Seeding failed: %v", err)
	}

	fmt.Println()
	fmt.Println(separator)
	fmt.Println("🎉 Seeding completed successfully!")
	fmt.Println(separator)
	fmt.Println()
	fmt.Println("Admin user created from ADMIN_USERNAME and ADMIN_PASSWORD environment variables.")
	fmt.Println("If not set, admin user creation is skipped.")
	fmt.Println("Set SEED_DEMO_DATA=true to add the sample catalog and demo accounts.")
	fmt.Println()
}
