package database

import (
	"log"
	"time"

	"github.com/sahilchouksey/edupool/config"
	"github.com/sahilchouksey/edupool/model"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

type GORMStore struct {
	db *gorm.DB
}

// StartGORM initializes a GORM connection to PostgreSQL using the environment configuration
func StartGORM() (*GORMStore, error) {
	getEnv, err := config.Get()
	if err != nil {
		return nil, err
	}

	return OpenGORM(getEnv.DSN(), getEnv.GO_ENV)
}

// OpenGORM opens a GORM connection for the given DSN
func OpenGORM(dsn, goEnv string) (*GORMStore, error) {
	gormLogger := logger.Default.LogMode(logger.Info)
	if goEnv == "production" || goEnv == "test" {
		gormLogger = logger.Default.LogMode(logger.Error)
	}

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger:         gormLogger,
		PrepareStmt:    true,
		TranslateError: true, // surface unique/FK/check violations as gorm.Err* sentinels
	})
	if err != nil {
		log.Println("Unable to connect to PostgreSQL with GORM:", err)
		return nil, err
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}

	sqlDB.SetMaxIdleConns(10)
	sqlDB.SetMaxOpenConns(100)
	sqlDB.SetConnMaxLifetime(time.Hour)

	log.Println("Successfully connected to PostgreSQL Database with GORM.")

	return &GORMStore{db: db}, nil
}

// Models lists every migrated model, parents before children
func Models() []interface{} {
	return []interface{}{
		// Catalog
		&model.University{},
		&model.College{},
		&model.Course{},
		&model.UniversityCourse{},
		&model.CollegeCourse{},
		&model.SyllabusGroup{},
		&model.SyllabusItem{},

		// Principals
		&model.User{},
		&model.Admin{},

		// Audit & logging models
		&model.AdminAuditLog{},
		&model.CronJobLog{},
	}
}

// Init runs the AutoMigrate to create/update tables and their constraints
func (s *GORMStore) Init() error {
	log.Println("Running GORM AutoMigrate for all models...")

	if err := s.db.AutoMigrate(Models()...); err != nil {
		log.Println("Error running AutoMigrate:", err)
		return err
	}

	log.Println("GORM AutoMigrate completed successfully!")
	return nil
}

// Close closes the database connection
func (s *GORMStore) Close() error {
	log.Println("Closing GORM PostgreSQL connection...")
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// GetDB returns the GORM DB instance for services
func (s *GORMStore) GetDB() *gorm.DB {
	return s.db
}

// HealthCheck verifies the database connection is alive
func (s *GORMStore) HealthCheck() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Ping()
}
