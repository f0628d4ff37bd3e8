package app

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sahilchouksey/edupool/api"
	"github.com/sahilchouksey/edupool/config"
	"github.com/sahilchouksey/edupool/database"
	"github.com/sahilchouksey/edupool/router"
	"github.com/sahilchouksey/edupool/services"
	"github.com/sahilchouksey/edupool/services/cron"
	"github.com/sahilchouksey/edupool/services/storage"
	"github.com/sahilchouksey/edupool/utils"
	"github.com/sahilchouksey/edupool/utils/auth"
	"github.com/sahilchouksey/edupool/utils/cache"
	"github.com/sahilchouksey/edupool/utils/middleware"
	"github.com/sahilchouksey/edupool/utils/upload"
	"github.com/sahilchouksey/edupool/views"
)

func SetupAndRunServer() error {

	// Load ENV
	if err := config.LoadENV(); err != nil {
		return err
	}

	getEnv, err := config.Get()
	if err != nil {
		return err
	}

	if getEnv.SESSION_SECRET == "" {
		return fmt.Errorf("SESSION_SECRET environment variable is not set")
	}

	// Initialize GORM database connection
	store, err := database.StartGORM()
	if err != nil {
		print("Could not connect to the database.\n")
		print("Check whether the Postgres is running or not\n")
		return err
	}

	if err := store.Init(); err != nil {
		print("Failed to initialize database tables\n")
		print("Error running migrations:\n")
		return err
	}

	// Redis is optional: sessions and counters fall back to memory
	var redisCache *cache.RedisCache
	if getEnv.REDIS_URL != "" {
		redisCache, err = cache.NewRedisCache(getEnv.REDIS_URL)
		if err != nil {
			log.Printf("Warning: Failed to connect to Redis: %v. Using in-memory sessions.", err)
			redisCache = nil
		}
	}

	sessionStore := middleware.NewSessionStore(nil, getEnv.SESSION_TIMEOUT, getEnv.COOKIE_SECURE)
	securityConfig := middleware.SecurityConfig{
		AllowedOrigins:    getEnv.ALLOWED_ORIGINS,
		RateLimitRequests: getEnv.RATE_LIMIT_REQUESTS,
		RateLimitWindow:   time.Minute,
	}
	if redisCache != nil {
		sessionStore = middleware.NewSessionStore(cache.NewSessionStorage(redisCache, "session:"), getEnv.SESSION_TIMEOUT, getEnv.COOKIE_SECURE)
		securityConfig.Storage = cache.NewSessionStorage(redisCache, "ratelimit:")
	}

	activity, err := utils.NewActivityLogger(getEnv.ACTIVITY_LOG_PATH)
	if err != nil {
		log.Printf("Warning: Activity log unavailable: %v", err)
		activity = nil
	}

	uploader := upload.NewUploader(storage.New(getEnv))
	auditService := services.NewAuditService(store.GetDB())

	// Initialize Cron Manager (only if enabled via environment variable)
	var cronManager *cron.CronManager
	if getEnv.CRON_ENABLED {
		cronManager = cron.NewCronManager(store.GetDB(), uploader.Store(), auditService, getEnv.AUDIT_RETENTION_DAYS)
		if err := cronManager.Start(); err != nil {
			log.Printf("Warning: Failed to start cron jobs: %v", err)
			// Don't fail the app, just log the warning
			cronManager = nil
		}
	}

	// Defer Closing DB, Redis, the activity log and stopping cron jobs
	defer func() {
		if cronManager != nil {
			cronManager.Stop()
		}
		if redisCache != nil {
			redisCache.Close()
		}
		activity.Close()
		store.Close()
	}()

	// Init API
	server := api.NewAPIServer(fmt.Sprintf(":%d", getEnv.PORT), views.New(uploader.URL))
	app := server.GetEngine()

	// Attach Middleware
	middleware.SetupSecurity(app, securityConfig)

	// Setup Routes
	router.SetupRoutes(app, router.Dependencies{
		Store:    store,
		Sessions: sessionStore,
		JWT: auth.NewJWTManager(auth.JWTConfig{
			Secret: getEnv.SESSION_SECRET,
			Issuer: getEnv.JWT_ISSUER,
		}),
		Redis:      redisCache,
		Uploader:   uploader,
		Activity:   activity,
		Audit:      auditService,
		CookieSafe: getEnv.COOKIE_SECURE,
	})

	go shutdownOnSignal(server)

	// Get the PORT & Start the Server
	return server.Run()
}

// shutdownOnSignal stops the server on SIGINT or SIGTERM so deferred cleanup runs
func shutdownOnSignal(server *api.APIServer) {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	<-ctx.Done()

	log.Println("Shutting down API Server")
	if err := server.Shutdown(); err != nil {
		log.Printf("Shutdown error: %v", err)
	}
}
