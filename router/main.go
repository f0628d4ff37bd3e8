package router

import (
	"log"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/session"
	"github.com/sahilchouksey/edupool/database"
	"github.com/sahilchouksey/edupool/handlers"
	admin_handlers "github.com/sahilchouksey/edupool/handlers/admin"
	auth_handlers "github.com/sahilchouksey/edupool/handlers/auth"
	college_handlers "github.com/sahilchouksey/edupool/handlers/college"
	course_handlers "github.com/sahilchouksey/edupool/handlers/course"
	home_handlers "github.com/sahilchouksey/edupool/handlers/home"
	university_handlers "github.com/sahilchouksey/edupool/handlers/university"
	"github.com/sahilchouksey/edupool/services"
	"github.com/sahilchouksey/edupool/services/storage"
	"github.com/sahilchouksey/edupool/utils"
	"github.com/sahilchouksey/edupool/utils/auth"
	"github.com/sahilchouksey/edupool/utils/cache"
	"github.com/sahilchouksey/edupool/utils/middleware"
	"github.com/sahilchouksey/edupool/utils/upload"
)

// Dependencies are the shared resources the routes are built from
type Dependencies struct {
	Store      database.Storage
	Sessions   *session.Store
	JWT        *auth.JWTManager
	Redis      *cache.RedisCache // nil disables brute force protection and the stats cache
	Uploader   *upload.Uploader
	Activity   *utils.ActivityLogger
	Audit      *services.AuditService
	CookieSafe bool
}

func SetupRoutes(app *fiber.App, deps Dependencies) {
	db := deps.Store.GetDB()

	// Brute force protection needs Redis counters
	var userBruteForce, adminBruteForce *middleware.BruteForceProtection
	if deps.Redis != nil {
		userBruteForce = middleware.NewBruteForceProtection(deps.Redis, "login")
		adminBruteForce = middleware.NewBruteForceProtection(deps.Redis, "admin_login")
	} else {
		log.Println("Warning: Redis unavailable. Brute force protection is disabled.")
	}

	var statsCache services.StatsCache
	if deps.Redis != nil {
		statsCache = deps.Redis
	}

	// Services
	universityService := services.NewUniversityService(db, deps.Uploader)
	collegeService := services.NewCollegeService(db, deps.Uploader)
	courseService := services.NewCourseService(db)
	collegeCourseService := services.NewCollegeCourseService(db)
	syllabusService := services.NewSyllabusService(db)
	userService := services.NewUserService(db, deps.Uploader)
	adminService := services.NewAdminService(db)
	homeService := services.NewHomeService(db, statsCache)
	exportService := services.NewExportService(universityService, collegeService, courseService, collegeCourseService)

	authMiddleware := middleware.NewAuthMiddleware(deps.Sessions, deps.JWT, userService, deps.CookieSafe)

	// Handlers
	homeHandler := home_handlers.NewHomeHandler(homeService)
	universityHandler := university_handlers.NewUniversityHandler(universityService)
	collegeHandler := college_handlers.NewCollegeHandler(collegeService, universityService)
	courseHandler := course_handlers.NewCourseHandler(courseService)
	authHandler := auth_handlers.NewAuthHandler(userService, authMiddleware, deps.Uploader, userBruteForce, deps.Activity)

	adminAuthHandler := admin_handlers.NewAdminAuthHandler(adminService, authMiddleware, adminBruteForce, deps.Activity)
	dashboardHandler := admin_handlers.NewDashboardHandler(homeService)
	universityAdmin := admin_handlers.NewUniversityAdminHandler(universityService, deps.Uploader)
	collegeAdmin := admin_handlers.NewCollegeAdminHandler(collegeService, universityService, deps.Uploader)
	courseAdmin := admin_handlers.NewCourseAdminHandler(courseService, universityService)
	collegeCourseAdmin := admin_handlers.NewCollegeCourseAdminHandler(collegeCourseService, collegeService, courseService)
	syllabusAdmin := admin_handlers.NewSyllabusAdminHandler(syllabusService)
	userAdmin := admin_handlers.NewUserAdminHandler(userService)
	auditHandler := admin_handlers.NewAuditHandler(deps.Audit)
	exportHandler := admin_handlers.NewExportHandler(exportService)

	// Health
	app.Get("/ping", handlers.HandleCheckHealth(deps.Store))

	// Uploaded images on the local backend
	if local, ok := deps.Uploader.Store().(*storage.LocalStore); ok {
		app.Static("/uploads", local.Dir(), fiber.Static{MaxAge: 86400})
	}

	app.Use(authMiddleware.LoadPrincipal())

	// Public pages
	app.Get("/", homeHandler.Home)
	app.Get("/universities", universityHandler.ListUniversities)
	app.Get("/universities/:id", universityHandler.GetUniversity)
	app.Get("/colleges", collegeHandler.ListColleges)
	app.Get("/colleges/:id", collegeHandler.GetCollege)
	app.Get("/courses", courseHandler.ListCourses)
	app.Get("/courses/:id", courseHandler.GetCourse)

	// Student accounts
	guest := authMiddleware.RedirectIfLoggedIn("/")
	app.Get("/login", guest, authHandler.LoginPage)
	app.Post("/login", guest, authHandler.Login)
	app.Get("/register", guest, authHandler.RegisterPage)
	app.Post("/register", guest, authHandler.Register)
	app.Get("/logout", authHandler.Logout)

	// Admin sign-in stays outside the guarded group, so it must be registered first
	adminGuest := authMiddleware.RedirectIfAdmin("/admin")
	app.Get("/admin/login", adminGuest, adminAuthHandler.LoginPage)
	app.Post("/admin/login", adminGuest, adminAuthHandler.Login)
	app.Get("/admin/logout", adminAuthHandler.Logout)

	admin := app.Group("/admin",
		authMiddleware.RequireAdmin(),
		middleware.AdminAuditLog(deps.Audit, deps.Activity, homeService.Invalidate),
	)
	admin.Get("/", dashboardHandler.Dashboard)
	admin.Get("/universities", universityAdmin.ManageUniversities)
	admin.Post("/universities", universityAdmin.PostUniversities)
	admin.Get("/colleges", collegeAdmin.ManageColleges)
	admin.Post("/colleges", collegeAdmin.PostColleges)
	admin.Get("/courses", courseAdmin.ManageCourses)
	admin.Post("/courses", courseAdmin.PostCourses)
	admin.Get("/college-courses", collegeCourseAdmin.ManageCollegeCourses)
	admin.Post("/college-courses", collegeCourseAdmin.PostCollegeCourses)
	admin.Get("/syllabus", syllabusAdmin.ManageSyllabus)
	admin.Post("/syllabus", syllabusAdmin.PostSyllabus)
	admin.Get("/users", userAdmin.ListUsers)
	admin.Post("/users", userAdmin.PostUsers)
	admin.Get("/audit", auditHandler.ListAuditLogs)
	admin.Get("/export", exportHandler.ExportCatalog)

	app.Use(func(c *fiber.Ctx) error {
		return fiber.ErrNotFound
	})
}
