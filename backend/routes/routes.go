package routes

import (
	"github.com/charmbracelet/log"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"university/backend/config"
	"university/backend/controllers"
	"university/backend/metrics"
	"university/backend/middleware"
	"university/backend/services"
	"university/backend/utils"
)

// NewApp builds a fiber app whose errors use the common response envelope.
func NewApp(logger *log.Logger) *fiber.App {
	return fiber.New(fiber.Config{
		AppName:      "University Management System",
		ErrorHandler: controllers.ErrorHandler(logger),
	})
}

func SetupRoutes(app *fiber.App, svc *services.Service, cfg *config.Config, logger *log.Logger, m *metrics.Metrics) {
	deps := controllers.Deps{Svc: svc, Cfg: cfg, Log: logger, Metrics: m}

	app.Use(recover.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins: cfg.CORSOrigins,
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
	}))
	app.Use(middleware.LoggingMiddleware(logger, m))

	limiter := middleware.NewRateLimiter(cfg.RateLimit, cfg.RateWindow, cfg.RateCapacity)
	api := app.Group("/api", middleware.RateLimitMiddleware(limiter, m))

	api.Get("/health", controllers.Health)
	api.Get("/metrics", adaptor.HTTPHandler(promhttp.HandlerFor(m.Registry, promhttp.HandlerOpts{})))

	// Middleware
	authMiddleware := middleware.AuthMiddleware(cfg)
	adminMiddleware := middleware.AdminMiddleware()
	studentMiddleware := middleware.StudentMiddleware()

	// Auth routes
	authController := controllers.NewAuthController(deps)
	auth := api.Group("/auth")
	auth.Post("/login", authController.Login)
	auth.Post("/self-register", authController.SelfRegister)
	auth.Post("/logout", authController.Logout)
	auth.Get("/me", authMiddleware, authController.Me)
	auth.Post("/register", authMiddleware, adminMiddleware, authController.Register)

	// Student routes
	studentsController := controllers.NewStudentsController(deps)
	students := api.Group("/students", authMiddleware)
	students.Get("/", adminMiddleware, studentsController.GetStudents)
	students.Get("/:id/enrollments", studentsController.GetStudentEnrollments)
	students.Get("/:id", adminMiddleware, studentsController.GetStudent)
	students.Put("/:id", adminMiddleware, studentsController.UpdateStudent)
	students.Delete("/:id", adminMiddleware, studentsController.DeleteStudent)

	// Course routes
	coursesController := controllers.NewCoursesController(deps)
	courses := api.Group("/courses", authMiddleware)
	courses.Get("/", coursesController.GetCourses)
	courses.Get("/:id/students", adminMiddleware, coursesController.GetCourseStudents)
	courses.Get("/:id", coursesController.GetCourse)
	courses.Post("/", adminMiddleware, coursesController.CreateCourse)
	courses.Put("/:id", adminMiddleware, coursesController.UpdateCourse)
	courses.Delete("/:id", adminMiddleware, coursesController.DeleteCourse)

	// Enrollment routes
	enrollmentsController := controllers.NewEnrollmentsController(deps)
	enrollments := api.Group("/enrollments", authMiddleware)
	enrollments.Get("/", adminMiddleware, enrollmentsController.GetEnrollments)
	enrollments.Get("/my-courses", studentMiddleware, enrollmentsController.MyCourses)
	enrollments.Post("/", enrollmentsController.Enroll)
	enrollments.Delete("/:id", enrollmentsController.Unenroll)
	enrollments.Put("/:id", adminMiddleware, enrollmentsController.UpdateEnrollment)

	// Payment routes
	paymentsController := controllers.NewPaymentsController(deps)
	payments := api.Group("/payments", authMiddleware)
	payments.Get("/", adminMiddleware, paymentsController.GetPayments)
	payments.Get("/my-payments", studentMiddleware, paymentsController.MyPayments)
	payments.Get("/my-fees", studentMiddleware, paymentsController.MyFees)
	payments.Post("/", paymentsController.MakePayment)
	payments.Get("/:id", paymentsController.GetPayment)
	payments.Put("/:id", adminMiddleware, paymentsController.UpdatePayment)

	// Analytics routes
	analyticsController := controllers.NewAnalyticsController(deps)
	analytics := api.Group("/analytics", authMiddleware, adminMiddleware)
	analytics.Get("/overview", analyticsController.GetOverview)
	analytics.Get("/revenue", analyticsController.GetRevenue)

	app.Use(func(c *fiber.Ctx) error {
		return utils.NotFound(c, "Route not found")
	})
}
