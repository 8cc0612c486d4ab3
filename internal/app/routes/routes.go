package routes

import (
	"github.com/gin-gonic/gin"

	appAuth "github.com/undergraduation/ugadmin/internal/app/auth"
	"github.com/undergraduation/ugadmin/internal/app/controllers"
	"github.com/undergraduation/ugadmin/internal/middleware"
)

// SetupRouter configures all application routes
func SetupRouter(
	router *gin.Engine,
	studentController *controllers.StudentController,
	searchController *controllers.SearchController,
	bulkController *controllers.BulkController,
	fileController *controllers.FileController,
	notificationController *controllers.NotificationController,
	auditController *controllers.AuditController,
	userController *controllers.UserController,
	healthController *controllers.HealthController,
	authMiddleware *middleware.AuthMiddleware,
) {
	// API version group
	v1 := router.Group("/api/v1")

	// Health probes (public)
	health := v1.Group("/health")
	{
		health.GET("/liveness", healthController.Liveness)
		health.GET("/readiness", healthController.Readiness)
	}

	// --- Authenticated Routes Group ---
	authenticated := v1.Group("")
	authenticated.Use(authMiddleware.JWTAuth())

	students := authenticated.Group("/students")
	{
		students.GET("", studentController.ListStudents)
		students.POST("", studentController.CreateStudent)
		students.GET("/:id", studentController.GetStudent)

		// Admin-only mutations
		students.PUT("/:id",
			authMiddleware.Authorize(appAuth.OpUpdateStudent), studentController.UpdateStudent)
		students.DELETE("/:id",
			authMiddleware.Authorize(appAuth.OpDeleteStudent), studentController.DeleteStudent)
	}

	search := authenticated.Group("/search")
	{
		search.POST("/students", searchController.Search)
		search.GET("/suggestions", searchController.Suggestions)
		search.GET("/facets", searchController.Facets)
	}

	bulk := authenticated.Group("/bulk")
	{
		bulk.POST("/import",
			authMiddleware.Authorize(appAuth.OpBulkImport), bulkController.Import)
		bulk.GET("/export", bulkController.Export)
	}

	files := authenticated.Group("/files")
	{
		files.POST("/students/:id/upload", fileController.Upload)
		files.GET("/students/:id", fileController.ListByStudent)
		files.GET("/storage/statistics", fileController.Statistics)
		files.GET("/:id", fileController.Get)
		files.DELETE("/:id", fileController.Delete)
	}

	notifications := authenticated.Group("/notifications")
	{
		notifications.POST("/send", notificationController.Send)
		notifications.POST("/send-to-student", notificationController.SendToStudent)
		notifications.POST("/send-bulk", notificationController.SendBulk)
		notifications.GET("/logs", notificationController.Logs)
	}

	authenticated.GET("/audit-logs", auditController.List)

	users := authenticated.Group("/users")
	{
		users.GET("/me", userController.Me)
		users.PUT("/:id/role",
			authMiddleware.Authorize(appAuth.OpChangeRole), userController.ChangeRole)
	}
}
