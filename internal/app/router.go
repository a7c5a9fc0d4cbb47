package app

import (
	"lms_backend/docs"
	"lms_backend/internal/config"
	"lms_backend/internal/middleware"
	"lms_backend/internal/model"
	"lms_backend/pkg/monitoring"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

func (a *App) registerRoutes(router *gin.Engine, c *controllers, cfg *config.Config) {
	docs.SwaggerInfo.BasePath = "/api"
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler, ginSwagger.URL("/swagger/doc.json")))

	router.GET("/metrics", monitoring.PrometheusHandler())

	api := router.Group("/api")

	// Public routes. The course catalog is browsable without an account.
	api.GET("/health", c.health.HealthCheck)
	api.POST("/register", c.auth.Register)
	api.POST("/login", c.auth.Login)
	api.GET("/courses", c.course.List)
	api.GET("/courses/:id", c.course.Get)

	// Everything below needs a valid token.
	auth := api.Group("")
	auth.Use(middleware.AuthMiddleware(cfg))
	{
		auth.GET("/profile", c.auth.Profile)

		auth.GET("/courses/:id/lessons", c.lesson.ListByCourse)
		auth.GET("/courses/:id/quizzes", c.quiz.ListByCourse)
		auth.GET("/lessons/:id", c.lesson.Get)
		auth.GET("/lessons/:id/quizzes", c.quiz.ListByLesson)
		auth.GET("/quizzes/:id", c.quiz.Get)

		// Student routes.
		auth.POST("/courses/:id/enroll", c.course.Enroll)
		auth.POST("/lessons/:id/complete", c.lesson.Complete)
		auth.POST("/quizzes/:id/submit", c.quiz.Submit)
		auth.GET("/progress", c.progress.My)
		auth.GET("/progress/courses/:courseId", c.progress.ByCourse)

		// Authoring routes. Admins pass the role check implicitly;
		// ownership is enforced per course in the services.
		instructor := auth.Group("")
		instructor.Use(middleware.RoleMiddleware(model.Instructor))
		{
			instructor.POST("/courses", c.course.Create)
			instructor.PATCH("/courses/:id", c.course.Update)
			instructor.DELETE("/courses/:id", c.course.Delete)
			instructor.POST("/courses/:id/thumbnail", c.course.UploadThumbnail)

			instructor.POST("/courses/:id/lessons", c.lesson.Create)
			instructor.PATCH("/lessons/:id", c.lesson.Update)
			instructor.DELETE("/lessons/:id", c.lesson.Delete)
			instructor.POST("/lessons/:id/resources", c.lesson.AddResource)

			instructor.POST("/courses/:id/quizzes", c.quiz.CreateForCourse)
			instructor.POST("/lessons/:id/quizzes", c.quiz.CreateForLesson)
			instructor.PATCH("/quizzes/:id", c.quiz.Update)
			instructor.DELETE("/quizzes/:id", c.quiz.Delete)

			instructor.GET("/progress/instructor/courses/:courseId", c.progress.CourseRoster)
		}
	}
}
