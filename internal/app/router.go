package app

import (
	"course_hub_backend/docs"
	"course_hub_backend/internal/config"
	"course_hub_backend/internal/middleware"
	"course_hub_backend/internal/model"
	"course_hub_backend/pkg/monitoring"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

func (a *App) registerRoutes(router *gin.Engine, c *controllers, repos *repositories, cfg *config.Config) {
	docs.SwaggerInfo.BasePath = "/api"
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler, ginSwagger.URL("/swagger/doc.json")))

	router.GET("/metrics", monitoring.PrometheusHandler())

	// 公共路由(无需登录)
	public := router.Group("/api")
	{
		public.GET("/health", c.health.HealthCheck)
		public.POST("/register", c.auth.Register)
		public.POST("/login", c.auth.Login)
	}

	// 需要授权的路由
	authGroup := router.Group("/api")
	authGroup.Use(middleware.AuthMiddleware(cfg), middleware.ActivityMiddleware(repos.user))
	{
		authGroup.GET("/profile", c.auth.GetProfile)
		authGroup.PUT("/user/profile", c.user.UpdateProfile)
		authGroup.POST("/user/avatar/upload", c.user.UploadAvatar)

		// 课程内容只读
		authGroup.GET("/courses", c.course.GetAllCourses)
		authGroup.GET("/courses/:id", c.course.GetCourseDetails)

		// 报名与进度（学生）
		authGroup.POST("/enrollments", c.enrollment.CreateEnrollment)
		authGroup.GET("/enrollments", c.enrollment.GetMyEnrollments)
		authGroup.GET("/enrollments/:id", c.enrollment.GetEnrollment)
		authGroup.PUT("/enrollments/:id/progress", c.enrollment.UpdateProgress)

		// 教师相关接口：内容维护与本课程的报名列表
		teacher := authGroup.Group("/teacher")
		teacher.Use(middleware.RoleMiddleware(model.Teacher))
		{
			teacher.POST("/courses", c.course.CreateCourse)
			teacher.PUT("/courses/:id", c.course.UpdateCourse)
			teacher.POST("/courses/:id/cover", c.course.UploadCover)
			teacher.POST("/courses/:id/sections", c.course.AddSection)
			teacher.POST("/courses/:id/sections/:sectionId/lectures", c.course.AddLecture)
			teacher.DELETE("/courses/:id/sections/:sectionId", c.course.DeleteSection)
			teacher.DELETE("/courses/:id/sections/:sectionId/lectures/:lectureId", c.course.DeleteLecture)
			teacher.GET("/courses/:id/enrollments", c.enrollment.GetCourseEnrollments)

			teacher.POST("/media/videos", c.course.UploadLectureVideo)
			teacher.POST("/media/pdfs", c.course.UploadLecturePDF)
		}
	}
}
