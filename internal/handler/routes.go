package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/prepatef/prepatef-api/internal/middleware"
	"github.com/prepatef/prepatef-api/internal/models"
	"github.com/prepatef/prepatef-api/internal/service"
)

// Handlers groups every HTTP handler for route registration.
type Handlers struct {
	Auth         *AuthHandler
	Blog         *BlogHandler
	Taxonomy     *TaxonomyHandler
	Speaking     *SpeakingPromptHandler
	Writing      *WritingPromptHandler
	Reading      *ReadingPassageHandler
	Listening    *ListeningAudioHandler
	Media        *MediaHandler
	Lead         *LeadHandler
	TimeSlot     *TimeSlotHandler
	Student      *StudentHandler
	Teacher      *TeacherHandler
	Enrollment   *EnrollmentHandler
	ClassSession *ClassSessionHandler
	Export       *ExportHandler
}

// Register wires all routes under the configured API prefix. Public routes
// serve the website; /admin routes require a JWT plus an admin role, except
// class session reporting which teachers may also use.
func Register(r *gin.Engine, apiPrefix string, h Handlers, authService *service.AuthService, metricsService *service.MetricsService) {
	api := r.Group(apiPrefix)

	api.POST("/auth/login", h.Auth.Login)
	api.GET("/auth/me", middleware.JWT(authService), h.Auth.Me)

	blog := api.Group("/blog")
	{
		blog.GET("/posts", h.Blog.PublicList)
		blog.GET("/posts/:slug", h.Blog.PublicGet)
		blog.POST("/posts/:slug/comments", h.Blog.AddComment)
		blog.GET("/categories", h.Taxonomy.ListCategories)
		blog.GET("/tags", h.Taxonomy.ListTags)
	}

	practice := api.Group("/practice")
	{
		practice.GET("/speaking", h.Speaking.PublicList)
		practice.GET("/speaking/:id", h.Speaking.PublicGet)
		practice.POST("/speaking/:id/assess", h.Speaking.Assess)

		practice.GET("/writing", h.Writing.PublicList)
		practice.GET("/writing/:id", h.Writing.PublicGet)
		practice.POST("/writing/:id/assess", h.Writing.Assess)

		practice.GET("/reading", h.Reading.PublicList)
		practice.GET("/reading/:id", h.Reading.PublicGet)
		practice.POST("/reading/:id/grade", h.Reading.Grade)

		practice.GET("/listening", h.Listening.PublicList)
		practice.GET("/listening/:id", h.Listening.PublicGet)
		practice.POST("/listening/:id/grade", h.Listening.Grade)
		practice.POST("/listening/:id/assess", h.Listening.Assess)
	}

	api.GET("/media/audio/:token", h.Media.ServeAudio)

	leads := api.Group("/leads")
	{
		leads.POST("/contact", h.Lead.CreateContact)
		leads.POST("/demo", h.Lead.CreateDemo)
		leads.GET("/slots", h.TimeSlot.PublicList)
	}

	api.POST("/enrollments", h.Enrollment.Enroll)

	admin := api.Group("/admin")
	admin.Use(middleware.JWT(authService))

	sessions := admin.Group("/sessions")
	sessions.Use(middleware.RequireRoles(models.RoleAdmin, models.RoleTeacher))
	{
		sessions.GET("", h.ClassSession.List)
		sessions.GET("/:id", h.ClassSession.Get)
		sessions.POST("", h.ClassSession.Create)
		sessions.PUT("/:id", h.ClassSession.Update)
		sessions.DELETE("/:id", h.ClassSession.Delete)
	}
	admin.PATCH("/sessions/:id/review", middleware.RequireRoles(models.RoleAdmin), h.ClassSession.Review)

	adminOnly := admin.Group("")
	adminOnly.Use(middleware.RequireRoles(models.RoleAdmin))
	{
		adminOnly.GET("/blog/posts", h.Blog.List)
		adminOnly.GET("/blog/posts/:id", h.Blog.Get)
		adminOnly.POST("/blog/posts", h.Blog.Create)
		adminOnly.PUT("/blog/posts/:id", h.Blog.Update)
		adminOnly.DELETE("/blog/posts/:id", h.Blog.Delete)

		adminOnly.POST("/blog/categories", h.Taxonomy.CreateCategory)
		adminOnly.PUT("/blog/categories/:id", h.Taxonomy.UpdateCategory)
		adminOnly.DELETE("/blog/categories/:id", h.Taxonomy.DeleteCategory)
		adminOnly.POST("/blog/tags", h.Taxonomy.CreateTag)
		adminOnly.PUT("/blog/tags/:id", h.Taxonomy.UpdateTag)
		adminOnly.DELETE("/blog/tags/:id", h.Taxonomy.DeleteTag)

		adminOnly.GET("/practice/speaking", h.Speaking.List)
		adminOnly.GET("/practice/speaking/:id", h.Speaking.Get)
		adminOnly.POST("/practice/speaking", h.Speaking.Create)
		adminOnly.PUT("/practice/speaking/:id", h.Speaking.Update)
		adminOnly.DELETE("/practice/speaking/:id", h.Speaking.Delete)

		adminOnly.GET("/practice/writing", h.Writing.List)
		adminOnly.GET("/practice/writing/:id", h.Writing.Get)
		adminOnly.POST("/practice/writing", h.Writing.Create)
		adminOnly.PUT("/practice/writing/:id", h.Writing.Update)
		adminOnly.DELETE("/practice/writing/:id", h.Writing.Delete)

		adminOnly.GET("/practice/reading", h.Reading.List)
		adminOnly.GET("/practice/reading/:id", h.Reading.Get)
		adminOnly.POST("/practice/reading", h.Reading.Create)
		adminOnly.PUT("/practice/reading/:id", h.Reading.Update)
		adminOnly.DELETE("/practice/reading/:id", h.Reading.Delete)

		adminOnly.GET("/practice/listening", h.Listening.List)
		adminOnly.GET("/practice/listening/:id", h.Listening.Get)
		adminOnly.POST("/practice/listening", h.Listening.Create)
		adminOnly.PUT("/practice/listening/:id", h.Listening.Update)
		adminOnly.POST("/practice/listening/:id/audio", h.Listening.UploadAudio)
		adminOnly.DELETE("/practice/listening/:id", h.Listening.Delete)

		adminOnly.GET("/leads/contact", h.Lead.ListContacts)
		adminOnly.PATCH("/leads/contact/:id/status", h.Lead.UpdateContactStatus)
		adminOnly.DELETE("/leads/contact/:id", h.Lead.DeleteContact)
		adminOnly.GET("/leads/demo", h.Lead.ListDemos)
		adminOnly.PATCH("/leads/demo/:id/status", h.Lead.UpdateDemoStatus)
		adminOnly.DELETE("/leads/demo/:id", h.Lead.DeleteDemo)

		adminOnly.GET("/slots", h.TimeSlot.List)
		adminOnly.GET("/slots/:id", h.TimeSlot.Get)
		adminOnly.POST("/slots", h.TimeSlot.Create)
		adminOnly.PUT("/slots/:id", h.TimeSlot.Update)
		adminOnly.DELETE("/slots/:id", h.TimeSlot.Delete)

		adminOnly.GET("/students", h.Student.List)
		adminOnly.GET("/students/:id", h.Student.Get)
		adminOnly.POST("/students", h.Student.Create)
		adminOnly.PUT("/students/:id", h.Student.Update)
		adminOnly.DELETE("/students/:id", h.Student.Deactivate)

		adminOnly.GET("/teachers", h.Teacher.List)
		adminOnly.GET("/teachers/:id", h.Teacher.Get)
		adminOnly.POST("/teachers", h.Teacher.Create)
		adminOnly.PUT("/teachers/:id", h.Teacher.Update)
		adminOnly.DELETE("/teachers/:id", h.Teacher.Delete)

		adminOnly.GET("/enrollments", h.Enrollment.List)
		adminOnly.GET("/enrollments/:id", h.Enrollment.Get)
		adminOnly.PATCH("/enrollments/:id/status", h.Enrollment.UpdateStatus)

		adminOnly.GET("/exports/:kind", h.Export.Download)
	}

	r.GET("/metrics", gin.WrapH(metricsService.Handler()))
}
