package routes

import (
	"log"
	"net/http"

	"learnhub/handlers"
	"learnhub/middleware"
	"learnhub/models"
	"learnhub/services"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

func SetupRoutes(
	router *gin.Engine,
	authHandler *handlers.AuthHandler,
	courseHandler *handlers.CourseHandler,
	chapterHandler *handlers.ChapterHandler,
	lessonHandler *handlers.LessonHandler,
	testHandler *handlers.TestHandler,
	attemptHandler *handlers.AttemptHandler,
	enrollmentHandler *handlers.EnrollmentHandler,
	ratingHandler *handlers.RatingHandler,
	messageHandler *handlers.MessageHandler,
	dashboardHandler *handlers.DashboardHandler,
	hub *services.Hub,
	jwtSecret string,
	uploadDir string,
) {
	instructorOnly := middleware.RequireRole(models.RoleInstructor, models.RoleAdmin)
	adminOnly := middleware.RequireRole(models.RoleAdmin)

	api := router.Group("/api")
	{
		auth := api.Group("/auth")
		{
			auth.POST("/register", authHandler.Register)
			auth.POST("/verify", authHandler.VerifyOTP)
			auth.POST("/login", authHandler.Login)
		}

		protected := api.Group("/")
		protected.Use(middleware.AuthMiddleware(jwtSecret))
		{
			protected.GET("/auth/profile", authHandler.GetProfile)
			protected.GET("/users", authHandler.SearchUsers)

			courses := protected.Group("/courses")
			{
				courses.GET("", courseHandler.GetCourses)
				courses.GET("/:id", courseHandler.GetCourse)
				courses.POST("", instructorOnly, courseHandler.CreateCourse)
				courses.PUT("/:id", instructorOnly, courseHandler.UpdateCourse)
				courses.PATCH("/:id/publish", instructorOnly, courseHandler.TogglePublish)
				courses.DELETE("/:id", instructorOnly, courseHandler.DeleteCourse)

				courses.GET("/:id/chapters", chapterHandler.GetChapters)
				courses.POST("/:id/chapters", instructorOnly, chapterHandler.CreateChapter)
				courses.PUT("/:id/chapters/reorder", instructorOnly, chapterHandler.ReorderChapters)

				courses.GET("/:id/tests", testHandler.GetTests(handlers.ScopeCourse))
				courses.POST("/:id/tests", instructorOnly, testHandler.CreateTest(handlers.ScopeCourse))

				courses.POST("/:id/enroll", enrollmentHandler.Enroll)

				courses.GET("/:id/ratings", ratingHandler.GetCourseRatings)
				courses.POST("/:id/ratings", ratingHandler.RateCourse)
			}

			chapters := protected.Group("/chapters")
			{
				chapters.GET("/:id", chapterHandler.GetChapter)
				chapters.PUT("/:id", instructorOnly, chapterHandler.UpdateChapter)
				chapters.PATCH("/:id/publish", instructorOnly, chapterHandler.TogglePublish)
				chapters.DELETE("/:id", instructorOnly, chapterHandler.DeleteChapter)

				chapters.GET("/:id/lessons", lessonHandler.GetLessons)
				chapters.POST("/:id/lessons", instructorOnly, lessonHandler.CreateLesson)
				chapters.PUT("/:id/lessons/reorder", instructorOnly, lessonHandler.ReorderLessons)

				chapters.GET("/:id/tests", testHandler.GetTests(handlers.ScopeChapter))
				chapters.POST("/:id/tests", instructorOnly, testHandler.CreateTest(handlers.ScopeChapter))
			}

			lessons := protected.Group("/lessons")
			{
				lessons.GET("/:id", lessonHandler.GetLesson)
				lessons.PUT("/:id", instructorOnly, lessonHandler.UpdateLesson)
				lessons.PATCH("/:id/publish", instructorOnly, lessonHandler.TogglePublish)
				lessons.DELETE("/:id", instructorOnly, lessonHandler.DeleteLesson)
				lessons.POST("/:id/attachments", instructorOnly, lessonHandler.UploadAttachment)

				lessons.GET("/:id/tests", testHandler.GetTests(handlers.ScopeLesson))
				lessons.POST("/:id/tests", instructorOnly, testHandler.CreateTest(handlers.ScopeLesson))
			}

			tests := protected.Group("/tests")
			{
				tests.GET("/:id", testHandler.GetTest)
				tests.PUT("/:id", instructorOnly, testHandler.UpdateTest)
				tests.PATCH("/:id/publish", instructorOnly, testHandler.TogglePublish)
				tests.DELETE("/:id", instructorOnly, testHandler.DeleteTest)

				tests.GET("/:id/questions", instructorOnly, testHandler.GetQuestions)
				tests.POST("/:id/questions", instructorOnly, testHandler.CreateQuestion)
				tests.PUT("/:id/questions/reorder", instructorOnly, testHandler.ReorderQuestions)

				tests.POST("/:id/attempt", attemptHandler.StartTest)
				tests.POST("/:id/submit", attemptHandler.SubmitTest)
				tests.GET("/:id/report", attemptHandler.GetTestReport)
			}

			questions := protected.Group("/questions")
			{
				questions.PUT("/:id", instructorOnly, testHandler.UpdateQuestion)
				questions.DELETE("/:id", instructorOnly, testHandler.DeleteQuestion)
			}

			protected.GET("/attempts/user", attemptHandler.GetUserTests)

			enrollments := protected.Group("/enrollments")
			{
				enrollments.GET("", enrollmentHandler.GetUserEnrollments)
				enrollments.PATCH("/:id/status", enrollmentHandler.UpdateStatus)
				enrollments.PATCH("/:id/progress", enrollmentHandler.UpdateProgress)
			}

			messages := protected.Group("/messages")
			{
				messages.POST("", messageHandler.SendMessage)
				messages.POST("/media", messageHandler.UploadMedia)
				messages.GET("/unread", messageHandler.UnreadCount)
				messages.PATCH("/:id/read", messageHandler.MarkAsRead)
				messages.DELETE("/:id", messageHandler.DeleteMessage)
			}

			conversations := protected.Group("/conversations")
			{
				conversations.GET("", messageHandler.GetConversations)
				conversations.GET("/:id", messageHandler.GetConversation)
				conversations.PATCH("/:id/read", messageHandler.MarkConversationRead)
			}

			protected.GET("/dashboard/stats", adminOnly, dashboardHandler.GetStats)
		}
	}

	// WebSocket endpoint for chat delivery. Browsers cannot set headers on
	// websocket handshakes, so the token rides in the query string.
	router.GET("/ws", func(c *gin.Context) {
		token := c.Query("token")
		claims, err := middleware.ParseToken(token, jwtSecret)
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid or expired token"})
			return
		}

		conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
		if err != nil {
			log.Printf("WebSocket upgrade failed for user %d: %v", claims.UserID, err)
			return
		}

		hub.RegisterClient(conn, claims.UserID)
	})

	router.Static("/uploads", uploadDir)

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
}
