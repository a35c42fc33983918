package main

import (
	"log"

	"learnhub/config"
	"learnhub/events"
	"learnhub/handlers"
	"learnhub/middleware"
	"learnhub/models"
	"learnhub/routes"
	"learnhub/services"
	"learnhub/storage"

	"github.com/gin-gonic/gin"
	_ "github.com/joho/godotenv/autoload"
)

func main() {
	cfg := config.Load()

	db, err := config.InitDB(cfg)
	if err != nil {
		log.Fatal("Failed to connect to database:", err)
	}

	err = db.AutoMigrate(
		&models.User{},
		&models.Course{},
		&models.Chapter{},
		&models.Lesson{},
		&models.Attachment{},
		&models.Test{},
		&models.Question{},
		&models.Option{},
		&models.TestAttempt{},
		&models.Enrollment{},
		&models.CourseRating{},
		&models.Message{},
	)
	if err != nil {
		log.Fatal("Failed to migrate database:", err)
	}

	redisClient := config.InitRedis(cfg)

	// Events are best effort; the API stays up without the broker.
	publisher, err := events.NewPublisher(cfg.AMQPURL, events.Exchange)
	if err != nil {
		log.Printf("Event publisher unavailable, continuing without it: %v", err)
		publisher = nil
	} else {
		defer publisher.Close()
	}

	store, err := storage.New(cfg.UploadDir)
	if err != nil {
		log.Fatal("Failed to prepare upload directory:", err)
	}

	authService := services.NewAuthService(db, redisClient, publisher, cfg.JWTSecret)
	courseService := services.NewCourseService(db)
	chapterService := services.NewChapterService(db)
	lessonService := services.NewLessonService(db)
	testService := services.NewTestService(db)
	attemptService := services.NewAttemptService(db, publisher)
	enrollmentService := services.NewEnrollmentService(db, publisher)
	ratingService := services.NewRatingService(db)
	messageService := services.NewMessageService(db, redisClient, publisher)
	dashboardService := services.NewDashboardService(db)

	hub := services.NewHub()
	go hub.Run()

	authHandler := handlers.NewAuthHandler(authService)
	courseHandler := handlers.NewCourseHandler(courseService)
	chapterHandler := handlers.NewChapterHandler(chapterService)
	lessonHandler := handlers.NewLessonHandler(lessonService, store)
	testHandler := handlers.NewTestHandler(testService)
	attemptHandler := handlers.NewAttemptHandler(attemptService)
	enrollmentHandler := handlers.NewEnrollmentHandler(enrollmentService)
	ratingHandler := handlers.NewRatingHandler(ratingService)
	messageHandler := handlers.NewMessageHandler(messageService, hub, store)
	dashboardHandler := handlers.NewDashboardHandler(dashboardService)

	router := gin.Default()
	router.Use(middleware.CORS())

	routes.SetupRoutes(
		router,
		authHandler,
		courseHandler,
		chapterHandler,
		lessonHandler,
		testHandler,
		attemptHandler,
		enrollmentHandler,
		ratingHandler,
		messageHandler,
		dashboardHandler,
		hub,
		cfg.JWTSecret,
		cfg.UploadDir,
	)

	addr := cfg.BindAddress + ":" + cfg.Port
	log.Printf("Server starting on %s", addr)
	if err := router.Run(addr); err != nil {
		log.Fatal("Failed to start server:", err)
	}
}
