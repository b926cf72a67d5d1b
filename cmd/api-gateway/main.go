package main

import (
	"context"
	"fmt"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"github.com/go-playground/validator/v10"

	_ "github.com/prepatef/prepatef-api/api/swagger"
	"github.com/prepatef/prepatef-api/internal/clients/scoring"
	"github.com/prepatef/prepatef-api/internal/handler"
	"github.com/prepatef/prepatef-api/internal/middleware"
	"github.com/prepatef/prepatef-api/internal/repository"
	"github.com/prepatef/prepatef-api/internal/service"
	"github.com/prepatef/prepatef-api/pkg/cache"
	"github.com/prepatef/prepatef-api/pkg/config"
	"github.com/prepatef/prepatef-api/pkg/database"
	"github.com/prepatef/prepatef-api/pkg/export"
	"github.com/prepatef/prepatef-api/pkg/logger"
	corsmiddleware "github.com/prepatef/prepatef-api/pkg/middleware/cors"
	reqidmiddleware "github.com/prepatef/prepatef-api/pkg/middleware/requestid"
	"github.com/prepatef/prepatef-api/pkg/storage"
)

// @title PrepaTEF API
// @version 1.0.0
// @description Website and back-office API for the PrepaTEF test preparation platform
// @BasePath /api/v1
// @schemes http

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logr, err := logger.New(cfg)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logr.Sync() //nolint:errcheck

	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	db, err := database.NewPostgres(cfg.Database)
	if err != nil {
		logr.Sugar().Fatalw("failed to connect to postgres", "error", err)
	}
	defer db.Close()

	redisClient, err := cache.NewRedis(cfg.Redis)
	if err != nil {
		logr.Sugar().Warnw("redis unavailable, catalog caching disabled", "error", err)
		redisClient = nil
	}

	mediaStore, err := storage.NewLocalStorage(cfg.Media.StorageDir)
	if err != nil {
		logr.Sugar().Fatalw("failed to init media storage", "error", err)
	}
	signer := storage.NewSignedURLSigner(cfg.Media.SignedURLSecret, cfg.Media.SignedURLTTL)

	validate := validator.New()

	userRepo := repository.NewUserRepository(db)
	blogRepo := repository.NewBlogPostRepository(db)
	categoryRepo := repository.NewCategoryRepository(db)
	tagRepo := repository.NewTagRepository(db)
	speakingRepo := repository.NewSpeakingPromptRepository(db)
	writingRepo := repository.NewWritingPromptRepository(db)
	readingRepo := repository.NewReadingPassageRepository(db)
	listeningRepo := repository.NewListeningAudioRepository(db)
	contactRepo := repository.NewContactLeadRepository(db)
	demoRepo := repository.NewDemoLeadRepository(db)
	slotRepo := repository.NewTimeSlotRepository(db)
	studentRepo := repository.NewStudentRepository(db)
	teacherRepo := repository.NewTeacherRepository(db)
	enrollmentRepo := repository.NewEnrollmentRepository(db)
	cacheRepo := repository.NewCacheRepository(redisClient, logr)

	metricsSvc := service.NewMetricsService()
	cacheSvc := service.NewCacheService(cacheRepo, metricsSvc, cfg.Catalog.CacheTTL, logr)
	notificationSvc := service.NewNotificationService(cfg.Notifications, logr)
	scoringClient := scoring.NewClient(cfg.Scoring, logr)

	authSvc := service.NewAuthService(userRepo, cfg.JWT, validate, logr)
	blogSvc := service.NewBlogService(blogRepo, cacheSvc, validate, logr)
	taxonomySvc := service.NewTaxonomyService(categoryRepo, tagRepo, blogRepo, cacheSvc, validate, logr)
	speakingSvc := service.NewSpeakingPromptService(speakingRepo, cacheSvc, validate, logr)
	writingSvc := service.NewWritingPromptService(writingRepo, cacheSvc, validate, logr)
	readingSvc := service.NewReadingPassageService(readingRepo, cacheSvc, validate, logr)
	listeningSvc := service.NewListeningAudioService(listeningRepo, mediaStore, signer, cacheSvc, cfg.Media, validate, logr)
	gradingSvc := service.NewGradingService(readingRepo, listeningRepo, validate, logr)
	assessmentSvc := service.NewAssessmentService(speakingRepo, writingRepo, listeningRepo, scoringClient, metricsSvc, validate, logr)
	leadSvc := service.NewLeadService(contactRepo, demoRepo, slotRepo, notificationSvc, metricsSvc, validate, logr)
	slotSvc := service.NewTimeSlotService(slotRepo, validate, logr)
	studentSvc := service.NewStudentService(studentRepo, validate, logr)
	teacherSvc := service.NewTeacherService(teacherRepo, validate, logr)
	enrollmentSvc := service.NewEnrollmentService(enrollmentRepo, studentRepo, notificationSvc, metricsSvc, validate, logr)
	sessionSvc := service.NewClassSessionService(repository.NewClassSessionRepository(db), teacherRepo, validate, logr)
	exportSvc := service.NewExportService(contactRepo, demoRepo, enrollmentRepo, cfg.Exports, logr, export.NewCSVExporter(), export.NewPDFExporter())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	notificationSvc.Start(ctx)
	defer notificationSvc.Stop()

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))
	r.Use(middleware.Metrics(metricsSvc))

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	r.GET("/ready", func(c *gin.Context) {
		if err := db.PingContext(c.Request.Context()); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unready"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ready"})
	})

	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	handler.Register(r, cfg.APIPrefix, handler.Handlers{
		Auth:         handler.NewAuthHandler(authSvc),
		Blog:         handler.NewBlogHandler(blogSvc),
		Taxonomy:     handler.NewTaxonomyHandler(taxonomySvc),
		Speaking:     handler.NewSpeakingPromptHandler(speakingSvc, assessmentSvc),
		Writing:      handler.NewWritingPromptHandler(writingSvc, assessmentSvc),
		Reading:      handler.NewReadingPassageHandler(readingSvc, gradingSvc),
		Listening:    handler.NewListeningAudioHandler(listeningSvc, gradingSvc, assessmentSvc),
		Media:        handler.NewMediaHandler(listeningSvc),
		Lead:         handler.NewLeadHandler(leadSvc),
		TimeSlot:     handler.NewTimeSlotHandler(slotSvc),
		Student:      handler.NewStudentHandler(studentSvc),
		Teacher:      handler.NewTeacherHandler(teacherSvc),
		Enrollment:   handler.NewEnrollmentHandler(enrollmentSvc),
		ClassSession: handler.NewClassSessionHandler(sessionSvc),
		Export:       handler.NewExportHandler(exportSvc),
	}, authSvc, metricsSvc)

	addr := fmt.Sprintf(":%d", cfg.Port)
	logr.Sugar().Infow("server starting", "addr", addr, "env", cfg.Env)
	if err := r.Run(addr); err != nil {
		logr.Sugar().Fatalw("server failed", "error", err)
	}
}
