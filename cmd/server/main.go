package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "github.com/noah-isme/university-api/api/swagger"
	"github.com/noah-isme/university-api/internal/handler"
	"github.com/noah-isme/university-api/internal/middleware"
	"github.com/noah-isme/university-api/internal/models"
	"github.com/noah-isme/university-api/internal/repository"
	"github.com/noah-isme/university-api/internal/service"
	"github.com/noah-isme/university-api/pkg/cache"
	"github.com/noah-isme/university-api/pkg/config"
	"github.com/noah-isme/university-api/pkg/database"
	"github.com/noah-isme/university-api/pkg/logger"
	corsmiddleware "github.com/noah-isme/university-api/pkg/middleware/cors"
	reqidmiddleware "github.com/noah-isme/university-api/pkg/middleware/requestid"
)

// @title University API
// @version 1.0.0
// @description University management service: students, faculty, courses, enrollment and grading
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

	db, err := database.NewPostgres(cfg.Database)
	if err != nil {
		logr.Sugar().Fatalw("failed to connect to postgres", "error", err)
	}
	defer db.Close()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := repository.Migrate(ctx, db); err != nil {
		logr.Sugar().Fatalw("failed to apply schema", "error", err)
	}

	if cfg.Seed.Enabled {
		if err := repository.Seed(ctx, db, logr); err != nil {
			logr.Sugar().Fatalw("failed to seed data", "error", err)
		}
	}

	// Redis is optional; statistics fall back to the database when it is down.
	redisClient, err := cache.NewRedis(cfg.Redis)
	if err != nil {
		logr.Sugar().Warnw("redis unavailable, statistics caching disabled", "error", err)
		redisClient = nil
	}

	validate := validator.New()

	userRepo := repository.NewUserRepository(db)
	studentRepo := repository.NewStudentRepository(db)
	courseRepo := repository.NewCourseRepository(db)
	facultyRepo := repository.NewFacultyRepository(db)
	enrollmentRepo := repository.NewEnrollmentRepository(db)
	cacheRepo := repository.NewCacheRepository(redisClient, logr)

	authService := service.NewAuthService(userRepo, validate, logr, service.AuthConfig{
		AccessTokenSecret:  cfg.JWT.Secret,
		AccessTokenExpiry:  cfg.JWT.Expiration,
		RefreshTokenExpiry: cfg.JWT.RefreshExpiration,
		Issuer:             cfg.JWT.Issuer,
	})
	userService := service.NewUserService(userRepo, validate, logr)
	studentService := service.NewStudentService(studentRepo, enrollmentRepo, validate, logr)
	courseService := service.NewCourseService(courseRepo, cacheRepo, cfg.Statistics.CacheTTL, validate, logr)
	facultyService := service.NewFacultyService(facultyRepo, courseRepo, validate, logr)
	enrollmentService := service.NewEnrollmentService(studentRepo, courseRepo, enrollmentRepo, validate, logr)
	reportService := service.NewReportService(studentService, courseService, service.ReportConfig{
		WorkerConcurrency: cfg.Reports.WorkerConcurrency,
		WorkerRetries:     cfg.Reports.WorkerRetries,
		ResultTTL:         cfg.Reports.ResultTTL,
	}, logr)
	metricsService := service.NewMetricsService()

	reportService.Start(ctx)
	defer reportService.Stop()

	authHandler := handler.NewAuthHandler(authService)
	userHandler := handler.NewUserHandler(userService)
	studentHandler := handler.NewStudentHandler(studentService)
	courseHandler := handler.NewCourseHandler(courseService, reportService)
	facultyHandler := handler.NewFacultyHandler(facultyService)
	enrollmentHandler := handler.NewEnrollmentHandler(enrollmentService)
	reportHandler := handler.NewReportHandler(reportService)
	metricsHandler := handler.NewMetricsHandler(metricsService)

	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))
	r.Use(middleware.Metrics(metricsService))

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	r.GET("/ready", func(c *gin.Context) {
		if err := db.PingContext(c.Request.Context()); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ready"})
	})

	r.GET("/metrics", gin.WrapH(metricsService.Handler()))

	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	api := r.Group(cfg.APIPrefix)

	auth := api.Group("/auth")
	{
		auth.POST("/login", authHandler.Login)
		auth.POST("/refresh", authHandler.Refresh)
		if cfg.Registration.Enabled {
			auth.POST("/register", userHandler.Register)
		}

		authed := auth.Group("", middleware.JWT(authService))
		authed.POST("/logout", authHandler.Logout)
		authed.POST("/change-password", authHandler.ChangePassword)
		authed.GET("/me", authHandler.Me)
	}

	protected := api.Group("", middleware.JWT(authService))

	users := protected.Group("/users", middleware.RequireCapability(models.CapManageUsers))
	{
		users.GET("", userHandler.List)
		users.POST("", userHandler.Create)
		users.GET("/:username", userHandler.Get)
		users.PUT("/:username", userHandler.Update)
		users.DELETE("/:username", userHandler.Delete)
	}

	students := protected.Group("/students")
	{
		students.GET("", middleware.RequireCapability(models.CapManageStudents), studentHandler.List)
		students.POST("", middleware.RequireCapability(models.CapManageStudents), studentHandler.Create)
		students.GET("/:id", middleware.RequireCapabilityOrSelf(models.CapManageStudents, "id"), studentHandler.Get)
		students.PUT("/:id", middleware.RequireCapability(models.CapManageStudents), studentHandler.Update)
		students.PATCH("/:id/status", middleware.RequireCapability(models.CapManageStudents), studentHandler.UpdateStatus)
		students.DELETE("/:id", middleware.RequireCapability(models.CapManageStudents), studentHandler.Delete)
		students.GET("/:id/record", middleware.RequireCapabilityOrSelf(models.CapManageStudents, "id"), studentHandler.GetRecord)
		students.GET("/:id/standing", middleware.RequireCapabilityOrSelf(models.CapManageStudents, "id"), studentHandler.Standing)
		students.GET("/:id/transcript", middleware.RequireCapabilityOrSelf(models.CapManageStudents, "id"), studentHandler.Transcript)

		students.POST("/:id/enrollments/:course_id", middleware.RequireCapabilityOrSelf(models.CapManageEnrollment, "id"), enrollmentHandler.Enroll)
		students.DELETE("/:id/enrollments/:course_id", middleware.RequireCapabilityOrSelf(models.CapManageEnrollment, "id"), enrollmentHandler.Drop)
		students.PUT("/:id/grades/:course_id", middleware.RequireCapability(models.CapAssignGrades), enrollmentHandler.AssignGrade)
	}

	courses := protected.Group("/courses")
	{
		courses.GET("", courseHandler.List)
		courses.GET("/statistics", courseHandler.Statistics)
		courses.GET("/:id", courseHandler.Get)
		courses.GET("/:id/roster", middleware.RequireCapability(models.CapManageCourses), courseHandler.Roster)
		courses.GET("/:id/roster/export", middleware.RequireCapability(models.CapViewReports), courseHandler.ExportRoster)
		courses.POST("", middleware.RequireCapability(models.CapManageCourses), courseHandler.Create)
		courses.PUT("/:id", middleware.RequireCapability(models.CapManageCourses), courseHandler.Update)
		courses.PATCH("/:id/status", middleware.RequireCapability(models.CapManageCourses), courseHandler.UpdateStatus)
		courses.PATCH("/:id/capacity", middleware.RequireCapability(models.CapManageCourses), courseHandler.UpdateCapacity)
		courses.DELETE("/:id", middleware.RequireCapability(models.CapManageCourses), courseHandler.Delete)
	}

	faculty := protected.Group("/faculty", middleware.RequireCapability(models.CapManageFaculty))
	{
		faculty.GET("", facultyHandler.List)
		faculty.POST("", facultyHandler.Create)
		faculty.GET("/:id", facultyHandler.Get)
		faculty.PUT("/:id", facultyHandler.Update)
		faculty.DELETE("/:id", facultyHandler.Delete)
		faculty.GET("/:id/courses", facultyHandler.TeachingLoad)
		faculty.POST("/:id/courses/:course_id", facultyHandler.AssignCourse)
		faculty.DELETE("/:id/courses/:course_id", facultyHandler.RemoveCourse)
	}

	reports := protected.Group("/reports", middleware.RequireCapability(models.CapViewReports))
	{
		reports.POST("/transcripts", reportHandler.EnqueueTranscript)
		reports.GET("/transcripts/:id", reportHandler.GetJob)
		reports.GET("/transcripts/:id/download", reportHandler.Download)
	}

	protected.GET("/metrics/snapshot", middleware.RequireCapability(models.CapViewMetrics), metricsHandler.Snapshot)

	addr := fmt.Sprintf(":%d", cfg.Port)
	srv := &http.Server{Addr: addr, Handler: r}

	go func() {
		logr.Sugar().Infow("server starting", "addr", addr, "env", cfg.Env)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logr.Sugar().Fatalw("server failed", "error", err)
		}
	}()

	<-ctx.Done()
	logr.Sugar().Infow("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logr.Sugar().Errorw("graceful shutdown failed", "error", err)
	}
}
