package main

import (
	"context"
	"fmt"
	"log"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "github.com/campus-suite/timetable-api/api/swagger"
	"github.com/campus-suite/timetable-api/internal/handler"
	"github.com/campus-suite/timetable-api/internal/middleware"
	"github.com/campus-suite/timetable-api/internal/repository"
	"github.com/campus-suite/timetable-api/internal/service"
	"github.com/campus-suite/timetable-api/internal/solver"
	"github.com/campus-suite/timetable-api/pkg/cache"
	"github.com/campus-suite/timetable-api/pkg/config"
	"github.com/campus-suite/timetable-api/pkg/database"
	"github.com/campus-suite/timetable-api/pkg/logger"
	corsmiddleware "github.com/campus-suite/timetable-api/pkg/middleware/cors"
	reqidmiddleware "github.com/campus-suite/timetable-api/pkg/middleware/requestid"
)

// @title Timetable API
// @version 0.1.0
// @description Weekly class-schedule configuration and generation service
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
	defer db.Close() //nolint:errcheck

	redisClient, err := cache.NewRedis(cfg.Redis)
	if err != nil {
		// The service degrades to uncached reads when redis is down.
		logr.Sugar().Warnw("redis unavailable, caching disabled", "error", err)
		redisClient = nil
	}

	validate := validator.New()

	batchRepo := repository.NewBatchRepository(db)
	subjectRepo := repository.NewSubjectRepository(db)
	teacherRepo := repository.NewTeacherRepository(db)
	classroomRepo := repository.NewClassroomRepository(db)
	assignmentRepo := repository.NewAssignmentRepository(db)
	configRepo := repository.NewScheduleConfigRepository(db)
	constraintRepo := repository.NewConstraintRepository(db)

	cacheSvc := service.NewCacheService(redisClient, logr, cfg.Grid.ConfigCacheTTL, cfg.Solver.ResultCacheTTL)
	metricsSvc := service.NewMetricsService()

	gridSvc := service.NewGridService(configRepo, cacheSvc, validate, logr, cfg.Grid)
	availabilitySvc := service.NewAvailabilityService(teacherRepo, gridSvc, validate, logr)
	batchSvc := service.NewBatchService(batchRepo, validate, logr)
	subjectSvc := service.NewSubjectService(subjectRepo, batchRepo, validate, logr)
	teacherSvc := service.NewTeacherService(teacherRepo, validate, logr)
	classroomSvc := service.NewClassroomService(classroomRepo, validate, logr)
	assignmentSvc := service.NewAssignmentService(assignmentRepo, teacherRepo, subjectRepo, batchRepo, validate, logr)
	constraintSvc := service.NewConstraintService(constraintRepo, validate, logr)
	exportSvc := service.NewExportService(gridSvc, logr, cfg.Export)

	solverClient := solver.NewClient(cfg.Solver)
	generationSvc := service.NewGenerationService(solverClient, constraintSvc, gridSvc, cacheSvc, metricsSvc, validate, logr, cfg.Solver)

	if err := constraintSvc.SeedCatalogue(context.Background()); err != nil {
		logr.Sugar().Fatalw("failed to seed constraint catalogue", "error", err)
	}

	gridHandler := handler.NewGridHandler(gridSvc)
	batchHandler := handler.NewBatchHandler(batchSvc)
	subjectHandler := handler.NewSubjectHandler(subjectSvc, assignmentSvc)
	teacherHandler := handler.NewTeacherHandler(teacherSvc, availabilitySvc, assignmentSvc)
	classroomHandler := handler.NewClassroomHandler(classroomSvc)
	assignmentHandler := handler.NewAssignmentHandler(assignmentSvc)
	constraintHandler := handler.NewConstraintHandler(constraintSvc)
	generationHandler := handler.NewGenerationHandler(generationSvc)
	exportHandler := handler.NewExportHandler(exportSvc)
	metricsHandler := handler.NewMetricsHandler(metricsSvc)

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))
	r.Use(middleware.Metrics(metricsSvc))

	r.GET("/health", metricsHandler.Health)
	r.GET("/ready", metricsHandler.Health)
	r.GET("/metrics", metricsHandler.Prometheus)

	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	api := r.Group(cfg.APIPrefix)

	configs := api.Group("/schedule-configs")
	{
		configs.POST("/preview", gridHandler.Generate)
		configs.POST("", gridHandler.Create)
		configs.GET("", gridHandler.List)
		configs.GET("/:id", gridHandler.Get)
		configs.DELETE("/:id", gridHandler.Delete)
		configs.POST("/:id/breaks", gridHandler.InsertBreak)
		configs.POST("/:id/slots", gridHandler.AppendSlot)
		configs.POST("/:id/slots/remove", gridHandler.RemoveSlot)
		if cfg.Export.Enabled {
			configs.GET("/:id/export/csv", exportHandler.CSV)
			configs.GET("/:id/export/pdf", exportHandler.PDF)
		}
	}

	batches := api.Group("/batches")
	{
		batches.GET("", batchHandler.List)
		batches.POST("", batchHandler.Create)
		batches.GET("/:id", batchHandler.Get)
		batches.PUT("/:id", batchHandler.Update)
		batches.DELETE("/:id", batchHandler.Delete)
	}

	subjects := api.Group("/subjects")
	{
		subjects.GET("", subjectHandler.List)
		subjects.POST("", subjectHandler.Create)
		subjects.GET("/:id", subjectHandler.Get)
		subjects.PUT("/:id", subjectHandler.Update)
		subjects.DELETE("/:id", subjectHandler.Delete)
		subjects.GET("/:id/assignments", subjectHandler.Assignments)
	}

	teachers := api.Group("/teachers")
	{
		teachers.GET("", teacherHandler.List)
		teachers.POST("", teacherHandler.Create)
		teachers.GET("/:id", teacherHandler.Get)
		teachers.PUT("/:id", teacherHandler.Update)
		teachers.DELETE("/:id", teacherHandler.Delete)
		teachers.GET("/:id/availability", teacherHandler.Availability)
		teachers.PUT("/:id/availability", teacherHandler.UpdateAvailability)
		teachers.GET("/:id/assignments", teacherHandler.Assignments)
	}

	classrooms := api.Group("/classrooms")
	{
		classrooms.GET("", classroomHandler.List)
		classrooms.POST("", classroomHandler.Create)
		classrooms.GET("/:id", classroomHandler.Get)
		classrooms.PUT("/:id", classroomHandler.Update)
		classrooms.DELETE("/:id", classroomHandler.Delete)
	}

	assignments := api.Group("/assignments")
	{
		assignments.POST("", assignmentHandler.Create)
		assignments.DELETE("/:id", assignmentHandler.Delete)
	}

	constraints := api.Group("/constraints")
	{
		constraints.GET("", constraintHandler.List)
		constraints.PUT("/:key", constraintHandler.Update)
	}

	generation := api.Group("/generation")
	{
		generation.POST("", generationHandler.Submit)
		generation.GET("", generationHandler.Status)
		generation.DELETE("", generationHandler.Cancel)
		generation.GET("/results/:task_id", generationHandler.Result)
	}

	addr := fmt.Sprintf(":%d", cfg.Port)
	logr.Sugar().Infow("server starting", "addr", addr, "env", cfg.Env)
	if err := r.Run(addr); err != nil {
		logr.Sugar().Fatalw("server failed", "error", err)
	}
}
