package main

import (
	"context"
	"errors"
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
	"go.uber.org/zap"

	_ "github.com/campushq/campus-admin-api/api/swagger"
	"github.com/campushq/campus-admin-api/internal/handler"
	"github.com/campushq/campus-admin-api/internal/ledger"
	"github.com/campushq/campus-admin-api/internal/middleware"
	"github.com/campushq/campus-admin-api/internal/models"
	"github.com/campushq/campus-admin-api/internal/service"
	"github.com/campushq/campus-admin-api/internal/store/adapter"
	"github.com/campushq/campus-admin-api/pkg/cache"
	"github.com/campushq/campus-admin-api/pkg/config"
	"github.com/campushq/campus-admin-api/pkg/logger"
	corsmiddleware "github.com/campushq/campus-admin-api/pkg/middleware/cors"
	reqidmiddleware "github.com/campushq/campus-admin-api/pkg/middleware/requestid"
	"github.com/campushq/campus-admin-api/pkg/storage"
)

// @title Campus Admin API
// @version 1.0.0
// @description Campus administration backend covering enrollment, library lending, attendance and HR
// @BasePath /api
// @schemes http
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization

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

	st, err := adapter.Open(cfg, logr)
	if err != nil {
		logr.Sugar().Fatalw("failed to open storage backend", "error", err)
	}
	defer st.Close() //nolint:errcheck

	var cacheRepo service.CacheRepository
	if cfg.Cache.Enabled {
		client, err := cache.NewRedis(cfg.Redis)
		if err != nil {
			logr.Warn("redis unavailable, response cache disabled", zap.Error(err))
		} else {
			repo := cache.NewRepository(client, logr)
			defer repo.Close() //nolint:errcheck
			cacheRepo = repo
		}
	}

	exportStorage, err := storage.NewLocalStorage(cfg.Exports.StorageDir)
	if err != nil {
		logr.Sugar().Fatalw("failed to init export storage", "error", err)
	}

	validate := validator.New()
	locks := ledger.NewKeyMutex()

	metricsSvc := service.NewMetricsService(st.Kind())
	cacheSvc := service.NewCacheService(cacheRepo, metricsSvc, cfg.Cache.TTL, logr, cfg.Cache.Enabled && cacheRepo != nil)

	authSvc := service.NewAuthService(st, cfg.JWT, validate, logr)
	enrollmentSvc := service.NewEnrollmentService(st, locks, validate, logr)
	lendingSvc := service.NewLendingService(st, cfg.Library, locks, validate, logr)
	attendanceSvc := service.NewAttendanceService(st, cfg.Attendance, locks, validate, logr)
	hrSvc := service.NewHRService(st, validate, logr)
	exportSvc := service.NewExportService(attendanceSvc, exportStorage, logr)

	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	sweepDone := make(chan struct{})
	go sweepExports(exportSvc, cfg.Exports.RetentionTTL, logr, sweepDone)

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))
	r.Use(middleware.Metrics(metricsSvc))

	registerRoutes(r, cfg, routeDeps{
		auth:       handler.NewAuthHandler(authSvc),
		enrollment: handler.NewEnrollmentHandler(enrollmentSvc, cacheSvc),
		library:    handler.NewLibraryHandler(lendingSvc, cacheSvc),
		attendance: handler.NewAttendanceHandler(attendanceSvc, cacheSvc),
		hr:         handler.NewHRHandler(hrSvc, cacheSvc),
		export:     handler.NewExportHandler(exportSvc),
		metrics: handler.NewMetricsHandler(metricsSvc, func() error {
			ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
			defer cancel()
			return st.Ping(ctx)
		}),
		authSvc:  authSvc,
		cacheSvc: cacheSvc,
	})

	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	addr := fmt.Sprintf(":%d", cfg.Port)
	srv := &http.Server{Addr: addr, Handler: r}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go func() {
		logr.Sugar().Infow("server starting", "addr", addr, "env", cfg.Env, "backend", st.Kind())
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logr.Sugar().Fatalw("server failed", "error", err)
		}
	}()

	<-ctx.Done()
	logr.Info("shutting down")
	close(sweepDone)

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logr.Sugar().Errorw("shutdown failed", "error", err)
	}
}

// sweepExports drops stored report copies past their retention window,
// once at startup and then hourly until done closes.
func sweepExports(exportSvc *service.ExportService, ttl time.Duration, logr *zap.Logger, done <-chan struct{}) {
	if ttl <= 0 {
		return
	}
	ticker := time.NewTicker(time.Hour)
	defer ticker.Stop()
	for {
		if removed, err := exportSvc.Cleanup(ttl); err != nil {
			logr.Warn("export sweep failed", zap.Error(err))
		} else if len(removed) > 0 {
			logr.Info("export sweep removed stale reports", zap.Int("count", len(removed)))
		}
		select {
		case <-done:
			return
		case <-ticker.C:
		}
	}
}

type routeDeps struct {
	auth       *handler.AuthHandler
	enrollment *handler.EnrollmentHandler
	library    *handler.LibraryHandler
	attendance *handler.AttendanceHandler
	hr         *handler.HRHandler
	export     *handler.ExportHandler
	metrics    *handler.MetricsHandler
	authSvc    *service.AuthService
	cacheSvc   *service.CacheService
}

func registerRoutes(r *gin.Engine, cfg *config.Config, deps routeDeps) {
	r.GET("/health", deps.metrics.Health)
	r.GET("/ready", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ready"})
	})
	r.GET("/metrics", deps.metrics.Prometheus)

	api := r.Group(cfg.APIPrefix)

	api.POST("/auth/login", deps.auth.Login)

	authed := api.Group("")
	authed.Use(middleware.JWT(deps.authSvc))
	authed.Use(middleware.ResponseCache(deps.cacheSvc))

	authed.GET("/auth/me", deps.auth.Me)

	authed.GET("/courses", deps.enrollment.ListCourses)
	authed.GET("/courses/:id", deps.enrollment.GetCourse)

	enrollments := authed.Group("/enrollments")
	enrollments.Use(middleware.RequireRoles(models.RoleAdmin, models.RoleStudent, models.RoleTeacher))
	{
		enrollments.GET("/:studentId", deps.enrollment.GetRoster)
		enrollments.GET("/:studentId/history", deps.enrollment.History)
		enrollments.POST("/enroll", deps.enrollment.Enroll)
		enrollments.POST("/drop", deps.enrollment.Drop)
		enrollments.PUT("", deps.enrollment.ReplaceRoster)
	}

	library := authed.Group("/library")
	{
		library.GET("/books", deps.library.SearchBooks)
		library.GET("/books/:id", deps.library.GetBook)
		library.POST("/borrow", deps.library.Borrow)
		library.POST("/return", deps.library.Return)
		library.POST("/renew", deps.library.Renew)
		library.POST("/reserve", deps.library.Reserve)
		library.POST("/reserve/cancel", deps.library.CancelReservation)
		library.GET("/loans/:userId", deps.library.ListLoans)
		library.GET("/reservations/:userId", deps.library.ListReservations)
	}

	attendance := authed.Group("/attendance")
	{
		attendance.POST("/clock-in", deps.attendance.ClockIn)
		attendance.POST("/clock-out", deps.attendance.ClockOut)

		reports := attendance.Group("")
		reports.Use(middleware.RequireRoles(models.RoleAdmin, models.RoleHR))
		{
			reports.GET("/records", deps.attendance.List)
			reports.PUT("/records", deps.attendance.Upsert)
			reports.GET("/stats", deps.attendance.Stats)
			reports.GET("/export", deps.export.AttendanceReport)
		}
	}

	hr := authed.Group("/hr")
	{
		hr.GET("/departments", deps.hr.ListDepartments)
		hr.GET("/departments/:id", deps.hr.GetDepartment)
		hr.POST("/leaves", deps.hr.ApplyLeave)

		staff := hr.Group("")
		staff.Use(middleware.RequireRoles(models.RoleAdmin, models.RoleHR))
		{
			staff.GET("/employees", deps.hr.ListEmployees)
			staff.POST("/employees", deps.hr.CreateEmployee)
			staff.GET("/employees/:id", deps.hr.GetEmployee)
			staff.PUT("/employees/:id", deps.hr.UpdateEmployee)
			staff.DELETE("/employees/:id", deps.hr.DeactivateEmployee)
			staff.GET("/leaves", deps.hr.ListLeaves)
			staff.POST("/leaves/:id/review", deps.hr.ReviewLeave)
			staff.GET("/leaves/stats/:employeeId", deps.hr.LeaveStats)
		}
	}

	system := authed.Group("/system")
	system.Use(middleware.RequireRoles(models.RoleAdmin))
	{
		system.GET("/metrics", deps.metrics.Snapshot)
	}
}
