package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/plantops-hr/payroll-backend-go/internal/config"
	grpcHandler "github.com/plantops-hr/payroll-backend-go/internal/handler/grpc"
	appHTTP "github.com/plantops-hr/payroll-backend-go/internal/handler/http"
	"github.com/plantops-hr/payroll-backend-go/internal/pkg/cron"
	"github.com/plantops-hr/payroll-backend-go/internal/pkg/database"
	"github.com/plantops-hr/payroll-backend-go/internal/pkg/jwt"
	"github.com/plantops-hr/payroll-backend-go/internal/pkg/storage"
	"github.com/plantops-hr/payroll-backend-go/internal/repository/postgresql"
	attendanceService "github.com/plantops-hr/payroll-backend-go/internal/service/attendance"
	deductionService "github.com/plantops-hr/payroll-backend-go/internal/service/deduction"
	employeeService "github.com/plantops-hr/payroll-backend-go/internal/service/employee"
	"github.com/plantops-hr/payroll-backend-go/internal/service/file"
	holidayService "github.com/plantops-hr/payroll-backend-go/internal/service/holiday"
	leaveService "github.com/plantops-hr/payroll-backend-go/internal/service/leave"
	payrollService "github.com/plantops-hr/payroll-backend-go/internal/service/payroll"
	rosterService "github.com/plantops-hr/payroll-backend-go/internal/service/roster"
	"golang.org/x/sync/errgroup"
)

func main() {
	if err := run(); err != nil {
		slog.Error("server exited", "error", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	setupLogger(cfg.App)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := database.NewPostgreSQLDB(ctx, cfg.DatabaseURL(), database.PoolOptions{
		MaxConns: cfg.Database.MaxConns,
		MinConns: cfg.Database.MinConns,
	})
	if err != nil {
		return fmt.Errorf("connect database: %w", err)
	}
	defer db.Close()

	plantRepo := postgresql.NewPlantRepository(db)
	employeeRepo := postgresql.NewEmployeeRepository(db)
	holidayRepo := postgresql.NewHolidayRepository(db)
	rosterRepo := postgresql.NewRosterRepository(db)
	attendanceRepo := postgresql.NewAttendanceRepository(db)
	leaveRequestRepo := postgresql.NewLeaveRequestRepository(db)
	deductionRepo := postgresql.NewDeductionRepository(db)
	payrollRepo := postgresql.NewPayrollRepository(db)

	fileStorage, err := storage.NewLocalStorage(cfg.Storage.BasePath)
	if err != nil {
		return fmt.Errorf("init storage: %w", err)
	}

	JWTService := jwt.NewJWTService(cfg.JWT.Secret, cfg.JWT.AccessExpiration)
	holidaySvc := holidayService.NewHolidayService(holidayRepo)
	employeeSvc := employeeService.NewEmployeeService(employeeRepo, plantRepo)
	rosterSvc := rosterService.NewRosterService(db, rosterRepo, employeeRepo, plantRepo, holidaySvc, cfg.Policy.Shifts)
	attendanceSvc := attendanceService.NewAttendanceService(db, attendanceRepo, employeeRepo, plantRepo, rosterRepo, leaveRequestRepo, holidaySvc, &cfg.Policy)
	leaveSvc := leaveService.NewLeaveService(leaveRequestRepo, employeeRepo)
	deductionSvc := deductionService.NewDeductionService(deductionRepo, employeeRepo, cfg.Policy.NumericMode)
	payrollSvc := payrollService.NewPayrollService(db, payrollRepo, employeeRepo, attendanceRepo, deductionSvc, &cfg.Policy)
	fileSvc := file.NewFileService(fileStorage)

	router := appHTTP.NewRouter(cfg, JWTService,
		appHTTP.NewRosterHandler(rosterSvc),
		appHTTP.NewAttendanceHandler(attendanceSvc, fileSvc),
		appHTTP.NewPayrollHandler(payrollSvc, fileSvc),
		appHTTP.NewDeductionHandler(deductionSvc, fileSvc),
		appHTTP.NewLeaveHandler(leaveSvc),
		appHTTP.NewEmployeeHandler(employeeSvc, holidaySvc),
	)

	httpServer := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.App.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}
	grpcServer := grpcHandler.New(fmt.Sprintf(":%d", cfg.GRPC.Port))

	scheduler := cron.NewScheduler(ctx)
	cron.NewHolidayJobs(holidaySvc, cfg.App.HolidayRefreshInterval).RegisterJobs(scheduler)
	cron.NewHealthJobs(db, cfg.App.HealthCheckInterval, grpcServer.SetHealthy).RegisterJobs(scheduler)
	scheduler.Start()
	defer scheduler.Stop()

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		slog.Info("HTTP server listening", "addr", httpServer.Addr, "env", cfg.App.Env)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("serve HTTP: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		return grpcServer.Run(gctx)
	})
	g.Go(func() error {
		<-gctx.Done()
		slog.Info("Shutting down", "timeout", cfg.App.ShutdownTimeout)

		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.App.ShutdownTimeout)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown HTTP: %w", err)
		}
		return nil
	})

	return g.Wait()
}

func setupLogger(app config.AppConfig) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(app.LogLevel)); err != nil {
		level = slog.LevelInfo
	}

	opts := &slog.HandlerOptions{Level: level}
	var handler slog.Handler = slog.NewJSONHandler(os.Stdout, opts)
	if app.Env == "development" {
		handler = slog.NewTextHandler(os.Stdout, opts)
	}
	slog.SetDefault(slog.New(handler).With(slog.String("app", "plant-payroll")))
}
