package http

import (
	"log/slog"
	"os"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httplog/v3"
	"github.com/go-chi/jwtauth/v5"
	"github.com/plantops-hr/payroll-backend-go/internal/config"
	"github.com/plantops-hr/payroll-backend-go/internal/domain/user"
	"github.com/plantops-hr/payroll-backend-go/internal/handler/http/middleware"
	"github.com/plantops-hr/payroll-backend-go/internal/pkg/jwt"
)

func NewRouter(
	cfg *config.Config,
	JWTService jwt.Service,
	rosterHandler RosterHandler,
	attendanceHandler AttendanceHandler,
	payrollHandler PayrollHandler,
	deductionHandler DeductionHandler,
	leaveHandler LeaveHandler,
	employeeHandler EmployeeHandler,
) *chi.Mux {
	r := chi.NewRouter()
	logFormat := httplog.SchemaECS.Concise(cfg.App.Env != "production")
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		ReplaceAttr: logFormat.ReplaceAttr,
	})).With(
		slog.String("app", "plant-payroll"),
		slog.String("version", "v1.0.0"),
		slog.String("env", cfg.App.Env),
	)

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.CORS.AllowedOrigins,
		AllowCredentials: true,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-CSRF-Token"},
		ExposedHeaders:   []string{"Link", "Content-Disposition", "X-Skipped-Employees", "X-Rejected-Employees"},
		MaxAge:           300,
	}))

	r.Use(chiMiddleware.RequestID)
	r.Use(httplog.RequestLogger(logger, &httplog.Options{
		Level:  logLevel(cfg.App.LogLevel),
		Schema: httplog.SchemaECS,
	}))

	r.Use(chiMiddleware.CleanPath)
	r.Use(chiMiddleware.Recoverer)
	r.Use(chiMiddleware.Heartbeat("/healthz"))

	r.Route("/api/v1", func(r chi.Router) {
		// Requires authentication
		r.Group(func(r chi.Router) {
			r.Use(jwtauth.Verifier(JWTService.JWTAuth()))
			r.Use(middleware.AuthRequired(JWTService))
			r.Use(middleware.RequirePlantAccess)

			// Lookups
			r.Group(func(r chi.Router) {
				r.Use(middleware.RequirePermission(user.PermissionDirectoryView))
				r.Get("/plants", employeeHandler.ListPlants)
				r.Get("/employees", employeeHandler.ListEmployees)
				r.Get("/employees/{id}", employeeHandler.GetEmployee)
				r.Get("/holidays", employeeHandler.ListHolidays)
			})
			r.With(middleware.RequirePermission(user.PermissionProfileManage)).
				Put("/employees/{id}/payroll-profile", employeeHandler.UpdatePayrollProfile)

			r.Route("/rosters", func(r chi.Router) {
				r.Group(func(r chi.Router) {
					r.Use(middleware.RequirePermission(user.PermissionRosterView))
					r.Get("/", rosterHandler.Get)
					r.Get("/laborer-hours", rosterHandler.LaborerHours)
				})
				r.Group(func(r chi.Router) {
					r.Use(middleware.RequirePermission(user.PermissionRosterManage))
					r.Post("/", rosterHandler.SaveSlot)
					r.Put("/", rosterHandler.Commit)
					r.Post("/assignments/supervisor", rosterHandler.AssignSupervisor)
					r.Post("/assignments/laborer", rosterHandler.AssignLaborer)
				})
			})

			r.Route("/attendance", func(r chi.Router) {
				r.Group(func(r chi.Router) {
					r.Use(middleware.RequirePermission(user.PermissionAttendanceViewAll))
					r.Get("/summary", attendanceHandler.Summary)
					r.Get("/approved", attendanceHandler.ListApproved)
				})
				r.Group(func(r chi.Router) {
					r.Use(middleware.RequirePermission(user.PermissionAttendanceCreate))
					r.Post("/", attendanceHandler.Record)
					r.Post("/upload", attendanceHandler.Upload)
				})
				r.Group(func(r chi.Router) {
					r.Use(middleware.RequirePermission(user.PermissionAttendanceApprove))
					r.Post("/executive/approve", attendanceHandler.ApproveExecutive)
					r.Post("/non-executive/approve", attendanceHandler.ApproveNonExecutive)
				})
			})

			r.Route("/salaries", func(r chi.Router) {
				r.With(middleware.RequirePermission(user.PermissionPayrollView)).Get("/", payrollHandler.Compute)
				r.With(middleware.RequirePermission(user.PermissionPayrollView)).Get("/approved", payrollHandler.ListApproved)
				r.With(middleware.RequirePermission(user.PermissionPayrollApprove)).Post("/approve", payrollHandler.Approve)
			})

			r.Route("/payroll", func(r chi.Router) {
				r.Use(middleware.RequirePermission(user.PermissionPayrollExport))
				r.Get("/export", payrollHandler.ExportBankFile)
				r.Get("/register", payrollHandler.ExportRegister)
			})

			r.Group(func(r chi.Router) {
				r.Use(middleware.RequirePermission(user.PermissionDeductionManage))
				r.Post("/loans/upload", deductionHandler.UploadLoans)
				r.Get("/loans", deductionHandler.ListLoans)
				r.Post("/telephone-bills/upload", deductionHandler.UploadTelephoneBills)
				r.Get("/telephone-bills", deductionHandler.ListTelephoneBills)
			})

			r.Route("/leaves", func(r chi.Router) {
				r.With(middleware.RequirePermission(user.PermissionLeaveCreate)).Post("/", leaveHandler.CreateRequest)
				r.With(middleware.RequirePermission(user.PermissionLeaveViewAll)).Get("/", leaveHandler.ListRequests)
				r.Group(func(r chi.Router) {
					r.Use(middleware.RequirePermission(user.PermissionLeaveApprove))
					r.Post("/{id}/approve", leaveHandler.ApproveRequest)
					r.Post("/{id}/reject", leaveHandler.RejectRequest)
				})
			})
		})
	})
	return r
}

func logLevel(level string) slog.Level {
	var l slog.Level
	if err := l.UnmarshalText([]byte(level)); err != nil {
		return slog.LevelInfo
	}
	return l
}
