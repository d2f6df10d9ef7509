package http

import (
	"log/slog"
	"os"

	"github.com/cmlabs-hris/hris-payroll-go/internal/handler/http/middleware"
	"github.com/cmlabs-hris/hris-payroll-go/internal/pkg/jwt"
	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httplog/v3"
	"github.com/go-chi/jwtauth/v5"
)

type RouterOptions struct {
	AppName        string
	Version        string
	Env            string
	AllowedOrigins []string
}

type Handlers struct {
	Attendance AttendanceHandler
	Settings   SettingsHandler
	Employee   EmployeeHandler
	Payroll    PayrollHandler
}

func NewRouter(opts RouterOptions, JWTService jwt.Service, h Handlers) *chi.Mux {
	r := chi.NewRouter()
	logFormat := httplog.SchemaECS.Concise(opts.Env != "development")
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		ReplaceAttr: logFormat.ReplaceAttr,
	})).With(
		slog.String("app", opts.AppName),
		slog.String("version", opts.Version),
		slog.String("env", opts.Env),
	)

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   opts.AllowedOrigins,
		AllowCredentials: true,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-CSRF-Token"},
		ExposedHeaders:   []string{"Link"},
		MaxAge:           300,
	}))

	r.Use(httplog.RequestLogger(logger, &httplog.Options{
		Level:  slog.LevelDebug,
		Schema: httplog.SchemaECS,
	}))

	r.Use(chiMiddleware.AllowContentEncoding("application/json"))
	r.Use(chiMiddleware.CleanPath)
	r.Use(chiMiddleware.Recoverer)
	r.Use(chiMiddleware.Heartbeat("/health"))

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(jwtauth.Verifier(JWTService.JWTAuth()))
		r.Use(middleware.AuthRequired)

		r.Route("/attendance", func(r chi.Router) {
			r.Post("/time-in", h.Attendance.TimeIn)
			r.Post("/time-out", h.Attendance.TimeOut)

			// Admin only
			r.Group(func(r chi.Router) {
				r.Use(middleware.AdminOnly)
				r.Get("/", h.Attendance.List)
				r.Post("/", h.Attendance.Create)
				r.Post("/sweep", h.Attendance.Sweep)
				r.Get("/{id}", h.Attendance.Get)
				r.Put("/{id}", h.Attendance.Update)
				r.Delete("/{id}", h.Attendance.Delete)
			})
		})

		r.Route("/settings/attendance", func(r chi.Router) {
			r.Get("/", h.Settings.Get)
			r.With(middleware.AdminOnly).Put("/", h.Settings.Update)
		})

		r.Route("/employees/{id}/positions", func(r chi.Router) {
			r.Use(middleware.AdminOnly)
			r.Get("/", h.Employee.GetPositionHistory)
			r.Post("/", h.Employee.RecordPosition)
		})

		r.Route("/payroll", func(r chi.Router) {
			r.Post("/deductions", h.Payroll.AggregateDeductions)
			r.Get("/contributions/{employeeID}", h.Payroll.ContributionRates)
			r.Get("/payslips", h.Payroll.ListPayslips)
			r.Get("/payslips/{id}", h.Payroll.GetPayslip)

			// Admin only
			r.Group(func(r chi.Router) {
				r.Use(middleware.AdminOnly)
				r.Post("/aggregate", h.Payroll.AggregatePeriod)
				r.Post("/payslips", h.Payroll.GeneratePayslip)
				r.Delete("/payslips/{id}", h.Payroll.DeletePayslip)

				r.Route("/pay-heads", func(r chi.Router) {
					r.Get("/", h.Payroll.ListPayHeads)
					r.Post("/", h.Payroll.CreatePayHead)
					r.Delete("/{id}", h.Payroll.DeletePayHead)
				})
			})
		})
	})
	return r
}
