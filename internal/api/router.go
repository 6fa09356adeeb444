package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/clinicbook/clinicbook/internal/directory"
	"github.com/clinicbook/clinicbook/internal/review"
	"github.com/clinicbook/clinicbook/internal/scheduling"
)

type RouterConfig struct {
	Directory  *directory.Service
	Scheduling *scheduling.Service
	Reviews    *review.Service
	PgPool     *pgxpool.Pool
	Redis      *redis.Client
	Logger     zerolog.Logger
	Env        string
	Version    string
}

func NewRouter(cfg RouterConfig) http.Handler {
	r := chi.NewRouter()

	r.Use(RequestIDMiddleware)
	r.Use(LoggingMiddleware(cfg.Logger))

	health := NewHealthHandler(cfg.PgPool, cfg.Redis, cfg.Env, cfg.Version)
	r.Get("/health/live", health.Liveness)
	r.Get("/health/ready", health.Readiness)

	r.Mount("/", newServiceRouter(cfg.Directory, cfg.Scheduling, cfg.Reviews))

	return r
}

func newServiceRouter(dir *directory.Service, sched *scheduling.Service, reviews *review.Service) chi.Router {
	r := chi.NewRouter()

	r.Route("/patients", func(r chi.Router) {
		r.Post("/", createPatientHandler(dir))
		r.Get("/", listPatientsHandler(dir))
		r.Get("/search", searchPatientsHandler(dir))
		r.Get("/{id}", getPatientHandler(dir))
		r.Put("/{id}", updatePatientHandler(dir))
		r.Delete("/{id}", deletePatientHandler(dir))
	})

	r.Route("/doctors", func(r chi.Router) {
		r.Post("/", createDoctorHandler(dir))
		r.Get("/", listDoctorsHandler(dir))
		r.Get("/search", searchDoctorsHandler(dir))
		r.Get("/{id}", getDoctorHandler(dir))
		r.Put("/{id}", updateDoctorHandler(dir))
		r.Delete("/{id}", deleteDoctorHandler(dir))
	})

	r.Route("/appointments", func(r chi.Router) {
		r.Post("/", bookAppointmentHandler(sched))
		r.Get("/", listAppointmentsHandler(sched))
		r.Get("/{id}", getAppointmentHandler(sched))
		r.Patch("/{id}/status", updateAppointmentStatusHandler(sched))
		r.Get("/patient/{patientID}", listAppointmentsByPatientHandler(sched))
		r.Get("/doctor/{doctorID}", listAppointmentsByDoctorHandler(sched))
		r.Get("/doctor/{doctorID}/future", listFutureAppointmentsHandler(sched))
		r.Get("/doctor/{doctorID}/past", listPastAppointmentsHandler(sched))
		r.Get("/doctor/{doctorID}/pending", pendingCountHandler(sched))
		r.Get("/doctor/{doctorID}/patient/{patientID}", listAppointmentsByDoctorAndPatientHandler(sched))
		r.Get("/doctor/{doctorID}/patient/{patientID}/total", totalAppointmentsHandler(sched))
	})

	r.Route("/reviews", func(r chi.Router) {
		r.Post("/", postReviewHandler(reviews))
		r.Get("/doctor/{doctorID}", listReviewsByDoctorHandler(reviews))
		r.Put("/patient/{patientID}/doctor/{doctorID}", editReviewHandler(reviews))
		r.Delete("/patient/{patientID}/doctor/{doctorID}", deleteReviewHandler(reviews))
	})

	return r
}
