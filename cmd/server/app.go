package main

import (
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/masteryapp/mastery-api/internal/config"
	"github.com/masteryapp/mastery-api/internal/domain/progress"
	"github.com/masteryapp/mastery-api/internal/platform/postgres"
	"github.com/masteryapp/mastery-api/internal/service"
	"github.com/masteryapp/mastery-api/internal/service/auth"
	"github.com/masteryapp/mastery-api/internal/service/mail"
	"github.com/masteryapp/mastery-api/internal/service/payment"
	"github.com/masteryapp/mastery-api/internal/store"
)

// application holds all the shared application dependencies to simplify
// management and ensure proper cleanup on shutdown.
type application struct {
	config *config.Config
	logger *slog.Logger
	db     *sql.DB

	// Stores
	userStore   store.UserStore
	courseStore store.CourseStore
	lessonStore store.LessonStore
	topicStore  store.TopicStore
	burstStore  store.BurstStore
	inviteStore store.InviteStore

	// Services
	jwtService     auth.JWTService
	engine         progress.Service
	userService    *service.UserService
	courseService  *service.CourseService
	lessonService  *service.LessonService
	topicService   *service.TopicService
	burstService   *service.BurstService
	paymentService *payment.Service
}

// newApplication wires up stores and services on top of the given database
// connection.
func newApplication(cfg *config.Config, log *slog.Logger, db *sql.DB) (*application, error) {
	app := &application{
		config: cfg,
		logger: log,
		db:     db,
	}

	app.userStore = postgres.NewPostgresUserStore(db, log)
	app.courseStore = postgres.NewPostgresCourseStore(db, log)
	app.lessonStore = postgres.NewPostgresLessonStore(db, log)
	app.topicStore = postgres.NewPostgresTopicStore(db, log)
	app.burstStore = postgres.NewPostgresBurstStore(db, log)
	app.inviteStore = postgres.NewPostgresInviteStore(db, log)

	jwtService, err := auth.NewJWTService(cfg.Auth)
	if err != nil {
		return nil, fmt.Errorf("failed to create JWT service: %w", err)
	}
	app.jwtService = jwtService

	engine, err := progress.NewService(progress.NewParams(progress.ParamsConfig{
		StabilityBoost:      cfg.Engine.StabilityBoost,
		DecayPerDay:         cfg.Engine.DecayPerDay,
		LowIntensityDays:    cfg.Engine.LowIntensityDays,
		MediumIntensityDays: cfg.Engine.MediumIntensityDays,
		HighIntensityDays:   cfg.Engine.HighIntensityDays,
	}))
	if err != nil {
		return nil, fmt.Errorf("failed to create progress engine: %w", err)
	}
	app.engine = engine

	hasher := auth.NewBcryptHasher()
	verifier := auth.NewBcryptVerifier()
	mailer := mail.NewLogMailer(log)

	app.userService = service.NewUserService(db, app.userStore, app.courseStore,
		app.inviteStore, engine, hasher, verifier, mailer, log)
	app.courseService = service.NewCourseService(db, app.courseStore, app.topicStore,
		app.burstStore, engine, log)
	app.lessonService = service.NewLessonService(app.lessonStore, app.topicStore,
		app.courseStore, engine, log)
	app.topicService = service.NewTopicService(app.topicStore, app.lessonStore,
		app.courseStore, engine, log)
	app.burstService = service.NewBurstService(db, app.burstStore, app.courseStore,
		engine, log)
	app.paymentService = payment.NewService(payment.LocalGateway{}, cfg.Payment.KeySecret, log)

	if !app.paymentService.Enabled() {
		log.Warn("payment gateway credentials not configured, payment endpoints disabled")
	}

	return app, nil
}

// cleanup releases resources held by the application.
func (app *application) cleanup() {
	if app.db != nil {
		if err := app.db.Close(); err != nil {
			app.logger.Error("failed to close database connection", "error", err)
		}
	}
}
