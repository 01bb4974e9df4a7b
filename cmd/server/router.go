package main

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/masteryapp/mastery-api/internal/api"
	apiMiddleware "github.com/masteryapp/mastery-api/internal/api/middleware"
)

// setupRouter creates and configures the application router with all routes
// and middleware.
func (app *application) setupRouter() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(apiMiddleware.TraceMiddleware)

	authHandler := api.NewAuthHandler(app.userService, app.jwtService, app.logger)
	userHandler := api.NewUserHandler(app.userService, app.userStore, app.logger)
	courseHandler := api.NewCourseHandler(app.courseService, app.logger)
	lessonHandler := api.NewLessonHandler(app.lessonService, app.logger)
	topicHandler := api.NewTopicHandler(app.topicService, app.logger)
	burstHandler := api.NewBurstHandler(app.burstService, app.userStore, app.logger)
	paymentHandler := api.NewPaymentHandler(app.paymentService, app.userService, app.logger)
	authMiddleware := apiMiddleware.NewAuthMiddleware(app.jwtService)

	r.Route("/api", func(r chi.Router) {
		// Authentication endpoints (public)
		r.Post("/auth/register", authHandler.Register)
		r.Post("/auth/login", authHandler.Login)
		r.Post("/auth/password-reset", authHandler.RequestPasswordReset)
		r.Post("/auth/password-reset/confirm", authHandler.ConfirmPasswordReset)

		// Gateway callback (authenticated by HMAC signature, not JWT)
		r.Post("/payments/verify", paymentHandler.VerifyPayment)

		// Protected routes
		r.Group(func(r chi.Router) {
			r.Use(authMiddleware.Authenticate)

			// Profile endpoints
			r.Get("/users/me", userHandler.GetProfile)
			r.Put("/users/me/password", userHandler.UpdatePassword)
			r.Get("/users/me/interruptions", burstHandler.Interruptions)

			// Course endpoints
			r.Post("/courses", courseHandler.Create)
			r.Get("/courses", courseHandler.List)
			r.Get("/courses/{courseID}", courseHandler.Get)
			r.Put("/courses/{courseID}", courseHandler.Update)
			r.Delete("/courses/{courseID}", courseHandler.Delete)
			r.Get("/courses/{courseID}/lessons", lessonHandler.ListByCourse)
			r.Get("/courses/{courseID}/bursts", burstHandler.ListByCourse)

			// Lesson endpoints
			r.Post("/lessons", lessonHandler.Create)
			r.Get("/lessons/{lessonID}", lessonHandler.Get)
			r.Put("/lessons/{lessonID}", lessonHandler.Rename)
			r.Delete("/lessons/{lessonID}", lessonHandler.Delete)
			r.Get("/lessons/{lessonID}/topics", topicHandler.ListByLesson)

			// Topic endpoints
			r.Post("/topics", topicHandler.Create)
			r.Get("/topics/{topicID}", topicHandler.Get)
			r.Put("/topics/{topicID}", topicHandler.Update)
			r.Delete("/topics/{topicID}", topicHandler.Delete)

			// Burst endpoints
			r.Post("/bursts", burstHandler.Create)

			// Payment endpoints
			r.Post("/payments/orders", paymentHandler.CreateOrder)

			// Administration endpoints (superuser checked in the service)
			r.Get("/admin/users", userHandler.ListUsers)
			r.Get("/admin/users/{userID}", userHandler.InspectUser)
			r.Delete("/admin/users/{userID}", userHandler.DeleteUser)
			r.Put("/admin/users/{userID}/superuser", userHandler.SetSuperuser)
			r.Post("/admin/users/{userID}/membership", userHandler.RenewMembership)
			r.Delete("/admin/bursts/{burstID}", burstHandler.DeleteBurst)
			r.Post("/admin/invites", userHandler.CreateInvite)
			r.Get("/admin/invites", userHandler.ListInvites)
		})
	})

	// Health check endpoint
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		if _, err := w.Write([]byte("OK")); err != nil {
			app.logger.Error("failed to write health check response", "error", err)
		}
	})

	return r
}
