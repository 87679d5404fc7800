package main

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/mpalmer-dev/lingua-api/internal/api"
	apiMiddleware "github.com/mpalmer-dev/lingua-api/internal/api/middleware"
)

// setupRouter creates and configures the application router with all routes
// and middleware.
func (app *application) setupRouter() http.Handler {
	r := chi.NewRouter()

	// Standard middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(apiMiddleware.TraceMiddleware)

	// Create API handlers using the application's services
	authHandler := api.NewAuthHandler(
		app.userStore,
		app.jwtService,
		app.refreshService,
		app.passwordHasher,
		time.Duration(app.config.Auth.AccessTokenLifetimeMin)*time.Minute,
	)
	lessonHandler := api.NewLessonHandler(app.lessonStore, app.exerciseStore)
	answerHandler := api.NewAnswerHandler(app.answerService)
	authMiddleware := apiMiddleware.NewAuthMiddleware(app.jwtService)

	// Register routes
	r.Route("/api", func(r chi.Router) {
		// Authentication endpoints (public)
		r.Post("/auth/register", authHandler.Register)
		r.Post("/auth/login", authHandler.Login)
		r.Post("/auth/refresh", authHandler.Refresh)

		// Course content (public)
		r.Get("/languages/{code}/lessons", lessonHandler.ListLessons)
		r.Get("/lessons/{id}/exercises", lessonHandler.ListExercises)

		// Protected routes
		r.Group(func(r chi.Router) {
			r.Use(authMiddleware.Authenticate)

			r.Get("/me", authHandler.Me)
			r.Get("/practice/due", lessonHandler.ListDue)
			r.Post("/answers", answerHandler.Submit)
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
