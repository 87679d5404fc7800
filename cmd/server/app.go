package main

import (
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"

	"github.com/mpalmer-dev/lingua-api/internal/config"
	"github.com/mpalmer-dev/lingua-api/internal/platform/postgres"
	"github.com/mpalmer-dev/lingua-api/internal/service/answer"
	"github.com/mpalmer-dev/lingua-api/internal/service/auth"
	"github.com/mpalmer-dev/lingua-api/internal/store"
)

// application bundles the configuration, shared resources and wired services
// that make up one running server instance.
type application struct {
	config *config.Config
	logger *slog.Logger
	db     *sql.DB

	userStore     store.UserStore
	lessonStore   store.LessonStore
	exerciseStore store.ExerciseStore

	jwtService     auth.JWTService
	refreshService *auth.RefreshTokenService
	passwordHasher auth.PasswordHasher
	answerService  *answer.Service
}

// newApplication opens the database, runs pending migrations and wires every
// store and service. The caller owns the returned application and must call
// cleanup when done.
func newApplication(cfg *config.Config, logger *slog.Logger) (*application, error) {
	db, err := sql.Open("pgx", cfg.Database.URL)
	if err != nil {
		return nil, fmt.Errorf("failed to open database connection: %w", err)
	}

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)

	if err := postgres.MigrateUp(db); err != nil {
		closeQuietly(db, logger)
		return nil, fmt.Errorf("failed to run database migrations: %w", err)
	}

	jwtService, err := auth.NewJWTService(cfg.Auth)
	if err != nil {
		closeQuietly(db, logger)
		return nil, fmt.Errorf("failed to create JWT service: %w", err)
	}

	hasher := auth.NewBcryptHasher()

	userStore := postgres.NewUserStore(db, hasher, logger)
	lessonStore := postgres.NewLessonStore(db, logger)
	exerciseStore := postgres.NewExerciseStore(db, logger)
	memoryStore := postgres.NewExerciseMemoryStore(db, logger)
	progressStore := postgres.NewLessonProgressStore(db, logger)
	tokenStore := postgres.NewRefreshTokenStore(db, logger)

	return &application{
		config:         cfg,
		logger:         logger,
		db:             db,
		userStore:      userStore,
		lessonStore:    lessonStore,
		exerciseStore:  exerciseStore,
		jwtService:     jwtService,
		refreshService: auth.NewRefreshTokenService(tokenStore, cfg.Auth),
		passwordHasher: hasher,
		answerService:  answer.NewService(exerciseStore, memoryStore, progressStore),
	}, nil
}

// cleanup releases resources held by the application.
func (app *application) cleanup() {
	closeQuietly(app.db, app.logger)
}

func closeQuietly(db *sql.DB, logger *slog.Logger) {
	if err := db.Close(); err != nil {
		logger.Error("failed to close database connection", "error", err)
	}
}
