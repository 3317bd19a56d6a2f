package main

import (
	"database/sql"
	"net/http"
	"os"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"golang.org/x/exp/slog"

	"go-fairplay/internal/config"
	"go-fairplay/internal/http-server/handlers/game/play"
	"go-fairplay/internal/http-server/handlers/mysql"
	"go-fairplay/internal/http-server/handlers/seed"
	"go-fairplay/internal/http-server/handlers/verify"
	"go-fairplay/internal/http-server/middleware/logger"
	"go-fairplay/internal/lib/logger/handler/slogpretty"
	"go-fairplay/internal/lib/logger/sl"
	"go-fairplay/internal/repository"
)

const (
	envLocal = "local"
	envDev   = "dev"
	envProd  = "prod"
)

func main() {
	cfg := config.MustLoad()

	log := setupLogger(cfg.Env)

	log.Info("Starting server...", slog.String("env", cfg.Env))
	log.Debug("debug messages are enabled")

	db, err := sql.Open("mysql", cfg.MySQLDSN)
	if err != nil {
		log.Error("Failed to init storage", sl.Err(err))
		os.Exit(1)
	}

	// Verify the connection
	if err = db.Ping(); err != nil {
		log.Error("Failed to init storage", sl.Err(err))
		os.Exit(1)
	}

	handler := mysql.New(db)

	seedPairRepo := repository.NewSeedPairRepository(*handler)
	userRepo := repository.NewUserRepository(*handler)

	seedManager := seed.NewManager(seedPairRepo, log)
	commitment := seed.NewCommitment(log, seedManager, *userRepo)
	rotate := seed.NewRotate(log, seedManager, *userRepo, commitment)
	gamePlay := play.NewPlay(log, seedManager, *userRepo)
	verifyService := verify.NewService(log)
	verifyHandler := verify.NewHandler(log, verifyService)

	router := chi.NewRouter()
	router.Use(middleware.RequestID)
	router.Use(middleware.RealIP)
	router.Use(logger.New(log))
	router.Use(middleware.Recoverer)
	router.Use(middleware.URLFormat)

	router.Post("/games/play", gamePlay.New())
	router.Get("/seeds/{user_uuid}/active", commitment.New())
	router.Post("/seeds/{user_uuid}/rotate", rotate.New())
	router.Post("/verify", verifyHandler.New())

	log.Info("Server started", slog.String("address", cfg.Address))

	srv := &http.Server{
		Addr:         cfg.Address,
		Handler:      router,
		ReadTimeout:  cfg.HTTPServer.Timeout,
		WriteTimeout: cfg.HTTPServer.Timeout,
		IdleTimeout:  cfg.HTTPServer.IdleTimeout,
	}

	if err = srv.ListenAndServe(); err != nil {
		log.Error("Server failed", sl.Err(err))
	}

	log.Error("Server stopped")
}

func setupLogger(env string) *slog.Logger {
	var log *slog.Logger

	switch env {
	case envLocal:
		log = setupPrettySlogLogger()
	case envDev:
		log = slog.New(
			slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}))
	default:
		log = slog.New(
			slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))
	}

	return log
}

func setupPrettySlogLogger() *slog.Logger {
	opts := slogpretty.PrettyHandlerOptions{
		SlogOpts: &slog.HandlerOptions{
			Level: slog.LevelDebug,
		},
	}

	handler := opts.NewPrettyHandler(os.Stdout)

	return slog.New(handler)
}
