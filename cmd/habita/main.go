package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	fiberlogger "github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/rs/zerolog"
	"github.com/rutkovskaya/habita/internal/api"
	"github.com/rutkovskaya/habita/internal/config"
	"github.com/rutkovskaya/habita/internal/db"
	"github.com/rutkovskaya/habita/internal/reminder"
	"github.com/rutkovskaya/habita/internal/services"
)

func main() {
	cfg, err := config.Load(os.Getenv("CONFIG_PATH"))
	if err != nil {
		bootLogger := zerolog.New(os.Stderr)
		bootLogger.Fatal().Err(err).Msg("load config failed")
	}

	logger := newLogger(cfg.LogLevel)

	location := mustLoadLocation(cfg.Timezone, logger)
	time.Local = location

	database, err := db.OpenSQLite(cfg.DBPath)
	if err != nil {
		logger.Fatal().Err(err).Msg("database init failed")
	}

	users := db.NewUserRepository(database)
	habits := db.NewHabitRepository(database)

	authService := services.NewAuthService(users, cfg.SecretKey, location)
	habitService := services.NewHabitService(habits, location)

	var sender reminder.Sender
	if cfg.Telegram.BotToken != "" {
		telegramSender, err := reminder.NewTelegramSender(cfg.Telegram.BotToken, logger)
		if err != nil {
			logger.Warn().Err(err).Msg("telegram init failed, reminders disabled")
		} else {
			sender = telegramSender
		}
	} else {
		logger.Warn().Msg("no telegram bot token configured, reminders disabled")
	}

	dispatcher := reminder.NewDispatcher(habits, sender, location, logger)
	handler := api.NewHandler(authService, habitService, dispatcher, logger)

	app := fiber.New(fiber.Config{
		AppName:               "Habita",
		DisableStartupMessage: true,
	})
	app.Use(recover.New())
	app.Use(fiberlogger.New())
	api.RegisterRoutes(app, handler)

	scheduler := reminder.NewScheduler(location, logger)
	if sender != nil {
		if err := scheduler.ScheduleHourlySweep(dispatcher); err != nil {
			logger.Fatal().Err(err).Msg("schedule reminder sweep failed")
		}
		scheduler.Start()
	}

	sigCtx, stopSignals := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stopSignals()

	go func() {
		<-sigCtx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		scheduler.Stop(shutdownCtx)
		if err := app.ShutdownWithContext(shutdownCtx); err != nil {
			logger.Error().Err(err).Msg("server shutdown failed")
		}
	}()

	logger.Info().
		Str("port", cfg.Port).
		Str("db", cfg.DBPath).
		Str("tz", location.String()).
		Msg("habita listening")
	if err := app.Listen(":" + cfg.Port); err != nil {
		logger.Fatal().Err(err).Msg("server exited")
	}
}

func newLogger(level string) zerolog.Logger {
	parsed, err := zerolog.ParseLevel(level)
	if err != nil || parsed == zerolog.NoLevel {
		parsed = zerolog.InfoLevel
	}
	return zerolog.New(os.Stdout).Level(parsed).With().Timestamp().Logger()
}

func mustLoadLocation(name string, logger zerolog.Logger) *time.Location {
	location, err := time.LoadLocation(name)
	if err != nil {
		logger.Warn().Str("tz", name).Msg("invalid timezone, falling back to UTC")
		return time.UTC
	}
	return location
}
