package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"accountability/internal/bot"
	"accountability/internal/config"
	"accountability/internal/logger"
	"accountability/internal/parser"
	"accountability/internal/repository"
	"accountability/internal/server"
	"accountability/internal/service"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	if err := logger.Init(cfg.Development); err != nil {
		log.Fatalf("logger: %v", err)
	}
	defer logger.Sync()

	db, err := repository.NewDB(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("db: %v", err)
	}
	sqlDB, err := db.DB()
	if err == nil {
		defer sqlDB.Close()
	}

	taskRepo := repository.NewTaskRepository(db)
	settingsRepo := repository.NewSettingsRepository(db)

	api, err := tgbotapi.NewBotAPI(cfg.TelegramToken)
	if err != nil {
		log.Fatalf("bot api: %v", err)
	}
	logger.Info("bot authorized", zap.String("account", api.Self.UserName))

	transport := bot.NewTransport(api)
	taskSvc := service.NewTaskService(taskRepo, settingsRepo, parser.New())
	reminderSvc := service.NewReminderService(taskRepo, settingsRepo, transport, service.ReminderOptions{
		SkipDelegated: cfg.SkipDelegated,
	})
	telegramBot := bot.New(api, transport, settingsRepo, taskSvc, reminderSvc)

	scheduler := service.NewScheduler(time.Local)
	if cfg.SweepInterval > 0 {
		if _, err := scheduler.ScheduleInterval(cfg.SweepInterval, func() {
			jobCtx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
			defer cancel()
			report, err := reminderSvc.ProcessReminders(jobCtx, time.Now())
			if err != nil {
				logger.Error("scheduled reminder sweep", err)
				return
			}
			logger.Info("reminder sweep finished",
				zap.Int("processed", report.Processed),
				zap.Int("sent", report.Sent),
				zap.Int("errors", report.Errors))
		}); err != nil {
			log.Fatalf("schedule reminder sweep: %v", err)
		}
	}
	if cfg.SummaryTime != "" {
		if _, err := scheduler.ScheduleDaily(cfg.SummaryTime, func() {
			jobCtx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
			defer cancel()
			report, err := reminderSvc.SendDailySummaries(jobCtx, time.Now())
			if err != nil {
				logger.Error("scheduled daily summary", err)
				return
			}
			logger.Info("daily summaries finished",
				zap.Int("processed", report.Processed),
				zap.Int("sent", report.Sent),
				zap.Int("errors", report.Errors))
		}); err != nil {
			log.Fatalf("schedule daily summary: %v", err)
		}
	}
	scheduler.Start()
	defer scheduler.Stop()

	srv := server.New(cfg.ListenAddr, telegramBot, reminderSvc, cfg.ReminderAPIKey)
	go func() {
		logger.Info("http server listening", zap.String("addr", cfg.ListenAddr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http server", err)
			stop()
		}
	}()

	if cfg.TelegramPolling {
		go func() {
			if err := telegramBot.StartPolling(ctx); err != nil && !errors.Is(err, context.Canceled) {
				logger.Error("polling stopped", err)
			}
		}()
	}

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("http shutdown", err)
	}
	logger.Info("shutdown complete")
}
