package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"waterguard/internal/analytics"
	"waterguard/internal/chat"
	"waterguard/internal/config"
	"waterguard/internal/forms"
	"waterguard/internal/llm"
	"waterguard/internal/logger"
	"waterguard/internal/mail"
	"waterguard/internal/metrics"
	"waterguard/internal/notify"
	"waterguard/internal/scheduler"
	"waterguard/internal/server"
	"waterguard/internal/storage"
)

func main() {
	if err := godotenv.Load(".env"); err != nil {
		log.Printf("Warning: .env file not found: %v", err)
	}

	cfg, err := config.New()
	if err != nil {
		log.Fatalf("invalid configuration: %v", err)
	}

	zl, err := logger.New(cfg.LogLevel, cfg.LogFormat)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer func() { _ = zl.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	llmClient, err := llm.NewFactory(cfg).CreateClient(ctx, string(cfg.LLMProvider))
	if err != nil {
		zl.Fatal("failed to create llm client", zap.Error(err))
	}

	store := storage.NewStore(cfg.UsersFilePath, cfg.BookingsFilePath, zl, func(path, _ string, _ error) {
		metrics.StoreRecoveries.WithLabelValues(filepath.Base(path)).Inc()
	})

	var rec storage.Recorder
	if cfg.ChatLogPath != "" {
		fr, err := storage.NewChatRecorder(cfg.ChatLogPath)
		if err != nil {
			zl.Warn("failed to init chat log", zap.String("path", cfg.ChatLogPath), zap.Error(err))
		} else {
			rec = fr
		}
	}

	sender, err := mail.NewFromConfig(ctx, cfg)
	if err != nil {
		zl.Fatal("failed to create mail sender", zap.Error(err))
	}

	var notifiers notify.Multi
	if cfg.TelegramEnabled() {
		tg, err := notify.NewTelegram(cfg.TelegramBotToken, cfg.AdminChatID)
		if err != nil {
			zl.Warn("telegram notifications disabled", zap.Error(err))
		} else {
			notifiers = append(notifiers, tg)
		}
	}
	if cfg.AdminSNSTopicARN != "" {
		topic, err := notify.NewSNS(ctx, cfg.AWSRegion, cfg.AdminSNSTopicARN)
		if err != nil {
			zl.Warn("sns notifications disabled", zap.Error(err))
		} else {
			notifiers = append(notifiers, topic)
		}
	}
	var notifier notify.Notifier = notify.Nop{}
	if len(notifiers) > 0 {
		notifier = notifiers
	}

	chatSvc := chat.New(llmClient,
		chat.WithRecorder(rec),
		chat.WithTimeout(cfg.ModelTimeout),
		chat.WithLogger(zl))
	formSvc := forms.New(store, sender, notifier, cfg.SiteURL, zl)

	reporter := analytics.NewReporter(store, rec, sender, notifier, cfg.ReportEmail, zl)
	sched := scheduler.New(cfg.ReportCron, zl)
	sched.SetReportFunction(reporter.Run)
	if err := sched.Start(); err != nil {
		zl.Warn("daily report disabled", zap.Error(err))
	}
	defer sched.Stop()

	srv, err := server.New(server.Options{
		Addr:           cfg.HTTPAddr,
		AllowedOrigins: cfg.CORSAllowedOrigins,
		Logger:         zl,
	}, chatSvc, formSvc)
	if err != nil {
		zl.Fatal("failed to create http server", zap.Error(err))
	}

	errCh := make(chan error, 1)
	go func() { errCh <- srv.Start() }()

	select {
	case err := <-errCh:
		if err != nil {
			zl.Error("http server stopped", zap.Error(err))
		}
	case <-ctx.Done():
		zl.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			zl.Error("graceful shutdown failed", zap.Error(err))
		}
	}
}
