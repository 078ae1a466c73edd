package main

import (
	"context"
	"log"
	"time"

	"github.com/joho/godotenv"
	"github.com/modelcontextprotocol/go-sdk/mcp"
	"go.uber.org/zap"

	"waterguard/internal/analytics"
	"waterguard/internal/chat"
	"waterguard/internal/config"
	"waterguard/internal/llm"
	"waterguard/internal/logger"
	"waterguard/internal/storage"
)

func main() {
	if err := godotenv.Load(".env"); err != nil {
		log.Printf("Warning: .env file not found: %v", err)
	}

	cfg, err := config.Load()
	if err == nil {
		err = cfg.ValidateLLM()
	}
	if err != nil {
		log.Fatalf("❌ invalid configuration: %v", err)
	}
	// zap's development config writes to stderr, leaving stdout to the transport
	zl, err := logger.New(cfg.LogLevel, cfg.LogFormat)
	if err != nil {
		log.Fatalf("❌ failed to init logger: %v", err)
	}
	defer func() { _ = zl.Sync() }()

	ctx := context.Background()
	client, err := llm.NewFactory(cfg).CreateClient(ctx, string(cfg.LLMProvider))
	if err != nil {
		zl.Fatal("failed to create llm client", zap.Error(err))
	}

	var rec storage.Recorder
	if fr, err := storage.NewChatRecorder(cfg.ChatLogPath); err == nil {
		rec = fr
	} else {
		zl.Warn("chat log unavailable", zap.Error(err))
	}
	store := storage.NewStore(cfg.UsersFilePath, cfg.BookingsFilePath, zl, nil)

	tools := &AquaBotTools{
		chat:    chat.New(client, chat.WithRecorder(rec), chat.WithTimeout(cfg.ModelTimeout), chat.WithLogger(zl)),
		reports: analytics.NewReporter(store, rec, nil, nil, "", zl),
		now:     time.Now,
	}

	server := mcp.NewServer(&mcp.Implementation{
		Name:    "waterguard-aquabot-mcp",
		Version: "1.0.0",
	}, nil)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "ask_aquabot",
		Description: "Asks AquaBot, a water sanitation expert, and returns the answer as bullet points",
	}, tools.AskAquaBot)
	mcp.AddTool(server, &mcp.Tool{
		Name:        "records_summary",
		Description: "Summarises signups, kit bookings and AquaBot questions for one day",
	}, tools.RecordsSummary)

	zl.Info("starting aquabot mcp server on stdio", zap.Strings("tools", []string{"ask_aquabot", "records_summary"}))
	if err := server.Run(ctx, mcp.NewStdioTransport()); err != nil {
		zl.Fatal("mcp server failed", zap.Error(err))
	}
}
