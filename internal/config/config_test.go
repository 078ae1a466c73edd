package config

import (
	"strings"
	"testing"
	"time"
)

func TestNew_Defaults(t *testing.T) {
	t.Setenv("GOOGLE_API_KEY", "key")
	t.Setenv("SENDER_EMAIL", "team@waterguard.test")
	t.Setenv("SENDER_PASS", "app-pass")

	cfg, err := New()
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	if cfg.LLMProvider != ProviderGemini {
		t.Fatalf("provider: %s", cfg.LLMProvider)
	}
	if cfg.GeminiModel != "gemini-1.5-flash-latest" {
		t.Fatalf("model: %s", cfg.GeminiModel)
	}
	if cfg.Temperature != 0.4 {
		t.Fatalf("temperature: %v", cfg.Temperature)
	}
	if cfg.SMTPHost != "smtp.gmail.com" || cfg.SMTPPort != 465 {
		t.Fatalf("smtp: %s:%d", cfg.SMTPHost, cfg.SMTPPort)
	}
	if cfg.UsersFilePath != "data/users.json" || cfg.BookingsFilePath != "data/bookings.json" {
		t.Fatalf("paths: %s %s", cfg.UsersFilePath, cfg.BookingsFilePath)
	}
	if cfg.ModelTimeout != 0*time.Second {
		t.Fatalf("timeout: %v", cfg.ModelTimeout)
	}
	if len(cfg.CORSAllowedOrigins) != 1 || cfg.CORSAllowedOrigins[0] != "*" {
		t.Fatalf("cors: %v", cfg.CORSAllowedOrigins)
	}
	if cfg.TelegramEnabled() {
		t.Fatalf("telegram should be disabled without token")
	}
}

func TestNew_MissingCredentials(t *testing.T) {
	t.Setenv("GOOGLE_API_KEY", "")
	t.Setenv("SENDER_EMAIL", "")
	t.Setenv("SENDER_PASS", "")

	_, err := New()
	if err == nil {
		t.Fatalf("expected error")
	}
	for _, want := range []string{"GOOGLE_API_KEY", "SENDER_EMAIL", "SENDER_PASS"} {
		if !strings.Contains(err.Error(), want) {
			t.Fatalf("error %q does not mention %s", err, want)
		}
	}
}

func TestValidate_GmailTransport(t *testing.T) {
	cfg := &Config{
		LLMProvider:   ProviderOpenAI,
		OpenAIAPIKey:  "sk",
		MailTransport: TransportGmail,
		SenderEmail:   "team@waterguard.test",
	}
	if err := cfg.Validate(); err == nil || !strings.Contains(err.Error(), "GMAIL_REFRESH_TOKEN") {
		t.Fatalf("want gmail error, got %v", err)
	}
	cfg.GmailCredentialsJSON = "{}"
	cfg.GmailRefreshToken = "rt"
	if err := cfg.Validate(); err != nil {
		t.Fatalf("unexpected: %v", err)
	}
}

func TestValidate_UnknownProvider(t *testing.T) {
	cfg := &Config{LLMProvider: "claude", MailTransport: TransportSES, SenderEmail: "a@b.c"}
	if err := cfg.Validate(); err == nil || !strings.Contains(err.Error(), "unknown llm provider") {
		t.Fatalf("want provider error, got %v", err)
	}
}

func TestLoad_SkipsValidation(t *testing.T) {
	t.Setenv("GOOGLE_API_KEY", "key")
	t.Setenv("SENDER_EMAIL", "")
	t.Setenv("SENDER_PASS", "")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if err := cfg.ValidateLLM(); err != nil {
		t.Fatalf("llm config should be valid: %v", err)
	}
	if err := cfg.ValidateMail(); err == nil {
		t.Fatalf("mail config should be invalid")
	}
	if cfg.SiteURL != "https://your-waterguard-site.com" {
		t.Fatalf("site url: %s", cfg.SiteURL)
	}
}
