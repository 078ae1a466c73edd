package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/caarlos0/env/v6"
)

type LLMProvider string

const (
	ProviderGemini LLMProvider = "gemini"
	ProviderOpenAI LLMProvider = "openai"
	ProviderYandex LLMProvider = "yandex"
)

type MailTransport string

const (
	TransportSMTP  MailTransport = "smtp"
	TransportGmail MailTransport = "gmail"
	TransportSES   MailTransport = "ses"
)

type Config struct {
	// HTTP
	HTTPAddr           string   `env:"HTTP_ADDR" envDefault:":5000"`
	CORSAllowedOrigins []string `env:"CORS_ALLOWED_ORIGINS" envSeparator:"," envDefault:"*"`

	// Logging
	LogLevel  string `env:"LOG_LEVEL" envDefault:"info"`
	LogFormat string `env:"LOG_FORMAT" envDefault:"console"`

	// LLM settings
	LLMProvider    LLMProvider   `env:"LLM_PROVIDER" envDefault:"gemini"`
	GoogleAPIKey   string        `env:"GOOGLE_API_KEY"`
	GeminiModel    string        `env:"GEMINI_MODEL" envDefault:"gemini-1.5-flash-latest"`
	Temperature    float32       `env:"LLM_TEMPERATURE" envDefault:"0.4"`
	ModelTimeout   time.Duration `env:"MODEL_TIMEOUT" envDefault:"0s"`
	OpenAIAPIKey   string        `env:"OPENAI_API_KEY"`
	OpenAIBaseURL  string        `env:"OPENAI_BASE_URL"`
	OpenAIModel    string        `env:"OPENAI_MODEL" envDefault:"gpt-4o-mini"`
	YandexOAuth    string        `env:"YANDEX_OAUTH_TOKEN"`
	YandexFolderID string        `env:"YANDEX_FOLDER_ID"`

	// OpenRouter (optional)
	OpenRouterReferrer string `env:"OPENROUTER_REFERRER"`
	OpenRouterTitle    string `env:"OPENROUTER_TITLE"`

	// Mail
	MailTransport        MailTransport `env:"MAIL_TRANSPORT" envDefault:"smtp"`
	SenderEmail          string        `env:"SENDER_EMAIL"`
	SenderPass           string        `env:"SENDER_PASS"`
	SMTPHost             string        `env:"SMTP_HOST" envDefault:"smtp.gmail.com"`
	SMTPPort             int           `env:"SMTP_PORT" envDefault:"465"`
	GmailCredentialsJSON string        `env:"GMAIL_CREDENTIALS_JSON"`
	GmailRefreshToken    string        `env:"GMAIL_REFRESH_TOKEN"`
	AWSRegion            string        `env:"AWS_REGION" envDefault:"us-east-1"`
	SiteURL              string        `env:"SITE_URL" envDefault:"https://your-waterguard-site.com"`

	// Storage
	UsersFilePath    string `env:"USERS_FILE_PATH" envDefault:"data/users.json"`
	BookingsFilePath string `env:"BOOKINGS_FILE_PATH" envDefault:"data/bookings.json"`
	ChatLogPath      string `env:"CHAT_LOG_PATH" envDefault:"data/chat_log.jsonl"`

	// Admin notifications and reports
	TelegramBotToken string `env:"TELEGRAM_BOT_TOKEN"`
	AdminChatID      int64  `env:"ADMIN_CHAT_ID"`
	AdminSNSTopicARN string `env:"ADMIN_SNS_TOPIC_ARN"`
	ReportCron       string `env:"REPORT_CRON" envDefault:"0 21 * * *"`
	ReportEmail      string `env:"REPORT_EMAIL"`
}

// New reads the environment and checks that the credentials required by the
// selected model provider and mail transport are present.
func New() (*Config, error) {
	cfg, err := Load()
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Load reads the environment without checking credentials.
func Load() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	return cfg, nil
}

func (c *Config) Validate() error {
	return errors.Join(c.ValidateLLM(), c.ValidateMail())
}

func (c *Config) ValidateLLM() error {
	switch c.LLMProvider {
	case ProviderGemini:
		if c.GoogleAPIKey == "" {
			return errors.New("GOOGLE_API_KEY not found in environment")
		}
	case ProviderOpenAI:
		if c.OpenAIAPIKey == "" {
			return errors.New("OPENAI_API_KEY not found in environment")
		}
	case ProviderYandex:
		if c.YandexOAuth == "" || c.YandexFolderID == "" {
			return errors.New("YANDEX_OAUTH_TOKEN and YANDEX_FOLDER_ID are required")
		}
	default:
		return fmt.Errorf("unknown llm provider: %s", c.LLMProvider)
	}
	return nil
}

func (c *Config) ValidateMail() error {
	var errs []error
	if c.SenderEmail == "" {
		errs = append(errs, errors.New("SENDER_EMAIL not found in environment"))
	}
	switch c.MailTransport {
	case TransportSMTP:
		if c.SenderPass == "" {
			errs = append(errs, errors.New("SENDER_PASS not found in environment"))
		}
	case TransportGmail:
		if c.GmailCredentialsJSON == "" || c.GmailRefreshToken == "" {
			errs = append(errs, errors.New("GMAIL_CREDENTIALS_JSON and GMAIL_REFRESH_TOKEN are required"))
		}
	case TransportSES:
	default:
		errs = append(errs, fmt.Errorf("unknown mail transport: %s", c.MailTransport))
	}
	return errors.Join(errs...)
}

// TelegramEnabled reports whether admin notifications can be delivered.
func (c *Config) TelegramEnabled() bool {
	return c.TelegramBotToken != "" && c.AdminChatID != 0
}
