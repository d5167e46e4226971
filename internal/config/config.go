package config

import (
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	App         AppConfig
	Database    DatabaseConfig
	Auth        AuthConfig
	SMTP        SMTPConfig
	Storage     StorageConfig
	Stripe      StripeConfig
	Ai          AIConfig
	Grounding   GroundingConfig
	Translation TranslationConfig
}

type AppConfig struct {
	Port               string
	BaseURL            string
	ClientURL          string
	Environment        string
	LogFilePath        string
	ReminderLogPath    string
	CorsAllowedOrigins string
	NatsURL            string
	RedisURL           string
	CronSecret         string
	OtelEnabled        bool
}

func (a AppConfig) IsProduction() bool {
	return a.Environment == "production"
}

type DatabaseConfig struct {
	Connection string
	Verbose    bool
}

type AuthConfig struct {
	// JWTSecret verifies Supabase access tokens (HS256).
	JWTSecret string
}

type SMTPConfig struct {
	Host              string
	Port              int
	Username          string
	Password          string
	ReminderFromEmail string
	ContactFromEmail  string
	ReceiptFromEmail  string
}

type StorageConfig struct {
	Endpoint        string
	Region          string
	AccessKeyID     string
	SecretAccessKey string
	EvidenceBucket  string
	PacketBucket    string
	SignedURLTTL    time.Duration
}

type StripeConfig struct {
	SecretKey     string
	WebhookSecret string
	Prices        StripePrices
}

type StripePrices struct {
	CaseStarter       string
	CaseComplete      string
	CasePremium       string
	MembershipMonthly string
	Upsells           map[string]string
}

type AIConfig struct {
	LLMProvider     string
	APIKey          string
	BaseURL         string
	Model           string
	TranscribeModel string
}

type GroundingConfig struct {
	DailyCap     int
	CacheTTL     time.Duration
	Timeout      time.Duration
	AllowedHosts []string
}

type TranslationConfig struct {
	APIKey   string
	Endpoint string
}

const defaultAllowedHosts = "uscis.gov,travel.state.gov,dol.gov,flag.dol.gov,ecfr.gov,federalregister.gov"

func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("Note: .env file not found, using system environment")
	}

	resendKey := getEnv("RESEND_API_KEY", "")

	return &Config{
		App: AppConfig{
			Port:               getEnv("APP_PORT", "3000"),
			BaseURL:            getEnv("APP_BASE_URL", "http://localhost:3000"),
			ClientURL:          strings.TrimRight(getEnv("CLIENT_URL", "http://localhost:5173"), "/"),
			Environment:        getEnv("GO_ENV", "development"),
			LogFilePath:        getEnv("LOG_FILE_PATH", "logs/app.log"),
			ReminderLogPath:    getEnv("REMINDER_LOG_FILE_PATH", "logs/reminders.log"),
			CorsAllowedOrigins: getEnv("CORS_ALLOWED_ORIGINS", "http://localhost:5173"),
			NatsURL:            getEnv("NATS_URL", ""),
			RedisURL:           getEnv("REDIS_URL", ""),
			CronSecret:         getEnv("CRON_SECRET", ""),
			OtelEnabled:        getEnvAsBool("OTEL_ENABLED", false),
		},
		Database: DatabaseConfig{
			Connection: getEnv("DB_CONNECTION_STRING", ""),
			Verbose:    getEnvAsBool("DB_LOG_SQL", false),
		},
		Auth: AuthConfig{
			JWTSecret: getEnv("SUPABASE_JWT_SECRET", ""),
		},
		SMTP: SMTPConfig{
			Host:              getEnv("SMTP_HOST", "smtp.resend.com"),
			Port:              getEnvAsInt("SMTP_PORT", 465),
			Username:          getEnv("SMTP_USERNAME", "resend"),
			Password:          getEnv("SMTP_PASSWORD", resendKey),
			ReminderFromEmail: getEnv("REMINDER_FROM_EMAIL", "VisaForge <reminders@popimmigration.com>"),
			ContactFromEmail:  getEnv("CONTACT_FROM_EMAIL", "Pop Immigration <no-reply@popimmigration.com>"),
			ReceiptFromEmail:  getEnv("RECEIPT_FROM_EMAIL", "VisaForge <billing@popimmigration.com>"),
		},
		Storage: StorageConfig{
			Endpoint:        getEnv("STORAGE_ENDPOINT", ""),
			Region:          getEnv("STORAGE_REGION", "us-east-1"),
			AccessKeyID:     getEnv("STORAGE_ACCESS_KEY_ID", ""),
			SecretAccessKey: getEnv("STORAGE_SECRET_ACCESS_KEY", ""),
			EvidenceBucket:  getEnv("STORAGE_EVIDENCE_BUCKET", "evidence"),
			PacketBucket:    getEnv("STORAGE_PACKET_BUCKET", "packets"),
			SignedURLTTL:    getEnvAsDuration("SIGNED_URL_TTL", 7*24*time.Hour),
		},
		Stripe: StripeConfig{
			SecretKey:     getEnv("STRIPE_SECRET_KEY", ""),
			WebhookSecret: getEnv("STRIPE_WEBHOOK_SECRET", ""),
			Prices: StripePrices{
				CaseStarter:       getEnv("STRIPE_PRICE_CASE_STARTER", ""),
				CaseComplete:      getEnv("STRIPE_PRICE_CASE_COMPLETE", ""),
				CasePremium:       getEnv("STRIPE_PRICE_CASE_PREMIUM", ""),
				MembershipMonthly: getEnv("STRIPE_PRICE_MEMBERSHIP_MONTHLY", ""),
				Upsells:           getEnvWithPrefix("STRIPE_PRICE_UPSELL_"),
			},
		},
		Ai: AIConfig{
			LLMProvider:     getEnv("LLM_PROVIDER", "openai"),
			APIKey:          getEnv("OPENAI_API_KEY", ""),
			BaseURL:         getEnv("OPENAI_BASE_URL", ""),
			Model:           getEnv("OPENAI_MODEL", "gpt-4o-mini"),
			TranscribeModel: getEnv("OPENAI_TRANSCRIBE_MODEL", "whisper-1"),
		},
		Grounding: GroundingConfig{
			DailyCap:     getEnvAsInt("GROUNDING_DAILY_CAP", 200),
			CacheTTL:     getEnvAsDuration("GROUNDING_CACHE_TTL", 5*time.Minute),
			Timeout:      getEnvAsDuration("GROUNDING_TIMEOUT", 8*time.Second),
			AllowedHosts: getEnvAsList("GROUNDING_ALLOWED_HOSTS", defaultAllowedHosts),
		},
		Translation: TranslationConfig{
			APIKey:   getEnv("JUKELINGO_API_KEY", ""),
			Endpoint: getEnv("JUKELINGO_URL", "https://api.jukelingo.com/v1/translate"),
		},
	}
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

func getEnvAsInt(key string, fallback int) int {
	strValue := getEnv(key, "")
	if value, err := strconv.Atoi(strValue); err == nil {
		return value
	}
	return fallback
}

func getEnvAsBool(key string, fallback bool) bool {
	if value, err := strconv.ParseBool(getEnv(key, "")); err == nil {
		return value
	}
	return fallback
}

func getEnvAsDuration(key string, fallback time.Duration) time.Duration {
	if value, err := time.ParseDuration(getEnv(key, "")); err == nil && value > 0 {
		return value
	}
	return fallback
}

func getEnvAsList(key, fallback string) []string {
	var out []string
	for _, item := range strings.Split(getEnv(key, fallback), ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}

// getEnvWithPrefix collects PREFIX_NAME=value pairs keyed by lowercased NAME.
func getEnvWithPrefix(prefix string) map[string]string {
	out := map[string]string{}
	for _, kv := range os.Environ() {
		k, v, ok := strings.Cut(kv, "=")
		if !ok || !strings.HasPrefix(k, prefix) || v == "" {
			continue
		}
		out[strings.ToLower(strings.TrimPrefix(k, prefix))] = v
	}
	return out
}
