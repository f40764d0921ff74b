package infra

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// Config represents application configuration loaded from environment variables.
type Config struct {
	AppEnv string
	Port   string

	// Remote platform.
	APIBaseURL   string
	ClientID     string
	ClientSecret string
	Campaign     string
	Currency     string

	// Push channel. Both must be present for push-assisted mode.
	WebhookSecret string
	WebhookID     string

	AllowedOrigins []string

	HTTPReadTimeout  time.Duration
	HTTPWriteTimeout time.Duration
	HTTPIdleTimeout  time.Duration

	MetadataInterval time.Duration
	HistoryInterval  time.Duration
	RecentInterval   time.Duration
}

// LoadConfig loads configuration from environment variables and applies
// defaults where needed. Missing credentials are not an error here: absent
// campaign or webhook settings disable features further up, they never crash
// the process.
func LoadConfig() (*Config, error) {
	cfg := &Config{
		AppEnv:           getEnv("APP_ENV", "development"),
		Port:             getEnv("PORT", "8080"),
		APIBaseURL:       getEnv("TILTIFY_API_BASE_URL", "https://v5api.tiltify.com"),
		ClientID:         os.Getenv("TILTIFY_CLIENT_ID"),
		ClientSecret:     os.Getenv("TILTIFY_CLIENT_SECRET"),
		Campaign:         os.Getenv("TILTIFY_CAMPAIGN"),
		Currency:         getEnv("CAMPAIGN_CURRENCY", "USD"),
		WebhookSecret:    os.Getenv("TILTIFY_WEBHOOK_SECRET"),
		WebhookID:        os.Getenv("TILTIFY_WEBHOOK_ID"),
		AllowedOrigins:   splitCSV(getEnv("ALLOWED_ORIGINS", "http://localhost:9090")),
		HTTPReadTimeout:  time.Second * time.Duration(getEnvInt("HTTP_READ_TIMEOUT_SECONDS", 15)),
		HTTPWriteTimeout: time.Second * time.Duration(getEnvInt("HTTP_WRITE_TIMEOUT_SECONDS", 30)),
		HTTPIdleTimeout:  time.Second * time.Duration(getEnvInt("HTTP_IDLE_TIMEOUT_SECONDS", 60)),
		MetadataInterval: time.Second * time.Duration(getEnvInt("METADATA_POLL_SECONDS", 120)),
		HistoryInterval:  time.Second * time.Duration(getEnvInt("HISTORY_REFRESH_SECONDS", 900)),
		RecentInterval:   time.Second * time.Duration(getEnvInt("RECENT_POLL_SECONDS", 5)),
	}
	return cfg, nil
}

// CampaignConfigured reports whether the engine feature can run at all.
func (c *Config) CampaignConfigured() bool {
	return c.Campaign != "" && c.ClientID != "" && c.ClientSecret != ""
}

// PushEnabled reports whether webhook credentials allow push-assisted mode.
func (c *Config) PushEnabled() bool {
	return c.WebhookSecret != "" && c.WebhookID != ""
}

func getEnv(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return fallback
}

func splitCSV(v string) []string {
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
