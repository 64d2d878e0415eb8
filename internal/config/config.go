// Package config loads process-wide settings once at start-up. Values are
// injected into the components that need them; nothing reads the environment
// after Load returns.
package config

import (
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	defaultHTTPAddr        = ":8080"
	defaultTelegramAPIURL  = "https://api.telegram.org"
	defaultKommoBaseURL    = "https://stroyexpert.kommo.com/api/v4"
	defaultSubmitTimeout   = 10 * time.Second
	defaultMailPort        = 587
	defaultLeadRateLimit   = 10
	defaultStaleLeadWindow = 15 * time.Minute
)

// Telegram holds the notification endpoint credentials.
type Telegram struct {
	BotToken string
	ChatID   string
	APIURL   string
}

// Configured reports whether both credentials are present. It does not check
// that they are valid; the API does that on first use.
func (t Telegram) Configured() bool {
	return t.BotToken != "" && t.ChatID != ""
}

type Kommo struct {
	APIToken string
	BaseURL  string
}

type Mail struct {
	Host     string
	Port     int
	User     string
	Password string
	From     string
	To       string
}

func (m Mail) Enabled() bool {
	return m.Host != "" && m.To != ""
}

type Config struct {
	Env             string
	HTTPAddr        string
	CORSOrigins     []string
	LeadRateLimit   int  // requests per minute per client IP
	TrustProxy      bool // take the client IP from X-Forwarded-For / X-Real-IP
	SubmitTimeout   time.Duration
	StaleLeadWindow time.Duration

	DatabaseURL string
	AMQPURL     string

	Telegram Telegram
	Kommo    Kommo
	Mail     Mail
}

// Load reads .env (if any) and the process environment.
func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("⚠️ .env not found, using system environment")
	}
	return FromEnv()
}

// FromEnv builds a Config from the current environment only.
func FromEnv() *Config {
	cfg := &Config{
		Env:             getEnv("APP_ENV", "development"),
		HTTPAddr:        getEnv("HTTP_ADDR", defaultHTTPAddr),
		CORSOrigins:     splitList(getEnv("CORS_ORIGINS", "*")),
		LeadRateLimit:   getInt("LEAD_RATE_LIMIT", defaultLeadRateLimit),
		TrustProxy:      getBool("TRUST_PROXY"),
		SubmitTimeout:   getDuration("SUBMIT_TIMEOUT", defaultSubmitTimeout),
		StaleLeadWindow: getDuration("STALE_LEAD_WINDOW", defaultStaleLeadWindow),

		DatabaseURL: os.Getenv("DATABASE_URL"),
		AMQPURL:     os.Getenv("AMQP_URL"),

		Telegram: Telegram{
			BotToken: os.Getenv("TELEGRAM_BOT_TOKEN"),
			ChatID:   os.Getenv("TELEGRAM_CHAT_ID"),
			APIURL:   strings.TrimRight(getEnv("TELEGRAM_API_URL", defaultTelegramAPIURL), "/"),
		},
		Kommo: Kommo{
			APIToken: os.Getenv("KOMMO_API_TOKEN"),
			BaseURL:  strings.TrimRight(getEnv("KOMMO_BASE_URL", defaultKommoBaseURL), "/"),
		},
		Mail: Mail{
			Host:     os.Getenv("MAIL_HOST"),
			Port:     getInt("MAIL_PORT", defaultMailPort),
			User:     os.Getenv("MAIL_USER"),
			Password: os.Getenv("MAIL_PASS"),
			From:     getEnv("MAIL_FROM", "no-reply@stroyexpert.ru"),
			To:       os.Getenv("MAIL_TO"),
		},
	}

	// A lead still being submitted must never look stale to the sweeper.
	if cfg.StaleLeadWindow <= cfg.SubmitTimeout {
		window := cfg.SubmitTimeout + time.Minute
		log.Printf("⚠️ STALE_LEAD_WINDOW %s is not above SUBMIT_TIMEOUT %s, using %s",
			cfg.StaleLeadWindow, cfg.SubmitTimeout, window)
		cfg.StaleLeadWindow = window
	}
	return cfg
}

func getEnv(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}

func getBool(key string) bool {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return false
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		log.Printf("⚠️ invalid %s (%q), using false", key, v)
		return false
	}
	return b
}

func getInt(key string, fallback int) int {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil || n <= 0 {
		log.Printf("⚠️ invalid %s (%q), using %d", key, v, fallback)
		return fallback
	}
	return n
}

func getDuration(key string, fallback time.Duration) time.Duration {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return fallback
	}
	d, err := time.ParseDuration(v)
	if err != nil || d <= 0 {
		log.Printf("⚠️ invalid %s (%q), using %s", key, v, fallback)
		return fallback
	}
	return d
}

func splitList(v string) []string {
	var out []string
	for _, part := range strings.Split(v, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
