package config

import (
	"log"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	APIURL      string
	APIPort     string
	LoginPath   string
	HTTPTimeout time.Duration

	StatePath  string
	SessionKey string

	// RedisAddr switches session storage from the local file to Redis.
	RedisAddr     string
	RedisPassword string
	RedisDB       int

	ListenAddr string
	LogLevel   string

	KafkaBrokers []string
	KafkaTopic   string

	SearchDebounce time.Duration
}

// BaseURL joins the API host and port the way the deployment hands them out.
func (c Config) BaseURL() string {
	host := strings.TrimRight(c.APIURL, "/")
	if c.APIPort == "" {
		return host
	}
	return host + ":" + c.APIPort
}

func Load() Config {
	if err := godotenv.Load(".env"); err != nil && !os.IsNotExist(err) {
		log.Printf("Notice: .env file not loaded: %v. Using system environment variables", err)
	}

	return Config{
		APIURL:      EnvDefault("APP_API_URL", "http://localhost"),
		APIPort:     EnvDefault("APP_API_PORT", "8080"),
		LoginPath:   EnvDefault("APP_LOGIN_PATH", "/auth/login"),
		HTTPTimeout: EnvDurationDefault("APP_HTTP_TIMEOUT", 0),

		StatePath:  EnvDefault("APP_STATE_PATH", defaultStatePath()),
		SessionKey: os.Getenv("APP_SESSION_KEY"),

		RedisAddr:     os.Getenv("APP_REDIS_ADDR"),
		RedisPassword: os.Getenv("APP_REDIS_PASSWORD"),
		RedisDB:       EnvIntDefault("APP_REDIS_DB", 0),

		ListenAddr: EnvDefault("APP_LISTEN_ADDR", ":3000"),
		LogLevel:   EnvDefault("APP_LOG_LEVEL", "info"),

		KafkaBrokers: CSV(os.Getenv("APP_KAFKA_BROKERS")),
		KafkaTopic:   EnvDefault("APP_KAFKA_TOPIC", "study_events"),

		SearchDebounce: EnvDurationDefault("APP_SEARCH_DEBOUNCE", 500*time.Millisecond),
	}
}

func defaultStatePath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "mindmates.db"
	}
	return filepath.Join(home, ".mindmates", "state.db")
}

func CSV(v string) []string {
	if v == "" {
		return nil
	}
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}

func EnvDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func EnvIntDefault(key string, def int) int {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return n
}

func EnvDurationDefault(key string, def time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return def
	}
	return d
}
