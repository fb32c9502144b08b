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
	ServerAddress   string
	ShutdownTimeout time.Duration
	DBPath          string

	// Exam imported into the catalog at startup, if set.
	ExamFile  string
	ExamTitle string

	ScoringWorkers int
	CORSOrigins    []string

	// Idle answer sheets, and the ids of submitted ones, are dropped after this.
	SheetTTL time.Duration

	// Honour X-Forwarded-For / X-Real-IP. Enable only behind a proxy that
	// overwrites those headers; otherwise clients are keyed by RemoteAddr.
	TrustProxyHeaders bool

	// Requests per minute allowed per client address; 0 disables limiting.
	RateLimit int
}

func Load() *Config {
	// Load .env file if it exists
	_ = godotenv.Load()
	return &Config{
		ServerAddress:   mustGetenv("SERVER_ADDRESS"),
		ShutdownTimeout: mustGetDuration("SHUTDOWN_TIMEOUT"),
		DBPath:          getenvDefault("DB_PATH", "listening.db"),
		ExamFile:        os.Getenv("EXAM_FILE"),
		ExamTitle:       os.Getenv("EXAM_TITLE"),
		ScoringWorkers:  getenvInt("SCORING_WORKERS", 4),
		CORSOrigins:     splitList(getenvDefault("CORS_ORIGINS", "*")),
		RateLimit:       getenvNonNegative("RATE_LIMIT", 120),

		SheetTTL:          getenvDuration("SHEET_TTL", 2*time.Hour),
		TrustProxyHeaders: getenvBool("TRUST_PROXY_HEADERS", false),
	}
}

func mustGetenv(k string) string {
	v := os.Getenv(k)
	if v == "" {
		log.Fatalf("config: required environment variable %s is not set", k)
	}
	return v
}

func mustGetDuration(k string) time.Duration {
	v := os.Getenv(k)
	if v == "" {
		log.Fatalf("config: required environment variable %s is not set", k)
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		log.Fatalf("config: %s=%q is not a valid duration: %v", k, v, err)
	}
	return d
}

func getenvDefault(k, fallback string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return fallback
}

func getenvInt(k string, fallback int) int {
	v := os.Getenv(k)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil || n < 1 {
		log.Fatalf("config: %s=%q is not a positive integer", k, v)
	}
	return n
}

func getenvNonNegative(k string, fallback int) int {
	v := os.Getenv(k)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil || n < 0 {
		log.Fatalf("config: %s=%q is not a non-negative integer", k, v)
	}
	return n
}

func getenvDuration(k string, fallback time.Duration) time.Duration {
	v := os.Getenv(k)
	if v == "" {
		return fallback
	}
	d, err := time.ParseDuration(v)
	if err != nil || d <= 0 {
		log.Fatalf("config: %s=%q is not a positive duration", k, v)
	}
	return d
}

func getenvBool(k string, fallback bool) bool {
	v := os.Getenv(k)
	if v == "" {
		return fallback
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		log.Fatalf("config: %s=%q is not a boolean", k, v)
	}
	return b
}

func splitList(v string) []string {
	var out []string
	for _, s := range strings.Split(v, ",") {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}
