package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Port string

	// Object storage gateway
	BlobstoreURL    string
	BlobstoreAPIKey string
	BlobstoreBucket string

	// Proofing metadata database. Empty disables persistence.
	DatabaseURL string

	// Auth
	ProofdAPIKey string

	// Semantic judge
	AnthropicBaseURL string
	AnthropicAPIKey  string
	AnthropicModel   string

	// Mail relay
	MailRelayURL    string
	MailRelayAPIKey string
	MailSender      string
	MailBcc         []string

	// Worker pool
	WorkerCount        int
	MaxQueueSize       int
	MaxConcurrentJudge int

	// Upload limits
	MaxUploadBytes int64

	// Job state
	JobTTL time.Duration

	// Checklist definitions (YAML). Empty uses the built-in defaults.
	ChecklistPath string
}

func Load() Config {
	// A local .env is a convenience for development; absence is not an error.
	_ = godotenv.Load()

	cfg := Config{
		Port: envOr("PORT", "8090"),

		BlobstoreURL:    envOr("BLOBSTORE_URL", "http://localhost:9000"),
		BlobstoreAPIKey: os.Getenv("BLOBSTORE_API_KEY"),
		BlobstoreBucket: envOr("BLOBSTORE_BUCKET", "proofing-output"),

		DatabaseURL: os.Getenv("DATABASE_URL"),

		ProofdAPIKey: os.Getenv("PROOFD_API_KEY"),

		AnthropicBaseURL: envOr("ANTHROPIC_BASE_URL", "https://api.anthropic.com"),
		AnthropicAPIKey:  os.Getenv("ANTHROPIC_API_KEY"),
		AnthropicModel:   envOr("ANTHROPIC_MODEL", "claude-3-sonnet-20240229"),

		MailRelayURL:    envOr("MAIL_RELAY_URL", "http://localhost:8025"),
		MailRelayAPIKey: os.Getenv("MAIL_RELAY_API_KEY"),
		MailSender:      envOr("MAIL_SENDER", "digital.validation@metrosafety.co.uk"),
		MailBcc:         envList("MAIL_BCC"),

		WorkerCount:        envInt("WORKER_COUNT", 4),
		MaxQueueSize:       envInt("MAX_QUEUE_SIZE", 100),
		MaxConcurrentJudge: envInt("MAX_CONCURRENT_JUDGE", 5),

		MaxUploadBytes: envInt64("MAX_UPLOAD_BYTES", 52428800), // 50MB

		JobTTL: envDuration("JOB_TTL", 1*time.Hour),

		ChecklistPath: os.Getenv("CHECKLIST_CONFIG"),
	}

	if cfg.WorkerCount <= 0 {
		cfg.WorkerCount = 4
	}
	if cfg.MaxQueueSize <= 0 {
		cfg.MaxQueueSize = 100
	}
	if cfg.MaxConcurrentJudge <= 0 {
		cfg.MaxConcurrentJudge = 5
	}
	if cfg.MaxUploadBytes <= 0 {
		cfg.MaxUploadBytes = 52428800
	}
	if cfg.JobTTL <= 0 {
		cfg.JobTTL = 1 * time.Hour
	}

	return cfg
}

func (c Config) Validate() error {
	if c.BlobstoreAPIKey == "" {
		return fmt.Errorf("BLOBSTORE_API_KEY is required")
	}
	if c.ProofdAPIKey == "" {
		return fmt.Errorf("PROOFD_API_KEY is required")
	}
	if c.AnthropicAPIKey == "" {
		return fmt.Errorf("ANTHROPIC_API_KEY is required")
	}
	return nil
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func envInt64(key string, fallback int64) int64 {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil {
			return n
		}
	}
	return fallback
}

func envDuration(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}

func envList(key string) []string {
	v := os.Getenv(key)
	if v == "" {
		return nil
	}
	var out []string
	for _, part := range strings.Split(v, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
