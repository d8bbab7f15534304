package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

type Config struct {
	Port string

	// Auth
	APIKey string

	// Worker pool
	WorkerCount  int
	MaxQueueSize int

	// Upload limits
	MaxUploadBytes int64

	// Output artifacts
	OutputDir   string
	ArtifactTTL time.Duration

	// Job state
	JobTTL time.Duration

	// Packaging defaults
	PassPercentage int

	// Placeholder image dimensions; the document packages do not carry
	// usable pixel sizes.
	ImageWidth  int
	ImageHeight int
}

func Load() Config {
	cfg := Config{
		Port: envOr("PORT", "8091"),

		APIKey: os.Getenv("H5PGEN_API_KEY"),

		WorkerCount:  envInt("WORKER_COUNT", 4),
		MaxQueueSize: envInt("MAX_QUEUE_SIZE", 100),

		MaxUploadBytes: envInt64("MAX_UPLOAD_BYTES", 52428800), // 50MB

		OutputDir:   envOr("OUTPUT_DIR", "./output"),
		ArtifactTTL: envDuration("ARTIFACT_TTL", 0), // 0 = keep forever

		JobTTL: envDuration("JOB_TTL", 1*time.Hour),

		PassPercentage: envInt("PASS_PERCENTAGE", 50),

		ImageWidth:  envInt("IMAGE_WIDTH", 600),
		ImageHeight: envInt("IMAGE_HEIGHT", 400),
	}

	if cfg.WorkerCount <= 0 {
		cfg.WorkerCount = 4
	}
	if cfg.MaxQueueSize <= 0 {
		cfg.MaxQueueSize = 100
	}
	if cfg.MaxUploadBytes <= 0 {
		cfg.MaxUploadBytes = 52428800
	}
	if cfg.JobTTL <= 0 {
		cfg.JobTTL = 1 * time.Hour
	}
	if cfg.PassPercentage <= 0 || cfg.PassPercentage > 100 {
		cfg.PassPercentage = 50
	}
	if cfg.ImageWidth <= 0 {
		cfg.ImageWidth = 600
	}
	if cfg.ImageHeight <= 0 {
		cfg.ImageHeight = 400
	}

	return cfg
}

func (c Config) Validate() error {
	if c.APIKey == "" {
		return fmt.Errorf("H5PGEN_API_KEY is required")
	}
	if c.OutputDir == "" {
		return fmt.Errorf("OUTPUT_DIR must not be empty")
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
