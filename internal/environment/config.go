package environment

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"strings"

	"github.com/joho/godotenv"
)

const DefaultAwsRegion = "eu-central-1"

type EnvConfig struct {
	NatsUrl      string
	ResultSqsUrl string
	AwsRegion    string
	// Directory for downloaded runtime tables; empty means the XDG cache
	CacheDir string
	LogLevel slog.Level
}

// ReadEnvConfig loads the given .env files, or ".env" when none are named,
// then reads the configuration from the environment. Only the implicit .env
// may be missing; variables already set take precedence over file values.
func ReadEnvConfig(files ...string) (*EnvConfig, error) {
	if len(files) == 0 {
		if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, err
		}
	} else if err := godotenv.Load(files...); err != nil {
		return nil, fmt.Errorf("failed to load env files: %w", err)
	}

	result := &EnvConfig{
		NatsUrl:      os.Getenv("NATS_URL"),
		ResultSqsUrl: os.Getenv("RESULT_SQS_URL"),
		AwsRegion:    os.Getenv("AWS_REGION"),
		CacheDir:     os.Getenv("PORTFOLIO_CACHE_DIR"),
	}
	if result.AwsRegion == "" {
		result.AwsRegion = DefaultAwsRegion
	}
	if lvl := os.Getenv("LOG_LEVEL"); lvl != "" {
		if err := result.LogLevel.UnmarshalText([]byte(strings.ToUpper(lvl))); err != nil {
			return nil, err
		}
	}
	return result, nil
}
