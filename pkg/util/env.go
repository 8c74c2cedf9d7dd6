package util

import (
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cast"
)

// LoadEnv loads environment files for the given APP_ENV. A missing
// environment-specific file is not an error as long as a plain .env exists;
// in containerized deployments neither file may exist and the process
// environment is used as-is.
func LoadEnv(env string) error {
	envErr := godotenv.Load(fmt.Sprintf(".env.%s", env))
	baseErr := godotenv.Load(".env")
	if envErr != nil && baseErr != nil {
		return fmt.Errorf("no .env.%s or .env file found", env)
	}
	return nil
}

func GetEnv(key string) string {
	return os.Getenv(key)
}

// GetEnvDefault returns the value of key or def when key is unset or empty.
func GetEnvDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func GetIntEnv(key string) int64 {
	return cast.ToInt64(os.Getenv(key))
}

func GetBoolEnv(key string) bool {
	return cast.ToBool(os.Getenv(key))
}

// GetDurationEnv parses values like "5m" or "30s"; zero when unset or invalid.
func GetDurationEnv(key string) time.Duration {
	return cast.ToDuration(os.Getenv(key))
}
