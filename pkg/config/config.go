package config

import (
	"log"
	"os"

	"prepared/pkg/cache"
	"prepared/pkg/logger"
	"prepared/pkg/util"
)

type Config struct {
	Addr      string `env:"ADDR"`
	Mode      string `env:"MODE"`
	APIPrefix string `env:"API_PREFIX"`
	DBDriver  string `env:"DB_DRIVER"`
	DSN       string `env:"DSN"`
	Log       logger.LogConfig
	Cache     cache.Config

	// SweepSchedule is a cron expression for the periodic pass that
	// re-reconciles every active emergency; empty disables the sweep.
	SweepSchedule string `env:"SWEEP_SCHEDULE"`

	// ReconcileWorkers bounds the per-pass write fan-out.
	ReconcileWorkers int `env:"RECONCILE_WORKERS"`

	// AffectedCacheTTL bounds staleness of the affected-emergencies
	// read-side cache.
	AffectedCacheTTL string `env:"AFFECTED_CACHE_TTL"`
}

var GlobalConfig *Config

func Load() error {
	env := os.Getenv("APP_ENV")
	if env == "" {
		env = "development"
	}
	if err := util.LoadEnv(env); err != nil {
		log.Printf("Failed to load .env file: %v", err)
	}

	GlobalConfig = &Config{
		Addr:      util.GetEnvDefault("ADDR", ":8080"),
		Mode:      util.GetEnv("MODE"),
		APIPrefix: util.GetEnvDefault("API_PREFIX", "/api"),
		DBDriver:  util.GetEnv("DB_DRIVER"),
		DSN:       util.GetEnv("DSN"),
		Log: logger.LogConfig{
			Level:      util.GetEnv("LOG_LEVEL"),
			Filename:   util.GetEnv("LOG_FILENAME"),
			MaxSize:    int(util.GetIntEnv("LOG_MAX_SIZE")),
			MaxAge:     int(util.GetIntEnv("LOG_MAX_AGE")),
			MaxBackups: int(util.GetIntEnv("LOG_MAX_BACKUPS")),
		},
		Cache: cache.Config{
			Type: util.GetEnv("CACHE_TYPE"),
			Redis: cache.RedisConfig{
				Addr:         util.GetEnv("REDIS_ADDR"),
				Password:     util.GetEnv("REDIS_PASSWORD"),
				DB:           int(util.GetIntEnv("REDIS_DB")),
				PoolSize:     int(util.GetIntEnv("REDIS_POOL_SIZE")),
				MinIdleConns: int(util.GetIntEnv("REDIS_MIN_IDLE_CONNS")),
				DialTimeout:  util.GetDurationEnv("REDIS_DIAL_TIMEOUT"),
				ReadTimeout:  util.GetDurationEnv("REDIS_READ_TIMEOUT"),
				WriteTimeout: util.GetDurationEnv("REDIS_WRITE_TIMEOUT"),
			},
			Local: cache.LocalConfig{
				DefaultExpiration: util.GetDurationEnv("LOCAL_CACHE_DEFAULT_EXPIRATION"),
				CleanupInterval:   util.GetDurationEnv("LOCAL_CACHE_CLEANUP_INTERVAL"),
			},
		},
		SweepSchedule:    util.GetEnv("SWEEP_SCHEDULE"),
		ReconcileWorkers: int(util.GetIntEnv("RECONCILE_WORKERS")),
		AffectedCacheTTL: util.GetEnv("AFFECTED_CACHE_TTL"),
	}
	return nil
}
