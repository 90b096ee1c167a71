package main

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/k1ngsalm0n/pomodoro-plant/go/internal/dbconfig"
	"github.com/k1ngsalm0n/pomodoro-plant/go/internal/timer"
)

// Store backends
const (
	storePostgres = "postgres"
	storeMemory   = "memory"
)

// devSecret signs tokens when JWT_SECRET is unset and the memory store is used
const devSecret = "pomodoro-plant-dev-secret"

type Config struct {
	Port        string
	JWTSecret   string
	Store       string
	Database    dbconfig.Config
	AutoMigrate bool
	NatsURL     string
	CORSOrigins []string
	LogLevel    string
	LogFormat   string
	Timer       timer.Config
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolValue, err := strconv.ParseBool(value); err == nil {
			return boolValue
		}
	}
	return defaultValue
}

func getEnvAsList(key string, defaultValue []string) []string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	var out []string
	for _, part := range strings.Split(value, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func loadConfig() (*Config, error) {
	defaults := timer.DefaultConfig()
	cfg := &Config{
		Port:        getEnv("PORT", "5001"),
		JWTSecret:   os.Getenv("JWT_SECRET"),
		Store:       getEnv("STORE", storePostgres),
		Database:    dbconfig.NewConfigFromEnv(),
		AutoMigrate: getEnvAsBool("AUTO_MIGRATE", false),
		NatsURL:     os.Getenv("NATS_URL"),
		CORSOrigins: getEnvAsList("CORS_ORIGINS", []string{"*"}),
		LogLevel:    getEnv("LOG_LEVEL", "info"),
		LogFormat:   getEnv("LOG_FORMAT", "console"),
		Timer: timer.Config{
			StudySeconds:      getEnvAsInt("POMODORO_STUDY_SECONDS", defaults.StudySeconds),
			ShortBreakSeconds: getEnvAsInt("POMODORO_SHORT_BREAK_SECONDS", defaults.ShortBreakSeconds),
			LongBreakSeconds:  getEnvAsInt("POMODORO_LONG_BREAK_SECONDS", defaults.LongBreakSeconds),
			CycleLength:       getEnvAsInt("POMODORO_CYCLE_LENGTH", defaults.CycleLength),
		},
	}

	switch cfg.Store {
	case storePostgres:
		if cfg.JWTSecret == "" {
			return nil, fmt.Errorf("JWT_SECRET environment variable is required")
		}
	case storeMemory:
		if cfg.JWTSecret == "" {
			cfg.JWTSecret = devSecret
		}
	default:
		return nil, fmt.Errorf("unknown STORE %q, want %s or %s", cfg.Store, storePostgres, storeMemory)
	}

	if err := cfg.Timer.Validate(); err != nil {
		return nil, fmt.Errorf("invalid pomodoro durations: %w", err)
	}
	return cfg, nil
}
