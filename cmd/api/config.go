package main

import (
	"time"

	"go-chi-calculator/internal/config"
)

type appConfig struct {
	Addr            string
	LogLevel        string
	SessionTTL      time.Duration
	SweepInterval   time.Duration
	ShutdownTimeout time.Duration
	OTelLogs        bool
}

// loadConfig reads the process environment. Call config.LoadDotEnv first to
// pick up a .env file.
func loadConfig() (appConfig, error) {
	cfg := appConfig{
		Addr:     config.String("HTTP_ADDR", ":8080"),
		LogLevel: config.String("LOG_LEVEL", "info"),
	}

	sessions, err := config.LoadSessions()
	if err != nil {
		return appConfig{}, err
	}
	cfg.SessionTTL, cfg.SweepInterval = sessions.TTL, sessions.SweepInterval

	if cfg.ShutdownTimeout, err = config.Duration("SHUTDOWN_TIMEOUT", 5*time.Second); err != nil {
		return appConfig{}, err
	}
	if cfg.OTelLogs, err = config.Bool("OTEL_LOGS_ENABLED", false); err != nil {
		return appConfig{}, err
	}

	return cfg, nil
}
