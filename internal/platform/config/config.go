package config

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"
)

// Server captures HTTP server level configuration.
type Server struct {
	Addr            string
	DemoMode        bool
	BatchLimit      int
	RulesFile       string
	LogLevel        slog.Level
	ShutdownTimeout time.Duration
	Tracing         Tracing
}

// Tracing configures span export. An empty Endpoint keeps tracing off.
type Tracing struct {
	Endpoint    string
	Insecure    bool
	SampleRatio float64
}

const defaultBatchLimit = 8

// FromEnv builds a Server config from environment variables so main stays lean.
func FromEnv() (Server, error) {
	cfg := Server{
		Addr:            os.Getenv("KYC_ADDR"),
		RulesFile:       strings.TrimSpace(os.Getenv("KYC_RULES_FILE")),
		BatchLimit:      defaultBatchLimit,
		ShutdownTimeout: 10 * time.Second,
		Tracing: Tracing{
			Endpoint:    strings.TrimSpace(os.Getenv("KYC_OTLP_ENDPOINT")),
			SampleRatio: 1,
		},
	}
	if cfg.Addr == "" {
		cfg.Addr = ":8080"
	}

	if v := os.Getenv("KYC_DEMO_MODE"); v != "" {
		demo, err := strconv.ParseBool(v)
		if err != nil {
			return Server{}, fmt.Errorf("KYC_DEMO_MODE: %w", err)
		}
		cfg.DemoMode = demo
	}

	if v := os.Getenv("KYC_BATCH_LIMIT"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return Server{}, fmt.Errorf("KYC_BATCH_LIMIT: %w", err)
		}
		if n <= 0 {
			return Server{}, fmt.Errorf("KYC_BATCH_LIMIT must be positive, got %d", n)
		}
		cfg.BatchLimit = n
	}

	if v := os.Getenv("KYC_LOG_LEVEL"); v != "" {
		if err := cfg.LogLevel.UnmarshalText([]byte(v)); err != nil {
			return Server{}, fmt.Errorf("KYC_LOG_LEVEL: %w", err)
		}
	}

	if v := os.Getenv("KYC_SHUTDOWN_TIMEOUT"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return Server{}, fmt.Errorf("KYC_SHUTDOWN_TIMEOUT: %w", err)
		}
		cfg.ShutdownTimeout = d
	}

	if v := os.Getenv("KYC_OTLP_INSECURE"); v != "" {
		insecure, err := strconv.ParseBool(v)
		if err != nil {
			return Server{}, fmt.Errorf("KYC_OTLP_INSECURE: %w", err)
		}
		cfg.Tracing.Insecure = insecure
	}

	if v := os.Getenv("KYC_TRACE_SAMPLE_RATIO"); v != "" {
		ratio, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return Server{}, fmt.Errorf("KYC_TRACE_SAMPLE_RATIO: %w", err)
		}
		if ratio < 0 || ratio > 1 {
			return Server{}, fmt.Errorf("KYC_TRACE_SAMPLE_RATIO must be within [0, 1], got %v", ratio)
		}
		cfg.Tracing.SampleRatio = ratio
	}

	return cfg, nil
}
