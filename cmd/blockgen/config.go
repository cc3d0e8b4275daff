package main

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

const (
	envSchema      = "BLOCKGEN_SCHEMA"
	envTemplate    = "BLOCKGEN_TEMPLATE"
	envStrict      = "BLOCKGEN_STRICT"
	envHTTPTimeout = "BLOCKGEN_HTTP_TIMEOUT"
	envOutput      = "BLOCKGEN_OUTPUT"

	defaultHTTPTimeout = 30 * time.Second
)

// Output modes.
const (
	outputStdout = "stdout"
	outputDir    = "dir"
)

type config struct {
	// Schema is a path or http(s) URL; empty selects the bundled schema.
	Schema string
	// Template is a path; empty selects the bundled template.
	Template    string
	Strict      bool
	HTTPTimeout time.Duration
	Output      string
}

func loadConfig(getenv func(string) string) (config, error) {
	cfg := config{
		Schema:      strings.TrimSpace(getenv(envSchema)),
		Template:    strings.TrimSpace(getenv(envTemplate)),
		HTTPTimeout: defaultHTTPTimeout,
		Output:      outputStdout,
	}

	if raw := strings.TrimSpace(getenv(envStrict)); raw != "" {
		strict, err := strconv.ParseBool(raw)
		if err != nil {
			return config{}, fmt.Errorf("%s: %w", envStrict, err)
		}
		cfg.Strict = strict
	}
	if raw := strings.TrimSpace(getenv(envHTTPTimeout)); raw != "" {
		timeout, err := time.ParseDuration(raw)
		if err != nil {
			return config{}, fmt.Errorf("%s: %w", envHTTPTimeout, err)
		}
		if timeout <= 0 {
			return config{}, fmt.Errorf("%s: must be positive, got %s", envHTTPTimeout, raw)
		}
		cfg.HTTPTimeout = timeout
	}
	if raw := strings.ToLower(strings.TrimSpace(getenv(envOutput))); raw != "" {
		switch raw {
		case outputStdout, outputDir:
			cfg.Output = raw
		default:
			return config{}, fmt.Errorf("%s: unsupported mode %q (want %s or %s)", envOutput, raw, outputStdout, outputDir)
		}
	}
	return cfg, nil
}
