// Package config loads and holds cream's tunable runtime constants.
// Settings are layered: defaults → cream-config.json → environment variables
// (env vars win). The three CLI positional arguments (NUM_WORKERS,
// PORT_NUMBER, MAX_ENTRIES) are parsed separately in cmd/cream and applied
// on top of a loaded Config via ApplyArgs.
package config

import (
	"encoding/json"
	"log"
	"os"
	"strconv"
)

// Config holds cream's runtime configuration: the wire protocol's size
// bounds, the log level, and the three values supplied on the command line.
type Config struct {
	// Protocol size bounds, applied before allocation.
	MinKeySize   int `json:"minKeySize"`
	MaxKeySize   int `json:"maxKeySize"`
	MinValueSize int `json:"minValueSize"`
	MaxValueSize int `json:"maxValueSize"`

	LogLevel string `json:"logLevel"`

	// Filled in by ApplyArgs from the command line, not from file/env.
	NumWorkers int    `json:"-"`
	Port       string `json:"-"`
	MaxEntries int    `json:"-"`
}

// Load returns a Config with defaults overridden by cream-config.json (if
// present) and then by environment variables.
func Load() *Config {
	cfg := defaults()
	loadFile(cfg, "cream-config.json")
	loadEnv(cfg)
	return cfg
}

// ApplyArgs fills in the three CLI-supplied values. Called once at startup
// after the command line has been parsed and validated.
func (c *Config) ApplyArgs(numWorkers int, port string, maxEntries int) {
	c.NumWorkers = numWorkers
	c.Port = port
	c.MaxEntries = maxEntries
}

func defaults() *Config {
	return &Config{
		MinKeySize:   1,
		MaxKeySize:   256,
		MinValueSize: 1,
		MaxValueSize: 1 << 20, // 1 MiB
		LogLevel:     "info",
	}
}

func loadFile(cfg *Config, path string) {
	data, err := os.ReadFile(path) //nolint:gosec // G703: fixed, operator-controlled path
	if err != nil {
		return // file is optional
	}
	if err := json.Unmarshal(data, cfg); err != nil {
		log.Printf("[CONFIG] Warning: could not parse %s: %v", path, err)
	} else {
		log.Printf("[CONFIG] Loaded %s", path)
	}
}

func loadEnv(cfg *Config) {
	if v := os.Getenv("CREAM_MIN_KEY_SIZE"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.MinKeySize = n
		}
	}
	if v := os.Getenv("CREAM_MAX_KEY_SIZE"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.MaxKeySize = n
		}
	}
	if v := os.Getenv("CREAM_MIN_VALUE_SIZE"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.MinValueSize = n
		}
	}
	if v := os.Getenv("CREAM_MAX_VALUE_SIZE"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.MaxValueSize = n
		}
	}
	if v := os.Getenv("CREAM_LOG_LEVEL"); v != "" {
		cfg.LogLevel = v
	}
}
