package config

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/rawbytes"
	"github.com/knadh/koanf/v2"
)

const (
	maxConfigFileSize = 1024 * 1024 // 1MB

	// envPrefix namespaces relevanced environment variables.
	envPrefix = "RELEVANCED_"
)

// Load loads configuration from an optional YAML file, then overrides
// with environment variables, then applies defaults for anything unset.
//
// Configuration precedence (highest to lowest):
//  1. Environment variables (RELEVANCED_ENGINE_SEARCH_LIMIT, ...)
//  2. YAML config file (configPath; skipped when empty or absent)
//  3. Hardcoded defaults
//
// Environment variables map to config keys by stripping the prefix,
// lowercasing, and splitting on the first underscore:
//
//	RELEVANCED_LOGGING_LEVEL          -> logging.level
//	RELEVANCED_ENGINE_SEARCH_LIMIT    -> engine.search_limit
//	RELEVANCED_ENGINE_EVENT_HALF_LIFE_DAYS -> engine.event_half_life_days
func Load(configPath string) (*Config, error) {
	k := koanf.New(".")

	if configPath != "" {
		if _, err := os.Stat(configPath); err == nil {
			content, err := readBounded(configPath)
			if err != nil {
				return nil, err
			}
			if err := k.Load(rawbytes.Provider(content), yaml.Parser()); err != nil {
				return nil, fmt.Errorf("failed to load config file %s: %w", configPath, err)
			}
		}
	}

	if err := k.Load(env.Provider(envPrefix, ".", func(s string) string {
		// RELEVANCED_ENGINE_SEARCH_LIMIT -> engine.search_limit:
		// first underscore separates section from field, the rest of the
		// underscores belong to the field name.
		lower := strings.ToLower(strings.TrimPrefix(s, envPrefix))
		parts := strings.SplitN(lower, "_", 2)
		if len(parts) == 1 {
			return lower
		}
		return parts[0] + "." + parts[1]
	}), nil); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	// Nested risk keys do not fit the section.field env mapping, so they
	// get explicit aliases.
	applyRiskEnvAliases(k)

	cfg := NewDefaultConfig()
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// applyRiskEnvAliases maps RELEVANCED_RISK_* variables onto the nested
// engine.risk keys.
func applyRiskEnvAliases(k *koanf.Koanf) {
	aliases := map[string]string{
		"RELEVANCED_RISK_FAILURE_WEIGHT":   "engine.risk.failure_weight",
		"RELEVANCED_RISK_TREND_WEIGHT":     "engine.risk.trend_weight",
		"RELEVANCED_RISK_DEBT_WEIGHT":      "engine.risk.debt_weight",
		"RELEVANCED_RISK_WINDOW":           "engine.risk.window",
		"RELEVANCED_RISK_CONFIDENCE_LEVEL": "engine.risk.confidence_level",
	}
	for envVar, key := range aliases {
		if v, ok := os.LookupEnv(envVar); ok {
			_ = k.Set(key, v)
		}
	}
}

// readBounded reads a config file, rejecting oversized files. The file
// is opened once and validated via its descriptor to avoid a TOCTOU race.
func readBounded(path string) ([]byte, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open config file: %w", err)
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return nil, fmt.Errorf("failed to stat config file: %w", err)
	}
	if info.Size() > maxConfigFileSize {
		return nil, fmt.Errorf("config file %s exceeds %d bytes", path, maxConfigFileSize)
	}

	content, err := io.ReadAll(f)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	return content, nil
}
