// Package config provides configuration management for the Bet Advisor application.
package config

import (
	"bytes"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/viper"
)

// Load reads and parses the configuration from file and environment variables.
// It expands environment variable placeholders in the YAML file (${VAR_NAME})
func Load(configPath string) (*Config, error) {
	if configPath == "" {
		configPath = "config/config.yaml"
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("config file not found at %s: %w", configPath, err)
		}
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	// Expand environment variables in the configuration (${VAR} syntax)
	expanded := os.ExpandEnv(string(data))

	v := newViper()
	if err := v.ReadConfig(bytes.NewBuffer([]byte(expanded))); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal configuration: %w", err)
	}

	return cfg, nil
}

// LoadWithDefaults loads configuration with default values for optional
// fields. Missing file is not an error; defaults and environment variables
// apply instead.
func LoadWithDefaults(configPath string) (*Config, error) {
	if configPath == "" {
		configPath = "config/config.yaml"
	}

	v := newViper()
	setDefaults(v)

	if data, err := os.ReadFile(configPath); err == nil {
		expanded := os.ExpandEnv(string(data))
		if err := v.ReadConfig(bytes.NewBuffer([]byte(expanded))); err != nil {
			return nil, fmt.Errorf("failed to parse config file: %w", err)
		}
	} else if !os.IsNotExist(err) {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal configuration: %w", err)
	}

	return cfg, nil
}

func newViper() *viper.Viper {
	v := viper.New()
	v.SetConfigType("yaml")
	v.SetEnvPrefix("BET_ADVISOR")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	return v
}

// setDefaults applies the documented default thresholds. These are resolved
// exactly once, at load time; no component resolves its own defaults later.
func setDefaults(v *viper.Viper) {
	v.SetDefault("app.name", "bet-advisor")
	v.SetDefault("app.environment", "development")
	v.SetDefault("app.log_level", "info")
	v.SetDefault("app.health_port", "8080")

	v.SetDefault("selection.min_confidence", 0.70)
	v.SetDefault("selection.min_expected_value", 1.08)
	v.SetDefault("selection.max_risk_score", 0.65)
	v.SetDefault("selection.time_window_hours", 24)
	v.SetDefault("selection.top_k", 3)
	v.SetDefault("selection.suspect_patterns.overconfidence_min_confidence", 0.85)
	v.SetDefault("selection.suspect_patterns.overconfidence_max_ev", 1.10)
	v.SetDefault("selection.suspect_patterns.false_security_max_risk", 0.30)
	v.SetDefault("selection.suspect_patterns.false_security_max_ev", 1.12)
	v.SetDefault("selection.suspect_patterns.contradiction_min_confidence", 0.85)
	v.SetDefault("selection.suspect_patterns.contradiction_min_dispersion", 0.15)

	v.SetDefault("scoring.confidence_weight", 0.40)
	v.SetDefault("scoring.expected_value_weight", 0.35)
	v.SetDefault("scoring.risk_adjusted_weight", 0.25)

	v.SetDefault("staking.vig_rate", 0.0476)
	v.SetDefault("staking.kelly_fraction", 0.25)
	v.SetDefault("staking.max_stake_percentage", 0.05)
	v.SetDefault("staking.min_stake_amount", 10)
	v.SetDefault("staking.max_stake_amount", 1000)
	v.SetDefault("staking.max_units", 5)
	v.SetDefault("staking.default_bankroll", 10000)

	v.SetDefault("metrics.enabled", true)
	v.SetDefault("metrics.port", 9090)
	v.SetDefault("metrics.path", "/metrics")

	v.SetDefault("scheduler.cycle_interval_seconds", 900)

	v.SetDefault("tracing.enabled", false)
	v.SetDefault("tracing.daemon_addr", "127.0.0.1:2000")

	v.SetDefault("odds_feed.timeout_seconds", 30)
	v.SetDefault("odds_feed.max_retries", 5)
	v.SetDefault("odds_feed.rate_limit_per_second", 10)
	v.SetDefault("odds_feed.circuit_breaker_max", 5)

	v.SetDefault("model_service.timeout_seconds", 10)
	v.SetDefault("model_service.retry_attempts", 3)
	v.SetDefault("model_service.cache_ttl_seconds", 300)
	v.SetDefault("model_service.cache_max_size", 10000)

	v.SetDefault("ensemble.models", []map[string]interface{}{
		{"name": "market_consensus", "enabled": true, "weight": 1.0},
	})
}
