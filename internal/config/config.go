// Package config provides configuration management for the Bet Advisor application.
package config

import (
	"fmt"
	"math"
	"time"
)

// Config represents the complete application configuration. It is loaded and
// validated once at startup and treated as immutable afterwards.
type Config struct {
	App          AppConfig          `mapstructure:"app" validate:"required"`
	Database     DatabaseConfig     `mapstructure:"database"`
	OddsFeed     OddsFeedConfig     `mapstructure:"odds_feed"`
	ModelService ModelServiceConfig `mapstructure:"model_service"`
	Ensemble     EnsembleConfig     `mapstructure:"ensemble" validate:"required"`
	Selection    SelectionConfig    `mapstructure:"selection" validate:"required"`
	Scoring      ScoringConfig      `mapstructure:"scoring" validate:"required"`
	Staking      StakingConfig      `mapstructure:"staking" validate:"required"`
	Scheduler    SchedulerConfig    `mapstructure:"scheduler"`
	Metrics      MetricsConfig      `mapstructure:"metrics"`
	Tracing      TracingConfig      `mapstructure:"tracing"`
}

// AppConfig represents application-level configuration
type AppConfig struct {
	Name        string `mapstructure:"name" validate:"required"`
	Environment string `mapstructure:"environment" validate:"required,environment"`
	LogLevel    string `mapstructure:"log_level" validate:"required,loglevel"`
	HealthPort  string `mapstructure:"health_port"`
}

// DatabaseConfig represents database connection configuration. Persistence is
// optional; with Enabled false the service runs without a recommendation store.
type DatabaseConfig struct {
	Enabled        bool   `mapstructure:"enabled"`
	Host           string `mapstructure:"host" validate:"required_if=Enabled true"`
	Port           int    `mapstructure:"port" validate:"omitempty,min=1,max=65535"`
	Name           string `mapstructure:"name" validate:"required_if=Enabled true"`
	User           string `mapstructure:"user" validate:"required_if=Enabled true"`
	Password       string `mapstructure:"password"`
	SSLMode        string `mapstructure:"ssl_mode" validate:"omitempty,oneof=disable require verify-full"`
	MaxConnections int    `mapstructure:"max_connections" validate:"omitempty,gt=0"`
}

// OddsFeedConfig represents the upstream candidate feed API configuration
type OddsFeedConfig struct {
	Enabled            bool    `mapstructure:"enabled"`
	BaseURL            string  `mapstructure:"base_url" validate:"required_if=Enabled true,omitempty,url"`
	APIKey             string  `mapstructure:"api_key"`
	TimeoutSeconds     int     `mapstructure:"timeout_seconds" validate:"omitempty,gt=0"`
	MaxRetries         int     `mapstructure:"max_retries" validate:"omitempty,gte=0"`
	RateLimitPerSecond float64 `mapstructure:"rate_limit_per_second" validate:"omitempty,gt=0"`
	CircuitBreakerMax  int     `mapstructure:"circuit_breaker_max" validate:"omitempty,gt=0"`
}

// ModelServiceConfig represents the remote prediction service configuration
type ModelServiceConfig struct {
	Enabled         bool   `mapstructure:"enabled"`
	BaseURL         string `mapstructure:"base_url" validate:"required_if=Enabled true,omitempty,url"`
	TimeoutSeconds  int    `mapstructure:"timeout_seconds" validate:"omitempty,gt=0"`
	RetryAttempts   int    `mapstructure:"retry_attempts" validate:"omitempty,gte=0"`
	CacheTTLSeconds int    `mapstructure:"cache_ttl_seconds" validate:"omitempty,gt=0"`
	CacheMaxSize    int    `mapstructure:"cache_max_size" validate:"omitempty,gt=0"`
}

// ModelWeightConfig represents one predictor in the ensemble with its weight
type ModelWeightConfig struct {
	Name    string  `mapstructure:"name" validate:"required"`
	Enabled bool    `mapstructure:"enabled"`
	Weight  float64 `mapstructure:"weight" validate:"gte=0,lte=1"`
}

// EnsembleConfig lists the active predictors and their weights. The enabled
// weights must sum to 1 over the full model set.
type EnsembleConfig struct {
	Models []ModelWeightConfig `mapstructure:"models" validate:"required,min=1,dive"`
}

// EnabledWeights returns the weight mapping for enabled models only.
func (e *EnsembleConfig) EnabledWeights() map[string]float64 {
	weights := make(map[string]float64)
	for _, m := range e.Models {
		if m.Enabled {
			weights[m.Name] = m.Weight
		}
	}
	return weights
}

// SuspectPatternConfig holds the thresholds for the heuristic
// "false-confidence" rejection patterns applied by the inverse filter.
type SuspectPatternConfig struct {
	OverconfidenceMinConfidence float64 `mapstructure:"overconfidence_min_confidence" validate:"gte=0,lte=1"`
	OverconfidenceMaxEV         float64 `mapstructure:"overconfidence_max_ev" validate:"gte=1"`
	FalseSecurityMaxRisk        float64 `mapstructure:"false_security_max_risk" validate:"gte=0,lte=1"`
	FalseSecurityMaxEV          float64 `mapstructure:"false_security_max_ev" validate:"gte=1"`
	ContradictionMinConfidence  float64 `mapstructure:"contradiction_min_confidence" validate:"gte=0,lte=1"`
	ContradictionMinDispersion  float64 `mapstructure:"contradiction_min_dispersion" validate:"gte=0,lte=1"`
}

// SelectionConfig represents the candidate filtering and selection criteria
type SelectionConfig struct {
	MinConfidence    float64              `mapstructure:"min_confidence" validate:"gte=0,lte=1"`
	MinExpectedValue float64              `mapstructure:"min_expected_value" validate:"gte=1"`
	MaxRiskScore     float64              `mapstructure:"max_risk_score" validate:"gte=0,lte=1"`
	TimeWindowHours  int                  `mapstructure:"time_window_hours" validate:"required,gt=0"`
	TopK             int                  `mapstructure:"top_k" validate:"required,gt=0"`
	SuspectPatterns  SuspectPatternConfig `mapstructure:"suspect_patterns"`
}

// TimeWindow returns the selection window as a duration.
func (s *SelectionConfig) TimeWindow() time.Duration {
	return time.Duration(s.TimeWindowHours) * time.Hour
}

// ScoringConfig represents the composite ranking weights
type ScoringConfig struct {
	ConfidenceWeight    float64 `mapstructure:"confidence_weight" validate:"gte=0,lte=1"`
	ExpectedValueWeight float64 `mapstructure:"expected_value_weight" validate:"gte=0,lte=1"`
	RiskAdjustedWeight  float64 `mapstructure:"risk_adjusted_weight" validate:"gte=0,lte=1"`
}

// StakingConfig represents stake sizing configuration
type StakingConfig struct {
	DefaultBankroll    float64 `mapstructure:"default_bankroll" validate:"omitempty,gt=0"`
	VigRate            float64 `mapstructure:"vig_rate" validate:"gte=0,lt=1"`
	KellyFraction      float64 `mapstructure:"kelly_fraction" validate:"gt=0,lte=1"`
	MaxStakePercentage float64 `mapstructure:"max_stake_percentage" validate:"gt=0,lte=1"`
	MinStakeAmount     float64 `mapstructure:"min_stake_amount" validate:"gte=0"`
	MaxStakeAmount     float64 `mapstructure:"max_stake_amount" validate:"gt=0"`
	MaxUnits           float64 `mapstructure:"max_units" validate:"gt=0"`
}

// SchedulerConfig represents the recurring selection cycle schedule
type SchedulerConfig struct {
	Enabled              bool   `mapstructure:"enabled"`
	CycleIntervalSeconds int    `mapstructure:"cycle_interval_seconds" validate:"omitempty,gte=30"`
	CronExpression       string `mapstructure:"cron_expression"`
}

// MetricsConfig represents metrics and monitoring configuration
type MetricsConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Port    int    `mapstructure:"port" validate:"omitempty,min=1,max=65535"`
	Path    string `mapstructure:"path"`
}

// TracingConfig represents AWS X-Ray tracing configuration
type TracingConfig struct {
	Enabled    bool   `mapstructure:"enabled"`
	DaemonAddr string `mapstructure:"daemon_addr"`
}

// IsDevelopment checks if the application is running in development mode
func (c *Config) IsDevelopment() bool {
	return c.App.Environment == "development"
}

// IsProduction checks if the application is running in production mode
func (c *Config) IsProduction() bool {
	return c.App.Environment == "production"
}

// GetDatabaseDSN returns a PostgreSQL DSN string
func (c *Config) GetDatabaseDSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		c.Database.User,
		c.Database.Password,
		c.Database.Host,
		c.Database.Port,
		c.Database.Name,
		c.Database.SSLMode,
	)
}

// weightsSumToOne checks a weight total against 1 within floating tolerance.
func weightsSumToOne(total float64) bool {
	return math.Abs(total-1.0) <= 1e-6
}
