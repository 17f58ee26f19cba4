// Package config provides configuration management for the Bet Advisor application.
package config

import (
	"fmt"

	"github.com/go-playground/validator/v10"
)

// CustomValidator wraps the validator with custom validation rules
type CustomValidator struct {
	validator *validator.Validate
}

// NewValidator creates a new validator with custom validation functions
func NewValidator() *CustomValidator {
	v := validator.New()

	v.RegisterValidation("environment", validateEnvironment)
	v.RegisterValidation("loglevel", validateLogLevel)

	return &CustomValidator{validator: v}
}

// Validate validates the entire configuration
func Validate(cfg *Config) error {
	cv := NewValidator()
	return cv.Validate(cfg)
}

// Validate validates the configuration using registered validation rules
func (cv *CustomValidator) Validate(cfg *Config) error {
	err := cv.validator.Struct(cfg)
	if err != nil {
		if validationErrors, ok := err.(validator.ValidationErrors); ok {
			return formatValidationErrors(validationErrors)
		}
		return fmt.Errorf("validation failed: %w", err)
	}

	if err := validateCrossField(cfg); err != nil {
		return err
	}

	return nil
}

// validateEnvironment validates the environment field
func validateEnvironment(fl validator.FieldLevel) bool {
	env := fl.Field().String()
	switch env {
	case "development", "staging", "production":
		return true
	default:
		return false
	}
}

// validateLogLevel validates the log level field
func validateLogLevel(fl validator.FieldLevel) bool {
	level := fl.Field().String()
	switch level {
	case "debug", "info", "warn", "error":
		return true
	default:
		return false
	}
}

// validateCrossField performs cross-field validations
func validateCrossField(cfg *Config) error {
	// Enabled model weights must sum to 1 so a partial ensemble cannot
	// silently distort the consensus.
	enabledTotal := 0.0
	enabledCount := 0
	seen := make(map[string]bool)
	for _, m := range cfg.Ensemble.Models {
		if seen[m.Name] {
			return fmt.Errorf("duplicate model name in ensemble: %s", m.Name)
		}
		seen[m.Name] = true
		if m.Enabled {
			enabledTotal += m.Weight
			enabledCount++
		}
	}
	if enabledCount == 0 {
		return fmt.Errorf("at least one ensemble model must be enabled")
	}
	if !weightsSumToOne(enabledTotal) {
		return fmt.Errorf("enabled model weights must sum to 1.0, got %.6f", enabledTotal)
	}

	// Scoring weights must sum to 1 so no metric dominates by scale.
	scoringTotal := cfg.Scoring.ConfidenceWeight + cfg.Scoring.ExpectedValueWeight + cfg.Scoring.RiskAdjustedWeight
	if !weightsSumToOne(scoringTotal) {
		return fmt.Errorf("scoring weights must sum to 1.0, got %.6f", scoringTotal)
	}

	if cfg.Staking.MinStakeAmount > cfg.Staking.MaxStakeAmount {
		return fmt.Errorf("min_stake_amount cannot exceed max_stake_amount")
	}

	if cfg.Scheduler.Enabled && cfg.Scheduler.CycleIntervalSeconds <= 0 && cfg.Scheduler.CronExpression == "" {
		return fmt.Errorf("scheduler requires cycle_interval_seconds or cron_expression")
	}

	if cfg.IsProduction() {
		if cfg.Database.Enabled && cfg.Database.SSLMode == "disable" {
			return fmt.Errorf("production environment requires SSL mode to be 'require' or 'verify-full'")
		}
	}

	return nil
}

// formatValidationErrors formats validation errors into a readable string
func formatValidationErrors(validationErrors validator.ValidationErrors) error {
	var errMsg string
	for _, fieldError := range validationErrors {
		field := fieldError.StructField()
		tag := fieldError.Tag()
		value := fieldError.Value()

		switch tag {
		case "required", "required_if":
			errMsg += fmt.Sprintf("- Field '%s' is required\n", field)
		case "url":
			errMsg += fmt.Sprintf("- Field '%s' must be a valid URL, got '%v'\n", field, value)
		case "min", "max":
			errMsg += fmt.Sprintf("- Field '%s' validation failed: %s constraint violated\n", field, tag)
		case "gt", "gte", "lt", "lte":
			errMsg += fmt.Sprintf("- Field '%s' validation failed: numeric constraint %s violated\n", field, tag)
		case "environment":
			errMsg += fmt.Sprintf("- Field '%s' must be one of: development, staging, production\n", field)
		case "loglevel":
			errMsg += fmt.Sprintf("- Field '%s' must be one of: debug, info, warn, error\n", field)
		case "oneof":
			errMsg += fmt.Sprintf("- Field '%s' has invalid value '%v'\n", field, value)
		default:
			errMsg += fmt.Sprintf("- Field '%s' failed validation: %s\n", field, tag)
		}
	}
	return fmt.Errorf("configuration validation failed:\n%s", errMsg)
}
