package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validConfig() *Config {
	return &Config{
		App: AppConfig{
			Name:        "bet-advisor",
			Environment: "development",
			LogLevel:    "info",
		},
		Ensemble: EnsembleConfig{
			Models: []ModelWeightConfig{
				{Name: "market_consensus", Enabled: true, Weight: 0.4},
				{Name: "gradient_boost", Enabled: true, Weight: 0.6},
				{Name: "neural", Enabled: false, Weight: 0.3},
			},
		},
		Selection: SelectionConfig{
			MinConfidence:    0.70,
			MinExpectedValue: 1.08,
			MaxRiskScore:     0.65,
			TimeWindowHours:  24,
			TopK:             3,
			SuspectPatterns: SuspectPatternConfig{
				OverconfidenceMinConfidence: 0.85,
				OverconfidenceMaxEV:         1.10,
				FalseSecurityMaxRisk:        0.30,
				FalseSecurityMaxEV:          1.12,
				ContradictionMinConfidence:  0.85,
				ContradictionMinDispersion:  0.15,
			},
		},
		Scoring: ScoringConfig{
			ConfidenceWeight:    0.40,
			ExpectedValueWeight: 0.35,
			RiskAdjustedWeight:  0.25,
		},
		Staking: StakingConfig{
			DefaultBankroll:    10000,
			VigRate:            0.0476,
			KellyFraction:      0.25,
			MaxStakePercentage: 0.05,
			MinStakeAmount:     10,
			MaxStakeAmount:     1000,
			MaxUnits:           5,
		},
	}
}

func TestValidateValidConfig(t *testing.T) {
	cfg := validConfig()
	assert.NoError(t, Validate(cfg))
}

func TestValidateModelWeightSum(t *testing.T) {
	cfg := validConfig()
	cfg.Ensemble.Models[0].Weight = 0.5 // enabled weights now sum to 1.1

	err := Validate(cfg)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "model weights must sum to 1.0")
}

func TestValidateScoringWeightSum(t *testing.T) {
	cfg := validConfig()
	cfg.Scoring.ConfidenceWeight = 0.50

	err := Validate(cfg)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "scoring weights must sum to 1.0")
}

func TestValidateDuplicateModelName(t *testing.T) {
	cfg := validConfig()
	cfg.Ensemble.Models[1].Name = "market_consensus"

	err := Validate(cfg)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "duplicate model name")
}

func TestValidateNoEnabledModels(t *testing.T) {
	cfg := validConfig()
	for i := range cfg.Ensemble.Models {
		cfg.Ensemble.Models[i].Enabled = false
	}

	err := Validate(cfg)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "at least one ensemble model must be enabled")
}

func TestValidateStakeBounds(t *testing.T) {
	cfg := validConfig()
	cfg.Staking.MinStakeAmount = 2000

	err := Validate(cfg)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "min_stake_amount cannot exceed max_stake_amount")
}

func TestValidateInvalidLogLevel(t *testing.T) {
	cfg := validConfig()
	cfg.App.LogLevel = "verbose"
	assert.Error(t, Validate(cfg))
}

func TestValidateInvalidEnvironment(t *testing.T) {
	cfg := validConfig()
	cfg.App.Environment = "qa"
	assert.Error(t, Validate(cfg))
}

func TestValidateInvalidThresholds(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"confidence above 1", func(c *Config) { c.Selection.MinConfidence = 1.2 }},
		{"ev multiplier below 1", func(c *Config) { c.Selection.MinExpectedValue = 0.9 }},
		{"risk above 1", func(c *Config) { c.Selection.MaxRiskScore = 1.5 }},
		{"vig rate at 1", func(c *Config) { c.Staking.VigRate = 1.0 }},
		{"kelly fraction zero", func(c *Config) { c.Staking.KellyFraction = 0 }},
		{"zero top k", func(c *Config) { c.Selection.TopK = 0 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(cfg)
			assert.Error(t, Validate(cfg))
		})
	}
}

func TestEnabledWeights(t *testing.T) {
	cfg := validConfig()
	weights := cfg.Ensemble.EnabledWeights()

	assert.Len(t, weights, 2)
	assert.Equal(t, 0.4, weights["market_consensus"])
	assert.Equal(t, 0.6, weights["gradient_boost"])
	_, disabled := weights["neural"]
	assert.False(t, disabled)
}

func TestLoadWithDefaults(t *testing.T) {
	cfg, err := LoadWithDefaults(filepath.Join(t.TempDir(), "missing.yaml"))
	require.NoError(t, err)

	assert.Equal(t, 0.70, cfg.Selection.MinConfidence)
	assert.Equal(t, 1.08, cfg.Selection.MinExpectedValue)
	assert.Equal(t, 0.65, cfg.Selection.MaxRiskScore)
	assert.Equal(t, 24, cfg.Selection.TimeWindowHours)
	assert.Equal(t, 3, cfg.Selection.TopK)
	assert.Equal(t, 0.0476, cfg.Staking.VigRate)
	assert.Equal(t, 0.25, cfg.Staking.KellyFraction)
	assert.Equal(t, 0.05, cfg.Staking.MaxStakePercentage)

	// Defaults alone must form a valid configuration.
	assert.NoError(t, Validate(cfg))
}

func TestLoadExpandsEnvironmentVariables(t *testing.T) {
	os.Setenv("TEST_FEED_KEY", "feed-key-123")
	defer os.Unsetenv("TEST_FEED_KEY")

	content := `
app:
  name: bet-advisor
  environment: development
  log_level: debug
odds_feed:
  enabled: true
  base_url: https://feed.example.com
  api_key: ${TEST_FEED_KEY}
ensemble:
  models:
    - name: market_consensus
      enabled: true
      weight: 1.0
selection:
  time_window_hours: 12
  top_k: 3
`
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "feed-key-123", cfg.OddsFeed.APIKey)
	assert.Equal(t, 12, cfg.Selection.TimeWindowHours)
	assert.Equal(t, "debug", cfg.App.LogLevel)
}

func TestOverlaySecretsOnConfig(t *testing.T) {
	cfg := validConfig()
	cfg.Database.Password = "original"

	overlaySecretsOnConfig(cfg, &SecretsOverlay{
		DatabasePassword: "from-aws",
		OddsFeedAPIKey:   "feed-secret",
	})

	assert.Equal(t, "from-aws", cfg.Database.Password)
	assert.Equal(t, "feed-secret", cfg.OddsFeed.APIKey)

	// Empty secret values must not clobber existing config.
	overlaySecretsOnConfig(cfg, &SecretsOverlay{})
	assert.Equal(t, "from-aws", cfg.Database.Password)
}
