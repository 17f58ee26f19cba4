package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yourusername/bet-advisor/internal/models"
)

func TestAnalyzeValueClearFavourite(t *testing.T) {
	value, err := AnalyzeValue(0.75, 2.0, 0.0476)
	require.NoError(t, err)

	assert.InDelta(t, 0.50, value.ImpliedProbability, 1e-9)
	assert.InDelta(t, 0.5238, value.VigImpliedProbability, 1e-4)
	assert.InDelta(t, 0.25, value.Edge, 1e-9)
	assert.InDelta(t, 0.2262, value.EdgeWithVig, 1e-4)
	assert.InDelta(t, 0.50, value.ExpectedValue, 1e-9)
	assert.InDelta(t, 0.4286, value.EVWithVig, 1e-4)
	assert.InDelta(t, 1.4286, value.EVWithVigMultiplier(), 1e-4)
}

func TestAnalyzeValueZeroVig(t *testing.T) {
	value, err := AnalyzeValue(0.60, 2.5, 0)
	require.NoError(t, err)

	assert.Equal(t, value.Edge, value.EdgeWithVig)
	assert.Equal(t, value.ExpectedValue, value.EVWithVig)
	assert.Equal(t, value.ImpliedProbability, value.VigImpliedProbability)
}

func TestAnalyzeValueVigNeverImprovesValue(t *testing.T) {
	value, err := AnalyzeValue(0.60, 2.5, 0.05)
	require.NoError(t, err)

	assert.Less(t, value.EVWithVig, value.ExpectedValue)
	assert.Less(t, value.EdgeWithVig, value.Edge)
}

func TestAnalyzeValueVigImpliedCappedAtOne(t *testing.T) {
	value, err := AnalyzeValue(0.95, 1.02, 0.10)
	require.NoError(t, err)

	assert.LessOrEqual(t, value.VigImpliedProbability, 1.0)
}

func TestAnalyzeValueRejectsInvalidOdds(t *testing.T) {
	tests := []struct {
		name string
		odds float64
	}{
		{"odds of exactly 1.0", 1.0},
		{"odds below 1.0", 0.95},
		{"zero odds", 0},
		{"negative odds", -2.0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := AnalyzeValue(0.5, tt.odds, 0.0476)
			require.Error(t, err)
			assert.True(t, models.IsValidationError(err))
		})
	}
}

func TestAnalyzeValueRejectsInvalidProbability(t *testing.T) {
	_, err := AnalyzeValue(1.2, 2.0, 0.0476)
	require.Error(t, err)
	assert.True(t, models.IsValidationError(err))
}
