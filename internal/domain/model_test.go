package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidEventType(t *testing.T) {
	for _, v := range EventTypes {
		assert.True(t, ValidEventType(v), v)
	}
	assert.False(t, ValidEventType(""))
	assert.False(t, ValidEventType("logout"))
	assert.False(t, ValidEventType("LOGIN"))
}

func TestParseScoreComponent(t *testing.T) {
	for _, v := range []string{"login-events", "feature-usage", "support-tickets", "payments", "api-usage"} {
		c, ok := ParseScoreComponent(v)
		assert.True(t, ok, v)
		assert.Equal(t, ScoreComponent(v), c)
	}
	_, ok := ParseScoreComponent("feature_usage")
	assert.False(t, ok)
}

func TestParseTier(t *testing.T) {
	tier, ok := ParseTier("at-risk")
	assert.True(t, ok)
	assert.Equal(t, TierAtRisk, tier)

	_, ok = ParseTier("atrisk")
	assert.False(t, ok)
}
