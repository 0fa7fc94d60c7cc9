package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setRequired(t *testing.T) {
	t.Helper()
	t.Setenv("MONGO_URI", "mongodb://localhost:27017")
	t.Setenv("MONGO_DB_NAME", "overlap")
	t.Setenv("JWT_SECRET", "secret")
}

func TestLoad_Defaults(t *testing.T) {
	setRequired(t)

	cfg, err := Load()
	require.NoError(t, err)
	require.NoError(t, cfg.Validate())

	assert.Equal(t, "localhost:6379", cfg.RedisHost)
	assert.Equal(t, 24*time.Hour, cfg.StreamRetentionDuration)
	assert.Equal(t, 30*time.Minute, cfg.ComputationTimeout)
	assert.Equal(t, 5, cfg.DefaultSensitivity)
	assert.Equal(t, "equal", cfg.DefaultMetric)
	assert.Equal(t, "2112", cfg.MetricsPort)
}

func TestLoad_Overrides(t *testing.T) {
	setRequired(t)
	t.Setenv("DEFAULT_SENSITIVITY", "3")
	t.Setenv("DEFAULT_SIMILARITY", "2")
	t.Setenv("DEFAULT_METRIC", "lev")
	t.Setenv("COMPUTATION_TIMEOUT_MINUTES", "5")

	cfg, err := Load()
	require.NoError(t, err)
	require.NoError(t, cfg.Validate())

	assert.Equal(t, 3, cfg.DefaultSensitivity)
	assert.Equal(t, 2, cfg.DefaultSimilarity)
	assert.Equal(t, "lev", cfg.DefaultMetric)
	assert.Equal(t, 5*time.Minute, cfg.ComputationTimeout)
}

func TestValidate_MissingMongoURI(t *testing.T) {
	setRequired(t)
	t.Setenv("MONGO_URI", "")

	cfg, err := Load()
	require.NoError(t, err)
	assert.ErrorContains(t, cfg.Validate(), "MONGO_URI")
}

func TestValidate_RejectsBadEngineDefaults(t *testing.T) {
	setRequired(t)

	t.Setenv("DEFAULT_SENSITIVITY", "0")
	cfg, _ := Load()
	assert.ErrorIs(t, cfg.Validate(), ErrInvalidSensitivity)

	t.Setenv("DEFAULT_SENSITIVITY", "2")
	t.Setenv("DEFAULT_SIMILARITY", "-1")
	cfg, _ = Load()
	assert.ErrorIs(t, cfg.Validate(), ErrInvalidSimilarity)

	t.Setenv("DEFAULT_SIMILARITY", "0")
	t.Setenv("DEFAULT_METRIC", "cosine")
	cfg, _ = Load()
	assert.ErrorContains(t, cfg.Validate(), "DEFAULT_METRIC")
}
