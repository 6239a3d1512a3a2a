package common

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfigIsValid(t *testing.T) {
	config := NewDefaultConfig()
	require.NoError(t, config.Validate())

	assert.Equal(t, 3, config.Engine.MaxAttempts)
	assert.Equal(t, "5s", config.Engine.BaseDelay)
	assert.Equal(t, "1s", config.Engine.GroupCooldown)
	assert.Equal(t, 8, config.Engine.LightGroupSize)
	assert.Equal(t, 5, config.Engine.DeepGroupSize)
	assert.Equal(t, 3, config.Engine.XRayGroupSize)
	assert.Equal(t, 10, config.Engine.DefaultGroupSize)
	assert.Equal(t, int64(1), config.Costs.Light.Credits)
}

func TestLoadFromFilesOverridesDefaults(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	content := `
environment = "production"

[engine]
max_attempts = 5
base_delay = "250ms"

[costs.deep]
credits = 4
actual_cost = 0.2
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	config, err := LoadFromFiles(path)
	require.NoError(t, err)

	assert.Equal(t, "production", config.Environment)
	assert.Equal(t, 5, config.Engine.MaxAttempts)
	assert.Equal(t, "250ms", config.Engine.BaseDelay)
	assert.Equal(t, int64(4), config.Costs.Deep.Credits)
	// Untouched values keep their defaults.
	assert.Equal(t, "1s", config.Engine.GroupCooldown)
	assert.Equal(t, int64(1), config.Costs.Light.Credits)
}

func TestLoadFromFilesEnvOverride(t *testing.T) {
	t.Setenv("OSLIRA_ENGINE_MAX_ATTEMPTS", "7")
	t.Setenv("OSLIRA_LLM_PROVIDER", "offline")

	config, err := LoadFromFiles()
	require.NoError(t, err)
	assert.Equal(t, 7, config.Engine.MaxAttempts)
}

func TestValidateRejectsBadDuration(t *testing.T) {
	config := NewDefaultConfig()
	config.Engine.BaseDelay = "soon"
	assert.Error(t, config.Validate())
}

func TestValidateRejectsBadProvider(t *testing.T) {
	config := NewDefaultConfig()
	config.LLM.Provider = "copilot"
	assert.Error(t, config.Validate())
}

func TestLoadFromFilesMissingFile(t *testing.T) {
	_, err := LoadFromFiles("/nonexistent/config.toml")
	assert.Error(t, err)
}
