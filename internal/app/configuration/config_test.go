package configuration

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewFromEnvDefaults(t *testing.T) {
	config, err := NewFromEnv()
	require.NoError(t, err)

	assert.Equal(t, 8080, config.AdminPort)
	assert.Equal(t, "pacts", config.PactDir)
	assert.Equal(t, "info", config.LogLevel)
}

func TestNewFromEnv(t *testing.T) {
	t.Setenv("ADMIN_PORT", "9090")
	t.Setenv("PACT_DIR", "/tmp/pacts")
	t.Setenv("LOG_LEVEL", "debug")

	config, err := NewFromEnv()
	require.NoError(t, err)

	assert.Equal(t, 9090, config.AdminPort)
	assert.Equal(t, "/tmp/pacts", config.PactDir)
	assert.Equal(t, "debug", config.LogLevel)
}
