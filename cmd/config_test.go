package cmd

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetConfigFromEnv(t *testing.T) {
	t.Parallel()

	env := map[string]string{
		"DOMTEST_LOG_LEVEL": "debug",
		"DOMTEST_QUIET":     "true",
		"DOMTEST_TIMEOUT":   "45s",
	}
	conf, err := getConfigFromEnv(func(key string) (string, bool) {
		v, ok := env[key]
		return v, ok
	})
	require.NoError(t, err)
	assert.Equal(t, "debug", conf.LogLevel.String)
	assert.True(t, conf.Quiet.ValueOrZero())
	assert.Equal(t, 45*time.Second, conf.Timeout.ValueOrZero())
}

func TestGetConfigFromEnvEmpty(t *testing.T) {
	t.Parallel()

	conf, err := getConfigFromEnv(func(string) (string, bool) { return "", false })
	require.NoError(t, err)
	assert.False(t, conf.LogLevel.Valid)
	assert.False(t, conf.Quiet.Valid)
	assert.False(t, conf.Timeout.Valid)
}
