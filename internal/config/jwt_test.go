package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewJWTConfig_DefaultLeeway(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret-key-that-is-long-enough")
	t.Setenv("JWT_ISSUER", "")
	t.Setenv("JWT_LEEWAY_SECONDS", "")

	config, err := NewJWTConfig()
	require.NoError(t, err)
	assert.Equal(t, "test-secret-key-that-is-long-enough", config.Secret)
	assert.Empty(t, config.Issuer)
	assert.Equal(t, 30*time.Second, config.Leeway)
}

func TestNewJWTConfig_CustomValues(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret-key-that-is-long-enough")
	t.Setenv("JWT_ISSUER", "https://auth.example.com")
	t.Setenv("JWT_LEEWAY_SECONDS", "5")

	config, err := NewJWTConfig()
	require.NoError(t, err)
	assert.Equal(t, "https://auth.example.com", config.Issuer)
	assert.Equal(t, 5*time.Second, config.Leeway)
}

func TestNewJWTConfig_MissingSecret(t *testing.T) {
	t.Setenv("JWT_SECRET", "")

	_, err := NewJWTConfig()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "JWT_SECRET is required")
}

func TestNewJWTConfig_ShortSecret(t *testing.T) {
	t.Setenv("JWT_SECRET", "short")

	_, err := NewJWTConfig()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "at least 16 characters")
}

func TestNewJWTConfig_InvalidLeeway(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret-key-that-is-long-enough")

	t.Setenv("JWT_LEEWAY_SECONDS", "soon")
	_, err := NewJWTConfig()
	assert.Error(t, err)

	t.Setenv("JWT_LEEWAY_SECONDS", "-1")
	_, err = NewJWTConfig()
	assert.Error(t, err)
}
