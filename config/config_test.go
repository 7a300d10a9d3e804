package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfigDefaults(t *testing.T) {
	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, EnvDevelopment, cfg.Server.Environment)
	assert.Equal(t, "8990", cfg.Server.Port)
	assert.Equal(t, StorageFile, cfg.Storage.Backend)
	assert.Equal(t, "pigsoil_notifications", cfg.Storage.Key)
	assert.Equal(t, PushNone, cfg.Push.Transport)
	assert.False(t, cfg.IsProduction())
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv("PIGSOIL_STORAGE_BACKEND", "memory")
	t.Setenv("PIGSOIL_SERVER_PORT", "9001")

	cfg, err := LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, StorageMemory, cfg.Storage.Backend)
	assert.Equal(t, "9001", cfg.Server.Port)
}

func TestValidateRejectsUnknownBackend(t *testing.T) {
	t.Setenv("PIGSOIL_STORAGE_BACKEND", "postgres")

	_, err := LoadConfig()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown storage backend")
}

func TestValidateRedisPushNeedsDeviceID(t *testing.T) {
	t.Setenv("PIGSOIL_PUSH_TRANSPORT", "redis")

	_, err := LoadConfig()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "device_id")
}

func TestValidateWebsocketPushNeedsGatewayURL(t *testing.T) {
	t.Setenv("PIGSOIL_PUSH_TRANSPORT", "websocket")

	_, err := LoadConfig()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "gateway_url")
}

func TestValidateProductionNeedsSecret(t *testing.T) {
	t.Setenv("PIGSOIL_SERVER_ENVIRONMENT", "production")

	_, err := LoadConfig()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "jwt_secret")
}
