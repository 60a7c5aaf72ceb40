package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_DefaultsWithoutFile(t *testing.T) {
	t.Setenv("CONFIG_ENV", "missing")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "release", cfg.Mode)
	assert.Equal(t, 3001, cfg.Port)
	assert.Equal(t, []string{"http://localhost:3000"}, cfg.AllowedOrigins)
	assert.Equal(t, 5*time.Second, cfg.Lobby.DedupTTL)
	assert.Equal(t, 2*time.Second, cfg.Lobby.NoticeInterval)
	assert.Equal(t, 30*time.Second, cfg.Lobby.ReconnectGrace)
	assert.Equal(t, 4, cfg.Lobby.DefaultMaxPlayers)
	assert.Equal(t, 54*time.Second, cfg.WS.PingPeriod)
	assert.Equal(t, int64(32768), cfg.WS.ReadLimit)
}

func TestLoad_EnvironmentOverrides(t *testing.T) {
	t.Setenv("CONFIG_ENV", "missing")
	t.Setenv("LOBBY_PORT", "9090")
	t.Setenv("LOBBY_LOBBY_RECONNECT_GRACE", "10s")
	t.Setenv("LOBBY_WS_SEND_BUFFER", "8")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.Port)
	assert.Equal(t, 10*time.Second, cfg.Lobby.ReconnectGrace)
	assert.Equal(t, 8, cfg.WS.SendBuffer)
}

func TestLoad_RejectsInvalidValues(t *testing.T) {
	t.Setenv("CONFIG_ENV", "missing")
	t.Setenv("LOBBY_LOBBY_DEFAULT_MAX_PLAYERS", "0")
	t.Setenv("LOBBY_WS_PING_PERIOD", "2m")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "default_max_players")
	assert.Contains(t, err.Error(), "ping_period")
}
