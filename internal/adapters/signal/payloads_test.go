package signal

import (
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dkeye/Lobby/internal/domain"
)

func TestSettingsPayload_PasswordPresence(t *testing.T) {
	tests := []struct {
		name string
		body string
		want *string
	}{
		{"absent keeps password", `{"settings":{"title":"x"}}`, nil},
		{"empty clears", `{"settings":{"password":""}}`, ptr("")},
		{"null clears", `{"settings":{"password":null}}`, ptr("")},
		{"value sets", `{"settings":{"password":"pw"}}`, ptr("pw")},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var p settingsPayload
			require.NoError(t, decode([]byte(tt.body), &p))
			assert.Equal(t, tt.want, p.patch().Password)
		})
	}
}

func TestSettingsPayload_ZeroMaxPlayersIsAbsent(t *testing.T) {
	var p settingsPayload
	require.NoError(t, decode([]byte(`{"settings":{"maxPlayers":0,"gameType":"dice"}}`), &p))
	assert.Nil(t, p.patch().MaxPlayers)
	require.NotNil(t, p.patch().GameType)
	assert.Equal(t, "dice", *p.patch().GameType)
}

func TestPayloads_Validation(t *testing.T) {
	var s settingsPayload
	assert.ErrorIs(t, decode([]byte(`{"roomId":"r"}`), &s), domain.ErrBadPayload)

	var k kickPayload
	assert.ErrorIs(t, decode([]byte(`{"roomId":"r"}`), &k), domain.ErrBadPayload)

	var m messagePayload
	assert.ErrorIs(t, decode([]byte(`{"message":""}`), &m), domain.ErrMessageEmpty)

	var j joinPayload
	assert.ErrorIs(t, decode([]byte(`{"roomId":1}`), &j), domain.ErrBadPayload)
}

func TestOriginChecker(t *testing.T) {
	check := originChecker([]string{"http://localhost:3000"})

	req := httptest.NewRequest("GET", "/api/ws", nil)
	assert.True(t, check(req), "non-browser clients send no origin")

	req.Header.Set("Origin", "http://localhost:3000")
	assert.True(t, check(req))

	req.Header.Set("Origin", "http://evil.example")
	assert.False(t, check(req))

	assert.True(t, originChecker([]string{"*"})(req))
}

func TestRoomRateLimiter(t *testing.T) {
	rl := NewRoomRateLimiter(0.001, 2)

	assert.True(t, rl.Allow("u:alice"))
	assert.True(t, rl.Allow("u:alice"))
	assert.False(t, rl.Allow("u:alice"))
	assert.True(t, rl.Allow("u:bob"), "buckets are per key")
	assert.Equal(t, 2, rl.Len())
}

func ptr(s string) *string { return &s }

func TestGamePayload_RelaysEverythingButRouting(t *testing.T) {
	tests := []struct {
		name string
		body string
		want string
	}{
		{"nested payload", `{"type":"game:roll","roomId":"r1","payload":{"dice":6}}`, `{"dice":6}`},
		{"top level fields", `{"type":"gameStarted","roomId":"r1","gameType":"zombieDice","firstPlayer":"Alice"}`, `{"firstPlayer":"Alice","gameType":"zombieDice"}`},
		{"payload next to other fields", `{"type":"game:x","roomId":"r1","payload":1,"turn":2}`, `{"payload":1,"turn":2}`},
		{"routing only", `{"type":"game:ping","roomId":"r1"}`, ``},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var p gamePayload
			require.NoError(t, decode([]byte(tt.body), &p))
			assert.Equal(t, domain.RoomID("r1"), p.RoomID)
			if tt.want == "" {
				assert.Empty(t, p.Payload)
				return
			}
			assert.JSONEq(t, tt.want, string(p.Payload))
		})
	}
}

func TestGamePayload_BadRoomID(t *testing.T) {
	var p gamePayload
	assert.ErrorIs(t, decode([]byte(`{"type":"game:x","roomId":7}`), &p), domain.ErrBadPayload)
}
