package core_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dkeye/Lobby/internal/core"
	"github.com/dkeye/Lobby/internal/core/coretest"
	"github.com/dkeye/Lobby/internal/domain"
)

func newRoom(t *testing.T, cfg domain.RoomConfig) *core.Room {
	t.Helper()
	cfg, err := cfg.Normalize(4)
	require.NoError(t, err)
	return core.NewRoom("r1", cfg, coretest.NewManualScheduler(epoch), 2*time.Second)
}

func TestRoom_CreatorIsHost(t *testing.T) {
	r := newRoom(t, domain.RoomConfig{Creator: "Alice"})
	require.Equal(t, 1, r.Len())
	assert.Equal(t, "Alice", r.Host().Nickname)
	assert.Equal(t, domain.StatusWaiting, r.Host().Status)
	assert.Equal(t, domain.RoomWaiting, r.Status())
}

func TestRoom_ResolveIdentity(t *testing.T) {
	r := newRoom(t, domain.RoomConfig{Creator: "Alice"})
	bob := &core.Member{Nickname: "Bob", UserID: "u-bob", Status: domain.StatusWaiting}
	r.Add(bob)

	tests := []struct {
		name     string
		userID   domain.UserID
		nickname string
		want     string
	}{
		{name: "by user id", userID: "u-bob", nickname: "renamed", want: "Bob"},
		{name: "nickname fallback for member without id", nickname: "Alice", want: "Alice"},
		{name: "caller with id adopts id-less member", userID: "u-alice", nickname: "Alice", want: "Alice"},
		{name: "nickname never matches member with other id", nickname: "Bob", want: ""},
		{name: "unknown", userID: "u-x", nickname: "X", want: ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := r.ResolveIdentity(tt.userID, tt.nickname)
			if tt.want == "" {
				assert.Nil(t, m)
				return
			}
			require.NotNil(t, m)
			assert.Equal(t, tt.want, m.Nickname)
		})
	}
}

func TestRoom_RemovePromotesNextHost(t *testing.T) {
	r := newRoom(t, domain.RoomConfig{Creator: "Alice"})
	r.Add(&core.Member{Nickname: "Bob"})
	r.Add(&core.Member{Nickname: "Carol"})

	require.True(t, r.Remove(r.Host()))
	assert.Equal(t, "Bob", r.Host().Nickname)
	assert.Equal(t, []string{"Bob", "Carol"}, r.Summary().Players)
}

func TestRoom_Ban(t *testing.T) {
	r := newRoom(t, domain.RoomConfig{Creator: "Alice"})
	r.Ban("Bob", "u-bob")

	assert.True(t, r.IsBanned("", "Bob"))
	assert.True(t, r.IsBanned("u-bob", "Robert"), "durable id stays banned after a rename")
	assert.False(t, r.IsBanned("", "Carol"))
	assert.Equal(t, []string{"Bob"}, r.BannedNicknames())
}

func TestRoom_ApplySettings(t *testing.T) {
	intp := func(v int) *int { return &v }
	strp := func(v string) *string { return &v }

	r := newRoom(t, domain.RoomConfig{Creator: "Alice", Password: "pw", MaxPlayers: 4})
	r.Add(&core.Member{Nickname: "Bob", Status: domain.StatusReady})
	r.Add(&core.Member{Nickname: "Carol", Status: domain.StatusSpectating})

	err := r.ApplySettings(domain.SettingsPatch{Title: strp("new"), MaxPlayers: intp(1)})
	require.ErrorIs(t, err, domain.ErrCapacityConflict)
	assert.Equal(t, "Alice의 방", r.Title(), "rejected patch changes nothing")
	assert.Equal(t, 4, r.Snapshot().MaxPlayers)

	require.NoError(t, r.ApplySettings(domain.SettingsPatch{MaxPlayers: intp(2)}), "spectators do not count")
	assert.Equal(t, 2, r.Snapshot().MaxPlayers)
	assert.True(t, r.Snapshot().HasPassword, "absent password key leaves it")

	require.NoError(t, r.ApplySettings(domain.SettingsPatch{Password: strp("")}))
	assert.False(t, r.Snapshot().HasPassword)
	assert.True(t, r.CheckPassword("anything"))

	require.NoError(t, r.ApplySettings(domain.SettingsPatch{Title: strp("  "), GameType: strp("zombie-dice")}))
	assert.Equal(t, "Alice의 방", r.Title(), "blank title is ignored")
	assert.Equal(t, "zombie-dice", r.Snapshot().GameType)

	require.ErrorIs(t, r.ApplySettings(domain.SettingsPatch{MaxPlayers: intp(0)}), domain.ErrInvalidSettings)
}

func TestRoom_CheckPassword(t *testing.T) {
	r := newRoom(t, domain.RoomConfig{Creator: "Alice", Password: "secret"})
	assert.True(t, r.CheckPassword("secret"))
	assert.False(t, r.CheckPassword("nope"))
	assert.True(t, r.Snapshot().HasPassword)
}
