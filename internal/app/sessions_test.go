package app_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dkeye/Lobby/internal/app"
	"github.com/dkeye/Lobby/internal/core/coretest"
	"github.com/dkeye/Lobby/internal/domain"
)

func TestSessionDirectory_EvictsAfterGrace(t *testing.T) {
	sched := coretest.NewManualScheduler(epoch)
	d := app.NewSessionDirectory(sched, grace)

	d.OnConnect("u-1", "s1")
	d.BindRoom("u-1", "s1", "room-1")

	var evicted []domain.RoomID
	require.True(t, d.OnDisconnect("u-1", "s1", func(r domain.RoomID) { evicted = append(evicted, r) }))

	sched.Advance(grace - time.Millisecond)
	assert.Empty(t, evicted)
	room, ok := d.CurrentRoom("u-1")
	assert.True(t, ok)
	assert.Equal(t, domain.RoomID("room-1"), room)

	sched.Advance(time.Millisecond)
	assert.Equal(t, []domain.RoomID{"room-1"}, evicted)
	assert.Equal(t, 0, d.Len())
}

func TestSessionDirectory_ReconnectCancelsEviction(t *testing.T) {
	sched := coretest.NewManualScheduler(epoch)
	d := app.NewSessionDirectory(sched, grace)

	d.OnConnect("u-1", "s1")
	d.BindRoom("u-1", "s1", "room-1")
	evicted := 0
	d.OnDisconnect("u-1", "s1", func(domain.RoomID) { evicted++ })

	sched.Advance(5 * time.Second)
	d.OnConnect("u-1", "s2")
	sched.Advance(grace)

	assert.Zero(t, evicted)
	sid, ok := d.CurrentSession("u-1")
	require.True(t, ok)
	assert.Equal(t, "s2", string(sid))
	room, ok := d.CurrentRoom("u-1")
	assert.True(t, ok, "room binding survives the reconnect")
	assert.Equal(t, domain.RoomID("room-1"), room)
}

func TestSessionDirectory_StaleDisconnectIgnored(t *testing.T) {
	sched := coretest.NewManualScheduler(epoch)
	d := app.NewSessionDirectory(sched, grace)

	d.OnConnect("u-1", "s1")
	d.OnConnect("u-1", "s2")

	assert.False(t, d.OnDisconnect("u-1", "s1", nil))
	assert.False(t, d.OnDisconnect("", "s1", nil))
	assert.Equal(t, 0, sched.Pending())
}

func TestSessionDirectory_NoRoomNoEviction(t *testing.T) {
	sched := coretest.NewManualScheduler(epoch)
	d := app.NewSessionDirectory(sched, grace)

	d.OnConnect("u-1", "s1")
	d.BindRoom("u-1", "s1", "room-1")
	d.ClearRoom("u-1", "room-2")
	_, ok := d.CurrentRoom("u-1")
	assert.True(t, ok, "clearing another room keeps the binding")
	d.ClearRoom("u-1", "room-1")

	called := false
	d.OnDisconnect("u-1", "s1", func(domain.RoomID) { called = true })
	sched.Advance(grace)

	assert.False(t, called)
	assert.Equal(t, 0, d.Len())
}
