package app_test

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/dkeye/Lobby/internal/app"
	"github.com/dkeye/Lobby/internal/core"
	"github.com/dkeye/Lobby/internal/core/mocks"
)

func TestHub_BroadcastSkipsSender(t *testing.T) {
	ctrl := gomock.NewController(t)
	a := mocks.NewMockSignalConnection(ctrl)
	b := mocks.NewMockSignalConnection(ctrl)

	hub := app.NewHub(app.SimplePolicy{})
	hub.Register("a", "u-a", a)
	hub.Register("b", "u-b", b)
	hub.Attach("a", "room-1")
	hub.Attach("b", "room-1")

	var got map[string]any
	b.EXPECT().TrySend(gomock.Any()).Do(func(f core.Frame) {
		require.NoError(t, json.Unmarshal(f, &got))
	}).Return(nil)

	hub.Broadcast("room-1", app.NewLeft("room-1"), "a")

	assert.Equal(t, "left", got["type"])
	assert.Equal(t, "room-1", got["roomId"])
}

func TestHub_BackpressureClosesConnection(t *testing.T) {
	ctrl := gomock.NewController(t)
	slow := mocks.NewMockSignalConnection(ctrl)

	hub := app.NewHub(app.SimplePolicy{})
	hub.Register("s", "", slow)
	hub.Attach("s", "room-1")

	slow.EXPECT().TrySend(gomock.Any()).Return(core.ErrBackpressure)
	slow.EXPECT().Close()

	hub.Broadcast("room-1", app.NewLeft("room-1"), "")
}

func TestHub_ClosedConnectionIsNotKicked(t *testing.T) {
	ctrl := gomock.NewController(t)
	gone := mocks.NewMockSignalConnection(ctrl)

	hub := app.NewHub(app.SimplePolicy{})
	hub.Register("g", "", gone)

	gone.EXPECT().TrySend(gomock.Any()).Return(core.ErrConnClosed)

	hub.Send("g", app.NewError(errors.New("boom")))
}

func TestHub_AttachMovesBetweenGroups(t *testing.T) {
	hub := app.NewHub(nil)
	hub.Register("a", "u-a", newFakeConn(t))

	hub.Attach("a", "room-1")
	hub.Attach("a", "room-2")

	assert.Empty(t, hub.Members("room-1"))
	assert.Equal(t, []core.SessionID{"a"}, hub.Members("room-2"))

	hub.Detach("a", "room-1")
	info, ok := hub.Info("a")
	require.True(t, ok)
	assert.Equal(t, "room-2", string(info.RoomID), "detaching another room is a no-op")

	hub.MarkKicked("a")
	info, ok = hub.Unregister("a")
	require.True(t, ok)
	assert.True(t, info.Kicked)
	assert.Empty(t, hub.Members("room-2"))
	assert.Equal(t, 0, hub.Len())

	_, ok = hub.Unregister("a")
	assert.False(t, ok)
}
