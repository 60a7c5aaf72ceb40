package app_test

import (
	"encoding/json"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/dkeye/Lobby/internal/app"
	"github.com/dkeye/Lobby/internal/core"
	"github.com/dkeye/Lobby/internal/core/coretest"
	"github.com/dkeye/Lobby/internal/domain"
)

var epoch = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

const (
	dedupTTL = 5 * time.Second
	grace    = 30 * time.Second
)

// frame is the union of every outbound event shape.
type frame struct {
	Type        string             `json:"type"`
	RoomID      string             `json:"roomId"`
	ID          string             `json:"id"`
	Kind        string             `json:"kind"`
	Nickname    string             `json:"nickname"`
	Message     string             `json:"message"`
	Timestamp   string             `json:"timestamp"`
	Personal    bool               `json:"personal"`
	Code        string             `json:"code"`
	Title       string             `json:"title"`
	MaxPlayers  int                `json:"maxPlayers"`
	HasPassword bool               `json:"hasPassword"`
	Status      domain.RoomStatus  `json:"status"`
	Players     []domain.Player    `json:"players"`
	Messages    []domain.ChatEvent `json:"messages"`
	SkipMessage *string            `json:"skipMessage"`
	Event       string             `json:"event"`
	From        string             `json:"from"`
	Payload     json.RawMessage    `json:"payload"`
}

// fakeConn records every frame the hub hands it.
type fakeConn struct {
	t      *testing.T
	mu     sync.Mutex
	frames []frame
	closed bool
	err    error
}

func newFakeConn(t *testing.T) *fakeConn { return &fakeConn{t: t} }

func (c *fakeConn) TrySend(f core.Frame) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.err != nil {
		return c.err
	}
	var fr frame
	require.NoError(c.t, json.Unmarshal(f, &fr))
	c.frames = append(c.frames, fr)
	return nil
}

func (c *fakeConn) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.closed = true
}

// drain returns everything received so far and forgets it.
func (c *fakeConn) drain() []frame {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := c.frames
	c.frames = nil
	return out
}

func types(frames []frame) []string {
	out := make([]string, len(frames))
	for i, f := range frames {
		out[i] = f.Type
	}
	return out
}

func nicknames(players []domain.Player) []string {
	out := make([]string, len(players))
	for i, p := range players {
		out[i] = p.Nickname
	}
	return out
}

// lobby wires the app layer the way the orchestrator does, on a manual clock.
type lobby struct {
	t        *testing.T
	sched    *coretest.ManualScheduler
	hub      *app.Hub
	rooms    *app.RoomRegistry
	sessions *app.SessionDirectory
	engine   *app.Engine
}

func newLobby(t *testing.T) *lobby {
	sched := coretest.NewManualScheduler(epoch)
	hub := app.NewHub(app.SimplePolicy{})
	rooms := app.NewRoomRegistry(sched, app.RoomDefaults{MaxPlayers: 4, NoticeInterval: 2 * time.Second})
	sessions := app.NewSessionDirectory(sched, grace)
	return &lobby{
		t:        t,
		sched:    sched,
		hub:      hub,
		rooms:    rooms,
		sessions: sessions,
		engine:   app.NewEngine(rooms, sessions, hub, sched, dedupTTL),
	}
}

func (l *lobby) createRoom(creator string, creatorID domain.UserID) domain.RoomID {
	id, err := l.rooms.Create(domain.RoomConfig{Creator: creator, CreatorID: creatorID, Title: "Test"})
	require.NoError(l.t, err)
	return id
}

func (l *lobby) connect(sid core.SessionID, userID domain.UserID, nickname string) (*fakeConn, app.Caller) {
	conn := newFakeConn(l.t)
	l.hub.Register(sid, userID, conn)
	l.hub.SetProfile(sid, userID, nickname)
	l.sessions.OnConnect(userID, sid)
	return conn, app.Caller{SID: sid, UserID: userID, Nickname: nickname}
}

// join connects and joins, dropping the frames of the join itself.
func (l *lobby) join(room domain.RoomID, sid core.SessionID, userID domain.UserID, nickname string) (*fakeConn, app.Caller) {
	conn, c := l.connect(sid, userID, nickname)
	require.NoError(l.t, l.engine.Join(room, c))
	conn.drain()
	return conn, c
}

// drop closes the transport the way the websocket adapter does.
func (l *lobby) drop(c app.Caller) {
	info, ok := l.hub.Unregister(c.SID)
	require.True(l.t, ok)
	if info.Kicked {
		l.engine.Disconnect(info.RoomID, c, true)
	}
	if c.UserID != "" {
		l.sessions.OnDisconnect(c.UserID, c.SID, func(room domain.RoomID) {
			l.engine.Disconnect(room, c, false)
		})
		return
	}
	if info.RoomID != "" && !info.Kicked {
		l.engine.Disconnect(info.RoomID, c, false)
	}
}

func (l *lobby) players(id domain.RoomID) []string {
	s, err := l.rooms.Summary(id)
	require.NoError(l.t, err)
	return s.Players
}
