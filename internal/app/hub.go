package app

import (
	"sync"

	"github.com/dkeye/Lobby/internal/core"
	"github.com/dkeye/Lobby/internal/domain"
	"github.com/rs/zerolog/log"
)

// Emitter is how the membership engine reaches clients.
type Emitter interface {
	Send(sid core.SessionID, ev Event)
	Broadcast(room domain.RoomID, ev Event, except core.SessionID)
	Attach(sid core.SessionID, room domain.RoomID)
	Detach(sid core.SessionID, room domain.RoomID)
	MarkKicked(sid core.SessionID)
}

// ConnInfo describes a live transport session.
type ConnInfo struct {
	SID      core.SessionID
	UserID   domain.UserID
	Nickname string
	RoomID   domain.RoomID
	Kicked   bool
}

type hubConn struct {
	info ConnInfo
	conn core.SignalConnection
}

// Hub tracks live transport sessions and the per-room broadcast groups.
type Hub struct {
	mu     sync.RWMutex
	conns  map[core.SessionID]*hubConn
	groups map[domain.RoomID]map[core.SessionID]struct{}
	policy Policy
}

var _ Emitter = (*Hub)(nil)

func NewHub(policy Policy) *Hub {
	return &Hub{
		conns:  make(map[core.SessionID]*hubConn),
		groups: make(map[domain.RoomID]map[core.SessionID]struct{}),
		policy: policy,
	}
}

func (h *Hub) Register(sid core.SessionID, userID domain.UserID, conn core.SignalConnection) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.conns[sid] = &hubConn{info: ConnInfo{SID: sid, UserID: userID}, conn: conn}
	log.Info().Str("module", "app.hub").Str("sid", string(sid)).Str("user_id", string(userID)).Msg("registered session")
}

// Unregister forgets the session and returns what it was doing.
func (h *Hub) Unregister(sid core.SessionID) (ConnInfo, bool) {
	h.mu.Lock()
	defer h.mu.Unlock()
	c, ok := h.conns[sid]
	if !ok {
		return ConnInfo{}, false
	}
	h.leaveGroupLocked(sid, c.info.RoomID)
	delete(h.conns, sid)
	log.Info().Str("module", "app.hub").Str("sid", string(sid)).Msg("unregistered session")
	return c.info, true
}

// SetProfile records who the session claims to be.
func (h *Hub) SetProfile(sid core.SessionID, userID domain.UserID, nickname string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if c, ok := h.conns[sid]; ok {
		c.info.UserID = userID
		c.info.Nickname = nickname
	}
}

func (h *Hub) Info(sid core.SessionID) (ConnInfo, bool) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	c, ok := h.conns[sid]
	if !ok {
		return ConnInfo{}, false
	}
	return c.info, true
}

// Attach moves the session into room's broadcast group. A kick from an
// earlier room no longer applies.
func (h *Hub) Attach(sid core.SessionID, room domain.RoomID) {
	h.mu.Lock()
	defer h.mu.Unlock()
	c, ok := h.conns[sid]
	if !ok {
		return
	}
	if c.info.RoomID != room {
		h.leaveGroupLocked(sid, c.info.RoomID)
	}
	g, ok := h.groups[room]
	if !ok {
		g = make(map[core.SessionID]struct{})
		h.groups[room] = g
	}
	g[sid] = struct{}{}
	c.info.RoomID = room
	c.info.Kicked = false
}

func (h *Hub) Detach(sid core.SessionID, room domain.RoomID) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.leaveGroupLocked(sid, room)
	if c, ok := h.conns[sid]; ok && c.info.RoomID == room {
		c.info.RoomID = ""
	}
}

func (h *Hub) MarkKicked(sid core.SessionID) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if c, ok := h.conns[sid]; ok {
		c.info.Kicked = true
	}
}

func (h *Hub) Members(room domain.RoomID) []core.SessionID {
	h.mu.RLock()
	defer h.mu.RUnlock()
	out := make([]core.SessionID, 0, len(h.groups[room]))
	for sid := range h.groups[room] {
		out = append(out, sid)
	}
	return out
}

func (h *Hub) Len() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.conns)
}

func (h *Hub) Send(sid core.SessionID, ev Event) {
	data, ok := encode(ev)
	if !ok {
		return
	}
	h.mu.RLock()
	defer h.mu.RUnlock()
	c, ok := h.conns[sid]
	if !ok {
		return
	}
	h.deliverLocked(c, data)
}

func (h *Hub) Broadcast(room domain.RoomID, ev Event, except core.SessionID) {
	data, ok := encode(ev)
	if !ok {
		return
	}
	h.mu.RLock()
	defer h.mu.RUnlock()
	sent := 0
	for sid := range h.groups[room] {
		if sid == except {
			continue
		}
		if c, ok := h.conns[sid]; ok && h.deliverLocked(c, data) {
			sent++
		}
	}
	log.Debug().Str("module", "app.hub").Str("room_id", string(room)).Str("event", string(ev.EventType())).Int("sent_to", sent).Msg("broadcast result")
}

func (h *Hub) deliverLocked(c *hubConn, data []byte) bool {
	err := c.conn.TrySend(data)
	if err == nil {
		return true
	}
	action := DropFrame
	if h.policy != nil {
		action = h.policy.OnBackPressure(c.info.RoomID, c.info.SID, err)
	}
	log.Warn().Err(err).Str("module", "app.hub").Str("sid", string(c.info.SID)).Int("action", int(action)).Msg("send failed")
	if action == KickMember {
		c.conn.Close()
	}
	return false
}

func (h *Hub) leaveGroupLocked(sid core.SessionID, room domain.RoomID) {
	if room == "" {
		return
	}
	g, ok := h.groups[room]
	if !ok {
		return
	}
	delete(g, sid)
	if len(g) == 0 {
		delete(h.groups, room)
	}
}

func encode(ev Event) ([]byte, bool) {
	data, err := Encode(ev)
	if err != nil {
		log.Error().Err(err).Str("module", "app.hub").Str("event", string(ev.EventType())).Msg("encode event")
		return nil, false
	}
	return data, true
}
