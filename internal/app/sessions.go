package app

import (
	"sync"
	"time"

	"github.com/dkeye/Lobby/internal/core"
	"github.com/dkeye/Lobby/internal/domain"
	"github.com/rs/zerolog/log"
)

type sessionEntry struct {
	SID    core.SessionID
	RoomID domain.RoomID
}

// SessionDirectory maps a durable user id to its current transport session
// and room. Disconnects are deferred by a grace period so a refresh or a
// network blip does not evict the player.
type SessionDirectory struct {
	mu    sync.Mutex
	sched core.Scheduler
	grace time.Duration
	users map[domain.UserID]*sessionEntry
}

func NewSessionDirectory(sched core.Scheduler, grace time.Duration) *SessionDirectory {
	return &SessionDirectory{
		sched: sched,
		grace: grace,
		users: make(map[domain.UserID]*sessionEntry),
	}
}

// OnConnect records sid as the user's current session. It never rejoins a
// room by itself.
func (d *SessionDirectory) OnConnect(userID domain.UserID, sid core.SessionID) {
	if userID == "" {
		return
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	e, ok := d.users[userID]
	if !ok {
		d.users[userID] = &sessionEntry{SID: sid}
		log.Info().Str("module", "app.sessions").Str("user_id", string(userID)).Str("sid", string(sid)).Msg("new user session")
		return
	}
	if e.SID != sid {
		log.Info().Str("module", "app.sessions").Str("user_id", string(userID)).Str("old_sid", string(e.SID)).Str("sid", string(sid)).Msg("session superseded")
		e.SID = sid
	}
}

// BindRoom is called after every successful join.
func (d *SessionDirectory) BindRoom(userID domain.UserID, sid core.SessionID, room domain.RoomID) {
	if userID == "" {
		return
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	e, ok := d.users[userID]
	if !ok {
		e = &sessionEntry{}
		d.users[userID] = e
	}
	e.SID = sid
	e.RoomID = room
}

// Forget drops the entry of a session that switched to another durable id
// before joining anything.
func (d *SessionDirectory) Forget(userID domain.UserID, sid core.SessionID) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if e, ok := d.users[userID]; ok && e.SID == sid && e.RoomID == "" {
		delete(d.users, userID)
	}
}

// ClearRoom forgets the room binding if it still points at room.
func (d *SessionDirectory) ClearRoom(userID domain.UserID, room domain.RoomID) {
	if userID == "" {
		return
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	if e, ok := d.users[userID]; ok && e.RoomID == room {
		e.RoomID = ""
	}
}

// OnDisconnect schedules eviction of the user after the grace period. It is
// ignored unless sid is still the user's current session. When the timer
// fires the check is repeated; a reconnect in between cancels the eviction.
// evict runs without the directory lock held.
func (d *SessionDirectory) OnDisconnect(userID domain.UserID, sid core.SessionID, evict func(domain.RoomID)) bool {
	if userID == "" {
		return false
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	e, ok := d.users[userID]
	if !ok || e.SID != sid {
		log.Debug().Str("module", "app.sessions").Str("user_id", string(userID)).Str("sid", string(sid)).Msg("stale disconnect ignored")
		return false
	}
	d.sched.AfterFunc(d.grace, func() { d.expire(userID, sid, evict) })
	log.Info().Str("module", "app.sessions").Str("user_id", string(userID)).Str("sid", string(sid)).Dur("grace", d.grace).Msg("eviction scheduled")
	return true
}

func (d *SessionDirectory) expire(userID domain.UserID, sid core.SessionID, evict func(domain.RoomID)) {
	d.mu.Lock()
	e, ok := d.users[userID]
	if !ok || e.SID != sid {
		d.mu.Unlock()
		log.Info().Str("module", "app.sessions").Str("user_id", string(userID)).Str("sid", string(sid)).Msg("eviction cancelled by reconnect")
		return
	}
	room := e.RoomID
	delete(d.users, userID)
	d.mu.Unlock()

	log.Info().Str("module", "app.sessions").Str("user_id", string(userID)).Str("room_id", string(room)).Msg("grace period elapsed")
	if room != "" && evict != nil {
		evict(room)
	}
}

func (d *SessionDirectory) CurrentRoom(userID domain.UserID) (domain.RoomID, bool) {
	d.mu.Lock()
	defer d.mu.Unlock()
	e, ok := d.users[userID]
	if !ok || e.RoomID == "" {
		return "", false
	}
	return e.RoomID, true
}

func (d *SessionDirectory) CurrentSession(userID domain.UserID) (core.SessionID, bool) {
	d.mu.Lock()
	defer d.mu.Unlock()
	e, ok := d.users[userID]
	if !ok {
		return "", false
	}
	return e.SID, true
}

func (d *SessionDirectory) Len() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.users)
}
