package orch

import (
	"github.com/dkeye/Lobby/internal/app"
	"github.com/dkeye/Lobby/internal/core"
	"github.com/dkeye/Lobby/internal/domain"
	"github.com/rs/zerolog/log"
)

// Connect registers a new transport session. A durable id supersedes whatever
// session the user had before; it never puts the user back into a room.
func (o *Orchestrator) Connect(sid core.SessionID, userID domain.UserID, conn core.SignalConnection) {
	o.Hub.Register(sid, userID, conn)
	o.Sessions.OnConnect(userID, sid)
}

// Close handles a transport that went away. Durable users keep their seat
// for the grace period; anonymous ones leave immediately.
func (o *Orchestrator) Close(sid core.SessionID) {
	info, ok := o.Hub.Unregister(sid)
	if !ok {
		return
	}
	c := callerOf(info)
	l := log.With().Str("module", "app.orch").Str("sid", string(sid)).Str("user_id", string(info.UserID)).Logger()

	if info.Kicked {
		o.Engine.Disconnect(info.RoomID, c, true)
	}
	if info.UserID != "" {
		o.Sessions.OnDisconnect(info.UserID, sid, func(room domain.RoomID) {
			o.Engine.Disconnect(room, c, false)
		})
		return
	}
	if info.RoomID != "" && !info.Kicked {
		l.Info().Str("room_id", string(info.RoomID)).Msg("anonymous session closed, leaving room")
		o.Engine.Disconnect(info.RoomID, c, false)
	}
}

// identify validates who the session claims to be and records it on the hub.
// An empty userID falls back to the id the session connected with.
func (o *Orchestrator) identify(sid core.SessionID, nickname string, userID domain.UserID) error {
	nickname, err := domain.NormalizeNickname(nickname)
	if err != nil {
		return err
	}
	userID, err = domain.NormalizeUserID(string(userID))
	if err != nil {
		return err
	}
	info, ok := o.Hub.Info(sid)
	if !ok {
		return core.ErrConnClosed
	}
	if userID == "" {
		userID = info.UserID
	}
	if userID != info.UserID {
		o.Sessions.Forget(info.UserID, sid)
		o.Sessions.OnConnect(userID, sid)
	}
	o.Hub.SetProfile(sid, userID, nickname)
	return nil
}

// previousRoom is the room the caller still holds a seat in. After a
// reconnect the new session is not in any broadcast group yet, so the
// directory binding of the durable id is used.
func (o *Orchestrator) previousRoom(info app.ConnInfo) domain.RoomID {
	if info.RoomID != "" {
		return info.RoomID
	}
	if info.UserID == "" {
		return ""
	}
	room, _ := o.Sessions.CurrentRoom(info.UserID)
	return room
}

// leavePrevious gives up the seat in any room other than target.
func (o *Orchestrator) leavePrevious(info app.ConnInfo, target domain.RoomID) {
	prev := o.previousRoom(info)
	if prev == "" || prev == target {
		return
	}
	o.Engine.Leave(prev, callerOf(info))
	log.Info().Str("module", "app.orch").Str("sid", string(info.SID)).Str("from_room", string(prev)).Str("to_room", string(target)).Msg("left previous room")
}
