package orch

import (
	"github.com/dkeye/Lobby/internal/app"
	"github.com/dkeye/Lobby/internal/core"
	"github.com/dkeye/Lobby/internal/domain"
)

// Orchestrator turns transport events and client commands into calls on the
// room registry, the session directory, the hub and the membership engine.
type Orchestrator struct {
	Rooms    *app.RoomRegistry
	Sessions *app.SessionDirectory
	Hub      *app.Hub
	Engine   *app.Engine
	Clock    core.Scheduler

	MaxMessageLen int
}

func callerOf(info app.ConnInfo) app.Caller {
	return app.Caller{SID: info.SID, UserID: info.UserID, Nickname: info.Nickname}
}

// boundRoom resolves the room a command refers to. The session must be in that
// room's broadcast group; an explicit roomID has to match it.
func (o *Orchestrator) boundRoom(sid core.SessionID, roomID domain.RoomID) (domain.RoomID, app.Caller, error) {
	info, ok := o.Hub.Info(sid)
	if !ok {
		return "", app.Caller{}, core.ErrConnClosed
	}
	if info.RoomID == "" || (roomID != "" && roomID != info.RoomID) {
		return "", app.Caller{}, domain.ErrNotInRoom
	}
	return info.RoomID, callerOf(info), nil
}
