package orch

import (
	"encoding/json"

	"github.com/dkeye/Lobby/internal/app"
	"github.com/dkeye/Lobby/internal/core"
	"github.com/dkeye/Lobby/internal/domain"
)

func (o *Orchestrator) JoinRoom(sid core.SessionID, roomID domain.RoomID, nickname string, userID domain.UserID) error {
	if err := o.identify(sid, nickname, userID); err != nil {
		return err
	}
	info, _ := o.Hub.Info(sid)
	if _, err := o.Rooms.Get(roomID); err != nil {
		return err
	}
	o.leavePrevious(info, roomID)
	return o.Engine.Join(roomID, callerOf(info))
}

// RejoinRoom restores a seat after a reconnect. A seat the user still holds
// in another room is given up once the rejoin succeeded.
func (o *Orchestrator) RejoinRoom(sid core.SessionID, roomID domain.RoomID, nickname string, userID domain.UserID) error {
	if err := o.identify(sid, nickname, userID); err != nil {
		return err
	}
	info, _ := o.Hub.Info(sid)
	prev := o.previousRoom(info)
	if err := o.Engine.Rejoin(roomID, callerOf(info)); err != nil {
		return err
	}
	if prev != "" && prev != roomID {
		o.Engine.Leave(prev, callerOf(info))
	}
	return nil
}

// LeaveRoom is idempotent: leaving a room the session is not in does nothing.
func (o *Orchestrator) LeaveRoom(sid core.SessionID, roomID domain.RoomID) error {
	info, ok := o.Hub.Info(sid)
	if !ok {
		return core.ErrConnClosed
	}
	if roomID == "" {
		roomID = info.RoomID
	}
	if roomID == "" {
		return nil
	}
	o.Engine.Leave(roomID, callerOf(info))
	return nil
}

func (o *Orchestrator) SendMessage(sid core.SessionID, roomID domain.RoomID, text string) error {
	text, err := domain.NormalizeMessage(text, o.MaxMessageLen)
	if err != nil {
		return err
	}
	room, c, err := o.boundRoom(sid, roomID)
	if err != nil {
		return err
	}
	return o.Engine.SendMessage(room, c, text)
}

func (o *Orchestrator) ToggleReady(sid core.SessionID, roomID domain.RoomID) error {
	room, c, err := o.boundRoom(sid, roomID)
	if err != nil {
		return err
	}
	return o.Engine.ToggleReady(room, c)
}

func (o *Orchestrator) ToggleSpectator(sid core.SessionID, roomID domain.RoomID) error {
	room, c, err := o.boundRoom(sid, roomID)
	if err != nil {
		return err
	}
	return o.Engine.ToggleSpectator(room, c)
}

func (o *Orchestrator) KickPlayer(sid core.SessionID, roomID domain.RoomID, target string) error {
	room, c, err := o.boundRoom(sid, roomID)
	if err != nil {
		return err
	}
	return o.Engine.Kick(room, c, target)
}

func (o *Orchestrator) UpdateRoomSettings(sid core.SessionID, roomID domain.RoomID, patch domain.SettingsPatch) error {
	room, c, err := o.boundRoom(sid, roomID)
	if err != nil {
		return err
	}
	return o.Engine.UpdateSettings(room, c, patch)
}

func (o *Orchestrator) GameEvent(sid core.SessionID, roomID domain.RoomID, name string, payload json.RawMessage) error {
	room, c, err := o.boundRoom(sid, roomID)
	if err != nil {
		return err
	}
	return o.Engine.RelayGameEvent(room, c, name, payload)
}

func (o *Orchestrator) Ping(sid core.SessionID) {
	o.Hub.Send(sid, app.NewPong(o.Clock.Now()))
}

// Fail reports err to the acting session only.
func (o *Orchestrator) Fail(sid core.SessionID, err error) {
	o.Hub.Send(sid, app.NewError(err))
}

func (o *Orchestrator) FailGame(sid core.SessionID, err error) {
	o.Hub.Send(sid, app.NewGameError(err))
}
