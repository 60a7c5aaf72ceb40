package signal

import (
	"github.com/dkeye/Lobby/internal/core"
	"github.com/rs/zerolog/log"
)

func (ctl *SignalWSController) handleJoin(sid core.SessionID, data []byte) {
	var p joinPayload
	if err := decode(data, &p); err != nil {
		ctl.sendError(sid, err)
		return
	}
	log.Info().Str("module", "signal").Str("sid", string(sid)).Str("room_id", string(p.RoomID)).Str("nickname", p.Nickname).Msg("join")
	if err := ctl.Orch.JoinRoom(sid, p.RoomID, p.Nickname, p.UserID); err != nil {
		ctl.sendError(sid, err)
	}
}

// handleRejoin restores a member after a page refresh. A session-expired
// answer tells the client to fall back to a normal join.
func (ctl *SignalWSController) handleRejoin(sid core.SessionID, data []byte) {
	var p joinPayload
	if err := decode(data, &p); err != nil {
		ctl.sendError(sid, err)
		return
	}
	log.Info().Str("module", "signal").Str("sid", string(sid)).Str("room_id", string(p.RoomID)).Str("nickname", p.Nickname).Msg("rejoin")
	if err := ctl.Orch.RejoinRoom(sid, p.RoomID, p.Nickname, p.UserID); err != nil {
		ctl.sendError(sid, err)
	}
}

// handleLeave leaves the current room; the connection itself stays open.
func (ctl *SignalWSController) handleLeave(sid core.SessionID, data []byte) {
	var p roomPayload
	if err := decode(data, &p); err != nil {
		ctl.sendError(sid, err)
		return
	}
	log.Info().Str("module", "signal").Str("sid", string(sid)).Msg("leave")
	if err := ctl.Orch.LeaveRoom(sid, p.RoomID); err != nil {
		ctl.sendError(sid, err)
	}
}

func (ctl *SignalWSController) handleKick(sid core.SessionID, data []byte) {
	var p kickPayload
	if err := decode(data, &p); err != nil {
		ctl.sendError(sid, err)
		return
	}
	if err := ctl.Orch.KickPlayer(sid, p.RoomID, p.TargetNickname); err != nil {
		ctl.sendError(sid, err)
	}
}

func (ctl *SignalWSController) handleUpdateSettings(sid core.SessionID, data []byte) {
	var p settingsPayload
	if err := decode(data, &p); err != nil {
		ctl.sendError(sid, err)
		return
	}
	if err := ctl.Orch.UpdateRoomSettings(sid, p.RoomID, p.patch()); err != nil {
		ctl.sendError(sid, err)
	}
}
