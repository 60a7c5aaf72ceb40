package signal

import (
	"github.com/dkeye/Lobby/internal/core"
)

func (ctl *SignalWSController) handleToggleReady(sid core.SessionID, data []byte) {
	var p roomPayload
	if err := decode(data, &p); err != nil {
		ctl.sendError(sid, err)
		return
	}
	if err := ctl.Orch.ToggleReady(sid, p.RoomID); err != nil {
		ctl.sendError(sid, err)
	}
}

func (ctl *SignalWSController) handleToggleSpectator(sid core.SessionID, data []byte) {
	var p roomPayload
	if err := decode(data, &p); err != nil {
		ctl.sendError(sid, err)
		return
	}
	if err := ctl.Orch.ToggleSpectator(sid, p.RoomID); err != nil {
		ctl.sendError(sid, err)
	}
}
