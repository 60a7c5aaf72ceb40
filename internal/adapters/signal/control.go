package signal

import "github.com/dkeye/Lobby/internal/core"

func (ctl *SignalWSController) handlePing(sid core.SessionID) {
	ctl.Orch.Ping(sid)
}
