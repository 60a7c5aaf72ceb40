package signal

import (
	"github.com/dkeye/Lobby/internal/core"
	"github.com/dkeye/Lobby/internal/domain"
	"github.com/rs/zerolog/log"
)

func (ctl *SignalWSController) handleSendMessage(sid core.SessionID, data []byte) {
	var p messagePayload
	if err := decode(data, &p); err != nil {
		ctl.sendError(sid, err)
		return
	}
	if !ctl.limiter.Allow(ctl.rateKey(sid)) {
		log.Warn().Str("module", "signal").Str("sid", string(sid)).Msg("chat rate limited")
		ctl.sendError(sid, domain.ErrRateLimited)
		return
	}
	if err := ctl.Orch.SendMessage(sid, p.RoomID, p.Message); err != nil {
		ctl.sendError(sid, err)
	}
}

// rateKey buckets by player identity so reconnecting does not reset the limit.
func (ctl *SignalWSController) rateKey(sid core.SessionID) string {
	info, ok := ctl.Orch.Hub.Info(sid)
	if !ok || (info.UserID == "" && info.Nickname == "") {
		return "s:" + string(sid)
	}
	return string(domain.IdentityOf(info.UserID, info.Nickname))
}
