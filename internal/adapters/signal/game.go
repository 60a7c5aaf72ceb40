package signal

import (
	"fmt"

	"github.com/dkeye/Lobby/internal/core"
	"github.com/dkeye/Lobby/internal/domain"
	"github.com/rs/zerolog/log"
)

// handleGame relays game traffic to the room. A failure here must never take
// the read pump down, so panics are turned into a gameError for the sender.
func (ctl *SignalWSController) handleGame(sid core.SessionID, name string, data []byte) {
	defer func() {
		if r := recover(); r != nil {
			log.Error().Str("module", "signal").Str("sid", string(sid)).Str("event", name).Interface("panic", r).Msg("game handler panicked")
			ctl.Orch.FailGame(sid, fmt.Errorf("%w: %v", domain.ErrGameFailure, r))
		}
	}()

	var p gamePayload
	if err := decode(data, &p); err != nil {
		ctl.Orch.FailGame(sid, err)
		return
	}
	if err := ctl.Orch.GameEvent(sid, p.RoomID, name, p.Payload); err != nil {
		ctl.sendError(sid, err)
	}
}
