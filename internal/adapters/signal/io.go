package signal

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"time"

	"github.com/dkeye/Lobby/internal/core"
	"github.com/dkeye/Lobby/internal/domain"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"
)

func (ctl *SignalWSController) writePump(ctx context.Context, sid core.SessionID, c *WsSignalConn) {
	ticker := time.NewTicker(ctl.cfg.PingPeriod)
	defer func() {
		ticker.Stop()
		c.Close()
	}()

	for {
		select {
		case <-ctx.Done():
			log.Info().Str("module", "signal").Str("sid", string(sid)).Msg("writePump ctx done")
			return
		case data, ok := <-c.send:
			if !ok {
				log.Debug().Str("module", "signal").Str("sid", string(sid)).Msg("writePump channel closed")
				return
			}
			if err := c.conn.SetWriteDeadline(time.Now().Add(ctl.cfg.WriteWait)); err != nil {
				log.Error().Err(err).Str("module", "signal").Msg("writePump set deadline")
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, data); err != nil {
				log.Error().Err(err).Str("module", "signal").Str("sid", string(sid)).Msg("writePump write error")
				return
			}
		case <-ticker.C:
			if err := c.conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(ctl.cfg.WriteWait)); err != nil {
				log.Warn().Err(err).Str("module", "signal").Str("sid", string(sid)).Msg("writePump ping failed")
				return
			}
		}
	}
}

func (ctl *SignalWSController) readPump(ctx context.Context, cancel context.CancelFunc, sid core.SessionID, c *WsSignalConn) {
	defer func() {
		log.Info().Str("module", "signal").Str("sid", string(sid)).Msg("readPump closing")
		cancel()
		c.Close()
		ctl.Orch.Close(sid)
	}()

	c.conn.SetReadLimit(ctl.cfg.ReadLimit)
	_ = c.conn.SetReadDeadline(time.Now().Add(ctl.cfg.PongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(ctl.cfg.PongWait))
	})

	for {
		select {
		case <-ctx.Done():
			log.Info().Str("module", "signal").Str("sid", string(sid)).Msg("readPump ctx done")
			return
		default:
			_, data, err := c.conn.ReadMessage()
			if err != nil {
				if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
					log.Error().Err(err).Str("module", "signal").Str("sid", string(sid)).Msg("readPump read error")
				}
				return
			}
			ctl.handleSignal(sid, data)
		}
	}
}

func (ctl *SignalWSController) handleSignal(sid core.SessionID, data []byte) {
	var env struct {
		Type string `json:"type"`
	}
	if err := json.Unmarshal(data, &env); err != nil {
		log.Error().Err(err).Str("module", "signal").Str("sid", string(sid)).Msg("bad json")
		ctl.sendError(sid, domain.ErrBadPayload)
		return
	}

	switch {
	case env.Type == "joinRoom":
		ctl.handleJoin(sid, data)
	case env.Type == "rejoinRoom":
		ctl.handleRejoin(sid, data)
	case env.Type == "leaveRoom":
		ctl.handleLeave(sid, data)
	case env.Type == "sendMessage":
		ctl.handleSendMessage(sid, data)
	case env.Type == "toggleReady":
		ctl.handleToggleReady(sid, data)
	case env.Type == "toggleSpectator":
		ctl.handleToggleSpectator(sid, data)
	case env.Type == "kickPlayer":
		ctl.handleKick(sid, data)
	case env.Type == "updateRoomSettings":
		ctl.handleUpdateSettings(sid, data)
	case env.Type == "ping":
		ctl.handlePing(sid)
	case env.Type == "gameStarted" || strings.HasPrefix(env.Type, "game:"):
		ctl.handleGame(sid, env.Type, data)
	default:
		log.Warn().Str("module", "signal").Str("type", env.Type).Msg("unknown signal")
	}
}

// decode fills p from data and runs its validation.
func decode(data []byte, p interface{ validate() error }) error {
	if err := json.Unmarshal(data, p); err != nil {
		return errors.Join(domain.ErrBadPayload, err)
	}
	return p.validate()
}

func (ctl *SignalWSController) sendError(sid core.SessionID, err error) {
	log.Info().Err(err).Str("module", "signal").Str("sid", string(sid)).Str("code", domain.ErrorCode(err)).Msg("command rejected")
	ctl.Orch.Fail(sid, err)
}
