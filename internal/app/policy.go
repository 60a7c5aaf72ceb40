package app

import (
	"errors"

	"github.com/dkeye/Lobby/internal/core"
	"github.com/dkeye/Lobby/internal/domain"
)

type BackpressureAction int

const (
	DropFrame BackpressureAction = iota
	KickMember
)

// Policy decides what happens to a session whose outbound queue rejected a frame.
type Policy interface {
	OnBackPressure(room domain.RoomID, sid core.SessionID, err error) BackpressureAction
}

// SimplePolicy closes sessions that cannot keep up. The close runs through the
// normal disconnect path, so a durable user still gets the grace period.
type SimplePolicy struct{}

func (SimplePolicy) OnBackPressure(room domain.RoomID, sid core.SessionID, err error) BackpressureAction {
	if errors.Is(err, core.ErrBackpressure) {
		return KickMember
	}
	return DropFrame
}
