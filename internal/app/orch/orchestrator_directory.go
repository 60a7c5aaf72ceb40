package orch

import (
	"github.com/dkeye/Lobby/internal/domain"
)

func (o *Orchestrator) CreateRoom(cfg domain.RoomConfig) (domain.RoomSummary, error) {
	id, err := o.Rooms.Create(cfg)
	if err != nil {
		return domain.RoomSummary{}, err
	}
	return o.Rooms.Summary(id)
}

func (o *Orchestrator) ListRooms() []domain.RoomSummary {
	return o.Rooms.List()
}

func (o *Orchestrator) RoomSummary(id domain.RoomID) (domain.RoomSummary, error) {
	return o.Rooms.Summary(id)
}

func (o *Orchestrator) CheckPassword(id domain.RoomID, password string) error {
	return o.Rooms.CheckPassword(id, password)
}
