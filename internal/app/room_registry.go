package app

import (
	"sort"
	"sync"
	"time"

	"github.com/dkeye/Lobby/internal/core"
	"github.com/dkeye/Lobby/internal/domain"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// RoomDefaults are applied to every room the registry creates.
type RoomDefaults struct {
	MaxPlayers     int
	NoticeInterval time.Duration
}

// RoomRegistry owns the room map and the create/delete lifecycle.
type RoomRegistry struct {
	mu       sync.RWMutex
	rooms    map[domain.RoomID]*core.Room
	sched    core.Scheduler
	defaults RoomDefaults
	newID    func() domain.RoomID
}

func NewRoomRegistry(sched core.Scheduler, defaults RoomDefaults) *RoomRegistry {
	return &RoomRegistry{
		rooms:    make(map[domain.RoomID]*core.Room),
		sched:    sched,
		defaults: defaults,
		newID:    func() domain.RoomID { return domain.RoomID(uuid.NewString()) },
	}
}

// Create installs a new room with the creator as host.
func (f *RoomRegistry) Create(cfg domain.RoomConfig) (domain.RoomID, error) {
	cfg, err := cfg.Normalize(f.defaults.MaxPlayers)
	if err != nil {
		return "", err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	id := f.newID()
	for {
		if _, taken := f.rooms[id]; !taken {
			break
		}
		id = f.newID()
	}
	f.rooms[id] = core.NewRoom(id, cfg, f.sched, f.defaults.NoticeInterval)
	log.Info().Str("module", "app.rooms").Str("room_id", string(id)).Str("creator", cfg.Creator).Msg("room created")
	return id, nil
}

func (f *RoomRegistry) Get(id domain.RoomID) (*core.Room, error) {
	f.mu.RLock()
	defer f.mu.RUnlock()
	room, ok := f.rooms[id]
	if !ok {
		return nil, domain.ErrRoomNotFound
	}
	return room, nil
}

// List returns public summaries in creation order.
func (f *RoomRegistry) List() []domain.RoomSummary {
	f.mu.RLock()
	rooms := make([]*core.Room, 0, len(f.rooms))
	for _, r := range f.rooms {
		rooms = append(rooms, r)
	}
	f.mu.RUnlock()

	sort.Slice(rooms, func(i, j int) bool {
		if rooms[i].CreatedAt().Equal(rooms[j].CreatedAt()) {
			return rooms[i].ID() < rooms[j].ID()
		}
		return rooms[i].CreatedAt().Before(rooms[j].CreatedAt())
	})
	out := make([]domain.RoomSummary, 0, len(rooms))
	for _, r := range rooms {
		r.Lock()
		if !r.Closed() {
			out = append(out, r.Summary())
		}
		r.Unlock()
	}
	return out
}

// Summary returns the public view of one room.
func (f *RoomRegistry) Summary(id domain.RoomID) (domain.RoomSummary, error) {
	room, err := f.Get(id)
	if err != nil {
		return domain.RoomSummary{}, err
	}
	room.Lock()
	defer room.Unlock()
	if room.Closed() {
		return domain.RoomSummary{}, domain.ErrRoomNotFound
	}
	return room.Summary(), nil
}

// CheckPassword verifies the room password for the lobby's password gate.
func (f *RoomRegistry) CheckPassword(id domain.RoomID, password string) error {
	room, err := f.Get(id)
	if err != nil {
		return err
	}
	room.Lock()
	defer room.Unlock()
	if room.Closed() {
		return domain.ErrRoomNotFound
	}
	if !room.CheckPassword(password) {
		return domain.ErrWrongPassword
	}
	return nil
}

// DeleteIfEmpty removes the room once nobody is left in it. The caller must
// hold the room lock.
func (f *RoomRegistry) DeleteIfEmpty(room *core.Room) bool {
	if room.Len() > 0 {
		return false
	}
	room.Close()
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.rooms[room.ID()] == room {
		delete(f.rooms, room.ID())
	}
	log.Info().Str("module", "app.rooms").Str("room_id", string(room.ID())).Msg("room deleted (empty)")
	return true
}

func (f *RoomRegistry) Len() int {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return len(f.rooms)
}
