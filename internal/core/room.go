package core

import (
	"crypto/subtle"
	"sync"
	"time"

	"github.com/dkeye/Lobby/internal/domain"
)

// Member is a roster entry bound to the transport session currently backing it.
type Member struct {
	Nickname string
	UserID   domain.UserID
	Status   domain.PlayerStatus
	SID      SessionID
}

func (m *Member) Identity() domain.Identity { return domain.IdentityOf(m.UserID, m.Nickname) }

func (m *Member) Player() domain.Player {
	return domain.Player{Nickname: m.Nickname, UserID: m.UserID, Status: m.Status}
}

// Room is the in-memory state of one lobby room.
//
// Every method except ID and CreatedAt expects the caller to hold the room
// lock; one mutation runs at a time per room.
type Room struct {
	mu sync.Mutex

	id        domain.RoomID
	createdAt time.Time

	title      string
	maxPlayers int
	gameType   string
	password   string
	status     domain.RoomStatus

	// players[0] is the host.
	players     []*Member
	bannedNames map[string]struct{}
	bannedIDs   map[domain.UserID]struct{}

	log            ChatLog
	recentlyJoined *DedupWindow
	recentlyLeft   *DedupWindow
	notices        *NoticeThrottle

	closed bool
}

// NewRoom installs the creator as the first (host) member.
func NewRoom(id domain.RoomID, cfg domain.RoomConfig, sched Scheduler, noticeInterval time.Duration) *Room {
	return &Room{
		id:          id,
		createdAt:   sched.Now(),
		title:       cfg.Title,
		maxPlayers:  cfg.MaxPlayers,
		gameType:    cfg.GameType,
		password:    cfg.Password,
		status:      domain.RoomWaiting,
		players:     []*Member{{Nickname: cfg.Creator, UserID: cfg.CreatorID, Status: domain.StatusWaiting}},
		bannedNames: make(map[string]struct{}),
		bannedIDs:   make(map[domain.UserID]struct{}),

		recentlyJoined: NewDedupWindow(sched),
		recentlyLeft:   NewDedupWindow(sched),
		notices:        NewNoticeThrottle(sched, noticeInterval),
	}
}

func (r *Room) Lock()   { r.mu.Lock() }
func (r *Room) Unlock() { r.mu.Unlock() }

func (r *Room) ID() domain.RoomID    { return r.id }
func (r *Room) CreatedAt() time.Time { return r.createdAt }

func (r *Room) Title() string                { return r.title }
func (r *Room) Status() domain.RoomStatus    { return r.status }
func (r *Room) Log() *ChatLog                { return &r.log }
func (r *Room) RecentlyJoined() *DedupWindow { return r.recentlyJoined }
func (r *Room) RecentlyLeft() *DedupWindow   { return r.recentlyLeft }
func (r *Room) Notices() *NoticeThrottle     { return r.notices }

// Closed reports whether the room was deleted from the registry. Handlers that
// looked the room up before deletion must treat it as missing.
func (r *Room) Closed() bool { return r.closed }
func (r *Room) Close()       { r.closed = true }

func (r *Room) Len() int { return len(r.players) }

func (r *Room) Host() *Member {
	if len(r.players) == 0 {
		return nil
	}
	return r.players[0]
}

// LiveCount is the number of members that are not spectating.
func (r *Room) LiveCount() int {
	n := 0
	for _, m := range r.players {
		if m.Status != domain.StatusSpectating {
			n++
		}
	}
	return n
}

// ResolveIdentity finds the member a caller refers to. A durable id wins; the
// nickname only matches a member that has no durable id of its own.
func (r *Room) ResolveIdentity(userID domain.UserID, nickname string) *Member {
	if userID != "" {
		for _, m := range r.players {
			if m.UserID == userID {
				return m
			}
		}
	}
	if nickname == "" {
		return nil
	}
	for _, m := range r.players {
		if m.Nickname == nickname && m.UserID == "" {
			return m
		}
	}
	return nil
}

func (r *Room) FindByNickname(nickname string) *Member {
	for _, m := range r.players {
		if m.Nickname == nickname {
			return m
		}
	}
	return nil
}

func (r *Room) Add(m *Member) { r.players = append(r.players, m) }

// Remove drops m keeping the join order of the others.
func (r *Room) Remove(m *Member) bool {
	for i, p := range r.players {
		if p == m {
			r.players = append(r.players[:i], r.players[i+1:]...)
			return true
		}
	}
	return false
}

func (r *Room) Ban(nickname string, userID domain.UserID) {
	r.bannedNames[nickname] = struct{}{}
	if userID != "" {
		r.bannedIDs[userID] = struct{}{}
	}
}

func (r *Room) IsBanned(userID domain.UserID, nickname string) bool {
	if _, ok := r.bannedNames[nickname]; ok {
		return true
	}
	if userID == "" {
		return false
	}
	_, ok := r.bannedIDs[userID]
	return ok
}

func (r *Room) BannedNicknames() []string {
	out := make([]string, 0, len(r.bannedNames))
	for n := range r.bannedNames {
		out = append(out, n)
	}
	return out
}

func (r *Room) Players() []domain.Player {
	out := make([]domain.Player, len(r.players))
	for i, m := range r.players {
		out[i] = m.Player()
	}
	return out
}

// CheckPassword is a plain equality check; a room without password accepts anything.
func (r *Room) CheckPassword(pw string) bool {
	if r.password == "" {
		return true
	}
	return subtle.ConstantTimeCompare([]byte(r.password), []byte(pw)) == 1
}

// ApplySettings validates the whole patch before changing anything.
func (r *Room) ApplySettings(p domain.SettingsPatch) error {
	if p.MaxPlayers != nil {
		if *p.MaxPlayers < 1 {
			return domain.ErrInvalidSettings
		}
		if *p.MaxPlayers < r.LiveCount() {
			return domain.ErrCapacityConflict
		}
	}
	var title string
	if p.Title != nil {
		t, err := domain.NormalizeTitle(*p.Title)
		if err != nil {
			return err
		}
		title = t
	}

	if title != "" {
		r.title = title
	}
	if p.MaxPlayers != nil {
		r.maxPlayers = *p.MaxPlayers
	}
	if p.GameType != nil && *p.GameType != "" {
		r.gameType = *p.GameType
	}
	if p.Password != nil {
		r.password = *p.Password
	}
	return nil
}

func (r *Room) Snapshot() domain.RoomSnapshot {
	return domain.RoomSnapshot{
		ID:          r.id,
		Title:       r.title,
		Players:     r.Players(),
		MaxPlayers:  r.maxPlayers,
		HasPassword: r.password != "",
		GameType:    r.gameType,
		Status:      r.status,
	}
}

func (r *Room) Summary() domain.RoomSummary {
	names := make([]string, len(r.players))
	for i, m := range r.players {
		names[i] = m.Nickname
	}
	return domain.RoomSummary{
		ID:          r.id,
		Title:       r.title,
		Players:     names,
		MaxPlayers:  r.maxPlayers,
		HasPassword: r.password != "",
		GameType:    r.gameType,
		Status:      r.status,
	}
}
