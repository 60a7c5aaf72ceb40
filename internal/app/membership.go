package app

import (
	"encoding/json"
	"time"

	"github.com/dkeye/Lobby/internal/core"
	"github.com/dkeye/Lobby/internal/domain"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Caller is the acting transport session and who it claims to be.
type Caller struct {
	SID      core.SessionID
	UserID   domain.UserID
	Nickname string
}

// Engine is the membership state machine. Every operation holds the room lock
// for its whole mutation, including the outbound fan-out, so members observe
// events in the order they were appended.
type Engine struct {
	rooms    *RoomRegistry
	sessions *SessionDirectory
	out      Emitter
	sched    core.Scheduler
	dedupTTL time.Duration
}

func NewEngine(rooms *RoomRegistry, sessions *SessionDirectory, out Emitter, sched core.Scheduler, dedupTTL time.Duration) *Engine {
	return &Engine{
		rooms:    rooms,
		sessions: sessions,
		out:      out,
		sched:    sched,
		dedupTTL: dedupTTL,
	}
}

// lockRoom returns the room locked. The caller must Unlock it.
func (e *Engine) lockRoom(id domain.RoomID) (*core.Room, error) {
	room, err := e.rooms.Get(id)
	if err != nil {
		return nil, err
	}
	room.Lock()
	if room.Closed() {
		room.Unlock()
		return nil, domain.ErrRoomNotFound
	}
	return room, nil
}

func (e *Engine) logger(id domain.RoomID, c Caller) zerolog.Logger {
	return log.With().
		Str("module", "app.membership").
		Str("room_id", string(id)).
		Str("sid", string(c.SID)).
		Str("user_id", string(c.UserID)).
		Str("nickname", c.Nickname).
		Logger()
}

// Join adds the caller to the room. A caller that already is a member only
// gets its transport session rebound and never produces a join notice.
func (e *Engine) Join(id domain.RoomID, c Caller) error {
	room, err := e.lockRoom(id)
	if err != nil {
		return err
	}
	defer room.Unlock()
	l := e.logger(id, c)

	if room.IsBanned(c.UserID, c.Nickname) {
		l.Info().Msg("banned user tried to join")
		return domain.ErrBanned
	}

	m := room.ResolveIdentity(c.UserID, c.Nickname)
	if m != nil && m.SID == c.SID && m.Nickname == c.Nickname {
		l.Debug().Msg("duplicate join from the same session, resending history")
		e.out.Attach(c.SID, id)
		e.out.Send(c.SID, NewChatHistory(id, room.Log().History(""), ""))
		return nil
	}

	var skip domain.MessageID
	fresh := m == nil
	if fresh {
		if room.FindByNickname(c.Nickname) != nil {
			return domain.ErrNicknameTaken
		}
		m = &core.Member{Nickname: c.Nickname, UserID: c.UserID, Status: domain.StatusWaiting, SID: c.SID}
		room.Add(m)
		ident := string(m.Identity())
		room.RecentlyLeft().Remove(ident)
		skip = e.announceJoin(room, m, c.SID, &l)
		room.RecentlyJoined().Add(ident, e.dedupTTL)
		l.Info().Int("players", room.Len()).Msg("player joined")
	} else {
		e.rebind(room, m, c)
		l.Info().Msg("member re-joined, session rebound")
	}

	e.out.Attach(c.SID, id)
	e.sessions.BindRoom(m.UserID, c.SID, id)
	e.out.Send(c.SID, NewRoomInfo(room.Snapshot()))
	e.out.Send(c.SID, NewChatHistory(id, room.Log().History(skip), skip))
	if fresh {
		welcome := domain.NewPersonalNotice(domain.WelcomeNotice(m.Nickname, room.Title()), e.sched.Now())
		e.out.Send(c.SID, NewChatMessageEvent(id, welcome))
	}
	e.out.Broadcast(id, NewRoster(EventPlayerJoined, id, room.Players()), "")
	return nil
}

// Rejoin restores a known member after a page refresh. Unknown identities get
// ErrSessionExpired and must fall back to Join.
func (e *Engine) Rejoin(id domain.RoomID, c Caller) error {
	room, err := e.lockRoom(id)
	if err != nil {
		return err
	}
	defer room.Unlock()
	l := e.logger(id, c)

	if room.IsBanned(c.UserID, c.Nickname) {
		return domain.ErrBanned
	}
	m := room.ResolveIdentity(c.UserID, c.Nickname)
	if m == nil {
		l.Info().Msg("rejoin for unknown identity")
		return domain.ErrSessionExpired
	}
	e.rebind(room, m, c)
	e.out.Attach(c.SID, id)
	e.sessions.BindRoom(m.UserID, c.SID, id)
	e.out.Send(c.SID, NewRoomInfo(room.Snapshot()))
	e.out.Send(c.SID, NewChatHistory(id, room.Log().History(""), ""))
	l.Info().Msg("member rejoined")
	return nil
}

// Leave handles an explicit leave. Non-members and identities already being
// removed are ignored.
func (e *Engine) Leave(id domain.RoomID, c Caller) bool {
	room, err := e.lockRoom(id)
	if err != nil {
		return false
	}
	defer room.Unlock()
	l := e.logger(id, c)

	m := room.ResolveIdentity(c.UserID, c.Nickname)
	if m == nil {
		l.Debug().Msg("leave ignored: not a member")
		return false
	}
	ident := string(m.Identity())
	if room.RecentlyLeft().Has(ident) {
		l.Debug().Msg("leave ignored: already leaving")
		return false
	}
	room.RecentlyLeft().Add(ident, e.dedupTTL)

	e.out.Detach(c.SID, id)
	if m.SID != c.SID {
		e.out.Detach(m.SID, id)
	}
	e.out.Send(c.SID, NewLeft(id))
	e.sessions.ClearRoom(m.UserID, id)
	e.depart(room, m, &l)
	return true
}

// Disconnect evicts a member whose transport is gone for good. For durable
// users it runs after the grace period; it backs off if a newer session took
// over. A kicked connection was already removed and announced by Kick.
func (e *Engine) Disconnect(id domain.RoomID, c Caller, kicked bool) bool {
	l := e.logger(id, c)
	if kicked {
		l.Info().Msg("kicked connection closed, leave notice suppressed")
		return false
	}
	room, err := e.lockRoom(id)
	if err != nil {
		return false
	}
	defer room.Unlock()

	if c.UserID != "" {
		if cur, ok := e.sessions.CurrentSession(c.UserID); ok && cur != c.SID {
			l.Info().Str("current_sid", string(cur)).Msg("eviction cancelled, newer session exists")
			return false
		}
	}
	m := room.ResolveIdentity(c.UserID, c.Nickname)
	if m == nil {
		return false
	}
	if c.UserID == "" && m.SID != c.SID {
		l.Debug().Msg("stale disconnect: member bound to another session")
		return false
	}
	ident := string(m.Identity())
	if room.RecentlyLeft().Has(ident) {
		l.Debug().Msg("disconnect ignored: already leaving")
		return false
	}
	room.RecentlyLeft().Add(ident, e.dedupTTL)

	e.out.Detach(m.SID, id)
	e.sessions.ClearRoom(m.UserID, id)
	e.depart(room, m, &l)
	return true
}

// Kick removes and bans target. Only the host may kick, and not itself.
func (e *Engine) Kick(id domain.RoomID, c Caller, target string) error {
	room, err := e.lockRoom(id)
	if err != nil {
		return err
	}
	defer room.Unlock()
	l := e.logger(id, c)

	actor := room.ResolveIdentity(c.UserID, c.Nickname)
	if actor == nil || actor != room.Host() {
		return domain.Fail(domain.ErrForbidden, "방장만 추방할 수 있습니다.")
	}
	if target == actor.Nickname {
		return domain.Fail(domain.ErrInvalidTarget, "자기 자신은 추방할 수 없습니다.")
	}
	t := room.FindByNickname(target)
	if t == nil {
		return domain.Fail(domain.ErrInvalidTarget, "해당 플레이어를 찾을 수 없습니다.")
	}

	// Mark the target as leaving first so its own disconnect stays silent.
	room.RecentlyLeft().Add(string(t.Identity()), e.dedupTTL)
	room.Ban(t.Nickname, t.UserID)
	room.Remove(t)

	text := domain.KickNotice(t.Nickname)
	notice := domain.NewSystemNotice(text, e.sched.Now())
	room.Log().Append(notice)
	room.Notices().Mark(text)
	e.out.Broadcast(id, NewChatMessageEvent(id, notice), "")
	e.out.Broadcast(id, NewRoster(EventPlayerStatusChanged, id, room.Players()), "")

	if t.SID != "" {
		e.out.MarkKicked(t.SID)
		e.out.Send(t.SID, NewKicked(id))
		e.out.Detach(t.SID, id)
	}
	e.sessions.ClearRoom(t.UserID, id)
	l.Info().Str("target", t.Nickname).Msg("player kicked")
	return nil
}

// ToggleReady flips WAITING and READY. The host and spectators are left alone.
func (e *Engine) ToggleReady(id domain.RoomID, c Caller) error {
	room, err := e.lockRoom(id)
	if err != nil {
		return err
	}
	defer room.Unlock()

	m := room.ResolveIdentity(c.UserID, c.Nickname)
	if m == nil {
		return domain.ErrNotInRoom
	}
	switch {
	case m == room.Host():
		return nil
	case m.Status == domain.StatusWaiting:
		m.Status = domain.StatusReady
	case m.Status == domain.StatusReady:
		m.Status = domain.StatusWaiting
	default:
		return nil
	}
	e.out.Broadcast(id, NewRoster(EventPlayerStatusChanged, id, room.Players()), "")
	l := e.logger(id, c)
	l.Info().Str("status", string(m.Status)).Msg("ready toggled")
	return nil
}

// ToggleSpectator moves a member between playing and watching. Returning to
// play always resets the status to WAITING.
func (e *Engine) ToggleSpectator(id domain.RoomID, c Caller) error {
	room, err := e.lockRoom(id)
	if err != nil {
		return err
	}
	defer room.Unlock()

	m := room.ResolveIdentity(c.UserID, c.Nickname)
	if m == nil {
		return domain.ErrNotInRoom
	}
	if m == room.Host() {
		return nil
	}
	var text string
	if m.Status == domain.StatusSpectating {
		m.Status = domain.StatusWaiting
		text = domain.ParticipateNotice(m.Nickname)
	} else {
		m.Status = domain.StatusSpectating
		text = domain.SpectateNotice(m.Nickname)
	}
	notice := domain.NewSystemNotice(text, e.sched.Now())
	room.Log().Append(notice)
	e.out.Broadcast(id, NewChatMessageEvent(id, notice), "")
	e.out.Broadcast(id, NewRoster(EventPlayerStatusChanged, id, room.Players()), "")
	l := e.logger(id, c)
	l.Info().Str("status", string(m.Status)).Msg("spectator toggled")
	return nil
}

// UpdateSettings applies a partial patch from the host.
func (e *Engine) UpdateSettings(id domain.RoomID, c Caller, patch domain.SettingsPatch) error {
	room, err := e.lockRoom(id)
	if err != nil {
		return err
	}
	defer room.Unlock()

	actor := room.ResolveIdentity(c.UserID, c.Nickname)
	if actor == nil || actor != room.Host() {
		return domain.Fail(domain.ErrForbidden, "방장만 설정을 변경할 수 있습니다.")
	}
	if err := room.ApplySettings(patch); err != nil {
		return err
	}
	notice := domain.NewSystemNotice(domain.SettingsChangedNotice, e.sched.Now())
	room.Log().Append(notice)
	e.out.Broadcast(id, NewChatMessageEvent(id, notice), "")
	e.out.Broadcast(id, NewSettings(room.Snapshot()), "")
	l := e.logger(id, c)
	l.Info().Msg("room settings updated")
	return nil
}

// SendMessage stores a chat line and broadcasts it to every member. The
// sender's roster nickname is used, not the one on the wire.
func (e *Engine) SendMessage(id domain.RoomID, c Caller, text string) error {
	room, err := e.lockRoom(id)
	if err != nil {
		return err
	}
	defer room.Unlock()

	m := room.ResolveIdentity(c.UserID, c.Nickname)
	if m == nil {
		return domain.ErrNotInRoom
	}
	msg := domain.NewChatMessage(m.Nickname, text, e.sched.Now())
	room.Log().Append(msg)
	e.out.Broadcast(id, NewChatMessageEvent(id, msg), "")
	return nil
}

// RelayGameEvent passes an opaque game payload to the rest of the room.
func (e *Engine) RelayGameEvent(id domain.RoomID, c Caller, name string, payload json.RawMessage) error {
	room, err := e.lockRoom(id)
	if err != nil {
		return err
	}
	defer room.Unlock()

	m := room.ResolveIdentity(c.UserID, c.Nickname)
	if m == nil {
		return domain.ErrNotInRoom
	}
	e.out.Broadcast(id, NewGameEvent(id, name, m.Nickname, payload), c.SID)
	return nil
}

// rebind points an existing member at the caller's session. An older live
// session of the same member stops receiving room broadcasts.
func (e *Engine) rebind(room *core.Room, m *core.Member, c Caller) {
	if m.SID != "" && m.SID != c.SID {
		e.out.Detach(m.SID, room.ID())
	}
	m.SID = c.SID
	if m.UserID == "" && c.UserID != "" {
		m.UserID = c.UserID
	}
}

func (e *Engine) announceJoin(room *core.Room, m *core.Member, except core.SessionID, l *zerolog.Logger) domain.MessageID {
	if room.RecentlyJoined().Has(string(m.Identity())) {
		l.Debug().Msg("join notice suppressed: recently joined")
		return ""
	}
	text := domain.JoinNotice(m.Nickname)
	if !room.Notices().Allow(text) {
		l.Debug().Msg("join notice suppressed: same text sent recently")
		return ""
	}
	notice := domain.NewSystemNotice(text, e.sched.Now())
	room.Log().Append(notice)
	e.out.Broadcast(room.ID(), NewChatMessageEvent(room.ID(), notice), except)
	return notice.ID()
}

// depart removes m and tells the rest of the room, or deletes the room when
// m was the last member.
func (e *Engine) depart(room *core.Room, m *core.Member, l *zerolog.Logger) {
	wasHost := m == room.Host()
	room.Remove(m)
	if e.rooms.DeleteIfEmpty(room) {
		l.Info().Msg("last member left, room deleted")
		return
	}
	if wasHost {
		l.Info().Str("host", room.Host().Nickname).Msg("host left, next member promoted")
	}

	id := room.ID()
	text := domain.LeaveNotice(m.Nickname)
	if room.Notices().Allow(text) {
		notice := domain.NewSystemNotice(text, e.sched.Now())
		room.Log().Append(notice)
		e.out.Broadcast(id, NewChatMessageEvent(id, notice), "")
	} else {
		l.Debug().Msg("leave notice suppressed: same text sent recently")
	}
	e.out.Broadcast(id, NewRoster(EventPlayerLeft, id, room.Players()), "")
	l.Info().Int("players", room.Len()).Msg("player left")
}
