package core

import "github.com/dkeye/Lobby/internal/domain"

// ChatLog is the append-only per-room event log. It is guarded by the owning
// room's lock.
type ChatLog struct {
	events []domain.ChatEvent
}

// Append stores ev. Personal events are never stored.
func (l *ChatLog) Append(ev domain.ChatEvent) bool {
	if ev.Personal {
		return false
	}
	l.events = append(l.events, ev)
	return true
}

// History returns the log in append order, leaving out the first event whose
// ID equals exclude.
func (l *ChatLog) History(exclude domain.MessageID) []domain.ChatEvent {
	out := make([]domain.ChatEvent, 0, len(l.events))
	skipped := exclude == ""
	for _, ev := range l.events {
		if !skipped && ev.ID() == exclude {
			skipped = true
			continue
		}
		out = append(out, ev)
	}
	return out
}

func (l *ChatLog) Len() int { return len(l.events) }
