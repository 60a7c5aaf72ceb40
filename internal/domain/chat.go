package domain

import (
	"fmt"
	"strings"
	"time"
	"unicode/utf8"
)

// TimestampLayout renders chat timestamps as millisecond ISO-8601 in UTC.
const TimestampLayout = "2006-01-02T15:04:05.000Z"

type ChatKind string

const (
	KindChat   ChatKind = "chat"
	KindSystem ChatKind = "system"
)

// MessageID identifies a chat event by kind, text and timestamp.
type MessageID string

type ChatEvent struct {
	Kind      ChatKind `json:"kind"`
	Nickname  string   `json:"nickname,omitempty"`
	Text      string   `json:"message"`
	Timestamp string   `json:"timestamp"`
	// Personal events go to one client and are never stored.
	Personal bool `json:"personal,omitempty"`
}

func (e ChatEvent) ID() MessageID {
	return MessageID(fmt.Sprintf("%s-%s-%s", e.Kind, e.Text, e.Timestamp))
}

func NewChatMessage(nickname, text string, at time.Time) ChatEvent {
	return ChatEvent{Kind: KindChat, Nickname: nickname, Text: text, Timestamp: at.UTC().Format(TimestampLayout)}
}

func NewSystemNotice(text string, at time.Time) ChatEvent {
	return ChatEvent{Kind: KindSystem, Text: text, Timestamp: at.UTC().Format(TimestampLayout)}
}

func NewPersonalNotice(text string, at time.Time) ChatEvent {
	ev := NewSystemNotice(text, at)
	ev.Personal = true
	return ev
}

// NormalizeMessage trims a chat line and applies the length cap (in runes).
func NormalizeMessage(text string, maxLen int) (string, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return "", ErrMessageEmpty
	}
	if maxLen > 0 && utf8.RuneCountInString(text) > maxLen {
		return "", ErrMessageTooLong
	}
	return text, nil
}

// System notice texts.
const (
	SettingsChangedNotice = "방장이 방 설정을 변경했습니다."
	KickedMessage         = "방장에 의해 추방되었습니다."
)

func JoinNotice(nickname string) string  { return nickname + "님이 입장하셨습니다." }
func LeaveNotice(nickname string) string { return nickname + "님이 퇴장하셨습니다." }
func KickNotice(nickname string) string  { return nickname + "님이 방에서 추방되었습니다." }

func SpectateNotice(nickname string) string    { return nickname + "님이 관전자로 이동하셨습니다." }
func ParticipateNotice(nickname string) string { return nickname + "님이 게임에 참가하셨습니다." }

func WelcomeNotice(nickname, title string) string {
	return fmt.Sprintf("%s님, %s 방에 오신 것을 환영합니다.", nickname, title)
}
