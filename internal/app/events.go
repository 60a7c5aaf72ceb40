package app

import (
	"encoding/json"
	"time"

	"github.com/dkeye/Lobby/internal/domain"
)

type EventType string

const (
	EventRoomInfo            EventType = "roomInfo"
	EventChatHistory         EventType = "chatHistory"
	EventChatMessage         EventType = "chatMessage"
	EventPlayerJoined        EventType = "playerJoined"
	EventPlayerLeft          EventType = "playerLeft"
	EventPlayerStatusChanged EventType = "playerStatusChanged"
	EventRoomSettingsUpdated EventType = "roomSettingsUpdated"
	EventKicked              EventType = "kicked"
	EventLeft                EventType = "left"
	EventError               EventType = "error"
	EventGame                EventType = "gameEvent"
	EventGameError           EventType = "gameError"
	EventPong                EventType = "pong"
)

// Event is an outbound message; its JSON form carries the type discriminator.
type Event interface {
	EventType() EventType
}

type RoomInfoEvent struct {
	Type EventType `json:"type"`
	domain.RoomSnapshot
}

type ChatHistoryEvent struct {
	Type        EventType          `json:"type"`
	RoomID      domain.RoomID      `json:"roomId"`
	Messages    []domain.ChatEvent `json:"messages"`
	SkipMessage *domain.MessageID  `json:"skipMessage"`
}

type ChatMessageEvent struct {
	Type   EventType     `json:"type"`
	RoomID domain.RoomID `json:"roomId"`
	domain.ChatEvent
}

// RosterEvent carries the full ordered player list.
type RosterEvent struct {
	Type    EventType       `json:"type"`
	RoomID  domain.RoomID   `json:"roomId"`
	Players []domain.Player `json:"players"`
}

// SettingsEvent carries the public room view after the host changed the
// configuration. The password itself is never included.
type SettingsEvent struct {
	Type EventType `json:"type"`
	domain.RoomSnapshot
}

type KickedEvent struct {
	Type    EventType     `json:"type"`
	RoomID  domain.RoomID `json:"roomId"`
	Message string        `json:"message"`
}

type LeftEvent struct {
	Type   EventType     `json:"type"`
	RoomID domain.RoomID `json:"roomId"`
}

type ErrorEvent struct {
	Type    EventType `json:"type"`
	Code    string    `json:"code"`
	Message string    `json:"message"`
}

// GameEvent relays an opaque game payload to the rest of the room.
type GameEvent struct {
	Type    EventType       `json:"type"`
	RoomID  domain.RoomID   `json:"roomId"`
	Event   string          `json:"event"`
	From    string          `json:"from"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

type GameErrorEvent struct {
	Type    EventType `json:"type"`
	Message string    `json:"message"`
}

type PongEvent struct {
	Type EventType `json:"type"`
	Time string    `json:"time"`
}

func (e RoomInfoEvent) EventType() EventType    { return e.Type }
func (e ChatHistoryEvent) EventType() EventType { return e.Type }
func (e ChatMessageEvent) EventType() EventType { return e.Type }
func (e RosterEvent) EventType() EventType      { return e.Type }
func (e SettingsEvent) EventType() EventType    { return e.Type }
func (e KickedEvent) EventType() EventType      { return e.Type }
func (e LeftEvent) EventType() EventType        { return e.Type }
func (e ErrorEvent) EventType() EventType       { return e.Type }
func (e GameEvent) EventType() EventType        { return e.Type }
func (e GameErrorEvent) EventType() EventType   { return e.Type }
func (e PongEvent) EventType() EventType        { return e.Type }

func NewRoomInfo(s domain.RoomSnapshot) RoomInfoEvent {
	return RoomInfoEvent{Type: EventRoomInfo, RoomSnapshot: s}
}

func NewChatHistory(roomID domain.RoomID, msgs []domain.ChatEvent, skip domain.MessageID) ChatHistoryEvent {
	ev := ChatHistoryEvent{Type: EventChatHistory, RoomID: roomID, Messages: msgs}
	if skip != "" {
		ev.SkipMessage = &skip
	}
	return ev
}

func NewChatMessageEvent(roomID domain.RoomID, msg domain.ChatEvent) ChatMessageEvent {
	return ChatMessageEvent{Type: EventChatMessage, RoomID: roomID, ChatEvent: msg}
}

func NewRoster(t EventType, roomID domain.RoomID, players []domain.Player) RosterEvent {
	return RosterEvent{Type: t, RoomID: roomID, Players: players}
}

func NewSettings(s domain.RoomSnapshot) SettingsEvent {
	return SettingsEvent{Type: EventRoomSettingsUpdated, RoomSnapshot: s}
}

func NewKicked(roomID domain.RoomID) KickedEvent {
	return KickedEvent{Type: EventKicked, RoomID: roomID, Message: domain.KickedMessage}
}

func NewLeft(roomID domain.RoomID) LeftEvent {
	return LeftEvent{Type: EventLeft, RoomID: roomID}
}

// NewError renders err the way the acting client sees it.
func NewError(err error) ErrorEvent {
	return ErrorEvent{Type: EventError, Code: domain.ErrorCode(err), Message: domain.UserMessage(err)}
}

func NewGameEvent(roomID domain.RoomID, name, from string, payload json.RawMessage) GameEvent {
	return GameEvent{Type: EventGame, RoomID: roomID, Event: name, From: from, Payload: payload}
}

func NewGameError(err error) GameErrorEvent {
	return GameErrorEvent{Type: EventGameError, Message: domain.UserMessage(err)}
}

func NewPong(at time.Time) PongEvent {
	return PongEvent{Type: EventPong, Time: at.UTC().Format(domain.TimestampLayout)}
}

// Encode marshals an event into a wire frame.
func Encode(ev Event) ([]byte, error) {
	return json.Marshal(ev)
}
