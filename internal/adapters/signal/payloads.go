package signal

import (
	"bytes"
	"encoding/json"

	"github.com/dkeye/Lobby/internal/domain"
)

func missing(field string) error {
	return domain.Fail(domain.ErrBadPayload, field+" 값이 필요합니다.")
}

type joinPayload struct {
	RoomID   domain.RoomID `json:"roomId"`
	Nickname string        `json:"nickname"`
	UserID   domain.UserID `json:"userId,omitempty"`
}

func (p *joinPayload) validate() error {
	if p.RoomID == "" {
		return missing("roomId")
	}
	if p.Nickname == "" {
		return missing("nickname")
	}
	return nil
}

// roomPayload is used by commands that only name the room. The room id is
// optional; the session's current room is used when it is absent.
type roomPayload struct {
	RoomID domain.RoomID `json:"roomId,omitempty"`
}

func (p *roomPayload) validate() error { return nil }

type messagePayload struct {
	RoomID  domain.RoomID `json:"roomId,omitempty"`
	Message string        `json:"message"`
}

func (p *messagePayload) validate() error {
	if p.Message == "" {
		return domain.ErrMessageEmpty
	}
	return nil
}

type kickPayload struct {
	RoomID         domain.RoomID `json:"roomId,omitempty"`
	TargetNickname string        `json:"targetNickname"`
}

func (p *kickPayload) validate() error {
	if p.TargetNickname == "" {
		return missing("targetNickname")
	}
	return nil
}

type settingsPayload struct {
	RoomID   domain.RoomID `json:"roomId,omitempty"`
	Settings *settingsBody `json:"settings"`
}

func (p *settingsPayload) validate() error {
	if p.Settings == nil {
		return missing("settings")
	}
	return nil
}

func (p *settingsPayload) patch() domain.SettingsPatch {
	return p.Settings.SettingsPatch
}

// settingsBody tells an absent password from one that is present but null or
// empty; both of the latter clear the password. A zero maxPlayers counts as
// not provided.
type settingsBody struct {
	domain.SettingsPatch
}

func (b *settingsBody) UnmarshalJSON(data []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	var p domain.SettingsPatch
	if err := json.Unmarshal(data, &p); err != nil {
		return err
	}
	if pw, ok := raw["password"]; ok && bytes.Equal(bytes.TrimSpace(pw), []byte("null")) {
		empty := ""
		p.Password = &empty
	}
	if p.MaxPlayers != nil && *p.MaxPlayers == 0 {
		p.MaxPlayers = nil
	}
	b.SettingsPatch = p
	return nil
}

// gamePayload carries an opaque game event. Everything besides the routing
// fields is relayed untouched. A frame whose only other field is "payload"
// relays that value as is.
type gamePayload struct {
	RoomID  domain.RoomID
	Payload json.RawMessage
}

func (p *gamePayload) UnmarshalJSON(data []byte) error {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(data, &fields); err != nil {
		return err
	}
	if raw, ok := fields["roomId"]; ok {
		if err := json.Unmarshal(raw, &p.RoomID); err != nil {
			return err
		}
	}
	delete(fields, "type")
	delete(fields, "roomId")

	if nested, ok := fields["payload"]; ok && len(fields) == 1 {
		p.Payload = nested
		return nil
	}
	if len(fields) == 0 {
		p.Payload = nil
		return nil
	}
	rest, err := json.Marshal(fields)
	if err != nil {
		return err
	}
	p.Payload = rest
	return nil
}

func (p *gamePayload) validate() error { return nil }
