package domain

import (
	"fmt"
	"strings"
	"unicode/utf8"
)

const MaxTitleLen = 64

type RoomID string

type RoomStatus string

const (
	RoomWaiting    RoomStatus = "WAITING"
	RoomInProgress RoomStatus = "IN_PROGRESS"
)

// RoomConfig is what the lobby directory receives when a room is created.
type RoomConfig struct {
	Creator    string `json:"creator"`
	CreatorID  UserID `json:"userId,omitempty"`
	Title      string `json:"title"`
	MaxPlayers int    `json:"maxPlayers"`
	Password   string `json:"password"`
	GameType   string `json:"gameType"`
}

// Normalize validates the creator and fills the defaults the lobby applies.
func (c RoomConfig) Normalize(defaultMaxPlayers int) (RoomConfig, error) {
	creator, err := NormalizeNickname(c.Creator)
	if err != nil {
		return c, fmt.Errorf("creator: %w", err)
	}
	c.Creator = creator
	if c.CreatorID, err = NormalizeUserID(string(c.CreatorID)); err != nil {
		return c, err
	}
	if c.Title, err = NormalizeTitle(c.Title); err != nil {
		return c, err
	}
	if c.Title == "" {
		c.Title = creator + "의 방"
	}
	if c.MaxPlayers == 0 {
		c.MaxPlayers = defaultMaxPlayers
	}
	if c.MaxPlayers < 1 {
		return c, ErrInvalidSettings
	}
	return c, nil
}

// NormalizeTitle trims the title; an empty result means "not provided".
func NormalizeTitle(title string) (string, error) {
	title = strings.TrimSpace(title)
	if utf8.RuneCountInString(title) > MaxTitleLen {
		return "", ErrTitleTooLong
	}
	return title, nil
}

// SettingsPatch is a partial update. A nil field is left unchanged; Password
// set to an empty string clears the password.
type SettingsPatch struct {
	Title      *string `json:"title,omitempty"`
	MaxPlayers *int    `json:"maxPlayers,omitempty"`
	GameType   *string `json:"gameType,omitempty"`
	Password   *string `json:"password,omitempty"`
}

// RoomSummary is the public directory listing entry. It never carries the password.
type RoomSummary struct {
	ID          RoomID     `json:"id"`
	Title       string     `json:"title"`
	Players     []string   `json:"players"`
	MaxPlayers  int        `json:"maxPlayers"`
	HasPassword bool       `json:"hasPassword"`
	GameType    string     `json:"gameType"`
	Status      RoomStatus `json:"status"`
}

// RoomSnapshot is the full room view sent to a member.
type RoomSnapshot struct {
	ID          RoomID     `json:"id"`
	Title       string     `json:"title"`
	Players     []Player   `json:"players"`
	MaxPlayers  int        `json:"maxPlayers"`
	HasPassword bool       `json:"hasPassword"`
	GameType    string     `json:"gameType"`
	Status      RoomStatus `json:"status"`
}
