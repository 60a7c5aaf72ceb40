// Package domain contains entity without logic, just meta-data
package domain

import (
	"strings"
	"unicode/utf8"
)

const (
	MaxUserIDLen   = 64
	MaxNicknameLen = 36
)

// UserID is the durable, client-generated identifier that survives reconnects.
type UserID string

// Identity keys a player inside one room: the durable id when present, the
// nickname otherwise.
type Identity string

func IdentityOf(userID UserID, nickname string) Identity {
	if userID != "" {
		return Identity("u:" + string(userID))
	}
	return Identity("n:" + nickname)
}

// NormalizeNickname trims the nickname and enforces the length rules.
func NormalizeNickname(nickname string) (string, error) {
	nickname = strings.TrimSpace(nickname)
	if nickname == "" {
		return "", ErrNicknameEmpty
	}
	if utf8.RuneCountInString(nickname) > MaxNicknameLen {
		return "", ErrNicknameTooLong
	}
	return nickname, nil
}

// NormalizeUserID accepts an empty id (anonymous client).
func NormalizeUserID(raw string) (UserID, error) {
	raw = strings.TrimSpace(raw)
	if len(raw) > MaxUserIDLen {
		return "", ErrUserIDTooLong
	}
	return UserID(raw), nil
}
