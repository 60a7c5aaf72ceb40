package domain

import "errors"

// Failure kinds. Each is a local, recoverable condition reported to the acting
// client only.
var (
	ErrRoomNotFound     = errors.New("room not found")
	ErrForbidden        = errors.New("forbidden")
	ErrBanned           = errors.New("banned from room")
	ErrInvalidTarget    = errors.New("invalid target")
	ErrCapacityConflict = errors.New("max players below participant count")
	ErrSessionExpired   = errors.New("session expired")
	ErrNotInRoom        = errors.New("not in room")
	ErrNicknameTaken    = errors.New("nickname taken")
	ErrWrongPassword    = errors.New("wrong password")
	ErrRateLimited      = errors.New("rate limited")
	ErrBadPayload       = errors.New("bad payload")
	ErrInvalidSettings  = errors.New("invalid settings")
	ErrGameFailure      = errors.New("game failure")
)

// Validation errors.
var (
	ErrNicknameEmpty   = errors.New("nickname empty")
	ErrNicknameTooLong = errors.New("nickname too long")
	ErrUserIDTooLong   = errors.New("user id too long")
	ErrTitleTooLong    = errors.New("title too long")
	ErrMessageEmpty    = errors.New("message empty")
	ErrMessageTooLong  = errors.New("message too long")
)

// Error pairs a failure kind with the message shown to the client.
type Error struct {
	Kind error
	Msg  string
}

func (e *Error) Error() string { return e.Kind.Error() + ": " + e.Msg }
func (e *Error) Unwrap() error { return e.Kind }

// Fail builds a user-facing error of the given kind.
func Fail(kind error, msg string) error {
	return &Error{Kind: kind, Msg: msg}
}

var codes = []struct {
	err  error
	code string
	msg  string
}{
	{ErrRoomNotFound, "not_found", "방을 찾을 수 없습니다."},
	{ErrForbidden, "forbidden", "방장만 할 수 있는 작업입니다."},
	{ErrBanned, "banned", "방장에게 추방된 방입니다."},
	{ErrInvalidTarget, "invalid_target", "해당 플레이어를 찾을 수 없습니다."},
	{ErrCapacityConflict, "capacity_conflict", "현재 참가자 수보다 적은 인원으로 설정할 수 없습니다."},
	{ErrSessionExpired, "session_expired", "세션이 만료되었습니다. 다시 입장해주세요."},
	{ErrNotInRoom, "not_in_room", "방에 참가하고 있지 않습니다."},
	{ErrNicknameTaken, "nickname_taken", "이미 사용 중인 닉네임입니다."},
	{ErrWrongPassword, "wrong_password", "비밀번호가 일치하지 않습니다."},
	{ErrRateLimited, "rate_limited", "메시지를 너무 빠르게 보내고 있습니다."},
	{ErrGameFailure, "game_error", "게임 처리 중 오류가 발생했습니다."},
	{ErrNicknameEmpty, "invalid_nickname", "닉네임을 입력해주세요."},
	{ErrNicknameTooLong, "invalid_nickname", "닉네임이 너무 깁니다."},
	{ErrUserIDTooLong, "bad_payload", "잘못된 요청입니다."},
	{ErrTitleTooLong, "invalid_settings", "방 제목이 너무 깁니다."},
	{ErrMessageEmpty, "invalid_message", "메시지를 입력해주세요."},
	{ErrMessageTooLong, "invalid_message", "메시지가 너무 깁니다."},
	{ErrInvalidSettings, "invalid_settings", "잘못된 방 설정입니다."},
	{ErrBadPayload, "bad_payload", "잘못된 요청입니다."},
}

// ErrorCode returns a stable machine-readable code for err.
func ErrorCode(err error) string {
	for _, c := range codes {
		if errors.Is(err, c.err) {
			return c.code
		}
	}
	return "internal"
}

// UserMessage returns the text shown to the client for err.
func UserMessage(err error) string {
	var e *Error
	if errors.As(err, &e) && e.Msg != "" {
		return e.Msg
	}
	for _, c := range codes {
		if errors.Is(err, c.err) {
			return c.msg
		}
	}
	return "요청을 처리할 수 없습니다."
}
