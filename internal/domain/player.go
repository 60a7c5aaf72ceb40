package domain

type PlayerStatus string

const (
	StatusWaiting    PlayerStatus = "WAITING"
	StatusReady      PlayerStatus = "READY"
	StatusPlaying    PlayerStatus = "PLAYING"
	StatusSpectating PlayerStatus = "SPECTATING"
)

// Player is the roster entry as clients see it.
type Player struct {
	Nickname string       `json:"nickname"`
	UserID   UserID       `json:"userId,omitempty"`
	Status   PlayerStatus `json:"status"`
}
