package core

// SessionID names one live transport session. A new one is minted for every
// connection, so it is short-lived relative to a domain.UserID.
type SessionID string
