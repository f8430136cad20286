package models

// AnonymousSession identifies a visitor who has not signed in
type AnonymousSession struct {
	VisitorID string `json:"visitor_id"`
	ExpiresAt int64  `json:"exp"`
	IssuedAt  int64  `json:"iat"`
}

// SessionResponse is returned by the session endpoints
type SessionResponse struct {
	Success bool              `json:"success"`
	Session *AnonymousSession `json:"session,omitempty"`
	Error   string            `json:"error,omitempty"`
}
