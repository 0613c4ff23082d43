package model

import "time"

// Claims is the verified payload of an identity token. It carries only
// what was signed: the subject and the validity window. Server-side
// enrichment lives on Identity, never here.
type Claims struct {
	UserID    string
	IssuedAt  time.Time
	ExpiresAt time.Time
}

// TokenManager issues and verifies signed identity tokens.
type TokenManager interface {
	Generate(userID int64) (string, error)
	Parse(token string) (Claims, error)
}
