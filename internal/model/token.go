package model

import "time"

const TokenTypePasswordReset = "password_reset"

// Token is a single-use secret mailed to a user. Only its SHA-256 hash is stored.
type Token struct {
	ID        string     `db:"id"`
	UserID    string     `db:"user_id"`
	Type      string     `db:"type"`
	Hash      string     `db:"token_hash"`
	ExpiresAt time.Time  `db:"expires_at"`
	UsedAt    *time.Time `db:"used_at"`
	CreatedAt time.Time  `db:"created_at"`
}

func (t *Token) IsUsed() bool {
	return t.UsedAt != nil
}
