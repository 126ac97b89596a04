package repository

import (
	"crypto/sha256"
	"database/sql"
	"encoding/hex"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/templui/dailybible/internal/model"
)

var (
	ErrTokenNotFound = errors.New("token not found")
)

type TokenRepository interface {
	Issue(userID, tokenType, secret string, expiresAt time.Time) (*model.Token, error)
	Consume(tokenType, secret string) (*model.Token, error)
	RevokeUnused(userID, tokenType string) error
	CleanupExpired(olderThan time.Duration) (int64, error)
}

type tokenRepository struct {
	db *sqlx.DB
}

func NewTokenRepository(db *sqlx.DB) TokenRepository {
	return &tokenRepository{db: db}
}

// HashToken is the stored form of a mailed secret.
func HashToken(secret string) string {
	sum := sha256.Sum256([]byte(secret))
	return hex.EncodeToString(sum[:])
}

func (r *tokenRepository) Issue(userID, tokenType, secret string, expiresAt time.Time) (*model.Token, error) {
	t := &model.Token{
		ID:        uuid.New().String(),
		UserID:    userID,
		Type:      tokenType,
		Hash:      HashToken(secret),
		ExpiresAt: expiresAt,
		CreatedAt: time.Now(),
	}

	query := `
		INSERT INTO tokens (id, user_id, type, token_hash, expires_at, created_at)
		VALUES (:id, :user_id, :type, :token_hash, :expires_at, :created_at)
	`
	_, err := r.db.NamedExec(query, t)
	if err != nil {
		return nil, err
	}
	return t, nil
}

// Consume marks the token as used and returns it in a single statement,
// so a reset link can only be redeemed once. Expired, used and foreign-type
// tokens all report ErrTokenNotFound.
func (r *tokenRepository) Consume(tokenType, secret string) (*model.Token, error) {
	var t model.Token
	now := time.Now()

	query := `
		UPDATE tokens
		SET used_at = $1
		WHERE token_hash = $2
		AND type = $3
		AND used_at IS NULL
		AND expires_at > $1
		RETURNING id, user_id, type, token_hash, expires_at, used_at, created_at
	`

	err := r.db.Get(&t, query, now, HashToken(secret), tokenType)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrTokenNotFound
	}
	if err != nil {
		return nil, err
	}

	return &t, nil
}

// RevokeUnused drops a user's outstanding tokens of one type, e.g. before mailing a new reset link.
func (r *tokenRepository) RevokeUnused(userID, tokenType string) error {
	_, err := r.db.Exec(`DELETE FROM tokens WHERE user_id = $1 AND type = $2 AND used_at IS NULL`, userID, tokenType)
	return err
}

// CleanupExpired removes used and expired tokens older than olderThan.
func (r *tokenRepository) CleanupExpired(olderThan time.Duration) (int64, error) {
	cutoff := time.Now().Add(-olderThan)
	result, err := r.db.Exec(`
		DELETE FROM tokens
		WHERE (used_at IS NOT NULL AND used_at < $1)
		   OR (expires_at < $1)
	`, cutoff)
	if err != nil {
		return 0, err
	}

	return result.RowsAffected()
}
