package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/desertthunder/sptx/internal/shared"
	"golang.org/x/oauth2"
)

// StoredToken is a cached OAuth token row.
type StoredToken struct {
	ID        string
	Sequence  int
	Token     *oauth2.Token
	Scope     string
	CreatedAt time.Time
}

// TokenRepository persists OAuth tokens in the tokens table.
//
// Tokens are append-only: every refresh inserts a row and [TokenRepository.Latest] returns the highest sequence.
type TokenRepository struct {
	db  *sql.DB
	now func() time.Time
}

// NewTokenRepository creates a new [TokenRepository] with the given database connection
func NewTokenRepository(db *sql.DB) *TokenRepository {
	return &TokenRepository{db: db, now: time.Now}
}

// Save inserts token with a generated ID and sequence and returns the ID.
func (r *TokenRepository) Save(ctx context.Context, token *oauth2.Token) (string, error) {
	if token == nil || token.AccessToken == "" {
		return "", fmt.Errorf("%w: empty access token", shared.ErrInvalidInput)
	}

	sequence, err := NextSequence(ctx, r.db, "tokens")
	if err != nil {
		return "", fmt.Errorf("failed to generate sequence: %w", err)
	}

	id := shared.GenerateID()
	tokenType := token.TokenType
	if tokenType == "" {
		tokenType = "Bearer"
	}

	var expiresAt sql.NullTime
	if !token.Expiry.IsZero() {
		expiresAt = sql.NullTime{Time: token.Expiry.UTC(), Valid: true}
	}

	query := `
		INSERT INTO tokens (id, sequence, access_token, refresh_token, token_type, scope, expires_at, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`

	_, err = r.db.ExecContext(ctx, query,
		id, sequence, token.AccessToken, token.RefreshToken, tokenType, scopeOf(token), expiresAt, r.now().UTC(),
	)
	if err != nil {
		return "", fmt.Errorf("failed to insert token: %w", err)
	}

	return id, nil
}

// Latest returns the most recently saved token, or [shared.ErrNotFound] when the cache is empty.
func (r *TokenRepository) Latest(ctx context.Context) (*StoredToken, error) {
	query := `
		SELECT id, sequence, access_token, refresh_token, token_type, scope, expires_at, created_at
		FROM tokens
		ORDER BY sequence DESC
		LIMIT 1
	`

	var (
		stored    StoredToken
		access    string
		refresh   string
		tokenType string
		expiresAt sql.NullTime
	)

	err := r.db.QueryRowContext(ctx, query).Scan(
		&stored.ID, &stored.Sequence, &access, &refresh, &tokenType, &stored.Scope, &expiresAt, &stored.CreatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: no cached token", shared.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query token: %w", err)
	}

	stored.Token = &oauth2.Token{
		AccessToken:  access,
		RefreshToken: refresh,
		TokenType:    tokenType,
	}
	if expiresAt.Valid {
		stored.Token.Expiry = expiresAt.Time
	}
	if stored.Scope != "" {
		stored.Token = stored.Token.WithExtra(map[string]any{"scope": stored.Scope})
	}

	return &stored, nil
}

// Count returns the number of cached tokens.
func (r *TokenRepository) Count(ctx context.Context) (int, error) {
	var n int
	if err := r.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM tokens").Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count tokens: %w", err)
	}
	return n, nil
}

// Prune deletes all but the newest keep tokens and returns how many rows were removed.
func (r *TokenRepository) Prune(ctx context.Context, keep int) (int64, error) {
	if keep < 1 {
		return r.Clear(ctx)
	}

	query := `
		DELETE FROM tokens
		WHERE sequence NOT IN (SELECT sequence FROM tokens ORDER BY sequence DESC LIMIT ?)
	`

	result, err := r.db.ExecContext(ctx, query, keep)
	if err != nil {
		return 0, fmt.Errorf("failed to prune tokens: %w", err)
	}
	return result.RowsAffected()
}

// Clear deletes every cached token.
func (r *TokenRepository) Clear(ctx context.Context) (int64, error) {
	result, err := r.db.ExecContext(ctx, "DELETE FROM tokens")
	if err != nil {
		return 0, fmt.Errorf("failed to clear tokens: %w", err)
	}
	return result.RowsAffected()
}

func scopeOf(token *oauth2.Token) string {
	if s, ok := token.Extra("scope").(string); ok {
		return s
	}
	return ""
}
