package session

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/aroldanm/mkdw-demo/internal/db"
)

// ErrInvalidCredentials is returned when sign-in input cannot yield an
// identity.
var ErrInvalidCredentials = errors.New("invalid credentials")

// Session is the signed-in identity. Callers treat it as the source of
// truth for ownership and visibility checks.
type Session struct {
	ID    string `json:"id"`
	Email string `json:"email"`
}

// Store manages sign-in sessions. Tokens live in the sessions table for
// the life of the process.
type Store struct {
	db *db.DB
}

// NewStore creates a new session store.
func NewStore(database *db.DB) *Store {
	return &Store{db: database}
}

// UserID derives the stable identity for an email. Repeat sign-ins by
// the same email share document ownership, as do CLI imports.
func UserID(email string) string {
	return uuid.NewSHA1(uuid.NameSpaceURL, []byte("mkdw:user:"+email)).String()
}

// SignIn exchanges credentials for a session and an opaque token.
//
// This is a stub boundary, not a security mechanism: the password is
// accepted but never verified, and any non-empty email produces a demo
// identity. A real deployment must replace this with actual
// authentication while keeping the same contract.
func (s *Store) SignIn(ctx context.Context, email, password string) (*Session, string, error) {
	email = strings.TrimSpace(email)
	if email == "" {
		return nil, "", ErrInvalidCredentials
	}

	userID := UserID(email)
	token := uuid.New().String()

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO sessions (token, user_id, email) VALUES (?, ?, ?)`,
		token, userID, email,
	)
	if err != nil {
		return nil, "", fmt.Errorf("creating session: %w", err)
	}

	return &Session{ID: userID, Email: email}, token, nil
}

// Validate resolves a token to its session. Returns (nil, nil) for unknown
// or revoked tokens.
func (s *Store) Validate(ctx context.Context, token string) (*Session, error) {
	if token == "" {
		return nil, nil
	}

	var sess Session
	err := s.db.QueryRowContext(ctx,
		`SELECT user_id, email FROM sessions WHERE token = ?`, token,
	).Scan(&sess.ID, &sess.Email)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("validating session: %w", err)
	}
	return &sess, nil
}

// SignOut revokes a token. Idempotent.
func (s *Store) SignOut(ctx context.Context, token string) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM sessions WHERE token = ?`, token)
	if err != nil {
		return fmt.Errorf("revoking session: %w", err)
	}
	return nil
}
