// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package account

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const defaultTTL = 12 * time.Hour

var (
	// ErrNoSession is returned when no session token is stored.
	ErrNoSession = errors.New("not logged in")

	// ErrSessionExpired is returned for a token past its expiry.
	ErrSessionExpired = errors.New("session expired")

	// ErrInvalidSession is returned for a token that fails verification.
	ErrInvalidSession = errors.New("invalid session token")
)

// Tokens signs and verifies session tokens (HS256 JWTs).
type Tokens struct {
	Key []byte

	// TTL defaults to 12h.
	TTL time.Duration

	// Now defaults to time.Now.
	Now func() time.Time
}

type sessionClaims struct {
	Name      string   `json:"name"`
	Email     string   `json:"email"`
	StudentID string   `json:"student_id,omitempty"`
	GPA       *float64 `json:"gpa,omitempty"`
	jwt.RegisteredClaims
}

func (t Tokens) now() time.Time {
	if t.Now == nil {
		return time.Now()
	}
	return t.Now()
}

// Issue returns a signed token for sess. The expiry is IssuedAt plus TTL.
func (t Tokens) Issue(sess Session) (string, error) {
	if len(t.Key) == 0 {
		return "", fmt.Errorf("session signing key is not configured")
	}
	ttl := t.TTL
	if ttl <= 0 {
		ttl = defaultTTL
	}
	issued := sess.IssuedAt
	if issued.IsZero() {
		issued = t.now()
	}

	claims := sessionClaims{
		Name:      sess.FullName,
		Email:     sess.Email,
		StudentID: sess.StudentID,
		GPA:       sess.GPA,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        sess.ID,
			Subject:   strconv.FormatInt(sess.UserID, 10),
			IssuedAt:  jwt.NewNumericDate(issued),
			ExpiresAt: jwt.NewNumericDate(issued.Add(ttl)),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(t.Key)
	if err != nil {
		return "", fmt.Errorf("signing session: %w", err)
	}
	return signed, nil
}

// Parse verifies token and returns the session it carries.
func (t Tokens) Parse(token string) (Session, error) {
	if len(t.Key) == 0 {
		return Session{}, fmt.Errorf("session signing key is not configured")
	}

	var claims sessionClaims
	_, err := jwt.ParseWithClaims(token, &claims, func(*jwt.Token) (any, error) {
		return t.Key, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithTimeFunc(t.now))
	if errors.Is(err, jwt.ErrTokenExpired) {
		return Session{}, ErrSessionExpired
	}
	if err != nil {
		return Session{}, fmt.Errorf("%w: %v", ErrInvalidSession, err)
	}

	userID, err := strconv.ParseInt(claims.Subject, 10, 64)
	if err != nil {
		return Session{}, fmt.Errorf("%w: bad subject %q", ErrInvalidSession, claims.Subject)
	}

	sess := Session{
		ID:        claims.ID,
		UserID:    userID,
		FullName:  claims.Name,
		Email:     claims.Email,
		StudentID: claims.StudentID,
		GPA:       claims.GPA,
	}
	if claims.IssuedAt != nil {
		sess.IssuedAt = claims.IssuedAt.Time
	}
	if claims.ExpiresAt != nil {
		sess.ExpiresAt = claims.ExpiresAt.Time
	}
	return sess, nil
}

// SaveSession writes token to path, readable only by the current user.
func SaveSession(path, token string) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o700); err != nil {
			return fmt.Errorf("creating session directory: %w", err)
		}
	}
	if err := os.WriteFile(path, []byte(token+"\n"), 0o600); err != nil {
		return fmt.Errorf("writing session: %w", err)
	}
	return os.Chmod(path, 0o600)
}

// LoadSession reads the token stored at path, or returns ErrNoSession.
func LoadSession(path string) (string, error) {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return "", ErrNoSession
	}
	if err != nil {
		return "", fmt.Errorf("reading session: %w", err)
	}
	token := strings.TrimSpace(string(data))
	if token == "" {
		return "", ErrNoSession
	}
	return token, nil
}

// ClearSession removes the stored token. A missing file is not an error.
func ClearSession(path string) error {
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("removing session: %w", err)
	}
	return nil
}

// Current loads and verifies the stored session.
func (t Tokens) Current(path string) (Session, error) {
	token, err := LoadSession(path)
	if err != nil {
		return Session{}, err
	}
	return t.Parse(token)
}
