// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package account

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleSession(issued time.Time) Session {
	return Session{
		ID:        "0b6f1f7e-3f7a-4a43-9a38-0c6f0d3e5b21",
		UserID:    7,
		FullName:  "Ada Lovelace",
		Email:     "ada@example.edu",
		StudentID: "889123456",
		GPA:       func() *float64 { v := 3.5; return &v }(),
		IssuedAt:  issued,
	}
}

func TestTokensRoundTrip(t *testing.T) {
	issued := time.Date(2026, 5, 1, 9, 0, 0, 0, time.UTC)
	tokens := Tokens{
		Key: []byte("test-key"),
		TTL: time.Hour,
		Now: func() time.Time { return issued.Add(30 * time.Minute) },
	}

	token, err := tokens.Issue(sampleSession(issued))
	require.NoError(t, err)

	got, err := tokens.Parse(token)
	require.NoError(t, err)

	want := sampleSession(issued)
	want.ExpiresAt = issued.Add(time.Hour)
	assert.Equal(t, want.ID, got.ID)
	assert.Equal(t, want.UserID, got.UserID)
	assert.Equal(t, want.FullName, got.FullName)
	assert.Equal(t, want.Email, got.Email)
	assert.Equal(t, want.StudentID, got.StudentID)
	assert.Equal(t, *want.GPA, *got.GPA)
	assert.True(t, want.IssuedAt.Equal(got.IssuedAt))
	assert.True(t, want.ExpiresAt.Equal(got.ExpiresAt))
}

func TestTokensExpired(t *testing.T) {
	issued := time.Date(2026, 5, 1, 9, 0, 0, 0, time.UTC)
	tokens := Tokens{Key: []byte("test-key"), TTL: time.Hour}

	token, err := tokens.Issue(sampleSession(issued))
	require.NoError(t, err)

	tokens.Now = func() time.Time { return issued.Add(2 * time.Hour) }
	_, err = tokens.Parse(token)
	assert.ErrorIs(t, err, ErrSessionExpired)
}

func TestTokensRejectsForeignKey(t *testing.T) {
	issued := time.Now()
	token, err := Tokens{Key: []byte("one")}.Issue(sampleSession(issued))
	require.NoError(t, err)

	_, err = Tokens{Key: []byte("two")}.Parse(token)
	assert.ErrorIs(t, err, ErrInvalidSession)

	_, err = Tokens{Key: []byte("one")}.Parse("not.a.token")
	assert.ErrorIs(t, err, ErrInvalidSession)
}

func TestTokensRequireKey(t *testing.T) {
	_, err := Tokens{}.Issue(sampleSession(time.Now()))
	assert.Error(t, err)
	_, err = Tokens{}.Parse("x")
	assert.Error(t, err)
}

func TestSessionFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state", "session")

	_, err := LoadSession(path)
	assert.ErrorIs(t, err, ErrNoSession)

	require.NoError(t, SaveSession(path, "abc.def.ghi"))
	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())

	token, err := LoadSession(path)
	require.NoError(t, err)
	assert.Equal(t, "abc.def.ghi", token)

	require.NoError(t, ClearSession(path))
	_, err = LoadSession(path)
	assert.ErrorIs(t, err, ErrNoSession)
	assert.NoError(t, ClearSession(path), "clearing twice is fine")
}

func TestCurrent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session")
	tokens := Tokens{Key: []byte("k")}

	_, err := tokens.Current(path)
	assert.ErrorIs(t, err, ErrNoSession)

	token, err := tokens.Issue(sampleSession(time.Now()))
	require.NoError(t, err)
	require.NoError(t, SaveSession(path, token))

	sess, err := tokens.Current(path)
	require.NoError(t, err)
	assert.Equal(t, int64(7), sess.UserID)
}
