// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package secrets

import (
	"bytes"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad(t *testing.T) {
	tests := []struct {
		name  string
		setup func(t *testing.T) string
		want  Set
	}{
		{
			name: "reads key files and trims whitespace",
			setup: func(t *testing.T) string {
				dir := t.TempDir()
				writeFile(t, dir, OpenAIAPIKey, "  sk-abc123  \n")
				writeFile(t, dir, AnthropicAPIKey, "ak_xyz789")
				writeFile(t, dir, SessionSigningKey, "signing\n")
				return dir
			},
			want: Set{
				OpenAIAPIKey:      "sk-abc123",
				AnthropicAPIKey:   "ak_xyz789",
				SessionSigningKey: "signing",
			},
		},
		{
			name: "returns empty set for nonexistent directory",
			setup: func(t *testing.T) string {
				return filepath.Join(t.TempDir(), "does-not-exist")
			},
			want: Set{},
		},
		{
			name: "skips empty files",
			setup: func(t *testing.T) string {
				dir := t.TempDir()
				writeFile(t, dir, OpenAIAPIKey, "valid-key")
				writeFile(t, dir, "empty-key", "")
				writeFile(t, dir, "whitespace-only", "   \n\t  ")
				return dir
			},
			want: Set{OpenAIAPIKey: "valid-key"},
		},
		{
			name: "skips dotfiles and subdirectories",
			setup: func(t *testing.T) string {
				dir := t.TempDir()
				writeFile(t, dir, ".gitkeep", "")
				writeFile(t, dir, ".hidden-key", "secret")
				writeFile(t, dir, SessionSigningKey, "real")
				require.NoError(t, os.Mkdir(filepath.Join(dir, "subdir"), 0o755))
				return dir
			},
			want: Set{SessionSigningKey: "real"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Load(tt.setup(t), nil)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestLoadUnreadableFile(t *testing.T) {
	if os.Geteuid() == 0 {
		t.Skip("file permissions are not enforced for root")
	}
	dir := t.TempDir()
	writeFile(t, dir, "good-key", "value123")

	badPath := filepath.Join(dir, "bad-key")
	require.NoError(t, os.WriteFile(badPath, []byte("secret"), 0o000))
	t.Cleanup(func() { os.Chmod(badPath, 0o644) })

	var logs bytes.Buffer
	got, err := Load(dir, slog.New(slog.NewTextHandler(&logs, nil)))
	require.NoError(t, err)
	assert.Equal(t, "value123", got["good-key"])
	assert.NotContains(t, got, "bad-key")
	assert.Contains(t, logs.String(), "bad-key")
}

func TestDefault(t *testing.T) {
	s := Set{OpenAIAPIKey: "from-file"}

	assert.Equal(t, "from-config", s.Default(OpenAIAPIKey, "from-config"))
	assert.Equal(t, "from-file", s.Default(OpenAIAPIKey, ""))
	assert.Equal(t, "", s.Default(AnthropicAPIKey, ""))
	assert.Equal(t, "", Set(nil).Default(AnthropicAPIKey, ""))
}

func TestNames(t *testing.T) {
	s := Set{SessionSigningKey: "x", AnthropicAPIKey: "y", OpenAIAPIKey: "z"}
	assert.Equal(t, []string{AnthropicAPIKey, OpenAIAPIKey, SessionSigningKey}, s.Names())
	assert.Empty(t, Set{}.Names())
}

func writeFile(t *testing.T, dir, name, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644))
}

func TestEnsureGeneratesAndPersistsKey(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "secrets")
	set := Set{}

	key, err := set.Ensure(dir, SessionSigningKey, 32)
	require.NoError(t, err)
	assert.Len(t, key, 64)
	assert.Equal(t, key, set[SessionSigningKey])

	info, err := os.Stat(filepath.Join(dir, SessionSigningKey))
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())

	reloaded, err := Load(dir, slog.New(slog.DiscardHandler))
	require.NoError(t, err)
	assert.Equal(t, key, reloaded[SessionSigningKey])

	again, err := reloaded.Ensure(dir, SessionSigningKey, 32)
	require.NoError(t, err)
	assert.Equal(t, key, again, "an existing key is reused")
}

func TestEnsureKeepsLoadedValue(t *testing.T) {
	dir := t.TempDir()
	set := Set{SessionSigningKey: "configured"}

	key, err := set.Ensure(dir, SessionSigningKey, 32)
	require.NoError(t, err)
	assert.Equal(t, "configured", key)
	assert.NoFileExists(t, filepath.Join(dir, SessionSigningKey))
}

func TestEnsureNilSet(t *testing.T) {
	var set Set
	key, err := set.Ensure(t.TempDir(), SessionSigningKey, 16)
	require.NoError(t, err)
	assert.Len(t, key, 32)
}
