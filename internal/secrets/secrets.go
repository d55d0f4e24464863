// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package secrets loads API keys and signing keys from a directory of
// plain-text files. Each file holds one secret: the filename is the key name
// and the trimmed file contents are the value.
package secrets

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// Key names understood by elective-advisor.
const (
	OpenAIAPIKey      = "openai-api-key"
	AnthropicAPIKey   = "anthropic-api-key"
	SessionSigningKey = "session-signing-key"
)

// Set is a loaded secrets directory.
type Set map[string]string

// Load reads all files in dir. A missing directory is not an error and
// yields an empty Set. Unreadable files are logged and skipped.
func Load(dir string, logger *slog.Logger) (Set, error) {
	if logger == nil {
		logger = slog.Default()
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return Set{}, nil
		}
		return nil, fmt.Errorf("reading secrets directory %s: %w", dir, err)
	}

	secrets := make(Set)
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		name := entry.Name()
		if strings.HasPrefix(name, ".") {
			continue
		}

		data, err := os.ReadFile(filepath.Join(dir, name))
		if err != nil {
			logger.Warn("could not read secret", "name", name, "err", err)
			continue
		}

		value := strings.TrimSpace(string(data))
		if value != "" {
			secrets[name] = value
		}
	}

	return secrets, nil
}

// Default returns configured when it is set, otherwise the secret stored
// under key (or "").
func (s Set) Default(key, configured string) string {
	if configured != "" {
		return configured
	}
	return s[key]
}

// Names returns the loaded key names in sorted order. Values are never
// exposed so the list is safe to log.
func (s Set) Names() []string {
	names := make([]string, 0, len(s))
	for k := range s {
		names = append(names, k)
	}
	sort.Strings(names)
	return names
}

// Ensure returns the secret stored under key. When the Set has no value it
// generates size random bytes, hex-encodes them and writes them to
// dir/key with mode 0600 so later runs load the same value.
func (s Set) Ensure(dir, key string, size int) (string, error) {
	if v := s[key]; v != "" {
		return v, nil
	}

	buf := make([]byte, size)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("generating %s: %w", key, err)
	}
	value := hex.EncodeToString(buf)

	if err := os.MkdirAll(dir, 0o700); err != nil {
		return "", fmt.Errorf("creating secrets directory %s: %w", dir, err)
	}
	path := filepath.Join(dir, key)
	if err := os.WriteFile(path, []byte(value+"\n"), 0o600); err != nil {
		return "", fmt.Errorf("writing %s: %w", key, err)
	}
	if err := os.Chmod(path, 0o600); err != nil {
		return "", err
	}

	if s != nil {
		s[key] = value
	}
	return value, nil
}
