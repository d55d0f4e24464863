// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package advisor

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/pdiddy/elective-advisor/pkg/types"
)

// LoadCoursesFile reads recommendations saved by WriteCoursesFile. The file
// must hold a JSON array.
func LoadCoursesFile(path string) ([]types.Recommendation, error) {
	if path == "" {
		return nil, fmt.Errorf("no courses file configured")
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading courses file: %w", err)
	}

	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || trimmed[0] != '[' {
		return nil, fmt.Errorf("courses file %s does not contain a JSON array", path)
	}

	var recs []types.Recommendation
	if err := json.Unmarshal(trimmed, &recs); err != nil {
		return nil, fmt.Errorf("decoding courses file %s: %w", path, err)
	}
	return recs, nil
}

// WriteCoursesFile writes recs to path as an indented JSON array.
func WriteCoursesFile(path string, recs []types.Recommendation) error {
	if recs == nil {
		recs = []types.Recommendation{}
	}
	data, err := json.MarshalIndent(recs, "", "    ")
	if err != nil {
		return fmt.Errorf("encoding recommendations: %w", err)
	}

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("creating output directory: %w", err)
		}
	}
	if err := os.WriteFile(path, append(data, '\n'), 0o644); err != nil {
		return fmt.Errorf("writing courses file: %w", err)
	}
	return nil
}
