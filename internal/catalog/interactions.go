// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package catalog

import (
	"context"
	"fmt"
	"time"
)

// Interaction actions recorded by the advisor.
const (
	ActionRegister  = "register"
	ActionLogin     = "login"
	ActionSavePath  = "save_path"
	ActionRecommend = "recommend"
	ActionClear     = "clear_recommendations"
)

// Interaction is one entry of a user's activity log.
type Interaction struct {
	ID        int64     `json:"id" yaml:"id"`
	UserID    int64     `json:"user_id" yaml:"user_id"`
	Action    string    `json:"action" yaml:"action"`
	Details   string    `json:"details,omitempty" yaml:"details,omitempty"`
	CreatedAt time.Time `json:"created_at" yaml:"created_at"`
}

// LogInteraction appends an entry to the user's activity log.
func (s *Store) LogInteraction(ctx context.Context, userID int64, action, details string) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO interactions (user_id, action, details, created_at) VALUES (?, ?, ?, ?)`,
		userID, action, details, s.timestamp())
	if err != nil {
		return fmt.Errorf("logging interaction %s: %w", action, err)
	}
	return nil
}

// Interactions returns the user's most recent entries, newest first. A
// limit of zero or less returns all of them.
func (s *Store) Interactions(ctx context.Context, userID int64, limit int) ([]Interaction, error) {
	if limit <= 0 {
		limit = -1
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, user_id, action, details, created_at FROM interactions
		 WHERE user_id = ? ORDER BY id DESC LIMIT ?`, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("querying interactions: %w", err)
	}
	defer rows.Close()

	var out []Interaction
	for rows.Next() {
		var (
			in      Interaction
			created string
		)
		if err := rows.Scan(&in.ID, &in.UserID, &in.Action, &in.Details, &created); err != nil {
			return nil, fmt.Errorf("scanning interaction: %w", err)
		}
		in.CreatedAt = parseTimestamp(created)
		out = append(out, in)
	}
	return out, rows.Err()
}
