// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package catalog

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/pdiddy/elective-advisor/pkg/types"
)

// execer is satisfied by *sql.DB and *sql.Tx.
type execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

// ClearRecommendations deletes the saved recommendations for (user, job)
// and returns how many rows were removed.
func (s *Store) ClearRecommendations(ctx context.Context, userID, jobID int64) (int64, error) {
	return clearRecommendations(ctx, s.db, userID, jobID)
}

func clearRecommendations(ctx context.Context, db execer, userID, jobID int64) (int64, error) {
	res, err := db.ExecContext(ctx,
		`DELETE FROM recommendations WHERE user_id = ? AND job_id = ?`, userID, jobID)
	if err != nil {
		return 0, fmt.Errorf("clearing recommendations: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("counting cleared recommendations: %w", err)
	}
	return n, nil
}

// SaveRecommendations replaces the saved set for (user, job) with recs. The
// rank of each record is its position plus one. Clearing and inserting
// happen in one transaction, so a failure keeps the previous set.
func (s *Store) SaveRecommendations(ctx context.Context, userID, jobID int64, recs []types.Recommendation) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := clearRecommendations(ctx, tx, userID, jobID); err != nil {
		return err
	}

	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO recommendations
			(user_id, job_id, rank, number, course_code, course_name, rating,
			 explanation, prerequisites, extra, generated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("preparing insert: %w", err)
	}
	defer stmt.Close()

	ts := s.timestamp()
	for i, rec := range recs {
		var extra sql.NullString
		if len(rec.Extra) > 0 {
			data, err := json.Marshal(rec.Extra)
			if err != nil {
				return fmt.Errorf("encoding extra fields: %w", err)
			}
			extra = sql.NullString{String: string(data), Valid: true}
		}
		var rating sql.NullString
		if rec.Rating != nil {
			data, err := json.Marshal(rec.Rating)
			if err != nil {
				return fmt.Errorf("encoding rating: %w", err)
			}
			rating = sql.NullString{String: string(data), Valid: true}
		}
		var number sql.NullInt64
		if rec.Number != nil {
			number = sql.NullInt64{Int64: int64(*rec.Number), Valid: true}
		}

		_, err := stmt.ExecContext(ctx,
			userID, jobID, i+1, number,
			nullString(rec.CourseCode), nullString(rec.CourseName), rating,
			nullString(rec.Explanation), nullString(rec.Prerequisites), extra, ts)
		if err != nil {
			return fmt.Errorf("inserting recommendation %d: %w", i+1, err)
		}
	}

	return tx.Commit()
}

// Recommendations returns the saved set for (user, job) in rank order. Units
// are filled in when the course code exists in the catalog.
func (s *Store) Recommendations(ctx context.Context, userID, jobID int64) ([]types.SavedRecommendation, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT r.rank, r.number, r.course_code, r.course_name, r.rating,
			r.explanation, r.prerequisites, r.extra, r.generated_at,
			(SELECT c.units FROM courses c WHERE c.code = r.course_code ORDER BY c.degree_id LIMIT 1)
		 FROM recommendations r
		 WHERE r.user_id = ? AND r.job_id = ?
		 ORDER BY r.rank`, userID, jobID)
	if err != nil {
		return nil, fmt.Errorf("querying recommendations: %w", err)
	}
	defer rows.Close()

	var out []types.SavedRecommendation
	for rows.Next() {
		var (
			saved                                   types.SavedRecommendation
			number, units                           sql.NullInt64
			code, name, rating, expl, prereq, extra sql.NullString
			generated                               string
		)
		if err := rows.Scan(&saved.Rank, &number, &code, &name, &rating,
			&expl, &prereq, &extra, &generated, &units); err != nil {
			return nil, fmt.Errorf("scanning recommendation: %w", err)
		}

		rec := &saved.Recommendation
		if number.Valid {
			rec.Number = types.Ptr(int(number.Int64))
		}
		rec.CourseCode = stringPtr(code)
		rec.CourseName = stringPtr(name)
		rec.Explanation = stringPtr(expl)
		rec.Prerequisites = stringPtr(prereq)
		if rating.Valid {
			rec.Rating = types.Ptr(decodeRating(rating.String))
		}
		if extra.Valid {
			if err := json.Unmarshal([]byte(extra.String), &rec.Extra); err != nil {
				return nil, fmt.Errorf("decoding extra fields of rank %d: %w", saved.Rank, err)
			}
		}
		if units.Valid {
			saved.Units = types.Ptr(int(units.Int64))
		}
		saved.GeneratedAt = parseTimestamp(generated)

		out = append(out, saved)
	}
	return out, rows.Err()
}

// decodeRating reads a rating stored as JSON (9 or "N/A"), so text ratings
// that look like integers keep their kind. Values that are not JSON are
// parsed as a plain rating.
func decodeRating(stored string) types.Rating {
	var r types.Rating
	if err := r.UnmarshalJSON([]byte(stored)); err != nil {
		return types.ParseRating(stored)
	}
	return r
}

func nullString(p *string) sql.NullString {
	if p == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: *p, Valid: true}
}

func stringPtr(ns sql.NullString) *string {
	if !ns.Valid {
		return nil
	}
	return types.Ptr(ns.String)
}
