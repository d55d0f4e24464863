// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package catalog

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/pdiddy/elective-advisor/pkg/types"
)

// SavePreferences stores the user's selected path, replacing any earlier one.
func (s *Store) SavePreferences(ctx context.Context, userID int64, p types.Preferences) error {
	var gpa sql.NullFloat64
	if p.GPA != nil {
		gpa = sql.NullFloat64{Float64: *p.GPA, Valid: true}
	}
	studentID := sql.NullString{String: p.StudentID, Valid: p.StudentID != ""}

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO user_preferences
			(user_id, college_id, department_id, degree_level_id, degree_id, job_id, student_id, gpa, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT(user_id) DO UPDATE SET
			college_id=excluded.college_id, department_id=excluded.department_id,
			degree_level_id=excluded.degree_level_id, degree_id=excluded.degree_id,
			job_id=excluded.job_id, student_id=excluded.student_id, gpa=excluded.gpa,
			updated_at=excluded.updated_at`,
		userID, nullID(p.CollegeID), nullID(p.DepartmentID), nullID(p.DegreeLevelID),
		nullID(p.DegreeID), nullID(p.JobID), studentID, gpa, s.timestamp())
	if err != nil {
		return fmt.Errorf("saving preferences for user %d: %w", userID, err)
	}
	return nil
}

// Preferences returns the user's saved path, or ErrNotFound when the user
// has never saved one.
func (s *Store) Preferences(ctx context.Context, userID int64) (types.Preferences, error) {
	var (
		college, dept, level, degree, job sql.NullInt64
		studentID                         sql.NullString
		gpa                               sql.NullFloat64
	)
	err := s.db.QueryRowContext(ctx,
		`SELECT college_id, department_id, degree_level_id, degree_id, job_id, student_id, gpa
		 FROM user_preferences WHERE user_id = ?`, userID,
	).Scan(&college, &dept, &level, &degree, &job, &studentID, &gpa)
	if errors.Is(err, sql.ErrNoRows) {
		return types.Preferences{}, fmt.Errorf("preferences for user %d: %w", userID, ErrNotFound)
	}
	if err != nil {
		return types.Preferences{}, fmt.Errorf("querying preferences: %w", err)
	}

	p := types.Preferences{
		CollegeID:     college.Int64,
		DepartmentID:  dept.Int64,
		DegreeLevelID: level.Int64,
		DegreeID:      degree.Int64,
		JobID:         job.Int64,
		StudentID:     studentID.String,
	}
	if gpa.Valid {
		p.GPA = types.Ptr(gpa.Float64)
	}
	return p, nil
}
