// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package catalog

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/pdiddy/elective-advisor/pkg/types"
)

// Colleges returns every college ordered by name.
func (s *Store) Colleges(ctx context.Context) ([]types.College, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT id, name FROM colleges ORDER BY name, id`)
	if err != nil {
		return nil, fmt.Errorf("querying colleges: %w", err)
	}
	defer rows.Close()

	var out []types.College
	for rows.Next() {
		var c types.College
		if err := rows.Scan(&c.ID, &c.Name); err != nil {
			return nil, fmt.Errorf("scanning college: %w", err)
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

// Departments returns the departments of a college ordered by name.
func (s *Store) Departments(ctx context.Context, collegeID int64) ([]types.Department, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, college_id, name FROM departments WHERE college_id = ? ORDER BY name, id`, collegeID)
	if err != nil {
		return nil, fmt.Errorf("querying departments: %w", err)
	}
	defer rows.Close()

	var out []types.Department
	for rows.Next() {
		var d types.Department
		if err := rows.Scan(&d.ID, &d.CollegeID, &d.Name); err != nil {
			return nil, fmt.Errorf("scanning department: %w", err)
		}
		out = append(out, d)
	}
	return out, rows.Err()
}

// DegreeLevels returns the degree levels of a department ordered by name.
func (s *Store) DegreeLevels(ctx context.Context, departmentID int64) ([]types.DegreeLevel, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, department_id, name FROM degree_levels WHERE department_id = ? ORDER BY name, id`, departmentID)
	if err != nil {
		return nil, fmt.Errorf("querying degree levels: %w", err)
	}
	defer rows.Close()

	var out []types.DegreeLevel
	for rows.Next() {
		var l types.DegreeLevel
		if err := rows.Scan(&l.ID, &l.DepartmentID, &l.Name); err != nil {
			return nil, fmt.Errorf("scanning degree level: %w", err)
		}
		out = append(out, l)
	}
	return out, rows.Err()
}

// Degrees returns the degrees of a degree level ordered by name.
func (s *Store) Degrees(ctx context.Context, levelID int64) ([]types.Degree, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, degree_level_id, name FROM degrees WHERE degree_level_id = ? ORDER BY name, id`, levelID)
	if err != nil {
		return nil, fmt.Errorf("querying degrees: %w", err)
	}
	defer rows.Close()

	var out []types.Degree
	for rows.Next() {
		var d types.Degree
		if err := rows.Scan(&d.ID, &d.DegreeLevelID, &d.Name); err != nil {
			return nil, fmt.Errorf("scanning degree: %w", err)
		}
		out = append(out, d)
	}
	return out, rows.Err()
}

// Degree returns one degree by ID, or ErrNotFound.
func (s *Store) Degree(ctx context.Context, id int64) (types.Degree, error) {
	var d types.Degree
	err := s.db.QueryRowContext(ctx,
		`SELECT id, degree_level_id, name FROM degrees WHERE id = ?`, id,
	).Scan(&d.ID, &d.DegreeLevelID, &d.Name)
	if errors.Is(err, sql.ErrNoRows) {
		return types.Degree{}, fmt.Errorf("degree %d: %w", id, ErrNotFound)
	}
	if err != nil {
		return types.Degree{}, fmt.Errorf("querying degree %d: %w", id, err)
	}
	return d, nil
}

// Jobs returns the jobs reachable from a degree ordered by name.
func (s *Store) Jobs(ctx context.Context, degreeID int64) ([]types.Job, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, degree_id, name, description FROM jobs WHERE degree_id = ? ORDER BY name, id`, degreeID)
	if err != nil {
		return nil, fmt.Errorf("querying jobs: %w", err)
	}
	defer rows.Close()

	var out []types.Job
	for rows.Next() {
		var j types.Job
		if err := rows.Scan(&j.ID, &j.DegreeID, &j.Name, &j.Description); err != nil {
			return nil, fmt.Errorf("scanning job: %w", err)
		}
		out = append(out, j)
	}
	return out, rows.Err()
}

// Job returns one job by ID, or ErrNotFound.
func (s *Store) Job(ctx context.Context, id int64) (types.Job, error) {
	var j types.Job
	err := s.db.QueryRowContext(ctx,
		`SELECT id, degree_id, name, description FROM jobs WHERE id = ?`, id,
	).Scan(&j.ID, &j.DegreeID, &j.Name, &j.Description)
	if errors.Is(err, sql.ErrNoRows) {
		return types.Job{}, fmt.Errorf("job %d: %w", id, ErrNotFound)
	}
	if err != nil {
		return types.Job{}, fmt.Errorf("querying job %d: %w", id, err)
	}
	return j, nil
}

const electiveColumns = `id, degree_id, code, name, units, description, prerequisites`

func scanElective(row interface{ Scan(...any) error }) (types.Elective, error) {
	var e types.Elective
	err := row.Scan(&e.ID, &e.DegreeID, &e.Code, &e.Name, &e.Units, &e.Description, &e.Prerequisites)
	return e, err
}

// Electives returns the electives offered for a degree ordered by code.
func (s *Store) Electives(ctx context.Context, degreeID int64) ([]types.Elective, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+electiveColumns+` FROM courses WHERE degree_id = ? ORDER BY code`, degreeID)
	if err != nil {
		return nil, fmt.Errorf("querying electives: %w", err)
	}
	defer rows.Close()

	var out []types.Elective
	for rows.Next() {
		e, err := scanElective(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning elective: %w", err)
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

// CourseByCode returns a course by its code. When several degrees offer the
// same code the one with the lowest degree ID wins.
func (s *Store) CourseByCode(ctx context.Context, code string) (types.Elective, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+electiveColumns+` FROM courses WHERE code = ? ORDER BY degree_id LIMIT 1`, code)
	e, err := scanElective(row)
	if errors.Is(err, sql.ErrNoRows) {
		return types.Elective{}, fmt.Errorf("course %q: %w", code, ErrNotFound)
	}
	if err != nil {
		return types.Elective{}, fmt.Errorf("querying course %q: %w", code, err)
	}
	return e, nil
}
