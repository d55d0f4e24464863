// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package catalog

import (
	"context"
	"database/sql"
	"fmt"
	"io"
	"strings"

	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/elective-advisor/pkg/types"
)

// SeedSummary holds row counts from a Seed run.
type SeedSummary struct {
	Colleges     int
	Departments  int
	DegreeLevels int
	Degrees      int
	Jobs         int
	Electives    int
}

// Total returns the number of rows written.
func (s SeedSummary) Total() int {
	return s.Colleges + s.Departments + s.DegreeLevels + s.Degrees + s.Jobs + s.Electives
}

// Seed loads a YAML catalog file from r and upserts every entry in a single
// transaction. Rows are matched by ID (electives by degree and code), so
// seeding the same file twice leaves the store unchanged. Progress is written
// to w, one line per degree.
func (s *Store) Seed(ctx context.Context, r io.Reader, w io.Writer) (SeedSummary, error) {
	var file types.CatalogFile
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&file); err != nil {
		if err == io.EOF {
			return SeedSummary{}, fmt.Errorf("catalog file is empty")
		}
		return SeedSummary{}, fmt.Errorf("parsing catalog file: %w", err)
	}
	if err := validateCatalog(&file); err != nil {
		return SeedSummary{}, err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return SeedSummary{}, fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	var summary SeedSummary
	for _, college := range file.Colleges {
		if err := upsert(ctx, tx,
			`INSERT INTO colleges (id, name) VALUES (?, ?)
			 ON CONFLICT(id) DO UPDATE SET name=excluded.name`,
			college.ID, college.Name); err != nil {
			return SeedSummary{}, fmt.Errorf("college %d: %w", college.ID, err)
		}
		summary.Colleges++

		for _, dept := range college.Departments {
			if err := upsert(ctx, tx,
				`INSERT INTO departments (id, college_id, name) VALUES (?, ?, ?)
				 ON CONFLICT(id) DO UPDATE SET college_id=excluded.college_id, name=excluded.name`,
				dept.ID, college.ID, dept.Name); err != nil {
				return SeedSummary{}, fmt.Errorf("department %d: %w", dept.ID, err)
			}
			summary.Departments++

			for _, level := range dept.DegreeLevels {
				if err := upsert(ctx, tx,
					`INSERT INTO degree_levels (id, department_id, name) VALUES (?, ?, ?)
					 ON CONFLICT(id) DO UPDATE SET department_id=excluded.department_id, name=excluded.name`,
					level.ID, dept.ID, level.Name); err != nil {
					return SeedSummary{}, fmt.Errorf("degree level %d: %w", level.ID, err)
				}
				summary.DegreeLevels++

				for _, degree := range level.Degrees {
					if err := seedDegree(ctx, tx, level.ID, degree); err != nil {
						return SeedSummary{}, fmt.Errorf("degree %d: %w", degree.ID, err)
					}
					summary.Degrees++
					summary.Jobs += len(degree.Jobs)
					summary.Electives += len(degree.Electives)
					fmt.Fprintf(w, "seeded  %s (%d jobs, %d electives)\n",
						degree.Name, len(degree.Jobs), len(degree.Electives))
				}
			}
		}
	}

	if err := tx.Commit(); err != nil {
		return SeedSummary{}, fmt.Errorf("committing catalog: %w", err)
	}

	fmt.Fprintf(w, "\ncolleges: %d, departments: %d, degree levels: %d, degrees: %d, jobs: %d, electives: %d\n",
		summary.Colleges, summary.Departments, summary.DegreeLevels,
		summary.Degrees, summary.Jobs, summary.Electives)

	return summary, nil
}

func seedDegree(ctx context.Context, tx *sql.Tx, levelID int64, degree types.DegreeSeed) error {
	if err := upsert(ctx, tx,
		`INSERT INTO degrees (id, degree_level_id, name) VALUES (?, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET degree_level_id=excluded.degree_level_id, name=excluded.name`,
		degree.ID, levelID, degree.Name); err != nil {
		return err
	}

	for _, job := range degree.Jobs {
		if err := upsert(ctx, tx,
			`INSERT INTO jobs (id, degree_id, name, description) VALUES (?, ?, ?, ?)
			 ON CONFLICT(id) DO UPDATE SET degree_id=excluded.degree_id,
				name=excluded.name, description=excluded.description`,
			job.ID, degree.ID, job.Name, job.Description); err != nil {
			return fmt.Errorf("job %d: %w", job.ID, err)
		}
	}

	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO courses (degree_id, code, name, units, description, prerequisites)
		 VALUES (?, ?, ?, ?, ?, ?)
		 ON CONFLICT(degree_id, code) DO UPDATE SET
			name=excluded.name, units=excluded.units,
			description=excluded.description, prerequisites=excluded.prerequisites`)
	if err != nil {
		return fmt.Errorf("preparing elective insert: %w", err)
	}
	defer stmt.Close()

	for _, e := range degree.Electives {
		if _, err := stmt.ExecContext(ctx,
			degree.ID, e.Code, e.Name, e.Units, e.Description, e.Prerequisites); err != nil {
			return fmt.Errorf("elective %s: %w", e.Code, err)
		}
	}
	return nil
}

func upsert(ctx context.Context, tx *sql.Tx, query string, args ...any) error {
	_, err := tx.ExecContext(ctx, query, args...)
	return err
}

// validateCatalog rejects entries without an ID or name before anything is
// written, and IDs reused within one level of the tree.
func validateCatalog(file *types.CatalogFile) error {
	if len(file.Colleges) == 0 {
		return fmt.Errorf("catalog file has no colleges")
	}

	seen := map[string]map[int64]bool{}
	check := func(kind string, id int64, name string) error {
		if id <= 0 {
			return fmt.Errorf("%s %q: id must be positive", kind, name)
		}
		if strings.TrimSpace(name) == "" {
			return fmt.Errorf("%s %d: name is required", kind, id)
		}
		if seen[kind] == nil {
			seen[kind] = map[int64]bool{}
		}
		if seen[kind][id] {
			return fmt.Errorf("%s %d: duplicate id", kind, id)
		}
		seen[kind][id] = true
		return nil
	}

	for _, c := range file.Colleges {
		if err := check("college", c.ID, c.Name); err != nil {
			return err
		}
		for _, d := range c.Departments {
			if err := check("department", d.ID, d.Name); err != nil {
				return err
			}
			for _, l := range d.DegreeLevels {
				if err := check("degree level", l.ID, l.Name); err != nil {
					return err
				}
				for _, g := range l.Degrees {
					if err := check("degree", g.ID, g.Name); err != nil {
						return err
					}
					for _, j := range g.Jobs {
						if err := check("job", j.ID, j.Name); err != nil {
							return err
						}
					}
					for _, e := range g.Electives {
						if strings.TrimSpace(e.Code) == "" {
							return fmt.Errorf("degree %d: elective %q has no code", g.ID, e.Name)
						}
					}
				}
			}
		}
	}
	return nil
}
