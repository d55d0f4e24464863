// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package advisor

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/pdiddy/elective-advisor/pkg/types"
)

// Level is one step of the academic path.
type Level int

const (
	LevelCollege Level = iota
	LevelDepartment
	LevelDegreeLevel
	LevelDegree
	LevelJob

	numLevels = int(LevelJob) + 1
)

var levelNames = [numLevels]string{"college", "department", "degree-level", "degree", "job"}

func (l Level) String() string {
	if l < 0 || int(l) >= numLevels {
		return fmt.Sprintf("level(%d)", int(l))
	}
	return levelNames[l]
}

// Levels lists every level from the top of the path down.
func Levels() []Level {
	return []Level{LevelCollege, LevelDepartment, LevelDegreeLevel, LevelDegree, LevelJob}
}

// Option is one selectable entry at a level.
type Option struct {
	ID   int64  `json:"id" yaml:"id"`
	Name string `json:"name" yaml:"name"`
}

// Selection is the cascading college → department → degree level → degree
// → job choice. Choosing at one level clears every level below it, so a
// Selection never holds a job that does not belong to its degree.
type Selection struct {
	catalog Catalog
	chosen  [numLevels]Option
}

// NewSelection returns an empty Selection backed by c.
func NewSelection(c Catalog) *Selection {
	return &Selection{catalog: c}
}

// SelectionFromPreferences restores a saved path. IDs are trusted; names
// are looked up lazily by Options.
func SelectionFromPreferences(c Catalog, p types.Preferences) *Selection {
	s := NewSelection(c)
	ids := []int64{p.CollegeID, p.DepartmentID, p.DegreeLevelID, p.DegreeID, p.JobID}
	for i, id := range ids {
		if id == 0 {
			break
		}
		s.chosen[i] = Option{ID: id}
	}
	return s
}

// Options returns the valid choices at level given the levels above it.
func (s *Selection) Options(ctx context.Context, level Level) ([]Option, error) {
	if level < 0 || int(level) >= numLevels {
		return nil, fmt.Errorf("unknown level %v", level)
	}
	var parent int64
	if level > LevelCollege {
		parent = s.chosen[level-1].ID
		if parent == 0 {
			return nil, fmt.Errorf("choose a %s first", level-1)
		}
	}

	var out []Option
	switch level {
	case LevelCollege:
		rows, err := s.catalog.Colleges(ctx)
		if err != nil {
			return nil, err
		}
		for _, r := range rows {
			out = append(out, Option{r.ID, r.Name})
		}
	case LevelDepartment:
		rows, err := s.catalog.Departments(ctx, parent)
		if err != nil {
			return nil, err
		}
		for _, r := range rows {
			out = append(out, Option{r.ID, r.Name})
		}
	case LevelDegreeLevel:
		rows, err := s.catalog.DegreeLevels(ctx, parent)
		if err != nil {
			return nil, err
		}
		for _, r := range rows {
			out = append(out, Option{r.ID, r.Name})
		}
	case LevelDegree:
		rows, err := s.catalog.Degrees(ctx, parent)
		if err != nil {
			return nil, err
		}
		for _, r := range rows {
			out = append(out, Option{r.ID, r.Name})
		}
	case LevelJob:
		rows, err := s.catalog.Jobs(ctx, parent)
		if err != nil {
			return nil, err
		}
		for _, r := range rows {
			out = append(out, Option{r.ID, r.Name})
		}
	}
	return out, nil
}

// Choose selects choice at level. choice is an ID or a case-insensitive
// name among Options(level). Every level below is cleared.
func (s *Selection) Choose(ctx context.Context, level Level, choice string) (Option, error) {
	options, err := s.Options(ctx, level)
	if err != nil {
		return Option{}, err
	}

	choice = strings.TrimSpace(choice)
	id, idErr := strconv.ParseInt(choice, 10, 64)
	for _, opt := range options {
		if (idErr == nil && opt.ID == id) || strings.EqualFold(opt.Name, choice) {
			s.chosen[level] = opt
			for l := int(level) + 1; l < numLevels; l++ {
				s.chosen[l] = Option{}
			}
			return opt, nil
		}
	}

	names := make([]string, len(options))
	for i, o := range options {
		names[i] = fmt.Sprintf("%d %s", o.ID, o.Name)
	}
	return Option{}, fmt.Errorf("no %s matches %q (options: %s)", level, choice, strings.Join(names, "; "))
}

// Chosen returns the selected option at level; a zero ID means unset.
func (s *Selection) Chosen(level Level) Option {
	if level < 0 || int(level) >= numLevels {
		return Option{}
	}
	return s.chosen[level]
}

// Complete reports whether a degree and a job are chosen.
func (s *Selection) Complete() bool {
	return s.chosen[LevelDegree].ID != 0 && s.chosen[LevelJob].ID != 0
}

// Preferences returns the chosen IDs as Preferences.
func (s *Selection) Preferences() types.Preferences {
	return types.Preferences{
		CollegeID:     s.chosen[LevelCollege].ID,
		DepartmentID:  s.chosen[LevelDepartment].ID,
		DegreeLevelID: s.chosen[LevelDegreeLevel].ID,
		DegreeID:      s.chosen[LevelDegree].ID,
		JobID:         s.chosen[LevelJob].ID,
	}
}
