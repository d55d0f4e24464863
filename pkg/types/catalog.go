// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import "time"

// College is the top level of the academic path.
type College struct {
	ID   int64  `json:"id" yaml:"id"`
	Name string `json:"name" yaml:"name"`
}

// Department belongs to a College.
type Department struct {
	ID        int64  `json:"id" yaml:"id"`
	CollegeID int64  `json:"college_id" yaml:"college_id"`
	Name      string `json:"name" yaml:"name"`
}

// DegreeLevel (e.g. "Undergraduate", "Graduate") belongs to a Department.
type DegreeLevel struct {
	ID           int64  `json:"id" yaml:"id"`
	DepartmentID int64  `json:"department_id" yaml:"department_id"`
	Name         string `json:"name" yaml:"name"`
}

// Degree belongs to a DegreeLevel.
type Degree struct {
	ID            int64  `json:"id" yaml:"id"`
	DegreeLevelID int64  `json:"degree_level_id" yaml:"degree_level_id"`
	Name          string `json:"name" yaml:"name"`
}

// Job is a career path reachable from a Degree. Its name is the career path
// the model is asked to recommend electives for.
type Job struct {
	ID          int64  `json:"id" yaml:"id"`
	DegreeID    int64  `json:"degree_id" yaml:"degree_id"`
	Name        string `json:"name" yaml:"name"`
	Description string `json:"description,omitempty" yaml:"description,omitempty"`
}

// Elective is a course a student of a Degree may choose.
type Elective struct {
	ID            int64  `json:"id" yaml:"-"`
	DegreeID      int64  `json:"degree_id" yaml:"-"`
	Code          string `json:"code" yaml:"code"`
	Name          string `json:"name" yaml:"name"`
	Units         int    `json:"units" yaml:"units"`
	Description   string `json:"description,omitempty" yaml:"description,omitempty"`
	Prerequisites string `json:"prerequisites,omitempty" yaml:"prerequisites,omitempty"`
}

// User is a registered account.
type User struct {
	ID           int64     `json:"id"`
	FullName     string    `json:"full_name"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// Preferences is the academic path a user last selected. Zero IDs are unset.
type Preferences struct {
	CollegeID     int64    `json:"college_id,omitempty"`
	DepartmentID  int64    `json:"department_id,omitempty"`
	DegreeLevelID int64    `json:"degree_level_id,omitempty"`
	DegreeID      int64    `json:"degree_id,omitempty"`
	JobID         int64    `json:"job_id,omitempty"`
	StudentID     string   `json:"student_id,omitempty"`
	GPA           *float64 `json:"gpa,omitempty"`
}

// SavedRecommendation is a persisted Recommendation with its rank and, when
// the course is in the catalog, its unit count.
type SavedRecommendation struct {
	Recommendation
	Rank        int       `json:"-"`
	Units       *int      `json:"-"`
	GeneratedAt time.Time `json:"-"`
}

// CatalogFile is the seed file format: the full college → job tree with the
// electives offered for each degree.
type CatalogFile struct {
	Colleges []CollegeSeed `yaml:"colleges"`
}

// CollegeSeed is one college in a CatalogFile.
type CollegeSeed struct {
	ID          int64            `yaml:"id"`
	Name        string           `yaml:"name"`
	Departments []DepartmentSeed `yaml:"departments"`
}

// DepartmentSeed is one department in a CatalogFile.
type DepartmentSeed struct {
	ID           int64             `yaml:"id"`
	Name         string            `yaml:"name"`
	DegreeLevels []DegreeLevelSeed `yaml:"degree_levels"`
}

// DegreeLevelSeed is one degree level in a CatalogFile.
type DegreeLevelSeed struct {
	ID      int64        `yaml:"id"`
	Name    string       `yaml:"name"`
	Degrees []DegreeSeed `yaml:"degrees"`
}

// DegreeSeed is one degree in a CatalogFile.
type DegreeSeed struct {
	ID        int64      `yaml:"id"`
	Name      string     `yaml:"name"`
	Jobs      []Job      `yaml:"jobs"`
	Electives []Elective `yaml:"electives"`
}

// MarshalJSON writes the recommendation fields followed by Units (when known)
// and Rank.
func (s SavedRecommendation) MarshalJSON() ([]byte, error) {
	return encodeOrdered(s.fields())
}

// MarshalYAML mirrors MarshalJSON.
func (s SavedRecommendation) MarshalYAML() (any, error) {
	return orderedNode(s.fields())
}

func (s *SavedRecommendation) fields() []keyValue {
	fields := s.Recommendation.orderedFields()
	if s.Units != nil {
		fields = append(fields, keyValue{"Units", *s.Units})
	}
	return append(fields, keyValue{"Rank", s.Rank})
}
