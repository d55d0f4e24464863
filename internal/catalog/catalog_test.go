// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package catalog

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/elective-advisor/pkg/types"
)

// --- test helpers ---

func testStore(t *testing.T) *Store {
	t.Helper()
	store, err := Open(types.StoreConfig{DataDir: filepath.Join(t.TempDir(), "data")})
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store
}

func seededStore(t *testing.T) *Store {
	t.Helper()
	store := testStore(t)
	f, err := os.Open("testdata/catalog.yaml")
	require.NoError(t, err)
	defer f.Close()

	var out strings.Builder
	_, err = store.Seed(context.Background(), f, &out)
	require.NoError(t, err)
	return store
}

func testUser(t *testing.T, store *Store, email string) types.User {
	t.Helper()
	u, err := store.CreateUser(context.Background(), "Ada Lovelace", email, "hash")
	require.NoError(t, err)
	return u
}

// --- schema ---

func TestOpenCreatesSchema(t *testing.T) {
	store := testStore(t)

	tables := []string{
		"colleges", "departments", "degree_levels", "degrees", "jobs", "courses",
		"users", "user_preferences", "recommendations", "interactions",
	}
	for _, table := range tables {
		var count int
		err := store.db.QueryRow(
			`SELECT count(*) FROM sqlite_master WHERE type = 'table' AND name = ?`, table,
		).Scan(&count)
		require.NoError(t, err)
		assert.Equal(t, 1, count, "table %s", table)
	}
}

func TestOpenIsIdempotent(t *testing.T) {
	dir := t.TempDir()
	cfg := types.StoreConfig{DataDir: dir, DBFile: "test.db"}

	first, err := Open(cfg)
	require.NoError(t, err)
	require.NoError(t, first.Close())

	second, err := Open(cfg)
	require.NoError(t, err)
	require.NoError(t, second.Close())

	assert.FileExists(t, filepath.Join(dir, "test.db"))
}

// --- seeding ---

func TestSeed(t *testing.T) {
	store := testStore(t)
	f, err := os.Open("testdata/catalog.yaml")
	require.NoError(t, err)
	defer f.Close()

	var out strings.Builder
	summary, err := store.Seed(context.Background(), f, &out)
	require.NoError(t, err)

	assert.Equal(t, SeedSummary{
		Colleges: 2, Departments: 2, DegreeLevels: 3, Degrees: 3, Jobs: 4, Electives: 4,
	}, summary)
	assert.Equal(t, 18, summary.Total())
	assert.Contains(t, out.String(), "seeded  B.S. Computer Science (2 jobs, 3 electives)")
	assert.Contains(t, out.String(), "electives: 4")
}

func TestSeedTwiceIsStable(t *testing.T) {
	store := seededStore(t)
	ctx := context.Background()

	data, err := os.ReadFile("testdata/catalog.yaml")
	require.NoError(t, err)
	_, err = store.Seed(ctx, strings.NewReader(string(data)), &strings.Builder{})
	require.NoError(t, err)

	electives, err := store.Electives(ctx, 1000)
	require.NoError(t, err)
	assert.Len(t, electives, 3)
}

func TestSeedUpdatesExistingRows(t *testing.T) {
	store := seededStore(t)
	ctx := context.Background()

	update := `
colleges:
  - id: 1
    name: Engineering and Computer Science
    departments:
      - id: 10
        name: Computer Science
        degree_levels:
          - id: 100
            name: Undergraduate
            degrees:
              - id: 1000
                name: B.S. Computer Science
                jobs:
                  - id: 1
                    name: Machine Learning Engineer
                electives:
                  - code: CPSC 483
                    name: Machine Learning
                    units: 4
`
	_, err := store.Seed(ctx, strings.NewReader(update), &strings.Builder{})
	require.NoError(t, err)

	job, err := store.Job(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, "Machine Learning Engineer", job.Name)

	course, err := store.CourseByCode(ctx, "CPSC 483")
	require.NoError(t, err)
	assert.Equal(t, "Machine Learning", course.Name)
	assert.Equal(t, 4, course.Units)
}

func TestSeedRejectsInvalidFiles(t *testing.T) {
	tests := []struct {
		name   string
		input  string
		errMsg string
	}{
		{"empty", "", "empty"},
		{"no colleges", "colleges: []\n", "no colleges"},
		{"missing id", "colleges:\n  - name: Arts\n", "id must be positive"},
		{"missing name", "colleges:\n  - id: 3\n", "name is required"},
		{"duplicate id", "colleges:\n  - id: 3\n    name: A\n  - id: 3\n    name: B\n", "duplicate id"},
		{"unknown field", "colleges:\n  - id: 3\n    name: A\n    dean: Smith\n", "dean"},
		{
			"elective without code",
			"colleges:\n  - id: 1\n    name: A\n    departments:\n      - id: 1\n        name: D\n" +
				"        degree_levels:\n          - id: 1\n            name: L\n            degrees:\n" +
				"              - id: 1\n                name: G\n                electives:\n" +
				"                  - name: Nameless\n",
			"has no code",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := testStore(t)
			_, err := store.Seed(context.Background(), strings.NewReader(tt.input), &strings.Builder{})
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.errMsg)

			colleges, err := store.Colleges(context.Background())
			require.NoError(t, err)
			assert.Empty(t, colleges)
		})
	}
}

// --- cascade lookups ---

func TestCascadeLookups(t *testing.T) {
	store := seededStore(t)
	ctx := context.Background()

	colleges, err := store.Colleges(ctx)
	require.NoError(t, err)
	require.Len(t, colleges, 2)
	assert.Equal(t, "Arts", colleges[0].Name)

	depts, err := store.Departments(ctx, 1)
	require.NoError(t, err)
	require.Len(t, depts, 2)
	assert.Equal(t, "Computer Science", depts[0].Name)
	assert.Equal(t, int64(1), depts[0].CollegeID)

	levels, err := store.DegreeLevels(ctx, 10)
	require.NoError(t, err)
	require.Len(t, levels, 2)
	assert.Equal(t, "Graduate", levels[0].Name)

	degrees, err := store.Degrees(ctx, 100)
	require.NoError(t, err)
	require.Len(t, degrees, 1)
	assert.Equal(t, int64(1000), degrees[0].ID)

	jobs, err := store.Jobs(ctx, 1000)
	require.NoError(t, err)
	require.Len(t, jobs, 2)
	assert.Equal(t, "AI Software Applications Developer", jobs[0].Name)
	assert.Equal(t, "Builds applications on top of machine learning models.", jobs[0].Description)

	none, err := store.Departments(ctx, 2)
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestSingleRowLookups(t *testing.T) {
	store := seededStore(t)
	ctx := context.Background()

	degree, err := store.Degree(ctx, 1001)
	require.NoError(t, err)
	assert.Equal(t, "M.S. Computer Science", degree.Name)

	job, err := store.Job(ctx, 3)
	require.NoError(t, err)
	assert.Equal(t, int64(1001), job.DegreeID)

	_, err = store.Degree(ctx, 9999)
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = store.Job(ctx, 9999)
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = store.CourseByCode(ctx, "HIST 101")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestElectives(t *testing.T) {
	store := seededStore(t)

	electives, err := store.Electives(context.Background(), 1000)
	require.NoError(t, err)
	require.Len(t, electives, 3)

	codes := []string{electives[0].Code, electives[1].Code, electives[2].Code}
	assert.Equal(t, []string{"CPSC 375", "CPSC 411", "CPSC 483"}, codes)
	assert.Equal(t, "CPSC 335, MATH 338", electives[2].Prerequisites)
	assert.Equal(t, int64(1000), electives[2].DegreeID)

	empty, err := store.Electives(context.Background(), 1100)
	require.NoError(t, err)
	assert.Empty(t, empty)
}

// --- users ---

func TestCreateUser(t *testing.T) {
	store := testStore(t)
	ctx := context.Background()
	fixed := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	store.now = func() time.Time { return fixed }

	u := testUser(t, store, "ada@example.edu")
	assert.NotZero(t, u.ID)
	assert.Equal(t, "Ada Lovelace", u.FullName)
	assert.Equal(t, "hash", u.PasswordHash)
	assert.Equal(t, fixed, u.CreatedAt)

	byEmail, err := store.UserByEmail(ctx, "ada@example.edu")
	require.NoError(t, err)
	assert.Equal(t, u, byEmail)

	_, err = store.CreateUser(ctx, "Someone Else", "ada@example.edu", "x")
	assert.ErrorIs(t, err, ErrDuplicate)

	_, err = store.UserByEmail(ctx, "nobody@example.edu")
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = store.UserByID(ctx, 42)
	assert.ErrorIs(t, err, ErrNotFound)
}

// --- preferences ---

func TestPreferences(t *testing.T) {
	store := seededStore(t)
	ctx := context.Background()
	u := testUser(t, store, "ada@example.edu")

	_, err := store.Preferences(ctx, u.ID)
	assert.ErrorIs(t, err, ErrNotFound)

	prefs := types.Preferences{
		CollegeID: 1, DepartmentID: 10, DegreeLevelID: 100, DegreeID: 1000, JobID: 1,
		StudentID: "889123456", GPA: types.Ptr(3.7),
	}
	require.NoError(t, store.SavePreferences(ctx, u.ID, prefs))

	got, err := store.Preferences(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, prefs, got)

	// Saving again replaces, including clearing optional fields.
	require.NoError(t, store.SavePreferences(ctx, u.ID, types.Preferences{CollegeID: 2}))
	got, err = store.Preferences(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, types.Preferences{CollegeID: 2}, got)
}

// --- recommendations ---

func sampleRecommendations() []types.Recommendation {
	return []types.Recommendation{
		{
			Number:        types.Ptr(1),
			CourseCode:    types.Ptr("CPSC 483"),
			CourseName:    types.Ptr("Introduction to Machine Learning"),
			Rating:        types.Ptr(types.IntegerRating(100)),
			Explanation:   types.Ptr("Good for AI."),
			Prerequisites: types.Ptr("CPSC 335"),
		},
		{
			Number:     types.Ptr(2),
			CourseCode: types.Ptr("XYZ 999"),
			Rating:     types.Ptr(types.TextRating("N/A")),
			Extra:      []types.ExtraField{{Key: "Semester", Value: "Fall"}},
		},
	}
}

func TestSaveAndLoadRecommendations(t *testing.T) {
	store := seededStore(t)
	ctx := context.Background()
	u := testUser(t, store, "ada@example.edu")

	require.NoError(t, store.SaveRecommendations(ctx, u.ID, 1, sampleRecommendations()))

	got, err := store.Recommendations(ctx, u.ID, 1)
	require.NoError(t, err)
	require.Len(t, got, 2)

	assert.Equal(t, 1, got[0].Rank)
	assert.Equal(t, sampleRecommendations()[0], got[0].Recommendation)
	require.NotNil(t, got[0].Units)
	assert.Equal(t, 3, *got[0].Units)
	assert.False(t, got[0].GeneratedAt.IsZero())

	assert.Equal(t, 2, got[1].Rank)
	assert.Equal(t, sampleRecommendations()[1], got[1].Recommendation)
	assert.Nil(t, got[1].Units, "unknown course has no units")
	assert.Nil(t, got[1].Explanation)

	other, err := store.Recommendations(ctx, u.ID, 2)
	require.NoError(t, err)
	assert.Empty(t, other, "sets are keyed by job")
}

func TestRecommendationsKeepRatingKind(t *testing.T) {
	store := testStore(t)
	ctx := context.Background()
	u := testUser(t, store, "ada@example.edu")

	ratings := []types.Rating{
		types.IntegerRating(100),
		types.TextRating("100"),
		types.TextRating("N/A"),
		types.TextRating("8.5"),
	}
	recs := make([]types.Recommendation, len(ratings))
	for i, r := range ratings {
		recs[i] = types.Recommendation{Number: types.Ptr(i + 1), Rating: types.Ptr(r)}
	}
	require.NoError(t, store.SaveRecommendations(ctx, u.ID, 1, recs))

	got, err := store.Recommendations(ctx, u.ID, 1)
	require.NoError(t, err)
	require.Len(t, got, len(ratings))
	for i, want := range ratings {
		require.NotNil(t, got[i].Rating)
		assert.Equal(t, want, *got[i].Rating, "rank %d", i+1)
	}
}

func TestDecodeRatingPlainText(t *testing.T) {
	assert.Equal(t, types.TextRating("N/A"), decodeRating("N/A"))
	assert.Equal(t, types.IntegerRating(7), decodeRating("7"))
	assert.Equal(t, types.TextRating("7"), decodeRating(`"7"`))
}

func TestSaveRecommendationsReplacesPriorSet(t *testing.T) {
	store := seededStore(t)
	ctx := context.Background()
	u := testUser(t, store, "ada@example.edu")

	require.NoError(t, store.SaveRecommendations(ctx, u.ID, 1, sampleRecommendations()))
	replacement := []types.Recommendation{{Number: types.Ptr(1), CourseCode: types.Ptr("CPSC 375")}}
	require.NoError(t, store.SaveRecommendations(ctx, u.ID, 1, replacement))

	got, err := store.Recommendations(ctx, u.ID, 1)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "CPSC 375", *got[0].CourseCode)
	assert.Equal(t, 1, got[0].Rank)
}

func TestSaveRecommendationsRanksFollowInputOrder(t *testing.T) {
	store := testStore(t)
	ctx := context.Background()
	u := testUser(t, store, "ada@example.edu")

	recs := []types.Recommendation{
		{Number: types.Ptr(3), CourseCode: types.Ptr("C")},
		{Number: types.Ptr(1), CourseCode: types.Ptr("A")},
	}
	require.NoError(t, store.SaveRecommendations(ctx, u.ID, 7, recs))

	got, err := store.Recommendations(ctx, u.ID, 7)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "C", *got[0].CourseCode)
	assert.Equal(t, 1, got[0].Rank)
	assert.Equal(t, "A", *got[1].CourseCode)
	assert.Equal(t, 2, got[1].Rank)
}

func TestClearRecommendations(t *testing.T) {
	store := seededStore(t)
	ctx := context.Background()
	u := testUser(t, store, "ada@example.edu")

	require.NoError(t, store.SaveRecommendations(ctx, u.ID, 1, sampleRecommendations()))
	require.NoError(t, store.SaveRecommendations(ctx, u.ID, 2, sampleRecommendations()[:1]))

	n, err := store.ClearRecommendations(ctx, u.ID, 1)
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)

	n, err = store.ClearRecommendations(ctx, u.ID, 1)
	require.NoError(t, err)
	assert.Zero(t, n)

	kept, err := store.Recommendations(ctx, u.ID, 2)
	require.NoError(t, err)
	assert.Len(t, kept, 1)
}

func TestSaveRecommendationsUnknownUserRollsBack(t *testing.T) {
	store := testStore(t)
	err := store.SaveRecommendations(context.Background(), 404, 1, sampleRecommendations())
	assert.Error(t, err)
}

// --- interactions ---

func TestInteractions(t *testing.T) {
	store := testStore(t)
	ctx := context.Background()
	u := testUser(t, store, "ada@example.edu")

	require.NoError(t, store.LogInteraction(ctx, u.ID, ActionLogin, ""))
	require.NoError(t, store.LogInteraction(ctx, u.ID, ActionRecommend, "job=1 count=2"))

	all, err := store.Interactions(ctx, u.ID, 0)
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, ActionRecommend, all[0].Action)
	assert.Equal(t, "job=1 count=2", all[0].Details)
	assert.Equal(t, ActionLogin, all[1].Action)

	latest, err := store.Interactions(ctx, u.ID, 1)
	require.NoError(t, err)
	require.Len(t, latest, 1)
	assert.Equal(t, ActionRecommend, latest[0].Action)

	assert.Error(t, store.LogInteraction(ctx, 999, ActionLogin, ""))
}
