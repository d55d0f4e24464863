// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package advisor runs the recommendation workflow for a logged-in student:
// choosing an academic path, asking the model for electives, parsing and
// storing the reply, and reading back the stored history.
package advisor

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/pdiddy/elective-advisor/internal/account"
	"github.com/pdiddy/elective-advisor/internal/catalog"
	"github.com/pdiddy/elective-advisor/internal/generate"
	"github.com/pdiddy/elective-advisor/internal/logging"
	"github.com/pdiddy/elective-advisor/internal/parse"
	"github.com/pdiddy/elective-advisor/pkg/types"
)

// ErrIncompleteSelection is returned when no degree and job have been saved.
var ErrIncompleteSelection = errors.New("choose a degree and a job first")

// NoticeNoRecommendations is reported when a reply yields no records.
const NoticeNoRecommendations = "No recommendations found in the model reply; previous recommendations were kept."

// Catalog is the store the advisor works against.
type Catalog interface {
	Colleges(ctx context.Context) ([]types.College, error)
	Departments(ctx context.Context, collegeID int64) ([]types.Department, error)
	DegreeLevels(ctx context.Context, departmentID int64) ([]types.DegreeLevel, error)
	Degrees(ctx context.Context, levelID int64) ([]types.Degree, error)
	Degree(ctx context.Context, id int64) (types.Degree, error)
	Jobs(ctx context.Context, degreeID int64) ([]types.Job, error)
	Job(ctx context.Context, id int64) (types.Job, error)
	Electives(ctx context.Context, degreeID int64) ([]types.Elective, error)

	SavePreferences(ctx context.Context, userID int64, p types.Preferences) error
	Preferences(ctx context.Context, userID int64) (types.Preferences, error)

	ClearRecommendations(ctx context.Context, userID, jobID int64) (int64, error)
	SaveRecommendations(ctx context.Context, userID, jobID int64, recs []types.Recommendation) error
	Recommendations(ctx context.Context, userID, jobID int64) ([]types.SavedRecommendation, error)

	LogInteraction(ctx context.Context, userID int64, action, details string) error
}

// Advisor ties the catalog, the text-generation backend and the parser
// together. Backend may be nil when Config.AI.Enabled is false.
type Advisor struct {
	Catalog Catalog
	Backend generate.Backend
	Parser  parse.Parser
	Config  types.AdvisorConfig
	Logger  *slog.Logger

	// Out receives progress lines. Nil discards them.
	Out io.Writer
}

// Result is the outcome of one Recommend call.
type Result struct {
	Job             types.Job                   `json:"job"`
	Degree          types.Degree                `json:"degree"`
	Recommendations []types.SavedRecommendation `json:"recommendations"`

	// Notice is a user-facing message, set when nothing was saved.
	Notice string `json:"notice,omitempty"`

	// Source is "model" or the courses file the records were replayed from.
	Source string `json:"source"`
}

func (a *Advisor) logger() *slog.Logger {
	return logging.OrDefault(a.Logger)
}

func (a *Advisor) out() io.Writer {
	if a.Out == nil {
		return io.Discard
	}
	return a.Out
}

func (a *Advisor) logInteraction(ctx context.Context, userID int64, action, details string) {
	if err := a.Catalog.LogInteraction(ctx, userID, action, details); err != nil {
		a.logger().Warn("could not log interaction", "action", action, "err", err)
	}
}

// SavePath stores the selected path for the session's user, keeping the
// student ID and GPA already on file.
func (a *Advisor) SavePath(ctx context.Context, sess account.Session, sel *Selection) error {
	if !sel.Complete() {
		return ErrIncompleteSelection
	}

	prefs := sel.Preferences()
	existing, err := a.Catalog.Preferences(ctx, sess.UserID)
	switch {
	case err == nil:
		prefs.StudentID = existing.StudentID
		prefs.GPA = existing.GPA
	case errors.Is(err, catalog.ErrNotFound):
	default:
		return err
	}

	if err := a.Catalog.SavePreferences(ctx, sess.UserID, prefs); err != nil {
		return err
	}
	a.logInteraction(ctx, sess.UserID, catalog.ActionSavePath,
		fmt.Sprintf("degree=%d job=%d", prefs.DegreeID, prefs.JobID))
	a.logger().Info("saved path", "user_id", sess.UserID, "degree", prefs.DegreeID, "job", prefs.JobID)
	return nil
}

// SaveProfile updates the student ID and GPA on file. An empty studentID or
// nil gpa leaves that field unchanged.
func (a *Advisor) SaveProfile(ctx context.Context, sess account.Session, studentID string, gpa *float64) error {
	if gpa != nil && (*gpa < 0 || *gpa > 4.0) {
		return fmt.Errorf("GPA %.2f is outside 0.0-4.0", *gpa)
	}

	prefs, err := a.Catalog.Preferences(ctx, sess.UserID)
	if err != nil && !errors.Is(err, catalog.ErrNotFound) {
		return err
	}
	if studentID != "" {
		prefs.StudentID = studentID
	}
	if gpa != nil {
		prefs.GPA = gpa
	}
	return a.Catalog.SavePreferences(ctx, sess.UserID, prefs)
}

// resolve returns the degree and job to work on: the saved path, with the
// job optionally overridden by jobOverride.
func (a *Advisor) resolve(ctx context.Context, sess account.Session, jobOverride int64) (types.Degree, types.Job, error) {
	prefs, err := a.Catalog.Preferences(ctx, sess.UserID)
	if errors.Is(err, catalog.ErrNotFound) {
		return types.Degree{}, types.Job{}, ErrIncompleteSelection
	}
	if err != nil {
		return types.Degree{}, types.Job{}, err
	}

	jobID := prefs.JobID
	if jobOverride != 0 {
		jobID = jobOverride
	}
	if prefs.DegreeID == 0 || jobID == 0 {
		return types.Degree{}, types.Job{}, ErrIncompleteSelection
	}

	degree, err := a.Catalog.Degree(ctx, prefs.DegreeID)
	if err != nil {
		return types.Degree{}, types.Job{}, err
	}
	job, err := a.Catalog.Job(ctx, jobID)
	if err != nil {
		return types.Degree{}, types.Job{}, err
	}
	if job.DegreeID != degree.ID {
		return types.Degree{}, types.Job{}, fmt.Errorf("job %q is not offered for %q", job.Name, degree.Name)
	}
	return degree, job, nil
}

// Recommend produces recommendations for the session's saved path (or
// jobOverride) and stores them as the user's set for that job.
//
// With AI enabled the electives of the degree are sent to the backend and
// the reply is parsed, then written to the courses file. With AI disabled
// the records are replayed from the courses file instead. When no records
// come back the stored set is left alone and Result.Notice says so.
func (a *Advisor) Recommend(ctx context.Context, sess account.Session, jobOverride int64) (Result, error) {
	degree, job, err := a.resolve(ctx, sess, jobOverride)
	if err != nil {
		return Result{}, err
	}
	result := Result{Job: job, Degree: degree}

	var recs []types.Recommendation
	if a.Config.AI.Enabled {
		recs, err = a.generate(ctx, degree, job)
		if err != nil {
			return Result{}, err
		}
		result.Source = "model"
	} else {
		path := a.Config.Output.CoursesFile
		a.logger().Info("AI disabled, replaying recommendations", "file", path)
		recs, err = LoadCoursesFile(path)
		if err != nil {
			return Result{}, err
		}
		result.Source = path
	}

	if len(recs) == 0 {
		a.logger().Warn("no recommendations parsed", "job", job.ID)
		result.Notice = NoticeNoRecommendations
		return result, nil
	}

	if err := a.Catalog.SaveRecommendations(ctx, sess.UserID, job.ID, recs); err != nil {
		return Result{}, err
	}
	a.logInteraction(ctx, sess.UserID, catalog.ActionRecommend,
		fmt.Sprintf("job=%d count=%d", job.ID, len(recs)))
	fmt.Fprintf(a.out(), "saved   %d recommendations for %s\n", len(recs), job.Name)

	result.Recommendations, err = a.Catalog.Recommendations(ctx, sess.UserID, job.ID)
	if err != nil {
		return Result{}, err
	}
	return result, nil
}

func (a *Advisor) generate(ctx context.Context, degree types.Degree, job types.Job) ([]types.Recommendation, error) {
	if a.Backend == nil {
		return nil, fmt.Errorf("AI is enabled but no backend is configured")
	}

	electives, err := a.Catalog.Electives(ctx, degree.ID)
	if err != nil {
		return nil, err
	}
	prompt, err := generate.BuildPrompt(generate.PromptInput{
		CareerPath: job.Name,
		Degree:     degree.Name,
		Electives:  electives,
	})
	if err != nil {
		return nil, err
	}

	if a.Config.AI.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, a.Config.AI.Timeout)
		defer cancel()
	}

	fmt.Fprintf(a.out(), "asking  model for %s electives (%d offered)\n", job.Name, len(electives))
	reply, err := generate.Generate(ctx, a.Backend, prompt, a.Config.AI.MaxRetries)
	if err != nil {
		return nil, fmt.Errorf("generating recommendations: %w", err)
	}
	a.logger().Debug("model reply", "bytes", len(reply))

	recs, err := a.Parser.Parse(reply)
	if err != nil {
		return nil, fmt.Errorf("parsing model reply: %w", err)
	}
	a.logger().Info("parsed recommendations", "count", len(recs))

	if path := a.Config.Output.CoursesFile; path != "" {
		if err := WriteCoursesFile(path, recs); err != nil {
			return nil, err
		}
		fmt.Fprintf(a.out(), "wrote   %s\n", path)
	}
	return recs, nil
}

// History returns the stored recommendations for jobID, or for the saved
// job when jobID is zero.
func (a *Advisor) History(ctx context.Context, sess account.Session, jobID int64) (types.Job, []types.SavedRecommendation, error) {
	_, job, err := a.resolve(ctx, sess, jobID)
	if err != nil {
		return types.Job{}, nil, err
	}
	recs, err := a.Catalog.Recommendations(ctx, sess.UserID, job.ID)
	if err != nil {
		return types.Job{}, nil, err
	}
	return job, recs, nil
}

// ClearHistory deletes the stored recommendations for jobID (or the saved
// job) and returns how many were removed.
func (a *Advisor) ClearHistory(ctx context.Context, sess account.Session, jobID int64) (int64, error) {
	_, job, err := a.resolve(ctx, sess, jobID)
	if err != nil {
		return 0, err
	}
	n, err := a.Catalog.ClearRecommendations(ctx, sess.UserID, job.ID)
	if err != nil {
		return 0, err
	}
	a.logInteraction(ctx, sess.UserID, catalog.ActionClear, fmt.Sprintf("job=%d removed=%d", job.ID, n))
	return n, nil
}
