// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pdiddy/elective-advisor/internal/advisor"
	"github.com/pdiddy/elective-advisor/internal/catalog"
	"github.com/pdiddy/elective-advisor/internal/generate"
	"github.com/pdiddy/elective-advisor/internal/parse"
	"github.com/pdiddy/elective-advisor/pkg/types"
)

var recommendCmd = &cobra.Command{
	Use:   "recommend",
	Short: "Recommend electives for the saved path",
	Long: `Recommend sends the electives of your saved degree to the configured
model, asking it to rank them for your saved job (or --job). The reply is
parsed into records, written to output.courses_file and stored as your
recommendations for that job, replacing the previous set.

With ai.enabled=false (or AI_ENABLED=false) the records are replayed from
output.courses_file instead of calling the model.`,
	RunE: runRecommend,
}

func runRecommend(cmd *cobra.Command, args []string) error {
	jobID, _ := cmd.Flags().GetInt64("job")
	format, _ := cmd.Flags().GetString("format")

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	sess, err := currentSession(cfg)
	if err != nil {
		return err
	}
	store, err := openStore(cfg)
	if err != nil {
		return err
	}
	defer store.Close()

	adv, err := newAdvisor(cfg, store, cmd.ErrOrStderr())
	if err != nil {
		return err
	}

	result, err := adv.Recommend(context.Background(), sess, jobID)
	if err != nil {
		return err
	}
	if result.Notice != "" {
		fmt.Fprintln(cmd.OutOrStdout(), result.Notice)
		return nil
	}

	if format != "table" {
		return writeStructured(cmd.OutOrStdout(), result.Recommendations, format)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "%s (%s)\n\n", result.Job.Name, result.Degree.Name)
	return formatRecommendations(cmd.OutOrStdout(), result.Recommendations)
}

// newAdvisor wires the store, parser and (when AI is enabled) the backend.
func newAdvisor(cfg types.AdvisorConfig, store *catalog.Store, out io.Writer) (*advisor.Advisor, error) {
	adv := &advisor.Advisor{
		Catalog: store,
		Parser:  parse.New(cfg.Parser),
		Config:  cfg,
		Out:     out,
	}
	if cfg.AI.Enabled {
		backend, err := generate.NewBackend(cfg.AI)
		if err != nil {
			return nil, err
		}
		adv.Backend = backend
	}
	return adv, nil
}

func formatRecommendations(w io.Writer, recs []types.SavedRecommendation) error {
	if len(recs) == 0 {
		fmt.Fprintln(w, "No recommendations stored.")
		return nil
	}

	fmt.Fprintf(w, "%-4s  %-10s  %-40s  %-6s  %-5s  %s\n",
		"Rank", "Code", "Course", "Rating", "Units", "Prerequisites")
	fmt.Fprintln(w, strings.Repeat("-", 100))

	for _, r := range recs {
		units := "-"
		if r.Units != nil {
			units = fmt.Sprint(*r.Units)
		}
		rating := "-"
		if r.Rating != nil {
			rating = r.Rating.String()
		}
		fmt.Fprintf(w, "%-4d  %-10s  %-40s  %-6s  %-5s  %s\n",
			r.Rank, deref(r.CourseCode), truncate(deref(r.CourseName), 40),
			rating, units, r.PrerequisitesOrNone())
		if r.Explanation != nil && *r.Explanation != "" {
			fmt.Fprintf(w, "      %s\n", *r.Explanation)
		}
	}

	fmt.Fprintf(w, "\n%d recommendations\n", len(recs))
	return nil
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func init() {
	recommendCmd.Flags().Int64("job", 0, "job ID to advise on instead of the saved one (must belong to the saved degree)")
	recommendCmd.Flags().String("format", "table", "output format: table, json or yaml")

	rootCmd.AddCommand(recommendCmd)
}
