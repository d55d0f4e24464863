// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/pdiddy/elective-advisor/internal/advisor"
	"github.com/pdiddy/elective-advisor/internal/catalog"
)

var selectCmd = &cobra.Command{
	Use:   "select",
	Short: "Choose the academic path (college → job) to advise on",
	Long: `Select walks the college → department → degree level → degree → job
cascade. Each flag accepts an ID or a name. Choosing a level clears the
levels below it, so start from the highest level you want to change.

Without enough flags to reach a job, select prints the options for the next
level. Once a degree and a job are chosen the path is saved to your profile.
--student-id and --gpa update the profile without touching the path.`,
	RunE: runSelect,
}

func runSelect(cmd *cobra.Command, args []string) error {
	ctx := context.Background()
	w := cmd.OutOrStdout()

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

	adv := &advisor.Advisor{Catalog: store, Config: cfg, Out: w}

	if cmd.Flags().Changed("student-id") || cmd.Flags().Changed("gpa") {
		studentID, _ := cmd.Flags().GetString("student-id")
		var gpa *float64
		if cmd.Flags().Changed("gpa") {
			v, _ := cmd.Flags().GetFloat64("gpa")
			gpa = &v
		}
		if err := adv.SaveProfile(ctx, sess, studentID, gpa); err != nil {
			return err
		}
		fmt.Fprintln(w, "saved   profile")
	}

	sel := advisor.NewSelection(store)
	prefs, err := store.Preferences(ctx, sess.UserID)
	switch {
	case err == nil:
		sel = advisor.SelectionFromPreferences(store, prefs)
	case errors.Is(err, catalog.ErrNotFound):
	default:
		return err
	}

	changed := false
	for _, level := range advisor.Levels() {
		flag := level.String()
		if !cmd.Flags().Changed(flag) {
			continue
		}
		choice, _ := cmd.Flags().GetString(flag)
		opt, err := sel.Choose(ctx, level, choice)
		if err != nil {
			return err
		}
		fmt.Fprintf(w, "%-13s %s\n", level.String()+":", opt.Name)
		changed = true
	}

	if !sel.Complete() {
		return printNextOptions(ctx, cmd, sel)
	}
	if !changed {
		fmt.Fprintf(w, "path saved: degree %d, job %d\n",
			sel.Chosen(advisor.LevelDegree).ID, sel.Chosen(advisor.LevelJob).ID)
		return nil
	}
	if err := adv.SavePath(ctx, sess, sel); err != nil {
		return err
	}
	fmt.Fprintln(w, "saved   path")
	return nil
}

// printNextOptions lists the choices for the first level without a selection.
func printNextOptions(ctx context.Context, cmd *cobra.Command, sel *advisor.Selection) error {
	w := cmd.OutOrStdout()
	for _, level := range advisor.Levels() {
		if sel.Chosen(level).ID != 0 {
			continue
		}
		options, err := sel.Options(ctx, level)
		if err != nil {
			return err
		}
		if len(options) == 0 {
			if level == advisor.LevelCollege {
				fmt.Fprintln(w, "Catalog is empty. Run \"elective-advisor catalog seed <file>\" first.")
				return nil
			}
			fmt.Fprintf(w, "No %s options available; choose a different %s.\n", level, level-1)
			return nil
		}
		fmt.Fprintf(w, "Choose a %s with --%s:\n", level, level)
		for _, o := range options {
			fmt.Fprintf(w, "  %-6d %s\n", o.ID, o.Name)
		}
		return nil
	}
	return nil
}

func init() {
	for _, level := range advisor.Levels() {
		selectCmd.Flags().String(level.String(), "", fmt.Sprintf("%s ID or name", level))
	}
	selectCmd.Flags().String("student-id", "", "student ID to store on your profile")
	selectCmd.Flags().Float64("gpa", 0, "GPA (0.0-4.0) to store on your profile")

	rootCmd.AddCommand(selectCmd)
}
