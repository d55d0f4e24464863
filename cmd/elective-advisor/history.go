// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pdiddy/elective-advisor/internal/advisor"
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Show or clear stored recommendations",
	Long: `History works on the recommendations stored for your saved job, or for
the job given with --job.`,
}

var historyShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the stored recommendations",
	RunE:  runHistoryShow,
}

func runHistoryShow(cmd *cobra.Command, args []string) error {
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

	adv := &advisor.Advisor{Catalog: store, Config: cfg}
	job, recs, err := adv.History(context.Background(), sess, jobID)
	if err != nil {
		return err
	}

	if format != "table" {
		return writeStructured(cmd.OutOrStdout(), recs, format)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "%s\n\n", job.Name)
	return formatRecommendations(cmd.OutOrStdout(), recs)
}

var historyClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Delete the stored recommendations",
	RunE:  runHistoryClear,
}

func runHistoryClear(cmd *cobra.Command, args []string) error {
	jobID, _ := cmd.Flags().GetInt64("job")

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

	adv := &advisor.Advisor{Catalog: store, Config: cfg}
	n, err := adv.ClearHistory(context.Background(), sess, jobID)
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "removed %d recommendations\n", n)
	return nil
}

var historyActivityCmd = &cobra.Command{
	Use:   "activity",
	Short: "Print your recent account activity",
	RunE:  runHistoryActivity,
}

func runHistoryActivity(cmd *cobra.Command, args []string) error {
	limit, _ := cmd.Flags().GetInt("limit")

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

	entries, err := store.Interactions(context.Background(), sess.UserID, limit)
	if err != nil {
		return err
	}

	w := cmd.OutOrStdout()
	fmt.Fprintf(w, "%-16s  %-22s  %s\n", "When", "Action", "Details")
	fmt.Fprintln(w, strings.Repeat("-", 70))
	for _, e := range entries {
		fmt.Fprintf(w, "%-16s  %-22s  %s\n",
			e.CreatedAt.Local().Format("2006-01-02 15:04"), e.Action, e.Details)
	}
	return nil
}

func init() {
	historyCmd.PersistentFlags().Int64("job", 0, "job ID (default: the saved job)")
	historyShowCmd.Flags().String("format", "table", "output format: table, json or yaml")
	historyActivityCmd.Flags().Int("limit", 20, "number of entries to show (0 for all)")

	historyCmd.AddCommand(historyShowCmd)
	historyCmd.AddCommand(historyClearCmd)
	historyCmd.AddCommand(historyActivityCmd)
	rootCmd.AddCommand(historyCmd)
}
