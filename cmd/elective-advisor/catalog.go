// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/pdiddy/elective-advisor/internal/catalog"
)

var catalogCmd = &cobra.Command{
	Use:   "catalog",
	Short: "Manage the college catalog (seed, list)",
	Long: `Catalog manages the colleges, departments, degree levels, degrees, jobs
and electives stored in the local SQLite database.`,
}

// --- seed subcommand ---

var catalogSeedCmd = &cobra.Command{
	Use:   "seed <catalog.yaml>",
	Short: "Load a YAML catalog file into the database",
	Long: `Seed reads a YAML catalog (colleges → departments → degree_levels →
degrees → jobs and electives) and upserts every entry in one transaction.
Running it again with an edited file updates the stored rows.`,
	Args: cobra.ExactArgs(1),
	RunE: runCatalogSeed,
}

func runCatalogSeed(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	store, err := openStore(cfg)
	if err != nil {
		return err
	}
	defer store.Close()

	f, err := os.Open(args[0])
	if err != nil {
		return err
	}
	defer f.Close()

	_, err = store.Seed(context.Background(), f, cmd.OutOrStdout())
	return err
}

// --- list subcommand ---

var catalogListCmd = &cobra.Command{
	Use:   "list",
	Short: "Print the catalog tree",
	RunE:  runCatalogList,
}

func runCatalogList(cmd *cobra.Command, args []string) error {
	withElectives, _ := cmd.Flags().GetBool("electives")

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	store, err := openStore(cfg)
	if err != nil {
		return err
	}
	defer store.Close()

	return printCatalog(context.Background(), cmd.OutOrStdout(), store, withElectives)
}

func printCatalog(ctx context.Context, w io.Writer, store *catalog.Store, withElectives bool) error {
	colleges, err := store.Colleges(ctx)
	if err != nil {
		return err
	}
	if len(colleges) == 0 {
		fmt.Fprintln(w, "Catalog is empty. Run \"elective-advisor catalog seed <file>\" first.")
		return nil
	}

	for _, c := range colleges {
		fmt.Fprintf(w, "[%d] %s\n", c.ID, c.Name)
		departments, err := store.Departments(ctx, c.ID)
		if err != nil {
			return err
		}
		for _, d := range departments {
			fmt.Fprintf(w, "  [%d] %s\n", d.ID, d.Name)
			levels, err := store.DegreeLevels(ctx, d.ID)
			if err != nil {
				return err
			}
			for _, l := range levels {
				fmt.Fprintf(w, "    [%d] %s\n", l.ID, l.Name)
				degrees, err := store.Degrees(ctx, l.ID)
				if err != nil {
					return err
				}
				for _, deg := range degrees {
					fmt.Fprintf(w, "      [%d] %s\n", deg.ID, deg.Name)
					jobs, err := store.Jobs(ctx, deg.ID)
					if err != nil {
						return err
					}
					for _, j := range jobs {
						fmt.Fprintf(w, "        job [%d] %s\n", j.ID, j.Name)
					}
					if !withElectives {
						continue
					}
					electives, err := store.Electives(ctx, deg.ID)
					if err != nil {
						return err
					}
					for _, e := range electives {
						fmt.Fprintf(w, "        %-10s %d units  %s\n", e.Code, e.Units, e.Name)
					}
				}
			}
		}
	}
	return nil
}

func init() {
	catalogListCmd.Flags().Bool("electives", false, "include each degree's electives")

	catalogCmd.AddCommand(catalogSeedCmd)
	catalogCmd.AddCommand(catalogListCmd)
	rootCmd.AddCommand(catalogCmd)
}
