// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/elective-advisor/internal/parse"
	"github.com/pdiddy/elective-advisor/pkg/types"
)

const noticeNothingParsed = "No recommendations parsed: the reply has no \"**Key:** value\" lines."

var parseCmd = &cobra.Command{
	Use:   "parse [reply-file]",
	Short: "Parse a saved model reply into recommendation records",
	Long: `Parse reads a model reply (from a file, or stdin when no file or "-" is
given), extracts its "**Key:** value" lines and prints the resulting records
as JSON or YAML. An unparseable Number value is reported with its line.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runParse,
}

func runParse(cmd *cobra.Command, args []string) error {
	format, _ := cmd.Flags().GetString("format")

	var (
		data []byte
		err  error
	)
	if len(args) == 0 || args[0] == "-" {
		data, err = io.ReadAll(cmd.InOrStdin())
	} else {
		data, err = os.ReadFile(args[0])
	}
	if err != nil {
		return fmt.Errorf("reading reply: %w", err)
	}

	retain := viper.GetBool("parser.retain_continuations")
	if cmd.Flags().Changed("retain-continuations") {
		retain, _ = cmd.Flags().GetBool("retain-continuations")
	}
	p := parse.New(types.ParserConfig{RetainContinuations: retain})
	recs, err := p.Parse(string(data))
	if err != nil {
		return err
	}
	if len(recs) == 0 {
		fmt.Fprintln(cmd.ErrOrStderr(), noticeNothingParsed)
	}
	return writeStructured(cmd.OutOrStdout(), recs, format)
}

func init() {
	parseCmd.Flags().Bool("retain-continuations", false, "keep untagged lines so wrapped explanations survive")
	parseCmd.Flags().String("format", "json", "output format: json or yaml")

	rootCmd.AddCommand(parseCmd)
}
