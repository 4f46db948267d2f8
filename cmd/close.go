package cmd

import (
	"fmt"

	"github.com/samsaffron/comark/internal/autoclose"
	"github.com/samsaffron/comark/internal/config"
	"github.com/samsaffron/comark/internal/stream"
	"github.com/spf13/cobra"
)

var closeTables bool

var closeCmd = &cobra.Command{
	Use:   "close [file]",
	Short: "Close unterminated markup at the end of the input",
	Long: `Append whatever closers the input needs: inline markers on the last line,
an open property block, open code fences and ::component fences. With --table
the last table is completed too (defaults to close.tables from the config).

Examples:
  printf ':::parent\n::child' | comark close
  comark close --table partial.md`,
	Args: cobra.MaximumNArgs(1),
	RunE: runClose,
}

var tableCmd = &cobra.Command{
	Use:   "table [file]",
	Short: "Complete the last markdown table in the input",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runTable,
}

func init() {
	closeCmd.Flags().BoolVar(&closeTables, "table", false, "Also complete the last table")
	rootCmd.AddCommand(closeCmd)
	rootCmd.AddCommand(tableCmd)
}

func runClose(cmd *cobra.Command, args []string) error {
	src, err := readInput(cmd, args)
	if err != nil {
		return err
	}

	tables := closeTables
	if !cmd.Flags().Changed("table") {
		cfg, err := config.Load()
		if err != nil {
			return err
		}
		tables = cfg.Close.Tables
	}

	_, err = fmt.Fprint(cmd.OutOrStdout(), stream.Repair(src, tables))
	return err
}

func runTable(cmd *cobra.Command, args []string) error {
	src, err := readInput(cmd, args)
	if err != nil {
		return err
	}
	_, err = fmt.Fprint(cmd.OutOrStdout(), autoclose.CloseTable(src))
	return err
}
