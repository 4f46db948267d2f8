package cmd

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/samsaffron/comark/internal/autoclose"
	"github.com/samsaffron/comark/internal/stream"
	"github.com/spf13/cobra"
)

var detectJSON bool

var detectCmd = &cobra.Command{
	Use:   "detect [file]",
	Short: "Report unclosed syntax without changing the input",
	Long: `Report whether the input ends with unclosed markup, which inline markers
are open on the last line and which ::components are still open.

Examples:
  printf '::alert\nsay **hi' | comark detect
  comark detect --json draft.md`,
	Args: cobra.MaximumNArgs(1),
	RunE: runDetect,
}

func init() {
	detectCmd.Flags().BoolVar(&detectJSON, "json", false, "Print the report as JSON")
	rootCmd.AddCommand(detectCmd)
}

func runDetect(cmd *cobra.Command, args []string) error {
	src, err := readInput(cmd, args)
	if err != nil {
		return err
	}
	body, _ := stream.SplitTrailingBreaks(src)
	report := autoclose.DetectUnclosed(body)
	out := cmd.OutOrStdout()

	if detectJSON {
		data, err := json.MarshalIndent(report, "", "  ")
		if err != nil {
			return fmt.Errorf("encode report: %w", err)
		}
		_, err = fmt.Fprintln(out, string(data))
		return err
	}

	styles := newReportStyles(out)
	if !report.HasUnclosed {
		_, err = fmt.Fprintln(out, styles.Success.Render("No unclosed syntax"))
		return err
	}

	var b strings.Builder
	b.WriteString(styles.Warning.Render("Unclosed syntax found"))
	b.WriteString("\n")
	if len(report.UnclosedInline) > 0 {
		b.WriteString(styles.Title.Render("Inline:"))
		b.WriteString("\n")
		for _, m := range report.UnclosedInline {
			b.WriteString(styles.Item.Render(m))
			b.WriteString("\n")
		}
	}
	if len(report.UnclosedComponents) > 0 {
		b.WriteString(styles.Title.Render("Components:"))
		b.WriteString("\n")
		for _, c := range report.UnclosedComponents {
			line := fmt.Sprintf("%s %s", c.Name, styles.Muted.Render(strings.Repeat(":", c.Depth)))
			b.WriteString(styles.Item.Render(line))
			b.WriteString("\n")
		}
	}
	_, err = fmt.Fprint(out, b.String())
	return err
}
