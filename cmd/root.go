package cmd

import (
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"
)

func init() {
	rootCmd.PersistentFlags().BoolVar(&debugLogs, "debug", false, "Log debug output to stderr")
}

var rootCmd = &cobra.Command{
	Use:   "comark",
	Short: "Repair, parse and render markdown that is still being written",
	Long: `comark closes unterminated markdown (inline markup, ::components, code
fences and tables) so that partial documents render cleanly, and renders
documents as HTML, text, JSON or styled terminal output.

Examples:
  echo '**bold' | comark close              # **bold**
  comark detect --json draft.md             # what is still open
  comark render --format html post.md
  comark stream --chunk 4 --interval 30ms post.md

  comark config                             # view configuration`,
	CompletionOptions: cobra.CompletionOptions{DisableDefaultCmd: true},
	SilenceUsage:      true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		setupLogging(cmd.ErrOrStderr(), debugLogs)
	},
}

var debugLogs bool

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func setupLogging(w io.Writer, debug bool) {
	level := slog.LevelInfo
	if debug {
		level = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level})))
}
