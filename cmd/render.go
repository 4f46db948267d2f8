package cmd

import (
	"fmt"

	"github.com/samsaffron/comark/internal/config"
	"github.com/samsaffron/comark/internal/render"
	"github.com/samsaffron/comark/internal/stream"
	"github.com/spf13/cobra"
)

var (
	renderFormat     string
	renderWidth      int
	renderStyle      string
	renderNoSanitize bool
)

var renderCmd = &cobra.Command{
	Use:   "render [file]",
	Short: "Render a document as HTML, text, JSON or terminal output",
	Long: `Repair the input, parse it (frontmatter, ::components, markdown), run the
configured plugins and write it in the chosen format.

Examples:
  comark render --format html post.md
  comark render --format json post.md | jq .meta.toc
  cat post.md | comark render --width 60`,
	Args: cobra.MaximumNArgs(1),
	RunE: runRender,
}

func init() {
	renderCmd.Flags().StringVarP(&renderFormat, "format", "f", "", "Output format: html, text, json or terminal (default from config)")
	renderCmd.Flags().IntVarP(&renderWidth, "width", "w", 0, "Terminal word wrap width (default: terminal width)")
	renderCmd.Flags().StringVar(&renderStyle, "style", "", "Terminal style: dark, light, notty, ...")
	renderCmd.Flags().BoolVar(&renderNoSanitize, "no-sanitize", false, "Keep scripts, event handlers and unsafe URLs")
	rootCmd.AddCommand(renderCmd)
}

// applyRenderFlags overrides cfg with the render flags that were set.
func applyRenderFlags(cmd *cobra.Command, cfg *config.Config) error {
	if cmd.Flags().Changed("format") {
		cfg.Render.Format = renderFormat
	}
	if cmd.Flags().Changed("width") {
		cfg.Render.Width = renderWidth
	}
	if cmd.Flags().Changed("style") {
		cfg.Render.Style = renderStyle
	}
	if renderNoSanitize {
		cfg.Render.Sanitize = false
		cfg.Plugins.Sanitize.Enabled = false
	}
	return cfg.Validate()
}

func runRender(cmd *cobra.Command, args []string) error {
	src, err := readInput(cmd, args)
	if err != nil {
		return err
	}
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	if err := applyRenderFlags(cmd, cfg); err != nil {
		return err
	}

	out, err := renderDocument(stream.Repair(src, cfg.Close.Tables), cfg)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(cmd.OutOrStdout(), out)
	return err
}

// renderDocument renders repaired markdown in cfg.Render.Format.
func renderDocument(md string, cfg *config.Config) (string, error) {
	if cfg.Render.Format == "terminal" {
		return render.Terminal(md, terminalWidth(cfg.Render.Width), cfg.Render.Style)
	}

	doc, err := buildDocument(md, cfg)
	if err != nil {
		return "", fmt.Errorf("parse document: %w", err)
	}
	switch cfg.Render.Format {
	case "html":
		return render.HTML(doc, render.HTMLOptions{Sanitize: cfg.Render.Sanitize}), nil
	case "text":
		return render.Text(doc), nil
	case "json":
		data, err := render.JSON(doc)
		if err != nil {
			return "", fmt.Errorf("encode document: %w", err)
		}
		return string(data), nil
	}
	return "", fmt.Errorf("unknown format %q", cfg.Render.Format)
}
