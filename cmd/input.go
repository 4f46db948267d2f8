package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/samsaffron/comark/internal/ast"
	"github.com/samsaffron/comark/internal/config"
	"github.com/samsaffron/comark/internal/parse"
	"github.com/samsaffron/comark/internal/plugins"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

const defaultWidth = 80

// readInput returns the contents of the file named by args[0], or stdin when
// there is no argument or it is "-".
func readInput(cmd *cobra.Command, args []string) (string, error) {
	if len(args) == 0 || args[0] == "-" {
		data, err := io.ReadAll(cmd.InOrStdin())
		if err != nil {
			return "", fmt.Errorf("read stdin: %w", err)
		}
		return string(data), nil
	}
	data, err := os.ReadFile(args[0])
	if err != nil {
		return "", fmt.Errorf("read input: %w", err)
	}
	return string(data), nil
}

// terminalWidth returns the configured width, else the width of stdout when
// it is a terminal, else defaultWidth.
func terminalWidth(configured int) int {
	if configured > 0 {
		return configured
	}
	if w, _, err := term.GetSize(int(os.Stdout.Fd())); err == nil && w > 0 {
		return w
	}
	return defaultWidth
}

// stdoutIsTerminal reports whether out is the process's terminal stdout.
func stdoutIsTerminal(out io.Writer) bool {
	f, ok := out.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

// enabledPlugins builds the plugin pipeline from configuration.
func enabledPlugins(cfg *config.Config) []plugins.Plugin {
	var ps []plugins.Plugin
	if cfg.Plugins.Sanitize.Enabled {
		ps = append(ps, plugins.Sanitize{Forbidden: cfg.Plugins.Sanitize.Forbidden})
	}
	if cfg.Plugins.Emoji {
		ps = append(ps, plugins.Emoji{})
	}
	if cfg.Plugins.Highlight {
		ps = append(ps, plugins.Highlight{})
	}
	if cfg.Plugins.TOC.Enabled {
		ps = append(ps, plugins.TOC{Depth: cfg.Plugins.TOC.Depth})
	}
	if cfg.Plugins.Summary.Enabled {
		ps = append(ps, plugins.Summary{Delimiter: cfg.Plugins.Summary.Delimiter})
	}
	return ps
}

// buildDocument parses already repaired markdown and runs the plugins.
func buildDocument(src string, cfg *config.Config) (*ast.Document, error) {
	doc, err := parse.Parse(src)
	if err != nil {
		return nil, err
	}
	plugins.Apply(doc, enabledPlugins(cfg)...)
	return doc, nil
}
