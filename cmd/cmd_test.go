package cmd

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/samsaffron/comark/internal/autoclose"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

// runCLI executes the root command with args and stdin, isolated from the
// user's config directory.
func runCLI(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	resetFlags(rootCmd)

	var out, errOut bytes.Buffer
	rootCmd.SetIn(strings.NewReader(stdin))
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&errOut)
	rootCmd.SetArgs(args)
	t.Cleanup(func() {
		rootCmd.SetIn(nil)
		rootCmd.SetOut(nil)
		rootCmd.SetErr(nil)
		rootCmd.SetArgs(nil)
	})

	err := rootCmd.Execute()
	return out.String(), err
}

func resetFlags(c *cobra.Command) {
	reset := func(f *pflag.Flag) {
		_ = f.Value.Set(f.DefValue)
		f.Changed = false
	}
	c.Flags().VisitAll(reset)
	c.PersistentFlags().VisitAll(reset)
	for _, sub := range c.Commands() {
		resetFlags(sub)
	}
}

func TestCloseCommand(t *testing.T) {
	tests := []struct {
		name  string
		stdin string
		args  []string
		want  string
	}{
		{
			name:  "inline inside component",
			stdin: "::alert\nsay **hi",
			args:  []string{"close"},
			want:  "::alert\nsay **hi**\n::",
		},
		{
			name:  "nested components",
			stdin: ":::parent\n::child",
			args:  []string{"close"},
			want:  ":::parent\n::child\n::\n:::",
		},
		{
			name:  "table from config default",
			stdin: "| a | b",
			args:  []string{"close"},
			want:  "| a | b |\n| --- | --- |",
		},
		{
			name:  "table disabled by flag",
			stdin: "| a | b",
			args:  []string{"close", "--table=false"},
			want:  "| a | b",
		},
		{
			name:  "trailing newline",
			stdin: "**bold\n",
			args:  []string{"close"},
			want:  "**bold**\n",
		},
		{
			name:  "code span before trailing newline",
			stdin: "`code\n",
			args:  []string{"close"},
			want:  "`code`\n",
		},
		{
			name:  "table before trailing newline",
			stdin: "| a | b\n| 1\n",
			args:  []string{"close"},
			want:  "| a | b |\n| --- | --- |\n| 1 |   |\n",
		},
		{
			name:  "balanced input unchanged",
			stdin: "# Done\n\n**bold** and `code`\n",
			args:  []string{"close"},
			want:  "# Done\n\n**bold** and `code`\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := runCLI(t, tt.stdin, tt.args...)
			if err != nil {
				t.Fatalf("close: %v", err)
			}
			if got != tt.want {
				t.Errorf("got=%q, want %q", got, tt.want)
			}
		})
	}
}

func TestCloseCommandReadsFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "draft.md")
	if err := os.WriteFile(path, []byte("some *emphasis"), 0644); err != nil {
		t.Fatal(err)
	}
	got, err := runCLI(t, "", "close", path)
	if err != nil {
		t.Fatalf("close: %v", err)
	}
	if want := "some *emphasis*"; got != want {
		t.Errorf("got=%q, want %q", got, want)
	}

	if _, err := runCLI(t, "", "close", filepath.Join(t.TempDir(), "missing.md")); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestTableCommand(t *testing.T) {
	got, err := runCLI(t, "| Name | Age |\n| --- | --- |\n| Al | 3", "table")
	if err != nil {
		t.Fatalf("table: %v", err)
	}
	want := "| Name | Age |\n| --- | --- |\n| Al   | 3   |"
	if got != want {
		t.Errorf("got=%q, want %q", got, want)
	}
}

func TestDetectCommandJSON(t *testing.T) {
	got, err := runCLI(t, "::alert\nsay **hi", "detect", "--json")
	if err != nil {
		t.Fatalf("detect: %v", err)
	}
	var report autoclose.Report
	if err := json.Unmarshal([]byte(got), &report); err != nil {
		t.Fatalf("decode %q: %v", got, err)
	}
	want := autoclose.Report{
		HasUnclosed:        true,
		UnclosedInline:     []string{autoclose.InlineBold},
		UnclosedComponents: []autoclose.Component{{Depth: 2, Name: "alert"}},
	}
	if diff := cmp.Diff(want, report); diff != "" {
		t.Errorf("report mismatch (-want +got):\n%s", diff)
	}
}

func TestDetectCommandText(t *testing.T) {
	got, err := runCLI(t, "::alert\nsay **hi", "detect")
	if err != nil {
		t.Fatalf("detect: %v", err)
	}
	for _, want := range []string{"Unclosed syntax found", "Inline:", autoclose.InlineBold, "Components:", "alert"} {
		if !strings.Contains(got, want) {
			t.Errorf("output missing %q:\n%s", want, got)
		}
	}

	got, err = runCLI(t, "say **hi\n", "detect")
	if err != nil {
		t.Fatalf("detect: %v", err)
	}
	if !strings.Contains(got, autoclose.InlineBold) {
		t.Errorf("got=%q, want bold reported before a trailing newline", got)
	}

	got, err = runCLI(t, "all **closed**\n", "detect")
	if err != nil {
		t.Fatalf("detect: %v", err)
	}
	if !strings.Contains(got, "No unclosed syntax") {
		t.Errorf("got=%q, want clean report", got)
	}
}

func TestRenderCommand(t *testing.T) {
	tests := []struct {
		name     string
		stdin    string
		args     []string
		contains []string
		excludes []string
	}{
		{
			name:     "html repairs before parsing",
			stdin:    "# Hi\n\nsome **bold",
			args:     []string{"render", "--format", "html"},
			contains: []string{"<h1", "Hi</h1>", "<strong>bold</strong>"},
		},
		{
			name:     "html repairs before a trailing newline",
			stdin:    "some **bold\n",
			args:     []string{"render", "--format", "html"},
			contains: []string{"<strong>bold</strong>"},
		},
		{
			name:     "thematic breaks are not frontmatter",
			stdin:    "---\nHello world\n---\n\ntext",
			args:     []string{"render", "--format", "text"},
			contains: []string{"Hello world", "text"},
		},
		{
			name:     "html sanitized by default",
			stdin:    "<p onclick=\"x()\">hi</p>\n\n<script>alert(1)</script>\n",
			args:     []string{"render", "-f", "html"},
			contains: []string{"hi"},
			excludes: []string{"onclick", "<script"},
		},
		{
			name:     "component rendered as element",
			stdin:    "::alert{type=\"info\"}\nCareful",
			args:     []string{"render", "-f", "html", "--no-sanitize"},
			contains: []string{`<alert type="info">`, "Careful", "</alert>"},
		},
		{
			name:     "text",
			stdin:    "# Title\n\nBody *text",
			args:     []string{"render", "-f", "text"},
			contains: []string{"Title\n\nBody text"},
		},
		{
			name:     "json",
			stdin:    "---\ntitle: Post\n---\n# Heading\n",
			args:     []string{"render", "-f", "json"},
			contains: []string{`"nodes"`, `"frontmatter":{"title":"Post"}`, `"toc"`},
		},
		{
			name:     "terminal",
			stdin:    "# Heading\n\nplain words",
			args:     []string{"render", "-f", "terminal", "--style", "notty", "--width", "40"},
			contains: []string{"Heading", "plain words"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := runCLI(t, tt.stdin, tt.args...)
			if err != nil {
				t.Fatalf("render: %v", err)
			}
			for _, want := range tt.contains {
				if !strings.Contains(got, want) {
					t.Errorf("output missing %q:\n%s", want, got)
				}
			}
			for _, bad := range tt.excludes {
				if strings.Contains(got, bad) {
					t.Errorf("output contains %q:\n%s", bad, got)
				}
			}
		})
	}
}

func TestRenderCommandErrors(t *testing.T) {
	tests := []struct {
		name string
		args []string
	}{
		{"unknown format", []string{"render", "-f", "pdf"}},
		{"negative width", []string{"render", "-w", "-1"}},
		{"unknown style", []string{"render", "-f", "terminal", "--style", "nope"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := runCLI(t, "# hi", tt.args...); err == nil {
				t.Error("expected error")
			}
		})
	}
}

func TestStreamCommandHTML(t *testing.T) {
	got, err := runCLI(t, "Some **bold", "stream", "--format", "html", "--chunk", "2", "--interval", "0s")
	if err != nil {
		t.Fatalf("stream: %v", err)
	}
	if !strings.Contains(got, "<strong>bold</strong>") {
		t.Errorf("got=%q, want final repaired html", got)
	}
	if strings.Count(got, "<p>") != 1 {
		t.Errorf("got=%q, want a single final render off a terminal", got)
	}
}

func TestStreamCommandErrors(t *testing.T) {
	if _, err := runCLI(t, "x", "stream", "--format", "json", "--interval", "0s"); err == nil {
		t.Error("expected error for unsupported stream format")
	}
	if _, err := runCLI(t, "x", "stream", "--chunk", "0"); err == nil {
		t.Error("expected error for zero chunk size")
	}
}

func TestChunkRunes(t *testing.T) {
	tests := []struct {
		s    string
		n    int
		want []string
	}{
		{"", 3, nil},
		{"abcdef", 4, []string{"abcd", "ef"}},
		{"héllo", 2, []string{"hé", "ll", "o"}},
		{"日本語", 1, []string{"日", "本", "語"}},
		{"ab", 0, []string{"a", "b"}},
	}
	for _, tt := range tests {
		got := chunkRunes(tt.s, tt.n)
		if diff := cmp.Diff(tt.want, got); diff != "" {
			t.Errorf("chunkRunes(%q, %d) mismatch (-want +got):\n%s", tt.s, tt.n, diff)
		}
	}
}

func TestConfigCommands(t *testing.T) {
	dir := t.TempDir()
	// runCLI points XDG_CONFIG_HOME at a fresh directory on every call; the
	// init sequence needs one that persists.
	withConfigHome := func(args ...string) (string, error) {
		t.Helper()
		resetFlags(rootCmd)
		t.Setenv("XDG_CONFIG_HOME", dir)
		var out bytes.Buffer
		rootCmd.SetIn(strings.NewReader(""))
		rootCmd.SetOut(&out)
		rootCmd.SetErr(&bytes.Buffer{})
		rootCmd.SetArgs(args)
		err := rootCmd.Execute()
		return out.String(), err
	}
	t.Cleanup(func() {
		rootCmd.SetIn(nil)
		rootCmd.SetOut(nil)
		rootCmd.SetErr(nil)
		rootCmd.SetArgs(nil)
	})

	got, err := runCLI(t, "", "config")
	if err != nil {
		t.Fatalf("config: %v", err)
	}
	for _, want := range []string{"# No config file", "format: terminal", "chunk_size: 8"} {
		if !strings.Contains(got, want) {
			t.Errorf("config output missing %q:\n%s", want, got)
		}
	}

	path := filepath.Join(dir, "comark", "config.yaml")
	got, err = withConfigHome("config", "path")
	if err != nil {
		t.Fatalf("config path: %v", err)
	}
	if strings.TrimSpace(got) != path {
		t.Errorf("config path got=%q, want %q", got, path)
	}

	if _, err := withConfigHome("config", "init"); err != nil {
		t.Fatalf("config init: %v", err)
	}
	if _, err := os.Stat(path); err != nil {
		t.Fatalf("config file not written: %v", err)
	}
	if _, err := withConfigHome("config", "init"); err == nil {
		t.Error("expected error when config exists")
	}
	if _, err := withConfigHome("config", "init", "--force"); err != nil {
		t.Errorf("config init --force: %v", err)
	}

	got, err = withConfigHome("config")
	if err != nil {
		t.Fatalf("config: %v", err)
	}
	if !strings.HasPrefix(got, "# "+path) {
		t.Errorf("config output should name the file, got:\n%s", got)
	}
}

func TestConfigCompletion(t *testing.T) {
	for _, shell := range []string{"bash", "zsh", "fish", "powershell"} {
		got, err := runCLI(t, "", "config", "completion", shell)
		if err != nil {
			t.Fatalf("completion %s: %v", shell, err)
		}
		if !strings.Contains(got, "comark") {
			t.Errorf("completion %s does not mention comark", shell)
		}
	}
	if _, err := runCLI(t, "", "config", "completion", "tcsh"); err == nil {
		t.Error("expected error for unsupported shell")
	}
}
