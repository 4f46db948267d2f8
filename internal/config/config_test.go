package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
)

func defaults() Config {
	return Config{
		Render: RenderConfig{Format: "terminal", Style: "dark", Sanitize: true},
		Close:  CloseConfig{Tables: true},
		Plugins: PluginsConfig{
			TOC:       TOCConfig{Enabled: true, Depth: 3},
			Summary:   SummaryConfig{Enabled: true, Delimiter: "more"},
			Emoji:     true,
			Highlight: true,
			Sanitize:  SanitizeConfig{Enabled: true, Forbidden: []string{}},
		},
		Stream: StreamConfig{ChunkSize: 8, Interval: 20 * time.Millisecond},
	}
}

func TestLoadDefaults(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())

	cfg, err := LoadFrom(t.TempDir())
	if err != nil {
		t.Fatalf("LoadFrom: %v", err)
	}
	if diff := cmp.Diff(defaults(), *cfg, cmpopts.EquateEmpty()); diff != "" {
		t.Fatalf("defaults mismatch (-want +got):\n%s", diff)
	}
}

func TestLoadFile(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("COMARK_TEST_STYLE", "light")
	content := `render:
  format: html
  width: 100
  style: ${COMARK_TEST_STYLE}
plugins:
  toc:
    depth: 4
  sanitize:
    forbidden: [script, blink]
stream:
  interval: 5ms
`
	if err := os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(content), 0600); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadFrom(dir)
	if err != nil {
		t.Fatalf("LoadFrom: %v", err)
	}

	want := defaults()
	want.Render.Format = "html"
	want.Render.Width = 100
	want.Render.Style = "light"
	want.Plugins.TOC.Depth = 4
	want.Plugins.Sanitize.Forbidden = []string{"script", "blink"}
	want.Stream.Interval = 5 * time.Millisecond
	if diff := cmp.Diff(want, *cfg, cmpopts.EquateEmpty()); diff != "" {
		t.Fatalf("config mismatch (-want +got):\n%s", diff)
	}
}

func TestLoadRejectsInvalidValues(t *testing.T) {
	tests := []struct {
		name    string
		content string
		wantErr string
	}{
		{"format", "render:\n  format: pdf\n", "render.format"},
		{"depth", "plugins:\n  toc:\n    depth: 9\n", "plugins.toc.depth"},
		{"chunk", "stream:\n  chunk_size: 0\n", "stream.chunk_size"},
		{"yaml", "render: [\n", "failed to read config"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := t.TempDir()
			if err := os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(tt.content), 0600); err != nil {
				t.Fatal(err)
			}
			_, err := LoadFrom(dir)
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Fatalf("err=%v, want one mentioning %q", err, tt.wantErr)
			}
		})
	}
}

func TestSaveRoundTrip(t *testing.T) {
	home := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", home)

	cfg := defaults()
	cfg.Render.Format = "json"
	cfg.Plugins.Sanitize.Forbidden = []string{"script", "iframe"}
	if err := Save(&cfg); err != nil {
		t.Fatalf("Save: %v", err)
	}
	if !Exists() {
		t.Fatal("Exists()=false after Save")
	}

	path, err := GetConfigPath()
	if err != nil {
		t.Fatal(err)
	}
	if want := filepath.Join(home, "comark", "config.yaml"); path != want {
		t.Fatalf("path=%q, want %q", path, want)
	}

	loaded, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if diff := cmp.Diff(cfg, *loaded, cmpopts.EquateEmpty()); diff != "" {
		t.Fatalf("round trip mismatch (-want +got):\n%s", diff)
	}
}

func TestExpandEnv(t *testing.T) {
	t.Setenv("COMARK_X", "value")
	tests := []struct {
		in, want string
	}{
		{"${COMARK_X}", "value"},
		{"$COMARK_X", "value"},
		{"plain", "plain"},
		{"", ""},
	}
	for _, tt := range tests {
		if got := expandEnv(tt.in); got != tt.want {
			t.Errorf("expandEnv(%q)=%q, want %q", tt.in, got, tt.want)
		}
	}
}
