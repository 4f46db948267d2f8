package config

import (
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Render  RenderConfig  `mapstructure:"render"`
	Close   CloseConfig   `mapstructure:"close"`
	Plugins PluginsConfig `mapstructure:"plugins"`
	Stream  StreamConfig  `mapstructure:"stream"`
}

// RenderConfig controls the render command and the stream output format.
type RenderConfig struct {
	Format   string `mapstructure:"format"`   // html, text, json or terminal
	Width    int    `mapstructure:"width"`    // terminal word wrap, 0 detects the terminal
	Style    string `mapstructure:"style"`    // glamour style name
	Sanitize bool   `mapstructure:"sanitize"` // run HTML output through the UGC policy
}

type CloseConfig struct {
	Tables bool `mapstructure:"tables"` // also complete the last table
}

type PluginsConfig struct {
	TOC       TOCConfig      `mapstructure:"toc"`
	Summary   SummaryConfig  `mapstructure:"summary"`
	Emoji     bool           `mapstructure:"emoji"`
	Highlight bool           `mapstructure:"highlight"`
	Sanitize  SanitizeConfig `mapstructure:"sanitize"`
}

type TOCConfig struct {
	Enabled bool `mapstructure:"enabled"`
	Depth   int  `mapstructure:"depth"` // deepest heading level listed, 2-6
}

type SummaryConfig struct {
	Enabled   bool   `mapstructure:"enabled"`
	Delimiter string `mapstructure:"delimiter"` // comment text ending the summary
}

type SanitizeConfig struct {
	Enabled   bool     `mapstructure:"enabled"`
	Forbidden []string `mapstructure:"forbidden"` // empty uses the built-in list
}

// StreamConfig paces the stream command when it replays a file.
type StreamConfig struct {
	ChunkSize int           `mapstructure:"chunk_size"`
	Interval  time.Duration `mapstructure:"interval"`
}

var formats = []string{"html", "text", "json", "terminal"}

// Load reads config.yaml from the config directory or the working directory.
// A missing file is not an error.
func Load() (*Config, error) {
	configPath, err := GetConfigDir()
	if err != nil {
		return nil, fmt.Errorf("failed to get config dir: %w", err)
	}
	return LoadFrom(configPath, ".")
}

// LoadFrom is Load with explicit search directories.
func LoadFrom(dirs ...string) (*Config, error) {
	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	for _, dir := range dirs {
		v.AddConfigPath(dir)
	}
	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	cfg.Render.Style = expandEnv(cfg.Render.Style)
	cfg.Plugins.Summary.Delimiter = expandEnv(cfg.Plugins.Summary.Delimiter)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("render.format", "terminal")
	v.SetDefault("render.width", 0)
	v.SetDefault("render.style", "dark")
	v.SetDefault("render.sanitize", true)
	v.SetDefault("close.tables", true)
	v.SetDefault("plugins.toc.enabled", true)
	v.SetDefault("plugins.toc.depth", 3)
	v.SetDefault("plugins.summary.enabled", true)
	v.SetDefault("plugins.summary.delimiter", "more")
	v.SetDefault("plugins.emoji", true)
	v.SetDefault("plugins.highlight", true)
	v.SetDefault("plugins.sanitize.enabled", true)
	v.SetDefault("plugins.sanitize.forbidden", []string{})
	v.SetDefault("stream.chunk_size", 8)
	v.SetDefault("stream.interval", 20*time.Millisecond)
}

// Validate reports the first invalid setting.
func (c *Config) Validate() error {
	if !slices.Contains(formats, c.Render.Format) {
		return fmt.Errorf("render.format %q: must be one of %s", c.Render.Format, strings.Join(formats, ", "))
	}
	if c.Render.Width < 0 {
		return fmt.Errorf("render.width %d: must not be negative", c.Render.Width)
	}
	if d := c.Plugins.TOC.Depth; d < 2 || d > 6 {
		return fmt.Errorf("plugins.toc.depth %d: must be between 2 and 6", d)
	}
	if c.Stream.ChunkSize <= 0 {
		return fmt.Errorf("stream.chunk_size %d: must be positive", c.Stream.ChunkSize)
	}
	if c.Stream.Interval < 0 {
		return fmt.Errorf("stream.interval %s: must not be negative", c.Stream.Interval)
	}
	return nil
}

// expandEnv expands ${VAR} or $VAR in a string
func expandEnv(s string) string {
	if strings.HasPrefix(s, "${") && strings.HasSuffix(s, "}") {
		return os.Getenv(s[2 : len(s)-1])
	}
	if strings.HasPrefix(s, "$") {
		return os.Getenv(s[1:])
	}
	return s
}

// GetConfigDir returns the XDG config directory for comark.
// Uses $XDG_CONFIG_HOME if set, otherwise ~/.config
func GetConfigDir() (string, error) {
	if xdgHome := os.Getenv("XDG_CONFIG_HOME"); xdgHome != "" {
		return filepath.Join(xdgHome, "comark"), nil
	}
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(homeDir, ".config", "comark"), nil
}

// GetConfigPath returns the path where the config file should be located
func GetConfigPath() (string, error) {
	configDir, err := GetConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(configDir, "config.yaml"), nil
}

// Exists returns true if a config file exists
func Exists() bool {
	path, err := GetConfigPath()
	if err != nil {
		return false
	}
	_, err = os.Stat(path)
	return err == nil
}

// Save writes cfg to the config path as commented YAML.
func Save(cfg *Config) error {
	path, err := GetConfigPath()
	if err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	return os.WriteFile(path, []byte(cfg.YAML()), 0600)
}

// YAML formats the configuration as the commented file Save writes.
func (cfg *Config) YAML() string {
	forbidden := "[]"
	if len(cfg.Plugins.Sanitize.Forbidden) > 0 {
		forbidden = "[" + strings.Join(cfg.Plugins.Sanitize.Forbidden, ", ") + "]"
	}

	return fmt.Sprintf(`render:
  format: %s # html, text, json or terminal
  width: %d # 0 uses the terminal width
  style: %s
  sanitize: %t

close:
  # complete the last markdown table while streaming
  tables: %t

plugins:
  toc:
    enabled: %t
    depth: %d
  summary:
    enabled: %t
    delimiter: %s
  emoji: %t
  highlight: %t
  sanitize:
    enabled: %t
    # empty uses the built-in list (script, style, iframe, ...)
    forbidden: %s

stream:
  chunk_size: %d
  interval: %s
`,
		cfg.Render.Format, cfg.Render.Width, cfg.Render.Style, cfg.Render.Sanitize,
		cfg.Close.Tables,
		cfg.Plugins.TOC.Enabled, cfg.Plugins.TOC.Depth,
		cfg.Plugins.Summary.Enabled, cfg.Plugins.Summary.Delimiter,
		cfg.Plugins.Emoji, cfg.Plugins.Highlight,
		cfg.Plugins.Sanitize.Enabled, forbidden,
		cfg.Stream.ChunkSize, cfg.Stream.Interval,
	)
}
