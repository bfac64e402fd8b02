package config

import (
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config represents the complete tessel configuration
type Config struct {
	Logging LoggingConfig `mapstructure:"logging" yaml:"logging"`
	Output  OutputConfig  `mapstructure:"output" yaml:"output"`
	Seat    SeatConfig    `mapstructure:"seat" yaml:"seat"`
	Shell   ShellConfig   `mapstructure:"shell" yaml:"shell"`
	Tree    TreeConfig    `mapstructure:"tree" yaml:"tree"`
	Replay  ReplayConfig  `mapstructure:"replay" yaml:"replay"`
}

// LoggingConfig controls debug logging behavior
type LoggingConfig struct {
	// Level is the minimum log level: "debug", "info", "warn" or "error" (default: "info")
	Level string `mapstructure:"level" yaml:"level"`
	// Dir is where debug.log is written. Empty logs to stderr.
	// A leading ~ expands to the home directory.
	Dir string `mapstructure:"dir" yaml:"dir"`
	// MaxSizeMB is the size at which the log file is rotated (default: 10)
	MaxSizeMB int `mapstructure:"max_size_mb" yaml:"max_size_mb"`
	// MaxBackups is how many rotated files to keep (default: 3)
	MaxBackups int `mapstructure:"max_backups" yaml:"max_backups"`
	// Compress gzips rotated files (default: false)
	Compress bool `mapstructure:"compress" yaml:"compress"`
}

// OutputConfig describes the simulated output the tree is laid out on
type OutputConfig struct {
	Width  int `mapstructure:"width" yaml:"width"`
	Height int `mapstructure:"height" yaml:"height"`
}

// SeatConfig names the input seat
type SeatConfig struct {
	Name string `mapstructure:"name" yaml:"name"`
}

// ShellConfig controls what the shell does when it adopts a new surface
type ShellConfig struct {
	// MaximizeOnCreate asks new toplevels to maximize (default: true)
	MaximizeOnCreate bool `mapstructure:"maximize_on_create" yaml:"maximize_on_create"`
	// PingOnCreate sends a liveness ping to new toplevels (default: true)
	PingOnCreate bool `mapstructure:"ping_on_create" yaml:"ping_on_create"`
}

// TreeConfig controls the initial window tree
type TreeConfig struct {
	// Workspace is the name of the default workspace (default: "1")
	Workspace string `mapstructure:"workspace" yaml:"workspace"`
	// Layout is the default workspace layout: "splith" or "splitv" (default: "splith")
	Layout string `mapstructure:"layout" yaml:"layout"`
}

// ReplayConfig controls the scenario replay command
type ReplayConfig struct {
	// Match is the glob used to pick scenario files inside directories (default: "*.yaml")
	Match string `mapstructure:"match" yaml:"match"`
	// DebounceMs coalesces file change bursts in watch mode (default: 200)
	DebounceMs int `mapstructure:"debounce_ms" yaml:"debounce_ms"`
}

// Debounce returns the watch debounce as a time.Duration
func (c *ReplayConfig) Debounce() time.Duration {
	return time.Duration(c.DebounceMs) * time.Millisecond
}

// ResolveDir returns the log directory with ~ expanded. An empty Dir stays empty.
func (c *LoggingConfig) ResolveDir() string {
	path := c.Dir
	if path == "~" || strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err == nil {
			path = filepath.Join(home, strings.TrimPrefix(path[1:], "/"))
		}
	}
	return path
}

// Default returns a Config with sensible default values
func Default() *Config {
	return &Config{
		Logging: LoggingConfig{
			Level:      "info",
			Dir:        "",
			MaxSizeMB:  10,
			MaxBackups: 3,
			Compress:   false,
		},
		Output: OutputConfig{
			Width:  1920,
			Height: 1080,
		},
		Seat: SeatConfig{
			Name: "seat0",
		},
		Shell: ShellConfig{
			MaximizeOnCreate: true,
			PingOnCreate:     true,
		},
		Tree: TreeConfig{
			Workspace: "1",
			Layout:    "splith",
		},
		Replay: ReplayConfig{
			Match:      "*.yaml",
			DebounceMs: 200,
		},
	}
}

// SetDefaults registers default values with viper
func SetDefaults() {
	defaults := Default()

	// Logging defaults
	viper.SetDefault("logging.level", defaults.Logging.Level)
	viper.SetDefault("logging.dir", defaults.Logging.Dir)
	viper.SetDefault("logging.max_size_mb", defaults.Logging.MaxSizeMB)
	viper.SetDefault("logging.max_backups", defaults.Logging.MaxBackups)
	viper.SetDefault("logging.compress", defaults.Logging.Compress)

	// Output defaults
	viper.SetDefault("output.width", defaults.Output.Width)
	viper.SetDefault("output.height", defaults.Output.Height)

	// Seat defaults
	viper.SetDefault("seat.name", defaults.Seat.Name)

	// Shell defaults
	viper.SetDefault("shell.maximize_on_create", defaults.Shell.MaximizeOnCreate)
	viper.SetDefault("shell.ping_on_create", defaults.Shell.PingOnCreate)

	// Tree defaults
	viper.SetDefault("tree.workspace", defaults.Tree.Workspace)
	viper.SetDefault("tree.layout", defaults.Tree.Layout)

	// Replay defaults
	viper.SetDefault("replay.match", defaults.Replay.Match)
	viper.SetDefault("replay.debounce_ms", defaults.Replay.DebounceMs)
}

// Load reads the configuration from viper and validates it
func Load() (*Config, error) {
	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, err
	}

	// Validate the configuration
	if errs := cfg.Validate(); len(errs) > 0 {
		return nil, ValidationErrors(errs)
	}

	return &cfg, nil
}

// Get returns the current configuration, falling back to defaults if it
// cannot be loaded
func Get() *Config {
	cfg, err := Load()
	if err != nil {
		// Fall back to defaults if unmarshaling fails
		return Default()
	}
	return cfg
}

// ConfigDir returns the directory holding the config file
func ConfigDir() string {
	// Check XDG_CONFIG_HOME first
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "tessel")
	}
	// Fall back to ~/.config/tessel
	home, err := os.UserHomeDir()
	if err != nil {
		return ".tessel"
	}
	return filepath.Join(home, ".config", "tessel")
}

// ConfigFile returns the path of the config file
func ConfigFile() string {
	return filepath.Join(ConfigDir(), "config.yaml")
}
