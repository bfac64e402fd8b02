package cmd

import (
	"fmt"
	"os"

	"golang.org/x/term"

	"github.com/Iron-Ham/tessel/internal/compositor"
	"github.com/Iron-Ham/tessel/internal/config"
	"github.com/Iron-Ham/tessel/internal/logging"
)

// defaultWidth is used when stdout is not a terminal.
const defaultWidth = 100

// runtime bundles what every replaying command needs.
type runtime struct {
	cfg    *config.Config
	opts   compositor.Options
	logger *logging.Logger
}

func loadRuntime() (*runtime, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	opts, err := compositor.OptionsFromConfig(cfg)
	if err != nil {
		return nil, err
	}
	logger, err := logging.NewLoggerWithRotation(cfg.Logging.ResolveDir(), cfg.Logging.Level, logging.RotationConfig{
		MaxSizeMB:  cfg.Logging.MaxSizeMB,
		MaxBackups: cfg.Logging.MaxBackups,
		Compress:   cfg.Logging.Compress,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open log: %w", err)
	}
	return &runtime{cfg: cfg, opts: opts, logger: logger}, nil
}

func (r *runtime) close() {
	_ = r.logger.Close()
}

// terminalWidth returns the width of stdout, or defaultWidth when stdout is
// redirected.
func terminalWidth() int {
	fd := int(os.Stdout.Fd())
	if !term.IsTerminal(fd) {
		return defaultWidth
	}
	width, _, err := term.GetSize(fd)
	if err != nil || width <= 0 {
		return defaultWidth
	}
	return width
}
