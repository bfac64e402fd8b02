package config

import (
	"fmt"
	"slices"
	"strings"

	"github.com/gobwas/glob"
)

// ValidationError represents a single validation failure
type ValidationError struct {
	Field   string // The config field path (e.g., "output.width")
	Value   any    // The invalid value
	Message string // Human-readable error description
}

// Error implements the error interface for ValidationError
func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s (got: %v)", e.Field, e.Message, e.Value)
}

// ValidationErrors is a collection of validation errors
type ValidationErrors []ValidationError

// Error implements the error interface for ValidationErrors
func (e ValidationErrors) Error() string {
	if len(e) == 0 {
		return ""
	}
	if len(e) == 1 {
		return e[0].Error()
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("%d validation errors:\n", len(e)))
	for i, err := range e {
		sb.WriteString(fmt.Sprintf("  %d. %s\n", i+1, err.Error()))
	}
	return sb.String()
}

// ValidLogLevels returns the list of valid log levels
func ValidLogLevels() []string {
	return []string{"debug", "info", "warn", "error"}
}

// ValidLayouts returns the list of valid workspace layouts
func ValidLayouts() []string {
	return []string{"splith", "splitv"}
}

// Validate checks the Config for invalid values and returns all validation errors found
func (c *Config) Validate() []ValidationError {
	var errors []ValidationError

	errors = append(errors, c.validateLogging()...)
	errors = append(errors, c.validateOutput()...)
	errors = append(errors, c.validateSeat()...)
	errors = append(errors, c.validateTree()...)
	errors = append(errors, c.validateReplay()...)

	return errors
}

// validateLogging validates the LoggingConfig
func (c *Config) validateLogging() []ValidationError {
	var errors []ValidationError

	// Validate log level
	if c.Logging.Level != "" && !slices.Contains(ValidLogLevels(), strings.ToLower(c.Logging.Level)) {
		errors = append(errors, ValidationError{
			Field:   "logging.level",
			Value:   c.Logging.Level,
			Message: fmt.Sprintf("must be one of: %s", strings.Join(ValidLogLevels(), ", ")),
		})
	}

	// Max size must be positive
	if c.Logging.MaxSizeMB <= 0 {
		errors = append(errors, ValidationError{
			Field:   "logging.max_size_mb",
			Value:   c.Logging.MaxSizeMB,
			Message: "must be positive",
		})
	}

	// Reasonable upper bound for log file size
	const maxLogSizeMB = 1000 // 1GB
	if c.Logging.MaxSizeMB > maxLogSizeMB {
		errors = append(errors, ValidationError{
			Field:   "logging.max_size_mb",
			Value:   c.Logging.MaxSizeMB,
			Message: fmt.Sprintf("exceeds maximum of %dMB", maxLogSizeMB),
		})
	}

	// Max backups must be non-negative
	if c.Logging.MaxBackups < 0 {
		errors = append(errors, ValidationError{
			Field:   "logging.max_backups",
			Value:   c.Logging.MaxBackups,
			Message: "must be non-negative",
		})
	}

	return errors
}

// validateOutput validates the OutputConfig
func (c *Config) validateOutput() []ValidationError {
	var errors []ValidationError

	const maxDimension = 16384
	dims := []struct {
		field string
		value int
	}{
		{"output.width", c.Output.Width},
		{"output.height", c.Output.Height},
	}
	for _, d := range dims {
		if d.value <= 0 {
			errors = append(errors, ValidationError{
				Field:   d.field,
				Value:   d.value,
				Message: "must be positive",
			})
		} else if d.value > maxDimension {
			errors = append(errors, ValidationError{
				Field:   d.field,
				Value:   d.value,
				Message: fmt.Sprintf("exceeds maximum of %d", maxDimension),
			})
		}
	}

	return errors
}

// validateSeat validates the SeatConfig
func (c *Config) validateSeat() []ValidationError {
	if strings.TrimSpace(c.Seat.Name) == "" {
		return []ValidationError{{
			Field:   "seat.name",
			Value:   c.Seat.Name,
			Message: "must not be empty",
		}}
	}
	return nil
}

// validateTree validates the TreeConfig
func (c *Config) validateTree() []ValidationError {
	var errors []ValidationError

	if strings.TrimSpace(c.Tree.Workspace) == "" {
		errors = append(errors, ValidationError{
			Field:   "tree.workspace",
			Value:   c.Tree.Workspace,
			Message: "must not be empty",
		})
	}

	if !slices.Contains(ValidLayouts(), strings.ToLower(c.Tree.Layout)) {
		errors = append(errors, ValidationError{
			Field:   "tree.layout",
			Value:   c.Tree.Layout,
			Message: fmt.Sprintf("must be one of: %s", strings.Join(ValidLayouts(), ", ")),
		})
	}

	return errors
}

// validateReplay validates the ReplayConfig
func (c *Config) validateReplay() []ValidationError {
	var errors []ValidationError

	if c.Replay.Match == "" {
		errors = append(errors, ValidationError{
			Field:   "replay.match",
			Value:   c.Replay.Match,
			Message: "must not be empty",
		})
	} else if _, err := glob.Compile(c.Replay.Match); err != nil {
		errors = append(errors, ValidationError{
			Field:   "replay.match",
			Value:   c.Replay.Match,
			Message: fmt.Sprintf("invalid glob: %v", err),
		})
	}

	if c.Replay.DebounceMs < 0 {
		errors = append(errors, ValidationError{
			Field:   "replay.debounce_ms",
			Value:   c.Replay.DebounceMs,
			Message: "must be non-negative",
		})
	}

	const maxDebounceMs = 60000
	if c.Replay.DebounceMs > maxDebounceMs {
		errors = append(errors, ValidationError{
			Field:   "replay.debounce_ms",
			Value:   c.Replay.DebounceMs,
			Message: fmt.Sprintf("exceeds maximum of %dms", maxDebounceMs),
		})
	}

	return errors
}
