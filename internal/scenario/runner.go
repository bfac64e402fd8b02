package scenario

import (
	"github.com/Iron-Ham/tessel/internal/compositor"
	"github.com/Iron-Ham/tessel/internal/logging"
)

// Report is the outcome of replaying one scenario.
type Report struct {
	Name  string              `json:"name" yaml:"name"`
	Path  string              `json:"path,omitempty" yaml:"path,omitempty"`
	Steps []StepResult        `json:"steps" yaml:"steps"`
	Final compositor.Snapshot `json:"final" yaml:"final"`
}

// Failures returns the number of failed expectations across all steps.
func (r *Report) Failures() int {
	n := 0
	for _, s := range r.Steps {
		n += len(s.Failures)
	}
	return n
}

// Passed reports whether every expectation held.
func (r *Report) Passed() bool {
	return r.Failures() == 0
}

// Runner replays scenarios, each on a fresh compositor.
type Runner struct {
	opts   compositor.Options
	logger *logging.Logger
}

// NewRunner creates a runner that builds compositors from opts.
func NewRunner(opts compositor.Options, logger *logging.Logger) *Runner {
	if logger == nil {
		logger = logging.NopLogger()
	}
	return &Runner{opts: opts, logger: logger}
}

// Run replays every step of s and snapshots the final state. Step errors
// are recorded in the report and do not stop the replay.
func (r *Runner) Run(s *Scenario) *Report {
	sess := NewSession(s, r.opts, r.logger)
	defer sess.Close()

	report := &Report{Name: s.Name, Path: s.Path}
	for {
		res, ok := sess.Step()
		if !ok {
			break
		}
		report.Steps = append(report.Steps, res)
	}
	report.Final = sess.Compositor().Snapshot()

	r.logger.Info("scenario replayed",
		"scenario", s.Name,
		"steps", len(report.Steps),
		"failures", report.Failures())
	return report
}
