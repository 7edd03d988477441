package domain

// TaskOutcome is the terminal state of a task run, as reported to telemetry and metrics.
type TaskOutcome string

const (
	// TaskOutcomeBuilt indicates the task regenerated at least one output.
	TaskOutcomeBuilt TaskOutcome = "built"
	// TaskOutcomeCached indicates every output of the task was up to date.
	TaskOutcomeCached TaskOutcome = "cached"
	// TaskOutcomeFailed indicates the task logged at least one error.
	TaskOutcomeFailed TaskOutcome = "failed"
)

// ResolveOutcome derives the outcome of a run from its error count and the number of files built.
func ResolveOutcome(errors, built int) TaskOutcome {
	switch {
	case errors > 0:
		return TaskOutcomeFailed
	case built == 0:
		return TaskOutcomeCached
	default:
		return TaskOutcomeBuilt
	}
}

// LogLevel represents the severity of a log message, mirroring the standard slog levels.
type LogLevel int

const (
	// LogLevelDebug represents debug-level verbosity.
	LogLevelDebug LogLevel = -4
	// LogLevelInfo represents informational verbosity.
	LogLevelInfo LogLevel = 0
	// LogLevelWarn represents warning verbosity.
	LogLevelWarn LogLevel = 4
	// LogLevelError represents error verbosity.
	LogLevelError LogLevel = 8
)

// String returns the string representation of the LogLevel.
func (l LogLevel) String() string {
	switch l {
	case LogLevelDebug:
		return "DEBUG"
	case LogLevelInfo:
		return "INFO"
	case LogLevelWarn:
		return "WARN"
	case LogLevelError:
		return "ERROR"
	default:
		return "INFO"
	}
}
