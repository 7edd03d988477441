package domain

import "go.trai.ch/zerr"

var (
	// ErrMissingDstPath is returned when a build is configured without a destination directory.
	ErrMissingDstPath = zerr.New("missing destination path")

	// ErrInvalidConfig is returned when a build item cannot be interpreted.
	ErrInvalidConfig = zerr.New("invalid build configuration")

	// ErrUnknownAlias is returned when a $alias path references an undeclared alias.
	ErrUnknownAlias = zerr.New("unknown path alias")

	// ErrDuplicateTarget is returned when an output path is declared twice in one run,
	// or when a declared file is later addressed as a directory.
	ErrDuplicateTarget = zerr.New("target already defined")

	// ErrSourceOutsideBase is returned when a source resolves outside of its filter base directory.
	ErrSourceOutsideBase = zerr.New("source file outside of base directory")

	// ErrInvalidGlob is returned when a glob pattern cannot be parsed.
	ErrInvalidGlob = zerr.New("invalid glob pattern")

	// ErrTooManyDeletions is returned when reconciling the output tree would delete too many entries.
	ErrTooManyDeletions = zerr.New("too many files to cleanup")

	// ErrStateRead is returned when the state file exists but cannot be read.
	ErrStateRead = zerr.New("failed to read state file")

	// ErrStateUnmarshal is returned when the state file cannot be decoded.
	ErrStateUnmarshal = zerr.New("failed to unmarshal state file")

	// ErrStateMarshal is returned when the state cannot be encoded.
	ErrStateMarshal = zerr.New("failed to marshal state file")

	// ErrStateWrite is returned when the state file cannot be written.
	ErrStateWrite = zerr.New("failed to write state file")

	// ErrBuildFailed is returned when a build finished with one or more logged errors.
	ErrBuildFailed = zerr.New("build failed")

	// ErrConfigNotFound is returned when the build file does not exist.
	ErrConfigNotFound = zerr.New("build file not found")

	// ErrConfigRead is returned when the build file cannot be read or parsed.
	ErrConfigRead = zerr.New("failed to read build file")

	// ErrInvalidConfiguration is returned when a --configuration value is not <Flavor->Debug|Release.
	ErrInvalidConfiguration = zerr.New("invalid configuration name")
)
