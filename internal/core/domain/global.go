package domain

const (
	// DefaultStateFileName is the state file name inside the destination directory.
	DefaultStateFileName = ".buildstate"

	// DefaultSourceMapRoot is the URL prefix used for source maps when none is configured.
	DefaultSourceMapRoot = "/sources/"

	// MaxReconcileDeletions is the largest number of stale entries the reconciler deletes in one run.
	MaxReconcileDeletions = 1024

	// DirPerm is the permission used for created directories.
	DirPerm = 0o750

	// FilePerm is the permission used for written files.
	FilePerm = 0o644
)

// GlobalConfig is the user-facing configuration of a build.
// Pointer fields distinguish "unset" from the zero value so defaults can be derived.
type GlobalConfig struct {
	RootPath              string
	SrcPath               string
	DstPath               string
	StateFile             string
	Rebuild               bool
	Release               *bool
	Flavor                *string
	Lint                  *bool
	DiagOutput            bool
	SourceMapPath         string
	SourceMapRoot         string
	SourceMapInlineSource *bool
	Paths                 map[string]string
}

// SourceMap holds the resolved source-map settings of a build.
type SourceMap struct {
	Path         string
	Root         string
	InlineSource bool
}

// GlobalSettings is the persisted snapshot of the options that invalidate every task when changed.
type GlobalSettings struct {
	Release       bool   `json:"release"`
	Flavor        string `json:"flavor"`
	Lint          bool   `json:"lint"`
	SourceMapPath string `json:"sourcemap_path,omitempty"`
	SourceMapRoot string `json:"sourcemap_root,omitempty"`
}

// Diff returns the JSON names of the settings that differ between s and other.
func (s GlobalSettings) Diff(other GlobalSettings) []string {
	var changed []string
	if s.Release != other.Release {
		changed = append(changed, "release")
	}
	if s.Flavor != other.Flavor {
		changed = append(changed, "flavor")
	}
	if s.Lint != other.Lint {
		changed = append(changed, "lint")
	}
	if s.SourceMapPath != other.SourceMapPath {
		changed = append(changed, "sourcemap_path")
	}
	if s.SourceMapRoot != other.SourceMapRoot {
		changed = append(changed, "sourcemap_root")
	}
	return changed
}
