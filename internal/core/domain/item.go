package domain

import "strings"

// SrcFilter selects source files relative to an optional base directory.
// Target, when set, is prefixed to the base-relative name of every matched file.
type SrcFilter struct {
	Base    string   `json:"base,omitempty"`
	Pattern []string `json:"pattern"`
	Target  string   `json:"target,omitempty"`
}

// SourceSpec is the source side of a build item.
type SourceSpec struct {
	Filters []SrcFilter `json:"filters"`
}

// Literal returns the single source path of a spec made of exactly one plain, non-glob pattern.
func (s SourceSpec) Literal() (string, bool) {
	if len(s.Filters) != 1 {
		return "", false
	}
	f := s.Filters[0]
	if f.Base != "" || f.Target != "" || len(f.Pattern) != 1 {
		return "", false
	}
	p := f.Pattern[0]
	if p == "" || strings.HasPrefix(p, "!") || strings.ContainsAny(p, GlobChars) {
		return "", false
	}
	return p, true
}

// Empty reports whether the spec selects nothing.
func (s SourceSpec) Empty() bool {
	for _, f := range s.Filters {
		if len(f.Pattern) > 0 {
			return false
		}
	}
	return true
}

// Patterns builds a spec from a flat pattern list relative to the build source directory.
func Patterns(patterns ...string) SourceSpec {
	if len(patterns) == 0 {
		return SourceSpec{}
	}
	return SourceSpec{Filters: []SrcFilter{{Pattern: patterns}}}
}

// GlobChars are the characters that turn a pattern into a glob.
const GlobChars = "*?[("

// BuildItem is one source-to-destination mapping of a task.
// Dst is a file name, or a directory when empty or ending with "/".
type BuildItem struct {
	Src               SourceSpec
	Dst               string
	AllowUserOverride bool
}

// FileItem is a concrete source file paired with its destination file.
type FileItem struct {
	SrcFile    string
	DstFile    string
	TargetName string
	// Owner is the name of the task that produces DstFile.
	Owner string
}

// Identity names the item in logs and scheduler results.
func (i FileItem) Identity() string {
	return i.SrcFile
}

// Replacer is a literal text substitution.
// When ToFile is set the replacement text is read from that file.
type Replacer struct {
	From   string `json:"from"`
	To     string `json:"to,omitempty"`
	ToFile string `json:"to_file,omitempty"`
}

// ReplaceItem copies sources to destinations while applying replacers.
type ReplaceItem struct {
	BuildItem
	Replace []Replacer
}

// ConcatItem joins all of its sources, in order, into one destination file.
type ConcatItem struct {
	BuildItem
	Separator string
}

// ManifestItem writes an offline cache manifest listing the destination files it matches.
type ManifestItem struct {
	Dst   string
	Cache []string
}

// BuildSpec is a complete build: global settings plus the items of each task.
type BuildSpec struct {
	Global   GlobalConfig
	Concat   []ConcatItem
	Replace  []ReplaceItem
	Copy     []BuildItem
	Manifest []ManifestItem
	Touch    []string
}

// Empty reports whether the spec configures no task.
func (s BuildSpec) Empty() bool {
	return len(s.Concat) == 0 && len(s.Replace) == 0 && len(s.Copy) == 0 &&
		len(s.Manifest) == 0 && len(s.Touch) == 0
}
