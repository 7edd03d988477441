package config

import (
	"go.trai.ch/kiln/internal/core/domain"
	"go.trai.ch/zerr"
	"gopkg.in/yaml.v3"
)

// Buildfile is one document of a kiln.yaml build file.
type Buildfile struct {
	Global   GlobalDTO     `yaml:"global"`
	Concat   []ConcatDTO   `yaml:"concat"`
	Replace  []ReplaceDTO  `yaml:"replace"`
	Copy     []ItemDTO     `yaml:"copy"`
	Manifest []ManifestDTO `yaml:"manifest"`
	Touch    StringList    `yaml:"touch"`
}

// GlobalDTO represents the global section of a build.
type GlobalDTO struct {
	RootPath           string            `yaml:"root_path"`
	SrcPath            string            `yaml:"src_path"`
	DstPath            string            `yaml:"dst_path"`
	StateFile          string            `yaml:"state_file"`
	Rebuild            bool              `yaml:"rebuild"`
	Release            *bool             `yaml:"release"`
	Flavor             *string           `yaml:"flavor"`
	Lint               *bool             `yaml:"lint"`
	DiagOutput         bool              `yaml:"diagoutput"`
	Paths              map[string]string `yaml:"paths"`
	SourceMapPath      string            `yaml:"sourcemap_path"`
	SourceMapRoot      string            `yaml:"sourcemap_root"`
	SourceMapInlineSrc *bool             `yaml:"sourcemap_inlinesrc"`
}

// ItemDTO represents a source to destination mapping.
type ItemDTO struct {
	Src               SrcDTO `yaml:"src"`
	Dst               string `yaml:"dst"`
	AllowUserOverride bool   `yaml:"allow_user_override"`
}

// ReplaceDTO represents a replace item.
type ReplaceDTO struct {
	ItemDTO `yaml:",inline"`

	Replace []ReplacerDTO `yaml:"replace"`
}

// ReplacerDTO represents one substitution.
type ReplacerDTO struct {
	From   string `yaml:"from"`
	To     string `yaml:"to"`
	ToFile string `yaml:"to_file"`
}

// ConcatDTO represents a concat item.
type ConcatDTO struct {
	ItemDTO `yaml:",inline"`

	Separator string `yaml:"separator"`
}

// ManifestDTO represents an offline cache manifest.
type ManifestDTO struct {
	Dst   string     `yaml:"dst"`
	Cache StringList `yaml:"cache"`
}

// StringList accepts either a single string or a list of strings.
type StringList []string

// UnmarshalYAML implements yaml.Unmarshaler.
func (s *StringList) UnmarshalYAML(node *yaml.Node) error {
	switch node.Kind {
	case yaml.ScalarNode:
		*s = StringList{node.Value}
		return nil
	case yaml.SequenceNode:
		var list []string
		if err := node.Decode(&list); err != nil {
			return err
		}
		*s = list
		return nil
	default:
		return zerr.With(zerr.Wrap(domain.ErrInvalidConfig, "expected a string or a list of strings"), "line", node.Line)
	}
}

// FilterDTO selects files below an optional base directory.
type FilterDTO struct {
	Base    string     `yaml:"base"`
	Pattern StringList `yaml:"pattern"`
	Target  string     `yaml:"target"`
}

// SrcDTO accepts a pattern, a list of patterns, a filter or a list of filters.
type SrcDTO struct {
	Filters []FilterDTO
}

// UnmarshalYAML implements yaml.Unmarshaler.
func (s *SrcDTO) UnmarshalYAML(node *yaml.Node) error {
	switch node.Kind {
	case yaml.ScalarNode:
		s.Filters = []FilterDTO{{Pattern: StringList{node.Value}}}
		return nil
	case yaml.MappingNode:
		var f FilterDTO
		if err := node.Decode(&f); err != nil {
			return err
		}
		s.Filters = []FilterDTO{f}
		return nil
	case yaml.SequenceNode:
		return s.decodeSequence(node)
	default:
		return invalidSrc(node)
	}
}

func (s *SrcDTO) decodeSequence(node *yaml.Node) error {
	var patterns StringList
	var filters []FilterDTO
	for _, child := range node.Content {
		switch child.Kind {
		case yaml.ScalarNode:
			patterns = append(patterns, child.Value)
		case yaml.MappingNode:
			var f FilterDTO
			if err := child.Decode(&f); err != nil {
				return err
			}
			filters = append(filters, f)
		default:
			return invalidSrc(child)
		}
	}

	switch {
	case len(patterns) > 0 && len(filters) > 0:
		return invalidSrc(node)
	case len(patterns) > 0:
		s.Filters = []FilterDTO{{Pattern: patterns}}
	default:
		s.Filters = filters
	}
	return nil
}

func invalidSrc(node *yaml.Node) error {
	return zerr.With(zerr.Wrap(domain.ErrInvalidConfig, "invalid src"), "line", node.Line)
}
