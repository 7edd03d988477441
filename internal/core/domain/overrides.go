package domain

import (
	"strings"

	"go.trai.ch/zerr"
)

// Overrides are command line settings that take precedence over every build in a build file.
type Overrides struct {
	Rebuild    bool
	Release    *bool
	Flavor     *string
	DiagOutput bool
}

// Apply returns cfg with the overrides applied.
func (o Overrides) Apply(cfg GlobalConfig) GlobalConfig {
	if o.Rebuild {
		cfg.Rebuild = true
	}
	if o.Release != nil {
		release := *o.Release
		cfg.Release = &release
	}
	if o.Flavor != nil {
		flavor := *o.Flavor
		cfg.Flavor = &flavor
	}
	if o.DiagOutput {
		cfg.DiagOutput = true
	}
	return cfg
}

// ParseConfiguration parses a configuration name of the form [<flavor>-]Debug or [<flavor>-]Release.
// hasFlavor is false when the name carries no flavor prefix.
func ParseConfiguration(name string) (flavor string, hasFlavor, release bool, err error) {
	mode := name
	if before, after, found := strings.Cut(name, "-"); found {
		flavor, mode, hasFlavor = before, after, true
	}

	switch mode {
	case "Debug":
		return flavor, hasFlavor, false, nil
	case "Release":
		return flavor, hasFlavor, true, nil
	default:
		return "", false, false, zerr.Wrap(ErrInvalidConfiguration, name)
	}
}
