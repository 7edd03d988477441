package ports

import "go.trai.ch/kiln/internal/core/domain"

// ConfigLoader defines the interface for loading build files.
//
//go:generate mockgen -source=config_loader.go -destination=mocks/mock_config_loader.go -package=mocks
type ConfigLoader interface {
	// Load reads the build file at path and returns one spec per build it declares.
	Load(path string) ([]domain.BuildSpec, error)
}
