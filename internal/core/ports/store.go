package ports

import "go.trai.ch/kiln/internal/core/domain"

// StateStore persists the build state between runs.
//
//go:generate go run go.uber.org/mock/mockgen -source=store.go -destination=mocks/mock_store.go -package=mocks
type StateStore interface {
	// Load reads the state file at path.
	// Returns nil, nil if the file does not exist.
	Load(path string) (*domain.StateFile, error)

	// Save writes the state file at path, creating parent directories as needed.
	Save(path string, state *domain.StateFile) error
}
