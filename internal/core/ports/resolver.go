package ports

// Resolver expands source patterns into concrete files.
//
//go:generate mockgen -destination=mocks/mock_resolver.go -package=mocks -source=resolver.go
type Resolver interface {
	// Glob resolves patterns relative to cwd into a sorted, de-duplicated list of absolute regular files.
	// Patterns starting with "!" remove previously matched files.
	Glob(cwd string, patterns []string) ([]string, error)
}
