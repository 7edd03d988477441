package ports

import (
	"context"
	"iter"
)

// WatchOp is the kind of change reported by a Watcher.
type WatchOp int

const (
	// OpWrite is a content change.
	OpWrite WatchOp = iota
	// OpCreate is a new file or directory.
	OpCreate
	// OpRemove is a deleted file or directory.
	OpRemove
	// OpRename is a moved file or directory.
	OpRename
)

// WatchEvent is a change below a watched root.
type WatchEvent struct {
	Path      string
	Operation WatchOp
}

// Watcher reports file system changes below a root directory.
//
//go:generate mockgen -source=watcher.go -destination=mocks/mock_watcher.go -package=mocks
type Watcher interface {
	Start(ctx context.Context, root string) error
	Stop() error
	Events() iter.Seq[WatchEvent]
}
