package ports

import "iter"

// Entry is a file system entry found below a walk root.
type Entry struct {
	// Path is the absolute path of the entry.
	Path string
	// Rel is the slash-separated path relative to the walk root.
	Rel string
	// Dir reports whether the entry is a directory.
	Dir bool
}

// Walker enumerates a directory tree.
type Walker interface {
	// Walk yields every entry below root in lexical pre-order, excluding root itself.
	// A failure to read a directory is yielded as an error and the walk continues.
	Walk(root string) iter.Seq2[Entry, error]
}
