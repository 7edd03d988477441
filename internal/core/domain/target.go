package domain

import (
	"strings"

	"go.trai.ch/zerr"
)

// TargetNode is a node of the tree of outputs declared live during a run.
// A node is either a file leaf or a directory with named children.
type TargetNode struct {
	children map[string]*TargetNode
	file     bool
}

// NewTargetTree returns an empty directory node to be used as the tree root.
func NewTargetTree() *TargetNode {
	return &TargetNode{children: make(map[string]*TargetNode)}
}

// IsFile reports whether the node is a file leaf.
func (n *TargetNode) IsFile() bool {
	return n != nil && n.file
}

// IsDir reports whether the node is a directory.
func (n *TargetNode) IsDir() bool {
	return n != nil && !n.file
}

// Define declares the file addressed by segments as live, creating directories on the way.
// It fails when the file is already declared, when a directory exists at its place,
// or when one of the intermediate segments is a declared file.
func (n *TargetNode) Define(segments []string) error {
	if len(segments) == 0 {
		return zerr.Wrap(ErrDuplicateTarget, "empty path")
	}

	node := n
	for i, seg := range segments {
		child, ok := node.children[seg]
		last := i == len(segments)-1
		switch {
		case last && ok:
			return zerr.Wrap(ErrDuplicateTarget, strings.Join(segments, "/"))
		case last:
			node.children[seg] = &TargetNode{file: true}
		case !ok:
			child = NewTargetTree()
			node.children[seg] = child
			node = child
		case child.file:
			return zerr.Wrap(ErrDuplicateTarget, strings.Join(segments[:i+1], "/"))
		default:
			node = child
		}
	}
	return nil
}

// Lookup returns the node addressed by segments, or nil when it is not declared.
// Descending through a file leaf yields nil.
func (n *TargetNode) Lookup(segments []string) *TargetNode {
	node := n
	for _, seg := range segments {
		if node == nil || node.file {
			return nil
		}
		node = node.children[seg]
	}
	return node
}

// Len returns the number of file leaves below n.
func (n *TargetNode) Len() int {
	if n == nil {
		return 0
	}
	if n.file {
		return 1
	}
	total := 0
	for _, c := range n.children {
		total += c.Len()
	}
	return total
}
