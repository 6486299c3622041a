package analyzer

import (
	sitter "github.com/smacker/go-tree-sitter"
)

// IsNested reports whether node sits lexically inside another function or
// method. It scans parent references upward from node (exclusive) to the
// root. The main traversal reaches the same verdict by carrying an
// insideFunction flag down in one pass; this upward scan is for candidates
// reached outside that traversal, and the two must always agree.
func IsNested(node *sitter.Node) bool {
	if node == nil {
		return false
	}
	for parent := node.Parent(); parent != nil; parent = parent.Parent() {
		if isFunctionKind(parent.Type()) {
			return true
		}
	}
	return false
}
