// Package clueset collects the clues found during an exploration in lexicographic order.
package clueset

import (
	"iter"
	"strings"
)

type node struct {
	text  string
	left  *node
	right *node
}

// insert adds text below n and returns the new subtree root. Equal texts are already present and are ignored.
func (n *node) insert(text string) (*node, bool) {
	if n == nil {
		return &node{text: text, left: nil, right: nil}, true
	}
	var added bool
	switch cmp := strings.Compare(text, n.text); {
	case cmp < 0:
		n.left, added = n.left.insert(text)
	case cmp > 0:
		n.right, added = n.right.insert(text)
	}
	return n, added
}

func (n *node) contains(text string) bool {
	for n != nil {
		switch cmp := strings.Compare(text, n.text); {
		case cmp == 0:
			return true
		case cmp < 0:
			n = n.left
		default:
			n = n.right
		}
	}
	return false
}

// inOrder yields the subtree in ascending order and reports whether iteration should continue.
func (n *node) inOrder(yield func(string) bool) bool {
	if n == nil {
		return true
	}
	return n.left.inOrder(yield) && yield(n.text) && n.right.inOrder(yield)
}

// Set is an unbalanced binary search tree of clue texts. The zero value is an empty set.
//
// Clue counts per session are small so the worst case linear depth is accepted.
type Set struct {
	root *node
	size int
}

func New() *Set {
	return &Set{root: nil, size: 0}
}

// Insert adds text to the set and reports whether it was added. Empty and already present texts leave the set
// unchanged.
func (s *Set) Insert(text string) bool {
	if text == "" {
		return false
	}
	var added bool
	s.root, added = s.root.insert(text)
	if added {
		s.size++
	}
	return added
}

func (s *Set) Contains(text string) bool {
	return s.root.contains(text)
}

func (s *Set) Len() int {
	return s.size
}

// All returns the clues in ascending byte-wise order. The sequence can be iterated any number of times.
func (s *Set) All() iter.Seq[string] {
	return func(yield func(string) bool) {
		s.root.inOrder(yield)
	}
}
