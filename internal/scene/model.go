package scene

import (
	m "github.com/Faultbox/partview/pkg/math"
)

// Model is the root container of parts produced by one asset load.
type Model struct {
	Name string
	Root *Group
}

// NewModel wraps root. A nil root gets an empty group.
func NewModel(name string, root *Group) *Model {
	if root == nil {
		root = NewGroup(name)
	}
	return &Model{Name: name, Root: root}
}

// Walk visits every node depth-first, parents before children.
// Returning false from fn skips that node's children.
func (md *Model) Walk(fn func(Node) bool) {
	walk(md.Root, fn)
}

func walk(n Node, fn func(Node) bool) {
	if !fn(n) {
		return
	}
	if g, ok := n.(*Group); ok {
		for _, c := range g.children {
			walk(c, fn)
		}
	}
}

// Parts returns every part in traversal order.
func (md *Model) Parts() []*Part {
	return PartsUnder(md.Root)
}

// PartByID finds a part by identifier.
func (md *Model) PartByID(id string) *Part {
	var found *Part
	md.Walk(func(n Node) bool {
		if found != nil {
			return false
		}
		if p, ok := n.(*Part); ok && p.ID == id {
			found = p
		}
		return true
	})
	return found
}

// Bounds returns the world-space box around every part.
func (md *Model) Bounds() m.Box3 {
	b := m.EmptyBox()
	for _, p := range md.Parts() {
		b = b.Union(p.WorldBounds())
	}
	return b
}

// Visibility captures each part's visible flag.
func (md *Model) Visibility() map[*Part]bool {
	vis := make(map[*Part]bool)
	for _, p := range md.Parts() {
		vis[p] = p.Visible
	}
	return vis
}

// FirstPart returns the first part under n in traversal order, or nil.
func FirstPart(n Node) *Part {
	var found *Part
	walk(n, func(c Node) bool {
		if found != nil {
			return false
		}
		if p, ok := c.(*Part); ok {
			found = p
			return false
		}
		return true
	})
	return found
}

// PartsUnder returns every part at or below n in traversal order.
func PartsUnder(n Node) []*Part {
	var parts []*Part
	walk(n, func(c Node) bool {
		if p, ok := c.(*Part); ok {
			parts = append(parts, p)
		}
		return true
	})
	return parts
}
