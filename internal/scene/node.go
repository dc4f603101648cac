// Package scene holds the model graph the viewer animates: groups and parts
// with local transforms, resolved on demand into world space.
package scene

import (
	m "github.com/Faultbox/partview/pkg/math"
)

// Node is either a *Group or a *Part. Callers switch on the concrete type.
type Node interface {
	Name() string
	Parent() *Group
	Local() *Transform
	setParent(g *Group)
}

// Transform is a node's position, rotation and scale relative to its parent.
type Transform struct {
	Position m.Vec3
	Rotation m.Quat
	Scale    m.Vec3
}

// IdentityTransform returns a transform with no effect.
func IdentityTransform() Transform {
	return Transform{Rotation: m.QuatIdentity(), Scale: m.Vec3{X: 1, Y: 1, Z: 1}}
}

// Matrix returns T * R * S.
func (t Transform) Matrix() m.Mat4 {
	return m.Compose(t.Position, t.Rotation, t.Scale)
}

// Group is an interior node that carries a transform and children.
type Group struct {
	name      string
	transform Transform
	parent    *Group
	children  []Node
}

// NewGroup creates an empty group with an identity transform.
func NewGroup(name string) *Group {
	return &Group{name: name, transform: IdentityTransform()}
}

func (g *Group) Name() string { return g.name }
func (g *Group) Parent() *Group { return g.parent }
func (g *Group) Local() *Transform { return &g.transform }
func (g *Group) setParent(p *Group) { g.parent = p }
func (g *Group) Children() []Node { return g.children }
func (g *Group) WorldMatrix() m.Mat4 { return worldMatrix(g) }

// WorldToLocal maps a world point into the group's frame.
func (g *Group) WorldToLocal(p m.Vec3) m.Vec3 {
	return worldMatrix(g).Inverse().TransformPoint(p)
}

// Add attaches children to the group, detaching them from any previous parent.
func (g *Group) Add(children ...Node) {
	for _, c := range children {
		if old := c.Parent(); old != nil {
			old.remove(c)
		}
		c.setParent(g)
		g.children = append(g.children, c)
	}
}

func (g *Group) remove(c Node) {
	for i, n := range g.children {
		if n == c {
			g.children = append(g.children[:i], g.children[i+1:]...)
			return
		}
	}
}

// Part is one rigid mesh unit.
type Part struct {
	ID        string
	name      string
	transform Transform
	parent    *Group

	// LocalBounds is the geometry extent in the part's own frame.
	LocalBounds m.Box3
	Material    *Material
	Visible     bool
	Geometry    *Geometry
}

// NewPart creates a visible part with an identity transform.
func NewPart(id, name string, bounds m.Box3, mat *Material) *Part {
	if mat == nil {
		mat = DefaultMaterial()
	}
	return &Part{
		ID:          id,
		name:        name,
		transform:   IdentityTransform(),
		LocalBounds: bounds,
		Material:    mat,
		Visible:     true,
	}
}

func (p *Part) Name() string { return p.name }
func (p *Part) Parent() *Group { return p.parent }
func (p *Part) Local() *Transform { return &p.transform }
func (p *Part) setParent(g *Group) { p.parent = g }

// Position is the part's local position, the value the explode animator drives.
func (p *Part) Position() m.Vec3 { return p.transform.Position }

// SetPosition moves the part within its parent frame.
func (p *Part) SetPosition(v m.Vec3) { p.transform.Position = v }

// WorldMatrix resolves the part's transform through all ancestors.
func (p *Part) WorldMatrix() m.Mat4 { return worldMatrix(p) }

// LocalToWorld maps a point in the part's frame to world space.
func (p *Part) LocalToWorld(v m.Vec3) m.Vec3 {
	return worldMatrix(p).TransformPoint(v)
}

// WorldToLocal maps a world point into the part's frame.
func (p *Part) WorldToLocal(v m.Vec3) m.Vec3 {
	return worldMatrix(p).Inverse().TransformPoint(v)
}

// WorldBounds returns the world-space box around the part's geometry.
func (p *Part) WorldBounds() m.Box3 {
	return p.LocalBounds.Transform(worldMatrix(p))
}

// ParentWorldToLocal maps a world point into the frame the part's position
// is expressed in. Parts without a parent use world space.
func (p *Part) ParentWorldToLocal(v m.Vec3) m.Vec3 {
	if p.parent == nil {
		return v
	}
	return p.parent.WorldToLocal(v)
}

// worldMatrix composes local matrices from the root down: parent * local.
func worldMatrix(n Node) m.Mat4 {
	local := n.Local().Matrix()
	if p := n.Parent(); p != nil {
		return worldMatrix(p).Mul(local)
	}
	return local
}

// Geometry is optional triangle data kept for rendering and precise picking.
type Geometry struct {
	Positions [][3]float32
	Normals   [][3]float32
	Indices   []uint32
}

// Triangle returns the i-th triangle's corners.
func (g *Geometry) Triangle(i int) (a, b, c m.Vec3) {
	if len(g.Indices) > 0 {
		return m.FromArray(g.Positions[g.Indices[i*3]]),
			m.FromArray(g.Positions[g.Indices[i*3+1]]),
			m.FromArray(g.Positions[g.Indices[i*3+2]])
	}
	return m.FromArray(g.Positions[i*3]), m.FromArray(g.Positions[i*3+1]), m.FromArray(g.Positions[i*3+2])
}

// TriangleCount returns the number of triangles.
func (g *Geometry) TriangleCount() int {
	if len(g.Indices) > 0 {
		return len(g.Indices) / 3
	}
	return len(g.Positions) / 3
}

// Interleaved expands the geometry into unindexed triangles laid out as
// x, y, z, nx, ny, nz per vertex. Stored normals are used when there is one
// per position; otherwise each triangle gets its face normal.
func (g *Geometry) Interleaved() []float32 {
	n := g.TriangleCount()
	out := make([]float32, 0, n*3*6)
	smooth := len(g.Normals) == len(g.Positions)

	vertex := func(i int) int {
		if len(g.Indices) > 0 {
			return int(g.Indices[i])
		}
		return i
	}
	for t := 0; t < n; t++ {
		a, b, c := g.Triangle(t)
		face := b.Sub(a).Cross(c.Sub(a)).Normalize()
		for k := 0; k < 3; k++ {
			idx := vertex(t*3 + k)
			p := g.Positions[idx]
			nrm := face.Array()
			if smooth {
				nrm = g.Normals[idx]
			}
			out = append(out, p[0], p[1], p[2], nrm[0], nrm[1], nrm[2])
		}
	}
	return out
}
