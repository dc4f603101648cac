package assets

import (
	"fmt"

	"github.com/qmuntal/gltf"
	"github.com/qmuntal/gltf/modeler"

	"github.com/Faultbox/partview/internal/scene"
	m "github.com/Faultbox/partview/pkg/math"
)

// Options tune decoding.
type Options struct {
	// Geometry keeps triangle data on every part for rendering and precise
	// picking. Without it parts carry bounds only.
	Geometry bool
	// Manager, when set, serves parsed documents from its cache.
	Manager *Manager
}

type decoder struct {
	doc     *gltf.Document
	opts    Options
	ids     map[string]int
	visited map[int]bool
	parts   int
}

// Decode builds a model from the document's default scene, or scene 0 when
// none is marked default.
func Decode(doc *gltf.Document, name string, opts Options) (*scene.Model, error) {
	if doc == nil || len(doc.Scenes) == 0 {
		return nil, ErrNoScene
	}
	idx := 0
	if doc.Scene != nil {
		idx = int(*doc.Scene)
	}
	if idx < 0 || idx >= len(doc.Scenes) {
		return nil, fmt.Errorf("%w: scene %d of %d", ErrNoScene, idx, len(doc.Scenes))
	}

	d := &decoder{doc: doc, opts: opts, ids: make(map[string]int), visited: make(map[int]bool)}
	root := scene.NewGroup(name)
	for _, n := range doc.Scenes[idx].Nodes {
		child, err := d.node(int(n))
		if err != nil {
			return nil, err
		}
		if child != nil {
			root.Add(child)
		}
	}
	if d.parts == 0 {
		return nil, ErrNoParts
	}
	return scene.NewModel(name, root), nil
}

func (d *decoder) node(idx int) (scene.Node, error) {
	if idx < 0 || idx >= len(d.doc.Nodes) {
		return nil, fmt.Errorf("assets: node index %d out of range", idx)
	}
	if d.visited[idx] {
		return nil, fmt.Errorf("assets: node %d appears twice in the hierarchy", idx)
	}
	d.visited[idx] = true

	n := d.doc.Nodes[idx]
	tr := nodeTransform(n)

	var part *scene.Part
	if n.Mesh != nil {
		p, err := d.part(n, int(*n.Mesh))
		if err != nil {
			return nil, err
		}
		part = p
	}

	if len(n.Children) == 0 && part != nil {
		*part.Local() = tr
		return part, nil
	}

	g := scene.NewGroup(n.Name)
	*g.Local() = tr
	if part != nil {
		g.Add(part)
	}
	for _, c := range n.Children {
		child, err := d.node(int(c))
		if err != nil {
			return nil, err
		}
		g.Add(child)
	}
	return g, nil
}

func (d *decoder) part(n *gltf.Node, meshIdx int) (*scene.Part, error) {
	if meshIdx < 0 || meshIdx >= len(d.doc.Meshes) {
		return nil, fmt.Errorf("assets: mesh index %d out of range", meshIdx)
	}
	mesh := d.doc.Meshes[meshIdx]

	name := n.Name
	if name == "" {
		name = mesh.Name
	}
	id := n.Name
	if id == "" {
		id = fmt.Sprintf("mesh_%d", meshIdx)
	}
	id = d.uniqueID(id)
	if name == "" {
		name = id
	}

	bounds := m.EmptyBox()
	var geom *scene.Geometry
	if d.opts.Geometry {
		geom = &scene.Geometry{}
	}
	var mat *scene.Material

	for pi, prim := range mesh.Primitives {
		posIdx, ok := prim.Attributes[gltf.POSITION]
		if !ok {
			continue
		}
		acc, err := d.accessor(int(posIdx))
		if err != nil {
			return nil, err
		}

		var positions [][3]float32
		if geom != nil || len(acc.Min) < 3 || len(acc.Max) < 3 {
			positions, err = modeler.ReadPosition(d.doc, acc, nil)
			if err != nil {
				return nil, fmt.Errorf("assets: mesh %q primitive %d positions: %w", mesh.Name, pi, err)
			}
		}

		if len(acc.Min) >= 3 && len(acc.Max) >= 3 {
			bounds = bounds.Union(m.Box3{
				Min: m.V3(float32(acc.Min[0]), float32(acc.Min[1]), float32(acc.Min[2])),
				Max: m.V3(float32(acc.Max[0]), float32(acc.Max[1]), float32(acc.Max[2])),
			})
		} else {
			for _, p := range positions {
				bounds = bounds.ExpandByPoint(m.FromArray(p))
			}
		}

		if geom != nil {
			if err := d.appendGeometry(geom, prim, positions); err != nil {
				return nil, fmt.Errorf("assets: mesh %q primitive %d: %w", mesh.Name, pi, err)
			}
		}
		if mat == nil && prim.Material != nil {
			mat = d.material(int(*prim.Material))
		}
	}

	if bounds.IsEmpty() {
		bounds = m.Box3{}
	}
	p := scene.NewPart(id, name, bounds, mat)
	p.Geometry = geom
	d.parts++
	return p, nil
}

func (d *decoder) appendGeometry(geom *scene.Geometry, prim *gltf.Primitive, positions [][3]float32) error {
	base := uint32(len(geom.Positions))
	geom.Positions = append(geom.Positions, positions...)

	if nIdx, ok := prim.Attributes[gltf.NORMAL]; ok {
		acc, err := d.accessor(int(nIdx))
		if err != nil {
			return err
		}
		normals, err := modeler.ReadNormal(d.doc, acc, nil)
		if err != nil {
			return fmt.Errorf("normals: %w", err)
		}
		geom.Normals = append(geom.Normals, normals...)
	}

	if prim.Indices == nil {
		// non-indexed primitives still need indices once merged with others
		for i := range positions {
			geom.Indices = append(geom.Indices, base+uint32(i))
		}
		return nil
	}
	acc, err := d.accessor(int(*prim.Indices))
	if err != nil {
		return err
	}
	indices, err := modeler.ReadIndices(d.doc, acc, nil)
	if err != nil {
		return fmt.Errorf("indices: %w", err)
	}
	for _, i := range indices {
		geom.Indices = append(geom.Indices, base+i)
	}
	return nil
}

func (d *decoder) accessor(idx int) (*gltf.Accessor, error) {
	if idx < 0 || idx >= len(d.doc.Accessors) {
		return nil, fmt.Errorf("assets: accessor index %d out of range", idx)
	}
	return d.doc.Accessors[idx], nil
}

func (d *decoder) material(idx int) *scene.Material {
	mat := scene.DefaultMaterial()
	if idx < 0 || idx >= len(d.doc.Materials) {
		return mat
	}
	gm := d.doc.Materials[idx]
	mat.Name = gm.Name
	if pbr := gm.PBRMetallicRoughness; pbr != nil && pbr.BaseColorFactor != nil {
		for i, v := range pbr.BaseColorFactor {
			mat.BaseColor[i] = float32(v)
		}
	}
	lit := false
	for i, v := range gm.EmissiveFactor {
		mat.Emissive[i] = float32(v)
		lit = lit || v != 0
	}
	if lit {
		mat.EmissiveIntensity = 1
	}
	return mat
}

func (d *decoder) uniqueID(id string) string {
	n := d.ids[id]
	d.ids[id] = n + 1
	if n == 0 {
		return id
	}
	return fmt.Sprintf("%s_%d", id, n)
}

// nodeTransform reads TRS, or decomposes the matrix when one is given.
// Unset rotation and scale are treated as identity.
func nodeTransform(n *gltf.Node) scene.Transform {
	t := scene.IdentityTransform()

	var mat m.Mat4
	for i, v := range n.Matrix {
		mat[i] = float32(v)
	}
	if mat != (m.Mat4{}) && mat != m.Identity() {
		t.Position, t.Rotation, t.Scale = mat.Decompose()
		return t
	}

	t.Position = m.V3(float32(n.Translation[0]), float32(n.Translation[1]), float32(n.Translation[2]))
	rot := m.Quat{
		X: float32(n.Rotation[0]),
		Y: float32(n.Rotation[1]),
		Z: float32(n.Rotation[2]),
		W: float32(n.Rotation[3]),
	}
	if !rot.IsZero() {
		t.Rotation = rot.Normalize()
	}
	scale := m.V3(float32(n.Scale[0]), float32(n.Scale[1]), float32(n.Scale[2]))
	if scale != (m.Vec3{}) {
		t.Scale = scale
	}
	return t
}
