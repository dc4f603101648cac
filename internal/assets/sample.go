package assets

import (
	"github.com/qmuntal/gltf"
	"github.com/qmuntal/gltf/modeler"
)

type sampleBlock struct {
	name     string
	center   [3]float32
	size     [3]float32
	color    [4]float32
	children []sampleBlock
}

// sampleEngine is a box-built engine using the raw node names of the
// built-in catalog. Object_5 carries its own mesh and a child to exercise
// mesh nodes with children.
var sampleEngine = []sampleBlock{
	{name: "Object_2", center: [3]float32{0, 0.6, 0}, size: [3]float32{1.6, 1.0, 1.0}, color: [4]float32{0.55, 0.57, 0.6, 1}},
	{name: "Object_3", center: [3]float32{0, 1.3, 0}, size: [3]float32{1.5, 0.35, 0.9}, color: [4]float32{0.35, 0.36, 0.4, 1}},
	{name: "Object_4", center: [3]float32{0.95, 0.6, 0}, size: [3]float32{0.2, 0.8, 0.8}, color: [4]float32{0.2, 0.2, 0.22, 1}},
	{name: "Object_5", center: [3]float32{0, 0, 0}, size: [3]float32{1.6, 0.25, 1.0}, color: [4]float32{0.45, 0.45, 0.47, 1},
		children: []sampleBlock{
			{name: "Object_6", center: [3]float32{-0.95, 0.1, 0.4}, size: [3]float32{0.2, 0.4, 0.2}, color: [4]float32{0.6, 0.3, 0.1, 1}},
		}},
	{name: "Object_10", center: [3]float32{-0.4, 0.9, 0.75}, size: [3]float32{0.45, 0.45, 0.45}, color: [4]float32{0.7, 0.45, 0.2, 1}},
	{name: "Object_15", center: [3]float32{0.2, 0.9, 0.6}, size: [3]float32{0.9, 0.2, 0.2}, color: [4]float32{0.5, 0.25, 0.2, 1}},
	{name: "oil_filter", center: [3]float32{0.4, 0.3, -0.65}, size: [3]float32{0.25, 0.35, 0.25}, color: [4]float32{0.1, 0.3, 0.7, 1}},
	{name: "bolt", center: [3]float32{-0.7, 1.5, 0}, size: [3]float32{0.05, 0.05, 0.05}, color: [4]float32{0.8, 0.8, 0.8, 1}},
}

// SampleEngine builds a small engine model out of boxes, one node per part.
// It is used for demos and tests when no model file is at hand.
func SampleEngine() *gltf.Document {
	doc := gltf.NewDocument()
	for _, b := range sampleEngine {
		idx := addBlock(doc, b)
		doc.Scenes[0].Nodes = append(doc.Scenes[0].Nodes, idx)
	}
	return doc
}

func addBlock(doc *gltf.Document, b sampleBlock) uint32 {
	pos, idx := boxMesh(b.size)
	pbr := &gltf.PBRMetallicRoughness{}
	setColor(&pbr.BaseColorFactor, b.color)
	doc.Materials = append(doc.Materials, &gltf.Material{Name: b.name, PBRMetallicRoughness: pbr})
	doc.Meshes = append(doc.Meshes, &gltf.Mesh{
		Name: b.name,
		Primitives: []*gltf.Primitive{{
			Attributes: map[string]uint32{gltf.POSITION: uint32(modeler.WritePosition(doc, pos))},
			Indices:    gltf.Index(uint32(modeler.WriteIndices(doc, idx))),
			Material:   gltf.Index(uint32(len(doc.Materials) - 1)),
		}},
	})

	node := &gltf.Node{Name: b.name, Mesh: gltf.Index(uint32(len(doc.Meshes) - 1))}
	setVec3(&node.Translation, b.center)
	doc.Nodes = append(doc.Nodes, node)
	self := uint32(len(doc.Nodes) - 1)

	for _, c := range b.children {
		// children are placed in the parent's frame
		for i := range c.center {
			c.center[i] -= b.center[i]
		}
		node.Children = append(node.Children, addBlock(doc, c))
	}
	return self
}

// boxMesh returns the corners and triangles of a box centered on the origin.
func boxMesh(size [3]float32) ([][3]float32, []uint32) {
	x, y, z := size[0]/2, size[1]/2, size[2]/2
	pos := [][3]float32{
		{-x, -y, -z}, {x, -y, -z}, {x, y, -z}, {-x, y, -z},
		{-x, -y, z}, {x, -y, z}, {x, y, z}, {-x, y, z},
	}
	idx := []uint32{
		0, 2, 1, 0, 3, 2,
		4, 5, 6, 4, 6, 7,
		0, 1, 5, 0, 5, 4,
		3, 7, 6, 3, 6, 2,
		0, 4, 7, 0, 7, 3,
		1, 2, 6, 1, 6, 5,
	}
	return pos, idx
}

type number interface{ ~float32 | ~float64 }

// setColor stores an RGBA factor whatever float width the document uses.
func setColor[T number](dst **[4]T, c [4]float32) {
	var v [4]T
	for i := range c {
		v[i] = T(c[i])
	}
	*dst = &v
}

func setVec3[T number](dst *[3]T, v [3]float32) {
	for i := range v {
		dst[i] = T(v[i])
	}
}
