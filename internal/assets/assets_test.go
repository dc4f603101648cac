package assets

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/qmuntal/gltf"
	"github.com/qmuntal/gltf/modeler"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Faultbox/partview/internal/scene"
	m "github.com/Faultbox/partview/pkg/math"
)

// engineDoc builds a small document:
//
//	Object_2 (mesh 0, at x=2)
//	housing (y=1)
//	├── <unnamed> (mesh 0)
//	└── Object_2 (mesh 0)
//	    └── bolt (mesh 1)
func engineDoc() *gltf.Document {
	doc := gltf.NewDocument()

	cube := modeler.WritePosition(doc, [][3]float32{{0, 0, 0}, {1, 0, 0}, {0, 1, 0}, {0, 0, 1}})
	cubeIdx := modeler.WriteIndices(doc, []uint32{0, 1, 2, 0, 2, 3})
	small := modeler.WritePosition(doc, [][3]float32{{0, 0, 0}, {0.05, 0, 0}, {0, 0.05, 0}})

	pbr := &gltf.PBRMetallicRoughness{}
	setColor(&pbr.BaseColorFactor, [4]float32{1, 0, 0, 1})
	red := &gltf.Material{Name: "red", PBRMetallicRoughness: pbr}
	red.EmissiveFactor[2] = 0.5
	doc.Materials = []*gltf.Material{red}

	doc.Meshes = []*gltf.Mesh{
		{Name: "cube", Primitives: []*gltf.Primitive{{
			Attributes: map[string]uint32{gltf.POSITION: uint32(cube)},
			Indices:    gltf.Index(uint32(cubeIdx)),
			Material:   gltf.Index(0),
		}}},
		{Name: "bolt", Primitives: []*gltf.Primitive{{
			Attributes: map[string]uint32{gltf.POSITION: uint32(small)},
		}}},
	}

	obj := &gltf.Node{Name: "Object_2", Mesh: gltf.Index(0)}
	obj.Translation[0] = 2
	housing := &gltf.Node{Name: "housing", Children: []uint32{2, 3}}
	housing.Translation[1] = 1
	doc.Nodes = []*gltf.Node{
		obj,
		housing,
		{Mesh: gltf.Index(0)},
		{Name: "Object_2", Mesh: gltf.Index(0), Children: []uint32{4}},
		{Name: "bolt", Mesh: gltf.Index(1)},
	}
	doc.Scenes[0].Nodes = append(doc.Scenes[0].Nodes, 0, 1)
	return doc
}

func saveFixture(t *testing.T, doc *gltf.Document) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "engine.glb")
	require.NoError(t, gltf.SaveBinary(doc, path))
	return path
}

func ids(parts []*scene.Part) []string {
	out := make([]string, len(parts))
	for i, p := range parts {
		out[i] = p.ID
	}
	return out
}

func TestDecodeHierarchy(t *testing.T) {
	md, err := Decode(engineDoc(), "Engine", Options{})
	require.NoError(t, err)

	assert.Equal(t, "Engine", md.Name)
	parts := md.Parts()
	assert.Equal(t, []string{"Object_2", "mesh_0", "Object_2_1", "bolt"}, ids(parts))
	assert.Equal(t, "cube", parts[1].Name(), "unnamed nodes take the mesh name")

	// a mesh node with children becomes a group holding the part first
	holder := parts[2].Parent()
	require.NotNil(t, holder)
	assert.Equal(t, "Object_2", holder.Name())
	assert.Same(t, holder, parts[3].Parent())
	assert.Equal(t, "housing", holder.Parent().Name())

	wb := parts[0].WorldBounds()
	assert.True(t, wb.Min.ApproxEqual(m.V3(2, 0, 0), 1e-6), "min %v", wb.Min)
	assert.True(t, wb.Max.ApproxEqual(m.V3(3, 1, 1), 1e-6), "max %v", wb.Max)

	wb = parts[1].WorldBounds()
	assert.True(t, wb.Min.ApproxEqual(m.V3(0, 1, 0), 1e-6), "min %v", wb.Min)

	assert.Nil(t, parts[0].Geometry)
}

func TestDecodeMaterial(t *testing.T) {
	md, err := Decode(engineDoc(), "Engine", Options{})
	require.NoError(t, err)

	mat := md.PartByID("Object_2").Material
	assert.Equal(t, "red", mat.Name)
	assert.Equal(t, [4]float32{1, 0, 0, 1}, mat.BaseColor)
	assert.Equal(t, [3]float32{0, 0, 0.5}, mat.Emissive)
	assert.Equal(t, float32(1), mat.EmissiveIntensity)

	assert.Equal(t, scene.DefaultMaterial().BaseColor, md.PartByID("bolt").Material.BaseColor)
}

func TestDecodeGeometry(t *testing.T) {
	md, err := Decode(engineDoc(), "Engine", Options{Geometry: true})
	require.NoError(t, err)

	cube := md.PartByID("Object_2").Geometry
	require.NotNil(t, cube)
	assert.Equal(t, 2, cube.TriangleCount())
	a, b, c := cube.Triangle(1)
	assert.Equal(t, m.V3(0, 0, 0), a)
	assert.Equal(t, m.V3(0, 1, 0), b)
	assert.Equal(t, m.V3(0, 0, 1), c)

	bolt := md.PartByID("bolt").Geometry
	require.NotNil(t, bolt)
	assert.Equal(t, []uint32{0, 1, 2}, bolt.Indices)
}

func TestDecodeMatrixNode(t *testing.T) {
	doc := engineDoc()
	n := doc.Nodes[0]
	n.Translation[0] = 0
	n.Matrix[0], n.Matrix[5], n.Matrix[10], n.Matrix[15] = 2, 2, 2, 1
	n.Matrix[12], n.Matrix[13], n.Matrix[14] = 1, 2, 3

	md, err := Decode(doc, "Engine", Options{})
	require.NoError(t, err)

	tr := md.PartByID("Object_2").Local()
	assert.True(t, tr.Position.ApproxEqual(m.V3(1, 2, 3), 1e-5), "position %v", tr.Position)
	assert.True(t, tr.Scale.ApproxEqual(m.V3(2, 2, 2), 1e-5), "scale %v", tr.Scale)
}

func TestDecodeErrors(t *testing.T) {
	_, err := Decode(nil, "x", Options{})
	assert.ErrorIs(t, err, ErrNoScene)

	doc := gltf.NewDocument()
	doc.Scenes = nil
	_, err = Decode(doc, "x", Options{})
	assert.ErrorIs(t, err, ErrNoScene)

	doc = gltf.NewDocument()
	doc.Nodes = []*gltf.Node{{Name: "empty"}}
	doc.Scenes[0].Nodes = append(doc.Scenes[0].Nodes, 0)
	_, err = Decode(doc, "x", Options{})
	assert.ErrorIs(t, err, ErrNoParts)

	doc = engineDoc()
	doc.Nodes[4].Children = []uint32{1}
	_, err = Decode(doc, "x", Options{})
	assert.Error(t, err, "cycles are rejected")
}

func TestNormalize(t *testing.T) {
	root := scene.NewGroup("root")
	p := scene.NewPart("p", "p", m.BoxFromPoints(m.V3(0, 2, 0), m.V3(4, 4, 2)), nil)
	root.Add(p)
	md := scene.NewModel("m", root)

	s := Normalize(md)
	assert.InDelta(t, 0.25, s, 1e-6)

	box := md.Bounds()
	assert.InDelta(t, 1, box.MaxDim(), 1e-5)
	assert.InDelta(t, 0, box.Min.Y, 1e-5)
	assert.InDelta(t, 0, box.Center().X, 1e-5)
	assert.InDelta(t, 0, box.Center().Z, 1e-5)
}

func TestNormalizeKeepsRootTransform(t *testing.T) {
	root := scene.NewGroup("root")
	root.Local().Position = m.V3(10, 0, 0)
	root.Local().Scale = m.V3(2, 2, 2)
	root.Add(scene.NewPart("p", "p", m.BoxFromPoints(m.V3(0, 0, 0), m.V3(1, 3, 1)), nil))
	md := scene.NewModel("m", root)

	Normalize(md)

	box := md.Bounds()
	assert.InDelta(t, 1, box.MaxDim(), 1e-5)
	assert.InDelta(t, 0, box.Min.Y, 1e-5)
	assert.InDelta(t, 0, box.Center().X, 1e-5)
}

func TestNormalizeZeroSize(t *testing.T) {
	root := scene.NewGroup("root")
	root.Add(scene.NewPart("p", "p", m.Box3{}, nil))
	md := scene.NewModel("m", root)

	assert.Equal(t, float32(1), Normalize(md))
	assert.Equal(t, scene.IdentityTransform(), *md.Root.Local())
	assert.Equal(t, float32(1), Normalize(nil))
}

func TestLoadTask(t *testing.T) {
	path := saveFixture(t, engineDoc())
	mgr := NewManager()

	md, err := Load(context.Background(), path, Options{Manager: mgr}).Await(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "engine", md.Name)
	assert.Len(t, md.Parts(), 4)

	// a second load shares the parsed document but builds its own graph
	other, err := Load(context.Background(), path, Options{Manager: mgr}).Await(context.Background())
	require.NoError(t, err)
	assert.NotSame(t, md.Parts()[0], other.Parts()[0])

	hits, misses := mgr.Stats()
	assert.Equal(t, 1, hits)
	assert.Equal(t, 2, misses, "first load misses twice: fast path and locked re-check")
}

func TestLoadWithoutPath(t *testing.T) {
	task := Load(context.Background(), "", Options{})
	select {
	case <-task.Done():
	default:
		t.Fatal("task without a path should finish immediately")
	}
	_, err := task.Await(context.Background())
	assert.ErrorIs(t, err, ErrNoURL)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(context.Background(), filepath.Join(t.TempDir(), "nope.glb"), Options{}).Await(context.Background())
	require.Error(t, err)
	assert.True(t, errors.Is(err, os.ErrNotExist), "got %v", err)
}

func TestLoadCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := Load(ctx, saveFixture(t, engineDoc()), Options{}).Await(context.Background())
	assert.ErrorIs(t, err, context.Canceled)
}

func TestResolved(t *testing.T) {
	md := scene.NewModel("m", nil)
	got, err := Resolved(md).Await(context.Background())
	require.NoError(t, err)
	assert.Same(t, md, got)

	_, err = Resolved(nil).Await(context.Background())
	assert.ErrorIs(t, err, ErrNoParts)
}

func TestManagerInvalidate(t *testing.T) {
	path := saveFixture(t, engineDoc())
	mgr := NewManager()

	data, err := mgr.Bytes(path)
	require.NoError(t, err)
	assert.NotEmpty(t, data)
	first, err := mgr.Document(path)
	require.NoError(t, err)

	mgr.Invalidate(path)
	second, err := mgr.Document(path)
	require.NoError(t, err)
	assert.NotSame(t, first, second)

	_, err = mgr.Document("")
	assert.ErrorIs(t, err, ErrNoURL)
}

func TestCacheStats(t *testing.T) {
	c := NewCache[int]()
	c.Set("a", 1)

	v, ok := c.Get("a")
	assert.True(t, ok)
	assert.Equal(t, 1, v)
	_, ok = c.Get("b")
	assert.False(t, ok)

	hits, misses := c.Stats()
	assert.Equal(t, 1, hits)
	assert.Equal(t, 1, misses)

	c.Clear()
	assert.Equal(t, 0, c.Len())
	hits, misses = c.Stats()
	assert.Zero(t, hits+misses)
}

func TestWatcherReportsWrites(t *testing.T) {
	path := saveFixture(t, engineDoc())
	mgr := NewManager()
	_, err := mgr.Document(path)
	require.NoError(t, err)

	changed := make(chan string, 4)
	w, err := Watch(path, mgr, 20*time.Millisecond, func(p string) { changed <- p })
	require.NoError(t, err)
	defer w.Close()

	require.NoError(t, gltf.SaveBinary(engineDoc(), path))

	select {
	case p := <-changed:
		assert.Equal(t, w.Path(), p)
	case <-time.After(5 * time.Second):
		t.Fatal("no change reported")
	}
	_, misses := mgr.Stats()
	_, err = mgr.Document(path)
	require.NoError(t, err)
	_, after := mgr.Stats()
	assert.Equal(t, misses+2, after, "cache entry was dropped")
}

func TestWatcherIgnoresSiblings(t *testing.T) {
	path := saveFixture(t, engineDoc())

	changed := make(chan string, 4)
	w, err := Watch(path, nil, 20*time.Millisecond, func(p string) { changed <- p })
	require.NoError(t, err)

	require.NoError(t, os.WriteFile(filepath.Join(filepath.Dir(path), "notes.txt"), []byte("x"), 0o644))

	select {
	case p := <-changed:
		t.Fatalf("unexpected change for %s", p)
	case <-time.After(200 * time.Millisecond):
	}
	require.NoError(t, w.Close())
}

func TestWatchWithoutPath(t *testing.T) {
	_, err := Watch("", nil, 0, nil)
	assert.ErrorIs(t, err, ErrNoURL)
}

func TestSampleEngine(t *testing.T) {
	md, err := Decode(SampleEngine(), "Engine", Options{Geometry: true})
	require.NoError(t, err)

	parts := md.Parts()
	require.Len(t, parts, 9)

	bracket := md.PartByID("Object_6")
	require.NotNil(t, bracket)
	c := bracket.WorldBounds().Center()
	assert.True(t, c.ApproxEqual(m.V3(-0.95, 0.1, 0.4), 1e-5), "bracket center %v", c)

	block := md.PartByID("Object_2")
	require.NotNil(t, block.Geometry)
	assert.Equal(t, 12, block.Geometry.TriangleCount())
	assert.InDelta(t, 0.55, block.Material.BaseColor[0], 1e-6)
}
