package debug

import (
	"testing"

	m "github.com/Faultbox/partview/pkg/math"
)

func TestBoxWireframe(t *testing.T) {
	box := m.BoxFromPoints(m.V3(0, 0, 0), m.V3(1, 2, 3))
	v := BoxWireframe(box, 0)

	if len(v) != BoxWireframeVertexCount*3 {
		t.Fatalf("got %d floats, want %d", len(v), BoxWireframeVertexCount*3)
	}
	for i := 0; i < len(v); i += 3 {
		x, y, z := v[i], v[i+1], v[i+2]
		if (x != 0 && x != 1) || (y != 0 && y != 2) || (z != 0 && z != 3) {
			t.Errorf("vertex %d = (%v, %v, %v) is not a box corner", i/3, x, y, z)
		}
	}
}

func TestBoxWireframePadding(t *testing.T) {
	box := m.BoxFromPoints(m.V3(0, 0, 0), m.V3(1, 1, 1))
	v := BoxWireframe(box, 0.5)
	if v[0] != -0.5 || v[3] != 1.5 {
		t.Errorf("first edge = %v..%v, want -0.5..1.5", v[0], v[3])
	}
}

func TestBoxWireframeEmpty(t *testing.T) {
	if v := BoxWireframe(m.EmptyBox(), 1); v != nil {
		t.Errorf("empty box produced %d floats", len(v))
	}
	if v := PartWireframe(nil, 0); len(v) != 0 {
		t.Errorf("no boxes produced %d floats", len(v))
	}
}

func TestPartWireframe(t *testing.T) {
	a := m.BoxFromPoints(m.V3(0, 0, 0), m.V3(1, 1, 1))
	b := m.BoxFromPoints(m.V3(2, 2, 2), m.V3(3, 3, 3))
	v := PartWireframe([]m.Box3{a, b}, 0)
	if len(v) != 2*BoxWireframeVertexCount*3 {
		t.Errorf("got %d floats", len(v))
	}
}
