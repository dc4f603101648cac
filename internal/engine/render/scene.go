// Package render draws a viewer session with OpenGL: one vertex buffer per
// part, a selection wireframe, and the 2D overlay.
package render

import (
	"fmt"
	"unsafe"

	"github.com/go-gl/gl/v4.1-core/gl"

	"github.com/Faultbox/partview/internal/engine/debug"
	"github.com/Faultbox/partview/internal/engine/lighting"
	"github.com/Faultbox/partview/internal/engine/shader"
	"github.com/Faultbox/partview/internal/scene"
	m "github.com/Faultbox/partview/pkg/math"
)

const meshVertexSrc = `
#version 410 core
layout (location = 0) in vec3 aPos;
layout (location = 1) in vec3 aNormal;
uniform mat4 uViewProj;
uniform mat4 uModel;
out vec3 vNormal;
void main() {
	vNormal = mat3(uModel) * aNormal;
	gl_Position = uViewProj * uModel * vec4(aPos, 1.0);
}
`

const meshFragmentSrc = `
#version 410 core
in vec3 vNormal;
uniform vec4 uColor;
uniform vec3 uEmissive;
uniform vec3 uLightDir;
uniform float uAmbient;
out vec4 FragColor;
void main() {
	vec3 n = normalize(vNormal);
	float diffuse = abs(dot(n, -uLightDir));
	vec3 lit = uColor.rgb * (uAmbient + (1.0 - uAmbient) * diffuse) + uEmissive;
	FragColor = vec4(lit, uColor.a);
}
`

const lineVertexSrc = `
#version 410 core
layout (location = 0) in vec3 aPos;
uniform mat4 uViewProj;
void main() {
	gl_Position = uViewProj * vec4(aPos, 1.0);
}
`

const lineFragmentSrc = `
#version 410 core
uniform vec4 uColor;
out vec4 FragColor;
void main() {
	FragColor = uColor;
}
`

// mesh floats per vertex: pos3 + normal3
const meshStride = 6

type mesh struct {
	vao, vbo uint32
	count    int32
}

// Scene draws the parts of a model.
type Scene struct {
	meshProg *shader.Program
	lineProg *shader.Program
	meshes   map[*scene.Part]*mesh
	fallback *mesh

	lineVAO, lineVBO uint32

	// Background is the clear color.
	Background [4]float32
	// Selection colors the focused part's bounding box.
	Selection [4]float32
	Sun       lighting.Sun
}

// NewScene creates the mesh and line pipelines.
func NewScene() (*Scene, error) {
	meshProg, err := shader.New(meshVertexSrc, meshFragmentSrc)
	if err != nil {
		return nil, fmt.Errorf("mesh shader: %w", err)
	}
	lineProg, err := shader.New(lineVertexSrc, lineFragmentSrc)
	if err != nil {
		meshProg.Delete()
		return nil, fmt.Errorf("line shader: %w", err)
	}
	s := &Scene{
		meshProg:   meshProg,
		lineProg:   lineProg,
		meshes:     make(map[*scene.Part]*mesh),
		Background: [4]float32{0.105, 0.113, 0.133, 1},
		Selection:  [4]float32{1, 0.33, 0, 1},
		Sun:        lighting.DefaultSun(),
	}

	gl.GenVertexArrays(1, &s.lineVAO)
	gl.GenBuffers(1, &s.lineVBO)
	gl.BindVertexArray(s.lineVAO)
	gl.BindBuffer(gl.ARRAY_BUFFER, s.lineVBO)
	gl.EnableVertexAttribArray(0)
	gl.VertexAttribPointerWithOffset(0, 3, gl.FLOAT, false, 3*4, 0)
	gl.BindVertexArray(0)

	// parts without geometry draw as their bounding box
	s.fallback = upload(unitCube())
	return s, nil
}

// Upload replaces the GPU meshes with those of md. A nil model just frees
// the current meshes.
func (s *Scene) Upload(md *scene.Model) {
	s.release()
	if md == nil {
		return
	}
	for _, p := range md.Parts() {
		if p.Geometry == nil || p.Geometry.TriangleCount() == 0 {
			continue
		}
		s.meshes[p] = upload(p.Geometry.Interleaved())
	}
}

func upload(verts []float32) *mesh {
	ms := &mesh{count: int32(len(verts) / meshStride)}
	gl.GenVertexArrays(1, &ms.vao)
	gl.GenBuffers(1, &ms.vbo)
	gl.BindVertexArray(ms.vao)
	gl.BindBuffer(gl.ARRAY_BUFFER, ms.vbo)
	if len(verts) > 0 {
		gl.BufferData(gl.ARRAY_BUFFER, len(verts)*4, unsafe.Pointer(&verts[0]), gl.STATIC_DRAW)
	}
	gl.EnableVertexAttribArray(0)
	gl.VertexAttribPointerWithOffset(0, 3, gl.FLOAT, false, meshStride*4, 0)
	gl.EnableVertexAttribArray(1)
	gl.VertexAttribPointerWithOffset(1, 3, gl.FLOAT, false, meshStride*4, 3*4)
	gl.BindVertexArray(0)
	return ms
}

func (ms *mesh) delete() {
	gl.DeleteBuffers(1, &ms.vbo)
	gl.DeleteVertexArrays(1, &ms.vao)
}

func (s *Scene) release() {
	for p, ms := range s.meshes {
		ms.delete()
		delete(s.meshes, p)
	}
}

// Draw clears the viewport and draws every visible part of md, then the
// selection box around selected when it is non-nil.
func (s *Scene) Draw(md *scene.Model, viewProj m.Mat4, width, height int, selected *scene.Part) {
	gl.Viewport(0, 0, int32(width), int32(height))
	gl.ClearColor(s.Background[0], s.Background[1], s.Background[2], s.Background[3])
	gl.Clear(gl.COLOR_BUFFER_BIT | gl.DEPTH_BUFFER_BIT)
	if md == nil {
		return
	}

	gl.Enable(gl.DEPTH_TEST)
	gl.Disable(gl.CULL_FACE)
	gl.Disable(gl.BLEND)

	s.meshProg.Use()
	gl.UniformMatrix4fv(s.meshProg.Uniform("uViewProj"), 1, false, viewProj.Ptr())
	light := s.Sun.Direction()
	gl.Uniform3f(s.meshProg.Uniform("uLightDir"), light.X, light.Y, light.Z)
	gl.Uniform1f(s.meshProg.Uniform("uAmbient"), s.Sun.Ambient)

	for _, p := range md.Parts() {
		if !p.Visible {
			continue
		}
		model := p.WorldMatrix()
		ms, ok := s.meshes[p]
		if !ok {
			ms = s.fallback
			b := p.LocalBounds
			if b.IsEmpty() {
				continue
			}
			size, c := b.Size(), b.Center()
			model = model.Mul(m.Translate(c.X, c.Y, c.Z)).Mul(m.Scale(size.X, size.Y, size.Z))
		}
		mat := p.Material
		if mat == nil {
			mat = scene.DefaultMaterial()
		}
		gl.UniformMatrix4fv(s.meshProg.Uniform("uModel"), 1, false, model.Ptr())
		gl.Uniform4f(s.meshProg.Uniform("uColor"), mat.BaseColor[0], mat.BaseColor[1], mat.BaseColor[2], mat.BaseColor[3])
		e := mat.EmissiveIntensity
		gl.Uniform3f(s.meshProg.Uniform("uEmissive"), mat.Emissive[0]*e, mat.Emissive[1]*e, mat.Emissive[2]*e)

		gl.BindVertexArray(ms.vao)
		gl.DrawArrays(gl.TRIANGLES, 0, ms.count)
	}
	gl.BindVertexArray(0)

	if selected != nil {
		s.drawLines(debug.BoxWireframe(selected.WorldBounds(), debug.DefaultBoxPadding), viewProj)
	}
	gl.UseProgram(0)
}

func (s *Scene) drawLines(verts []float32, viewProj m.Mat4) {
	if len(verts) == 0 {
		return
	}
	s.lineProg.Use()
	gl.UniformMatrix4fv(s.lineProg.Uniform("uViewProj"), 1, false, viewProj.Ptr())
	gl.Uniform4f(s.lineProg.Uniform("uColor"), s.Selection[0], s.Selection[1], s.Selection[2], s.Selection[3])
	gl.BindVertexArray(s.lineVAO)
	gl.BindBuffer(gl.ARRAY_BUFFER, s.lineVBO)
	gl.BufferData(gl.ARRAY_BUFFER, len(verts)*4, unsafe.Pointer(&verts[0]), gl.STREAM_DRAW)
	gl.DrawArrays(gl.LINES, 0, int32(len(verts)/3))
	gl.BindVertexArray(0)
}

// Close releases GL resources.
func (s *Scene) Close() {
	s.release()
	if s.fallback != nil {
		s.fallback.delete()
	}
	gl.DeleteBuffers(1, &s.lineVBO)
	gl.DeleteVertexArrays(1, &s.lineVAO)
	s.meshProg.Delete()
	s.lineProg.Delete()
}

// unitCube returns a centered cube of side 1 as interleaved triangles.
func unitCube() []float32 {
	g := &scene.Geometry{
		Positions: [][3]float32{
			{-0.5, -0.5, -0.5}, {0.5, -0.5, -0.5}, {0.5, 0.5, -0.5}, {-0.5, 0.5, -0.5},
			{-0.5, -0.5, 0.5}, {0.5, -0.5, 0.5}, {0.5, 0.5, 0.5}, {-0.5, 0.5, 0.5},
		},
		Indices: []uint32{
			0, 2, 1, 0, 3, 2, // back
			4, 5, 6, 4, 6, 7, // front
			0, 1, 5, 0, 5, 4, // bottom
			3, 7, 6, 3, 6, 2, // top
			0, 4, 7, 0, 7, 3, // left
			1, 2, 6, 1, 6, 5, // right
		},
	}
	return g.Interleaved()
}
