package render

import (
	"fmt"
	"unsafe"

	"github.com/go-gl/gl/v4.1-core/gl"

	"github.com/Faultbox/partview/internal/engine/overlay"
	"github.com/Faultbox/partview/internal/engine/shader"
	m "github.com/Faultbox/partview/pkg/math"
)

const uiVertexSrc = `
#version 410 core
layout (location = 0) in vec2 aPos;
layout (location = 1) in vec2 aUV;
layout (location = 2) in vec4 aColor;
uniform mat4 uProjection;
out vec2 vUV;
out vec4 vColor;
void main() {
	gl_Position = uProjection * vec4(aPos, 0.0, 1.0);
	vUV = aUV;
	vColor = aColor;
}
`

// uTextured selects between flat quads and glyph quads sampling the atlas
// red channel as coverage.
const uiFragmentSrc = `
#version 410 core
in vec2 vUV;
in vec4 vColor;
uniform sampler2D uAtlas;
uniform bool uTextured;
out vec4 FragColor;
void main() {
	float a = uTextured ? texture(uAtlas, vUV).r : 1.0;
	FragColor = vec4(vColor.rgb, vColor.a * a);
}
`

// floats per vertex: pos2 + uv2 + color4
const uiStride = 8

// UI draws overlay primitives. It batches solid quads and glyph quads per
// frame and flushes them in End.
type UI struct {
	prog    *shader.Program
	vao     uint32
	vbo     uint32
	atlas   *overlay.Atlas
	texture uint32

	width, height int
	solid         []float32
	text          []float32
}

// NewUI uploads the atlas and creates the UI pipeline.
func NewUI(atlas *overlay.Atlas) (*UI, error) {
	prog, err := shader.New(uiVertexSrc, uiFragmentSrc)
	if err != nil {
		return nil, fmt.Errorf("ui shader: %w", err)
	}
	u := &UI{
		prog:  prog,
		atlas: atlas,
		solid: make([]float32, 0, 4096),
		text:  make([]float32, 0, 4096),
	}

	gl.GenVertexArrays(1, &u.vao)
	gl.GenBuffers(1, &u.vbo)
	gl.BindVertexArray(u.vao)
	gl.BindBuffer(gl.ARRAY_BUFFER, u.vbo)
	gl.EnableVertexAttribArray(0)
	gl.VertexAttribPointerWithOffset(0, 2, gl.FLOAT, false, uiStride*4, 0)
	gl.EnableVertexAttribArray(1)
	gl.VertexAttribPointerWithOffset(1, 2, gl.FLOAT, false, uiStride*4, 2*4)
	gl.EnableVertexAttribArray(2)
	gl.VertexAttribPointerWithOffset(2, 4, gl.FLOAT, false, uiStride*4, 4*4)
	gl.BindVertexArray(0)

	img := atlas.Image
	b := img.Bounds()
	gl.GenTextures(1, &u.texture)
	gl.BindTexture(gl.TEXTURE_2D, u.texture)
	gl.PixelStorei(gl.UNPACK_ALIGNMENT, 1)
	gl.TexImage2D(gl.TEXTURE_2D, 0, gl.R8, int32(b.Dx()), int32(b.Dy()), 0, gl.RED, gl.UNSIGNED_BYTE, gl.Ptr(img.Pix))
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MIN_FILTER, gl.NEAREST)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MAG_FILTER, gl.NEAREST)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_S, gl.CLAMP_TO_EDGE)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_T, gl.CLAMP_TO_EDGE)
	gl.BindTexture(gl.TEXTURE_2D, 0)

	return u, nil
}

// Begin starts a frame at the given screen size.
func (u *UI) Begin(width, height int) {
	u.width, u.height = width, height
	u.solid = u.solid[:0]
	u.text = u.text[:0]
}

// DrawRect queues a filled rectangle.
func (u *UI) DrawRect(x, y, w, h float32, c overlay.Color) {
	u.solid = quad(u.solid, x, y, w, h, 0, 0, 0, 0, c)
}

// DrawRectOutline queues a rectangle border.
func (u *UI) DrawRectOutline(x, y, w, h, t float32, c overlay.Color) {
	u.DrawRect(x, y, w, t, c)
	u.DrawRect(x, y+h-t, w, t, c)
	u.DrawRect(x, y+t, t, h-2*t, c)
	u.DrawRect(x+w-t, y+t, t, h-2*t, c)
}

// DrawText queues a single line of glyphs.
func (u *UI) DrawText(x, y float32, text string, scale float32, c overlay.Color) {
	gw, gh := u.atlas.GlyphSize()
	cw, ch := float32(gw)*scale, float32(gh)*scale
	for _, r := range text {
		u0, v0, u1, v1 := u.atlas.GlyphUV(r)
		u.text = quad(u.text, x, y, cw, ch, u0, v0, u1, v1, c)
		x += cw
	}
}

// End flushes the queued quads, solids first.
func (u *UI) End() {
	gl.Enable(gl.BLEND)
	gl.BlendFunc(gl.SRC_ALPHA, gl.ONE_MINUS_SRC_ALPHA)
	gl.Disable(gl.DEPTH_TEST)
	gl.Disable(gl.CULL_FACE)

	proj := m.Ortho(0, float32(u.width), float32(u.height), 0, -1, 1)
	u.prog.Use()
	gl.UniformMatrix4fv(u.prog.Uniform("uProjection"), 1, false, proj.Ptr())
	gl.Uniform1i(u.prog.Uniform("uAtlas"), 0)
	gl.ActiveTexture(gl.TEXTURE0)
	gl.BindTexture(gl.TEXTURE_2D, u.texture)
	gl.BindVertexArray(u.vao)
	gl.BindBuffer(gl.ARRAY_BUFFER, u.vbo)

	u.flush(u.solid, false)
	u.flush(u.text, true)

	gl.BindVertexArray(0)
	gl.BindTexture(gl.TEXTURE_2D, 0)
	gl.UseProgram(0)
	gl.Enable(gl.DEPTH_TEST)
}

func (u *UI) flush(verts []float32, textured bool) {
	if len(verts) == 0 {
		return
	}
	var flag int32
	if textured {
		flag = 1
	}
	gl.Uniform1i(u.prog.Uniform("uTextured"), flag)
	gl.BufferData(gl.ARRAY_BUFFER, len(verts)*4, unsafe.Pointer(&verts[0]), gl.STREAM_DRAW)
	gl.DrawArrays(gl.TRIANGLES, 0, int32(len(verts)/uiStride))
}

// Close releases GL resources.
func (u *UI) Close() {
	if u.texture != 0 {
		gl.DeleteTextures(1, &u.texture)
	}
	if u.vbo != 0 {
		gl.DeleteBuffers(1, &u.vbo)
	}
	if u.vao != 0 {
		gl.DeleteVertexArrays(1, &u.vao)
	}
	u.prog.Delete()
}

// quad appends two triangles covering the rectangle.
func quad(dst []float32, x, y, w, h, u0, v0, u1, v1 float32, c overlay.Color) []float32 {
	return append(dst,
		x, y, u0, v0, c.R, c.G, c.B, c.A,
		x+w, y, u1, v0, c.R, c.G, c.B, c.A,
		x+w, y+h, u1, v1, c.R, c.G, c.B, c.A,
		x, y, u0, v0, c.R, c.G, c.B, c.A,
		x+w, y+h, u1, v1, c.R, c.G, c.B, c.A,
		x, y+h, u0, v1, c.R, c.G, c.B, c.A,
	)
}
