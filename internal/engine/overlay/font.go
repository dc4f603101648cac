package overlay

import (
	"image"
	"strings"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
)

const (
	firstGlyph = ' '
	lastGlyph  = '~'
	atlasCols  = 16
)

// Atlas is a fixed-width glyph sheet for printable ASCII. Other runes draw
// as '?'.
type Atlas struct {
	Image  *image.Alpha
	glyphW int
	glyphH int
	ascent int
}

// NewAtlas rasterises basicfont.Face7x13 into a single alpha image.
func NewAtlas() *Atlas {
	face := basicfont.Face7x13
	a := &Atlas{
		glyphW: face.Advance,
		glyphH: face.Height,
		ascent: face.Ascent,
	}
	count := int(lastGlyph-firstGlyph) + 1
	rows := (count + atlasCols - 1) / atlasCols
	a.Image = image.NewAlpha(image.Rect(0, 0, atlasCols*a.glyphW, rows*a.glyphH))

	d := &font.Drawer{
		Dst:  a.Image,
		Src:  image.Opaque,
		Face: face,
	}
	for r := firstGlyph; r <= lastGlyph; r++ {
		col, row := a.cell(r)
		d.Dot = fixed.P(col*a.glyphW, row*a.glyphH+a.ascent)
		d.DrawString(string(r))
	}
	return a
}

func (a *Atlas) cell(r rune) (col, row int) {
	if r < firstGlyph || r > lastGlyph {
		r = '?'
	}
	i := int(r - firstGlyph)
	return i % atlasCols, i / atlasCols
}

// GlyphSize returns the unscaled cell size in pixels.
func (a *Atlas) GlyphSize() (int, int) {
	return a.glyphW, a.glyphH
}

// GlyphUV returns the texture coordinates of r's cell.
func (a *Atlas) GlyphUV(r rune) (u0, v0, u1, v1 float32) {
	col, row := a.cell(r)
	b := a.Image.Bounds()
	w, h := float32(b.Dx()), float32(b.Dy())
	u0 = float32(col*a.glyphW) / w
	v0 = float32(row*a.glyphH) / h
	u1 = float32((col+1)*a.glyphW) / w
	v1 = float32((row+1)*a.glyphH) / h
	return
}

// Measure returns the size of text at scale. Lines are split on '\n'.
func (a *Atlas) Measure(text string, scale float32) (float32, float32) {
	if text == "" {
		return 0, 0
	}
	lines := strings.Split(text, "\n")
	longest := 0
	for _, l := range lines {
		if n := len([]rune(l)); n > longest {
			longest = n
		}
	}
	return float32(longest*a.glyphW) * scale, float32(len(lines)*a.glyphH) * scale
}

// Wrap breaks text into lines no wider than width at scale, splitting on
// spaces. A single word longer than width gets a line of its own.
func (a *Atlas) Wrap(text string, width, scale float32) []string {
	perLine := int(width / (float32(a.glyphW) * scale))
	if perLine < 1 {
		perLine = 1
	}
	var lines []string
	for _, para := range strings.Split(text, "\n") {
		line := ""
		for _, word := range strings.Fields(para) {
			switch {
			case line == "":
				line = word
			case len([]rune(line))+1+len([]rune(word)) <= perLine:
				line += " " + word
			default:
				lines = append(lines, line)
				line = word
			}
		}
		lines = append(lines, line)
	}
	return lines
}
