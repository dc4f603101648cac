package overlay

// Color is an RGBA color with float components in [0, 1].
type Color struct {
	R, G, B, A float32
}

// Theme colors.
var (
	ColorTransparent = Color{0, 0, 0, 0}
	ColorWhite       = Color{1, 1, 1, 1}

	ColorPanelBg      = Color{0.08, 0.09, 0.11, 0.92}
	ColorPanelBorder  = Color{0.3, 0.3, 0.35, 1}
	ColorButtonNormal = Color{0.17, 0.18, 0.21, 0.95}
	ColorButtonHover  = Color{0.26, 0.27, 0.31, 0.95}
	ColorText         = Color{0.92, 0.92, 0.92, 1}
	ColorTextDim      = Color{0.6, 0.6, 0.65, 1}
	ColorAccent       = Hex(0xff5500)
)

// RGBA creates a color from 8-bit components.
func RGBA(r, g, b, a uint8) Color {
	return Color{
		R: float32(r) / 255.0,
		G: float32(g) / 255.0,
		B: float32(b) / 255.0,
		A: float32(a) / 255.0,
	}
}

// Hex creates an opaque color from 0xRRGGBB.
func Hex(rgb uint32) Color {
	return RGBA(uint8(rgb>>16), uint8(rgb>>8), uint8(rgb), 255)
}

// WithAlpha returns the color with alpha replaced.
func (c Color) WithAlpha(a float32) Color {
	return Color{c.R, c.G, c.B, a}
}

// Fade multiplies alpha by f.
func (c Color) Fade(f float32) Color {
	return Color{c.R, c.G, c.B, c.A * f}
}

// Lighten moves the color towards white.
func (c Color) Lighten(factor float32) Color {
	return Color{
		R: c.R + (1-c.R)*factor,
		G: c.G + (1-c.G)*factor,
		B: c.B + (1-c.B)*factor,
		A: c.A,
	}
}
