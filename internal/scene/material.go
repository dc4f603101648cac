package scene

// Material is the shading description of a part.
type Material struct {
	Name              string
	BaseColor         [4]float32
	Emissive          [3]float32
	EmissiveIntensity float32
}

// DefaultMaterial is a neutral grey.
func DefaultMaterial() *Material {
	return &Material{
		Name:      "default",
		BaseColor: [4]float32{0.7, 0.7, 0.72, 1},
	}
}

// Clone returns an independent copy.
func (mat *Material) Clone() *Material {
	c := *mat
	return &c
}

// HexColor converts 0xRRGGBB to linear-ish float components.
func HexColor(hex uint32) [3]float32 {
	return [3]float32{
		float32((hex>>16)&0xff) / 255,
		float32((hex>>8)&0xff) / 255,
		float32(hex&0xff) / 255,
	}
}
