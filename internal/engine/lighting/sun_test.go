package lighting

import (
	"testing"

	m "github.com/Faultbox/partview/pkg/math"
)

func TestSunTowards(t *testing.T) {
	tests := []struct {
		name string
		sun  Sun
		want m.Vec3
	}{
		{"zenith", Sun{Elevation: 90}, m.V3(0, 1, 0)},
		{"front horizon", Sun{}, m.V3(0, 0, 1)},
		{"right horizon", Sun{Azimuth: 90}, m.V3(1, 0, 0)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.sun.Towards()
			if !got.ApproxEqual(tt.want, 1e-5) {
				t.Errorf("Towards() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestSunDirectionOpposes(t *testing.T) {
	s := DefaultSun()
	d := s.Direction().Add(s.Towards())
	if !d.ApproxEqual(m.Vec3{}, 1e-6) {
		t.Errorf("Direction + Towards = %v, want zero", d)
	}
	if l := s.Direction().Length(); l < 0.9999 || l > 1.0001 {
		t.Errorf("Direction length = %v, want 1", l)
	}
}
