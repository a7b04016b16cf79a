// Package kernel defines the abstract geometry kernel interface.
// A kernel turns planar region boundaries into solids and solids into
// triangle meshes, so regions can be rendered or exported without the
// rest of the system knowing which modeling library is behind it.
package kernel

import "github.com/pkg/errors"

// ErrInvalidProfile reports boundary loops that cannot be extruded.
var ErrInvalidProfile = errors.New("kernel: invalid profile")

// Loop is a closed polygon of (x, y) points. Counter-clockwise loops
// enclose material, clockwise loops are holes.
type Loop [][2]float64

// SignedArea returns the area enclosed by l, negative for clockwise loops.
func (l Loop) SignedArea() float64 {
	if len(l) < 3 {
		return 0
	}
	var sum float64
	prev := l[len(l)-1]
	for _, p := range l {
		sum += prev[0]*p[1] - p[0]*prev[1]
		prev = p
	}
	return sum / 2
}

// Solid is an opaque handle to a geometry kernel solid.
// Implementations wrap their internal representation.
type Solid interface {
	// BoundingBox returns the axis-aligned bounding box.
	BoundingBox() (min, max [3]float64)
}

// Kernel is the abstract geometry kernel interface.
type Kernel interface {
	// Extrude sweeps the profile bounded by loops from z = 0 to z = height.
	Extrude(loops []Loop, height float64) (Solid, error)

	// ToMesh tessellates a solid.
	ToMesh(s Solid) (*Mesh, error)
}
