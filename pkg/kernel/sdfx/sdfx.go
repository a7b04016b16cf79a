// Package sdfx implements the kernel.Kernel interface using the
// github.com/deadsy/sdfx SDF-based CAD library.
package sdfx

import (
	"github.com/chazu/bspregion/pkg/kernel"
	"github.com/deadsy/sdfx/render"
	"github.com/deadsy/sdfx/sdf"
	v2 "github.com/deadsy/sdfx/vec/v2"
	v3 "github.com/deadsy/sdfx/vec/v3"
	"github.com/pkg/errors"
)

// Compile-time interface check.
var _ kernel.Kernel = (*SdfxKernel)(nil)

// defaultMeshCells controls marching cubes tessellation resolution.
const defaultMeshCells = 200

// sdfxSolid wraps an sdf.SDF3 to implement kernel.Solid.
type sdfxSolid struct {
	s sdf.SDF3
}

// BoundingBox returns the axis-aligned bounding box.
func (s *sdfxSolid) BoundingBox() (min, max [3]float64) {
	bb := s.s.BoundingBox()
	min = [3]float64{bb.Min.X, bb.Min.Y, bb.Min.Z}
	max = [3]float64{bb.Max.X, bb.Max.Y, bb.Max.Z}
	return min, max
}

// SdfxKernel implements kernel.Kernel using sdfx.
type SdfxKernel struct {
	cells int
}

// New returns a new SdfxKernel.
func New() *SdfxKernel {
	return &SdfxKernel{cells: defaultMeshCells}
}

// NewWithCells returns an SdfxKernel meshing with the given number of
// marching cubes cells along the longest bounding box side.
func NewWithCells(cells int) *SdfxKernel {
	if cells <= 0 {
		cells = defaultMeshCells
	}
	return &SdfxKernel{cells: cells}
}

// Cells returns the mesh resolution.
func (k *SdfxKernel) Cells() int { return k.cells }

// unwrap extracts the underlying sdf.SDF3 from a kernel.Solid.
func unwrap(s kernel.Solid) sdf.SDF3 {
	return s.(*sdfxSolid).s
}

// wrap creates a kernel.Solid from an sdf.SDF3.
func wrap(s sdf.SDF3) kernel.Solid {
	return &sdfxSolid{s: s}
}

// Extrude builds the prism of the profile bounded by loops. The solid has
// its base on z = 0 so that stacked layers line up: sdf.Extrude3D centers
// the extrusion on the XY plane, so we lift it by half the height.
func (k *SdfxKernel) Extrude(loops []kernel.Loop, height float64) (kernel.Solid, error) {
	if height <= 0 {
		return nil, errors.Wrapf(kernel.ErrInvalidProfile, "extrusion height %g", height)
	}

	var outer, holes []sdf.SDF2
	for i, l := range loops {
		area := l.SignedArea()
		if area == 0 {
			return nil, errors.Wrapf(kernel.ErrInvalidProfile, "loop %d encloses no area", i)
		}
		points := make([]v2.Vec, len(l))
		for j, p := range l {
			points[j] = v2.Vec{X: p[0], Y: p[1]}
		}
		s, err := sdf.Polygon2D(points)
		if err != nil {
			return nil, errors.Wrapf(kernel.ErrInvalidProfile, "loop %d: %v", i, err)
		}
		if area > 0 {
			outer = append(outer, s)
		} else {
			holes = append(holes, s)
		}
	}
	if len(outer) == 0 {
		return nil, errors.Wrap(kernel.ErrInvalidProfile, "profile has no outer loop")
	}

	profile := sdf.Union2D(outer...)
	if len(holes) > 0 {
		profile = sdf.Difference2D(profile, sdf.Union2D(holes...))
	}

	m := sdf.Translate3d(v3.Vec{Z: height / 2})
	return wrap(sdf.Transform3D(sdf.Extrude3D(profile, height), m)), nil
}

// ToMesh converts a solid to a triangle mesh using marching cubes.
func (k *SdfxKernel) ToMesh(s kernel.Solid) (*kernel.Mesh, error) {
	sdf3 := unwrap(s)

	renderer := render.NewMarchingCubesUniform(k.cells)
	triangles := render.ToTriangles(sdf3, renderer)

	numTri := len(triangles)
	numVerts := numTri * 3

	vertices := make([]float32, 0, numVerts*3)
	normals := make([]float32, 0, numVerts*3)
	indices := make([]uint32, 0, numVerts)

	for i, tri := range triangles {
		// Compute face normal.
		n := tri.Normal()
		nx := float32(n.X)
		ny := float32(n.Y)
		nz := float32(n.Z)

		for j := 0; j < 3; j++ {
			v := tri[j]
			vertices = append(vertices, float32(v.X), float32(v.Y), float32(v.Z))
			normals = append(normals, nx, ny, nz)
			indices = append(indices, uint32(i*3+j))
		}
	}

	return &kernel.Mesh{
		Vertices: vertices,
		Normals:  normals,
		Indices:  indices,
	}, nil
}
