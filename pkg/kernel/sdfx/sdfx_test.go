package sdfx

import (
	"errors"
	"math"
	"testing"

	"github.com/chazu/bspregion/pkg/kernel"
)

func square(x0, y0, side float64) kernel.Loop {
	return kernel.Loop{{x0, y0}, {x0 + side, y0}, {x0 + side, y0 + side}, {x0, y0 + side}}
}

func reversed(l kernel.Loop) kernel.Loop {
	out := make(kernel.Loop, len(l))
	for i, p := range l {
		out[len(l)-1-i] = p
	}
	return out
}

func TestExtrudeSquare(t *testing.T) {
	k := NewWithCells(40)
	solid, err := k.Extrude([]kernel.Loop{square(0, 0, 10)}, 5)
	if err != nil {
		t.Fatalf("Extrude failed: %v", err)
	}
	mesh, err := k.ToMesh(solid)
	if err != nil {
		t.Fatalf("ToMesh failed: %v", err)
	}
	if mesh.IsEmpty() {
		t.Fatal("mesh is empty")
	}
	triCount := mesh.TriangleCount()
	if triCount == 0 {
		t.Fatal("expected non-zero triangle count")
	}
	// Verify vertex and index array sizes are consistent.
	if len(mesh.Vertices) != len(mesh.Normals) {
		t.Fatalf("vertices length %d != normals length %d", len(mesh.Vertices), len(mesh.Normals))
	}
	if len(mesh.Indices) != triCount*3 {
		t.Fatalf("indices length %d != triCount*3 %d", len(mesh.Indices), triCount*3)
	}
}

func TestExtrudeBoundingBox(t *testing.T) {
	k := New()
	solid, err := k.Extrude([]kernel.Loop{square(2, 3, 10)}, 4)
	if err != nil {
		t.Fatalf("Extrude failed: %v", err)
	}
	min, max := solid.BoundingBox()

	const tol = 0.01
	expectMin := [3]float64{2, 3, 0}
	expectMax := [3]float64{12, 13, 4}

	for i := 0; i < 3; i++ {
		if math.Abs(min[i]-expectMin[i]) > tol {
			t.Errorf("min[%d] = %f, expected %f", i, min[i], expectMin[i])
		}
		if math.Abs(max[i]-expectMax[i]) > tol {
			t.Errorf("max[%d] = %f, expected %f", i, max[i], expectMax[i])
		}
	}
}

func TestExtrudeWithHole(t *testing.T) {
	k := NewWithCells(40)

	plain, err := k.Extrude([]kernel.Loop{square(0, 0, 30)}, 10)
	if err != nil {
		t.Fatalf("Extrude(plain) failed: %v", err)
	}
	plainMesh, err := k.ToMesh(plain)
	if err != nil {
		t.Fatalf("ToMesh(plain) failed: %v", err)
	}

	holed, err := k.Extrude([]kernel.Loop{square(0, 0, 30), reversed(square(10, 10, 10))}, 10)
	if err != nil {
		t.Fatalf("Extrude(holed) failed: %v", err)
	}
	holedMesh, err := k.ToMesh(holed)
	if err != nil {
		t.Fatalf("ToMesh(holed) failed: %v", err)
	}
	if holedMesh.IsEmpty() {
		t.Fatal("holed mesh is empty")
	}
	// A plate with a hole has inner walls the plain plate lacks.
	if holedMesh.TriangleCount() <= plainMesh.TriangleCount() {
		t.Fatalf("holed plate (%d triangles) should have more triangles than plain plate (%d triangles)",
			holedMesh.TriangleCount(), plainMesh.TriangleCount())
	}
	t.Logf("plain triangles: %d, holed triangles: %d", plainMesh.TriangleCount(), holedMesh.TriangleCount())
}

func TestExtrudeDisjointLoops(t *testing.T) {
	k := New()
	solid, err := k.Extrude([]kernel.Loop{square(0, 0, 5), square(20, 0, 5)}, 2)
	if err != nil {
		t.Fatalf("Extrude failed: %v", err)
	}
	min, max := solid.BoundingBox()
	if math.Abs(min[0]) > 0.01 || math.Abs(max[0]-25) > 0.01 {
		t.Errorf("X extent = [%f, %f], expected [0, 25]", min[0], max[0])
	}
}

func TestExtrudeErrors(t *testing.T) {
	k := New()
	tests := []struct {
		name   string
		loops  []kernel.Loop
		height float64
	}{
		{"no loops", nil, 1},
		{"zero height", []kernel.Loop{square(0, 0, 1)}, 0},
		{"degenerate loop", []kernel.Loop{{{0, 0}, {1, 1}}}, 1},
		{"only holes", []kernel.Loop{reversed(square(0, 0, 1))}, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := k.Extrude(tt.loops, tt.height)
			if !errors.Is(err, kernel.ErrInvalidProfile) {
				t.Errorf("Extrude() error = %v, want ErrInvalidProfile", err)
			}
		})
	}
}

func TestNewWithCells(t *testing.T) {
	if got := NewWithCells(0).Cells(); got != defaultMeshCells {
		t.Errorf("NewWithCells(0).Cells() = %d, want %d", got, defaultMeshCells)
	}
	if got := NewWithCells(64).Cells(); got != 64 {
		t.Errorf("NewWithCells(64).Cells() = %d, want 64", got)
	}
}
