package graph

import (
	"math"
	"strings"
	"testing"
)

// ---------------------------------------------------------------------------
// Test helpers for ValidationResult
// ---------------------------------------------------------------------------

// resultHasError returns true if result.Errors contains at least one entry
// whose Message contains substr.
func resultHasError(r ValidationResult, substr string) bool {
	for _, e := range r.Errors {
		if strings.Contains(e.Message, substr) {
			return true
		}
	}
	return false
}

// resultHasWarning returns true if result.Warnings contains at least one entry
// whose Message contains substr.
func resultHasWarning(r ValidationResult, substr string) bool {
	for _, w := range r.Warnings {
		if strings.Contains(w.Message, substr) {
			return true
		}
	}
	return false
}

// ---------------------------------------------------------------------------
// Tier 2: Geometric validation tests
// ---------------------------------------------------------------------------

// singleNodeGraph returns a graph whose only root is a node with data d.
func singleNodeGraph(kind NodeKind, d NodeData) *DesignGraph {
	g := New()
	id := NewNodeID("node/subject")
	g.AddNode(&Node{ID: id, Kind: kind, Name: "subject", Data: d})
	g.AddRoot(id)
	return g
}

func square(size float64) []Vec2 {
	return []Vec2{{0, 0}, {size, 0}, {size, size}, {0, size}}
}

func TestValidateAll_Polygons(t *testing.T) {
	nan := math.NaN()
	tests := []struct {
		name    string
		data    PolygonData
		errMsg  string
		warnMsg string
	}{
		{"valid", PolygonData{Thickness: 1e-10, Vertices: square(1)}, "", ""},
		{"zero thickness", PolygonData{Thickness: 0, Vertices: square(1)}, "must be positive", ""},
		{"negative thickness", PolygonData{Thickness: -1, Vertices: square(1)}, "must be positive", ""},
		{"nan thickness", PolygonData{Thickness: nan, Vertices: square(1)}, "must be positive", ""},
		{"two vertices", PolygonData{Thickness: 1e-10, Vertices: []Vec2{{0, 0}, {1, 1}}}, "need at least 3", ""},
		{"non-finite vertex", PolygonData{Thickness: 1e-10, Vertices: []Vec2{{0, 0}, {nan, 0}, {1, 1}}}, "not finite", ""},
		{"duplicate vertex", PolygonData{Thickness: 1e-10, Vertices: []Vec2{{0, 0}, {1, 0}, {1, 0}, {1, 1}}}, "", "coincide"},
		{"closing duplicate", PolygonData{Thickness: 1e-10, Vertices: []Vec2{{0, 0}, {1, 0}, {1, 1}, {0, 0}}}, "", "coincide"},
		{"clockwise", PolygonData{Thickness: 1e-10, Vertices: []Vec2{{0, 0}, {0, 1}, {1, 1}, {1, 0}}}, "", "clockwise"},
		{"collinear", PolygonData{Thickness: 1e-10, Vertices: []Vec2{{0, 0}, {1, 0}, {2, 0}}}, "", "no area"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := ValidateAll(singleNodeGraph(NodePolygon, tt.data))
			if tt.errMsg == "" && len(result.Errors) != 0 {
				t.Errorf("unexpected errors: %v", result.Errors)
			}
			if tt.errMsg != "" && !resultHasError(result, tt.errMsg) {
				t.Errorf("expected error containing %q, got %v", tt.errMsg, result.Errors)
			}
			if tt.warnMsg == "" && len(result.Warnings) != 0 {
				t.Errorf("unexpected warnings: %v", result.Warnings)
			}
			if tt.warnMsg != "" && !resultHasWarning(result, tt.warnMsg) {
				t.Errorf("expected warning containing %q, got %v", tt.warnMsg, result.Warnings)
			}
		})
	}
}

func TestValidateAll_Boxes(t *testing.T) {
	tests := []struct {
		name    string
		data    BoxData
		errMsg  string
		warnMsg string
	}{
		{"valid", BoxData{XMin: 0, XMax: 2, YMin: 0, YMax: 3}, "", ""},
		{"inverted x", BoxData{XMin: 2, XMax: 0, YMin: 0, YMax: 3}, "x-min", ""},
		{"inverted y", BoxData{XMin: 0, XMax: 2, YMin: 3, YMax: 0}, "y-min", ""},
		{"infinite", BoxData{XMin: math.Inf(-1), XMax: 2, YMin: 0, YMax: 3}, "finite", ""},
		{"flat", BoxData{XMin: 0, XMax: 2, YMin: 1, YMax: 1}, "", "zero extent"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := ValidateAll(singleNodeGraph(NodeBox, tt.data))
			if tt.errMsg == "" && len(result.Errors) != 0 {
				t.Errorf("unexpected errors: %v", result.Errors)
			}
			if tt.errMsg != "" && !resultHasError(result, tt.errMsg) {
				t.Errorf("expected error containing %q, got %v", tt.errMsg, result.Errors)
			}
			if tt.warnMsg != "" && !resultHasWarning(result, tt.warnMsg) {
				t.Errorf("expected warning containing %q, got %v", tt.warnMsg, result.Warnings)
			}
		})
	}
}

func TestValidateAll_Transforms(t *testing.T) {
	tests := []struct {
		name   string
		data   TransformData
		errMsg string
	}{
		{"identity", TransformData{}, ""},
		{"translate and rotate", TransformData{Translation: &Vec2{1, 2}, Rotation: 30}, ""},
		{"mirror", TransformData{Scale: &Vec2{-1, 1}}, ""},
		{"zero scale", TransformData{Scale: &Vec2{0, 1}}, "not invertible"},
		{"nan scale", TransformData{Scale: &Vec2{1, math.NaN()}}, "not invertible"},
		{"infinite translation", TransformData{Translation: &Vec2{math.Inf(1), 0}}, "translation must be finite"},
		{"nan rotation", TransformData{Rotation: math.NaN()}, "rotation must be finite"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := New()
			boxID := NewNodeID("box/inner")
			g.AddNode(&Node{ID: boxID, Kind: NodeBox, Data: BoxData{XMax: 1, YMax: 1}})
			id := NewNodeID("transform/subject")
			g.AddNode(&Node{ID: id, Kind: NodeTransform, Children: []NodeID{boxID}, Data: tt.data})
			g.AddRoot(id)

			result := ValidateAll(g)
			if tt.errMsg == "" && len(result.Errors) != 0 {
				t.Errorf("unexpected errors: %v", result.Errors)
			}
			if tt.errMsg != "" && !resultHasError(result, tt.errMsg) {
				t.Errorf("expected error containing %q, got %v", tt.errMsg, result.Errors)
			}
		})
	}
}

func TestValidateAll_DuplicateOperand(t *testing.T) {
	g := New()
	boxID := NewNodeID("box/a")
	diffID := NewNodeID("difference/a-a")
	g.AddNode(&Node{ID: boxID, Kind: NodeBox, Name: "a", Data: BoxData{XMax: 1, YMax: 1}})
	g.AddNode(&Node{ID: diffID, Kind: NodeBoolean, Children: []NodeID{boxID, boxID}, Data: BooleanData{Op: OpDifference}})
	g.AddRoot(diffID)

	result := ValidateAll(g)
	if !resultHasWarning(result, "more than once") {
		t.Errorf("expected duplicate operand warning, got %v", result.Warnings)
	}
	if len(result.Errors) != 0 {
		t.Errorf("unexpected errors: %v", result.Errors)
	}
}

func TestValidateAll_OrphanBecomesWarning(t *testing.T) {
	g := buildValidScene()
	orphanID := NewNodeID("box/orphan")
	g.AddNode(&Node{ID: orphanID, Kind: NodeBox, Name: "orphan", Data: BoxData{XMax: 1, YMax: 1}})

	result := ValidateAll(g)
	if len(result.Errors) != 0 {
		t.Errorf("unexpected errors: %v", result.Errors)
	}
	if !resultHasWarning(result, "orphan") {
		t.Error("tier 1 warnings should be moved into Warnings")
	}
}

func TestValidateAll_ValidGraph(t *testing.T) {
	result := ValidateAll(buildValidScene())
	if len(result.Errors) != 0 {
		t.Errorf("unexpected errors: %v", result.Errors)
	}
	if len(result.Warnings) != 0 {
		t.Errorf("unexpected warnings: %v", result.Warnings)
	}
}

func TestValidateAll_EmptyGraph(t *testing.T) {
	result := ValidateAll(New())
	if len(result.Errors) != 0 || len(result.Warnings) != 0 {
		t.Errorf("empty graph should validate cleanly, got %+v", result)
	}
}
