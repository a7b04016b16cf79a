package main

import (
	"github.com/chazu/bspregion/pkg/engine"
	"github.com/chazu/bspregion/pkg/kernel"
	"github.com/chazu/bspregion/pkg/tessellate"
)

// colorPalette is a default palette used to assign distinct colors to regions.
var colorPalette = []string{
	"#4A90D9", "#E67E22", "#2ECC71", "#9B59B6",
	"#E74C3C", "#1ABC9C", "#F39C12", "#3498DB",
}

// App runs the whole pipeline: script, design graph, regions, meshes.
type App struct {
	engine *engine.Engine
	kernel kernel.Kernel
	height float64
}

// MeshData is the JSON mesh format written by the mesh command.
type MeshData struct {
	Vertices []float32 `json:"vertices"`
	Normals  []float32 `json:"normals"`
	Indices  []uint32  `json:"indices"`
	Region   string    `json:"region"`
	Color    string    `json:"color"`
}

// Diagnostic is a JSON error or warning.
type Diagnostic struct {
	Line    int    `json:"line"`
	Col     int    `json:"col"`
	Message string `json:"message"`
}

// Result is the full output of one pipeline run.
type Result struct {
	Meshes   []MeshData   `json:"meshes"`
	Errors   []Diagnostic `json:"errors"`
	Warnings []Diagnostic `json:"warnings"`
}

// NewApp creates an App extruding regions to height with k.
func NewApp(eng *engine.Engine, k kernel.Kernel, height float64) *App {
	return &App{engine: eng, kernel: k, height: height}
}

// Evaluate takes script source and returns mesh data plus diagnostics.
// Failures never escape as Go errors; they are reported in Result.Errors.
func (a *App) Evaluate(source string) Result {
	result := Result{
		Meshes:   []MeshData{},
		Errors:   []Diagnostic{},
		Warnings: []Diagnostic{},
	}

	res, err := a.engine.EvaluateAndValidate(source)
	if err != nil {
		// timeout or interpreter panic
		log.Errorf("evaluate: %v", err)
		result.Errors = append(result.Errors, Diagnostic{Message: err.Error()})
		return result
	}

	for _, w := range res.Warnings {
		result.Warnings = append(result.Warnings, Diagnostic{Line: w.Line, Col: w.Col, Message: w.Message})
	}
	if len(res.Errors) > 0 {
		for _, e := range res.Errors {
			result.Errors = append(result.Errors, Diagnostic{Line: e.Line, Col: e.Col, Message: e.Message})
		}
		return result
	}

	meshes, err := tessellate.Tessellate(res.Graph, a.kernel, a.height)
	if err != nil {
		log.Errorf("tessellate: %v", err)
		result.Errors = append(result.Errors, Diagnostic{Message: "tessellation failed: " + err.Error()})
		return result
	}

	for i, m := range meshes {
		result.Meshes = append(result.Meshes, MeshData{
			Vertices: m.Vertices,
			Normals:  m.Normals,
			Indices:  m.Indices,
			Region:   m.Region,
			Color:    colorPalette[i%len(colorPalette)],
		})
	}
	return result
}
