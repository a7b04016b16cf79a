package graph

import (
	"fmt"
	"math"
)

// ---------------------------------------------------------------------------
// Tier 2: Geometric validation (errors + warnings)
// ---------------------------------------------------------------------------

// validateGeometry runs all Tier 2 geometric checks.
// Returns errors (blocking) and warnings (advisory) separately.
func validateGeometry(g *DesignGraph) ([]ValidationError, []ValidationWarning) {
	var errs []ValidationError
	var warnings []ValidationWarning

	polyErrs, polyWarnings := validatePolygons(g)
	errs = append(errs, polyErrs...)
	warnings = append(warnings, polyWarnings...)

	boxErrs, boxWarnings := validateBoxes(g)
	errs = append(errs, boxErrs...)
	warnings = append(warnings, boxWarnings...)

	errs = append(errs, validateTransforms(g)...)
	warnings = append(warnings, validateDuplicateOperands(g)...)

	return errs, warnings
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

// validatePolygons checks thickness and vertex lists of polygon nodes.
func validatePolygons(g *DesignGraph) ([]ValidationError, []ValidationWarning) {
	var errs []ValidationError
	var warnings []ValidationWarning

	for _, node := range g.Nodes {
		pd, ok := node.Data.(PolygonData)
		if !ok {
			continue
		}

		if !finite(pd.Thickness) || pd.Thickness <= 0 {
			errs = append(errs, ValidationError{
				NodeID:   node.ID,
				Message:  fmt.Sprintf("polygon thickness is %g, must be positive", pd.Thickness),
				Severity: SeverityError,
			})
		}
		if len(pd.Vertices) < 3 {
			errs = append(errs, ValidationError{
				NodeID:   node.ID,
				Message:  fmt.Sprintf("polygon has %d vertices, need at least 3", len(pd.Vertices)),
				Severity: SeverityError,
			})
			continue
		}

		bad := false
		for i, v := range pd.Vertices {
			if !finite(v.X) || !finite(v.Y) {
				errs = append(errs, ValidationError{
					NodeID:   node.ID,
					Message:  fmt.Sprintf("polygon vertex %d (%g, %g) is not finite", i, v.X, v.Y),
					Severity: SeverityError,
				})
				bad = true
			}
		}
		if bad {
			continue
		}

		n := len(pd.Vertices)
		for i, v := range pd.Vertices {
			next := pd.Vertices[(i+1)%n]
			if v == next {
				warnings = append(warnings, ValidationWarning{
					NodeID:  node.ID,
					Message: fmt.Sprintf("polygon vertices %d and %d coincide at (%g, %g)", i, (i+1)%n, v.X, v.Y),
				})
			}
		}

		switch area := pd.SignedArea(); {
		case area < 0:
			warnings = append(warnings, ValidationWarning{
				NodeID:  node.ID,
				Message: fmt.Sprintf("polygon %q is clockwise and describes the unbounded outside of its loop", node.DisplayName()),
			})
		case area == 0:
			warnings = append(warnings, ValidationWarning{
				NodeID:  node.ID,
				Message: fmt.Sprintf("polygon %q encloses no area", node.DisplayName()),
			})
		}
	}

	return errs, warnings
}

// validateBoxes checks that box extents are finite and ordered.
func validateBoxes(g *DesignGraph) ([]ValidationError, []ValidationWarning) {
	var errs []ValidationError
	var warnings []ValidationWarning

	for _, node := range g.Nodes {
		bd, ok := node.Data.(BoxData)
		if !ok {
			continue
		}

		if !finite(bd.XMin) || !finite(bd.XMax) || !finite(bd.YMin) || !finite(bd.YMax) {
			errs = append(errs, ValidationError{
				NodeID:   node.ID,
				Message:  "box extents must be finite",
				Severity: SeverityError,
			})
			continue
		}
		if bd.XMin > bd.XMax {
			errs = append(errs, ValidationError{
				NodeID:   node.ID,
				Message:  fmt.Sprintf("box x-min %g exceeds x-max %g", bd.XMin, bd.XMax),
				Severity: SeverityError,
			})
		}
		if bd.YMin > bd.YMax {
			errs = append(errs, ValidationError{
				NodeID:   node.ID,
				Message:  fmt.Sprintf("box y-min %g exceeds y-max %g", bd.YMin, bd.YMax),
				Severity: SeverityError,
			})
		}
		if bd.XMin == bd.XMax || bd.YMin == bd.YMax {
			warnings = append(warnings, ValidationWarning{
				NodeID:  node.ID,
				Message: fmt.Sprintf("box %q has zero extent and is empty", node.DisplayName()),
			})
		}
	}

	return errs, warnings
}

// validateTransforms checks that transforms are finite and invertible.
func validateTransforms(g *DesignGraph) []ValidationError {
	var errs []ValidationError

	for _, node := range g.Nodes {
		td, ok := node.Data.(TransformData)
		if !ok {
			continue
		}

		if td.Translation != nil && (!finite(td.Translation.X) || !finite(td.Translation.Y)) {
			errs = append(errs, ValidationError{
				NodeID:   node.ID,
				Message:  "translation must be finite",
				Severity: SeverityError,
			})
		}
		if !finite(td.Rotation) {
			errs = append(errs, ValidationError{
				NodeID:   node.ID,
				Message:  "rotation must be finite",
				Severity: SeverityError,
			})
		}
		if td.Scale != nil {
			sx, sy := td.Scale.X, td.Scale.Y
			if !finite(sx) || !finite(sy) || sx == 0 || sy == 0 {
				errs = append(errs, ValidationError{
					NodeID:   node.ID,
					Message:  fmt.Sprintf("scale (%g, %g) is not invertible", sx, sy),
					Severity: SeverityError,
				})
			}
		}
	}

	return errs
}

// validateDuplicateOperands warns when a boolean uses the same operand
// twice, which makes difference and xor empty.
func validateDuplicateOperands(g *DesignGraph) []ValidationWarning {
	var warnings []ValidationWarning

	for _, node := range g.Nodes {
		bd, ok := node.Data.(BooleanData)
		if !ok {
			continue
		}

		seen := make(map[NodeID]bool, len(node.Children))
		for _, cid := range node.Children {
			if seen[cid] {
				warnings = append(warnings, ValidationWarning{
					NodeID:  node.ID,
					Message: fmt.Sprintf("%s uses operand %s more than once", bd.Op, cid.Short()),
				})
				break
			}
			seen[cid] = true
		}
	}

	return warnings
}
