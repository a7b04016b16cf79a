package engine

import (
	"fmt"
	"strings"

	"github.com/chazu/bspregion/pkg/graph"
	zygo "github.com/glycerine/zygomys/zygo"
)

// ---------------------------------------------------------------------------
// Source preprocessing
// ---------------------------------------------------------------------------

// preprocessSource transforms region script source code before passing it
// to zygomys. It performs two transformations:
//
//  1. Keyword conversion: :keyword -> "__kw_keyword" (string literal)
//     This avoids the need to register keyword symbols as globals, which
//     would conflict with user-defined variables of the same name.
//
//  2. Kebab-case to underscore: set-thickness -> set_thickness
//     zygomys does not allow hyphens in identifiers (it interprets them
//     as the subtraction operator). This converts kebab-case identifiers
//     to underscore form outside of strings and comments.
//
// Both transformations respect string literal boundaries and line comments.
func preprocessSource(source string) string {
	result := make([]byte, 0, len(source)+len(source)/4)
	b := []byte(source)
	i := 0
	for i < len(b) {
		// Skip double-quoted string literals.
		if b[i] == '"' {
			result = append(result, b[i])
			i++
			for i < len(b) && b[i] != '"' {
				if b[i] == '\\' && i+1 < len(b) {
					result = append(result, b[i], b[i+1])
					i += 2
					continue
				}
				result = append(result, b[i])
				i++
			}
			if i < len(b) {
				result = append(result, b[i])
				i++
			}
			continue
		}
		// Skip backtick-quoted string literals.
		if b[i] == '`' {
			result = append(result, b[i])
			i++
			for i < len(b) && b[i] != '`' {
				result = append(result, b[i])
				i++
			}
			if i < len(b) {
				result = append(result, b[i])
				i++
			}
			continue
		}
		// Convert ; line comments to // comments for zygomys.
		// zygomys uses // for line comments, not the traditional Lisp ;.
		if b[i] == ';' {
			result = append(result, '/', '/')
			i++
			// Skip additional ; characters (;; style).
			for i < len(b) && b[i] == ';' {
				i++
			}
			for i < len(b) && b[i] != '\n' {
				result = append(result, b[i])
				i++
			}
			continue
		}
		// Transform :keyword to "__kw_keyword".
		if b[i] == ':' && i+1 < len(b) {
			// Preserve := (assignment operator).
			if b[i+1] == '=' {
				result = append(result, b[i], b[i+1])
				i += 2
				continue
			}
			// Check for keyword: colon followed by a letter.
			if isLetter(b[i+1]) {
				j := i + 1
				for j < len(b) && isKWChar(b[j]) {
					j++
				}
				kwName := string(b[i+1 : j])
				result = append(result, '"')
				result = append(result, []byte(kwPrefix)...)
				result = append(result, []byte(kwName)...)
				result = append(result, '"')
				i = j
				continue
			}
		}
		// Transform kebab-case identifiers: alpha-alpha -> alpha_alpha.
		// Only when hyphen sits between identifier characters (not a minus operator).
		if b[i] == '-' && i > 0 && i+1 < len(b) &&
			isIdentChar(b[i-1]) && isIdentStartChar(b[i+1]) {
			result = append(result, '_')
			i++
			continue
		}
		result = append(result, b[i])
		i++
	}
	return string(result)
}

func isLetter(c byte) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

func isKWChar(c byte) bool {
	return isLetter(c) || (c >= '0' && c <= '9') || c == '-' || c == '_'
}

func isIdentChar(c byte) bool {
	return isLetter(c) || (c >= '0' && c <= '9') || c == '_'
}

func isIdentStartChar(c byte) bool {
	return isLetter(c)
}

// ---------------------------------------------------------------------------
// Custom Sexp types for passing Go values through the zygomys environment
// ---------------------------------------------------------------------------

// sexpNodeRef wraps a graph.NodeID so it can be passed between builtins.
type sexpNodeRef struct {
	id   graph.NodeID
	kind graph.NodeKind
	name string // human-readable name for error messages
}

func (n *sexpNodeRef) SexpString(ps *zygo.PrintState) string {
	if n.name != "" {
		return fmt.Sprintf("(%s %q)", n.kind, n.name)
	}
	return fmt.Sprintf("(%s %s)", n.kind, n.id.Short())
}
func (n *sexpNodeRef) Type() *zygo.RegisteredType { return nil }

// sexpVec wraps a graph.Vec2.
type sexpVec struct {
	vec graph.Vec2
}

func (v *sexpVec) SexpString(ps *zygo.PrintState) string {
	return fmt.Sprintf("(vec %g %g)", v.vec.X, v.vec.Y)
}
func (v *sexpVec) Type() *zygo.RegisteredType { return nil }

// ---------------------------------------------------------------------------
// Keyword argument parsing
// ---------------------------------------------------------------------------

// kwPrefix is the marker prepended to keyword names by preprocessSource.
const kwPrefix = "__kw_"

// isKW checks if a Sexp is a preprocessed keyword string.
// Returns the keyword name (without prefix) and true if it is.
func isKW(s zygo.Sexp) (string, bool) {
	str, ok := s.(*zygo.SexpStr)
	if !ok {
		return "", false
	}
	if strings.HasPrefix(str.S, kwPrefix) {
		return str.S[len(kwPrefix):], true
	}
	return "", false
}

// kwArgs holds the result of parsing a mixed positional+keyword argument list.
type kwArgs struct {
	kw         map[string]zygo.Sexp
	positional []zygo.Sexp
}

// parseArgs separates args into keyword and positional arguments.
// Keywords are identified by the __kw_ prefix added during preprocessing.
func parseArgs(args []zygo.Sexp) kwArgs {
	result := kwArgs{kw: make(map[string]zygo.Sexp)}
	i := 0
	for i < len(args) {
		name, ok := isKW(args[i])
		if ok {
			if i+1 < len(args) {
				result.kw[name] = args[i+1]
				i += 2
			} else {
				// Keyword at end with no value: treat as flag with nil.
				result.kw[name] = zygo.SexpNull
				i++
			}
		} else {
			result.positional = append(result.positional, args[i])
			i++
		}
	}
	return result
}

// ---------------------------------------------------------------------------
// Value extraction helpers
// ---------------------------------------------------------------------------

// toFloat64 extracts a float64 from a Sexp (SexpInt or SexpFloat).
func toFloat64(s zygo.Sexp) (float64, error) {
	switch v := s.(type) {
	case *zygo.SexpInt:
		return float64(v.Val), nil
	case *zygo.SexpFloat:
		return v.Val, nil
	}
	return 0, fmt.Errorf("expected number, got %T (%s)", s, s.SexpString(nil))
}

// toString extracts a string from a Sexp.
func toString(s zygo.Sexp) (string, error) {
	if str, ok := s.(*zygo.SexpStr); ok {
		return str.S, nil
	}
	return "", fmt.Errorf("expected string, got %T (%s)", s, s.SexpString(nil))
}

// toKeywordString extracts a keyword name or plain string from a Sexp.
// Handles both preprocessed keywords (__kw_z) and plain strings ("z").
func toKeywordString(s zygo.Sexp) (string, error) {
	str, ok := s.(*zygo.SexpStr)
	if !ok {
		return "", fmt.Errorf("expected keyword or string, got %T (%s)", s, s.SexpString(nil))
	}
	if strings.HasPrefix(str.S, kwPrefix) {
		return str.S[len(kwPrefix):], nil
	}
	return str.S, nil
}

// toNodeRef extracts a NodeID from a sexpNodeRef.
func toNodeRef(s zygo.Sexp) (graph.NodeID, error) {
	if ref, ok := s.(*sexpNodeRef); ok {
		return ref.id, nil
	}
	return graph.ZeroID, fmt.Errorf("expected region reference, got %T (%s)", s, s.SexpString(nil))
}

// toNodeRefs extracts a NodeID from every element of args.
func toNodeRefs(args []zygo.Sexp) ([]graph.NodeID, error) {
	ids := make([]graph.NodeID, 0, len(args))
	for i, a := range args {
		id, err := toNodeRef(a)
		if err != nil {
			return nil, fmt.Errorf("operand %d: %w", i+1, err)
		}
		ids = append(ids, id)
	}
	return ids, nil
}

// toVec extracts a Vec2 from a sexpVec.
func toVec(s zygo.Sexp) (graph.Vec2, error) {
	if v, ok := s.(*sexpVec); ok {
		return v.vec, nil
	}
	return graph.Vec2{}, fmt.Errorf("expected vec, got %T (%s)", s, s.SexpString(nil))
}

// toVecOrPair reads either one vec or two numbers from args.
func toVecOrPair(args []zygo.Sexp) (graph.Vec2, error) {
	switch len(args) {
	case 1:
		return toVec(args[0])
	case 2:
		x, err := toFloat64(args[0])
		if err != nil {
			return graph.Vec2{}, err
		}
		y, err := toFloat64(args[1])
		if err != nil {
			return graph.Vec2{}, err
		}
		return graph.Vec2{X: x, Y: y}, nil
	}
	return graph.Vec2{}, fmt.Errorf("expected a vec or two numbers, got %d arguments", len(args))
}

// sexpListToSlice converts a SexpPair (Lisp list) or SexpArray to a Go slice.
func sexpListToSlice(s zygo.Sexp) ([]zygo.Sexp, error) {
	switch v := s.(type) {
	case *zygo.SexpPair:
		return zygo.ListToArray(v)
	case *zygo.SexpArray:
		return v.Val, nil
	case *zygo.SexpSentinel:
		if v == zygo.SexpNull {
			return nil, nil
		}
	}
	return nil, fmt.Errorf("expected list or array, got %T", s)
}


// ---------------------------------------------------------------------------
// Node construction
// ---------------------------------------------------------------------------

// builder populates a DesignGraph from builtin calls. Anonymous nodes are
// numbered per evaluation, so equal sources give equal node IDs.
type builder struct {
	g    *graph.DesignGraph
	anon int
}

func (b *builder) nodeID(kind graph.NodeKind, name string) graph.NodeID {
	if name != "" {
		return graph.NewNodeID(kind.String() + "/" + name)
	}
	b.anon++
	return graph.NewNodeID(fmt.Sprintf("%s/_anon_%d", kind, b.anon))
}

// add hashes n and stores it. Names are unique within a graph.
func (b *builder) add(n *graph.Node) (*sexpNodeRef, error) {
	if n.Name != "" {
		if _, dup := b.g.NameIndex[n.Name]; dup {
			return nil, fmt.Errorf("name %q is already defined", n.Name)
		}
	}
	n.ContentHash = graph.HashContent(n)
	b.g.AddNode(n)
	log.Debugf("added %s node %s", n.Kind, n.DisplayName())
	return &sexpNodeRef{id: n.ID, kind: n.Kind, name: n.Name}, nil
}

// leadingName pops an optional leading name string off the positional
// arguments. A :name keyword takes precedence.
func leadingName(pa kwArgs) (string, []zygo.Sexp, error) {
	if v, ok := pa.kw["name"]; ok {
		name, err := toKeywordString(v)
		return name, pa.positional, err
	}
	if len(pa.positional) > 0 {
		if str, ok := pa.positional[0].(*zygo.SexpStr); ok {
			return str.S, pa.positional[1:], nil
		}
	}
	return "", pa.positional, nil
}

func (b *builder) transform(fn string, args []zygo.Sexp, fill func(td *graph.TransformData, rest []zygo.Sexp) error) (zygo.Sexp, error) {
	pa := parseArgs(args)
	name, rest, err := leadingName(pa)
	if err != nil {
		return zygo.SexpNull, fmt.Errorf("%s: name: %w", fn, err)
	}
	if len(rest) < 2 {
		return zygo.SexpNull, fmt.Errorf("%s requires a region reference and an amount", fn)
	}
	child, err := toNodeRef(rest[0])
	if err != nil {
		return zygo.SexpNull, fmt.Errorf("%s: %w", fn, err)
	}

	var td graph.TransformData
	if err := fill(&td, rest[1:]); err != nil {
		return zygo.SexpNull, fmt.Errorf("%s: %w", fn, err)
	}

	ref, err := b.add(&graph.Node{
		ID:       b.nodeID(graph.NodeTransform, name),
		Kind:     graph.NodeTransform,
		Name:     name,
		Children: []graph.NodeID{child},
		Data:     td,
	})
	if err != nil {
		return zygo.SexpNull, fmt.Errorf("%s: %w", fn, err)
	}
	return ref, nil
}

func (b *builder) boolean(op graph.BoolOp, args []zygo.Sexp) (zygo.Sexp, error) {
	pa := parseArgs(args)
	name, rest, err := leadingName(pa)
	if err != nil {
		return zygo.SexpNull, fmt.Errorf("%s: name: %w", op, err)
	}

	if !op.Accepts(len(rest)) {
		return zygo.SexpNull, fmt.Errorf("%s: got %d operands, %s", op, len(rest), op.ArityText())
	}
	children, err := toNodeRefs(rest)
	if err != nil {
		return zygo.SexpNull, fmt.Errorf("%s: %w", op, err)
	}

	ref, err := b.add(&graph.Node{
		ID:       b.nodeID(graph.NodeBoolean, name),
		Kind:     graph.NodeBoolean,
		Name:     name,
		Children: children,
		Data:     graph.BooleanData{Op: op},
	})
	if err != nil {
		return zygo.SexpNull, fmt.Errorf("%s: %w", op, err)
	}
	return ref, nil
}

// ---------------------------------------------------------------------------
// Builtin registration
// ---------------------------------------------------------------------------

// registerBuiltins installs the region DSL builtins into a zygomys
// environment. The builtins operate on the provided DesignGraph, populating
// it during evaluation.
//
// Source code must be preprocessed with preprocessSource() before evaluation so
// that :keyword tokens are converted to recognizable string literals.
func registerBuiltins(env *zygo.Zlisp, g *graph.DesignGraph) {
	b := &builder{g: g}

	// -----------------------------------------------------------------------
	// (vec 1 2)
	// -----------------------------------------------------------------------
	env.AddFunction("vec", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		if len(args) != 2 {
			return zygo.SexpNull, fmt.Errorf("vec requires exactly 2 arguments, got %d", len(args))
		}

		x, err := toFloat64(args[0])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("vec: x: %w", err)
		}
		y, err := toFloat64(args[1])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("vec: y: %w", err)
		}

		return &sexpVec{vec: graph.Vec2{X: x, Y: y}}, nil
	})

	// -----------------------------------------------------------------------
	// (set-thickness 1e-6)
	//
	// Note: registered as "set_thickness" because zygomys does not support
	// hyphens in identifiers. The preprocessor converts set-thickness to
	// set_thickness in the source.
	// -----------------------------------------------------------------------
	env.AddFunction("set_thickness", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		if len(args) != 1 {
			return zygo.SexpNull, fmt.Errorf("set-thickness requires exactly 1 argument, got %d", len(args))
		}
		t, err := toFloat64(args[0])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("set-thickness: %w", err)
		}
		if t <= 0 {
			return zygo.SexpNull, fmt.Errorf("set-thickness: thickness %g must be positive", t)
		}
		g.Defaults.Thickness = t
		return zygo.SexpNull, nil
	})

	// -----------------------------------------------------------------------
	// (polygon "name" :thickness 1e-10 (vec 0 0) (vec 1 0) (vec 1 1))
	// (polygon "name" (list (vec 0 0) (vec 1 0) (vec 1 1)))
	// -----------------------------------------------------------------------
	env.AddFunction("polygon", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		pa := parseArgs(args)
		polyName, rest, err := leadingName(pa)
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("polygon: name: %w", err)
		}

		pd := graph.PolygonData{Thickness: g.Defaults.Thickness}
		if v, ok := pa.kw["thickness"]; ok {
			f, err := toFloat64(v)
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("polygon: thickness: %w", err)
			}
			pd.Thickness = f
		}

		if len(rest) == 1 {
			if _, isVec := rest[0].(*sexpVec); !isVec {
				items, err := sexpListToSlice(rest[0])
				if err != nil {
					return zygo.SexpNull, fmt.Errorf("polygon: vertices: %w", err)
				}
				rest = items
			}
		}
		for i, item := range rest {
			v, err := toVec(item)
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("polygon: vertex %d: %w", i+1, err)
			}
			pd.Vertices = append(pd.Vertices, v)
		}
		if len(pd.Vertices) < 3 {
			return zygo.SexpNull, fmt.Errorf("polygon: need at least 3 vertices, got %d", len(pd.Vertices))
		}

		ref, err := b.add(&graph.Node{
			ID:   b.nodeID(graph.NodePolygon, polyName),
			Kind: graph.NodePolygon,
			Name: polyName,
			Data: pd,
		})
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("polygon: %w", err)
		}
		return ref, nil
	})

	// -----------------------------------------------------------------------
	// (box "name" :x-min 0 :x-max 2 :y-min 0 :y-max 3)
	// -----------------------------------------------------------------------
	env.AddFunction("box", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		pa := parseArgs(args)
		boxName, _, err := leadingName(pa)
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("box: name: %w", err)
		}

		var bd graph.BoxData
		for _, field := range []struct {
			kw  string
			dst *float64
		}{
			{"x-min", &bd.XMin},
			{"x-max", &bd.XMax},
			{"y-min", &bd.YMin},
			{"y-max", &bd.YMax},
		} {
			v, ok := pa.kw[field.kw]
			if !ok {
				return zygo.SexpNull, fmt.Errorf("box: missing :%s", field.kw)
			}
			f, err := toFloat64(v)
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("box: %s: %w", field.kw, err)
			}
			*field.dst = f
		}

		ref, err := b.add(&graph.Node{
			ID:   b.nodeID(graph.NodeBox, boxName),
			Kind: graph.NodeBox,
			Name: boxName,
			Data: bd,
		})
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("box: %w", err)
		}
		return ref, nil
	})

	// -----------------------------------------------------------------------
	// (region "name")
	// -----------------------------------------------------------------------
	env.AddFunction("region", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		if len(args) != 1 {
			return zygo.SexpNull, fmt.Errorf("region requires a name argument")
		}

		regionName, err := toKeywordString(args[0])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("region: name: %w", err)
		}

		n := g.Lookup(regionName)
		if n == nil {
			return zygo.SexpNull, fmt.Errorf("region: no region named %q", regionName)
		}

		return &sexpNodeRef{id: n.ID, kind: n.Kind, name: regionName}, nil
	})

	// -----------------------------------------------------------------------
	// (translate ref (vec 1 2)) or (translate ref 1 2)
	// -----------------------------------------------------------------------
	env.AddFunction("translate", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		return b.transform("translate", args, func(td *graph.TransformData, rest []zygo.Sexp) error {
			v, err := toVecOrPair(rest)
			if err != nil {
				return err
			}
			td.Translation = &v
			return nil
		})
	})

	// -----------------------------------------------------------------------
	// (rotate ref 90), angle in degrees counter-clockwise about the origin
	// -----------------------------------------------------------------------
	env.AddFunction("rotate", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		return b.transform("rotate", args, func(td *graph.TransformData, rest []zygo.Sexp) error {
			if len(rest) != 1 {
				return fmt.Errorf("expected one angle, got %d arguments", len(rest))
			}
			deg, err := toFloat64(rest[0])
			if err != nil {
				return err
			}
			td.Rotation = deg
			return nil
		})
	})

	// -----------------------------------------------------------------------
	// (scale ref 2), (scale ref (vec 2 3)) or (scale ref 2 3)
	// -----------------------------------------------------------------------
	env.AddFunction("scale", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		return b.transform("scale", args, func(td *graph.TransformData, rest []zygo.Sexp) error {
			if len(rest) == 1 {
				if k, err := toFloat64(rest[0]); err == nil {
					td.Scale = &graph.Vec2{X: k, Y: k}
					return nil
				}
			}
			v, err := toVecOrPair(rest)
			if err != nil {
				return err
			}
			td.Scale = &v
			return nil
		})
	})

	// -----------------------------------------------------------------------
	// (union a b ...), (intersection a b ...), (difference a b), (xor a b),
	// (complement a); each accepts :name "n" or a leading name string
	// -----------------------------------------------------------------------
	for _, op := range []graph.BoolOp{
		graph.OpUnion,
		graph.OpIntersection,
		graph.OpDifference,
		graph.OpXor,
		graph.OpComplement,
	} {
		env.AddFunction(op.String(), func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
			return b.boolean(op, args)
		})
	}

	// -----------------------------------------------------------------------
	// (scene "name" :description "..." ref ...)
	// -----------------------------------------------------------------------
	env.AddFunction("scene", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		pa := parseArgs(args)
		sceneName, rest, err := leadingName(pa)
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("scene: name: %w", err)
		}
		if sceneName == "" {
			return zygo.SexpNull, fmt.Errorf("scene requires a name argument")
		}

		gd := graph.GroupData{}
		if v, ok := pa.kw["description"]; ok {
			s, err := toString(v)
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("scene: description: %w", err)
			}
			gd.Description = s
		}

		var children []graph.NodeID
		for i, arg := range rest {
			ref, ok := arg.(*sexpNodeRef)
			if !ok {
				return zygo.SexpNull, fmt.Errorf("scene: child %d: expected region reference, got %T (%s)",
					i+1, arg, arg.SexpString(nil))
			}
			children = append(children, ref.id)
		}

		ref, err := b.add(&graph.Node{
			ID:       b.nodeID(graph.NodeGroup, sceneName),
			Kind:     graph.NodeGroup,
			Name:     sceneName,
			Children: children,
			Data:     gd,
		})
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("scene: %w", err)
		}
		g.AddRoot(ref.id)

		return ref, nil
	})
}
