// Package engine provides the script evaluation engine for region designs.
// It wraps zygomys in a sandboxed environment and produces a DesignGraph
// from user source code.
package engine

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/chazu/bspregion/pkg/graph"
	zygo "github.com/glycerine/zygomys/zygo"
	logging "github.com/op/go-logging"
)

var log = logging.MustGetLogger("engine")

// EvalError represents a non-fatal error encountered during evaluation,
// such as a parse error or a runtime error in user code.
type EvalError struct {
	Line    int
	Col     int
	Message string
}

func (e EvalError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("line %d: %s", e.Line, e.Message)
	}
	return e.Message
}

// EvalWarning represents a non-fatal warning produced during evaluation.
type EvalWarning struct {
	Line    int
	Col     int
	Message string
	NodeID  graph.NodeID
}

// EvalResult bundles the full output of an evaluation: the graph, blocking
// errors and advisory warnings from validation.
type EvalResult struct {
	Graph    *graph.DesignGraph
	Errors   []EvalError
	Warnings []EvalWarning
}

// Engine wraps the zygomys interpreter for region scripts.
// It is safe for concurrent use; each call to Evaluate creates a fresh
// sandboxed environment for determinism.
type Engine struct {
	mu         sync.Mutex
	generation uint64
	thickness  float64
	timeout    time.Duration
}

// NewEngine creates a new Engine instance.
func NewEngine() *Engine {
	return &Engine{thickness: graph.DefaultThickness, timeout: EvalTimeout}
}

// SetThickness changes the polygon thickness used when a script gives
// none. Non-positive values are ignored.
func (e *Engine) SetThickness(t float64) {
	if t <= 0 {
		return
	}
	e.mu.Lock()
	e.thickness = t
	e.mu.Unlock()
}

// Evaluate takes script source code and produces a new DesignGraph.
// Each call creates a fresh zygomys sandbox for deterministic evaluation.
//
// Return semantics:
//   - On success: returns graph + nil errors + nil error
//   - On parse/eval failure: returns nil graph + eval errors + nil error
//   - On fatal failure (timeout, panic): returns nil + nil + error
func (e *Engine) Evaluate(source string) (*graph.DesignGraph, []EvalError, error) {
	e.mu.Lock()
	e.generation++
	gen := e.generation
	thickness := e.thickness
	limit := e.timeout
	e.mu.Unlock()

	ch := make(chan evalResult, 1)

	go func() {
		defer func() {
			if r := recover(); r != nil {
				ch <- evalResult{err: fmt.Errorf("panic during evaluation: %v", r)}
			}
		}()

		g, evalErrs, err := evaluate(source, thickness)
		ch <- evalResult{graph: g, errors: evalErrs, err: err}
	}()

	return waitWithTimeout(ch, gen, &e.mu, &e.generation, limit)
}

// EvaluateAndValidate evaluates source and runs every validation tier on
// the resulting graph. The graph is only returned when there are no errors.
func (e *Engine) EvaluateAndValidate(source string) (*EvalResult, error) {
	g, evalErrs, err := e.Evaluate(source)
	if err != nil {
		return nil, err
	}
	if len(evalErrs) > 0 {
		return &EvalResult{Errors: evalErrs}, nil
	}

	res := &EvalResult{}
	vr := graph.ValidateAll(g)
	for _, ve := range vr.Errors {
		res.Errors = append(res.Errors, EvalError{Message: ve.Error()})
	}
	for _, vw := range vr.Warnings {
		log.Warningf("validation: %s", vw.Message)
		res.Warnings = append(res.Warnings, EvalWarning{Message: vw.Message, NodeID: vw.NodeID})
	}
	if len(res.Errors) == 0 {
		res.Graph = g
	}
	return res, nil
}

// evaluate performs the actual zygomys evaluation in a fresh sandbox.
func evaluate(source string, thickness float64) (*graph.DesignGraph, []EvalError, error) {
	g := graph.New()
	g.Defaults.Thickness = thickness

	// Empty source is a valid program that produces an empty graph.
	if strings.TrimSpace(source) == "" {
		return g, nil, nil
	}

	// Sandbox mode prevents user code from accessing the filesystem or syscalls.
	env := zygo.NewZlispSandbox()
	defer env.Stop()

	registerBuiltins(env, g)

	// Load and compile the source string into bytecode.
	err := env.LoadString(preprocessSource(source))
	if err != nil {
		evalErrs := parseZygomysError(err)
		return nil, evalErrs, nil
	}

	// Execute the compiled bytecode.
	_, err = env.Run()
	if err != nil {
		evalErrs := parseZygomysError(err)
		return nil, evalErrs, nil
	}

	log.Debugf("evaluated %d nodes, %d roots", g.NodeCount(), len(g.Roots))
	return g, nil, nil
}

// linePattern matches zygomys error messages that include "Error on line N: ..."
var linePattern = regexp.MustCompile(`(?i)(?:error )?on line (\d+):\s*(.*)`)

// linePatternShort matches simpler "line N: ..." patterns.
var linePatternShort = regexp.MustCompile(`(?i)^line (\d+):\s*(.*)`)

// parseZygomysError converts a zygomys error into one or more EvalError values.
// It attempts to extract line number information from the error message.
func parseZygomysError(err error) []EvalError {
	msg := err.Error()

	// zygomys formats parse errors as "Error on line N: <details>\n"
	if m := linePattern.FindStringSubmatch(msg); m != nil {
		line, _ := strconv.Atoi(m[1])
		detail := strings.TrimSpace(m[2])
		return []EvalError{{
			Line:    line,
			Col:     0,
			Message: detail,
		}}
	}

	if m := linePatternShort.FindStringSubmatch(msg); m != nil {
		line, _ := strconv.Atoi(m[1])
		detail := strings.TrimSpace(m[2])
		return []EvalError{{
			Line:    line,
			Col:     0,
			Message: detail,
		}}
	}

	// Fallback: no line info available.
	return []EvalError{{
		Line:    0,
		Col:     0,
		Message: strings.TrimSpace(msg),
	}}
}
