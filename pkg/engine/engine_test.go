package engine

import (
	"strings"
	"sync"
	"testing"
	"time"
)

// ---------------------------------------------------------------------------
// Sources that evaluate cleanly
// ---------------------------------------------------------------------------

func TestEvaluateWithoutRegions(t *testing.T) {
	tests := []struct {
		name   string
		source string
	}{
		{"empty", ""},
		{"whitespace", "   \n\t  \n  "},
		{"arithmetic", "(+ 1 2)"},
		{"definitions", "(def x 10)\n(def y 20)\n(+ x y)"},
		{"vector only", "(vec 1 2)"},
		{"comments", ";; nothing here\n; or here"},
	}

	eng := NewEngine()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g, evalErrs, err := eng.Evaluate(tt.source)
			if err != nil {
				t.Fatalf("unexpected fatal error: %v", err)
			}
			if len(evalErrs) > 0 {
				t.Fatalf("unexpected eval errors: %v", evalErrs)
			}
			if g == nil {
				t.Fatal("expected non-nil graph")
			}
			if g.NodeCount() != 0 || len(g.Roots) != 0 {
				t.Errorf("expected empty graph, got %d nodes and %d roots", g.NodeCount(), len(g.Roots))
			}
		})
	}
}

func TestEvaluateDeterministic(t *testing.T) {
	eng := NewEngine()
	source := `(scene "s" (union (box :x-min 0 :x-max 1 :y-min 0 :y-max 1) (box :x-min 1 :x-max 2 :y-min 0 :y-max 1)))`

	first, _, err := eng.Evaluate(source)
	if err != nil {
		t.Fatalf("unexpected fatal error: %v", err)
	}
	for i := 0; i < 4; i++ {
		g, evalErrs, err := eng.Evaluate(source)
		if err != nil || len(evalErrs) > 0 {
			t.Fatalf("iteration %d: err=%v evalErrs=%v", i, err, evalErrs)
		}
		if g.NodeCount() != first.NodeCount() {
			t.Fatalf("iteration %d: %d nodes, want %d", i, g.NodeCount(), first.NodeCount())
		}
		for id, n := range first.Nodes {
			other := g.Get(id)
			if other == nil || other.ContentHash != n.ContentHash {
				t.Errorf("iteration %d: node %s differs", i, id.Short())
			}
		}
	}
}

func TestSetThickness(t *testing.T) {
	eng := NewEngine()
	eng.SetThickness(0.25)
	eng.SetThickness(-1) // ignored

	g, evalErrs, err := eng.Evaluate(`(polygon "p" (vec 0 0) (vec 1 0) (vec 0 1))`)
	if err != nil || len(evalErrs) > 0 {
		t.Fatalf("err=%v evalErrs=%v", err, evalErrs)
	}
	if g.Defaults.Thickness != 0.25 {
		t.Errorf("graph default thickness = %g, want 0.25", g.Defaults.Thickness)
	}
}

// ---------------------------------------------------------------------------
// Sources that fail
// ---------------------------------------------------------------------------

func TestEvaluateErrors(t *testing.T) {
	tests := []struct {
		name   string
		source string
	}{
		{"unmatched paren", "(+ 1 2"},
		{"undefined symbol", "(+ 1 undefined-symbol)"},
		{"error on second line", "(+ 1 2)\n(+ 3"},
		{"unknown region", `(region "nowhere")`},
		{"unterminated builtin", `(box "b" :x-min 0`},
	}

	eng := NewEngine()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g, evalErrs, err := eng.Evaluate(tt.source)
			if err != nil {
				t.Fatalf("expected non-fatal eval error, got fatal: %v", err)
			}
			if g != nil {
				t.Fatal("expected nil graph on error")
			}
			if len(evalErrs) == 0 {
				t.Fatal("expected at least one eval error")
			}
			e := evalErrs[0]
			if e.Message == "" {
				t.Error("eval error message should not be empty")
			}
			if e.Line > 0 {
				t.Logf("line=%d message=%q", e.Line, e.Message)
			}
		})
	}
}

func TestEvalErrorImplementsError(t *testing.T) {
	var err error = EvalError{Line: 5, Message: "something went wrong"}
	if s := err.Error(); !strings.Contains(s, "line 5") || !strings.Contains(s, "something went wrong") {
		t.Errorf("Error() = %q, want line and message", s)
	}

	err = EvalError{Message: "no location"}
	if s := err.Error(); strings.Contains(s, "line") {
		t.Errorf("Error() with no line should not mention a line, got %q", s)
	}
}

// ---------------------------------------------------------------------------
// Timeout and generation plumbing
// ---------------------------------------------------------------------------

func TestEvaluateTimeout(t *testing.T) {
	var mu sync.Mutex
	var gen uint64 = 1
	ch := make(chan evalResult) // never sends

	start := time.Now()
	_, _, err := waitWithTimeout(ch, 1, &mu, &gen, 20*time.Millisecond)
	if err == nil {
		t.Fatal("expected timeout error, got nil")
	}
	if !strings.Contains(err.Error(), "timed out") {
		t.Errorf("expected timeout error message, got: %v", err)
	}
	if elapsed := time.Since(start); elapsed > EvalTimeout {
		t.Errorf("timeout took %s, limit was 20ms", elapsed)
	}
}

func TestSetTimeout(t *testing.T) {
	eng := NewEngine()
	if eng.timeout != EvalTimeout {
		t.Errorf("default timeout = %s, want %s", eng.timeout, EvalTimeout)
	}
	eng.SetTimeout(time.Second)
	if eng.timeout != time.Second {
		t.Errorf("timeout = %s, want 1s", eng.timeout)
	}
	eng.SetTimeout(0)
	if eng.timeout != EvalTimeout {
		t.Errorf("zero should restore default, got %s", eng.timeout)
	}
}

func TestEvaluateGenerationDiscardsStale(t *testing.T) {
	var mu sync.Mutex
	gen := uint64(2) // current generation

	ch := make(chan evalResult, 1)
	ch <- evalResult{graph: nil, errors: nil, err: nil}

	// generation 1 is stale
	_, _, err := waitWithTimeout(ch, 1, &mu, &gen, EvalTimeout)
	if err == nil {
		t.Fatal("expected error for stale generation")
	}
	if !strings.Contains(err.Error(), "superseded") {
		t.Errorf("expected superseded error, got: %v", err)
	}
}

func TestParseZygomysError(t *testing.T) {
	tests := []struct {
		name     string
		msg      string
		wantLine int
		wantMsg  string
	}{
		{
			name:     "error on line format",
			msg:      "Error on line 5: unexpected token\n",
			wantLine: 5,
			wantMsg:  "unexpected token",
		},
		{
			name:     "no line info",
			msg:      "some generic error",
			wantLine: 0,
			wantMsg:  "some generic error",
		},
		{
			name:     "short line format",
			msg:      "line 3: bad operand",
			wantLine: 3,
			wantMsg:  "bad operand",
		},
		{
			name:     "line format lowercase",
			msg:      "error on line 12: missing paren",
			wantLine: 12,
			wantMsg:  "missing paren",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			errs := parseZygomysError(errString(tt.msg))
			if len(errs) == 0 {
				t.Fatal("expected at least one error")
			}
			e := errs[0]
			if e.Line != tt.wantLine {
				t.Errorf("line = %d, want %d", e.Line, tt.wantLine)
			}
			if !strings.Contains(e.Message, tt.wantMsg) {
				t.Errorf("message = %q, want containing %q", e.Message, tt.wantMsg)
			}
		})
	}
}

// errString is a simple error type for testing.
type errString string

func (e errString) Error() string { return string(e) }
