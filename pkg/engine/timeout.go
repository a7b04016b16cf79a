package engine

import (
	"fmt"
	"sync"
	"time"

	"github.com/chazu/bspregion/pkg/graph"
)

// EvalTimeout is the default hard limit for a single evaluation.
const EvalTimeout = 5 * time.Second

// evalResult passes evaluation output from the worker goroutine.
type evalResult struct {
	graph  *graph.DesignGraph
	errors []EvalError
	err    error
}

// SetTimeout changes the evaluation limit. Non-positive values restore
// EvalTimeout.
func (e *Engine) SetTimeout(d time.Duration) {
	if d <= 0 {
		d = EvalTimeout
	}
	e.mu.Lock()
	e.timeout = d
	e.mu.Unlock()
}

// waitWithTimeout waits for a result from ch, but returns a timeout error
// once limit has passed. A result whose generation is no longer current is
// discarded.
//
// On timeout, the goroutine may still be running; the generation check
// ensures its result is discarded when it eventually completes.
func waitWithTimeout(
	ch <-chan evalResult,
	gen uint64,
	mu *sync.Mutex,
	currentGen *uint64,
	limit time.Duration,
) (*graph.DesignGraph, []EvalError, error) {
	timer := time.NewTimer(limit)
	defer timer.Stop()

	select {
	case res := <-ch:
		mu.Lock()
		current := *currentGen
		mu.Unlock()

		if gen != current {
			log.Debugf("discarding result of evaluation %d, current is %d", gen, current)
			return nil, nil, fmt.Errorf("evaluation superseded by newer request")
		}

		return res.graph, res.errors, res.err

	case <-timer.C:
		log.Warningf("evaluation %d timed out after %s", gen, limit)
		return nil, nil, fmt.Errorf("evaluation timed out after %s", limit)
	}
}
