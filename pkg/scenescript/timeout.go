package scenescript

import (
	"fmt"
	"sync"
	"time"

	"github.com/aTanguay/scalerender/pkg/scene"
)

// EvalTimeout is the hard limit for a single script evaluation.
const EvalTimeout = 5 * time.Second

type loadResult struct {
	world *scene.World
	err   error
}

// waitWithTimeout waits for a result from ch, giving up after EvalTimeout.
// The generation counter discards results from loads that were superseded
// by a newer call; the stale goroutine may still be running when its result
// finally arrives.
func waitWithTimeout(
	ch <-chan loadResult,
	gen uint64,
	mu *sync.Mutex,
	currentGen *uint64,
) (*scene.World, error) {
	timer := time.NewTimer(EvalTimeout)
	defer timer.Stop()

	select {
	case res := <-ch:
		mu.Lock()
		current := *currentGen
		mu.Unlock()

		if gen != current {
			return nil, fmt.Errorf("load superseded by newer request")
		}
		return res.world, res.err

	case <-timer.C:
		return nil, fmt.Errorf("script evaluation timed out after %s", EvalTimeout)
	}
}
