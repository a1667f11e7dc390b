// Package scenescript evaluates lisp scene scripts into worlds the framing
// pipeline can walk. Scripts run in a zygomys sandbox with only the scene
// builders registered, so user code cannot reach the filesystem or syscalls.
package scenescript

import (
	"fmt"
	"os"
	"regexp"
	"strconv"
	"strings"
	"sync"

	zygo "github.com/glycerine/zygomys/zygo"

	"github.com/aTanguay/scalerender/pkg/scene"
)

// ScriptError is a parse or runtime problem in a scene script. Line is 0
// when zygomys did not report one.
type ScriptError struct {
	Line    int
	Col     int
	Message string
}

func (e *ScriptError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("line %d: %s", e.Line, e.Message)
	}
	return e.Message
}

// Engine evaluates scene scripts. It is safe for concurrent use; each load
// runs in a fresh sandboxed environment for determinism.
type Engine struct {
	mu         sync.Mutex
	generation uint64
}

// NewEngine creates a script engine
func NewEngine() *Engine {
	return &Engine{}
}

// LoadString evaluates scene script source into a world.
//
// Return semantics:
//   - on success: world + nil error
//   - on a script problem: nil + *ScriptError
//   - on a fatal failure (timeout, panic): nil + plain error
func (e *Engine) LoadString(source string) (*scene.World, error) {
	e.mu.Lock()
	e.generation++
	gen := e.generation
	e.mu.Unlock()

	ch := make(chan loadResult, 1)

	go func() {
		defer func() {
			if r := recover(); r != nil {
				ch <- loadResult{err: fmt.Errorf("panic during evaluation: %v", r)}
			}
		}()

		w, err := e.load(source)
		ch <- loadResult{world: w, err: err}
	}()

	return waitWithTimeout(ch, gen, &e.mu, &e.generation)
}

// LoadFile reads a scene script from disk and evaluates it
func (e *Engine) LoadFile(path string) (*scene.World, error) {
	src, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read scene script: %w", err)
	}
	return e.LoadString(string(src))
}

// load performs the actual evaluation in a fresh sandbox.
func (e *Engine) load(source string) (*scene.World, error) {
	b := &builder{world: scene.NewWorld()}

	// Empty source is a valid script that produces an empty world.
	if strings.TrimSpace(source) == "" {
		return b.world, nil
	}

	env := zygo.NewZlispSandbox()
	defer env.Stop()

	registerBuiltins(env, b)

	if err := env.LoadString(preprocess(source)); err != nil {
		return nil, scriptError(err)
	}
	if _, err := env.Run(); err != nil {
		return nil, scriptError(err)
	}
	return b.world, nil
}

// lineDetail matches zygomys messages of the form "Error on line N: ..."
var lineDetail = regexp.MustCompile(`(?i)(?:error )?on line (\d+):\s*(.*)`)

// lineShort matches the simpler "line N: ..." form.
var lineShort = regexp.MustCompile(`(?i)^line (\d+):\s*(.*)`)

// scriptError converts a zygomys error into a *ScriptError, pulling the
// line number out of the message when zygomys includes one.
func scriptError(err error) *ScriptError {
	msg := err.Error()
	for _, re := range []*regexp.Regexp{lineDetail, lineShort} {
		if m := re.FindStringSubmatch(msg); m != nil {
			line, _ := strconv.Atoi(m[1])
			return &ScriptError{Line: line, Message: strings.TrimSpace(m[2])}
		}
	}
	return &ScriptError{Message: strings.TrimSpace(msg)}
}
