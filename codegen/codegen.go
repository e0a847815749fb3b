// Package codegen holds the control-flow lowering scaffolding shared by the
// three back ends.  Each back end lowers conditionals, loops and short-circuit
// operators into its own primitives, but the bookkeeping those lowerings need
// is the same everywhere: a stack of (continue-target, break-target) pairs
// pushed on loop entry and popped on loop exit.
package codegen

import "wallaby/report"

// LoopFrame is one entry of a loop stack: the pair of lowering targets for the
// continue and break statements of a single loop.  The target type is whatever
// the back end branches to: a symbolic label, a basic block, or a relative
// block depth.
type LoopFrame[T any] struct {
	// Continue is the target that re-evaluates the loop condition.
	Continue T

	// Break is the target just past the loop.
	Break T
}

// LoopStack tracks the enclosing loops of the statement currently being
// lowered.  A fresh stack is created per compilation so that concurrent
// compilations never share state.
type LoopStack[T any] struct {
	frames []LoopFrame[T]
}

// Push records the targets of a newly entered loop.
func (ls *LoopStack[T]) Push(cont, brk T) {
	ls.frames = append(ls.frames, LoopFrame[T]{Continue: cont, Break: brk})
}

// Pop discards the innermost loop's targets.  It raises an internal error if
// the stack is empty.
func (ls *LoopStack[T]) Pop() {
	if len(ls.frames) == 0 {
		report.RaiseICE(nil, "loop stack popped below empty")
	}

	ls.frames = ls.frames[:len(ls.frames)-1]
}

// Top returns the innermost loop's targets.  The front end validates that
// break and continue only occur inside loops, so an empty stack here is a
// contract violation and raises an internal error rather than crashing.
func (ls *LoopStack[T]) Top(span *report.TextSpan) LoopFrame[T] {
	if len(ls.frames) == 0 {
		report.RaiseICE(span, "break or continue with no enclosing loop")
	}

	return ls.frames[len(ls.frames)-1]
}

// Depth returns the number of loops currently entered.
func (ls *LoopStack[T]) Depth() int {
	return len(ls.frames)
}
