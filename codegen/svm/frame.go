package svm

import "wallaby/common"

// frame performs slot allocation for one activation frame.  Slots are handed
// out left to right over parameters then locals in declaration order.  Scopes
// are an explicit stack of allocation marks: popping a scope returns the slot
// counter to its value at scope entry, so a freed slot number is immediately
// reusable by a sibling block but never by a block that is still live.
type frame struct {
	slots map[*common.Symbol]int
	marks []int
	next  int
	high  int
}

func newFrame() *frame {
	return &frame{slots: make(map[*common.Symbol]int)}
}

// pushScope begins a new block scope.
func (f *frame) pushScope() {
	f.marks = append(f.marks, f.next)
}

// popScope ends the current block scope, reclaiming the slots of every local
// declared inside it.
func (f *frame) popScope() {
	f.next = f.marks[len(f.marks)-1]
	f.marks = f.marks[:len(f.marks)-1]
}

// define assigns the next free slot to the given symbol.
func (f *frame) define(sym *common.Symbol) int {
	slot := f.next
	f.next++

	if f.next > f.high {
		f.high = f.next
	}

	f.slots[sym] = slot
	return slot
}

// lookup returns the slot assigned to the given symbol.
func (f *frame) lookup(sym *common.Symbol) (int, bool) {
	slot, ok := f.slots[sym]
	return slot, ok
}
