// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 HoloMUSH Contributors

package machine

import (
	"slices"

	"github.com/holomush/holocards/internal/fault"
)

// Frame is one saved transaction on the stack together with the state that
// pushed it. The transaction's Kind is the variant discriminant checked on
// pull-up.
type Frame struct {
	Return State
	Txn    Transaction
}

// Stack is the LIFO store of frames saved by push-down transitions.
type Stack struct {
	frames []Frame
}

// NewStack creates an empty stack.
func NewStack() *Stack {
	return &Stack{}
}

// Push saves f on top of the stack.
func (s *Stack) Push(f Frame) {
	s.frames = append(s.frames, f)
}

// Pop removes and returns the top frame.
// Returns a STACK_UNDERFLOW error when the stack is empty.
func (s *Stack) Pop() (Frame, error) {
	f, err := s.Peek()
	if err != nil {
		return Frame{}, err
	}
	s.frames = s.frames[:len(s.frames)-1]
	return f, nil
}

// Peek returns the top frame without removing it.
func (s *Stack) Peek() (Frame, error) {
	if len(s.frames) == 0 {
		return Frame{}, fault.StackUnderflow()
	}
	return s.frames[len(s.frames)-1], nil
}

// Len returns the number of frames.
func (s *Stack) Len() int {
	return len(s.frames)
}

// Frames returns the frames bottom to top.
func (s *Stack) Frames() []Frame {
	return slices.Clone(s.frames)
}

// Clone returns a copy of the stack. Transactions are values, so the copy
// shares nothing with s.
func (s *Stack) Clone() *Stack {
	return &Stack{frames: slices.Clone(s.frames)}
}
