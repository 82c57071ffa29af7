// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 HoloMUSH Contributors

package machine

import (
	"github.com/holomush/holocards/internal/fault"
)

// Transition moves flat from the current state to to, installing txn.
// The stack is untouched.
func (m *Machine) Transition(to State, txn Transaction) error {
	txn = orEmpty(txn)
	if !canFlat(m.state, to) {
		return m.Wrap(fault.ConstraintViolation("flat successor of "+m.state.String(), to.String()))
	}
	if err := checkAccepts(to, txn); err != nil {
		return m.Wrap(err)
	}
	m.state, m.txn = to, txn
	return nil
}

// PushDown saves the current state and transaction on the stack, then
// enters to with txn.
func (m *Machine) PushDown(to State, txn Transaction) error {
	txn = orEmpty(txn)
	if !canPush(m.state, to) {
		return m.Wrap(fault.ConstraintViolation("push-down target of "+m.state.String(), to.String()))
	}
	if err := checkAccepts(to, txn); err != nil {
		return m.Wrap(err)
	}
	m.stack.Push(Frame{Return: m.state, Txn: m.txn})
	m.history = append(m.history, to)
	m.state, m.txn = to, txn
	return nil
}

// PullUp pops the top frame and re-enters to with the saved transaction.
// The frame must have been pushed from to and hold the variant to accepts;
// otherwise the machine is left unchanged.
func (m *Machine) PullUp(to State) error {
	f, err := m.stack.Peek()
	if err != nil {
		return m.Wrap(err)
	}
	if !canPull(m.state, to) {
		return m.Wrap(fault.ConstraintViolation("pull-up target of "+m.state.String(), to.String()))
	}
	if f.Return != to {
		return m.Wrap(fault.ConstraintViolation(to.String(), f.Return.String()))
	}
	if err := checkAccepts(to, f.Txn); err != nil {
		return m.Wrap(err)
	}
	if _, err := m.stack.Pop(); err != nil {
		return m.Wrap(err)
	}
	m.history = m.history[:len(m.history)-1]
	m.state, m.txn = to, f.Txn
	return nil
}

func checkAccepts(to State, txn Transaction) error {
	if want := to.Accepts(); txn.Kind() != want {
		return fault.ConstraintViolation(want.String(), txn.Kind().String())
	}
	return nil
}
