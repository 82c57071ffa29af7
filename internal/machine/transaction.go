// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 HoloMUSH Contributors

package machine

import (
	"fmt"

	"github.com/holomush/holocards/internal/entity"
	"github.com/holomush/holocards/internal/fault"
)

// TxnKind discriminates the transaction variants.
type TxnKind uint8

// Transaction kinds.
const (
	TxnEmpty TxnKind = iota
	TxnPlayCard
	TxnAttack
	TxnDraw
	TxnDamage
	TxnSubject
)

func (k TxnKind) String() string {
	switch k {
	case TxnEmpty:
		return "Empty"
	case TxnPlayCard:
		return "PlayCard"
	case TxnAttack:
		return "Attack"
	case TxnDraw:
		return "Draw"
	case TxnDamage:
		return "Damage"
	case TxnSubject:
		return "Subject"
	default:
		return "unknown"
	}
}

// Transaction is the payload a state requires on entry. The set of
// implementations is closed to this package.
type Transaction interface {
	Kind() TxnKind
	sealed()
}

// EmptyTxn is the payload of states that need no input.
type EmptyTxn struct{}

// PlayCardTxn plays Card from its owner's hand to Position on the board.
type PlayCardTxn struct {
	Card     entity.ID
	Position int
}

// AttackTxn makes Attacker strike Defender.
type AttackTxn struct {
	Attacker entity.ID
	Defender entity.ID
}

// DrawTxn makes Player draw Count cards.
type DrawTxn struct {
	Player entity.ID
	Count  uint32
}

// DamageTxn deals Amount damage to Target.
type DamageTxn struct {
	Target entity.ID
	Amount uint32
}

// SubjectTxn names the single entity an effect is about.
type SubjectTxn struct {
	Entity entity.ID
}

func (EmptyTxn) Kind() TxnKind    { return TxnEmpty }
func (PlayCardTxn) Kind() TxnKind { return TxnPlayCard }
func (AttackTxn) Kind() TxnKind   { return TxnAttack }
func (DrawTxn) Kind() TxnKind     { return TxnDraw }
func (DamageTxn) Kind() TxnKind   { return TxnDamage }
func (SubjectTxn) Kind() TxnKind  { return TxnSubject }

func (EmptyTxn) sealed()    {}
func (PlayCardTxn) sealed() {}
func (AttackTxn) sealed()   {}
func (DrawTxn) sealed()     {}
func (DamageTxn) sealed()   {}
func (SubjectTxn) sealed()  {}

func orEmpty(txn Transaction) Transaction {
	if txn == nil {
		return EmptyTxn{}
	}
	return txn
}

// Unpack downcasts txn to T.
// Returns a CONSTRAINT_VIOLATION error when the variant disagrees.
func Unpack[T Transaction](txn Transaction) (T, error) {
	v, ok := txn.(T)
	if !ok {
		var want T
		return want, fault.ConstraintViolation(want.Kind().String(), kindName(txn))
	}
	return v, nil
}

func kindName(txn Transaction) string {
	if txn == nil {
		return "nil"
	}
	return txn.Kind().String()
}

func (t PlayCardTxn) String() string {
	return fmt.Sprintf("PlayCard{card=%d pos=%d}", t.Card, t.Position)
}

func (t AttackTxn) String() string {
	return fmt.Sprintf("Attack{%d->%d}", t.Attacker, t.Defender)
}
