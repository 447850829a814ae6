package ssa

import (
	"fmt"
	"math"
)

// Value represents an SSA value together with its static type: bits
// 32-39 carry the Type, the low 32 bits carry the ValueID. This is the
// same packed-uint64 technique as wazero's ssa.Value, adapted here with
// an 8-bit type field since this IR's Type enum is small.
type Value uint64

// ValueID is the pure identifier of a Value, stripped of type info.
type ValueID uint32

const (
	valueIDInvalid ValueID = math.MaxUint32
	// ValueInvalid marks a not-yet-assigned Value (id MaxUint32; the Go
	// zero Value is the valid id 0).
	ValueInvalid Value = Value(valueIDInvalid)
)

// ID returns the identifier of v, independent of its type.
func (v Value) ID() ValueID { return ValueID(v) }

// Type returns the static type of v.
func (v Value) Type() Type { return Type(v >> 32) }

// Valid reports whether v was ever assigned.
func (v Value) Valid() bool { return v.ID() != valueIDInvalid }

func (v Value) withType(t Type) Value {
	return Value(uint64(v.ID()) | uint64(t)<<32)
}

func (v Value) String() string {
	if !v.Valid() {
		return "<invalid>"
	}
	return fmt.Sprintf("v%d:%s", v.ID(), v.Type())
}

// Variable identifies a source-level local/variable; multiple SSA Values
// may correspond to one Variable across different program points
// (block-param-based phi construction uses this to reconcile them).
type Variable uint32

func (v Variable) String() string { return fmt.Sprintf("var%d", v) }

// FuncRef identifies a callee function within a Module.
type FuncRef uint32

// BlockID identifies a BasicBlock within a Function.
type BlockID uint32

// InstructionGroupID groups instructions that are interchangeable except
// for the last one (which has a side effect). Every side-effecting
// instruction starts a new group; this is what lets the mid-end reorder
// or merge pure/read_heap instructions freely within a group but never
// across one (spec.md §4.4/§4.5).
type InstructionGroupID uint32
