// Package ssa implements the typed SSA intermediate representation of
// spec.md §3.5 and §4.4: the common representation between frontend
// lowering, mid-end optimization, and backends.
//
// The package's vocabulary (Value as a packed identifier+type word,
// Function/BasicBlock/Instruction, RunPasses-style pipelines) is adapted
// directly from internal/engine/wazevo/ssa in the teacher repository.
package ssa

// Type is the static type of an SSA Value.
type Type byte

const (
	typeInvalid Type = iota

	// TypeValue is a generic NaN-boxed runtime Value (the default type for
	// untyped/dynamic operands).
	TypeValue
	// TypeI64 is an unboxed 64-bit integer, used once a guard or type fact
	// has proven the operand need not carry tag bits.
	TypeI64
	// TypeF64 is an unboxed IEEE-754 double.
	TypeF64
	// TypeBool is an unboxed boolean (used for comparison results feeding
	// Branch).
	TypeBool
	// TypeHandle is an unboxed (generation, index) handle, used once a
	// guard has proven the operand is heap-addressed.
	TypeHandle
)

func (t Type) String() string {
	switch t {
	case TypeValue:
		return "value"
	case TypeI64:
		return "i64"
	case TypeF64:
		return "f64"
	case TypeBool:
		return "bool"
	case TypeHandle:
		return "handle"
	default:
		return "invalid"
	}
}

// Tier separates strict (no speculation) functions from guarded
// (speculative, deopt-capable) ones, per spec.md §4.4/§4.6.
type Tier uint8

const (
	Tier0 Tier = iota // strict: no guards, no deopt edges, every failure is a Throw.
	Tier1             // speculative: guards with deopt targets are legal.
)

func (t Tier) String() string {
	if t == Tier0 {
		return "tier0"
	}
	return "tier1"
}

// EffectClass is the static annotation on an instruction driving legality
// of reordering, CSE, and DCE (spec.md §4.4).
type EffectClass uint8

const (
	EffectPure EffectClass = iota
	EffectReadHeap
	EffectWriteHeap
	EffectCall
	EffectThrow
	EffectSuspend
)

func (e EffectClass) String() string {
	switch e {
	case EffectPure:
		return "pure"
	case EffectReadHeap:
		return "read_heap"
	case EffectWriteHeap:
		return "write_heap"
	case EffectCall:
		return "call"
	case EffectThrow:
		return "throw"
	case EffectSuspend:
		return "suspend"
	default:
		return "unknown"
	}
}
