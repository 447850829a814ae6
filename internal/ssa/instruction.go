package ssa

import "fmt"

// Instruction is the flattened representation of every SSA instruction:
// since Go has no union type, every opcode reuses the same struct and
// interprets its fields differently, exactly as wazero's ssa.Instruction
// does.
type Instruction struct {
	opcode Opcode

	// v, v2, v3 are the first three operands; vs holds any additional
	// variadic operands (e.g. call arguments, container-constructor
	// elements, block-param forwarding on a Jump).
	v, v2, v3 Value
	vs        []Value

	// u1, u2 carry opcode-specific auxiliary data: constant payloads,
	// type/class/layout/shape ids, intrinsic ids, site ids, symbol ids.
	u1, u2 uint64

	// sym carries a string payload (attribute/method names, intrinsic
	// names) for opcodes that need one instead of/alongside a numeric id.
	sym string

	typ Type

	rValue  Value
	rValues []Value

	effect EffectClass
	gid    InstructionGroupID

	// deoptTarget is the block a guard transfers control to on failure.
	// Only meaningful when opcode.isGuard().
	deoptTarget *BasicBlock
	// deoptReason names the per-reason feedback counter bumped on
	// failure (spec.md §4.6).
	deoptReason string

	// targets holds branch destinations (len 1 for Jump, 2 for Branch).
	targets []*BasicBlock

	block *BasicBlock
	prev, next *Instruction
}

// Opcode returns i's opcode.
func (i *Instruction) Opcode() Opcode { return i.opcode }

// Args returns the first three operands plus any overflow operands.
func (i *Instruction) Args() (v1, v2, v3 Value, vs []Value) {
	return i.v, i.v2, i.v3, i.vs
}

// Arg returns the first operand.
func (i *Instruction) Arg() Value { return i.v }

// SetArgs overwrites the first three operands, for mid-end passes that
// rewrite operands after alias resolution or constant folding.
func (i *Instruction) SetArgs(v1, v2, v3 Value) { i.v, i.v2, i.v3 = v1, v2, v3 }

// AuxInt returns the first auxiliary integer payload.
func (i *Instruction) AuxInt() uint64 { return i.u1 }

// AuxInt2 returns the second auxiliary integer payload.
func (i *Instruction) AuxInt2() uint64 { return i.u2 }

// AuxString returns the string payload (an attribute/method/intrinsic
// name).
func (i *Instruction) AuxString() string { return i.sym }

// Return returns the first (or only) result.
func (i *Instruction) Return() Value { return i.rValue }

// Returns returns all results.
func (i *Instruction) Returns() (first Value, rest []Value) { return i.rValue, i.rValues }

// Effect returns the instruction's effect class.
func (i *Instruction) Effect() EffectClass { return i.effect }

// GroupID returns the InstructionGroupID this instruction belongs to.
func (i *Instruction) GroupID() InstructionGroupID { return i.gid }

// SetGroupID assigns i's InstructionGroupID. Set by dead-code
// elimination as it walks the function and starts a fresh group after
// every side-effecting instruction (spec.md §4.4/§4.5's effect-based
// grouping). No mid-end pass reads the group ids back; cse scopes its
// table by basic block instead.
func (i *Instruction) SetGroupID(g InstructionGroupID) { i.gid = g }

// Targets returns the branch destinations of a Jump/Branch instruction.
func (i *Instruction) Targets() []*BasicBlock { return i.targets }

// DeoptTarget returns the deopt target block of a guard instruction, or
// nil if i is not a guard.
func (i *Instruction) DeoptTarget() *BasicBlock { return i.deoptTarget }

// DeoptReason returns the feedback-counter reason name of a guard
// instruction.
func (i *Instruction) DeoptReason() string { return i.deoptReason }

// SetDeopt wires a guard instruction's deopt target block and the
// feedback-counter reason name bumped when it fails. Tier0 functions
// must never carry an instruction with a deopt target set — enforced by
// Function.ValidateTierDiscipline via IsGuard, not by this setter.
func (i *Instruction) SetDeopt(target *BasicBlock, reason string) {
	i.deoptTarget = target
	i.deoptReason = reason
}

// IsGuard reports whether i is one of the guard primitives.
func (i *Instruction) IsGuard() bool { return i.opcode.isGuard() }

// IsTerminator reports whether i ends its block.
func (i *Instruction) IsTerminator() bool { return i.opcode.isTerminator() }

func (i *Instruction) String() string {
	if i.rValue.Valid() {
		return fmt.Sprintf("%s = %s(%s)", i.rValue, i.opcode, i.argsString())
	}
	return fmt.Sprintf("%s(%s)", i.opcode, i.argsString())
}

func (i *Instruction) argsString() string {
	s := ""
	sep := ""
	for _, v := range []Value{i.v, i.v2, i.v3} {
		if v.Valid() {
			s += sep + v.String()
			sep = ", "
		}
	}
	for _, v := range i.vs {
		s += sep + v.String()
		sep = ", "
	}
	return s
}

// reset zeroes i for reuse, matching the teacher's Instruction.reset()
// idiom used by the builder's instruction pool.
func (i *Instruction) reset() {
	*i = Instruction{}
	i.v, i.v2, i.v3 = ValueInvalid, ValueInvalid, ValueInvalid
	i.rValue = ValueInvalid
	i.typ = typeInvalid
}
