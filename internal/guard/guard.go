// Package guard implements the speculative guard primitives of spec.md
// §4.6: side-effect-free checks legal only in Tier-1 functions, each
// carrying a deopt target block and a named failure reason.
//
// Reason codes use the same packed-constant discipline as the teacher's
// wazevoapi.ExitCode (a small base enum, with room reserved alongside it
// for a per-site index) — adapted here to name *why* a guard failed
// rather than *which* host call trapped.
package guard

import "github.com/adpena/molt/internal/ssa"

// Reason enumerates the base guard-failure kinds named in spec.md §4.6.
// Exact-site disambiguation (e.g. "which attribute offset") lives in the
// instruction's DeoptReason string, not in this enum.
type Reason uint32

const (
	ReasonTypeMismatch Reason = iota
	ReasonTagMismatch
	ReasonLayoutMismatch
	ReasonDictShapeMismatch
	ReasonDictMissingKeys
	ReasonLenTooShort
	ReasonIndexOutOfBounds
	ReasonCalleeMismatch
	ReasonUnexpectedEqual

	reasonMax
)

func (r Reason) String() string {
	switch r {
	case ReasonTypeMismatch:
		return "guard_type_mismatch"
	case ReasonTagMismatch:
		return "guard_tag_type_mismatch"
	case ReasonLayoutMismatch:
		return "guard_layout_mismatch"
	case ReasonDictShapeMismatch:
		return "guard_dict_shape_mismatch"
	case ReasonDictMissingKeys:
		return "guard_dict_missing_keys"
	case ReasonLenTooShort:
		return "guard_len_too_short"
	case ReasonIndexOutOfBounds:
		return "guard_index_out_of_bounds"
	case ReasonCalleeMismatch:
		return "guard_callee_mismatch"
	case ReasonUnexpectedEqual:
		return "guard_unexpected_equal"
	default:
		return "guard_unknown"
	}
}

// reasonOpcode maps each Reason to the guard opcode that produces it, so
// Emit can pick the right Opcode from a Reason alone.
var reasonOpcode = [...]ssa.Opcode{
	ReasonTypeMismatch:       ssa.OpGuardType,
	ReasonTagMismatch:        ssa.OpGuardTag,
	ReasonLayoutMismatch:     ssa.OpGuardLayout,
	ReasonDictShapeMismatch:  ssa.OpGuardDictShape,
	ReasonDictMissingKeys:    ssa.OpGuardDictHasKeys,
	ReasonLenTooShort:        ssa.OpGuardLenGe,
	ReasonIndexOutOfBounds:   ssa.OpGuardIndexInBounds,
	ReasonCalleeMismatch:     ssa.OpGuardCallee,
	ReasonUnexpectedEqual:    ssa.OpGuardNe,
}

// Emit appends a guard instruction of the opcode matching reason, over
// subject (and aux, e.g. the expected type/class/layout id), transferring
// to deoptTarget on failure. fn must be Tier1 — callers should check
// fn.ValidateTierDiscipline() separately if the frontend mixes tiers.
func Emit(b *ssa.Builder, reason Reason, subject ssa.Value, aux uint64, deoptTarget *ssa.BasicBlock, siteID string) *ssa.Instruction {
	ins := b.NewInstruction(reasonOpcode[reason], ssa.Type(0), subject, ssa.ValueInvalid, ssa.ValueInvalid, nil, aux, 0, siteID)
	ins.SetDeopt(deoptTarget, reason.String())
	return ins
}
