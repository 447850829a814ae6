package guard

import "github.com/adpena/molt/internal/ssa"

// DeoptError reports a Tier0 function carrying a guard instruction, or a
// Tier1 guard whose deopt target is missing.
type DeoptError struct {
	Func   string
	Reason string
}

func (e *DeoptError) Error() string {
	return "guard: " + e.Func + ": " + e.Reason
}

// ValidateFunction walks fn and confirms deopt edges are only present on
// Tier1 functions, and that every guard on a Tier1 function carries a
// deopt target. Tier0 rejection itself is also enforced by
// Function.ValidateTierDiscipline; this adds the Tier1-must-have-target
// half spec.md §4.6 requires ("deopt is only legal in Tier1... every
// guard instruction specifies a deopt target").
func ValidateFunction(fn *ssa.Function) error {
	if err := fn.ValidateTierDiscipline(); err != nil {
		return err
	}
	if fn.Tier != ssa.Tier1 {
		return nil
	}
	for _, blk := range fn.Blocks() {
		for _, ins := range blk.Instructions() {
			if !ins.IsGuard() {
				continue
			}
			if ins.DeoptTarget() == nil {
				return &DeoptError{Func: fn.Name, Reason: "guard " + ins.Opcode().String() + " has no deopt target"}
			}
		}
	}
	return nil
}

// Transfer describes what a codegen backend must do when a guard fails:
// bail out of the compiled Tier1 body into the interpreter (or Tier0
// fallback) at deoptTarget, carrying the live values the deopt block's
// params expect. The backend owns the actual stack/register reification;
// this type is the backend-agnostic description of the edge.
type Transfer struct {
	Guard  *ssa.Instruction
	Target *ssa.BasicBlock
	Reason string
}

// Transfers collects every deopt edge in fn, for a backend to lower.
func Transfers(fn *ssa.Function) []Transfer {
	var out []Transfer
	for _, blk := range fn.Blocks() {
		for _, ins := range blk.Instructions() {
			if !ins.IsGuard() || ins.DeoptTarget() == nil {
				continue
			}
			out = append(out, Transfer{Guard: ins, Target: ins.DeoptTarget(), Reason: ins.DeoptReason()})
		}
	}
	return out
}
