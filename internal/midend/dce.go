package midend

import "github.com/adpena/molt/internal/ssa"

// dce removes instructions whose result is never referenced and which
// carry no effect worth preserving for its own sake (writes, calls,
// throws, suspends always survive even with a dead result). While
// walking the function it also (re)assigns each instruction's
// InstructionGroupID, starting a new group immediately after every
// "strict" side-effecting instruction — directly grounded on
// passDeadCodeEliminationOpt's combined liveness+group-numbering sweep
// in the teacher's ssa/pass.go.
func dce(fn *ssa.Function, cfg *CFG) bool {
	refcount := map[ssa.ValueID]int{}
	for _, blk := range cfg.ReversePostOrder() {
		for _, ins := range blk.Instructions() {
			countUses(ins, refcount)
		}
	}

	var gid ssa.InstructionGroupID
	var toRemove []*ssa.Instruction
	for _, blk := range cfg.ReversePostOrder() {
		for _, ins := range blk.Instructions() {
			ins.SetGroupID(gid)
			if hasStrictEffect(ins) {
				gid++
				continue
			}
			if ins.IsTerminator() {
				continue
			}
			if ins.Return().Valid() && refcount[ins.Return().ID()] == 0 {
				toRemove = append(toRemove, ins)
			}
		}
	}

	for _, ins := range toRemove {
		ssa.RemoveInstruction(ins)
	}
	return len(toRemove) > 0
}

func countUses(ins *ssa.Instruction, refcount map[ssa.ValueID]int) {
	v1, v2, v3, vs := ins.Args()
	for _, v := range append([]ssa.Value{v1, v2, v3}, vs...) {
		if v.Valid() {
			refcount[v.ID()]++
		}
	}
}

// hasStrictEffect reports whether ins must never be deleted even with a
// dead result, and whether it ends an InstructionGroupID group.
func hasStrictEffect(ins *ssa.Instruction) bool {
	switch ins.Effect() {
	case ssa.EffectWriteHeap, ssa.EffectCall, ssa.EffectThrow, ssa.EffectSuspend:
		return true
	}
	return false
}
