package midend

import "github.com/adpena/molt/internal/ssa"

// licm hoists loop-invariant pure instructions out of loop bodies into
// the loop header's immediate dominator, provided that dominator isn't
// itself inside the loop (i.e. it behaves as a preheader). An
// instruction is invariant if every operand is either a constant, a
// value defined strictly outside the loop, or another instruction this
// pass already hoisted in the same sweep.
func licm(fn *ssa.Function, cfg *CFG) bool {
	changed := false
	defBlock := definitionBlocks(fn)

	for _, header := range cfg.ReversePostOrder() {
		if !cfg.LoopHeader(header) {
			continue
		}
		preheader := cfg.ImmediateDominator(header)
		if preheader == nil || preheader == header {
			continue
		}
		bodyIDs, bodyBlocks := loopBody(cfg, header)
		if bodyIDs[preheader.ID()] {
			continue // defensive: header's immediate dominator is never dominated by header itself.
		}
		if hoistInvariants(bodyBlocks, bodyIDs, preheader, defBlock) {
			changed = true
		}
	}
	return changed
}

func definitionBlocks(fn *ssa.Function) map[ssa.ValueID]ssa.BlockID {
	out := map[ssa.ValueID]ssa.BlockID{}
	for _, blk := range fn.Blocks() {
		for _, p := range blk.Params() {
			out[p.ID()] = blk.ID()
		}
		for _, ins := range blk.Instructions() {
			if ins.Return().Valid() {
				out[ins.Return().ID()] = blk.ID()
			}
		}
	}
	return out
}

// loopBody returns every block dominated by header — exact for the
// single-entry natural loops this frontend emits; irreducible CFGs are
// out of scope, matching the teacher's own "shouldn't happen for
// structured input" stance on irreducible control flow.
func loopBody(cfg *CFG, header *ssa.BasicBlock) (map[ssa.BlockID]bool, []*ssa.BasicBlock) {
	ids := map[ssa.BlockID]bool{}
	var blocks []*ssa.BasicBlock
	for _, blk := range cfg.ReversePostOrder() {
		if cfg.Dominates(header, blk) {
			ids[blk.ID()] = true
			blocks = append(blocks, blk)
		}
	}
	return ids, blocks
}

func hoistInvariants(body []*ssa.BasicBlock, bodyIDs map[ssa.BlockID]bool, preheader *ssa.BasicBlock, defBlock map[ssa.ValueID]ssa.BlockID) bool {
	target := preheader.Terminator()
	if target == nil {
		return false
	}
	changed := false
	for progress := true; progress; {
		progress = false
		for _, blk := range body {
			for _, ins := range blk.Instructions() {
				if ins.Effect() != ssa.EffectPure || ins.IsTerminator() || !ins.Return().Valid() {
					continue
				}
				if !operandsInvariant(ins, bodyIDs, defBlock) {
					continue
				}
				ssa.RemoveInstruction(ins)
				ssa.InsertBefore(target, ins)
				defBlock[ins.Return().ID()] = preheader.ID()
				changed, progress = true, true
			}
		}
	}
	return changed
}

func operandsInvariant(ins *ssa.Instruction, bodyIDs map[ssa.BlockID]bool, defBlock map[ssa.ValueID]ssa.BlockID) bool {
	v1, v2, v3, vs := ins.Args()
	for _, v := range append([]ssa.Value{v1, v2, v3}, vs...) {
		if !v.Valid() {
			continue
		}
		if blkID, ok := defBlock[v.ID()]; ok && bodyIDs[blkID] {
			return false
		}
	}
	return true
}
