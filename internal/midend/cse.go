package midend

import (
	"fmt"

	"github.com/adpena/molt/internal/ssa"
)

// cse deduplicates pure and read_heap instructions that recompute the
// same (opcode, operands, aux, type) tuple within one basic block,
// visiting blocks in reverse postorder with an empty table per block. A
// write_heap or call instruction clears the whole table, pure entries
// included: no alias classes are tracked, so "may alias anything" is the
// only sound assumption, and a callee's effect summary isn't visible at
// this call site without interprocedural analysis.
func cse(fn *ssa.Function, cfg *CFG) bool {
	changed := false
	alias := map[ssa.ValueID]ssa.Value{}

	for _, blk := range cfg.ReversePostOrder() {
		table := map[string]ssa.Value{}
		for _, ins := range blk.Instructions() {
			resolveAliases(ins, alias)

			switch ins.Effect() {
			case ssa.EffectWriteHeap, ssa.EffectCall:
				table = map[string]ssa.Value{}
				continue
			case ssa.EffectPure, ssa.EffectReadHeap:
			default:
				continue
			}
			if !ins.Return().Valid() {
				continue
			}
			key := cseKey(ins)
			if existing, ok := table[key]; ok {
				alias[ins.Return().ID()] = existing
				changed = true
				continue
			}
			table[key] = ins.Return()
		}
	}
	if changed {
		for _, blk := range cfg.ReversePostOrder() {
			for _, ins := range blk.Instructions() {
				resolveAliases(ins, alias)
			}
		}
	}
	return changed
}

func cseKey(ins *ssa.Instruction) string {
	v1, v2, v3, vs := ins.Args()
	return fmt.Sprintf("%s|%d|%d|%d|%v|%d|%d|%s|%s", ins.Opcode(), v1, v2, v3, vs, ins.AuxInt(), ins.AuxInt2(), ins.AuxString(), ins.Return().Type())
}
