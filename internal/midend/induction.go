package midend

import "github.com/adpena/molt/internal/ssa"

// InductionVariable describes a loop header block param that increases
// (or decreases) by a fixed constant step on every iteration: init is
// its value on loop entry, step is the per-iteration delta. Downstream
// consumers (bounds-check strength reduction in the guard/codegen
// layers) use this to turn a per-iteration guard_index_in_bounds into a
// single pre-loop guard_len_ge, which spec.md §4.6 calls out as the
// motivating use case for induction analysis.
type InductionVariable struct {
	Header *ssa.BasicBlock
	Param  ssa.Value
	Init   ssa.Value
	Step   int64
}

// FindInductionVariables scans every loop header's block params for the
// classic pattern: the back-edge argument is `param + constant` (or
// `param - constant`), fed by exactly one back edge and one entry edge.
func FindInductionVariables(fn *ssa.Function, cfg *CFG) []InductionVariable {
	defs := indexDefinitions(fn)
	var out []InductionVariable

	for _, header := range cfg.ReversePostOrder() {
		if !cfg.LoopHeader(header) {
			continue
		}
		for pi, param := range header.Params() {
			var entryArg, backArg ssa.Value
			entries, backs := 0, 0
			for _, pred := range header.Preds() {
				_, _, _, vs := pred.Branch.Args()
				if pi >= len(vs) {
					continue
				}
				arg := vs[pi]
				if cfg.Dominates(header, pred.Block) {
					backArg = arg
					backs++
				} else {
					entryArg = arg
					entries++
				}
			}
			if entries != 1 || backs != 1 {
				continue
			}
			step, ok := stepOf(defs, backArg, param)
			if !ok {
				continue
			}
			out = append(out, InductionVariable{Header: header, Param: param, Init: entryArg, Step: step})
		}
	}
	return out
}

// stepOf reports whether back is `param + c` or `param - c` for a
// compile-time-constant c, returning the signed per-iteration delta.
func stepOf(defs map[ssa.ValueID]*ssa.Instruction, back, param ssa.Value) (int64, bool) {
	d, ok := defs[back.ID()]
	if !ok {
		return 0, false
	}
	v1, v2, _, _ := d.Args()
	switch d.Opcode() {
	case ssa.OpAdd:
		if v1.ID() == param.ID() {
			if c, ok := constIntOf(defs, v2); ok {
				return c, true
			}
		}
		if v2.ID() == param.ID() {
			if c, ok := constIntOf(defs, v1); ok {
				return c, true
			}
		}
	case ssa.OpSub:
		if v1.ID() == param.ID() {
			if c, ok := constIntOf(defs, v2); ok {
				return -c, true
			}
		}
	}
	return 0, false
}
