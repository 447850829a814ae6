package midend

import "github.com/adpena/molt/internal/ssa"

// canonicalize puts a constant operand on the right-hand side of
// commutative ops, so two occurrences of the same expression written
// with operands in either order hash identically in cse.go's
// expression table.
func canonicalize(fn *ssa.Function) bool {
	defs := indexDefinitions(fn)
	changed := false
	for _, blk := range fn.Blocks() {
		for _, ins := range blk.Instructions() {
			if !isCommutative(ins.Opcode()) {
				continue
			}
			v1, v2, v3, _ := ins.Args()
			if isConst(defs, v1) && !isConst(defs, v2) {
				ins.SetArgs(v2, v1, v3)
				changed = true
			}
		}
	}
	return changed
}

func isCommutative(op ssa.Opcode) bool {
	switch op {
	case ssa.OpAdd, ssa.OpMul, ssa.OpAnd, ssa.OpOr, ssa.OpXor, ssa.OpCmpEq, ssa.OpCmpNe:
		return true
	}
	return false
}

func isConst(defs map[ssa.ValueID]*ssa.Instruction, v ssa.Value) bool {
	d, ok := defs[v.ID()]
	if !ok {
		return false
	}
	switch d.Opcode() {
	case ssa.OpConstInt, ssa.OpConstFloat, ssa.OpConstBool, ssa.OpConstNone:
		return true
	}
	return false
}
