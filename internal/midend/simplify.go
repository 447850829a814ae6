package midend

import "github.com/adpena/molt/internal/ssa"

// simplify folds constant arithmetic and removes algebraic identities
// (x+0, x*1, x-x) in one forward sweep, aliasing an instruction's result
// to a cheaper value instead of deleting it outright — dce removes the
// now-unreferenced original afterwards. Grounded on passConstFoldingOpt
// and passNopInstElimination's scan-and-rewrite shape in the teacher's
// ssa/pass.go, collapsed into one combined sweep since this IR's
// instruction set is much smaller than wasm's.
func simplify(fn *ssa.Function, cfg *CFG) bool {
	alias := map[ssa.ValueID]ssa.Value{}
	changed := false

	defs := indexDefinitions(fn)
	for _, blk := range cfg.ReversePostOrder() {
		for _, ins := range blk.Instructions() {
			if !ins.Return().Valid() {
				continue
			}
			if v, ok := foldConstArith(fn, ins, defs); ok {
				alias[ins.Return().ID()] = v
				changed = true
				continue
			}
			if v, ok := foldIdentity(fn, ins, defs); ok {
				alias[ins.Return().ID()] = v
				changed = true
			}
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

func indexDefinitions(fn *ssa.Function) map[ssa.ValueID]*ssa.Instruction {
	defs := map[ssa.ValueID]*ssa.Instruction{}
	for _, blk := range fn.Blocks() {
		for _, ins := range blk.Instructions() {
			if ins.Return().Valid() {
				defs[ins.Return().ID()] = ins
			}
		}
	}
	return defs
}

func resolveAliases(ins *ssa.Instruction, alias map[ssa.ValueID]ssa.Value) {
	v1, v2, v3, vs := ins.Args()
	ins.SetArgs(resolveOne(v1, alias), resolveOne(v2, alias), resolveOne(v3, alias))
	for i, v := range vs {
		vs[i] = resolveOne(v, alias)
	}
}

func resolveOne(v ssa.Value, alias map[ssa.ValueID]ssa.Value) ssa.Value {
	for v.Valid() {
		a, ok := alias[v.ID()]
		if !ok || a == v {
			return v
		}
		v = a
	}
	return v
}

func constIntOf(defs map[ssa.ValueID]*ssa.Instruction, v ssa.Value) (int64, bool) {
	d, ok := defs[v.ID()]
	if !ok || d.Opcode() != ssa.OpConstInt {
		return 0, false
	}
	return int64(d.AuxInt()), true
}

// foldConstArith evaluates Add/Sub/Mul over two constant-int operands.
func foldConstArith(fn *ssa.Function, ins *ssa.Instruction, defs map[ssa.ValueID]*ssa.Instruction) (ssa.Value, bool) {
	switch ins.Opcode() {
	case ssa.OpAdd, ssa.OpSub, ssa.OpMul:
	default:
		return ssa.ValueInvalid, false
	}
	v1, v2, _, _ := ins.Args()
	x, xok := constIntOf(defs, v1)
	y, yok := constIntOf(defs, v2)
	if !xok || !yok {
		return ssa.ValueInvalid, false
	}
	var result int64
	switch ins.Opcode() {
	case ssa.OpAdd:
		result = x + y
	case ssa.OpSub:
		result = x - y
	case ssa.OpMul:
		result = x * y
	}
	nins, nval := fn.NewConstInt(result)
	ssa.InsertBefore(ins, nins)
	defs[nval.ID()] = nins
	return nval, true
}

// foldIdentity rewrites x+0, 0+x, x*1, 1*x, and x-x without needing a
// new constant instruction except in the x-x case.
func foldIdentity(fn *ssa.Function, ins *ssa.Instruction, defs map[ssa.ValueID]*ssa.Instruction) (ssa.Value, bool) {
	v1, v2, _, _ := ins.Args()
	switch ins.Opcode() {
	case ssa.OpAdd:
		if c, ok := constIntOf(defs, v2); ok && c == 0 {
			return v1, true
		}
		if c, ok := constIntOf(defs, v1); ok && c == 0 {
			return v2, true
		}
	case ssa.OpMul:
		if c, ok := constIntOf(defs, v2); ok && c == 1 {
			return v1, true
		}
		if c, ok := constIntOf(defs, v1); ok && c == 1 {
			return v2, true
		}
	case ssa.OpSub:
		if v1.Valid() && v1.ID() == v2.ID() {
			nins, nval := fn.NewConstInt(0)
			ssa.InsertBefore(ins, nins)
			defs[nval.ID()] = nins
			return nval, true
		}
	}
	return ssa.ValueInvalid, false
}
