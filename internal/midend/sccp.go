package midend

import "github.com/adpena/molt/internal/ssa"

// latticeKind is the SCCP lattice state for one Value: unknown (not yet
// proven anything, optimistic top), constant, or overdefined (bottom).
type latticeKind uint8

const (
	latticeUnknown latticeKind = iota
	latticeConstant
	latticeOverdefined
)

type lattice struct {
	kind latticeKind
	val  int64
}

// sccp runs a simplified sparse conditional constant propagation pass:
// it computes a constant lattice in which only int/bool constants and
// comparisons of two constants are constant (every other instruction is
// overdefined) and, where a Branch's condition resolves to a known
// constant bool,
// rewrites the terminator to an unconditional Jump along the taken edge
// (removing the other successor). This is the "constant propagation
// across branches" piece spec.md §4.5 calls out as distinct from local
// constant folding, which simplify.go already handles for non-branching
// arithmetic.
func sccp(fn *ssa.Function, cfg *CFG) bool {
	values := map[ssa.ValueID]lattice{}
	defs := indexDefinitions(fn)

	for _, blk := range cfg.ReversePostOrder() {
		for _, ins := range blk.Instructions() {
			evalLattice(ins, defs, values)
		}
	}

	changed := false
	for _, blk := range cfg.ReversePostOrder() {
		term := blk.Terminator()
		if term == nil || term.Opcode() != ssa.OpBranch {
			continue
		}
		cond := term.Arg()
		lat, ok := values[cond.ID()]
		if !ok || lat.kind != latticeConstant {
			if d, ok := defs[cond.ID()]; ok && d.Opcode() == ssa.OpConstBool {
				lat = lattice{kind: latticeConstant, val: int64(d.AuxInt())}
			} else {
				continue
			}
		}
		targets := term.Targets()
		if len(targets) != 2 {
			continue
		}
		taken := targets[0]
		if lat.val == 0 {
			taken = targets[1]
		}
		ssa.RewriteToJump(term, taken)
		changed = true
	}
	return changed
}

func evalLattice(ins *ssa.Instruction, defs map[ssa.ValueID]*ssa.Instruction, values map[ssa.ValueID]lattice) {
	if !ins.Return().Valid() {
		return
	}
	switch ins.Opcode() {
	case ssa.OpConstInt:
		values[ins.Return().ID()] = lattice{kind: latticeConstant, val: int64(ins.AuxInt())}
	case ssa.OpConstBool:
		values[ins.Return().ID()] = lattice{kind: latticeConstant, val: int64(ins.AuxInt())}
	case ssa.OpCmpEq, ssa.OpCmpNe, ssa.OpCmpLt, ssa.OpCmpLe, ssa.OpCmpGt, ssa.OpCmpGe:
		v1, v2, _, _ := ins.Args()
		x, xok := resolveConst(v1, defs, values)
		y, yok := resolveConst(v2, defs, values)
		if !xok || !yok {
			values[ins.Return().ID()] = lattice{kind: latticeOverdefined}
			return
		}
		values[ins.Return().ID()] = lattice{kind: latticeConstant, val: boolToInt(evalCmp(ins.Opcode(), x, y))}
	default:
		values[ins.Return().ID()] = lattice{kind: latticeOverdefined}
	}
}

func resolveConst(v ssa.Value, defs map[ssa.ValueID]*ssa.Instruction, values map[ssa.ValueID]lattice) (int64, bool) {
	if lat, ok := values[v.ID()]; ok && lat.kind == latticeConstant {
		return lat.val, true
	}
	if d, ok := defs[v.ID()]; ok && (d.Opcode() == ssa.OpConstInt || d.Opcode() == ssa.OpConstBool) {
		return int64(d.AuxInt()), true
	}
	return 0, false
}

func evalCmp(op ssa.Opcode, x, y int64) bool {
	switch op {
	case ssa.OpCmpEq:
		return x == y
	case ssa.OpCmpNe:
		return x != y
	case ssa.OpCmpLt:
		return x < y
	case ssa.OpCmpLe:
		return x <= y
	case ssa.OpCmpGt:
		return x > y
	case ssa.OpCmpGe:
		return x >= y
	}
	return false
}

func boolToInt(b bool) int64 {
	if b {
		return 1
	}
	return 0
}
