package midend

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/adpena/molt/internal/ssa"
)

func TestCFGDominatorsAndLoopDetection(t *testing.T) {
	fn := ssa.NewFunction("loopy", ssa.Tier0, nil, ssa.EffectPure)
	b := ssa.NewBuilder(fn)
	entry := fn.EntryBlock()
	b.Seal(entry)

	header := b.AllocateBasicBlock()
	jEntry := b.NewJump(header)
	b.AddPred(header, entry, jEntry)

	b.SetCurrentBlock(header)
	body := b.AllocateBasicBlock()
	exit := b.AllocateBasicBlock()
	cond := b.NewConstBool(true)
	branch := b.NewBranch(cond.Return(), body, exit)
	b.AddPred(body, header, branch)
	b.AddPred(exit, header, branch)
	b.Seal(body)
	b.Seal(exit)

	b.SetCurrentBlock(body)
	back := b.NewJump(header)
	b.AddPred(header, body, back)
	b.Seal(header)

	b.SetCurrentBlock(exit)
	b.NewReturn()

	cfg := Analyze(fn)
	require.True(t, cfg.LoopHeader(header))
	require.False(t, cfg.LoopHeader(body))
	require.True(t, cfg.Dominates(entry, header))
	require.True(t, cfg.Dominates(header, body))
	require.False(t, cfg.Dominates(body, header))
}

func TestSimplifyFoldsConstantArithmetic(t *testing.T) {
	fn := ssa.NewFunction("addconsts", ssa.Tier0, nil, ssa.EffectPure)
	b := ssa.NewBuilder(fn)
	entry := fn.EntryBlock()
	b.Seal(entry)

	c2 := b.NewConstInt(2)
	c3 := b.NewConstInt(3)
	sum := b.NewInstruction(ssa.OpAdd, ssa.TypeI64, c2.Return(), c3.Return(), ssa.ValueInvalid, nil, 0, 0, "")
	b.NewReturn(sum.Return())

	cfg := Analyze(fn)
	require.True(t, simplify(fn, cfg))

	retIns := entry.Terminator()
	require.Equal(t, ssa.OpReturn, retIns.Opcode())
	_, _, _, vs := retIns.Args()
	require.Len(t, vs, 1)

	defs := indexDefinitions(fn)
	foldedDef, ok := defs[vs[0].ID()]
	require.True(t, ok)
	require.Equal(t, ssa.OpConstInt, foldedDef.Opcode())
	require.EqualValues(t, 5, foldedDef.AuxInt())
}

func TestSimplifyEliminatesAddZero(t *testing.T) {
	fn := ssa.NewFunction("addzero", ssa.Tier0, []ssa.Type{ssa.TypeI64}, ssa.EffectPure)
	b := ssa.NewBuilder(fn)
	entry := fn.EntryBlock()
	b.Seal(entry)

	x := entry.Params()[0]
	zero := b.NewConstInt(0)
	sum := b.NewInstruction(ssa.OpAdd, ssa.TypeI64, x, zero.Return(), ssa.ValueInvalid, nil, 0, 0, "")
	b.NewReturn(sum.Return())

	cfg := Analyze(fn)
	require.True(t, simplify(fn, cfg))

	_, _, _, vs := entry.Terminator().Args()
	require.Equal(t, x, vs[0])
}

func TestSCCPFoldsConstantBranch(t *testing.T) {
	fn := ssa.NewFunction("deadbranch", ssa.Tier0, nil, ssa.EffectPure)
	b := ssa.NewBuilder(fn)
	entry := fn.EntryBlock()
	b.Seal(entry)

	thenB := b.AllocateBasicBlock()
	elseB := b.AllocateBasicBlock()
	cond := b.NewConstBool(true)
	branch := b.NewBranch(cond.Return(), thenB, elseB)
	b.AddPred(thenB, entry, branch)
	b.AddPred(elseB, entry, branch)
	b.Seal(thenB)
	b.Seal(elseB)

	b.SetCurrentBlock(thenB)
	b.NewReturn()
	b.SetCurrentBlock(elseB)
	b.NewReturn()

	cfg := Analyze(fn)
	require.True(t, sccp(fn, cfg))

	term := entry.Terminator()
	require.Equal(t, ssa.OpJump, term.Opcode())
	require.Equal(t, []*ssa.BasicBlock{thenB}, term.Targets())
	require.Empty(t, elseB.Preds())
}

func TestDCERemovesUnusedPureInstruction(t *testing.T) {
	fn := ssa.NewFunction("deadcode", ssa.Tier0, nil, ssa.EffectPure)
	b := ssa.NewBuilder(fn)
	entry := fn.EntryBlock()
	b.Seal(entry)

	dead := b.NewConstInt(42)
	b.NewReturn()

	cfg := Analyze(fn)
	require.True(t, dce(fn, cfg))

	for _, ins := range entry.Instructions() {
		require.NotEqual(t, dead.Return().ID(), ins.Return().ID())
	}
}

func TestCSEDeduplicatesPureExpression(t *testing.T) {
	fn := ssa.NewFunction("cse", ssa.Tier0, []ssa.Type{ssa.TypeI64, ssa.TypeI64}, ssa.EffectPure)
	b := ssa.NewBuilder(fn)
	entry := fn.EntryBlock()
	b.Seal(entry)

	x, y := entry.Params()[0], entry.Params()[1]
	a := b.NewInstruction(ssa.OpAdd, ssa.TypeI64, x, y, ssa.ValueInvalid, nil, 0, 0, "")
	c := b.NewInstruction(ssa.OpAdd, ssa.TypeI64, x, y, ssa.ValueInvalid, nil, 0, 0, "")
	b.NewReturn(a.Return(), c.Return())

	cfg := Analyze(fn)
	require.True(t, cse(fn, cfg))

	_, _, _, vs := entry.Terminator().Args()
	require.Equal(t, vs[0], vs[1])
}

func TestFindInductionVariablesDetectsConstantStep(t *testing.T) {
	fn := ssa.NewFunction("induct", ssa.Tier0, []ssa.Type{ssa.TypeI64}, ssa.EffectPure)
	b := ssa.NewBuilder(fn)
	entry := fn.EntryBlock()
	b.Seal(entry)

	init := entry.Params()[0]
	header := b.AllocateBasicBlock()
	jEntry := b.NewJump(header)
	b.AddPred(header, entry, jEntry)

	b.SetCurrentBlock(header)
	i := b.DeclareVariable(ssa.TypeI64)
	b.DefineVariable(i, init, entry)
	cur := b.FindValue(i)

	body := b.AllocateBasicBlock()
	exit := b.AllocateBasicBlock()
	cond := b.NewConstBool(true)
	branch := b.NewBranch(cond.Return(), body, exit)
	b.AddPred(body, header, branch)
	b.AddPred(exit, header, branch)
	b.Seal(body)
	b.Seal(exit)

	b.SetCurrentBlock(body)
	one := b.NewConstInt(1)
	next := b.NewInstruction(ssa.OpAdd, ssa.TypeI64, cur, one.Return(), ssa.ValueInvalid, nil, 0, 0, "")
	b.DefineVariableInCurrentBB(i, next.Return())
	back := b.NewJump(header)
	b.AddPred(header, body, back)
	b.Seal(header)

	b.SetCurrentBlock(exit)
	b.NewReturn()

	cfg := Analyze(fn)
	ivs := FindInductionVariables(fn, cfg)
	require.Len(t, ivs, 1)
	require.Equal(t, header, ivs[0].Header)
	require.EqualValues(t, 1, ivs[0].Step)
}
