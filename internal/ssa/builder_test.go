package ssa

import (
	"testing"

	"github.com/stretchr/testify/require"
)

// TestBuilderDiamondMergesToBlockParam builds:
//
//	entry -> (then | else) -> merge -> ret
//
// with a variable assigned differently on each arm, and checks that
// sealing merge turns the ambiguous read into a single block param fed
// by both arms' branch arguments.
func TestBuilderDiamondMergesToBlockParam(t *testing.T) {
	fn := NewFunction("diamond", Tier0, []Type{TypeBool}, EffectPure)
	b := NewBuilder(fn)
	entry := fn.EntryBlock()
	b.Seal(entry)

	thenB := b.AllocateBasicBlock()
	elseB := b.AllocateBasicBlock()
	merge := b.AllocateBasicBlock()

	cond := entry.params[0]
	branch := &Instruction{opcode: OpBranch, v: cond, targets: []*BasicBlock{thenB, elseB}}
	entry.append(branch)
	b.AddPred(thenB, entry, branch)
	b.AddPred(elseB, entry, branch)
	b.Seal(thenB)
	b.Seal(elseB)

	x := b.DeclareVariable(TypeI64)

	b.SetCurrentBlock(thenB)
	one := b.allocateValue(TypeI64)
	b.DefineVariableInCurrentBB(x, one)
	jThen := &Instruction{opcode: OpJump, targets: []*BasicBlock{merge}}
	thenB.append(jThen)
	b.AddPred(merge, thenB, jThen)

	b.SetCurrentBlock(elseB)
	two := b.allocateValue(TypeI64)
	b.DefineVariableInCurrentBB(x, two)
	jElse := &Instruction{opcode: OpJump, targets: []*BasicBlock{merge}}
	elseB.append(jElse)
	b.AddPred(merge, elseB, jElse)

	b.Seal(merge)

	b.SetCurrentBlock(merge)
	got := b.FindValue(x)

	require.Len(t, merge.params, 1)
	require.Equal(t, merge.params[0], got)
	require.Equal(t, one, jThen.vs[0])
	require.Equal(t, two, jElse.vs[0])
}

// TestBuilderSinglePredSkipsParam checks that a sealed block with one
// predecessor resolves straight through without allocating a block param.
func TestBuilderSinglePredSkipsParam(t *testing.T) {
	fn := NewFunction("straight", Tier0, nil, EffectPure)
	b := NewBuilder(fn)
	entry := fn.EntryBlock()
	b.Seal(entry)

	x := b.DeclareVariable(TypeI64)
	v := b.allocateValue(TypeI64)
	b.DefineVariableInCurrentBB(x, v)

	next := b.AllocateBasicBlock()
	j := &Instruction{opcode: OpJump, targets: []*BasicBlock{next}}
	entry.append(j)
	b.AddPred(next, entry, j)
	b.Seal(next)

	b.SetCurrentBlock(next)
	got := b.FindValue(x)
	require.Equal(t, v, got)
	require.Empty(t, next.params)
}

// TestBuilderLoopBackEdgeResolvesViaUnsealedParam exercises the
// incomplete-CFG path: a loop header is sealed only after its back edge
// is known, so the first FindValue call against the loop-carried
// variable must park a placeholder that Seal later wires to a param.
func TestBuilderLoopBackEdgeResolvesViaUnsealedParam(t *testing.T) {
	fn := NewFunction("loop", Tier0, nil, EffectPure)
	b := NewBuilder(fn)
	entry := fn.EntryBlock()
	b.Seal(entry)

	x := b.DeclareVariable(TypeI64)
	initVal := b.allocateValue(TypeI64)
	b.DefineVariableInCurrentBB(x, initVal)

	header := b.AllocateBasicBlock()
	jEntry := &Instruction{opcode: OpJump, targets: []*BasicBlock{header}}
	entry.append(jEntry)
	b.AddPred(header, entry, jEntry)
	// header is NOT sealed yet: the back edge from the loop body is unknown.

	b.SetCurrentBlock(header)
	headerRead := b.FindValue(x) // forces a placeholder param on header
	require.True(t, headerRead.Valid())

	body := b.AllocateBasicBlock()
	bodyBranch := &Instruction{opcode: OpBranch, targets: []*BasicBlock{body, header}}
	header.append(bodyBranch)
	b.AddPred(body, header, bodyBranch)
	b.Seal(body)

	b.SetCurrentBlock(body)
	next := b.allocateValue(TypeI64)
	b.DefineVariableInCurrentBB(x, next)
	back := &Instruction{opcode: OpJump, targets: []*BasicBlock{header}}
	body.append(back)
	b.AddPred(header, body, back)

	b.Seal(header)

	require.Len(t, header.params, 1)
	require.Equal(t, initVal, jEntry.vs[0])
	require.Equal(t, next, back.vs[0])
}

func TestFunctionTierDiscipline(t *testing.T) {
	fn := NewFunction("strict", Tier0, nil, EffectPure)
	entry := fn.EntryBlock()
	guard := &Instruction{opcode: OpGuardType}
	entry.append(guard)
	require.Error(t, fn.ValidateTierDiscipline())

	fn2 := NewFunction("speculative", Tier1, nil, EffectPure)
	fn2.EntryBlock().append(&Instruction{opcode: OpGuardType})
	require.NoError(t, fn2.ValidateTierDiscipline())
}

func TestModuleFunctionLookup(t *testing.T) {
	m := NewModule("prog")
	fn := NewFunction("main", Tier0, nil, EffectPure)
	ref := m.AddFunction(fn)
	got, ok := m.FuncByName("main")
	require.True(t, ok)
	require.Equal(t, ref, got)
	require.Same(t, fn, m.Function(got))

	_, ok = m.FuncByName("missing")
	require.False(t, ok)
}
